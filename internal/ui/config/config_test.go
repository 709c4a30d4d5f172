package config

import (
	"strings"
	"testing"
	"time"

	"github.com/orionhq/dashboard/internal/settings"
)

func loadSettings(t *testing.T, environ ...string) settings.Settings {
	t.Helper()
	s, err := settings.LoadFrom(append([]string{"ORION_HOME=" + t.TempDir()}, environ...))
	if err != nil {
		t.Fatalf("settings.LoadFrom() error = %v", err)
	}
	return s
}

func TestNewConfigDefaults(t *testing.T) {
	cfg, err := NewConfigFrom(nil, loadSettings(t))
	if err != nil {
		t.Fatalf("NewConfigFrom() error = %v", err)
	}

	if cfg.Environment != "dev" || cfg.Host != "127.0.0.1" || cfg.Port != 4200 {
		t.Errorf("server config = %s %s:%d", cfg.Environment, cfg.Host, cfg.Port)
	}
	if cfg.APIURL != "http://127.0.0.1:4300/api" {
		t.Errorf("APIURL = %q", cfg.APIURL)
	}
	if cfg.APITimeout != 10*time.Second {
		t.Errorf("APITimeout = %v", cfg.APITimeout)
	}
	if cfg.DefaultLimit != 200 {
		t.Errorf("DefaultLimit = %d", cfg.DefaultLimit)
	}
	if len(cfg.AllowedOrigins) != 1 || cfg.AllowedOrigins[0] != "*" {
		t.Errorf("AllowedOrigins = %v", cfg.AllowedOrigins)
	}
}

func TestNewConfigAPIURLResolution(t *testing.T) {
	tests := []struct {
		name     string
		environ  []string
		settings []string
		want     string
	}{
		{
			name: "api host and port",
			want: "http://127.0.0.1:4300/api",
		},
		{
			name:     "orion host",
			settings: []string{"ORION_HOST=http://orion.internal:4200/api"},
			want:     "http://orion.internal:4200/api",
		},
		{
			name:     "ui override beats orion host",
			environ:  []string{"ORION_UI_API_URL=https://orion.example.com/api"},
			settings: []string{"ORION_HOST=http://orion.internal:4200/api"},
			want:     "https://orion.example.com/api",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := NewConfigFrom(tt.environ, loadSettings(t, tt.settings...))
			if err != nil {
				t.Fatalf("NewConfigFrom() error = %v", err)
			}
			if cfg.APIURL != tt.want {
				t.Errorf("APIURL = %q, want %q", cfg.APIURL, tt.want)
			}
		})
	}
}

func TestNewConfigValidation(t *testing.T) {
	tests := []struct {
		name    string
		environ []string
		wantErr string
	}{
		{"bad environment", []string{"ORION_UI_ENVIRONMENT=qa"}, "invalid environment"},
		{"port", []string{"ORION_UI_PORT=0"}, "port must be between"},
		{"read timeout", []string{"ORION_UI_READ_TIMEOUT=0s"}, "read timeout"},
		{"api timeout", []string{"ORION_UI_API_TIMEOUT=-1s"}, "api timeout"},
		{"api url scheme", []string{"ORION_UI_API_URL=ftp://127.0.0.1/api"}, "http or https"},
		{"api url relative", []string{"ORION_UI_API_URL=api"}, "not a valid URL"},
		{"prod needs origins", []string{"ORION_UI_ENVIRONMENT=prod"}, "ORION_UI_ALLOWED_ORIGINS must be set"},
		{"prod rejects wildcard", []string{"ORION_UI_ENVIRONMENT=prod", "ORION_UI_ALLOWED_ORIGINS=*"}, "must not be set to '*'"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewConfigFrom(tt.environ, loadSettings(t))
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error = %q, want it to contain %q", err, tt.wantErr)
			}
		})
	}
}

func TestNewCORSMiddleware(t *testing.T) {
	cfg, err := NewConfigFrom([]string{
		"ORION_UI_ENVIRONMENT=prod",
		"ORION_UI_ALLOWED_ORIGINS=https://dashboard.example.com| https://ops.example.com",
	}, loadSettings(t))
	if err != nil {
		t.Fatalf("NewConfigFrom() error = %v", err)
	}

	if _, err := NewCORSMiddleware(cfg); err != nil {
		t.Errorf("NewCORSMiddleware() error = %v", err)
	}
}
