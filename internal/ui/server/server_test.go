package server

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/orionhq/dashboard/internal/apperrors"
	"github.com/orionhq/dashboard/internal/ui/config"
)

func testConfig(t *testing.T, apiURL string) *config.Config {
	t.Helper()
	cfg := &config.Config{
		Environment:  "test",
		Host:         "127.0.0.1",
		Port:         4200,
		LogLevel:     "debug",
		ReadTimeout:  time.Second,
		WriteTimeout: time.Second,
		IdleTimeout:  time.Second,
		APIURL:       apiURL,
		APITimeout:   time.Second,
		DefaultLimit: 200,
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	return cfg
}

func newTestServer(t *testing.T, apiURL string) http.Handler {
	t.Helper()
	s, err := NewServer(testConfig(t, apiURL), slog.New(slog.NewTextHandler(io.Discard, nil)))
	if err != nil {
		t.Fatalf("NewServer() error = %v", err)
	}
	return s.Handler()
}

func TestLiveness(t *testing.T) {
	handler := newTestServer(t, "http://127.0.0.1:4300/api")

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest("GET", "/health/live", nil))

	if rr.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rr.Code)
	}
}

func TestUISettings(t *testing.T) {
	handler := newTestServer(t, "https://orion.example.com/api")

	req := httptest.NewRequest("GET", "/ui-settings", nil)
	req.Header.Set("Origin", "https://dashboard.example.com")
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rr.Code)
	}

	var got UISettings
	if err := json.NewDecoder(rr.Body).Decode(&got); err != nil {
		t.Fatalf("could not decode response: %v", err)
	}
	if got.APIURL != "https://orion.example.com/api" {
		t.Errorf("api_url = %q", got.APIURL)
	}
	if got.DefaultLimit != 200 {
		t.Errorf("default_limit = %d", got.DefaultLimit)
	}
	if got.Version == "" {
		t.Error("version missing")
	}
	if origin := rr.Header().Get("Access-Control-Allow-Origin"); origin != "*" {
		t.Errorf("Access-Control-Allow-Origin = %q, want *", origin)
	}
	if rr.Header().Get("X-Content-Type-Options") != "nosniff" {
		t.Error("security headers not applied")
	}
}

func TestReadiness(t *testing.T) {
	healthy := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/health" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte("true"))
	}))
	defer healthy.Close()

	failing := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"detail":"database is locked"}`))
	}))
	defer failing.Close()

	down := httptest.NewServer(http.NotFoundHandler())
	downURL := down.URL
	down.Close()

	tests := []struct {
		name     string
		apiURL   string
		wantCode int
		wantErr  apperrors.ErrorCode
	}{
		{"api healthy", healthy.URL + "/api", http.StatusOK, ""},
		{"api error", failing.URL + "/api", http.StatusServiceUnavailable, apperrors.ErrCodeOrionAPIError},
		{"api down", downURL + "/api", http.StatusServiceUnavailable, apperrors.ErrCodeOrionAPIUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := newTestServer(t, tt.apiURL)

			rr := httptest.NewRecorder()
			handler.ServeHTTP(rr, httptest.NewRequest("GET", "/health/ready", nil))

			if rr.Code != tt.wantCode {
				t.Fatalf("status = %d, want %d", rr.Code, tt.wantCode)
			}
			if tt.wantErr == "" {
				return
			}

			var errResponse apperrors.ErrorResponse
			if err := json.NewDecoder(rr.Body).Decode(&errResponse); err != nil {
				t.Fatalf("could not decode error response: %v", err)
			}
			if errResponse.ErrorCode != tt.wantErr {
				t.Errorf("error_code = %q, want %q", errResponse.ErrorCode, tt.wantErr)
			}
		})
	}
}

func TestStartShutdown(t *testing.T) {
	cfg := testConfig(t, "http://127.0.0.1:4300/api")
	cfg.Port = 0 // any free port

	s, err := NewServer(cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))
	if err != nil {
		t.Fatalf("NewServer() error = %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- s.Start(ctx)
	}()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Start() error = %v", err)
		}
	case <-time.After(ServerShutdownTimeout):
		t.Fatal("server did not shut down")
	}
}
