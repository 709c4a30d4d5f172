package main

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func runCmd(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestConfigSetViewUnset(t *testing.T) {
	t.Setenv("ORION_HOME", t.TempDir())

	out, err := runCmd(t, "config", "set", "ORION_API_DEFAULT_LIMIT=75", "ORION_HOST=http://10.1.2.3:4300/api")
	if err != nil {
		t.Fatalf("config set error = %v (%s)", err, out)
	}
	if !strings.Contains(out, "set ORION_API_DEFAULT_LIMIT") {
		t.Errorf("unexpected output: %s", out)
	}

	out, err = runCmd(t, "config", "view")
	if err != nil {
		t.Fatalf("config view error = %v", err)
	}
	for _, want := range []string{"ORION_API_DEFAULT_LIMIT", "75", "http://10.1.2.3:4300/api", "profile.env"} {
		if !strings.Contains(out, want) {
			t.Errorf("config view output missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "sqlite+aiosqlite") {
		t.Errorf("connection url should be masked:\n%s", out)
	}

	if _, err := runCmd(t, "config", "unset", "ORION_HOST"); err != nil {
		t.Fatalf("config unset error = %v", err)
	}
	out, err = runCmd(t, "config", "view")
	if err != nil {
		t.Fatalf("config view error = %v", err)
	}
	if strings.Contains(out, "10.1.2.3") {
		t.Errorf("ORION_HOST still present after unset:\n%s", out)
	}
}

func TestConfigSetInvalid(t *testing.T) {
	t.Setenv("ORION_HOME", t.TempDir())

	tests := []struct {
		name string
		args []string
	}{
		{"missing equals", []string{"config", "set", "ORION_API_PORT"}},
		{"unknown key", []string{"config", "set", "ORION_COLOUR=blue"}},
		{"invalid value", []string{"config", "set", "ORION_API_PORT=99999"}},
		{"no args", []string{"config", "set"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := runCmd(t, tt.args...); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestHealth(t *testing.T) {
	t.Setenv("ORION_HOME", t.TempDir())

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/api/health":
			_, _ = w.Write([]byte("true"))
		case "/api/admin/version":
			_, _ = w.Write([]byte(`"2.0a5"`))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	out, err := runCmd(t, "health", "--api-url", srv.URL+"/api")
	if err != nil {
		t.Fatalf("health error = %v (%s)", err, out)
	}
	if !strings.Contains(out, "is healthy (server version 2.0a5)") {
		t.Errorf("unexpected output: %s", out)
	}
}

func TestHealthUnreachable(t *testing.T) {
	t.Setenv("ORION_HOME", t.TempDir())

	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	if _, err := runCmd(t, "health", "--api-url", url+"/api"); err == nil {
		t.Error("expected error for unreachable API")
	}
}

func TestHealthVersionUnavailable(t *testing.T) {
	t.Setenv("ORION_HOME", t.TempDir())

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if r.URL.Path == "/api/health" {
			_, _ = w.Write([]byte("true"))
			return
		}
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"detail":"version lookup failed"}`))
	}))
	defer srv.Close()

	out, err := runCmd(t, "health", "--debug", "--api-url", srv.URL+"/api")
	if err != nil {
		t.Fatalf("health error = %v (%s)", err, out)
	}
	if !strings.Contains(out, "server version unknown") {
		t.Errorf("unexpected output: %s", out)
	}
	for _, want := range []string{"could not read server version", "version lookup failed"} {
		if !strings.Contains(out, want) {
			t.Errorf("debug output missing %q:\n%s", want, out)
		}
	}
}
