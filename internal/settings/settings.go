// Package settings loads the Orion settings.
//
// Settings are grouped the same way the server groups them (shared, data, database, api, services, logging).
// Each value comes from, in increasing order of precedence: the default in the struct tag,
// the profile file in the Orion home directory, and the process environment.
// A loaded Settings value is never modified.
package settings

import (
	"fmt"
	"maps"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/Netflix/go-env"
	"github.com/mitchellh/go-homedir"
)

// SharedSettings are used across the other groups.
type SharedSettings struct {
	Home      string `env:"ORION_HOME,default=~/.orion"`
	DebugMode bool   `env:"ORION_DEBUG_MODE,default=false"`
	TestMode  bool   `env:"ORION_TEST_MODE,default=false"`
	OrionHost string `env:"ORION_HOST"` // the connection url for an orion instance
}

// DataLocationSettings describe where the data API stores results.
type DataLocationSettings struct {
	Name     string `env:"ORION_DATA_NAME,default=default"`
	Scheme   string `env:"ORION_DATA_SCHEME,default=file"`
	BasePath string `env:"ORION_DATA_BASE_PATH,default=/tmp"`
}

type DatabaseSettings struct {
	// defaults to a sqlite file in the home directory
	ConnectionURL string `env:"ORION_DATABASE_CONNECTION_URL" secret:"true"`
	Echo          bool   `env:"ORION_DATABASE_ECHO,default=false"`

	// statement timeouts, 0 = none
	Timeout         time.Duration `env:"ORION_DATABASE_TIMEOUT,default=1s"`
	ServicesTimeout time.Duration `env:"ORION_DATABASE_SERVICES_TIMEOUT"`
}

type APISettings struct {
	DefaultLimit int    `env:"ORION_API_DEFAULT_LIMIT,default=200"` // default limit for queries
	Host         string `env:"ORION_API_HOST,default=127.0.0.1"`
	Port         int    `env:"ORION_API_PORT,default=4300"`
	LogLevel     string `env:"ORION_API_LOG_LEVEL,default=info"`
}

type ServicesSettings struct {
	RunInApp bool `env:"ORION_SERVICES_RUN_IN_APP,default=false"`

	SchedulerLoopSeconds         time.Duration `env:"ORION_SERVICES_SCHEDULER_LOOP_SECONDS,default=60s"`
	SchedulerDeploymentBatchSize int           `env:"ORION_SERVICES_SCHEDULER_DEPLOYMENT_BATCH_SIZE,default=100"`
	SchedulerMaxRuns             int           `env:"ORION_SERVICES_SCHEDULER_MAX_RUNS,default=100"`
	SchedulerMaxScheduledTime    time.Duration `env:"ORION_SERVICES_SCHEDULER_MAX_SCHEDULED_TIME,default=2400h"` // 100 days

	AgentLoopSeconds     time.Duration `env:"ORION_SERVICES_AGENT_LOOP_SECONDS,default=5s"`
	AgentPrefetchSeconds time.Duration `env:"ORION_SERVICES_AGENT_PREFETCH_SECONDS,default=10s"`
}

type OrionSettings struct {
	Database DatabaseSettings
	Data     DataLocationSettings
	API      APISettings
	Services ServicesSettings
}

type LoggingSettings struct {
	SettingsPath string `env:"ORION_LOGGING_SETTINGS_PATH"` // defaults to logging.yml in the home directory
}

type Settings struct {
	SharedSettings
	Logging LoggingSettings
	Orion   OrionSettings
}

var validAPILogLevels = map[string]bool{
	"critical": true,
	"error":    true,
	"warning":  true,
	"info":     true,
	"debug":    true,
	"trace":    true,
}

// Load reads the settings from the process environment and the profile file.
func Load() (Settings, error) {
	return LoadFrom(os.Environ())
}

// LoadFrom is Load with an explicit environment (KEY=VALUE pairs).
func LoadFrom(environ []string) (Settings, error) {
	es, err := env.EnvironToEnvSet(environ)
	if err != nil {
		return Settings{}, fmt.Errorf("failed to parse environment: %w", err)
	}

	home, err := resolveHome(es)
	if err != nil {
		return Settings{}, err
	}

	profile, err := readProfile(ProfilePath(home))
	if err != nil {
		return Settings{}, err
	}

	merged := env.EnvSet{}
	for k, v := range profile {
		merged[k] = v
	}
	for k, v := range es {
		merged[k] = v
	}

	return parse(merged)
}

// APIURL is the address of the Orion API: ORION_HOST when set, otherwise built from the API host and port.
func (s Settings) APIURL() string {
	if s.OrionHost != "" {
		return s.OrionHost
	}
	return fmt.Sprintf("http://%s:%d/api", s.Orion.API.Host, s.Orion.API.Port)
}

// ResolveHome returns the expanded Orion home directory named by environ.
// It ignores the profile file, so it works even when the profile holds invalid values.
func ResolveHome(environ []string) (string, error) {
	es, err := env.EnvironToEnvSet(environ)
	if err != nil {
		return "", fmt.Errorf("failed to parse environment: %w", err)
	}
	return resolveHome(es)
}

// env.Unmarshal deletes the keys it consumes, so it is always given a copy.
func resolveHome(es env.EnvSet) (string, error) {
	var shared SharedSettings
	if err := env.Unmarshal(maps.Clone(es), &shared); err != nil {
		return "", fmt.Errorf("failed to unmarshal shared settings: %w", err)
	}
	home, err := homedir.Expand(shared.Home)
	if err != nil {
		return "", fmt.Errorf("failed to expand ORION_HOME %q: %w", shared.Home, err)
	}
	return home, nil
}

func parse(es env.EnvSet) (Settings, error) {
	var s Settings

	groups := []struct {
		name string
		v    any
	}{
		{"shared", &s.SharedSettings},
		{"logging", &s.Logging},
		{"database", &s.Orion.Database},
		{"data", &s.Orion.Data},
		{"api", &s.Orion.API},
		{"services", &s.Orion.Services},
	}
	for _, g := range groups {
		if err := env.Unmarshal(maps.Clone(es), g.v); err != nil {
			return Settings{}, fmt.Errorf("failed to unmarshal %s settings: %w", g.name, err)
		}
	}

	home, err := homedir.Expand(s.Home)
	if err != nil {
		return Settings{}, fmt.Errorf("failed to expand ORION_HOME %q: %w", s.Home, err)
	}
	s.Home = home

	if s.Orion.Database.ConnectionURL == "" {
		s.Orion.Database.ConnectionURL = "sqlite+aiosqlite:///" + filepath.Join(home, "orion.db")
	}

	if s.Logging.SettingsPath == "" {
		s.Logging.SettingsPath = filepath.Join(home, "logging.yml")
	} else if s.Logging.SettingsPath, err = homedir.Expand(s.Logging.SettingsPath); err != nil {
		return Settings{}, fmt.Errorf("failed to expand ORION_LOGGING_SETTINGS_PATH: %w", err)
	}

	if err := validate(s); err != nil {
		return Settings{}, fmt.Errorf("settings validation failed: %w", err)
	}
	return s, nil
}

func validate(s Settings) error {
	api := s.Orion.API
	if api.Port < 1 || api.Port > 65535 {
		return fmt.Errorf("ORION_API_PORT must be between 1 and 65535, got %d", api.Port)
	}
	if api.DefaultLimit < 1 {
		return fmt.Errorf("ORION_API_DEFAULT_LIMIT must be at least 1, got %d", api.DefaultLimit)
	}
	if !validAPILogLevels[api.LogLevel] {
		return fmt.Errorf("invalid ORION_API_LOG_LEVEL '%s'. Valid levels: critical, error, warning, info, debug, trace", api.LogLevel)
	}

	db := s.Orion.Database
	if db.Timeout < 0 {
		return fmt.Errorf("ORION_DATABASE_TIMEOUT must not be negative, got %v", db.Timeout)
	}
	if db.ServicesTimeout < 0 {
		return fmt.Errorf("ORION_DATABASE_SERVICES_TIMEOUT must not be negative, got %v", db.ServicesTimeout)
	}

	svc := s.Orion.Services
	if svc.SchedulerLoopSeconds <= 0 {
		return fmt.Errorf("ORION_SERVICES_SCHEDULER_LOOP_SECONDS must be positive, got %v", svc.SchedulerLoopSeconds)
	}
	if svc.SchedulerDeploymentBatchSize < 1 {
		return fmt.Errorf("ORION_SERVICES_SCHEDULER_DEPLOYMENT_BATCH_SIZE must be at least 1, got %d", svc.SchedulerDeploymentBatchSize)
	}
	if svc.SchedulerMaxRuns < 1 {
		return fmt.Errorf("ORION_SERVICES_SCHEDULER_MAX_RUNS must be at least 1, got %d", svc.SchedulerMaxRuns)
	}
	if svc.SchedulerMaxScheduledTime <= 0 {
		return fmt.Errorf("ORION_SERVICES_SCHEDULER_MAX_SCHEDULED_TIME must be positive, got %v", svc.SchedulerMaxScheduledTime)
	}
	if svc.AgentLoopSeconds <= 0 {
		return fmt.Errorf("ORION_SERVICES_AGENT_LOOP_SECONDS must be positive, got %v", svc.AgentLoopSeconds)
	}
	if svc.AgentPrefetchSeconds < 0 {
		return fmt.Errorf("ORION_SERVICES_AGENT_PREFETCH_SECONDS must not be negative, got %v", svc.AgentPrefetchSeconds)
	}

	if s.OrionHost != "" {
		u, err := url.ParseRequestURI(s.OrionHost)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("ORION_HOST is not a valid URL: %s", s.OrionHost)
		}
	}
	return nil
}
