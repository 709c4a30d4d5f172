package settings

import (
	"errors"
	"fmt"
	"io/fs"
	"maps"
	"os"
	"path/filepath"

	"github.com/Netflix/go-env"
	"github.com/joho/godotenv"
)

const profileFileName = "profile.env"

// ProfilePath returns the location of the profile file in the given home directory.
func ProfilePath(home string) string {
	return filepath.Join(home, profileFileName)
}

// readProfile returns the values stored in the profile file. A missing file is an empty profile.
func readProfile(path string) (map[string]string, error) {
	values, err := godotenv.Read(path)
	if errors.Is(err, fs.ErrNotExist) {
		return map[string]string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read profile %s: %w", path, err)
	}
	return values, nil
}

// SetProfileValues stores values in the profile file at path, keeping the values already there.
// Keys must be known settings and the resulting profile must produce valid settings.
func SetProfileValues(path string, values map[string]string) error {
	for key := range values {
		if err := checkProfileKey(key); err != nil {
			return err
		}
	}

	profile, err := readProfile(path)
	if err != nil {
		return err
	}
	for k, v := range values {
		profile[k] = v
	}

	if _, err := parse(env.EnvSet(maps.Clone(profile))); err != nil {
		return err
	}
	return writeProfile(path, profile)
}

// UnsetProfileValues removes keys from the profile file at path.
func UnsetProfileValues(path string, keys []string) error {
	for _, key := range keys {
		if err := checkProfileKey(key); err != nil {
			return err
		}
	}

	profile, err := readProfile(path)
	if err != nil {
		return err
	}
	for _, key := range keys {
		delete(profile, key)
	}
	return writeProfile(path, profile)
}

func checkProfileKey(key string) error {
	if key == "ORION_HOME" {
		return fmt.Errorf("ORION_HOME locates the profile and can only be set in the environment")
	}
	if !knownKeys()[key] {
		return fmt.Errorf("unknown setting %q", key)
	}
	return nil
}

func writeProfile(path string, profile map[string]string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("failed to create profile directory: %w", err)
	}
	if err := godotenv.Write(profile, path); err != nil {
		return fmt.Errorf("failed to write profile %s: %w", path, err)
	}
	// the profile may hold the database connection url
	if err := os.Chmod(path, 0o600); err != nil {
		return fmt.Errorf("failed to restrict profile permissions: %w", err)
	}
	return nil
}
