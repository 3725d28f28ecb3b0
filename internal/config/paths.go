package config

import (
	"os"
	"path/filepath"
)

// ConfigFileName is the per-directory defaults file.
const ConfigFileName = ".multifast.yaml"

// ConfigEnv names an environment variable holding a config file path.
const ConfigEnv = "MULTIFAST_CONFIG"

// FindConfigFile returns the config file to load when --config is not
// given. Priority order:
//  1. MULTIFAST_CONFIG environment variable (if set)
//  2. .multifast.yaml in the current directory or any parent
//  3. multifast/config.yaml under the user config directory
//
// When none exists the local file name is returned, which LoadConfig treats
// as "use defaults".
func FindConfigFile() string {
	if path := os.Getenv(ConfigEnv); path != "" {
		return path
	}

	if cwd, err := os.Getwd(); err == nil {
		current := cwd
		for {
			candidate := filepath.Join(current, ConfigFileName)
			if _, err := os.Stat(candidate); err == nil {
				return candidate
			}
			parent := filepath.Dir(current)
			if parent == current {
				break
			}
			current = parent
		}
	}

	if dir, err := os.UserConfigDir(); err == nil {
		candidate := filepath.Join(dir, "multifast", "config.yaml")
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
	}

	return ConfigFileName
}
