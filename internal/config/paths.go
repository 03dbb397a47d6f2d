package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ProjectConfigFile is looked up in the working directory
const ProjectConfigFile = "tasker.toml"

// defaultDataDir uses the XDG data directory or falls back to ~/.local/share
func defaultDataDir() string {
	dataDir := os.Getenv("XDG_DATA_HOME")
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return filepath.Join(".", ".tasker")
		}
		dataDir = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dataDir, "tasker")
}

// UserConfigPath returns where the user config file is expected
func UserConfigPath() string {
	configDir := os.Getenv("XDG_CONFIG_HOME")
	if configDir == "" {
		dir, err := os.UserConfigDir()
		if err != nil {
			return ""
		}
		configDir = dir
	}
	return filepath.Join(configDir, "tasker", "config.toml")
}

func findUserConfigFile() string {
	path := UserConfigPath()
	if path != "" && fileExists(path) {
		return path
	}
	return ""
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

func expandHome(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("expand %s: %w", path, err)
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
}
