package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"gopkg.in/yaml.v3"
)

// FileName is the config file looked up in the working and config
// directories.
const FileName = "mode7.yaml"

// Load loads configuration with priority: defaults < file. An explicit path
// must exist; without one the standard locations are searched. Flag
// overrides are applied afterwards by the caller.
func Load(explicit string) (*Config, error) {
	cfg := Default()

	configPath := explicit
	if configPath == "" {
		configPath = findConfigFile()
	}

	if configPath != "" {
		if err := loadFromFile(cfg, configPath); err != nil {
			return nil, fmt.Errorf("loading config from %s: %w", configPath, err)
		}
	}

	return cfg, nil
}

// findConfigFile looks for config in standard locations.
func findConfigFile() string {
	candidates := []string{
		FileName,
		filepath.Join(ConfigDir(), FileName),
	}

	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// ConfigDir returns the OS-appropriate config directory.
func ConfigDir() string {
	switch runtime.GOOS {
	case "darwin":
		home, _ := os.UserHomeDir()
		return filepath.Join(home, "Library", "Application Support", "mode7")
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "mode7")
	default: // Linux and others
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			return filepath.Join(xdg, "mode7")
		}
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".config", "mode7")
	}
}

// loadFromFile loads config from a YAML file, merging with existing values.
// Relative asset paths are resolved against the file's directory.
func loadFromFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return err
	}
	cfg.Assets.resolve(filepath.Dir(path))
	return nil
}

func (a *AssetsConfig) resolve(dir string) {
	abs := func(p string) string {
		if p == "" || filepath.IsAbs(p) {
			return p
		}
		return filepath.Join(dir, p)
	}
	a.Floor = abs(a.Floor)
	a.Attributes = abs(a.Attributes)
	a.Scene = abs(a.Scene)
	for i := range a.Sky {
		a.Sky[i] = abs(a.Sky[i])
	}
}
