package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

const (
	configDir  = ".config/linkvault"
	configFile = "config.yml"
)

func GetConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, configDir), nil
}

// DefaultFilePath returns ~/.config/linkvault/config.yml.
func DefaultFilePath() (string, error) {
	dir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, configFile), nil
}

// readFile loads the YAML overlay. An explicit path must exist; the default
// path is optional and silently skipped when absent.
func readFile(path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		p, err := DefaultFilePath()
		if err != nil {
			return nil, nil
		}
		path = p
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			if explicit {
				return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, path)
			}
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config file: %w", err)
	}
	return &cfg, nil
}

// Save writes the repository settings (never the token) to path.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	out := *c
	out.Token = ""
	data, err := yaml.Marshal(&out)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// MirrorPath is where `pull` keeps the local snapshot:
// the configured mirror_dir, else ~/.local/state/linkvault.
func (c *Config) MirrorPath() (string, error) {
	if c.MirrorDir != "" {
		return c.MirrorDir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ".local", "state", "linkvault"), nil
}
