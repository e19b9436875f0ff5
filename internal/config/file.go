package config

import (
	"errors"
	"os"

	"gopkg.in/yaml.v3"
)

// ErrConfigNotFound is returned when an explicitly requested config file does not exist
var ErrConfigNotFound = errors.New("configuration file not found")

// LoadFile overlays the YAML document at path onto cfg. Keys absent from the
// file keep their current values.
func LoadFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return ErrConfigNotFound
		}
		return err
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return err
	}
	if cfg.Headers == nil {
		cfg.Headers = map[string]string{}
	}
	return nil
}

// FindConfigFile returns configPath when it exists, otherwise DefaultConfigFile
// in the working directory when no explicit path was given. It returns "" when
// nothing is found.
func FindConfigFile(configPath string) string {
	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			return configPath
		}
		return ""
	}

	if _, err := os.Stat(DefaultConfigFile); err == nil {
		return DefaultConfigFile
	}
	return ""
}
