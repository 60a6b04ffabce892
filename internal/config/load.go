package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// v1 is the original file format, without a console URL.
type v1 struct {
	Version string `yaml:"version"`
	API     string `yaml:"api"`
	Token   string `yaml:"token,omitempty"`
}

// Load reads the config file in home. A missing file yields the defaults.
// Files of an unknown version are ignored in favour of the defaults.
func Load(home string) (Config, error) {
	cfg := Default()
	cfg.Register.Receipts = filepath.Join(home, "receipts")

	// #nosec G304
	data, err := os.ReadFile(Path(home))
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config file: %w", err)
	}

	parsed, err := parse(data, cfg)
	if err != nil {
		return Config{}, err
	}
	return parsed, nil
}

// parse decodes data on top of defaults according to its version.
func parse(data []byte, defaults Config) (Config, error) {
	var probe struct {
		Version string `yaml:"version"`
	}
	if err := yaml.Unmarshal(data, &probe); err != nil {
		return Config{}, fmt.Errorf("failed to parse config file: %w", err)
	}

	switch probe.Version {
	case "1":
		var old v1
		if err := yaml.Unmarshal(data, &old); err != nil {
			return Config{}, fmt.Errorf("failed to parse version 1 config: %w", err)
		}
		cfg := defaults
		if old.API != "" {
			cfg.API = old.API
		}
		cfg.Token = old.Token
		return cfg, nil
	case CurrentVersion:
		cfg := defaults
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("failed to parse config file: %w", err)
		}
		return cfg, nil
	default:
		return defaults, nil
	}
}

// Overrides are values given on the command line. Empty fields are unset.
type Overrides struct {
	API     string
	Console string
	Token   string
}

// Resolve applies environment variables and then flag overrides to cfg.
func Resolve(cfg Config, getenv func(string) string, flags Overrides) Config {
	if v := getenv(EnvAPI); v != "" {
		cfg.API = v
	}
	if v := getenv(EnvToken); v != "" {
		cfg.Token = v
	}

	if flags.API != "" {
		cfg.API = flags.API
	}
	if flags.Console != "" {
		cfg.Console = flags.Console
	}
	if flags.Token != "" {
		cfg.Token = flags.Token
	}
	return cfg
}

// Save writes cfg to the config file in home and returns its path.
func Save(home string, cfg Config) (string, error) {
	cfg.Version = CurrentVersion
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return "", fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.MkdirAll(home, 0o700); err != nil {
		return "", fmt.Errorf("failed to create config directory: %w", err)
	}
	path := Path(home)
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return "", fmt.Errorf("failed to write config file: %w", err)
	}
	return path, nil
}
