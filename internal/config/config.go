package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/imamik/statehub/internal/helm"
	"github.com/imamik/statehub/internal/kube"
	"github.com/imamik/statehub/internal/reconciler"
)

// Defaults.
const (
	CurrentVersion = "2"
	DefaultAPI     = "https://api.statehub.io"
	DefaultConsole = "https://console.statehub.io"
	FileName       = "config.yaml"
)

// Environment variables.
const (
	EnvHome  = "STATEHUB_HOME"
	EnvAPI   = "SHAPI"
	EnvToken = "SHTOKEN"
)

// Config is the effective CLI configuration.
type Config struct {
	Version  string   `yaml:"version"`
	API      string   `yaml:"api"`
	Console  string   `yaml:"console"`
	Token    string   `yaml:"token,omitempty"`
	Register Register `yaml:"register,omitempty"`
}

// Register tunes cluster registration.
type Register struct {
	// Namespace receives the token secret, the configmap and the charts.
	Namespace string `yaml:"namespace,omitempty"`

	// PollInterval is the delay between location status checks.
	PollInterval time.Duration `yaml:"pollInterval,omitempty"`

	// WaitTimeout bounds waiting for a location. Zero waits indefinitely.
	WaitTimeout time.Duration `yaml:"waitTimeout,omitempty"`

	// HelmMode is "binary" or "library".
	HelmMode string `yaml:"helmMode,omitempty"`

	// Receipts is a directory or an s3://bucket/prefix URL.
	Receipts string `yaml:"receipts,omitempty"`
}

// Default returns the built in configuration.
func Default() Config {
	return Config{
		Version: CurrentVersion,
		API:     DefaultAPI,
		Console: DefaultConsole,
		Register: Register{
			Namespace:    kube.DefaultNamespace,
			PollInterval: reconciler.DefaultPollInterval,
			HelmMode:     string(helm.ModeBinary),
		},
	}
}

// Home returns $STATEHUB_HOME, or ~/.statehub.
func Home() (string, error) {
	if home := os.Getenv(EnvHome); home != "" {
		return home, nil
	}
	userHome, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to determine config directory: %w", err)
	}
	return filepath.Join(userHome, ".statehub"), nil
}

// Path returns the config file path inside home.
func Path(home string) string {
	return filepath.Join(home, FileName)
}

// Validate checks the registration tunables.
func (c Config) Validate() error {
	if c.API == "" {
		return fmt.Errorf("management API URL is empty")
	}
	if c.Register.PollInterval <= 0 {
		return fmt.Errorf("register.pollInterval must be positive, got %v", c.Register.PollInterval)
	}
	if c.Register.WaitTimeout < 0 {
		return fmt.Errorf("register.waitTimeout must not be negative, got %v", c.Register.WaitTimeout)
	}
	if _, err := helm.ParseMode(c.Register.HelmMode); err != nil {
		return fmt.Errorf("register.helmMode: %w", err)
	}
	return nil
}

// ReconcilerOptions returns the reconciler tuning.
func (c Config) ReconcilerOptions() reconciler.Options {
	return reconciler.Options{
		PollInterval: c.Register.PollInterval,
		WaitTimeout:  c.Register.WaitTimeout,
	}
}
