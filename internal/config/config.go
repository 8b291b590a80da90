package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/fenilsonani/tempclean/internal/cleaner"
	"github.com/fenilsonani/tempclean/internal/platform"
	"gopkg.in/yaml.v3"
)

// Config represents the application configuration
type Config struct {
	Directory      string        `yaml:"directory"`    // empty means read TempEnvVar
	TempEnvVar     string        `yaml:"temp_env_var"` // empty means the platform default, then TEMP
	LogDir         string        `yaml:"log_dir"`      // where sweep logs go, empty is the working directory
	LogFailure     string        `yaml:"log_failure"`  // "fatal" or "degrade"
	WriteLog       bool          `yaml:"write_log"`
	ErrorPreview   int           `yaml:"error_preview"` // errors listed before "... and N more", 0 lists all
	ProtectedPaths []string      `yaml:"protected_paths"`
	Verbose        bool          `yaml:"verbose"`
	Output         string        `yaml:"output"` // summary, table, json, yaml
	Logging        LoggingConfig `yaml:"logging"`
	History        HistoryConfig `yaml:"history"`
	Metrics        MetricsConfig `yaml:"metrics"`
}

// LoggingConfig holds diagnostic logging settings
type LoggingConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
	JSON  bool   `yaml:"json"`
}

// HistoryConfig holds the sweep audit trail settings
type HistoryConfig struct {
	Enabled bool   `yaml:"enabled"`
	DBPath  string `yaml:"db_path"`
}

// MetricsConfig holds Prometheus export settings
type MetricsConfig struct {
	Textfile string `yaml:"textfile"` // node_exporter textfile collector target
}

// Load loads configuration from a file
func Load(configPath string) (*Config, error) {
	// If config doesn't exist, return default config
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return GetDefault(), nil
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Unset keys keep their defaults
	config := GetDefault()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// Save saves configuration to a file
func Save(config *Config, configPath string) error {
	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Directory != "" && !filepath.IsAbs(c.Directory) {
		return fmt.Errorf("directory must be absolute: %s", c.Directory)
	}

	if _, err := cleaner.ParseLogPolicy(c.LogFailure); err != nil {
		return err
	}

	if c.ErrorPreview < 0 {
		return fmt.Errorf("error preview must be >= 0")
	}

	switch c.Output {
	case "", "summary", "table", "json", "yaml":
	default:
		return fmt.Errorf("unknown output format %q (want summary, table, json or yaml)", c.Output)
	}

	for _, path := range c.ProtectedPaths {
		if !filepath.IsAbs(path) {
			return fmt.Errorf("protected path must be absolute: %s", path)
		}
	}

	if c.History.Enabled && c.History.DBPath == "" {
		return fmt.Errorf("history db_path is required when history is enabled")
	}

	return nil
}

// LogPolicy returns the parsed log failure policy
func (c *Config) LogPolicy() cleaner.LogPolicy {
	policy, _ := cleaner.ParseLogPolicy(c.LogFailure)
	return policy
}

// EnvVar returns the variable consulted when no directory is configured. An
// explicit temp_env_var is used as is; otherwise env decides between the
// platform variable and TEMP.
func (c *Config) EnvVar(env platform.EnvResolver) string {
	if c.TempEnvVar != "" {
		return c.TempEnvVar
	}
	return platform.ResolveTempEnvVar(env)
}

// GetConfigDir returns the tempclean config directory
func GetConfigDir() (string, error) {
	base, err := platform.GetUserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(base, "tempclean"), nil
}

// GetConfigPath returns the default config path
func GetConfigPath() (string, error) {
	dir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}

// EnsureConfigExists creates a default config file if it doesn't exist
func EnsureConfigExists(configPath string) (string, error) {
	if configPath == "" {
		var err error
		configPath, err = GetConfigPath()
		if err != nil {
			return "", err
		}
	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		if err := Save(GetDefault(), configPath); err != nil {
			return "", err
		}
	}

	return configPath, nil
}
