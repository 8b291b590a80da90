package config

import "path/filepath"

// DefaultErrorPreview is how many entry errors are listed before truncation
const DefaultErrorPreview = 10

// GetDefault returns the default configuration
func GetDefault() *Config {
	cfg := &Config{
		LogFailure:     "fatal",
		WriteLog:       true,
		ErrorPreview:   DefaultErrorPreview,
		ProtectedPaths: []string{},
		Output:         "summary",
		Logging: LoggingConfig{
			Level: "info",
		},
	}

	// History lives next to the config file; stays empty if no config dir exists
	if dir, err := GetConfigDir(); err == nil {
		cfg.History.DBPath = filepath.Join(dir, "history.db")
	}

	return cfg
}
