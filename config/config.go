// Package config loads the yaml configuration file and builds the zap
// logger the rest of the module uses.
package config

import (
	"fmt"
	"os"

	"github.com/casskit/casskit/driver"
	"gopkg.in/yaml.v2"
)

// LoggerConfig selects console or rotating-file output for the logger.
type LoggerConfig struct {
	OutputType string `yaml:"outputType"`
	LogLevel   string `yaml:"logLevel"`
	// file output only
	Filename   string `yaml:"fileName"`
	MaxSize    int    `yaml:"maxSize"` // megabytes
	MaxBackups int    `yaml:"maxBackups"`
	MaxAge     int    `yaml:"maxAge"` // days
	Compress   bool   `yaml:"compress"`
}

// Config is the top-level yaml document.
type Config struct {
	Cluster driver.ClusterConfig `yaml:"cluster"`
	Logger  *LoggerConfig        `yaml:"logger"`
}

// Load reads and validates a yaml configuration file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return Parse(data)
}

// Parse unmarshals a yaml document and applies defaults.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := validateAndApplyDefaults(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func validateAndApplyDefaults(cfg *Config) error {
	if len(cfg.Cluster.ContactPoints) == 0 {
		return fmt.Errorf("at least one contact point is required")
	}
	if cfg.Cluster.Port == 0 {
		cfg.Cluster.Port = 9042
	}
	if cfg.Logger != nil {
		switch cfg.Logger.OutputType {
		case "", "stdout", "file":
		default:
			return fmt.Errorf("invalid logger output type %q", cfg.Logger.OutputType)
		}
	}
	return nil
}
