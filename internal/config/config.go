package config

import (
	"fmt"
	"os"
	"time"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Extractor ExtractorConfig `yaml:"extractor"`
	History   HistoryConfig   `yaml:"history"`
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Host        string        `yaml:"host" envconfig:"SERVER_HOST"`
	Port        int           `yaml:"port" envconfig:"SERVER_PORT"`
	ReadTimeout time.Duration `yaml:"read_timeout" envconfig:"SERVER_READ_TIMEOUT"`
	// No write timeout: a relay stream runs as long as the extraction does.
}

// ExtractorConfig holds extraction tool configuration.
type ExtractorConfig struct {
	Binary string `yaml:"binary" envconfig:"EXTRACTOR_BINARY"`
	Format string `yaml:"format" envconfig:"EXTRACTOR_FORMAT"`
	// ExtraArgs are inserted before the URL, after the fixed format/output flags.
	ExtraArgs []string `yaml:"extra_args" envconfig:"EXTRACTOR_EXTRA_ARGS"`
	// DetachOnDisconnect leaves the child process running when the client
	// goes away. Off by default: an orphaned extraction is wasted work.
	DetachOnDisconnect bool `yaml:"detach_on_disconnect" envconfig:"EXTRACTOR_DETACH_ON_DISCONNECT"`
}

// HistoryConfig holds download-history ledger configuration.
type HistoryConfig struct {
	RingSize      int    `yaml:"ring_size" envconfig:"HISTORY_RING_SIZE"`
	SQLitePath    string `yaml:"sqlite_path" envconfig:"HISTORY_SQLITE_PATH"`
	RetentionDays int    `yaml:"retention_days" envconfig:"HISTORY_RETENTION_DAYS"`
}

// Load reads configuration from file and environment variables.
// Precedence: defaults < file < environment.
func Load(configPath string) (*Config, error) {
	cfg := &Config{}

	// Load from YAML file if provided
	if configPath != "" {
		data, err := os.ReadFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config file: %w", err)
		}
	}

	// Override with environment variables. Unset variables leave file
	// values untouched; defaults are filled in afterwards.
	if err := envconfig.Process("", cfg); err != nil {
		return nil, fmt.Errorf("process environment: %w", err)
	}

	cfg.applyDefaults()

	// Validate
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return cfg, nil
}

// applyDefaults fills in zero-valued fields.
func (c *Config) applyDefaults() {
	if c.Server.Host == "" {
		c.Server.Host = "0.0.0.0"
	}
	if c.Server.Port == 0 {
		c.Server.Port = 3000
	}
	if c.Server.ReadTimeout == 0 {
		c.Server.ReadTimeout = 30 * time.Second
	}
	if c.Extractor.Binary == "" {
		c.Extractor.Binary = "yt-dlp"
	}
	if c.Extractor.Format == "" {
		c.Extractor.Format = "mp4"
	}
	if c.History.RingSize == 0 {
		c.History.RingSize = 500
	}
	if c.History.RetentionDays == 0 {
		c.History.RetentionDays = 30
	}
}

// Validate checks that required configuration values are set.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port %d", c.Server.Port)
	}
	if c.Extractor.Binary == "" {
		return fmt.Errorf("EXTRACTOR_BINARY is required")
	}
	if c.Extractor.Format == "" {
		return fmt.Errorf("EXTRACTOR_FORMAT is required")
	}
	if c.History.RingSize <= 0 {
		return fmt.Errorf("HISTORY_RING_SIZE must be positive")
	}
	return nil
}

// Address returns the server address in host:port format.
func (c *ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}
