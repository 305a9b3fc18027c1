package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// Config represents the complete application configuration
type Config struct {
	Server    ServerConfig    `yaml:"server" envconfig:"SERVER"`
	Logging   LoggingConfig   `yaml:"logging" envconfig:"LOGGING"`
	Gradebook GradebookConfig `yaml:"gradebook" envconfig:"GRADEBOOK"`
	Sheets    SheetsConfig    `yaml:"sheets" envconfig:"SHEETS"`
	RateLimit RateLimitConfig `yaml:"rate_limit" envconfig:"RATE_LIMIT"`
}

// ServerConfig contains HTTP server configuration
type ServerConfig struct {
	Port            int           `yaml:"port" envconfig:"PORT"`
	ReadTimeout     time.Duration `yaml:"read_timeout" envconfig:"READ_TIMEOUT"`
	WriteTimeout    time.Duration `yaml:"write_timeout" envconfig:"WRITE_TIMEOUT"`
	IdleTimeout     time.Duration `yaml:"idle_timeout" envconfig:"IDLE_TIMEOUT"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" envconfig:"SHUTDOWN_TIMEOUT"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level    string `yaml:"level" envconfig:"LEVEL"`
	Format   string `yaml:"format" envconfig:"FORMAT"`
	Output   string `yaml:"output" envconfig:"OUTPUT"`
	FilePath string `yaml:"file_path" envconfig:"FILE_PATH"`
}

// GradebookConfig locates the grade export and the per-section rosters.
// Sections drive roster loading order, which is also the resolver's
// tie-break order for names that appear in more than one roster.
type GradebookConfig struct {
	GradesFile     string   `yaml:"grades_file" envconfig:"GRADES_FILE"`
	Sections       []string `yaml:"sections" envconfig:"SECTIONS"`
	RosterTemplate string   `yaml:"roster_template" envconfig:"ROSTER_TEMPLATE"`
	ExportsDir     string   `yaml:"exports_dir" envconfig:"EXPORTS_DIR"`
}

// RosterPath returns the roster file path for one section.
func (g GradebookConfig) RosterPath(section string) string {
	return fmt.Sprintf(g.RosterTemplate, section)
}

// SheetsConfig contains Google Sheets export configuration
type SheetsConfig struct {
	Enabled         bool   `yaml:"enabled" envconfig:"ENABLED"`
	CredentialsFile string `yaml:"credentials_file" envconfig:"CREDENTIALS_FILE"`
}

// RateLimitConfig contains rate limiting configuration
type RateLimitConfig struct {
	Enabled bool    `yaml:"enabled" envconfig:"ENABLED"`
	RPS     float64 `yaml:"rps" envconfig:"RPS"`
	Burst   int     `yaml:"burst" envconfig:"BURST"`
}

// Load loads configuration in layers: built-in defaults, then the config
// file, then environment variables. Later layers override earlier ones, and
// a layer only touches the settings it actually names, so a yaml
// `sheets.enabled: false` survives unless GRADER_SHEETS_ENABLED is set.
func Load() (*Config, error) {
	cfg := *Default()

	configFile := getConfigFilePath()
	if configFile != "" {
		if err := loadFromFile(configFile, &cfg); err != nil {
			return nil, fmt.Errorf("failed to load config from file: %w", err)
		}
	}

	// The struct tags carry no defaults, so unset GRADER_* variables
	// leave the file and default values in place.
	if err := envconfig.Process("GRADER", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	// Validate configuration
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// loadFromFile overlays YAML file settings onto cfg. Keys absent from the
// file keep their current values.
func loadFromFile(filePath string, cfg *Config) error {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return err
	}

	return yaml.Unmarshal(data, cfg)
}

// validate validates the configuration
func (c *Config) validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	if c.Gradebook.GradesFile == "" {
		return fmt.Errorf("grades file path must not be empty")
	}

	if len(c.Gradebook.Sections) == 0 {
		return fmt.Errorf("at least one section must be configured")
	}
	for _, section := range c.Gradebook.Sections {
		if strings.TrimSpace(section) == "" {
			return fmt.Errorf("section codes must not be blank")
		}
	}

	if !strings.Contains(c.Gradebook.RosterTemplate, "%s") {
		return fmt.Errorf("roster template must contain a %%s section placeholder")
	}

	if c.Logging.Format != "json" && c.Logging.Format != "text" {
		c.Logging.Format = "json"
	}

	return nil
}

// getConfigFilePath returns the path to the config file
func getConfigFilePath() string {
	locations := []string{
		"config.yaml",
		"configs/config.yaml",
	}

	for _, location := range locations {
		if _, err := os.Stat(location); err == nil {
			return location
		}
	}

	return "" // No config file found, use env vars only
}

// Default returns default configuration
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            8080,
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    60 * time.Second,
			IdleTimeout:     60 * time.Second,
			ShutdownTimeout: 30 * time.Second,
		},
		Logging: LoggingConfig{
			Level:    "info",
			Format:   "json",
			Output:   "console",
			FilePath: "logs/grader.log",
		},
		Gradebook: GradebookConfig{
			GradesFile:     "grades.csv",
			Sections:       []string{"F2", "F5", "F6"},
			RosterTemplate: "%s - names.csv",
			ExportsDir:     "exports",
		},
		Sheets: SheetsConfig{
			Enabled:         true,
			CredentialsFile: "credentials.json",
		},
		RateLimit: RateLimitConfig{
			Enabled: true,
			RPS:     50,
			Burst:   25,
		},
	}
}
