package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// Config represents the complete application configuration
type Config struct {
	SMTP     SMTPConfig     `json:"smtp" yaml:"smtp" envconfig:"SMTP"`
	Report   ReportConfig   `json:"report" yaml:"report" envconfig:"REPORT"`
	Schedule ScheduleConfig `json:"schedule" yaml:"schedule" envconfig:"SCHEDULE"`
	Paths    PathsConfig    `json:"paths" yaml:"paths" envconfig:"PATHS"`
	Logging  LoggingConfig  `json:"logging" yaml:"logging" envconfig:"LOGGING"`
	Server   ServerConfig   `json:"server" yaml:"server" envconfig:"SERVER"`
}

// SMTPConfig contains outbound mail configuration
type SMTPConfig struct {
	Host       string   `json:"host" yaml:"host" envconfig:"HOST" validate:"required"`
	Port       int      `json:"port" yaml:"port" envconfig:"PORT" validate:"min=1,max=65535"`
	Username   string   `json:"username" yaml:"username" envconfig:"USERNAME" validate:"required"`
	Password   string   `json:"password" yaml:"password" envconfig:"PASSWORD" validate:"required"`
	From       string   `json:"from" yaml:"from" envconfig:"FROM" validate:"omitempty,email"`
	Recipients []string `json:"recipients" yaml:"recipients" envconfig:"RECIPIENTS" validate:"min=1,dive,email"`
}

// ReportConfig contains report generation options
type ReportConfig struct {
	Title       string `json:"title" yaml:"title" envconfig:"TITLE"`
	Subject     string `json:"subject" yaml:"subject" envconfig:"SUBJECT"`
	EnablePDF   bool   `json:"enable_pdf" yaml:"enable_pdf" envconfig:"ENABLE_PDF"`
	ChartWidth  int    `json:"chart_width" yaml:"chart_width" envconfig:"CHART_WIDTH"`
	ChartHeight int    `json:"chart_height" yaml:"chart_height" envconfig:"CHART_HEIGHT"`
}

// ScheduleConfig contains scheduler configuration.
// At is a daily fire time in HH:MM; CronExpr, when set, takes precedence.
type ScheduleConfig struct {
	At       string `json:"at" yaml:"at" envconfig:"AT"`
	CronExpr string `json:"cron_expr" yaml:"cron_expr" envconfig:"CRON_EXPR"`
}

// PathsConfig contains file system paths configuration
type PathsConfig struct {
	DataFile     string `json:"data_file" yaml:"data_file" envconfig:"DATA_FILE"`
	ReportsDir   string `json:"reports_dir" yaml:"reports_dir" envconfig:"REPORTS_DIR"`
	TemplatesDir string `json:"templates_dir" yaml:"templates_dir" envconfig:"TEMPLATES_DIR"`
	LogsDir      string `json:"logs_dir" yaml:"logs_dir" envconfig:"LOGS_DIR"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level    string `json:"level" yaml:"level" envconfig:"LEVEL"`
	Output   string `json:"output" yaml:"output" envconfig:"OUTPUT"`
	FilePath string `json:"file_path" yaml:"file_path" envconfig:"FILE_PATH"`
}

// ServerConfig contains HTTP server configuration for serve mode
type ServerConfig struct {
	Port            int           `json:"port" yaml:"port" envconfig:"PORT"`
	ReadTimeout     time.Duration `json:"read_timeout" yaml:"read_timeout" envconfig:"READ_TIMEOUT"`
	WriteTimeout    time.Duration `json:"write_timeout" yaml:"write_timeout" envconfig:"WRITE_TIMEOUT"`
	ShutdownTimeout time.Duration `json:"shutdown_timeout" yaml:"shutdown_timeout" envconfig:"SHUTDOWN_TIMEOUT"`
	TriggerRPS      float64       `json:"trigger_rps" yaml:"trigger_rps" envconfig:"TRIGGER_RPS"`
	TriggerBurst    int           `json:"trigger_burst" yaml:"trigger_burst" envconfig:"TRIGGER_BURST"`
}

var validate = validator.New()

// Load loads configuration from the given file (JSON or YAML by extension)
// and applies REPORTER_* environment variable overrides on top.
// An empty path falls back to the first config file found in common locations.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		path = findConfigFile()
	}
	if path != "" {
		if err := loadFromFile(path, cfg); err != nil {
			return nil, fmt.Errorf("failed to load config from file: %w", err)
		}
	}

	// Environment variables take precedence over file values
	if err := envconfig.Process("REPORTER", cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	cfg.applyDerived()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// loadFromFile unmarshals a JSON or YAML config file over cfg
func loadFromFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return yaml.Unmarshal(data, cfg)
	default:
		return json.Unmarshal(data, cfg)
	}
}

// findConfigFile returns the first config file found in common locations
func findConfigFile() string {
	locations := []string{
		"config.json",
		"config.yaml",
		"configs/config.json",
		"configs/config.yaml",
	}

	for _, location := range locations {
		if _, err := os.Stat(location); err == nil {
			return location
		}
	}

	return "" // No config file found, use env vars only
}

// applyDerived fills fields whose defaults depend on other fields
func (c *Config) applyDerived() {
	if c.SMTP.From == "" {
		c.SMTP.From = c.SMTP.Username
	}
	if c.Report.Subject == "" {
		c.Report.Subject = c.Report.Title
	}
	if c.Logging.FilePath == "" {
		c.Logging.FilePath = filepath.Join(c.Paths.LogsDir, "reporter.log")
	}
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return err
	}

	if c.Schedule.CronExpr == "" {
		if _, err := time.Parse("15:04", c.Schedule.At); err != nil {
			return fmt.Errorf("invalid schedule time %q, expected HH:MM: %w", c.Schedule.At, err)
		}
	}

	if c.Paths.DataFile == "" {
		return fmt.Errorf("data file path must be set")
	}
	if c.Paths.ReportsDir == "" {
		return fmt.Errorf("reports directory must be set")
	}

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	if c.Report.ChartWidth <= 0 || c.Report.ChartHeight <= 0 {
		return fmt.Errorf("chart dimensions must be positive")
	}

	return nil
}

// CronSpec returns the cron expression the scheduler should run on.
// A configured CronExpr wins; otherwise the daily At time is converted.
func (c ScheduleConfig) CronSpec() (string, error) {
	if c.CronExpr != "" {
		return c.CronExpr, nil
	}

	t, err := time.Parse("15:04", c.At)
	if err != nil {
		return "", fmt.Errorf("invalid schedule time %q: %w", c.At, err)
	}
	return fmt.Sprintf("%d %d * * *", t.Minute(), t.Hour()), nil
}

// EnsureDirectories creates the directories the pipeline writes into
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.ReportsDir, c.Paths.LogsDir} {
		if dir == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	return nil
}

// Default returns default configuration
func Default() *Config {
	return &Config{
		SMTP: SMTPConfig{
			Port: 587,
		},
		Report: ReportConfig{
			Title:       "Sales Report",
			EnablePDF:   true,
			ChartWidth:  900,
			ChartHeight: 400,
		},
		Schedule: ScheduleConfig{
			At: "09:00",
		},
		Paths: PathsConfig{
			DataFile:   filepath.Join("data", "sample_sales.csv"),
			ReportsDir: "reports",
			LogsDir:    "logs",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Output: "both",
		},
		Server: ServerConfig{
			Port:            8080,
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    15 * time.Second,
			ShutdownTimeout: 30 * time.Second,
			TriggerRPS:      1,
			TriggerBurst:    2,
		},
	}
}
