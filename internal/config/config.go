package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

// Config holds all calculator configuration.
type Config struct {
	// Locale is a BCP 47 tag used for digit grouping.
	Locale string `yaml:"locale"`

	UI        UIConfig        `yaml:"ui"`
	Server    ServerConfig    `yaml:"server"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// UIConfig configures the terminal keypad.
type UIConfig struct {
	Theme    string `yaml:"theme"` // auto, light, dark
	Mouse    bool   `yaml:"mouse"`
	ShowHelp bool   `yaml:"show_help"`
}

// ServerConfig configures the HTTP session API.
type ServerConfig struct {
	Addr            string `yaml:"addr"`
	ShutdownTimeout string `yaml:"shutdown_timeout"`
	SessionTTL      string `yaml:"session_ttl"`
	SweepInterval   string `yaml:"sweep_interval"`
	MaxSessions     int    `yaml:"max_sessions"`
}

// TelemetryConfig configures OTLP export.
type TelemetryConfig struct {
	ServiceName string `yaml:"service_name"`
	OTLPEnabled bool   `yaml:"otlp_enabled"`
}

// LoggingConfig configures the zap logger.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // json, console
	File   string `yaml:"file"`   // empty = stderr (serve) or discarded (keypad)
}

// ValidThemes lists accepted ui.theme values.
var ValidThemes = []string{"auto", "light", "dark"}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Locale: "en-US",

		UI: UIConfig{
			Theme:    "auto",
			Mouse:    true,
			ShowHelp: true,
		},

		Server: ServerConfig{
			Addr:            ":8080",
			ShutdownTimeout: "5s",
			SessionTTL:      "30m",
			SweepInterval:   "1m",
			MaxSessions:     10000,
		},

		Telemetry: TelemetryConfig{
			ServiceName: "go-calculator",
			OTLPEnabled: false,
		},

		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// Load loads configuration from a YAML file. A missing file yields defaults.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config: %w", err)
			}
		case os.IsNotExist(err):
		default:
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	cfg.applyEnvOverrides()

	return cfg, nil
}

// Save saves configuration to a YAML file.
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

// applyEnvOverrides applies environment variable overrides.
func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("CALC_LOCALE"); v != "" {
		c.Locale = v
	}
	if v := os.Getenv("CALC_THEME"); v != "" {
		c.UI.Theme = v
	}
	if v := os.Getenv("CALC_ADDR"); v != "" {
		c.Server.Addr = v
	}
	if v := os.Getenv("CALC_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv("CALC_LOG_FILE"); v != "" {
		c.Logging.File = v
	}
	if v := os.Getenv("OTEL_SERVICE_NAME"); v != "" {
		c.Telemetry.ServiceName = v
	}
	switch os.Getenv("CALC_OTLP") {
	case "1", "true":
		c.Telemetry.OTLPEnabled = true
	case "0", "false":
		c.Telemetry.OTLPEnabled = false
	}
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if _, err := c.LocaleTag(); err != nil {
		return fmt.Errorf("invalid locale %q: %w", c.Locale, err)
	}

	validTheme := false
	for _, t := range ValidThemes {
		if c.UI.Theme == t {
			validTheme = true
			break
		}
	}
	if !validTheme {
		return fmt.Errorf("invalid ui theme: %s (valid: %v)", c.UI.Theme, ValidThemes)
	}

	for name, d := range map[string]string{
		"server.shutdown_timeout": c.Server.ShutdownTimeout,
		"server.session_ttl":      c.Server.SessionTTL,
		"server.sweep_interval":   c.Server.SweepInterval,
	} {
		if d == "" {
			continue
		}
		if _, err := time.ParseDuration(d); err != nil {
			return fmt.Errorf("invalid %s: %w", name, err)
		}
	}

	if c.Server.MaxSessions < 0 {
		return fmt.Errorf("server.max_sessions must not be negative")
	}

	return nil
}

// LocaleTag parses Locale, defaulting to en-US when unset.
func (c *Config) LocaleTag() (language.Tag, error) {
	if c.Locale == "" {
		return language.AmericanEnglish, nil
	}
	return language.Parse(c.Locale)
}

// GetShutdownTimeout returns the server shutdown timeout as a duration.
func (c *Config) GetShutdownTimeout() time.Duration {
	d, err := time.ParseDuration(c.Server.ShutdownTimeout)
	if err != nil {
		return 5 * time.Second
	}
	return d
}

// GetSessionTTL returns the idle session lifetime as a duration.
func (c *Config) GetSessionTTL() time.Duration {
	d, err := time.ParseDuration(c.Server.SessionTTL)
	if err != nil {
		return 30 * time.Minute
	}
	return d
}

// GetSweepInterval returns how often expired sessions are swept.
func (c *Config) GetSweepInterval() time.Duration {
	d, err := time.ParseDuration(c.Server.SweepInterval)
	if err != nil || d <= 0 {
		return time.Minute
	}
	return d
}
