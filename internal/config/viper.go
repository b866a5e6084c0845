// Package config provides Viper-based hierarchical configuration management
package config

import (
	"fmt"
	"os"
	"strings"

	"fjacquet/charity-mergers/internal/textutils"

	"github.com/sirupsen/logrus"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// LogConfig controls the logger built by the container.
type LogConfig struct {
	Level  string `mapstructure:"level" yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"`
}

// CSVConfig controls CSV output files.
type CSVConfig struct {
	Delimiter string `mapstructure:"delimiter" yaml:"delimiter"`
}

// RegisterConfig describes the merger register source file.
type RegisterConfig struct {
	Encoding   string `mapstructure:"encoding" yaml:"encoding"`
	DateFormat string `mapstructure:"date_format" yaml:"date_format"`
}

// RulesConfig points at the classification table.
type RulesConfig struct {
	File string `mapstructure:"file" yaml:"file"`
}

// ReviewConfig controls the review and statistics tables.
type ReviewConfig struct {
	Top int `mapstructure:"top" yaml:"top"`
}

// AIConfig controls the optional review hints.
type AIConfig struct {
	Enabled           bool   `mapstructure:"enabled" yaml:"enabled"`
	Model             string `mapstructure:"model" yaml:"model"`
	RequestsPerMinute int    `mapstructure:"requests_per_minute" yaml:"requests_per_minute"`
	TimeoutSeconds    int    `mapstructure:"timeout_seconds" yaml:"timeout_seconds"`
	APIKey            string `mapstructure:"api_key" yaml:"-"` // Never serialize API key
}

// Config represents the complete application configuration
type Config struct {
	Log      LogConfig      `mapstructure:"log" yaml:"log"`
	CSV      CSVConfig      `mapstructure:"csv" yaml:"csv"`
	Register RegisterConfig `mapstructure:"register" yaml:"register"`
	Rules    RulesConfig    `mapstructure:"rules" yaml:"rules"`
	Review   ReviewConfig   `mapstructure:"review" yaml:"review"`
	AI       AIConfig       `mapstructure:"ai" yaml:"ai"`
}

// DelimiterRune returns the configured CSV delimiter as a rune.
func (c *Config) DelimiterRune() rune {
	if c.CSV.Delimiter == "" {
		return ','
	}
	return []rune(c.CSV.Delimiter)[0]
}

// InitializeConfig initializes Viper configuration with hierarchical loading
func InitializeConfig() (*Config, error) {
	return initializeConfig("", nil)
}

// InitializeConfigFromFile loads configuration from an explicit file path
// instead of the standard search locations.
func InitializeConfigFromFile(path string) (*Config, error) {
	return initializeConfig(path, nil)
}

// FlagBindings maps command-line flag names to configuration keys.
var FlagBindings = map[string]string{
	"log-level":     "log.level",
	"log-format":    "log.format",
	"csv-delimiter": "csv.delimiter",
	"encoding":      "register.encoding",
	"rules":         "rules.file",
	"ai-enabled":    "ai.enabled",
}

// InitializeConfigWithFlags loads configuration like InitializeConfigFromFile
// (an empty path searches the standard locations) and lets any flag in
// FlagBindings that was set on the command line override the result.
func InitializeConfigWithFlags(path string, flags *pflag.FlagSet) (*Config, error) {
	return initializeConfig(path, flags)
}

func initializeConfig(path string, flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()

	// 1. Set defaults
	setDefaults(v)

	// 2. Config file locations
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("$HOME/.charity-mergers")
		v.AddConfigPath(".charity-mergers")
		v.AddConfigPath(".")
	}

	// 3. Environment variables
	v.SetEnvPrefix("MERGERS")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// 4. Read config file (optional unless explicitly given)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok || path != "" {
			if path != "" {
				return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
			}
			fmt.Fprintf(os.Stderr, "Warning: error reading config file %s: %v\n", v.ConfigFileUsed(), err)
		}
	}

	// 5. API key comes from the unprefixed variable
	if err := v.BindEnv("ai.api_key", "GEMINI_API_KEY"); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to bind GEMINI_API_KEY environment variable: %v\n", err)
	}

	// 6. Command-line flags override everything else
	if flags != nil {
		for name, key := range FlagBindings {
			flag := flags.Lookup(name)
			if flag == nil {
				continue
			}
			if err := v.BindPFlag(key, flag); err != nil {
				return nil, fmt.Errorf("failed to bind flag --%s: %w", name, err)
			}
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// 7. Validate configuration
	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	v.SetDefault("csv.delimiter", ",")

	v.SetDefault("register.encoding", textutils.EncodingCP1252)
	v.SetDefault("register.date_format", "DD/MM/YYYY")

	v.SetDefault("rules.file", "")

	v.SetDefault("review.top", 10)

	v.SetDefault("ai.enabled", false)
	v.SetDefault("ai.model", "gemini-2.0-flash")
	v.SetDefault("ai.requests_per_minute", 10)
	v.SetDefault("ai.timeout_seconds", 30)
}

// DefaultConfig returns the configuration produced by the defaults alone.
func DefaultConfig() *Config {
	return &Config{
		Log:      LogConfig{Level: "info", Format: "text"},
		CSV:      CSVConfig{Delimiter: ","},
		Register: RegisterConfig{Encoding: textutils.EncodingCP1252, DateFormat: "DD/MM/YYYY"},
		Review:   ReviewConfig{Top: 10},
		AI: AIConfig{
			Model:             "gemini-2.0-flash",
			RequestsPerMinute: 10,
			TimeoutSeconds:    30,
		},
	}
}

// validateConfig validates the configuration values
func validateConfig(config *Config) error {
	if _, err := logrus.ParseLevel(config.Log.Level); err != nil {
		return fmt.Errorf("invalid log level: %s", config.Log.Level)
	}

	if config.Log.Format != "text" && config.Log.Format != "json" {
		return fmt.Errorf("invalid log format: %s (must be 'text' or 'json')", config.Log.Format)
	}

	if len([]rune(config.CSV.Delimiter)) != 1 {
		return fmt.Errorf("CSV delimiter must be a single character, got: %s", config.CSV.Delimiter)
	}

	if !textutils.IsSupportedEncoding(config.Register.Encoding) {
		return fmt.Errorf("invalid register encoding: %s (must be cp1252, utf-8 or utf-8-bom)", config.Register.Encoding)
	}

	if config.Register.DateFormat == "" {
		return fmt.Errorf("register.date_format must not be empty")
	}

	if config.Review.Top < 1 {
		return fmt.Errorf("review.top must be positive, got: %d", config.Review.Top)
	}

	if config.AI.Enabled {
		if config.AI.APIKey == "" {
			return fmt.Errorf("GEMINI_API_KEY required when AI is enabled")
		}

		if config.AI.RequestsPerMinute < 1 || config.AI.RequestsPerMinute > 1000 {
			return fmt.Errorf("ai.requests_per_minute must be between 1 and 1000, got: %d", config.AI.RequestsPerMinute)
		}

		if config.AI.TimeoutSeconds < 1 || config.AI.TimeoutSeconds > 300 {
			return fmt.Errorf("ai.timeout_seconds must be between 1 and 300, got: %d", config.AI.TimeoutSeconds)
		}
	}

	return nil
}
