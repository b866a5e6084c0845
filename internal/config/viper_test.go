package config

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"fjacquet/charity-mergers/internal/textutils"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitializeConfig_Defaults(t *testing.T) {
	clearTestEnvVars(t)
	chdirTemp(t)

	config, err := InitializeConfig()
	require.NoError(t, err)

	assert.Equal(t, "info", config.Log.Level)
	assert.Equal(t, "text", config.Log.Format)
	assert.Equal(t, ",", config.CSV.Delimiter)
	assert.Equal(t, textutils.EncodingCP1252, config.Register.Encoding)
	assert.Equal(t, "DD/MM/YYYY", config.Register.DateFormat)
	assert.Equal(t, "", config.Rules.File)
	assert.Equal(t, 10, config.Review.Top)
	assert.False(t, config.AI.Enabled)
	assert.Equal(t, "gemini-2.0-flash", config.AI.Model)
	assert.Equal(t, 10, config.AI.RequestsPerMinute)
	assert.Equal(t, 30, config.AI.TimeoutSeconds)
	assert.Equal(t, DefaultConfig(), config)
}

func TestInitializeConfig_EnvironmentVariables(t *testing.T) {
	clearTestEnvVars(t)
	chdirTemp(t)

	testEnvVars := map[string]string{
		"MERGERS_LOG_LEVEL":              "debug",
		"MERGERS_LOG_FORMAT":             "json",
		"MERGERS_CSV_DELIMITER":          ";",
		"MERGERS_REGISTER_ENCODING":      "utf-8",
		"MERGERS_RULES_FILE":             "my-rules.yaml",
		"MERGERS_REVIEW_TOP":             "25",
		"MERGERS_AI_ENABLED":             "true",
		"MERGERS_AI_MODEL":               "gemini-1.5-pro",
		"MERGERS_AI_REQUESTS_PER_MINUTE": "15",
		"GEMINI_API_KEY":                 "test-api-key",
	}

	for key, value := range testEnvVars {
		t.Setenv(key, value)
	}

	config, err := InitializeConfig()
	require.NoError(t, err)

	assert.Equal(t, "debug", config.Log.Level)
	assert.Equal(t, "json", config.Log.Format)
	assert.Equal(t, ";", config.CSV.Delimiter)
	assert.Equal(t, ';', config.DelimiterRune())
	assert.Equal(t, textutils.EncodingUTF8, config.Register.Encoding)
	assert.Equal(t, "my-rules.yaml", config.Rules.File)
	assert.Equal(t, 25, config.Review.Top)
	assert.True(t, config.AI.Enabled)
	assert.Equal(t, "gemini-1.5-pro", config.AI.Model)
	assert.Equal(t, 15, config.AI.RequestsPerMinute)
	assert.Equal(t, "test-api-key", config.AI.APIKey)
}

func TestInitializeConfig_ConfigFile(t *testing.T) {
	clearTestEnvVars(t)
	tempDir := chdirTemp(t)

	configContent := `
log:
  level: "warn"
  format: "json"
csv:
  delimiter: "|"
register:
  encoding: "utf-8-bom"
review:
  top: 5
ai:
  enabled: false
  model: "gemini-1.0-pro"
  requests_per_minute: 20
`
	err := os.WriteFile(filepath.Join(tempDir, "config.yaml"), []byte(configContent), 0644)
	require.NoError(t, err)

	config, err := InitializeConfig()
	require.NoError(t, err)

	assert.Equal(t, "warn", config.Log.Level)
	assert.Equal(t, "json", config.Log.Format)
	assert.Equal(t, "|", config.CSV.Delimiter)
	assert.Equal(t, textutils.EncodingUTF8BOM, config.Register.Encoding)
	assert.Equal(t, 5, config.Review.Top)
	assert.False(t, config.AI.Enabled)
	assert.Equal(t, "gemini-1.0-pro", config.AI.Model)
	assert.Equal(t, 20, config.AI.RequestsPerMinute)
}

func TestInitializeConfig_HierarchicalPrecedence(t *testing.T) {
	clearTestEnvVars(t)
	tempDir := chdirTemp(t)

	configContent := `
log:
  level: "warn"
csv:
  delimiter: "|"
ai:
  requests_per_minute: 20
`
	err := os.WriteFile(filepath.Join(tempDir, "config.yaml"), []byte(configContent), 0644)
	require.NoError(t, err)

	t.Setenv("MERGERS_LOG_LEVEL", "error")
	t.Setenv("MERGERS_AI_REQUESTS_PER_MINUTE", "25")
	t.Setenv("GEMINI_API_KEY", "env-api-key")

	config, err := InitializeConfig()
	require.NoError(t, err)

	assert.Equal(t, "error", config.Log.Level)       // env var wins
	assert.Equal(t, "|", config.CSV.Delimiter)       // config file value
	assert.Equal(t, 25, config.AI.RequestsPerMinute) // env var wins
	assert.Equal(t, "env-api-key", config.AI.APIKey) // env var (API key)
}

func TestInitializeConfigFromFile(t *testing.T) {
	clearTestEnvVars(t)
	tempDir := t.TempDir()

	path := filepath.Join(tempDir, "custom.yaml")
	require.NoError(t, os.WriteFile(path, []byte("review:\n  top: 3\n"), 0644))

	config, err := InitializeConfigFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, 3, config.Review.Top)

	_, err = InitializeConfigFromFile(filepath.Join(tempDir, "missing.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read config file")
}

func TestInitializeConfigWithFlags(t *testing.T) {
	clearTestEnvVars(t)
	chdirTemp(t)
	t.Setenv("MERGERS_LOG_LEVEL", "error")
	t.Setenv("MERGERS_CSV_DELIMITER", "|")

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("log-level", "info", "")
	flags.String("csv-delimiter", ",", "")
	flags.String("rules", "", "")
	require.NoError(t, flags.Parse([]string{"--log-level=debug", "--rules=custom.yaml"}))

	config, err := InitializeConfigWithFlags("", flags)
	require.NoError(t, err)

	// Set flags win over env; unset flags leave the env value in place.
	assert.Equal(t, "debug", config.Log.Level)
	assert.Equal(t, "|", config.CSV.Delimiter)
	assert.Equal(t, "custom.yaml", config.Rules.File)
	assert.Equal(t, "text", config.Log.Format)
}

func TestInitializeConfig_InvalidEnvironment(t *testing.T) {
	clearTestEnvVars(t)
	chdirTemp(t)
	t.Setenv("MERGERS_REGISTER_ENCODING", "latin9")

	_, err := InitializeConfig()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid configuration")
}

func TestValidateConfig_InvalidValues(t *testing.T) {
	tests := []struct {
		name         string
		modifyConfig func(*Config)
		expectError  string
	}{
		{
			name:         "invalid log level",
			modifyConfig: func(c *Config) { c.Log.Level = "invalid" },
			expectError:  "invalid log level",
		},
		{
			name:         "invalid log format",
			modifyConfig: func(c *Config) { c.Log.Format = "invalid" },
			expectError:  "invalid log format",
		},
		{
			name:         "invalid CSV delimiter",
			modifyConfig: func(c *Config) { c.CSV.Delimiter = "abc" },
			expectError:  "CSV delimiter must be a single character",
		},
		{
			name:         "invalid encoding",
			modifyConfig: func(c *Config) { c.Register.Encoding = "ebcdic" },
			expectError:  "invalid register encoding",
		},
		{
			name:         "empty date format",
			modifyConfig: func(c *Config) { c.Register.DateFormat = "" },
			expectError:  "register.date_format must not be empty",
		},
		{
			name:         "non-positive top",
			modifyConfig: func(c *Config) { c.Review.Top = 0 },
			expectError:  "review.top must be positive",
		},
		{
			name: "AI enabled without API key",
			modifyConfig: func(c *Config) {
				c.AI.Enabled = true
				c.AI.APIKey = ""
			},
			expectError: "GEMINI_API_KEY required when AI is enabled",
		},
		{
			name: "invalid requests per minute",
			modifyConfig: func(c *Config) {
				c.AI.Enabled = true
				c.AI.APIKey = "test-key"
				c.AI.RequestsPerMinute = 0
			},
			expectError: "ai.requests_per_minute must be between 1 and 1000",
		},
		{
			name: "invalid timeout seconds",
			modifyConfig: func(c *Config) {
				c.AI.Enabled = true
				c.AI.APIKey = "test-key"
				c.AI.TimeoutSeconds = 0
			},
			expectError: "ai.timeout_seconds must be between 1 and 300",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := DefaultConfig()
			tt.modifyConfig(config)
			err := validateConfig(config)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.expectError)
		})
	}
}

func TestValidateConfig_EncodingCaseInsensitive(t *testing.T) {
	config := DefaultConfig()
	config.Register.Encoding = "UTF-8"
	assert.NoError(t, validateConfig(config))
}

func TestDelimiterRune(t *testing.T) {
	assert.Equal(t, ',', (&Config{}).DelimiterRune())
	assert.Equal(t, '\t', (&Config{CSV: CSVConfig{Delimiter: "\t"}}).DelimiterRune())
}

func TestLoadEnvFile(t *testing.T) {
	tempDir := t.TempDir()
	envFile := filepath.Join(tempDir, ".env")
	require.NoError(t, os.WriteFile(envFile, []byte("MERGERS_TEST_DOTENV=loaded\n"), 0644))
	t.Cleanup(func() { _ = os.Unsetenv("MERGERS_TEST_DOTENV") })

	loaded := loadEnvFile(filepath.Join(tempDir, "missing.env"), envFile)
	assert.Equal(t, envFile, loaded)
	assert.Equal(t, "loaded", os.Getenv("MERGERS_TEST_DOTENV"))

	assert.Equal(t, "", loadEnvFile(filepath.Join(tempDir, "none.env")))
}

// chdirTemp switches into a fresh temporary directory for the test.
func chdirTemp(t *testing.T) string {
	t.Helper()
	tempDir := t.TempDir()
	originalDir, err := os.Getwd()
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, os.Chdir(originalDir))
	})
	require.NoError(t, os.Chdir(tempDir))
	return tempDir
}

// Helper function to clear test environment variables
func clearTestEnvVars(t *testing.T) {
	envVars := []string{
		"MERGERS_LOG_LEVEL",
		"MERGERS_LOG_FORMAT",
		"MERGERS_CSV_DELIMITER",
		"MERGERS_REGISTER_ENCODING",
		"MERGERS_REGISTER_DATE_FORMAT",
		"MERGERS_RULES_FILE",
		"MERGERS_REVIEW_TOP",
		"MERGERS_AI_ENABLED",
		"MERGERS_AI_MODEL",
		"MERGERS_AI_REQUESTS_PER_MINUTE",
		"MERGERS_AI_TIMEOUT_SECONDS",
		"GEMINI_API_KEY",
	}

	for _, envVar := range envVars {
		if err := os.Unsetenv(envVar); err != nil {
			fmt.Printf("Warning: failed to unset environment variable %s: %v\n", envVar, err)
		}
	}
}
