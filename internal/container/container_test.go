package container

import (
	"errors"
	"testing"

	"fjacquet/charity-mergers/internal/config"
	"fjacquet/charity-mergers/internal/logging"
	"fjacquet/charity-mergers/internal/models"
	"fjacquet/charity-mergers/internal/parsererror"
	"fjacquet/charity-mergers/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewContainer(t *testing.T) {
	tests := []struct {
		name        string
		config      *config.Config
		expectError bool
		errorMsg    string
	}{
		{
			name:        "nil config",
			config:      nil,
			expectError: true,
			errorMsg:    "configuration cannot be nil",
		},
		{
			name:        "default config",
			config:      config.DefaultConfig(),
			expectError: false,
		},
		{
			name: "missing rules file falls back to defaults",
			config: func() *config.Config {
				cfg := config.DefaultConfig()
				cfg.Rules.File = "does-not-exist.yaml"
				cfg.Log.Level = "error"
				return cfg
			}(),
			expectError: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := NewContainer(tt.config)
			if tt.expectError {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errorMsg)
				assert.Nil(t, c)
				return
			}
			require.NoError(t, err)
			require.NotNil(t, c)
			assert.NotNil(t, c.GetLogger())
			assert.Equal(t, tt.config, c.GetConfig())
			assert.NotNil(t, c.GetRules())
			assert.NotNil(t, c.GetExtractor())
			assert.NotNil(t, c.GetRegisterReader())
			assert.NotNil(t, c.GetLoader())
			assert.NotNil(t, c.GetReportGenerator())
			assert.Nil(t, c.GetSuggester())
			assert.NoError(t, c.Close())
		})
	}
}

func TestNewContainerWithRules(t *testing.T) {
	rules := &store.MockRuleStore{
		Rules: models.RulesConfig{
			Exact: map[string]models.Category{"the bakery": models.CategoryOther},
			Patterns: []models.PatternRule{
				{Pattern: "exempt", Category: models.CategoryExempt},
			},
		},
	}
	logger := logging.NewMockLogger()

	c, err := NewContainerWithRules(config.DefaultConfig(), rules, logger)
	require.NoError(t, err)

	extractor := c.GetExtractor()
	assert.Equal(t, models.Classified(models.CategoryOther), extractor.Extract("Old Mill (The Bakery)"))
	assert.Equal(t, models.Classified(models.CategoryExempt), extractor.Extract("College (Exempt Charity)"))
	assert.Equal(t, models.Unknown("excepted"), extractor.Extract("Scouts (excepted)"))
	assert.Same(t, rules, c.GetRules())
	assert.True(t, logger.HasEntry("DEBUG", "Container initialized successfully"))
}

func TestNewContainerWithRules_Errors(t *testing.T) {
	t.Run("nil rule source", func(t *testing.T) {
		_, err := NewContainerWithRules(config.DefaultConfig(), nil, nil)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "rule source cannot be nil")
	})

	t.Run("load failure", func(t *testing.T) {
		rules := &store.MockRuleStore{LoadRulesError: errors.New("disk on fire")}
		_, err := NewContainerWithRules(config.DefaultConfig(), rules, nil)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to load classification rules")
	})

	t.Run("invalid pattern", func(t *testing.T) {
		rules := &store.MockRuleStore{Rules: models.RulesConfig{
			Patterns: []models.PatternRule{{Pattern: "(unclosed", Category: models.CategoryExempt}},
		}}
		_, err := NewContainerWithRules(config.DefaultConfig(), rules, nil)
		require.Error(t, err)
		var ruleErr *parsererror.RuleError
		assert.ErrorAs(t, err, &ruleErr)
	})
}
