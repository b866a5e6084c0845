// Package container provides dependency injection for the charity-mergers
// application. It centralizes the creation and wiring of the pipeline
// components so commands receive them fully configured.
package container

import (
	"context"
	"fmt"
	"time"

	"fjacquet/charity-mergers/internal/annualreturn"
	"fjacquet/charity-mergers/internal/config"
	"fjacquet/charity-mergers/internal/identity"
	"fjacquet/charity-mergers/internal/logging"
	"fjacquet/charity-mergers/internal/register"
	"fjacquet/charity-mergers/internal/report"
	"fjacquet/charity-mergers/internal/store"
	"fjacquet/charity-mergers/internal/suggest"
)

// Container holds all application dependencies and provides methods to access them.
//
// Container is immutable after creation. Fields are private and only
// reachable through getter methods.
type Container struct {
	logger    logging.Logger
	config    *config.Config
	rules     store.RuleSource
	extractor *identity.Extractor
	register  *register.Reader
	loader    *annualreturn.Loader
	reports   *report.Generator
	suggester suggest.Suggester
	gemini    *suggest.GeminiSuggester
}

// NewContainer creates and wires all application dependencies.
// This is the main entry point for dependency injection in the application.
func NewContainer(cfg *config.Config) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("configuration cannot be nil")
	}
	logger := logging.NewLogrusAdapter(cfg.Log.Level, cfg.Log.Format)
	return NewContainerWithRules(cfg, store.NewRuleStore(cfg.Rules.File, logger), logger)
}

// NewContainerWithRules wires the container around an explicit rule source
// and logger.
func NewContainerWithRules(cfg *config.Config, rules store.RuleSource, logger logging.Logger) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("configuration cannot be nil")
	}
	if rules == nil {
		return nil, fmt.Errorf("rule source cannot be nil")
	}
	if logger == nil {
		logger = logging.NewNopLogger()
	}

	table, err := rules.LoadRules()
	if err != nil {
		return nil, fmt.Errorf("failed to load classification rules: %w", err)
	}

	extractor, err := identity.NewExtractor(table, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to build extractor: %w", err)
	}

	reader := register.NewReader(extractor, register.Options{
		Encoding:   cfg.Register.Encoding,
		DateFormat: cfg.Register.DateFormat,
	}, logger)

	c := &Container{
		logger:    logger,
		config:    cfg,
		rules:     rules,
		extractor: extractor,
		register:  reader,
		loader:    annualreturn.NewLoader(logger),
		reports:   report.NewGenerator(logger),
	}

	if cfg.AI.Enabled && cfg.AI.APIKey != "" {
		gemini, err := suggest.NewGeminiSuggester(context.Background(), suggest.Options{
			APIKey:            cfg.AI.APIKey,
			Model:             cfg.AI.Model,
			RequestsPerMinute: cfg.AI.RequestsPerMinute,
			Timeout:           time.Duration(cfg.AI.TimeoutSeconds) * time.Second,
		}, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to create suggester: %w", err)
		}
		c.gemini = gemini
		c.suggester = gemini
		logger.Info("AI review hints enabled", logging.Field{Key: "model", Value: cfg.AI.Model})
	} else {
		logger.Debug("AI review hints disabled")
	}

	logger.Debug("Container initialized successfully",
		logging.Field{Key: "exact_rules", Value: len(table.Exact)},
		logging.Field{Key: "pattern_rules", Value: len(table.Patterns)},
		logging.Field{Key: "ai_enabled", Value: c.suggester != nil})

	return c, nil
}

// GetLogger returns the container's logger instance.
func (c *Container) GetLogger() logging.Logger {
	return c.logger
}

// GetConfig returns the container's configuration instance.
func (c *Container) GetConfig() *config.Config {
	return c.config
}

// GetRules returns the rule source the extractor was built from.
func (c *Container) GetRules() store.RuleSource {
	return c.rules
}

// GetExtractor returns the charity identifier extractor.
func (c *Container) GetExtractor() *identity.Extractor {
	return c.extractor
}

// GetRegisterReader returns the merger register reader.
func (c *Container) GetRegisterReader() *register.Reader {
	return c.register
}

// GetLoader returns the annual-return and trustee loader.
func (c *Container) GetLoader() *annualreturn.Loader {
	return c.loader
}

// GetReportGenerator returns the statistics report generator.
func (c *Container) GetReportGenerator() *report.Generator {
	return c.reports
}

// GetSuggester returns the AI suggester, or nil when AI is disabled.
func (c *Container) GetSuggester() suggest.Suggester {
	return c.suggester
}

// Close releases the AI client if one was created.
func (c *Container) Close() error {
	if c.gemini != nil {
		if err := c.gemini.Close(); err != nil {
			return fmt.Errorf("failed to close suggester: %w", err)
		}
	}
	return nil
}
