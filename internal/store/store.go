// Package store loads and saves the charity classification table.
package store

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"fjacquet/charity-mergers/internal/logging"
	"fjacquet/charity-mergers/internal/models"

	"gopkg.in/yaml.v3"
)

//go:embed default_rules.yaml
var defaultRulesYAML []byte

// RuleSource provides and persists the classification table.
type RuleSource interface {
	LoadRules() (models.RulesConfig, error)
	SaveRules(path string, rules models.RulesConfig) error
}

// RuleStore manages loading and saving of the classification table.
// An empty RulesFile selects the embedded default table.
type RuleStore struct {
	RulesFile string
	logger    logging.Logger
}

// NewRuleStore creates a store reading rulesFile.
func NewRuleStore(rulesFile string, logger logging.Logger) *RuleStore {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &RuleStore{
		RulesFile: rulesFile,
		logger:    logger,
	}
}

// DefaultRules returns the embedded classification table.
func DefaultRules() (models.RulesConfig, error) {
	return ParseRules(defaultRulesYAML)
}

// DefaultRulesYAML returns the embedded table as written on disk.
func DefaultRulesYAML() []byte {
	out := make([]byte, len(defaultRulesYAML))
	copy(out, defaultRulesYAML)
	return out
}

// ParseRules decodes a classification table. Exact keys are lower-cased and
// trimmed so they compare against normalized candidates.
func ParseRules(data []byte) (models.RulesConfig, error) {
	var raw models.RulesConfig
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return models.RulesConfig{}, fmt.Errorf("error parsing rules: %w", err)
	}

	rules := models.RulesConfig{
		Exact:    make(map[string]models.Category, len(raw.Exact)),
		Patterns: raw.Patterns,
	}
	for key, category := range raw.Exact {
		if _, err := models.ParseCategory(string(category)); err != nil {
			return models.RulesConfig{}, fmt.Errorf("exact rule %q: %w", key, err)
		}
		rules.Exact[strings.TrimSpace(strings.ToLower(key))] = category
	}
	for i, p := range rules.Patterns {
		if _, err := models.ParseCategory(string(p.Category)); err != nil {
			return models.RulesConfig{}, fmt.Errorf("pattern rule %d (%q): %w", i, p.Pattern, err)
		}
	}
	return rules, nil
}

// FindConfigFile looks for a file in the standard locations.
func (s *RuleStore) FindConfigFile(filename string) (string, error) {
	if filepath.IsAbs(filename) {
		if _, err := os.Stat(filename); err == nil {
			return filename, nil
		}
		return "", os.ErrNotExist
	}

	locations := []string{
		filename,
		filepath.Join("config", filename),
	}
	if homeDir, err := os.UserHomeDir(); err == nil {
		locations = append(locations, filepath.Join(homeDir, ".config", "charity-mergers", filename))
	}

	for _, location := range locations {
		if _, err := os.Stat(location); err == nil {
			return location, nil
		}
	}
	return "", os.ErrNotExist
}

// LoadRules loads the classification table. A missing file falls back to
// the embedded defaults with a warning; a malformed file is an error.
func (s *RuleStore) LoadRules() (models.RulesConfig, error) {
	if s.RulesFile == "" {
		s.logger.Debug("Using embedded classification rules")
		return DefaultRules()
	}

	filePath, err := s.FindConfigFile(s.RulesFile)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			s.logger.Warn("Rules file not found, using embedded rules",
				logging.Field{Key: logging.FieldFile, Value: s.RulesFile})
			return DefaultRules()
		}
		return models.RulesConfig{}, fmt.Errorf("error resolving rules file: %w", err)
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		return models.RulesConfig{}, fmt.Errorf("error reading rules file: %w", err)
	}

	rules, err := ParseRules(data)
	if err != nil {
		return models.RulesConfig{}, fmt.Errorf("%s: %w", filePath, err)
	}

	s.logger.Debug("Loaded classification rules",
		logging.Field{Key: logging.FieldFile, Value: filePath},
		logging.Field{Key: "exact", Value: len(rules.Exact)},
		logging.Field{Key: "patterns", Value: len(rules.Patterns)})
	return rules, nil
}

// SaveRules writes a classification table to path, creating parent directories.
func (s *RuleStore) SaveRules(path string, rules models.RulesConfig) error {
	if err := os.MkdirAll(filepath.Dir(path), models.PermissionDirectory); err != nil {
		return fmt.Errorf("error creating directory: %w", err)
	}

	data, err := yaml.Marshal(rules)
	if err != nil {
		return fmt.Errorf("error marshaling rules: %w", err)
	}

	if err := os.WriteFile(path, data, models.PermissionOutputFile); err != nil {
		return fmt.Errorf("error writing rules: %w", err)
	}

	s.logger.Info("Saved classification rules",
		logging.Field{Key: logging.FieldFile, Value: path},
		logging.Field{Key: logging.FieldCount, Value: len(rules.Exact) + len(rules.Patterns)})
	return nil
}
