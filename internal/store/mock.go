package store

import "fjacquet/charity-mergers/internal/models"

// MockRuleStore is an in-memory rule source for tests.
type MockRuleStore struct {
	Rules          models.RulesConfig
	LoadRulesError error
	Saved          []models.RulesConfig
}

// LoadRules returns the configured rules or error.
func (m *MockRuleStore) LoadRules() (models.RulesConfig, error) {
	if m.LoadRulesError != nil {
		return models.RulesConfig{}, m.LoadRulesError
	}
	return m.Rules, nil
}

// SaveRules records the rules it was given.
func (m *MockRuleStore) SaveRules(_ string, rules models.RulesConfig) error {
	m.Saved = append(m.Saved, rules)
	return nil
}
