package models

// PatternRule maps a regular expression to a category. Patterns are matched
// case-insensitively anywhere in the candidate.
type PatternRule struct {
	Pattern  string   `yaml:"pattern"`
	Category Category `yaml:"category"`
}

// RulesConfig is the classification table for candidates that hold no digits.
// Exact entries are checked before patterns; patterns are tried in order.
type RulesConfig struct {
	Exact    map[string]Category `yaml:"exact"`
	Patterns []PatternRule       `yaml:"patterns"`
}
