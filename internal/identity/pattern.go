package identity

import (
	"regexp"

	"fjacquet/charity-mergers/internal/models"
	"fjacquet/charity-mergers/internal/parsererror"
)

type compiledRule struct {
	source   string
	re       *regexp.Regexp
	category models.Category
}

// PatternStrategy classifies candidates by the first matching pattern.
// Patterns are case-insensitive and match anywhere in the candidate.
type PatternStrategy struct {
	rules []compiledRule
}

// NewPatternStrategy compiles rules in order. An invalid expression yields a
// *parsererror.RuleError naming its position.
func NewPatternStrategy(rules []models.PatternRule) (*PatternStrategy, error) {
	compiled := make([]compiledRule, 0, len(rules))
	for i, rule := range rules {
		re, err := regexp.Compile("(?i)" + rule.Pattern)
		if err != nil {
			return nil, &parsererror.RuleError{Index: i, Pattern: rule.Pattern, Err: err}
		}
		compiled = append(compiled, compiledRule{
			source:   rule.Pattern,
			re:       re,
			category: rule.Category,
		})
	}
	return &PatternStrategy{rules: compiled}, nil
}

// Name returns the name of this strategy.
func (s *PatternStrategy) Name() string {
	return "Pattern"
}

// Classify returns the category of the first rule whose pattern matches.
func (s *PatternStrategy) Classify(candidate string) (models.Category, bool) {
	_, category, ok := s.match(candidate)
	return category, ok
}

// MatchingPattern returns the source of the first matching pattern.
func (s *PatternStrategy) MatchingPattern(candidate string) (string, bool) {
	source, _, ok := s.match(candidate)
	return source, ok
}

func (s *PatternStrategy) match(candidate string) (string, models.Category, bool) {
	for _, rule := range s.rules {
		if rule.re.MatchString(candidate) {
			return rule.source, rule.category, true
		}
	}
	return "", "", false
}
