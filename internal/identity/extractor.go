// Package identity derives a normalized charity identity from the free-text
// organization names found in the merger register.
package identity

import (
	"strings"

	"fjacquet/charity-mergers/internal/logging"
	"fjacquet/charity-mergers/internal/models"
	"fjacquet/charity-mergers/internal/textutils"
)

// Extractor turns raw names into CharityIdentity values. It holds no mutable
// state once built and is safe for concurrent use.
type Extractor struct {
	strategies []ClassificationStrategy
	logger     logging.Logger
}

// NewExtractor builds an extractor from a classification table. Exact matches
// are tried before patterns. It fails only when a pattern does not compile.
func NewExtractor(rules models.RulesConfig, logger logging.Logger) (*Extractor, error) {
	patterns, err := NewPatternStrategy(rules.Patterns)
	if err != nil {
		return nil, err
	}
	return NewExtractorWithStrategies(logger, NewExactMatchStrategy(rules.Exact), patterns), nil
}

// NewExtractorWithStrategies builds an extractor classifying with the given
// strategies in order.
func NewExtractorWithStrategies(logger logging.Logger, strategies ...ClassificationStrategy) *Extractor {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &Extractor{
		strategies: strategies,
		logger:     logger,
	}
}

// Extract returns the identity of a single raw name. It never fails.
func (e *Extractor) Extract(name string) models.CharityIdentity {
	return e.Explain(name).Identity
}

// ExtractAll maps Extract over names, preserving order.
func (e *Extractor) ExtractAll(names []string) []models.CharityIdentity {
	out := make([]models.CharityIdentity, len(names))
	for i, name := range names {
		out[i] = e.Extract(name)
	}
	return out
}

// Explain returns the identity of name together with the steps that led to it.
func (e *Extractor) Explain(name string) Trace {
	input := strings.TrimSpace(name)
	trace := Trace{Input: input, Source: SourceNone}

	candidate, ok := textutils.ExtractTrailingParenthetical(input)
	if !ok {
		if run, found := textutils.ExtractDigitRun(input); found {
			trace.Source = SourceDigitRun
			trace.Candidate = run
			trace.Identity = models.Registered(run)
			return trace
		}
		trace.Identity = models.Unknown(input)
		return trace
	}

	candidate = textutils.NormalizeSeparators(candidate)
	trace.Source = SourceParenthetical
	trace.Candidate = candidate

	switch {
	case textutils.HasNumberRun(candidate):
		trace.Identity = models.Registered(candidate)
	case textutils.ContainsDigit(candidate):
		// Short digit runs such as "(No. 123)" are not numbers; look for a
		// real one elsewhere in the name.
		if run, found := textutils.ExtractDigitRun(input); found {
			trace.Source = SourceDigitRun
			trace.Candidate = run
			trace.Identity = models.Registered(run)
		} else {
			trace.Identity = models.Unknown(candidate)
		}
	default:
		trace.Classification = e.classify(candidate)
		if category, matched := trace.Classification.Best(); matched {
			trace.Identity = models.Classified(category)
			trace.Pattern = e.matchingPattern(candidate)
		} else {
			trace.Identity = models.Unknown(candidate)
			e.logger.Debug("No classification rule matched",
				logging.Field{Key: logging.FieldCandidate, Value: candidate})
		}
	}
	return trace
}

// matchingPattern returns the pattern rule that classified candidate, or ""
// when an earlier strategy decided.
func (e *Extractor) matchingPattern(candidate string) string {
	for _, strategy := range e.strategies {
		if _, ok := strategy.Classify(candidate); ok {
			if ps, isPattern := strategy.(*PatternStrategy); isPattern {
				pattern, _ := ps.MatchingPattern(candidate)
				return pattern
			}
			return ""
		}
	}
	return ""
}

func (e *Extractor) classify(candidate string) StrategyResults {
	var results StrategyResults
	for _, strategy := range e.strategies {
		category, ok := strategy.Classify(candidate)
		results.Results = append(results.Results, StrategyResult{
			Strategy: strategy.Name(),
			Category: category,
			Found:    ok,
		})
		if ok {
			break
		}
	}
	return results
}

// Equivalent reports whether two raw identifiers denote the same registered
// charity once separators are normalized.
func Equivalent(a, b models.CharityIdentity) bool {
	ka, okA := a.JoinKey()
	kb, okB := b.JoinKey()
	return okA && okB && textutils.NormalizeSeparators(ka) == textutils.NormalizeSeparators(kb)
}
