package identity

import (
	"fmt"
	"strings"

	"fjacquet/charity-mergers/internal/models"
)

// CandidateSource records where the identifier candidate came from.
type CandidateSource string

const (
	SourceParenthetical CandidateSource = "parenthetical"
	SourceDigitRun      CandidateSource = "digit_run"
	SourceNone          CandidateSource = "none"
)

// StrategyResult represents one classification strategy attempt.
type StrategyResult struct {
	Strategy string
	Category models.Category
	Found    bool
}

// StrategyResults aggregates the attempts made for one candidate.
type StrategyResults struct {
	Results []StrategyResult
}

// Best returns the first successful result.
func (sr StrategyResults) Best() (models.Category, bool) {
	for _, r := range sr.Results {
		if r.Found {
			return r.Category, true
		}
	}
	return "", false
}

// Summary returns a compact rendering such as "ExactMatch:no_match, Pattern:exempt".
func (sr StrategyResults) Summary() string {
	parts := make([]string, 0, len(sr.Results))
	for _, r := range sr.Results {
		status := "no_match"
		if r.Found {
			status = string(r.Category)
		}
		parts = append(parts, fmt.Sprintf("%s:%s", r.Strategy, status))
	}
	return strings.Join(parts, ", ")
}

// Trace explains how an identity was derived from a name. Pattern is set
// when a pattern rule classified the candidate.
type Trace struct {
	Input          string
	Source         CandidateSource
	Candidate      string
	Classification StrategyResults
	Pattern        string
	Identity       models.CharityIdentity
}

// String renders the trace on a few lines for terminal output.
func (t Trace) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "input:     %q\n", t.Input)
	fmt.Fprintf(&b, "source:    %s\n", t.Source)
	fmt.Fprintf(&b, "candidate: %q\n", t.Candidate)
	if len(t.Classification.Results) > 0 {
		fmt.Fprintf(&b, "classify:  %s\n", t.Classification.Summary())
	}
	if t.Pattern != "" {
		fmt.Fprintf(&b, "pattern:   %q\n", t.Pattern)
	}
	fmt.Fprintf(&b, "identity:  %s\n", t.Identity)
	return b.String()
}
