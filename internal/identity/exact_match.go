package identity

import (
	"strings"

	"fjacquet/charity-mergers/internal/models"
)

// ExactMatchStrategy classifies candidates found verbatim in a table of known
// one-off descriptors.
type ExactMatchStrategy struct {
	table map[string]models.Category
}

// NewExactMatchStrategy copies table with keys lower-cased and trimmed.
func NewExactMatchStrategy(table map[string]models.Category) *ExactMatchStrategy {
	normalized := make(map[string]models.Category, len(table))
	for key, category := range table {
		normalized[strings.TrimSpace(strings.ToLower(key))] = category
	}
	return &ExactMatchStrategy{table: normalized}
}

// Name returns the name of this strategy.
func (s *ExactMatchStrategy) Name() string {
	return "ExactMatch"
}

// Classify looks the candidate up in the table.
func (s *ExactMatchStrategy) Classify(candidate string) (models.Category, bool) {
	category, ok := s.table[strings.TrimSpace(strings.ToLower(candidate))]
	return category, ok
}

// Len returns the number of entries in the table.
func (s *ExactMatchStrategy) Len() int {
	return len(s.table)
}
