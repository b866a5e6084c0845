package identity

import "fjacquet/charity-mergers/internal/models"

// ClassificationStrategy maps a digit-free candidate to a category.
// Implementations must be pure: the same candidate always yields the same
// answer.
type ClassificationStrategy interface {
	// Classify returns the category for candidate and whether it matched.
	Classify(candidate string) (models.Category, bool)

	// Name returns the name of this strategy for logging and traces.
	Name() string
}
