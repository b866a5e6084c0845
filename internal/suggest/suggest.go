// Package suggest asks a language model which category a review entry most
// likely belongs to. Suggestions are advisory and never change an identity.
package suggest

import (
	"context"
	"fmt"
	"strings"

	"fjacquet/charity-mergers/internal/logging"
	"fjacquet/charity-mergers/internal/models"
	"fjacquet/charity-mergers/internal/review"
)

// Suggestion is a proposed category with the model's explanation.
type Suggestion struct {
	Category models.Category
	Reason   string
}

// Suggester proposes a category for the raw name of a charity.
type Suggester interface {
	Suggest(ctx context.Context, raw string) (Suggestion, error)
}

// BuildPrompt returns the prompt sent for one raw name.
func BuildPrompt(raw string) string {
	categories := make([]string, len(models.Categories))
	for i, c := range models.Categories {
		categories[i] = string(c)
	}
	return fmt.Sprintf(`The following organization appears in the register of merged charities in England and Wales
but carries no charity registration number:
Name: %s

Assign it to exactly one of the following categories:
%s

exempt: exempt charities (universities, academies, museums); excepted: excepted charities (some churches,
scout and guide groups); unregistered: small charities below the registration threshold;
unincorporated: unincorporated associations or trusts; other: anything else.

Respond in this format:
Category: [Selected Category Name]
Description: [Brief explanation of why you chose this category]`,
		raw, strings.Join(categories, ", "))
}

// ParseResponse extracts the category and reason from a model response.
func ParseResponse(response string) (Suggestion, error) {
	var category, reason string
	for _, line := range strings.Split(response, "\n") {
		line = strings.TrimSpace(line)
		switch {
		case strings.HasPrefix(line, "Category:"):
			category = strings.TrimSpace(strings.TrimPrefix(line, "Category:"))
		case strings.HasPrefix(line, "Description:"):
			reason = strings.TrimSpace(strings.TrimPrefix(line, "Description:"))
		}
	}

	category = strings.ToLower(strings.Trim(category, "[]*` "))
	if category == "" {
		// Unstructured answers are accepted when they name exactly one category.
		lower := strings.ToLower(response)
		var found []models.Category
		for _, c := range models.Categories {
			if strings.Contains(lower, string(c)) {
				found = append(found, c)
			}
		}
		if len(found) != 1 {
			return Suggestion{}, fmt.Errorf("no category in response: %q", strings.TrimSpace(response))
		}
		return Suggestion{Category: found[0], Reason: strings.TrimSpace(response)}, nil
	}

	parsed, err := models.ParseCategory(category)
	if err != nil {
		return Suggestion{}, err
	}
	return Suggestion{Category: parsed, Reason: reason}, nil
}

// Annotate fills the suggestion columns of entries in place. Failures are
// logged and leave the entry blank. It stops early when ctx is done and
// returns the number of entries annotated.
func Annotate(ctx context.Context, s Suggester, entries []review.Entry, logger logging.Logger) int {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	annotated := 0
	for i := range entries {
		if ctx.Err() != nil {
			logger.Warn("Stopping suggestions early",
				logging.Field{Key: logging.FieldCount, Value: annotated},
				logging.Field{Key: logging.FieldError, Value: ctx.Err().Error()})
			break
		}
		raw := entries[i].Example
		if raw == "" {
			raw = entries[i].Label
		}
		suggestion, err := s.Suggest(ctx, raw)
		if err != nil {
			logger.WithError(err).Warn("Suggestion failed",
				logging.Field{Key: logging.FieldRaw, Value: raw},
				logging.Field{Key: logging.FieldSide, Value: string(entries[i].Side)})
			continue
		}
		entries[i].Suggestion = string(suggestion.Category)
		entries[i].Reason = suggestion.Reason
		annotated++
	}
	logger.Info("Annotated review entries",
		logging.Field{Key: logging.FieldCount, Value: annotated},
		logging.Field{Key: "total", Value: len(entries)})
	return annotated
}
