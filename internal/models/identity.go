// Package models provides the data structures shared across the pipeline.
package models

import "fmt"

// IdentityKind tags the variant held by a CharityIdentity.
type IdentityKind string

const (
	KindRegistered IdentityKind = "registered"
	KindClassified IdentityKind = "classified"
	KindUnknown    IdentityKind = "unknown"
)

// Category is the label given to charities that carry no registration number.
type Category string

const (
	CategoryExempt         Category = "exempt"
	CategoryExcepted       Category = "excepted"
	CategoryUnregistered   Category = "unregistered"
	CategoryUnincorporated Category = "unincorporated"
	CategoryOther          Category = "other"
)

// Categories lists every valid category in a stable order.
var Categories = []Category{
	CategoryExempt,
	CategoryExcepted,
	CategoryUnregistered,
	CategoryUnincorporated,
	CategoryOther,
}

// ParseCategory returns the Category named by s.
func ParseCategory(s string) (Category, error) {
	for _, c := range Categories {
		if string(c) == s {
			return c, nil
		}
	}
	return "", fmt.Errorf("unknown category %q", s)
}

// CharityIdentity is the identity derived from a raw organization name.
// Exactly one of Number, Category or Raw is meaningful, selected by Kind.
// Values are comparable with ==.
type CharityIdentity struct {
	Kind     IdentityKind
	Number   string
	Category Category
	Raw      string
}

// Registered builds a registered identity for a normalized charity number.
func Registered(number string) CharityIdentity {
	return CharityIdentity{Kind: KindRegistered, Number: number}
}

// Classified builds an identity for a charity known to have no number.
func Classified(category Category) CharityIdentity {
	return CharityIdentity{Kind: KindClassified, Category: category}
}

// Unknown builds an identity for residual text that needs manual review.
func Unknown(raw string) CharityIdentity {
	return CharityIdentity{Kind: KindUnknown, Raw: raw}
}

// IsRegistered reports whether the identity carries a charity number.
func (c CharityIdentity) IsRegistered() bool {
	return c.Kind == KindRegistered
}

// JoinKey returns the key used to match records across datasets.
// Only registered identities have one: no two unregistered entities are
// assumed to be the same charity.
func (c CharityIdentity) JoinKey() (string, bool) {
	if c.Kind != KindRegistered || c.Number == "" {
		return "", false
	}
	return c.Number, true
}

// Label renders the identity as a single column value.
func (c CharityIdentity) Label() string {
	switch c.Kind {
	case KindRegistered:
		return c.Number
	case KindClassified:
		return string(c.Category)
	default:
		return c.Raw
	}
}

// NeedsReview reports whether the identity should be surfaced for manual review.
func (c CharityIdentity) NeedsReview() bool {
	return c.Kind == KindUnknown || (c.Kind == KindClassified && c.Category == CategoryOther)
}

func (c CharityIdentity) String() string {
	switch c.Kind {
	case KindRegistered:
		return fmt.Sprintf("Registered(%q)", c.Number)
	case KindClassified:
		return fmt.Sprintf("Classified(%s)", c.Category)
	default:
		return fmt.Sprintf("Unknown(%q)", c.Raw)
	}
}
