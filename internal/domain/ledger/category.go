package ledger

import (
	"strings"

	"github.com/finbook/backend/internal/domain/shared"
)

// CategoryRef names a category and records whether the caller referenced
// one they already use or introduced a new one. The distinction is made
// once, while decoding the request, so no sentinel strings travel through
// data fields.
type CategoryRef struct {
	name  string
	isNew bool
}

// ExistingCategory references a category already present in the caller's ledger
func ExistingCategory(name string) (CategoryRef, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return CategoryRef{}, shared.NewDomainError("INVALID_INPUT", "Category name is required")
	}
	if len(name) > maxCategoryLength {
		return CategoryRef{}, shared.NewDomainError("INVALID_INPUT", "Category must be at most 50 characters")
	}
	return CategoryRef{name: name}, nil
}

// NewCategory introduces a category the caller has not used before
func NewCategory(name string) (CategoryRef, error) {
	ref, err := ExistingCategory(name)
	if err != nil {
		return CategoryRef{}, err
	}
	ref.isNew = true
	return ref, nil
}

// Name returns the category name
func (c CategoryRef) Name() string {
	return c.name
}

// IsNew reports whether this reference introduced the category
func (c CategoryRef) IsNew() bool {
	return c.isNew
}

// IsZero reports whether the reference is unset
func (c CategoryRef) IsZero() bool {
	return c.name == ""
}

// ResolveCategory classifies a requested category name against the set of
// names the caller already uses. Matching is exact.
func ResolveCategory(name string, known []string) (CategoryRef, error) {
	for _, k := range known {
		if k == strings.TrimSpace(name) {
			return ExistingCategory(name)
		}
	}
	return NewCategory(name)
}
