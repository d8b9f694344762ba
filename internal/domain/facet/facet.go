// Package facet holds the active filter state of a directory search.
package facet

import (
	"fmt"
	"strings"
)

// All is the sentinel value meaning "no constraint for this dimension".
// It never means "match nothing".
const All = "all"

// MaxRating is the upper bound of the rating scale.
const MaxRating = 5

// Params are the raw facet inputs before validation.
type Params struct {
	Query         string
	Category      string
	BusinessType  string
	Location      string
	Address       string
	MinRating     float64
	MaxDistanceKM float64
	VerifiedOnly  bool
	OpenNowOnly   bool
}

// Selection is a validated facet selection. The zero value matches everything.
type Selection struct {
	query         string
	category      string
	businessType  string
	location      string
	address       string
	minRating     float64
	maxDistanceKM float64
	verifiedOnly  bool
	openNowOnly   bool
}

// knownBusinessTypes maps lowercased type names to their canonical form.
var knownBusinessTypes = map[string]string{
	"supplier":   "Supplier",
	"store":      "Store",
	"office":     "Office",
	"individual": "Individual",
}

// New validates and normalizes a facet selection.
// Empty category/businessType are treated as the All sentinel.
func New(p Params) (Selection, error) {
	category := strings.TrimSpace(p.Category)
	if category == "" {
		category = All
	}

	businessType := strings.TrimSpace(p.BusinessType)
	switch {
	case businessType == "" || strings.EqualFold(businessType, All):
		businessType = All
	default:
		canonical, ok := knownBusinessTypes[strings.ToLower(businessType)]
		if !ok {
			return Selection{}, fmt.Errorf("unknown business type %q", p.BusinessType)
		}
		businessType = canonical
	}

	if p.MinRating < 0 || p.MinRating > MaxRating {
		return Selection{}, fmt.Errorf("min rating must be between 0 and %d, got %v", MaxRating, p.MinRating)
	}
	if p.MaxDistanceKM < 0 {
		return Selection{}, fmt.Errorf("max distance must not be negative, got %v", p.MaxDistanceKM)
	}

	return Selection{
		query:         strings.TrimSpace(p.Query),
		category:      category,
		businessType:  businessType,
		location:      strings.TrimSpace(p.Location),
		address:       strings.TrimSpace(p.Address),
		minRating:     p.MinRating,
		maxDistanceKM: p.MaxDistanceKM,
		verifiedOnly:  p.VerifiedOnly,
		openNowOnly:   p.OpenNowOnly,
	}, nil
}

// Query returns the free-text query.
func (s Selection) Query() string { return s.query }

// Category returns the selected category id (All when unconstrained).
func (s Selection) Category() string {
	if s.category == "" {
		return All
	}
	return s.category
}

// BusinessType returns the selected business type (All when unconstrained).
func (s Selection) BusinessType() string {
	if s.businessType == "" {
		return All
	}
	return s.businessType
}

// Location returns the location substring filter.
func (s Selection) Location() string { return s.location }

// Address returns the address substring filter.
func (s Selection) Address() string { return s.address }

// MinRating returns the rating floor (0 when unconstrained).
func (s Selection) MinRating() float64 { return s.minRating }

// MaxDistanceKM returns the distance ceiling in km (0 when unconstrained).
func (s Selection) MaxDistanceKM() float64 { return s.maxDistanceKM }

// VerifiedOnly reports whether only verified listings match.
func (s Selection) VerifiedOnly() bool { return s.verifiedOnly }

// OpenNowOnly reports whether only currently open listings match.
func (s Selection) OpenNowOnly() bool { return s.openNowOnly }

// HasCategory reports whether the category dimension is constrained.
func (s Selection) HasCategory() bool { return s.Category() != All }

// HasBusinessType reports whether the business type dimension is constrained.
func (s Selection) HasBusinessType() bool { return s.BusinessType() != All }

// HasDistance reports whether a distance ceiling is active.
func (s Selection) HasDistance() bool { return s.maxDistanceKM > 0 }

// IsDefault reports whether no dimension is constrained. Filtering with a
// default selection returns the input unchanged.
func (s Selection) IsDefault() bool {
	return s.query == "" &&
		!s.HasCategory() &&
		!s.HasBusinessType() &&
		s.location == "" &&
		s.address == "" &&
		s.minRating == 0 &&
		s.maxDistanceKM == 0 &&
		!s.verifiedOnly &&
		!s.openNowOnly
}
