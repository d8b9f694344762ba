package search

import (
	"strings"

	"github.com/dalil-cloud/dalil/internal/domain"
	"github.com/dalil-cloud/dalil/internal/domain/facet"
	"github.com/dalil-cloud/dalil/internal/domain/suggest"
)

// ApplySuggestions narrows a listing set by interpreter-derived facets.
// Values within one facet are OR'd, facets are AND'd. An empty suggestion
// set returns the input unchanged. The input is never mutated.
//
// PriceRange is not applied: listings carry no price attribute, so the
// suggestion is surfaced to clients but cannot narrow the set.
func ApplySuggestions(in []domain.Business, sug suggest.Suggestions) []domain.Business {
	if sug.IsEmpty() {
		return in
	}

	out := make([]domain.Business, 0, len(in))
	for _, b := range in {
		if !matchesAnyCategory(b, sug.Categories) {
			continue
		}
		if !matchesAnyLocation(b, sug.Locations) {
			continue
		}
		if !matchesAnyType(b, sug.BusinessTypes) {
			continue
		}
		if !matchesAnyFeature(b, sug.Features) {
			continue
		}
		if sug.MinRating != nil && b.Rating < *sug.MinRating {
			continue
		}
		if sug.MaxDistanceKM != nil && !withinDistance(b, *sug.MaxDistanceKM) {
			continue
		}
		out = append(out, b)
	}
	return out
}

// ApplySelection narrows a listing set by the explicit facet selection.
// Behaviorally equivalent to strict left-to-right ANDing of the predicates.
// A default selection returns the input unchanged. The input is never mutated.
func ApplySelection(in []domain.Business, sel facet.Selection) []domain.Business {
	if sel.IsDefault() {
		return in
	}

	out := make([]domain.Business, 0, len(in))
	for _, b := range in {
		if sel.HasCategory() && !matchesCategory(b, sel.Category()) {
			continue
		}
		if sel.HasBusinessType() && !strings.EqualFold(b.BusinessType, sel.BusinessType()) {
			continue
		}
		if sel.Location() != "" && !containsFold(b.Address, sel.Location()) {
			continue
		}
		if sel.Address() != "" && !containsFold(b.Address, sel.Address()) {
			continue
		}
		if b.Rating < sel.MinRating() {
			continue
		}
		if sel.HasDistance() && !withinDistance(b, sel.MaxDistanceKM()) {
			continue
		}
		if sel.VerifiedOnly() && !b.Verified {
			continue
		}
		if sel.OpenNowOnly() && !b.OpenNow {
			continue
		}
		if sel.Query() != "" && !matchesFreeText(b, sel.Query()) {
			continue
		}
		out = append(out, b)
	}
	return out
}

// matchesCategory reports whether the listing belongs to the selected
// category. The selection may be a category id or its display name, and the
// listing may store either form in its canonical category or aliases, so
// every combination is checked.
func matchesCategory(b domain.Business, selected string) bool {
	for _, want := range categoryForms(selected) {
		if strings.EqualFold(b.Category, want) {
			return true
		}
		for _, alias := range b.Categories {
			if strings.EqualFold(alias, want) {
				return true
			}
		}
	}
	return false
}

// categoryForms returns every string identifying the selected category:
// the value itself, plus the paired id or display name from the canonical table.
func categoryForms(selected string) []string {
	forms := []string{selected}
	if name, ok := domain.CategoryName(selected); ok {
		forms = append(forms, name)
	}
	for _, c := range domain.Categories() {
		if strings.EqualFold(c.Name, selected) {
			forms = append(forms, c.ID)
		}
	}
	return forms
}

func matchesAnyCategory(b domain.Business, cats []string) bool {
	if len(cats) == 0 {
		return true
	}
	for _, c := range cats {
		if matchesCategory(b, c) {
			return true
		}
	}
	return false
}

func matchesAnyLocation(b domain.Business, locs []string) bool {
	if len(locs) == 0 {
		return true
	}
	for _, l := range locs {
		if containsFold(b.Address, l) {
			return true
		}
	}
	return false
}

func matchesAnyType(b domain.Business, types []string) bool {
	if len(types) == 0 {
		return true
	}
	for _, t := range types {
		if strings.EqualFold(b.BusinessType, t) {
			return true
		}
	}
	return false
}

// matchesAnyFeature checks suggested feature tags. The "verified" and
// "always-open" tags map to listing flags; everything else matches against
// the services list.
func matchesAnyFeature(b domain.Business, features []string) bool {
	if len(features) == 0 {
		return true
	}
	for _, f := range features {
		switch f {
		case "verified":
			if b.Verified {
				return true
			}
		case "always-open":
			if b.OpenNow {
				return true
			}
		default:
			for _, svc := range b.Services {
				if containsFold(svc, f) {
					return true
				}
			}
		}
	}
	return false
}

// matchesFreeText reports whether the query appears in the listing's name,
// category, address, services, or category aliases. Matching is
// case-insensitive everywhere.
func matchesFreeText(b domain.Business, query string) bool {
	if containsFold(b.Name, query) ||
		containsFold(b.Category, query) ||
		containsFold(b.Address, query) {
		return true
	}
	for _, svc := range b.Services {
		if containsFold(svc, query) {
			return true
		}
	}
	for _, alias := range b.Categories {
		if containsFold(alias, query) {
			return true
		}
	}
	return false
}

// withinDistance applies the distance ceiling. Listings with a missing or
// unparseable service distance are excluded while a ceiling is active: an
// unknown distance is not assumed to fit.
func withinDistance(b domain.Business, ceilingKM float64) bool {
	km, ok := b.DistanceKM()
	return ok && km <= ceilingKM
}

func containsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}
