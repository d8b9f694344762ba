// Package suggest derives structured facets from a free-text query by
// matching it against static keyword tables. No external NLP is involved:
// interpretation is a pure function over the tables below.
package suggest

import (
	"regexp"
	"strconv"
	"strings"
)

// Suggestions are the facets extracted from one free-text query.
// Nil pointer fields mean "no constraint suggested".
type Suggestions struct {
	Categories    []string `json:"categories,omitempty"`
	Locations     []string `json:"locations,omitempty"`
	BusinessTypes []string `json:"businessTypes,omitempty"`
	Features      []string `json:"features,omitempty"`
	MinRating     *float64 `json:"minRating,omitempty"`
	MaxDistanceKM *float64 `json:"maxDistanceKm,omitempty"`
	PriceRange    *string  `json:"priceRange,omitempty"`
}

// IsEmpty reports whether nothing was extracted. An empty suggestion set is
// equivalent to "no additional constraint".
func (s Suggestions) IsEmpty() bool {
	return len(s.Categories) == 0 &&
		len(s.Locations) == 0 &&
		len(s.BusinessTypes) == 0 &&
		len(s.Features) == 0 &&
		s.MinRating == nil &&
		s.MaxDistanceKM == nil &&
		s.PriceRange == nil
}

// rule maps a pipe-delimited keyword alternation to a canonical facet value.
type rule struct {
	patterns string
	value    string
}

var categoryRules = []rule{
	{"electronics|electronic|appliance|appliances|tv|laptop|phone", "electronics"},
	{"furniture|sofa|chair|desk|decor|mattress", "furniture"},
	{"food|restaurant|catering|beverage|grocery|bakery", "food"},
	{"construction|building|cement|contractor|scaffolding", "construction"},
	{"fashion|clothing|clothes|apparel|textile|abaya", "fashion"},
	{"medical|health|clinic|pharmacy|dental", "medical"},
	{"automotive|car|cars|vehicle|spare parts|tires", "automotive"},
	{"industrial|machinery|equipment|tools|generator", "industrial"},
}

var locationRules = []rule{
	{"riyadh", "Riyadh"},
	{"jeddah", "Jeddah"},
	{"dammam", "Dammam"},
	{"mecca|makkah", "Mecca"},
	{"medina|madinah", "Medina"},
	{"khobar", "Khobar"},
	{"tabuk", "Tabuk"},
	{"abha", "Abha"},
}

var businessTypeRules = []rule{
	{"supplier|wholesaler|distributor|manufacturer", "Supplier"},
	{"store|shop|retailer|showroom", "Store"},
	{"office|agency|firm", "Office"},
	{"individual|freelancer", "Individual"},
}

var featureRules = []rule{
	{"delivery|deliver|shipping|ship to", "delivery"},
	{"installation|install|assembly", "installation"},
	{"warranty|guarantee", "warranty"},
	{"24/7|24 hours|around the clock", "always-open"},
	{"certified|trusted|verified", "verified"},
	{"wholesale|bulk", "wholesale"},
}

// ratingTiers resolve quality keywords to a rating floor. When several tiers
// match, the MAXIMUM tier wins: "good quality, best price" yields 5, not 4.
var ratingTiers = []struct {
	patterns string
	tier     float64
}{
	{"best|excellent|top rated|top-rated|five star|5 star", 5},
	{"good|great|quality|reliable", 4},
	{"decent|okay|average", 3},
}

var priceRules = []rule{
	{"cheap|budget|affordable|inexpensive|low cost", "low"},
	{"mid range|mid-range|moderate", "medium"},
	{"luxury|premium|high end|high-end|expensive", "high"},
}

// proximity keywords imply a default distance ceiling.
const proximityKeywords = "nearby|near me|close by|closest|walking distance"

const proximityDefaultKM = 10

// withinKmRe matches explicit phrases like "within 25 km".
var withinKmRe = regexp.MustCompile(`within\s+(\d+(?:\.\d+)?)\s*km`)

// Interpret extracts structured facets from a free-text query.
// Matching is case-insensitive; blank input yields an empty set.
// Interpret never fails: unmatched input produces no constraints.
func Interpret(query string) Suggestions {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return Suggestions{}
	}

	var s Suggestions
	s.Categories = matchRules(q, categoryRules)
	s.Locations = matchRules(q, locationRules)
	s.BusinessTypes = matchRules(q, businessTypeRules)
	s.Features = matchRules(q, featureRules)

	var rating float64
	for _, t := range ratingTiers {
		if containsAny(q, t.patterns) && t.tier > rating {
			rating = t.tier
		}
	}
	if rating > 0 {
		s.MinRating = &rating
	}

	if m := withinKmRe.FindStringSubmatch(q); m != nil {
		if km, err := strconv.ParseFloat(m[1], 64); err == nil {
			s.MaxDistanceKM = &km
		}
	} else if containsAny(q, proximityKeywords) {
		km := float64(proximityDefaultKM)
		s.MaxDistanceKM = &km
	}

	for _, r := range priceRules {
		if containsAny(q, r.patterns) {
			price := r.value
			s.PriceRange = &price
			break
		}
	}

	return s
}

// matchRules collects the canonical values of every rule whose alternation
// matches the query, deduplicated in table order.
func matchRules(q string, rules []rule) []string {
	var out []string
	seen := make(map[string]struct{})
	for _, r := range rules {
		if !containsAny(q, r.patterns) {
			continue
		}
		if _, ok := seen[r.value]; ok {
			continue
		}
		seen[r.value] = struct{}{}
		out = append(out, r.value)
	}
	return out
}

// containsAny reports whether the query contains any alternative of a
// pipe-delimited pattern.
func containsAny(q, patterns string) bool {
	for _, alt := range strings.Split(patterns, "|") {
		if alt != "" && strings.Contains(q, alt) {
			return true
		}
	}
	return false
}
