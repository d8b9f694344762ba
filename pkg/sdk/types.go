package dalil

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// Business is one directory listing as returned by the API.
type Business struct {
	ID              int64    `json:"id"`
	Name            string   `json:"name"`
	Category        string   `json:"category"`
	Categories      []string `json:"categories,omitempty"`
	BusinessType    string   `json:"businessType"`
	Address         string   `json:"address"`
	Latitude        float64  `json:"latitude"`
	Longitude       float64  `json:"longitude"`
	Rating          float64  `json:"rating"`
	ReviewCount     int      `json:"reviewsCount"`
	Verified        bool     `json:"verified"`
	OpenNow         bool     `json:"openNow"`
	Services        []string `json:"services,omitempty"`
	TargetCustomers []string `json:"targetCustomers,omitempty"`
	ServiceDistance string   `json:"serviceDistance,omitempty"`
	Status          string   `json:"status,omitempty"`
	ContactEmail    string   `json:"contactEmail,omitempty"`
	Phone           string   `json:"phone,omitempty"`
}

// Category is one canonical directory category.
type Category struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Suggestions are the filters derived from a free-text query.
type Suggestions struct {
	Categories    []string `json:"categories,omitempty"`
	Locations     []string `json:"locations,omitempty"`
	BusinessTypes []string `json:"businessTypes,omitempty"`
	Features      []string `json:"features,omitempty"`
	MinRating     *float64 `json:"minRating,omitempty"`
	MaxDistanceKM *float64 `json:"maxDistanceKm,omitempty"`
	PriceRange    *string  `json:"priceRange,omitempty"`
}

// Meta describes a result window.
type Meta struct {
	Page       int `json:"page"`
	PerPage    int `json:"per_page"`
	Total      int `json:"total"`
	TotalPages int `json:"total_pages"`
}

// ListResult is one page of search results.
type ListResult struct {
	Data        []Business   `json:"data"`
	Meta        Meta         `json:"meta"`
	Suggestions *Suggestions `json:"suggestions,omitempty"`
}

// Health is the service health report.
type Health struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

// Params is the complete state of one search: explicit facets, free text,
// sort and window. The zero value means "everything, first page".
type Params struct {
	Search       string
	Address      string
	Category     string
	BusinessType string
	Location     string
	Distance     float64
	Rating       float64
	Verified     bool
	OpenNow      bool
	Types        []string
	Features     []string
	AIText       string
	Sort         string
	Page         int
	PerPage      int
	All          bool
}

// noConstraint is the category/type sentinel meaning "no constraint".
const noConstraint = "all"

// Values encodes the state into URL query parameters. Default values are
// omitted entirely, never written as empty strings.
func (p Params) Values() url.Values {
	v := url.Values{}

	setStr := func(name, val string) {
		if s := strings.TrimSpace(val); s != "" {
			v.Set(name, s)
		}
	}
	setStr("search", p.Search)
	setStr("address", p.Address)
	setStr("location", p.Location)
	setStr("ai", p.AIText)
	setStr("sort", p.Sort)

	if p.Category != "" && p.Category != noConstraint {
		v.Set("category", p.Category)
	}
	if p.BusinessType != "" && p.BusinessType != noConstraint {
		v.Set("businessType", p.BusinessType)
	}
	if p.Distance > 0 {
		v.Set("distance", strconv.FormatFloat(p.Distance, 'f', -1, 64))
	}
	if p.Rating > 0 {
		v.Set("rating", strconv.FormatFloat(p.Rating, 'f', -1, 64))
	}
	if p.Verified {
		v.Set("verified", "true")
	}
	if p.OpenNow {
		v.Set("openNow", "true")
	}
	if len(p.Types) > 0 {
		v.Set("type", strings.Join(p.Types, ","))
	}
	if len(p.Features) > 0 {
		v.Set("features", strings.Join(p.Features, ","))
	}
	if p.Page > 0 {
		v.Set("page", strconv.Itoa(p.Page))
	}
	if p.PerPage > 0 {
		v.Set("per_page", strconv.Itoa(p.PerPage))
	}
	if p.All {
		v.Set("all", "true")
	}
	return v
}

// ParseParams hydrates a state from URL query parameters. An absent
// parameter means "no constraint". Encoding the result reproduces the
// recognized parameters.
func ParseParams(v url.Values) (Params, error) {
	p := Params{
		Search:       v.Get("search"),
		Address:      v.Get("address"),
		Category:     v.Get("category"),
		BusinessType: v.Get("businessType"),
		Location:     v.Get("location"),
		AIText:       v.Get("ai"),
		Sort:         v.Get("sort"),
	}

	var err error
	if p.Distance, err = parseFloatParam(v, "distance"); err != nil {
		return Params{}, err
	}
	if p.Rating, err = parseFloatParam(v, "rating"); err != nil {
		return Params{}, err
	}
	if p.Page, err = parseIntParam(v, "page"); err != nil {
		return Params{}, err
	}
	if p.PerPage, err = parseIntParam(v, "per_page"); err != nil {
		return Params{}, err
	}

	p.Verified = v.Get("verified") == "true"
	p.OpenNow = v.Get("openNow") == "true"
	p.All = v.Get("all") == "true"

	if s := v.Get("type"); s != "" {
		p.Types = strings.Split(s, ",")
	}
	if s := v.Get("features"); s != "" {
		p.Features = strings.Split(s, ",")
	}

	return p, nil
}

func parseFloatParam(v url.Values, name string) (float64, error) {
	s := v.Get(name)
	if s == "" {
		return 0, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: parameter %s: %q", ErrInvalidRequest, name, s)
	}
	return f, nil
}

func parseIntParam(v url.Values, name string) (int, error) {
	s := v.Get(name)
	if s == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%w: parameter %s: %q", ErrInvalidRequest, name, s)
	}
	return n, nil
}
