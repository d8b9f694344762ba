package domain

import (
	"strconv"
	"strings"
)

// Business type constants.
const (
	TypeSupplier   = "Supplier"
	TypeStore      = "Store"
	TypeOffice     = "Office"
	TypeIndividual = "Individual"
)

// Listing status constants.
const (
	StatusPending   = "pending"
	StatusActive    = "active"
	StatusVerified  = "verified"
	StatusInactive  = "inactive"
	StatusSuspended = "suspended"
)

// DefaultCategory is assigned to listings the upstream left uncategorized.
const DefaultCategory = "Other"

// Business is one normalized directory listing. Instances are built from
// upstream payloads, never mutated in place, and replaced wholesale on refetch.
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

// Normalized returns a copy with invariants enforced: rating clamped to [0,5],
// review count non-negative, empty category replaced with DefaultCategory.
func (b Business) Normalized() Business {
	if b.Rating < 0 {
		b.Rating = 0
	}
	if b.Rating > 5 {
		b.Rating = 5
	}
	if b.ReviewCount < 0 {
		b.ReviewCount = 0
	}
	if strings.TrimSpace(b.Category) == "" {
		b.Category = DefaultCategory
	}
	return b
}

// DistanceKM parses the numeric prefix of ServiceDistance ("5 km" -> 5).
// Returns false when the field is empty or unparseable.
func (b Business) DistanceKM() (float64, bool) {
	s := strings.TrimSpace(b.ServiceDistance)
	if s == "" {
		return 0, false
	}
	if i := strings.IndexByte(s, ' '); i >= 0 {
		s = s[:i]
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// DedupeByID removes duplicate listings, keeping the first occurrence of each ID.
// The identifier is the sole dedup key.
func DedupeByID(in []Business) []Business {
	if len(in) == 0 {
		return in
	}
	seen := make(map[int64]struct{}, len(in))
	out := make([]Business, 0, len(in))
	for _, b := range in {
		if _, ok := seen[b.ID]; ok {
			continue
		}
		seen[b.ID] = struct{}{}
		out = append(out, b)
	}
	return out
}
