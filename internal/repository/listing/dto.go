package listing

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/dalil-cloud/dalil/internal/domain"
)

// envelope is the backend list response shape.
type envelope struct {
	Data []record `json:"data"`
}

// record is one raw backend listing. The backend is loose about scalar types:
// coordinates and ratings arrive as numbers or strings, category and service
// fields as a scalar or an array. Every loose field gets a flex wrapper.
type record struct {
	ID              flexInt     `json:"id"`
	Name            string      `json:"name"`
	Category        string      `json:"category"`
	Categories      flexStrings `json:"categories"`
	BusinessType    string      `json:"businessType"`
	Address         string      `json:"address"`
	Latitude        flexFloat   `json:"latitude"`
	Longitude       flexFloat   `json:"longitude"`
	Rating          flexFloat   `json:"rating"`
	ReviewsCount    flexInt     `json:"reviewsCount"`
	IsApproved      bool        `json:"isApproved"`
	IsOpenNow       bool        `json:"isOpenNow"`
	Services        flexStrings `json:"services"`
	TargetCustomers flexStrings `json:"targetCustomers"`
	TargetMarket    flexStrings `json:"targetMarket"`
	ServiceDistance flexString  `json:"serviceDistance"`
	Status          string      `json:"status"`
	ContactEmail    string      `json:"contactEmail"`
	MainPhone       string      `json:"mainPhone"`
	Phone           string      `json:"phone"`
}

// toDomain maps a raw record into a normalized listing. Malformed numerics
// degrade to zero values rather than failing the whole page.
func (r record) toDomain() domain.Business {
	customers := []string(r.TargetCustomers)
	if len(customers) == 0 {
		customers = r.TargetMarket
	}
	phone := r.MainPhone
	if phone == "" {
		phone = r.Phone
	}

	return domain.Business{
		ID:              int64(r.ID),
		Name:            strings.TrimSpace(r.Name),
		Category:        strings.TrimSpace(r.Category),
		Categories:      r.Categories,
		BusinessType:    strings.TrimSpace(r.BusinessType),
		Address:         strings.TrimSpace(r.Address),
		Latitude:        float64(r.Latitude),
		Longitude:       float64(r.Longitude),
		Rating:          float64(r.Rating),
		ReviewCount:     int(r.ReviewsCount),
		Verified:        r.IsApproved,
		OpenNow:         r.IsOpenNow,
		Services:        r.Services,
		TargetCustomers: customers,
		ServiceDistance: string(r.ServiceDistance),
		Status:          strings.ToLower(strings.TrimSpace(r.Status)),
		ContactEmail:    strings.TrimSpace(r.ContactEmail),
		Phone:           strings.TrimSpace(phone),
	}.Normalized()
}

func decodeListings(data []byte) ([]domain.Business, error) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrUpstreamDecode, err)
	}

	out := make([]domain.Business, 0, len(env.Data))
	for _, rec := range env.Data {
		out = append(out, rec.toDomain())
	}
	return out, nil
}

// flexFloat accepts a JSON number, a numeric string, or null.
type flexFloat float64

func (f *flexFloat) UnmarshalJSON(data []byte) error {
	if isNull(data) {
		*f = 0
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil {
			*f = 0
			return nil
		}
		*f = flexFloat(v)
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		*f = 0
		return nil
	}
	*f = flexFloat(v)
	return nil
}

// flexInt accepts a JSON number, a numeric string, or null.
type flexInt int64

func (f *flexInt) UnmarshalJSON(data []byte) error {
	var ff flexFloat
	if err := ff.UnmarshalJSON(data); err != nil {
		return err
	}
	*f = flexInt(ff)
	return nil
}

// flexString accepts a JSON string, a bare number, or null.
type flexString string

func (f *flexString) UnmarshalJSON(data []byte) error {
	if isNull(data) {
		*f = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = flexString(s)
		return nil
	}
	*f = flexString(bytes.TrimSpace(data))
	return nil
}

// flexStrings accepts a JSON array of strings, a single scalar string, or null.
type flexStrings []string

func (f *flexStrings) UnmarshalJSON(data []byte) error {
	if isNull(data) {
		*f = nil
		return nil
	}
	if len(data) > 0 && data[0] == '[' {
		var items []flexString
		if err := json.Unmarshal(data, &items); err != nil {
			return err
		}
		out := make([]string, 0, len(items))
		for _, it := range items {
			if s := strings.TrimSpace(string(it)); s != "" {
				out = append(out, s)
			}
		}
		*f = out
		return nil
	}
	var s flexString
	if err := s.UnmarshalJSON(data); err != nil {
		return err
	}
	if trimmed := strings.TrimSpace(string(s)); trimmed != "" {
		*f = []string{trimmed}
	}
	return nil
}

func isNull(data []byte) bool {
	return len(data) == 0 || bytes.Equal(bytes.TrimSpace(data), []byte("null"))
}
