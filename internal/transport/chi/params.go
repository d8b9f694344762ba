package chi

import (
	"fmt"
	"net/url"

	"github.com/oapi-codegen/runtime"

	"github.com/dalil-cloud/dalil/internal/domain"
	"github.com/dalil-cloud/dalil/internal/domain/facet"
	"github.com/dalil-cloud/dalil/internal/domain/sortkey"
	"github.com/dalil-cloud/dalil/internal/domain/suggest"
	searchuc "github.com/dalil-cloud/dalil/internal/usecase/search"
)

// listParams is the raw query surface of GET /businesses. Absent parameters
// keep their zero value, which the facet layer treats as "no constraint".
type listParams struct {
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
	AI           string
	Sort         string
	Page         int
	PerPage      int
	All          bool
}

// decodeListQuery binds URL query parameters into a search query.
func decodeListQuery(values url.Values) (searchuc.Query, error) {
	var p listParams

	scalars := []struct {
		name string
		dest any
	}{
		{"search", &p.Search},
		{"address", &p.Address},
		{"category", &p.Category},
		{"businessType", &p.BusinessType},
		{"location", &p.Location},
		{"distance", &p.Distance},
		{"rating", &p.Rating},
		{"verified", &p.Verified},
		{"openNow", &p.OpenNow},
		{"ai", &p.AI},
		{"sort", &p.Sort},
		{"page", &p.Page},
		{"per_page", &p.PerPage},
		{"all", &p.All},
	}
	for _, s := range scalars {
		if !values.Has(s.name) {
			continue
		}
		if err := runtime.BindQueryParameter("form", true, false, s.name, values, s.dest); err != nil {
			return searchuc.Query{}, fmt.Errorf("parameter %s: %w", s.name, err)
		}
	}

	lists := []struct {
		name string
		dest *[]string
	}{
		{"type", &p.Types},
		{"features", &p.Features},
	}
	for _, l := range lists {
		if !values.Has(l.name) {
			continue
		}
		if err := runtime.BindQueryParameter("form", false, false, l.name, values, l.dest); err != nil {
			return searchuc.Query{}, fmt.Errorf("parameter %s: %w", l.name, err)
		}
	}

	sel, err := facet.New(facet.Params{
		Query:         p.Search,
		Category:      p.Category,
		BusinessType:  p.BusinessType,
		Location:      p.Location,
		Address:       p.Address,
		MinRating:     p.Rating,
		MaxDistanceKM: p.Distance,
		VerifiedOnly:  p.Verified,
		OpenNowOnly:   p.OpenNow,
	})
	if err != nil {
		return searchuc.Query{}, fmt.Errorf("%w: %w", domain.ErrInvalidArgument, err)
	}

	if p.Page < 0 || p.PerPage < 0 {
		return searchuc.Query{}, fmt.Errorf("%w: page and per_page must not be negative", domain.ErrInvalidArgument)
	}

	return searchuc.Query{
		Selection: sel,
		Suggestions: suggest.Suggestions{
			BusinessTypes: p.Types,
			Features:      p.Features,
		},
		AIText:  p.AI,
		Sort:    sortkey.Key(p.Sort),
		Page:    p.Page,
		PerPage: p.PerPage,
		All:     p.All,
	}, nil
}
