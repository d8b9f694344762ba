package search

import (
	"context"
	"fmt"

	"github.com/dalil-cloud/dalil/internal/domain"
	"github.com/dalil-cloud/dalil/internal/domain/facet"
	"github.com/dalil-cloud/dalil/internal/domain/sortkey"
	"github.com/dalil-cloud/dalil/internal/domain/suggest"
)

// Query is one directory search: explicit facets, optional free-text to
// interpret, pre-parsed suggestions, sort key, and the requested window.
type Query struct {
	Selection   facet.Selection
	Suggestions suggest.Suggestions
	AIText      string
	Sort        sortkey.Key
	Page        int
	PerPage     int
	All         bool
}

// Result is a filtered, sorted, windowed listing page.
type Result struct {
	Items       []domain.Business
	Suggestions suggest.Suggestions
	Page        int
	PerPage     int
	Total       int
	TotalPages  int
}

// Service runs the search pipeline: fetch, suggestion pass, explicit facet
// pass, sort, window. The two filter passes stay composed rather than merged
// so interpreter-derived facets and explicit controls cannot shadow each other.
type Service struct {
	source          ListingSource
	sorter          *Sorter
	fetchPageSize   int
	defaultPageSize int
	maxPageSize     int
}

// New creates a search service.
func New(source ListingSource, sorter *Sorter) *Service {
	return &Service{
		source:          source,
		sorter:          sorter,
		fetchPageSize:   200,
		defaultPageSize: 12,
		maxPageSize:     100,
	}
}

// WithPagination configures page size limits.
func (s *Service) WithPagination(defaultPageSize, maxPageSize int) *Service {
	if defaultPageSize > 0 {
		s.defaultPageSize = defaultPageSize
	}
	if maxPageSize > 0 {
		s.maxPageSize = maxPageSize
	}
	return s
}

// WithFetchPageSize configures how many records are requested from the
// backend per search.
func (s *Service) WithFetchPageSize(n int) *Service {
	if n > 0 {
		s.fetchPageSize = n
	}
	return s
}

// Search executes the pipeline and returns one result window.
func (s *Service) Search(ctx context.Context, q Query) (Result, error) {
	sug := q.Suggestions
	if q.AIText != "" {
		sug = suggest.Interpret(q.AIText)
	}

	sortBy := q.Sort
	if sortBy == "" {
		sortBy = sortkey.Rating
	}
	if !sortBy.IsValid() {
		return Result{}, fmt.Errorf("%w: sort key %q", domain.ErrInvalidArgument, q.Sort)
	}

	records, err := s.source.Fetch(ctx, domain.FetchHint{
		PerPage:   s.fetchPageSize,
		Sort:      sortBy,
		Selection: q.Selection,
		AIText:    q.AIText,
	})
	if err != nil {
		return Result{}, fmt.Errorf("fetch listings: %w", err)
	}

	records = domain.DedupeByID(records)
	records = ApplySuggestions(records, sug)
	records = ApplySelection(records, q.Selection)
	records = s.sorter.Sort(records, sortBy)

	w := NewWindow(q.Page, q.PerPage, q.All, s.defaultPageSize, s.maxPageSize)

	return Result{
		Items:       w.Slice(records),
		Suggestions: sug,
		Page:        w.Page(),
		PerPage:     w.PerPage(),
		Total:       len(records),
		TotalPages:  w.TotalPages(len(records)),
	}, nil
}
