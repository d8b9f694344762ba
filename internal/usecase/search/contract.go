package search

import (
	"context"

	"github.com/dalil-cloud/dalil/internal/domain"
)

// ListingSource fetches normalized business listings from the directory backend.
type ListingSource interface {
	Fetch(ctx context.Context, h domain.FetchHint) ([]domain.Business, error)
}
