package domain

import (
	"github.com/dalil-cloud/dalil/internal/domain/facet"
	"github.com/dalil-cloud/dalil/internal/domain/sortkey"
)

// FetchHint carries the parameters forwarded to the directory backend on a
// listing fetch. The backend may pre-narrow the result set; the local filter
// pipeline remains authoritative either way.
type FetchHint struct {
	PerPage   int
	Sort      sortkey.Key
	Selection facet.Selection
	AIText    string
}
