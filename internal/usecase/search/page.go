package search

import "github.com/dalil-cloud/dalil/internal/domain"

// Window is a validated result slice: a page number and size clamped to the
// service limits. all=true requests the maximum page size.
type Window struct {
	page    int
	perPage int
}

// NewWindow clamps raw pagination inputs. Non-positive page defaults to 1,
// non-positive perPage to defaultSize; perPage never exceeds maxSize.
func NewWindow(page, perPage int, all bool, defaultSize, maxSize int) Window {
	if page <= 0 {
		page = 1
	}
	if perPage <= 0 {
		perPage = defaultSize
	}
	if perPage > maxSize || all {
		perPage = maxSize
	}
	if all {
		page = 1
	}
	return Window{page: page, perPage: perPage}
}

// Page returns the 1-based page number.
func (w Window) Page() int { return w.page }

// PerPage returns the page size.
func (w Window) PerPage() int { return w.perPage }

// Slice returns the records of this window; out-of-range pages yield an
// empty slice, never an error.
func (w Window) Slice(in []domain.Business) []domain.Business {
	start := (w.page - 1) * w.perPage
	if start >= len(in) {
		return []domain.Business{}
	}
	end := start + w.perPage
	if end > len(in) {
		end = len(in)
	}
	return in[start:end]
}

// TotalPages returns the number of pages needed for total records.
func (w Window) TotalPages(total int) int {
	if total == 0 {
		return 0
	}
	return (total + w.perPage - 1) / w.perPage
}
