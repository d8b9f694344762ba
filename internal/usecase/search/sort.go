package search

import (
	"sort"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/dalil-cloud/dalil/internal/domain"
	"github.com/dalil-cloud/dalil/internal/domain/sortkey"
)

// Sorter orders listing sets by a comparator key. Name ordering is
// locale-aware via the configured collation tag.
type Sorter struct {
	tag language.Tag
}

// NewSorter creates a sorter collating names for the given BCP 47 locale.
// An unparseable locale falls back to the unmarked collation.
func NewSorter(locale string) *Sorter {
	tag, err := language.Parse(locale)
	if err != nil {
		tag = language.Und
	}
	return &Sorter{tag: tag}
}

// Sort returns a new slice ordered by the given key; the input is unmodified.
// Ties may appear in any relative order.
func (s *Sorter) Sort(in []domain.Business, key sortkey.Key) []domain.Business {
	out := make([]domain.Business, len(in))
	copy(out, in)

	switch key {
	case sortkey.Rating:
		sort.Slice(out, func(i, j int) bool { return out[i].Rating > out[j].Rating })
	case sortkey.Distance:
		sortByDistance(out)
	case sortkey.Reviews:
		sort.Slice(out, func(i, j int) bool { return out[i].ReviewCount > out[j].ReviewCount })
	case sortkey.Name:
		// Collators carry internal buffers, so build one per call rather
		// than sharing across goroutines.
		coll := collate.New(s.tag)
		sort.Slice(out, func(i, j int) bool {
			return coll.CompareString(out[i].Name, out[j].Name) < 0
		})
	}
	return out
}

// sortByDistance orders ascending by the numeric prefix of the service
// distance. Listings without a parseable distance sort last.
func sortByDistance(out []domain.Business) {
	type keyed struct {
		km float64
		ok bool
	}
	keys := make([]keyed, len(out))
	for i, b := range out {
		keys[i].km, keys[i].ok = b.DistanceKM()
	}
	idx := make([]int, len(out))
	for i := range idx {
		idx[i] = i
	}
	sort.Slice(idx, func(a, b int) bool {
		ka, kb := keys[idx[a]], keys[idx[b]]
		if ka.ok != kb.ok {
			return ka.ok
		}
		return ka.km < kb.km
	})
	sorted := make([]domain.Business, len(out))
	for i, j := range idx {
		sorted[i] = out[j]
	}
	copy(out, sorted)
}
