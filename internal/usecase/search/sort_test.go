package search

import (
	"testing"

	"github.com/dalil-cloud/dalil/internal/domain"
	"github.com/dalil-cloud/dalil/internal/domain/sortkey"
)

func sortFixture() []domain.Business {
	return []domain.Business{
		{ID: 1, Name: "Beta Trading", Rating: 3.0, ReviewCount: 10, ServiceDistance: "15 km"},
		{ID: 2, Name: "alpha supplies", Rating: 4.8, ReviewCount: 200, ServiceDistance: "2 km"},
		{ID: 3, Name: "Gamma Co", Rating: 4.1, ReviewCount: 55},
	}
}

func TestSort_RatingDescending(t *testing.T) {
	s := NewSorter("en")
	out := s.Sort(sortFixture(), sortkey.Rating)

	want := []int64{2, 3, 1}
	for i, id := range want {
		if out[i].ID != id {
			t.Fatalf("order = %v, want %v", ids(out), want)
		}
	}
}

func TestSort_RatingConsistency(t *testing.T) {
	// Re-sorting an already sorted list yields the same order.
	s := NewSorter("en")
	once := s.Sort(sortFixture(), sortkey.Rating)
	twice := s.Sort(once, sortkey.Rating)

	for i := range once {
		if once[i].ID != twice[i].ID {
			t.Fatalf("resort changed order: %v vs %v", ids(once), ids(twice))
		}
	}
}

func TestSort_DistanceAscendingUnparseableLast(t *testing.T) {
	s := NewSorter("en")
	out := s.Sort(sortFixture(), sortkey.Distance)

	want := []int64{2, 1, 3}
	for i, id := range want {
		if out[i].ID != id {
			t.Fatalf("order = %v, want %v", ids(out), want)
		}
	}
}

func TestSort_ReviewsDescending(t *testing.T) {
	s := NewSorter("en")
	out := s.Sort(sortFixture(), sortkey.Reviews)

	want := []int64{2, 3, 1}
	for i, id := range want {
		if out[i].ID != id {
			t.Fatalf("order = %v, want %v", ids(out), want)
		}
	}
}

func TestSort_NameAscendingIgnoresCase(t *testing.T) {
	// Collation orders "alpha" before "Beta" regardless of case, unlike a
	// raw byte comparison.
	s := NewSorter("en")
	out := s.Sort(sortFixture(), sortkey.Name)

	want := []int64{2, 1, 3}
	for i, id := range want {
		if out[i].ID != id {
			t.Fatalf("order = %v, want %v", ids(out), want)
		}
	}
}

func TestSort_DoesNotMutateInput(t *testing.T) {
	in := sortFixture()
	NewSorter("en").Sort(in, sortkey.Rating)

	if in[0].ID != 1 || in[1].ID != 2 || in[2].ID != 3 {
		t.Errorf("input order changed: %v", ids(in))
	}
}

func TestNewSorter_BadLocaleFallsBack(t *testing.T) {
	s := NewSorter("not a locale")
	out := s.Sort(sortFixture(), sortkey.Name)
	if len(out) != 3 {
		t.Fatalf("len = %d, want 3", len(out))
	}
}
