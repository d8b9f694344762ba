// Package sortkey defines the comparator keys a result list can be ordered by.
package sortkey

// Key is the sort comparator.
type Key string

// Sort key constants.
const (
	// Rating orders by rating, highest first.
	Rating Key = "rating"
	// Distance orders by the numeric prefix of the service distance, nearest first.
	Distance Key = "distance"
	// Reviews orders by review count, most reviewed first.
	Reviews Key = "reviews"
	// Name orders by listing name, locale-aware ascending.
	Name Key = "name"
)

// IsValid checks if the key is one of the supported values.
func (k Key) IsValid() bool {
	return k == Rating || k == Distance || k == Reviews || k == Name
}
