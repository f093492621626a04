// Package wheel implements the filtering-and-selection engine behind the
// spin feature: it narrows a catalog snapshot into an ordered candidate
// pool, draws one winner uniformly at random, and maps pool positions to
// the angular segments a wheel renderer needs.
//
// Everything in this package is a pure function of its inputs; nothing is
// cached or mutated, so all calls are safe for concurrent use.
package wheel

import (
	"errors"

	"github.com/spinwheel/spinwheel/internal/media"
)

var (
	// ErrEmptyPool is returned when a draw is attempted on an empty pool.
	ErrEmptyPool = errors.New("candidate pool is empty")
	// ErrInvalidCriteria is returned when criteria contain an unrecognized
	// media type.
	ErrInvalidCriteria = errors.New("invalid filter criteria")
)

// Criteria describes which catalog items are eligible for a spin.
type Criteria struct {
	// Kind restricts the pool to one media type. Empty means all types.
	Kind media.Type
	// RequiredTags must ALL be present on an item for it to be eligible.
	// Matching is case-insensitive and exact per tag.
	RequiredTags []string
	// IncludeArchived makes archived items eligible. Done items are always
	// eligible regardless of this flag.
	IncludeArchived bool
}

// Validate checks that the criteria only reference recognized enum values.
func (c Criteria) Validate() error {
	if c.Kind != "" && !c.Kind.Valid() {
		return ErrInvalidCriteria
	}
	return nil
}

// Filter returns the ordered candidate pool: every item that satisfies all
// active predicates, in the same relative order the items were supplied.
// Duplicate titles are kept as distinct positions; the pool order doubles
// as the position weighting for Pick and as the segment order for
// rendering. An empty result is not an error.
func Filter(items []*media.Item, criteria Criteria) ([]*media.Item, error) {
	if err := criteria.Validate(); err != nil {
		return nil, err
	}

	pool := make([]*media.Item, 0, len(items))
	for _, item := range items {
		if item.Status == media.StatusArchived && !criteria.IncludeArchived {
			continue
		}
		if criteria.Kind != "" && item.Type != criteria.Kind {
			continue
		}
		if !item.HasAllTags(criteria.RequiredTags) {
			continue
		}
		pool = append(pool, item)
	}
	return pool, nil
}
