package wheel

import (
	"math/rand/v2"

	"github.com/spinwheel/spinwheel/internal/media"
)

// Source supplies random draws. It matches the relevant subset of
// *math/rand/v2.Rand so a seeded generator can be injected in tests.
type Source interface {
	// IntN returns a uniform random int in [0, n). n must be > 0.
	IntN(n int) int
}

// globalSource draws from the package-level rand/v2 generator, which is
// safe for concurrent use.
type globalSource struct{}

func (globalSource) IntN(n int) int { return rand.IntN(n) }

// Picker draws winners from candidate pools.
type Picker struct {
	src Source
}

// NewPicker creates a picker using the given random source.
// A nil source falls back to the shared math/rand/v2 generator.
func NewPicker(src Source) *Picker {
	if src == nil {
		src = globalSource{}
	}
	return &Picker{src: src}
}

// Pick draws one item uniformly at random over pool positions and returns
// the winning element, its position, and the pool unchanged. Items that
// occupy several positions (duplicate titles) win proportionally more
// often; that weighting is intentional and must not be collapsed.
// Returns ErrEmptyPool if the pool is empty.
func (p *Picker) Pick(pool []*media.Item) (*media.Item, int, error) {
	if len(pool) == 0 {
		return nil, 0, ErrEmptyPool
	}
	idx := p.src.IntN(len(pool))
	return pool[idx], idx, nil
}
