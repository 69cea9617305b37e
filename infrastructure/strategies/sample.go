package strategies

import (
	"math/rand/v2"

	"github.com/ahrav/go-allot/internal/domain"
)

// SampleDistinct draws k distinct values uniformly without replacement from
// [0, universe), in draw order. It refuses with a *domain.SizeError rather
// than repeat a value when k exceeds the universe.
func SampleDistinct(rng *rand.Rand, dim domain.Dimension, universe, k int) ([]int, error) {
	if k > universe {
		return nil, domain.NewSizeError(dim, universe, k)
	}
	// Partial Fisher-Yates: the first k positions end up holding the sample.
	pool := make([]int, universe)
	for i := range pool {
		pool[i] = i
	}
	for i := 0; i < k; i++ {
		j := i + rng.IntN(universe-i)
		pool[i], pool[j] = pool[j], pool[i]
	}
	return pool[:k], nil
}
