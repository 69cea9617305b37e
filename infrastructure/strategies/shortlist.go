package strategies

import (
	"container/heap"
	"slices"

	"github.com/ahrav/go-allot/internal/domain"
)

// VoteMass sums every ballot's weight per resource in dim.
func VoteMass(ballots []domain.Ballot, dim domain.Dimension, universe int) []float64 {
	mass := make([]float64, universe)
	for _, b := range ballots {
		for r, w := range b.Weights(dim) {
			mass[r] += w
		}
	}
	return mass
}

// ranked is a resource with its aggregate vote mass.
type ranked struct {
	resource int
	mass     float64
}

// outranks orders resources by mass, descending, with the lower index winning
// ties. It is a strict total order, so the shortlist is deterministic.
func (a ranked) outranks(b ranked) bool {
	if a.mass != b.mass {
		return a.mass > b.mass
	}
	return a.resource < b.resource
}

// boundedHeap keeps the k best resources seen so far with the weakest at the
// root.
type boundedHeap []ranked

func (h boundedHeap) Len() int           { return len(h) }
func (h boundedHeap) Less(i, j int) bool { return h[j].outranks(h[i]) }
func (h boundedHeap) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }
func (h *boundedHeap) Push(x any)        { *h = append(*h, x.(ranked)) }
func (h *boundedHeap) Pop() any {
	old := *h
	x := old[len(old)-1]
	*h = old[:len(old)-1]
	return x
}

// Shortlist selects the k resources with the largest vote mass using a
// bounded min-heap. At the selection boundary equal mass is resolved in
// favour of the lower resource index. The result is ordered by mass,
// descending, then by index, ascending.
//
// Returns a *domain.SizeError if fewer than k resources exist.
func Shortlist(dim domain.Dimension, mass []float64, k int) ([]int, error) {
	if k > len(mass) {
		return nil, domain.NewSizeError(dim, len(mass), k)
	}
	if k <= 0 {
		return nil, nil
	}

	h := make(boundedHeap, 0, k)
	for r, m := range mass {
		candidate := ranked{resource: r, mass: m}
		switch {
		case h.Len() < k:
			heap.Push(&h, candidate)
		case candidate.outranks(h[0]):
			h[0] = candidate
			heap.Fix(&h, 0)
		}
	}

	slices.SortFunc(h, func(a, b ranked) int {
		if a.outranks(b) {
			return -1
		}
		if b.outranks(a) {
			return 1
		}
		return 0
	})

	out := make([]int, len(h))
	for i, e := range h {
		out[i] = e.resource
	}
	return out, nil
}
