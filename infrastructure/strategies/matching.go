package strategies

import (
	"cmp"
	"slices"

	"github.com/ahrav/go-allot/internal/domain"
)

// Match walks the shortlist in order and hands each resource to the agent
// with the largest ballot weight on it among agents that hold nothing yet in
// dim. Equal weights go to the higher agent id. A resource arriving after
// every agent is matched is left unused. It returns the number of unused
// shortlisted resources.
func Match(dim domain.Dimension, shortlist []int, ballots []domain.Ballot, assignment domain.Assignment) int {
	agents := make([]int, len(assignment))
	unused := 0

	for _, resource := range shortlist {
		for i := range agents {
			agents[i] = i
		}
		slices.SortFunc(agents, func(a, b int) int {
			wa := ballots[a].Weights(dim)[resource]
			wb := ballots[b].Weights(dim)[resource]
			if c := cmp.Compare(wb, wa); c != 0 {
				return c
			}
			return cmp.Compare(b, a)
		})

		matched := false
		for _, agent := range agents {
			if assignment[agent].Resource(dim) == domain.Unassigned {
				assignment.Set(agent, dim, resource)
				matched = true
				break
			}
		}
		if !matched {
			unused++
		}
	}
	return unused
}
