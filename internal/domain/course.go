package domain

import "fmt"

// Course is the persisted description of one voting round: the groups that
// vote and the topics and time slots they vote over.
type Course struct {
	ID         int64      `json:"id"`
	Name       string     `json:"name"`
	TotalVotes int        `json:"total_votes"`
	Groups     int        `json:"groups"`
	Topics     []Topic    `json:"topics"`
	Slots      []TimeSlot `json:"slots"`
}

// Sizing returns the course's agent and resource counts.
func (c Course) Sizing() Sizing {
	return Sizing{Agents: c.Groups, Topics: len(c.Topics), Slots: len(c.Slots)}
}

// Topic is one presentation topic.
type Topic struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// Label renders the topic as "name (description)", dropping empty
// descriptions.
func (t Topic) Label() string {
	if t.Description == "" {
		return t.Name
	}
	return fmt.Sprintf("%s (%s)", t.Name, t.Description)
}

// TimeSlot is one presentation slot.
type TimeSlot struct {
	ID    int64  `json:"id"`
	Begin string `json:"begin"`
	End   string `json:"end"`
}

// Label renders the slot as "begin~end".
func (s TimeSlot) Label() string { return s.Begin + "~" + s.End }

// GroupVotes is one group's raw vote counts, indexed by course topic and slot
// position.
type GroupVotes struct {
	Topics []int `json:"topics"`
	Slots  []int `json:"slots"`
}

// Tally holds the stored votes of every group in a course. Groups are
// numbered from 1; Votes[i] belongs to group i+1. Groups that never voted
// hold all-zero vectors.
type Tally struct {
	Course Course       `json:"course"`
	Votes  []GroupVotes `json:"votes"`
}

// Ballots normalises every group's votes into a ballot. Agent id i is group
// i+1.
func (t Tally) Ballots() []Ballot {
	ballots := make([]Ballot, len(t.Votes))
	for i, gv := range t.Votes {
		ballots[i] = Ballot{
			Topics: NormalizeVotes(gv.Topics),
			Slots:  NormalizeVotes(gv.Slots),
		}
	}
	return ballots
}

// ValidateVotes checks a group's submission against the course: one count
// per topic and slot, each count within [0, TotalVotes], and each dimension
// summing to the course's vote total.
func (c Course) ValidateVotes(group int, votes GroupVotes) error {
	verr := NewValidationError(fmt.Sprintf("votes for group %d of course %q", group, c.Name))
	if group < 1 || group > c.Groups {
		verr.AddErrorf("group %d outside [1,%d]", group, c.Groups)
	}
	checkDim := func(dim Dimension, counts []int, want int) {
		if len(counts) != want {
			verr.AddErrorf("%s votes: %d entries, course has %d", dim, len(counts), want)
			return
		}
		sum, bounded := 0, true
		for i, v := range counts {
			switch {
			case v < 0:
				verr.AddErrorf("%s votes: negative count %d at position %d", dim, v, i)
				bounded = false
			case v > c.TotalVotes:
				verr.AddErrorf("%s votes: count %d at position %d exceeds total votes %d", dim, v, i, c.TotalVotes)
				bounded = false
			default:
				sum += v
			}
		}
		if bounded && sum != c.TotalVotes {
			verr.AddErrorf("%s votes sum to %d, total votes is %d", dim, sum, c.TotalVotes)
			verr.Err = ErrVoteTotalMismatch
		}
	}
	checkDim(DimensionTopic, votes.Topics, len(c.Topics))
	checkDim(DimensionSlot, votes.Slots, len(c.Slots))

	if verr.HasErrors() {
		if verr.Err == nil {
			verr.Err = ErrInvalidBallot
		}
		return verr
	}
	return nil
}
