package domain

import "fmt"

// BallotTotal is the weight every non-empty ballot vector sums to.
const BallotTotal = 1.0

// BallotStyle selects how an agent spreads its voting weight.
type BallotStyle string

// Supported ballot styles.
const (
	// StylePlurality puts the whole weight on the top-ranked item.
	StylePlurality BallotStyle = "plurality"

	// StyleProportional spreads weight linearly decreasing with rank.
	StyleProportional BallotStyle = "proportional"
)

// Ballot is one agent's weight vectors over topics and slots, indexed by
// resource.
type Ballot struct {
	Topics []float64 `json:"topics"`
	Slots  []float64 `json:"slots"`
}

// Weights returns the weight vector for dim.
func (b Ballot) Weights(dim Dimension) []float64 {
	if dim == DimensionSlot {
		return b.Slots
	}
	return b.Topics
}

// Validate checks that the ballot has one weight per resource and no
// negative weights.
func (b Ballot) Validate(s Sizing) error {
	if len(b.Topics) != s.Topics {
		return fmt.Errorf("%w: %d topic weights, expected %d", ErrInvalidBallot, len(b.Topics), s.Topics)
	}
	if len(b.Slots) != s.Slots {
		return fmt.Errorf("%w: %d slot weights, expected %d", ErrInvalidBallot, len(b.Slots), s.Slots)
	}
	for _, weights := range [][]float64{b.Topics, b.Slots} {
		for _, w := range weights {
			if w < 0 {
				return fmt.Errorf("%w: negative weight %v", ErrInvalidBallot, w)
			}
		}
	}
	return nil
}

// NewBallot builds an agent's ballot from its preference, with a style per
// dimension.
func NewBallot(pref Preference, topicStyle, slotStyle BallotStyle) Ballot {
	return Ballot{
		Topics: StyleWeights(pref.Topics, topicStyle),
		Slots:  StyleWeights(pref.Slots, slotStyle),
	}
}

// Valid reports whether s is a known ballot style.
func (s BallotStyle) Valid() bool {
	return s == StylePlurality || s == StyleProportional
}

// StyleWeights dispatches to the weighting for style. Unknown styles fall
// back to plurality.
func StyleWeights(r Ranking, style BallotStyle) []float64 {
	if style == StyleProportional {
		return ProportionalWeights(r)
	}
	return PluralityWeights(r)
}

// PluralityWeights puts BallotTotal on the ranking's first item.
func PluralityWeights(r Ranking) []float64 {
	w := make([]float64, len(r))
	if len(r) > 0 {
		w[r.Top()] = BallotTotal
	}
	return w
}

// ProportionalWeights gives the item at rank position k the weight
// (u-1-k) / (u(u-1)/2) for a universe of size u, so weights strictly
// decrease with rank and sum to BallotTotal. A single-item universe gets the
// whole weight.
func ProportionalWeights(r Ranking) []float64 {
	u := len(r)
	w := make([]float64, u)
	if u == 1 {
		w[r[0]] = BallotTotal
		return w
	}
	denom := float64(u*(u-1)) / 2
	for pos, item := range r {
		w[item] = BallotTotal * float64(u-1-pos) / denom
	}
	return w
}

// NormalizeVotes scales integer vote counts so they sum to BallotTotal.
// An all-zero vector stays all-zero. The total is summed in float64 so large
// counts cannot wrap.
func NormalizeVotes(votes []int) []float64 {
	w := make([]float64, len(votes))
	total := 0.0
	for _, v := range votes {
		total += float64(v)
	}
	if total == 0 {
		return w
	}
	for i, v := range votes {
		w[i] = BallotTotal * float64(v) / total
	}
	return w
}
