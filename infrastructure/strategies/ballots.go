package strategies

import (
	"fmt"
	"math/rand/v2"

	"github.com/ahrav/go-allot/internal/domain"
	"github.com/ahrav/go-allot/internal/ports"
)

// BallotMode selects how generated ballots pick their style.
type BallotMode string

// Supported ballot modes.
const (
	// BallotsMixed flips an unbiased coin per agent.
	BallotsMixed BallotMode = "mixed"

	// BallotsPlurality gives every agent a plurality ballot.
	BallotsPlurality BallotMode = "plurality"

	// BallotsProportional gives every agent a proportional ballot.
	BallotsProportional BallotMode = "proportional"
)

var (
	_ ports.BallotSource = GeneratedBallots{}
	_ ports.BallotSource = StyledBallots{}
	_ ports.BallotSource = FixedBallots{}
)

// GeneratedBallots derives ballots from the preference profile. In mixed
// mode each agent, in id order, flips one coin that picks the style for both
// its topic and slot ballots: heads is plurality, tails proportional.
type GeneratedBallots struct {
	Mode BallotMode
}

// Ballots implements ports.BallotSource.
func (g GeneratedBallots) Ballots(
	sizing domain.Sizing,
	profile domain.Profile,
	rng *rand.Rand,
) ([]domain.Ballot, error) {
	if len(profile) != sizing.Agents {
		return nil, fmt.Errorf("%w: profile has %d agents, sizing expects %d",
			ErrBallotCount, len(profile), sizing.Agents)
	}

	ballots := make([]domain.Ballot, sizing.Agents)
	for agent, pref := range profile {
		style := domain.StyleProportional
		switch g.Mode {
		case BallotsPlurality:
			style = domain.StylePlurality
		case BallotsProportional:
		default:
			if rng.IntN(2) == 1 {
				style = domain.StylePlurality
			}
		}
		ballots[agent] = domain.NewBallot(pref, style, style)
	}
	return ballots, nil
}

// StyledBallots derives ballots from the profile with each agent's style
// fixed by the caller, so no randomness is consumed.
type StyledBallots struct {
	Styles []domain.BallotStyle
}

// Ballots implements ports.BallotSource.
func (s StyledBallots) Ballots(
	sizing domain.Sizing,
	profile domain.Profile,
	_ *rand.Rand,
) ([]domain.Ballot, error) {
	if len(s.Styles) != sizing.Agents || len(profile) != sizing.Agents {
		return nil, fmt.Errorf("%w: %d styles, %d preferences, %d agents",
			ErrBallotCount, len(s.Styles), len(profile), sizing.Agents)
	}

	ballots := make([]domain.Ballot, sizing.Agents)
	for agent, pref := range profile {
		if !s.Styles[agent].Valid() {
			return nil, fmt.Errorf("%w: agent %d has unknown style %q", domain.ErrInvalidBallot, agent, s.Styles[agent])
		}
		ballots[agent] = domain.NewBallot(pref, s.Styles[agent], s.Styles[agent])
	}
	return ballots, nil
}

// FixedBallots returns ballots collected outside the engine, such as the
// normalised vote vectors of a stored course. The profile is ignored.
type FixedBallots struct {
	Votes []domain.Ballot
}

// Ballots implements ports.BallotSource.
func (f FixedBallots) Ballots(
	sizing domain.Sizing,
	_ domain.Profile,
	_ *rand.Rand,
) ([]domain.Ballot, error) {
	if len(f.Votes) != sizing.Agents {
		return nil, fmt.Errorf("%w: %d ballots, %d agents", ErrBallotCount, len(f.Votes), sizing.Agents)
	}
	return f.Votes, nil
}
