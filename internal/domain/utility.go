package domain

// UtilityVector holds one utility per agent, ordered by agent id.
type UtilityVector []float64

// Utility returns the utility agent derives from topic at slot:
//
//	(m - rt) * (p - rs)
//
// where rt and rs are the rank positions of topic and slot in the agent's
// rankings and m, p are the ranking lengths. The maximum m*p is reached only
// when both are the agent's first choice.
func Utility(agent, topic, slot int, profile Profile) (float64, error) {
	if agent < 0 || agent >= len(profile) {
		return 0, NewLookupError(agent, "", 0)
	}
	if topic == Unassigned {
		return 0, NewUnassignedError(agent, DimensionTopic)
	}
	if slot == Unassigned {
		return 0, NewUnassignedError(agent, DimensionSlot)
	}

	pref := profile[agent]
	rt, ok := pref.Topics.Position(topic)
	if !ok {
		return 0, NewLookupError(agent, DimensionTopic, topic)
	}
	rs, ok := pref.Slots.Position(slot)
	if !ok {
		return 0, NewLookupError(agent, DimensionSlot, slot)
	}

	m, p := len(pref.Topics), len(pref.Slots)
	return float64((m - rt) * (p - rs)), nil
}

// Evaluate computes the utility vector of an assignment. It fails on the
// first agent whose entry is unassigned or unranked.
func Evaluate(a Assignment, profile Profile) (UtilityVector, error) {
	u := make(UtilityVector, len(a))
	for agent, alloc := range a {
		v, err := Utility(agent, alloc.Topic, alloc.Slot, profile)
		if err != nil {
			return nil, err
		}
		u[agent] = v
	}
	return u, nil
}

// Welfare is the sum of utilities.
func Welfare(u UtilityVector) float64 {
	var sum float64
	for _, v := range u {
		sum += v
	}
	return sum
}

// Fairness is the population variance of utilities; lower means more equal
// outcomes. An empty vector has fairness 0.
func Fairness(u UtilityVector) float64 {
	if len(u) == 0 {
		return 0
	}
	mean := Welfare(u) / float64(len(u))
	var ss float64
	for _, v := range u {
		d := v - mean
		ss += d * d
	}
	return ss / float64(len(u))
}

// TrialStatistics is the (fairness, welfare) pair of one strategy in one trial.
type TrialStatistics struct {
	Fairness float64 `json:"fairness"`
	Welfare  float64 `json:"welfare"`
}

// Score reduces a utility vector to its trial statistics.
func Score(u UtilityVector) TrialStatistics {
	return TrialStatistics{Fairness: Fairness(u), Welfare: Welfare(u)}
}
