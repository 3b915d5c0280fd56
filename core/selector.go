package core

// SelectCandidate picks exactly one winner from a candidate list. All
// strategies are deterministic: every tie chain ends in first-seen
// order, so equal inputs always produce the same winner.
func SelectCandidate(candidates []Candidate, strategy Strategy) (Candidate, error) {
	if len(candidates) == 0 {
		return Candidate{}, NoCandidatesError(-1, "no candidates to select from")
	}

	switch strategy {
	case Fastest:
		return pickBy(candidates, func(a, b Candidate) bool {
			if a.DurationMinutes != b.DurationMinutes {
				return a.DurationMinutes < b.DurationMinutes
			}
			return a.Price < b.Price
		}), nil
	case Balanced:
		return pickBalanced(candidates), nil
	default: // Cheapest
		return pickBy(candidates, func(a, b Candidate) bool {
			if a.Price != b.Price {
				return a.Price < b.Price
			}
			return a.DurationMinutes < b.DurationMinutes
		}), nil
	}
}

// pickBy returns the first candidate that no later candidate strictly
// beats, which preserves first-seen order on full ties.
func pickBy(candidates []Candidate, less func(a, b Candidate) bool) Candidate {
	best := candidates[0]
	for _, c := range candidates[1:] {
		if less(c, best) {
			best = c
		}
	}
	return best
}

// pickBalanced scores each candidate by an equal-weighted
// competition-rank sum: its price rank is the number of strictly
// cheaper candidates, its duration rank the number of strictly faster
// ones, and the lowest rank sum wins. Ties break by lower price, then
// first-seen order. A candidate that is no pricier and no slower than
// another (with at least one strict) always ranks at least as well,
// which keeps the strategy monotonic.
func pickBalanced(candidates []Candidate) Candidate {
	scores := make([]int, len(candidates))
	for i, c := range candidates {
		priceRank, durationRank := 0, 0
		for _, other := range candidates {
			if other.Price < c.Price {
				priceRank++
			}
			if other.DurationMinutes < c.DurationMinutes {
				durationRank++
			}
		}
		scores[i] = priceRank + durationRank
	}

	best := 0
	for i := 1; i < len(candidates); i++ {
		if scores[i] < scores[best] ||
			(scores[i] == scores[best] && candidates[i].Price < candidates[best].Price) {
			best = i
		}
	}
	return candidates[best]
}
