package core

import "strings"

// ApplyFilter applies the post-query constraints to a candidate list.
// Pure and order-preserving: survivors keep their relative order, and
// filtering an already-filtered list with the same spec is a no-op.
// An empty result is a valid outcome, not an error.
func ApplyFilter(candidates []Candidate, spec FilterSpec) []Candidate {
	excluded := make(map[string]struct{}, len(spec.ExcludeAirlines))
	for _, code := range spec.ExcludeAirlines {
		excluded[strings.ToUpper(strings.TrimSpace(code))] = struct{}{}
	}

	result := make([]Candidate, 0, len(candidates))
	for _, c := range candidates {
		if matchesFilter(c, spec, excluded) {
			result = append(result, c)
		}
	}
	return result
}

func matchesFilter(c Candidate, spec FilterSpec, excluded map[string]struct{}) bool {
	if len(excluded) > 0 {
		for _, carrier := range c.Carriers {
			if _, ok := excluded[strings.ToUpper(carrier)]; ok {
				return false
			}
		}
	}

	// Nonstop candidates have no layover to violate the range.
	if r := spec.Layover; r != nil {
		for _, minutes := range c.Layovers {
			if minutes < r.Min || minutes > r.Max {
				return false
			}
		}
	}

	if w := spec.Departure; w != nil {
		// No timestamp means we cannot prove the constraint holds;
		// dropping is safer than passing unfiltered data through.
		if c.Departure.IsZero() {
			return false
		}
		hour := c.Departure.Hour()
		if hour < w.Start || hour > w.End {
			return false
		}
	}

	return true
}
