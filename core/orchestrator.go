package core

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/skyquery/skyquery/log"
)

// LegSearcher is the provider query interface the orchestrator drives.
// calls reports the provider HTTP calls actually issued, including
// retries, so the caller can account for upstream cost.
type LegSearcher interface {
	SearchLeg(ctx context.Context, q LegQuery) (candidates []Candidate, calls int, err error)
}

// PlanRequest is a full multi-city search: ordered legs plus the
// shared constraints applied to every leg.
type PlanRequest struct {
	Legs        []LegSpec
	TravelClass CabinClass
	Stops       StopsFilter
	Filter      FilterSpec
	Strategy    Strategy
}

// Orchestrator runs the leg-by-leg chaining loop. The provider only
// supports forward-chained single-leg queries tied by continuation
// tokens, so legs run strictly in order and each selection is
// committed before the next leg is searched; there is no backtracking.
type Orchestrator struct {
	Searcher LegSearcher
}

func NewOrchestrator(searcher LegSearcher) *Orchestrator {
	return &Orchestrator{Searcher: searcher}
}

// Validate checks a plan request before any provider call is made.
func (r *PlanRequest) Validate() error {
	if len(r.Legs) == 0 {
		return InvalidQueryf("at least one flight leg is required")
	}
	for i := range r.Legs {
		if err := NormalizeLeg(&r.Legs[i]); err != nil {
			return err
		}
	}
	if !r.TravelClass.Valid() {
		return InvalidQueryf("travel_class %d must be 1 (economy) to 4 (first)", int(r.TravelClass))
	}
	if !r.Stops.Valid() {
		return InvalidQueryf("stops %d must be 0 (any) to 3 (two stops or fewer)", int(r.Stops))
	}
	return ValidateFilterSpec(r.Filter)
}

// Run executes the multi-city loop. Leg failures are not errors:
// the returned itinerary carries the legs that succeeded and, when the
// chain stopped early, a LegFailure naming the failing leg and why.
// Run itself only errors on invalid input (before any provider call)
// or context cancellation.
func (o *Orchestrator) Run(ctx context.Context, req PlanRequest) (*Itinerary, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	it := &Itinerary{Strategy: req.Strategy}
	hints := hintsFromFilter(req.Filter)

	var token *ChainToken
	for i := range req.Legs {
		if err := ctx.Err(); err != nil {
			log.Warnf(ctx, "orchestration cancelled before leg %d", i)
			return it, err
		}

		leg := req.Legs[i]
		if token != nil && token.Leg != req.Legs[i-1] {
			// Tokens are bound to the leg that produced them; a
			// mismatch means the chain state is corrupt.
			it.Failed = &LegFailure{Index: i, Kind: KindOrchestration, Reason: "continuation token does not match the preceding leg"}
			return it, nil
		}

		log.Debugf(ctx, "searching leg %d/%d: %s", i+1, len(req.Legs), leg)
		candidates, calls, err := o.Searcher.SearchLeg(ctx, LegQuery{
			Legs:        req.Legs,
			Index:       i,
			TravelClass: req.TravelClass,
			Stops:       req.Stops,
			Hints:       hints,
			Token:       token,
		})
		it.APICallsUsed += calls
		if err != nil {
			log.Errorf(ctx, "leg %d provider search failed: %v", i, err)
			it.Failed = &LegFailure{Index: i, Kind: KindOf(err), Reason: failureReason(err)}
			return it, nil
		}

		filtered := ApplyFilter(candidates, req.Filter)
		log.Debugf(ctx, "leg %d: %d candidates, %d after filtering", i, len(candidates), len(filtered))
		if len(filtered) == 0 {
			it.Failed = &LegFailure{Index: i, Kind: KindNoCandidates, Reason: "no candidates after filtering"}
			return it, nil
		}

		winner, err := SelectCandidate(filtered, req.Strategy)
		if err != nil {
			it.Failed = &LegFailure{Index: i, Kind: KindOf(err), Reason: failureReason(err)}
			return it, nil
		}

		it.Legs = append(it.Legs, LegResult{Leg: leg, Winner: &winner, APICalls: calls})
		it.TotalPrice += winner.Price
		it.TotalDurationMinutes += winner.DurationMinutes

		token = winner.Token
		if token == nil && i < len(req.Legs)-1 {
			// The chain cannot continue without a token for the next
			// leg.
			it.Failed = &LegFailure{
				Index:  i,
				Kind:   KindOrchestration,
				Reason: fmt.Sprintf("selected flight for leg %d carries no continuation token", i),
			}
			return it, nil
		}
	}

	log.Infof(ctx, "itinerary complete: %d legs, total $%.2f, %d provider calls",
		len(it.Legs), it.TotalPrice, it.APICallsUsed)
	return it, nil
}

func hintsFromFilter(spec FilterSpec) FilterHints {
	var h FilterHints
	if spec.Layover != nil {
		h.LayoverDuration = fmt.Sprintf("%d,%d", spec.Layover.Min, spec.Layover.Max)
	}
	if len(spec.ExcludeAirlines) > 0 {
		h.ExcludeAirlines = strings.Join(spec.ExcludeAirlines, ",")
	}
	if spec.Departure != nil {
		h.OutboundTimes = fmt.Sprintf("%d,%d", spec.Departure.Start, spec.Departure.End)
	}
	return h
}

func failureReason(err error) string {
	var ce *Error
	if errors.As(err, &ce) && ce.Msg != "" {
		return ce.Msg
	}
	return err.Error()
}
