package core

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeSearcher scripts one response per leg and records every query it
// receives.
type fakeSearcher struct {
	responses []fakeResponse
	queries   []LegQuery
}

type fakeResponse struct {
	candidates []Candidate
	calls      int
	err        error
}

func (f *fakeSearcher) SearchLeg(ctx context.Context, q LegQuery) ([]Candidate, int, error) {
	f.queries = append(f.queries, q)
	r := f.responses[q.Index]
	calls := r.calls
	if calls == 0 {
		calls = 1
	}
	return r.candidates, calls, r.err
}

func tokenFor(leg LegSpec, value string) *ChainToken {
	return &ChainToken{Value: value, Leg: leg}
}

func twoLegs() []LegSpec {
	return []LegSpec{
		{Origin: "SYD", Destination: "SIN", Date: "2099-12-01"},
		{Origin: "SIN", Destination: "LHR", Date: "2099-12-05"},
	}
}

func TestRun_HappyPathTwoLegs(t *testing.T) {
	legs := twoLegs()
	searcher := &fakeSearcher{responses: []fakeResponse{
		{candidates: []Candidate{
			{Airline: "Qantas", Carriers: []string{"QF"}, Price: 400, DurationMinutes: 480, Token: tokenFor(legs[0], "tok-0")},
			{Airline: "Scoot", Carriers: []string{"TR"}, Price: 350, DurationMinutes: 500, Token: tokenFor(legs[0], "tok-0b")},
		}},
		{candidates: []Candidate{
			{Airline: "BA", Carriers: []string{"BA"}, Price: 900, DurationMinutes: 840},
		}},
	}}

	it, err := NewOrchestrator(searcher).Run(context.Background(), PlanRequest{
		Legs:        legs,
		TravelClass: Economy,
		Strategy:    Cheapest,
	})
	require.NoError(t, err)
	require.NotNil(t, it)

	assert.True(t, it.Complete())
	require.Len(t, it.Legs, 2)
	assert.Equal(t, "Scoot", it.Legs[0].Winner.Airline)
	assert.Equal(t, "BA", it.Legs[1].Winner.Airline)
	assert.Equal(t, float64(350+900), it.TotalPrice)
	assert.Equal(t, 500+840, it.TotalDurationMinutes)
	assert.Equal(t, 2, it.APICallsUsed)

	// Leg 0 has no token; leg 1 carries the token of leg 0's winner.
	require.Len(t, searcher.queries, 2)
	assert.Nil(t, searcher.queries[0].Token)
	require.NotNil(t, searcher.queries[1].Token)
	assert.Equal(t, "tok-0b", searcher.queries[1].Token.Value)
}

func TestRun_TokensChainStrictlyInOrder(t *testing.T) {
	legs := []LegSpec{
		{Origin: "LAX", Destination: "ORD", Date: "2099-11-10"},
		{Origin: "ORD", Destination: "ATL", Date: "2099-11-12"},
		{Origin: "ATL", Destination: "MIA", Date: "2099-11-14"},
	}
	searcher := &fakeSearcher{responses: []fakeResponse{
		{candidates: []Candidate{{Airline: "a", Price: 1, Token: tokenFor(legs[0], "from-leg-0")}}},
		{candidates: []Candidate{{Airline: "b", Price: 1, Token: tokenFor(legs[1], "from-leg-1")}}},
		{candidates: []Candidate{{Airline: "c", Price: 1}}},
	}}

	it, err := NewOrchestrator(searcher).Run(context.Background(), PlanRequest{
		Legs: legs, TravelClass: Economy, Strategy: Cheapest,
	})
	require.NoError(t, err)
	assert.True(t, it.Complete())

	require.Len(t, searcher.queries, 3)
	// Leg 2's query must include leg 1's token, never leg 0's.
	assert.Equal(t, "from-leg-0", searcher.queries[1].Token.Value)
	assert.Equal(t, "from-leg-1", searcher.queries[2].Token.Value)
}

func TestRun_ProviderFailureReturnsPartial(t *testing.T) {
	legs := twoLegs()
	searcher := &fakeSearcher{responses: []fakeResponse{
		{candidates: []Candidate{{Airline: "a", Price: 200, DurationMinutes: 100, Token: tokenFor(legs[0], "t")}}},
		{err: ProviderError(1, errors.New("upstream timeout")), calls: 2},
	}}

	it, err := NewOrchestrator(searcher).Run(context.Background(), PlanRequest{
		Legs: legs, TravelClass: Economy, Strategy: Cheapest,
	})
	require.NoError(t, err)
	require.NotNil(t, it)

	// One real leg, nothing fabricated beyond it.
	require.Len(t, it.Legs, 1)
	require.NotNil(t, it.Failed)
	assert.Equal(t, 1, it.Failed.Index)
	assert.Equal(t, KindProvider, it.Failed.Kind)
	assert.Equal(t, float64(200), it.TotalPrice)
	// Retried calls still count toward upstream cost.
	assert.Equal(t, 3, it.APICallsUsed)
}

func TestRun_FilteredToEmptyFailsLeg(t *testing.T) {
	legs := twoLegs()
	searcher := &fakeSearcher{responses: []fakeResponse{
		{candidates: []Candidate{
			{Airline: "Air China", Carriers: []string{"CA"}, Price: 100, Token: tokenFor(legs[0], "t")},
			{Airline: "Air China", Carriers: []string{"CA"}, Price: 200, Token: tokenFor(legs[0], "t2")},
		}},
		{candidates: []Candidate{{Airline: "b", Price: 1}}},
	}}

	it, err := NewOrchestrator(searcher).Run(context.Background(), PlanRequest{
		Legs:        legs,
		TravelClass: Economy,
		Strategy:    Cheapest,
		Filter:      FilterSpec{ExcludeAirlines: []string{"CA"}},
	})
	require.NoError(t, err)

	assert.Empty(t, it.Legs)
	require.NotNil(t, it.Failed)
	assert.Equal(t, 0, it.Failed.Index)
	assert.Equal(t, KindNoCandidates, it.Failed.Kind)
	assert.Equal(t, "no candidates after filtering", it.Failed.Reason)
	// Leg 1 was never searched.
	assert.Len(t, searcher.queries, 1)
}

func TestRun_MissingTokenBreaksChain(t *testing.T) {
	legs := twoLegs()
	searcher := &fakeSearcher{responses: []fakeResponse{
		{candidates: []Candidate{{Airline: "a", Price: 100}}}, // no token
		{candidates: []Candidate{{Airline: "b", Price: 1}}},
	}}

	it, err := NewOrchestrator(searcher).Run(context.Background(), PlanRequest{
		Legs: legs, TravelClass: Economy, Strategy: Cheapest,
	})
	require.NoError(t, err)

	require.Len(t, it.Legs, 1)
	require.NotNil(t, it.Failed)
	assert.Equal(t, 0, it.Failed.Index)
	assert.Equal(t, KindOrchestration, it.Failed.Kind)
	assert.Len(t, searcher.queries, 1)
}

func TestRun_LastLegNeedsNoToken(t *testing.T) {
	legs := twoLegs()
	searcher := &fakeSearcher{responses: []fakeResponse{
		{candidates: []Candidate{{Airline: "a", Price: 100, Token: tokenFor(legs[0], "t")}}},
		{candidates: []Candidate{{Airline: "b", Price: 200}}}, // final leg, token absent
	}}

	it, err := NewOrchestrator(searcher).Run(context.Background(), PlanRequest{
		Legs: legs, TravelClass: Economy, Strategy: Cheapest,
	})
	require.NoError(t, err)
	assert.True(t, it.Complete())
	assert.Len(t, it.Legs, 2)
}

func TestRun_InvalidInputMakesNoProviderCall(t *testing.T) {
	searcher := &fakeSearcher{}
	orch := NewOrchestrator(searcher)

	tests := []PlanRequest{
		{Legs: nil, TravelClass: Economy},
		{Legs: []LegSpec{{Origin: "SYD", Destination: "SIN", Date: "2020-01-01"}}, TravelClass: Economy}, // past date
		{Legs: []LegSpec{{Origin: "SYDNEY", Destination: "SIN", Date: "2099-12-01"}}, TravelClass: Economy},
		{Legs: twoLegs(), TravelClass: CabinClass(9)},
		{Legs: twoLegs(), TravelClass: Economy, Filter: FilterSpec{Departure: &TimeWindow{Start: 18, End: 9}}},
		{Legs: twoLegs(), TravelClass: Economy, Filter: FilterSpec{Layover: &LayoverRange{Min: 500, Max: 100}}},
	}

	for i, req := range tests {
		it, err := orch.Run(context.Background(), req)
		assert.Error(t, err, fmt.Sprintf("case %d", i))
		assert.Nil(t, it)
		assert.Equal(t, KindInvalidQuery, KindOf(err))
	}
	assert.Empty(t, searcher.queries)
}

func TestRun_CancelledContextStopsChain(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	searcher := &fakeSearcher{responses: []fakeResponse{
		{candidates: []Candidate{{Airline: "a", Price: 1}}},
		{candidates: []Candidate{{Airline: "b", Price: 1}}},
	}}

	it, err := NewOrchestrator(searcher).Run(ctx, PlanRequest{
		Legs: twoLegs(), TravelClass: Economy, Strategy: Cheapest,
	})
	assert.ErrorIs(t, err, context.Canceled)
	assert.NotNil(t, it)
	assert.Empty(t, searcher.queries)
}

func TestRun_NormalizesLegCodes(t *testing.T) {
	legs := []LegSpec{
		{Origin: " syd ", Destination: "sin", Date: "2099-12-01"},
		{Origin: "SIN", Destination: "lhr", Date: "2099-12-05"},
	}
	canonical0 := LegSpec{Origin: "SYD", Destination: "SIN", Date: "2099-12-01"}

	searcher := &fakeSearcher{responses: []fakeResponse{
		{candidates: []Candidate{{Airline: "a", Price: 1, Token: tokenFor(canonical0, "t")}}},
		{candidates: []Candidate{{Airline: "b", Price: 1}}},
	}}

	it, err := NewOrchestrator(searcher).Run(context.Background(), PlanRequest{
		Legs: legs, TravelClass: Economy, Strategy: Cheapest,
	})
	require.NoError(t, err)
	assert.True(t, it.Complete())
	assert.Equal(t, "SYD", searcher.queries[0].Leg().Origin)
	assert.Equal(t, "LHR", searcher.queries[1].Leg().Destination)
}
