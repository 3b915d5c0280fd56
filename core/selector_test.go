package core

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSelectCandidate_Empty(t *testing.T) {
	_, err := SelectCandidate(nil, Cheapest)
	assert.Error(t, err)

	var ce *Error
	assert.True(t, errors.As(err, &ce))
	assert.Equal(t, KindNoCandidates, ce.Kind)
}

func TestSelectCandidate_Cheapest(t *testing.T) {
	candidates := []Candidate{
		{Airline: "a", Price: 400, DurationMinutes: 300},
		{Airline: "b", Price: 250, DurationMinutes: 500},
		{Airline: "c", Price: 250, DurationMinutes: 450},
	}

	winner, err := SelectCandidate(candidates, Cheapest)
	assert.NoError(t, err)
	// Price tie broken by shorter duration.
	assert.Equal(t, "c", winner.Airline)

	for _, c := range candidates {
		assert.LessOrEqual(t, winner.Price, c.Price)
	}
}

func TestSelectCandidate_CheapestFullTieKeepsFirstSeen(t *testing.T) {
	candidates := []Candidate{
		{Airline: "first", Price: 100, DurationMinutes: 200},
		{Airline: "second", Price: 100, DurationMinutes: 200},
	}

	winner, err := SelectCandidate(candidates, Cheapest)
	assert.NoError(t, err)
	assert.Equal(t, "first", winner.Airline)
}

func TestSelectCandidate_Fastest(t *testing.T) {
	candidates := []Candidate{
		{Airline: "a", Price: 100, DurationMinutes: 600},
		{Airline: "b", Price: 900, DurationMinutes: 320},
		{Airline: "c", Price: 500, DurationMinutes: 320},
	}

	winner, err := SelectCandidate(candidates, Fastest)
	assert.NoError(t, err)
	// Duration tie broken by lower price.
	assert.Equal(t, "c", winner.Airline)

	for _, c := range candidates {
		assert.LessOrEqual(t, winner.DurationMinutes, c.DurationMinutes)
	}
}

func TestSelectCandidate_BalancedPrefersMiddleGround(t *testing.T) {
	candidates := []Candidate{
		{Airline: "cheap-slow", Price: 100, DurationMinutes: 1200},
		{Airline: "middle", Price: 300, DurationMinutes: 400},
		{Airline: "fast-pricey", Price: 1000, DurationMinutes: 350},
		{Airline: "bad-deal", Price: 900, DurationMinutes: 1100},
	}

	// Rank sums: cheap-slow 0+3=3, middle 1+1=2, fast-pricey 3+0=3,
	// bad-deal 2+2=4.
	winner, err := SelectCandidate(candidates, Balanced)
	assert.NoError(t, err)
	assert.Equal(t, "middle", winner.Airline)
}

func TestSelectCandidate_BalancedTieFallsBackToPrice(t *testing.T) {
	candidates := []Candidate{
		{Airline: "cheap-slow", Price: 100, DurationMinutes: 1200},
		{Airline: "middle", Price: 300, DurationMinutes: 400},
		{Airline: "fast-pricey", Price: 1000, DurationMinutes: 350},
	}

	// Every rank sum is 2; the tie resolves to the lowest price.
	winner, err := SelectCandidate(candidates, Balanced)
	assert.NoError(t, err)
	assert.Equal(t, "cheap-slow", winner.Airline)
}

func TestSelectCandidate_BalancedMonotonic(t *testing.T) {
	// dominant is cheaper than rival and not slower; it must win
	// regardless of the rest of the field.
	fields := [][]Candidate{
		{
			{Airline: "dominant", Price: 200, DurationMinutes: 400},
			{Airline: "rival", Price: 300, DurationMinutes: 400},
		},
		{
			{Airline: "rival", Price: 300, DurationMinutes: 400},
			{Airline: "noise", Price: 50, DurationMinutes: 2000},
			{Airline: "dominant", Price: 200, DurationMinutes: 390},
			{Airline: "other", Price: 800, DurationMinutes: 100},
		},
	}

	for _, candidates := range fields {
		winner, err := SelectCandidate(candidates, Balanced)
		assert.NoError(t, err)
		assert.NotEqual(t, "rival", winner.Airline)
	}
}

func TestParseStrategy(t *testing.T) {
	tests := []struct {
		in      string
		want    Strategy
		wantErr bool
	}{
		{"cheapest", Cheapest, false},
		{"FASTEST", Fastest, false},
		{" balanced ", Balanced, false},
		{"", Cheapest, false},
		{"luxurious", Cheapest, true},
	}

	for _, tt := range tests {
		got, err := ParseStrategy(tt.in)
		if tt.wantErr {
			assert.Error(t, err, tt.in)
			assert.Equal(t, KindInvalidQuery, KindOf(err))
			continue
		}
		assert.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}
