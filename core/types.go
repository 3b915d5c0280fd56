// Package core implements the flight search domain: the candidate
// model, post-query filtering, per-leg selection strategies and the
// multi-city orchestration loop that chains provider continuation
// tokens between legs.
package core

import (
	"fmt"
	"strings"
	"time"
)

// CabinClass follows the Google Flights travel_class encoding.
type CabinClass int

const (
	Economy        CabinClass = 1
	PremiumEconomy CabinClass = 2
	Business       CabinClass = 3
	First          CabinClass = 4
)

func (c CabinClass) Valid() bool {
	return c >= Economy && c <= First
}

// StopsFilter follows the Google Flights stops encoding.
type StopsFilter int

const (
	StopsAny        StopsFilter = 0
	NonstopOnly     StopsFilter = 1
	OneStopOrFewer  StopsFilter = 2
	TwoStopsOrFewer StopsFilter = 3
)

func (s StopsFilter) Valid() bool {
	return s >= StopsAny && s <= TwoStopsOrFewer
}

// Strategy picks the winning candidate for a leg.
type Strategy int

const (
	Cheapest Strategy = iota
	Fastest
	Balanced
)

func (s Strategy) String() string {
	switch s {
	case Cheapest:
		return "cheapest"
	case Fastest:
		return "fastest"
	case Balanced:
		return "balanced"
	}
	return fmt.Sprintf("strategy(%d)", int(s))
}

// ParseStrategy parses a strategy name case-insensitively. An empty
// name defaults to cheapest, matching the tool contract.
func ParseStrategy(name string) (Strategy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "cheapest":
		return Cheapest, nil
	case "fastest":
		return Fastest, nil
	case "balanced":
		return Balanced, nil
	}
	return Cheapest, &Error{Kind: KindInvalidQuery, Msg: fmt.Sprintf("unknown selection strategy %q (want cheapest, fastest or balanced)", name)}
}

// LegSpec is one origin->destination->date segment of an itinerary.
// JSON names match the provider's multi_city_json contract.
type LegSpec struct {
	Origin      string `json:"departure_id"`
	Destination string `json:"arrival_id"`
	Date        string `json:"date"`
}

func (l LegSpec) String() string {
	return fmt.Sprintf("%s->%s on %s", l.Origin, l.Destination, l.Date)
}

// TimeWindow is an inclusive departure-hour range. Wraparound windows
// (Start > End) are rejected at validation.
type TimeWindow struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// LayoverRange is an inclusive per-layover duration range in minutes.
type LayoverRange struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

// FilterSpec holds the post-query constraints. Nil/empty fields mean
// "no constraint"; an empty exclusion set excludes nothing.
type FilterSpec struct {
	ExcludeAirlines []string      `json:"exclude_airlines,omitempty"`
	Layover         *LayoverRange `json:"layover,omitempty"`
	Departure       *TimeWindow   `json:"departure,omitempty"`
}

// ChainToken is a provider continuation token bound to the leg that
// produced it. The token value is opaque and never parsed; the leg
// context exists so a token cannot be replayed against an unrelated
// search.
type ChainToken struct {
	Value string  `json:"value"`
	Leg   LegSpec `json:"leg"`
}

// Segment is the display summary of one flight segment.
type Segment struct {
	Airline      string `json:"airline"`
	FlightNumber string `json:"flight_number,omitempty"`
	TravelClass  string `json:"travel_class,omitempty"`
	Departure    string `json:"departure"`
	Arrival      string `json:"arrival"`
}

// Candidate is one normalized flight option returned by the provider.
type Candidate struct {
	// Carriers holds the IATA carrier code of every segment.
	Carriers []string `json:"carriers"`
	// Airline is the display name of the operating airline of the
	// first segment.
	Airline         string    `json:"airline"`
	AirlineLogo     string    `json:"airline_logo,omitempty"`
	Price           float64   `json:"price"`
	DurationMinutes int       `json:"duration_minutes"`
	// Departure is the zero time when the provider gave no parseable
	// timestamp; the departure time-window filter drops such
	// candidates rather than assume they pass.
	Departure time.Time `json:"departure"`
	// Layovers holds each connection gap in minutes, empty for
	// nonstop.
	Layovers []int     `json:"layovers,omitempty"`
	Segments []Segment `json:"segments,omitempty"`
	Token    *ChainToken `json:"-"`
}

// Stops is the number of connections within the candidate's journey.
func (c Candidate) Stops() int {
	if len(c.Segments) > 1 {
		return len(c.Segments) - 1
	}
	return len(c.Layovers)
}

// LegQuery is one leg's provider search. Legs always carries the full
// itinerary because the provider requires the complete multi-city
// context on every chained call; Index addresses the leg this query
// is for.
type LegQuery struct {
	Legs        []LegSpec
	Index       int
	TravelClass CabinClass
	Stops       StopsFilter
	// Hints are forwarded to the provider as best-effort server-side
	// filters; ApplyFilter remains authoritative.
	Hints FilterHints
	Token *ChainToken
}

// Leg returns the leg this query searches.
func (q LegQuery) Leg() LegSpec {
	return q.Legs[q.Index]
}

// FilterHints are the FilterSpec constraints in provider wire form.
type FilterHints struct {
	LayoverDuration string // "min,max" minutes
	ExcludeAirlines string // comma-separated codes
	OutboundTimes   string // "start,end" hours
}

// LegResult is the outcome of one leg. Winner is nil when the leg
// failed; APICalls counts provider HTTP calls consumed by the leg.
type LegResult struct {
	Leg      LegSpec    `json:"leg"`
	Winner   *Candidate `json:"winner,omitempty"`
	APICalls int        `json:"api_calls"`
}

// LegFailure records why and where an orchestration stopped.
type LegFailure struct {
	Index  int    `json:"index"`
	Kind   Kind   `json:"kind"`
	Reason string `json:"reason"`
}

// Itinerary is the ordered outcome of a multi-city orchestration. Legs
// stops at the first unsatisfiable leg; Failed is nil on full success.
type Itinerary struct {
	Legs                 []LegResult `json:"legs"`
	TotalPrice           float64     `json:"total_price"`
	TotalDurationMinutes int         `json:"total_duration_minutes"`
	APICallsUsed         int         `json:"api_calls_used"`
	Strategy             Strategy    `json:"-"`
	Failed               *LegFailure `json:"failed,omitempty"`
}

// Complete reports whether every requested leg was satisfied.
func (it *Itinerary) Complete() bool {
	return it.Failed == nil
}
