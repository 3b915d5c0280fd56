package serpapi

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/firebase/genkit/go/genkit"
	"gorm.io/gorm"

	"github.com/skyquery/skyquery/cache"
	"github.com/skyquery/skyquery/core"
	"github.com/skyquery/skyquery/log"
	"github.com/skyquery/skyquery/orm"
	"github.com/skyquery/skyquery/tools"
)

// SearchFlightsInput is the search_flights tool contract.
type SearchFlightsInput struct {
	Origin          string `json:"origin" description:"Departure airport code (e.g. ATL, JFK)"`
	Destination     string `json:"destination" description:"Arrival airport code (e.g. LAX, ORD)"`
	OutboundDate    string `json:"outbound_date" description:"Departure date (YYYY-MM-DD)"`
	ReturnDate      string `json:"return_date,omitempty" description:"Return date for round trips (YYYY-MM-DD)"`
	TravelClass     int    `json:"travel_class,omitempty" description:"Cabin class: 1=Economy, 2=Premium Economy, 3=Business, 4=First (default 1)"`
	Stops           int    `json:"stops,omitempty" description:"Stops: 0=Any, 1=Nonstop only, 2=1 stop or fewer, 3=2 stops or fewer"`
	LayoverDuration string `json:"layover_duration,omitempty" description:"Layover duration range in minutes as \"min,max\" (e.g. \"90,330\")"`
}

// FlightSummary is one formatted search result.
type FlightSummary struct {
	Airline     string  `json:"airline"`
	Price       float64 `json:"price"`
	Duration    string  `json:"duration"`
	Stops       string  `json:"stops"`
	Departure   string  `json:"departure"`
	Arrival     string  `json:"arrival"`
	TravelClass string  `json:"travel_class"`
	AirlineLogo string  `json:"airline_logo,omitempty"`
}

// MultiCityInput is the search_multi_city_flights tool contract.
type MultiCityInput struct {
	Flights           []core.LegSpec `json:"flights" description:"Ordered flight legs, each with departure_id, arrival_id and date (YYYY-MM-DD)"`
	TravelClass       int            `json:"travel_class,omitempty" description:"Cabin class: 1=Economy, 2=Premium Economy, 3=Business, 4=First (default 1)"`
	Stops             int            `json:"stops,omitempty" description:"Stops: 0=Any, 1=Nonstop only, 2=1 stop or fewer, 3=2 stops or fewer"`
	LayoverDuration   string         `json:"layover_duration,omitempty" description:"Per-layover duration range in minutes as \"min,max\" (e.g. \"1440,10080\" for 1-7 days)"`
	ExcludeAirlines   string         `json:"exclude_airlines,omitempty" description:"Comma-separated airline codes to exclude (e.g. \"CA,MU\")"`
	OutboundTimes     string         `json:"outbound_times,omitempty" description:"Departure hour window as \"start,end\" in 24h format (e.g. \"9,23\")"`
	SelectionStrategy string         `json:"selection_strategy,omitempty" description:"How to pick each leg's flight: cheapest, fastest or balanced (default cheapest)"`
}

// LegSummary is one selected leg in the itinerary result.
type LegSummary struct {
	Route           string  `json:"route"`
	Date            string  `json:"date"`
	Airline         string  `json:"airline"`
	Price           float64 `json:"price"`
	DurationMinutes int     `json:"duration_minutes"`
	Stops           string  `json:"stops"`
	Departure       string  `json:"departure"`
	Arrival         string  `json:"arrival"`
}

// ItineraryResult is the multi-city tool output. A partial result
// carries the legs that succeeded plus the failing leg and reason.
type ItineraryResult struct {
	Legs                 []LegSummary `json:"legs"`
	TotalPrice           float64      `json:"total_price"`
	TotalDurationMinutes int          `json:"total_duration_minutes"`
	APICallsUsed         int          `json:"api_calls_used"`
	SelectionStrategy    string       `json:"selection_strategy"`
	FailedLeg            *int         `json:"failed_leg,omitempty"`
	FailureReason        string       `json:"failure_reason,omitempty"`
}

// FlightTools owns the two search tools and their collaborators.
type FlightTools struct {
	Client  *Client
	Cache   cache.Cache
	History *gorm.DB
}

// NewFlightTools wires the search tools into the registry. Cache and
// history are optional collaborators; pass a no-op cache and a nil DB
// to disable them.
func NewFlightTools(client *Client, store cache.Cache, history *gorm.DB, gk *genkit.Genkit, registry *tools.Registry) *FlightTools {
	t := &FlightTools{Client: client, Cache: store, History: history}
	if gk == nil || registry == nil {
		return t
	}

	tools.Define[*SearchFlightsInput, []FlightSummary](gk, registry,
		"search_flights",
		"Searches for one-way or round-trip flights between two airports on a given date. Returns available flights with airline, price, duration and stops.",
		t.SearchFlights,
		decodeArgs[SearchFlightsInput],
	)

	tools.Define[*MultiCityInput, *ItineraryResult](gk, registry,
		"search_multi_city_flights",
		"Searches a multi-city itinerary leg by leg, selecting one flight per leg by the given strategy and chaining legs together. Returns the selected legs with totals, or a partial result naming the failing leg.",
		t.SearchMultiCity,
		decodeArgs[MultiCityInput],
	)

	return t
}

// decodeArgs adapts the transports' loosely-typed argument maps to a
// typed tool input via a JSON round trip.
func decodeArgs[T any](args map[string]interface{}) (*T, error) {
	in := new(T)
	b, _ := json.Marshal(args)
	if err := json.Unmarshal(b, in); err != nil {
		return nil, fmt.Errorf("failed to parse arguments: %w", err)
	}
	return in, nil
}

// SearchFlights executes the search_flights tool.
func (t *FlightTools) SearchFlights(ctx context.Context, input *SearchFlightsInput) ([]FlightSummary, error) {
	if input == nil {
		return nil, core.InvalidQueryf("input required")
	}
	log.Infof(ctx, "searching flights: %s to %s, dates: %s - %s, class: %d",
		input.Origin, input.Destination, input.OutboundDate, input.ReturnDate, input.TravelClass)

	req, err := t.validateSearch(input)
	if err != nil {
		return nil, err
	}

	key := cacheKey(req)
	if cached, ok := t.Cache.Get(ctx, key); ok {
		log.Debugf(ctx, "cache hit for %s-%s", req.Origin, req.Destination)
		t.record(ctx, searchRecord(req, len(cached), 0))
		return formatFlights(cached), nil
	}

	candidates, calls, err := t.Client.Search(ctx, req)
	if err != nil {
		log.Errorf(ctx, "flight search failed: %v", err)
		return nil, err
	}
	if len(candidates) == 0 {
		log.Warnf(ctx, "no flights found for %s-%s on %s", req.Origin, req.Destination, req.OutboundDate)
	}

	if err := t.Cache.Set(ctx, key, candidates); err != nil {
		log.Warnf(ctx, "failed to cache search results: %v", err)
	}
	t.record(ctx, searchRecord(req, len(candidates), calls))
	return formatFlights(candidates), nil
}

func (t *FlightTools) validateSearch(input *SearchFlightsInput) (SearchRequest, error) {
	var req SearchRequest
	var err error

	if req.Origin, err = core.NormalizeAirport(input.Origin); err != nil {
		return req, err
	}
	if req.Destination, err = core.NormalizeAirport(input.Destination); err != nil {
		return req, err
	}
	if err = core.ValidateDate(input.OutboundDate); err != nil {
		return req, err
	}
	req.OutboundDate = input.OutboundDate
	if input.ReturnDate != "" {
		if err = core.ValidateDate(input.ReturnDate); err != nil {
			return req, err
		}
		req.ReturnDate = input.ReturnDate
	}

	req.TravelClass = core.CabinClass(input.TravelClass)
	if input.TravelClass == 0 {
		req.TravelClass = core.Economy
	}
	if !req.TravelClass.Valid() {
		return req, core.InvalidQueryf("travel_class %d must be 1 (economy) to 4 (first)", input.TravelClass)
	}

	req.Stops = core.StopsFilter(input.Stops)
	if !req.Stops.Valid() {
		return req, core.InvalidQueryf("stops %d must be 0 (any) to 3 (two stops or fewer)", input.Stops)
	}

	if _, err = core.ParseLayoverRange(input.LayoverDuration); err != nil {
		return req, err
	}
	req.LayoverDuration = input.LayoverDuration
	return req, nil
}

// SearchMultiCity executes the search_multi_city_flights tool.
func (t *FlightTools) SearchMultiCity(ctx context.Context, input *MultiCityInput) (*ItineraryResult, error) {
	if input == nil {
		return nil, core.InvalidQueryf("input required")
	}
	log.Infof(ctx, "multi-city search: %d legs, strategy %q", len(input.Flights), input.SelectionStrategy)

	strategy, err := core.ParseStrategy(input.SelectionStrategy)
	if err != nil {
		return nil, err
	}

	layover, err := core.ParseLayoverRange(input.LayoverDuration)
	if err != nil {
		return nil, err
	}
	window, err := core.ParseTimeWindow(input.OutboundTimes)
	if err != nil {
		return nil, err
	}

	travelClass := core.CabinClass(input.TravelClass)
	if input.TravelClass == 0 {
		travelClass = core.Economy
	}

	req := core.PlanRequest{
		Legs:        input.Flights,
		TravelClass: travelClass,
		Stops:       core.StopsFilter(input.Stops),
		Strategy:    strategy,
		Filter: core.FilterSpec{
			ExcludeAirlines: core.ParseExcludeAirlines(input.ExcludeAirlines),
			Layover:         layover,
			Departure:       window,
		},
	}

	// Chained results are never cached: each leg's continuation token
	// is only valid within the request that produced it.
	it, err := core.NewOrchestrator(t.Client).Run(ctx, req)
	if err != nil {
		return nil, err
	}

	result := formatItinerary(it)
	t.record(ctx, itineraryRecord(req, it))
	return result, nil
}

func formatFlights(candidates []core.Candidate) []FlightSummary {
	out := make([]FlightSummary, 0, len(candidates))
	for _, c := range candidates {
		out = append(out, FlightSummary{
			Airline:     c.Airline,
			Price:       c.Price,
			Duration:    fmt.Sprintf("%d min", c.DurationMinutes),
			Stops:       stopsLabel(c),
			Departure:   firstSegment(c).Departure,
			Arrival:     lastSegment(c).Arrival,
			TravelClass: travelClassLabel(c),
			AirlineLogo: c.AirlineLogo,
		})
	}
	return out
}

func formatItinerary(it *core.Itinerary) *ItineraryResult {
	result := &ItineraryResult{
		TotalPrice:           it.TotalPrice,
		TotalDurationMinutes: it.TotalDurationMinutes,
		APICallsUsed:         it.APICallsUsed,
		SelectionStrategy:    it.Strategy.String(),
	}
	for _, leg := range it.Legs {
		w := leg.Winner
		result.Legs = append(result.Legs, LegSummary{
			Route:           fmt.Sprintf("%s-%s", leg.Leg.Origin, leg.Leg.Destination),
			Date:            leg.Leg.Date,
			Airline:         w.Airline,
			Price:           w.Price,
			DurationMinutes: w.DurationMinutes,
			Stops:           stopsLabel(*w),
			Departure:       firstSegment(*w).Departure,
			Arrival:         lastSegment(*w).Arrival,
		})
	}
	if it.Failed != nil {
		index := it.Failed.Index
		result.FailedLeg = &index
		result.FailureReason = it.Failed.Reason
	}
	return result
}

func stopsLabel(c core.Candidate) string {
	if c.Stops() == 0 {
		return "Nonstop"
	}
	return fmt.Sprintf("%d stop(s)", c.Stops())
}

func firstSegment(c core.Candidate) core.Segment {
	if len(c.Segments) == 0 {
		return core.Segment{}
	}
	return c.Segments[0]
}

func lastSegment(c core.Candidate) core.Segment {
	if len(c.Segments) == 0 {
		return core.Segment{}
	}
	return c.Segments[len(c.Segments)-1]
}

func travelClassLabel(c core.Candidate) string {
	if len(c.Segments) > 0 && c.Segments[0].TravelClass != "" {
		return c.Segments[0].TravelClass
	}
	return "Economy"
}

// cacheKey identifies a single search; chained leg queries never get
// one.
func cacheKey(req SearchRequest) string {
	return cache.Key(req.Origin, req.Destination, req.OutboundDate, req.ReturnDate,
		int(req.TravelClass), int(req.Stops), req.LayoverDuration)
}

func (t *FlightTools) record(ctx context.Context, rec *orm.SearchRecord) {
	if t.History == nil {
		return
	}
	if err := orm.RecordSearch(t.History, rec); err != nil {
		log.Warnf(ctx, "failed to record search history: %v", err)
	}
}

func searchRecord(req SearchRequest, results, calls int) *orm.SearchRecord {
	return &orm.SearchRecord{
		Tool:        "search_flights",
		Route:       fmt.Sprintf("%s-%s", req.Origin, req.Destination),
		Date:        req.OutboundDate,
		Legs:        1,
		ResultCount: results,
		APICalls:    calls,
	}
}

func itineraryRecord(req core.PlanRequest, it *core.Itinerary) *orm.SearchRecord {
	rec := &orm.SearchRecord{
		Tool:        "search_multi_city_flights",
		Legs:        len(req.Legs),
		Strategy:    req.Strategy.String(),
		ResultCount: len(it.Legs),
		TotalPrice:  it.TotalPrice,
		APICalls:    it.APICallsUsed,
	}
	if len(req.Legs) > 0 {
		rec.Route = fmt.Sprintf("%s-%s", req.Legs[0].Origin, req.Legs[len(req.Legs)-1].Destination)
		rec.Date = req.Legs[0].Date
	}
	if it.Failed != nil {
		index := it.Failed.Index
		rec.FailedLeg = &index
	}
	return rec
}
