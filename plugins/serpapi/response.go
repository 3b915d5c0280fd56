package serpapi

import (
	"fmt"
	"time"

	"github.com/skyquery/skyquery/core"
)

// --- SerpAPI Google Flights response (simplified) ---

type searchResponse struct {
	Error        string         `json:"error,omitempty"`
	BestFlights  []flightOption `json:"best_flights"`
	OtherFlights []flightOption `json:"other_flights"`
}

type flightOption struct {
	Flights        []flightSegment `json:"flights"`
	Layovers       []layover       `json:"layovers"`
	TotalDuration  int             `json:"total_duration"`
	Price          float64         `json:"price"`
	Type           string          `json:"type"`
	AirlineLogo    string          `json:"airline_logo"`
	DepartureToken string          `json:"departure_token"`
}

type flightSegment struct {
	DepartureAirport airportStop `json:"departure_airport"`
	ArrivalAirport   airportStop `json:"arrival_airport"`
	Duration         int         `json:"duration"`
	Airline          string      `json:"airline"`
	AirlineLogo      string      `json:"airline_logo"`
	FlightNumber     string      `json:"flight_number"`
	TravelClass      string      `json:"travel_class"`
}

type airportStop struct {
	Name string `json:"name"`
	ID   string `json:"id"`
	Time string `json:"time"`
}

type layover struct {
	Duration int    `json:"duration"`
	Name     string `json:"name"`
	ID       string `json:"id"`
}

// segmentTimeLayout is the provider's local-time format, e.g.
// "2025-11-10 08:05".
const segmentTimeLayout = "2006-01-02 15:04"

// options returns best and other flights in provider order, best
// first. Both pools feed selection: restrictive filters can empty the
// best list while viable options remain in the rest.
func (r *searchResponse) options() []flightOption {
	out := make([]flightOption, 0, len(r.BestFlights)+len(r.OtherFlights))
	out = append(out, r.BestFlights...)
	return append(out, r.OtherFlights...)
}

// carrierCode extracts the IATA carrier prefix of a flight number like
// "QF 1".
func carrierCode(flightNumber string) string {
	for i, r := range flightNumber {
		if r == ' ' {
			return flightNumber[:i]
		}
	}
	return flightNumber
}

// toCandidate normalizes one provider option. token binds the
// continuation token to the leg that produced it; pass a zero LegSpec
// outside multi-city chains to leave candidates token-free.
func (o flightOption) toCandidate(tokenLeg core.LegSpec, withToken bool) (core.Candidate, error) {
	if len(o.Flights) == 0 {
		return core.Candidate{}, fmt.Errorf("flight option has no segments")
	}

	c := core.Candidate{
		Airline:         o.Flights[0].Airline,
		AirlineLogo:     o.AirlineLogo,
		Price:           o.Price,
		DurationMinutes: o.TotalDuration,
	}
	if c.AirlineLogo == "" {
		c.AirlineLogo = o.Flights[0].AirlineLogo
	}

	for _, seg := range o.Flights {
		if code := carrierCode(seg.FlightNumber); code != "" {
			c.Carriers = append(c.Carriers, code)
		}
		c.Segments = append(c.Segments, core.Segment{
			Airline:      seg.Airline,
			FlightNumber: seg.FlightNumber,
			TravelClass:  seg.TravelClass,
			Departure:    fmt.Sprintf("%s (%s) at %s", seg.DepartureAirport.Name, seg.DepartureAirport.ID, seg.DepartureAirport.Time),
			Arrival:      fmt.Sprintf("%s (%s) at %s", seg.ArrivalAirport.Name, seg.ArrivalAirport.ID, seg.ArrivalAirport.Time),
		})
	}

	if t, err := time.Parse(segmentTimeLayout, o.Flights[0].DepartureAirport.Time); err == nil {
		c.Departure = t
	}

	for _, l := range o.Layovers {
		c.Layovers = append(c.Layovers, l.Duration)
	}

	if withToken && o.DepartureToken != "" {
		c.Token = &core.ChainToken{Value: o.DepartureToken, Leg: tokenLeg}
	}
	return c, nil
}

// normalize converts a full response, skipping malformed options
// rather than failing the whole search.
func (r *searchResponse) normalize(tokenLeg core.LegSpec, withToken bool) []core.Candidate {
	opts := r.options()
	candidates := make([]core.Candidate, 0, len(opts))
	for _, o := range opts {
		c, err := o.toCandidate(tokenLeg, withToken)
		if err != nil {
			continue
		}
		candidates = append(candidates, c)
	}
	return candidates
}
