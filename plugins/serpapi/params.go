package serpapi

import (
	"encoding/json"
	"net/url"
	"strconv"

	"github.com/skyquery/skyquery/core"
)

// Google Flights trip types on the SerpAPI wire.
const (
	tripRoundTrip = "1"
	tripOneWay    = "2"
	tripMultiCity = "3"
)

// sortByPrice keeps chained multi-city responses in a stable,
// price-first order.
const sortByPrice = "2"

func baseParams(apiKey string) url.Values {
	params := url.Values{}
	params.Set("api_key", apiKey)
	params.Set("engine", "google_flights")
	params.Set("hl", "en")
	params.Set("gl", "us")
	params.Set("currency", "USD")
	return params
}

// searchParams builds the wire query for a one-way or round trip.
func searchParams(apiKey string, req SearchRequest) url.Values {
	params := baseParams(apiKey)
	params.Set("departure_id", req.Origin)
	params.Set("arrival_id", req.Destination)
	params.Set("outbound_date", req.OutboundDate)
	params.Set("travel_class", strconv.Itoa(int(req.TravelClass)))

	if req.ReturnDate != "" {
		params.Set("type", tripRoundTrip)
		params.Set("return_date", req.ReturnDate)
	} else {
		params.Set("type", tripOneWay)
	}

	if req.Stops != core.StopsAny {
		params.Set("stops", strconv.Itoa(int(req.Stops)))
	}
	if req.LayoverDuration != "" {
		params.Set("layover_duration", req.LayoverDuration)
	}
	return params
}

// legParams builds the wire query for one leg of a multi-city chain.
// The full legs list rides along on every call; the departure token
// from the previous leg's winner constrains this leg's results.
func legParams(apiKey string, q core.LegQuery) (url.Values, error) {
	legsJSON, err := json.Marshal(q.Legs)
	if err != nil {
		return nil, err
	}

	params := baseParams(apiKey)
	params.Set("type", tripMultiCity)
	params.Set("multi_city_json", string(legsJSON))
	params.Set("travel_class", strconv.Itoa(int(q.TravelClass)))
	params.Set("sort_by", sortByPrice)

	if q.Token != nil {
		params.Set("departure_token", q.Token.Value)
	}
	if q.Stops != core.StopsAny {
		params.Set("stops", strconv.Itoa(int(q.Stops)))
	}
	if q.Hints.LayoverDuration != "" {
		params.Set("layover_duration", q.Hints.LayoverDuration)
	}
	if q.Hints.ExcludeAirlines != "" {
		params.Set("exclude_airlines", q.Hints.ExcludeAirlines)
	}
	if q.Hints.OutboundTimes != "" {
		params.Set("outbound_times", q.Hints.OutboundTimes)
	}
	return params, nil
}
