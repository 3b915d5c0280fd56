package core

import (
	"fmt"
	"strings"
	"time"
)

const dateLayout = "2006-01-02"

// NormalizeAirport trims and upper-cases an airport code, rejecting
// anything that is not IATA shaped (three letters).
func NormalizeAirport(code string) (string, error) {
	c := strings.ToUpper(strings.TrimSpace(code))
	if len(c) != 3 {
		return "", InvalidQueryf("airport code %q must be a 3-letter IATA code", code)
	}
	for _, r := range c {
		if r < 'A' || r > 'Z' {
			return "", InvalidQueryf("airport code %q must be a 3-letter IATA code", code)
		}
	}
	return c, nil
}

// ValidateDate parses a YYYY-MM-DD date and rejects dates before
// today. Past-date searches never reach the provider.
func ValidateDate(date string) error {
	d, err := time.Parse(dateLayout, strings.TrimSpace(date))
	if err != nil {
		return InvalidQueryf("date %q is not a valid YYYY-MM-DD date", date)
	}
	// Yesterday as the cutoff buffers timezone skew between the
	// caller and the provider.
	today := time.Now().Truncate(24 * time.Hour)
	if d.Before(today.Add(-24 * time.Hour)) {
		return InvalidQueryf("date %q is in the past", date)
	}
	return nil
}

// NormalizeLeg validates and canonicalizes one leg in place.
func NormalizeLeg(leg *LegSpec) error {
	origin, err := NormalizeAirport(leg.Origin)
	if err != nil {
		return err
	}
	destination, err := NormalizeAirport(leg.Destination)
	if err != nil {
		return err
	}
	if err := ValidateDate(leg.Date); err != nil {
		return err
	}
	leg.Origin = origin
	leg.Destination = destination
	leg.Date = strings.TrimSpace(leg.Date)
	return nil
}

// ValidateFilterSpec rejects inverted or out-of-range constraints.
// Absent fields are valid: absence means no constraint.
func ValidateFilterSpec(spec FilterSpec) error {
	if w := spec.Departure; w != nil {
		if w.Start < 0 || w.End > 23 {
			return InvalidQueryf("departure time window %d-%d must be within hours 0-23", w.Start, w.End)
		}
		if w.Start > w.End {
			return InvalidQueryf("departure time window start %d is after end %d", w.Start, w.End)
		}
	}
	if r := spec.Layover; r != nil {
		if r.Min < 0 {
			return InvalidQueryf("layover minimum %d minutes is negative", r.Min)
		}
		if r.Min > r.Max {
			return InvalidQueryf("layover range %d-%d minutes is inverted", r.Min, r.Max)
		}
	}
	return nil
}

// ParseLayoverRange parses the tool-facing "min,max" minutes form.
func ParseLayoverRange(s string) (*LayoverRange, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	var min, max int
	if _, err := fmt.Sscanf(strings.TrimSpace(s), "%d,%d", &min, &max); err != nil {
		return nil, InvalidQueryf("layover_duration %q must be \"min,max\" minutes", s)
	}
	r := &LayoverRange{Min: min, Max: max}
	if r.Min < 0 || r.Min > r.Max {
		return nil, InvalidQueryf("layover_duration %q is not a valid range", s)
	}
	return r, nil
}

// ParseTimeWindow parses the tool-facing "start,end" hour form.
func ParseTimeWindow(s string) (*TimeWindow, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	var start, end int
	if _, err := fmt.Sscanf(strings.TrimSpace(s), "%d,%d", &start, &end); err != nil {
		return nil, InvalidQueryf("outbound_times %q must be \"start,end\" hours", s)
	}
	w := &TimeWindow{Start: start, End: end}
	if err := ValidateFilterSpec(FilterSpec{Departure: w}); err != nil {
		return nil, err
	}
	return w, nil
}

// ParseExcludeAirlines parses a comma-separated carrier code list,
// dropping empty entries.
func ParseExcludeAirlines(s string) []string {
	var codes []string
	for _, c := range strings.Split(s, ",") {
		c = strings.ToUpper(strings.TrimSpace(c))
		if c != "" {
			codes = append(codes, c)
		}
	}
	return codes
}
