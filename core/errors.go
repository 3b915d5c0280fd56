package core

import (
	"errors"
	"fmt"
)

// Kind classifies a search failure. Every core boundary returns one of
// these so callers can map failures to the partial-itinerary policy
// instead of crashing the host.
type Kind int

const (
	// KindInvalidQuery is malformed input, rejected before any
	// provider call.
	KindInvalidQuery Kind = iota + 1
	// KindProvider is a network or upstream failure, including
	// timeouts and rate limiting.
	KindProvider
	// KindNoCandidates means the provider or the filter left nothing
	// viable for a leg.
	KindNoCandidates
	// KindOrchestration means the chain broke: a selected flight had
	// no continuation token before the itinerary was complete.
	KindOrchestration
)

func (k Kind) String() string {
	switch k {
	case KindInvalidQuery:
		return "invalid_query"
	case KindProvider:
		return "provider_error"
	case KindNoCandidates:
		return "no_candidates"
	case KindOrchestration:
		return "orchestration_error"
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// MarshalText lets Kind render as its name in JSON results.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Error carries a failure kind, the leg it occurred on (-1 when not
// leg-specific) and an optional wrapped cause.
type Error struct {
	Kind Kind
	Leg  int
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	msg := e.Msg
	if msg == "" && e.Err != nil {
		msg = e.Err.Error()
	}
	if e.Leg >= 0 {
		return fmt.Sprintf("%s at leg %d: %s", e.Kind, e.Leg, msg)
	}
	return fmt.Sprintf("%s: %s", e.Kind, msg)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// InvalidQueryf builds a validation error not tied to a leg.
func InvalidQueryf(format string, args ...interface{}) *Error {
	return &Error{Kind: KindInvalidQuery, Leg: -1, Msg: fmt.Sprintf(format, args...)}
}

// ProviderError wraps an upstream failure for the given leg.
func ProviderError(leg int, err error) *Error {
	return &Error{Kind: KindProvider, Leg: leg, Err: err}
}

// NoCandidatesError reports an empty candidate list for the given leg.
func NoCandidatesError(leg int, reason string) *Error {
	return &Error{Kind: KindNoCandidates, Leg: leg, Msg: reason}
}

// KindOf extracts the failure kind from an error chain. Unclassified
// errors report as provider failures, the defensive default for
// anything that crossed the upstream boundary.
func KindOf(err error) Kind {
	var ce *Error
	if errors.As(err, &ce) {
		return ce.Kind
	}
	return KindProvider
}
