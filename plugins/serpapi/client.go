// Package serpapi implements the provider query interface against the
// SerpAPI Google Flights engine and registers the flight search tools.
package serpapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/time/rate"

	"github.com/skyquery/skyquery/core"
	"github.com/skyquery/skyquery/log"
)

// BaseURL is the production SerpAPI endpoint.
const BaseURL = "https://serpapi.com"

// SearchRequest is a one-way or round-trip search, already validated.
type SearchRequest struct {
	Origin          string
	Destination     string
	OutboundDate    string
	ReturnDate      string
	TravelClass     core.CabinClass
	Stops           core.StopsFilter
	LayoverDuration string
}

// Client is the SerpAPI client. Calls are rate limited client-side and
// bound by the configured HTTP timeout; one transient-network retry is
// performed and every HTTP call issued is reported to the caller.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
}

// ClientConfig carries the provider knobs read once at startup.
type ClientConfig struct {
	APIKey            string
	BaseURL           string
	TimeoutSeconds    int
	RequestsPerSecond float64
	Burst             int
}

// NewClient creates a SerpAPI client.
func NewClient(cfg ClientConfig) *Client {
	if cfg.APIKey == "" {
		log.Warn(context.Background(), "SerpAPI key is empty, flight search tools will not work")
	}
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = BaseURL
	}
	return &Client{
		apiKey:     cfg.APIKey,
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: time.Duration(cfg.TimeoutSeconds) * time.Second},
		limiter:    rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), cfg.Burst),
	}
}

// Search runs a one-way or round-trip search. calls reports the HTTP
// calls issued, including the transient retry.
func (c *Client) Search(ctx context.Context, req SearchRequest) ([]core.Candidate, int, error) {
	resp, calls, err := c.doSearch(ctx, searchParams(c.apiKey, req))
	if err != nil {
		return nil, calls, core.ProviderError(-1, err)
	}
	return resp.normalize(core.LegSpec{}, false), calls, nil
}

// SearchLeg runs one leg of a multi-city chain. It implements
// core.LegSearcher; returned candidates carry continuation tokens
// bound to the queried leg.
func (c *Client) SearchLeg(ctx context.Context, q core.LegQuery) ([]core.Candidate, int, error) {
	params, err := legParams(c.apiKey, q)
	if err != nil {
		return nil, 0, core.ProviderError(q.Index, err)
	}

	resp, calls, err := c.doSearch(ctx, params)
	if err != nil {
		return nil, calls, core.ProviderError(q.Index, err)
	}
	return resp.normalize(q.Leg(), true), calls, nil
}

// doSearch issues the HTTP call, retrying once on transient network
// failure. The calls count covers every request actually sent.
func (c *Client) doSearch(ctx context.Context, params url.Values) (*searchResponse, int, error) {
	calls := 0

	resp, err := c.doOnce(ctx, params)
	calls++
	if err != nil && isTransient(err) && ctx.Err() == nil {
		log.Warnf(ctx, "transient SerpAPI failure, retrying once: %v", err)
		resp, err = c.doOnce(ctx, params)
		calls++
	}
	if err != nil {
		return nil, calls, err
	}
	return resp, calls, nil
}

func (c *Client) doOnce(ctx context.Context, params url.Values) (*searchResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/search.json?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	log.Debugf(ctx, "SerpAPI request: engine=%s type=%s", params.Get("engine"), params.Get("type"))
	httpResp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer httpResp.Body.Close()

	if httpResp.StatusCode == http.StatusTooManyRequests {
		return nil, fmt.Errorf("provider rate limit exceeded: %s", httpResp.Status)
	}
	if httpResp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("search failed: %s", httpResp.Status)
	}

	var resp searchResponse
	if err := json.NewDecoder(httpResp.Body).Decode(&resp); err != nil {
		return nil, fmt.Errorf("malformed provider response: %w", err)
	}
	if resp.Error != "" {
		return nil, fmt.Errorf("provider error: %s", resp.Error)
	}

	log.Debugf(ctx, "SerpAPI response: %d best, %d other flights", len(resp.BestFlights), len(resp.OtherFlights))
	return &resp, nil
}

// isTransient reports whether an error is worth the single retry.
// Timeouts, cancellations and HTTP-level failures (rate limit,
// provider error field) are not: repeating those immediately only
// spends quota.
func isTransient(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var netErr net.Error
	return errors.As(err, &netErr) && !netErr.Timeout()
}
