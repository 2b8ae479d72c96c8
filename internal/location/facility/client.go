// Package facility looks up the named facility nearest a coordinate from an
// external reverse-geocoding service. Results only enrich verification
// metadata; nothing in the capture decision depends on them.
package facility

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"clockgeo/internal/geo"
	"clockgeo/internal/location/metrics"
	"clockgeo/pkg/platform/circuit"
)

var ErrCircuitOpen = errors.New("facility lookup circuit open")

const maxResponseBytes = 1 << 16

// Facility is a named place returned by the lookup service.
type Facility struct {
	Name    string `json:"name"`
	Address string `json:"address,omitempty"`
	Type    string `json:"type,omitempty"`
}

// Result mirrors the lookup service response.
type Result struct {
	Success  bool      `json:"success"`
	Facility *Facility `json:"facility,omitempty"`
	Distance *float64  `json:"distance,omitempty"`
}

// Client calls the lookup service over HTTP behind a circuit breaker.
type Client struct {
	baseURL *url.URL
	http    *http.Client
	breaker *circuit.Breaker
	metrics *metrics.Metrics
}

type Option func(*Client)

func WithHTTPClient(c *http.Client) Option {
	return func(cl *Client) {
		cl.http = c
	}
}

func WithBreaker(b *circuit.Breaker) Option {
	return func(cl *Client) {
		cl.breaker = b
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(cl *Client) {
		cl.metrics = m
	}
}

// NewClient returns a client for the service at baseURL. Each call is bounded
// by timeout.
func NewClient(baseURL string, timeout time.Duration, opts ...Option) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid facility lookup url %q", baseURL)
	}
	c := &Client{
		baseURL: u,
		http:    &http.Client{Timeout: timeout},
		breaker: circuit.New("facility_lookup", circuit.WithFailureThreshold(3), circuit.WithSuccessThreshold(1)),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

func (c *Client) Lookup(ctx context.Context, coord geo.Coordinate) (Result, error) {
	if !c.breaker.Allow() {
		c.metrics.IncrementFacilityLookup("open_circuit")
		return Result{}, ErrCircuitOpen
	}
	res, err := c.do(ctx, coord)
	if err != nil {
		c.breaker.RecordFailure()
		c.metrics.IncrementFacilityLookup("error")
		return Result{}, err
	}
	c.breaker.RecordSuccess()
	if !res.Success || res.Facility == nil {
		c.metrics.IncrementFacilityLookup("not_found")
	} else {
		c.metrics.IncrementFacilityLookup("ok")
	}
	return res, nil
}

func (c *Client) do(ctx context.Context, coord geo.Coordinate) (Result, error) {
	u := *c.baseURL
	q := u.Query()
	q.Set("lat", strconv.FormatFloat(coord.Latitude, 'f', 6, 64))
	q.Set("lng", strconv.FormatFloat(coord.Longitude, 'f', 6, 64))
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return Result{}, fmt.Errorf("build facility request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return Result{}, fmt.Errorf("facility lookup: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return Result{Success: false}, nil
	}
	if resp.StatusCode != http.StatusOK {
		return Result{}, fmt.Errorf("facility lookup: unexpected status %d", resp.StatusCode)
	}
	var res Result
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseBytes)).Decode(&res); err != nil {
		return Result{}, fmt.Errorf("decode facility response: %w", err)
	}
	return res, nil
}

// Noop is used when no lookup service is configured.
type Noop struct{}

func (Noop) Lookup(context.Context, geo.Coordinate) (Result, error) {
	return Result{Success: false}, nil
}
