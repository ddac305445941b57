// Package ai calls the remote region-inference endpoint. The endpoint is an
// opaque collaborator: the client enforces a hard timeout, validates every
// field of the response, and reports any failure as a soft miss so the
// resolution pipeline can degrade instead of erroring.
package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"eramap/internal/region/models"
	"eramap/pkg/countries"
)

const (
	defaultTimeout = 10 * time.Second
	maxTitleRunes  = 120
)

// Response is the validated lookup result. Countries only contains allowlisted
// ISO codes; confidence is already coerced onto the known levels.
type Response struct {
	Type        string
	Countries   []string
	Confidence  models.Confidence
	Reasoning   string
	Timeframe   string
	Description string
	Suggestions []string
}

// wireResponse mirrors the endpoint's JSON. The server may cap countries at
// 50 and truncate timeframe/description; nothing here assumes otherwise.
type wireResponse struct {
	Type        string   `json:"type"`
	Countries   []string `json:"countries"`
	Confidence  string   `json:"confidence"`
	Reasoning   string   `json:"reasoning"`
	Timeframe   string   `json:"timeframe"`
	Description string   `json:"description"`
	Suggestions []string `json:"suggestions"`
}

type Client struct {
	baseURL    string
	httpClient *http.Client
	timeout    time.Duration
	logger     *slog.Logger
}

type Option func(*Client)

// WithTimeout overrides the per-lookup deadline.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.timeout = d }
}

// WithHTTPClient substitutes the transport, primarily for tests.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// New returns a lookup client. An empty baseURL yields a disabled client
// whose Fetch always misses.
func New(baseURL string, logger *slog.Logger, opts ...Option) *Client {
	c := &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{},
		timeout:    defaultTimeout,
		logger:     logger,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Enabled reports whether a remote endpoint is configured.
func (c *Client) Enabled() bool {
	return c.baseURL != ""
}

// FetchRegions asks the remote endpoint for countries matching a period and
// year range. A nil Response with nil error is a clean miss; a non-nil error
// is still a miss but worth logging. Errors never carry partial results.
func (c *Client) FetchRegions(ctx context.Context, period string, startYear, endYear int, title string) (*Response, error) {
	if !c.Enabled() {
		return nil, nil
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	ctx, span := otel.Tracer("eramap/ai").Start(ctx, "ai.FetchRegions")
	span.SetAttributes(attribute.String("period", period))
	defer span.End()

	q := url.Values{}
	q.Set("period", period)
	q.Set("startYear", strconv.Itoa(startYear))
	q.Set("endYear", strconv.Itoa(endYear))
	if title != "" {
		q.Set("title", truncateRunes(title, maxTitleRunes))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/lookup?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("build lookup request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("lookup request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("lookup returned status %d", resp.StatusCode)
	}

	var wire wireResponse
	if err := json.NewDecoder(resp.Body).Decode(&wire); err != nil {
		return nil, fmt.Errorf("decode lookup response: %w", err)
	}

	return sanitize(wire), nil
}

// sanitize enforces the client side of the contract: codes must be two
// uppercase letters on the ISO allowlist (non-conforming entries dropped
// individually), confidence outside {high, medium} coerces to low, and text
// fields default to empty.
func sanitize(wire wireResponse) *Response {
	reasoning := wire.Reasoning
	if reasoning == "" {
		reasoning = wire.Description
	}

	suggestions := wire.Suggestions
	if suggestions == nil {
		suggestions = []string{}
	}

	lookupType := wire.Type
	switch lookupType {
	case "country", "empire", "era":
	default:
		lookupType = "era"
	}

	return &Response{
		Type:        lookupType,
		Countries:   countries.Filter(wire.Countries),
		Confidence:  models.Coerce(wire.Confidence),
		Reasoning:   reasoning,
		Timeframe:   wire.Timeframe,
		Description: wire.Description,
		Suggestions: suggestions,
	}
}

func truncateRunes(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
