package fxapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/triptally/fx_backend/internal/utils/fxcalc"
)

// ErrUnexpectedPayload indicates the provider answered 2xx but the body did
// not contain the expected rate key.
var ErrUnexpectedPayload = errors.New("unexpected fx payload")

const (
	// DefaultBaseURL is the public endpoint used when none is configured.
	DefaultBaseURL = "https://api.exchangerate.host"

	defaultTimeout = 5 * time.Second

	liveQuotesHost = "exchangerate.host"
)

// Client fetches rates from the external FX API. It normalizes two payload
// shapes: the "live quotes" shape keyed by concatenated currency codes and
// the generic "latest" shape keyed by target currency. No caching, no
// fallback semantics live here.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client

	// useLiveQuotes selects the /live (+ /convert fallback) query style over
	// the deprecated /latest style. Derived from the configured host.
	useLiveQuotes bool
}

// NewClient creates a Client for the given base URL. A zero timeout falls
// back to a small default so a hung provider cannot hang the caller.
func NewClient(baseURL, apiKey string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		baseURL:       strings.TrimRight(baseURL, "/"),
		apiKey:        apiKey,
		httpClient:    &http.Client{Timeout: timeout},
		useLiveQuotes: isLiveQuotesHost(baseURL),
	}
}

// Name identifies the provider for snapshot tagging.
func (c *Client) Name() string {
	return liveQuotesHost
}

type apiError struct {
	Code int    `json:"code"`
	Type string `json:"type"`
	Info string `json:"info"`
}

// message picks the most specific description the provider gave us.
func (e *apiError) message() string {
	if e == nil {
		return "fx provider error"
	}
	if e.Info != "" {
		return e.Info
	}
	if e.Type != "" {
		return e.Type
	}
	return fmt.Sprintf("fx provider error (code %d)", e.Code)
}

type livePayload struct {
	Success *bool              `json:"success"`
	Quotes  map[string]float64 `json:"quotes"`
	Error   *apiError          `json:"error"`
}

type convertPayload struct {
	Success *bool     `json:"success"`
	Result  *float64  `json:"result"`
	Error   *apiError `json:"error"`
}

type latestPayload struct {
	Rates map[string]float64 `json:"rates"`
}

// FetchRate fetches a single from->to rate, normalizing both payload shapes.
func (c *Client) FetchRate(ctx context.Context, from, to string) (float64, error) {
	f := strings.ToUpper(from)
	t := strings.ToUpper(to)
	if c.useLiveQuotes {
		return c.fetchLiveRate(ctx, f, t)
	}
	return c.fetchLatestRate(ctx, f, t)
}

func (c *Client) fetchLiveRate(ctx context.Context, from, to string) (float64, error) {
	var payload livePayload
	query := url.Values{"source": {from}, "currencies": {to}}
	if err := c.getJSON(ctx, "/live", query, &payload); err != nil {
		return 0, err
	}
	if payload.Success != nil && !*payload.Success {
		return 0, errors.New(payload.Error.message())
	}
	if rate, ok := payload.Quotes[from+to]; ok && fxcalc.IsUsableRate(rate) {
		return rate, nil
	}
	// The live shape occasionally omits the pair; /convert is the documented escape hatch.
	if rate, err := c.fetchConvertRate(ctx, from, to); err == nil {
		return rate, nil
	}
	return 0, ErrUnexpectedPayload
}

func (c *Client) fetchConvertRate(ctx context.Context, from, to string) (float64, error) {
	var payload convertPayload
	query := url.Values{"from": {from}, "to": {to}, "amount": {"1"}}
	if err := c.getJSON(ctx, "/convert", query, &payload); err != nil {
		return 0, err
	}
	if payload.Success != nil && !*payload.Success {
		return 0, errors.New(payload.Error.message())
	}
	if payload.Result == nil || !fxcalc.IsUsableRate(*payload.Result) {
		return 0, ErrUnexpectedPayload
	}
	return *payload.Result, nil
}

func (c *Client) fetchLatestRate(ctx context.Context, from, to string) (float64, error) {
	var payload latestPayload
	query := url.Values{"base": {from}, "symbols": {to}}
	if err := c.getJSON(ctx, "/latest", query, &payload); err != nil {
		return 0, err
	}
	rate, ok := payload.Rates[to]
	if !ok || !fxcalc.IsUsableRate(rate) {
		return 0, ErrUnexpectedPayload
	}
	return rate, nil
}

// FetchQuotes fetches the full live quotes map for a base currency, filtered
// to finite positive values only.
func (c *Client) FetchQuotes(ctx context.Context, base string) (map[string]float64, error) {
	var payload livePayload
	query := url.Values{"source": {strings.ToUpper(base)}}
	if err := c.getJSON(ctx, "/live", query, &payload); err != nil {
		return nil, err
	}
	if payload.Success != nil && !*payload.Success {
		return nil, errors.New(payload.Error.message())
	}
	filtered := make(map[string]float64, len(payload.Quotes))
	for key, rate := range payload.Quotes {
		if fxcalc.IsUsableRate(rate) {
			filtered[key] = rate
		}
	}
	if len(filtered) == 0 {
		return nil, ErrUnexpectedPayload
	}
	return filtered, nil
}

func (c *Client) getJSON(ctx context.Context, path string, query url.Values, out any) error {
	if c.apiKey != "" && query.Get("access_key") == "" {
		query.Set("access_key", c.apiKey)
	}
	reqURL := c.baseURL + path + "?" + query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("failed to build fx request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	res, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("fx request failed: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		return fmt.Errorf("fx http %d", res.StatusCode)
	}
	if err := json.NewDecoder(res.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode fx response: %w", err)
	}
	return nil
}

func isLiveQuotesHost(baseURL string) bool {
	u, err := url.Parse(baseURL)
	if err != nil {
		return false
	}
	host := strings.ToLower(u.Hostname())
	return host == liveQuotesHost || strings.HasSuffix(host, "."+liveQuotesHost)
}
