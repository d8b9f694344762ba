package dalil

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const defaultTimeout = 30 * time.Second

// Client is the dalil SDK entry point.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	obs        *observer
}

// New creates a Client for the API at baseURL.
func New(baseURL string, opts ...Option) (*Client, error) {
	cfg := &clientConfig{}
	for _, o := range opts {
		o.apply(cfg)
	}

	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil, fmt.Errorf("%w: base URL required", ErrInvalidRequest)
	}

	hc := cfg.httpClient
	if hc == nil {
		timeout := cfg.timeout
		if timeout <= 0 {
			timeout = defaultTimeout
		}
		hc = &http.Client{Timeout: timeout}
	}

	obs, err := newObserver(cfg.logger, cfg.metricsReg)
	if err != nil {
		return nil, err
	}

	return &Client{
		baseURL:    baseURL,
		apiKey:     cfg.apiKey,
		httpClient: hc,
		obs:        obs,
	}, nil
}

// ListBusinesses runs one directory search.
func (c *Client) ListBusinesses(ctx context.Context, p Params) (res *ListResult, err error) {
	start := time.Now()
	defer func() { c.obs.observe("list_businesses", start, err) }()

	var out ListResult
	if err = c.get(ctx, "/api/v1/businesses", p.Values(), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Suggest previews the filters the server derives from a free-text query.
func (c *Client) Suggest(ctx context.Context, text string) (sug Suggestions, err error) {
	start := time.Now()
	defer func() { c.obs.observe("suggest", start, err) }()

	q := url.Values{}
	q.Set("q", text)

	var out struct {
		Data Suggestions `json:"data"`
	}
	if err = c.get(ctx, "/api/v1/suggest", q, &out); err != nil {
		return Suggestions{}, err
	}
	return out.Data, nil
}

// Categories returns the canonical category table.
func (c *Client) Categories(ctx context.Context) (cats []Category, err error) {
	start := time.Now()
	defer func() { c.obs.observe("categories", start, err) }()

	var out struct {
		Data []Category `json:"data"`
	}
	if err = c.get(ctx, "/api/v1/categories", nil, &out); err != nil {
		return nil, err
	}
	return out.Data, nil
}

// Health returns the service health report. A degraded service still
// yields a report, not an error.
func (c *Client) Health(ctx context.Context) (h Health, err error) {
	start := time.Now()
	defer func() { c.obs.observe("health", start, err) }()

	resp, err := c.do(ctx, "/health", nil)
	if err != nil {
		return Health{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusServiceUnavailable {
		return Health{}, c.apiError(resp)
	}
	if err = json.NewDecoder(resp.Body).Decode(&h); err != nil {
		return Health{}, fmt.Errorf("dalil: decode health: %w", err)
	}
	return h, nil
}

func (c *Client) get(ctx context.Context, path string, query url.Values, dest any) error {
	resp, err := c.do(ctx, path, query)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return c.apiError(resp)
	}
	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return fmt.Errorf("dalil: decode response: %w", err)
	}
	return nil
}

func (c *Client) do(ctx context.Context, path string, query url.Values) (*http.Response, error) {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("dalil: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("dalil: request failed: %w", err)
	}
	return resp, nil
}

func (c *Client) apiError(resp *http.Response) error {
	apiErr := &APIError{StatusCode: resp.StatusCode}

	var body struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err == nil {
		apiErr.Code = body.Code
		apiErr.Message = body.Message
	}
	return apiErr
}
