package listing

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/dalil-cloud/dalil/internal/domain"
	"github.com/dalil-cloud/dalil/internal/metrics"
)

const (
	defaultTimeout    = 30 * time.Second
	defaultMaxRetries = 3
	retryBaseDelay    = 500 * time.Millisecond
	retryMaxDelay     = 5 * time.Second
)

// Config holds the directory backend settings.
type Config struct {
	BaseURL           string
	APIKey            string
	Timeout           time.Duration
	MaxRetries        int
	RequestsPerSecond float64
	Burst             int
	Logger            *zap.Logger
}

// Client fetches business listings from the directory backend over HTTP.
// Requests pass through a token bucket limiter; transient failures (network
// errors, 5xx, 429) are retried with capped exponential backoff.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	limiter    *rate.Limiter
	maxRetries int
	logger     *zap.Logger
}

// NewClient creates a directory backend client.
func NewClient(cfg *Config) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	maxRetries := cfg.MaxRetries
	if maxRetries < 0 {
		maxRetries = defaultMaxRetries
	}

	var limiter *rate.Limiter
	if cfg.RequestsPerSecond > 0 {
		burst := cfg.Burst
		if burst <= 0 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), burst)
	}

	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    cfg.BaseURL,
		apiKey:     cfg.APIKey,
		limiter:    limiter,
		maxRetries: maxRetries,
		logger:     cfg.Logger,
	}
}

// Fetch implements search.ListingSource.
func (c *Client) Fetch(ctx context.Context, h domain.FetchHint) ([]domain.Business, error) {
	reqURL := c.baseURL + "/businesses?" + buildQuery(h).Encode()

	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			metrics.UpstreamRetriesTotal.Inc()
			if err := c.sleep(ctx, backoffDelay(attempt)); err != nil {
				return nil, err
			}
		}
		if c.limiter != nil {
			if err := c.limiter.Wait(ctx); err != nil {
				return nil, fmt.Errorf("rate limit wait: %w", err)
			}
		}

		records, retryable, err := c.doFetch(ctx, reqURL)
		if err == nil {
			return records, nil
		}
		lastErr = err
		if !retryable {
			return nil, err
		}
		c.logger.Warn("Backend fetch failed, retrying",
			zap.Int("attempt", attempt+1),
			zap.Error(err))
	}

	return nil, fmt.Errorf("fetch after %d retries: %w", c.maxRetries, lastErr)
}

// doFetch performs one request. The bool reports whether the failure is
// transient and worth retrying.
func (c *Client) doFetch(ctx context.Context, reqURL string) ([]domain.Business, bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, false, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	duration := time.Since(start)

	if err != nil {
		metrics.UpstreamRequestsTotal.WithLabelValues("error").Inc()
		return nil, true, fmt.Errorf("%w: %w", domain.ErrUpstreamUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		metrics.UpstreamRequestsTotal.WithLabelValues("error").Inc()
		return nil, true, fmt.Errorf("%w: read body: %w", domain.ErrUpstreamUnavailable, err)
	}

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		metrics.UpstreamRequestsTotal.WithLabelValues("rate_limited").Inc()
		return nil, true, fmt.Errorf("%w: backend answered 429", domain.ErrRateLimited)
	case resp.StatusCode >= 500:
		metrics.UpstreamRequestsTotal.WithLabelValues("error").Inc()
		return nil, true, domain.NewUpstreamStatus(resp.StatusCode)
	case resp.StatusCode != http.StatusOK:
		metrics.UpstreamRequestsTotal.WithLabelValues("error").Inc()
		return nil, false, domain.NewUpstreamStatus(resp.StatusCode)
	}

	records, err := decodeListings(body)
	if err != nil {
		metrics.UpstreamRequestsTotal.WithLabelValues("decode_error").Inc()
		return nil, false, err
	}

	metrics.UpstreamRequestsTotal.WithLabelValues("success").Inc()
	metrics.UpstreamRequestDuration.WithLabelValues("success").Observe(duration.Seconds())
	return records, false, nil
}

// HealthCheck verifies backend availability with a minimal listing request.
func (c *Client) HealthCheck(ctx context.Context) error {
	if _, err := c.Fetch(ctx, domain.FetchHint{PerPage: 1}); err != nil {
		return fmt.Errorf("probe listings: %w", err)
	}
	return nil
}

func (c *Client) sleep(ctx context.Context, d time.Duration) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(d):
		return nil
	}
}

func backoffDelay(attempt int) time.Duration {
	d := retryBaseDelay << (attempt - 1)
	if d > retryMaxDelay {
		return retryMaxDelay
	}
	return d
}

// buildQuery maps a fetch hint onto backend request parameters. Unconstrained
// dimensions are omitted entirely.
func buildQuery(h domain.FetchHint) url.Values {
	q := url.Values{}
	q.Set("page", "1")
	if h.PerPage > 0 {
		q.Set("per_page", strconv.Itoa(h.PerPage))
	}
	if h.Sort != "" {
		q.Set("sort", string(h.Sort))
	}

	sel := h.Selection
	if sel.HasCategory() {
		q.Set("category", sel.Category())
	}
	if sel.HasBusinessType() {
		q.Set("businessType", sel.BusinessType())
	}
	if sel.Query() != "" {
		q.Set("keyword", sel.Query())
	}
	if sel.Address() != "" {
		q.Set("address", sel.Address())
	}
	if sel.HasDistance() {
		q.Set("serviceDistance", strconv.Itoa(int(sel.MaxDistanceKM())))
	}
	if sel.VerifiedOnly() {
		q.Set("isApproved", "true")
	}
	if sel.OpenNowOnly() {
		q.Set("isOpenNow", "true")
	}
	if h.AIText != "" {
		q.Set("ai", h.AIText)
	}
	return q
}
