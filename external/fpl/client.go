package fpl

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/riskibarqy/fpl-team-builder/internal/platform/cache"
	"github.com/riskibarqy/fpl-team-builder/internal/platform/logging"
	"github.com/riskibarqy/fpl-team-builder/internal/platform/resilience"
	"github.com/riskibarqy/fpl-team-builder/internal/usecase"
	"golang.org/x/time/rate"
)

const (
	defaultBaseURL   = "https://fantasy.premierleague.com/api"
	defaultCacheTTL  = 5 * time.Minute
	defaultTimeout   = 15 * time.Second
	maxResponseBytes = 16 << 20
	userAgent        = "fpl-team-builder/1.0"
)

var errFPLTransient = crerr.Wrap(resilience.ErrRetryable, "fpl transient failure")

type ClientConfig struct {
	HTTPClient     *http.Client
	BaseURL        string
	Timeout        time.Duration
	MaxRetries     int
	RetryBaseDelay time.Duration
	CacheTTL       time.Duration
	// StaleTTL keeps answering from an expired payload for this long while the
	// upstream is failing. Zero disables the fallback.
	StaleTTL       time.Duration
	RateLimitRPS   float64
	Logger         *logging.Logger
	CircuitBreaker resilience.CircuitBreakerConfig
}

// Client reads the public Fantasy Premier League API. Responses are cached per
// path for CacheTTL and concurrent fetches of the same path share one request.
type Client struct {
	httpClient     *http.Client
	baseURL        string
	retry          resilience.RetryConfig
	logger         *logging.Logger
	breaker        *resilience.CircuitBreaker
	circuitEnabled bool
	limiter        *rate.Limiter
	responses      *cache.Store[[]byte]
}

func NewClient(cfg ClientConfig) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: timeout}
	}

	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	ttl := cfg.CacheTTL
	if ttl <= 0 {
		ttl = defaultCacheTTL
	}

	var limiter *rate.Limiter
	if cfg.RateLimitRPS > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.RateLimitRPS), 1)
	}

	breakerCfg := resilience.NormalizeCircuitBreakerConfig(cfg.CircuitBreaker)
	breaker := resilience.NewCircuitBreaker(breakerCfg)
	breaker.OnTransition(func(from, to resilience.CircuitState) {
		logger.Warn("fpl circuit breaker state changed", "from", string(from), "to", string(to))
	})

	return &Client{
		httpClient:     httpClient,
		baseURL:        baseURL,
		retry:          retryConfig(cfg),
		logger:         logger,
		breaker:        breaker,
		circuitEnabled: breakerCfg.Enabled,
		limiter:        limiter,
		responses:      newResponseStore(ttl, cfg.StaleTTL, logger),
	}
}

func newResponseStore(ttl, stale time.Duration, logger *logging.Logger) *cache.Store[[]byte] {
	if stale <= 0 {
		return cache.NewStore[[]byte](ttl)
	}
	return cache.NewStore[[]byte](ttl, cache.WithStaleOnError(stale, func(path string, age time.Duration, err error) {
		logger.Warn("fpl serving stale payload", "path", path, "age", age.Round(time.Second).String(), "error", err)
	}))
}

// Invalidate forces the next read of path (every path when empty) to go
// upstream. The old payload stays available as a stale fallback.
func (c *Client) Invalidate(ctx context.Context, path string) {
	if path == "" {
		path = "/"
	}
	c.responses.Expire(ctx, path)
}

func (c *Client) doJSON(ctx context.Context, path string, target any) error {
	raw, err := c.responses.GetOrLoad(ctx, path, func(ctx context.Context) ([]byte, error) {
		return c.fetch(ctx, path)
	})
	if err != nil {
		return err
	}

	if err := sonic.Unmarshal(raw, target); err != nil {
		return fmt.Errorf("decode fpl payload path=%s: %w", path, err)
	}
	return nil
}

func (c *Client) fetch(ctx context.Context, path string) ([]byte, error) {
	if c.circuitEnabled {
		if err := c.breaker.Allow(); err != nil {
			c.logger.WarnContext(ctx, "fpl circuit breaker rejected request", "path", path, "state", string(c.breaker.State()))
			return nil, fmt.Errorf("%w: fantasy premier league api is temporarily unavailable", usecase.ErrDependencyUnavailable)
		}
	}

	var raw []byte
	err := resilience.Retry(ctx, c.retry, func(ctx context.Context, attempt int) error {
		body, reqErr := c.executeRequest(ctx, path)
		if reqErr != nil {
			if crerr.Is(reqErr, errFPLTransient) {
				c.logger.DebugContext(ctx, "fpl request attempt failed", "path", path, "attempt", attempt, "error", reqErr)
			}
			return reqErr
		}
		raw = body
		return nil
	})

	if c.circuitEnabled {
		if err != nil && crerr.Is(err, errFPLTransient) {
			c.breaker.RecordFailure()
		} else {
			c.breaker.RecordSuccess()
		}
	}
	if err != nil {
		c.logger.WarnContext(ctx, "fpl request failed", "path", path, "error", err)
		return nil, err
	}
	return raw, nil
}

func (c *Client) executeRequest(ctx context.Context, path string) ([]byte, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("wait for rate limiter: %w", err)
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("%w: send request: %v", errFPLTransient, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: read response body: %v", errFPLTransient, err)
	}

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return raw, nil
	case isRetryableStatus(resp.StatusCode):
		return nil, fmt.Errorf("%w: status=%d body=%s", errFPLTransient, resp.StatusCode, abbreviateBody(raw))
	default:
		return nil, fmt.Errorf("fpl status=%d body=%s", resp.StatusCode, abbreviateBody(raw))
	}
}

func retryConfig(cfg ClientConfig) resilience.RetryConfig {
	base := cfg.RetryBaseDelay
	if base <= 0 {
		base = resilience.DefaultRetryConfig().BaseDelay
	}
	return resilience.NormalizeRetryConfig(resilience.RetryConfig{
		MaxRetries: max(cfg.MaxRetries, 0),
		BaseDelay:  base,
		MaxDelay:   10 * base,
	})
}

func isRetryableStatus(code int) bool {
	return code == http.StatusTooManyRequests || code >= http.StatusInternalServerError
}

func abbreviateBody(raw []byte) string {
	const limit = 256
	body := strings.TrimSpace(string(raw))
	if len(body) > limit {
		return body[:limit] + "..."
	}
	return body
}
