package llm

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	crerr "github.com/cockroachdb/errors"
	"github.com/riskibarqy/fpl-team-builder/internal/platform/logging"
	"github.com/riskibarqy/fpl-team-builder/internal/platform/resilience"
	"github.com/riskibarqy/fpl-team-builder/internal/usecase"
	"github.com/valyala/fasthttp"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

var errLLMTransient = crerr.Wrap(resilience.ErrRetryable, "llm transient failure")

// completer sends one system+user exchange and returns the model's text.
type completer interface {
	Complete(ctx context.Context, system, prompt string) (string, error)
}

type transport struct {
	name           string
	client         *fasthttp.Client
	timeout        time.Duration
	retry          resilience.RetryConfig
	logger         *logging.Logger
	breaker        *resilience.CircuitBreaker
	circuitEnabled bool
}

func newTransport(name string, cfg Config) *transport {
	breakerCfg := resilience.NormalizeCircuitBreakerConfig(cfg.CircuitBreaker)
	breaker := resilience.NewCircuitBreaker(breakerCfg)
	logger := cfg.Logger.Named("llm." + name)
	breaker.OnTransition(func(from, to resilience.CircuitState) {
		logger.Warn("llm circuit breaker state changed", "provider", name, "from", string(from), "to", string(to))
	})

	base := cfg.RetryBaseDelay
	if base <= 0 {
		base = resilience.DefaultRetryConfig().BaseDelay
	}

	return &transport{
		name: name,
		client: &fasthttp.Client{
			Name:                "fpl-team-builder",
			ReadTimeout:         cfg.Timeout,
			WriteTimeout:        cfg.Timeout,
			MaxIdleConnDuration: 90 * time.Second,
		},
		timeout: cfg.Timeout,
		retry: resilience.NormalizeRetryConfig(resilience.RetryConfig{
			MaxRetries: cfg.MaxRetries,
			BaseDelay:  base,
			MaxDelay:   10 * base,
		}),
		logger:         logger,
		breaker:        breaker,
		circuitEnabled: breakerCfg.Enabled,
	}
}

func (t *transport) postJSON(ctx context.Context, endpoint string, headers map[string]string, body []byte) ([]byte, error) {
	if t.circuitEnabled {
		if err := t.breaker.Allow(); err != nil {
			t.logger.WarnContext(ctx, "llm circuit breaker rejected request", "provider", t.name, "state", string(t.breaker.State()))
			return nil, fmt.Errorf("%w: %s is temporarily unavailable", usecase.ErrDependencyUnavailable, t.name)
		}
	}

	span := trace.SpanFromContext(ctx)
	if span.IsRecording() {
		span.SetAttributes(
			attribute.String("llm.provider", t.name),
			attribute.String("llm.endpoint", endpoint),
			attribute.Int("llm.request_bytes", len(body)),
		)
	}

	var raw []byte
	err := resilience.Retry(ctx, t.retry, func(ctx context.Context, attempt int) error {
		out, callErr := t.do(ctx, endpoint, headers, body)
		if callErr != nil {
			t.logger.DebugContext(ctx, "llm request attempt failed", "provider", t.name, "attempt", attempt, "error", callErr)
			return callErr
		}
		raw = out
		return nil
	})
	t.recordCircuitResult(err)
	if err != nil {
		t.logger.WarnContext(ctx, "llm request failed", "provider", t.name, "endpoint", endpoint, "error", err)
		return nil, err
	}
	return raw, nil
}

func (t *transport) do(ctx context.Context, endpoint string, headers map[string]string, body []byte) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	timeout := t.timeout
	if deadline, ok := ctx.Deadline(); ok {
		if remaining := time.Until(deadline); remaining < timeout {
			timeout = remaining
		}
	}

	req := fasthttp.AcquireRequest()
	defer fasthttp.ReleaseRequest(req)
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(endpoint)
	req.Header.SetMethod(fasthttp.MethodPost)
	req.Header.SetContentType("application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	req.SetBody(body)

	if err := t.client.DoTimeout(req, resp, timeout); err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("%w: %s request: %v", errLLMTransient, t.name, err)
	}

	status := resp.StatusCode()
	payload := append([]byte(nil), resp.Body()...)
	switch {
	case status >= 200 && status < 300:
		return payload, nil
	case isRetryableStatus(status):
		return nil, fmt.Errorf("%w: %s status=%d body=%s", errLLMTransient, t.name, status, truncateForLog(string(payload), 512))
	default:
		return nil, fmt.Errorf("%s status=%d body=%s", t.name, status, truncateForLog(string(payload), 512))
	}
}

func (t *transport) recordCircuitResult(err error) {
	if !t.circuitEnabled {
		return
	}
	if err != nil && crerr.Is(err, errLLMTransient) {
		t.breaker.RecordFailure()
		return
	}
	t.breaker.RecordSuccess()
}

func isRetryableStatus(code int) bool {
	return code == fasthttp.StatusRequestTimeout ||
		code == fasthttp.StatusTooManyRequests ||
		code >= fasthttp.StatusInternalServerError
}

func validateHTTPBaseURL(raw string) (string, error) {
	candidate := strings.TrimSpace(raw)
	if candidate == "" {
		return "", crerr.New("value is empty")
	}

	parsed, err := url.Parse(candidate)
	if err != nil {
		return "", crerr.Wrapf(err, "parse %q", candidate)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return "", crerr.Newf("%q uses unsupported scheme=%q; expected http or https", candidate, parsed.Scheme)
	}
	if strings.TrimSpace(parsed.Host) == "" {
		return "", crerr.Newf("%q has empty host", candidate)
	}
	return strings.TrimRight(candidate, "/"), nil
}

func truncateForLog(value string, max int) string {
	value = strings.TrimSpace(value)
	if max <= 0 || len(value) <= max {
		return value
	}
	return value[:max] + "...(truncated)"
}
