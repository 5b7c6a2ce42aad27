package llm

import (
	"fmt"
	"strings"
	"time"

	"github.com/riskibarqy/fpl-team-builder/internal/domain/player"
	"github.com/riskibarqy/fpl-team-builder/internal/platform/logging"
	"github.com/riskibarqy/fpl-team-builder/internal/platform/resilience"
)

type Provider string

const (
	ProviderOpenAI    Provider = "openai"
	ProviderAnthropic Provider = "anthropic"
)

const (
	defaultOpenAIModel    = "gpt-4"
	defaultAnthropicModel = "claude-3-sonnet-20240229"
	defaultMaxTokens      = 2000
	defaultTemperature    = 0.7
	defaultTimeout        = 60 * time.Second
)

func ParseProvider(v string) (Provider, error) {
	switch p := Provider(strings.ToLower(strings.TrimSpace(v))); p {
	case "":
		return ProviderOpenAI, nil
	case ProviderOpenAI, ProviderAnthropic:
		return p, nil
	default:
		return "", fmt.Errorf("unknown llm provider: %q", v)
	}
}

type Config struct {
	Provider       Provider
	Model          string
	APIKey         string
	BaseURL        string
	MaxTokens      int
	Temperature    float64
	Timeout        time.Duration
	MaxRetries     int
	RetryBaseDelay time.Duration
	CircuitBreaker resilience.CircuitBreakerConfig
	Logger         *logging.Logger
}

func (c Config) normalize() Config {
	if c.Provider == "" {
		c.Provider = ProviderOpenAI
	}
	if strings.TrimSpace(c.Model) == "" {
		c.Model = defaultOpenAIModel
		if c.Provider == ProviderAnthropic {
			c.Model = defaultAnthropicModel
		}
	}
	if c.MaxTokens <= 0 {
		c.MaxTokens = defaultMaxTokens
	}
	if c.Temperature < 0 {
		c.Temperature = defaultTemperature
	}
	if c.Timeout <= 0 {
		c.Timeout = defaultTimeout
	}
	if c.MaxRetries < 0 {
		c.MaxRetries = 0
	}
	if c.Logger == nil {
		c.Logger = logging.Default()
	}
	return c
}

// NewGenerator builds the provider client named by cfg and wraps it in an
// Advisor that resolves suggested player ids against players.
func NewGenerator(cfg Config, players player.Source) (*Advisor, error) {
	cfg = cfg.normalize()
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, fmt.Errorf("llm provider %s requires an api key", cfg.Provider)
	}

	var c completer
	switch cfg.Provider {
	case ProviderOpenAI:
		client, err := NewOpenAIClient(cfg)
		if err != nil {
			return nil, err
		}
		c = client
	case ProviderAnthropic:
		client, err := NewAnthropicClient(cfg)
		if err != nil {
			return nil, err
		}
		c = client
	default:
		return nil, fmt.Errorf("unknown llm provider: %q", cfg.Provider)
	}

	return NewAdvisor(c, players, cfg.Logger), nil
}
