package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
)

const (
	defaultAnthropicBaseURL = "https://api.anthropic.com/v1"
	anthropicVersion        = "2023-06-01"
)

type AnthropicClient struct {
	transport   *transport
	endpoint    string
	apiKey      string
	model       string
	maxTokens   int
	temperature float64
}

type anthropicMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type anthropicRequest struct {
	Model       string             `json:"model"`
	System      string             `json:"system,omitempty"`
	Messages    []anthropicMessage `json:"messages"`
	MaxTokens   int                `json:"max_tokens"`
	Temperature float64            `json:"temperature"`
}

type anthropicResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
}

func NewAnthropicClient(cfg Config) (*AnthropicClient, error) {
	cfg.Provider = ProviderAnthropic
	cfg = cfg.normalize()
	base := cfg.BaseURL
	if strings.TrimSpace(base) == "" {
		base = defaultAnthropicBaseURL
	}
	baseURL, err := validateHTTPBaseURL(base)
	if err != nil {
		return nil, crerr.Wrap(err, "invalid ANTHROPIC_BASE_URL")
	}

	return &AnthropicClient{
		transport:   newTransport(string(ProviderAnthropic), cfg),
		endpoint:    baseURL + "/messages",
		apiKey:      strings.TrimSpace(cfg.APIKey),
		model:       cfg.Model,
		maxTokens:   cfg.MaxTokens,
		temperature: cfg.Temperature,
	}, nil
}

func (c *AnthropicClient) Complete(ctx context.Context, system, prompt string) (string, error) {
	body, err := sonic.Marshal(anthropicRequest{
		Model:       c.model,
		System:      system,
		Messages:    []anthropicMessage{{Role: "user", Content: prompt}},
		MaxTokens:   c.maxTokens,
		Temperature: c.temperature,
	})
	if err != nil {
		return "", crerr.Wrap(err, "marshal anthropic request")
	}

	raw, err := c.transport.postJSON(ctx, c.endpoint, map[string]string{
		"x-api-key":         c.apiKey,
		"anthropic-version": anthropicVersion,
	}, body)
	if err != nil {
		return "", err
	}

	var resp anthropicResponse
	if err := sonic.Unmarshal(raw, &resp); err != nil {
		return "", fmt.Errorf("decode anthropic response: %w", err)
	}

	var text strings.Builder
	for _, block := range resp.Content {
		if block.Type == "text" {
			text.WriteString(block.Text)
		}
	}
	if strings.TrimSpace(text.String()) == "" {
		return "", crerr.New("anthropic response has no text content")
	}
	return text.String(), nil
}
