package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
)

const defaultOpenAIBaseURL = "https://api.openai.com/v1"

type OpenAIClient struct {
	transport   *transport
	endpoint    string
	apiKey      string
	model       string
	maxTokens   int
	temperature float64
}

type openAIMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type openAIChatRequest struct {
	Model       string          `json:"model"`
	Messages    []openAIMessage `json:"messages"`
	MaxTokens   int             `json:"max_tokens"`
	Temperature float64         `json:"temperature"`
}

type openAIChatResponse struct {
	Choices []struct {
		Message openAIMessage `json:"message"`
	} `json:"choices"`
}

func NewOpenAIClient(cfg Config) (*OpenAIClient, error) {
	cfg = cfg.normalize()
	base := cfg.BaseURL
	if strings.TrimSpace(base) == "" {
		base = defaultOpenAIBaseURL
	}
	baseURL, err := validateHTTPBaseURL(base)
	if err != nil {
		return nil, crerr.Wrap(err, "invalid OPENAI_BASE_URL")
	}

	return &OpenAIClient{
		transport:   newTransport(string(ProviderOpenAI), cfg),
		endpoint:    baseURL + "/chat/completions",
		apiKey:      strings.TrimSpace(cfg.APIKey),
		model:       cfg.Model,
		maxTokens:   cfg.MaxTokens,
		temperature: cfg.Temperature,
	}, nil
}

func (c *OpenAIClient) Complete(ctx context.Context, system, prompt string) (string, error) {
	body, err := sonic.Marshal(openAIChatRequest{
		Model: c.model,
		Messages: []openAIMessage{
			{Role: "system", Content: system},
			{Role: "user", Content: prompt},
		},
		MaxTokens:   c.maxTokens,
		Temperature: c.temperature,
	})
	if err != nil {
		return "", crerr.Wrap(err, "marshal openai request")
	}

	raw, err := c.transport.postJSON(ctx, c.endpoint, map[string]string{
		"Authorization": "Bearer " + c.apiKey,
	}, body)
	if err != nil {
		return "", err
	}

	var resp openAIChatResponse
	if err := sonic.Unmarshal(raw, &resp); err != nil {
		return "", fmt.Errorf("decode openai response: %w", err)
	}
	if len(resp.Choices) == 0 || strings.TrimSpace(resp.Choices[0].Message.Content) == "" {
		return "", crerr.New("openai response has no content")
	}
	return resp.Choices[0].Message.Content, nil
}
