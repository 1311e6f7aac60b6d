package validate

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"

	"github.com/lgmartins/triagem/internal/model"
	"github.com/lgmartins/triagem/internal/util"
)

// OpenAIProvider implements Provider over OpenAI-compatible chat endpoints
type OpenAIProvider struct {
	client *openai.Client
	cfg    model.ValidatorConfig
}

// NewOpenAIProvider creates an OpenAI-backed validator
func NewOpenAIProvider(cfg model.ValidatorConfig) (*OpenAIProvider, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("validator API key is required")
	}

	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = cfg.BaseURL
	}
	if cfg.HTTPProxy != "" || cfg.HTTPSProxy != "" {
		clientConfig.HTTPClient = &http.Client{
			Transport: &http.Transport{
				Proxy: util.NewProxyFunc(cfg.HTTPProxy, cfg.HTTPSProxy, ""),
			},
		}
	}

	return &OpenAIProvider{
		client: openai.NewClientWithConfig(clientConfig),
		cfg:    cfg,
	}, nil
}

// Name returns the provider name
func (p *OpenAIProvider) Name() string {
	return "openai"
}

// IsAvailable checks if the provider is configured and reachable
func (p *OpenAIProvider) IsAvailable(ctx context.Context) bool {
	_, err := p.client.ListModels(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "validator availability check failed: %v\n", err)
		return false
	}
	return true
}

// Review submits the Stage-A output for semantic review. A response that is
// not valid JSON or fails schema validation is an error; the caller treats
// any error here as "skip merge, keep Stage A".
func (p *OpenAIProvider) Review(ctx context.Context, req ReviewRequest) (*ReviewResponse, error) {
	timeout := p.cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	chatModel := p.cfg.Model
	if chatModel == "" {
		chatModel = openai.GPT4oMini
	}
	maxTokens := p.cfg.MaxTokens
	if maxTokens == 0 {
		maxTokens = 2048
	}

	chatReq := openai.ChatCompletionRequest{
		Model: chatModel,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: "Você valida extrações de subsídios de ofícios judiciais e responde somente com JSON.",
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: BuildPrompt(req),
			},
		},
		MaxTokens:   maxTokens,
		Temperature: 0.1, // focused, deterministic-ish verdicts
	}

	resp, err := p.client.CreateChatCompletion(ctx, chatReq)
	if err != nil {
		return nil, fmt.Errorf("validator API error: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("validator returned no choices")
	}

	payload := stripCodeFences(resp.Choices[0].Message.Content)

	var review ReviewResponse
	if err := json.Unmarshal([]byte(payload), &review); err != nil {
		return nil, fmt.Errorf("validator returned invalid JSON: %w", err)
	}
	if err := ValidateResponse(&review, req); err != nil {
		return nil, fmt.Errorf("validator response failed schema validation: %w", err)
	}
	return &review, nil
}

// stripCodeFences removes a ```json ... ``` wrapper if the model added one
func stripCodeFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	if i := strings.LastIndex(s, "```"); i >= 0 {
		s = s[:i]
	}
	return strings.TrimSpace(s)
}
