package research

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/sashabaranov/go-openai"

	"github.com/atomustam/prospector/internal/model"
)

// OpenAIProvider implements Provider using OpenAI's Chat Completions API.
type OpenAIProvider struct {
	client *openai.Client
	cfg    model.ResearchConfig
}

// NewOpenAIProvider creates an OpenAI research provider.
func NewOpenAIProvider(cfg model.ResearchConfig) (*OpenAIProvider, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("OpenAI API key is required")
	}

	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = cfg.BaseURL
	}

	return &OpenAIProvider{
		client: openai.NewClientWithConfig(clientConfig),
		cfg:    cfg,
	}, nil
}

// Name returns the provider name.
func (p *OpenAIProvider) Name() string {
	return "openai"
}

// IsAvailable checks that the API key works with a lightweight call.
func (p *OpenAIProvider) IsAvailable(ctx context.Context) bool {
	if _, err := p.client.ListModels(ctx); err != nil {
		log.Warn().Err(err).Msg("openai availability check failed")
		return false
	}
	return true
}

// Research generates a company research summary.
func (p *OpenAIProvider) Research(ctx context.Context, req Request) (*Summary, error) {
	if strings.TrimSpace(req.Company) == "" {
		return nil, fmt.Errorf("company name is required")
	}

	chatModel := req.Model
	if chatModel == "" {
		chatModel = p.cfg.Model
	}
	if chatModel == "" {
		chatModel = openai.GPT4oMini
	}

	maxTokens := req.MaxTokens
	if maxTokens == 0 {
		maxTokens = p.cfg.MaxTokens
	}
	if maxTokens == 0 {
		maxTokens = 1000
	}

	timeout := p.cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	resp, err := p.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: chatModel,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: "You are a diligent B2B research analyst. You report only verifiable facts and never speculate.",
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: BuildPrompt(req),
			},
		},
		MaxTokens:   maxTokens,
		Temperature: 0.2,
	})
	if err != nil {
		return nil, fmt.Errorf("OpenAI API error: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("no response from OpenAI")
	}

	return &Summary{
		Text:       strings.TrimSpace(resp.Choices[0].Message.Content),
		Model:      chatModel,
		TokensUsed: resp.Usage.TotalTokens,
	}, nil
}
