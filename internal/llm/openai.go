package llm

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"

	"github.com/truthguard/truthguard/internal/model"
)

// OpenAIRewriter implements the Rewriter interface for OpenAI models
type OpenAIRewriter struct {
	client *openai.Client
	cfg    model.LLMConfig
}

// NewOpenAIRewriter creates a new OpenAI rewriter
func NewOpenAIRewriter(cfg model.LLMConfig) (*OpenAIRewriter, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("OpenAI API key is required")
	}

	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = cfg.BaseURL
	}

	return &OpenAIRewriter{
		client: openai.NewClientWithConfig(clientConfig),
		cfg:    cfg,
	}, nil
}

// Name returns the provider name
func (p *OpenAIRewriter) Name() string {
	return "openai"
}

// IsAvailable checks if the provider is properly configured
func (p *OpenAIRewriter) IsAvailable(ctx context.Context) bool {
	_, err := p.client.ListModels(ctx)
	return err == nil
}

// Rewrite runs one chat completion over the corrected draft
func (p *OpenAIRewriter) Rewrite(ctx context.Context, req RewriteRequest) (string, error) {
	mdl := req.Model
	if mdl == "" {
		mdl = p.cfg.Model
	}
	if mdl == "" {
		mdl = openai.GPT4oMini
	}

	maxTokens := req.MaxTokens
	if maxTokens == 0 {
		maxTokens = p.cfg.MaxTokens
	}
	if maxTokens == 0 {
		maxTokens = 500
	}

	timeout := p.cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	resp, err := p.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: mdl,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: BuildPrompt(req)},
		},
		MaxTokens:   maxTokens,
		Temperature: 0.3, // Low temperature keeps the edit close to the draft
	})
	if err != nil {
		return "", fmt.Errorf("OpenAI API error: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no response from OpenAI")
	}

	out := strings.TrimSpace(resp.Choices[0].Message.Content)
	if out == "" {
		return "", fmt.Errorf("empty rewrite from OpenAI")
	}
	return out, nil
}
