package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/truthguard/truthguard/internal/model"
)

// OllamaRewriter implements the Rewriter interface for local Ollama models
type OllamaRewriter struct {
	baseURL    string
	httpClient *http.Client
	cfg        model.LLMConfig
}

type ollamaRequest struct {
	Model   string        `json:"model"`
	Prompt  string        `json:"prompt"`
	Stream  bool          `json:"stream"`
	System  string        `json:"system,omitempty"`
	Options ollamaOptions `json:"options,omitempty"`
}

type ollamaOptions struct {
	Temperature float64 `json:"temperature,omitempty"`
	NumPredict  int     `json:"num_predict,omitempty"` // Max tokens
}

type ollamaResponse struct {
	Model    string `json:"model"`
	Response string `json:"response"`
	Done     bool   `json:"done"`
}

type ollamaError struct {
	Error string `json:"error"`
}

// NewOllamaRewriter creates a new Ollama rewriter
func NewOllamaRewriter(cfg model.LLMConfig) (*OllamaRewriter, error) {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = "http://localhost:11434"
	}

	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 60 * time.Second // Local models can be slow
	}

	return &OllamaRewriter{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		cfg:        cfg,
	}, nil
}

// Name returns the provider name
func (p *OllamaRewriter) Name() string {
	return "ollama"
}

// IsAvailable checks whether Ollama is running
func (p *OllamaRewriter) IsAvailable(ctx context.Context) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.baseURL+"/api/tags", nil)
	if err != nil {
		return false
	}
	resp, err := p.httpClient.Do(req)
	if err != nil {
		return false
	}
	defer func() { _ = resp.Body.Close() }()
	return resp.StatusCode == http.StatusOK
}

// Rewrite runs one non-streaming generation over the corrected draft
func (p *OllamaRewriter) Rewrite(ctx context.Context, req RewriteRequest) (string, error) {
	mdl := req.Model
	if mdl == "" {
		mdl = p.cfg.Model
	}
	if mdl == "" {
		return "", fmt.Errorf("ollama model is required")
	}

	maxTokens := req.MaxTokens
	if maxTokens == 0 {
		maxTokens = p.cfg.MaxTokens
	}

	body, err := json.Marshal(ollamaRequest{
		Model:  mdl,
		Prompt: BuildPrompt(req),
		Stream: false,
		System: systemPrompt,
		Options: ollamaOptions{
			Temperature: 0.3,
			NumPredict:  maxTokens,
		},
	})
	if err != nil {
		return "", fmt.Errorf("marshaling ollama request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/api/generate", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("creating ollama request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := p.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("ollama request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("reading ollama response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var apiErr ollamaError
		if json.Unmarshal(data, &apiErr) == nil && apiErr.Error != "" {
			return "", fmt.Errorf("ollama error: %s", apiErr.Error)
		}
		return "", fmt.Errorf("ollama returned status %d", resp.StatusCode)
	}

	var out ollamaResponse
	if err := json.Unmarshal(data, &out); err != nil {
		return "", fmt.Errorf("parsing ollama response: %w", err)
	}

	text := strings.TrimSpace(out.Response)
	if text == "" {
		return "", fmt.Errorf("empty rewrite from ollama")
	}
	return text, nil
}
