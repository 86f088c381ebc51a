package ai

import (
	"context"
	"fmt"

	"resty.dev/v3"
)

// OllamaService generates text using a local Ollama server.
type OllamaService struct {
	httpClient *resty.Client
	model      string
}

// NewOllamaService creates a new Ollama service
func NewOllamaService(baseURL, model string) *OllamaService {
	if baseURL == "" {
		baseURL = "http://localhost:11434"
	}
	if model == "" {
		model = "llama3"
	}

	client := resty.New()
	client.SetBaseURL(baseURL)
	client.SetHeader("Content-Type", "application/json")

	return &OllamaService{
		httpClient: client,
		model:      model,
	}
}

func (o *OllamaService) Close() error {
	return o.httpClient.Close()
}

type ollamaRequest struct {
	Model   string         `json:"model"`
	System  string         `json:"system,omitempty"`
	Prompt  string         `json:"prompt"`
	Stream  bool           `json:"stream"`
	Options map[string]any `json:"options,omitempty"`
}

type ollamaResponse struct {
	Response string `json:"response"`
	Done     bool   `json:"done"`
}

// GenerateText implements the TextGenerator interface
func (o *OllamaService) GenerateText(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	var result ollamaResponse
	resp, err := o.httpClient.R().
		SetContext(ctx).
		SetBody(ollamaRequest{
			Model:  o.model,
			System: systemPrompt,
			Prompt: userPrompt,
			Stream: false,
			Options: map[string]any{
				"temperature": 0.3,
			},
		}).
		SetResult(&result).
		Post("/api/generate")
	if err != nil {
		return "", fmt.Errorf("ollama request failed: %w", err)
	}
	if resp.IsError() {
		return "", fmt.Errorf("ollama API error (%d): %s", resp.StatusCode(), resp.String())
	}
	return result.Response, nil
}
