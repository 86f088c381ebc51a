// Package gemini talks to the Google Generative Language API.
package gemini

import (
	"context"
	"fmt"

	"resty.dev/v3"
)

const defaultModel = "gemini-2.5-flash"

type GeminiService struct {
	httpClient *resty.Client
	model      string
}

func NewGeminiService(apiKey string) *GeminiService {
	client := resty.New()
	client.SetBaseURL("https://generativelanguage.googleapis.com/v1beta")
	client.SetHeader("Content-Type", "application/json")
	client.SetQueryParam("key", apiKey)

	return &GeminiService{
		httpClient: client,
		model:      defaultModel,
	}
}

func (g *GeminiService) Close() error {
	return g.httpClient.Close()
}

type generateRequest struct {
	SystemInstruction *content  `json:"systemInstruction,omitempty"`
	Contents          []content `json:"contents"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generateResponse struct {
	Candidates []struct {
		Content content `json:"content"`
	} `json:"candidates"`
}

// GenerateText sends one prompt to Gemini and returns the first
// candidate's text.
func (g *GeminiService) GenerateText(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	req := generateRequest{
		Contents: []content{{Parts: []part{{Text: userPrompt}}}},
	}
	if systemPrompt != "" {
		req.SystemInstruction = &content{Parts: []part{{Text: systemPrompt}}}
	}

	var result generateResponse
	resp, err := g.httpClient.R().
		SetContext(ctx).
		SetBody(req).
		SetResult(&result).
		Post("/models/" + g.model + ":generateContent")
	if err != nil {
		return "", fmt.Errorf("gemini request failed: %w", err)
	}
	if resp.IsError() {
		return "", fmt.Errorf("gemini API error (%d): %s", resp.StatusCode(), resp.String())
	}

	if len(result.Candidates) == 0 || len(result.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("no text returned")
	}
	return result.Candidates[0].Content.Parts[0].Text, nil
}
