package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
)

// jsonClient layers structured-output decoding over a raw text
// provider. Models often wrap JSON in markdown fences or prose, so the
// answer is trimmed to its outermost JSON value before decoding.
type jsonClient struct {
	provider TextGenerator
	name     string
}

// NewJSONClient wraps a raw provider into a Client with a structured
// call. name identifies the provider in errors.
func NewJSONClient(name string, provider TextGenerator) Client {
	return &jsonClient{provider: provider, name: name}
}

func (c *jsonClient) GenerateText(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	text, err := c.provider.GenerateText(ctx, systemPrompt, userPrompt)
	if err != nil {
		return "", &BackendError{Provider: c.name, Err: err}
	}
	return text, nil
}

func (c *jsonClient) GenerateJSON(ctx context.Context, systemPrompt, userPrompt string, out any) error {
	text, err := c.provider.GenerateText(ctx, systemPrompt, userPrompt)
	if err != nil {
		return &BackendError{Provider: c.name, Err: err}
	}

	payload := ExtractJSON(text)
	if payload == "" {
		return fmt.Errorf("%w: no JSON value in response", ErrMalformedOutput)
	}
	if err := json.Unmarshal([]byte(payload), out); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedOutput, err)
	}
	return nil
}

// ExtractJSON returns the outermost JSON object or array in text,
// stripping markdown code fences and surrounding prose. Returns ""
// when no JSON value is present.
func ExtractJSON(text string) string {
	text = strings.TrimSpace(text)

	// Strip ```json ... ``` fences
	if idx := strings.Index(text, "```"); idx >= 0 {
		rest := text[idx+3:]
		rest = strings.TrimPrefix(rest, "json")
		if end := strings.Index(rest, "```"); end >= 0 {
			text = strings.TrimSpace(rest[:end])
		}
	}

	start := strings.IndexAny(text, "{[")
	if start < 0 {
		return ""
	}

	open := text[start]
	closing := byte('}')
	if open == '[' {
		closing = ']'
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(text); i++ {
		ch := text[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case ch == '\\':
				escaped = true
			case ch == '"':
				inString = false
			}
			continue
		}
		switch ch {
		case '"':
			inString = true
		case open:
			depth++
		case closing:
			depth--
			if depth == 0 {
				return text[start : i+1]
			}
		}
	}
	return ""
}
