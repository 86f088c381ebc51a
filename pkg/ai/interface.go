package ai

import "context"

// TextGenerator is the raw capability an AI provider implements.
// Implement this to add new providers (Gemini, Ollama, OpenAI, ...).
type TextGenerator interface {
	GenerateText(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

// Client is the capability set the processing pipeline consumes. The
// structured call expects the model to answer with a single JSON value
// that decodes into out.
type Client interface {
	TextGenerator
	GenerateJSON(ctx context.Context, systemPrompt, userPrompt string, out any) error
}

// ProviderType represents the AI provider type
type ProviderType string

const (
	ProviderGemini ProviderType = "gemini"
	ProviderOllama ProviderType = "ollama"
	ProviderAuto   ProviderType = "auto"
)
