package ai

import (
	"fmt"

	"unihelper/pkg/gemini"
)

// Config holds AI provider configuration
type Config struct {
	Provider ProviderType // "gemini", "ollama" or "auto"

	// Gemini config
	GeminiAPIKey string

	// Ollama config
	OllamaBaseURL string // e.g. "http://localhost:11434"
	OllamaModel   string // e.g. "llama3", "mistral"
}

// NewClient creates a Client based on the config. The provider is
// selected once at startup; there is no per-call dispatch.
func NewClient(cfg Config) (Client, error) {
	switch cfg.Provider {
	case ProviderGemini:
		if cfg.GeminiAPIKey == "" {
			return nil, fmt.Errorf("GEMINI_API_KEY is required for Gemini provider")
		}
		return NewJSONClient("gemini", gemini.NewGeminiService(cfg.GeminiAPIKey)), nil

	case ProviderOllama:
		return NewJSONClient("ollama", NewOllamaService(cfg.OllamaBaseURL, cfg.OllamaModel)), nil

	case ProviderAuto, "":
		// Prefer Gemini when an API key is available, otherwise Ollama
		if cfg.GeminiAPIKey != "" {
			return NewJSONClient("gemini", gemini.NewGeminiService(cfg.GeminiAPIKey)), nil
		}
		return NewJSONClient("ollama", NewOllamaService(cfg.OllamaBaseURL, cfg.OllamaModel)), nil

	default:
		return nil, fmt.Errorf("unsupported AI provider: %s", cfg.Provider)
	}
}
