package factory

import (
	"ai-filesearch-be/pkg/llm"
	"ai-filesearch-be/pkg/llm/ollama"
	"ai-filesearch-be/pkg/llm/openrouter"
	"fmt"
)

// Config carries everything the factory needs to pick and build a provider.
type Config struct {
	Provider         string // "ollama", "openrouter", or "auto"
	ModelName        string
	OllamaBaseURL    string
	OpenRouterURL    string
	OpenRouterAPIKey string
}

// ResolveProvider reports which provider NewLLMProvider would build for
// this config, with "auto" resolved.
func ResolveProvider(cfg Config) string {
	if cfg.Provider == "" || cfg.Provider == "auto" {
		if cfg.OpenRouterAPIKey != "" {
			return "openrouter"
		}
		return "ollama"
	}
	return cfg.Provider
}

// NewLLMProvider builds the configured provider. With "auto" it prefers
// OpenRouter when an API key is present and falls back to local Ollama.
func NewLLMProvider(cfg Config) (llm.LLMProvider, error) {
	providerType := ResolveProvider(cfg)

	switch providerType {
	case "ollama":
		baseURL := cfg.OllamaBaseURL
		if baseURL == "" {
			baseURL = "http://localhost:11434" // Default
		}
		return ollama.NewOllamaProvider(baseURL, cfg.ModelName), nil
	case "openrouter":
		if cfg.OpenRouterAPIKey == "" {
			return nil, fmt.Errorf("openrouter provider requires an API key")
		}
		return openrouter.NewOpenRouterProvider(cfg.OpenRouterURL, cfg.OpenRouterAPIKey, cfg.ModelName)
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", providerType)
	}
}
