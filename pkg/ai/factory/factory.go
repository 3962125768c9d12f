package factory

import (
	"ai-studyflow-be/pkg/ai"
	"ai-studyflow-be/pkg/ai/gemini"
	"ai-studyflow-be/pkg/ai/ollama"
	"fmt"
)

// NewLLMProvider builds the configured LLM backend. An empty API key for
// key-based providers yields the unavailable stub instead of an error, so
// the rest of the platform keeps working with AI features degraded.
func NewLLMProvider(providerType, modelName, baseURL, apiKey string) (ai.LLMProvider, error) {
	switch providerType {
	case "ollama":
		if baseURL == "" {
			baseURL = "http://localhost:11434" // Default
		}
		return ollama.NewOllamaProvider(baseURL, modelName), nil
	case "gemini":
		if apiKey == "" {
			return ai.NewUnavailableProvider(), nil
		}
		return gemini.NewGeminiProvider(apiKey, modelName), nil
	case "", "none":
		return ai.NewUnavailableProvider(), nil
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", providerType)
	}
}
