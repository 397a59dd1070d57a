package llm

import (
	"fmt"
	"os"
	"strings"
)

// CreateAdapter builds the adapter named by a provider:model string.
// Missing API keys fall back to the provider's usual environment variable.
func CreateAdapter(modelStr, apiKey, baseURL string) (LLMAdapter, error) {
	provider, model, ok := strings.Cut(modelStr, ":")
	if !ok {
		return nil, fmt.Errorf("invalid model format: %s (expected provider:model)", modelStr)
	}

	config := AdapterConfig{
		Model:   model,
		APIKey:  apiKey,
		BaseURL: baseURL,
		Timeout: DefaultTimeout,
	}

	switch provider {
	case "openai":
		config.APIKey = keyOrEnv(config.APIKey, "OPENAI_API_KEY")
		if config.APIKey == "" {
			return nil, fmt.Errorf("openai api key not provided (set OPENAI_API_KEY or run steward config set api_key)")
		}
		return NewOpenAIAdapter(config), nil

	case "claude":
		config.APIKey = keyOrEnv(config.APIKey, "ANTHROPIC_API_KEY")
		if config.APIKey == "" {
			return nil, fmt.Errorf("claude api key not provided (set ANTHROPIC_API_KEY or run steward config set api_key)")
		}
		return NewClaudeAdapter(config), nil

	case "ollama":
		return NewOllamaAdapter(config), nil

	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s (supported: openai, claude, ollama)", provider)
	}
}

func keyOrEnv(key, envVar string) string {
	if key != "" {
		return key
	}
	return os.Getenv(envVar)
}

// GetProviderFromModel extracts the provider from a model string
func GetProviderFromModel(modelStr string) string {
	if provider, _, ok := strings.Cut(modelStr, ":"); ok {
		return provider
	}
	return "unknown"
}

// GetModelFromModel extracts the model name from a model string
func GetModelFromModel(modelStr string) string {
	if _, model, ok := strings.Cut(modelStr, ":"); ok {
		return model
	}
	return modelStr
}
