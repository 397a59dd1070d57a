package llm

import (
	"strings"
	"testing"
)

func TestCreateAdapterOpenAI(t *testing.T) {
	adapter, err := CreateAdapter("openai:gpt-4o", "test-key", "")
	if err != nil {
		t.Fatalf("Failed to create OpenAI adapter: %v", err)
	}

	if _, ok := adapter.(*OpenAIAdapter); !ok {
		t.Errorf("Expected *OpenAIAdapter, got %T", adapter)
	}
	if adapter.GetModelName() != "gpt-4o" {
		t.Errorf("Expected model name 'gpt-4o', got '%s'", adapter.GetModelName())
	}
	if !adapter.IsAvailable() {
		t.Errorf("Expected adapter with key and model to be available")
	}
}

func TestCreateAdapterOpenAIMissingKey(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")

	_, err := CreateAdapter("openai:gpt-4o", "", "")
	if err == nil {
		t.Fatalf("Expected error for missing API key, got none")
	}
	if !strings.Contains(err.Error(), "OPENAI_API_KEY") {
		t.Errorf("Expected error to mention OPENAI_API_KEY, got: %v", err)
	}
}

func TestCreateAdapterOpenAIKeyFromEnv(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "env-key")

	adapter, err := CreateAdapter("openai:gpt-4o", "", "")
	if err != nil {
		t.Fatalf("Expected env key to satisfy the adapter, got: %v", err)
	}
	if !adapter.IsAvailable() {
		t.Errorf("Expected adapter to be available with env key")
	}
}

func TestCreateAdapterClaude(t *testing.T) {
	adapter, err := CreateAdapter("claude:claude-3-5-haiku-latest", "test-key", "")
	if err != nil {
		t.Fatalf("Failed to create Claude adapter: %v", err)
	}

	if _, ok := adapter.(*ClaudeAdapter); !ok {
		t.Errorf("Expected *ClaudeAdapter, got %T", adapter)
	}

	t.Setenv("ANTHROPIC_API_KEY", "")
	if _, err := CreateAdapter("claude:claude-3-5-haiku-latest", "", ""); err == nil {
		t.Errorf("Expected error for missing Claude API key, got none")
	}
}

func TestCreateAdapterOllama(t *testing.T) {
	adapter, err := CreateAdapter("ollama:llama3.2", "", "")
	if err != nil {
		t.Fatalf("Failed to create Ollama adapter: %v", err)
	}

	if _, ok := adapter.(*OllamaAdapter); !ok {
		t.Errorf("Expected *OllamaAdapter, got %T", adapter)
	}
	if adapter.GetModelName() != "llama3.2" {
		t.Errorf("Expected model name 'llama3.2', got '%s'", adapter.GetModelName())
	}
}

func TestCreateAdapterUnknownProvider(t *testing.T) {
	_, err := CreateAdapter("mystery:model", "", "")
	if err == nil {
		t.Fatalf("Expected error for unknown provider, got none")
	}
	if !strings.Contains(err.Error(), "mystery") {
		t.Errorf("Expected error to name the provider, got: %v", err)
	}
}

func TestCreateAdapterBadFormat(t *testing.T) {
	_, err := CreateAdapter("gpt-4o", "key", "")
	if err == nil {
		t.Fatalf("Expected error for model string without provider, got none")
	}
	if !strings.Contains(err.Error(), "provider:model") {
		t.Errorf("Expected error to describe the expected format, got: %v", err)
	}
}

func TestModelStringHelpers(t *testing.T) {
	if got := GetProviderFromModel("openai:gpt-4o"); got != "openai" {
		t.Errorf("Expected provider 'openai', got '%s'", got)
	}
	if got := GetModelFromModel("openai:gpt-4o"); got != "gpt-4o" {
		t.Errorf("Expected model 'gpt-4o', got '%s'", got)
	}
	if got := GetProviderFromModel("no-colon"); got != "unknown" {
		t.Errorf("Expected 'unknown' for malformed model string, got '%s'", got)
	}
	if got := GetModelFromModel("no-colon"); got != "no-colon" {
		t.Errorf("Expected model string returned as-is, got '%s'", got)
	}
}
