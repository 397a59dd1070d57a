package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const defaultOllamaURL = "http://localhost:11434"

// OllamaAdapter talks to an Ollama server over its chat API. Replies are
// requested non-streaming: a turn needs the complete text before the
// command block can be read out of it.
type OllamaAdapter struct {
	client  *http.Client
	config  AdapterConfig
	baseURL string
}

// OllamaMessage is one turn in Ollama's wire format
type OllamaMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// OllamaOptions carries the generation parameters Ollama reads per request
type OllamaOptions struct {
	Temperature float64 `json:"temperature"`
	NumPredict  int     `json:"num_predict"`
}

// OllamaChatRequest is the /api/chat request body
type OllamaChatRequest struct {
	Model    string          `json:"model"`
	Messages []OllamaMessage `json:"messages"`
	Stream   bool            `json:"stream"`
	Options  OllamaOptions   `json:"options"`
}

// OllamaChatResponse is the /api/chat response body
type OllamaChatResponse struct {
	Model     string        `json:"model"`
	CreatedAt time.Time     `json:"created_at"`
	Message   OllamaMessage `json:"message"`
	Done      bool          `json:"done"`
}

// NewOllamaAdapter creates an adapter for the given model. An empty
// BaseURL falls back to the default local server.
func NewOllamaAdapter(config AdapterConfig) *OllamaAdapter {
	if config.BaseURL == "" {
		config.BaseURL = defaultOllamaURL
	}
	if config.Timeout == 0 {
		config.Timeout = DefaultTimeout
	}

	return &OllamaAdapter{
		client:  &http.Client{Timeout: config.Timeout},
		config:  config,
		baseURL: config.BaseURL,
	}
}

// Send implements LLMAdapter.Send
func (o *OllamaAdapter) Send(ctx context.Context, messages []Message) (*Message, error) {
	turns := make([]OllamaMessage, len(messages))
	for i, msg := range messages {
		turns[i] = OllamaMessage{Role: msg.Role, Content: msg.Content}
	}

	payload, err := json.Marshal(OllamaChatRequest{
		Model:    o.config.Model,
		Messages: turns,
		Stream:   false,
		Options: OllamaOptions{
			Temperature: ReplyTemperature,
			NumPredict:  MaxReplyTokens,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode chat request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, o.baseURL+"/api/chat", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to build chat request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := o.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("ollama is unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("ollama returned status %d: %s", resp.StatusCode, string(body))
	}

	var response OllamaChatResponse
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return nil, fmt.Errorf("failed to decode chat response: %w", err)
	}

	return &Message{
		Role:      response.Message.Role,
		Content:   response.Message.Content,
		Timestamp: time.Now(),
	}, nil
}

// GetModelName implements LLMAdapter.GetModelName
func (o *OllamaAdapter) GetModelName() string {
	return o.config.Model
}

// IsAvailable reports whether the server answers its tags endpoint.
func (o *OllamaAdapter) IsAvailable() bool {
	if o.config.Model == "" {
		return false
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, o.baseURL+"/api/tags", nil)
	if err != nil {
		return false
	}

	resp, err := o.client.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()

	return resp.StatusCode == http.StatusOK
}
