package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const (
	defaultClaudeURL = "https://api.anthropic.com"
	claudeVersion    = "2023-06-01"
)

// ClaudeAdapter implements LLMAdapter for the Anthropic API
type ClaudeAdapter struct {
	client  *http.Client
	config  AdapterConfig
	baseURL string
}

// ClaudeMessage is one turn in the Anthropic wire format
type ClaudeMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ClaudeRequest is the /v1/messages request body. System text rides in
// the top-level field, not in the message list.
type ClaudeRequest struct {
	Model       string          `json:"model"`
	MaxTokens   int             `json:"max_tokens"`
	System      string          `json:"system,omitempty"`
	Messages    []ClaudeMessage `json:"messages"`
	Temperature float64         `json:"temperature,omitempty"`
}

// ClaudeResponse is the /v1/messages response body
type ClaudeResponse struct {
	ID      string `json:"id"`
	Type    string `json:"type"`
	Role    string `json:"role"`
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	Model      string `json:"model"`
	StopReason string `json:"stop_reason"`
	Usage      struct {
		InputTokens  int `json:"input_tokens"`
		OutputTokens int `json:"output_tokens"`
	} `json:"usage"`
}

// NewClaudeAdapter creates an adapter for the Anthropic API.
func NewClaudeAdapter(config AdapterConfig) *ClaudeAdapter {
	if config.BaseURL == "" {
		config.BaseURL = defaultClaudeURL
	}
	if config.Timeout == 0 {
		config.Timeout = DefaultTimeout
	}

	return &ClaudeAdapter{
		client:  &http.Client{Timeout: config.Timeout},
		config:  config,
		baseURL: config.BaseURL,
	}
}

// Send implements LLMAdapter.Send
func (c *ClaudeAdapter) Send(ctx context.Context, messages []Message) (*Message, error) {
	// The API rejects system roles in the message list, so every system
	// turn is folded into the top-level system field in order.
	var system []string
	turns := make([]ClaudeMessage, 0, len(messages))
	for _, msg := range messages {
		if msg.Role == "system" {
			system = append(system, msg.Content)
			continue
		}
		turns = append(turns, ClaudeMessage{Role: msg.Role, Content: msg.Content})
	}

	payload, err := json.Marshal(ClaudeRequest{
		Model:       c.config.Model,
		MaxTokens:   MaxReplyTokens,
		System:      strings.Join(system, "\n\n"),
		Messages:    turns,
		Temperature: ReplyTemperature,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode messages request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/messages", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to build messages request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", c.config.APIKey)
	req.Header.Set("anthropic-version", claudeVersion)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("anthropic api is unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("anthropic api returned status %d: %s", resp.StatusCode, string(body))
	}

	var response ClaudeResponse
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return nil, fmt.Errorf("failed to decode messages response: %w", err)
	}

	var parts []string
	for _, block := range response.Content {
		if block.Type == "text" {
			parts = append(parts, block.Text)
		}
	}

	return &Message{
		Role:      response.Role,
		Content:   strings.Join(parts, ""),
		Timestamp: time.Now(),
	}, nil
}

// GetModelName implements LLMAdapter.GetModelName
func (c *ClaudeAdapter) GetModelName() string {
	return c.config.Model
}

// IsAvailable implements LLMAdapter.IsAvailable
func (c *ClaudeAdapter) IsAvailable() bool {
	return c.config.APIKey != "" && c.config.Model != ""
}
