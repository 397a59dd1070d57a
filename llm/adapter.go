package llm

import (
	"context"
	"time"
)

// Message represents a chat message
type Message struct {
	Role      string    `json:"role"`      // "system", "user", "assistant"
	Content   string    `json:"content"`   // The message content
	Timestamp time.Time `json:"timestamp"` // When the message was created
}

// LLMAdapter defines the interface for LLM providers. A turn is a single
// blocking round trip: the full reply is needed before commands can be
// extracted from it, so there is no streaming path.
type LLMAdapter interface {
	// Send sends messages and returns the complete response
	Send(ctx context.Context, messages []Message) (*Message, error)

	// GetModelName returns the current model name
	GetModelName() string

	// IsAvailable checks if the adapter is properly configured and available
	IsAvailable() bool
}

// AdapterConfig contains common configuration for LLM adapters
type AdapterConfig struct {
	Model   string
	APIKey  string
	BaseURL string
	Timeout time.Duration
}

// DefaultTimeout for LLM requests
const DefaultTimeout = 30 * time.Second

// Generation parameters. Replies must stay short enough to read in a chat
// window and parse reliably, so output length is bounded and sampling runs
// close to deterministic.
const (
	MaxReplyTokens   = 512
	ReplyTemperature = 0.2
)
