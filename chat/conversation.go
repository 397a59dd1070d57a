package chat

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"steward/llm"
)

// Summarizer provides the current rendering of the task table. It is
// called on every request build, never cached, so the model always sees
// the table as it is right now.
type Summarizer interface {
	Summary() (string, error)
}

// Conversation holds the rolling dialogue of one session. It is seeded
// with exactly one fixed system turn; everything after that is user and
// assistant turns. Each session appends its turns to its own JSONL
// transcript file as an audit trail.
type Conversation struct {
	messages    []llm.Message
	maxMessages int
	summarizer  Summarizer
	historyFile string
	sessionID   string
}

// NewConversation creates a conversation seeded with the fixed system
// instruction. Transcripts are written under historyDir, one file per
// session, named by start time plus a short random suffix.
func NewConversation(summarizer Summarizer, maxMessages int, historyDir string) *Conversation {
	if maxMessages <= 0 {
		maxMessages = 50 // Default to keeping 50 messages
	}

	sessionID := fmt.Sprintf("%s-%s", time.Now().Format("2006-01-02-1504"), uuid.NewString()[:8])

	return &Conversation{
		messages:    []llm.Message{llm.SystemPrompt()},
		maxMessages: maxMessages,
		summarizer:  summarizer,
		historyFile: filepath.Join(historyDir, sessionID+".jsonl"),
		sessionID:   sessionID,
	}
}

// SessionID returns the identifier the transcript file is named by.
func (c *Conversation) SessionID() string {
	return c.sessionID
}

// AddMessage appends a turn to the permanent history and the transcript.
// History above the configured maximum is trimmed oldest-first, always
// preserving the seed system turn.
func (c *Conversation) AddMessage(message llm.Message) error {
	c.messages = append(c.messages, message)

	if len(c.messages) > c.maxMessages {
		systemMessages := []llm.Message{}
		dialogueMessages := []llm.Message{}

		for _, msg := range c.messages {
			if msg.Role == "system" {
				systemMessages = append(systemMessages, msg)
			} else {
				dialogueMessages = append(dialogueMessages, msg)
			}
		}

		maxDialogue := c.maxMessages - len(systemMessages)
		if len(dialogueMessages) > maxDialogue {
			dialogueMessages = dialogueMessages[len(dialogueMessages)-maxDialogue:]
		}

		c.messages = append(systemMessages, dialogueMessages...)
	}

	return c.appendToTranscript(message)
}

// GetMessages returns all turns, the seed system turn first.
func (c *Conversation) GetMessages() []llm.Message {
	return c.messages
}

// BuildRequest assembles the outgoing turn list: the fixed system
// instruction, a system note carrying a summary of the task table as it
// stands right now, then the dialogue history. The summary note is
// regenerated on every call and never becomes part of permanent history.
func (c *Conversation) BuildRequest() ([]llm.Message, error) {
	summary, err := c.summarizer.Summary()
	if err != nil {
		return nil, fmt.Errorf("failed to summarize tasks: %w", err)
	}

	note := llm.Message{
		Role:      "system",
		Content:   "Current task table:\n\n" + summary,
		Timestamp: time.Now(),
	}

	request := make([]llm.Message, 0, len(c.messages)+1)
	request = append(request, c.messages[0])
	request = append(request, note)
	request = append(request, c.messages[1:]...)
	return request, nil
}

// Reset discards all dialogue, leaving only the seed system turn. Calling
// it on an already-fresh conversation changes nothing.
func (c *Conversation) Reset() {
	c.messages = c.messages[:1]
	log.Debug().Str("session", c.sessionID).Msg("conversation reset")
}

// appendToTranscript writes one turn as a JSON line to the session file.
func (c *Conversation) appendToTranscript(message llm.Message) error {
	historyDir := filepath.Dir(c.historyFile)
	if err := os.MkdirAll(historyDir, 0755); err != nil {
		return fmt.Errorf("failed to create history directory: %w", err)
	}

	file, err := os.OpenFile(c.historyFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("failed to open transcript: %w", err)
	}
	defer file.Close()

	data, err := json.Marshal(message)
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}

	_, err = file.Write(append(data, '\n'))
	return err
}
