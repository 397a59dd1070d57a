package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"steward/chat"
	"steward/command"
	"steward/llm"
)

// Turn is the result of processing one user message.
type Turn struct {
	// Reply is the assistant's text, verbatim, including any command
	// block. Display layers strip blocks themselves.
	Reply string
	// Outcome describes what the embedded command did, if there was one.
	// Purely conversational replies leave it nil.
	Outcome *command.Result
}

// Changed reports whether this turn mutated the task table.
func (t Turn) Changed() bool {
	return t.Outcome != nil && t.Outcome.Changed
}

// Engine runs user turns end to end: build the request, call the model,
// extract and apply the command, fold the outcome back into history.
// Turns are strictly sequential; the engine holds no locks and must not
// be shared across goroutines mid-turn.
type Engine struct {
	adapter      llm.LLMAdapter
	conversation *chat.Conversation
	interpreter  *command.Interpreter
}

// NewEngine wires a model adapter, a conversation, and an interpreter
// into a turn runner.
func NewEngine(adapter llm.LLMAdapter, conversation *chat.Conversation, interpreter *command.Interpreter) *Engine {
	return &Engine{
		adapter:      adapter,
		conversation: conversation,
		interpreter:  interpreter,
	}
}

// Conversation exposes the dialogue this engine appends to.
func (e *Engine) Conversation() *chat.Conversation {
	return e.conversation
}

// ProcessTurn runs one user message to completion and returns the
// assistant's reply plus the outcome of any command it carried. A failed
// model call is not an error: the failure text becomes the assistant
// output, verbatim, with no retry. The returned error is reserved for
// local faults such as an unreadable task table.
func (e *Engine) ProcessTurn(ctx context.Context, userText string) (Turn, error) {
	userMsg := llm.Message{
		Role:      "user",
		Content:   userText,
		Timestamp: time.Now(),
	}
	if err := e.conversation.AddMessage(userMsg); err != nil {
		log.Warn().Err(err).Msg("failed to persist user turn")
	}

	request, err := e.conversation.BuildRequest()
	if err != nil {
		return Turn{}, fmt.Errorf("failed to build model request: %w", err)
	}

	reply, err := e.adapter.Send(ctx, request)
	if err != nil {
		// Surface the transport failure as the assistant's output.
		reply = &llm.Message{
			Role:      "assistant",
			Content:   err.Error(),
			Timestamp: time.Now(),
		}
		if addErr := e.conversation.AddMessage(*reply); addErr != nil {
			log.Warn().Err(addErr).Msg("failed to persist assistant turn")
		}
		log.Error().Err(err).Msg("model request failed")
		return Turn{Reply: reply.Content}, nil
	}

	if err := e.conversation.AddMessage(*reply); err != nil {
		log.Warn().Err(err).Msg("failed to persist assistant turn")
	}

	cmd, err := command.Extract(reply.Content)
	if err != nil {
		// A block was present but unparsable; tell the user rather than
		// pretending the reply was plain conversation.
		return Turn{
			Reply:   reply.Content,
			Outcome: &command.Result{Message: fmt.Sprintf("The reply carried a command block that could not be parsed: %v", err)},
		}, nil
	}
	if cmd == nil {
		return Turn{Reply: reply.Content}, nil
	}

	result := e.interpreter.Apply(cmd)
	return Turn{Reply: reply.Content, Outcome: &result}, nil
}
