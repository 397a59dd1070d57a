package engine

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"steward/chat"
	"steward/command"
	"steward/llm"
	"steward/task"
)

type scriptedStep struct {
	reply string
	err   error
}

// scriptedAdapter returns canned replies in order and records every
// request it was sent.
type scriptedAdapter struct {
	steps    []scriptedStep
	requests [][]llm.Message
}

func (a *scriptedAdapter) Send(ctx context.Context, messages []llm.Message) (*llm.Message, error) {
	a.requests = append(a.requests, messages)
	if len(a.steps) == 0 {
		return nil, errors.New("no scripted reply left")
	}
	step := a.steps[0]
	a.steps = a.steps[1:]
	if step.err != nil {
		return nil, step.err
	}
	return &llm.Message{Role: "assistant", Content: step.reply, Timestamp: time.Now()}, nil
}

func (a *scriptedAdapter) GetModelName() string { return "scripted" }

func (a *scriptedAdapter) IsAvailable() bool { return true }

func newTestEngine(t *testing.T, adapter *scriptedAdapter) (*Engine, *task.Store) {
	t.Helper()

	dir := t.TempDir()
	store := task.NewStore(filepath.Join(dir, "tasks.csv"))
	if err := store.Ensure(); err != nil {
		t.Fatalf("Failed to create task table: %v", err)
	}

	conversation := chat.NewConversation(store, 50, filepath.Join(dir, "history"))
	return NewEngine(adapter, conversation, command.NewInterpreter(store)), store
}

func TestProcessTurnAppliesCommand(t *testing.T) {
	adapter := &scriptedAdapter{steps: []scriptedStep{
		{reply: "Adding that now.\n\n```json\n{\"action\": \"add\", \"task\": \"Buy milk\", \"due_date\": \"2026-09-01\"}\n```"},
	}}
	engine, store := newTestEngine(t, adapter)

	turn, err := engine.ProcessTurn(context.Background(), "remind me to buy milk by September 1st")
	if err != nil {
		t.Fatalf("Failed to process turn: %v", err)
	}

	if turn.Outcome == nil {
		t.Fatal("Expected a command outcome, got nil")
	}
	if !turn.Changed() {
		t.Error("Expected the turn to report a table change")
	}
	if !strings.Contains(turn.Outcome.Message, "1") {
		t.Errorf("Expected outcome to mention the new id, got %q", turn.Outcome.Message)
	}

	tasks, err := store.Load()
	if err != nil {
		t.Fatalf("Failed to load tasks: %v", err)
	}
	if len(tasks) != 1 {
		t.Fatalf("Expected 1 task, got %d", len(tasks))
	}
	if tasks[0].Title != "Buy milk" {
		t.Errorf("Expected task title 'Buy milk', got %q", tasks[0].Title)
	}
}

func TestProcessTurnCompletesTask(t *testing.T) {
	adapter := &scriptedAdapter{steps: []scriptedStep{
		{reply: "Done! Task 3 is marked as completed.\n\n```json\n{\"action\": \"complete\", \"id\": \"3\"}\n```"},
	}}
	engine, store := newTestEngine(t, adapter)

	for _, title := range []string{"Water plants", "Call dentist", "File taxes"} {
		if _, err := store.Add(title, "", "", ""); err != nil {
			t.Fatalf("Failed to seed task: %v", err)
		}
	}

	turn, err := engine.ProcessTurn(context.Background(), "mark task 3 as done")
	if err != nil {
		t.Fatalf("Failed to process turn: %v", err)
	}

	if turn.Outcome == nil {
		t.Fatal("Expected a command outcome, got nil")
	}
	if !strings.Contains(turn.Outcome.Message, "3") {
		t.Errorf("Expected outcome to mention task 3, got %q", turn.Outcome.Message)
	}

	tasks, err := store.Load()
	if err != nil {
		t.Fatalf("Failed to load tasks: %v", err)
	}
	if tasks[2].Status != task.StatusCompleted {
		t.Errorf("Expected task 3 to be Completed, got '%s'", tasks[2].Status)
	}
	if tasks[0].Status != task.StatusPending || tasks[1].Status != task.StatusPending {
		t.Error("Expected the other tasks to stay Pending")
	}
}

func TestProcessTurnConversationalReply(t *testing.T) {
	adapter := &scriptedAdapter{steps: []scriptedStep{
		{reply: "You're welcome! Anything else on your mind?"},
	}}
	engine, store := newTestEngine(t, adapter)

	turn, err := engine.ProcessTurn(context.Background(), "thanks")
	if err != nil {
		t.Fatalf("Failed to process turn: %v", err)
	}

	if turn.Outcome != nil {
		t.Errorf("Expected no outcome for a conversational reply, got %+v", turn.Outcome)
	}
	if turn.Changed() {
		t.Error("Expected no table change")
	}
	if turn.Reply != "You're welcome! Anything else on your mind?" {
		t.Errorf("Expected the reply verbatim, got %q", turn.Reply)
	}

	tasks, err := store.Load()
	if err != nil {
		t.Fatalf("Failed to load tasks: %v", err)
	}
	if len(tasks) != 0 {
		t.Errorf("Expected no tasks, got %d", len(tasks))
	}
}

func TestProcessTurnMalformedBlock(t *testing.T) {
	adapter := &scriptedAdapter{steps: []scriptedStep{
		{reply: "On it.\n\n```json\n{\"action\": \"add\",}\n```"},
	}}
	engine, store := newTestEngine(t, adapter)

	turn, err := engine.ProcessTurn(context.Background(), "add something")
	if err != nil {
		t.Fatalf("Failed to process turn: %v", err)
	}

	if turn.Outcome == nil {
		t.Fatal("Expected a parse-failure outcome, got nil")
	}
	if turn.Changed() {
		t.Error("Expected no table change from a malformed block")
	}
	if !strings.Contains(turn.Outcome.Message, "parsed") {
		t.Errorf("Expected outcome to describe the parse failure, got %q", turn.Outcome.Message)
	}

	tasks, err := store.Load()
	if err != nil {
		t.Fatalf("Failed to load tasks: %v", err)
	}
	if len(tasks) != 0 {
		t.Errorf("Expected no tasks, got %d", len(tasks))
	}
}

func TestProcessTurnClarification(t *testing.T) {
	adapter := &scriptedAdapter{steps: []scriptedStep{
		{reply: "```json\n{\"action\": \"complete\", \"clarification\": \"Which task did you mean, 2 or 5?\"}\n```"},
	}}
	engine, store := newTestEngine(t, adapter)

	if _, err := store.Add("Pay rent", "2026-09-01", "", ""); err != nil {
		t.Fatalf("Failed to add task: %v", err)
	}

	turn, err := engine.ProcessTurn(context.Background(), "mark it done")
	if err != nil {
		t.Fatalf("Failed to process turn: %v", err)
	}

	if turn.Outcome == nil {
		t.Fatal("Expected a clarification outcome, got nil")
	}
	if !turn.Outcome.Clarification {
		t.Error("Expected the outcome to be flagged as a clarification")
	}
	if turn.Outcome.Message != "Which task did you mean, 2 or 5?" {
		t.Errorf("Expected the clarification text verbatim, got %q", turn.Outcome.Message)
	}
	if turn.Changed() {
		t.Error("Expected no table change from a clarification")
	}

	tasks, err := store.Load()
	if err != nil {
		t.Fatalf("Failed to load tasks: %v", err)
	}
	if tasks[0].Status != task.StatusPending {
		t.Errorf("Expected task to stay pending, got %q", tasks[0].Status)
	}
}

func TestProcessTurnTransportFailure(t *testing.T) {
	adapter := &scriptedAdapter{steps: []scriptedStep{
		{err: errors.New("connection refused")},
		{reply: "Back online."},
	}}
	engine, store := newTestEngine(t, adapter)

	turn, err := engine.ProcessTurn(context.Background(), "add a task")
	if err != nil {
		t.Fatalf("Expected the failure to surface as output, got error: %v", err)
	}

	if turn.Reply != "connection refused" {
		t.Errorf("Expected the failure text verbatim, got %q", turn.Reply)
	}
	if turn.Outcome != nil {
		t.Errorf("Expected no outcome on transport failure, got %+v", turn.Outcome)
	}
	if len(adapter.requests) != 1 {
		t.Errorf("Expected a single attempt with no retry, got %d", len(adapter.requests))
	}

	tasks, err := store.Load()
	if err != nil {
		t.Fatalf("Failed to load tasks: %v", err)
	}
	if len(tasks) != 0 {
		t.Errorf("Expected no tasks, got %d", len(tasks))
	}

	// The failure became an assistant turn, so the next request carries it.
	if _, err := engine.ProcessTurn(context.Background(), "try again"); err != nil {
		t.Fatalf("Failed to process follow-up turn: %v", err)
	}
	found := false
	for _, msg := range adapter.requests[1] {
		if msg.Role == "assistant" && msg.Content == "connection refused" {
			found = true
		}
	}
	if !found {
		t.Error("Expected the failure text in the follow-up request history")
	}
}

func TestProcessTurnInjectsFreshSummary(t *testing.T) {
	adapter := &scriptedAdapter{steps: []scriptedStep{
		{reply: "Done.\n\n```json\n{\"action\": \"add\", \"task\": \"Walk dog\"}\n```"},
		{reply: "Your list looks light today."},
	}}
	engine, _ := newTestEngine(t, adapter)

	if _, err := engine.ProcessTurn(context.Background(), "add walk dog"); err != nil {
		t.Fatalf("Failed to process first turn: %v", err)
	}
	if _, err := engine.ProcessTurn(context.Background(), "how does my list look?"); err != nil {
		t.Fatalf("Failed to process second turn: %v", err)
	}

	if len(adapter.requests) != 2 {
		t.Fatalf("Expected 2 requests, got %d", len(adapter.requests))
	}

	first := adapter.requests[0][1]
	if first.Role != "system" || !strings.Contains(first.Content, task.NoTasksSummary) {
		t.Errorf("Expected the first request to carry an empty-table summary, got %q", first.Content)
	}

	second := adapter.requests[1][1]
	if second.Role != "system" || !strings.Contains(second.Content, "Walk dog") {
		t.Errorf("Expected the second request summary to reflect the added task, got %q", second.Content)
	}
}
