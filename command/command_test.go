package command

import (
	"errors"
	"testing"
)

func TestExtractCommand(t *testing.T) {
	response := "I'll add that for you.\n\n```json\n{\"action\": \"add\", \"task\": \"Buy groceries\", \"due_date\": \"2026-09-01\", \"assigned_to\": \"Alice\"}\n```\n\nDone!"

	cmd, err := Extract(response)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if cmd == nil {
		t.Fatalf("Expected a command, got nil")
	}

	if cmd.Action != "add" {
		t.Errorf("Expected action 'add', got '%s'", cmd.Action)
	}
	if cmd.Task != "Buy groceries" {
		t.Errorf("Expected task 'Buy groceries', got '%s'", cmd.Task)
	}
	if cmd.DueDate != "2026-09-01" {
		t.Errorf("Expected due date '2026-09-01', got '%s'", cmd.DueDate)
	}
	if cmd.AssignedTo != "Alice" {
		t.Errorf("Expected assignee 'Alice', got '%s'", cmd.AssignedTo)
	}
}

func TestExtractNoBlock(t *testing.T) {
	// A plain conversational reply carries no command; that is not an error
	cmd, err := Extract("Sure! You currently have three tasks. Anything else?")
	if err != nil {
		t.Errorf("Expected no error for text without a block, got: %v", err)
	}
	if cmd != nil {
		t.Errorf("Expected nil command for text without a block, got: %+v", cmd)
	}
}

func TestExtractEmptyText(t *testing.T) {
	cmd, err := Extract("")
	if err != nil {
		t.Errorf("Expected no error for empty text, got: %v", err)
	}
	if cmd != nil {
		t.Errorf("Expected nil command for empty text, got: %+v", cmd)
	}
}

func TestExtractMalformedBlock(t *testing.T) {
	// A block that exists but does not parse must be reported, unlike the
	// absent case
	response := "```json\n{\"action\": \"add\", \"task\": \"Trailing comma\",}\n```"

	cmd, err := Extract(response)
	if err == nil {
		t.Fatalf("Expected an error for malformed block, got none (cmd: %+v)", cmd)
	}
	if !errors.Is(err, ErrMalformedCommand) {
		t.Errorf("Expected ErrMalformedCommand, got: %v", err)
	}
}

func TestExtractUnbalancedBraces(t *testing.T) {
	response := "```json\n{\"action\": \"add\"\n```"

	_, err := Extract(response)
	if !errors.Is(err, ErrMalformedCommand) {
		t.Errorf("Expected ErrMalformedCommand for unbalanced braces, got: %v", err)
	}
}

func TestExtractFirstBlockOnly(t *testing.T) {
	response := "```json\n{\"action\": \"add\", \"task\": \"First\"}\n```\n" +
		"Some text between.\n" +
		"```json\n{\"action\": \"add\", \"task\": \"Second\"}\n```"

	cmd, err := Extract(response)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if cmd.Task != "First" {
		t.Errorf("Expected the first block to win, got task '%s'", cmd.Task)
	}
}

func TestExtractMultilineObject(t *testing.T) {
	response := "```json\n{\n  \"action\": \"update\",\n  \"id\": \"2\",\n  \"due_date\": \"2026-10-01\"\n}\n```"

	cmd, err := Extract(response)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if cmd.Action != "update" {
		t.Errorf("Expected action 'update', got '%s'", cmd.Action)
	}
	if cmd.ID.String() != "2" {
		t.Errorf("Expected id '2', got '%s'", cmd.ID.String())
	}
}

func TestExtractNumericID(t *testing.T) {
	// Models write ids as bare numbers about as often as strings
	response := "```json\n{\"action\": \"complete\", \"id\": 3}\n```"

	cmd, err := Extract(response)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if cmd.ID.String() != "3" {
		t.Errorf("Expected id '3', got '%s'", cmd.ID.String())
	}
}

func TestExtractNumericValue(t *testing.T) {
	response := "```json\n{\"action\": \"update_cell\", \"id\": \"1\", \"field\": \"ID\", \"value\": 7}\n```"

	cmd, err := Extract(response)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if cmd.Value.String() != "7" {
		t.Errorf("Expected value '7', got '%s'", cmd.Value.String())
	}
}

func TestExtractUpdateCellKeys(t *testing.T) {
	response := "```json\n{\"action\": \"update_cell\", \"id\": \"4\", \"field\": \"Status\", \"value\": \"Pending\"}\n```"

	cmd, err := Extract(response)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if cmd.Field != "Status" {
		t.Errorf("Expected field 'Status', got '%s'", cmd.Field)
	}
	if cmd.Value.String() != "Pending" {
		t.Errorf("Expected value 'Pending', got '%s'", cmd.Value.String())
	}
}

func TestExtractIgnoresUntaggedBlock(t *testing.T) {
	// Only blocks tagged as json carry commands
	response := "Here is some output:\n```\n{\"action\": \"add\", \"task\": \"Not a command\"}\n```"

	cmd, err := Extract(response)
	if err != nil {
		t.Errorf("Expected no error for untagged block, got: %v", err)
	}
	if cmd != nil {
		t.Errorf("Expected untagged block to be ignored, got: %+v", cmd)
	}
}

func TestExtractClarification(t *testing.T) {
	response := "```json\n{\"clarification\": \"Which task did you mean?\"}\n```"

	cmd, err := Extract(response)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if cmd.Clarification != "Which task did you mean?" {
		t.Errorf("Expected clarification text, got '%s'", cmd.Clarification)
	}
}

func TestStripBlocks(t *testing.T) {
	response := "Adding that now.\n```json\n{\"action\": \"add\", \"task\": \"Call dentist\"}\n```\nAnything else?"

	stripped := StripBlocks(response)
	if stripped != "Adding that now.\n\nAnything else?" {
		t.Errorf("Expected block removed from display text, got %q", stripped)
	}
}

func TestStripBlocksPlainText(t *testing.T) {
	text := "No blocks here."
	if got := StripBlocks(text); got != text {
		t.Errorf("Expected text unchanged, got %q", got)
	}
}
