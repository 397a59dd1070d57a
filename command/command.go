package command

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// ErrMalformedCommand reports a fenced command block that was found but
// could not be parsed. Callers must be able to tell this apart from no
// block at all, which is a normal conversational reply.
var ErrMalformedCommand = errors.New("malformed command block")

// commandBlockPattern matches the first fenced block tagged json. The body
// is matched non-greedily and may span multiple lines.
var commandBlockPattern = regexp.MustCompile("(?s)```json\\s*(.*?)\\s*```")

// Command is the structured instruction a model embeds in its reply. It is
// a loose bag of fields read differently per action; validation happens at
// interpretation time, not parse time. A command lives for one turn and is
// never persisted.
type Command struct {
	Action        string      `json:"action,omitempty"`
	ID            looseString `json:"id,omitempty"`
	Task          string      `json:"task,omitempty"`
	DueDate       string      `json:"due_date,omitempty"`
	AssignedTo    string      `json:"assigned_to,omitempty"`
	Description   string      `json:"description,omitempty"`
	Clarification string      `json:"clarification,omitempty"`

	// update_cell carries these two extra keys on the same object.
	Field string      `json:"field,omitempty"`
	Value looseString `json:"value,omitempty"`
}

// looseString accepts both a JSON string and a bare scalar, since models
// write ids as "3" about as often as 3.
type looseString string

func (s *looseString) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "null" {
		*s = ""
		return nil
	}
	if strings.HasPrefix(trimmed, "\"") {
		var str string
		if err := json.Unmarshal(data, &str); err != nil {
			return err
		}
		*s = looseString(str)
		return nil
	}
	*s = looseString(trimmed)
	return nil
}

func (s looseString) String() string {
	return string(s)
}

// Extract scans assistant text for the first fenced json block and parses
// it into a Command. Text without such a block returns (nil, nil): plain
// conversational replies are valid and common. A block that is present but
// unparsable returns ErrMalformedCommand.
func Extract(text string) (*Command, error) {
	match := commandBlockPattern.FindStringSubmatch(text)
	if match == nil {
		return nil, nil
	}

	body := strings.TrimSpace(match[1])
	var cmd Command
	if err := json.Unmarshal([]byte(body), &cmd); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedCommand, err)
	}
	return &cmd, nil
}

// StripBlocks removes fenced json blocks from assistant text, leaving just
// the conversational part for display.
func StripBlocks(text string) string {
	stripped := commandBlockPattern.ReplaceAllString(text, "")
	return strings.TrimSpace(stripped)
}
