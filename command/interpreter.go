package command

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"

	"steward/task"
)

// Result is what applying one command produced. Failures are carried in
// Message rather than returned as errors, so every turn has an outcome the
// user can read.
type Result struct {
	// Message is the human-readable outcome, success or failure.
	Message string
	// Changed reports whether the task table was mutated.
	Changed bool
	// Clarification reports that the model asked the user for missing
	// information instead of acting.
	Clarification bool
}

// Interpreter validates commands against the task table and applies them.
type Interpreter struct {
	store *task.Store
}

// NewInterpreter creates an interpreter over the given store.
func NewInterpreter(store *task.Store) *Interpreter {
	return &Interpreter{store: store}
}

// Apply runs one command against the table. A non-empty clarification
// short-circuits everything else, including the action: the model is asking
// the user a question, so nothing is mutated. All other outcomes are
// decided by the action field. Apply never returns an error; bad commands
// and store failures become messages.
func (in *Interpreter) Apply(cmd *Command) Result {
	if cmd == nil {
		return Result{Message: "No command to apply."}
	}

	if strings.TrimSpace(cmd.Clarification) != "" {
		return Result{Message: cmd.Clarification, Clarification: true}
	}

	action := strings.ToLower(strings.TrimSpace(cmd.Action))
	log.Debug().Str("action", action).Str("id", cmd.ID.String()).Msg("applying command")

	switch action {
	case "add":
		return in.applyAdd(cmd)
	case "update":
		return in.applyUpdate(cmd)
	case "complete":
		return in.applyComplete(cmd)
	case "update_cell":
		return in.applyUpdateCell(cmd)
	case "":
		return Result{Message: "The command did not include an action."}
	default:
		return Result{Message: fmt.Sprintf("Unrecognized action %q.", cmd.Action)}
	}
}

func (in *Interpreter) applyAdd(cmd *Command) Result {
	title := strings.TrimSpace(cmd.Task)
	if title == "" {
		return Result{Message: "The add command needs a task title."}
	}

	id, err := in.store.Add(title, cmd.DueDate, cmd.AssignedTo, cmd.Description)
	if err != nil {
		return storeFailure(err)
	}
	return Result{
		Message: fmt.Sprintf("Added task %d: %s", id, title),
		Changed: true,
	}
}

func (in *Interpreter) applyUpdate(cmd *Command) Result {
	id, ok := parseID(cmd.ID)
	if !ok {
		return Result{Message: "The update command needs a task id."}
	}

	if err := in.store.Update(id, cmd.Task, cmd.DueDate, cmd.AssignedTo, cmd.Description); err != nil {
		if errors.Is(err, task.ErrTaskNotFound) {
			return notFound(id)
		}
		return storeFailure(err)
	}
	return Result{
		Message: fmt.Sprintf("Updated task %d.", id),
		Changed: true,
	}
}

func (in *Interpreter) applyComplete(cmd *Command) Result {
	id, ok := parseID(cmd.ID)
	if !ok {
		return Result{Message: "The complete command needs a task id."}
	}

	if err := in.store.Complete(id); err != nil {
		if errors.Is(err, task.ErrTaskNotFound) {
			return notFound(id)
		}
		return storeFailure(err)
	}
	return Result{
		Message: fmt.Sprintf("Marked task %d as completed.", id),
		Changed: true,
	}
}

func (in *Interpreter) applyUpdateCell(cmd *Command) Result {
	id, okID := parseID(cmd.ID)
	field := strings.TrimSpace(cmd.Field)
	if !okID || field == "" {
		return Result{Message: "The update_cell command needs both a task id and a field name."}
	}

	if err := in.store.UpdateCell(id, field, cmd.Value.String()); err != nil {
		switch {
		case errors.Is(err, task.ErrTaskNotFound):
			return notFound(id)
		case errors.Is(err, task.ErrInvalidField):
			return Result{Message: fmt.Sprintf("%q is not a column in the task table.", field)}
		default:
			return storeFailure(err)
		}
	}
	return Result{
		Message: fmt.Sprintf("Set %s of task %d to %q.", field, id, cmd.Value.String()),
		Changed: true,
	}
}

// parseID reads a command id. Validity is numeric, not string emptiness:
// "0" is a well-formed id that will simply not match any task, while ""
// and "soon" are missing ids.
func parseID(raw looseString) (int, bool) {
	trimmed := strings.TrimSpace(raw.String())
	if trimmed == "" {
		return 0, false
	}
	id, err := strconv.Atoi(trimmed)
	if err != nil {
		return 0, false
	}
	return id, true
}

func notFound(id int) Result {
	return Result{Message: fmt.Sprintf("No task with id %d was found.", id)}
}

func storeFailure(err error) Result {
	return Result{Message: fmt.Sprintf("The task table could not be updated: %v", err)}
}
