package task

import (
	"fmt"
	"strings"
	"time"
)

// Status values a task moves through. Complete only ever moves a task
// forward to Completed; the generic cell update path can write anything,
// including moving a task back to Pending.
const (
	StatusPending   = "Pending"
	StatusCompleted = "Completed"
)

// Task represents a single row of the persisted task table.
type Task struct {
	ID          int    `json:"id"`
	Title       string `json:"title"`
	DueDate     string `json:"due_date,omitempty"`
	AssignedTo  string `json:"assigned_to,omitempty"`
	Description string `json:"description,omitempty"`
	Status      string `json:"status"`
	CreatedAt   string `json:"created_at"`
}

// Column names of the persisted table, in file order.
const (
	ColumnID          = "ID"
	ColumnTask        = "Task"
	ColumnDueDate     = "Due Date"
	ColumnAssignedTo  = "Assigned To"
	ColumnDescription = "Description"
	ColumnStatus      = "Status"
	ColumnCreatedAt   = "Created Date"
)

// Columns returns the table header in canonical order.
func Columns() []string {
	return []string{ColumnID, ColumnTask, ColumnDueDate, ColumnAssignedTo, ColumnDescription, ColumnStatus, ColumnCreatedAt}
}

// ResolveColumn maps a loosely-written field name to its canonical column
// name. Matching ignores case, spaces, and underscores, so "due_date",
// "Due Date", and "duedate" all resolve to the same column. The second
// return value is false when the name matches no column.
func ResolveColumn(field string) (string, bool) {
	key := strings.ToLower(field)
	key = strings.ReplaceAll(key, " ", "")
	key = strings.ReplaceAll(key, "_", "")

	switch key {
	case "id":
		return ColumnID, true
	case "task", "title":
		return ColumnTask, true
	case "duedate", "due":
		return ColumnDueDate, true
	case "assignedto", "assignee":
		return ColumnAssignedTo, true
	case "description":
		return ColumnDescription, true
	case "status":
		return ColumnStatus, true
	case "createddate", "createdat", "created":
		return ColumnCreatedAt, true
	}
	return "", false
}

// SummaryLine renders the one-line form of a task used in summaries and
// conversation context.
func (t Task) SummaryLine() string {
	return fmt.Sprintf("ID %d: %s due on %s assigned to %s (Status: %s)", t.ID, t.Title, t.DueDate, t.AssignedTo, t.Status)
}

// NoTasksSummary is the fixed summary text for an empty table.
const NoTasksSummary = "No tasks yet."

// Summarize renders the task list one line per task, or the fixed
// empty-table text when there are no tasks.
func Summarize(tasks []Task) string {
	if len(tasks) == 0 {
		return NoTasksSummary
	}

	var sb strings.Builder
	for i, t := range tasks {
		if i > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString(t.SummaryLine())
	}
	return sb.String()
}

// DueWithin filters tasks whose due date falls between now's date and
// days from now, inclusive on both ends. Tasks with an empty or
// unparsable due date are excluded.
func DueWithin(tasks []Task, now time.Time, days int) []Task {
	start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 0, days)

	var due []Task
	for _, t := range tasks {
		if t.DueDate == "" {
			continue
		}
		d, err := time.Parse("2006-01-02", t.DueDate)
		if err != nil {
			continue
		}
		if !d.Before(start) && !d.After(end) {
			due = append(due, t)
		}
	}
	return due
}
