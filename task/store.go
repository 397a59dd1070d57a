package task

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

// Store-level failures callers branch on.
var (
	ErrTaskNotFound = errors.New("task not found")
	ErrInvalidField = errors.New("invalid field")
)

// Store reads and writes the task table. It keeps no state between calls:
// every mutation loads the table fresh, applies one change, and writes the
// whole table back. Callers serialize access; there is no locking.
type Store struct {
	path string
}

// NewStore creates a store backed by the CSV file at path.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Path returns the location of the backing file.
func (s *Store) Path() string {
	return s.path
}

// Ensure creates the backing file with the fixed schema header when it does
// not exist yet, so the table is present and editable from the first run.
func (s *Store) Ensure() error {
	if _, err := os.Stat(s.path); err == nil {
		return nil
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("failed to stat task file: %w", err)
	}
	return s.Save(nil)
}

// Load reads all tasks from the backing file. A missing file is not an
// error: the table simply has no rows yet. Rows whose ID cell does not
// parse as an integer are skipped rather than failing the whole table,
// since the file is user-editable.
func (s *Store) Load() ([]Task, error) {
	if _, err := os.Stat(s.path); os.IsNotExist(err) {
		return nil, nil
	}

	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read task file: %w", err)
	}

	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = -1

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse task file: %w", err)
	}

	var tasks []Task
	for i, row := range rows {
		if i == 0 {
			// Header row.
			continue
		}
		for len(row) < len(Columns()) {
			row = append(row, "")
		}
		id, err := strconv.Atoi(strings.TrimSpace(row[0]))
		if err != nil {
			log.Warn().Int("row", i+1).Str("id", row[0]).Msg("skipping task row with non-numeric id")
			continue
		}
		tasks = append(tasks, Task{
			ID:          id,
			Title:       row[1],
			DueDate:     row[2],
			AssignedTo:  row[3],
			Description: row[4],
			Status:      row[5],
			CreatedAt:   row[6],
		})
	}
	return tasks, nil
}

// Save writes the full task list to the backing file, replacing whatever
// was there. The header row is always written, so an empty table is a file
// holding only the schema.
func (s *Store) Save(tasks []Task) error {
	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create data directory: %w", err)
		}
	}

	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	if err := writer.Write(Columns()); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	for _, t := range tasks {
		row := []string{
			strconv.Itoa(t.ID),
			t.Title,
			t.DueDate,
			t.AssignedTo,
			t.Description,
			t.Status,
			t.CreatedAt,
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write task row: %w", err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("failed to encode task table: %w", err)
	}

	if err := os.WriteFile(s.path, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("failed to write task file: %w", err)
	}
	return nil
}

// Summary loads the current table and renders it one line per task.
func (s *Store) Summary() (string, error) {
	tasks, err := s.Load()
	if err != nil {
		return "", err
	}
	return Summarize(tasks), nil
}

// Add appends a new task with the next free ID and returns that ID. Status
// starts as Pending and the creation time is stamped now.
func (s *Store) Add(title, dueDate, assignedTo, description string) (int, error) {
	tasks, err := s.Load()
	if err != nil {
		return 0, err
	}

	id := nextID(tasks)
	tasks = append(tasks, Task{
		ID:          id,
		Title:       title,
		DueDate:     dueDate,
		AssignedTo:  assignedTo,
		Description: description,
		Status:      StatusPending,
		CreatedAt:   time.Now().Format(time.DateTime),
	})

	if err := s.Save(tasks); err != nil {
		return 0, err
	}
	log.Debug().Int("id", id).Str("title", title).Msg("task added")
	return id, nil
}

// Update replaces the title, due date, assignee, and description of the
// task with the given ID, but only for the values that are non-empty.
// Empty means "leave unchanged". Returns ErrTaskNotFound when no task has
// that ID.
func (s *Store) Update(id int, title, dueDate, assignedTo, description string) error {
	tasks, err := s.Load()
	if err != nil {
		return err
	}

	idx := indexOf(tasks, id)
	if idx < 0 {
		return fmt.Errorf("task %d: %w", id, ErrTaskNotFound)
	}

	if title != "" {
		tasks[idx].Title = title
	}
	if dueDate != "" {
		tasks[idx].DueDate = dueDate
	}
	if assignedTo != "" {
		tasks[idx].AssignedTo = assignedTo
	}
	if description != "" {
		tasks[idx].Description = description
	}

	if err := s.Save(tasks); err != nil {
		return err
	}
	log.Debug().Int("id", id).Msg("task updated")
	return nil
}

// Complete marks the task with the given ID as Completed. Completing an
// already-completed task succeeds and changes nothing. Returns
// ErrTaskNotFound when no task has that ID.
func (s *Store) Complete(id int) error {
	tasks, err := s.Load()
	if err != nil {
		return err
	}

	idx := indexOf(tasks, id)
	if idx < 0 {
		return fmt.Errorf("task %d: %w", id, ErrTaskNotFound)
	}

	if tasks[idx].Status == StatusCompleted {
		return nil
	}
	tasks[idx].Status = StatusCompleted

	if err := s.Save(tasks); err != nil {
		return err
	}
	log.Debug().Int("id", id).Msg("task completed")
	return nil
}

// UpdateCell overwrites one named column of the task with the given ID,
// unconditionally. Unlike Update, an empty value clears the cell, and the
// Status column is writable, so this path can move a task back to Pending.
// Returns ErrTaskNotFound for an unknown ID and ErrInvalidField for a
// field name that matches no column.
func (s *Store) UpdateCell(id int, field, value string) error {
	column, ok := ResolveColumn(field)
	if !ok {
		return fmt.Errorf("%q: %w", field, ErrInvalidField)
	}

	tasks, err := s.Load()
	if err != nil {
		return err
	}

	idx := indexOf(tasks, id)
	if idx < 0 {
		return fmt.Errorf("task %d: %w", id, ErrTaskNotFound)
	}

	switch column {
	case ColumnID:
		newID, err := strconv.Atoi(strings.TrimSpace(value))
		if err != nil {
			return fmt.Errorf("value %q is not a valid id", value)
		}
		tasks[idx].ID = newID
	case ColumnTask:
		tasks[idx].Title = value
	case ColumnDueDate:
		tasks[idx].DueDate = value
	case ColumnAssignedTo:
		tasks[idx].AssignedTo = value
	case ColumnDescription:
		tasks[idx].Description = value
	case ColumnStatus:
		tasks[idx].Status = value
	case ColumnCreatedAt:
		tasks[idx].CreatedAt = value
	}

	if err := s.Save(tasks); err != nil {
		return err
	}
	log.Debug().Int("id", id).Str("column", column).Msg("task cell updated")
	return nil
}

// nextID returns one more than the highest ID in use, or 1 for an empty
// table. IDs are never reused even when rows are renumbered or removed.
func nextID(tasks []Task) int {
	max := 0
	for _, t := range tasks {
		if t.ID > max {
			max = t.ID
		}
	}
	return max + 1
}

func indexOf(tasks []Task, id int) int {
	for i, t := range tasks {
		if t.ID == id {
			return i
		}
	}
	return -1
}
