package board

import (
	"errors"
	"fmt"

	"github.com/alexanderramin/taskflow/internal/domain"
)

var (
	ErrTaskNotFound  = errors.New("task not found on board")
	ErrInvalidStatus = errors.New("invalid board status")
)

// MoveRequest describes one drag-and-drop gesture.
type MoveRequest struct {
	TaskID   string
	ToStatus domain.TaskStatus
	// OverTaskID is the task the card was dropped on. Empty when dropped
	// on the column itself.
	OverTaskID string
	// Index is the position within the target column. Nil appends.
	// Ignored when OverTaskID names a task in the target column.
	Index *int
}

// Column is a derived grouping of tasks sharing a status.
type Column struct {
	Status domain.TaskStatus
	Tasks  []domain.Task
}

// Columns groups tasks by status in board order, keeping list order
// within each column.
func Columns(tasks []domain.Task) []Column {
	cols := make([]Column, len(domain.BoardStatuses))
	pos := make(map[domain.TaskStatus]int, len(domain.BoardStatuses))
	for i, s := range domain.BoardStatuses {
		cols[i] = Column{Status: s}
		pos[s] = i
	}
	for _, t := range tasks {
		i, ok := pos[t.Status]
		if !ok {
			continue
		}
		cols[i].Tasks = append(cols[i].Tasks, t)
	}
	return cols
}

// Reorder returns a new task list with the moved task placed in its target
// column and its status set. The input slice is not modified.
func Reorder(tasks []domain.Task, req MoveRequest) ([]domain.Task, error) {
	if !req.ToStatus.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidStatus, req.ToStatus)
	}
	from := indexOf(tasks, req.TaskID)
	if from < 0 {
		return nil, fmt.Errorf("%w: %s", ErrTaskNotFound, req.TaskID)
	}

	target := -1
	if req.OverTaskID != "" && req.OverTaskID != req.TaskID {
		target = columnIndex(tasks, req.ToStatus, req.OverTaskID)
	}
	if target < 0 && req.OverTaskID == req.TaskID {
		target = columnIndex(tasks, req.ToStatus, req.TaskID)
	}
	if target < 0 && req.Index != nil && *req.Index >= 0 {
		target = *req.Index
	}

	moved := tasks[from]
	moved.Status = req.ToStatus

	rest := make([]domain.Task, 0, len(tasks))
	rest = append(rest, tasks[:from]...)
	rest = append(rest, tasks[from+1:]...)

	at := insertionPoint(rest, req.ToStatus, target)
	out := make([]domain.Task, 0, len(tasks))
	out = append(out, rest[:at]...)
	out = append(out, moved)
	out = append(out, rest[at:]...)
	return out, nil
}

func indexOf(tasks []domain.Task, id string) int {
	for i := range tasks {
		if tasks[i].ID == id {
			return i
		}
	}
	return -1
}

// columnIndex is the position of id within the status column, or -1.
func columnIndex(tasks []domain.Task, status domain.TaskStatus, id string) int {
	n := 0
	for i := range tasks {
		if tasks[i].Status != status {
			continue
		}
		if tasks[i].ID == id {
			return n
		}
		n++
	}
	return -1
}

// insertionPoint maps a column position to a list position. A negative or
// out-of-range column position appends after the column's last task.
func insertionPoint(tasks []domain.Task, status domain.TaskStatus, colPos int) int {
	n := 0
	last := -1
	for i := range tasks {
		if tasks[i].Status != status {
			continue
		}
		if colPos >= 0 && n == colPos {
			return i
		}
		last = i
		n++
	}
	if last < 0 {
		return len(tasks)
	}
	return last + 1
}
