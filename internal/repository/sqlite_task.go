package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/alexanderramin/taskflow/internal/db"
	"github.com/alexanderramin/taskflow/internal/domain"
	"github.com/google/uuid"
)

type SQLiteTaskRepo struct {
	db db.DBTX
}

func NewSQLiteTaskRepo(conn db.DBTX) *SQLiteTaskRepo {
	return &SQLiteTaskRepo{db: conn}
}

const taskColumns = `id, project_id, sprint_id, parent_task_id, short_key, title, description, status,
	priority, label, story_points, assignee_id, created_by, due_date, completed_at, created_at, updated_at`

// CreateTask inserts a task and assigns its short key from the project key
// and the next project sequence number.
func (r *SQLiteTaskRepo) CreateTask(ctx context.Context, t *domain.Task) (string, error) {
	if t.ProjectID == "" {
		return "", fmt.Errorf("creating task %q: project id is required", t.Title)
	}
	if t.ID == "" {
		t.ID = uuid.New().String()
	}
	if t.Status == "" {
		t.Status = domain.TaskTodo
	}
	if t.Priority == "" {
		t.Priority = domain.PriorityMedium
	}
	if t.Label == "" {
		t.Label = domain.LabelTask
	}

	var key string
	err := r.db.QueryRowContext(ctx, `SELECT key FROM projects WHERE id = ?`, t.ProjectID).Scan(&key)
	if errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("project %s: %w", t.ProjectID, ErrNotFound)
	}
	if err != nil {
		return "", fmt.Errorf("loading project key: %w", err)
	}
	seq, err := NewSQLiteProjectSequenceRepo(r.db).NextProjectSeq(ctx, t.ProjectID)
	if err != nil {
		return "", err
	}
	t.ShortKey = fmt.Sprintf("%s-%d", key, seq)

	now := time.Now().UTC()
	t.CreatedAt, t.UpdatedAt = now, now

	query := `INSERT INTO tasks (id, project_id, sprint_id, parent_task_id, seq, short_key, title, description,
		status, priority, label, story_points, assignee_id, created_by, due_date, completed_at, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err = r.db.ExecContext(ctx, query,
		t.ID,
		t.ProjectID,
		nullableString(t.SprintID),
		nullableString(t.ParentTaskID),
		seq,
		t.ShortKey,
		t.Title,
		t.Description,
		string(t.Status),
		string(t.Priority),
		string(t.Label),
		t.StoryPoints,
		t.AssigneeID,
		t.CreatedBy,
		nullableTimeToString(t.DueDate, dateLayout),
		nullableTimeToString(t.CompletedAt, time.RFC3339),
		formatTime(t.CreatedAt),
		formatTime(t.UpdatedAt),
	)
	if err != nil {
		return "", fmt.Errorf("inserting task: %w", err)
	}
	return t.ID, nil
}

// CreateSubtask inserts t under parentID. The subtask inherits the parent's
// project when none is set.
func (r *SQLiteTaskRepo) CreateSubtask(ctx context.Context, parentID string, t *domain.Task) (string, error) {
	parent, err := r.GetTask(ctx, parentID)
	if err != nil {
		return "", fmt.Errorf("loading parent task: %w", err)
	}
	if t.ProjectID == "" {
		t.ProjectID = parent.ProjectID
	}
	t.ParentTaskID = &parent.ID
	return r.CreateTask(ctx, t)
}

func (r *SQLiteTaskRepo) GetTask(ctx context.Context, id string) (*domain.Task, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+taskColumns+` FROM tasks WHERE id = ?`, id)
	t, err := scanTask(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("task %s: %w", id, ErrNotFound)
	}
	return t, err
}

// GetByShortKey looks a task up by its short key, case-insensitively.
func (r *SQLiteTaskRepo) GetByShortKey(ctx context.Context, key string) (*domain.Task, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+taskColumns+` FROM tasks WHERE UPPER(short_key) = UPPER(?)`, key)
	t, err := scanTask(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("task %s: %w", key, ErrNotFound)
	}
	return t, err
}

func (r *SQLiteTaskRepo) ListTasksByProject(ctx context.Context, projectID string) ([]domain.Task, error) {
	return r.list(ctx, `SELECT `+taskColumns+` FROM tasks WHERE project_id = ? ORDER BY seq`, projectID)
}

func (r *SQLiteTaskRepo) ListTasksBySprint(ctx context.Context, sprintID string) ([]domain.Task, error) {
	return r.list(ctx, `SELECT `+taskColumns+` FROM tasks WHERE sprint_id = ? ORDER BY seq`, sprintID)
}

// ListBacklog returns the project's tasks that are not in any sprint.
func (r *SQLiteTaskRepo) ListBacklog(ctx context.Context, projectID string) ([]domain.Task, error) {
	return r.list(ctx, `SELECT `+taskColumns+` FROM tasks WHERE project_id = ? AND sprint_id IS NULL ORDER BY seq`, projectID)
}

func (r *SQLiteTaskRepo) list(ctx context.Context, query string, args ...any) ([]domain.Task, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing tasks: %w", err)
	}
	defer rows.Close()

	var tasks []domain.Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, *t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating tasks: %w", err)
	}
	return tasks, nil
}

func (r *SQLiteTaskRepo) UpdateTaskStatus(ctx context.Context, id string, status domain.TaskStatus, completedAt *time.Time) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE tasks SET status = ?, completed_at = ?, updated_at = ? WHERE id = ?`,
		string(status), nullableTimeToString(completedAt, time.RFC3339), nowUTC(), id)
	if err != nil {
		return fmt.Errorf("updating task status: %w", err)
	}
	return requireAffected(res, "task", id)
}

// MoveTaskToSprint sets the task's sprint; nil moves it to the backlog.
func (r *SQLiteTaskRepo) MoveTaskToSprint(ctx context.Context, id string, sprintID *string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE tasks SET sprint_id = ?, updated_at = ? WHERE id = ?`, nullableString(sprintID), nowUTC(), id)
	if err != nil {
		return fmt.Errorf("moving task: %w", err)
	}
	return requireAffected(res, "task", id)
}

// AssignTask changes the assignee; empty unassigns.
func (r *SQLiteTaskRepo) AssignTask(ctx context.Context, id, assigneeID string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE tasks SET assignee_id = ?, updated_at = ? WHERE id = ?`, assigneeID, nowUTC(), id)
	if err != nil {
		return fmt.Errorf("assigning task: %w", err)
	}
	return requireAffected(res, "task", id)
}

// DeleteTask removes a task and, through the foreign key, its subtasks.
func (r *SQLiteTaskRepo) DeleteTask(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting task: %w", err)
	}
	return requireAffected(res, "task", id)
}

func scanTask(row rowScanner) (*domain.Task, error) {
	var t domain.Task
	var sprintID, parentID, due, completed sql.NullString
	var status, priority, label, createdAt, updatedAt string

	err := row.Scan(
		&t.ID, &t.ProjectID, &sprintID, &parentID, &t.ShortKey, &t.Title, &t.Description, &status,
		&priority, &label, &t.StoryPoints, &t.AssigneeID, &t.CreatedBy, &due, &completed, &createdAt, &updatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scanning task: %w", err)
	}
	t.SprintID = stringPtr(sprintID)
	t.ParentTaskID = stringPtr(parentID)
	t.Status = domain.TaskStatus(status)
	t.Priority = domain.Priority(priority)
	t.Label = domain.Label(label)
	t.DueDate = parseNullableTime(due, dateLayout)
	t.CompletedAt = parseNullableTime(completed, time.RFC3339)
	t.CreatedAt = parseTime(createdAt)
	t.UpdatedAt = parseTime(updatedAt)
	return &t, nil
}
