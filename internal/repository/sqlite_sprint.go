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

type SQLiteSprintRepo struct {
	db db.DBTX
}

func NewSQLiteSprintRepo(conn db.DBTX) *SQLiteSprintRepo {
	return &SQLiteSprintRepo{db: conn}
}

const sprintColumns = `id, project_id, name, description, goals, start_date, end_date, status, created_at, updated_at`

// CreateSprint appends a sprint to its project's sprint order.
func (r *SQLiteSprintRepo) CreateSprint(ctx context.Context, s *domain.Sprint) (string, error) {
	if s.ID == "" {
		s.ID = uuid.New().String()
	}
	if s.Status == "" {
		s.Status = domain.SprintNotStarted
	}
	now := time.Now().UTC()
	s.CreatedAt, s.UpdatedAt = now, now

	query := `INSERT INTO sprints (id, project_id, name, description, goals, start_date, end_date, status, seq, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?,
			(SELECT COALESCE(MAX(seq), 0) + 1 FROM sprints WHERE project_id = ?),
			?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		s.ID,
		s.ProjectID,
		s.Name,
		s.Description,
		encodeStrings(s.Goals),
		nullableTimeToString(s.StartDate, dateLayout),
		nullableTimeToString(s.EndDate, dateLayout),
		string(s.Status),
		s.ProjectID,
		formatTime(s.CreatedAt),
		formatTime(s.UpdatedAt),
	)
	if err != nil {
		return "", fmt.Errorf("inserting sprint: %w", err)
	}
	return s.ID, nil
}

func (r *SQLiteSprintRepo) GetSprint(ctx context.Context, id string) (*domain.Sprint, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+sprintColumns+` FROM sprints WHERE id = ?`, id)
	s, err := scanSprint(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("sprint %s: %w", id, ErrNotFound)
	}
	return s, err
}

// ListSprints returns a project's sprints in creation order.
func (r *SQLiteSprintRepo) ListSprints(ctx context.Context, projectID string) ([]*domain.Sprint, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+sprintColumns+` FROM sprints WHERE project_id = ? ORDER BY seq, created_at`, projectID)
	if err != nil {
		return nil, fmt.Errorf("listing sprints: %w", err)
	}
	defer rows.Close()

	var sprints []*domain.Sprint
	for rows.Next() {
		s, err := scanSprint(rows)
		if err != nil {
			return nil, err
		}
		sprints = append(sprints, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating sprints: %w", err)
	}
	return sprints, nil
}

func (r *SQLiteSprintRepo) UpdateSprintStatus(ctx context.Context, id string, status domain.SprintStatus) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE sprints SET status = ?, updated_at = ? WHERE id = ?`, string(status), nowUTC(), id)
	if err != nil {
		return fmt.Errorf("updating sprint status: %w", err)
	}
	return requireAffected(res, "sprint", id)
}

func scanSprint(row rowScanner) (*domain.Sprint, error) {
	var s domain.Sprint
	var goals, status, createdAt, updatedAt string
	var start, end sql.NullString

	err := row.Scan(&s.ID, &s.ProjectID, &s.Name, &s.Description, &goals, &start, &end, &status, &createdAt, &updatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scanning sprint: %w", err)
	}
	s.Goals = decodeStrings(goals)
	s.StartDate = parseNullableTime(start, dateLayout)
	s.EndDate = parseNullableTime(end, dateLayout)
	s.Status = domain.SprintStatus(status)
	s.CreatedAt = parseTime(createdAt)
	s.UpdatedAt = parseTime(updatedAt)
	return &s, nil
}
