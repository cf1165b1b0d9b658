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

// SQLiteProjectRepo stores projects and their members.
type SQLiteProjectRepo struct {
	db db.DBTX
}

func NewSQLiteProjectRepo(conn db.DBTX) *SQLiteProjectRepo {
	return &SQLiteProjectRepo{db: conn}
}

const projectColumns = `id, key, name, description, project_type, owner_id, scrum_master_id,
	start_date, deadline, status, ai_generated, recommendations, created_at, updated_at`

func (r *SQLiteProjectRepo) CreateProject(ctx context.Context, p *domain.Project) (string, error) {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	if p.Key == "" {
		p.Key = domain.ProjectKey(p.Name)
	}
	if p.Status == "" {
		p.Status = domain.ProjectActive
	}
	now := time.Now().UTC()
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now
	}
	p.UpdatedAt = now

	query := `INSERT INTO projects (` + projectColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		p.ID,
		p.Key,
		p.Name,
		p.Description,
		p.ProjectType,
		p.OwnerID,
		p.ScrumMasterID,
		nullableTimeToString(p.StartDate, dateLayout),
		nullableTimeToString(p.Deadline, dateLayout),
		string(p.Status),
		boolToInt(p.AIGenerated),
		encodeStrings(p.Recommendations),
		formatTime(p.CreatedAt),
		formatTime(p.UpdatedAt),
	)
	if err != nil {
		return "", fmt.Errorf("inserting project: %w", err)
	}
	return p.ID, nil
}

func (r *SQLiteProjectRepo) GetProject(ctx context.Context, id string) (*domain.Project, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+projectColumns+` FROM projects WHERE id = ?`, id)
	p, err := scanProject(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("project %s: %w", id, ErrNotFound)
	}
	return p, err
}

// GetByKey looks a project up by its key, case-insensitively.
func (r *SQLiteProjectRepo) GetByKey(ctx context.Context, key string) (*domain.Project, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+projectColumns+` FROM projects WHERE UPPER(key) = UPPER(?) ORDER BY created_at LIMIT 1`, key)
	p, err := scanProject(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("project %s: %w", key, ErrNotFound)
	}
	return p, err
}

func (r *SQLiteProjectRepo) ListProjects(ctx context.Context) ([]*domain.Project, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+projectColumns+` FROM projects ORDER BY created_at, name`)
	if err != nil {
		return nil, fmt.Errorf("listing projects: %w", err)
	}
	defer rows.Close()

	var projects []*domain.Project
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, err
		}
		projects = append(projects, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating projects: %w", err)
	}
	return projects, nil
}

func (r *SQLiteProjectRepo) AddMember(ctx context.Context, projectID string, m domain.Member) error {
	query := `INSERT INTO project_members (project_id, user_id, display_name, email, role_in_project, joined_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(project_id, user_id) DO UPDATE SET
			display_name = excluded.display_name,
			email = excluded.email,
			role_in_project = excluded.role_in_project`
	_, err := r.db.ExecContext(ctx, query, projectID, m.UserID, m.DisplayName, m.Email, m.Role, nowUTC())
	if err != nil {
		return fmt.Errorf("adding member %s: %w", m.UserID, err)
	}
	return nil
}

func (r *SQLiteProjectRepo) ListMembers(ctx context.Context, projectID string) ([]domain.Member, error) {
	memberships, err := r.ListMemberships(ctx, projectID)
	if err != nil {
		return nil, err
	}
	members := make([]domain.Member, 0, len(memberships))
	for _, pm := range memberships {
		members = append(members, pm.Member)
	}
	return members, nil
}

// ListMemberships returns a project's members in join order.
func (r *SQLiteProjectRepo) ListMemberships(ctx context.Context, projectID string) ([]domain.ProjectMember, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT user_id, display_name, email, role_in_project, joined_at FROM project_members
		WHERE project_id = ? ORDER BY joined_at, rowid`, projectID)
	if err != nil {
		return nil, fmt.Errorf("listing members: %w", err)
	}
	defer rows.Close()

	var out []domain.ProjectMember
	for rows.Next() {
		pm := domain.ProjectMember{ProjectID: projectID}
		var joined string
		if err := rows.Scan(&pm.UserID, &pm.DisplayName, &pm.Email, &pm.Role, &joined); err != nil {
			return nil, fmt.Errorf("scanning member row: %w", err)
		}
		pm.JoinedAt = parseTime(joined)
		out = append(out, pm)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating members: %w", err)
	}
	return out, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProject(row rowScanner) (*domain.Project, error) {
	var p domain.Project
	var status, recs, createdAt, updatedAt string
	var start, deadline sql.NullString
	var ai int

	err := row.Scan(
		&p.ID, &p.Key, &p.Name, &p.Description, &p.ProjectType, &p.OwnerID, &p.ScrumMasterID,
		&start, &deadline, &status, &ai, &recs, &createdAt, &updatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scanning project: %w", err)
	}

	p.Status = domain.ProjectStatus(status)
	p.StartDate = parseNullableTime(start, dateLayout)
	p.Deadline = parseNullableTime(deadline, dateLayout)
	p.AIGenerated = ai != 0
	p.Recommendations = decodeStrings(recs)
	p.CreatedAt = parseTime(createdAt)
	p.UpdatedAt = parseTime(updatedAt)
	return &p, nil
}

func requireAffected(res sql.Result, kind, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking %s update: %w", kind, err)
	}
	if n == 0 {
		return fmt.Errorf("%s %s: %w", kind, id, ErrNotFound)
	}
	return nil
}
