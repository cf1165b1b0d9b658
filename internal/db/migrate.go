package db

import (
	"database/sql"
	"fmt"
	"strings"
)

// Migrate applies every schema statement. Statements are idempotent so the
// whole list runs on each open.
func Migrate(db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			// Re-running an ALTER TABLE ADD COLUMN is expected.
			if strings.Contains(err.Error(), "duplicate column name") {
				continue
			}
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	return nil
}

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS projects (
		id              TEXT PRIMARY KEY,
		key             TEXT NOT NULL,
		name            TEXT NOT NULL,
		description     TEXT NOT NULL DEFAULT '',
		project_type    TEXT NOT NULL DEFAULT '',
		owner_id        TEXT NOT NULL DEFAULT '',
		scrum_master_id TEXT NOT NULL DEFAULT '',
		start_date      TEXT,
		deadline        TEXT,
		status          TEXT NOT NULL DEFAULT 'ACTIVE'
		                CHECK(status IN ('ACTIVE','COMPLETED','ARCHIVED')),
		ai_generated    INTEGER NOT NULL DEFAULT 0,
		recommendations TEXT NOT NULL DEFAULT '[]',
		created_at      TEXT NOT NULL,
		updated_at      TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_projects_key ON projects(key)`,

	`CREATE TABLE IF NOT EXISTS project_members (
		project_id      TEXT NOT NULL REFERENCES projects(id) ON DELETE CASCADE,
		user_id         TEXT NOT NULL,
		display_name    TEXT NOT NULL DEFAULT '',
		email           TEXT NOT NULL DEFAULT '',
		role_in_project TEXT NOT NULL DEFAULT '',
		joined_at       TEXT NOT NULL,
		PRIMARY KEY (project_id, user_id)
	)`,

	`CREATE TABLE IF NOT EXISTS project_sequences (
		project_id TEXT PRIMARY KEY REFERENCES projects(id) ON DELETE CASCADE,
		last_seq   INTEGER NOT NULL CHECK(last_seq > 0)
	)`,

	`CREATE TABLE IF NOT EXISTS sprints (
		id          TEXT PRIMARY KEY,
		project_id  TEXT NOT NULL REFERENCES projects(id) ON DELETE CASCADE,
		name        TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		goals       TEXT NOT NULL DEFAULT '[]',
		start_date  TEXT,
		end_date    TEXT,
		status      TEXT NOT NULL DEFAULT 'NOT_STARTED'
		            CHECK(status IN ('NOT_STARTED','ACTIVE','COMPLETED','ARCHIVED')),
		seq         INTEGER NOT NULL DEFAULT 0,
		created_at  TEXT NOT NULL,
		updated_at  TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_sprints_project ON sprints(project_id)`,

	`CREATE TABLE IF NOT EXISTS tasks (
		id             TEXT PRIMARY KEY,
		project_id     TEXT NOT NULL REFERENCES projects(id) ON DELETE CASCADE,
		sprint_id      TEXT REFERENCES sprints(id) ON DELETE SET NULL,
		parent_task_id TEXT REFERENCES tasks(id) ON DELETE CASCADE,
		seq            INTEGER NOT NULL DEFAULT 0,
		short_key      TEXT NOT NULL DEFAULT '',
		title          TEXT NOT NULL,
		description    TEXT NOT NULL DEFAULT '',
		status         TEXT NOT NULL DEFAULT 'TODO'
		               CHECK(status IN ('TODO','IN_PROGRESS','REVIEW','DONE')),
		priority       TEXT NOT NULL DEFAULT 'MEDIUM',
		label          TEXT NOT NULL DEFAULT 'TASK',
		story_points   INTEGER NOT NULL DEFAULT 0,
		assignee_id    TEXT NOT NULL DEFAULT '',
		created_by     TEXT NOT NULL DEFAULT '',
		due_date       TEXT,
		completed_at   TEXT,
		created_at     TEXT NOT NULL,
		updated_at     TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_tasks_project ON tasks(project_id)`,
	`CREATE INDEX IF NOT EXISTS idx_tasks_sprint ON tasks(sprint_id)`,
	`CREATE INDEX IF NOT EXISTS idx_tasks_parent ON tasks(parent_task_id)`,
	`CREATE INDEX IF NOT EXISTS idx_tasks_status ON tasks(status)`,

	`CREATE TABLE IF NOT EXISTS notifications (
		id                TEXT PRIMARY KEY,
		type              TEXT NOT NULL,
		title             TEXT NOT NULL,
		message           TEXT NOT NULL,
		recipient_user_id TEXT NOT NULL,
		actor_user_id     TEXT NOT NULL DEFAULT '',
		project_id        TEXT NOT NULL DEFAULT '',
		task_id           TEXT NOT NULL DEFAULT '',
		sprint_id         TEXT NOT NULL DEFAULT '',
		is_read           INTEGER NOT NULL DEFAULT 0,
		created_at        TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_notifications_recipient ON notifications(recipient_user_id)`,
}
