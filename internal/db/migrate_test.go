package db

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := OpenDB(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestMigrate_Idempotent(t *testing.T) {
	db := openTestDB(t)

	require.NoError(t, Migrate(db))
	require.NoError(t, Migrate(db))
}

func TestMigrate_CreatesAllTables(t *testing.T) {
	db := openTestDB(t)

	expected := []string{"projects", "project_members", "project_sequences", "sprints", "tasks", "notifications"}
	for _, table := range expected {
		var name string
		err := db.QueryRow(`SELECT name FROM sqlite_master WHERE type='table' AND name=?`, table).Scan(&name)
		require.NoError(t, err, "table %s should exist", table)
		assert.Equal(t, table, name)
	}
}

func TestMigrate_CreatesIndexes(t *testing.T) {
	db := openTestDB(t)

	expected := []string{
		"idx_projects_key",
		"idx_sprints_project",
		"idx_tasks_project",
		"idx_tasks_sprint",
		"idx_tasks_parent",
		"idx_tasks_status",
		"idx_notifications_recipient",
	}
	for _, idx := range expected {
		var name string
		err := db.QueryRow(`SELECT name FROM sqlite_master WHERE type='index' AND name=?`, idx).Scan(&name)
		require.NoError(t, err, "index %s should exist", idx)
	}
}

func TestMigrate_ForeignKeysEnabled(t *testing.T) {
	db := openTestDB(t)

	var fk int
	require.NoError(t, db.QueryRow(`PRAGMA foreign_keys`).Scan(&fk))
	assert.Equal(t, 1, fk)
}

func TestOpenDB_FileForeignKeysOnEveryConnection(t *testing.T) {
	db, err := OpenDB(filepath.Join(t.TempDir(), "nested", "taskflow.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	ctx := context.Background()
	var conns []*sql.Conn
	for range 3 {
		c, err := db.Conn(ctx)
		require.NoError(t, err)
		conns = append(conns, c)
	}
	for _, c := range conns {
		var fk int
		require.NoError(t, c.QueryRowContext(ctx, `PRAGMA foreign_keys`).Scan(&fk))
		assert.Equal(t, 1, fk)
		require.NoError(t, c.Close())
	}
}

func TestMigrate_StatusChecks(t *testing.T) {
	db := openTestDB(t)

	_, err := db.Exec(`INSERT INTO projects (id, key, name, created_at, updated_at) VALUES ('p1', 'P', 'P', 'x', 'x')`)
	require.NoError(t, err)

	_, err = db.Exec(`INSERT INTO tasks (id, project_id, title, status, created_at, updated_at)
		VALUES ('t1', 'p1', 'T', 'BLOCKED', 'x', 'x')`)
	assert.Error(t, err, "unknown task status must be rejected")

	_, err = db.Exec(`INSERT INTO sprints (id, project_id, name, status, created_at, updated_at)
		VALUES ('s1', 'p1', 'S', 'PAUSED', 'x', 'x')`)
	assert.Error(t, err, "unknown sprint status must be rejected")
}

func TestMigrate_DeletingSprintReturnsTasksToBacklog(t *testing.T) {
	db := openTestDB(t)

	stmts := []string{
		`INSERT INTO projects (id, key, name, created_at, updated_at) VALUES ('p1', 'P', 'P', 'x', 'x')`,
		`INSERT INTO sprints (id, project_id, name, created_at, updated_at) VALUES ('s1', 'p1', 'S', 'x', 'x')`,
		`INSERT INTO tasks (id, project_id, sprint_id, title, created_at, updated_at) VALUES ('t1', 'p1', 's1', 'T', 'x', 'x')`,
		`DELETE FROM sprints WHERE id = 's1'`,
	}
	for _, s := range stmts {
		_, err := db.Exec(s)
		require.NoError(t, err)
	}

	var sprintID sql.NullString
	require.NoError(t, db.QueryRow(`SELECT sprint_id FROM tasks WHERE id = 't1'`).Scan(&sprintID))
	assert.False(t, sprintID.Valid)
}
