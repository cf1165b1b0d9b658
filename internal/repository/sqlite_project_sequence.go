package repository

import (
	"context"
	"fmt"

	"github.com/alexanderramin/taskflow/internal/db"
)

// SQLiteProjectSequenceRepo numbers tasks within a project for short keys
// such as SHOP-12.
type SQLiteProjectSequenceRepo struct {
	db db.DBTX
}

func NewSQLiteProjectSequenceRepo(conn db.DBTX) *SQLiteProjectSequenceRepo {
	return &SQLiteProjectSequenceRepo{db: conn}
}

// NextProjectSeq allocates the next task number in a single upsert. A
// project without a counter row starts after its highest existing task seq.
func (r *SQLiteProjectSequenceRepo) NextProjectSeq(ctx context.Context, projectID string) (int, error) {
	const q = `INSERT INTO project_sequences (project_id, last_seq)
		SELECT ?, COALESCE(MAX(seq), 0) + 1 FROM tasks WHERE project_id = ?
		ON CONFLICT(project_id) DO UPDATE SET last_seq = last_seq + 1
		RETURNING last_seq`

	var seq int
	if err := r.db.QueryRowContext(ctx, q, projectID, projectID).Scan(&seq); err != nil {
		return 0, fmt.Errorf("allocating task number for project %s: %w", projectID, err)
	}
	return seq, nil
}
