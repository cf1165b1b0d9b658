package service

import (
	"context"

	"github.com/alexanderramin/taskflow/internal/db"
	"github.com/alexanderramin/taskflow/internal/repository"
)

type sqliteStoreTx struct {
	uow db.UnitOfWork
}

// NewSQLiteStoreTx binds fresh SQLite repositories to each transaction.
func NewSQLiteStoreTx(uow db.UnitOfWork) StoreTx {
	return &sqliteStoreTx{uow: uow}
}

func (s *sqliteStoreTx) WithinTx(ctx context.Context, fn func(ctx context.Context, sprints repository.SprintStore, tasks repository.TaskStore) error) error {
	return s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		return fn(ctx, repository.NewSQLiteSprintRepo(tx), repository.NewSQLiteTaskRepo(tx))
	})
}

type directStoreTx struct {
	sprints repository.SprintStore
	tasks   repository.TaskStore
}

// NewDirectStoreTx runs fn against the given stores without a transaction.
// Remote services cannot roll back, so a failure part way leaves the writes
// already made.
func NewDirectStoreTx(sprints repository.SprintStore, tasks repository.TaskStore) StoreTx {
	return &directStoreTx{sprints: sprints, tasks: tasks}
}

func (s *directStoreTx) WithinTx(ctx context.Context, fn func(ctx context.Context, sprints repository.SprintStore, tasks repository.TaskStore) error) error {
	return fn(ctx, s.sprints, s.tasks)
}
