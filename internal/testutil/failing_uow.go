package testutil

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/alexanderramin/trackline/internal/db"
)

// FailingExecUoW is a UnitOfWork that injects Err into the FailOn-th write of
// a transaction, so multi-step writes such as a reschedule followed by the
// parent rollup can be checked for rollback.
//
// Writes are counted from 1. When Match is set only statements containing it
// are counted. Reads always pass through.
type FailingExecUoW struct {
	DB     *sql.DB
	FailOn int
	Match  string
	Err    error

	// Executed lists every write statement the last transaction attempted.
	Executed []string
}

func (u *FailingExecUoW) WithinTx(ctx context.Context, fn func(ctx context.Context, tx db.DBTX) error) error {
	tx, err := u.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}

	u.Executed = nil
	wrapped := &failingExec{DBTX: tx, uow: u}
	if fnErr := fn(ctx, wrapped); fnErr != nil {
		_ = tx.Rollback()
		return fnErr
	}
	return tx.Commit()
}

type failingExec struct {
	db.DBTX
	uow   *FailingExecUoW
	count int
}

func (f *failingExec) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	f.uow.Executed = append(f.uow.Executed, strings.Join(strings.Fields(query), " "))
	if f.uow.Match == "" || strings.Contains(query, f.uow.Match) {
		f.count++
		if f.count == f.uow.FailOn {
			return nil, f.uow.Err
		}
	}
	return f.DBTX.ExecContext(ctx, query, args...)
}
