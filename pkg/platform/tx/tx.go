// Package tx carries a SQL transaction through context and provides Runner,
// the "apply both or neither" boundary the auditor directory requires.
package tx

import (
	"context"
	"database/sql"
	"errors"
	"sync"
	"time"

	dErrors "foodaudit/pkg/domain-errors"
)

type ctxKey struct{}

var txKey = ctxKey{}

// WithTx stores a SQL transaction in context for downstream store usage.
func WithTx(ctx context.Context, tx *sql.Tx) context.Context {
	if tx == nil {
		return ctx
	}
	return context.WithValue(ctx, txKey, tx)
}

// From extracts a SQL transaction from context if present.
func From(ctx context.Context) (*sql.Tx, bool) {
	tx, ok := ctx.Value(txKey).(*sql.Tx)
	return tx, ok
}

// Runner executes a function inside a transactional boundary. Implementations
// may wrap a database transaction or, in-memory, a coarse lock.
type Runner interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// defaultTxTimeout bounds how long a boundary may hold its lock or
// transaction when the caller supplied no deadline.
const defaultTxTimeout = 5 * time.Second

// NewMemoryRunner returns a Runner backed by a single mutex. It provides
// mutual exclusion, not atomicity: nothing is rolled back when fn fails
// partway, so earlier writes stay visible. The SQL runner is the only atomic
// boundary; in memory mode the directory's drift detection repairs a
// half-applied assignment on a later pass.
func NewMemoryRunner() Runner { return &memoryRunner{} }

type memoryRunner struct {
	mu sync.Mutex
}

func (r *memoryRunner) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if err := ctx.Err(); err != nil {
		return dErrors.Wrap(err, dErrors.CodeTimeout, "transaction aborted: context cancelled")
	}
	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, defaultTxTimeout)
		defer cancel()
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return dErrors.Wrap(err, dErrors.CodeTimeout, "transaction aborted: context cancelled")
	}
	return fn(ctx)
}

// NewSQLRunner returns a Runner that opens a database transaction and places
// it in the context so stores execute against it.
func NewSQLRunner(db *sql.DB) Runner { return &sqlRunner{db: db} }

type sqlRunner struct {
	db *sql.DB
}

func (r *sqlRunner) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	sqlTx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "begin transaction")
	}

	if err := fn(WithTx(ctx, sqlTx)); err != nil {
		// The fn error keeps its domain code even when rollback fails; the
		// rollback failure rides along in the chain.
		if rbErr := sqlTx.Rollback(); rbErr != nil {
			return errors.Join(err, dErrors.Wrap(rbErr, dErrors.CodeInternal, "rollback failed"))
		}
		return err
	}
	if err := sqlTx.Commit(); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "commit transaction")
	}
	return nil
}
