package main

import (
	"context"
	"database/sql"

	"foodaudit/internal/platform/postgres"
)

// applySchema brings the database up to date. Every statement is idempotent
// so this runs safely on each deploy.
func applySchema(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, postgres.Schema)
	return err
}
