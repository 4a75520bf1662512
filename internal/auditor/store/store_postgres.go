package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"foodaudit/internal/auditor/models"
	id "foodaudit/pkg/domain"
	"foodaudit/pkg/platform/sentinel"
	"foodaudit/pkg/platform/tx"
)

type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// PostgresStore persists auditors in PostgreSQL. Assignments live in a uuid[]
// column written through pq.Array so the workload reads back in insertion
// order without a join.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) q(ctx context.Context) querier {
	if sqlTx, ok := tx.From(ctx); ok {
		return sqlTx
	}
	return s.db
}

const auditorColumns = `id, name, email, phone, role, assigned_audits, created_at, updated_at`

func (s *PostgresStore) Create(ctx context.Context, auditor *models.Auditor) error {
	query := `
		INSERT INTO auditors (` + auditorColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := s.q(ctx).ExecContext(ctx, query,
		auditor.ID.String(), auditor.Name, auditor.Email, auditor.Phone,
		auditor.Role, pq.Array(auditIDStrings(auditor.AssignedAudits)),
		auditor.CreatedAt, auditor.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return sentinel.ErrConflict
		}
		return fmt.Errorf("insert auditor: %w", err)
	}
	return nil
}

func (s *PostgresStore) Update(ctx context.Context, auditor *models.Auditor) error {
	query := `
		UPDATE auditors SET
			name = $2, email = $3, phone = $4, role = $5,
			assigned_audits = $6, updated_at = $7
		WHERE id = $1
	`
	res, err := s.q(ctx).ExecContext(ctx, query,
		auditor.ID.String(), auditor.Name, auditor.Email, auditor.Phone,
		auditor.Role, pq.Array(auditIDStrings(auditor.AssignedAudits)),
		auditor.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return sentinel.ErrConflict
		}
		return fmt.Errorf("update auditor: %w", err)
	}
	return requireOneRow(res)
}

func (s *PostgresStore) FindByID(ctx context.Context, auditorID id.AuditorID) (*models.Auditor, error) {
	row := s.q(ctx).QueryRowContext(ctx,
		`SELECT `+auditorColumns+` FROM auditors WHERE id = $1`, auditorID.String())
	return s.scanOne(row)
}

func (s *PostgresStore) FindByEmail(ctx context.Context, email string) (*models.Auditor, error) {
	row := s.q(ctx).QueryRowContext(ctx,
		`SELECT `+auditorColumns+` FROM auditors WHERE LOWER(email) = LOWER($1)`, email)
	return s.scanOne(row)
}

func (s *PostgresStore) List(ctx context.Context) ([]*models.Auditor, error) {
	rows, err := s.q(ctx).QueryContext(ctx,
		`SELECT `+auditorColumns+` FROM auditors ORDER BY name, id`)
	if err != nil {
		return nil, fmt.Errorf("list auditors: %w", err)
	}
	defer rows.Close()

	auditors := make([]*models.Auditor, 0)
	for rows.Next() {
		auditor, err := scanAuditor(rows)
		if err != nil {
			return nil, fmt.Errorf("scan auditor: %w", err)
		}
		auditors = append(auditors, auditor)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate auditors: %w", err)
	}
	return auditors, nil
}

func (s *PostgresStore) Delete(ctx context.Context, auditorID id.AuditorID) error {
	res, err := s.q(ctx).ExecContext(ctx, `DELETE FROM auditors WHERE id = $1`, auditorID.String())
	if err != nil {
		return fmt.Errorf("delete auditor: %w", err)
	}
	return requireOneRow(res)
}

func (s *PostgresStore) scanOne(row *sql.Row) (*models.Auditor, error) {
	auditor, err := scanAuditor(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find auditor: %w", err)
	}
	return auditor, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAuditor(row rowScanner) (*models.Auditor, error) {
	var (
		auditor  models.Auditor
		rawID    string
		assigned []string
	)
	err := row.Scan(
		&rawID, &auditor.Name, &auditor.Email, &auditor.Phone, &auditor.Role,
		pq.Array(&assigned), &auditor.CreatedAt, &auditor.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	auditor.ID, err = id.ParseAuditorID(rawID)
	if err != nil {
		return nil, fmt.Errorf("decode auditor id: %w", err)
	}
	auditor.AssignedAudits = make([]id.AuditID, 0, len(assigned))
	for _, raw := range assigned {
		auditID, err := id.ParseAuditID(raw)
		if err != nil {
			return nil, fmt.Errorf("decode assigned audit id: %w", err)
		}
		auditor.AssignedAudits = append(auditor.AssignedAudits, auditID)
	}
	auditor.CreatedAt = auditor.CreatedAt.UTC()
	auditor.UpdatedAt = auditor.UpdatedAt.UTC()
	return &auditor, nil
}

func auditIDStrings(auditIDs []id.AuditID) []string {
	out := make([]string, 0, len(auditIDs))
	for _, auditID := range auditIDs {
		out = append(out, auditID.String())
	}
	return out
}

func requireOneRow(res sql.Result) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}
