package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"foodaudit/internal/audit/models"
	"foodaudit/internal/checklist"
	id "foodaudit/pkg/domain"
	"foodaudit/pkg/platform/sentinel"
	"foodaudit/pkg/platform/tx"
)

// querier is the subset of database/sql shared by *sql.DB and *sql.Tx. Stores
// pick the transaction from context when a Runner opened one.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// PostgresStore persists audits in PostgreSQL. The checklist tree lives in a
// JSONB column: sections are read and written as one document because the
// aggregate is the unit of consistency, never a single item row.
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

const auditColumns = `id, title, description, location, due_date, created_at, updated_at, submitted_at, status, auditor_id, sections, notes, created_by`

func (s *PostgresStore) Create(ctx context.Context, audit *models.Audit) error {
	sections, err := json.Marshal(audit.Sections)
	if err != nil {
		return fmt.Errorf("encode sections: %w", err)
	}
	query := `
		INSERT INTO audits (` + auditColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`
	_, err = s.q(ctx).ExecContext(ctx, query,
		audit.ID.String(), audit.Title, audit.Description, audit.Location,
		audit.DueDate, audit.CreatedAt, audit.UpdatedAt, audit.SubmittedAt,
		string(audit.Status), auditorIDValue(audit.AuditorID), sections,
		audit.Notes, createdByValue(audit.CreatedBy),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return sentinel.ErrConflict
		}
		return fmt.Errorf("insert audit: %w", err)
	}
	return nil
}

func (s *PostgresStore) Update(ctx context.Context, audit *models.Audit) error {
	sections, err := json.Marshal(audit.Sections)
	if err != nil {
		return fmt.Errorf("encode sections: %w", err)
	}
	query := `
		UPDATE audits SET
			title = $2, description = $3, location = $4, due_date = $5,
			updated_at = $6, submitted_at = $7, status = $8, auditor_id = $9,
			sections = $10, notes = $11
		WHERE id = $1
	`
	res, err := s.q(ctx).ExecContext(ctx, query,
		audit.ID.String(), audit.Title, audit.Description, audit.Location,
		audit.DueDate, audit.UpdatedAt, audit.SubmittedAt, string(audit.Status),
		auditorIDValue(audit.AuditorID), sections, audit.Notes,
	)
	if err != nil {
		return fmt.Errorf("update audit: %w", err)
	}
	return requireOneRow(res)
}

func (s *PostgresStore) FindByID(ctx context.Context, auditID id.AuditID) (*models.Audit, error) {
	row := s.q(ctx).QueryRowContext(ctx,
		`SELECT `+auditColumns+` FROM audits WHERE id = $1`, auditID.String())
	audit, err := scanAudit(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find audit: %w", err)
	}
	return audit, nil
}

func (s *PostgresStore) List(ctx context.Context, filter Filter) ([]*models.Audit, error) {
	query := `SELECT ` + auditColumns + ` FROM audits WHERE ($1 = '' OR status = $1) AND ($2 = '' OR location = $2) ORDER BY created_at DESC, id`
	rows, err := s.q(ctx).QueryContext(ctx, query, string(filter.Status), filter.Location)
	if err != nil {
		return nil, fmt.Errorf("list audits: %w", err)
	}
	defer rows.Close()
	return collectAudits(rows)
}

func (s *PostgresStore) ListByAuditor(ctx context.Context, auditorID id.AuditorID) ([]*models.Audit, error) {
	query := `SELECT ` + auditColumns + ` FROM audits WHERE auditor_id = $1 ORDER BY created_at DESC, id`
	rows, err := s.q(ctx).QueryContext(ctx, query, auditorID.String())
	if err != nil {
		return nil, fmt.Errorf("list audits by auditor: %w", err)
	}
	defer rows.Close()
	return collectAudits(rows)
}

func (s *PostgresStore) Delete(ctx context.Context, auditID id.AuditID) error {
	res, err := s.q(ctx).ExecContext(ctx, `DELETE FROM audits WHERE id = $1`, auditID.String())
	if err != nil {
		return fmt.Errorf("delete audit: %w", err)
	}
	return requireOneRow(res)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAudit(row rowScanner) (*models.Audit, error) {
	var (
		audit       models.Audit
		rawID       string
		submittedAt sql.NullTime
		auditorID   sql.NullString
		createdBy   sql.NullString
		sections    []byte
		status      string
	)
	err := row.Scan(
		&rawID, &audit.Title, &audit.Description, &audit.Location,
		&audit.DueDate, &audit.CreatedAt, &audit.UpdatedAt, &submittedAt,
		&status, &auditorID, &sections, &audit.Notes, &createdBy,
	)
	if err != nil {
		return nil, err
	}
	audit.ID, err = id.ParseAuditID(rawID)
	if err != nil {
		return nil, fmt.Errorf("decode audit id: %w", err)
	}
	audit.Status = models.Status(status)
	if submittedAt.Valid {
		t := submittedAt.Time.UTC()
		audit.SubmittedAt = &t
	}
	if auditorID.Valid {
		parsed, err := id.ParseAuditorID(auditorID.String)
		if err != nil {
			return nil, fmt.Errorf("decode auditor id: %w", err)
		}
		audit.AuditorID = &parsed
	}
	if createdBy.Valid {
		parsed, err := id.ParseUserID(createdBy.String)
		if err != nil {
			return nil, fmt.Errorf("decode creator id: %w", err)
		}
		audit.CreatedBy = parsed
	}
	var tree checklist.Checklist
	if err := json.Unmarshal(sections, &tree); err != nil {
		return nil, fmt.Errorf("decode sections: %w", err)
	}
	audit.Sections = tree
	audit.DueDate = audit.DueDate.UTC()
	audit.CreatedAt = audit.CreatedAt.UTC()
	audit.UpdatedAt = audit.UpdatedAt.UTC()
	return &audit, nil
}

func collectAudits(rows *sql.Rows) ([]*models.Audit, error) {
	audits := make([]*models.Audit, 0)
	for rows.Next() {
		audit, err := scanAudit(rows)
		if err != nil {
			return nil, fmt.Errorf("scan audit: %w", err)
		}
		audits = append(audits, audit)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate audits: %w", err)
	}
	return audits, nil
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

func auditorIDValue(auditorID *id.AuditorID) any {
	if auditorID == nil || auditorID.IsNil() {
		return nil
	}
	return auditorID.String()
}

func createdByValue(userID id.UserID) any {
	if userID.IsNil() {
		return nil
	}
	return userID.String()
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}
