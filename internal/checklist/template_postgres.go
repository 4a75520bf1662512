package checklist

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/lib/pq"

	id "foodaudit/pkg/domain"
	"foodaudit/pkg/platform/sentinel"
)

// PostgresTemplates persists templates in PostgreSQL. Like the audit store,
// the section tree is one JSONB document.
type PostgresTemplates struct {
	db *sql.DB
}

func NewPostgresTemplates(db *sql.DB) *PostgresTemplates {
	return &PostgresTemplates{db: db}
}

const templateColumns = `id, title, description, sections, active, created_by, created_at, updated_at`

func (s *PostgresTemplates) Create(ctx context.Context, tpl *Template) error {
	sections, err := json.Marshal(tpl.Sections)
	if err != nil {
		return fmt.Errorf("encode sections: %w", err)
	}
	var createdBy any
	if !tpl.CreatedBy.IsNil() {
		createdBy = tpl.CreatedBy.String()
	}
	query := `
		INSERT INTO templates (` + templateColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err = s.db.ExecContext(ctx, query,
		tpl.ID.String(), tpl.Title, tpl.Description, sections,
		tpl.Active, createdBy, tpl.CreatedAt, tpl.UpdatedAt,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return sentinel.ErrConflict
		}
		return fmt.Errorf("insert template: %w", err)
	}
	return nil
}

func (s *PostgresTemplates) FindByID(ctx context.Context, templateID id.TemplateID) (*Template, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+templateColumns+` FROM templates WHERE id = $1`, templateID.String())
	tpl, err := scanTemplate(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find template: %w", err)
	}
	return tpl, nil
}

func (s *PostgresTemplates) List(ctx context.Context) ([]*Template, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+templateColumns+` FROM templates ORDER BY created_at DESC, id`)
	if err != nil {
		return nil, fmt.Errorf("list templates: %w", err)
	}
	defer rows.Close()
	templates := make([]*Template, 0)
	for rows.Next() {
		tpl, err := scanTemplate(rows)
		if err != nil {
			return nil, fmt.Errorf("scan template: %w", err)
		}
		templates = append(templates, tpl)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate templates: %w", err)
	}
	return templates, nil
}

func scanTemplate(row interface{ Scan(dest ...any) error }) (*Template, error) {
	var (
		tpl       Template
		rawID     string
		sections  []byte
		createdBy sql.NullString
	)
	err := row.Scan(&rawID, &tpl.Title, &tpl.Description, &sections,
		&tpl.Active, &createdBy, &tpl.CreatedAt, &tpl.UpdatedAt)
	if err != nil {
		return nil, err
	}
	tpl.ID, err = id.ParseTemplateID(rawID)
	if err != nil {
		return nil, fmt.Errorf("decode template id: %w", err)
	}
	if createdBy.Valid {
		parsed, err := id.ParseUserID(createdBy.String)
		if err != nil {
			return nil, fmt.Errorf("decode creator id: %w", err)
		}
		tpl.CreatedBy = parsed
	}
	if err := json.Unmarshal(sections, &tpl.Sections); err != nil {
		return nil, fmt.Errorf("decode sections: %w", err)
	}
	tpl.CreatedAt = tpl.CreatedAt.UTC()
	tpl.UpdatedAt = tpl.UpdatedAt.UTC()
	return &tpl, nil
}
