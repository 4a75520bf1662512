package checklist

import (
	"context"
	"strings"
	"sync"
	"time"

	id "foodaudit/pkg/domain"
	dErrors "foodaudit/pkg/domain-errors"
	"foodaudit/pkg/platform/sentinel"
)

// Template is a reusable checklist definition. Instantiating one into an
// audit copies the tree with fresh ids so runs never share state.
type Template struct {
	ID          id.TemplateID `json:"id"`
	Title       string        `json:"title"`
	Description string        `json:"description,omitempty"`
	Sections    Checklist     `json:"sections"`
	Active      bool          `json:"active"`
	CreatedBy   id.UserID     `json:"created_by,omitempty"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
}

// NewTemplate validates and builds a template.
func NewTemplate(templateID id.TemplateID, title string, sections Checklist, createdBy id.UserID, now time.Time) (*Template, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, dErrors.New(dErrors.CodeValidation, "template title must not be empty")
	}
	if err := sections.Validate(); err != nil {
		return nil, err
	}
	return &Template{
		ID:        templateID,
		Title:     title,
		Sections:  sections.Clone(),
		Active:    true,
		CreatedBy: createdBy,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// Instantiate produces a fresh checklist for a new audit run: a deep copy
// with new section and item ids and no responses.
func (t *Template) Instantiate() Checklist {
	out := t.Sections.Clone()
	for si := range out {
		out[si].ID = id.NewSectionID()
		for ii := range out[si].Items {
			out[si].Items[ii].ID = id.NewItemID()
			out[si].Items[ii].Response = nil
			out[si].Items[ii].Notes = ""
		}
	}
	return out
}

// TemplateStore persists templates.
type TemplateStore interface {
	Create(ctx context.Context, tpl *Template) error
	FindByID(ctx context.Context, templateID id.TemplateID) (*Template, error)
	List(ctx context.Context) ([]*Template, error)
}

// InMemoryTemplates is a map-backed TemplateStore for tests and development.
type InMemoryTemplates struct {
	mu        sync.RWMutex
	templates map[id.TemplateID]*Template
}

func NewInMemoryTemplates() *InMemoryTemplates {
	return &InMemoryTemplates{templates: make(map[id.TemplateID]*Template)}
}

func (s *InMemoryTemplates) Create(_ context.Context, tpl *Template) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.templates[tpl.ID]; exists {
		return sentinel.ErrConflict
	}
	cp := *tpl
	cp.Sections = tpl.Sections.Clone()
	s.templates[tpl.ID] = &cp
	return nil
}

func (s *InMemoryTemplates) FindByID(_ context.Context, templateID id.TemplateID) (*Template, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	tpl, ok := s.templates[templateID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	cp := *tpl
	cp.Sections = tpl.Sections.Clone()
	return &cp, nil
}

func (s *InMemoryTemplates) List(_ context.Context) ([]*Template, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*Template, 0, len(s.templates))
	for _, tpl := range s.templates {
		cp := *tpl
		cp.Sections = tpl.Sections.Clone()
		out = append(out, &cp)
	}
	return out, nil
}
