package service

import (
	"context"
	"errors"

	"foodaudit/internal/checklist"
	id "foodaudit/pkg/domain"
	dErrors "foodaudit/pkg/domain-errors"
	"foodaudit/pkg/platform/sentinel"
	"foodaudit/pkg/requestcontext"
)

// CreateTemplate registers a reusable checklist definition.
func (s *Service) CreateTemplate(ctx context.Context, title string, sections checklist.Checklist) (*checklist.Template, error) {
	if s.templates == nil {
		return nil, dErrors.New(dErrors.CodeBadRequest, "templates are not configured")
	}
	tpl, err := checklist.NewTemplate(id.NewTemplateID(), title, sections,
		requestcontext.UserID(ctx), requestcontext.Now(ctx).UTC())
	if err != nil {
		return nil, err
	}
	if err := s.templates.Create(ctx, tpl); err != nil {
		if errors.Is(err, sentinel.ErrConflict) {
			return nil, dErrors.New(dErrors.CodeConflict, "template already exists")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create template")
	}
	return tpl, nil
}

func (s *Service) GetTemplate(ctx context.Context, templateID id.TemplateID) (*checklist.Template, error) {
	if s.templates == nil {
		return nil, dErrors.New(dErrors.CodeBadRequest, "templates are not configured")
	}
	tpl, err := s.templates.FindByID(ctx, templateID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "template not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load template")
	}
	return tpl, nil
}

func (s *Service) ListTemplates(ctx context.Context) ([]*checklist.Template, error) {
	if s.templates == nil {
		return nil, dErrors.New(dErrors.CodeBadRequest, "templates are not configured")
	}
	templates, err := s.templates.List(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list templates")
	}
	return templates, nil
}
