package service

import (
	"context"

	"foodaudit/internal/audit/models"
	"foodaudit/internal/checklist"
	id "foodaudit/pkg/domain"
	"foodaudit/pkg/requestcontext"
)

// Structural edit operations. All of them go through the aggregate's
// EditStructure gate, so each one fails with an invalid-state error once the
// audit has left pending.

func (s *Service) AddSection(ctx context.Context, auditID id.AuditID, title string) (*models.Audit, error) {
	return s.editStructure(ctx, auditID, func(c *checklist.Checklist) error {
		return c.AddSection(title)
	})
}

func (s *Service) RenameSection(ctx context.Context, auditID id.AuditID, sectionIndex int, title string) (*models.Audit, error) {
	return s.editStructure(ctx, auditID, func(c *checklist.Checklist) error {
		return c.RenameSection(sectionIndex, title)
	})
}

func (s *Service) RemoveSection(ctx context.Context, auditID id.AuditID, sectionIndex int) (*models.Audit, error) {
	return s.editStructure(ctx, auditID, func(c *checklist.Checklist) error {
		return c.RemoveSection(sectionIndex)
	})
}

func (s *Service) AddItem(ctx context.Context, auditID id.AuditID, sectionIndex int) (*models.Audit, error) {
	return s.editStructure(ctx, auditID, func(c *checklist.Checklist) error {
		return c.AddItem(sectionIndex)
	})
}

func (s *Service) RemoveItem(ctx context.Context, auditID id.AuditID, sectionIndex, itemIndex int) (*models.Audit, error) {
	return s.editStructure(ctx, auditID, func(c *checklist.Checklist) error {
		return c.RemoveItem(sectionIndex, itemIndex)
	})
}

func (s *Service) SetItemQuestion(ctx context.Context, auditID id.AuditID, sectionIndex, itemIndex int, question string) (*models.Audit, error) {
	return s.editStructure(ctx, auditID, func(c *checklist.Checklist) error {
		return c.SetItemQuestion(sectionIndex, itemIndex, question)
	})
}

func (s *Service) SetItemRequired(ctx context.Context, auditID id.AuditID, sectionIndex, itemIndex int, required bool) (*models.Audit, error) {
	return s.editStructure(ctx, auditID, func(c *checklist.Checklist) error {
		return c.SetItemRequired(sectionIndex, itemIndex, required)
	})
}

func (s *Service) SetItemType(ctx context.Context, auditID id.AuditID, sectionIndex, itemIndex int, itemType checklist.ItemType) (*models.Audit, error) {
	return s.editStructure(ctx, auditID, func(c *checklist.Checklist) error {
		return c.SetItemType(sectionIndex, itemIndex, itemType)
	})
}

func (s *Service) SetItemOptions(ctx context.Context, auditID id.AuditID, sectionIndex, itemIndex int, options []string) (*models.Audit, error) {
	return s.editStructure(ctx, auditID, func(c *checklist.Checklist) error {
		return c.SetItemOptions(sectionIndex, itemIndex, options)
	})
}

func (s *Service) editStructure(ctx context.Context, auditID id.AuditID, edit func(c *checklist.Checklist) error) (*models.Audit, error) {
	audit, err := s.load(ctx, auditID)
	if err != nil {
		return nil, err
	}
	if err := audit.EditStructure(requestcontext.Now(ctx).UTC(), edit); err != nil {
		return nil, err
	}
	if err := s.update(ctx, audit); err != nil {
		return nil, err
	}
	return audit, nil
}
