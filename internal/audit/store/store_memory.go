package store

import (
	"context"
	"sort"
	"sync"

	"foodaudit/internal/audit/models"
	id "foodaudit/pkg/domain"
	"foodaudit/pkg/platform/sentinel"
)

// InMemoryStore keeps audits in a map guarded by a RWMutex. Aggregates are
// cloned on the way in and out so callers never share state with the store.
type InMemoryStore struct {
	mu     sync.RWMutex
	audits map[id.AuditID]*models.Audit
}

func NewMemory() *InMemoryStore {
	return &InMemoryStore{audits: make(map[id.AuditID]*models.Audit)}
}

func (s *InMemoryStore) Create(_ context.Context, audit *models.Audit) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.audits[audit.ID]; exists {
		return sentinel.ErrConflict
	}
	s.audits[audit.ID] = audit.Clone()
	return nil
}

func (s *InMemoryStore) Update(_ context.Context, audit *models.Audit) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.audits[audit.ID]; !exists {
		return sentinel.ErrNotFound
	}
	s.audits[audit.ID] = audit.Clone()
	return nil
}

func (s *InMemoryStore) FindByID(_ context.Context, auditID id.AuditID) (*models.Audit, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	audit, exists := s.audits[auditID]
	if !exists {
		return nil, sentinel.ErrNotFound
	}
	return audit.Clone(), nil
}

func (s *InMemoryStore) List(_ context.Context, filter Filter) ([]*models.Audit, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	results := make([]*models.Audit, 0, len(s.audits))
	for _, audit := range s.audits {
		if filter.Status != "" && audit.Status != filter.Status {
			continue
		}
		if filter.Location != "" && audit.Location != filter.Location {
			continue
		}
		results = append(results, audit.Clone())
	}
	sortAudits(results)
	return results, nil
}

func (s *InMemoryStore) ListByAuditor(_ context.Context, auditorID id.AuditorID) ([]*models.Audit, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var results []*models.Audit
	for _, audit := range s.audits {
		if audit.AuditorID != nil && *audit.AuditorID == auditorID {
			results = append(results, audit.Clone())
		}
	}
	sortAudits(results)
	return results, nil
}

func (s *InMemoryStore) Delete(_ context.Context, auditID id.AuditID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.audits[auditID]; !exists {
		return sentinel.ErrNotFound
	}
	delete(s.audits, auditID)
	return nil
}

// sortAudits orders newest-first with ID as tiebreaker so list output is
// stable across calls.
func sortAudits(audits []*models.Audit) {
	sort.Slice(audits, func(i, j int) bool {
		if !audits[i].CreatedAt.Equal(audits[j].CreatedAt) {
			return audits[i].CreatedAt.After(audits[j].CreatedAt)
		}
		return audits[i].ID.String() < audits[j].ID.String()
	})
}
