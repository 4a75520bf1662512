package store

import (
	"context"
	"sort"
	"strings"
	"sync"

	"foodaudit/internal/auditor/models"
	id "foodaudit/pkg/domain"
	"foodaudit/pkg/platform/sentinel"
)

// InMemoryStore keeps directory entries in a map guarded by a RWMutex.
type InMemoryStore struct {
	mu       sync.RWMutex
	auditors map[id.AuditorID]*models.Auditor
}

func NewMemory() *InMemoryStore {
	return &InMemoryStore{auditors: make(map[id.AuditorID]*models.Auditor)}
}

func (s *InMemoryStore) Create(_ context.Context, auditor *models.Auditor) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.auditors[auditor.ID]; exists {
		return sentinel.ErrConflict
	}
	for _, existing := range s.auditors {
		if strings.EqualFold(existing.Email, auditor.Email) {
			return sentinel.ErrConflict
		}
	}
	s.auditors[auditor.ID] = auditor.Clone()
	return nil
}

func (s *InMemoryStore) Update(_ context.Context, auditor *models.Auditor) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.auditors[auditor.ID]; !exists {
		return sentinel.ErrNotFound
	}
	s.auditors[auditor.ID] = auditor.Clone()
	return nil
}

func (s *InMemoryStore) FindByID(_ context.Context, auditorID id.AuditorID) (*models.Auditor, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	auditor, exists := s.auditors[auditorID]
	if !exists {
		return nil, sentinel.ErrNotFound
	}
	return auditor.Clone(), nil
}

func (s *InMemoryStore) FindByEmail(_ context.Context, email string) (*models.Auditor, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, auditor := range s.auditors {
		if strings.EqualFold(auditor.Email, email) {
			return auditor.Clone(), nil
		}
	}
	return nil, sentinel.ErrNotFound
}

func (s *InMemoryStore) List(_ context.Context) ([]*models.Auditor, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	results := make([]*models.Auditor, 0, len(s.auditors))
	for _, auditor := range s.auditors {
		results = append(results, auditor.Clone())
	}
	sort.Slice(results, func(i, j int) bool { return results[i].Name < results[j].Name })
	return results, nil
}

func (s *InMemoryStore) Delete(_ context.Context, auditorID id.AuditorID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.auditors[auditorID]; !exists {
		return sentinel.ErrNotFound
	}
	delete(s.auditors, auditorID)
	return nil
}
