package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"foodaudit/internal/auditor/models"
	"foodaudit/internal/auditor/store"
	id "foodaudit/pkg/domain"
	"foodaudit/pkg/platform/sentinel"
)

func newAuditor(t *testing.T, name, email string) *models.Auditor {
	t.Helper()
	auditor, err := models.New(id.NewAuditorID(), name, email, "", "inspector", time.Now().UTC())
	require.NoError(t, err)
	return auditor
}

func TestMemoryStoreCRUD(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemory()

	dana := newAuditor(t, "Dana", "dana@example.com")
	require.NoError(t, s.Create(ctx, dana))

	require.ErrorIs(t, s.Create(ctx, dana), sentinel.ErrConflict)

	dup := newAuditor(t, "Other", "DANA@example.com")
	require.ErrorIs(t, s.Create(ctx, dup), sentinel.ErrConflict, "email is unique case-insensitively")

	found, err := s.FindByID(ctx, dana.ID)
	require.NoError(t, err)
	require.Equal(t, "Dana", found.Name)

	byEmail, err := s.FindByEmail(ctx, "Dana@Example.com")
	require.NoError(t, err)
	require.Equal(t, dana.ID, byEmail.ID)

	found.AddAssignment(id.NewAuditID(), time.Now().UTC())
	require.NoError(t, s.Update(ctx, found))
	again, err := s.FindByID(ctx, dana.ID)
	require.NoError(t, err)
	require.Len(t, again.AssignedAudits, 1)

	require.NoError(t, s.Delete(ctx, dana.ID))
	_, err = s.FindByID(ctx, dana.ID)
	require.ErrorIs(t, err, sentinel.ErrNotFound)
	require.ErrorIs(t, s.Delete(ctx, dana.ID), sentinel.ErrNotFound)
}

func TestMemoryStoreListSorted(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemory()

	require.NoError(t, s.Create(ctx, newAuditor(t, "Zoe", "zoe@example.com")))
	require.NoError(t, s.Create(ctx, newAuditor(t, "Ali", "ali@example.com")))

	all, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	require.Equal(t, "Ali", all[0].Name)
	require.Equal(t, "Zoe", all[1].Name)
}

func TestMemoryStoreDetachesState(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemory()

	dana := newAuditor(t, "Dana", "dana@example.com")
	require.NoError(t, s.Create(ctx, dana))

	found, err := s.FindByID(ctx, dana.ID)
	require.NoError(t, err)
	found.AddAssignment(id.NewAuditID(), time.Now().UTC())

	again, err := s.FindByID(ctx, dana.ID)
	require.NoError(t, err)
	require.Empty(t, again.AssignedAudits, "mutating a returned entry must not touch the store")
}
