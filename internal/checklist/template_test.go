package checklist

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	id "foodaudit/pkg/domain"
	dErrors "foodaudit/pkg/domain-errors"
	"foodaudit/pkg/platform/sentinel"
)

func buildTemplateSections(t *testing.T) Checklist {
	t.Helper()
	var c Checklist
	require.NoError(t, c.AddSection("Production Line"))
	require.NoError(t, c.SetItemQuestion(0, 0, "Are employees wearing proper PPE?"))
	require.NoError(t, c.AddItem(0))
	require.NoError(t, c.SetItemQuestion(0, 1, "Is equipment sanitized between runs?"))
	return c
}

func TestNewTemplate(t *testing.T) {
	now := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)

	t.Run("rejects empty title", func(t *testing.T) {
		_, err := NewTemplate(id.NewTemplateID(), "  ", buildTemplateSections(t), id.NewUserID(), now)
		require.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
	})

	t.Run("rejects non-submit-ready sections", func(t *testing.T) {
		var c Checklist
		require.NoError(t, c.AddSection("Empty Questions"))
		_, err := NewTemplate(id.NewTemplateID(), "Quarterly", c, id.NewUserID(), now)
		require.Error(t, err)
	})

	t.Run("copies the tree", func(t *testing.T) {
		sections := buildTemplateSections(t)
		tpl, err := NewTemplate(id.NewTemplateID(), "Quarterly Plant Check", sections, id.NewUserID(), now)
		require.NoError(t, err)

		sections[0].Title = "mutated"
		require.Equal(t, "Production Line", tpl.Sections[0].Title)
	})
}

func TestTemplateInstantiate(t *testing.T) {
	now := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	tpl, err := NewTemplate(id.NewTemplateID(), "Quarterly Plant Check", buildTemplateSections(t), id.NewUserID(), now)
	require.NoError(t, err)

	run := tpl.Instantiate()
	require.Len(t, run, 1)
	require.NotEqual(t, tpl.Sections[0].ID, run[0].ID)
	require.NotEqual(t, tpl.Sections[0].Items[0].ID, run[0].Items[0].ID)
	require.Equal(t, tpl.Sections[0].Items[0].Question, run[0].Items[0].Question)

	// A second run gets its own ids too.
	other := tpl.Instantiate()
	require.NotEqual(t, run[0].ID, other[0].ID)
}

func TestInMemoryTemplates(t *testing.T) {
	ctx := context.Background()
	store := NewInMemoryTemplates()
	now := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)

	tpl, err := NewTemplate(id.NewTemplateID(), "Annual Inspection", buildTemplateSections(t), id.NewUserID(), now)
	require.NoError(t, err)
	require.NoError(t, store.Create(ctx, tpl))

	t.Run("duplicate create conflicts", func(t *testing.T) {
		require.ErrorIs(t, store.Create(ctx, tpl), sentinel.ErrConflict)
	})

	t.Run("find returns a copy", func(t *testing.T) {
		found, err := store.FindByID(ctx, tpl.ID)
		require.NoError(t, err)
		found.Sections[0].Title = "mutated"

		again, err := store.FindByID(ctx, tpl.ID)
		require.NoError(t, err)
		require.Equal(t, "Production Line", again.Sections[0].Title)
	})

	t.Run("unknown id", func(t *testing.T) {
		_, err := store.FindByID(ctx, id.NewTemplateID())
		require.ErrorIs(t, err, sentinel.ErrNotFound)
	})
}
