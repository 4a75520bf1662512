package analytics_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"foodaudit/internal/analytics"
	auditmodels "foodaudit/internal/audit/models"
	auditstore "foodaudit/internal/audit/store"
	auditormodels "foodaudit/internal/auditor/models"
	auditorstore "foodaudit/internal/auditor/store"
	"foodaudit/internal/checklist"
	id "foodaudit/pkg/domain"
	"foodaudit/pkg/requestcontext"
)

type fixture struct {
	audits   *auditstore.InMemoryStore
	auditors *auditorstore.InMemoryStore
	service  *analytics.Service
	ctx      context.Context
	now      time.Time
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		audits:   auditstore.NewMemory(),
		auditors: auditorstore.NewMemory(),
		now:      time.Date(2025, 7, 20, 9, 0, 0, 0, time.UTC),
	}
	f.ctx = requestcontext.WithTime(context.Background(), f.now)
	f.service = analytics.New(f.audits, f.auditors)
	return f
}

func (f *fixture) addAudit(t *testing.T, title, location string, status auditmodels.Status, auditorID *id.AuditorID, noQuestions ...string) {
	t.Helper()
	var c checklist.Checklist
	require.NoError(t, c.AddSection("Findings"))
	require.NoError(t, c.SetItemQuestion(0, 0, "placeholder"))
	for i, question := range noQuestions {
		if i > 0 {
			require.NoError(t, c.AddItem(0))
		}
		require.NoError(t, c.SetItemQuestion(0, i, question))
	}
	audit, err := auditmodels.New(id.NewAuditID(), title, "", location, c, f.now, id.UserID{}, f.now)
	require.NoError(t, err)
	audit.AuditorID = auditorID
	if status != auditmodels.StatusPending {
		audit.ApplyStart(f.now)
		sec := audit.Sections[0]
		for _, item := range sec.Items {
			require.NoError(t, audit.RecordResponse(sec.ID, item.ID, checklist.YesNo(len(noQuestions) == 0), "", f.now))
		}
		if status == auditmodels.StatusInReview || status == auditmodels.StatusCompleted {
			audit.ApplySubmit(f.now)
		}
		if status == auditmodels.StatusCompleted {
			audit.ApplyApprove(f.now)
		}
	}
	require.NoError(t, f.audits.Create(f.ctx, audit))
}

func TestOverview(t *testing.T) {
	f := newFixture(t)

	dana, err := auditormodels.New(id.NewAuditorID(), "Dana", "dana@example.com", "", "", f.now)
	require.NoError(t, err)
	dana.AddAssignment(id.NewAuditID(), f.now)
	require.NoError(t, f.auditors.Create(f.ctx, dana))

	f.addAudit(t, "Pending One", "Harbor Cafe", auditmodels.StatusPending, nil)
	f.addAudit(t, "Done One", "Harbor Cafe", auditmodels.StatusCompleted, &dana.ID, "Soap stocked?")
	f.addAudit(t, "Done Two", "Main Kitchen", auditmodels.StatusCompleted, &dana.ID, "Soap stocked?", "Floor clean?")

	overview, err := f.service.Overview(f.ctx)
	require.NoError(t, err)

	require.Equal(t, 3, overview.Completion.Total)
	require.Equal(t, 2, overview.Completion.ByStatus[string(auditmodels.StatusCompleted)])
	require.InDelta(t, 2.0/3.0, overview.Completion.CompletionRate, 1e-9)

	require.NotEmpty(t, overview.TopIssues)
	require.Equal(t, "Soap stocked?", overview.TopIssues[0].Question)
	require.Equal(t, 2, overview.TopIssues[0].Count)

	require.Len(t, overview.Auditors, 1)
	require.Equal(t, "Dana", overview.Auditors[0].Name)
	require.Equal(t, 2, overview.Auditors[0].Completed)

	require.Len(t, overview.Locations, 2)
	require.Equal(t, "Harbor Cafe", overview.Locations[0].Location)
	require.Equal(t, 2, overview.Locations[0].Audits)
	require.Equal(t, f.now, overview.GeneratedAt)
}

func TestOverviewEmpty(t *testing.T) {
	f := newFixture(t)

	overview, err := f.service.Overview(f.ctx)
	require.NoError(t, err)
	require.Zero(t, overview.Completion.Total)
	require.Zero(t, overview.Completion.CompletionRate)
	require.Empty(t, overview.TopIssues)
	require.Empty(t, overview.Auditors)
	require.Empty(t, overview.Locations)
}
