package service_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	auditmodels "foodaudit/internal/audit/models"
	auditstore "foodaudit/internal/audit/store"
	"foodaudit/internal/auditor/models"
	"foodaudit/internal/auditor/service"
	auditorstore "foodaudit/internal/auditor/store"
	"foodaudit/internal/checklist"
	"foodaudit/internal/events"
	id "foodaudit/pkg/domain"
	dErrors "foodaudit/pkg/domain-errors"
	"foodaudit/pkg/platform/tx"
	"foodaudit/pkg/requestcontext"
)

type DirectorySuite struct {
	suite.Suite
	audits    *auditstore.InMemoryStore
	auditors  *auditorstore.InMemoryStore
	sink      *events.MemorySink
	directory *service.Directory
	ctx       context.Context
	now       time.Time
}

func TestDirectorySuite(t *testing.T) {
	suite.Run(t, new(DirectorySuite))
}

func (s *DirectorySuite) SetupTest() {
	s.audits = auditstore.NewMemory()
	s.auditors = auditorstore.NewMemory()
	s.sink = events.NewMemorySink()
	s.now = time.Date(2025, 7, 15, 10, 0, 0, 0, time.UTC)
	s.ctx = requestcontext.WithTime(context.Background(), s.now)
	s.directory = service.New(s.auditors, s.audits, tx.NewMemoryRunner(),
		service.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
		service.WithPublisher(s.sink),
	)
}

func (s *DirectorySuite) createAuditor(name, email string) *models.Auditor {
	auditor, err := s.directory.CreateAuditor(s.ctx, service.CreateAuditorRequest{
		Name: name, Email: email, Role: "inspector",
	})
	s.Require().NoError(err)
	return auditor
}

func (s *DirectorySuite) createAudit(title string) *auditmodels.Audit {
	var c checklist.Checklist
	s.Require().NoError(c.AddSection("Hygiene"))
	audit, err := auditmodels.New(id.NewAuditID(), title, "", "", c, s.now.AddDate(0, 0, 7), id.UserID{}, s.now)
	s.Require().NoError(err)
	s.Require().NoError(s.audits.Create(s.ctx, audit))
	return audit
}

func (s *DirectorySuite) TestCreateAuditor() {
	auditor := s.createAuditor("Dana Reyes", "dana@example.com")
	s.Equal("Dana Reyes", auditor.Name)
	s.Empty(auditor.AssignedAudits)

	s.Run("duplicate email conflicts", func() {
		_, err := s.directory.CreateAuditor(s.ctx, service.CreateAuditorRequest{
			Name: "Someone Else", Email: "DANA@example.com",
		})
		s.True(dErrors.HasCode(err, dErrors.CodeConflict))
	})

	s.Run("invalid email rejected", func() {
		_, err := s.directory.CreateAuditor(s.ctx, service.CreateAuditorRequest{
			Name: "No Email", Email: "not-an-email",
		})
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
	})
}

func (s *DirectorySuite) TestAssignLinksBothSides() {
	auditor := s.createAuditor("Dana", "dana@example.com")
	audit := s.createAudit("Kitchen Audit")

	s.Require().NoError(s.directory.Assign(s.ctx, audit.ID, auditor.ID))

	storedAudit, err := s.audits.FindByID(s.ctx, audit.ID)
	s.Require().NoError(err)
	s.Require().NotNil(storedAudit.AuditorID)
	s.Equal(auditor.ID, *storedAudit.AuditorID)

	storedAuditor, err := s.auditors.FindByID(s.ctx, auditor.ID)
	s.Require().NoError(err)
	s.True(storedAuditor.Assigned(audit.ID))

	trail := s.sink.ByAudit(audit.ID)
	s.Require().Len(trail, 1)
	s.Equal(events.TypeAuditorAssigned, trail[0].Type)

	s.Run("assigning again is a no-op", func() {
		s.Require().NoError(s.directory.Assign(s.ctx, audit.ID, auditor.ID))
		again, err := s.auditors.FindByID(s.ctx, auditor.ID)
		s.Require().NoError(err)
		s.Len(again.AssignedAudits, 1)
	})
}

func (s *DirectorySuite) TestReassignMovesWorkload() {
	first := s.createAuditor("First", "first@example.com")
	second := s.createAuditor("Second", "second@example.com")
	audit := s.createAudit("Kitchen Audit")

	s.Require().NoError(s.directory.Assign(s.ctx, audit.ID, first.ID))
	s.Require().NoError(s.directory.Assign(s.ctx, audit.ID, second.ID))

	oldAuditor, err := s.auditors.FindByID(s.ctx, first.ID)
	s.Require().NoError(err)
	s.False(oldAuditor.Assigned(audit.ID), "audit left the previous workload")

	newAuditor, err := s.auditors.FindByID(s.ctx, second.ID)
	s.Require().NoError(err)
	s.True(newAuditor.Assigned(audit.ID))

	storedAudit, err := s.audits.FindByID(s.ctx, audit.ID)
	s.Require().NoError(err)
	s.Equal(second.ID, *storedAudit.AuditorID)
}

func (s *DirectorySuite) TestAssignUnknownTargets() {
	auditor := s.createAuditor("Dana", "dana@example.com")
	audit := s.createAudit("Kitchen Audit")

	err := s.directory.Assign(s.ctx, id.NewAuditID(), auditor.ID)
	s.True(dErrors.HasCode(err, dErrors.CodeNotFound))

	err = s.directory.Assign(s.ctx, audit.ID, id.NewAuditorID())
	s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
}

func (s *DirectorySuite) TestUnassign() {
	auditor := s.createAuditor("Dana", "dana@example.com")
	audit := s.createAudit("Kitchen Audit")
	s.Require().NoError(s.directory.Assign(s.ctx, audit.ID, auditor.ID))

	s.Require().NoError(s.directory.Unassign(s.ctx, audit.ID))

	storedAudit, err := s.audits.FindByID(s.ctx, audit.ID)
	s.Require().NoError(err)
	s.Nil(storedAudit.AuditorID)

	storedAuditor, err := s.auditors.FindByID(s.ctx, auditor.ID)
	s.Require().NoError(err)
	s.False(storedAuditor.Assigned(audit.ID))

	s.Run("unassigning an unassigned audit fails", func() {
		err := s.directory.Unassign(s.ctx, audit.ID)
		s.True(dErrors.HasCode(err, dErrors.CodeInvalidState))
	})
}

func (s *DirectorySuite) TestDeleteAuditorClearsAssignments() {
	auditor := s.createAuditor("Dana", "dana@example.com")
	first := s.createAudit("First Audit")
	second := s.createAudit("Second Audit")
	s.Require().NoError(s.directory.Assign(s.ctx, first.ID, auditor.ID))
	s.Require().NoError(s.directory.Assign(s.ctx, second.ID, auditor.ID))

	s.Require().NoError(s.directory.DeleteAuditor(s.ctx, auditor.ID))

	_, err := s.directory.GetAuditor(s.ctx, auditor.ID)
	s.True(dErrors.HasCode(err, dErrors.CodeNotFound))

	for _, auditID := range []id.AuditID{first.ID, second.ID} {
		stored, err := s.audits.FindByID(s.ctx, auditID)
		s.Require().NoError(err)
		s.Nil(stored.AuditorID, "deleted auditor must not be referenced")
	}
}

func (s *DirectorySuite) TestWorkload() {
	auditor := s.createAuditor("Dana", "dana@example.com")
	audit := s.createAudit("Kitchen Audit")
	s.Require().NoError(s.directory.Assign(s.ctx, audit.ID, auditor.ID))

	workload, err := s.directory.Workload(s.ctx, auditor.ID)
	s.Require().NoError(err)
	s.Require().Len(workload, 1)
	s.Equal(audit.ID, workload[0].ID)

	_, err = s.directory.Workload(s.ctx, id.NewAuditorID())
	s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
}

func (s *DirectorySuite) TestUpdateAuditor() {
	auditor := s.createAuditor("Dana", "dana@example.com")
	role := "senior inspector"
	updated, err := s.directory.UpdateAuditor(s.ctx, auditor.ID, service.UpdateAuditorRequest{Role: &role})
	s.Require().NoError(err)
	s.Equal(role, updated.Role)
	s.Equal("Dana", updated.Name)

	empty := ""
	_, err = s.directory.UpdateAuditor(s.ctx, auditor.ID, service.UpdateAuditorRequest{Name: &empty})
	s.True(dErrors.HasCode(err, dErrors.CodeValidation))
}

// TestAssignStopsOnAuditWriteFailure injects a store failure and verifies the
// boundary never touches the auditor's workload when the audit write fails.
func TestAssignStopsOnAuditWriteFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	audits := NewMockAuditStore(ctrl)
	auditors := NewMockAuditorStore(ctrl)

	now := time.Now().UTC()
	var c checklist.Checklist
	if err := c.AddSection("Hygiene"); err != nil {
		t.Fatal(err)
	}
	audit, err := auditmodels.New(id.NewAuditID(), "Kitchen Audit", "", "", c, now, id.UserID{}, now)
	if err != nil {
		t.Fatal(err)
	}
	auditor, err := models.New(id.NewAuditorID(), "Dana", "dana@example.com", "", "", now)
	if err != nil {
		t.Fatal(err)
	}

	boom := errors.New("connection reset")
	audits.EXPECT().FindByID(gomock.Any(), audit.ID).Return(audit, nil)
	auditors.EXPECT().FindByID(gomock.Any(), auditor.ID).Return(auditor, nil)
	audits.EXPECT().Update(gomock.Any(), gomock.Any()).Return(boom)
	// No auditors.Update expectation: the workload write must never happen.

	directory := service.New(auditors, audits, tx.NewMemoryRunner(),
		service.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))

	err = directory.Assign(context.Background(), audit.ID, auditor.ID)
	if !dErrors.HasCode(err, dErrors.CodeInternal) {
		t.Fatalf("expected internal error, got %v", err)
	}
}

// TestReassignRepairsDriftedWorkload verifies that a previous auditor whose
// workload already lost the audit does not block reassignment.
func TestReassignRepairsDriftedWorkload(t *testing.T) {
	ctx := context.Background()
	audits := auditstore.NewMemory()
	auditors := auditorstore.NewMemory()
	now := time.Now().UTC()

	var c checklist.Checklist
	if err := c.AddSection("Hygiene"); err != nil {
		t.Fatal(err)
	}
	audit, err := auditmodels.New(id.NewAuditID(), "Kitchen Audit", "", "", c, now, id.UserID{}, now)
	if err != nil {
		t.Fatal(err)
	}
	ghost := id.NewAuditorID() // referenced by the audit, absent from the directory
	audit.AuditorID = &ghost
	if err := audits.Create(ctx, audit); err != nil {
		t.Fatal(err)
	}
	target, err := models.New(id.NewAuditorID(), "Dana", "dana@example.com", "", "", now)
	if err != nil {
		t.Fatal(err)
	}
	if err := auditors.Create(ctx, target); err != nil {
		t.Fatal(err)
	}

	directory := service.New(auditors, audits, tx.NewMemoryRunner(),
		service.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))

	if err := directory.Assign(ctx, audit.ID, target.ID); err != nil {
		t.Fatalf("assign over drifted link: %v", err)
	}
	stored, err := audits.FindByID(ctx, audit.ID)
	if err != nil {
		t.Fatal(err)
	}
	if stored.AuditorID == nil || *stored.AuditorID != target.ID {
		t.Fatalf("audit not relinked, got %v", stored.AuditorID)
	}
}
