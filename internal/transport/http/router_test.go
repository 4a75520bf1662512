package http_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/suite"

	"foodaudit/internal/analytics"
	"foodaudit/internal/audit/models"
	auditservice "foodaudit/internal/audit/service"
	auditstore "foodaudit/internal/audit/store"
	auditorservice "foodaudit/internal/auditor/service"
	auditorstore "foodaudit/internal/auditor/store"
	"foodaudit/internal/checklist"
	"foodaudit/internal/events"
	transport "foodaudit/internal/transport/http"
	"foodaudit/pkg/platform/tx"
)

type RouterSuite struct {
	suite.Suite
	server *httptest.Server
}

func TestRouterSuite(t *testing.T) {
	suite.Run(t, new(RouterSuite))
}

func (s *RouterSuite) SetupTest() {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	audits := auditstore.NewMemory()
	auditors := auditorstore.NewMemory()
	sink := events.NewMemorySink()

	auditSvc := auditservice.New(audits,
		auditservice.WithLogger(logger),
		auditservice.WithPublisher(sink),
		auditservice.WithTemplates(checklist.NewInMemoryTemplates()),
	)
	directory := auditorservice.New(auditors, audits, tx.NewMemoryRunner(),
		auditorservice.WithLogger(logger),
		auditorservice.WithPublisher(sink),
	)
	reports := analytics.New(audits, auditors, analytics.WithLogger(logger))

	router := transport.NewRouter(transport.RouterConfig{
		Logger:   logger,
		Audits:   transport.NewAuditHandler(auditSvc, logger),
		Auditors: transport.NewAuditorHandler(directory, logger),
		Reports:  transport.NewReportsHandler(reports, logger),
	})
	s.server = httptest.NewServer(router)
	s.T().Cleanup(s.server.Close)
}

func (s *RouterSuite) do(method, path string, body any) (*http.Response, []byte) {
	var payload io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		s.Require().NoError(err)
		payload = bytes.NewReader(raw)
	}
	req, err := http.NewRequest(method, s.server.URL+path, payload)
	s.Require().NoError(err)
	req.Header.Set("Content-Type", "application/json")
	resp, err := s.server.Client().Do(req)
	s.Require().NoError(err)
	raw, err := io.ReadAll(resp.Body)
	s.Require().NoError(err)
	s.Require().NoError(resp.Body.Close())
	return resp, raw
}

// createAudit builds a one-section, one-item audit ready to start. A freshly
// created audit's default item has no question yet, so the fixture fills it
// in through the PATCH endpoint.
func (s *RouterSuite) createAudit() *models.Audit {
	resp, raw := s.do(http.MethodPost, "/audits", map[string]any{
		"title":    "Cafeteria Evaluation",
		"location": "789 Education Ave",
		"due_date": "2025-08-01T00:00:00Z",
	})
	s.Require().Equal(http.StatusCreated, resp.StatusCode, string(raw))
	var audit models.Audit
	s.Require().NoError(json.Unmarshal(raw, &audit))

	resp, raw = s.do(http.MethodPatch, "/audits/"+audit.ID.String()+"/sections/0/items/0", map[string]any{
		"question": "Floors clean and dry?",
	})
	s.Require().Equal(http.StatusOK, resp.StatusCode, string(raw))
	s.Require().NoError(json.Unmarshal(raw, &audit))
	return &audit
}

func (s *RouterSuite) TestHealthz() {
	resp, raw := s.do(http.MethodGet, "/healthz", nil)
	s.Equal(http.StatusOK, resp.StatusCode)
	s.Equal("ok", string(raw))
}

func (s *RouterSuite) TestAuditLifecycleOverHTTP() {
	audit := s.createAudit()
	base := "/audits/" + audit.ID.String()

	resp, raw := s.do(http.MethodPost, base+"/start", map[string]any{"override": true})
	s.Require().Equal(http.StatusOK, resp.StatusCode, string(raw))

	s.Run("structure locked after start", func() {
		resp, raw := s.do(http.MethodPost, base+"/sections", map[string]any{"title": "Too Late"})
		s.Equal(http.StatusUnprocessableEntity, resp.StatusCode)
		s.Contains(string(raw), "invalid_state")
	})

	sec := audit.Sections[0]
	resp, raw = s.do(http.MethodPut, base+"/responses", map[string]any{
		"section_id": sec.ID,
		"item_id":    sec.Items[0].ID,
		"value":      false,
		"notes":      "mop missing",
	})
	s.Require().Equal(http.StatusOK, resp.StatusCode, string(raw))

	s.Run("type mismatch is a 400", func() {
		resp, raw := s.do(http.MethodPut, base+"/responses", map[string]any{
			"section_id": sec.ID,
			"item_id":    sec.Items[0].ID,
			"value":      "nope",
		})
		s.Equal(http.StatusBadRequest, resp.StatusCode)
		s.Contains(string(raw), "type_mismatch")
	})

	resp, raw = s.do(http.MethodPost, base+"/submit", nil)
	s.Require().Equal(http.StatusOK, resp.StatusCode, string(raw))

	resp, raw = s.do(http.MethodGet, base+"/non-compliance", nil)
	s.Require().Equal(http.StatusOK, resp.StatusCode)
	var report struct {
		Count int `json:"count"`
	}
	s.Require().NoError(json.Unmarshal(raw, &report))
	s.Equal(1, report.Count)

	resp, raw = s.do(http.MethodPost, base+"/review", map[string]any{
		"outcome": "approved",
	})
	s.Require().Equal(http.StatusOK, resp.StatusCode, string(raw))
	var reviewed models.Audit
	s.Require().NoError(json.Unmarshal(raw, &reviewed))
	s.Equal(models.StatusCompleted, reviewed.Status)
}

func (s *RouterSuite) TestReviewCommentsRequired() {
	audit := s.createAudit()
	base := "/audits/" + audit.ID.String()
	resp, _ := s.do(http.MethodPost, base+"/start", map[string]any{"override": true})
	s.Require().Equal(http.StatusOK, resp.StatusCode)
	sec := audit.Sections[0]
	resp, _ = s.do(http.MethodPut, base+"/responses", map[string]any{
		"section_id": sec.ID, "item_id": sec.Items[0].ID, "value": true,
	})
	s.Require().Equal(http.StatusOK, resp.StatusCode)
	resp, _ = s.do(http.MethodPost, base+"/submit", nil)
	s.Require().Equal(http.StatusOK, resp.StatusCode)

	resp, raw := s.do(http.MethodPost, base+"/review", map[string]any{"outcome": "rejected"})
	s.Equal(http.StatusBadRequest, resp.StatusCode)
	s.Contains(string(raw), "comments")
}

func (s *RouterSuite) TestAssignmentEndpoints() {
	audit := s.createAudit()

	resp, raw := s.do(http.MethodPost, "/auditors", map[string]any{
		"name": "Dana Reyes", "email": "dana@example.com", "role": "inspector",
	})
	s.Require().Equal(http.StatusCreated, resp.StatusCode, string(raw))
	var auditor struct {
		ID string `json:"id"`
	}
	s.Require().NoError(json.Unmarshal(raw, &auditor))

	resp, _ = s.do(http.MethodPost, "/audits/"+audit.ID.String()+"/assign", map[string]any{
		"auditor_id": auditor.ID,
	})
	s.Require().Equal(http.StatusNoContent, resp.StatusCode)

	resp, raw = s.do(http.MethodGet, "/auditors/"+auditor.ID+"/audits", nil)
	s.Require().Equal(http.StatusOK, resp.StatusCode)
	var workload []models.Audit
	s.Require().NoError(json.Unmarshal(raw, &workload))
	s.Require().Len(workload, 1)
	s.Equal(audit.ID, workload[0].ID)

	s.Run("assigned audit cannot be deleted", func() {
		resp, raw := s.do(http.MethodDelete, "/audits/"+audit.ID.String(), nil)
		s.Equal(http.StatusConflict, resp.StatusCode, string(raw))
	})

	resp, _ = s.do(http.MethodPost, "/audits/"+audit.ID.String()+"/unassign", nil)
	s.Require().Equal(http.StatusNoContent, resp.StatusCode)

	s.Run("unassigned audit deletes", func() {
		resp, _ := s.do(http.MethodDelete, "/audits/"+audit.ID.String(), nil)
		s.Equal(http.StatusNoContent, resp.StatusCode)
	})
}

func (s *RouterSuite) TestErrorMapping() {
	s.Run("unknown audit is 404", func() {
		resp, raw := s.do(http.MethodGet, "/audits/00000000-0000-0000-0000-000000000001", nil)
		s.Equal(http.StatusNotFound, resp.StatusCode)
		s.Contains(string(raw), "not_found")
	})

	s.Run("malformed id is 400", func() {
		resp, _ := s.do(http.MethodGet, "/audits/not-a-uuid", nil)
		s.Equal(http.StatusBadRequest, resp.StatusCode)
	})

	s.Run("malformed body is 400", func() {
		req, err := http.NewRequest(http.MethodPost, s.server.URL+"/audits", bytes.NewReader([]byte("{")))
		s.Require().NoError(err)
		req.Header.Set("Content-Type", "application/json")
		resp, err := s.server.Client().Do(req)
		s.Require().NoError(err)
		defer resp.Body.Close()
		s.Equal(http.StatusBadRequest, resp.StatusCode)
	})
}

func (s *RouterSuite) TestReportsOverview() {
	for i := 0; i < 2; i++ {
		resp, raw := s.do(http.MethodPost, "/audits", map[string]any{
			"title":    fmt.Sprintf("Audit %d", i),
			"location": "Harbor Cafe",
			"due_date": "2025-08-01T00:00:00Z",
		})
		s.Require().Equal(http.StatusCreated, resp.StatusCode, string(raw))
	}

	resp, raw := s.do(http.MethodGet, "/reports/overview", nil)
	s.Require().Equal(http.StatusOK, resp.StatusCode)
	var overview analytics.Overview
	s.Require().NoError(json.Unmarshal(raw, &overview))
	s.Equal(2, overview.Completion.Total)
	s.Require().Len(overview.Locations, 1)
	s.Equal("Harbor Cafe", overview.Locations[0].Location)
}
