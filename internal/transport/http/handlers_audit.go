package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"foodaudit/internal/audit/models"
	"foodaudit/internal/audit/service"
	"foodaudit/internal/audit/store"
	"foodaudit/internal/checklist"
	"foodaudit/internal/transport/http/shared"
	id "foodaudit/pkg/domain"
	dErrors "foodaudit/pkg/domain-errors"
)

// AuditHandler exposes the audit lifecycle over REST.
type AuditHandler struct {
	service *service.Service
	logger  *slog.Logger
}

func NewAuditHandler(svc *service.Service, logger *slog.Logger) *AuditHandler {
	return &AuditHandler{service: svc, logger: logger}
}

func (h *AuditHandler) Register(r chi.Router) {
	r.Route("/audits", func(r chi.Router) {
		r.Post("/", h.create)
		r.Get("/", h.list)
		r.Route("/{auditID}", func(r chi.Router) {
			r.Get("/", h.get)
			r.Delete("/", h.delete)
			r.Post("/start", h.start)
			r.Post("/submit", h.submit)
			r.Post("/review", h.review)
			r.Put("/responses", h.recordResponse)
			r.Get("/non-compliance", h.nonCompliance)
			r.Post("/sections", h.addSection)
			r.Route("/sections/{sectionIndex}", func(r chi.Router) {
				r.Patch("/", h.renameSection)
				r.Delete("/", h.removeSection)
				r.Post("/items", h.addItem)
				r.Route("/items/{itemIndex}", func(r chi.Router) {
					r.Patch("/", h.updateItem)
					r.Delete("/", h.removeItem)
				})
			})
		})
	})
	r.Route("/templates", func(r chi.Router) {
		r.Post("/", h.createTemplate)
		r.Get("/", h.listTemplates)
		r.Get("/{templateID}", h.getTemplate)
	})
}

func (h *AuditHandler) create(w http.ResponseWriter, r *http.Request) {
	var req service.CreateAuditRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}
	audit, err := h.service.Create(r.Context(), req)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusCreated, audit)
}

func (h *AuditHandler) list(w http.ResponseWriter, r *http.Request) {
	filter := store.Filter{
		Status:   models.Status(r.URL.Query().Get("status")),
		Location: r.URL.Query().Get("location"),
	}
	audits, err := h.service.List(r.Context(), filter)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, audits)
}

func (h *AuditHandler) get(w http.ResponseWriter, r *http.Request) {
	auditID, err := auditIDParam(r)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	audit, err := h.service.Get(r.Context(), auditID)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, audit)
}

func (h *AuditHandler) delete(w http.ResponseWriter, r *http.Request) {
	auditID, err := auditIDParam(r)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	if err := h.service.Delete(r.Context(), auditID); err != nil {
		shared.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *AuditHandler) start(w http.ResponseWriter, r *http.Request) {
	auditID, err := auditIDParam(r)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	var req struct {
		Override bool `json:"override"`
	}
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
			return
		}
	}
	audit, err := h.service.Start(r.Context(), auditID, req.Override)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, audit)
}

func (h *AuditHandler) submit(w http.ResponseWriter, r *http.Request) {
	auditID, err := auditIDParam(r)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	audit, err := h.service.Submit(r.Context(), auditID)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, audit)
}

func (h *AuditHandler) review(w http.ResponseWriter, r *http.Request) {
	auditID, err := auditIDParam(r)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	var assessment models.Assessment
	if err := json.NewDecoder(r.Body).Decode(&assessment); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}
	audit, err := h.service.SubmitAssessment(r.Context(), auditID, assessment)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, audit)
}

func (h *AuditHandler) recordResponse(w http.ResponseWriter, r *http.Request) {
	auditID, err := auditIDParam(r)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	var req struct {
		SectionID id.SectionID    `json:"section_id"`
		ItemID    id.ItemID       `json:"item_id"`
		Value     json.RawMessage `json:"value"`
		Notes     string          `json:"notes"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}
	audit, err := h.service.RecordResponse(r.Context(), auditID, req.SectionID, req.ItemID, req.Value, req.Notes)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, audit)
}

func (h *AuditHandler) nonCompliance(w http.ResponseWriter, r *http.Request) {
	auditID, err := auditIDParam(r)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	report, err := h.service.NonComplianceReport(r.Context(), auditID)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, report)
}

func (h *AuditHandler) addSection(w http.ResponseWriter, r *http.Request) {
	auditID, err := auditIDParam(r)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	var req struct {
		Title string `json:"title"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}
	audit, err := h.service.AddSection(r.Context(), auditID, req.Title)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, audit)
}

func (h *AuditHandler) renameSection(w http.ResponseWriter, r *http.Request) {
	auditID, sectionIndex, err := sectionParams(r)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	var req struct {
		Title string `json:"title"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}
	audit, err := h.service.RenameSection(r.Context(), auditID, sectionIndex, req.Title)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, audit)
}

func (h *AuditHandler) removeSection(w http.ResponseWriter, r *http.Request) {
	auditID, sectionIndex, err := sectionParams(r)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	audit, err := h.service.RemoveSection(r.Context(), auditID, sectionIndex)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, audit)
}

func (h *AuditHandler) addItem(w http.ResponseWriter, r *http.Request) {
	auditID, sectionIndex, err := sectionParams(r)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	audit, err := h.service.AddItem(r.Context(), auditID, sectionIndex)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, audit)
}

// updateItemRequest uses pointers so a PATCH only touches the fields it
// names.
type updateItemRequest struct {
	Question *string             `json:"question,omitempty"`
	Required *bool               `json:"required,omitempty"`
	Type     *checklist.ItemType `json:"type,omitempty"`
	Options  *[]string           `json:"options,omitempty"`
	Notes    *string             `json:"notes,omitempty"`
}

func (h *AuditHandler) updateItem(w http.ResponseWriter, r *http.Request) {
	auditID, sectionIndex, itemIndex, err := itemParams(r)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	var req updateItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}
	ctx := r.Context()
	var audit *models.Audit
	apply := func(fn func() (*models.Audit, error)) bool {
		updated, err := fn()
		if err != nil {
			shared.WriteError(w, err)
			return false
		}
		audit = updated
		return true
	}
	if req.Question != nil && !apply(func() (*models.Audit, error) {
		return h.service.SetItemQuestion(ctx, auditID, sectionIndex, itemIndex, *req.Question)
	}) {
		return
	}
	if req.Required != nil && !apply(func() (*models.Audit, error) {
		return h.service.SetItemRequired(ctx, auditID, sectionIndex, itemIndex, *req.Required)
	}) {
		return
	}
	if req.Type != nil && !apply(func() (*models.Audit, error) {
		return h.service.SetItemType(ctx, auditID, sectionIndex, itemIndex, *req.Type)
	}) {
		return
	}
	if req.Options != nil && !apply(func() (*models.Audit, error) {
		return h.service.SetItemOptions(ctx, auditID, sectionIndex, itemIndex, *req.Options)
	}) {
		return
	}
	if req.Notes != nil {
		// Notes on items of completed audits go through the amendment path.
		current, err := h.service.Get(ctx, auditID)
		if err != nil {
			shared.WriteError(w, err)
			return
		}
		if sectionIndex < 0 || sectionIndex >= len(current.Sections) {
			shared.WriteError(w, dErrors.New(dErrors.CodeIndexOutOfRange, "section index out of range"))
			return
		}
		sec := current.Sections[sectionIndex]
		if itemIndex < 0 || itemIndex >= len(sec.Items) {
			shared.WriteError(w, dErrors.New(dErrors.CodeIndexOutOfRange, "item index out of range"))
			return
		}
		if !apply(func() (*models.Audit, error) {
			return h.service.AmendItemNotes(ctx, auditID, sec.ID, sec.Items[itemIndex].ID, *req.Notes)
		}) {
			return
		}
	}
	if audit == nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "no fields to update"))
		return
	}
	shared.WriteJSON(w, http.StatusOK, audit)
}

func (h *AuditHandler) removeItem(w http.ResponseWriter, r *http.Request) {
	auditID, sectionIndex, itemIndex, err := itemParams(r)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	audit, err := h.service.RemoveItem(r.Context(), auditID, sectionIndex, itemIndex)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, audit)
}

func (h *AuditHandler) createTemplate(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Title    string              `json:"title"`
		Sections checklist.Checklist `json:"sections"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}
	tpl, err := h.service.CreateTemplate(r.Context(), req.Title, req.Sections)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusCreated, tpl)
}

func (h *AuditHandler) listTemplates(w http.ResponseWriter, r *http.Request) {
	templates, err := h.service.ListTemplates(r.Context())
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, templates)
}

func (h *AuditHandler) getTemplate(w http.ResponseWriter, r *http.Request) {
	templateID, err := id.ParseTemplateID(chi.URLParam(r, "templateID"))
	if err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid template id"))
		return
	}
	tpl, err := h.service.GetTemplate(r.Context(), templateID)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, tpl)
}

func auditIDParam(r *http.Request) (id.AuditID, error) {
	auditID, err := id.ParseAuditID(chi.URLParam(r, "auditID"))
	if err != nil {
		return id.AuditID{}, dErrors.New(dErrors.CodeBadRequest, "invalid audit id")
	}
	return auditID, nil
}

func sectionParams(r *http.Request) (id.AuditID, int, error) {
	auditID, err := auditIDParam(r)
	if err != nil {
		return id.AuditID{}, 0, err
	}
	sectionIndex, err := strconv.Atoi(chi.URLParam(r, "sectionIndex"))
	if err != nil {
		return id.AuditID{}, 0, dErrors.New(dErrors.CodeBadRequest, "invalid section index")
	}
	return auditID, sectionIndex, nil
}

func itemParams(r *http.Request) (id.AuditID, int, int, error) {
	auditID, sectionIndex, err := sectionParams(r)
	if err != nil {
		return id.AuditID{}, 0, 0, err
	}
	itemIndex, err := strconv.Atoi(chi.URLParam(r, "itemIndex"))
	if err != nil {
		return id.AuditID{}, 0, 0, dErrors.New(dErrors.CodeBadRequest, "invalid item index")
	}
	return auditID, sectionIndex, itemIndex, nil
}
