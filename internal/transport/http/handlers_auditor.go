package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"foodaudit/internal/auditor/service"
	"foodaudit/internal/transport/http/shared"
	id "foodaudit/pkg/domain"
	dErrors "foodaudit/pkg/domain-errors"
)

// AuditorHandler exposes the auditor directory and assignment endpoints.
type AuditorHandler struct {
	directory *service.Directory
	logger    *slog.Logger
}

func NewAuditorHandler(directory *service.Directory, logger *slog.Logger) *AuditorHandler {
	return &AuditorHandler{directory: directory, logger: logger}
}

func (h *AuditorHandler) Register(r chi.Router) {
	r.Route("/auditors", func(r chi.Router) {
		r.Post("/", h.create)
		r.Get("/", h.list)
		r.Route("/{auditorID}", func(r chi.Router) {
			r.Get("/", h.get)
			r.Patch("/", h.update)
			r.Delete("/", h.delete)
			r.Get("/audits", h.workload)
		})
	})
	// Assignment acts on the audit side of the link.
	r.Post("/audits/{auditID}/assign", h.assign)
	r.Post("/audits/{auditID}/unassign", h.unassign)
}

func (h *AuditorHandler) create(w http.ResponseWriter, r *http.Request) {
	var req service.CreateAuditorRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}
	auditor, err := h.directory.CreateAuditor(r.Context(), req)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusCreated, auditor)
}

func (h *AuditorHandler) list(w http.ResponseWriter, r *http.Request) {
	auditors, err := h.directory.ListAuditors(r.Context())
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, auditors)
}

func (h *AuditorHandler) get(w http.ResponseWriter, r *http.Request) {
	auditorID, err := auditorIDParam(r)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	auditor, err := h.directory.GetAuditor(r.Context(), auditorID)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, auditor)
}

func (h *AuditorHandler) update(w http.ResponseWriter, r *http.Request) {
	auditorID, err := auditorIDParam(r)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	var req service.UpdateAuditorRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}
	auditor, err := h.directory.UpdateAuditor(r.Context(), auditorID, req)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, auditor)
}

func (h *AuditorHandler) delete(w http.ResponseWriter, r *http.Request) {
	auditorID, err := auditorIDParam(r)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	if err := h.directory.DeleteAuditor(r.Context(), auditorID); err != nil {
		shared.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *AuditorHandler) workload(w http.ResponseWriter, r *http.Request) {
	auditorID, err := auditorIDParam(r)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	audits, err := h.directory.Workload(r.Context(), auditorID)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, audits)
}

func (h *AuditorHandler) assign(w http.ResponseWriter, r *http.Request) {
	auditID, err := auditIDParam(r)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	var req struct {
		AuditorID id.AuditorID `json:"auditor_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}
	if err := h.directory.Assign(r.Context(), auditID, req.AuditorID); err != nil {
		shared.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *AuditorHandler) unassign(w http.ResponseWriter, r *http.Request) {
	auditID, err := auditIDParam(r)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	if err := h.directory.Unassign(r.Context(), auditID); err != nil {
		shared.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func auditorIDParam(r *http.Request) (id.AuditorID, error) {
	auditorID, err := id.ParseAuditorID(chi.URLParam(r, "auditorID"))
	if err != nil {
		return id.AuditorID{}, dErrors.New(dErrors.CodeBadRequest, "invalid auditor id")
	}
	return auditorID, nil
}
