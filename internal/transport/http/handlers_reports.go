package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"foodaudit/internal/analytics"
	"foodaudit/internal/transport/http/shared"
)

// ReportsHandler exposes the analytics dashboard endpoints.
type ReportsHandler struct {
	analytics *analytics.Service
	logger    *slog.Logger
}

func NewReportsHandler(svc *analytics.Service, logger *slog.Logger) *ReportsHandler {
	return &ReportsHandler{analytics: svc, logger: logger}
}

func (h *ReportsHandler) Register(r chi.Router) {
	r.Get("/reports/overview", h.overview)
}

func (h *ReportsHandler) overview(w http.ResponseWriter, r *http.Request) {
	overview, err := h.analytics.Overview(r.Context())
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, overview)
}
