package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"vulnshop/internal/security"
	"vulnshop/pkg/platform/httputil"
	"vulnshop/pkg/requestcontext"
)

// Service defines the operator console operations.
type Service interface {
	Mode() security.Mode
	Toggle() security.Mode
	Log() *security.AuditLog
}

// Handler exposes the security console: mode inspection, the mode toggle,
// and the audit log. The console is deliberately unauthenticated: it is the
// sandbox's control panel, not a protected resource.
type Handler struct {
	service Service
	logger  *slog.Logger
}

// New constructs a security handler with its dependencies.
func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register mounts security console endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Get("/security/mode", h.handleGetMode)
	r.Post("/security/mode/toggle", h.handleToggleMode)
	r.Get("/security/logs", h.handleGetLogs)
	r.Delete("/security/logs", h.handleClearLogs)
}

type modeResponse struct {
	Mode security.Mode `json:"mode"`
}

type logsResponse struct {
	Logs []security.LogEntry `json:"logs"`
}

func (h *Handler) handleGetMode(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, modeResponse{Mode: h.service.Mode()})
}

func (h *Handler) handleToggleMode(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	newMode := h.service.Toggle()
	h.logger.InfoContext(ctx, "security mode toggled",
		"request_id", requestcontext.RequestID(ctx),
		"mode", newMode,
	)
	httputil.WriteJSON(w, http.StatusOK, modeResponse{Mode: newMode})
}

func (h *Handler) handleGetLogs(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, logsResponse{Logs: h.service.Log().Entries()})
}

func (h *Handler) handleClearLogs(w http.ResponseWriter, r *http.Request) {
	h.service.Log().Clear()
	httputil.WriteJSON(w, http.StatusOK, logsResponse{Logs: h.service.Log().Entries()})
}
