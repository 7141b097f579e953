package httphandler

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/ericfisherdev/schoolportal/internal/application"
)

// Handler is the HTTP driving adapter that serves the JSON API.
type Handler struct {
	session    *application.SessionService
	attendance *application.AttendanceService
	logger     *slog.Logger
}

// NewHandler creates a Handler with all required dependencies.
func NewHandler(
	session *application.SessionService,
	attendance *application.AttendanceService,
	logger *slog.Logger,
) *Handler {
	return &Handler{
		session:    session,
		attendance: attendance,
		logger:     logger,
	}
}

// RegisterAPIRoutes registers the JSON API routes on the provided mux.
func RegisterAPIRoutes(mux *http.ServeMux, h *Handler) {
	mux.HandleFunc("GET /api/v1/health", h.Health)
	mux.HandleFunc("GET /api/v1/session", h.Session)
	mux.HandleFunc("GET /api/v1/attendance/summary", h.requireSession(h.AttendanceSummary))
	mux.HandleFunc("GET /api/v1/attendance/drafts", h.requireSession(h.AttendanceDrafts))
}

// NewServeMux creates an http.Handler with the API routes registered and
// wrapped with logging and recovery middleware.
func NewServeMux(h *Handler, logger *slog.Logger) http.Handler {
	mux := http.NewServeMux()
	RegisterAPIRoutes(mux, h)
	return ApplyMiddleware(mux, logger)
}

// Health returns a simple health check response.
func (h *Handler) Health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{
		Status: "ok",
		Time:   time.Now().UTC().Format(time.RFC3339),
	})
}

// Session reports whether an administrator session is stored.
func (h *Handler) Session(w http.ResponseWriter, r *http.Request) {
	status, err := h.session.Status(r.Context())
	if err != nil {
		h.logger.Error("failed to read session status", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, http.StatusOK, toSessionResponse(status))
}

// AttendanceSummary returns the weekly and monthly attendance series of a
// division, or of the whole school when no division is given.
func (h *Handler) AttendanceSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.attendance.Summary(r.Context(), r.URL.Query().Get("division"))
	if err != nil {
		h.serviceError(w, r, err, "failed to load attendance summary")
		return
	}

	writeJSON(w, http.StatusOK, toAttendanceSummaryResponse(summary))
}

// AttendanceDrafts returns the attendance entries of a division that have not
// been submitted yet.
func (h *Handler) AttendanceDrafts(w http.ResponseWriter, r *http.Request) {
	division := r.URL.Query().Get("division")
	if division == "" {
		writeError(w, http.StatusBadRequest, "division is required")
		return
	}

	drafts, err := h.attendance.ListDrafts(r.Context(), division)
	if err != nil {
		h.serviceError(w, r, err, "failed to list attendance drafts")
		return
	}

	resp := make([]DraftResponse, 0, len(drafts))
	for _, d := range drafts {
		resp = append(resp, toDraftResponse(d))
	}

	writeJSON(w, http.StatusOK, resp)
}

// requireSession answers 401 unless the caller's browser session holds tokens.
func (h *Handler) requireSession(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status, err := h.session.Status(r.Context())
		if err != nil {
			h.logger.Error("failed to read session status", "error", err)
			writeError(w, http.StatusInternalServerError, "internal server error")
			return
		}
		if !status.LoggedIn {
			writeError(w, http.StatusUnauthorized, "sign in required")
			return
		}
		next(w, r)
	}
}

// serviceError maps a service failure to a status code.
func (h *Handler) serviceError(w http.ResponseWriter, r *http.Request, err error, msg string) {
	switch {
	case errors.Is(err, application.ErrInvalidInput):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, application.ErrSessionExpired):
		writeError(w, http.StatusUnauthorized, "session expired: sign in again")
	default:
		h.logger.Error(msg, "path", r.URL.Path, "error", err)
		writeError(w, http.StatusBadGateway, "upstream request failed")
	}
}
