// Package web implements the HTML GUI driving adapter using templ components.
package web

import (
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/a-h/templ"

	"github.com/ericfisherdev/schoolportal/internal/adapter/driving/web/templates"
	vm "github.com/ericfisherdev/schoolportal/internal/adapter/driving/web/viewmodel"
	"github.com/ericfisherdev/schoolportal/internal/application"
)

// Handler is the web GUI driving adapter that serves HTML via templ components.
type Handler struct {
	session    *application.SessionService
	attendance *application.AttendanceService
	admissions *application.AdmissionService
	results    *application.ResultService
	posts      *application.PostService
	loginRoute string
	loc        *time.Location
	logger     *slog.Logger
}

// NewHandler creates a Handler with all required dependencies. loginRoute is
// where unauthenticated visitors are sent; it must match the route the API
// client redirects to.
func NewHandler(
	session *application.SessionService,
	attendance *application.AttendanceService,
	admissions *application.AdmissionService,
	results *application.ResultService,
	posts *application.PostService,
	loginRoute string,
	logger *slog.Logger,
) *Handler {
	return &Handler{
		session:    session,
		attendance: attendance,
		admissions: admissions,
		results:    results,
		posts:      posts,
		loginRoute: loginRoute,
		loc:        time.Local,
		logger:     logger,
	}
}

// page builds the common page fields. A notice query parameter on GET
// requests is shown as a flash message.
func (h *Handler) page(w http.ResponseWriter, r *http.Request, title string) vm.Page {
	p := vm.Page{
		Title:     title,
		CSRFToken: csrfToken(w, r),
	}
	if r.Method == http.MethodGet {
		p.Notice = r.URL.Query().Get("notice")
	}

	status, err := h.session.Status(r.Context())
	if err != nil {
		h.logger.Error("failed to read session status", "error", err)
	}
	p.LoggedIn = status.LoggedIn
	return p
}

func (h *Handler) render(w http.ResponseWriter, r *http.Request, status int, p vm.Page, body templ.Component) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := templates.Layout(p, body).Render(r.Context(), w); err != nil {
		h.logger.Error("failed to render page", "title", p.Title, "error", err)
	}
}

// fail reports a service error. A request the API client marked for login,
// or any expired session, is redirected; invalid input is shown as 400;
// anything else is logged and shown as 502 because the backend could not
// serve it.
func (h *Handler) fail(w http.ResponseWriter, r *http.Request, p vm.Page, body templ.Component, err error, action string) {
	if route, ok := loginRedirect(r); ok {
		http.Redirect(w, r, route, http.StatusSeeOther)
		return
	}
	if errors.Is(err, application.ErrSessionExpired) {
		http.Redirect(w, r, h.loginRoute, http.StatusSeeOther)
		return
	}

	status := http.StatusBadGateway
	switch {
	case errors.Is(err, application.ErrInvalidInput), errors.Is(err, application.ErrNoDrafts),
		errors.Is(err, application.ErrDuplicateRollNumber):
		status = http.StatusBadRequest
		p.Error = err.Error()
	default:
		h.logger.Error("request failed", "action", action, "path", r.URL.Path, "error", err)
		p.Error = "Could not " + action + ". Please try again."
	}
	if body == nil {
		body = templates.ErrorPage()
	}
	h.render(w, r, status, p, body)
}

// invalid re-renders a form with its validation messages.
func (h *Handler) invalid(w http.ResponseWriter, r *http.Request, p vm.Page, errs fieldErrors, body func(vm.Page) templ.Component) {
	p.Errors = errs
	if msg, ok := errs[""]; ok {
		p.Error = msg
	}
	h.render(w, r, http.StatusUnprocessableEntity, p, body(p))
}

// requireSession sends visitors without a stored session to the login page.
func (h *Handler) requireSession(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status, err := h.session.Status(r.Context())
		if err != nil {
			h.logger.Error("failed to read session status", "error", err)
			http.Error(w, "internal server error", http.StatusInternalServerError)
			return
		}
		if !status.LoggedIn {
			http.Redirect(w, r, h.loginRoute, http.StatusSeeOther)
			return
		}
		next(w, r)
	}
}

// redirectWith redirects to path with the given query parameters.
func redirectWith(w http.ResponseWriter, r *http.Request, path string, params map[string]string) {
	q := url.Values{}
	for k, v := range params {
		if v != "" {
			q.Set(k, v)
		}
	}
	target := path
	if len(q) > 0 {
		target += "?" + q.Encode()
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}

// summary joins validation messages for pages that show a single error.
func (e fieldErrors) summary() string {
	msgs := make([]string, 0, len(e))
	for _, msg := range e {
		msgs = append(msgs, msg)
	}
	sort.Strings(msgs)
	return strings.Join(msgs, "; ")
}
