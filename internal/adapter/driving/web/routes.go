package web

import (
	"io/fs"
	"net/http"
)

// RegisterRoutes registers all web GUI routes on the provided mux.
// Every page is bound to the browser session named by its cookie. Admin pages
// require that session to hold tokens; state-changing forms require a CSRF
// token. Static assets are served from the embedded filesystem at
// /static/*.
func RegisterRoutes(mux *http.ServeMux, h *Handler) {
	// Static assets (embedded via go:embed).
	staticFS, _ := fs.Sub(StaticFS, "static")
	mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServerFS(staticFS)))

	page := func(pattern string, fn http.HandlerFunc) {
		mux.Handle(pattern, BindSession(trackLoginRedirects(fn)))
	}

	// Public pages.
	page("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/events", http.StatusSeeOther)
	})
	page("GET /events", h.Events)
	page("GET /admission", h.AdmissionForm)
	page("POST /admission", requireCSRF(h.SubmitAdmission))

	// Session.
	page("GET "+h.loginRoute, h.LoginForm)
	page("POST "+h.loginRoute, requireCSRF(h.Login))
	page("POST /logout", requireCSRF(h.Logout))
	page("GET /forgot-password", h.ForgotPasswordForm)
	page("POST /forgot-password", requireCSRF(h.ForgotPassword))
	page("POST /verify-otp", requireCSRF(h.VerifyOTP))
	page("POST /reset-password", requireCSRF(h.ResetPassword))

	// Admin pages.
	page("GET /admin-dashboard", h.requireSession(h.Dashboard))
	page("GET /admission-data", h.requireSession(h.Admissions))
	page("GET /results", h.requireSession(h.Results))
	page("POST /results", h.requireSession(requireCSRF(h.AddMarks)))
	page("POST /results/clear", h.requireSession(requireCSRF(h.ClearResults)))
	page("POST /results/clear-all", h.requireSession(requireCSRF(h.ClearAllResults)))
	page("GET /attendance", h.requireSession(h.Attendance))
	page("POST /attendance/drafts", h.requireSession(requireCSRF(h.AddAttendanceDraft)))
	page("POST /attendance/submit", h.requireSession(requireCSRF(h.SubmitAttendance)))
	page("POST /attendance/discard", h.requireSession(requireCSRF(h.DiscardAttendance)))
	page("POST /events/{id}/delete", h.requireSession(requireCSRF(h.DeleteEvent)))
}
