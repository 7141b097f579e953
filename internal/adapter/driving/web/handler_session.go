package web

import (
	"errors"
	"net/http"
	"strings"

	"github.com/a-h/templ"

	"github.com/ericfisherdev/schoolportal/internal/adapter/driving/web/templates"
	vm "github.com/ericfisherdev/schoolportal/internal/adapter/driving/web/viewmodel"
	"github.com/ericfisherdev/schoolportal/internal/application"
)

// LoginForm renders the sign-in page, or skips it when already signed in.
func (h *Handler) LoginForm(w http.ResponseWriter, r *http.Request) {
	p := h.page(w, r, "Admin login")
	if p.LoggedIn {
		http.Redirect(w, r, "/admin-dashboard", http.StatusSeeOther)
		return
	}
	h.render(w, r, http.StatusOK, p, templates.Login(vm.LoginPage{Page: p}))
}

// Login exchanges the submitted credentials for tokens stored under a new
// browser session. The id is rotated on every sign-in.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	form := loginForm{
		Username: strings.TrimSpace(r.PostFormValue("username")),
		Password: r.PostFormValue("password"),
	}
	p := h.page(w, r, "Admin login")
	body := func(p vm.Page) templ.Component {
		return templates.Login(vm.LoginPage{Page: p, Username: form.Username})
	}

	if errs := validateForm(form); errs != nil {
		h.invalid(w, r, p, errs, body)
		return
	}

	sessionID, sessionReq := newSession(r)
	if err := h.session.Login(sessionReq.Context(), form.Username, form.Password); err != nil {
		if errors.Is(err, application.ErrInvalidInput) {
			h.fail(w, r, p, body(p), err, "sign in")
			return
		}
		h.logger.Warn("sign in rejected", "username", form.Username, "error", err)
		p.Error = "Sign in failed. Check your username and password."
		h.render(w, r, http.StatusUnauthorized, p, body(p))
		return
	}

	if err := h.session.Logout(r.Context()); err != nil {
		h.logger.Warn("failed to drop previous session", "error", err)
	}
	issueSession(w, r, sessionID)
	http.Redirect(w, r, "/admin-dashboard", http.StatusSeeOther)
}

// Logout clears this browser's tokens and its session cookie.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.session.Logout(r.Context()); err != nil {
		h.fail(w, r, h.page(w, r, "Log out"), nil, err, "log out")
		return
	}
	endSession(w, r)
	http.Redirect(w, r, h.loginRoute, http.StatusSeeOther)
}

// ForgotPasswordForm renders the first step of the password reset.
func (h *Handler) ForgotPasswordForm(w http.ResponseWriter, r *http.Request) {
	p := h.page(w, r, "Reset password")
	h.render(w, r, http.StatusOK, p, templates.PasswordReset(vm.PasswordResetPage{Page: p, Step: vm.ResetStepEmail}))
}

// ForgotPassword emails a one-time code.
func (h *Handler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	form := resetEmailForm{Email: strings.TrimSpace(r.PostFormValue("email"))}
	h.resetStep(w, r, form, vm.ResetStepEmail, vm.ResetStepCode, form.Email, func() error {
		return h.session.RequestPasswordReset(r.Context(), form.Email)
	})
}

// VerifyOTP checks the emailed code.
func (h *Handler) VerifyOTP(w http.ResponseWriter, r *http.Request) {
	form := resetCodeForm{
		Email: strings.TrimSpace(r.PostFormValue("email")),
		Code:  strings.TrimSpace(r.PostFormValue("otp")),
	}
	h.resetStep(w, r, form, vm.ResetStepCode, vm.ResetStepPassword, form.Email, func() error {
		return h.session.VerifyResetCode(r.Context(), form.Email, form.Code)
	})
}

// ResetPassword sets the new password and returns to the login page.
func (h *Handler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	form := resetPasswordForm{
		Email:    strings.TrimSpace(r.PostFormValue("email")),
		Password: r.PostFormValue("password"),
		Confirm:  r.PostFormValue("confirm_password"),
	}
	p := h.page(w, r, "Reset password")
	body := func(p vm.Page) templ.Component {
		return templates.PasswordReset(vm.PasswordResetPage{Page: p, Step: vm.ResetStepPassword, Email: form.Email})
	}

	if errs := validateForm(form); errs != nil {
		h.invalid(w, r, p, errs, body)
		return
	}
	if err := h.session.ResetPassword(r.Context(), form.Email, form.Password); err != nil {
		h.fail(w, r, p, body(p), err, "reset the password")
		return
	}

	redirectWith(w, r, h.loginRoute, map[string]string{"notice": "Password updated. Sign in with your new password."})
}

// resetStep validates form, runs call and renders either the same step with
// its errors or the next step.
func (h *Handler) resetStep(w http.ResponseWriter, r *http.Request, form any, step, next, email string, call func() error) {
	p := h.page(w, r, "Reset password")
	body := func(step string) func(vm.Page) templ.Component {
		return func(p vm.Page) templ.Component {
			return templates.PasswordReset(vm.PasswordResetPage{Page: p, Step: step, Email: email})
		}
	}

	if errs := validateForm(form); errs != nil {
		h.invalid(w, r, p, errs, body(step))
		return
	}
	if err := call(); err != nil {
		h.fail(w, r, p, body(step)(p), err, "continue the password reset")
		return
	}

	h.render(w, r, http.StatusOK, p, body(next)(p))
}
