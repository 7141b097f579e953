package templates

import (
	"github.com/a-h/templ"

	vm "github.com/ericfisherdev/schoolportal/internal/adapter/driving/web/viewmodel"
)

// Login renders the administrator sign-in form.
func Login(p vm.LoginPage) templ.Component {
	return component(func(m *markup) {
		m.raw(`<form class="card narrow" method="post" action="/admin-login">`)
		m.csrfField(p.CSRFToken)
		m.input("Username", "text", "username", p.Username, p.Errors)
		m.input("Password", "password", "password", "", p.Errors)
		m.raw(`<button type="submit">Sign in</button></form>`)
		m.raw(`<p><a href="/forgot-password">Forgot password?</a></p>`)
	})
}

// PasswordReset renders the current step of the emailed-code reset flow.
func PasswordReset(p vm.PasswordResetPage) templ.Component {
	return component(func(m *markup) {
		switch p.Step {
		case vm.ResetStepCode:
			m.raw(`<form class="card narrow" method="post" action="/verify-otp">`)
			m.csrfField(p.CSRFToken)
			m.raw(`<input type="hidden" name="email"`)
			m.attr("value", p.Email)
			m.raw(`><p>Enter the code sent to `)
			m.text(p.Email)
			m.raw(`.</p>`)
			m.input("Code", "text", "otp", "", p.Errors)
			m.raw(`<button type="submit">Verify</button></form>`)
		case vm.ResetStepPassword:
			m.raw(`<form class="card narrow" method="post" action="/reset-password">`)
			m.csrfField(p.CSRFToken)
			m.raw(`<input type="hidden" name="email"`)
			m.attr("value", p.Email)
			m.raw(`>`)
			m.input("New password", "password", "password", "", p.Errors)
			m.input("Confirm password", "password", "confirm_password", "", p.Errors)
			m.raw(`<button type="submit">Reset password</button></form>`)
		default:
			m.raw(`<form class="card narrow" method="post" action="/forgot-password">`)
			m.csrfField(p.CSRFToken)
			m.input("Email", "email", "email", p.Email, p.Errors)
			m.raw(`<button type="submit">Send code</button></form>`)
		}
	})
}
