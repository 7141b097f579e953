package web

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/a-h/templ"

	"github.com/ericfisherdev/schoolportal/internal/adapter/driving/web/templates"
	vm "github.com/ericfisherdev/schoolportal/internal/adapter/driving/web/viewmodel"
	"github.com/ericfisherdev/schoolportal/internal/application"
	"github.com/ericfisherdev/schoolportal/internal/domain/model"
)

// Events renders the public event feed. Signed-in administrators also get
// delete buttons.
func (h *Handler) Events(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	p := h.page(w, r, "Events")

	posts, err := h.posts.Events(ctx)
	if err != nil {
		h.fail(w, r, p, nil, err, "load events")
		return
	}
	shorts, err := h.posts.Shorts(ctx)
	if err != nil {
		// The feed is still useful without the videos.
		h.logger.Warn("failed to load shorts", "error", err)
	}

	h.render(w, r, http.StatusOK, p, templates.Events(vm.EventsPage{
		Page:   p,
		Events: toEventCards(posts, h.loc),
		Shorts: toShortCards(shorts),
	}))
}

// DeleteEvent removes an event post.
func (h *Handler) DeleteEvent(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		err = fmt.Errorf("%w: invalid event id %q", application.ErrInvalidInput, r.PathValue("id"))
	} else {
		err = h.posts.Delete(r.Context(), id)
	}
	if err != nil {
		h.fail(w, r, h.page(w, r, "Events"), nil, err, "delete the event")
		return
	}

	redirectWith(w, r, "/events", map[string]string{"notice": "Event deleted."})
}

// AdmissionForm renders the public admission enquiry form.
func (h *Handler) AdmissionForm(w http.ResponseWriter, r *http.Request) {
	p := h.page(w, r, "Admission enquiry")
	h.render(w, r, http.StatusOK, p, templates.AdmissionForm(vm.AdmissionFormPage{Page: p}))
}

// SubmitAdmission sends an admission enquiry.
func (h *Handler) SubmitAdmission(w http.ResponseWriter, r *http.Request) {
	form := admissionForm{
		StudentName: strings.TrimSpace(r.PostFormValue("student_name")),
		PhoneNum:    strings.TrimSpace(r.PostFormValue("phone_num")),
		Address:     strings.TrimSpace(r.PostFormValue("address")),
	}
	p := h.page(w, r, "Admission enquiry")
	body := func(p vm.Page) templ.Component {
		return templates.AdmissionForm(vm.AdmissionFormPage{
			Page:        p,
			StudentName: form.StudentName,
			PhoneNum:    form.PhoneNum,
			Address:     form.Address,
		})
	}

	if errs := validateForm(form); errs != nil {
		h.invalid(w, r, p, errs, body)
		return
	}

	err := h.admissions.Submit(r.Context(), model.Admission{
		StudentName: form.StudentName,
		PhoneNum:    form.PhoneNum,
		Address:     form.Address,
	})
	if err != nil {
		h.fail(w, r, p, body(p), err, "submit the enquiry")
		return
	}

	redirectWith(w, r, "/admission", map[string]string{"notice": "Thank you. The school office will contact you."})
}
