package web

import (
	"errors"
	"net/http"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"

	"github.com/ericfisherdev/schoolportal/internal/domain/model"
)

var (
	validate   *validator.Validate
	translator ut.Translator

	// custom validation tags
	notBlankTag = "notblank"
)

func init() {
	validate = validator.New()

	// English error messages for validation errors.
	_en := en.New()
	uni := ut.New(_en, _en)
	translator, _ = uni.GetTranslator("en")
	_ = en_translations.RegisterDefaultTranslations(validate, translator)

	// Report form field names instead of Go struct names.
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("form"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	_ = validate.RegisterValidation(notBlankTag, notBlankValidation)
	_ = validate.RegisterTranslation(notBlankTag, translator,
		func(ut.Translator) error { return nil },
		func(_ ut.Translator, fe validator.FieldError) string {
			return fe.Field() + " cannot be blank"
		},
	)
}

func notBlankValidation(fl validator.FieldLevel) bool {
	if str, ok := fl.Field().Interface().(string); ok {
		return strings.TrimSpace(str) != ""
	}
	return false
}

// fieldErrors maps a form field name to its validation message.
type fieldErrors map[string]string

// validateForm validates a form struct. It returns nil when the form is valid.
func validateForm(form any) fieldErrors {
	err := validate.Struct(form)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fieldErrors{"": err.Error()}
	}

	out := make(fieldErrors, len(verrs))
	for _, fe := range verrs {
		out[fe.Field()] = fe.Translate(translator)
	}
	return out
}

// formInt parses an integer form field; a missing or malformed value is 0 so
// validation reports it.
func formInt(r *http.Request, key string) int {
	n, err := strconv.Atoi(strings.TrimSpace(r.FormValue(key)))
	if err != nil {
		return 0
	}
	return n
}

type loginForm struct {
	Username string `form:"username" validate:"notblank,max=150"`
	Password string `form:"password" validate:"required"`
}

type draftForm struct {
	Division    string `form:"division" validate:"required,oneof=10A 10B 9A 9B 8A 8B"`
	StudentName string `form:"student_name" validate:"notblank,max=100"`
	RollNumber  int    `form:"roll_number" validate:"gt=0"`
	Year        string `form:"year" validate:"notblank"`
	Status      string `form:"status" validate:"oneof=Present Absent"`
}

type submitAttendanceForm struct {
	Division string `form:"division" validate:"required,oneof=10A 10B 9A 9B 8A 8B"`
	Date     string `form:"date" validate:"required,datetime=2006-01-02"`
}

type clearMarksForm struct {
	Division string `form:"division" validate:"required,oneof=10A 10B 9A 9B 8A 8B"`
	Year     int    `form:"year" validate:"omitempty,gte=2000,lte=2100"`
	Exam     string `form:"exam" validate:"omitempty,oneof='First Term' 'Second Term' 'Annual Exam'"`
}

type marksForm struct {
	Division    string `form:"division" validate:"required,oneof=10A 10B 9A 9B 8A 8B"`
	RollNo      string `form:"roll_no" validate:"notblank,max=10"`
	StudentName string `form:"student_name" validate:"notblank,max=100"`
	Year        int    `form:"year" validate:"gte=2000,lte=2100"`
	Exam        string `form:"exam" validate:"required,oneof='First Term' 'Second Term' 'Annual Exam'"`
}

// subjectMarks parses one optional mark field per subject. A blank field is
// an absent mark.
func subjectMarks(r *http.Request) ([]model.SubjectMark, fieldErrors) {
	var errs fieldErrors
	marks := make([]model.SubjectMark, 0, len(model.Subjects))
	for _, subject := range model.Subjects {
		sm := model.SubjectMark{Subject: subject}
		if v := strings.TrimSpace(r.PostFormValue(subject)); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil || n < 0 || n > 100 {
				if errs == nil {
					errs = fieldErrors{}
				}
				errs[subject] = subject + " must be a whole number from 0 to 100"
				continue
			}
			sm.Mark = &n
		}
		marks = append(marks, sm)
	}
	return marks, errs
}

type admissionForm struct {
	StudentName string `form:"student_name" validate:"notblank,max=100"`
	PhoneNum    string `form:"phone_num" validate:"notblank"`
	Address     string `form:"address" validate:"notblank,max=500"`
}

type resetEmailForm struct {
	Email string `form:"email" validate:"required,email"`
}

type resetCodeForm struct {
	Email string `form:"email" validate:"required,email"`
	Code  string `form:"otp" validate:"required,numeric,len=6"`
}

type resetPasswordForm struct {
	Email    string `form:"email" validate:"required,email"`
	Password string `form:"password" validate:"required,min=8"`
	Confirm  string `form:"confirm_password" validate:"eqfield=Password"`
}
