package application

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/ericfisherdev/schoolportal/internal/domain/model"
	"github.com/ericfisherdev/schoolportal/internal/domain/port/driven"
)

// AdmissionFilter narrows the admission list. Zero values match everything.
type AdmissionFilter struct {
	Year  int
	Month string // full month name, e.g. "June"
	Date  string // YYYY-MM-DD
}

// AdmissionList is a filtered admission list plus the month names present in
// the unfiltered data, for the month selector.
type AdmissionList struct {
	Admissions []model.Admission
	Months     []string
}

// AdmissionService accepts admission enquiries from the public site and lists
// them for the administrator.
type AdmissionService struct {
	api    driven.AdminAPI
	public driven.PublicAPI
	loc    *time.Location
}

// NewAdmissionService creates a new AdmissionService. Dates are compared in
// loc; nil means the local time zone.
func NewAdmissionService(api driven.AdminAPI, public driven.PublicAPI, loc *time.Location) *AdmissionService {
	if loc == nil {
		loc = time.Local
	}
	return &AdmissionService{api: api, public: public, loc: loc}
}

// Submit validates and sends an admission enquiry.
func (s *AdmissionService) Submit(ctx context.Context, admission model.Admission) error {
	admission.StudentName = strings.TrimSpace(admission.StudentName)
	admission.PhoneNum = strings.TrimSpace(admission.PhoneNum)
	admission.Address = strings.TrimSpace(admission.Address)
	switch {
	case admission.StudentName == "":
		return fmt.Errorf("%w: student name is required", ErrInvalidInput)
	case !validPhone(admission.PhoneNum):
		return fmt.Errorf("%w: phone number must be 10 to 15 digits", ErrInvalidInput)
	case admission.Address == "":
		return fmt.Errorf("%w: address is required", ErrInvalidInput)
	}

	if err := s.public.SubmitAdmission(ctx, admission); err != nil {
		return fmt.Errorf("submit admission: %w", err)
	}
	return nil
}

func validPhone(phone string) bool {
	phone = strings.TrimPrefix(phone, "+")
	if len(phone) < 10 || len(phone) > 15 {
		return false
	}
	for _, r := range phone {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// List returns the admissions matching filter, newest first.
func (s *AdmissionService) List(ctx context.Context, filter AdmissionFilter) (AdmissionList, error) {
	if filter.Date != "" {
		if _, err := time.Parse(time.DateOnly, filter.Date); err != nil {
			return AdmissionList{}, fmt.Errorf("%w: date must be YYYY-MM-DD", ErrInvalidInput)
		}
	}

	all, err := s.api.ListAdmissions(ctx)
	if err != nil {
		return AdmissionList{}, fmt.Errorf("list admissions: %w", err)
	}

	sort.SliceStable(all, func(i, j int) bool {
		return all[i].CreatedAt.After(all[j].CreatedAt)
	})

	list := AdmissionList{
		Admissions: []model.Admission{},
		Months:     []string{},
	}
	seen := make(map[string]bool)
	for _, a := range all {
		created := a.CreatedAt.In(s.loc)
		month := created.Month().String()
		if !seen[month] {
			seen[month] = true
			list.Months = append(list.Months, month)
		}

		if filter.Year != 0 && created.Year() != filter.Year {
			continue
		}
		if filter.Month != "" && month != filter.Month {
			continue
		}
		if filter.Date != "" && created.Format(time.DateOnly) != filter.Date {
			continue
		}
		list.Admissions = append(list.Admissions, a)
	}

	return list, nil
}
