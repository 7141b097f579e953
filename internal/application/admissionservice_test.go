package application

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ericfisherdev/schoolportal/internal/domain/model"
)

func admissionFixtures() []model.Admission {
	return []model.Admission{
		{ID: 1, StudentName: "Anu", CreatedAt: time.Date(2024, time.June, 3, 10, 0, 0, 0, time.UTC)},
		{ID: 2, StudentName: "Biju", CreatedAt: time.Date(2025, time.May, 20, 9, 0, 0, 0, time.UTC)},
		{ID: 3, StudentName: "Devi", CreatedAt: time.Date(2025, time.June, 1, 8, 0, 0, 0, time.UTC)},
		{ID: 4, StudentName: "Hari", CreatedAt: time.Date(2025, time.June, 1, 15, 0, 0, 0, time.UTC)},
	}
}

func admissionNames(admissions []model.Admission) []string {
	names := make([]string, 0, len(admissions))
	for _, a := range admissions {
		names = append(names, a.StudentName)
	}
	return names
}

func TestAdmissionService_List(t *testing.T) {
	tests := []struct {
		name   string
		filter AdmissionFilter
		want   []string
	}{
		{name: "no filter newest first", filter: AdmissionFilter{}, want: []string{"Hari", "Devi", "Biju", "Anu"}},
		{name: "year", filter: AdmissionFilter{Year: 2025}, want: []string{"Hari", "Devi", "Biju"}},
		{name: "month", filter: AdmissionFilter{Month: "June"}, want: []string{"Hari", "Devi", "Anu"}},
		{name: "year and month", filter: AdmissionFilter{Year: 2025, Month: "June"}, want: []string{"Hari", "Devi"}},
		{name: "date", filter: AdmissionFilter{Date: "2025-06-01"}, want: []string{"Hari", "Devi"}},
		{name: "nothing matches", filter: AdmissionFilter{Year: 2019}, want: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewAdmissionService(&mockAdminAPI{admissions: admissionFixtures()}, &mockAdminAPI{}, time.UTC)

			list, err := svc.List(context.Background(), tt.filter)

			require.NoError(t, err)
			assert.Equal(t, tt.want, admissionNames(list.Admissions))
			assert.Equal(t, []string{"June", "May"}, list.Months)
		})
	}
}

func TestAdmissionService_ListUsesLocation(t *testing.T) {
	ist := time.FixedZone("IST", 5*60*60+30*60)
	admissions := []model.Admission{
		{ID: 1, StudentName: "Late", CreatedAt: time.Date(2025, time.June, 1, 20, 0, 0, 0, time.UTC)},
	}
	svc := NewAdmissionService(&mockAdminAPI{admissions: admissions}, &mockAdminAPI{}, ist)

	list, err := svc.List(context.Background(), AdmissionFilter{Date: "2025-06-02"})

	require.NoError(t, err)
	assert.Equal(t, []string{"Late"}, admissionNames(list.Admissions))
}

func TestAdmissionService_ListRejectsBadDate(t *testing.T) {
	svc := NewAdmissionService(&mockAdminAPI{}, &mockAdminAPI{}, time.UTC)

	_, err := svc.List(context.Background(), AdmissionFilter{Date: "June 1"})

	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestAdmissionService_Submit(t *testing.T) {
	tests := []struct {
		name      string
		admission model.Admission
		wantErr   bool
	}{
		{name: "valid", admission: model.Admission{StudentName: " Asha ", PhoneNum: "9876543210", Address: "12 Hill Road"}},
		{name: "international prefix", admission: model.Admission{StudentName: "Asha", PhoneNum: "+919876543210", Address: "12 Hill Road"}},
		{name: "missing name", admission: model.Admission{PhoneNum: "9876543210", Address: "12 Hill Road"}, wantErr: true},
		{name: "short phone", admission: model.Admission{StudentName: "Asha", PhoneNum: "12345", Address: "12 Hill Road"}, wantErr: true},
		{name: "letters in phone", admission: model.Admission{StudentName: "Asha", PhoneNum: "98765abc10", Address: "12 Hill Road"}, wantErr: true},
		{name: "missing address", admission: model.Admission{StudentName: "Asha", PhoneNum: "9876543210", Address: " "}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			public := &mockAdminAPI{}
			svc := NewAdmissionService(&mockAdminAPI{}, public, time.UTC)

			err := svc.Submit(context.Background(), tt.admission)

			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidInput)
				assert.Empty(t, public.submitted)
				return
			}
			require.NoError(t, err)
			require.Len(t, public.submitted, 1)
			assert.Equal(t, "Asha", public.submitted[0].StudentName)
		})
	}
}
