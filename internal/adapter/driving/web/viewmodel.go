package web

import (
	"fmt"
	"strconv"
	"time"

	vm "github.com/ericfisherdev/schoolportal/internal/adapter/driving/web/viewmodel"
	"github.com/ericfisherdev/schoolportal/internal/application"
	"github.com/ericfisherdev/schoolportal/internal/domain/model"
)

const displayDate = "02 Jan 2006"

// exams lists the exam names in selector order.
var exams = []string{
	string(model.ExamFirstTerm),
	string(model.ExamSecondTerm),
	string(model.ExamAnnual),
}

// toChartBars scales a series so the tallest bar is 100%.
func toChartBars(points []model.AttendancePoint) []vm.ChartBar {
	peak := 0
	for _, p := range points {
		peak = max(peak, p.Present, p.Absent)
	}

	bars := make([]vm.ChartBar, 0, len(points))
	for _, p := range points {
		bar := vm.ChartBar{Label: p.Label, Present: p.Present, Absent: p.Absent}
		if peak > 0 {
			bar.PresentPct = p.Present * 100 / peak
			bar.AbsentPct = p.Absent * 100 / peak
		}
		bars = append(bars, bar)
	}
	return bars
}

func toAdmissionRows(admissions []model.Admission, loc *time.Location) []vm.AdmissionRow {
	rows := make([]vm.AdmissionRow, 0, len(admissions))
	for _, a := range admissions {
		rows = append(rows, vm.AdmissionRow{
			StudentName: a.StudentName,
			PhoneNum:    a.PhoneNum,
			Address:     a.Address,
			Submitted:   a.CreatedAt.In(loc).Format(displayDate),
		})
	}
	return rows
}

func toResultRows(sheets []application.ResultSheet) []vm.ResultRow {
	rows := make([]vm.ResultRow, 0, len(sheets))
	for _, s := range sheets {
		marks := make([]string, 0, len(s.Subjects))
		for _, sub := range s.Subjects {
			if sub.Absent {
				marks = append(marks, "AB")
				continue
			}
			marks = append(marks, strconv.Itoa(sub.Mark))
		}
		rows = append(rows, vm.ResultRow{
			RollNo:     s.Student.RollNo,
			Name:       s.Student.StudentName,
			Marks:      marks,
			Total:      fmt.Sprintf("%d / %d", s.Total, s.MaxTotal),
			Percentage: fmt.Sprintf("%.2f%%", s.Percentage),
			Grade:      s.Grade,
		})
	}
	return rows
}

func toDraftRows(drafts []model.AttendanceDraft) []vm.DraftRow {
	rows := make([]vm.DraftRow, 0, len(drafts))
	for _, d := range drafts {
		rows = append(rows, vm.DraftRow{
			StudentName: d.Entry.StudentName,
			RollNumber:  d.Entry.RollNumber,
			Year:        d.Entry.Year,
			Status:      string(d.Entry.Status),
		})
	}
	return rows
}

func toRecordRows(records []model.AttendanceRecord) []vm.RecordRow {
	rows := make([]vm.RecordRow, 0, len(records))
	for _, r := range records {
		rows = append(rows, vm.RecordRow{
			StudentName: r.StudentName,
			RollNumber:  r.RollNumber,
			Year:        r.Year,
			Status:      string(r.Status),
		})
	}
	return rows
}

func toEventCards(posts []model.EventPost, loc *time.Location) []vm.EventCard {
	cards := make([]vm.EventCard, 0, len(posts))
	for _, p := range posts {
		cards = append(cards, vm.EventCard{
			ID:              p.ID,
			Posted:          p.CreatedAt.In(loc).Format(displayDate),
			DescriptionHTML: RenderMarkdown(p.Description),
			FileURL:         p.FileURL,
			DeletePath:      fmt.Sprintf("/events/%d/delete", p.ID),
		})
	}
	return cards
}

func toShortCards(shorts []model.Short) []vm.ShortCard {
	cards := make([]vm.ShortCard, 0, len(shorts))
	for _, s := range shorts {
		cards = append(cards, vm.ShortCard{
			Title:    s.Title,
			Caption:  s.Caption,
			VideoURL: s.VideoURL,
		})
	}
	return cards
}
