package model

import "time"

// Admission is an admission enquiry submitted from the public site.
type Admission struct {
	ID          int64
	StudentName string
	PhoneNum    string
	Address     string
	CreatedAt   time.Time
}
