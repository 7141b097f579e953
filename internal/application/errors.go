package application

import (
	"errors"

	"github.com/ericfisherdev/schoolportal/internal/domain/port/driven"
)

var (
	// ErrInvalidInput is wrapped by every validation failure in this package.
	ErrInvalidInput = errors.New("invalid input")

	// ErrNoDrafts is returned when submitting a division that has no drafts.
	ErrNoDrafts = errors.New("no attendance drafts to submit")

	// ErrSessionExpired is matched by service errors caused by a session the
	// backend rejected and that could not be refreshed.
	ErrSessionExpired = driven.ErrSessionExpired

	// ErrDuplicateRollNumber is returned when marks for a roll number already
	// exist for the same division, year and exam.
	ErrDuplicateRollNumber = errors.New("marks already entered for this roll number")
)
