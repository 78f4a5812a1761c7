package services

import "errors"

var (
	ErrDuplicateSlot        = errors.New("a slot already exists for the selected tutor, date, and timeblock")
	ErrInvalidTimeblock     = errors.New("unknown timeblock")
	ErrCourseNotFound       = errors.New("course not found")
	ErrTutorNotFound        = errors.New("tutor not found")
	ErrStudentNotFound      = errors.New("student not found")
	ErrSlotNotFound         = errors.New("session not found or already cancelled")
	ErrSlotUnavailable      = errors.New("slot is no longer available")
	ErrNotEnrolled          = errors.New("student is not enrolled in the slot's course")
	ErrNotBookingStudent    = errors.New("session was not booked by this student")
	ErrNotSlotOwner         = errors.New("session belongs to another tutor")
	ErrSlotNotBooked        = errors.New("session has no booked student")
	ErrUserNotFound         = errors.New("user not found")
	ErrUnknownRole          = errors.New("unknown role")
	ErrInvalidSemesterDates = errors.New("semester start date must precede end date")
	ErrDuplicateSemester    = errors.New("semester already exists")
	ErrDuplicateCourse      = errors.New("course code already exists")
)
