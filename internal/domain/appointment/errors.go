package appointment

import "errors"

var (
	ErrAppointmentNotFound  = errors.New("appointment not found")
	ErrSlotTaken            = errors.New("time slot is already booked")
	ErrDuplicateAppointment = errors.New("an identical appointment already exists")
	ErrScheduledInPast      = errors.New("appointment date cannot be in the past")
	ErrOutsideBusinessHours = errors.New("appointment time must be between 09:00 and 17:00")
	ErrScheduleUnchanged    = errors.New("new schedule matches the current one")

	// ErrRefCodeTaken signals a reference-code collision; callers regenerate and retry.
	ErrRefCodeTaken = errors.New("booking reference already in use")
)
