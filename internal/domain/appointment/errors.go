package appointment

import "errors"

var (
	ErrAppointmentNotFound = errors.New("appointment not found")
	ErrSlotTaken           = errors.New("a scheduled appointment already exists for this date and time")
	ErrInvalidTransition   = errors.New("invalid appointment status transition")
)
