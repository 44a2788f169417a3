package appointment

import "context"

type Repository interface {
	// Create persists a new scheduled appointment. Returns ErrSlotTaken
	// if a scheduled appointment already occupies the slot.
	Create(ctx context.Context, a *Appointment) error

	// GetByID returns ErrAppointmentNotFound if absent.
	GetByID(ctx context.Context, id uint) (*Appointment, error)

	// UpdateStatus persists a status transition.
	UpdateStatus(ctx context.Context, a *Appointment) error

	// ListByDate returns a day's appointments ordered by time.
	ListByDate(ctx context.Context, date string) ([]*Appointment, error)

	// CountScheduledOn counts scheduled appointments on the given date.
	CountScheduledOn(ctx context.Context, date string) (int64, error)
}
