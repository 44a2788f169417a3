package vaccination

import "context"

type Repository interface {
	// Create appends a vaccination record.
	Create(ctx context.Context, r *Record) error

	// ListByPatient returns a patient's vaccination history, most recent
	// first.
	ListByPatient(ctx context.Context, patientID uint) ([]*Record, error)
}
