package consultation

import "context"

type Repository interface {
	// Create persists a new consultation against an existing patient.
	Create(ctx context.Context, c *Consultation) error

	// GetByID returns ErrConsultationNotFound if absent.
	GetByID(ctx context.Context, id uint) (*Consultation, error)

	// ListByPatient returns a patient's consultations, most recent first.
	ListByPatient(ctx context.Context, patientID uint) ([]*Consultation, error)
}
