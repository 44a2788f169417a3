package pharmacy

import "context"

type Repository interface {
	// CreateMedication returns ErrDuplicateCode on a code collision.
	CreateMedication(ctx context.Context, m *Medication) error

	// GetByCode returns ErrMedicationNotFound if absent.
	GetByCode(ctx context.Context, code string) (*Medication, error)

	// AdjustStock applies the delta atomically, rejecting with
	// ErrInsufficientStock if the result would be negative.
	AdjustStock(ctx context.Context, code string, delta int) (*Medication, error)

	// ListLowStock returns medications at or under their alert threshold.
	ListLowStock(ctx context.Context) ([]*Medication, error)

	// CountLowStock counts medications at or under their alert threshold.
	CountLowStock(ctx context.Context) (int64, error)

	// Dispense deducts the line's quantity from stock and records the
	// order in one transaction, so a refused deduction never leaves a
	// dangling order and a failed order never loses stock. Rejects with
	// ErrInsufficientStock if the deduction would drive stock negative.
	Dispense(ctx context.Context, code string, l *PrescriptionLine) (*Medication, error)

	// ListPrescriptionsByConsultation returns a consultation's orders.
	ListPrescriptionsByConsultation(ctx context.Context, consultationID uint) ([]*PrescriptionLine, error)
}
