package patient

import "context"

type Repository interface {
	// Create persists a new patient and assigns its file number within
	// the same transaction. Returns ErrDuplicateFileNumber if the unique
	// constraint rejects the generated number.
	Create(ctx context.Context, p *Patient) error

	// GetByID retrieves a patient by primary key. Returns
	// ErrPatientNotFound if absent.
	GetByID(ctx context.Context, id uint) (*Patient, error)

	// GetByFileNumber retrieves a patient by file number.
	GetByFileNumber(ctx context.Context, fileNumber string) (*Patient, error)

	// Update applies the partial update command. The file number is never
	// touched.
	Update(ctx context.Context, id uint, cmd *UpdatePatientCommand) (*Patient, error)

	// Search returns patients whose file number, name, phone or national
	// ID contain the query term, ordered by name.
	Search(ctx context.Context, q *SearchQuery) ([]*Patient, error)
}
