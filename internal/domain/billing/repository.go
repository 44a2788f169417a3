package billing

import "context"

type Repository interface {
	// Create persists a new invoice with its number assigned in the same
	// transaction. Returns ErrDuplicateNumber on a number collision.
	Create(ctx context.Context, inv *Invoice) error

	// GetByNumber returns ErrInvoiceNotFound if absent.
	GetByNumber(ctx context.Context, number string) (*Invoice, error)

	// RegisterPayment applies fn to the invoice identified by number and
	// persists the result in a single transaction, so the paid amount,
	// remaining and status are never observable out of step.
	RegisterPayment(ctx context.Context, number string, fn func(inv *Invoice) error) (*Invoice, error)

	// ListUnpaid returns invoices not yet fully paid, oldest first.
	ListUnpaid(ctx context.Context) ([]*Invoice, error)

	// CountUnpaidOver counts unpaid invoices whose remaining amount
	// exceeds the threshold.
	CountUnpaidOver(ctx context.Context, threshold float64) (int64, error)
}
