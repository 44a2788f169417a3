package repository

import (
	"context"
	"errors"
	"math/rand"
	"time"

	"gorm.io/gorm"

	"github.com/clinicdesk/clinicdesk/internal/domain/billing"
)

type billingRepo struct {
	db *gorm.DB
}

func NewBillingRepository(db *gorm.DB) billing.Repository {
	return &billingRepo{db: db}
}

// Create assigns the invoice number before insert and retries on a
// suffix collision. Three colliding random suffixes on the same day
// means something else is wrong, so we give up there.
func (r *billingRepo) Create(ctx context.Context, inv *billing.Invoice) error {
	now := time.Now()
	var err error
	for attempt := 0; attempt < 3; attempt++ {
		inv.Number = billing.InvoiceNumberFor(now, uint(rand.Intn(10000)))
		err = r.db.WithContext(ctx).Create(inv).Error
		if err == nil {
			return nil
		}
		if !isUniqueViolation(err) {
			return err
		}
	}
	return billing.ErrDuplicateNumber
}

func (r *billingRepo) GetByNumber(ctx context.Context, number string) (*billing.Invoice, error) {
	var inv billing.Invoice
	if err := r.db.WithContext(ctx).Where("number = ?", number).First(&inv).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, billing.ErrInvoiceNotFound
		}
		return nil, err
	}
	return &inv, nil
}

// RegisterPayment loads the invoice, applies fn and saves the result in
// a single transaction, so the derived total, remaining and status
// never drift from the payment that moved them.
func (r *billingRepo) RegisterPayment(ctx context.Context, number string, fn func(*billing.Invoice) error) (*billing.Invoice, error) {
	var inv billing.Invoice
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("number = ?", number).First(&inv).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return billing.ErrInvoiceNotFound
			}
			return err
		}
		if err := fn(&inv); err != nil {
			return err
		}
		return tx.Save(&inv).Error
	})
	if err != nil {
		return nil, err
	}
	return &inv, nil
}

func (r *billingRepo) ListUnpaid(ctx context.Context) ([]*billing.Invoice, error) {
	var out []*billing.Invoice
	err := r.db.WithContext(ctx).
		Where("status IN ?", []billing.Status{billing.StatusUnpaid, billing.StatusPartial}).
		Order("created_at").
		Find(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *billingRepo) CountUnpaidOver(ctx context.Context, amount float64) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&billing.Invoice{}).
		Where("status IN ? AND remaining > ?", []billing.Status{billing.StatusUnpaid, billing.StatusPartial}, amount).
		Count(&n).Error
	return n, err
}
