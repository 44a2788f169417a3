package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/clinicdesk/clinicdesk/internal/domain/pharmacy"
)

type pharmacyRepo struct {
	db *gorm.DB
}

func NewPharmacyRepository(db *gorm.DB) pharmacy.Repository {
	return &pharmacyRepo{db: db}
}

func (r *pharmacyRepo) CreateMedication(ctx context.Context, m *pharmacy.Medication) error {
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		if isUniqueViolation(err) {
			return pharmacy.ErrDuplicateCode
		}
		return err
	}
	return nil
}

func (r *pharmacyRepo) GetByCode(ctx context.Context, code string) (*pharmacy.Medication, error) {
	var m pharmacy.Medication
	if err := r.db.WithContext(ctx).Where("code = ?", code).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pharmacy.ErrMedicationNotFound
		}
		return nil, err
	}
	return &m, nil
}

// AdjustStock moves the counter with a guarded update so a dispense can
// never drive stock below zero, even with concurrent callers.
func (r *pharmacyRepo) AdjustStock(ctx context.Context, code string, delta int) (*pharmacy.Medication, error) {
	var m pharmacy.Medication
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("code = ?", code).First(&m).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pharmacy.ErrMedicationNotFound
			}
			return err
		}

		res := tx.Model(&pharmacy.Medication{}).
			Where("code = ? AND stock + ? >= 0", code, delta).
			UpdateColumn("stock", gorm.Expr("stock + ?", delta))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return pharmacy.ErrInsufficientStock
		}
		m.Stock += delta
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *pharmacyRepo) ListLowStock(ctx context.Context) ([]*pharmacy.Medication, error) {
	var out []*pharmacy.Medication
	err := r.db.WithContext(ctx).
		Where("stock <= alert_threshold").
		Order("stock").
		Find(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *pharmacyRepo) CountLowStock(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&pharmacy.Medication{}).
		Where("stock <= alert_threshold").
		Count(&n).Error
	return n, err
}

// Dispense runs the guarded stock deduction and the order insert in a
// single transaction.
func (r *pharmacyRepo) Dispense(ctx context.Context, code string, l *pharmacy.PrescriptionLine) (*pharmacy.Medication, error) {
	var m pharmacy.Medication
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("code = ?", code).First(&m).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pharmacy.ErrMedicationNotFound
			}
			return err
		}

		res := tx.Model(&pharmacy.Medication{}).
			Where("code = ? AND stock >= ?", code, l.Quantity).
			UpdateColumn("stock", gorm.Expr("stock - ?", l.Quantity))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return pharmacy.ErrInsufficientStock
		}
		m.Stock -= l.Quantity

		l.MedicationID = m.ID
		return tx.Create(l).Error
	})
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *pharmacyRepo) ListPrescriptionsByConsultation(ctx context.Context, consultationID uint) ([]*pharmacy.PrescriptionLine, error) {
	var out []*pharmacy.PrescriptionLine
	err := r.db.WithContext(ctx).
		Where("consultation_id = ?", consultationID).
		Order("id").
		Find(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}
