package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/clinicdesk/clinicdesk/internal/domain/consultation"
)

type consultationRepo struct {
	db *gorm.DB
}

func NewConsultationRepository(db *gorm.DB) consultation.Repository {
	return &consultationRepo{db: db}
}

func (r *consultationRepo) Create(ctx context.Context, c *consultation.Consultation) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *consultationRepo) GetByID(ctx context.Context, id uint) (*consultation.Consultation, error) {
	var c consultation.Consultation
	if err := r.db.WithContext(ctx).First(&c, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, consultation.ErrConsultationNotFound
		}
		return nil, err
	}
	return &c, nil
}

func (r *consultationRepo) ListByPatient(ctx context.Context, patientID uint) ([]*consultation.Consultation, error) {
	var list []*consultation.Consultation
	err := r.db.WithContext(ctx).
		Where("patient_id = ?", patientID).
		Order("created_at DESC").
		Find(&list).Error
	if err != nil {
		return nil, err
	}
	return list, nil
}
