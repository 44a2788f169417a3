package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/clinicdesk/clinicdesk/internal/domain/vaccination"
)

type vaccinationRepo struct {
	db *gorm.DB
}

func NewVaccinationRepository(db *gorm.DB) vaccination.Repository {
	return &vaccinationRepo{db: db}
}

func (r *vaccinationRepo) Create(ctx context.Context, rec *vaccination.Record) error {
	return r.db.WithContext(ctx).Create(rec).Error
}

func (r *vaccinationRepo) ListByPatient(ctx context.Context, patientID uint) ([]*vaccination.Record, error) {
	var out []*vaccination.Record
	err := r.db.WithContext(ctx).
		Where("patient_id = ?", patientID).
		Order("administered_at").
		Find(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}
