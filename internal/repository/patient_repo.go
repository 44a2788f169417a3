package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/clinicdesk/clinicdesk/internal/domain/patient"
)

type patientRepo struct {
	db *gorm.DB
}

func NewPatientRepository(db *gorm.DB) patient.Repository {
	return &patientRepo{db: db}
}

// Create inserts the row and assigns the file number from the row's
// sequential identifier, both inside one transaction. The unique index
// on file_number is the final authority on uniqueness.
func (r *patientRepo) Create(ctx context.Context, p *patient.Patient) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Placeholder keeps the not-null constraint satisfied until the
		// row id is known.
		p.FileNumber = fmt.Sprintf("TMP-%d", time.Now().UnixNano())
		if err := tx.Create(p).Error; err != nil {
			if isUniqueViolation(err) {
				return patient.ErrDuplicateFileNumber
			}
			return err
		}

		p.FileNumber = patient.FileNumberFor(p.Category, time.Now(), p.ID)
		if err := tx.Model(p).Update("file_number", p.FileNumber).Error; err != nil {
			if isUniqueViolation(err) {
				return patient.ErrDuplicateFileNumber
			}
			return err
		}
		return nil
	})
}

func (r *patientRepo) GetByID(ctx context.Context, id uint) (*patient.Patient, error) {
	var p patient.Patient
	if err := r.db.WithContext(ctx).First(&p, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, patient.ErrPatientNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (r *patientRepo) GetByFileNumber(ctx context.Context, fileNumber string) (*patient.Patient, error) {
	var p patient.Patient
	if err := r.db.WithContext(ctx).Where("file_number = ?", fileNumber).First(&p).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, patient.ErrPatientNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (r *patientRepo) Update(ctx context.Context, id uint, cmd *patient.UpdatePatientCommand) (*patient.Patient, error) {
	updates := map[string]any{}
	if cmd.Phone != nil {
		updates["phone"] = *cmd.Phone
	}
	if cmd.Address != nil {
		updates["address"] = *cmd.Address
	}
	if cmd.Allergies != nil {
		updates["allergies"] = *cmd.Allergies
	}
	if cmd.History != nil {
		updates["history"] = *cmd.History
	}
	if cmd.Profession != nil {
		updates["profession"] = *cmd.Profession
	}
	if cmd.Email != nil {
		updates["email"] = *cmd.Email
	}

	if len(updates) > 0 {
		res := r.db.WithContext(ctx).Model(&patient.Patient{}).Where("id = ?", id).Updates(updates)
		if res.Error != nil {
			return nil, res.Error
		}
		if res.RowsAffected == 0 {
			return nil, patient.ErrPatientNotFound
		}
	}

	return r.GetByID(ctx, id)
}

func (r *patientRepo) Search(ctx context.Context, q *patient.SearchQuery) ([]*patient.Patient, error) {
	limit := q.Limit
	if limit <= 0 {
		limit = 100
	}

	pattern := "%" + q.Term + "%"
	var patients []*patient.Patient
	err := r.db.WithContext(ctx).
		Where("file_number LIKE ? OR last_name LIKE ? OR first_name LIKE ? OR phone LIKE ? OR national_id LIKE ?",
			pattern, pattern, pattern, pattern, pattern).
		Order("last_name, first_name").
		Limit(limit).
		Find(&patients).Error
	if err != nil {
		return nil, err
	}
	return patients, nil
}
