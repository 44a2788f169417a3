package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/clinicdesk/clinicdesk/internal/domain"
	"github.com/clinicdesk/clinicdesk/internal/service"
)

type staffRepo struct {
	db *gorm.DB
}

func NewStaffRepository(db *gorm.DB) service.StaffRepository {
	return &staffRepo{db: db}
}

func (r *staffRepo) Create(ctx context.Context, s *domain.StaffMember) error {
	if err := r.db.WithContext(ctx).Create(s).Error; err != nil {
		if isUniqueViolation(err) {
			return service.ErrDuplicateEmail
		}
		return err
	}
	return nil
}

func (r *staffRepo) GetByEmail(ctx context.Context, email string) (*domain.StaffMember, error) {
	var s domain.StaffMember
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&s).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, service.ErrStaffNotFound
		}
		return nil, err
	}
	return &s, nil
}

func (r *staffRepo) GetByID(ctx context.Context, id uint) (*domain.StaffMember, error) {
	var s domain.StaffMember
	if err := r.db.WithContext(ctx).First(&s, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, service.ErrStaffNotFound
		}
		return nil, err
	}
	return &s, nil
}

func (r *staffRepo) UpdatePassword(ctx context.Context, id uint, hash string) error {
	res := r.db.WithContext(ctx).Model(&domain.StaffMember{}).Where("id = ?", id).Update("password_hash", hash)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return service.ErrStaffNotFound
	}
	return nil
}
