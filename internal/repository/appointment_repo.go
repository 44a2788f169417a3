package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/clinicdesk/clinicdesk/internal/domain/appointment"
)

type appointmentRepo struct {
	db *gorm.DB
}

func NewAppointmentRepository(db *gorm.DB) appointment.Repository {
	return &appointmentRepo{db: db}
}

// Create relies on the partial unique index over (date, time) for
// scheduled rows to reject double bookings.
func (r *appointmentRepo) Create(ctx context.Context, a *appointment.Appointment) error {
	if err := r.db.WithContext(ctx).Create(a).Error; err != nil {
		if isUniqueViolation(err) {
			return appointment.ErrSlotTaken
		}
		return err
	}
	return nil
}

func (r *appointmentRepo) GetByID(ctx context.Context, id uint) (*appointment.Appointment, error) {
	var a appointment.Appointment
	if err := r.db.WithContext(ctx).First(&a, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, appointment.ErrAppointmentNotFound
		}
		return nil, err
	}
	return &a, nil
}

func (r *appointmentRepo) UpdateStatus(ctx context.Context, a *appointment.Appointment) error {
	res := r.db.WithContext(ctx).Model(&appointment.Appointment{}).
		Where("id = ?", a.ID).
		Update("status", a.Status)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return appointment.ErrAppointmentNotFound
	}
	return nil
}

func (r *appointmentRepo) ListByDate(ctx context.Context, date string) ([]*appointment.Appointment, error) {
	var out []*appointment.Appointment
	err := r.db.WithContext(ctx).
		Where("date = ?", date).
		Order("time").
		Find(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *appointmentRepo) CountScheduledOn(ctx context.Context, date string) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&appointment.Appointment{}).
		Where("date = ? AND status = ?", date, appointment.StatusScheduled).
		Count(&n).Error
	return n, err
}
