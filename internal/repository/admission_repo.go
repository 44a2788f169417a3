package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/clinicdesk/clinicdesk/internal/domain/admission"
)

type admissionRepo struct {
	db *gorm.DB
}

func NewAdmissionRepository(db *gorm.DB) admission.Repository {
	return &admissionRepo{db: db}
}

// Admit writes the stay and takes a bed in one transaction. Any refusal
// rolls the whole thing back, so a rejected admission never moves a bed
// counter.
func (r *admissionRepo) Admit(ctx context.Context, stay *admission.Stay) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var ongoing int64
		err := tx.Model(&admission.Stay{}).
			Where("patient_id = ? AND status = ?", stay.PatientID, admission.StatusOngoing).
			Count(&ongoing).Error
		if err != nil {
			return err
		}
		if ongoing > 0 {
			return admission.ErrAlreadyAdmitted
		}

		if stay.RoomID != nil {
			// Guarded decrement: succeeds only while a bed is free.
			res := tx.Model(&admission.Room{}).
				Where("id = ? AND available_beds > 0", *stay.RoomID).
				UpdateColumn("available_beds", gorm.Expr("available_beds - 1"))
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return admission.ErrNoBedsAvailable
			}
		}

		if err := tx.Create(stay).Error; err != nil {
			if isUniqueViolation(err) {
				return admission.ErrAlreadyAdmitted
			}
			return err
		}
		return nil
	})
}

// Discharge closes the ongoing stay and gives the bed back, atomically
// with the status write.
func (r *admissionRepo) Discharge(ctx context.Context, patientID uint) (*admission.Stay, error) {
	var stay admission.Stay
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Where("patient_id = ? AND status = ?", patientID, admission.StatusOngoing).
			First(&stay).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return admission.ErrStayNotFound
			}
			return err
		}

		now := time.Now()
		stay.Status = admission.StatusDischarged
		stay.DischargedAt = &now
		if err := tx.Model(&stay).Updates(map[string]any{
			"status":        admission.StatusDischarged,
			"discharged_at": now,
		}).Error; err != nil {
			return err
		}

		if stay.RoomID != nil {
			res := tx.Model(&admission.Room{}).
				Where("id = ?", *stay.RoomID).
				UpdateColumn("available_beds", gorm.Expr("available_beds + 1"))
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return fmt.Errorf("room %d vanished during discharge", *stay.RoomID)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &stay, nil
}

func (r *admissionRepo) GetOngoingByPatient(ctx context.Context, patientID uint) (*admission.Stay, error) {
	var stay admission.Stay
	err := r.db.WithContext(ctx).
		Where("patient_id = ? AND status = ?", patientID, admission.StatusOngoing).
		First(&stay).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, admission.ErrStayNotFound
		}
		return nil, err
	}
	return &stay, nil
}

func (r *admissionRepo) ListOngoing(ctx context.Context) ([]*admission.Stay, error) {
	var stays []*admission.Stay
	err := r.db.WithContext(ctx).
		Where("status = ?", admission.StatusOngoing).
		Order("admitted_at").
		Find(&stays).Error
	if err != nil {
		return nil, err
	}
	return stays, nil
}

func (r *admissionRepo) CountOngoingLongerThan(ctx context.Context, days int) (int64, error) {
	cutoff := time.Now().AddDate(0, 0, -days)
	var n int64
	err := r.db.WithContext(ctx).Model(&admission.Stay{}).
		Where("status = ? AND admitted_at < ?", admission.StatusOngoing, cutoff).
		Count(&n).Error
	return n, err
}

func (r *admissionRepo) CreateRoom(ctx context.Context, room *admission.Room) error {
	if err := r.db.WithContext(ctx).Create(room).Error; err != nil {
		if isUniqueViolation(err) {
			return admission.ErrDuplicateRoom
		}
		return err
	}
	return nil
}

func (r *admissionRepo) GetRoomByNumber(ctx context.Context, number string) (*admission.Room, error) {
	var room admission.Room
	if err := r.db.WithContext(ctx).Where("number = ?", number).First(&room).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, admission.ErrRoomNotFound
		}
		return nil, err
	}
	return &room, nil
}

func (r *admissionRepo) ListRooms(ctx context.Context) ([]*admission.Room, error) {
	var rooms []*admission.Room
	if err := r.db.WithContext(ctx).Order("number").Find(&rooms).Error; err != nil {
		return nil, err
	}
	return rooms, nil
}

func (r *admissionRepo) CreateDepartment(ctx context.Context, d *admission.Department) error {
	if err := r.db.WithContext(ctx).Create(d).Error; err != nil {
		if isUniqueViolation(err) {
			return admission.ErrDuplicateDepartment
		}
		return err
	}
	return nil
}

func (r *admissionRepo) ListDepartments(ctx context.Context) ([]*admission.Department, error) {
	var departments []*admission.Department
	if err := r.db.WithContext(ctx).Order("name").Find(&departments).Error; err != nil {
		return nil, err
	}
	return departments, nil
}
