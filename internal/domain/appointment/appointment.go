package appointment

import (
	"time"
)

type Status string

const (
	StatusScheduled Status = "scheduled"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

func (s Status) IsValid() bool {
	switch s {
	case StatusScheduled, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// Appointment occupies one (date, time) slot. At most one scheduled
// appointment may exist per slot; a partial unique index enforces this
// at the store.
type Appointment struct {
	ID        uint      `gorm:"primaryKey"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`

	PatientID uint `gorm:"column:patient_id;not null;index"`

	// Date is stored as YYYY-MM-DD and Time as HH:MM so the slot can be
	// compared and indexed as plain text.
	Date   string `gorm:"column:date;type:varchar(10);not null;index"`
	Time   string `gorm:"column:time;type:varchar(5);not null"`
	Reason string `gorm:"column:reason;type:text"`
	Status Status `gorm:"column:status;type:varchar(20);not null;default:'scheduled';index"`
}

func (Appointment) TableName() string {
	return "appointments"
}

func (a *Appointment) CanTransitionTo(next Status) bool {
	allowed := map[Status][]Status{
		StatusScheduled: {StatusCompleted, StatusCancelled},
		StatusCompleted: {},
		StatusCancelled: {},
	}
	for _, s := range allowed[a.Status] {
		if s == next {
			return true
		}
	}
	return false
}

type ScheduleCommand struct {
	PatientFileNumber string
	Date              string // DD/MM/YYYY as entered, validated and normalized before the write
	Time              string // HH:MM
	Reason            string
}
