package admission

import (
	"time"
)

// StayStatus moves none → ongoing → discharged. There is no path back
// from discharged.
type StayStatus string

const (
	StatusOngoing    StayStatus = "ongoing"
	StatusDischarged StayStatus = "discharged"
)

// Stay is one hospitalization episode, bounded by admission and
// discharge events. A patient has at most one ongoing stay at a time.
type Stay struct {
	ID        uint      `gorm:"primaryKey"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`

	PatientID uint `gorm:"column:patient_id;not null;index"`
	// RoomID is nil when the patient is admitted without a room
	// assignment; no bed accounting happens in that case.
	RoomID *uint  `gorm:"column:room_id;index"`
	Bed    string `gorm:"column:bed;type:varchar(20)"`

	Reason       string     `gorm:"column:reason;type:text;not null"`
	Status       StayStatus `gorm:"column:status;type:varchar(20);not null;default:'ongoing';index"`
	AdmittedAt   time.Time  `gorm:"column:admitted_at;not null"`
	DischargedAt *time.Time `gorm:"column:discharged_at"`
}

func (Stay) TableName() string {
	return "stays"
}

func (s *Stay) IsOngoing() bool {
	return s.Status == StatusOngoing
}

type RoomType string

const (
	RoomSingle RoomType = "single"
	RoomDouble RoomType = "double"
	RoomWard   RoomType = "ward"
	RoomVIP    RoomType = "vip"
)

// Room tracks bed availability. AvailableBeds is decremented at
// admission and restored at discharge, always inside the same
// transaction as the stay write.
type Room struct {
	ID           uint     `gorm:"primaryKey"`
	Number       string   `gorm:"column:number;type:varchar(20);uniqueIndex;not null"`
	Type         RoomType `gorm:"column:type;type:varchar(20)"`
	DepartmentID *uint    `gorm:"column:department_id;index"`

	// No default tags here: gorm would skip zero values on insert and
	// a room stored with 0 free beds would silently come back with 1.
	TotalBeds     int     `gorm:"column:total_beds;not null"`
	AvailableBeds int     `gorm:"column:available_beds;not null"`
	PricePerDay   float64 `gorm:"column:price_per_day;not null;default:0"`
}

func (Room) TableName() string {
	return "rooms"
}

func (r *Room) HasAvailability() bool {
	return r.AvailableBeds > 0
}

// Department is an organizational unit of the clinic (emergency,
// pediatrics, maternity, ...).
type Department struct {
	ID            uint   `gorm:"primaryKey"`
	Name          string `gorm:"column:name;type:varchar(100);uniqueIndex;not null"`
	Description   string `gorm:"column:description;type:text"`
	HeadStaffID   *uint  `gorm:"column:head_staff_id"`
	InternalPhone string `gorm:"column:internal_phone;type:varchar(20)"`
}

func (Department) TableName() string {
	return "departments"
}

type AdmitCommand struct {
	PatientFileNumber string
	RoomNumber        string // optional
	Bed               string
	Reason            string
}
