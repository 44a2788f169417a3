package domain

import (
	"time"
)

type Role string

const (
	RoleAdmin Role = "admin"
	RoleStaff Role = "staff"
)

func (r Role) IsValid() bool {
	switch r {
	case RoleAdmin, RoleStaff:
		return true
	}
	return false
}

// StaffMember is a clinic employee with a login identity. Email is the
// identity string used at the session boundary.
type StaffMember struct {
	ID        uint      `gorm:"primaryKey"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`

	Email        string `gorm:"column:email;type:varchar(255);uniqueIndex;not null"`
	PasswordHash string `gorm:"column:password_hash;type:varchar(255);not null"`
	LastName     string `gorm:"column:last_name;type:varchar(100);not null"`
	FirstName    string `gorm:"column:first_name;type:varchar(100);not null"`
	Role         Role   `gorm:"column:role;type:varchar(30);not null;default:'staff';index"`
	Specialty    string `gorm:"column:specialty;type:varchar(100)"`
	Phone        string `gorm:"column:phone;type:varchar(20)"`
}

func (StaffMember) TableName() string {
	return "staff"
}

func (s *StaffMember) FullName() string {
	return s.FirstName + " " + s.LastName
}

type AuditAction string

const (
	ActionCreate  AuditAction = "create"
	ActionUpdate  AuditAction = "update"
	ActionPayment AuditAction = "payment"
	ActionExport  AuditAction = "export"
	ActionBackup  AuditAction = "backup"
	ActionLogin   AuditAction = "login"
)

// AuditLog is one immutable trail record. Rows are only ever appended.
type AuditLog struct {
	ID         uint      `gorm:"primaryKey"`
	OccurredAt time.Time `gorm:"autoCreateTime;index"`

	StaffID     uint        `gorm:"column:staff_id;not null;index"`
	StaffRole   Role        `gorm:"column:staff_role;type:varchar(30);not null"`
	Action      AuditAction `gorm:"column:action;type:varchar(20);not null;index"`
	TargetTable string      `gorm:"column:table_name;type:varchar(50);not null;index"`
	RecordID    uint        `gorm:"column:record_id;index"`
	Details     string      `gorm:"column:details;type:text"`
}

func (AuditLog) TableName() string {
	return "audit_logs"
}

// Session is the acting identity established at login. It is passed
// explicitly to every operation that needs an actor; there is no ambient
// current-user state anywhere in the module.
type Session struct {
	StaffID   uint      `json:"staff_id"`
	Email     string    `json:"email"`
	Role      Role      `json:"role"`
	Name      string    `json:"name"`
	ExpiresAt time.Time `json:"expires_at"`
}

func (s Session) IsAdmin() bool {
	return s.Role == RoleAdmin
}

// Setting is one key/value pair of clinic configuration stored in the
// database itself (hospital name, currency label, minimum consultation
// fee and the like).
type Setting struct {
	ID          uint   `gorm:"primaryKey"`
	Key         string `gorm:"column:setting_key;type:varchar(100);uniqueIndex;not null"`
	Value       string `gorm:"column:setting_value;type:text"`
	Description string `gorm:"column:description;type:text"`
}

func (Setting) TableName() string {
	return "settings"
}

// Well-known setting keys seeded at initialization.
const (
	SettingHospitalName       = "hospital_name"
	SettingCurrency           = "currency"
	SettingCountry            = "country"
	SettingMinConsultationFee = "min_consultation_fee"
	SettingEmergencyPhone     = "emergency_phone"
	SettingWorkingHoursStart  = "working_hours_start"
	SettingWorkingHoursEnd    = "working_hours_end"
)
