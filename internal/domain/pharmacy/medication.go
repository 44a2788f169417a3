package pharmacy

import (
	"time"
)

// Medication is one inventory item. Stock never goes below zero; an
// adjustment that would do so is rejected before any write.
type Medication struct {
	ID        uint      `gorm:"primaryKey"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`

	Name     string `gorm:"column:name;type:varchar(150);not null"`
	Code     string `gorm:"column:code;type:varchar(50);uniqueIndex;not null"`
	Category string `gorm:"column:category;type:varchar(100)"`
	Form     string `gorm:"column:form;type:varchar(50)"`
	Dosage   string `gorm:"column:dosage;type:varchar(50)"`

	Stock          int     `gorm:"column:stock;not null;default:0"`
	AlertThreshold int     `gorm:"column:alert_threshold;not null;default:10"`
	UnitPrice      float64 `gorm:"column:unit_price;not null;default:0"`

	ExpiresAt *time.Time `gorm:"column:expires_at"`
}

func (Medication) TableName() string {
	return "medications"
}

func (m *Medication) LowStock() bool {
	return m.Stock <= m.AlertThreshold
}

// PrescriptionLine links one medication order to the consultation that
// produced it.
type PrescriptionLine struct {
	ID           uint      `gorm:"primaryKey"`
	PrescribedAt time.Time `gorm:"autoCreateTime"`

	ConsultationID uint   `gorm:"column:consultation_id;not null;index"`
	MedicationID   uint   `gorm:"column:medication_id;not null;index"`
	Quantity       int    `gorm:"column:quantity;not null;default:1"`
	Posology       string `gorm:"column:posology;type:text"`
	DurationDays   int    `gorm:"column:duration_days"`
	Notes          string `gorm:"column:notes;type:text"`
}

func (PrescriptionLine) TableName() string {
	return "prescription_lines"
}

type CreateMedicationCommand struct {
	Name           string
	Code           string
	Category       string
	Form           string
	Dosage         string
	Stock          int
	AlertThreshold int
	UnitPrice      float64
	ExpiresAt      string // DD/MM/YYYY, optional
}

type PrescribeCommand struct {
	ConsultationID uint
	MedicationCode string
	Quantity       int
	Posology       string
	DurationDays   int
	Notes          string
}
