package vaccination

import (
	"time"
)

// Record is one administered vaccine dose. The table is append-only:
// there is no update or delete path.
type Record struct {
	ID             uint      `gorm:"primaryKey"`
	AdministeredAt time.Time `gorm:"autoCreateTime;index"`

	PatientID uint   `gorm:"column:patient_id;not null;index"`
	Vaccine   string `gorm:"column:vaccine;type:varchar(100);not null"`
	Dose      string `gorm:"column:dose;type:varchar(50)"`
}

func (Record) TableName() string {
	return "vaccinations"
}

// PediatricVaccines are normally given to children only; recording one
// for an adult requires an explicit override.
var PediatricVaccines = map[string]bool{
	"BCG":     true,
	"Penta 1": true,
	"Penta 2": true,
	"Penta 3": true,
}

type RecordCommand struct {
	PatientFileNumber string
	Vaccine           string
	Dose              string
	// AllowAdult confirms a pediatric vaccine for an adult patient.
	AllowAdult bool
}
