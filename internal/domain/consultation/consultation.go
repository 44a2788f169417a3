package consultation

import (
	"math"
	"time"
)

// Consultation is one clinical encounter: the reason for the visit, the
// vitals taken, and the diagnosis reached. Rows are append-only.
type Consultation struct {
	ID        uint      `gorm:"primaryKey"`
	CreatedAt time.Time `gorm:"autoCreateTime;index"`

	PatientID uint  `gorm:"column:patient_id;not null;index"`
	StaffID   *uint `gorm:"column:staff_id;index"`

	Reason    string `gorm:"column:reason;type:text;not null"`
	Diagnosis string `gorm:"column:diagnosis;type:text;not null"`
	Notes     string `gorm:"column:notes;type:text"`

	Vitals
}

// Vitals are the measurements taken during the encounter. All are
// optional; BMI is derived, never entered.
type Vitals struct {
	TemperatureC    *float64 `gorm:"column:temperature_c"`
	BloodPressure   string   `gorm:"column:blood_pressure;type:varchar(20)"`
	WeightKg        *float64 `gorm:"column:weight_kg"`
	HeightCm        *float64 `gorm:"column:height_cm"`
	BMI             *float64 `gorm:"column:bmi"`
	PulseBPM        *int     `gorm:"column:pulse_bpm"`
	RespiratoryRate *int     `gorm:"column:respiratory_rate"`
}

func (Consultation) TableName() string {
	return "consultations"
}

// ComputeBMI returns weight / height² with height given in centimeters,
// rounded to one decimal. Returns nil when either input is missing or
// the height is zero.
func ComputeBMI(weightKg, heightCm *float64) *float64 {
	if weightKg == nil || heightCm == nil || *heightCm <= 0 {
		return nil
	}
	m := *heightCm / 100
	bmi := math.Round(*weightKg/(m*m)*10) / 10
	return &bmi
}

type CreateConsultationCommand struct {
	PatientFileNumber string
	StaffID           uint
	Reason            string
	Diagnosis         string
	Notes             string
	TemperatureC      *float64
	BloodPressure     string
	WeightKg          *float64
	HeightCm          *float64
	PulseBPM          *int
	RespiratoryRate   *int
}
