package patient

import (
	"fmt"
	"strings"
	"time"
)

type Category string

const (
	CategoryAdult Category = "adult"
	CategoryChild Category = "child"
)

func (c Category) IsValid() bool {
	switch c {
	case CategoryAdult, CategoryChild:
		return true
	}
	return false
}

// FileNumberPrefix is the three-letter prefix the category contributes to
// a file number.
func (c Category) FileNumberPrefix() string {
	if c == CategoryChild {
		return "ENF"
	}
	return "ADT"
}

type Sex string

const (
	SexMale   Sex = "M"
	SexFemale Sex = "F"
)

func (s Sex) IsValid() bool {
	return s == SexMale || s == SexFemale
}

type Patient struct {
	ID        uint      `gorm:"primaryKey"`
	CreatedAt time.Time `gorm:"autoCreateTime;index"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`

	// FileNumber is assigned exactly once, inside the creation
	// transaction, and never changes afterwards. The unique index is the
	// authority on uniqueness; FileNumberFor itself is a pure function.
	FileNumber string `gorm:"column:file_number;type:varchar(20);uniqueIndex;not null"`

	LastName  string    `gorm:"column:last_name;type:varchar(100);not null"`
	FirstName string    `gorm:"column:first_name;type:varchar(100);not null"`
	BirthDate time.Time `gorm:"column:birth_date;not null"`
	Sex       Sex       `gorm:"column:sex;type:varchar(1)"`
	Phone     string    `gorm:"column:phone;type:varchar(20);not null;index"`
	Address   string    `gorm:"column:address;type:text"`
	Category  Category  `gorm:"column:category;type:varchar(10);not null"`

	// NationalID is the patient's own ID number (adult category);
	// GuardianID is the responsible adult's ID number (child category).
	NationalID string `gorm:"column:national_id;type:varchar(12)"`
	GuardianID string `gorm:"column:guardian_id;type:varchar(12)"`

	FatherName string   `gorm:"column:father_name;type:varchar(100)"`
	MotherName string   `gorm:"column:mother_name;type:varchar(100)"`
	WeightKg   *float64 `gorm:"column:weight_kg"`
	HeightCm   *float64 `gorm:"column:height_cm"`

	BloodGroup string `gorm:"column:blood_group;type:varchar(5)"`
	Allergies  string `gorm:"column:allergies;type:text"`
	History    string `gorm:"column:history;type:text"`
	Profession string `gorm:"column:profession;type:varchar(100)"`
	Email      string `gorm:"column:email;type:varchar(255)"`
}

func (Patient) TableName() string {
	return "patients"
}

func (p *Patient) FullName() string {
	return strings.TrimSpace(p.FirstName + " " + p.LastName)
}

func (p *Patient) Age() int {
	now := time.Now()
	years := now.Year() - p.BirthDate.Year()
	if now.Month() < p.BirthDate.Month() ||
		(now.Month() == p.BirthDate.Month() && now.Day() < p.BirthDate.Day()) {
		years--
	}
	return years
}

// FileNumberFor derives the human-readable file number for a new patient
// record: category prefix, creation date as YYYYMMDD, and the row's
// sequential identifier zero-padded to four digits.
func FileNumberFor(cat Category, createdAt time.Time, seq uint) string {
	return fmt.Sprintf("%s%s%04d", cat.FileNumberPrefix(), createdAt.Format("20060102"), seq)
}

type CreatePatientCommand struct {
	LastName   string
	FirstName  string
	BirthDate  string // DD/MM/YYYY, validated before any write
	Sex        Sex
	Phone      string
	Address    string
	Category   Category
	NationalID string
	GuardianID string
	FatherName string
	MotherName string
	WeightKg   *float64
	HeightCm   *float64
	BloodGroup string
	Allergies  string
	History    string
	Profession string
	Email      string
}

type UpdatePatientCommand struct {
	Phone      *string
	Address    *string
	Allergies  *string
	History    *string
	Profession *string
	Email      *string
}

// SearchQuery matches against file number, last name, first name, phone
// and national ID.
type SearchQuery struct {
	Term  string
	Limit int
}
