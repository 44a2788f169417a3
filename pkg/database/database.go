package database

import (
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/clinicdesk/clinicdesk/internal/config"
	"github.com/clinicdesk/clinicdesk/internal/domain"
	"github.com/clinicdesk/clinicdesk/internal/domain/admission"
	"github.com/clinicdesk/clinicdesk/internal/domain/appointment"
	"github.com/clinicdesk/clinicdesk/internal/domain/billing"
	"github.com/clinicdesk/clinicdesk/internal/domain/consultation"
	"github.com/clinicdesk/clinicdesk/internal/domain/patient"
	"github.com/clinicdesk/clinicdesk/internal/domain/pharmacy"
	"github.com/clinicdesk/clinicdesk/internal/domain/vaccination"
)

// Connect opens the single SQLite database file the clinic owns.
func Connect(cfg config.DatabaseConfig) (*gorm.DB, error) {
	gormCfg := &gorm.Config{
		Logger:      gormlogger.Default.LogMode(gormlogger.Silent),
		PrepareStmt: true,
	}

	dsn := fmt.Sprintf("file:%s?_busy_timeout=%d&_journal_mode=WAL&_foreign_keys=on",
		cfg.Path, cfg.BusyTimeout.Milliseconds())

	db, err := gorm.Open(sqlite.Open(dsn), gormCfg)
	if err != nil {
		return nil, fmt.Errorf("opening database %s: %w", cfg.Path, err)
	}

	// SQLite serves a single process; one connection avoids writer
	// contention entirely.
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("getting underlying sql.DB: %w", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	return db, nil
}

func Migrate(db *gorm.DB, log *zap.Logger) error {
	log.Info("running database migrations")
	start := time.Now()

	models := []any{
		&domain.StaffMember{},
		&domain.AuditLog{},
		&domain.Setting{},
		&patient.Patient{},
		&consultation.Consultation{},
		&admission.Stay{},
		&admission.Room{},
		&admission.Department{},
		&appointment.Appointment{},
		&billing.Invoice{},
		&vaccination.Record{},
		&pharmacy.Medication{},
		&pharmacy.PrescriptionLine{},
	}

	if err := db.AutoMigrate(models...); err != nil {
		return fmt.Errorf("auto-migrating models: %w", err)
	}

	if err := createIndexes(db); err != nil {
		return fmt.Errorf("creating indexes: %w", err)
	}

	log.Info("migrations completed", zap.Duration("duration", time.Since(start)))
	return nil
}

func createIndexes(db *gorm.DB) error {
	indexes := []struct {
		name  string
		query string
	}{
		// One scheduled appointment per (date, time) slot.
		{
			name:  "idx_appointments_slot",
			query: `CREATE UNIQUE INDEX IF NOT EXISTS idx_appointments_slot ON appointments (date, time) WHERE status = 'scheduled'`,
		},
		// One ongoing stay per patient.
		{
			name:  "idx_stays_ongoing",
			query: `CREATE UNIQUE INDEX IF NOT EXISTS idx_stays_ongoing ON stays (patient_id) WHERE status = 'ongoing'`,
		},
		{
			name:  "idx_invoices_open",
			query: `CREATE INDEX IF NOT EXISTS idx_invoices_open ON invoices (status, remaining) WHERE status != 'paid'`,
		},
	}

	for _, idx := range indexes {
		if err := db.Exec(idx.query).Error; err != nil {
			return fmt.Errorf("creating index %s: %w", idx.name, err)
		}
	}

	return nil
}

// Seed inserts the default settings and, when no staff exist yet, the
// bootstrap admin account.
func Seed(db *gorm.DB, adminEmail, adminPassword string, log *zap.Logger) error {
	defaults := []domain.Setting{
		{Key: domain.SettingHospitalName, Value: "National Hospital", Description: "Facility name"},
		{Key: domain.SettingCurrency, Value: "FCFA", Description: "Currency label"},
		{Key: domain.SettingCountry, Value: "CM", Description: "Country code"},
		{Key: domain.SettingMinConsultationFee, Value: "5000", Description: "Minimum consultation fee"},
		{Key: domain.SettingEmergencyPhone, Value: "112", Description: "Emergency phone number"},
		{Key: domain.SettingWorkingHoursStart, Value: "08:00", Description: "Opening time"},
		{Key: domain.SettingWorkingHoursEnd, Value: "18:00", Description: "Closing time"},
	}

	for _, s := range defaults {
		res := db.Where(domain.Setting{Key: s.Key}).FirstOrCreate(&domain.Setting{}, s)
		if res.Error != nil {
			return fmt.Errorf("seeding setting %s: %w", s.Key, res.Error)
		}
	}

	var staffCount int64
	if err := db.Model(&domain.StaffMember{}).Count(&staffCount).Error; err != nil {
		return fmt.Errorf("counting staff: %w", err)
	}
	if staffCount == 0 {
		hash, err := bcrypt.GenerateFromPassword([]byte(adminPassword), bcrypt.DefaultCost)
		if err != nil {
			return fmt.Errorf("hashing admin password: %w", err)
		}
		admin := domain.StaffMember{
			Email:        adminEmail,
			PasswordHash: string(hash),
			LastName:     "Admin",
			FirstName:    "System",
			Role:         domain.RoleAdmin,
			Specialty:    "Administration",
		}
		if err := db.Create(&admin).Error; err != nil {
			return fmt.Errorf("creating bootstrap admin: %w", err)
		}
		log.Info("bootstrap admin account created", zap.String("email", adminEmail))
	}

	return nil
}
