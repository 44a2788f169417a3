package main

import (
	"context"
	"fmt"
	"os"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/clinicdesk/clinicdesk/internal/config"
	"github.com/clinicdesk/clinicdesk/internal/export"
	"github.com/clinicdesk/clinicdesk/internal/repository"
	"github.com/clinicdesk/clinicdesk/internal/service"
	"github.com/clinicdesk/clinicdesk/pkg/auth"
	"github.com/clinicdesk/clinicdesk/pkg/database"
	"github.com/clinicdesk/clinicdesk/pkg/logger"
	"github.com/clinicdesk/clinicdesk/pkg/metrics"
	"github.com/clinicdesk/clinicdesk/pkg/tracer"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// app holds the fully wired service layer. Every subcommand that
// touches the database goes through it.
type app struct {
	cfg      *config.Config
	log      *zap.Logger
	db       *gorm.DB
	sessions *auth.SessionManager

	auth        *service.AuthService
	patients    *service.PatientService
	consults    *service.ConsultationService
	admissions  *service.AdmissionService
	appts       *service.AppointmentService
	billing     *service.BillingService
	vaccines    *service.VaccinationService
	pharmacy    *service.PharmacyService
	reports     *service.ReportService
	exports     *service.ExportService
	maintenance *service.MaintenanceService

	audit *service.AuditService
}

// buildApp wires config, storage and the services on top. The returned
// cleanup flushes the audit buffer and the tracer; call it before exit.
func buildApp() (*app, func(), error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}

	log, err := logger.New(cfg.Log)
	if err != nil {
		return nil, nil, err
	}

	tp, err := tracer.Init(cfg.Tracing)
	if err != nil {
		return nil, nil, fmt.Errorf("initializing tracer: %w", err)
	}

	db, err := database.Connect(cfg.Database)
	if err != nil {
		return nil, nil, err
	}
	if err := database.Migrate(db, log); err != nil {
		return nil, nil, err
	}

	col := metrics.NewCollector(cfg.App.Name)
	sessions := auth.NewSessionManager(cfg.Session)

	patientRepo := repository.NewPatientRepository(db)
	staffRepo := repository.NewStaffRepository(db)
	auditRepo := repository.NewAuditRepository(db)
	settingsRepo := repository.NewSettingsRepository(db)
	consultRepo := repository.NewConsultationRepository(db)
	admissionRepo := repository.NewAdmissionRepository(db)
	apptRepo := repository.NewAppointmentRepository(db)
	billingRepo := repository.NewBillingRepository(db)
	vaccRepo := repository.NewVaccinationRepository(db)
	pharmacyRepo := repository.NewPharmacyRepository(db)

	auditSvc := service.NewAuditService(auditRepo, col, log)
	exporter := export.NewExporter(db, cfg.Export.Dir)

	a := &app{
		cfg:      cfg,
		log:      log,
		db:       db,
		sessions: sessions,
		audit:    auditSvc,

		auth:        service.NewAuthService(staffRepo, sessions, auditSvc, log),
		patients:    service.NewPatientService(patientRepo, auditSvc, col, log),
		consults:    service.NewConsultationService(consultRepo, patientRepo, auditSvc, col, log),
		admissions:  service.NewAdmissionService(admissionRepo, patientRepo, auditSvc, col, log),
		appts:       service.NewAppointmentService(apptRepo, patientRepo, auditSvc, col, log),
		billing:     service.NewBillingService(billingRepo, patientRepo, settingsRepo, auditSvc, col, log),
		vaccines:    service.NewVaccinationService(vaccRepo, patientRepo, auditSvc, col, log),
		pharmacy:    service.NewPharmacyService(pharmacyRepo, consultRepo, auditSvc, log),
		reports:     service.NewReportService(apptRepo, admissionRepo, billingRepo, pharmacyRepo),
		exports:     service.NewExportService(exporter, auditSvc, col, log),
		maintenance: service.NewMaintenanceService(cfg.Database.Path, cfg.Backup.Dir, settingsRepo, auditSvc, col, log),
	}

	if cfg.Backup.OnStartup {
		a.maintenance.StartupBackup(context.Background())
	}

	cleanup := func() {
		auditSvc.Shutdown()
		if err := tp.Shutdown(context.Background()); err != nil {
			log.Warn("tracer shutdown failed", zap.Error(err))
		}
		_ = log.Sync()
	}
	return a, cleanup, nil
}
