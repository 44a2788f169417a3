package service

import (
	"context"
	"fmt"
	"strconv"

	"go.uber.org/zap"

	"github.com/clinicdesk/clinicdesk/internal/domain"
	"github.com/clinicdesk/clinicdesk/pkg/database"
	"github.com/clinicdesk/clinicdesk/pkg/metrics"
)

// MaintenanceService covers backup and clinic settings, the operator
// side of the system.
type MaintenanceService struct {
	dbPath    string
	backupDir string
	settings  SettingsRepository
	auditSvc  *AuditService
	col       *metrics.Collector
	log       *zap.Logger
}

func NewMaintenanceService(
	dbPath, backupDir string,
	settings SettingsRepository,
	auditSvc *AuditService,
	col *metrics.Collector,
	log *zap.Logger,
) *MaintenanceService {
	return &MaintenanceService{dbPath: dbPath, backupDir: backupDir, settings: settings, auditSvc: auditSvc, col: col, log: log}
}

// Backup byte-copies the database file into the backup directory and
// returns the destination path. Admin only.
func (s *MaintenanceService) Backup(ctx context.Context, sess domain.Session) (string, error) {
	_, span := tracer.Start(ctx, "maintenance.backup")
	defer span.End()

	if !sess.IsAdmin() {
		return "", ErrForbidden
	}

	dest, err := database.Backup(s.dbPath, s.backupDir)
	if err != nil {
		s.col.BackupsTotal.WithLabelValues("failure").Inc()
		s.log.Error("backup failed", zap.Error(err))
		return "", err
	}

	s.col.BackupsTotal.WithLabelValues("success").Inc()
	s.auditSvc.Record(sess, domain.ActionBackup, "database", 0, fmt.Sprintf("backup written to %s", dest))
	s.log.Info("backup completed", zap.String("path", dest))
	return dest, nil
}

// StartupBackup runs the configured automatic backup. Unlike the admin
// operation it is best-effort: a failure is logged and counted but the
// application still comes up.
func (s *MaintenanceService) StartupBackup(ctx context.Context) {
	dest, err := database.Backup(s.dbPath, s.backupDir)
	if err != nil {
		s.col.BackupsTotal.WithLabelValues("failure").Inc()
		s.log.Warn("startup backup failed", zap.Error(err))
		return
	}
	s.col.BackupsTotal.WithLabelValues("success").Inc()
	s.log.Info("startup backup completed", zap.String("path", dest))
}

// GetSetting returns one setting value by key.
func (s *MaintenanceService) GetSetting(ctx context.Context, key string) (string, error) {
	return s.settings.Get(ctx, key)
}

// UpdateSetting writes one setting value. Admin only.
func (s *MaintenanceService) UpdateSetting(ctx context.Context, key, value string, sess domain.Session) error {
	ctx, span := tracer.Start(ctx, "maintenance.update_setting")
	defer span.End()

	if !sess.IsAdmin() {
		return ErrForbidden
	}
	if key == "" {
		return &ValidationError{Fields: []string{"key is required"}}
	}
	if key == domain.SettingMinConsultationFee {
		if _, err := strconv.ParseFloat(value, 64); err != nil {
			return &ValidationError{Fields: []string{"min_consultation_fee must be a number"}}
		}
	}

	if err := s.settings.Set(ctx, key, value); err != nil {
		return err
	}
	s.auditSvc.Record(sess, domain.ActionUpdate, "settings", 0, fmt.Sprintf("%s = %s", key, value))
	return nil
}

// ListSettings returns every setting row.
func (s *MaintenanceService) ListSettings(ctx context.Context) ([]*domain.Setting, error) {
	return s.settings.All(ctx)
}
