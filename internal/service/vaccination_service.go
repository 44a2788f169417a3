package service

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/clinicdesk/clinicdesk/internal/domain"
	"github.com/clinicdesk/clinicdesk/internal/domain/patient"
	"github.com/clinicdesk/clinicdesk/internal/domain/vaccination"
	"github.com/clinicdesk/clinicdesk/pkg/metrics"
)

type VaccinationService struct {
	repo        vaccination.Repository
	patientRepo patient.Repository
	auditSvc    *AuditService
	col         *metrics.Collector
	log         *zap.Logger
}

func NewVaccinationService(
	repo vaccination.Repository,
	patientRepo patient.Repository,
	auditSvc *AuditService,
	col *metrics.Collector,
	log *zap.Logger,
) *VaccinationService {
	return &VaccinationService{repo: repo, patientRepo: patientRepo, auditSvc: auditSvc, col: col, log: log}
}

// Record appends one vaccination. A pediatric vaccine for an adult
// patient is refused unless the command carries the override.
func (s *VaccinationService) Record(ctx context.Context, cmd *vaccination.RecordCommand, sess domain.Session) (*vaccination.Record, error) {
	ctx, span := tracer.Start(ctx, "vaccination.record")
	defer span.End()

	var errs []string
	if strings.TrimSpace(cmd.PatientFileNumber) == "" {
		errs = append(errs, "patient file number is required")
	}
	if strings.TrimSpace(cmd.Vaccine) == "" {
		errs = append(errs, "vaccine is required")
	}
	if len(errs) > 0 {
		return nil, &ValidationError{Fields: errs}
	}

	p, err := s.patientRepo.GetByFileNumber(ctx, cmd.PatientFileNumber)
	if err != nil {
		return nil, err
	}

	if p.Category == patient.CategoryAdult && vaccination.PediatricVaccines[cmd.Vaccine] && !cmd.AllowAdult {
		return nil, vaccination.ErrPediatricVaccineForAdult
	}

	r := &vaccination.Record{
		PatientID: p.ID,
		Vaccine:   strings.TrimSpace(cmd.Vaccine),
		Dose:      cmd.Dose,
	}

	if err := s.repo.Create(ctx, r); err != nil {
		s.log.Error("failed to create vaccination record", zap.Error(err))
		return nil, fmt.Errorf("creating vaccination record: %w", err)
	}

	s.col.VaccinationsTotal.Inc()
	s.auditSvc.Record(sess, domain.ActionCreate, vaccination.Record{}.TableName(), r.ID,
		fmt.Sprintf("vaccine %s for %s", r.Vaccine, p.FileNumber))

	return r, nil
}

// History returns a patient's vaccination records, most recent first.
func (s *VaccinationService) History(ctx context.Context, fileNumber string) ([]*vaccination.Record, error) {
	p, err := s.patientRepo.GetByFileNumber(ctx, fileNumber)
	if err != nil {
		return nil, err
	}
	return s.repo.ListByPatient(ctx, p.ID)
}
