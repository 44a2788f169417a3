package service

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/clinicdesk/clinicdesk/internal/domain"
	"github.com/clinicdesk/clinicdesk/internal/domain/consultation"
	"github.com/clinicdesk/clinicdesk/internal/domain/patient"
	"github.com/clinicdesk/clinicdesk/pkg/metrics"
)

type ConsultationService struct {
	repo        consultation.Repository
	patientRepo patient.Repository
	auditSvc    *AuditService
	col         *metrics.Collector
	log         *zap.Logger
}

func NewConsultationService(
	repo consultation.Repository,
	patientRepo patient.Repository,
	auditSvc *AuditService,
	col *metrics.Collector,
	log *zap.Logger,
) *ConsultationService {
	return &ConsultationService{repo: repo, patientRepo: patientRepo, auditSvc: auditSvc, col: col, log: log}
}

// Record creates a consultation against an existing patient. The BMI is
// derived from the vitals, never entered.
func (s *ConsultationService) Record(ctx context.Context, cmd *consultation.CreateConsultationCommand, sess domain.Session) (*consultation.Consultation, error) {
	ctx, span := tracer.Start(ctx, "consultation.record")
	defer span.End()

	var errs []string
	if strings.TrimSpace(cmd.PatientFileNumber) == "" {
		errs = append(errs, "patient file number is required")
	}
	if strings.TrimSpace(cmd.Reason) == "" {
		errs = append(errs, "reason is required")
	}
	if strings.TrimSpace(cmd.Diagnosis) == "" {
		errs = append(errs, "diagnosis is required")
	}
	if len(errs) > 0 {
		return nil, &ValidationError{Fields: errs}
	}

	p, err := s.patientRepo.GetByFileNumber(ctx, cmd.PatientFileNumber)
	if err != nil {
		return nil, err
	}

	staffID := cmd.StaffID
	if staffID == 0 {
		staffID = sess.StaffID
	}

	c := &consultation.Consultation{
		PatientID: p.ID,
		StaffID:   &staffID,
		Reason:    strings.TrimSpace(cmd.Reason),
		Diagnosis: strings.TrimSpace(cmd.Diagnosis),
		Notes:     cmd.Notes,
		Vitals: consultation.Vitals{
			TemperatureC:    cmd.TemperatureC,
			BloodPressure:   cmd.BloodPressure,
			WeightKg:        cmd.WeightKg,
			HeightCm:        cmd.HeightCm,
			BMI:             consultation.ComputeBMI(cmd.WeightKg, cmd.HeightCm),
			PulseBPM:        cmd.PulseBPM,
			RespiratoryRate: cmd.RespiratoryRate,
		},
	}

	if err := s.repo.Create(ctx, c); err != nil {
		s.log.Error("failed to create consultation", zap.Error(err))
		return nil, fmt.Errorf("creating consultation: %w", err)
	}

	s.col.ConsultationsTotal.Inc()
	s.auditSvc.Record(sess, domain.ActionCreate, consultation.Consultation{}.TableName(), c.ID,
		fmt.Sprintf("consultation for patient %s", p.FileNumber))

	return c, nil
}

// History returns a patient's consultations, most recent first.
func (s *ConsultationService) History(ctx context.Context, fileNumber string) ([]*consultation.Consultation, error) {
	p, err := s.patientRepo.GetByFileNumber(ctx, fileNumber)
	if err != nil {
		return nil, err
	}
	return s.repo.ListByPatient(ctx, p.ID)
}
