package service

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/clinicdesk/clinicdesk/internal/domain"
	"github.com/clinicdesk/clinicdesk/internal/domain/appointment"
	"github.com/clinicdesk/clinicdesk/internal/domain/patient"
	"github.com/clinicdesk/clinicdesk/internal/validate"
	"github.com/clinicdesk/clinicdesk/pkg/metrics"
)

type AppointmentService struct {
	repo        appointment.Repository
	patientRepo patient.Repository
	auditSvc    *AuditService
	col         *metrics.Collector
	log         *zap.Logger
}

func NewAppointmentService(
	repo appointment.Repository,
	patientRepo patient.Repository,
	auditSvc *AuditService,
	col *metrics.Collector,
	log *zap.Logger,
) *AppointmentService {
	return &AppointmentService{repo: repo, patientRepo: patientRepo, auditSvc: auditSvc, col: col, log: log}
}

// Schedule books a (date, time) slot for the patient. The slot can hold
// at most one scheduled appointment; a second booking is refused.
func (s *AppointmentService) Schedule(ctx context.Context, cmd *appointment.ScheduleCommand, sess domain.Session) (*appointment.Appointment, error) {
	ctx, span := tracer.Start(ctx, "appointment.schedule")
	defer span.End()

	var errs []string
	if strings.TrimSpace(cmd.PatientFileNumber) == "" {
		errs = append(errs, "patient file number is required")
	}
	if strings.TrimSpace(cmd.Date) == "" {
		errs = append(errs, "date is required")
	}
	if strings.TrimSpace(cmd.Time) == "" {
		errs = append(errs, "time is required")
	} else if !validate.TimeOfDay(cmd.Time) {
		errs = append(errs, "time must be HH:MM")
	}
	if len(errs) > 0 {
		return nil, &ValidationError{Fields: errs}
	}

	day, err := validate.ParseDate(cmd.Date)
	if err != nil {
		return nil, &ValidationError{Fields: []string{"date must be DD/MM/YYYY"}}
	}

	p, err := s.patientRepo.GetByFileNumber(ctx, cmd.PatientFileNumber)
	if err != nil {
		return nil, err
	}

	a := &appointment.Appointment{
		PatientID: p.ID,
		Date:      day.Format("2006-01-02"),
		Time:      strings.TrimSpace(cmd.Time),
		Reason:    cmd.Reason,
		Status:    appointment.StatusScheduled,
	}

	if err := s.repo.Create(ctx, a); err != nil {
		return nil, err
	}

	s.col.AppointmentsTotal.WithLabelValues(string(appointment.StatusScheduled)).Inc()
	s.auditSvc.Record(sess, domain.ActionCreate, appointment.Appointment{}.TableName(), a.ID,
		fmt.Sprintf("appointment for %s on %s at %s", p.FileNumber, a.Date, a.Time))

	return a, nil
}

// Cancel moves a scheduled appointment to cancelled.
func (s *AppointmentService) Cancel(ctx context.Context, id uint, sess domain.Session) (*appointment.Appointment, error) {
	return s.transition(ctx, id, appointment.StatusCancelled, sess)
}

// Complete moves a scheduled appointment to completed.
func (s *AppointmentService) Complete(ctx context.Context, id uint, sess domain.Session) (*appointment.Appointment, error) {
	return s.transition(ctx, id, appointment.StatusCompleted, sess)
}

func (s *AppointmentService) transition(ctx context.Context, id uint, next appointment.Status, sess domain.Session) (*appointment.Appointment, error) {
	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !a.CanTransitionTo(next) {
		return nil, appointment.ErrInvalidTransition
	}
	a.Status = next
	if err := s.repo.UpdateStatus(ctx, a); err != nil {
		return nil, fmt.Errorf("updating appointment status: %w", err)
	}

	s.col.AppointmentsTotal.WithLabelValues(string(next)).Inc()
	s.auditSvc.Record(sess, domain.ActionUpdate, appointment.Appointment{}.TableName(), a.ID,
		fmt.Sprintf("appointment %d -> %s", a.ID, next))

	return a, nil
}

// Agenda returns a day's appointments ordered by time. The date is
// given as DD/MM/YYYY.
func (s *AppointmentService) Agenda(ctx context.Context, date string) ([]*appointment.Appointment, error) {
	day, err := validate.ParseDate(date)
	if err != nil {
		return nil, &ValidationError{Fields: []string{"date must be DD/MM/YYYY"}}
	}
	return s.repo.ListByDate(ctx, day.Format("2006-01-02"))
}
