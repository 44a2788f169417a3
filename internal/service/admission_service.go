package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/clinicdesk/clinicdesk/internal/domain"
	"github.com/clinicdesk/clinicdesk/internal/domain/admission"
	"github.com/clinicdesk/clinicdesk/internal/domain/patient"
	"github.com/clinicdesk/clinicdesk/pkg/metrics"
)

type AdmissionService struct {
	repo        admission.Repository
	patientRepo patient.Repository
	auditSvc    *AuditService
	col         *metrics.Collector
	log         *zap.Logger
}

func NewAdmissionService(
	repo admission.Repository,
	patientRepo patient.Repository,
	auditSvc *AuditService,
	col *metrics.Collector,
	log *zap.Logger,
) *AdmissionService {
	return &AdmissionService{repo: repo, patientRepo: patientRepo, auditSvc: auditSvc, col: col, log: log}
}

// Admit opens a stay for the patient. The stay insert and the room's
// bed-counter decrement happen in one transaction inside the
// repository; a refusal leaves both untouched.
func (s *AdmissionService) Admit(ctx context.Context, cmd *admission.AdmitCommand, sess domain.Session) (*admission.Stay, error) {
	ctx, span := tracer.Start(ctx, "admission.admit")
	defer span.End()

	var errs []string
	if strings.TrimSpace(cmd.PatientFileNumber) == "" {
		errs = append(errs, "patient file number is required")
	}
	if strings.TrimSpace(cmd.Reason) == "" {
		errs = append(errs, "reason is required")
	}
	if len(errs) > 0 {
		return nil, &ValidationError{Fields: errs}
	}

	p, err := s.patientRepo.GetByFileNumber(ctx, cmd.PatientFileNumber)
	if err != nil {
		return nil, err
	}

	stay := &admission.Stay{
		PatientID:  p.ID,
		Bed:        cmd.Bed,
		Reason:     strings.TrimSpace(cmd.Reason),
		Status:     admission.StatusOngoing,
		AdmittedAt: time.Now(),
	}

	if roomNum := strings.TrimSpace(cmd.RoomNumber); roomNum != "" {
		room, err := s.repo.GetRoomByNumber(ctx, roomNum)
		if err != nil {
			return nil, err
		}
		stay.RoomID = &room.ID
	}

	if err := s.repo.Admit(ctx, stay); err != nil {
		s.col.AdmissionsTotal.WithLabelValues("refused").Inc()
		return nil, err
	}

	s.col.AdmissionsTotal.WithLabelValues("admitted").Inc()
	s.auditSvc.Record(sess, domain.ActionCreate, admission.Stay{}.TableName(), stay.ID,
		fmt.Sprintf("patient %s admitted, room %s", p.FileNumber, cmd.RoomNumber))

	s.log.Info("patient admitted",
		zap.String("file_number", p.FileNumber),
		zap.String("room", cmd.RoomNumber),
	)

	return stay, nil
}

// Discharge closes the patient's ongoing stay and restores the room's
// bed counter, atomically with the status write.
func (s *AdmissionService) Discharge(ctx context.Context, fileNumber string, sess domain.Session) (*admission.Stay, error) {
	ctx, span := tracer.Start(ctx, "admission.discharge")
	defer span.End()

	p, err := s.patientRepo.GetByFileNumber(ctx, fileNumber)
	if err != nil {
		return nil, err
	}

	stay, err := s.repo.Discharge(ctx, p.ID)
	if err != nil {
		return nil, err
	}

	s.col.AdmissionsTotal.WithLabelValues("discharged").Inc()
	s.auditSvc.Record(sess, domain.ActionUpdate, admission.Stay{}.TableName(), stay.ID,
		fmt.Sprintf("patient %s discharged", fileNumber))

	return stay, nil
}

// ListOngoing returns every ongoing stay.
func (s *AdmissionService) ListOngoing(ctx context.Context) ([]*admission.Stay, error) {
	return s.repo.ListOngoing(ctx)
}

// CreateRoom registers a room with its bed inventory. Admin only.
func (s *AdmissionService) CreateRoom(ctx context.Context, room *admission.Room, sess domain.Session) error {
	if !sess.IsAdmin() {
		return ErrForbidden
	}
	if strings.TrimSpace(room.Number) == "" {
		return &ValidationError{Fields: []string{"room number is required"}}
	}
	if room.TotalBeds < 1 {
		return &ValidationError{Fields: []string{"total beds must be at least 1"}}
	}
	if room.AvailableBeds == 0 {
		room.AvailableBeds = room.TotalBeds
	}

	if err := s.repo.CreateRoom(ctx, room); err != nil {
		return err
	}

	s.auditSvc.Record(sess, domain.ActionCreate, admission.Room{}.TableName(), room.ID,
		fmt.Sprintf("room %s (%d beds)", room.Number, room.TotalBeds))
	return nil
}

// CreateDepartment registers an organizational unit. Admin only.
func (s *AdmissionService) CreateDepartment(ctx context.Context, d *admission.Department, sess domain.Session) error {
	if !sess.IsAdmin() {
		return ErrForbidden
	}
	if strings.TrimSpace(d.Name) == "" {
		return &ValidationError{Fields: []string{"department name is required"}}
	}

	if err := s.repo.CreateDepartment(ctx, d); err != nil {
		return err
	}

	s.auditSvc.Record(sess, domain.ActionCreate, admission.Department{}.TableName(), d.ID,
		fmt.Sprintf("department %s", d.Name))
	return nil
}
