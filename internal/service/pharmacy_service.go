package service

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/clinicdesk/clinicdesk/internal/domain"
	"github.com/clinicdesk/clinicdesk/internal/domain/consultation"
	"github.com/clinicdesk/clinicdesk/internal/domain/pharmacy"
	"github.com/clinicdesk/clinicdesk/internal/validate"
)

type PharmacyService struct {
	repo       pharmacy.Repository
	consulRepo consultation.Repository
	auditSvc   *AuditService
	log        *zap.Logger
}

func NewPharmacyService(repo pharmacy.Repository, consulRepo consultation.Repository, auditSvc *AuditService, log *zap.Logger) *PharmacyService {
	return &PharmacyService{repo: repo, consulRepo: consulRepo, auditSvc: auditSvc, log: log}
}

// AddMedication registers an inventory item with a unique code.
func (s *PharmacyService) AddMedication(ctx context.Context, cmd *pharmacy.CreateMedicationCommand, sess domain.Session) (*pharmacy.Medication, error) {
	ctx, span := tracer.Start(ctx, "pharmacy.add_medication")
	defer span.End()

	var errs []string
	if strings.TrimSpace(cmd.Name) == "" {
		errs = append(errs, "name is required")
	}
	if strings.TrimSpace(cmd.Code) == "" {
		errs = append(errs, "code is required")
	}
	if cmd.Stock < 0 {
		errs = append(errs, "stock cannot be negative")
	}
	if len(errs) > 0 {
		return nil, &ValidationError{Fields: errs}
	}

	m := &pharmacy.Medication{
		Name:           strings.TrimSpace(cmd.Name),
		Code:           strings.TrimSpace(cmd.Code),
		Category:       cmd.Category,
		Form:           cmd.Form,
		Dosage:         cmd.Dosage,
		Stock:          cmd.Stock,
		AlertThreshold: cmd.AlertThreshold,
		UnitPrice:      cmd.UnitPrice,
	}
	if m.AlertThreshold == 0 {
		m.AlertThreshold = 10
	}
	if cmd.ExpiresAt != "" {
		exp, err := validate.ParseDate(cmd.ExpiresAt)
		if err != nil {
			return nil, &ValidationError{Fields: []string{"expiry date must be DD/MM/YYYY"}}
		}
		m.ExpiresAt = &exp
	}

	if err := s.repo.CreateMedication(ctx, m); err != nil {
		return nil, err
	}

	s.auditSvc.Record(sess, domain.ActionCreate, pharmacy.Medication{}.TableName(), m.ID,
		fmt.Sprintf("medication %s - %s", m.Code, m.Name))

	return m, nil
}

// AdjustStock applies a signed delta to an item's stock. The store
// rejects any adjustment that would take the count below zero.
func (s *PharmacyService) AdjustStock(ctx context.Context, code string, delta int, sess domain.Session) (*pharmacy.Medication, error) {
	ctx, span := tracer.Start(ctx, "pharmacy.adjust_stock")
	defer span.End()

	m, err := s.repo.AdjustStock(ctx, code, delta)
	if err != nil {
		return nil, err
	}

	s.auditSvc.Record(sess, domain.ActionUpdate, pharmacy.Medication{}.TableName(), m.ID,
		fmt.Sprintf("stock %+d on %s (now %d)", delta, m.Code, m.Stock))

	if m.LowStock() {
		s.log.Warn("medication at or under alert threshold",
			zap.String("code", m.Code),
			zap.Int("stock", m.Stock),
			zap.Int("threshold", m.AlertThreshold),
		)
	}

	return m, nil
}

// Prescribe appends a medication order to a consultation and deducts
// the quantity from stock.
func (s *PharmacyService) Prescribe(ctx context.Context, cmd *pharmacy.PrescribeCommand, sess domain.Session) (*pharmacy.PrescriptionLine, error) {
	ctx, span := tracer.Start(ctx, "pharmacy.prescribe")
	defer span.End()

	if cmd.Quantity <= 0 {
		return nil, pharmacy.ErrInvalidQuantity
	}

	if _, err := s.consulRepo.GetByID(ctx, cmd.ConsultationID); err != nil {
		return nil, err
	}

	line := &pharmacy.PrescriptionLine{
		ConsultationID: cmd.ConsultationID,
		Quantity:       cmd.Quantity,
		Posology:       cmd.Posology,
		DurationDays:   cmd.DurationDays,
		Notes:          cmd.Notes,
	}

	m, err := s.repo.Dispense(ctx, cmd.MedicationCode, line)
	if err != nil {
		return nil, err
	}

	s.auditSvc.Record(sess, domain.ActionCreate, pharmacy.PrescriptionLine{}.TableName(), line.ID,
		fmt.Sprintf("prescribed %dx %s on consultation %d", cmd.Quantity, m.Code, cmd.ConsultationID))

	return line, nil
}

// LowStock returns medications at or under their alert threshold.
func (s *PharmacyService) LowStock(ctx context.Context) ([]*pharmacy.Medication, error) {
	return s.repo.ListLowStock(ctx)
}
