package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/clinicdesk/clinicdesk/internal/domain"
	"github.com/clinicdesk/clinicdesk/internal/domain/billing"
	"github.com/clinicdesk/clinicdesk/internal/domain/patient"
	"github.com/clinicdesk/clinicdesk/pkg/metrics"
)

type SettingsRepository interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	All(ctx context.Context) ([]*domain.Setting, error)
}

// InvoiceKindConsultation is the invoice kind subject to the minimum
// consultation fee setting.
const InvoiceKindConsultation = "consultation"

type BillingService struct {
	repo        billing.Repository
	patientRepo patient.Repository
	settings    SettingsRepository
	auditSvc    *AuditService
	col         *metrics.Collector
	log         *zap.Logger
}

func NewBillingService(
	repo billing.Repository,
	patientRepo patient.Repository,
	settings SettingsRepository,
	auditSvc *AuditService,
	col *metrics.Collector,
	log *zap.Logger,
) *BillingService {
	return &BillingService{repo: repo, patientRepo: patientRepo, settings: settings, auditSvc: auditSvc, col: col, log: log}
}

// CreateInvoice opens an invoice in the unpaid state with remaining
// equal to the billed amount. The invoice number is assigned inside the
// creation transaction.
func (s *BillingService) CreateInvoice(ctx context.Context, cmd *billing.CreateInvoiceCommand, sess domain.Session) (*billing.Invoice, error) {
	ctx, span := tracer.Start(ctx, "billing.create_invoice")
	defer span.End()

	var errs []string
	if strings.TrimSpace(cmd.PatientFileNumber) == "" {
		errs = append(errs, "patient file number is required")
	}
	if strings.TrimSpace(cmd.Kind) == "" {
		errs = append(errs, "kind is required")
	}
	if cmd.Billed <= 0 {
		errs = append(errs, "billed amount must be positive")
	}
	if len(errs) > 0 {
		return nil, &ValidationError{Fields: errs}
	}

	if cmd.Kind == InvoiceKindConsultation {
		if minFee, err := s.minConsultationFee(ctx); err == nil && cmd.Billed < minFee {
			return nil, billing.ErrBelowMinimumFee
		}
	}

	p, err := s.patientRepo.GetByFileNumber(ctx, cmd.PatientFileNumber)
	if err != nil {
		return nil, err
	}

	inv := &billing.Invoice{
		PatientID: p.ID,
		Kind:      strings.TrimSpace(cmd.Kind),
		Billed:    cmd.Billed,
	}
	inv.Recompute()

	if err := s.repo.Create(ctx, inv); err != nil {
		s.log.Error("failed to create invoice", zap.Error(err))
		return nil, fmt.Errorf("creating invoice: %w", err)
	}

	s.col.InvoicesCreatedTotal.Inc()
	s.auditSvc.Record(sess, domain.ActionCreate, billing.Invoice{}.TableName(), inv.ID,
		fmt.Sprintf("invoice %s: %.0f for %s", inv.Number, inv.Billed, p.FileNumber))

	return inv, nil
}

// RegisterPayment adds the amount to the invoice's paid total and
// recomputes remaining and status, all in one transaction so no
// intermediate state is ever observable.
func (s *BillingService) RegisterPayment(ctx context.Context, cmd *billing.RegisterPaymentCommand, sess domain.Session) (*billing.Invoice, error) {
	ctx, span := tracer.Start(ctx, "billing.register_payment")
	defer span.End()

	if cmd.Amount <= 0 {
		return nil, billing.ErrInvalidAmount
	}
	if !cmd.Mode.IsValid() {
		return nil, billing.ErrInvalidPaymentMode
	}

	now := time.Now()
	inv, err := s.repo.RegisterPayment(ctx, cmd.InvoiceNumber, func(inv *billing.Invoice) error {
		inv.ApplyPayment(cmd.Amount, cmd.Mode, billing.PaymentRefFor(now), now)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.col.PaymentsTotal.Inc()
	s.auditSvc.Record(sess, domain.ActionPayment, billing.Invoice{}.TableName(), inv.ID,
		fmt.Sprintf("payment of %.0f on invoice %s", cmd.Amount, inv.Number))

	s.log.Info("payment registered",
		zap.String("invoice", inv.Number),
		zap.Float64("amount", cmd.Amount),
		zap.String("status", string(inv.Status)),
	)

	return inv, nil
}

// GetInvoice returns the invoice with the given number.
func (s *BillingService) GetInvoice(ctx context.Context, number string) (*billing.Invoice, error) {
	return s.repo.GetByNumber(ctx, number)
}

// ListUnpaid returns invoices not yet fully paid.
func (s *BillingService) ListUnpaid(ctx context.Context) ([]*billing.Invoice, error) {
	return s.repo.ListUnpaid(ctx)
}

func (s *BillingService) minConsultationFee(ctx context.Context) (float64, error) {
	v, err := s.settings.Get(ctx, domain.SettingMinConsultationFee)
	if err != nil {
		return 0, err
	}
	return strconv.ParseFloat(v, 64)
}
