package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/clinicdesk/clinicdesk/internal/domain"
	"github.com/clinicdesk/clinicdesk/internal/domain/billing"
	"github.com/clinicdesk/clinicdesk/internal/domain/patient"
)

func billingFixture(t *testing.T) (*BillingService, *fakeBillingRepo, *patient.Patient) {
	t.Helper()

	patients := &fakePatientRepo{}
	p, err := newPatientService(patients).Register(context.Background(), validAdultCommand(), staffSession())
	if err != nil {
		t.Fatalf("registering fixture patient: %v", err)
	}

	repo := &fakeBillingRepo{}
	settings := &fakeSettingsRepo{values: map[string]string{domain.SettingMinConsultationFee: "5000"}}
	svc := NewBillingService(repo, patients, settings, newTestAudit(), testCollector, zap.NewNop())
	return svc, repo, p
}

func TestInvoiceLifecycle(t *testing.T) {
	svc, _, p := billingFixture(t)
	ctx := context.Background()

	inv, err := svc.CreateInvoice(ctx, &billing.CreateInvoiceCommand{
		PatientFileNumber: p.FileNumber,
		Kind:              InvoiceKindConsultation,
		Billed:            10000,
	}, staffSession())
	if err != nil {
		t.Fatalf("CreateInvoice: %v", err)
	}
	if inv.Status != billing.StatusUnpaid || inv.Remaining != 10000 {
		t.Fatalf("new invoice: status=%v remaining=%v", inv.Status, inv.Remaining)
	}
	if !strings.HasPrefix(inv.Number, "FACT") {
		t.Errorf("invoice number %q lacks the FACT prefix", inv.Number)
	}

	inv, err = svc.RegisterPayment(ctx, &billing.RegisterPaymentCommand{
		InvoiceNumber: inv.Number,
		Amount:        4000,
		Mode:          billing.ModeCash,
	}, staffSession())
	if err != nil {
		t.Fatalf("first payment: %v", err)
	}
	if inv.Status != billing.StatusPartial || inv.Remaining != 6000 {
		t.Fatalf("after first payment: status=%v remaining=%v", inv.Status, inv.Remaining)
	}
	if !strings.HasPrefix(inv.PaymentRef, "PAY") {
		t.Errorf("payment ref %q lacks the PAY prefix", inv.PaymentRef)
	}

	inv, err = svc.RegisterPayment(ctx, &billing.RegisterPaymentCommand{
		InvoiceNumber: inv.Number,
		Amount:        6000,
		Mode:          billing.ModeMobileMoney,
	}, staffSession())
	if err != nil {
		t.Fatalf("second payment: %v", err)
	}
	if inv.Status != billing.StatusPaid || inv.Remaining != 0 {
		t.Fatalf("after second payment: status=%v remaining=%v", inv.Status, inv.Remaining)
	}

	unpaid, err := svc.ListUnpaid(ctx)
	if err != nil {
		t.Fatalf("ListUnpaid: %v", err)
	}
	if len(unpaid) != 0 {
		t.Errorf("paid invoice still listed as unpaid")
	}
}

func TestCreateInvoiceBelowMinimumFee(t *testing.T) {
	svc, repo, p := billingFixture(t)

	_, err := svc.CreateInvoice(context.Background(), &billing.CreateInvoiceCommand{
		PatientFileNumber: p.FileNumber,
		Kind:              InvoiceKindConsultation,
		Billed:            3000,
	}, staffSession())
	if !errors.Is(err, billing.ErrBelowMinimumFee) {
		t.Fatalf("err = %v, want ErrBelowMinimumFee", err)
	}
	if len(repo.invoices) != 0 {
		t.Error("a rejected invoice reached the store")
	}
}

func TestCreateInvoiceOtherKindsSkipMinimum(t *testing.T) {
	svc, _, p := billingFixture(t)

	if _, err := svc.CreateInvoice(context.Background(), &billing.CreateInvoiceCommand{
		PatientFileNumber: p.FileNumber,
		Kind:              "pharmacy",
		Billed:            500,
	}, staffSession()); err != nil {
		t.Fatalf("pharmacy invoice under the consultation minimum: %v", err)
	}
}

func TestRegisterPaymentValidation(t *testing.T) {
	svc, _, _ := billingFixture(t)
	ctx := context.Background()

	_, err := svc.RegisterPayment(ctx, &billing.RegisterPaymentCommand{
		InvoiceNumber: "FACT202501010001", Amount: -5, Mode: billing.ModeCash,
	}, staffSession())
	if !errors.Is(err, billing.ErrInvalidAmount) {
		t.Errorf("negative amount: err = %v, want ErrInvalidAmount", err)
	}

	_, err = svc.RegisterPayment(ctx, &billing.RegisterPaymentCommand{
		InvoiceNumber: "FACT202501010001", Amount: 100, Mode: "barter",
	}, staffSession())
	if !errors.Is(err, billing.ErrInvalidPaymentMode) {
		t.Errorf("unknown mode: err = %v, want ErrInvalidPaymentMode", err)
	}

	_, err = svc.RegisterPayment(ctx, &billing.RegisterPaymentCommand{
		InvoiceNumber: "FACT000000000000", Amount: 100, Mode: billing.ModeCash,
	}, staffSession())
	if !errors.Is(err, billing.ErrInvoiceNotFound) {
		t.Errorf("missing invoice: err = %v, want ErrInvoiceNotFound", err)
	}
}
