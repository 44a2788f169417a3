package billing

import (
	"testing"
	"time"
)

func TestRecompute(t *testing.T) {
	tests := []struct {
		name          string
		billed, paid  float64
		wantRemaining float64
		wantStatus    Status
	}{
		{"nothing paid", 10000, 0, 10000, StatusUnpaid},
		{"partially paid", 10000, 4000, 6000, StatusPartial},
		{"exactly paid", 10000, 10000, 0, StatusPaid},
		{"overpaid", 10000, 12000, -2000, StatusPaid},
		{"zero invoice", 0, 0, 0, StatusPaid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inv := Invoice{Billed: tt.billed, Paid: tt.paid}
			inv.Recompute()
			if inv.Remaining != tt.wantRemaining {
				t.Errorf("Remaining = %v, want %v", inv.Remaining, tt.wantRemaining)
			}
			if inv.Status != tt.wantStatus {
				t.Errorf("Status = %v, want %v", inv.Status, tt.wantStatus)
			}
		})
	}
}

func TestApplyPaymentSequence(t *testing.T) {
	inv := Invoice{Billed: 10000}
	inv.Recompute()
	if inv.Status != StatusUnpaid {
		t.Fatalf("new invoice status = %v, want unpaid", inv.Status)
	}

	now := time.Now()
	inv.ApplyPayment(4000, ModeCash, "PAY1", now)
	if inv.Status != StatusPartial || inv.Remaining != 6000 {
		t.Fatalf("after first payment: status=%v remaining=%v", inv.Status, inv.Remaining)
	}
	if inv.PaymentMode != ModeCash {
		t.Errorf("PaymentMode = %v, want cash", inv.PaymentMode)
	}

	// Second payment with another mode keeps the first mode on record.
	inv.ApplyPayment(6000, ModeMobileMoney, "PAY2", now)
	if inv.Status != StatusPaid || inv.Remaining != 0 {
		t.Fatalf("after second payment: status=%v remaining=%v", inv.Status, inv.Remaining)
	}
	if inv.PaymentMode != ModeCash {
		t.Errorf("PaymentMode = %v, want cash", inv.PaymentMode)
	}
	if inv.PaidAt == nil {
		t.Error("PaidAt not set")
	}

	// Paid is terminal: a further payment never leaves it.
	inv.ApplyPayment(500, ModeCash, "PAY3", now)
	if inv.Status != StatusPaid {
		t.Errorf("status after extra payment = %v, want paid", inv.Status)
	}
}

func TestInvoiceNumberFor(t *testing.T) {
	at := time.Date(2025, time.June, 2, 10, 30, 0, 0, time.UTC)
	tests := []struct {
		suffix uint
		want   string
	}{
		{7, "FACT202506020007"},
		{42, "FACT202506020042"},
		{9999, "FACT202506029999"},
		{10042, "FACT202506020042"},
	}
	for _, tt := range tests {
		if got := InvoiceNumberFor(at, tt.suffix); got != tt.want {
			t.Errorf("InvoiceNumberFor(%d) = %q, want %q", tt.suffix, got, tt.want)
		}
	}
}

func TestPaymentRefFor(t *testing.T) {
	at := time.Date(2025, time.June, 2, 10, 30, 45, 0, time.UTC)
	if got, want := PaymentRefFor(at), "PAY20250602103045"; got != want {
		t.Errorf("PaymentRefFor = %q, want %q", got, want)
	}
}

func TestPaymentModeIsValid(t *testing.T) {
	for _, m := range []PaymentMode{ModeCash, ModeCard, ModeCheque, ModeMobileMoney, ModeTransfer} {
		if !m.IsValid() {
			t.Errorf("%v reported invalid", m)
		}
	}
	if PaymentMode("bitcoin").IsValid() {
		t.Error("unknown mode reported valid")
	}
}
