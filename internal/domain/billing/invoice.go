package billing

import (
	"fmt"
	"time"
)

// Status is a pure function of billed versus paid: unpaid while nothing
// has been paid, partial in between, paid once remaining reaches zero.
// There is no transition out of paid.
type Status string

const (
	StatusUnpaid  Status = "unpaid"
	StatusPartial Status = "partial"
	StatusPaid    Status = "paid"
)

type PaymentMode string

const (
	ModeCash        PaymentMode = "cash"
	ModeCard        PaymentMode = "card"
	ModeCheque      PaymentMode = "cheque"
	ModeMobileMoney PaymentMode = "mobile_money"
	ModeTransfer    PaymentMode = "transfer"
)

func (m PaymentMode) IsValid() bool {
	switch m {
	case ModeCash, ModeCard, ModeCheque, ModeMobileMoney, ModeTransfer:
		return true
	}
	return false
}

type Invoice struct {
	ID        uint      `gorm:"primaryKey"`
	CreatedAt time.Time `gorm:"autoCreateTime;index"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`

	Number    string `gorm:"column:number;type:varchar(30);uniqueIndex;not null"`
	PatientID uint   `gorm:"column:patient_id;not null;index"`
	Kind      string `gorm:"column:kind;type:varchar(50);not null"`

	Billed    float64 `gorm:"column:billed;not null"`
	Paid      float64 `gorm:"column:paid;not null;default:0"`
	Remaining float64 `gorm:"column:remaining;not null"`
	Status    Status  `gorm:"column:status;type:varchar(10);not null;default:'unpaid';index"`

	PaymentMode PaymentMode `gorm:"column:payment_mode;type:varchar(20)"`
	PaymentRef  string      `gorm:"column:payment_ref;type:varchar(40)"`
	PaidAt      *time.Time  `gorm:"column:paid_at"`
}

func (Invoice) TableName() string {
	return "invoices"
}

// Recompute restores the invariant remaining == billed - paid and
// derives the status from it. Called after every change to Paid, inside
// the same transaction as the change itself.
func (i *Invoice) Recompute() {
	i.Remaining = i.Billed - i.Paid
	switch {
	case i.Remaining <= 0:
		i.Status = StatusPaid
	case i.Paid > 0:
		i.Status = StatusPartial
	default:
		i.Status = StatusUnpaid
	}
}

// ApplyPayment adds the amount to Paid and recomputes. The amount must
// already be validated as positive.
func (i *Invoice) ApplyPayment(amount float64, mode PaymentMode, ref string, at time.Time) {
	i.Paid += amount
	if i.PaymentMode == "" {
		i.PaymentMode = mode
	}
	i.PaymentRef = ref
	i.PaidAt = &at
	i.Recompute()
}

// InvoiceNumberFor derives the human-readable invoice number: FACT,
// creation date as YYYYMMDD, and a four-digit suffix.
func InvoiceNumberFor(createdAt time.Time, suffix uint) string {
	return fmt.Sprintf("FACT%s%04d", createdAt.Format("20060102"), suffix%10000)
}

// PaymentRefFor derives the reference recorded with a payment.
func PaymentRefFor(at time.Time) string {
	return "PAY" + at.Format("20060102150405")
}

type CreateInvoiceCommand struct {
	PatientFileNumber string
	Kind              string
	Billed            float64
}

type RegisterPaymentCommand struct {
	InvoiceNumber string
	Amount        float64
	Mode          PaymentMode
}
