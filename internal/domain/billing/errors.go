package billing

import "errors"

var (
	ErrInvoiceNotFound    = errors.New("invoice not found")
	ErrDuplicateNumber    = errors.New("an invoice with this number already exists")
	ErrInvalidAmount      = errors.New("amount must be a positive number")
	ErrInvalidPaymentMode = errors.New("invalid payment mode")
	ErrBelowMinimumFee    = errors.New("amount is below the minimum consultation fee")
)
