package pharmacy

import "errors"

var (
	ErrMedicationNotFound = errors.New("medication not found")
	ErrDuplicateCode      = errors.New("a medication with this code already exists")
	ErrInsufficientStock  = errors.New("stock cannot go below zero")
	ErrInvalidQuantity    = errors.New("quantity must be positive")
)
