package patient

import "errors"

var (
	ErrPatientNotFound     = errors.New("patient not found")
	ErrDuplicateFileNumber = errors.New("a patient with this file number already exists")
	ErrInvalidCategory     = errors.New("invalid patient category")
	ErrInvalidSex          = errors.New("invalid sex value")
	ErrFileNumberAssigned  = errors.New("file number is already assigned and immutable")
	ErrGuardianIDRequired  = errors.New("guardian national ID is required for child patients")
)
