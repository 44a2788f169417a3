package consultation

import "errors"

var (
	ErrConsultationNotFound = errors.New("consultation not found")
)
