package vaccination

import "errors"

var (
	ErrPediatricVaccineForAdult = errors.New("pediatric vaccine for an adult patient requires confirmation")
)
