package patient

import "errors"

var (
	ErrPatientNotFound    = errors.New("patient not found")
	ErrIndicatorsNotFound = errors.New("health indicators not found")
	ErrInvalidGender      = errors.New("invalid gender value")
)
