package service

import "errors"

var (
	ErrBrandNotEligible       = errors.New("brand not eligible for appointment type")
	ErrLicensePlateRestricted = errors.New("license plate restricted on this date")
	ErrNoTechnicianAvailable  = errors.New("no technician available for slot")
	ErrTechnicianConflict     = errors.New("technician busy at slot")
	ErrAlreadyCancelled       = errors.New("appointment already cancelled")

	// ErrReworkRequiresContact is a redirect signal, not a failure:
	// rework is coordinated through the workshop contact channel.
	ErrReworkRequiresContact = errors.New("rework appointments go through the contact workflow")
)

// ValidationError carries a user-renderable message for malformed or
// out-of-rule input.
type ValidationError struct {
	msg string
}

func (e *ValidationError) Error() string {
	return e.msg
}

func validationError(msg string) error {
	return &ValidationError{msg: msg}
}
