package httperr

import (
	"errors"
	"fmt"
)

type BusinessError struct {
	Code string
}

func (e BusinessError) Error() string {
	return e.Code
}

func ErrBusiness(code string) error {
	return BusinessError{Code: code}
}

func IsBusiness(err error, code string) bool {
	var be BusinessError
	if errors.As(err, &be) {
		return be.Code == code
	}
	return false
}

// ===============================
// Typed domain errors
// ===============================

// InvalidTransitionError reports an action that is not legal from the
// current status. Message carries the violated rule.
type InvalidTransitionError struct {
	From    string
	Action  string
	Message string
}

func (e InvalidTransitionError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("cannot %s an appointment that is %s", e.Action, e.From)
}

// ValidationError reports a malformed field in a request payload.
type ValidationError struct {
	Field string
	Rule  string
}

func (e ValidationError) Error() string {
	if e.Field == "" {
		return e.Rule
	}
	return e.Field + ": " + e.Rule
}

func Validation(field, rule string) error {
	return ValidationError{Field: field, Rule: rule}
}

// ConflictError is returned when a candidate slot overlaps a reserved one.
// It is informational; callers decide whether to reject or warn.
type ConflictError struct {
	DoctorID       uint
	ConflictingIDs []uint
}

func (e ConflictError) Error() string {
	if len(e.ConflictingIDs) == 0 {
		return fmt.Sprintf("slot conflicts with an existing appointment for doctor %d", e.DoctorID)
	}
	return fmt.Sprintf("slot conflicts with appointments %v for doctor %d", e.ConflictingIDs, e.DoctorID)
}

func IsInvalidTransition(err error) bool {
	var e InvalidTransitionError
	return errors.As(err, &e)
}

func IsValidation(err error) bool {
	var e ValidationError
	return errors.As(err, &e)
}

func IsConflict(err error) bool {
	var e ConflictError
	return errors.As(err, &e)
}
