package httperr

import "errors"

// ===============================
// Business error codes
// ===============================

const (
	CodeNotFound     = "not_found"
	CodeTimeConflict = "time_conflict"
	CodeValidation   = "validation_error"
)

type BusinessError struct {
	Code   string
	Reason string
}

func (e BusinessError) Error() string {
	if e.Reason != "" {
		return e.Code + ": " + e.Reason
	}
	return e.Code
}

func ErrBusiness(code string) error {
	return BusinessError{Code: code}
}

// ErrValidation carries a caller-correctable reason string.
func ErrValidation(reason string) error {
	return BusinessError{Code: CodeValidation, Reason: reason}
}

func IsBusiness(err error, code string) bool {
	var be BusinessError
	if errors.As(err, &be) {
		return be.Code == code
	}
	return false
}

func Reason(err error) string {
	var be BusinessError
	if errors.As(err, &be) {
		return be.Reason
	}
	return ""
}
