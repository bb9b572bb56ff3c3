package httperr

import "errors"

// ===============================
// Error codes
// ===============================

const (
	CodeConfiguration       = "configuration_error"
	CodeUpstreamUnavailable = "upstream_unavailable"
	CodeInvalidInput        = "invalid_input"
	CodeSlotConflict        = "slot_conflict"
)

type BusinessError struct {
	Code   string
	Detail string
	Err    error
}

func (e BusinessError) Error() string {
	msg := e.Code
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e BusinessError) Unwrap() error {
	return e.Err
}

func ErrBusiness(code string) error {
	return BusinessError{Code: code}
}

// Detailed attaches a human readable detail to a code.
func Detailed(code, detail string) error {
	return BusinessError{Code: code, Detail: detail}
}

// Wrap keeps the cause reachable through errors.Is / errors.As.
func Wrap(code string, err error) error {
	if err == nil {
		return nil
	}
	return BusinessError{Code: code, Err: err}
}

func IsBusiness(err error, code string) bool {
	var be BusinessError
	if errors.As(err, &be) {
		return be.Code == code
	}
	return false
}

// CodeOf returns the outermost business code, or "" for foreign errors.
func CodeOf(err error) string {
	var be BusinessError
	if errors.As(err, &be) {
		return be.Code
	}
	return ""
}
