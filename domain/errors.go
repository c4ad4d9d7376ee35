package domain

import (
	"errors"
	"fmt"
)

type ErrorCode string

const (
	ErrCodeConfig            ErrorCode = "CONFIG_ERROR"
	ErrCodeInvalidArgument   ErrorCode = "INVALID_ARGUMENT"
	ErrCodeDimensionMismatch ErrorCode = "DIMENSION_MISMATCH"
	ErrCodeInvalidInput      ErrorCode = "INVALID_INPUT"
)

var (
	ErrConfig            = errors.New("configuration error")
	ErrInvalidArgument   = errors.New("invalid argument")
	ErrDimensionMismatch = errors.New("dimension mismatch")
	ErrInvalidInput      = errors.New("invalid input")
)

// Error is the typed failure returned by the prediction core and its load boundary.
type Error struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Details string    `json:"details,omitempty"`
}

func (e *Error) Error() string {
	if e.Details == "" {
		return fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s (%s)", e.Code, e.Message, e.Details)
}

// Is lets callers match with errors.Is(err, domain.ErrConfig) and friends.
func (e *Error) Is(target error) bool {
	switch target {
	case ErrConfig:
		return e.Code == ErrCodeConfig
	case ErrInvalidArgument:
		return e.Code == ErrCodeInvalidArgument
	case ErrDimensionMismatch:
		return e.Code == ErrCodeDimensionMismatch
	case ErrInvalidInput:
		return e.Code == ErrCodeInvalidInput
	}
	return false
}

func NewConfigError(format string, args ...any) *Error {
	return &Error{Code: ErrCodeConfig, Message: fmt.Sprintf(format, args...)}
}

func NewInvalidArgumentError(format string, args ...any) *Error {
	return &Error{Code: ErrCodeInvalidArgument, Message: fmt.Sprintf(format, args...)}
}

func NewDimensionMismatchError(want, got int, where string) *Error {
	return &Error{
		Code:    ErrCodeDimensionMismatch,
		Message: fmt.Sprintf("expected %d features, got %d", want, got),
		Details: where,
	}
}

func NewInvalidInputError(field, message string) *Error {
	return &Error{Code: ErrCodeInvalidInput, Message: message, Details: field}
}

// CodeOf extracts the ErrorCode from err, or "" when err is not a domain error.
func CodeOf(err error) ErrorCode {
	var de *Error
	if errors.As(err, &de) {
		return de.Code
	}
	return ""
}
