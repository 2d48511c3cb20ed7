package usecase

import (
	"errors"
	"strings"
)

const (
	CodeNotFound          = "NOT_FOUND"
	CodeConflict          = "CONFLICT"
	CodeInvalidArgument   = "INVALID_ARGUMENT"
	CodeValidation        = "VALIDATION_ERROR"
	CodeUnauthorized      = "UNAUTHORIZED"
	CodeDependencyFailure = "DEPENDENCY_FAILURE"
	CodeDatabase          = "DATABASE_ERROR"
)

// DomainError is returned to the caller as a typed failure.
type DomainError struct {
	Code    string
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}

func IsDomainError(err error) bool {
	var de *DomainError
	return errors.As(err, &de)
}

// TechnicalError wraps a store or dependency failure.
type TechnicalError struct {
	Code    string
	Message string
	Err     error
}

func (e *TechnicalError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *TechnicalError) Unwrap() error {
	return e.Err
}

func IsTechnicalError(err error) bool {
	var te *TechnicalError
	return errors.As(err, &te)
}

func NotFound(message string) *DomainError {
	return &DomainError{Code: CodeNotFound, Message: message}
}

func Conflict(message string) *DomainError {
	return &DomainError{Code: CodeConflict, Message: message}
}

func InvalidArgument(message string) *DomainError {
	return &DomainError{Code: CodeInvalidArgument, Message: message}
}

func Unauthorized(message string) *DomainError {
	return &DomainError{Code: CodeUnauthorized, Message: message}
}

func DependencyFailure(message string, err error) *TechnicalError {
	return &TechnicalError{Code: CodeDependencyFailure, Message: message, Err: err}
}

func DatabaseError(message string, err error) *TechnicalError {
	return &TechnicalError{Code: CodeDatabase, Message: message, Err: err}
}

// ErrorCode extracts the code of a typed error, or "" for anything else.
func ErrorCode(err error) string {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Code
	}
	var te *TechnicalError
	if errors.As(err, &te) {
		return te.Code
	}
	return ""
}

func IsNotFound(err error) bool        { return ErrorCode(err) == CodeNotFound }
func IsConflict(err error) bool        { return ErrorCode(err) == CodeConflict }
func IsInvalidArgument(err error) bool { return ErrorCode(err) == CodeInvalidArgument }

func validationFailure(errs []ValidationError) *DomainError {
	parts := make([]string, 0, len(errs))
	for _, e := range errs {
		parts = append(parts, e.Error())
	}
	return &DomainError{
		Code:    CodeValidation,
		Message: "validation failed: " + strings.Join(parts, ", "),
	}
}
