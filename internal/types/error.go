package types

import (
	"errors"
	"fmt"
	"net/http"
)

type ErrorCode string

const (
	InternalServiceError ErrorCode = "INTERNAL_SERVICE_ERROR"
	ValidationError      ErrorCode = "VALIDATION_ERROR"
	NotFound             ErrorCode = "NOT_FOUND"
	BadRequest           ErrorCode = "BAD_REQUEST"
	Unauthorized         ErrorCode = "UNAUTHORIZED"
	InsufficientStake    ErrorCode = "INSUFFICIENT_STAKE"
	AlreadyUnlocked      ErrorCode = "ALREADY_UNLOCKED"
	CannotQuitYet        ErrorCode = "CANNOT_QUIT_YET"
	TransferFailed       ErrorCode = "TRANSFER_FAILED"
	InvalidPool          ErrorCode = "INVALID_POOL"
)

func (c ErrorCode) String() string {
	return string(c)
}

// Error carries the http status and the machine readable code of a failed
// operation next to the underlying error.
type Error struct {
	Err        error
	StatusCode int
	ErrorCode  ErrorCode
}

func (e *Error) Error() string {
	return e.Err.Error()
}

func (e *Error) Unwrap() error {
	return e.Err
}

func NewError(statusCode int, errorCode ErrorCode, err error) *Error {
	return &Error{
		Err:        err,
		StatusCode: statusCode,
		ErrorCode:  errorCode,
	}
}

func NewErrorWithMsg(statusCode int, errorCode ErrorCode, format string, args ...any) *Error {
	return NewError(statusCode, errorCode, fmt.Errorf(format, args...))
}

func NewInternalServiceError(err error) *Error {
	return NewError(http.StatusInternalServerError, InternalServiceError, err)
}

func NewValidationFailedError(err error) *Error {
	return NewError(http.StatusBadRequest, ValidationError, err)
}

func NewUnauthorizedError(format string, args ...any) *Error {
	return NewErrorWithMsg(http.StatusForbidden, Unauthorized, format, args...)
}

func NewInsufficientStakeError(format string, args ...any) *Error {
	return NewErrorWithMsg(http.StatusConflict, InsufficientStake, format, args...)
}

func NewAlreadyUnlockedError(format string, args ...any) *Error {
	return NewErrorWithMsg(http.StatusConflict, AlreadyUnlocked, format, args...)
}

func NewCannotQuitYetError(format string, args ...any) *Error {
	return NewErrorWithMsg(http.StatusConflict, CannotQuitYet, format, args...)
}

func NewTransferFailedError(err error) *Error {
	return NewError(http.StatusUnprocessableEntity, TransferFailed, err)
}

func NewInvalidPoolError(format string, args ...any) *Error {
	return NewErrorWithMsg(http.StatusNotFound, InvalidPool, format, args...)
}

func NewBadRequestError(format string, args ...any) *Error {
	return NewErrorWithMsg(http.StatusBadRequest, BadRequest, format, args...)
}

// CodeOf returns the code of the first *Error in err's chain.
// Anything else is reported as InternalServiceError.
func CodeOf(err error) ErrorCode {
	var e *Error
	if errors.As(err, &e) {
		return e.ErrorCode
	}
	return InternalServiceError
}

func IsCode(err error, code ErrorCode) bool {
	return err != nil && CodeOf(err) == code
}
