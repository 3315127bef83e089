package errors

import (
	"errors"
	"net/http"
)

// Domain errors
var (
	ErrNotFound           = errors.New("resource not found")
	ErrAlreadyExists      = errors.New("resource already exists")
	ErrQuotaExceeded      = errors.New("address quota exceeded")
	ErrInvalidAddress     = errors.New("invalid address")
	ErrPrivateKeyDetected = errors.New("input resembles a private key")
	ErrSeedPhraseDetected = errors.New("input resembles a seed phrase")
	ErrUnsupportedNetwork = errors.New("unsupported network")
	ErrInvalidInput       = errors.New("invalid input")
	ErrBadRequest         = errors.New("bad request")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrForbidden          = errors.New("forbidden")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrTokenExpired       = errors.New("token expired")
	ErrRateLimited        = errors.New("rate limited")
)

// Stable machine-checkable error codes surfaced in the error envelope.
const (
	CodeNotFound           = "NOT_FOUND"
	CodeConflict           = "CONFLICT"
	CodeDuplicate          = "DUPLICATE_WALLET"
	CodeQuotaExceeded      = "QUOTA_EXCEEDED"
	CodeInvalidAddress     = "INVALID_ADDRESS"
	CodePrivateKeyDetected = "PRIVATE_KEY_DETECTED"
	CodeSeedPhraseDetected = "SEED_PHRASE_DETECTED"
	CodeInvalidNetwork     = "INVALID_NETWORK"
	CodeRateLimited        = "RATE_LIMITED"
	CodeUnauthorized       = "UNAUTHORIZED"
	CodeForbidden          = "FORBIDDEN"
	CodeBadRequest         = "BAD_REQUEST"
	CodeInvalidInput       = "INVALID_INPUT"
	CodeInternalError      = "INTERNAL_ERROR"
)

// AppError represents an application error with its HTTP status and code.
type AppError struct {
	Status  int    `json:"-"`
	Code    string `json:"code"`
	Message string `json:"message"`
	Err     error  `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NewAppError creates a new app error.
func NewAppError(status int, code, message string, err error) *AppError {
	return &AppError{
		Status:  status,
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Common error constructors

func NotFound(message string) *AppError {
	return NewAppError(http.StatusNotFound, CodeNotFound, message, ErrNotFound)
}

func BadRequest(message string) *AppError {
	return NewAppError(http.StatusBadRequest, CodeInvalidInput, message, ErrInvalidInput)
}

func Unauthorized(message string) *AppError {
	return NewAppError(http.StatusUnauthorized, CodeUnauthorized, message, ErrUnauthorized)
}

func Forbidden(message string) *AppError {
	return NewAppError(http.StatusForbidden, CodeForbidden, message, ErrForbidden)
}

func Conflict(message string) *AppError {
	return NewAppError(http.StatusConflict, CodeConflict, message, ErrAlreadyExists)
}

// Duplicate reports an attempt to register the same (address, network) twice.
func Duplicate(message string) *AppError {
	return NewAppError(http.StatusConflict, CodeDuplicate, message, ErrAlreadyExists)
}

func QuotaExceeded(message string) *AppError {
	return NewAppError(http.StatusConflict, CodeQuotaExceeded, message, ErrQuotaExceeded)
}

func InvalidAddress(message string) *AppError {
	return NewAppError(http.StatusUnprocessableEntity, CodeInvalidAddress, message, ErrInvalidAddress)
}

func PrivateKeyDetected() *AppError {
	return NewAppError(http.StatusUnprocessableEntity, CodePrivateKeyDetected,
		"Input looks like a private key. Never share private keys; supply a public address instead.", ErrPrivateKeyDetected)
}

func SeedPhraseDetected() *AppError {
	return NewAppError(http.StatusUnprocessableEntity, CodeSeedPhraseDetected,
		"Input looks like a seed phrase. Never share seed phrases; supply a public address instead.", ErrSeedPhraseDetected)
}

func InvalidNetwork(message string) *AppError {
	return NewAppError(http.StatusUnprocessableEntity, CodeInvalidNetwork, message, ErrUnsupportedNetwork)
}

func RateLimited(message string) *AppError {
	return NewAppError(http.StatusTooManyRequests, CodeRateLimited, message, ErrRateLimited)
}

func InternalError(err error) *AppError {
	return NewAppError(http.StatusInternalServerError, CodeInternalError, "internal server error", err)
}

func InternalServerError(message string) *AppError {
	return NewAppError(http.StatusInternalServerError, CodeInternalError, message, nil)
}

// NewError creates a new error with a custom message wrapping an existing error.
func NewError(message string, err error) error {
	return &AppError{
		Status:  http.StatusBadRequest,
		Code:    CodeBadRequest,
		Message: message,
		Err:     err,
	}
}
