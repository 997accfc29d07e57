package apperrors

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrInvalidAmount indicates a non-positive, over-precise, or over-limit monetary amount.
var ErrInvalidAmount = fmt.Errorf("invalid amount: %w", ErrValidation)

// ErrInsufficientFunds indicates a withdrawal larger than the current account balance.
var ErrInsufficientFunds = errors.New("insufficient funds")

// ErrContention indicates that a ledger operation lost a concurrency conflict even after
// the engine's internal retries. The caller may reissue the identical request.
var ErrContention = errors.New("operation aborted due to contention")

// ErrStorageUnavailable indicates the persistence layer failed mid-operation.
// The atomic unit is rolled back; nothing is partially applied.
var ErrStorageUnavailable = errors.New("storage unavailable")

// ErrTokenMalformed indicates a signed token whose structure or signature does not verify.
var ErrTokenMalformed = errors.New("token malformed")

// ErrTokenExpired indicates a signed token presented after its validity window.
var ErrTokenExpired = errors.New("token expired")

// ErrPurposeMismatch indicates a signed token presented for a purpose it was not issued for.
var ErrPurposeMismatch = errors.New("token purpose mismatch")

// ErrForbidden indicates the caller is authenticated but not allowed to act on the resource.
var ErrForbidden = errors.New("forbidden")

// ErrInternal indicates an unexpected internal failure.
var ErrInternal = errors.New("internal error")

// AppError carries an HTTP status code alongside a message and wrapped cause.
type AppError struct {
	Code    int    `json:"code"`
	Message string `json:"error"`
	Err     error  `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NewAppError creates an AppError with an explicit code.
func NewAppError(code int, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}

func NewBadRequestError(message string) *AppError {
	return NewAppError(http.StatusBadRequest, message, ErrValidation)
}

func NewUnauthorizedError(message string) *AppError {
	return NewAppError(http.StatusUnauthorized, message, nil)
}

func NewInternalServerError(message string) *AppError {
	return NewAppError(http.StatusInternalServerError, message, ErrInternal)
}

func NewGatewayTimeoutError(message string) *AppError {
	return NewAppError(http.StatusGatewayTimeout, message, nil)
}
