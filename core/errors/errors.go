package errors

import "fmt"

type ErrorCode string

const (
	ErrInternalServer     ErrorCode = "INTERNAL_SERVER_ERROR"
	ErrInvalidInput       ErrorCode = "INVALID_INPUT"
	ErrInvalidRequestData ErrorCode = "INVALID_REQUEST_DATA"
	ErrNotFound           ErrorCode = "NOT_FOUND"
	ErrAlreadyExists      ErrorCode = "ALREADY_EXISTS"
	ErrNotConfigured      ErrorCode = "NOT_CONFIGURED"

	// Recommendation pipeline codes
	ErrNoAvailability    ErrorCode = "NO_AVAILABILITY"
	ErrInsufficientSlots ErrorCode = "INSUFFICIENT_SLOTS"
	ErrUpstreamTransport ErrorCode = "UPSTREAM_TRANSPORT_FAILURE"
	ErrUpstreamContract  ErrorCode = "UPSTREAM_CONTRACT_VIOLATION"
)

// AppError carries a stable error code alongside a user-facing message and
// the underlying cause.
type AppError struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Err     error     `json:"-"`
}

func NewAppError(code ErrorCode, message string, err error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}
