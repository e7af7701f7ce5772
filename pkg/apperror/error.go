package apperror

import "net/http"

type AppError struct {
	Code    int      `json:"code"`
	Message string   `json:"message"`
	Details []string `json:"details,omitempty"`
	Err     error    `json:"-"`
}

func (e *AppError) Error() string {
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func New(code int, message string, err error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

func BadRequest(message string) *AppError {
	return New(http.StatusBadRequest, message, nil)
}

// Validation carries every failed rule so the client can show them together.
func Validation(details []string) *AppError {
	e := New(http.StatusBadRequest, "Validation failed", nil)
	e.Details = details
	return e
}

func NotFound(message string) *AppError {
	return New(http.StatusNotFound, message, nil)
}

func Conflict(message string) *AppError {
	return New(http.StatusConflict, message, nil)
}

func TooManyRequests(message string) *AppError {
	return New(http.StatusTooManyRequests, message, nil)
}

// Internal hides err behind the generic public message.
func Internal(err error) *AppError {
	return New(http.StatusInternalServerError, "Something went wrong!", err)
}

// InternalMsg is Internal with an operation-specific public message.
func InternalMsg(message string, err error) *AppError {
	return New(http.StatusInternalServerError, message, err)
}
