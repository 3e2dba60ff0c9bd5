package errors

import "errors"

// Error codes shared across domain services. Handlers map these to HTTP
// statuses; services never pick a status themselves.
const (
	CodeInvalidInput  = "invalid_input"
	CodeNotFound      = "not_found"
	CodeUnauthorized  = "unauthorized"
	CodeForbidden     = "forbidden"
	CodeWeatherData   = "weather_data_error"
	CodeLLM           = "llm_error"
	CodeQuotaExceeded = "quota_exceeded"
	CodeStorage       = "storage_error"
)

// AppError encodes domain specific error details.
type AppError struct {
	Code    string
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Wrap produces a new AppError instance.
func Wrap(code, message string, err error) error {
	if err == nil {
		return &AppError{Code: code, Message: message}
	}
	return &AppError{Code: code, Message: message, Err: err}
}

// Message returns the user-facing message carried by err, without the
// wrapped cause chain.
func Message(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	return "something went wrong"
}

// IsCode helps callers differentiate failures.
func IsCode(err error, code string) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code == code
	}
	return false
}
