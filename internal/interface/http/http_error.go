package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/cropwise/fieldadvisor/pkg/errors"
)

// HTTPError captures the metadata required to serialize an error response consistently.
type HTTPError struct {
	Status  int
	Code    string
	Message string
	Err     error
}

// Error implements the error interface.
func (e *HTTPError) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.Message
}

// NewHTTPError is a helper to build an HTTPError instance.
func NewHTTPError(status int, code, message string, err error) *HTTPError {
	return &HTTPError{Status: status, Code: code, Message: message, Err: err}
}

func asHTTPError(err error) *HTTPError {
	if err == nil {
		return nil
	}
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr
	}
	return &HTTPError{
		Status:  http.StatusInternalServerError,
		Code:    "internal_error",
		Message: "something went wrong",
		Err:     err,
	}
}

// domainHTTPError maps a domain error to its transport representation. The
// serialized message is the domain's safe message, never the cause chain.
func domainHTTPError(err error) *HTTPError {
	status := http.StatusInternalServerError
	code := "internal_error"
	switch {
	case apperrors.IsCode(err, apperrors.CodeInvalidInput):
		status, code = http.StatusBadRequest, "invalid_request"
	case apperrors.IsCode(err, apperrors.CodeNotFound):
		status, code = http.StatusNotFound, "not_found"
	case apperrors.IsCode(err, apperrors.CodeUnauthorized):
		status, code = http.StatusUnauthorized, "unauthorized"
	case apperrors.IsCode(err, apperrors.CodeForbidden):
		status, code = http.StatusForbidden, "forbidden"
	case apperrors.IsCode(err, apperrors.CodeQuotaExceeded):
		status, code = http.StatusTooManyRequests, "quota_exceeded"
	case apperrors.IsCode(err, apperrors.CodeWeatherData):
		status, code = http.StatusBadGateway, "weather_data_error"
	case apperrors.IsCode(err, apperrors.CodeLLM):
		status, code = http.StatusBadGateway, "llm_error"
	case apperrors.IsCode(err, "email_exists"):
		status, code = http.StatusConflict, "email_exists"
	case apperrors.IsCode(err, "invalid_credentials"):
		status, code = http.StatusUnauthorized, "invalid_credentials"
	case apperrors.IsCode(err, "invalid_token"):
		status, code = http.StatusUnauthorized, "invalid_token"
	}
	return NewHTTPError(status, code, apperrors.Message(err), err)
}

func abortWithError(c *gin.Context, err *HTTPError) {
	if err == nil {
		return
	}
	_ = c.Error(err)
	c.Abort()
}
