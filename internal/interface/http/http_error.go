package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/yanqian/opening-hours/pkg/errors"
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

// mapDomainError translates hours service failures into transport errors.
func mapDomainError(err error) *HTTPError {
	switch apperrors.CodeOf(err) {
	case "invalid_input":
		return NewHTTPError(http.StatusBadRequest, "invalid_request", errMessage(err), err)
	case "not_found":
		return NewHTTPError(http.StatusNotFound, "not_found", apperrors.MessageOf(err), err)
	case "hours_unavailable":
		return NewHTTPError(http.StatusServiceUnavailable, "hours_unavailable", "Hours unavailable", err)
	case "repository_error":
		return NewHTTPError(http.StatusBadGateway, "repository_error", apperrors.MessageOf(err), err)
	default:
		return NewHTTPError(http.StatusInternalServerError, "hours_failed", "failed to evaluate hours", err)
	}
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

func abortWithError(c *gin.Context, err *HTTPError) {
	if err == nil {
		return
	}
	_ = c.Error(err)
	c.Abort()
}
