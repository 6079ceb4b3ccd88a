package rest

import (
	"errors"
	"net/http"

	"caseAssist/business/auth"
	"caseAssist/business/client"
	"caseAssist/business/recommend"
	"caseAssist/pkg/logger"

	"github.com/labstack/echo/v4"
)

type ResponseError struct {
	Message string `json:"message"`
}

// statusFor maps service and engine errors onto HTTP status codes.
func statusFor(err error) int {
	var encErr *recommend.EncodingError

	switch {
	case errors.As(err, &encErr),
		errors.Is(err, client.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, auth.ErrInvalidCredentials):
		return http.StatusUnauthorized
	case errors.Is(err, client.ErrClientNotFound),
		errors.Is(err, client.ErrCaseWorkerNotFound),
		errors.Is(err, client.ErrCaseNotFound),
		errors.Is(err, recommend.ErrModelNotFound):
		return http.StatusNotFound
	case errors.Is(err, recommend.ErrRetrainInProgress),
		errors.Is(err, client.ErrDuplicateAssignment),
		errors.Is(err, client.ErrEmailTaken):
		return http.StatusConflict
	case errors.Is(err, recommend.ErrModelUnavailable):
		return http.StatusServiceUnavailable
	default:
		// includes *recommend.ConfigurationError
		return http.StatusInternalServerError
	}
}

// respondError writes err with its mapped status. Server errors are logged
// and their detail is not sent to the client.
func respondError(c echo.Context, err error) error {
	status := statusFor(err)
	if status >= http.StatusInternalServerError && status != http.StatusServiceUnavailable {
		logger.Error("Request failed",
			"trace_id", recommend.TraceIDFromContext(c.Request().Context()),
			"path", c.Path(),
			"error", err,
		)
		return c.JSON(status, ResponseError{Message: http.StatusText(status)})
	}
	return c.JSON(status, ResponseError{Message: err.Error()})
}

func badRequest(c echo.Context, msg string) error {
	return c.JSON(http.StatusBadRequest, ResponseError{Message: msg})
}
