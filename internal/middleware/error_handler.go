package middleware

import (
	"errors"
	"net/http"
	"strings"

	"caseAssist/business/recommend"
	"caseAssist/pkg/logger"
	jsonres "caseAssist/pkg/response"

	"github.com/labstack/echo/v4"
)

// ErrorHandler renders errors that reach echo unhandled, such as unknown
// routes, bad methods and panics recovered upstream, in the error envelope.
func ErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	status := http.StatusInternalServerError
	message := http.StatusText(status)

	var he *echo.HTTPError
	if errors.As(err, &he) {
		status = he.Code
		if m, ok := he.Message.(string); ok {
			message = m
		} else {
			message = http.StatusText(status)
		}
	}

	if status >= http.StatusInternalServerError {
		logger.Error("Unhandled request error",
			"trace_id", recommend.TraceIDFromContext(c.Request().Context()),
			"path", c.Path(),
			"error", err,
		)
	}

	code := strings.ToUpper(strings.ReplaceAll(http.StatusText(status), " ", "_"))
	if code == "" {
		code = "ERROR"
	}

	var writeErr error
	if c.Request().Method == http.MethodHead {
		writeErr = c.NoContent(status)
	} else {
		writeErr = c.JSON(status, jsonres.Error(code, message, nil))
	}
	if writeErr != nil {
		logger.Error("Failed to write error response", "error", writeErr)
	}
}
