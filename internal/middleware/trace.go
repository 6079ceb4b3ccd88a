package middleware

import (
	"caseAssist/business/recommend"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

const HeaderTraceID = "X-Trace-Id"

// TraceID tags each request with a trace id, reusing an incoming X-Trace-Id
// header when present, and echoes it on the response.
func TraceID() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			id := c.Request().Header.Get(HeaderTraceID)
			if id == "" || len(id) > 64 {
				id = uuid.NewString()
			}

			req := c.Request()
			c.SetRequest(req.WithContext(recommend.WithTraceID(req.Context(), id)))
			c.Response().Header().Set(HeaderTraceID, id)
			c.Set("trace_id", id)

			return next(c)
		}
	}
}
