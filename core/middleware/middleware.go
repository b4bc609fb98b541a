package middleware

import (
	"time"

	"schedule-assistant/core/constants"
	"schedule-assistant/core/logger"
	"schedule-assistant/core/utils"

	"github.com/labstack/echo/v4"
)

// Middleware bundles the request-scoped middlewares shared by all routers.
type Middleware struct{}

func NewMiddleware() *Middleware {
	return &Middleware{}
}

// RequestID assigns a short id to each request and echoes it back in the
// X-Request-ID header.
func (m *Middleware) RequestID() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			requestID := c.Request().Header.Get(echo.HeaderXRequestID)
			if requestID == "" {
				requestID = utils.GenerateID()
			}
			c.Set(constants.ContextRequestID, requestID)
			c.Response().Header().Set(echo.HeaderXRequestID, requestID)
			return next(c)
		}
	}
}

// RequestLogger logs one line per request with method, path, status and latency.
func (m *Middleware) RequestLogger() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			if err != nil {
				c.Error(err)
			}

			requestID, _ := c.Get(constants.ContextRequestID).(string)
			logger.Info("HTTP:Request",
				"method", c.Request().Method,
				"path", c.Request().URL.Path,
				"status", c.Response().Status,
				"latency_ms", time.Since(start).Milliseconds(),
				"request_id", requestID,
			)
			return nil
		}
	}
}
