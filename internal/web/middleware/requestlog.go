package middleware

import (
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

const requestIDHeader = "X-Request-ID"

// healthPaths are probed constantly by orchestrators. Repeated successful
// probes are suppressed after the first so they do not drown the log;
// failures are always logged at Warn.
var healthPaths = map[string]struct{}{
	"/healthz": {},
	"/readyz":  {},
}

// RequestLog returns Echo middleware that logs requests with structured fields.
// It generates a request ID if none is provided and propagates it through
// the response header and echo context.
func RequestLog(log *slog.Logger) echo.MiddlewareFunc {
	var (
		mu       sync.Mutex
		healthOK = map[string]bool{}
	)

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			reqID := c.Request().Header.Get(requestIDHeader)
			if reqID == "" {
				reqID = uuid.NewString()
			}

			c.Set("request_id", reqID)
			c.Response().Header().Set(requestIDHeader, reqID)

			err := next(c)

			path := c.Request().URL.Path
			status := c.Response().Status
			level := slog.LevelInfo

			if _, health := healthPaths[path]; health {
				ok := status >= 200 && status < http.StatusMultipleChoices
				mu.Lock()
				wasOK := healthOK[path]
				healthOK[path] = ok
				mu.Unlock()

				if ok && wasOK {
					return err
				}
				if !ok {
					level = slog.LevelWarn
				}
			}

			log.Log(c.Request().Context(), level, "request",
				"method", c.Request().Method,
				"path", path,
				"status", status,
				"duration_ms", time.Since(start).Milliseconds(),
				"request_id", reqID,
			)

			return err
		}
	}
}
