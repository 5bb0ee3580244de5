package middleware

import (
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/labstack/echo/v4"
)

// Recovery returns Echo middleware that turns a handler panic into a 500
// response instead of killing the watch listener. The panic value and stack
// are logged, tagged with the request ID when RequestLog already assigned
// one.
func Recovery(log *slog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) (err error) {
			defer func() {
				r := recover()
				if r == nil {
					return
				}

				attrs := []any{
					"panic", fmt.Sprint(r),
					"method", c.Request().Method,
					"path", c.Request().URL.Path,
					"stack", string(debug.Stack()),
				}
				if reqID, ok := c.Get("request_id").(string); ok && reqID != "" {
					attrs = append(attrs, "request_id", reqID)
				}
				log.Error("handler panicked", attrs...)

				err = c.JSON(http.StatusInternalServerError, map[string]string{
					"error": "internal server error",
				})
			}()
			return next(c)
		}
	}
}
