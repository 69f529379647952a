package middleware

import (
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/hatbazar/hatbazar/internal/domain"
)

// RequestID assigns each request an id, honoring one supplied by an upstream
// proxy, and echoes it back in the response header.
func RequestID() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			id := c.Request().Header.Get(echo.HeaderXRequestID)
			if id == "" {
				id = uuid.NewString()
			}
			c.Response().Header().Set(echo.HeaderXRequestID, id)

			ctx := domain.NewContextWithRequestID(c.Request().Context(), id)
			c.SetRequest(c.Request().WithContext(ctx))
			return next(c)
		}
	}
}

// RequestLogger logs one structured line per request. Place after RequestID
// and WithUser so their fields are available.
func RequestLogger(logger zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			err := next(c)
			if err != nil {
				c.Error(err)
			}

			req := c.Request()
			evt := logger.Info()
			if c.Response().Status >= 500 {
				evt = logger.Error()
			}

			evt = evt.
				Str("method", req.Method).
				Str("path", req.URL.Path).
				Int("status", c.Response().Status).
				Dur("duration", time.Since(start)).
				Str("remote_ip", c.RealIP())

			if id := domain.RequestIDFromContext(req.Context()); id != "" {
				evt = evt.Str("request_id", id)
			}
			if user := domain.UserFromContext(req.Context()); user != nil {
				evt = evt.Str("user_id", user.ID)
			}
			if err != nil {
				evt = evt.Str("error", err.Error())
				if op := domain.ErrorOp(err); op != "" {
					evt = evt.Str("op", op)
				}
			}

			evt.Msg("request")
			return err
		}
	}
}
