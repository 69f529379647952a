// Package middleware provides the echo middleware chain: JWT authentication,
// request-scoped logging, and Prometheus metrics.
package middleware

import (
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"github.com/hatbazar/hatbazar/internal/domain"
)

// Claims is the JWT payload issued at login. Only verified claims ever reach
// the request context.
type Claims struct {
	jwt.RegisteredClaims
	Email string `json:"email"`
	Role  string `json:"role"`
}

// WithUser extracts the caller from a Bearer token and attaches it to the
// request context. Requests without an Authorization header pass through
// anonymously; a present but invalid token is rejected rather than silently
// downgraded to anonymous.
func WithUser(secret []byte) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get(echo.HeaderAuthorization)
			if header == "" {
				return next(c)
			}

			raw, ok := strings.CutPrefix(header, "Bearer ")
			if !ok {
				return domain.Unauthorized("middleware.auth", "authorization header must use the Bearer scheme")
			}

			claims := &Claims{}
			token, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
				if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, jwt.ErrSignatureInvalid
				}
				return secret, nil
			})
			if err != nil || !token.Valid {
				return domain.Unauthorized("middleware.auth", "invalid or expired token")
			}

			user := &domain.User{
				ID:    claims.Subject,
				Email: claims.Email,
				Role:  domain.Role(claims.Role),
			}

			ctx := domain.NewContextWithUser(c.Request().Context(), user)
			c.SetRequest(c.Request().WithContext(ctx))
			return next(c)
		}
	}
}

// RequireAuth rejects anonymous requests.
func RequireAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if domain.UserFromContext(c.Request().Context()) == nil {
			return domain.Unauthorized("middleware.auth", "authentication required")
		}
		return next(c)
	}
}

// RequireRole rejects callers that hold none of the given roles. Admins pass
// every role gate.
func RequireRole(roles ...domain.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			user := domain.UserFromContext(c.Request().Context())
			if user == nil {
				return domain.Unauthorized("middleware.auth", "authentication required")
			}
			if user.IsAdmin() {
				return next(c)
			}
			for _, role := range roles {
				if user.Role == role {
					return next(c)
				}
			}
			return domain.Forbidden("middleware.auth", "insufficient role")
		}
	}
}
