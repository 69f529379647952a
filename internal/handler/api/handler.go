// Package api implements the JSON HTTP handlers. Every listing endpoint
// speaks the same envelope and every error passes through one translator, so
// the four catalog views cannot drift apart contract-wise.
package api

import (
	"errors"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/hatbazar/hatbazar/internal/domain"
	"github.com/hatbazar/hatbazar/internal/service"
)

// Handler bundles the services the HTTP layer exposes. Products and
// Electronics are the same service type over different stores.
type Handler struct {
	Products    *service.ProductService
	Electronics *service.ProductService
	Orders      *service.OrderService
}

// NewHandler creates the API handler set.
func NewHandler(products, electronics *service.ProductService, orders *service.OrderService) *Handler {
	return &Handler{
		Products:    products,
		Electronics: electronics,
		Orders:      orders,
	}
}

// Validator adapts go-playground/validator to echo's Validator interface,
// reporting the first failing field as a domain validation error.
type Validator struct {
	validate *validator.Validate
}

// NewValidator creates the echo request validator. Field names in error
// responses use the json tag, matching what the client actually sent.
func NewValidator() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(jsonTagName)
	return &Validator{validate: v}
}

func jsonTagName(fld reflect.StructField) string {
	tag := fld.Tag.Get("json")
	if tag == "" || tag == "-" {
		return fld.Name
	}
	if idx := strings.IndexByte(tag, ','); idx >= 0 {
		tag = tag[:idx]
	}
	return tag
}

// Validate implements echo.Validator.
func (v *Validator) Validate(i interface{}) error {
	err := v.validate.Struct(i)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		return domain.InvalidField("api.validate", fe.Field(), validationMessage(fe))
	}
	return domain.Invalid("api.validate", "invalid request payload")
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "gt":
		return "must be greater than " + fe.Param()
	case "gte":
		return "must be at least " + fe.Param()
	case "min":
		return "must contain at least " + fe.Param()
	case "oneof":
		return "must be one of: " + fe.Param()
	default:
		return "is invalid"
	}
}

// errorBody is the wire shape of every error response.
type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
}

// ErrorHandler translates errors into the unified error envelope. Domain
// codes map onto HTTP statuses; internal details are logged, never sent.
func ErrorHandler(logger zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		var he *echo.HTTPError
		if errors.As(err, &he) {
			msg, _ := he.Message.(string)
			if msg == "" {
				msg = http.StatusText(he.Code)
			}
			writeError(c, he.Code, errorBody{Code: codeForStatus(he.Code), Message: msg})
			return
		}

		code := domain.ErrorCode(err)
		status := statusForCode(code)
		if status >= 500 {
			logger.Error().Err(err).
				Str("op", domain.ErrorOp(err)).
				Str("path", c.Request().URL.Path).
				Msg("request failed")
		}

		writeError(c, status, errorBody{
			Code:    code,
			Message: domain.ErrorMessage(err),
			Field:   domain.ErrorField(err),
		})
	}
}

func writeError(c echo.Context, status int, body errorBody) {
	if c.Request().Method == http.MethodHead {
		_ = c.NoContent(status)
		return
	}
	_ = c.JSON(status, map[string]errorBody{"error": body})
}

func statusForCode(code string) int {
	switch code {
	case domain.EINVALID:
		return http.StatusBadRequest
	case domain.ENOTFOUND:
		return http.StatusNotFound
	case domain.EUNAUTHORIZED:
		return http.StatusUnauthorized
	case domain.EFORBIDDEN:
		return http.StatusForbidden
	case domain.ECONFLICT:
		return http.StatusConflict
	case domain.ENOTIMPL:
		return http.StatusNotImplemented
	default:
		return http.StatusInternalServerError
	}
}

func codeForStatus(status int) string {
	switch status {
	case http.StatusBadRequest:
		return domain.EINVALID
	case http.StatusUnauthorized:
		return domain.EUNAUTHORIZED
	case http.StatusForbidden:
		return domain.EFORBIDDEN
	case http.StatusNotFound:
		return domain.ENOTFOUND
	case http.StatusConflict:
		return domain.ECONFLICT
	default:
		return domain.EINTERNAL
	}
}

// Health reports liveness.
func (h *Handler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}
