package handlers

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"vyns/internal/common"
	"vyns/internal/logging"
	"vyns/internal/middleware"
	"vyns/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

var (
	errInvalidBody      = common.NewError(common.KindValidation, "Invalid request body")
	errNotAuthenticated = common.NewError(common.KindAuthentication, "Not authenticated")
)

// newValidator reports fields by their JSON names.
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})
	return v
}

// parseBody decodes and validates the request body into req.
func parseBody(c *fiber.Ctx, validate *validator.Validate, req interface{}) error {
	if err := c.BodyParser(req); err != nil {
		return fmt.Errorf("%w: %v", errInvalidBody, err)
	}
	return validateStruct(validate, req)
}

func validateStruct(validate *validator.Validate, req interface{}) error {
	err := validate.Struct(req)
	if err == nil {
		return nil
	}

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) || len(validationErrors) == 0 {
		return fmt.Errorf("%w: %v", errInvalidBody, err)
	}

	e := validationErrors[0]
	var msg string
	switch e.Tag() {
	case "required":
		msg = fmt.Sprintf("%s is required", e.Field())
	case "email":
		msg = "Invalid email address"
	case "oneof":
		msg = fmt.Sprintf("%s must be one of: %s", e.Field(), e.Param())
	default:
		msg = fmt.Sprintf("Field '%s' failed on the '%s' tag", e.Field(), e.Tag())
	}
	return common.NewError(common.KindValidation, msg)
}

func statusFor(kind common.Kind) int {
	switch kind {
	case common.KindValidation:
		return fiber.StatusBadRequest
	case common.KindAuthentication:
		return fiber.StatusUnauthorized
	case common.KindForbidden:
		return fiber.StatusForbidden
	case common.KindNotFound:
		return fiber.StatusNotFound
	case common.KindConflict:
		return fiber.StatusConflict
	default:
		return fiber.StatusInternalServerError
	}
}

// respondError writes {success:false, error} with the status of err's kind.
// Internal errors are logged and answered with fallback only.
func respondError(c *fiber.Ctx, log logging.Logger, err error, fallback string) error {
	kind, msg := common.Describe(err)
	if kind == common.KindInternal {
		log.Error(c.UserContext(), fallback, "method", c.Method(), "path", c.Path(), "error", err)
		msg = fallback
	}
	return c.Status(statusFor(kind)).JSON(fiber.Map{
		"success": false,
		"error":   msg,
	})
}

func setSessionCookie(c *fiber.Ctx, token string, secure bool) {
	c.Cookie(&fiber.Cookie{
		Name:     middleware.SessionCookie,
		Value:    token,
		Path:     "/",
		MaxAge:   int(services.SessionTTL / time.Second),
		HTTPOnly: true,
		Secure:   secure,
		SameSite: fiber.CookieSameSiteStrictMode,
	})
}

// clearSessionCookie expires the session cookie. Tokens copied elsewhere stay
// valid until they expire.
func clearSessionCookie(c *fiber.Ctx, secure bool) {
	c.Cookie(&fiber.Cookie{
		Name:     middleware.SessionCookie,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		HTTPOnly: true,
		Secure:   secure,
		SameSite: fiber.CookieSameSiteStrictMode,
	})
}
