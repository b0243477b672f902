package handlers

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/chngmn/Quizly-server/internal/repository"
	"github.com/chngmn/Quizly-server/internal/service"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
	"github.com/rs/zerolog/log"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// badRequest is a malformed or incomplete request body.
type badRequest struct {
	msg string
}

func (e *badRequest) Error() string { return e.msg }

// parseBody decodes the request body into dst and runs its validate tags.
func parseBody(c fiber.Ctx, dst any) error {
	if err := c.Bind().WithoutAutoHandling().Body(dst); err != nil {
		return &badRequest{msg: "Invalid request body"}
	}
	return validateStruct(dst)
}

func validateStruct(dst any) error {
	err := validate.Struct(dst)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		fe := fieldErrs[0]
		switch fe.Tag() {
		case "required":
			return &badRequest{msg: fmt.Sprintf("%s is required", fe.Field())}
		case "min", "max":
			return &badRequest{msg: fmt.Sprintf("%s must have %s length %s", fe.Field(), fe.Tag(), fe.Param())}
		default:
			return &badRequest{msg: fmt.Sprintf("%s is invalid", fe.Field())}
		}
	}
	return &badRequest{msg: "Invalid request body"}
}

// respondError writes err as {"error": msg} with the status of its kind.
// Unclassified errors are logged and reported as 500.
func respondError(c fiber.Ctx, err error) error {
	var reqErr *badRequest
	if errors.As(err, &reqErr) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": reqErr.msg})
	}

	var svcErr *service.Error
	if errors.As(err, &svcErr) {
		return c.Status(statusFor(svcErr.Kind)).JSON(fiber.Map{"error": svcErr.Message})
	}

	if errors.Is(err, repository.ErrConflict) {
		log.Warn().Err(err).Str("path", c.Path()).Msg("write conflict")
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "Concurrent update, please retry"})
	}

	log.Error().Err(err).Str("method", c.Method()).Str("path", c.Path()).Msg("request failed")
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Internal server error"})
}

func statusFor(kind error) int {
	switch {
	case errors.Is(kind, service.ErrValidation):
		return fiber.StatusBadRequest
	case errors.Is(kind, service.ErrUnauthenticated):
		return fiber.StatusUnauthorized
	case errors.Is(kind, service.ErrForbidden):
		return fiber.StatusForbidden
	case errors.Is(kind, service.ErrNotFound):
		return fiber.StatusNotFound
	}
	return fiber.StatusInternalServerError
}

// ErrorHandler renders errors that escape the handlers, such as unknown
// routes or oversized bodies, in the same {"error": msg} shape.
func ErrorHandler(c fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return c.Status(fe.Code).JSON(fiber.Map{"error": fe.Message})
	}
	return respondError(c, err)
}
