package handlers

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/tutorcenter/scheduler/observability"
	"go.uber.org/zap"
)

var validate = validator.New()

// ErrorHandler is the Fiber error handler: it answers every error that a
// handler returns instead of writing a response itself.
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
	}

	msg := err.Error()
	if code >= fiber.StatusInternalServerError {
		zap.S().Errorw("request failed", "error", err, "path", c.Path(), "method", c.Method(),
			"request_id", c.Locals("requestid"))
		observability.CaptureErr(err)
		msg = "Internal Server Error"
	} else {
		zap.S().Debugw("request rejected", "error", err, "path", c.Path(), "method", c.Method(), "code", code)
	}

	return c.Status(code).JSON(fiber.Map{
		"status":  "error",
		"code":    code,
		"message": msg,
	})
}

func validationError(c *fiber.Ctx, err error) error {
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid input"})
	}
	fields := make(map[string]string, len(ve))
	for _, fe := range ve {
		fields[fe.Field()] = fe.Tag()
	}
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"error":  "Please enter correct details",
		"fields": fields,
	})
}

// bind parses and validates the request body. On failure it has already
// written the 400 response and ok is false.
func bind(c *fiber.Ctx, dst interface{}) (ok bool, err error) {
	if err := c.BodyParser(dst); err != nil {
		return false, c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse request body"})
	}
	if err := validate.Struct(dst); err != nil {
		return false, validationError(c, err)
	}
	return true, nil
}

func message(c *fiber.Ctx, status int, msg string) error {
	return c.Status(status).JSON(fiber.Map{"message": msg})
}

func errorMessage(c *fiber.Ctx, status int, msg string) error {
	return c.Status(status).JSON(fiber.Map{"error": msg})
}
