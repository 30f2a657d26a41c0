package serverutils

import (
	"errors"

	"github.com/gofiber/fiber/v2"
)

// ErrorHandlerMiddleware converts errors bubbled up from controllers into
// the standard WebResponse envelope. Controllers that already wrote a
// response return nil and pass through untouched.
func ErrorHandlerMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		err := c.Next()
		if err == nil {
			return nil
		}

		var vErr *ValidationError
		if errors.As(err, &vErr) {
			return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse(fiber.StatusBadRequest, vErr.Error()))
		}

		var fErr *fiber.Error
		if errors.As(err, &fErr) {
			return c.Status(fErr.Code).JSON(ErrorResponse(fErr.Code, fErr.Message))
		}

		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse(fiber.StatusInternalServerError, err.Error()))
	}
}
