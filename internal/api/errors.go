package api

import (
	"errors"
	"log/slog"

	"github.com/gofiber/fiber/v2"
)

func statusFromError(err error) int {
	var e *fiber.Error
	if errors.As(err, &e) {
		return e.Code
	}
	return fiber.StatusInternalServerError
}

// ErrorHandler is the terminal handler for anything the routes did not
// answer themselves.
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal server error"

	var e *fiber.Error
	if errors.As(err, &e) {
		code = e.Code
		message = e.Message
	}

	slog.ErrorContext(c.UserContext(), "Unhandled error",
		slog.String("method", c.Method()),
		slog.String("path", c.Path()),
		slog.Int("status", code),
		slog.String("error", err.Error()),
	)

	return c.Status(code).JSON(fiber.Map{"error": message})
}

func NotFound(c *fiber.Ctx) error {
	return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Not found"})
}
