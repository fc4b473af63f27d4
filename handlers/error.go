package handlers

import (
	"yt-ingest/errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
)

// ErrorHandler is the fiber-level error sink. AppErrors map to their HTTP
// code and machine-readable reason; anything else is a 500.
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal Server Error"
	reason := errors.KindInternal

	if e, ok := err.(*errors.AppError); ok {
		code = e.Code
		message = e.Message
		reason = e.Kind
	}

	log.Error().
		Str("request_id", c.Get("X-Request-ID")).
		Str("path", c.Path()).
		Str("method", c.Method()).
		Int("status", code).
		Str("error_reason", string(reason)).
		Err(err).
		Msg("Request error")

	return c.Status(code).JSON(fiber.Map{
		"status":       "error",
		"error":        message,
		"error_reason": string(reason),
		"request_id":   c.Get("X-Request-ID"),
	})
}
