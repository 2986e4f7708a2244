// Package errxfiber adapts errx errors to Fiber's global error handler.
package errxfiber

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jelajahid/jelajah/pkg/errx"
	"github.com/jelajahid/jelajah/pkg/logx"
)

// Options tunes the handler.
type Options struct {
	// Debug includes the underlying cause in responses.
	Debug bool
}

// ErrorHandler converts errors bubbling out of handlers into JSON responses.
// Typed errx errors carry their own status; anything else is a 500.
func ErrorHandler(opts Options) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		logx.WithFields(logx.Fields{
			"path":       c.Path(),
			"method":     c.Method(),
			"ip":         c.IP(),
			"request_id": c.Get("X-Request-ID"),
		}).Errorf("Request error: %v", err)

		if e, ok := err.(*fiber.Error); ok {
			return c.Status(e.Code).JSON(fiber.Map{
				"error":      e.Message,
				"code":       "FIBER_ERROR",
				"status":     e.Code,
				"request_id": c.Get("X-Request-ID"),
			})
		}

		var e *errx.Error
		if errx.As(err, &e) {
			response := fiber.Map{
				"error":      e.Message,
				"code":       e.Code,
				"type":       string(e.Type),
				"status":     e.HTTPStatus,
				"request_id": c.Get("X-Request-ID"),
			}
			if len(e.Details) > 0 {
				response["details"] = e.Details
			}
			if opts.Debug && e.Err != nil {
				response["underlying_error"] = e.Err.Error()
			}
			return c.Status(e.HTTPStatus).JSON(response)
		}

		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error":      "Internal Server Error",
			"code":       "INTERNAL_ERROR",
			"type":       "INTERNAL",
			"request_id": c.Get("X-Request-ID"),
		})
	}
}
