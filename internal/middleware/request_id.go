package middleware

import (
	"github.com/gofiber/fiber/v2"
	"github.com/oklog/ulid/v2"
)

const requestIDHeader = "X-Request-ID"

// RequestID tags each request with a ULID, reusing an inbound X-Request-ID when present
func RequestID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Get(requestIDHeader)
		if id == "" {
			id = ulid.Make().String()
		}
		c.Locals(RequestIDKey, id)
		c.Set(requestIDHeader, id)
		return c.Next()
	}
}

// GetRequestID returns the request id set by RequestID
func GetRequestID(c *fiber.Ctx) string {
	id, _ := c.Locals(RequestIDKey).(string)
	return id
}
