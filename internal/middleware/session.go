package middleware

import (
	"github.com/gofiber/fiber/v2"
	"github.com/mansoorceksport/tenantpanel/internal/domain"
)

// Context keys for storing request state
const (
	AuthDataKey  = "authData"
	RequestIDKey = "requestID"
)

// SessionDecoder is the part of the session service the middleware needs
type SessionDecoder interface {
	Read(value string) domain.AuthCookieData
}

// SessionReader decodes the auth cookie once per request and stores the record in locals.
// An absent or unreadable cookie yields an empty record; the request always proceeds.
func SessionReader(sessions SessionDecoder, cookieName string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Locals(AuthDataKey, sessions.Read(c.Cookies(cookieName)))
		return c.Next()
	}
}

// GetAuthData extracts the session record from Fiber context.
// Returns the zero record when SessionReader did not run.
func GetAuthData(c *fiber.Ctx) domain.AuthCookieData {
	data, ok := c.Locals(AuthDataKey).(domain.AuthCookieData)
	if !ok {
		return domain.AuthCookieData{}
	}
	return data
}
