package handler

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// SessionCookie is the cookie carrying the client's cart session ID.
const SessionCookie = "dulcefe_session"

// sessionKey is the locals key the middleware stores the session ID under.
const sessionKey = "session_id"

// sessionMaxAge keeps the cart addressable across visits, the way the
// browser's local storage did for the original storefront.
const sessionMaxAge = 365 * 24 * time.Hour

// NewSession returns a middleware that issues a session cookie to first-time
// visitors and exposes the session ID to downstream handlers. The cart
// aggregate is keyed by this ID for the life of the client.
func NewSession() fiber.Handler {
	return func(c *fiber.Ctx) error {
		sid := c.Cookies(SessionCookie)
		if sid == "" {
			sid = uuid.NewString()
			c.Cookie(&fiber.Cookie{
				Name:     SessionCookie,
				Value:    sid,
				Path:     "/",
				MaxAge:   int(sessionMaxAge.Seconds()),
				HTTPOnly: true,
				SameSite: fiber.CookieSameSiteLaxMode,
			})
		}
		c.Locals(sessionKey, sid)
		return c.Next()
	}
}

// SessionID returns the session ID set by the session middleware.
func SessionID(c *fiber.Ctx) string {
	sid, _ := c.Locals(sessionKey).(string)
	return sid
}
