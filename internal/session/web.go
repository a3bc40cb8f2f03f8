package session

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// ContextKey locates the visitor's store in fiber locals once a guard has
// admitted the request.
const ContextKey = "session_store"

// ForRequest resolves the visitor's session store from the signed cookie,
// minting a new visitor id (and Set-Cookie) when the cookie is absent or
// fails verification.
func ForRequest(c *fiber.Ctx, m *Manager, codec *CookieCodec) *Store {
	if value := c.Cookies(CookieName); value != "" {
		if sid, err := codec.Verify(value); err == nil {
			return m.Store(sid)
		}
	}

	sid := uuid.NewString()
	if value, err := codec.Issue(sid); err == nil {
		c.Cookie(&fiber.Cookie{
			Name:     CookieName,
			Value:    value,
			Path:     "/",
			MaxAge:   int(codec.TTL().Seconds()),
			HTTPOnly: true,
			SameSite: fiber.CookieSameSiteLaxMode,
		})
	}
	return m.Store(sid)
}

// FromContext returns the store a guard stashed in locals, or nil.
func FromContext(c *fiber.Ctx) *Store {
	store, _ := c.Locals(ContextKey).(*Store)
	return store
}
