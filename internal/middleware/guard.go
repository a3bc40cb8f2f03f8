package middleware

import (
	"github.com/gofiber/fiber/v2"

	"github.com/specialgraphics/portal/internal/identity"
	"github.com/specialgraphics/portal/internal/session"
)

// GuardConfig parameterizes one role-gated scope. The same guard serves the
// admin, designer and client areas with different predicates and targets.
type GuardConfig struct {
	Scope session.Scope
	// Allow decides whether the signed-in role may enter the scope.
	Allow func(identity.Role) bool
	// SignInURL receives unauthenticated visitors.
	SignInURL string
	// HomeURL receives authenticated visitors holding the wrong role.
	HomeURL string
}

// Guard gates a route group on the visitor's session. Authorization is never
// evaluated while the store is still loading, so a slow bootstrap cannot
// produce a premature denial.
func Guard(m *session.Manager, codec *session.CookieCodec, cfg GuardConfig) fiber.Handler {
	return func(c *fiber.Ctx) error {
		store := session.ForRequest(c, m, codec)
		store.Bootstrap(c.UserContext(), cfg.Scope)

		if store.Loading() {
			// Still checking. Render nothing rather than a denial.
			return c.SendStatus(fiber.StatusServiceUnavailable)
		}

		user := store.User()
		if user == nil {
			return c.Redirect(cfg.SignInURL, fiber.StatusFound)
		}
		if !cfg.Allow(user.Role) {
			return c.Redirect(cfg.HomeURL, fiber.StatusFound)
		}

		c.Locals(session.ContextKey, store)
		return c.Next()
	}
}
