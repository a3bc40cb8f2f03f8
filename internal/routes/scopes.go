package routes

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/specialgraphics/portal/internal/bridge"
	"github.com/specialgraphics/portal/internal/identity"
	"github.com/specialgraphics/portal/internal/middleware"
	"github.com/specialgraphics/portal/internal/session"
)

// RegisterScopeRoutes wires the three role-gated areas behind one
// parameterized guard. The dashboards themselves are rendered elsewhere;
// these endpoints expose the admitted session projection.
func RegisterScopeRoutes(app *fiber.App, m *session.Manager, codec *session.CookieCodec) {
	scopes := []middleware.GuardConfig{
		{
			Scope:     session.ScopeAdmin,
			Allow:     identity.Role.Staff,
			SignInURL: "/login",
			HomeURL:   "/",
		},
		{
			Scope:     session.ScopeDesigner,
			Allow:     func(r identity.Role) bool { return r == identity.RoleDesigner },
			SignInURL: "/login",
			HomeURL:   "/",
		},
		{
			Scope:     session.ScopeClient,
			Allow:     func(r identity.Role) bool { return r == identity.RoleClient },
			SignInURL: "/login",
			HomeURL:   "/",
		},
	}

	for _, cfg := range scopes {
		group := app.Group("/"+string(cfg.Scope), middleware.Guard(m, codec, cfg))
		group.Get("/", scopeHome(cfg.Scope))
	}
}

func scopeHome(scope session.Scope) fiber.Handler {
	return func(c *fiber.Ctx) error {
		store := session.FromContext(c)
		if store == nil {
			return fiber.NewError(http.StatusInternalServerError, "session missing after guard")
		}
		payload := bridge.Session{Token: store.Token()}
		if user := store.User(); user != nil {
			payload.User = *user
		}
		return c.Status(http.StatusOK).JSON(fiber.Map{
			"success": true,
			"data":    fiber.Map{"scope": scope, "session": payload},
		})
	}
}
