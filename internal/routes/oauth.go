package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/specialgraphics/portal/internal/session"
)

// RegisterOAuthRoutes wires the third-party provider handshake pair.
func RegisterOAuthRoutes(app *fiber.App, h *session.Handler) {
	group := app.Group("/auth/oauth")
	group.Get("/start", h.OAuthStart)
	group.Get("/callback", h.OAuthCallback)
}
