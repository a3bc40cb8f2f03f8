package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/specialgraphics/portal/internal/session"
)

// RegisterAuthRoutes wires the session endpoints.
func RegisterAuthRoutes(r fiber.Router, h *session.Handler, rateLimiter fiber.Handler) {
	group := r.Group("/auth")
	if rateLimiter != nil {
		group.Post("/login", rateLimiter, h.Login)
	} else {
		group.Post("/login", h.Login)
	}
	group.Post("/register", h.Register)
	group.Post("/logout", h.Logout)
	group.Post("/refresh", h.Refresh)
	group.Get("/methods", h.Methods)

	r.Get("/me", h.Me)
}
