package routes

import (
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/redis/go-redis/v9"

	"github.com/specialgraphics/portal/internal/backend"
	"github.com/specialgraphics/portal/internal/bridge"
	"github.com/specialgraphics/portal/internal/config"
	"github.com/specialgraphics/portal/internal/identity"
	"github.com/specialgraphics/portal/internal/middleware"
	"github.com/specialgraphics/portal/internal/notification"
	"github.com/specialgraphics/portal/internal/session"
)

// Deps aggregates shared dependencies required to wire routes.
type Deps struct {
	Cfg     config.Config
	Cache   *redis.Client
	Backend backend.Client
	Logger  *slog.Logger
}

// Setup configures middlewares and all application routes.
func Setup(app *fiber.App, d Deps) error {
	if d.Backend == nil {
		return fmt.Errorf("backend client is required")
	}
	// Enforce Redis presence outside of dev, even though main also checks.
	if !isDev(d.Cfg.AppEnv) && d.Cache == nil {
		return fmt.Errorf("redis is required when APP_ENV=%s", d.Cfg.AppEnv)
	}

	// Middlewares
	app.Use(recover.New())
	app.Use(middleware.RequestID())
	app.Use(middleware.Audit(d.Logger))

	// Health
	RegisterHealthRoutes(app, d)

	// Session plumbing
	var keyrings session.KeyringProvider
	if d.Cache != nil {
		keyrings = session.NewRedisKeyrings(d.Cache, d.Cfg.SessionTTL)
	} else {
		keyrings = session.NewMemoryKeyrings()
	}

	accounts := identity.NewAuthenticator()
	notifier := notification.NewLoggerNotifier(d.Logger)
	br := bridge.New(d.Backend, d.Cfg.OAuth, d.Logger)
	manager := session.NewManager(keyrings, accounts, br, d.Backend, notifier, d.Logger)
	codec := session.NewCookieCodec(d.Cfg.SessionSecret, d.Cfg.SessionTTL)
	handler := session.NewHandler(manager, codec, br)

	// API routes
	api := app.Group("/api/v1")
	api.Get("/ping", func(c *fiber.Ctx) error {
		reqID, _ := c.Locals("X-Request-ID").(string)
		return c.Status(http.StatusOK).JSON(fiber.Map{
			"status":     "ok",
			"request_id": reqID,
			"timestamp":  time.Now().UTC().Format(time.RFC3339Nano),
		})
	})

	rateLimiter := middleware.LoginRateLimit(d.Cache, 5)
	RegisterAuthRoutes(api, handler, rateLimiter)

	// Provider handshake and the sign-in page live outside the API prefix;
	// both are redirect targets for browsers.
	RegisterOAuthRoutes(app, handler)
	app.Get("/login", func(c *fiber.Ctx) error {
		return c.Status(http.StatusOK).JSON(fiber.Map{
			"success": true,
			"data":    fiber.Map{"methods": br.Methods()},
		})
	})

	// Role-gated areas
	RegisterScopeRoutes(app, manager, codec)

	return nil
}

func isDev(env string) bool {
	switch strings.ToLower(env) {
	case "dev", "development", "local":
		return true
	default:
		return false
	}
}
