package session

import (
	"net/http"
	"net/url"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/specialgraphics/portal/internal/bridge"
	"github.com/specialgraphics/portal/internal/identity"
)

const oauthStateCookie = "sg_oauth_state"

// Handler exposes the sign-in surface over HTTP.
type Handler struct {
	manager *Manager
	codec   *CookieCodec
	bridge  *bridge.Bridge
}

// NewHandler wires the session endpoints.
func NewHandler(manager *Manager, codec *CookieCodec, br *bridge.Bridge) *Handler {
	return &Handler{manager: manager, codec: codec, bridge: br}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Scope    string `json:"scope"`
}

// Login signs the visitor in with an email/password pair.
func (h *Handler) Login(c *fiber.Ctx) error {
	var req loginRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}

	store := ForRequest(c, h.manager, h.codec)
	result := store.Login(c.UserContext(), req.Email, req.Password, h.requestScope(c, req.Scope))
	if !result.Success {
		return fiber.NewError(http.StatusUnauthorized, result.Message)
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{
		"success": true,
		"data":    h.project(store),
	})
}

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

// Register creates an account through the backend and signs it in.
func (h *Handler) Register(c *fiber.Ctx) error {
	var req registerRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}

	role := identity.Role(req.Role)
	if !role.Valid() {
		role = identity.RoleBuyer
	}

	store := ForRequest(c, h.manager, h.codec)
	result := store.Register(c.UserContext(), req.Name, req.Email, req.Password, role)
	if !result.Success {
		return fiber.NewError(http.StatusBadRequest, result.Message)
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"success": true,
		"data":    h.project(store),
	})
}

// Logout clears the visitor's session.
func (h *Handler) Logout(c *fiber.Ctx) error {
	store := ForRequest(c, h.manager, h.codec)
	store.Logout(c.UserContext())
	return c.Status(http.StatusOK).JSON(fiber.Map{"success": true})
}

// Me returns the session projection for the current visitor.
func (h *Handler) Me(c *fiber.Ctx) error {
	store := ForRequest(c, h.manager, h.codec)
	store.Bootstrap(c.UserContext(), h.requestScope(c, ""))
	if !store.IsAuthenticated() {
		return fiber.NewError(http.StatusUnauthorized, "not signed in")
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{
		"success": true,
		"data":    h.project(store),
	})
}

// Refresh re-verifies the session against the backend.
func (h *Handler) Refresh(c *fiber.Ctx) error {
	store := ForRequest(c, h.manager, h.codec)
	scope := h.requestScope(c, "")
	store.Bootstrap(c.UserContext(), scope)
	store.RefreshUser(c.UserContext(), scope)
	if !store.IsAuthenticated() {
		return fiber.NewError(http.StatusUnauthorized, "not signed in")
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{
		"success": true,
		"data":    h.project(store),
	})
}

// Methods lists the available sign-in methods.
func (h *Handler) Methods(c *fiber.Ctx) error {
	return c.Status(http.StatusOK).JSON(fiber.Map{
		"success": true,
		"data":    fiber.Map{"methods": h.bridge.Methods()},
	})
}

// OAuthStart redirects the visitor to the third-party provider.
func (h *Handler) OAuthStart(c *fiber.Ctx) error {
	if !h.bridge.ProviderEnabled() {
		return fiber.NewError(http.StatusNotFound, "provider sign-in is not configured")
	}

	state := uuid.NewString()
	c.Cookie(&fiber.Cookie{
		Name:     oauthStateCookie,
		Value:    state,
		Path:     "/",
		MaxAge:   600,
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
	return c.Redirect(h.bridge.AuthCodeURL(state), http.StatusFound)
}

// OAuthCallback completes the provider handshake and signs the visitor in.
func (h *Handler) OAuthCallback(c *fiber.Ctx) error {
	if !h.bridge.ProviderEnabled() {
		return fiber.NewError(http.StatusNotFound, "provider sign-in is not configured")
	}

	state := c.Query("state")
	if state == "" || state != c.Cookies(oauthStateCookie) {
		return fiber.NewError(http.StatusBadRequest, "state mismatch")
	}
	c.Cookie(&fiber.Cookie{Name: oauthStateCookie, Value: "", Path: "/", MaxAge: -1, HTTPOnly: true})

	code := c.Query("code")
	if code == "" {
		return fiber.NewError(http.StatusBadRequest, "missing authorization code")
	}

	claims, err := h.bridge.ProviderSignIn(c.UserContext(), code)
	if err != nil {
		return fiber.NewError(http.StatusUnauthorized, "provider sign-in failed")
	}

	store := ForRequest(c, h.manager, h.codec)
	store.SignInWithClaims(c.UserContext(), claims)
	return c.Redirect("/", http.StatusFound)
}

func (h *Handler) project(store *Store) bridge.Session {
	session := bridge.Session{Token: store.Token()}
	if user := store.User(); user != nil {
		session.User = *user
	}
	return session
}

// requestScope resolves the navigation scope a browser call originates from:
// an explicit scope field wins, then the Referer path, then the request path.
func (h *Handler) requestScope(c *fiber.Ctx, explicit string) Scope {
	if scope := Scope(explicit); explicit != "" && scope.Valid() {
		return scope
	}
	if referer := c.Get(fiber.HeaderReferer); referer != "" {
		if u, err := url.Parse(referer); err == nil {
			return ScopeFromPath(u.Path)
		}
	}
	return ScopeFromPath(c.Path())
}
