package handlers

import (
	"context"
	"log/slog"
	"time"

	"github.com/ahmetcoskunkizilkaya/plate-registry/internal/auth"
	"github.com/ahmetcoskunkizilkaya/plate-registry/internal/dto"
	"github.com/ahmetcoskunkizilkaya/plate-registry/internal/middleware"
	"github.com/gofiber/fiber/v2"
)

const (
	stateCookie     = "oauth_state"
	stateCookiePath = "/auth"
)

type IdentityProvider interface {
	AuthCodeURL(state string) string
	Exchange(ctx context.Context, code string) (*auth.Identity, error)
}

type StateSigner interface {
	Issue() (state, nonce string, err error)
	Verify(state, nonce string) error
}

type SessionManager interface {
	Login(c *fiber.Ctx, id *auth.Identity) error
	Logout(c *fiber.Ctx) error
}

type AuthConfig struct {
	SuccessPath  string
	FailurePath  string
	StateTTL     time.Duration
	SecureCookie bool
}

type AuthHandler struct {
	provider IdentityProvider
	states   StateSigner
	users    UserStore
	sessions SessionManager
	policy   *auth.Policy
	cfg      AuthConfig
}

func NewAuthHandler(
	provider IdentityProvider,
	states StateSigner,
	users UserStore,
	sessions SessionManager,
	policy *auth.Policy,
	cfg AuthConfig,
) *AuthHandler {
	return &AuthHandler{
		provider: provider,
		states:   states,
		users:    users,
		sessions: sessions,
		policy:   policy,
		cfg:      cfg,
	}
}

// BeginLogin redirects the browser to Discord's consent screen.
func (h *AuthHandler) BeginLogin(c *fiber.Ctx) error {
	state, nonce, err := h.states.Issue()
	if err != nil {
		slog.Error("failed to issue oauth state", "error", err.Error())
		return c.Redirect(h.cfg.FailurePath, fiber.StatusFound)
	}

	c.Cookie(&fiber.Cookie{
		Name:     stateCookie,
		Value:    nonce,
		Path:     stateCookiePath,
		Expires:  time.Now().Add(h.cfg.StateTTL),
		Secure:   h.cfg.SecureCookie,
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
	return c.Redirect(h.provider.AuthCodeURL(state), fiber.StatusFound)
}

// Callback completes the authorization-code flow. Every failure ends on the
// failure route; the caller never sees why.
func (h *AuthHandler) Callback(c *fiber.Ctx) error {
	nonce := c.Cookies(stateCookie)
	c.Cookie(&fiber.Cookie{
		Name:     stateCookie,
		Path:     stateCookiePath,
		Expires:  time.Now().Add(-time.Hour),
		Secure:   h.cfg.SecureCookie,
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})

	if reason := c.Query("error"); reason != "" {
		slog.Info("discord login declined", "reason", reason)
		return h.loginFailed(c)
	}

	code := c.Query("code")
	if code == "" {
		slog.Warn("discord callback without code", "request_id", middleware.RequestID(c))
		return h.loginFailed(c)
	}

	if err := h.states.Verify(c.Query("state"), nonce); err != nil {
		slog.Warn("discord callback with bad state", "request_id", middleware.RequestID(c), "error", err.Error())
		return h.loginFailed(c)
	}

	id, err := h.provider.Exchange(c.UserContext(), code)
	if err != nil {
		slog.Error("discord login failed", "request_id", middleware.RequestID(c), "error", err.Error())
		return h.loginFailed(c)
	}

	// A failed upsert only costs the user directory entry, not the login.
	if err := h.users.Upsert(c.UserContext(), id); err != nil {
		slog.Error("failed to upsert user", "discord_id", id.ID, "request_id", middleware.RequestID(c), "error", err.Error())
	}

	if err := h.sessions.Login(c, id); err != nil {
		slog.Error("failed to establish session", "discord_id", id.ID, "request_id", middleware.RequestID(c), "error", err.Error())
		return h.loginFailed(c)
	}

	slog.Info("user logged in", "discord_id", id.ID, "moderator", h.policy.IsModerator(id.ID))
	return c.Redirect(h.cfg.SuccessPath, fiber.StatusFound)
}

func (h *AuthHandler) loginFailed(c *fiber.Ctx) error {
	return c.Redirect(h.cfg.FailurePath, fiber.StatusFound)
}

// Logout ends the session. It always lands on the home page.
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	if err := h.sessions.Logout(c); err != nil {
		slog.Error("failed to destroy session", "request_id", middleware.RequestID(c), "error", err.Error())
	}
	return c.Redirect("/", fiber.StatusFound)
}

// Me reports who the caller is and whether they moderate.
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	id := auth.IdentityFrom(c.UserContext())
	if id == nil {
		return c.JSON(dto.AnonymousMe())
	}
	return c.JSON(dto.LoggedMe(id, h.policy.IsModerator(id.ID)))
}
