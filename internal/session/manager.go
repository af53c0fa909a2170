package session

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/ahmetcoskunkizilkaya/plate-registry/internal/auth"
	"github.com/gofiber/fiber/v2"
	fibersession "github.com/gofiber/fiber/v2/middleware/session"
	"github.com/google/uuid"
)

const (
	// CookieName carries the opaque session id.
	CookieName = "sid"

	userKey = "user"
)

// NewStore configures Fiber's session middleware on storage. A nil storage
// falls back to Fiber's in-memory store.
func NewStore(storage fiber.Storage, maxAge time.Duration, secure bool) *fibersession.Store {
	return fibersession.New(fibersession.Config{
		Storage:        storage,
		Expiration:     maxAge,
		KeyLookup:      "cookie:" + CookieName,
		CookiePath:     "/",
		CookieSecure:   secure,
		CookieHTTPOnly: true,
		CookieSameSite: fiber.CookieSameSiteLaxMode,
		KeyGenerator:   uuid.NewString,
	})
}

// Manager stores the authenticated Discord profile in the session as JSON.
type Manager struct {
	store *fibersession.Store
}

func NewManager(store *fibersession.Store) *Manager {
	return &Manager{store: store}
}

// Identity returns the profile in the request's session, or nil when there is
// no session or it carries no profile. A profile that fails to decode counts
// as anonymous. It always reads the backing storage.
func (m *Manager) Identity(c *fiber.Ctx) (*auth.Identity, error) {
	if c.Cookies(CookieName) == "" {
		return nil, nil
	}

	sess, err := m.store.Get(c)
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}

	raw, ok := sess.Get(userKey).(string)
	if !ok || raw == "" {
		return nil, nil
	}

	var id auth.Identity
	if err := json.Unmarshal([]byte(raw), &id); err != nil {
		slog.Warn("discarding undecodable session profile", "error", err)
		return nil, nil
	}
	if id.ID == "" {
		return nil, nil
	}
	return &id, nil
}

// Login starts a fresh session for id. The session id is regenerated so a
// pre-login cookie can never be promoted to an authenticated one.
func (m *Manager) Login(c *fiber.Ctx, id *auth.Identity) error {
	payload, err := json.Marshal(id)
	if err != nil {
		return fmt.Errorf("encode session profile: %w", err)
	}

	sess, err := m.store.Get(c)
	if err != nil {
		return fmt.Errorf("load session: %w", err)
	}
	if err := sess.Regenerate(); err != nil {
		return fmt.Errorf("regenerate session: %w", err)
	}

	sess.Set(userKey, string(payload))
	if err := sess.Save(); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

// Logout deletes the session row and expires the cookie.
func (m *Manager) Logout(c *fiber.Ctx) error {
	sess, err := m.store.Get(c)
	if err != nil {
		return fmt.Errorf("load session: %w", err)
	}
	if err := sess.Destroy(); err != nil {
		return fmt.Errorf("destroy session: %w", err)
	}
	return nil
}
