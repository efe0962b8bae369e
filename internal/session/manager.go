// internal/session/manager.go
package session

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"

	"github.com/gorilla/sessions"

	"github.com/bytemart/bytemart-backend/internal/config"
)

const userIDKey = "user_id"

// Manager wraps a gorilla/sessions backend. The backend is selected once at
// startup: "cookie" keeps the session client-side in a signed cookie,
// "filesystem" persists sessions under the data directory so they survive
// restarts. Either way the cookie expires after the configured max age
// (7 days by default).
type Manager struct {
	store   sessions.Store
	name    string
	options *sessions.Options
}

func NewManager(cfg *config.Config) (*Manager, error) {
	options := &sessions.Options{
		Path:     "/",
		MaxAge:   cfg.Session.MaxAge,
		HttpOnly: true,
		Secure:   cfg.Environment == "production",
		SameSite: http.SameSiteLaxMode,
	}

	var store sessions.Store
	switch cfg.Session.Backend {
	case "cookie":
		cs := sessions.NewCookieStore([]byte(cfg.Session.Secret))
		cs.Options = options
		store = cs
	case "filesystem":
		dir := filepath.Join(cfg.Data.Dir, "sessions")
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return nil, fmt.Errorf("failed to create session directory: %w", err)
		}
		fs := sessions.NewFilesystemStore(dir, []byte(cfg.Session.Secret))
		fs.Options = options
		fs.MaxLength(0) // sessions hold a single id, no need for the 4K cap
		store = fs
	default:
		return nil, fmt.Errorf("unknown session backend %q", cfg.Session.Backend)
	}

	return &Manager{store: store, name: cfg.Session.CookieName, options: options}, nil
}

// UserID returns the authenticated principal's id, if any.
func (m *Manager) UserID(r *http.Request) (string, bool) {
	session, err := m.store.Get(r, m.name)
	if err != nil {
		// Undecodable cookie is treated as no session.
		return "", false
	}
	id, ok := session.Values[userIDKey].(string)
	return id, ok && id != ""
}

// Establish issues a fresh session for the principal, discarding any values
// and session id carried over from before authentication (fixation guard).
func (m *Manager) Establish(w http.ResponseWriter, r *http.Request, userID string) error {
	session, _ := m.store.Get(r, m.name)
	session.ID = ""
	session.Values = map[interface{}]interface{}{userIDKey: userID}
	session.Options = m.options
	return session.Save(r, w)
}

// Destroy invalidates the session and clears the cookie unconditionally.
func (m *Manager) Destroy(w http.ResponseWriter, r *http.Request) error {
	session, _ := m.store.Get(r, m.name)
	session.Values = map[interface{}]interface{}{}
	expired := *m.options
	expired.MaxAge = -1
	session.Options = &expired
	return session.Save(r, w)
}
