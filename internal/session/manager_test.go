// internal/session/manager_test.go
package session

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bytemart/bytemart-backend/internal/config"
)

func testConfig(t *testing.T, backend string) *config.Config {
	t.Helper()
	return &config.Config{
		Environment: "test",
		Data:        config.DataConfig{Dir: t.TempDir()},
		Session: config.SessionConfig{
			Secret:     "test-secret",
			Backend:    backend,
			CookieName: "bytemart_session",
			MaxAge:     3600,
		},
	}
}

// carry replays the cookies a previous response set.
func carry(w *httptest.ResponseRecorder, r *http.Request) {
	for _, c := range w.Result().Cookies() {
		r.AddCookie(c)
	}
}

func TestEstablishAndReadBack(t *testing.T) {
	for _, backend := range []string{"cookie", "filesystem"} {
		t.Run(backend, func(t *testing.T) {
			m, err := NewManager(testConfig(t, backend))
			require.NoError(t, err)

			w := httptest.NewRecorder()
			req := httptest.NewRequest("POST", "/login", nil)
			require.NoError(t, m.Establish(w, req, "user-1"))

			next := httptest.NewRequest("GET", "/me", nil)
			carry(w, next)
			id, ok := m.UserID(next)
			assert.True(t, ok)
			assert.Equal(t, "user-1", id)
		})
	}
}

func TestNoSessionMeansNoUser(t *testing.T) {
	m, err := NewManager(testConfig(t, "cookie"))
	require.NoError(t, err)

	_, ok := m.UserID(httptest.NewRequest("GET", "/me", nil))
	assert.False(t, ok)
}

func TestDestroyExpiresCookie(t *testing.T) {
	m, err := NewManager(testConfig(t, "cookie"))
	require.NoError(t, err)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/login", nil)
	require.NoError(t, m.Establish(w, req, "user-1"))

	logout := httptest.NewRequest("POST", "/logout", nil)
	carry(w, logout)
	lw := httptest.NewRecorder()
	require.NoError(t, m.Destroy(lw, logout))

	cookies := lw.Result().Cookies()
	require.NotEmpty(t, cookies)
	assert.Negative(t, cookies[0].MaxAge)

	after := httptest.NewRequest("GET", "/me", nil)
	carry(lw, after)
	_, ok := m.UserID(after)
	assert.False(t, ok)
}

func TestUndecodableCookieIsIgnored(t *testing.T) {
	m, err := NewManager(testConfig(t, "cookie"))
	require.NoError(t, err)

	req := httptest.NewRequest("GET", "/me", nil)
	req.AddCookie(&http.Cookie{Name: "bytemart_session", Value: "garbage"})
	_, ok := m.UserID(req)
	assert.False(t, ok)
}
