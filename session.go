package rudimedia

import (
	"net/http"

	"github.com/gorilla/sessions"
	"github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"
)

const (
	sessionName = "rudimedia_session"

	// tokenSessionKey is the fixed key the bearer token is persisted under.
	tokenSessionKey = "auth_token"
)

// Session is the resolved authentication state for one request. User is set
// only when the token was validated against the identity-check endpoint.
type Session struct {
	Token string
	User  *User
}

// SignedIn reports whether the session carries a validated identity.
func (s Session) SignedIn() bool {
	return s.User != nil
}

// SessionStore owns the session lifecycle: it is the only writer of the
// persisted token. It is injected into the guard and the admin handlers
// rather than living as package state.
type SessionStore struct {
	client *Client
}

// NewSessionStore creates a SessionStore backed by the given API client.
func NewSessionStore(client *Client) *SessionStore {
	return &SessionStore{client: client}
}

// Initialize resolves the persisted token into a Session. An absent token
// yields an anonymous session. A present token is validated against the
// backend; on any failure — rejected token or unreachable backend — the
// persisted token is cleared and the session is anonymous. It never renders
// anything itself, so no caller can act on an unresolved state.
func (s *SessionStore) Initialize(c echo.Context) Session {
	token := s.persistedToken(c)
	if token == "" {
		return Session{}
	}
	user, err := s.client.Me(c.Request().Context(), token)
	if err != nil {
		_ = s.clearToken(c)
		return Session{}
	}
	return Session{Token: token, User: &user}
}

// Login exchanges credentials for a token and persists it. On failure the
// existing session state is left untouched; the error distinguishes rejected
// credentials from transport problems.
func (s *SessionStore) Login(c echo.Context, creds Credentials) (Session, error) {
	ctx := c.Request().Context()
	token, err := s.client.Login(ctx, creds)
	if err != nil {
		return Session{}, err
	}
	user, err := s.client.Me(ctx, token)
	if err != nil {
		return Session{}, err
	}
	if err := s.saveToken(c, token); err != nil {
		return Session{}, err
	}
	return Session{Token: token, User: &user}, nil
}

// Logout clears the persisted token unconditionally.
func (s *SessionStore) Logout(c echo.Context) {
	_ = s.clearToken(c)
}

func (s *SessionStore) persistedToken(c echo.Context) string {
	sess, err := session.Get(sessionName, c)
	if err != nil {
		return ""
	}
	token, _ := sess.Values[tokenSessionKey].(string)
	return token
}

func (s *SessionStore) saveToken(c echo.Context, token string) error {
	sess, err := session.Get(sessionName, c)
	if err != nil {
		return err
	}
	sess.Values[tokenSessionKey] = token
	return sess.Save(c.Request(), c.Response())
}

func (s *SessionStore) clearToken(c echo.Context) error {
	sess, err := session.Get(sessionName, c)
	if err != nil {
		return err
	}
	delete(sess.Values, tokenSessionKey)
	sess.Options.MaxAge = -1
	return sess.Save(c.Request(), c.Response())
}

func newCookieStore(secret string, secure bool) *sessions.CookieStore {
	store := sessions.NewCookieStore([]byte(secret))
	store.Options = &sessions.Options{
		Path:     "/",
		HttpOnly: true,
		MaxAge:   60 * 60 * 12,
		SameSite: http.SameSiteLaxMode,
		Secure:   secure,
	}
	return store
}
