package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const (
	contextKey = "session"
	managerKey = "session.manager"
)

type claims struct {
	LoggedIn bool    `json:"logged_in,omitempty"`
	Username string  `json:"username,omitempty"`
	Flashes  []Flash `json:"flashes,omitempty"`
	jwt.RegisteredClaims
}

// Manager encodes sessions as HS256-signed JWT cookies.
type Manager struct {
	secret     []byte
	ttl        time.Duration
	cookieName string
	secure     bool
	revoker    Revoker
}

// Option configures a Manager.
type Option func(*Manager)

// WithCookieName overrides the cookie name ("session").
func WithCookieName(name string) Option {
	return func(m *Manager) { m.cookieName = name }
}

// WithSecureCookie marks the cookie Secure.
func WithSecureCookie(secure bool) Option {
	return func(m *Manager) { m.secure = secure }
}

// WithRevoker plugs in a revocation list consulted on every request.
func WithRevoker(r Revoker) Option {
	return func(m *Manager) { m.revoker = r }
}

// NewManager creates a Manager signing with secret; logged-in sessions
// expire ttl after login.
func NewManager(secret []byte, ttl time.Duration, opts ...Option) *Manager {
	m := &Manager{
		secret:     secret,
		ttl:        ttl,
		cookieName: "session",
		revoker:    NopRevoker{},
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// TTL is the lifetime of a logged-in session.
func (m *Manager) TTL() time.Duration {
	return m.ttl
}

// Load decodes the session cookie of r. A missing, tampered, expired or
// revoked cookie yields an empty session.
func (m *Manager) Load(ctx context.Context, r *http.Request) *Session {
	cookie, err := r.Cookie(m.cookieName)
	if err != nil || cookie.Value == "" {
		return &Session{}
	}

	c, err := m.decode(cookie.Value)
	if err != nil {
		slog.DebugContext(ctx, "discarding session cookie", slog.String("error", err.Error()))
		// Overwrite the bad cookie on the next save.
		return &Session{dirty: true}
	}

	if c.ID != "" {
		revoked, err := m.revoker.IsRevoked(ctx, c.ID)
		if err != nil {
			slog.WarnContext(ctx, "session revocation check failed", slog.String("error", err.Error()))
		} else if revoked {
			return &Session{dirty: true}
		}
	}

	s := &Session{
		ID:       c.ID,
		LoggedIn: c.LoggedIn,
		Username: c.Username,
		flashes:  c.Flashes,
	}
	if c.ExpiresAt != nil {
		s.ExpiresAt = c.ExpiresAt.Time
	}
	return s
}

// Save writes s back to the client if it changed during the request.
func (m *Manager) Save(w http.ResponseWriter, s *Session) error {
	if !s.dirty {
		return nil
	}

	if s.Empty() {
		http.SetCookie(w, m.cookie("", -1))
		s.dirty = false
		return nil
	}

	expiresAt := s.ExpiresAt
	if !s.LoggedIn || expiresAt.IsZero() {
		expiresAt = time.Now().Add(m.ttl)
	}

	token, err := m.encode(s, expiresAt)
	if err != nil {
		return err
	}

	http.SetCookie(w, m.cookie(token, int(time.Until(expiresAt).Seconds())))
	s.dirty = false
	return nil
}

// Destroy revokes the session id for the rest of its lifetime and clears s.
func (m *Manager) Destroy(ctx context.Context, s *Session) error {
	var err error
	if s.ID != "" {
		err = m.revoker.Revoke(ctx, s.ID, time.Until(s.ExpiresAt))
	}
	s.Clear()
	return err
}

// Middleware loads the session of every request into the gin context.
func (m *Manager) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(managerKey, m)
		c.Set(contextKey, m.Load(c.Request.Context(), c.Request))
		c.Next()
	}
}

// Commit saves the request's session. It must run before the response body
// is written; without the middleware it does nothing.
func Commit(c *gin.Context) error {
	v, ok := c.Get(managerKey)
	if !ok {
		return nil
	}
	m, ok := v.(*Manager)
	if !ok {
		return nil
	}
	return m.Save(c.Writer, FromContext(c))
}

// FromContext returns the request's session. Outside the middleware it
// returns a fresh empty session so callers never see nil.
func FromContext(c *gin.Context) *Session {
	if v, ok := c.Get(contextKey); ok {
		if s, ok := v.(*Session); ok {
			return s
		}
	}
	s := &Session{}
	c.Set(contextKey, s)
	return s
}

func (m *Manager) cookie(value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     m.cookieName,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	}
}

func (m *Manager) encode(s *Session, expiresAt time.Time) (string, error) {
	c := claims{
		LoggedIn: s.LoggedIn,
		Username: s.Username,
		Flashes:  s.flashes,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        s.ID,
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign session: %w", err)
	}
	return token, nil
}

func (m *Manager) decode(raw string) (*claims, error) {
	var c claims
	token, err := jwt.ParseWithClaims(raw, &c, func(*jwt.Token) (any, error) {
		return m.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, errors.New("invalid session token")
	}
	return &c, nil
}
