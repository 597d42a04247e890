package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"ctchen222/flaskblog/internal/session"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRouter(t *testing.T, m *session.Manager, called *bool) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(m.Middleware())
	r.GET("/login-as/:name", func(c *gin.Context) {
		session.FromContext(c).Login(c.Param("name"), time.Hour)
		require.NoError(t, session.Commit(c))
		c.Status(http.StatusNoContent)
	})
	protected := r.Group("/", RequireLogin())
	protected.GET("/dashboard", func(c *gin.Context) {
		*called = true
		c.String(http.StatusOK, "hello %s", session.FromContext(c).Username)
	})
	return r
}

func TestRequireLogin_RedirectsAnonymous(t *testing.T) {
	m := session.NewManager([]byte("k"), time.Hour)
	called := false
	r := newRouter(t, m, &called)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/dashboard", nil))

	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/login", w.Header().Get("Location"))
	assert.False(t, called, "guarded handler must not run")

	// The warning travels in the session cookie to the next page.
	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(cookies[0])
	flashes := m.Load(req.Context(), req).PopFlashes()
	require.Len(t, flashes, 1)
	assert.Equal(t, session.FlashDanger, flashes[0].Category)
	assert.Equal(t, "You have to be logged in to view this page", flashes[0].Message)
}

func TestRequireLogin_PassesThrough(t *testing.T) {
	m := session.NewManager([]byte("k"), time.Hour)
	called := false
	r := newRouter(t, m, &called)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/login-as/ann1", nil))
	cookie := w.Result().Cookies()[0]

	req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	req.AddCookie(cookie)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.True(t, called)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "hello ann1", w.Body.String())
}
