package middleware

import (
	"ctchen222/flaskblog/internal/api/response"
	"ctchen222/flaskblog/internal/session"

	"github.com/gin-gonic/gin"
)

// RequireLogin guards routes that need an authenticated session. Anonymous
// callers are sent to /login with a flash and the guarded handler never runs.
func RequireLogin() gin.HandlerFunc {
	return func(c *gin.Context) {
		sess := session.FromContext(c)
		if !sess.LoggedIn {
			sess.AddFlash(session.FlashDanger, "You have to be logged in to view this page")
			response.Redirect(c, "/login")
			c.Abort()
			return
		}
		c.Next()
	}
}
