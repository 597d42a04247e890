package response

import (
	"log/slog"
	"net/http"

	"ctchen222/flaskblog/internal/session"

	"github.com/gin-gonic/gin"
)

// pageData merges the layout fields every template expects into data.
func pageData(c *gin.Context, data gin.H, flashes []session.Flash) gin.H {
	if data == nil {
		data = gin.H{}
	}
	sess := session.FromContext(c)
	data["LoggedIn"] = sess.LoggedIn
	data["Username"] = sess.Username
	data["Flashes"] = flashes
	return data
}

// Render shows the pending flashes, saves the session and renders the named
// template.
func Render(c *gin.Context, code int, name string, data gin.H) {
	flashes := session.FromContext(c).PopFlashes()
	if err := session.Commit(c); err != nil {
		Fatal(c, err)
		return
	}
	c.HTML(code, name, pageData(c, data, flashes))
}

// Redirect saves the session and sends the client to location.
func Redirect(c *gin.Context, location string) {
	if err := session.Commit(c); err != nil {
		Fatal(c, err)
		return
	}
	c.Redirect(http.StatusFound, location)
}

// Fatal ends the request with the 500 page. It is reserved for failures the
// handler cannot recover from, such as a lost database connection.
func Fatal(c *gin.Context, err error) {
	slog.ErrorContext(c.Request.Context(), "request failed",
		slog.String("method", c.Request.Method),
		slog.String("route", c.FullPath()),
		slog.String("error", err.Error()))
	_ = c.Error(err)
	c.HTML(http.StatusInternalServerError, "error.html", pageData(c, gin.H{
		"Status":  http.StatusInternalServerError,
		"Message": "Something went wrong on our side. Please try again later.",
	}, nil))
	c.Abort()
}

// BadRequest ends the request with the 400 page for bodies that cannot be
// parsed at all.
func BadRequest(c *gin.Context, err error) {
	_ = c.Error(err)
	c.HTML(http.StatusBadRequest, "error.html", pageData(c, gin.H{
		"Status":  http.StatusBadRequest,
		"Message": "The submitted form could not be read.",
	}, nil))
	c.Abort()
}

// NotFound renders the 404 page for unknown routes.
func NotFound(c *gin.Context) {
	c.HTML(http.StatusNotFound, "error.html", pageData(c, gin.H{
		"Status":  http.StatusNotFound,
		"Message": "Page not found.",
	}, nil))
}
