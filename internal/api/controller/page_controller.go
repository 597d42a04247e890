package controller

import (
	"net/http"

	"ctchen222/flaskblog/internal/api/response"

	"github.com/gin-gonic/gin"
)

// PageController serves the static pages.
type PageController struct{}

func NewPageController() *PageController {
	return &PageController{}
}

func (pc *PageController) Home(c *gin.Context) {
	response.Render(c, http.StatusOK, "home.html", nil)
}

func (pc *PageController) About(c *gin.Context) {
	response.Render(c, http.StatusOK, "about.html", nil)
}
