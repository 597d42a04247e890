package controller

import (
	"errors"
	"net/http"
	"strconv"

	"ctchen222/flaskblog/internal/api/models"
	"ctchen222/flaskblog/internal/api/response"
	"ctchen222/flaskblog/internal/api/service"
	"ctchen222/flaskblog/internal/session"
	"ctchen222/flaskblog/internal/validator"

	"github.com/gin-gonic/gin"
)

const notOwnerMessage = "You can only change your own articles"

// ArticleController handles the public article pages and the dashboard.
type ArticleController struct {
	articleService service.ArticleService
}

// NewArticleController creates a new ArticleController.
func NewArticleController(articleService service.ArticleService) *ArticleController {
	return &ArticleController{articleService: articleService}
}

// articleID parses the :id path segment. Anything that is not a positive
// integer cannot name an article.
func articleID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// Articles lists every article.
func (ac *ArticleController) Articles(c *gin.Context) {
	articles, err := ac.articleService.ListArticles(c.Request.Context())
	if err != nil {
		response.Fatal(c, err)
		return
	}

	if len(articles) == 0 {
		response.Render(c, http.StatusOK, "articles.html", gin.H{"Msg": "No articles found"})
		return
	}
	response.Render(c, http.StatusOK, "articles.html", gin.H{"Articles": articles})
}

// Article shows a single article.
func (ac *ArticleController) Article(c *gin.Context) {
	id, ok := articleID(c)
	if !ok {
		response.Render(c, http.StatusOK, "article.html", gin.H{"Error": "Invalid article ID"})
		return
	}

	article, err := ac.articleService.GetArticle(c.Request.Context(), id)
	switch {
	case errors.Is(err, service.ErrArticleNotFound):
		response.Render(c, http.StatusOK, "article.html", gin.H{"Error": "Invalid article ID"})
		return
	case err != nil:
		response.Fatal(c, err)
		return
	}

	response.Render(c, http.StatusOK, "article.html", gin.H{"Article": article})
}

// Dashboard lists the articles of the logged-in user.
func (ac *ArticleController) Dashboard(c *gin.Context) {
	username := session.FromContext(c).Username

	articles, err := ac.articleService.ListArticlesByAuthor(c.Request.Context(), username)
	if err != nil {
		response.Fatal(c, err)
		return
	}

	if len(articles) == 0 {
		response.Render(c, http.StatusOK, "dashboard.html", gin.H{"Msg": "Click the button to add your first article"})
		return
	}
	response.Render(c, http.StatusOK, "dashboard.html", gin.H{"Articles": articles})
}

func renderArticleForm(c *gin.Context, name string, form models.ArticleForm, errs validator.Errors, id string) {
	response.Render(c, http.StatusOK, name, gin.H{
		"Form":      form,
		"Errors":    errs,
		"ArticleID": id,
	})
}

// AddArticlePage shows the empty article form.
func (ac *ArticleController) AddArticlePage(c *gin.Context) {
	renderArticleForm(c, "add_article.html", models.ArticleForm{}, validator.Errors{}, "")
}

// AddArticle stores a new article written by the logged-in user.
func (ac *ArticleController) AddArticle(c *gin.Context) {
	var form models.ArticleForm
	if err := c.ShouldBind(&form); err != nil {
		response.BadRequest(c, err)
		return
	}

	if errs := form.Validate(); !errs.OK() {
		renderArticleForm(c, "add_article.html", form, errs, "")
		return
	}

	sess := session.FromContext(c)
	if _, err := ac.articleService.CreateArticle(c.Request.Context(), sess.Username, &form); err != nil {
		response.Fatal(c, err)
		return
	}

	sess.AddFlash(session.FlashSuccess, "Article created")
	response.Redirect(c, "/dashboard")
}

// EditArticlePage shows the article form prefilled with the stored values.
// An unknown id leaves the form empty.
func (ac *ArticleController) EditArticlePage(c *gin.Context) {
	var form models.ArticleForm
	sess := session.FromContext(c)

	if id, ok := articleID(c); ok {
		article, err := ac.articleService.ArticleForEdit(c.Request.Context(), id, sess.Username)
		switch {
		case err == nil:
			form.Title, form.Body = article.Title, article.Body
		case errors.Is(err, service.ErrArticleNotFound):
		case errors.Is(err, service.ErrNotArticleOwner):
			sess.AddFlash(session.FlashDanger, notOwnerMessage)
			response.Redirect(c, "/dashboard")
			return
		default:
			response.Fatal(c, err)
			return
		}
	}

	renderArticleForm(c, "edit_article.html", form, validator.Errors{}, c.Param("id"))
}

// EditArticle saves the submitted title and body.
func (ac *ArticleController) EditArticle(c *gin.Context) {
	var form models.ArticleForm
	if err := c.ShouldBind(&form); err != nil {
		response.BadRequest(c, err)
		return
	}

	if errs := form.Validate(); !errs.OK() {
		renderArticleForm(c, "edit_article.html", form, errs, c.Param("id"))
		return
	}

	sess := session.FromContext(c)
	if id, ok := articleID(c); ok {
		err := ac.articleService.UpdateArticle(c.Request.Context(), id, sess.Username, &form)
		switch {
		case errors.Is(err, service.ErrNotArticleOwner):
			sess.AddFlash(session.FlashDanger, notOwnerMessage)
			response.Redirect(c, "/dashboard")
			return
		case err != nil:
			response.Fatal(c, err)
			return
		}
	}

	sess.AddFlash(session.FlashSuccess, "Article updated")
	response.Redirect(c, "/dashboard")
}

// DeleteArticle removes an article of the logged-in user. Unknown ids are
// ignored.
func (ac *ArticleController) DeleteArticle(c *gin.Context) {
	sess := session.FromContext(c)

	if id, ok := articleID(c); ok {
		err := ac.articleService.DeleteArticle(c.Request.Context(), id, sess.Username)
		switch {
		case errors.Is(err, service.ErrNotArticleOwner):
			sess.AddFlash(session.FlashDanger, notOwnerMessage)
			response.Redirect(c, "/dashboard")
			return
		case err != nil:
			response.Fatal(c, err)
			return
		}
	}

	sess.AddFlash(session.FlashSuccess, "Article deleted")
	response.Redirect(c, "/dashboard")
}
