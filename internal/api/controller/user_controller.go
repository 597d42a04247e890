package controller

import (
	"errors"
	"net/http"

	"ctchen222/flaskblog/internal/api/models"
	"ctchen222/flaskblog/internal/api/response"
	"ctchen222/flaskblog/internal/api/service"
	"ctchen222/flaskblog/internal/session"
	"ctchen222/flaskblog/internal/validator"

	"github.com/gin-gonic/gin"
)

// UserController handles registration, login and logout.
type UserController struct {
	userService service.UserService
	sessions    *session.Manager
}

// NewUserController creates a new UserController.
func NewUserController(userService service.UserService, sessions *session.Manager) *UserController {
	return &UserController{
		userService: userService,
		sessions:    sessions,
	}
}

func renderRegister(c *gin.Context, form models.RegistrationForm, errs validator.Errors) {
	// Passwords are never echoed back.
	form.Password, form.Confirm = "", ""
	response.Render(c, http.StatusOK, "register.html", gin.H{
		"Form":   form,
		"Errors": errs,
	})
}

// RegisterPage shows the empty registration form.
func (uc *UserController) RegisterPage(c *gin.Context) {
	renderRegister(c, models.RegistrationForm{}, validator.Errors{})
}

// Register handles the registration form submission.
func (uc *UserController) Register(c *gin.Context) {
	var form models.RegistrationForm
	if err := c.ShouldBind(&form); err != nil {
		response.BadRequest(c, err)
		return
	}

	if errs := form.Validate(); !errs.OK() {
		renderRegister(c, form, errs)
		return
	}

	_, err := uc.userService.Register(c.Request.Context(), &form)
	switch {
	case errors.Is(err, service.ErrUsernameTaken):
		session.FromContext(c).AddFlash(session.FlashDanger, "Username already exists")
		renderRegister(c, form, validator.Errors{})
		return
	case err != nil:
		response.Fatal(c, err)
		return
	}

	session.FromContext(c).AddFlash(session.FlashSuccess, "You are now registered and can log in")
	response.Redirect(c, "/")
}

// LoginPage shows the login form.
func (uc *UserController) LoginPage(c *gin.Context) {
	response.Render(c, http.StatusOK, "login.html", gin.H{"Error": ""})
}

// Login checks the submitted credentials and starts the session.
func (uc *UserController) Login(c *gin.Context) {
	var form models.LoginForm
	if err := c.ShouldBind(&form); err != nil {
		response.BadRequest(c, err)
		return
	}

	user, err := uc.userService.Login(c.Request.Context(), &form)
	switch {
	case errors.Is(err, service.ErrInvalidPassword):
		response.Render(c, http.StatusOK, "login.html", gin.H{"Error": "Invalid password", "Login": form.Username})
		return
	case errors.Is(err, service.ErrUserNotFound):
		response.Render(c, http.StatusOK, "login.html", gin.H{"Error": "Invalid user", "Login": form.Username})
		return
	case err != nil:
		response.Fatal(c, err)
		return
	}

	sess := session.FromContext(c)
	sess.Login(user.Username, uc.sessions.TTL())
	sess.AddFlash(session.FlashSuccess, "You are now logged in")
	response.Redirect(c, "/dashboard")
}

// Logout ends the session, whether or not one exists.
func (uc *UserController) Logout(c *gin.Context) {
	ctx := c.Request.Context()
	sess := session.FromContext(c)
	if err := uc.sessions.Destroy(ctx, sess); err != nil {
		// The cookie is still cleared; only replay protection is lost.
		_ = c.Error(err)
	}

	sess.AddFlash(session.FlashSuccess, "You have successfully logged out")
	response.Redirect(c, "/login")
}
