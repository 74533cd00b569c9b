package handler

import (
	"context"
	"errors"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/phenikaa/helpdesk/internal/middleware"
	"github.com/phenikaa/helpdesk/internal/model"
	"github.com/phenikaa/helpdesk/internal/repository"
	"github.com/phenikaa/helpdesk/internal/workflow"
)

// AuthHandler bundles dependencies for the login/register/logout pages.
type AuthHandler struct {
	Engine *workflow.Engine
}

func NewAuthHandler(engine *workflow.Engine) *AuthHandler {
	return &AuthHandler{Engine: engine}
}

// ----- DTOs -----

type registerReq struct {
	Username string `form:"username"`
	Email    string `form:"email"`
	Password string `form:"password"`
}

type loginReq struct {
	Email    string `form:"email"`
	Password string `form:"password"`
}

// authView feeds the login and register templates.
type authView struct {
	User  *model.User
	Error string
}

var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// validate checks the registration form against the field constraints:
// username 3–80 chars, email shape, password at least 6 chars. The
// returned string is a form-level error message, empty when valid.
func (r *registerReq) validate() string {
	r.Username = strings.TrimSpace(r.Username)
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
	if n := len(r.Username); n < 3 || n > 80 {
		return "Username must be between 3 and 80 characters"
	}
	if !emailPattern.MatchString(r.Email) {
		return "Email address is not valid"
	}
	if len(r.Password) < 6 {
		return "Password must be at least 6 characters"
	}
	return ""
}

// reqCtx returns a request-scoped context with the standard store-call
// timeout applied.
func reqCtx(c echo.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request().Context(), 5*time.Second)
}

// setIdentityCookie hands the identity token to the client. The value
// is the username itself: persistent, HTTP-only and same-site
// restricted per the documented wire contract.
func setIdentityCookie(c echo.Context, username string) {
	c.SetCookie(&http.Cookie{
		Name:     middleware.IdentityCookie,
		Value:    username,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Expires:  time.Now().Add(30 * 24 * time.Hour),
	})
}

func clearIdentityCookie(c echo.Context) {
	c.SetCookie(&http.Cookie{
		Name:     middleware.IdentityCookie,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   -1,
	})
}

// LoginPage renders the login form.
func (h *AuthHandler) LoginPage(c echo.Context) error {
	return c.Render(http.StatusOK, "login", authView{User: middleware.CurrentUser(c)})
}

// Login verifies the submitted credentials. Failures re-render the form
// with an error message; nothing escapes to the transport layer.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return c.Render(http.StatusBadRequest, "login", authView{Error: "Email or password is incorrect"})
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))

	ctx, cancel := reqCtx(c)
	defer cancel()

	u, err := h.Engine.Login(ctx, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, workflow.ErrInvalidCredentials) {
			return c.Render(http.StatusOK, "login", authView{Error: "Email or password is incorrect"})
		}
		return c.Render(http.StatusInternalServerError, "login", authView{Error: "Something went wrong, please try again"})
	}

	setIdentityCookie(c, u.Username)
	return c.Redirect(http.StatusFound, "/")
}

// RegisterPage renders the registration form.
func (h *AuthHandler) RegisterPage(c echo.Context) error {
	return c.Render(http.StatusOK, "register", authView{User: middleware.CurrentUser(c)})
}

// Register creates a new student account. Duplicate usernames or emails
// re-render the form with an error; a fresh account is signed in
// immediately by issuing the identity cookie.
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerReq
	if err := c.Bind(&req); err != nil {
		return c.Render(http.StatusBadRequest, "register", authView{Error: "Invalid form submission"})
	}
	if msg := req.validate(); msg != "" {
		return c.Render(http.StatusOK, "register", authView{Error: msg})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	u, err := h.Engine.Register(ctx, req.Username, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, repository.ErrUsernameExists) || errors.Is(err, repository.ErrEmailExists) {
			return c.Render(http.StatusOK, "register", authView{Error: "User already exists"})
		}
		return c.Render(http.StatusInternalServerError, "register", authView{Error: "Something went wrong, please try again"})
	}

	setIdentityCookie(c, u.Username)
	return c.Redirect(http.StatusFound, "/")
}

// Logout clears the identity cookie and returns to the landing page.
func (h *AuthHandler) Logout(c echo.Context) error {
	clearIdentityCookie(c)
	return c.Redirect(http.StatusFound, "/")
}
