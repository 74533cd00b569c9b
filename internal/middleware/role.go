package middleware // middleware provides shared request processing for handlers

import (
	"net/http" // http package defines standard HTTP status codes

	"github.com/labstack/echo/v4" // echo provides middleware chaining and context

	"github.com/phenikaa/helpdesk/internal/model"
)

// The guards below come in two flavours matching the page/action split:
// *Page guards redirect the browser away from a view it may not see,
// while *Action guards return an explicit 403 for state-mutating POSTs.

// RequireUserPage redirects anonymous visitors to the login page.
func RequireUserPage(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if CurrentUser(c) == nil {
			return c.Redirect(http.StatusFound, "/login")
		}
		return next(c)
	}
}

// RequireReviewerPage redirects callers without the manager or admin
// flag to the landing page.
func RequireReviewerPage(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if !CurrentUser(c).Reviewer() {
			return c.Redirect(http.StatusFound, "/")
		}
		return next(c)
	}
}

// RequireAdminPage redirects non-admin callers to the landing page.
func RequireAdminPage(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		u := CurrentUser(c)
		if u == nil || !u.Admin {
			return c.Redirect(http.StatusFound, "/")
		}
		return next(c)
	}
}

// RequireReviewerAction rejects callers without the manager or admin
// flag with 403 Forbidden.
func RequireReviewerAction(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if !CurrentUser(c).Reviewer() {
			return forbidden(c)
		}
		return next(c)
	}
}

// RequireAdminAction rejects non-admin callers with 403 Forbidden.
func RequireAdminAction(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		u := CurrentUser(c)
		if u == nil || !u.Admin {
			return forbidden(c)
		}
		return next(c)
	}
}

func forbidden(c echo.Context) error {
	return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
}

// currentUserID is used by the rate limiter to build per-user keys.
func currentUserID(c echo.Context) string {
	if u, ok := c.Get(userContextKey).(*model.User); ok && u != nil {
		return u.Username
	}
	return "anon"
}
