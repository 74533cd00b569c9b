package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/phenikaa/helpdesk/internal/middleware"
	"github.com/phenikaa/helpdesk/internal/model"
)

// homeView feeds the landing page template.
type homeView struct {
	User *model.User
}

// Index renders the landing page with the current user, or anonymous
// chrome when no identity cookie resolved.
func Index(c echo.Context) error {
	return c.Render(http.StatusOK, "index", homeView{User: middleware.CurrentUser(c)})
}
