package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/phenikaa/helpdesk/internal/middleware"
	"github.com/phenikaa/helpdesk/internal/model"
	"github.com/phenikaa/helpdesk/internal/workflow"
)

// AdminHandler bundles dependencies for user management: the user list
// page and the role promotion actions.
type AdminHandler struct {
	Engine *workflow.Engine
}

func NewAdminHandler(engine *workflow.Engine) *AdminHandler {
	return &AdminHandler{Engine: engine}
}

// usersView feeds the user management template.
type usersView struct {
	User  *model.User
	Users []model.User
}

// Users renders the user management page with every account and its
// role flags.
func (h *AdminHandler) Users(c echo.Context) error {
	actor := middleware.CurrentUser(c)

	ctx, cancel := reqCtx(c)
	defer cancel()

	users, err := h.Engine.ListUsers(ctx, actor)
	if err != nil {
		if errors.Is(err, workflow.ErrForbidden) {
			return c.Redirect(http.StatusFound, "/")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "list users failed")
	}
	return c.Render(http.StatusOK, "users", usersView{User: actor, Users: users})
}

// MakeManager grants the manager flag to the target user and returns to
// the user list. A malformed or unknown id is ignored.
func (h *AdminHandler) MakeManager(c echo.Context) error {
	return h.promote(c, h.Engine.PromoteToManager)
}

// MakeAdmin grants the admin flag to the target user.
func (h *AdminHandler) MakeAdmin(c echo.Context) error {
	return h.promote(c, h.Engine.PromoteToAdmin)
}

func (h *AdminHandler) promote(c echo.Context, grant func(ctx context.Context, actor *model.User, id uint64) error) error {
	actor := middleware.CurrentUser(c)

	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.Redirect(http.StatusFound, "/users")
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := grant(ctx, actor, id); err != nil {
		if errors.Is(err, workflow.ErrForbidden) {
			return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "promote failed")
	}
	return c.Redirect(http.StatusFound, "/users")
}
