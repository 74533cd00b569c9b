package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/phenikaa/helpdesk/internal/middleware"
	"github.com/phenikaa/helpdesk/internal/model"
	"github.com/phenikaa/helpdesk/internal/queue"
	"github.com/phenikaa/helpdesk/internal/repository"
	queue_publisher "github.com/phenikaa/helpdesk/internal/service"
	"github.com/phenikaa/helpdesk/internal/workflow"
)

// ExplanationHandler bundles dependencies for the explanation pages:
// the shared history view, the student submission form, the reviewer
// backlog and the resolve action.
type ExplanationHandler struct {
	Engine *workflow.Engine
}

func NewExplanationHandler(engine *workflow.Engine) *ExplanationHandler {
	return &ExplanationHandler{Engine: engine}
}

// ----- DTOs -----

type createReq struct {
	Class    string `form:"class"`
	LockPart string `form:"lock-part"`
	Reason   string `form:"reason"`
}

func (r *createReq) validate() string {
	if r.Class == "" || r.LockPart == "" || r.Reason == "" {
		return "Class, lock part and reason are all required"
	}
	return ""
}

type processReq struct {
	ApplicationID uint64 `form:"application_id"`
	Action        string `form:"action"`
}

// listView feeds the history and backlog templates.
type listView struct {
	User         *model.User
	Explanations []model.Explanation
}

// createView feeds the submission form template.
type createView struct {
	User  *model.User
	Error string
}

// History renders every explanation regardless of state. The view is
// deliberately unscoped: any visitor sees the full history, matching
// the current product behavior.
func (h *ExplanationHandler) History(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	explanations, err := h.Engine.ListAll(ctx)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "list explanations failed")
	}
	return c.Render(http.StatusOK, "explanation", listView{
		User:         middleware.CurrentUser(c),
		Explanations: explanations,
	})
}

// CreatePage renders the submission form. The authentication guard in
// front of this route already redirected anonymous visitors to /login.
func (h *ExplanationHandler) CreatePage(c echo.Context) error {
	return c.Render(http.StatusOK, "create", createView{User: middleware.CurrentUser(c)})
}

// Create submits a new explanation request on behalf of the signed-in
// student and announces it on the event queue.
func (h *ExplanationHandler) Create(c echo.Context) error {
	actor := middleware.CurrentUser(c)
	if actor == nil {
		return c.Redirect(http.StatusFound, "/login")
	}

	var req createReq
	if err := c.Bind(&req); err != nil {
		return c.Render(http.StatusBadRequest, "create", createView{User: actor, Error: "Invalid form submission"})
	}
	if msg := req.validate(); msg != "" {
		return c.Render(http.StatusOK, "create", createView{User: actor, Error: msg})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	ex, err := h.Engine.CreateExplanation(ctx, actor, req.Class, req.LockPart, req.Reason)
	if err != nil {
		if errors.Is(err, workflow.ErrUnauthorized) {
			return c.Redirect(http.StatusFound, "/login")
		}
		return c.Render(http.StatusInternalServerError, "create", createView{User: actor, Error: "Could not submit the request, please try again"})
	}

	// Audit event; a broker outage must not fail the submission.
	_ = queue_publisher.PublishExplanationEvent(ctx, queue.ExplanationEvent{
		Type:            queue.TypeSubmitted,
		ExplanationID:   ex.ID,
		StudentUsername: ex.StudentUsername,
		StudentEmail:    ex.StudentEmail,
		Class:           ex.Class,
		LockPart:        ex.LockPart,
		State:           ex.State,
		OccurredAt:      time.Now().UTC().Format(time.RFC3339),
	})

	return c.Redirect(http.StatusFound, "/explanation")
}

// Pending renders the reviewer backlog: every explanation still in the
// pending state, oldest first.
func (h *ExplanationHandler) Pending(c echo.Context) error {
	actor := middleware.CurrentUser(c)

	ctx, cancel := reqCtx(c)
	defer cancel()

	explanations, err := h.Engine.ListPending(ctx, actor)
	if err != nil {
		if errors.Is(err, workflow.ErrForbidden) {
			return c.Redirect(http.StatusFound, "/")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "list pending failed")
	}
	return c.Render(http.StatusOK, "submition", listView{User: actor, Explanations: explanations})
}

// Process resolves a pending explanation with accept or delice. The
// transition is first-writer-wins: a request resolved by another
// reviewer in the meantime is left untouched and the caller is simply
// sent back to the backlog.
func (h *ExplanationHandler) Process(c echo.Context) error {
	actor := middleware.CurrentUser(c)

	var req processReq
	if err := c.Bind(&req); err != nil || req.ApplicationID == 0 || req.Action == "" {
		return c.Redirect(http.StatusFound, "/submition")
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	ex, err := h.Engine.Process(ctx, actor, req.ApplicationID, req.Action)
	switch {
	case err == nil:
		_ = queue_publisher.PublishExplanationEvent(ctx, queue.ExplanationEvent{
			Type:            queue.TypeResolved,
			ExplanationID:   ex.ID,
			StudentUsername: ex.StudentUsername,
			StudentEmail:    ex.StudentEmail,
			Class:           ex.Class,
			LockPart:        ex.LockPart,
			State:           ex.State,
			ManagerUsername: actor.Username,
			OccurredAt:      time.Now().UTC().Format(time.RFC3339),
		})
	case errors.Is(err, workflow.ErrForbidden):
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	case errors.Is(err, workflow.ErrInvalidAction):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown action"})
	case errors.Is(err, workflow.ErrNotFound), errors.Is(err, repository.ErrAlreadyResolved):
		// Nothing to do; fall through to the redirect below.
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, "process application failed")
	}
	return c.Redirect(http.StatusFound, "/submition")
}
