package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/phenikaa/helpdesk/internal/model"
	"github.com/phenikaa/helpdesk/internal/workflow"
)

// APIHandler exposes the machine-readable explanation listing. The
// route sits behind the redis response cache, so the payload must not
// depend on the requesting user.
type APIHandler struct {
	Engine *workflow.Engine
}

func NewAPIHandler(engine *workflow.Engine) *APIHandler {
	return &APIHandler{Engine: engine}
}

type apiExplanation struct {
	ID              uint64  `json:"id"`
	StudentUsername string  `json:"student_username"`
	StudentEmail    string  `json:"student_email"`
	Class           string  `json:"class"`
	LockPart        string  `json:"lock_part"`
	Reason          string  `json:"reason"`
	State           string  `json:"state"`
	ManagerUsername *string `json:"manager_username"`
	CreatedAt       string  `json:"created_at"`
	ResolvedAt      *string `json:"resolved_at"`
}

func toAPIExplanation(e model.Explanation) apiExplanation {
	out := apiExplanation{
		ID:              e.ID,
		StudentUsername: e.StudentUsername,
		StudentEmail:    e.StudentEmail,
		Class:           e.Class,
		LockPart:        e.LockPart,
		Reason:          e.Reason,
		State:           e.State,
		CreatedAt:       e.CreatedAt.UTC().Format(time.RFC3339),
	}
	if e.ManagerUsername.Valid {
		out.ManagerUsername = &e.ManagerUsername.String
	}
	if e.ResolvedAt.Valid {
		s := e.ResolvedAt.Time.UTC().Format(time.RFC3339)
		out.ResolvedAt = &s
	}
	return out
}

// ListExplanations returns every explanation as JSON, newest first.
func (h *APIHandler) ListExplanations(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	explanations, err := h.Engine.ListAll(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list explanations failed"})
	}

	out := make([]apiExplanation, 0, len(explanations))
	for _, e := range explanations {
		out = append(out, toAPIExplanation(e))
	}
	return c.JSON(http.StatusOK, out)
}
