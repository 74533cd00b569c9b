// Package workflow implements the explanation lifecycle: who may create
// a request, who may resolve it, and which state transitions exist. It
// sits between the HTTP handlers and the repositories and holds all of
// the authorization and transition rules so they can be exercised
// without a running database.
package workflow

import (
	"context"
	"database/sql"
	"errors"

	"github.com/rs/zerolog"

	"github.com/phenikaa/helpdesk/internal/model"
	"github.com/phenikaa/helpdesk/internal/repository"
	"github.com/phenikaa/helpdesk/internal/utils"
)

// Review actions accepted by Process. "delice" is the historical wire
// value for declining a request; anything else is rejected before the
// store is touched.
const (
	ActionAccept  = "accept"
	ActionDecline = "delice"
)

var (
	// ErrUnauthorized is returned when an anonymous caller attempts an
	// operation that requires a signed-in user.
	ErrUnauthorized = errors.New("authentication required")

	// ErrForbidden is returned when the caller's role flags do not
	// permit the operation.
	ErrForbidden = errors.New("forbidden")

	// ErrInvalidCredentials is returned by Login for an unknown email
	// or a password that does not match the stored hash. The two cases
	// are deliberately indistinguishable to the caller.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrInvalidAction is returned by Process for an action outside
	// {accept, delice}.
	ErrInvalidAction = errors.New("unknown review action")

	// ErrNotFound is returned when the referenced explanation does not
	// exist.
	ErrNotFound = errors.New("not found")
)

// UserStore is the slice of the user repository the engine depends on.
type UserStore interface {
	Create(ctx context.Context, username, email, passwordHash string) (uint64, error)
	GetByUsername(ctx context.Context, username string) (model.User, error)
	GetByEmail(ctx context.Context, email string) (model.User, error)
	GetByID(ctx context.Context, id uint64) (model.User, error)
	ListAll(ctx context.Context) ([]model.User, error)
	SetManager(ctx context.Context, id uint64) error
	SetAdmin(ctx context.Context, id uint64) error
}

// ExplanationStore is the slice of the explanation repository the
// engine depends on.
type ExplanationStore interface {
	Create(ctx context.Context, studentUsername, studentEmail, class, lockPart, reason string) (model.Explanation, error)
	GetByID(ctx context.Context, id uint64) (model.Explanation, error)
	ListAll(ctx context.Context) ([]model.Explanation, error)
	ListPending(ctx context.Context) ([]model.Explanation, error)
	Resolve(ctx context.Context, id uint64, state, managerUsername string) (model.Explanation, error)
}

// Engine bundles the stores with the bcrypt cost used for new
// registrations. Construct one at startup and share it across handlers.
type Engine struct {
	Users        UserStore
	Explanations ExplanationStore
	BcryptCost   int
	Log          zerolog.Logger
}

func NewEngine(users UserStore, explanations ExplanationStore, bcryptCost int, log zerolog.Logger) *Engine {
	return &Engine{Users: users, Explanations: explanations, BcryptCost: bcryptCost, Log: log}
}

// Register creates a user with both role flags off. The password is
// hashed before it reaches the store; duplicate username/email surface
// as repository.ErrUsernameExists / ErrEmailExists.
func (e *Engine) Register(ctx context.Context, username, email, password string) (model.User, error) {
	hash, err := utils.HashPassword(password, e.BcryptCost)
	if err != nil {
		return model.User{}, err
	}
	id, err := e.Users.Create(ctx, username, email, hash)
	if err != nil {
		return model.User{}, err
	}
	e.Log.Info().Str("username", username).Uint64("user_id", id).Msg("user registered")
	return e.Users.GetByID(ctx, id)
}

// Login verifies an email/password pair. Both an unknown email and a
// wrong password yield ErrInvalidCredentials.
func (e *Engine) Login(ctx context.Context, email, password string) (model.User, error) {
	u, err := e.Users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.User{}, ErrInvalidCredentials
		}
		return model.User{}, err
	}
	if !utils.VerifyPassword(u.Password, password) {
		return model.User{}, ErrInvalidCredentials
	}
	return u, nil
}

// CreateExplanation submits a new request on behalf of actor. Any
// authenticated user may create; the student identity is copied from
// the actor so the row stays self-describing even if the user record
// changes later.
func (e *Engine) CreateExplanation(ctx context.Context, actor *model.User, class, lockPart, reason string) (model.Explanation, error) {
	if actor == nil {
		return model.Explanation{}, ErrUnauthorized
	}
	ex, err := e.Explanations.Create(ctx, actor.Username, actor.Email, class, lockPart, reason)
	if err != nil {
		return model.Explanation{}, err
	}
	e.Log.Info().Uint64("explanation_id", ex.ID).Str("student", actor.Username).Msg("explanation submitted")
	return ex, nil
}

// ListAll returns the full explanation history. The history view is
// currently unscoped: every viewer sees every request. Narrowing it to
// the requesting student is a pending product decision, not a code one.
func (e *Engine) ListAll(ctx context.Context) ([]model.Explanation, error) {
	return e.Explanations.ListAll(ctx)
}

// ListPending returns the review backlog. Reviewer-only.
func (e *Engine) ListPending(ctx context.Context, actor *model.User) ([]model.Explanation, error) {
	if !actor.Reviewer() {
		return nil, ErrForbidden
	}
	return e.Explanations.ListPending(ctx)
}

// Process resolves a pending explanation. Only a manager or admin may
// call it; the transition is pending→accepted for ActionAccept and
// pending→delice for ActionDecline, recording the actor as the
// resolving manager. A request that is already resolved is left
// untouched and reported as repository.ErrAlreadyResolved.
func (e *Engine) Process(ctx context.Context, actor *model.User, id uint64, action string) (model.Explanation, error) {
	if !actor.Reviewer() {
		return model.Explanation{}, ErrForbidden
	}
	var state string
	switch action {
	case ActionAccept:
		state = model.StateAccepted
	case ActionDecline:
		state = model.StateDeclined
	default:
		return model.Explanation{}, ErrInvalidAction
	}
	ex, err := e.Explanations.Resolve(ctx, id, state, actor.Username)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Explanation{}, ErrNotFound
		}
		if errors.Is(err, repository.ErrAlreadyResolved) {
			return ex, err
		}
		return model.Explanation{}, err
	}
	e.Log.Info().Uint64("explanation_id", id).Str("state", state).Str("manager", actor.Username).Msg("explanation resolved")
	return ex, nil
}

// ListUsers returns all users for the admin page. Admin-only.
func (e *Engine) ListUsers(ctx context.Context, actor *model.User) ([]model.User, error) {
	if actor == nil || !actor.Admin {
		return nil, ErrForbidden
	}
	return e.Users.ListAll(ctx)
}

// PromoteToManager grants the manager flag to the target user. Only an
// admin may call it. A missing target is silently ignored and the
// operation is idempotent.
func (e *Engine) PromoteToManager(ctx context.Context, actor *model.User, targetID uint64) error {
	if actor == nil || !actor.Admin {
		return ErrForbidden
	}
	return e.Users.SetManager(ctx, targetID)
}

// PromoteToAdmin grants the admin flag. Same contract as
// PromoteToManager.
func (e *Engine) PromoteToAdmin(ctx context.Context, actor *model.User, targetID uint64) error {
	if actor == nil || !actor.Admin {
		return ErrForbidden
	}
	return e.Users.SetAdmin(ctx, targetID)
}
