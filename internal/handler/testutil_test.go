package handler_test

import (
	"context"
	"database/sql"
	"sort"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/phenikaa/helpdesk/internal/config"
	"github.com/phenikaa/helpdesk/internal/handler"
	"github.com/phenikaa/helpdesk/internal/middleware"
	"github.com/phenikaa/helpdesk/internal/model"
	"github.com/phenikaa/helpdesk/internal/repository"
	"github.com/phenikaa/helpdesk/internal/router"
	"github.com/phenikaa/helpdesk/internal/utils"
	"github.com/phenikaa/helpdesk/internal/view"
	"github.com/phenikaa/helpdesk/internal/workflow"
)

// In-memory stores so the full HTTP surface can be exercised without
// MySQL. They mirror the repository contracts, including the
// duplicate-key sentinels and the conditional resolve.

type memUserStore struct {
	nextID uint64
	users  map[uint64]model.User
}

func newMemUserStore() *memUserStore {
	return &memUserStore{nextID: 1, users: map[uint64]model.User{}}
}

func (s *memUserStore) Create(_ context.Context, username, email, passwordHash string) (uint64, error) {
	for _, u := range s.users {
		if u.Username == username {
			return 0, repository.ErrUsernameExists
		}
		if u.Email == email {
			return 0, repository.ErrEmailExists
		}
	}
	id := s.nextID
	s.nextID++
	s.users[id] = model.User{ID: id, Username: username, Email: email, Password: passwordHash}
	return id, nil
}

func (s *memUserStore) GetByUsername(_ context.Context, username string) (model.User, error) {
	for _, u := range s.users {
		if u.Username == username {
			return u, nil
		}
	}
	return model.User{}, sql.ErrNoRows
}

func (s *memUserStore) GetByEmail(_ context.Context, email string) (model.User, error) {
	for _, u := range s.users {
		if u.Email == email {
			return u, nil
		}
	}
	return model.User{}, sql.ErrNoRows
}

func (s *memUserStore) GetByID(_ context.Context, id uint64) (model.User, error) {
	u, ok := s.users[id]
	if !ok {
		return model.User{}, sql.ErrNoRows
	}
	return u, nil
}

func (s *memUserStore) ListAll(_ context.Context) ([]model.User, error) {
	out := make([]model.User, 0, len(s.users))
	for _, u := range s.users {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *memUserStore) SetManager(_ context.Context, id uint64) error {
	if u, ok := s.users[id]; ok {
		u.Manager = true
		s.users[id] = u
	}
	return nil
}

func (s *memUserStore) SetAdmin(_ context.Context, id uint64) error {
	if u, ok := s.users[id]; ok {
		u.Admin = true
		s.users[id] = u
	}
	return nil
}

type memExplanationStore struct {
	nextID uint64
	rows   map[uint64]model.Explanation
}

func newMemExplanationStore() *memExplanationStore {
	return &memExplanationStore{nextID: 1, rows: map[uint64]model.Explanation{}}
}

func (s *memExplanationStore) Create(_ context.Context, studentUsername, studentEmail, class, lockPart, reason string) (model.Explanation, error) {
	e := model.Explanation{
		ID:              s.nextID,
		StudentUsername: studentUsername,
		StudentEmail:    studentEmail,
		Class:           class,
		LockPart:        lockPart,
		Reason:          reason,
		State:           model.StatePending,
	}
	s.rows[e.ID] = e
	s.nextID++
	return e, nil
}

func (s *memExplanationStore) GetByID(_ context.Context, id uint64) (model.Explanation, error) {
	e, ok := s.rows[id]
	if !ok {
		return model.Explanation{}, sql.ErrNoRows
	}
	return e, nil
}

func (s *memExplanationStore) ListAll(_ context.Context) ([]model.Explanation, error) {
	out := make([]model.Explanation, 0, len(s.rows))
	for _, e := range s.rows {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (s *memExplanationStore) ListPending(_ context.Context) ([]model.Explanation, error) {
	var out []model.Explanation
	for _, e := range s.rows {
		if e.State == model.StatePending {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *memExplanationStore) Resolve(_ context.Context, id uint64, state, managerUsername string) (model.Explanation, error) {
	e, ok := s.rows[id]
	if !ok {
		return model.Explanation{}, sql.ErrNoRows
	}
	if e.State != model.StatePending {
		return e, repository.ErrAlreadyResolved
	}
	e.State = state
	e.ManagerUsername = sql.NullString{String: managerUsername, Valid: true}
	s.rows[id] = e
	return e, nil
}

// testApp is a fully wired Echo application over the in-memory stores.
type testApp struct {
	e            *echo.Echo
	users        *memUserStore
	explanations *memExplanationStore
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()

	users := newMemUserStore()
	explanations := newMemExplanationStore()
	engine := workflow.NewEngine(users, explanations, bcrypt.MinCost, zerolog.Nop())

	renderer, err := view.New("../../web/templates")
	require.NoError(t, err)

	e := echo.New()
	e.Renderer = renderer
	e.Use(middleware.ResolveIdentity(users))

	// nil redis turns the rate limiter and cache into pass-throughs.
	router.RegisterRoutes(e, router.Handlers{
		Auth:        handler.NewAuthHandler(engine),
		Explanation: handler.NewExplanationHandler(engine),
		Admin:       handler.NewAdminHandler(engine),
		API:         handler.NewAPIHandler(engine),
	},
		middleware.NewTokenBucket(config.RateLimitConfig{}, nil),
		middleware.NewRedisCache(config.CacheConfig{}, nil),
	)

	return &testApp{e: e, users: users, explanations: explanations}
}

// seedUser inserts a user directly into the store with the given role
// flags and returns it.
func (a *testApp) seedUser(t *testing.T, username, email, password string, manager, admin bool) model.User {
	t.Helper()
	hash, err := utils.HashPassword(password, bcrypt.MinCost)
	require.NoError(t, err)
	id, err := a.users.Create(context.Background(), username, email, hash)
	require.NoError(t, err)
	if manager {
		require.NoError(t, a.users.SetManager(context.Background(), id))
	}
	if admin {
		require.NoError(t, a.users.SetAdmin(context.Background(), id))
	}
	u, err := a.users.GetByID(context.Background(), id)
	require.NoError(t, err)
	return u
}
