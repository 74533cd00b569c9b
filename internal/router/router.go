package router // package router defines how HTTP routes are registered for the application

import (
	"github.com/labstack/echo/v4" // import the Echo web framework to handle routing

	"github.com/phenikaa/helpdesk/internal/handler"    // import the handlers that implement page and action logic
	"github.com/phenikaa/helpdesk/internal/middleware" // import role guards and rate limiting
)

// Handlers collects the handler bundles the route table needs.
type Handlers struct {
	Auth        *handler.AuthHandler
	Explanation *handler.ExplanationHandler
	Admin       *handler.AdminHandler
	API         *handler.APIHandler
}

// RegisterRoutes wires the full HTTP surface. The identity resolver is
// expected to be installed globally before this is called, so every
// guard below can rely on the current user being in the context.
// rateLimit wraps the credential POSTs and cache wraps the JSON
// listing; both are pass-throughs when redis is unavailable.
func RegisterRoutes(e *echo.Echo, h Handlers, rateLimit, cache echo.MiddlewareFunc) {
	// Liveness probe for load balancers and monitoring.
	e.GET("/healthz", handler.Health)

	// Public pages.
	e.GET("/", handler.Index)
	e.GET("/login", h.Auth.LoginPage)
	e.POST("/login", h.Auth.Login, rateLimit)
	e.GET("/register", h.Auth.RegisterPage)
	e.POST("/register", h.Auth.Register, rateLimit)
	e.GET("/logout", h.Auth.Logout)

	// The shared history view requires rendering only, not authentication.
	e.GET("/explanation", h.Explanation.History)

	// Submitting a request requires a signed-in user; anonymous visitors
	// are redirected to the login page.
	e.GET("/create", h.Explanation.CreatePage, middleware.RequireUserPage)
	e.POST("/create", h.Explanation.Create, middleware.RequireUserPage)

	// Reviewer surface: the pending backlog page redirects unauthorized
	// viewers, while the resolve action answers with an explicit 403.
	e.GET("/submition", h.Explanation.Pending, middleware.RequireReviewerPage)
	e.POST("/process_application", h.Explanation.Process, middleware.RequireReviewerAction)

	// Admin surface: user management page plus the promotion actions.
	e.GET("/users", h.Admin.Users, middleware.RequireAdminPage)
	e.POST("/make_manager/:id", h.Admin.MakeManager, middleware.RequireAdminAction)
	e.POST("/make_admin/:id", h.Admin.MakeAdmin, middleware.RequireAdminAction)

	// Machine-readable listing, cached because it is user-independent.
	e.GET("/api/explanations", h.API.ListExplanations, cache)
}
