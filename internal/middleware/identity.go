package middleware

// identity.go resolves the acting user for a request. The client
// carries an opaque identity token — the username itself — in an
// HTTP-only cookie. If the cookie is present and a matching user
// exists, the record is stored in the Echo context under "user";
// otherwise the request proceeds anonymously. A lookup miss is not an
// error: the token is trusted as-is and there is nothing further to
// validate.

import (
	"context"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/phenikaa/helpdesk/internal/model"
)

// IdentityCookie is the cookie that carries the identity token.
const IdentityCookie = "username"

const userContextKey = "user"

// UserLookup is the single repository method the resolver needs.
type UserLookup interface {
	GetByUsername(ctx context.Context, username string) (model.User, error)
}

// ResolveIdentity returns middleware that loads the current user from
// the identity cookie. It never rejects a request; authorization is the
// job of the role guards further down the chain.
func ResolveIdentity(users UserLookup) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			cookie, err := c.Cookie(IdentityCookie)
			if err != nil || cookie.Value == "" {
				return next(c)
			}
			ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
			defer cancel()
			u, err := users.GetByUsername(ctx, cookie.Value)
			if err != nil {
				// Unknown token -> anonymous, not an error.
				return next(c)
			}
			c.Set(userContextKey, &u)
			return next(c)
		}
	}
}

// CurrentUser returns the user resolved for this request, or nil when
// the request is anonymous.
func CurrentUser(c echo.Context) *model.User {
	if u, ok := c.Get(userContextKey).(*model.User); ok {
		return u
	}
	return nil
}
