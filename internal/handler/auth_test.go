package handler_test

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phenikaa/helpdesk/internal/middleware"
)

func (a *testApp) do(method, path string, form url.Values, cookie *http.Cookie) *httptest.ResponseRecorder {
	var req *http.Request
	if form != nil {
		req = httptest.NewRequest(method, path, strings.NewReader(form.Encode()))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if cookie != nil {
		req.AddCookie(cookie)
	}
	rec := httptest.NewRecorder()
	a.e.ServeHTTP(rec, req)
	return rec
}

func identityCookie(username string) *http.Cookie {
	return &http.Cookie{Name: middleware.IdentityCookie, Value: username}
}

// issuedCookie digs the identity cookie out of a response.
func issuedCookie(t *testing.T, rec *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range rec.Result().Cookies() {
		if c.Name == middleware.IdentityCookie {
			return c
		}
	}
	return nil
}

func TestRegisterIssuesIdentityCookie(t *testing.T) {
	app := newTestApp(t)

	rec := app.do(http.MethodPost, "/register", url.Values{
		"username": {"alice"},
		"email":    {"alice@x.com"},
		"password": {"secret1"},
	}, nil)

	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/", rec.Header().Get(echo.HeaderLocation))

	cookie := issuedCookie(t, rec)
	require.NotNil(t, cookie, "registration must hand out the identity token")
	assert.Equal(t, "alice", cookie.Value)
	assert.True(t, cookie.HttpOnly)
	assert.Equal(t, http.SameSiteLaxMode, cookie.SameSite)
}

func TestRegisterDuplicateRendersError(t *testing.T) {
	app := newTestApp(t)
	app.seedUser(t, "alice", "alice@x.com", "secret1", false, false)

	rec := app.do(http.MethodPost, "/register", url.Values{
		"username": {"alice"},
		"email":    {"fresh@x.com"},
		"password": {"secret2"},
	}, nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "User already exists")
	assert.Nil(t, issuedCookie(t, rec))
}

func TestRegisterValidation(t *testing.T) {
	app := newTestApp(t)

	tests := []struct {
		name string
		form url.Values
		want string
	}{
		{"short username", url.Values{"username": {"al"}, "email": {"a@x.com"}, "password": {"secret1"}}, "between 3 and 80"},
		{"bad email", url.Values{"username": {"alice"}, "email": {"not-an-email"}, "password": {"secret1"}}, "not valid"},
		{"short password", url.Values{"username": {"alice"}, "email": {"a@x.com"}, "password": {"short"}}, "at least 6"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := app.do(http.MethodPost, "/register", tt.form, nil)
			assert.Equal(t, http.StatusOK, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.want)
		})
	}
}

func TestLoginSuccessAndFailure(t *testing.T) {
	app := newTestApp(t)
	app.seedUser(t, "alice", "alice@x.com", "secret1", false, false)

	rec := app.do(http.MethodPost, "/login", url.Values{
		"email":    {"alice@x.com"},
		"password": {"secret1"},
	}, nil)
	assert.Equal(t, http.StatusFound, rec.Code)
	cookie := issuedCookie(t, rec)
	require.NotNil(t, cookie)
	assert.Equal(t, "alice", cookie.Value)

	rec = app.do(http.MethodPost, "/login", url.Values{
		"email":    {"alice@x.com"},
		"password": {"wrong"},
	}, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Email or password is incorrect")
	assert.Nil(t, issuedCookie(t, rec))
}

func TestLogoutClearsCookie(t *testing.T) {
	app := newTestApp(t)
	app.seedUser(t, "alice", "alice@x.com", "secret1", false, false)

	rec := app.do(http.MethodGet, "/logout", nil, identityCookie("alice"))
	assert.Equal(t, http.StatusFound, rec.Code)

	cookie := issuedCookie(t, rec)
	require.NotNil(t, cookie)
	assert.Empty(t, cookie.Value)
	assert.Negative(t, cookie.MaxAge)
}

func TestIndexShowsCurrentUser(t *testing.T) {
	app := newTestApp(t)
	app.seedUser(t, "alice", "alice@x.com", "secret1", false, false)

	rec := app.do(http.MethodGet, "/", nil, identityCookie("alice"))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "alice")

	rec = app.do(http.MethodGet, "/", nil, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Log in")
}
