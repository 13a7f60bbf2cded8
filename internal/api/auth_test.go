package api

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/pageza/recipebox/internal/middleware"
	"github.com/pageza/recipebox/internal/models"
	"github.com/pageza/recipebox/internal/service"
	"github.com/pageza/recipebox/internal/types"
)

func sessionCookie(w *httptest.ResponseRecorder) *http.Cookie {
	for _, c := range w.Result().Cookies() {
		if c.Name == middleware.SessionCookie {
			return c
		}
	}
	return nil
}

func TestLoginHandler(t *testing.T) {
	env := newTestEnv(t, false)
	user := &models.User{ID: uuid.New(), Username: "testUser"}
	env.auth.On("Login", mock.Anything, "testUser", "password123").Return(user, "signed-token", nil)

	values := url.Values{"username": {"testUser"}, "password": {"password123"}, "next": {"/recipes/new"}}
	w := env.do(postForm("/accounts/login", values), false)

	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/recipes/new", w.Header().Get("Location"))
	cookie := sessionCookie(w)
	require.NotNil(t, cookie)
	assert.Equal(t, "signed-token", cookie.Value)
	assert.True(t, cookie.HttpOnly)
}

func TestLoginHandlerNextFromQuery(t *testing.T) {
	env := newTestEnv(t, false)
	env.auth.On("Login", mock.Anything, "testUser", "password123").Return(testUser, "signed-token", nil)

	values := url.Values{"username": {"testUser"}, "password": {"password123"}}
	w := env.do(postForm("/accounts/login?next=%2Frecipes%2Ffavorites", values), false)

	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/recipes/favorites", w.Header().Get("Location"))
}

func TestLoginHandlerRejectsOffsiteNext(t *testing.T) {
	env := newTestEnv(t, false)
	env.auth.On("Login", mock.Anything, "testUser", "password123").Return(testUser, "signed-token", nil)

	values := url.Values{"username": {"testUser"}, "password": {"password123"}, "next": {"https://evil.example"}}
	w := env.do(postForm("/accounts/login", values), false)

	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/recipes", w.Header().Get("Location"))
}

func TestLoginHandlerInvalidCredentials(t *testing.T) {
	env := newTestEnv(t, false)
	env.auth.On("Login", mock.Anything, "testUser", "wrong").Return(nil, "", service.ErrInvalidCredentials)

	w := env.do(postForm("/accounts/login", url.Values{"username": {"testUser"}, "password": {"wrong"}}), false)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), invalidLoginText)
	assert.Nil(t, sessionCookie(w))

	w = env.do(postForm("/accounts/login", url.Values{"username": {"testUser"}}), false)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), invalidLoginText)
}

func TestLoginFormHandler(t *testing.T) {
	env := newTestEnv(t, false)

	w := env.do(httptest.NewRequest(http.MethodGet, "/accounts/login?next=%2Frecipes%2Fnew", nil), false)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"next":"/recipes/new"}`, w.Body.String())
}

func TestTokenHandler(t *testing.T) {
	env := newTestEnv(t, false)
	env.auth.On("Login", mock.Anything, "testUser", "password123").Return(testUser, "signed-token", nil)
	env.auth.On("Login", mock.Anything, "testUser", "nope").Return(nil, "", service.ErrInvalidCredentials)

	req := httptest.NewRequest(http.MethodPost, "/accounts/token", strings.NewReader(`{"username":"testUser","password":"password123"}`))
	req.Header.Set("Content-Type", "application/json")
	w := env.do(req, false)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"token":"signed-token"`)

	req = httptest.NewRequest(http.MethodPost, "/accounts/token", strings.NewReader(`{"username":"testUser","password":"nope"}`))
	req.Header.Set("Content-Type", "application/json")
	w = env.do(req, false)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRegisterHandler(t *testing.T) {
	env := newTestEnv(t, false)
	env.auth.On("Register", mock.Anything, &types.RegisterRequest{Username: "chef", Email: "chef@example.com", Password: "correct-horse"}).
		Return(&models.User{ID: uuid.New(), Username: "chef"}, nil)
	env.auth.On("Register", mock.Anything, &types.RegisterRequest{Username: "testUser", Password: "correct-horse"}).
		Return(nil, service.ErrUsernameTaken)
	env.auth.On("Register", mock.Anything, &types.RegisterRequest{Username: "broken", Password: "correct-horse"}).
		Return(nil, errors.New("database down"))

	tests := []struct {
		name string
		body string
		want int
	}{
		{name: "created", body: `{"username":"chef","email":"chef@example.com","password":"correct-horse"}`, want: http.StatusCreated},
		{name: "taken", body: `{"username":"testUser","password":"correct-horse"}`, want: http.StatusBadRequest},
		{name: "short password", body: `{"username":"chef","password":"short"}`, want: http.StatusBadRequest},
		{name: "bad email", body: `{"username":"chef","email":"nope","password":"correct-horse"}`, want: http.StatusBadRequest},
		{name: "store failure", body: `{"username":"broken","password":"correct-horse"}`, want: http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/accounts/register", strings.NewReader(tt.body))
			req.Header.Set("Content-Type", "application/json")
			w := env.do(req, false)
			assert.Equal(t, tt.want, w.Code)
		})
	}
}

func TestLogoutHandler(t *testing.T) {
	env := newTestEnv(t, false)

	w := env.do(httptest.NewRequest(http.MethodPost, "/accounts/logout", nil), true)
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/recipes", w.Header().Get("Location"))

	cookie := sessionCookie(w)
	require.NotNil(t, cookie)
	assert.Empty(t, cookie.Value)
	assert.True(t, cookie.MaxAge < 0)
}
