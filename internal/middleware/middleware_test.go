package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/pageza/recipebox/internal/types"
)

type fakeValidator struct {
	tokens map[string]*types.TokenClaims
}

func (f *fakeValidator) ValidateToken(token string) (*types.TokenClaims, error) {
	if claims, ok := f.tokens[token]; ok {
		return claims, nil
	}
	return nil, errors.New("invalid token")
}

func init() {
	gin.SetMode(gin.TestMode)
}

func newAuthRouter(validator TokenValidator) *gin.Engine {
	r := gin.New()
	r.Use(Authenticate(validator))
	r.GET("/whoami", func(c *gin.Context) {
		if user := CurrentUser(c); user != nil {
			c.String(http.StatusOK, user.Username)
			return
		}
		c.String(http.StatusOK, "anonymous")
	})
	r.GET("/private", RequireLogin("/accounts/login"), func(c *gin.Context) {
		c.String(http.StatusOK, "secret")
	})
	return r
}

func TestAuthenticate(t *testing.T) {
	validator := &fakeValidator{tokens: map[string]*types.TokenClaims{
		"good": {UserID: uuid.New(), Username: "testUser"},
	}}
	r := newAuthRouter(validator)

	tests := []struct {
		name   string
		header string
		cookie string
		want   string
	}{
		{name: "bearer token", header: "Bearer good", want: "testUser"},
		{name: "session cookie", cookie: "good", want: "testUser"},
		{name: "invalid token", header: "Bearer bad", want: "anonymous"},
		{name: "malformed header", header: "Token good", want: "anonymous"},
		{name: "no credentials", want: "anonymous"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			if tt.cookie != "" {
				req.AddCookie(&http.Cookie{Name: SessionCookie, Value: tt.cookie})
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			assert.Equal(t, http.StatusOK, w.Code)
			assert.Equal(t, tt.want, w.Body.String())
		})
	}
}

func TestRequireLoginRedirects(t *testing.T) {
	r := newAuthRouter(&fakeValidator{})

	req := httptest.NewRequest(http.MethodGet, "/private?page=2", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/accounts/login?next=%2Fprivate%3Fpage%3D2", w.Header().Get("Location"))
}

func TestRequireLoginAllowsPrincipal(t *testing.T) {
	r := newAuthRouter(&fakeValidator{tokens: map[string]*types.TokenClaims{
		"good": {UserID: uuid.New(), Username: "admin"},
	}})

	req := httptest.NewRequest(http.MethodGet, "/private", nil)
	req.Header.Set("Authorization", "Bearer good")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "secret", w.Body.String())
}

func TestRecovery(t *testing.T) {
	core, logs := observer.New(zap.ErrorLevel)
	r := gin.New()
	r.Use(Recovery(zap.New(core)))
	r.GET("/boom", func(c *gin.Context) {
		panic("boom")
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/boom", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"error":"Internal Server Error"}`, w.Body.String())
	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "panic recovered", logs.All()[0].Message)
}

func TestRequestLogger(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	r := gin.New()
	r.Use(RequestLogger(zap.New(core)))
	r.GET("/missing", func(c *gin.Context) {
		c.Status(http.StatusNotFound)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/missing", nil))

	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, zap.WarnLevel, entry.Level)
	assert.Equal(t, int64(http.StatusNotFound), entry.ContextMap()["status"])
}

func TestLoginRedirect(t *testing.T) {
	assert.Equal(t, "/accounts/login?next=%2Frecipes%2Fnew", LoginRedirect("/accounts/login", "/recipes/new"))
}
