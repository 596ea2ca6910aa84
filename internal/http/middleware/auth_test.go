package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"task_manager/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func identityRouter(devMode bool) (*gin.Engine, *service.TokenVerifier) {
	v := service.NewTokenVerifier("test-secret")
	r := gin.New()
	r.Use(Identity(v, devMode))
	r.GET("/whoami", func(c *gin.Context) {
		c.String(200, UserID(c))
	})
	r.GET("/token", func(c *gin.Context) {
		c.String(200, AccessToken(c))
	})
	r.GET("/private", RequireUser(), func(c *gin.Context) {
		c.String(200, "ok")
	})
	r.GET("/page", RequireViewUser("/login"), func(c *gin.Context) {
		c.String(200, "page")
	})
	return r, v
}

func TestIdentity(t *testing.T) {
	r, v := identityRouter(false)
	token, err := v.Sign("user-1", "u@example.com", time.Hour)
	require.NoError(t, err)

	cases := []struct {
		name   string
		setup  func(*http.Request)
		status int
		body   string
	}{
		{"anonymous", func(*http.Request) {}, 200, ""},
		{"bearer", func(req *http.Request) { req.Header.Set("Authorization", "Bearer "+token) }, 200, "user-1"},
		{"bad bearer", func(req *http.Request) { req.Header.Set("Authorization", "Bearer junk") }, 401, ""},
		{"not bearer", func(req *http.Request) { req.Header.Set("Authorization", "Basic abc") }, 401, ""},
		{"cookie", func(req *http.Request) { req.AddCookie(&http.Cookie{Name: TokenCookie, Value: token}) }, 200, "user-1"},
		{"stale cookie", func(req *http.Request) { req.AddCookie(&http.Cookie{Name: TokenCookie, Value: "junk"}) }, 200, ""},
		{"dev header ignored", func(req *http.Request) { req.Header.Set(DevUserHeader, "user-2") }, 200, ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
			tc.setup(req)
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			assert.Equal(t, tc.status, w.Code)
			if tc.status == 200 {
				assert.Equal(t, tc.body, w.Body.String())
			}
		})
	}
}

func TestIdentity_KeepsVerifiedToken(t *testing.T) {
	r, v := identityRouter(true)
	token, err := v.Sign("user-1", "u@example.com", time.Hour)
	require.NoError(t, err)

	get := func(setup func(*http.Request)) string {
		req := httptest.NewRequest(http.MethodGet, "/token", nil)
		setup(req)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w.Body.String()
	}

	assert.Equal(t, token, get(func(req *http.Request) { req.Header.Set("Authorization", "Bearer "+token) }))
	assert.Equal(t, token, get(func(req *http.Request) { req.AddCookie(&http.Cookie{Name: TokenCookie, Value: token}) }))
	assert.Empty(t, get(func(req *http.Request) { req.AddCookie(&http.Cookie{Name: TokenCookie, Value: "junk"}) }))
	assert.Empty(t, get(func(req *http.Request) { req.Header.Set(DevUserHeader, "user-2") }))
}

func TestIdentity_DevHeader(t *testing.T) {
	r, _ := identityRouter(true)

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set(DevUserHeader, "user-2")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, "user-2", w.Body.String())
}

func TestRequireUser(t *testing.T) {
	r, _ := identityRouter(false)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/private", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.JSONEq(t, `{"error":"Unauthorized"}`, w.Body.String())

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/page", nil))
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/login", w.Header().Get("Location"))
}
