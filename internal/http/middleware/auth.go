package middleware

import (
	"net/http"
	"strings"

	"task_manager/internal/service"

	"github.com/gin-gonic/gin"
)

const (
	// gin context keys
	UserIDKey = "user_id"
	EmailKey  = "email"
	TokenKey  = "token"

	TokenCookie   = "access_token"
	DevUserHeader = "X-User-Id"
)

// TokenVerifier validates access tokens issued by the auth provider.
type TokenVerifier interface {
	Verify(token string) (*service.Claims, error)
}

// Identity resolves the caller from the bearer token, then the session
// cookie, then (dev mode only) the X-User-Id header. A request without any
// identity passes through anonymous; a bad bearer token is rejected.
func Identity(v TokenVerifier, devMode bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		if h := c.GetHeader("Authorization"); h != "" {
			token, ok := strings.CutPrefix(h, "Bearer ")
			if !ok || token == "" {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid authorization header"})
				return
			}
			claims, err := v.Verify(token)
			if err != nil {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
				return
			}
			setIdentity(c, claims)
			c.Set(TokenKey, token)
			c.Next()
			return
		}

		if token, err := c.Cookie(TokenCookie); err == nil && token != "" {
			// stale cookies fall through as anonymous so views can redirect to login
			if claims, err := v.Verify(token); err == nil {
				setIdentity(c, claims)
				c.Set(TokenKey, token)
			}
			c.Next()
			return
		}

		if devMode {
			if id := strings.TrimSpace(c.GetHeader(DevUserHeader)); id != "" {
				setIdentity(c, &service.Claims{UserID: id})
			}
		}
		c.Next()
	}
}

// RequireUser rejects anonymous API requests.
func RequireUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		if UserID(c) == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		c.Next()
	}
}

// RequireViewUser redirects anonymous page requests to loginPath.
func RequireViewUser(loginPath string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if UserID(c) == "" {
			c.Redirect(http.StatusSeeOther, loginPath)
			c.Abort()
			return
		}
		c.Next()
	}
}

// UserID returns the resolved caller id, empty when anonymous.
func UserID(c *gin.Context) string {
	return c.GetString(UserIDKey)
}

func Email(c *gin.Context) string {
	return c.GetString(EmailKey)
}

// AccessToken is the verified token the caller presented. Empty for
// anonymous and dev-header callers.
func AccessToken(c *gin.Context) string {
	return c.GetString(TokenKey)
}

func setIdentity(c *gin.Context, claims *service.Claims) {
	c.Set(UserIDKey, claims.UserID)
	c.Set(EmailKey, claims.Email)
}
