package handlers

import (
	"context"
	"net/http"
	"strings"

	"task_manager/internal/http/middleware"
	"task_manager/internal/logger"
	"task_manager/internal/supabase"

	"github.com/gin-gonic/gin"
)

const registeredMessage = "Registration successful! Please check your email for verification."

type RegisterRequest struct {
	Name            string `json:"name" form:"name" binding:"required,notblank"`
	Phone           string `json:"phone" form:"phone" binding:"required,lkphone"`
	Email           string `json:"email" form:"email" binding:"required,email"`
	Password        string `json:"password" form:"password" binding:"required,min=6"`
	ConfirmPassword string `json:"confirm_password" form:"confirm_password" binding:"required,eqfield=Password"`
}

type LoginRequest struct {
	Email    string `json:"email" form:"email" binding:"required,email"`
	Password string `json:"password" form:"password" binding:"required"`
}

func (h *Handler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validationMessage(err)})
		return
	}

	if err := h.register(c.Request.Context(), req); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": registeredMessage})
}

func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validationMessage(err)})
		return
	}

	session, err := h.login(c, req)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token":      session.AccessToken,
		"expires_in": session.ExpiresIn,
		"user": gin.H{
			"id":    session.User.ID,
			"email": session.User.Email,
		},
	})
}

func (h *Handler) Logout(c *gin.Context) {
	h.logout(c)
	c.JSON(http.StatusOK, gin.H{"message": "Logged out"})
}

func (h *Handler) register(ctx context.Context, req RegisterRequest) error {
	_, err := h.Auth.SignUp(ctx, strings.TrimSpace(req.Email), req.Password, map[string]any{
		"name":  strings.TrimSpace(req.Name),
		"phone": req.Phone,
	})
	return err
}

// login signs in and stores the access token in the session cookie.
func (h *Handler) login(c *gin.Context, req LoginRequest) (*supabase.Session, error) {
	session, err := h.Auth.SignIn(c.Request.Context(), strings.TrimSpace(req.Email), req.Password)
	if err != nil {
		return nil, err
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.TokenCookie, session.AccessToken, session.ExpiresIn, "/", "", h.config.CookieSecure, true)
	return session, nil
}

// logout clears the cookie and revokes the session at the provider. The
// provider call is best effort.
func (h *Handler) logout(c *gin.Context) {
	token, ok := strings.CutPrefix(c.GetHeader("Authorization"), "Bearer ")
	if !ok || token == "" {
		token, _ = c.Cookie(middleware.TokenCookie)
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.TokenCookie, "", -1, "/", "", h.config.CookieSecure, true)

	if token == "" {
		return
	}
	if err := h.Auth.SignOut(c.Request.Context(), token); err != nil {
		logger.WithContext(c.Request.Context()).Warn("sign out failed", "error", err)
	}
}
