package handlers

import (
	"net/http"

	"task_manager/internal/domain"
	"task_manager/internal/http/middleware"

	"github.com/gin-gonic/gin"
)

// Me returns the caller's profile from the auth provider. Dev-header
// callers carry no token and get the id alone.
func (h *Handler) Me(c *gin.Context) {
	token := middleware.AccessToken(c)
	if token == "" {
		c.JSON(http.StatusOK, &domain.User{
			ID:    middleware.UserID(c),
			Email: middleware.Email(c),
		})
		return
	}

	u, err := h.Auth.GetUser(c.Request.Context(), token)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, u.Domain())
}
