package handlers

import (
	"context"
	"errors"
	"net/http"
	"sync"

	"task_manager/internal/domain"
	"task_manager/internal/http/middleware"
	"task_manager/internal/logger"
	"task_manager/internal/service"
	"task_manager/internal/supabase"

	"github.com/gin-gonic/gin"
)

// TaskAPI is the task access layer as the handlers use it.
// *service.TaskService satisfies it.
type TaskAPI interface {
	List(ctx context.Context, ownerID string) ([]*domain.Task, error)
	Create(ctx context.Context, ownerID, title string) (*domain.Task, error)
	ToggleAs(ctx context.Context, callerID, taskID string, completed bool) (*domain.Task, error)
	DeleteAs(ctx context.Context, callerID, taskID string) error
	Summary(ctx context.Context, ownerID string) (domain.Summary, error)
}

// AuthProvider is the subset of the auth API the handlers call.
// *supabase.Client satisfies it.
type AuthProvider interface {
	SignUp(ctx context.Context, email, password string, metadata map[string]any) (*supabase.User, error)
	SignIn(ctx context.Context, email, password string) (*supabase.Session, error)
	SignOut(ctx context.Context, accessToken string) error
	GetUser(ctx context.Context, accessToken string) (*supabase.User, error)
}

// HandlerConfig holds configuration for handler
type HandlerConfig struct {
	CookieSecure bool
}

type Handler struct {
	Tasks  TaskAPI
	Auth   AuthProvider
	config HandlerConfig
}

var registerOnce sync.Once

func NewHandler(tasks TaskAPI, auth AuthProvider, cfg HandlerConfig) *Handler {
	registerOnce.Do(func() {
		if err := RegisterValidators(); err != nil {
			logger.Error("register validators", "error", err)
		}
	})
	return &Handler{Tasks: tasks, Auth: auth, config: cfg}
}

// statusFor maps an error to the HTTP status it is reported with.
func statusFor(err error) int {
	var apiErr *supabase.APIError
	switch {
	case errors.Is(err, service.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrNotAuthorized):
		return http.StatusUnauthorized
	case errors.Is(err, service.ErrForbidden):
		return http.StatusForbidden
	case errors.As(err, &apiErr):
		if apiErr.Status >= 400 && apiErr.Status < 500 {
			return apiErr.Status
		}
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// writeError forwards the error message verbatim.
func writeError(c *gin.Context, err error) {
	status := statusFor(err)
	if status >= 500 {
		_ = c.Error(err)
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

func getUserID(c *gin.Context) string {
	return middleware.UserID(c)
}
