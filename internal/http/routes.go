package http

import (
	"time"

	"task_manager/internal/http/handlers"
	"task_manager/internal/http/middleware"
	"task_manager/internal/http/views"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// RouteConfig carries what RegisterRoutes needs beyond the handlers.
type RouteConfig struct {
	Verifier middleware.TokenVerifier
	Limiter  *middleware.RateLimiter
	DevMode  bool

	APIRateLimit   int
	APIRateWindow  time.Duration
	AuthRateLimit  int
	AuthRateWindow time.Duration
}

// NewEngine returns a gin engine with recovery, request logging, metrics
// and CORS installed. Only allowedOrigins get CORS headers; with none, the
// API is same-origin only.
func NewEngine(allowedOrigins []string) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestLogger(), middleware.Metrics())
	r.Use(cors(allowedOrigins))
	return r
}

// cors reflects listed origins. Credentials are allowed, so the session
// cookie is readable by exactly those origins.
func cors(allowedOrigins []string) gin.HandlerFunc {
	allowed := make(map[string]bool, len(allowedOrigins))
	for _, o := range allowedOrigins {
		allowed[o] = true
	}

	return func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")
		if origin != "" && allowed[origin] {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
			c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
			c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
			c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PATCH, DELETE, OPTIONS")
			c.Writer.Header().Add("Vary", "Origin")
			if c.Request.Method == "OPTIONS" {
				c.AbortWithStatus(204)
				return
			}
		}
		c.Next()
	}
}

func RegisterRoutes(r *gin.Engine, h *handlers.Handler, health *handlers.HealthHandler, cfg RouteConfig) error {
	tmpl, err := views.Templates()
	if err != nil {
		return err
	}
	r.SetHTMLTemplate(tmpl)

	limiter := cfg.Limiter
	if limiter == nil {
		limiter = middleware.NewRateLimiter(nil)
	}

	// Health checks and metrics (no rate limiting)
	r.GET("/health", health.Health)
	r.GET("/healthz", health.Liveness)
	r.GET("/readyz", health.Readiness)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	identity := middleware.Identity(cfg.Verifier, cfg.DevMode)
	apiRL := limiter.Limit("api", cfg.APIRateLimit, cfg.APIRateWindow)
	authRL := limiter.Limit("auth", cfg.AuthRateLimit, cfg.AuthRateWindow)

	// API v1 routes, plus the unversioned /api prefix
	for _, prefix := range []string{"/api/v1", "/api"} {
		api := r.Group(prefix)
		api.Use(identity, apiRL)
		registerAPIRoutes(api, h, authRL)
	}

	// Pages
	pages := r.Group("/")
	pages.Use(identity)
	pages.GET("/", func(c *gin.Context) { c.Redirect(303, "/tasks") })
	pages.GET("/login", h.LoginPage)
	pages.POST("/login", authRL, h.LoginSubmit)
	pages.GET("/register", h.RegisterPage)
	pages.POST("/register", authRL, h.RegisterSubmit)
	pages.POST("/logout", h.LogoutSubmit)

	tasks := pages.Group("/tasks")
	tasks.Use(middleware.RequireViewUser("/login"), apiRL)
	{
		tasks.GET("", h.TasksPage)
		tasks.POST("", h.TaskCreateSubmit)
		tasks.POST("/:id/complete", h.TaskCompleteSubmit)
		tasks.POST("/:id/delete", h.TaskDeleteSubmit)
	}
	return nil
}

func registerAPIRoutes(api *gin.RouterGroup, h *handlers.Handler, authRL gin.HandlerFunc) {
	// Auth
	auth := api.Group("/auth")
	{
		auth.POST("/register", authRL, h.Register)
		auth.POST("/login", authRL, h.Login)
		auth.POST("/logout", h.Logout)
	}
	api.GET("/me", middleware.RequireUser(), h.Me)

	// Tasks, located by query string for PATCH and DELETE
	api.GET("/tasks", h.ListTasks)
	api.GET("/tasks/summary", h.TaskSummary)
	api.POST("/tasks", h.CreateTask)
	api.PATCH("/tasks", h.UpdateTask)
	api.DELETE("/tasks", h.DeleteTask)
}
