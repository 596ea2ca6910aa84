package handlers

import (
	"net/http"
	"net/url"
	"strconv"

	"task_manager/internal/domain"
	"task_manager/internal/http/middleware"

	"github.com/gin-gonic/gin"
)

// page fills the fields every template expects.
func page(c *gin.Context, title string, data gin.H) gin.H {
	out := gin.H{
		"Title":   title,
		"Error":   c.Query("error"),
		"Message": c.Query("message"),
		"Email":   "",
		"Form":    RegisterRequest{},
	}
	for k, v := range data {
		out[k] = v
	}
	return out
}

func redirectWith(c *gin.Context, path, key, value string) {
	if value != "" {
		path += "?" + url.Values{key: {value}}.Encode()
	}
	c.Redirect(http.StatusSeeOther, path)
}

func (h *Handler) LoginPage(c *gin.Context) {
	if getUserID(c) != "" {
		c.Redirect(http.StatusSeeOther, "/tasks")
		return
	}
	c.HTML(http.StatusOK, "login.tmpl", page(c, "Sign in", nil))
}

func (h *Handler) LoginSubmit(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBind(&req); err != nil {
		c.HTML(http.StatusBadRequest, "login.tmpl", page(c, "Sign in", gin.H{
			"Error": validationMessage(err),
			"Email": req.Email,
		}))
		return
	}

	if _, err := h.login(c, req); err != nil {
		c.HTML(statusFor(err), "login.tmpl", page(c, "Sign in", gin.H{
			"Error": err.Error(),
			"Email": req.Email,
		}))
		return
	}
	c.Redirect(http.StatusSeeOther, "/tasks")
}

func (h *Handler) RegisterPage(c *gin.Context) {
	c.HTML(http.StatusOK, "register.tmpl", page(c, "Create Account", nil))
}

func (h *Handler) RegisterSubmit(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBind(&req); err != nil {
		c.HTML(http.StatusBadRequest, "register.tmpl", page(c, "Create Account", gin.H{
			"Error": validationMessage(err),
			"Form":  RegisterRequest{Name: req.Name, Phone: req.Phone, Email: req.Email},
		}))
		return
	}

	if err := h.register(c.Request.Context(), req); err != nil {
		c.HTML(statusFor(err), "register.tmpl", page(c, "Create Account", gin.H{
			"Error": err.Error(),
			"Form":  RegisterRequest{Name: req.Name, Phone: req.Phone, Email: req.Email},
		}))
		return
	}
	redirectWith(c, "/login", "message", registeredMessage)
}

func (h *Handler) LogoutSubmit(c *gin.Context) {
	h.logout(c)
	c.Redirect(http.StatusSeeOther, "/login")
}

// TasksPage re-fetches the caller's tasks on every view.
func (h *Handler) TasksPage(c *gin.Context) {
	tasks, err := h.Tasks.List(c.Request.Context(), getUserID(c))
	if err != nil {
		c.HTML(statusFor(err), "tasks.tmpl", page(c, "My Tasks", gin.H{
			"Error":   err.Error(),
			"Email":   middleware.Email(c),
			"Tasks":   []*domain.Task{},
			"Summary": domain.Summary{},
		}))
		return
	}

	c.HTML(http.StatusOK, "tasks.tmpl", page(c, "My Tasks", gin.H{
		"Email":   middleware.Email(c),
		"Tasks":   tasks,
		"Summary": domain.Summarize(tasks),
	}))
}

func (h *Handler) TaskCreateSubmit(c *gin.Context) {
	if _, err := h.Tasks.Create(c.Request.Context(), getUserID(c), c.PostForm("title")); err != nil {
		redirectWith(c, "/tasks", "error", err.Error())
		return
	}
	c.Redirect(http.StatusSeeOther, "/tasks")
}

func (h *Handler) TaskCompleteSubmit(c *gin.Context) {
	completed, err := strconv.ParseBool(c.DefaultPostForm("is_completed", "true"))
	if err != nil {
		redirectWith(c, "/tasks", "error", "is_completed must be true or false")
		return
	}
	if _, err := h.Tasks.ToggleAs(c.Request.Context(), getUserID(c), c.Param("id"), completed); err != nil {
		redirectWith(c, "/tasks", "error", err.Error())
		return
	}
	c.Redirect(http.StatusSeeOther, "/tasks")
}

func (h *Handler) TaskDeleteSubmit(c *gin.Context) {
	if err := h.Tasks.DeleteAs(c.Request.Context(), getUserID(c), c.Param("id")); err != nil {
		redirectWith(c, "/tasks", "error", err.Error())
		return
	}
	c.Redirect(http.StatusSeeOther, "/tasks")
}
