package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

type CreateTaskRequest struct {
	Title *string `json:"title"`
}

// ListTasks returns the caller's tasks, newest first.
func (h *Handler) ListTasks(c *gin.Context) {
	tasks, err := h.Tasks.List(c.Request.Context(), getUserID(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, tasks)
}

// TaskSummary returns total/pending/completed counts for the caller.
func (h *Handler) TaskSummary(c *gin.Context) {
	summary, err := h.Tasks.Summary(c.Request.Context(), getUserID(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

// CreateTask expects {"title": string}.
func (h *Handler) CreateTask(c *gin.Context) {
	userID := getUserID(c)
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Title == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Title is required"})
		return
	}

	task, err := h.Tasks.Create(c.Request.Context(), userID, *req.Title)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, task)
}

// UpdateTask handles PATCH /tasks?id=&is_completed=.
func (h *Handler) UpdateTask(c *gin.Context) {
	userID := getUserID(c)
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	id := c.Query("id")
	raw := c.Query("is_completed")
	if id == "" || raw == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Task ID and status are required"})
		return
	}
	completed, err := strconv.ParseBool(raw)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "is_completed must be true or false"})
		return
	}

	task, err := h.Tasks.ToggleAs(c.Request.Context(), userID, id, completed)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, task)
}

// DeleteTask handles DELETE /tasks?id=.
func (h *Handler) DeleteTask(c *gin.Context) {
	userID := getUserID(c)
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	id := c.Query("id")
	if id == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Task ID is required"})
		return
	}

	if err := h.Tasks.DeleteAs(c.Request.Context(), userID, id); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Deleted"})
}
