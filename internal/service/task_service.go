package service

import (
	"context"
	"errors"
	"strings"

	"task_manager/internal/domain"
	"task_manager/internal/logger"
	"task_manager/internal/repository"

	"github.com/google/uuid"
)

// TaskStore is the datastore surface the task service needs.
// *repository.TaskRepository satisfies it.
type TaskStore interface {
	List(ctx context.Context, ownerID string) ([]*domain.Task, error)
	Create(ctx context.Context, t *domain.Task) error
	GetByID(ctx context.Context, id string) (*domain.Task, error)
	SetCompleted(ctx context.Context, id string, completed bool) (*domain.Task, error)
	Delete(ctx context.Context, id string) error
}

// TaskService translates task intents into datastore calls. It keeps no
// state between calls and does not retry.
type TaskService struct {
	store TaskStore
}

func NewTaskService(store TaskStore) *TaskService {
	return &TaskService{store: store}
}

// List returns the owner's tasks, newest first. Never nil on success.
func (s *TaskService) List(ctx context.Context, ownerID string) (tasks []*domain.Task, err error) {
	defer func() { observe("list", err) }()

	if ownerID == "" {
		return nil, notAuthorized()
	}
	tasks, err = s.store.List(ctx, ownerID)
	if err != nil {
		return nil, storageError(err)
	}
	if tasks == nil {
		tasks = []*domain.Task{}
	}
	return tasks, nil
}

// Create stores a new pending task with the trimmed title and returns the
// row as persisted.
func (s *TaskService) Create(ctx context.Context, ownerID, title string) (task *domain.Task, err error) {
	defer func() { observe("create", err) }()

	if ownerID == "" {
		return nil, notAuthorized()
	}
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, validationError("Task title cannot be empty")
	}

	t := &domain.Task{UserID: ownerID, Title: title}
	if err := s.store.Create(ctx, t); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, storageError(errors.New("no task returned after insert"))
		}
		return nil, storageError(err)
	}
	if t.ID == "" {
		return nil, storageError(errors.New("no task returned after insert"))
	}
	return t, nil
}

// Toggle sets is_completed and returns the updated row. An update that
// matches no row is a StorageError.
//
// Toggle does not check who owns the task. Request handlers only see
// ToggleAs through handlers.TaskAPI.
func (s *TaskService) Toggle(ctx context.Context, taskID string, completed bool) (task *domain.Task, err error) {
	defer func() { observe("toggle", err) }()

	if err := validateTaskID(taskID); err != nil {
		return nil, err
	}
	return s.setCompleted(ctx, taskID, completed)
}

// Delete removes the task. Missing ids are not an error.
//
// Like Toggle it skips the ownership check; request handlers use DeleteAs.
func (s *TaskService) Delete(ctx context.Context, taskID string) (err error) {
	defer func() { observe("delete", err) }()

	if err := validateTaskID(taskID); err != nil {
		return err
	}
	if err := s.store.Delete(ctx, taskID); err != nil {
		return storageError(err)
	}
	return nil
}

// ToggleAs is Toggle for callerID, who must own the task.
func (s *TaskService) ToggleAs(ctx context.Context, callerID, taskID string, completed bool) (task *domain.Task, err error) {
	defer func() { observe("toggle", err) }()

	if callerID == "" {
		return nil, notAuthorized()
	}
	if err := validateTaskID(taskID); err != nil {
		return nil, err
	}

	current, err := s.store.GetByID(ctx, taskID)
	if err != nil {
		return nil, storageError(err)
	}
	if current.UserID != callerID {
		return nil, forbidden()
	}
	return s.setCompleted(ctx, taskID, completed)
}

// DeleteAs is Delete for callerID, who must own the task if it exists.
func (s *TaskService) DeleteAs(ctx context.Context, callerID, taskID string) (err error) {
	defer func() { observe("delete", err) }()

	if callerID == "" {
		return notAuthorized()
	}
	if err := validateTaskID(taskID); err != nil {
		return err
	}

	current, err := s.store.GetByID(ctx, taskID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil
	}
	if err != nil {
		return storageError(err)
	}
	if current.UserID != callerID {
		return forbidden()
	}
	if err := s.store.Delete(ctx, taskID); err != nil {
		return storageError(err)
	}
	return nil
}

// Summary counts the owner's tasks.
func (s *TaskService) Summary(ctx context.Context, ownerID string) (domain.Summary, error) {
	tasks, err := s.List(ctx, ownerID)
	if err != nil {
		return domain.Summary{}, err
	}
	return domain.Summarize(tasks), nil
}

func (s *TaskService) setCompleted(ctx context.Context, taskID string, completed bool) (*domain.Task, error) {
	updated, err := s.store.SetCompleted(ctx, taskID, completed)
	if err != nil {
		return nil, storageError(err)
	}
	if updated == nil {
		return nil, storageError(errors.New("no task returned after update"))
	}

	// read back through the privileged path; a mismatch is only reported
	if check, err := s.store.GetByID(ctx, taskID); err != nil {
		logger.WithContext(ctx).Warn("toggle verification failed", "task_id", taskID, "error", err)
	} else if check.IsCompleted != completed {
		logger.WithContext(ctx).Warn("toggle verification mismatch",
			"task_id", taskID, "expected", completed, "got", check.IsCompleted)
	}
	return updated, nil
}

func validateTaskID(taskID string) error {
	if taskID == "" {
		return validationError("Task ID is required")
	}
	if _, err := uuid.Parse(taskID); err != nil {
		return validationError("Task ID must be a UUID")
	}
	return nil
}
