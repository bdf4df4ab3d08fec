package service

import (
	"context"
	"fmt"
	"time"

	"github.com/sitegrid/sitegrid-backend/internal/notification"
	"github.com/sitegrid/sitegrid-backend/internal/repository"
	"github.com/sitegrid/sitegrid-backend/internal/socket"
	"github.com/sitegrid/sitegrid-backend/internal/types"
)

// ============================================
// Task Service
// ============================================

type TaskInput struct {
	Title       string
	Description *string
	Status      *string
	Priority    *string
	AssigneeID  *string
	DueDate     *time.Time
}

type TaskService interface {
	Create(ctx context.Context, actorID, projectID string, input TaskInput) (*repository.Task, error)
	GetByID(ctx context.Context, actorID, taskID string) (*repository.Task, error)
	ListByProject(ctx context.Context, actorID, projectID string) ([]*repository.Task, error)
	ListForAssignee(ctx context.Context, userID string) ([]*repository.Task, error)
	Update(ctx context.Context, actorID, taskID string, input TaskInput) (*repository.Task, error)
	Delete(ctx context.Context, actorID, taskID string) error
}

type taskService struct {
	taskRepo      repository.TaskRepository
	projectRepo   repository.ProjectRepository
	permissionSvc PermissionService
	notifSvc      *notification.Service
	broadcaster   *socket.Broadcaster
}

func NewTaskService(
	taskRepo repository.TaskRepository,
	projectRepo repository.ProjectRepository,
	permissionSvc PermissionService,
	notifSvc *notification.Service,
	broadcaster *socket.Broadcaster,
) TaskService {
	return &taskService{
		taskRepo:      taskRepo,
		projectRepo:   projectRepo,
		permissionSvc: permissionSvc,
		notifSvc:      notifSvc,
		broadcaster:   broadcaster,
	}
}

func (s *taskService) Create(ctx context.Context, actorID, projectID string, input TaskInput) (*repository.Task, error) {
	if input.Title == "" {
		return nil, ErrInvalidInput
	}
	if !s.permissionSvc.HasPermission(ctx, projectID, actorID, types.PermTaskManage, nil) {
		return nil, ErrForbidden
	}

	task := &repository.Task{
		ProjectID:   projectID,
		Title:       input.Title,
		Description: input.Description,
		Status:      types.TaskOpen,
		Priority:    types.PriorityMedium,
		AssigneeID:  input.AssigneeID,
		DueDate:     input.DueDate,
		CreatedBy:   actorID,
	}
	if input.Priority != nil {
		if !types.IsValidPriority(*input.Priority) {
			return nil, ErrInvalidInput
		}
		task.Priority = *input.Priority
	}

	if err := s.taskRepo.Create(ctx, task); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	if task.AssigneeID != nil && *task.AssigneeID != actorID && s.notifSvc != nil {
		s.notifSvc.SendTaskAssigned(ctx, *task.AssigneeID, task.Title, task.ID, projectID)
	}
	if s.broadcaster != nil {
		s.broadcaster.BroadcastTaskCreated(projectID, map[string]interface{}{
			"id":    task.ID,
			"title": task.Title,
		}, actorID)
	}

	return task, nil
}

func (s *taskService) GetByID(ctx context.Context, actorID, taskID string) (*repository.Task, error) {
	task, err := s.taskRepo.FindByID(ctx, taskID)
	if err != nil {
		return nil, fmt.Errorf("failed to find task: %w", err)
	}
	if task == nil {
		return nil, ErrNotFound
	}
	if !s.permissionSvc.HasPermission(ctx, task.ProjectID, actorID, types.PermProjectView, nil) {
		return nil, ErrForbidden
	}
	return task, nil
}

func (s *taskService) ListByProject(ctx context.Context, actorID, projectID string) ([]*repository.Task, error) {
	if !s.permissionSvc.HasPermission(ctx, projectID, actorID, types.PermProjectView, nil) {
		return nil, ErrForbidden
	}
	return s.taskRepo.FindByProjectID(ctx, projectID)
}

func (s *taskService) ListForAssignee(ctx context.Context, userID string) ([]*repository.Task, error) {
	return s.taskRepo.FindByAssignee(ctx, userID)
}

func (s *taskService) Update(ctx context.Context, actorID, taskID string, input TaskInput) (*repository.Task, error) {
	task, err := s.taskRepo.FindByID(ctx, taskID)
	if err != nil {
		return nil, fmt.Errorf("failed to find task: %w", err)
	}
	if task == nil {
		return nil, ErrNotFound
	}

	// The assignee may update their own task; anyone else needs task.manage
	isAssignee := task.AssigneeID != nil && *task.AssigneeID == actorID
	if !isAssignee && !s.permissionSvc.HasPermission(ctx, task.ProjectID, actorID, types.PermTaskManage, nil) {
		return nil, ErrForbidden
	}

	oldAssignee := task.AssigneeID

	if input.Title != "" {
		task.Title = input.Title
	}
	if input.Description != nil {
		task.Description = input.Description
	}
	if input.Status != nil {
		if !types.IsValidTaskStatus(*input.Status) {
			return nil, ErrInvalidInput
		}
		task.Status = *input.Status
	}
	if input.Priority != nil {
		if !types.IsValidPriority(*input.Priority) {
			return nil, ErrInvalidInput
		}
		task.Priority = *input.Priority
	}
	if input.AssigneeID != nil {
		task.AssigneeID = input.AssigneeID
	}
	if input.DueDate != nil {
		task.DueDate = input.DueDate
	}

	if err := s.taskRepo.Update(ctx, task); err != nil {
		return nil, fmt.Errorf("failed to update task: %w", err)
	}

	newlyAssigned := task.AssigneeID != nil &&
		(oldAssignee == nil || *oldAssignee != *task.AssigneeID) &&
		*task.AssigneeID != actorID
	if newlyAssigned && s.notifSvc != nil {
		s.notifSvc.SendTaskAssigned(ctx, *task.AssigneeID, task.Title, task.ID, task.ProjectID)
	}
	if s.broadcaster != nil {
		s.broadcaster.BroadcastTaskUpdated(task.ProjectID, map[string]interface{}{
			"id":     task.ID,
			"title":  task.Title,
			"status": task.Status,
		}, actorID)
	}

	return task, nil
}

func (s *taskService) Delete(ctx context.Context, actorID, taskID string) error {
	task, err := s.taskRepo.FindByID(ctx, taskID)
	if err != nil {
		return fmt.Errorf("failed to find task: %w", err)
	}
	if task == nil {
		return ErrNotFound
	}
	if !s.permissionSvc.HasPermission(ctx, task.ProjectID, actorID, types.PermTaskManage, nil) {
		return ErrForbidden
	}

	if err := s.taskRepo.Delete(ctx, taskID); err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}

	if s.broadcaster != nil {
		s.broadcaster.BroadcastTaskDeleted(task.ProjectID, taskID, actorID)
	}
	return nil
}
