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
// Inspection Service
// ============================================

type InspectionService interface {
	Schedule(ctx context.Context, actorID, projectID, inspectionType string, scheduledFor time.Time, inspectorID *string) (*repository.Inspection, error)
	GetByID(ctx context.Context, actorID, inspectionID string) (*repository.Inspection, error)
	ListByProject(ctx context.Context, actorID, projectID string) ([]*repository.Inspection, error)
	RecordResult(ctx context.Context, actorID, inspectionID, status string, findings *string) (*repository.Inspection, error)
	Cancel(ctx context.Context, actorID, inspectionID string) error
}

type inspectionService struct {
	inspectionRepo repository.InspectionRepository
	projectRepo    repository.ProjectRepository
	permissionSvc  PermissionService
	notifSvc       *notification.Service
	broadcaster    *socket.Broadcaster
}

func NewInspectionService(
	inspectionRepo repository.InspectionRepository,
	projectRepo repository.ProjectRepository,
	permissionSvc PermissionService,
	notifSvc *notification.Service,
	broadcaster *socket.Broadcaster,
) InspectionService {
	return &inspectionService{
		inspectionRepo: inspectionRepo,
		projectRepo:    projectRepo,
		permissionSvc:  permissionSvc,
		notifSvc:       notifSvc,
		broadcaster:    broadcaster,
	}
}

func (s *inspectionService) Schedule(ctx context.Context, actorID, projectID, inspectionType string, scheduledFor time.Time, inspectorID *string) (*repository.Inspection, error) {
	if inspectionType == "" || scheduledFor.IsZero() {
		return nil, ErrInvalidInput
	}
	if !s.permissionSvc.HasPermission(ctx, projectID, actorID, types.PermInspectionManage, nil) {
		return nil, ErrForbidden
	}

	inspection := &repository.Inspection{
		ProjectID:      projectID,
		InspectionType: inspectionType,
		ScheduledFor:   scheduledFor,
		InspectorID:    inspectorID,
		Status:         types.InspectionScheduled,
		CreatedBy:      actorID,
	}
	if err := s.inspectionRepo.Create(ctx, inspection); err != nil {
		return nil, fmt.Errorf("failed to create inspection: %w", err)
	}

	if inspectorID != nil && s.notifSvc != nil {
		s.notifSvc.SendInspectionUpcoming(ctx, *inspectorID, inspectionType, inspection.ID, projectID)
	}
	if s.broadcaster != nil {
		s.broadcaster.BroadcastInspectionScheduled(projectID, map[string]interface{}{
			"id":           inspection.ID,
			"type":         inspection.InspectionType,
			"scheduledFor": inspection.ScheduledFor,
		}, actorID)
	}

	return inspection, nil
}

func (s *inspectionService) GetByID(ctx context.Context, actorID, inspectionID string) (*repository.Inspection, error) {
	inspection, err := s.inspectionRepo.FindByID(ctx, inspectionID)
	if err != nil {
		return nil, fmt.Errorf("failed to find inspection: %w", err)
	}
	if inspection == nil {
		return nil, ErrNotFound
	}

	resource := &repository.ResourceRef{Type: types.ResourceInspection, ID: inspectionID}
	if !s.permissionSvc.HasPermission(ctx, inspection.ProjectID, actorID, types.PermProjectView, resource) {
		return nil, ErrForbidden
	}
	return inspection, nil
}

func (s *inspectionService) ListByProject(ctx context.Context, actorID, projectID string) ([]*repository.Inspection, error) {
	if !s.permissionSvc.HasPermission(ctx, projectID, actorID, types.PermProjectView, nil) {
		return nil, ErrForbidden
	}
	return s.inspectionRepo.FindByProjectID(ctx, projectID)
}

func (s *inspectionService) RecordResult(ctx context.Context, actorID, inspectionID, status string, findings *string) (*repository.Inspection, error) {
	if status != types.InspectionPassed && status != types.InspectionFailed {
		return nil, ErrInvalidInput
	}

	inspection, err := s.inspectionRepo.FindByID(ctx, inspectionID)
	if err != nil {
		return nil, fmt.Errorf("failed to find inspection: %w", err)
	}
	if inspection == nil {
		return nil, ErrNotFound
	}
	if !s.permissionSvc.HasPermission(ctx, inspection.ProjectID, actorID, types.PermInspectionManage, nil) {
		return nil, ErrForbidden
	}
	if inspection.Status != types.InspectionScheduled {
		return nil, ErrInvalidState
	}

	inspection.Status = status
	inspection.Findings = findings
	if err := s.inspectionRepo.Update(ctx, inspection); err != nil {
		return nil, fmt.Errorf("failed to update inspection: %w", err)
	}

	if s.broadcaster != nil {
		s.broadcaster.BroadcastInspectionUpdated(inspection.ProjectID, map[string]interface{}{
			"id":     inspection.ID,
			"status": inspection.Status,
		}, actorID)
	}

	return inspection, nil
}

func (s *inspectionService) Cancel(ctx context.Context, actorID, inspectionID string) error {
	inspection, err := s.inspectionRepo.FindByID(ctx, inspectionID)
	if err != nil {
		return fmt.Errorf("failed to find inspection: %w", err)
	}
	if inspection == nil {
		return ErrNotFound
	}
	if !s.permissionSvc.HasPermission(ctx, inspection.ProjectID, actorID, types.PermInspectionManage, nil) {
		return ErrForbidden
	}
	if inspection.Status != types.InspectionScheduled {
		return ErrInvalidState
	}

	inspection.Status = types.InspectionCancelled
	return s.inspectionRepo.Update(ctx, inspection)
}
