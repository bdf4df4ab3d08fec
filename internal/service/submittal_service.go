package service

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/sitegrid/sitegrid-backend/internal/repository"
	"github.com/sitegrid/sitegrid-backend/internal/socket"
	"github.com/sitegrid/sitegrid-backend/internal/types"
)

// ============================================
// Submittal Service
// ============================================

type SubmittalInput struct {
	Kind         string
	Name         string
	SpecSection  *string
	Manufacturer *string
	ModelNumber  *string
	Quantity     int
	UnitCost     *decimal.Decimal
}

type SubmittalService interface {
	Create(ctx context.Context, actorID, projectID string, input SubmittalInput) (*repository.Submittal, error)
	GetByID(ctx context.Context, actorID, submittalID string) (*repository.Submittal, error)
	ListByProject(ctx context.Context, actorID, projectID string) ([]*repository.Submittal, error)
	Update(ctx context.Context, actorID, submittalID string, input SubmittalInput) (*repository.Submittal, error)
	Delete(ctx context.Context, actorID, submittalID string) error

	// Submit creates the approval request from the workflow config and puts
	// it under review; the submittal status follows the request from then on.
	Submit(ctx context.Context, actorID, submittalID string, workflow []repository.WorkflowStepConfig) (*repository.ApprovalRequest, error)
}

type submittalService struct {
	submittalRepo repository.SubmittalRepository
	projectRepo   repository.ProjectRepository
	approvalSvc   ApprovalService
	permissionSvc PermissionService
	broadcaster   *socket.Broadcaster
}

func NewSubmittalService(
	submittalRepo repository.SubmittalRepository,
	projectRepo repository.ProjectRepository,
	approvalSvc ApprovalService,
	permissionSvc PermissionService,
	broadcaster *socket.Broadcaster,
) SubmittalService {
	return &submittalService{
		submittalRepo: submittalRepo,
		projectRepo:   projectRepo,
		approvalSvc:   approvalSvc,
		permissionSvc: permissionSvc,
		broadcaster:   broadcaster,
	}
}

func (s *submittalService) Create(ctx context.Context, actorID, projectID string, input SubmittalInput) (*repository.Submittal, error) {
	if input.Name == "" {
		return nil, ErrInvalidInput
	}
	if input.Kind != types.SubmittalEquipment && input.Kind != types.SubmittalMaterial {
		return nil, ErrInvalidInput
	}
	if !s.permissionSvc.HasPermission(ctx, projectID, actorID, types.PermSubmittalCreate, nil) {
		return nil, ErrForbidden
	}

	quantity := input.Quantity
	if quantity <= 0 {
		quantity = 1
	}

	submittal := &repository.Submittal{
		ProjectID:    projectID,
		Kind:         input.Kind,
		Name:         input.Name,
		SpecSection:  input.SpecSection,
		Manufacturer: input.Manufacturer,
		ModelNumber:  input.ModelNumber,
		Quantity:     quantity,
		UnitCost:     input.UnitCost,
		Status:       types.SubmittalDraft,
		CreatedBy:    actorID,
	}
	if err := s.submittalRepo.Create(ctx, submittal); err != nil {
		return nil, fmt.Errorf("failed to create submittal: %w", err)
	}

	if s.broadcaster != nil {
		s.broadcaster.BroadcastSubmittalCreated(projectID, map[string]interface{}{
			"id":   submittal.ID,
			"name": submittal.Name,
			"kind": submittal.Kind,
		}, actorID)
	}

	return submittal, nil
}

func (s *submittalService) GetByID(ctx context.Context, actorID, submittalID string) (*repository.Submittal, error) {
	submittal, err := s.submittalRepo.FindByID(ctx, submittalID)
	if err != nil {
		return nil, fmt.Errorf("failed to find submittal: %w", err)
	}
	if submittal == nil {
		return nil, ErrNotFound
	}

	resource := &repository.ResourceRef{Type: types.ResourceSubmittal, ID: submittalID}
	if !s.permissionSvc.HasPermission(ctx, submittal.ProjectID, actorID, types.PermProjectView, resource) {
		return nil, ErrForbidden
	}
	return submittal, nil
}

func (s *submittalService) ListByProject(ctx context.Context, actorID, projectID string) ([]*repository.Submittal, error) {
	if !s.permissionSvc.HasPermission(ctx, projectID, actorID, types.PermProjectView, nil) {
		return nil, ErrForbidden
	}
	return s.submittalRepo.FindByProjectID(ctx, projectID)
}

func (s *submittalService) Update(ctx context.Context, actorID, submittalID string, input SubmittalInput) (*repository.Submittal, error) {
	submittal, err := s.submittalRepo.FindByID(ctx, submittalID)
	if err != nil {
		return nil, fmt.Errorf("failed to find submittal: %w", err)
	}
	if submittal == nil {
		return nil, ErrNotFound
	}

	resource := &repository.ResourceRef{Type: types.ResourceSubmittal, ID: submittalID}
	if !s.permissionSvc.HasPermission(ctx, submittal.ProjectID, actorID, types.PermSubmittalEdit, resource) {
		return nil, ErrForbidden
	}

	// Only editable before review or while a revision is pending
	if submittal.Status != types.SubmittalDraft && submittal.Status != types.SubmittalRevisionRequested {
		return nil, ErrInvalidState
	}

	if input.Name != "" {
		submittal.Name = input.Name
	}
	if input.SpecSection != nil {
		submittal.SpecSection = input.SpecSection
	}
	if input.Manufacturer != nil {
		submittal.Manufacturer = input.Manufacturer
	}
	if input.ModelNumber != nil {
		submittal.ModelNumber = input.ModelNumber
	}
	if input.Quantity > 0 {
		submittal.Quantity = input.Quantity
	}
	if input.UnitCost != nil {
		submittal.UnitCost = input.UnitCost
	}

	if err := s.submittalRepo.Update(ctx, submittal); err != nil {
		return nil, fmt.Errorf("failed to update submittal: %w", err)
	}

	if s.broadcaster != nil {
		s.broadcaster.BroadcastSubmittalUpdated(submittal.ProjectID, map[string]interface{}{
			"id":     submittal.ID,
			"name":   submittal.Name,
			"status": submittal.Status,
		}, actorID)
	}

	return submittal, nil
}

func (s *submittalService) Delete(ctx context.Context, actorID, submittalID string) error {
	submittal, err := s.submittalRepo.FindByID(ctx, submittalID)
	if err != nil {
		return fmt.Errorf("failed to find submittal: %w", err)
	}
	if submittal == nil {
		return ErrNotFound
	}

	resource := &repository.ResourceRef{Type: types.ResourceSubmittal, ID: submittalID}
	if !s.permissionSvc.HasPermission(ctx, submittal.ProjectID, actorID, types.PermSubmittalEdit, resource) {
		return ErrForbidden
	}
	if submittal.Status != types.SubmittalDraft {
		return ErrInvalidState
	}

	return s.submittalRepo.Delete(ctx, submittalID)
}

func (s *submittalService) Submit(ctx context.Context, actorID, submittalID string, workflow []repository.WorkflowStepConfig) (*repository.ApprovalRequest, error) {
	submittal, err := s.submittalRepo.FindByID(ctx, submittalID)
	if err != nil {
		return nil, fmt.Errorf("failed to find submittal: %w", err)
	}
	if submittal == nil {
		return nil, ErrNotFound
	}
	if submittal.Status != types.SubmittalDraft {
		return nil, ErrInvalidState
	}

	entityType := types.EntityMaterial
	if submittal.Kind == types.SubmittalEquipment {
		entityType = types.EntityEquipment
	}

	request, err := s.approvalSvc.CreateRequest(ctx, actorID, submittal.ProjectID, entityType, submittal.ID, workflow)
	if err != nil {
		return nil, err
	}

	return s.approvalSvc.Submit(ctx, actorID, request.ID)
}
