package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/sitegrid/sitegrid-backend/internal/notification"
	"github.com/sitegrid/sitegrid-backend/internal/repository"
	"github.com/sitegrid/sitegrid-backend/internal/socket"
	"github.com/sitegrid/sitegrid-backend/internal/types"
)

// ============================================
// Approval Service
// ============================================

type ApprovalService interface {
	// CreateRequest materializes one step per workflow config entry. The
	// request starts in draft; nothing is pending until Submit.
	CreateRequest(ctx context.Context, actorID, projectID, entityType, entityID string, config []repository.WorkflowStepConfig) (*repository.ApprovalRequest, error)

	// Submit moves a draft request to under_review and its first step to pending.
	Submit(ctx context.Context, actorID, requestID string) (*repository.ApprovalRequest, error)

	// RecordDecision applies an approver's decision to the next pending step
	// and recomputes the request's aggregate status.
	RecordDecision(ctx context.Context, actorID, stepID, decision string, comments *string) (*repository.ApprovalRequest, error)

	// ReopenStep puts a revision_requested step back to pending so the
	// approver can re-review after the creator revised the entity.
	ReopenStep(ctx context.Context, actorID, stepID string) (*repository.ApprovalRequest, error)

	GetRequest(ctx context.Context, actorID, requestID string) (*repository.ApprovalRequest, error)
	ListByProject(ctx context.Context, actorID, projectID string) ([]*repository.ApprovalRequest, error)
	GetRequestForEntity(ctx context.Context, actorID, entityType, entityID string) (*repository.ApprovalRequest, error)
}

type approvalService struct {
	approvalRepo  repository.ApprovalRepository
	projectRepo   repository.ProjectRepository
	roleRepo      repository.RoleRepository
	submittalRepo repository.SubmittalRepository
	permissionSvc PermissionService
	notifSvc      *notification.Service
	broadcaster   *socket.Broadcaster
}

func NewApprovalService(
	approvalRepo repository.ApprovalRepository,
	projectRepo repository.ProjectRepository,
	roleRepo repository.RoleRepository,
	submittalRepo repository.SubmittalRepository,
	permissionSvc PermissionService,
	notifSvc *notification.Service,
	broadcaster *socket.Broadcaster,
) ApprovalService {
	return &approvalService{
		approvalRepo:  approvalRepo,
		projectRepo:   projectRepo,
		roleRepo:      roleRepo,
		submittalRepo: submittalRepo,
		permissionSvc: permissionSvc,
		notifSvc:      notifSvc,
		broadcaster:   broadcaster,
	}
}

func (s *approvalService) CreateRequest(ctx context.Context, actorID, projectID, entityType, entityID string, config []repository.WorkflowStepConfig) (*repository.ApprovalRequest, error) {
	if !types.IsValidEntityType(entityType) {
		return nil, ErrInvalidInput
	}
	if len(config) == 0 {
		return nil, ErrInvalidInput
	}
	for _, entry := range config {
		// Exactly one approver spec per step
		if (entry.ApproverID == nil) == (entry.ApproverRole == nil) {
			return nil, ErrInvalidInput
		}
	}

	member, err := s.projectRepo.FindMember(ctx, projectID, actorID)
	if err != nil {
		return nil, fmt.Errorf("failed to find member: %w", err)
	}
	if member == nil {
		return nil, ErrForbidden
	}

	request := &repository.ApprovalRequest{
		ProjectID:      projectID,
		EntityType:     entityType,
		EntityID:       entityID,
		CurrentStatus:  types.RequestDraft,
		WorkflowConfig: config,
		CreatedBy:      actorID,
	}

	steps := make([]*repository.ApprovalStep, len(config))
	for i, entry := range config {
		steps[i] = &repository.ApprovalStep{
			StepOrder:    i,
			ApproverID:   entry.ApproverID,
			ApproverRole: entry.ApproverRole,
			Status:       types.StepDraft,
		}
	}

	if err := s.approvalRepo.CreateRequest(ctx, request, steps); err != nil {
		return nil, fmt.Errorf("failed to create approval request: %w", err)
	}

	return request, nil
}

func (s *approvalService) Submit(ctx context.Context, actorID, requestID string) (*repository.ApprovalRequest, error) {
	request, err := s.approvalRepo.FindRequestByID(ctx, requestID)
	if err != nil {
		return nil, fmt.Errorf("failed to find request: %w", err)
	}
	if request == nil {
		return nil, ErrNotFound
	}
	if request.CreatedBy != actorID {
		return nil, ErrForbidden
	}
	if request.CurrentStatus != types.RequestDraft {
		return nil, ErrInvalidState
	}
	if len(request.Steps) == 0 {
		return nil, ErrInvalidState
	}

	first := request.Steps[0]
	first.Status = types.StepPending
	if err := s.approvalRepo.UpdateStep(ctx, first); err != nil {
		return nil, fmt.Errorf("failed to update step: %w", err)
	}

	request.CurrentStatus = types.RequestUnderReview
	if err := s.approvalRepo.UpdateRequestStatus(ctx, requestID, types.RequestUnderReview); err != nil {
		return nil, fmt.Errorf("failed to update request status: %w", err)
	}

	s.syncEntityStatus(ctx, request, "")
	s.notifyStepPending(ctx, request, first)

	if s.broadcaster != nil {
		s.broadcaster.BroadcastApprovalSubmitted(request.ProjectID, map[string]interface{}{
			"requestId":  request.ID,
			"entityType": request.EntityType,
			"entityId":   request.EntityID,
		}, actorID)
	}

	return request, nil
}

func (s *approvalService) RecordDecision(ctx context.Context, actorID, stepID, decision string, comments *string) (*repository.ApprovalRequest, error) {
	if !types.IsValidDecision(decision) {
		return nil, ErrInvalidInput
	}

	step, err := s.approvalRepo.FindStepByID(ctx, stepID)
	if err != nil {
		return nil, fmt.Errorf("failed to find step: %w", err)
	}
	if step == nil {
		return nil, ErrNotFound
	}

	request, err := s.approvalRepo.FindRequestByID(ctx, step.ApprovalRequestID)
	if err != nil {
		return nil, fmt.Errorf("failed to find request: %w", err)
	}
	if request == nil {
		return nil, ErrNotFound
	}

	if !s.canDecide(ctx, request.ProjectID, actorID, step) {
		return nil, ErrForbidden
	}

	// Decisions land on the single pending step, strictly in step order.
	if request.CurrentStatus != types.RequestUnderReview || step.Status != types.StepPending {
		return nil, ErrInvalidState
	}
	for _, earlier := range request.Steps {
		if earlier.StepOrder < step.StepOrder && earlier.Status != types.StepApproved {
			return nil, ErrInvalidState
		}
	}

	now := time.Now()
	step.Status = decision
	step.Comments = comments
	step.DecidedAt = &now
	if err := s.approvalRepo.UpdateStep(ctx, step); err != nil {
		return nil, fmt.Errorf("failed to update step: %w", err)
	}

	// Advance the workflow on approval
	if decision == types.DecisionApproved {
		for _, next := range request.Steps {
			if next.StepOrder == step.StepOrder+1 {
				next.Status = types.StepPending
				if err := s.approvalRepo.UpdateStep(ctx, next); err != nil {
					return nil, fmt.Errorf("failed to update step: %w", err)
				}
				s.notifyStepPending(ctx, request, next)
			}
		}
	}

	oldStatus := request.CurrentStatus
	request.CurrentStatus = recomputeStatus(request.Steps)
	if request.CurrentStatus != oldStatus {
		if err := s.approvalRepo.UpdateRequestStatus(ctx, request.ID, request.CurrentStatus); err != nil {
			return nil, fmt.Errorf("failed to update request status: %w", err)
		}
	}

	s.syncEntityStatus(ctx, request, decision)
	s.notifyDecision(ctx, request, step, decision, comments)

	if s.broadcaster != nil {
		s.broadcaster.BroadcastApprovalStepDecided(request.ProjectID, map[string]interface{}{
			"requestId": request.ID,
			"stepId":    step.ID,
			"stepOrder": step.StepOrder,
			"decision":  decision,
		}, actorID)
		if request.CurrentStatus != oldStatus {
			s.broadcaster.BroadcastApprovalStatusChanged(request.ProjectID, request.ID, oldStatus, request.CurrentStatus, actorID)
		}
	}

	return request, nil
}

func (s *approvalService) ReopenStep(ctx context.Context, actorID, stepID string) (*repository.ApprovalRequest, error) {
	step, err := s.approvalRepo.FindStepByID(ctx, stepID)
	if err != nil {
		return nil, fmt.Errorf("failed to find step: %w", err)
	}
	if step == nil {
		return nil, ErrNotFound
	}

	request, err := s.approvalRepo.FindRequestByID(ctx, step.ApprovalRequestID)
	if err != nil {
		return nil, fmt.Errorf("failed to find request: %w", err)
	}
	if request == nil {
		return nil, ErrNotFound
	}
	if request.CreatedBy != actorID {
		return nil, ErrForbidden
	}
	if step.Status != types.StepRevisionRequested {
		return nil, ErrInvalidState
	}

	step.Status = types.StepPending
	step.Comments = nil
	step.DecidedAt = nil
	if err := s.approvalRepo.UpdateStep(ctx, step); err != nil {
		return nil, fmt.Errorf("failed to update step: %w", err)
	}

	s.syncEntityStatus(ctx, request, "")
	s.notifyStepPending(ctx, request, step)

	return s.approvalRepo.FindRequestByID(ctx, request.ID)
}

func (s *approvalService) GetRequest(ctx context.Context, actorID, requestID string) (*repository.ApprovalRequest, error) {
	request, err := s.approvalRepo.FindRequestByID(ctx, requestID)
	if err != nil {
		return nil, fmt.Errorf("failed to find request: %w", err)
	}
	if request == nil {
		return nil, ErrNotFound
	}
	if !s.permissionSvc.HasPermission(ctx, request.ProjectID, actorID, types.PermProjectView, nil) {
		return nil, ErrForbidden
	}
	return request, nil
}

func (s *approvalService) ListByProject(ctx context.Context, actorID, projectID string) ([]*repository.ApprovalRequest, error) {
	if !s.permissionSvc.HasPermission(ctx, projectID, actorID, types.PermProjectView, nil) {
		return nil, ErrForbidden
	}
	return s.approvalRepo.FindRequestsByProjectID(ctx, projectID)
}

func (s *approvalService) GetRequestForEntity(ctx context.Context, actorID, entityType, entityID string) (*repository.ApprovalRequest, error) {
	request, err := s.approvalRepo.FindRequestByEntity(ctx, entityType, entityID)
	if err != nil {
		return nil, fmt.Errorf("failed to find request: %w", err)
	}
	if request == nil {
		return nil, ErrNotFound
	}
	if !s.permissionSvc.HasPermission(ctx, request.ProjectID, actorID, types.PermProjectView, nil) {
		return nil, ErrForbidden
	}
	return request, nil
}

// recomputeStatus derives the request status from its steps: any rejection
// rejects the request, all approvals approve it, anything else keeps it in
// review.
func recomputeStatus(steps []*repository.ApprovalStep) string {
	allApproved := len(steps) > 0
	for _, step := range steps {
		if step.Status == types.StepRejected {
			return types.RequestRejected
		}
		if step.Status != types.StepApproved {
			allApproved = false
		}
	}
	if allApproved {
		return types.RequestApproved
	}
	return types.RequestUnderReview
}

// canDecide reports whether the actor is the step's named approver or holds
// its approver role on the project.
func (s *approvalService) canDecide(ctx context.Context, projectID, actorID string, step *repository.ApprovalStep) bool {
	if step.ApproverID != nil {
		return *step.ApproverID == actorID
	}
	if step.ApproverRole == nil {
		return false
	}

	member, err := s.projectRepo.FindMember(ctx, projectID, actorID)
	if err != nil || member == nil || member.RoleID == nil {
		return false
	}
	role, err := s.roleRepo.FindProjectRole(ctx, *member.RoleID)
	if err != nil || role == nil {
		return false
	}
	return role.Name == *step.ApproverRole
}

// syncEntityStatus keeps the submitted entity's own status in lockstep with
// the request.
func (s *approvalService) syncEntityStatus(ctx context.Context, request *repository.ApprovalRequest, decision string) {
	if request.EntityType != types.EntityEquipment && request.EntityType != types.EntityMaterial {
		return
	}

	status := ""
	switch request.CurrentStatus {
	case types.RequestApproved:
		status = types.SubmittalApproved
	case types.RequestRejected:
		status = types.SubmittalRejected
	case types.RequestUnderReview:
		if decision == types.DecisionRevisionRequested {
			status = types.SubmittalRevisionRequested
		} else {
			status = types.SubmittalUnderReview
		}
	}
	if status == "" {
		return
	}

	if err := s.submittalRepo.UpdateStatus(ctx, request.EntityID, status); err != nil {
		log.Printf("[Approval] Failed to sync submittal %s status: %v", request.EntityID, err)
	}
}

// notifyStepPending alerts whoever can decide the step.
func (s *approvalService) notifyStepPending(ctx context.Context, request *repository.ApprovalRequest, step *repository.ApprovalStep) {
	if s.notifSvc == nil {
		return
	}

	entityName := s.entityName(ctx, request)

	if step.ApproverID != nil {
		s.notifSvc.SendApprovalStepPending(ctx, *step.ApproverID, entityName, request.ID, request.ProjectID)
		return
	}
	if step.ApproverRole == nil {
		return
	}

	members, err := s.projectRepo.FindMembers(ctx, request.ProjectID)
	if err != nil {
		return
	}
	for _, member := range members {
		if member.RoleID == nil {
			continue
		}
		role, err := s.roleRepo.FindProjectRole(ctx, *member.RoleID)
		if err != nil || role == nil || role.Name != *step.ApproverRole {
			continue
		}
		s.notifSvc.SendApprovalStepPending(ctx, member.UserID, entityName, request.ID, request.ProjectID)
	}
}

func (s *approvalService) notifyDecision(ctx context.Context, request *repository.ApprovalRequest, step *repository.ApprovalStep, decision string, comments *string) {
	if s.notifSvc == nil {
		return
	}

	entityName := s.entityName(ctx, request)

	if decision == types.DecisionRevisionRequested {
		text := ""
		if comments != nil {
			text = *comments
		}
		s.notifSvc.SendRevisionRequested(ctx, request.CreatedBy, entityName, text, request.ID, request.ProjectID)
		return
	}
	s.notifSvc.SendApprovalDecided(ctx, request.CreatedBy, entityName, decision, request.ID, request.ProjectID)
}

func (s *approvalService) entityName(ctx context.Context, request *repository.ApprovalRequest) string {
	if request.EntityType == types.EntityEquipment || request.EntityType == types.EntityMaterial {
		if submittal, err := s.submittalRepo.FindByID(ctx, request.EntityID); err == nil && submittal != nil {
			return submittal.Name
		}
	}
	return request.EntityType + " " + request.EntityID
}
