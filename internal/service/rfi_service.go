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
// RFI Service
// ============================================

type RFIService interface {
	Create(ctx context.Context, actorID, projectID, subject, question string, dueDate *time.Time, assigneeID *string) (*repository.RFI, error)
	GetByID(ctx context.Context, actorID, rfiID string) (*repository.RFI, error)
	ListByProject(ctx context.Context, actorID, projectID string) ([]*repository.RFI, error)
	Answer(ctx context.Context, actorID, rfiID, answer string) (*repository.RFI, error)
	Close(ctx context.Context, actorID, rfiID string) error
}

type rfiService struct {
	rfiRepo       repository.RFIRepository
	projectRepo   repository.ProjectRepository
	permissionSvc PermissionService
	notifSvc      *notification.Service
	broadcaster   *socket.Broadcaster
}

func NewRFIService(
	rfiRepo repository.RFIRepository,
	projectRepo repository.ProjectRepository,
	permissionSvc PermissionService,
	notifSvc *notification.Service,
	broadcaster *socket.Broadcaster,
) RFIService {
	return &rfiService{
		rfiRepo:       rfiRepo,
		projectRepo:   projectRepo,
		permissionSvc: permissionSvc,
		notifSvc:      notifSvc,
		broadcaster:   broadcaster,
	}
}

func (s *rfiService) Create(ctx context.Context, actorID, projectID, subject, question string, dueDate *time.Time, assigneeID *string) (*repository.RFI, error) {
	if subject == "" || question == "" {
		return nil, ErrInvalidInput
	}
	if !s.permissionSvc.HasPermission(ctx, projectID, actorID, types.PermRFICreate, nil) {
		return nil, ErrForbidden
	}

	number, err := s.rfiRepo.NextNumber(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to allocate RFI number: %w", err)
	}

	rfi := &repository.RFI{
		ProjectID:  projectID,
		Number:     number,
		Subject:    subject,
		Question:   question,
		Status:     types.RFIOpen,
		DueDate:    dueDate,
		AssigneeID: assigneeID,
		CreatedBy:  actorID,
	}
	if err := s.rfiRepo.Create(ctx, rfi); err != nil {
		return nil, fmt.Errorf("failed to create RFI: %w", err)
	}

	if assigneeID != nil && s.notifSvc != nil {
		s.notifSvc.SendRFIAssigned(ctx, *assigneeID, subject, rfi.ID, projectID)
	}
	if s.broadcaster != nil {
		s.broadcaster.BroadcastRFICreated(projectID, map[string]interface{}{
			"id":      rfi.ID,
			"number":  rfi.Number,
			"subject": rfi.Subject,
		}, actorID)
	}

	return rfi, nil
}

func (s *rfiService) GetByID(ctx context.Context, actorID, rfiID string) (*repository.RFI, error) {
	rfi, err := s.rfiRepo.FindByID(ctx, rfiID)
	if err != nil {
		return nil, fmt.Errorf("failed to find RFI: %w", err)
	}
	if rfi == nil {
		return nil, ErrNotFound
	}

	resource := &repository.ResourceRef{Type: types.ResourceRFI, ID: rfiID}
	if !s.permissionSvc.HasPermission(ctx, rfi.ProjectID, actorID, types.PermProjectView, resource) {
		return nil, ErrForbidden
	}
	return rfi, nil
}

func (s *rfiService) ListByProject(ctx context.Context, actorID, projectID string) ([]*repository.RFI, error) {
	if !s.permissionSvc.HasPermission(ctx, projectID, actorID, types.PermProjectView, nil) {
		return nil, ErrForbidden
	}
	return s.rfiRepo.FindByProjectID(ctx, projectID)
}

func (s *rfiService) Answer(ctx context.Context, actorID, rfiID, answer string) (*repository.RFI, error) {
	if answer == "" {
		return nil, ErrInvalidInput
	}

	rfi, err := s.rfiRepo.FindByID(ctx, rfiID)
	if err != nil {
		return nil, fmt.Errorf("failed to find RFI: %w", err)
	}
	if rfi == nil {
		return nil, ErrNotFound
	}
	if !s.permissionSvc.HasPermission(ctx, rfi.ProjectID, actorID, types.PermRFIAnswer, nil) {
		return nil, ErrForbidden
	}
	if rfi.Status != types.RFIOpen {
		return nil, ErrInvalidState
	}

	now := time.Now()
	rfi.Answer = &answer
	rfi.Status = types.RFIAnswered
	rfi.AnsweredAt = &now
	if err := s.rfiRepo.Update(ctx, rfi); err != nil {
		return nil, fmt.Errorf("failed to update RFI: %w", err)
	}

	if s.notifSvc != nil {
		s.notifSvc.SendRFIAnswered(ctx, rfi.CreatedBy, rfi.Subject, rfi.ID, rfi.ProjectID)
	}
	if s.broadcaster != nil {
		s.broadcaster.BroadcastRFIAnswered(rfi.ProjectID, map[string]interface{}{
			"id":     rfi.ID,
			"number": rfi.Number,
		}, actorID)
	}

	return rfi, nil
}

func (s *rfiService) Close(ctx context.Context, actorID, rfiID string) error {
	rfi, err := s.rfiRepo.FindByID(ctx, rfiID)
	if err != nil {
		return fmt.Errorf("failed to find RFI: %w", err)
	}
	if rfi == nil {
		return ErrNotFound
	}
	// Only the asker closes their own thread
	if rfi.CreatedBy != actorID {
		return ErrForbidden
	}
	if rfi.Status == types.RFIClosed {
		return ErrInvalidState
	}

	rfi.Status = types.RFIClosed
	return s.rfiRepo.Update(ctx, rfi)
}
