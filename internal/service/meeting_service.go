package service

import (
	"context"
	"fmt"
	"time"

	"github.com/sitegrid/sitegrid-backend/internal/notification"
	"github.com/sitegrid/sitegrid-backend/internal/repository"
	"github.com/sitegrid/sitegrid-backend/internal/types"
)

// ============================================
// Meeting Service
// ============================================

type MeetingService interface {
	Create(ctx context.Context, actorID, projectID, title string, scheduledAt time.Time, agenda *string, attendeeIDs []string) (*repository.Meeting, error)
	GetByID(ctx context.Context, actorID, meetingID string) (*repository.Meeting, error)
	ListByProject(ctx context.Context, actorID, projectID string) ([]*repository.Meeting, error)
	RecordMinutes(ctx context.Context, actorID, meetingID, minutes string) (*repository.Meeting, error)
	Delete(ctx context.Context, actorID, meetingID string) error
}

type meetingService struct {
	meetingRepo   repository.MeetingRepository
	projectRepo   repository.ProjectRepository
	permissionSvc PermissionService
	notifSvc      *notification.Service
}

func NewMeetingService(
	meetingRepo repository.MeetingRepository,
	projectRepo repository.ProjectRepository,
	permissionSvc PermissionService,
	notifSvc *notification.Service,
) MeetingService {
	return &meetingService{
		meetingRepo:   meetingRepo,
		projectRepo:   projectRepo,
		permissionSvc: permissionSvc,
		notifSvc:      notifSvc,
	}
}

func (s *meetingService) Create(ctx context.Context, actorID, projectID, title string, scheduledAt time.Time, agenda *string, attendeeIDs []string) (*repository.Meeting, error) {
	if title == "" || scheduledAt.IsZero() {
		return nil, ErrInvalidInput
	}
	if !s.permissionSvc.HasPermission(ctx, projectID, actorID, types.PermMeetingManage, nil) {
		return nil, ErrForbidden
	}

	// Attendees must be project members
	for _, attendeeID := range attendeeIDs {
		member, err := s.projectRepo.FindMember(ctx, projectID, attendeeID)
		if err != nil || member == nil {
			return nil, ErrInvalidInput
		}
	}

	meeting := &repository.Meeting{
		ProjectID:   projectID,
		Title:       title,
		ScheduledAt: scheduledAt,
		Agenda:      agenda,
		AttendeeIDs: attendeeIDs,
		CreatedBy:   actorID,
	}
	if err := s.meetingRepo.Create(ctx, meeting); err != nil {
		return nil, fmt.Errorf("failed to create meeting: %w", err)
	}

	if s.notifSvc != nil {
		for _, attendeeID := range attendeeIDs {
			if attendeeID != actorID {
				s.notifSvc.SendMeetingScheduled(ctx, attendeeID, title, meeting.ID, projectID)
			}
		}
	}

	return meeting, nil
}

func (s *meetingService) GetByID(ctx context.Context, actorID, meetingID string) (*repository.Meeting, error) {
	meeting, err := s.meetingRepo.FindByID(ctx, meetingID)
	if err != nil {
		return nil, fmt.Errorf("failed to find meeting: %w", err)
	}
	if meeting == nil {
		return nil, ErrNotFound
	}
	if !s.permissionSvc.HasPermission(ctx, meeting.ProjectID, actorID, types.PermProjectView, nil) {
		return nil, ErrForbidden
	}
	return meeting, nil
}

func (s *meetingService) ListByProject(ctx context.Context, actorID, projectID string) ([]*repository.Meeting, error) {
	if !s.permissionSvc.HasPermission(ctx, projectID, actorID, types.PermProjectView, nil) {
		return nil, ErrForbidden
	}
	return s.meetingRepo.FindByProjectID(ctx, projectID)
}

func (s *meetingService) RecordMinutes(ctx context.Context, actorID, meetingID, minutes string) (*repository.Meeting, error) {
	if minutes == "" {
		return nil, ErrInvalidInput
	}

	meeting, err := s.meetingRepo.FindByID(ctx, meetingID)
	if err != nil {
		return nil, fmt.Errorf("failed to find meeting: %w", err)
	}
	if meeting == nil {
		return nil, ErrNotFound
	}
	if !s.permissionSvc.HasPermission(ctx, meeting.ProjectID, actorID, types.PermMeetingManage, nil) {
		return nil, ErrForbidden
	}

	meeting.Minutes = &minutes
	if err := s.meetingRepo.Update(ctx, meeting); err != nil {
		return nil, fmt.Errorf("failed to update meeting: %w", err)
	}
	return meeting, nil
}

func (s *meetingService) Delete(ctx context.Context, actorID, meetingID string) error {
	meeting, err := s.meetingRepo.FindByID(ctx, meetingID)
	if err != nil {
		return fmt.Errorf("failed to find meeting: %w", err)
	}
	if meeting == nil {
		return ErrNotFound
	}
	if !s.permissionSvc.HasPermission(ctx, meeting.ProjectID, actorID, types.PermMeetingManage, nil) {
		return ErrForbidden
	}
	return s.meetingRepo.Delete(ctx, meetingID)
}
