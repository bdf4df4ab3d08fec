package notification

import (
	"context"
	"fmt"

	"github.com/sitegrid/sitegrid-backend/internal/repository"
	"github.com/sitegrid/sitegrid-backend/internal/socket"
)

// Notification types
const (
	TypeApprovalSubmitted   = "APPROVAL_SUBMITTED"
	TypeApprovalStepPending = "APPROVAL_STEP_PENDING"
	TypeApprovalDecided     = "APPROVAL_DECIDED"
	TypeRevisionRequested   = "REVISION_REQUESTED"
	TypeApprovalStale       = "APPROVAL_STALE"
	TypeSubmittalStatus     = "SUBMITTAL_STATUS"
	TypeRFIAssigned         = "RFI_ASSIGNED"
	TypeRFIAnswered         = "RFI_ANSWERED"
	TypeRFIOverdue          = "RFI_OVERDUE"
	TypeInspectionUpcoming  = "INSPECTION_UPCOMING"
	TypeTaskAssigned        = "TASK_ASSIGNED"
	TypeMeetingScheduled    = "MEETING_SCHEDULED"
	TypeProjectInvitation   = "PROJECT_INVITATION"
	TypeMemberAdded         = "MEMBER_ADDED"
)

// Service handles sending notifications
type Service struct {
	notificationRepo repository.NotificationRepository
	userRepo         repository.UserRepository
	projectRepo      repository.ProjectRepository
	broadcaster      *socket.Broadcaster
}

// NewService creates a new notification service
func NewService(
	notificationRepo repository.NotificationRepository,
	userRepo repository.UserRepository,
	projectRepo repository.ProjectRepository,
) *Service {
	return &Service{
		notificationRepo: notificationRepo,
		userRepo:         userRepo,
		projectRepo:      projectRepo,
	}
}

func (s *Service) SetBroadcaster(b *socket.Broadcaster) {
	s.broadcaster = b
}

// ============================================
// WebSocket Helper
// ============================================

// sendWebSocketNotification sends real-time notification via WebSocket
func (s *Service) sendWebSocketNotification(ctx context.Context, notification *repository.Notification) {
	if s.broadcaster == nil || notification == nil {
		return
	}

	s.broadcaster.SendNotification(notification.UserID, map[string]interface{}{
		"id":        notification.ID,
		"type":      notification.Type,
		"title":     notification.Title,
		"message":   notification.Message,
		"data":      notification.Data,
		"read":      notification.Read,
		"createdAt": notification.CreatedAt,
	})

	if total, unread, err := s.notificationRepo.CountByUserID(ctx, notification.UserID); err == nil {
		s.broadcaster.SendNotificationCount(notification.UserID, total, unread)
	}
}

// send persists the notification and pushes it over the socket
func (s *Service) send(ctx context.Context, userID, notifType, title, message string, data map[string]interface{}) error {
	if userID == "" {
		return nil
	}

	notification := &repository.Notification{
		UserID:  userID,
		Type:    notifType,
		Title:   title,
		Message: message,
		Data:    data,
	}

	if err := s.notificationRepo.Create(ctx, notification); err != nil {
		return fmt.Errorf("failed to create notification: %w", err)
	}

	s.sendWebSocketNotification(ctx, notification)
	return nil
}

// ============================================
// Approval Notifications
// ============================================

// SendApprovalStepPending notifies an approver that a step awaits their decision
func (s *Service) SendApprovalStepPending(ctx context.Context, approverID, entityName, requestID, projectID string) error {
	return s.send(ctx, approverID, TypeApprovalStepPending,
		"Approval needed",
		fmt.Sprintf("%q is waiting for your review", entityName),
		map[string]interface{}{
			"requestId": requestID,
			"projectId": projectID,
		})
}

// SendApprovalDecided notifies the request creator of a step decision
func (s *Service) SendApprovalDecided(ctx context.Context, creatorID, entityName, decision, requestID, projectID string) error {
	return s.send(ctx, creatorID, TypeApprovalDecided,
		"Approval update",
		fmt.Sprintf("%q was %s", entityName, decision),
		map[string]interface{}{
			"requestId": requestID,
			"projectId": projectID,
			"decision":  decision,
		})
}

// SendRevisionRequested notifies the creator that an approver asked for changes
func (s *Service) SendRevisionRequested(ctx context.Context, creatorID, entityName, comments, requestID, projectID string) error {
	return s.send(ctx, creatorID, TypeRevisionRequested,
		"Revision requested",
		fmt.Sprintf("Changes requested on %q: %s", entityName, comments),
		map[string]interface{}{
			"requestId": requestID,
			"projectId": projectID,
		})
}

// SendApprovalStale reminds an approver of a request sitting in review
func (s *Service) SendApprovalStale(ctx context.Context, approverID, entityName, requestID, projectID string) error {
	return s.send(ctx, approverID, TypeApprovalStale,
		"Approval still pending",
		fmt.Sprintf("%q has been waiting for review", entityName),
		map[string]interface{}{
			"requestId": requestID,
			"projectId": projectID,
		})
}

// ============================================
// Submittal / RFI / Inspection Notifications
// ============================================

// SendSubmittalStatus notifies the submittal creator of a status change
func (s *Service) SendSubmittalStatus(ctx context.Context, creatorID, submittalName, status, submittalID, projectID string) error {
	return s.send(ctx, creatorID, TypeSubmittalStatus,
		"Submittal update",
		fmt.Sprintf("Submittal %q is now %s", submittalName, status),
		map[string]interface{}{
			"submittalId": submittalID,
			"projectId":   projectID,
			"status":      status,
		})
}

// SendRFIAssigned notifies the assignee of a new RFI
func (s *Service) SendRFIAssigned(ctx context.Context, assigneeID, subject, rfiID, projectID string) error {
	return s.send(ctx, assigneeID, TypeRFIAssigned,
		"RFI assigned",
		fmt.Sprintf("RFI %q needs an answer", subject),
		map[string]interface{}{
			"rfiId":     rfiID,
			"projectId": projectID,
		})
}

// SendRFIAnswered notifies the RFI creator that an answer was posted
func (s *Service) SendRFIAnswered(ctx context.Context, creatorID, subject, rfiID, projectID string) error {
	return s.send(ctx, creatorID, TypeRFIAnswered,
		"RFI answered",
		fmt.Sprintf("RFI %q has been answered", subject),
		map[string]interface{}{
			"rfiId":     rfiID,
			"projectId": projectID,
		})
}

// SendRFIOverdue notifies the assignee that an RFI is past its due date
func (s *Service) SendRFIOverdue(ctx context.Context, assigneeID, subject, rfiID, projectID string) error {
	return s.send(ctx, assigneeID, TypeRFIOverdue,
		"RFI overdue",
		fmt.Sprintf("RFI %q is past its due date", subject),
		map[string]interface{}{
			"rfiId":     rfiID,
			"projectId": projectID,
		})
}

// SendInspectionUpcoming reminds the inspector of a scheduled inspection
func (s *Service) SendInspectionUpcoming(ctx context.Context, inspectorID, inspectionType, inspectionID, projectID string) error {
	return s.send(ctx, inspectorID, TypeInspectionUpcoming,
		"Inspection coming up",
		fmt.Sprintf("A %s inspection is scheduled soon", inspectionType),
		map[string]interface{}{
			"inspectionId": inspectionID,
			"projectId":    projectID,
		})
}

// ============================================
// Task / Meeting / Membership Notifications
// ============================================

// SendTaskAssigned sends a notification when a task is assigned
func (s *Service) SendTaskAssigned(ctx context.Context, userID, taskTitle, taskID, projectID string) error {
	return s.send(ctx, userID, TypeTaskAssigned,
		"Task assigned",
		fmt.Sprintf("You were assigned %q", taskTitle),
		map[string]interface{}{
			"taskId":    taskID,
			"projectId": projectID,
		})
}

// SendMeetingScheduled notifies an attendee of a new meeting
func (s *Service) SendMeetingScheduled(ctx context.Context, userID, title, meetingID, projectID string) error {
	return s.send(ctx, userID, TypeMeetingScheduled,
		"Meeting scheduled",
		fmt.Sprintf("You were added to %q", title),
		map[string]interface{}{
			"meetingId": meetingID,
			"projectId": projectID,
		})
}

// SendMemberAdded notifies a user they were added to a project
func (s *Service) SendMemberAdded(ctx context.Context, userID, projectID string) error {
	projectName := "a project"
	if project, err := s.projectRepo.FindByID(ctx, projectID); err == nil && project != nil {
		projectName = project.Name
	}
	return s.send(ctx, userID, TypeMemberAdded,
		"Added to project",
		fmt.Sprintf("You were added to %s", projectName),
		map[string]interface{}{
			"projectId": projectID,
		})
}

// ============================================
// Read / Cleanup passthroughs
// ============================================

// MarkAsRead marks a notification read and refreshes the unread count
func (s *Service) MarkAsRead(ctx context.Context, userID, notificationID string) error {
	if err := s.notificationRepo.MarkAsRead(ctx, notificationID); err != nil {
		return err
	}
	if s.broadcaster != nil {
		if total, unread, err := s.notificationRepo.CountByUserID(ctx, userID); err == nil {
			s.broadcaster.SendNotificationCount(userID, total, unread)
		}
	}
	return nil
}

// MarkAllAsRead marks every notification for the user as read
func (s *Service) MarkAllAsRead(ctx context.Context, userID string) error {
	if err := s.notificationRepo.MarkAllAsRead(ctx, userID); err != nil {
		return err
	}
	if s.broadcaster != nil {
		if total, unread, err := s.notificationRepo.CountByUserID(ctx, userID); err == nil {
			s.broadcaster.SendNotificationCount(userID, total, unread)
		}
	}
	return nil
}
