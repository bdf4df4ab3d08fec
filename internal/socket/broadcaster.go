package socket

import "fmt"

// Broadcaster provides high-level methods for broadcasting events
type Broadcaster struct {
	hub *Hub
}

// NewBroadcaster creates a new Broadcaster
func NewBroadcaster(hub *Hub) *Broadcaster {
	return &Broadcaster{hub: hub}
}

func projectRoom(projectID string) string {
	return fmt.Sprintf("project:%s", projectID)
}

// ============================================
// Notification Broadcasting
// ============================================

// SendNotification sends a notification to a specific user
func (b *Broadcaster) SendNotification(userID string, notification map[string]interface{}) {
	b.hub.SendToUser(userID, MessageNotification, notification)
}

// SendNotificationCount updates notification count for a user
func (b *Broadcaster) SendNotificationCount(userID string, total, unread int) {
	b.hub.SendToUser(userID, MessageNotificationCount, map[string]interface{}{
		"total":  total,
		"unread": unread,
	})
}

// ============================================
// Approval Broadcasting
// ============================================

// BroadcastApprovalSubmitted announces a new approval request to project members
func (b *Broadcaster) BroadcastApprovalSubmitted(projectID string, request map[string]interface{}, excludeUserID string) {
	b.hub.SendToRoom(projectRoom(projectID), MessageApprovalSubmitted, request, excludeUserID)
}

// BroadcastApprovalStepDecided announces a step decision to project members
func (b *Broadcaster) BroadcastApprovalStepDecided(projectID string, step map[string]interface{}, excludeUserID string) {
	b.hub.SendToRoom(projectRoom(projectID), MessageApprovalStepDecided, step, excludeUserID)
}

// BroadcastApprovalStatusChanged announces a request status transition
func (b *Broadcaster) BroadcastApprovalStatusChanged(projectID, requestID, oldStatus, newStatus string, excludeUserID string) {
	b.hub.SendToRoom(projectRoom(projectID), MessageApprovalStatusChanged, map[string]interface{}{
		"requestId": requestID,
		"oldStatus": oldStatus,
		"newStatus": newStatus,
	}, excludeUserID)
}

// ============================================
// Submittal / RFI / Inspection Broadcasting
// ============================================

func (b *Broadcaster) BroadcastSubmittalCreated(projectID string, submittal map[string]interface{}, excludeUserID string) {
	b.hub.SendToRoom(projectRoom(projectID), MessageSubmittalCreated, submittal, excludeUserID)
}

func (b *Broadcaster) BroadcastSubmittalUpdated(projectID string, submittal map[string]interface{}, excludeUserID string) {
	b.hub.SendToRoom(projectRoom(projectID), MessageSubmittalUpdated, submittal, excludeUserID)
}

func (b *Broadcaster) BroadcastRFICreated(projectID string, rfi map[string]interface{}, excludeUserID string) {
	b.hub.SendToRoom(projectRoom(projectID), MessageRFICreated, rfi, excludeUserID)
}

func (b *Broadcaster) BroadcastRFIAnswered(projectID string, rfi map[string]interface{}, excludeUserID string) {
	b.hub.SendToRoom(projectRoom(projectID), MessageRFIAnswered, rfi, excludeUserID)
}

func (b *Broadcaster) BroadcastInspectionScheduled(projectID string, inspection map[string]interface{}, excludeUserID string) {
	b.hub.SendToRoom(projectRoom(projectID), MessageInspectionScheduled, inspection, excludeUserID)
}

func (b *Broadcaster) BroadcastInspectionUpdated(projectID string, inspection map[string]interface{}, excludeUserID string) {
	b.hub.SendToRoom(projectRoom(projectID), MessageInspectionUpdated, inspection, excludeUserID)
}

// ============================================
// Task Broadcasting
// ============================================

// BroadcastTaskCreated broadcasts task creation to project members
func (b *Broadcaster) BroadcastTaskCreated(projectID string, task map[string]interface{}, excludeUserID string) {
	b.hub.SendToRoom(projectRoom(projectID), MessageTaskCreated, task, excludeUserID)
}

// BroadcastTaskUpdated broadcasts task updates to project members
func (b *Broadcaster) BroadcastTaskUpdated(projectID string, task map[string]interface{}, excludeUserID string) {
	b.hub.SendToRoom(projectRoom(projectID), MessageTaskUpdated, task, excludeUserID)
}

// BroadcastTaskDeleted broadcasts task deletion to project members
func (b *Broadcaster) BroadcastTaskDeleted(projectID, taskID string, excludeUserID string) {
	b.hub.SendToRoom(projectRoom(projectID), MessageTaskDeleted, map[string]interface{}{
		"taskId": taskID,
	}, excludeUserID)
}

// ============================================
// Project Broadcasting
// ============================================

func (b *Broadcaster) BroadcastProjectUpdated(projectID string, project map[string]interface{}, excludeUserID string) {
	b.hub.SendToRoom(projectRoom(projectID), MessageProjectUpdated, project, excludeUserID)
}

func (b *Broadcaster) BroadcastMemberAdded(projectID string, member map[string]interface{}, excludeUserID string) {
	b.hub.SendToRoom(projectRoom(projectID), MessageMemberAdded, member, excludeUserID)
}

func (b *Broadcaster) BroadcastMemberRemoved(projectID, userID string, excludeUserID string) {
	b.hub.SendToRoom(projectRoom(projectID), MessageMemberRemoved, map[string]interface{}{
		"userId": userID,
	}, excludeUserID)
}

func (b *Broadcaster) BroadcastMemberRoleUpdated(projectID string, member map[string]interface{}, excludeUserID string) {
	b.hub.SendToRoom(projectRoom(projectID), MessageMemberRoleUpdated, member, excludeUserID)
}
