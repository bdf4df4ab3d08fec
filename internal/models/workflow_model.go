package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// ============================================
// Approval Workflow
// ============================================

// WorkflowStepInput is one step of a workflow config; exactly one of
// approverId / approverRole must be set (validated in the service).
type WorkflowStepInput struct {
	Name         *string `json:"name,omitempty"`
	ApproverID   *string `json:"approverId,omitempty"`
	ApproverRole *string `json:"approverRole,omitempty"`
}

type CreateApprovalRequest struct {
	EntityType string              `json:"entityType" binding:"required"`
	EntityID   string              `json:"entityId" binding:"required"`
	Workflow   []WorkflowStepInput `json:"workflow" binding:"required,min=1"`
}

type DecisionRequest struct {
	Decision string  `json:"decision" binding:"required,oneof=approved rejected revision_requested"`
	Comments *string `json:"comments,omitempty"`
}

type ApprovalStepResponse struct {
	ID           string     `json:"id"`
	StepOrder    int        `json:"stepOrder"`
	ApproverID   *string    `json:"approverId,omitempty"`
	ApproverRole *string    `json:"approverRole,omitempty"`
	Status       string     `json:"status"`
	Comments     *string    `json:"comments,omitempty"`
	DecidedAt    *time.Time `json:"decidedAt,omitempty"`
}

type ApprovalRequestResponse struct {
	ID            string                 `json:"id"`
	ProjectID     string                 `json:"projectId"`
	EntityType    string                 `json:"entityType"`
	EntityID      string                 `json:"entityId"`
	CurrentStatus string                 `json:"currentStatus"`
	CreatedBy     string                 `json:"createdBy"`
	CreatedAt     time.Time              `json:"createdAt"`
	Steps         []ApprovalStepResponse `json:"steps"`
}

// ============================================
// Submittals
// ============================================

type CreateSubmittalRequest struct {
	Kind         string           `json:"kind" binding:"required,oneof=equipment material"`
	Name         string           `json:"name" binding:"required"`
	SpecSection  *string          `json:"specSection,omitempty"`
	Manufacturer *string          `json:"manufacturer,omitempty"`
	ModelNumber  *string          `json:"modelNumber,omitempty"`
	Quantity     int              `json:"quantity"`
	UnitCost     *decimal.Decimal `json:"unitCost,omitempty"`
}

type UpdateSubmittalRequest struct {
	Name         string           `json:"name,omitempty"`
	SpecSection  *string          `json:"specSection,omitempty"`
	Manufacturer *string          `json:"manufacturer,omitempty"`
	ModelNumber  *string          `json:"modelNumber,omitempty"`
	Quantity     int              `json:"quantity,omitempty"`
	UnitCost     *decimal.Decimal `json:"unitCost,omitempty"`
}

type SubmitSubmittalRequest struct {
	Workflow []WorkflowStepInput `json:"workflow" binding:"required,min=1"`
}

type SubmittalResponse struct {
	ID           string           `json:"id"`
	ProjectID    string           `json:"projectId"`
	Kind         string           `json:"kind"`
	Name         string           `json:"name"`
	SpecSection  *string          `json:"specSection,omitempty"`
	Manufacturer *string          `json:"manufacturer,omitempty"`
	ModelNumber  *string          `json:"modelNumber,omitempty"`
	Quantity     int              `json:"quantity"`
	UnitCost     *decimal.Decimal `json:"unitCost,omitempty"`
	TotalCost    decimal.Decimal  `json:"totalCost"`
	Status       string           `json:"status"`
	CreatedBy    string           `json:"createdBy"`
	CreatedAt    time.Time        `json:"createdAt"`
}

// ============================================
// Inspections
// ============================================

type ScheduleInspectionRequest struct {
	Type         string    `json:"type" binding:"required"`
	ScheduledFor time.Time `json:"scheduledFor" binding:"required"`
	InspectorID  *string   `json:"inspectorId,omitempty"`
}

type InspectionResultRequest struct {
	Status   string  `json:"status" binding:"required,oneof=passed failed"`
	Findings *string `json:"findings,omitempty"`
}

type InspectionResponse struct {
	ID           string    `json:"id"`
	ProjectID    string    `json:"projectId"`
	Type         string    `json:"type"`
	ScheduledFor time.Time `json:"scheduledFor"`
	InspectorID  *string   `json:"inspectorId,omitempty"`
	Status       string    `json:"status"`
	Findings     *string   `json:"findings,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
}

// ============================================
// RFIs
// ============================================

type CreateRFIRequest struct {
	Subject    string     `json:"subject" binding:"required"`
	Question   string     `json:"question" binding:"required"`
	DueDate    *time.Time `json:"dueDate,omitempty"`
	AssigneeID *string    `json:"assigneeId,omitempty"`
}

type AnswerRFIRequest struct {
	Answer string `json:"answer" binding:"required"`
}

type RFIResponse struct {
	ID         string     `json:"id"`
	ProjectID  string     `json:"projectId"`
	Number     int        `json:"number"`
	Subject    string     `json:"subject"`
	Question   string     `json:"question"`
	Answer     *string    `json:"answer,omitempty"`
	Status     string     `json:"status"`
	DueDate    *time.Time `json:"dueDate,omitempty"`
	AssigneeID *string    `json:"assigneeId,omitempty"`
	CreatedBy  string     `json:"createdBy"`
	AnsweredAt *time.Time `json:"answeredAt,omitempty"`
	CreatedAt  time.Time  `json:"createdAt"`
}

// ============================================
// Meetings
// ============================================

type CreateMeetingRequest struct {
	Title       string    `json:"title" binding:"required"`
	ScheduledAt time.Time `json:"scheduledAt" binding:"required"`
	Agenda      *string   `json:"agenda,omitempty"`
	AttendeeIDs []string  `json:"attendeeIds"`
}

type RecordMinutesRequest struct {
	Minutes string `json:"minutes" binding:"required"`
}

type MeetingResponse struct {
	ID          string    `json:"id"`
	ProjectID   string    `json:"projectId"`
	Title       string    `json:"title"`
	ScheduledAt time.Time `json:"scheduledAt"`
	Agenda      *string   `json:"agenda,omitempty"`
	Minutes     *string   `json:"minutes,omitempty"`
	AttendeeIDs []string  `json:"attendeeIds"`
	CreatedBy   string    `json:"createdBy"`
	CreatedAt   time.Time `json:"createdAt"`
}

// ============================================
// Tasks
// ============================================

type CreateTaskRequest struct {
	Title       string     `json:"title" binding:"required"`
	Description *string    `json:"description,omitempty"`
	Priority    *string    `json:"priority,omitempty"`
	AssigneeID  *string    `json:"assigneeId,omitempty"`
	DueDate     *time.Time `json:"dueDate,omitempty"`
}

type UpdateTaskRequest struct {
	Title       string     `json:"title,omitempty"`
	Description *string    `json:"description,omitempty"`
	Status      *string    `json:"status,omitempty"`
	Priority    *string    `json:"priority,omitempty"`
	AssigneeID  *string    `json:"assigneeId,omitempty"`
	DueDate     *time.Time `json:"dueDate,omitempty"`
}

type TaskResponse struct {
	ID          string     `json:"id"`
	ProjectID   string     `json:"projectId"`
	Title       string     `json:"title"`
	Description *string    `json:"description,omitempty"`
	Status      string     `json:"status"`
	Priority    string     `json:"priority"`
	AssigneeID  *string    `json:"assigneeId,omitempty"`
	DueDate     *time.Time `json:"dueDate,omitempty"`
	CreatedBy   string     `json:"createdBy"`
	CreatedAt   time.Time  `json:"createdAt"`
}

// ============================================
// Documents
// ============================================

type RegisterDocumentRequest struct {
	FileName    string  `json:"fileName" binding:"required"`
	StorageKey  string  `json:"storageKey" binding:"required"`
	ContentType *string `json:"contentType,omitempty"`
	SizeBytes   int64   `json:"sizeBytes"`
}

type DocumentResponse struct {
	ID          string    `json:"id"`
	ProjectID   string    `json:"projectId"`
	FileName    string    `json:"fileName"`
	ContentType *string   `json:"contentType,omitempty"`
	SizeBytes   int64     `json:"sizeBytes"`
	StorageKey  string    `json:"storageKey"`
	Version     int       `json:"version"`
	UploadedBy  string    `json:"uploadedBy"`
	CreatedAt   time.Time `json:"createdAt"`
}

// ============================================
// Reports
// ============================================

type ApprovalReportResponse struct {
	ProjectID             string  `json:"projectId"`
	TotalRequests         int     `json:"totalRequests"`
	DraftCount            int     `json:"draftCount"`
	UnderReviewCount      int     `json:"underReviewCount"`
	ApprovedCount         int     `json:"approvedCount"`
	RejectedCount         int     `json:"rejectedCount"`
	AvgDecisionLatencySec float64 `json:"avgDecisionLatencySec"`
}
