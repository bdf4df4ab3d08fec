package types

// Approval request statuses
const (
	RequestDraft       = "draft"
	RequestUnderReview = "under_review"
	RequestApproved    = "approved"
	RequestRejected    = "rejected"
)

// Approval step statuses
const (
	StepDraft             = "draft"
	StepPending           = "pending"
	StepApproved          = "approved"
	StepRejected          = "rejected"
	StepRevisionRequested = "revision_requested"
)

// Decision values an approver may record on a pending step
const (
	DecisionApproved          = "approved"
	DecisionRejected          = "rejected"
	DecisionRevisionRequested = "revision_requested"
)

// Entity types that can enter an approval workflow
const (
	EntityEquipment = "equipment"
	EntityMaterial  = "material"
	EntityDocument  = "document"
)

// Submittal kinds
const (
	SubmittalEquipment = "equipment"
	SubmittalMaterial  = "material"
)

// Submittal statuses (mirror the approval request lifecycle)
const (
	SubmittalDraft             = "draft"
	SubmittalUnderReview       = "under_review"
	SubmittalApproved          = "approved"
	SubmittalRejected          = "rejected"
	SubmittalRevisionRequested = "revision_requested"
)

// Inspection statuses
const (
	InspectionScheduled = "scheduled"
	InspectionPassed    = "passed"
	InspectionFailed    = "failed"
	InspectionCancelled = "cancelled"
)

// RFI statuses
const (
	RFIOpen     = "open"
	RFIAnswered = "answered"
	RFIClosed   = "closed"
)

// Task statuses
const (
	TaskOpen       = "open"
	TaskInProgress = "in_progress"
	TaskDone       = "done"
	TaskCancelled  = "cancelled"
)

// Task priorities
const (
	PriorityUrgent = "urgent"
	PriorityHigh   = "high"
	PriorityMedium = "medium"
	PriorityLow    = "low"
)

// Built-in role names
const (
	RoleAdmin          = "admin"
	RoleProjectManager = "project_manager"
	RoleSuperintendent = "superintendent"
	RoleEngineer       = "engineer"
	RoleSubcontractor  = "subcontractor"
	RoleViewer         = "viewer"
)

// Permission strings
const (
	PermProjectView      = "project.view"
	PermProjectEdit      = "project.edit"
	PermProjectManage    = "project.manage"
	PermMemberManage     = "member.manage"
	PermSubmittalCreate  = "submittal.create"
	PermSubmittalEdit    = "submittal.edit"
	PermApprovalDecide   = "approval.decide"
	PermInspectionManage = "inspection.manage"
	PermRFICreate        = "rfi.create"
	PermRFIAnswer        = "rfi.answer"
	PermMeetingManage    = "meeting.manage"
	PermTaskManage       = "task.manage"
	PermDocumentUpload   = "document.upload"
	PermDocumentDelete   = "document.delete"
)

// Resource types used by resource-level permission rows
const (
	ResourceSubmittal  = "submittal"
	ResourceDocument   = "document"
	ResourceRFI        = "rfi"
	ResourceInspection = "inspection"
)

var ValidDecisions = []string{
	DecisionApproved, DecisionRejected, DecisionRevisionRequested,
}

var ValidEntityTypes = []string{
	EntityEquipment, EntityMaterial, EntityDocument,
}

var ValidTaskStatuses = []string{
	TaskOpen, TaskInProgress, TaskDone, TaskCancelled,
}

var ValidPriorities = []string{
	PriorityUrgent, PriorityHigh, PriorityMedium, PriorityLow,
}

var ValidRFIStatuses = []string{
	RFIOpen, RFIAnswered, RFIClosed,
}

func IsValidDecision(decision string) bool {
	for _, d := range ValidDecisions {
		if d == decision {
			return true
		}
	}
	return false
}

func IsValidEntityType(entityType string) bool {
	for _, t := range ValidEntityTypes {
		if t == entityType {
			return true
		}
	}
	return false
}

func IsValidTaskStatus(status string) bool {
	for _, s := range ValidTaskStatuses {
		if s == status {
			return true
		}
	}
	return false
}

func IsValidPriority(priority string) bool {
	for _, p := range ValidPriorities {
		if p == priority {
			return true
		}
	}
	return false
}
