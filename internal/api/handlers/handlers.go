package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sitegrid/sitegrid-backend/internal/models"
	"github.com/sitegrid/sitegrid-backend/internal/repository"
	"github.com/sitegrid/sitegrid-backend/internal/service"
)

// Handlers contains all HTTP handlers
type Handlers struct {
	Auth         *AuthHandler
	User         *UserHandler
	Organization *OrganizationHandler
	Role         *RoleHandler
	Project      *ProjectHandler
	Permission   *PermissionHandler
	Approval     *ApprovalHandler
	Submittal    *SubmittalHandler
	Inspection   *InspectionHandler
	RFI          *RFIHandler
	Meeting      *MeetingHandler
	Task         *TaskHandler
	Document     *DocumentHandler
	Notification *NotificationHandler
	Report       *ReportHandler
}

// NewHandlers creates all handlers
func NewHandlers(services *service.Services) *Handlers {
	return &Handlers{
		Auth:         &AuthHandler{authService: services.Auth},
		User:         &UserHandler{userService: services.User},
		Organization: &OrganizationHandler{orgService: services.Organization},
		Role:         &RoleHandler{roleService: services.Role, permissionService: services.Permission},
		Project:      &ProjectHandler{projectService: services.Project},
		Permission:   &PermissionHandler{permissionService: services.Permission},
		Approval:     &ApprovalHandler{approvalService: services.Approval},
		Submittal:    &SubmittalHandler{submittalService: services.Submittal},
		Inspection:   &InspectionHandler{inspectionService: services.Inspection},
		RFI:          &RFIHandler{rfiService: services.RFI},
		Meeting:      &MeetingHandler{meetingService: services.Meeting},
		Task:         &TaskHandler{taskService: services.Task},
		Document:     &DocumentHandler{documentService: services.Document},
		Notification: &NotificationHandler{notificationService: services.Notification},
		Report:       &ReportHandler{reportService: services.Report},
	}
}

// respondServiceError maps sentinel service errors onto HTTP statuses.
// Unknown errors become a generic 500 without leaking internals.
func respondServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrNotFound), errors.Is(err, service.ErrUserNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Resource not found"})
	case errors.Is(err, service.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": "Forbidden"})
	case errors.Is(err, service.ErrInvalidState):
		c.JSON(http.StatusConflict, gin.H{"error": "Operation not allowed in current state"})
	case errors.Is(err, service.ErrConflict):
		c.JSON(http.StatusConflict, gin.H{"error": "Resource already exists"})
	case errors.Is(err, service.ErrLastAdmin):
		c.JSON(http.StatusConflict, gin.H{"error": "Cannot remove or demote the last admin"})
	case errors.Is(err, service.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
	case errors.Is(err, service.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
	case errors.Is(err, service.ErrInvalidToken):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
	case errors.Is(err, service.ErrUserExists):
		c.JSON(http.StatusConflict, gin.H{"error": "User already exists"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}

// ============================================
// Response Mappers
// ============================================

func toUserResponse(u *repository.User) models.UserResponse {
	return models.UserResponse{
		ID:        u.ID,
		Email:     u.Email,
		Name:      u.Name,
		Title:     u.Title,
		Phone:     u.Phone,
		CreatedAt: u.CreatedAt,
	}
}

func toOrganizationResponse(o *repository.Organization) models.OrganizationResponse {
	return models.OrganizationResponse{
		ID:          o.ID,
		Name:        o.Name,
		Description: o.Description,
		OwnerID:     o.OwnerID,
		CreatedAt:   o.CreatedAt,
	}
}

func toOrgMemberResponse(m *repository.OrganizationMember) models.OrgMemberResponse {
	resp := models.OrgMemberResponse{
		ID:       m.ID,
		UserID:   m.UserID,
		RoleID:   m.RoleID,
		JoinedAt: m.JoinedAt,
	}
	if m.User != nil {
		user := toUserResponse(m.User)
		resp.User = &user
	}
	return resp
}

func toProjectResponse(p *repository.Project) models.ProjectResponse {
	return models.ProjectResponse{
		ID:             p.ID,
		OrganizationID: p.OrganizationID,
		Name:           p.Name,
		Code:           p.Code,
		Description:    p.Description,
		Address:        p.Address,
		Status:         p.Status,
		CreatedBy:      p.CreatedBy,
		CreatedAt:      p.CreatedAt,
	}
}

func toProjectMemberResponse(m *repository.ProjectMember) models.ProjectMemberResponse {
	resp := models.ProjectMemberResponse{
		ID:       m.ID,
		UserID:   m.UserID,
		RoleID:   m.RoleID,
		JoinedAt: m.JoinedAt,
	}
	if m.User != nil {
		user := toUserResponse(m.User)
		resp.User = &user
	}
	return resp
}

func toOrgRoleResponse(r *repository.OrganizationRole) models.OrgRoleResponse {
	return models.OrgRoleResponse{
		ID:          r.ID,
		Name:        r.Name,
		Permissions: r.Permissions,
	}
}

func toProjectRoleResponse(r *repository.ProjectRole) models.ProjectRoleResponse {
	return models.ProjectRoleResponse{
		ID:           r.ID,
		Name:         r.Name,
		Permissions:  r.Permissions,
		InheritsFrom: r.InheritsFrom,
	}
}

func toApprovalStepResponse(s *repository.ApprovalStep) models.ApprovalStepResponse {
	return models.ApprovalStepResponse{
		ID:           s.ID,
		StepOrder:    s.StepOrder,
		ApproverID:   s.ApproverID,
		ApproverRole: s.ApproverRole,
		Status:       s.Status,
		Comments:     s.Comments,
		DecidedAt:    s.DecidedAt,
	}
}

func toApprovalRequestResponse(r *repository.ApprovalRequest) models.ApprovalRequestResponse {
	steps := make([]models.ApprovalStepResponse, len(r.Steps))
	for i, step := range r.Steps {
		steps[i] = toApprovalStepResponse(step)
	}
	return models.ApprovalRequestResponse{
		ID:            r.ID,
		ProjectID:     r.ProjectID,
		EntityType:    r.EntityType,
		EntityID:      r.EntityID,
		CurrentStatus: r.CurrentStatus,
		CreatedBy:     r.CreatedBy,
		CreatedAt:     r.CreatedAt,
		Steps:         steps,
	}
}

func toSubmittalResponse(s *repository.Submittal) models.SubmittalResponse {
	return models.SubmittalResponse{
		ID:           s.ID,
		ProjectID:    s.ProjectID,
		Kind:         s.Kind,
		Name:         s.Name,
		SpecSection:  s.SpecSection,
		Manufacturer: s.Manufacturer,
		ModelNumber:  s.ModelNumber,
		Quantity:     s.Quantity,
		UnitCost:     s.UnitCost,
		TotalCost:    s.TotalCost(),
		Status:       s.Status,
		CreatedBy:    s.CreatedBy,
		CreatedAt:    s.CreatedAt,
	}
}

func toInspectionResponse(i *repository.Inspection) models.InspectionResponse {
	return models.InspectionResponse{
		ID:           i.ID,
		ProjectID:    i.ProjectID,
		Type:         i.InspectionType,
		ScheduledFor: i.ScheduledFor,
		InspectorID:  i.InspectorID,
		Status:       i.Status,
		Findings:     i.Findings,
		CreatedAt:    i.CreatedAt,
	}
}

func toRFIResponse(r *repository.RFI) models.RFIResponse {
	return models.RFIResponse{
		ID:         r.ID,
		ProjectID:  r.ProjectID,
		Number:     r.Number,
		Subject:    r.Subject,
		Question:   r.Question,
		Answer:     r.Answer,
		Status:     r.Status,
		DueDate:    r.DueDate,
		AssigneeID: r.AssigneeID,
		CreatedBy:  r.CreatedBy,
		AnsweredAt: r.AnsweredAt,
		CreatedAt:  r.CreatedAt,
	}
}

func toMeetingResponse(m *repository.Meeting) models.MeetingResponse {
	return models.MeetingResponse{
		ID:          m.ID,
		ProjectID:   m.ProjectID,
		Title:       m.Title,
		ScheduledAt: m.ScheduledAt,
		Agenda:      m.Agenda,
		Minutes:     m.Minutes,
		AttendeeIDs: m.AttendeeIDs,
		CreatedBy:   m.CreatedBy,
		CreatedAt:   m.CreatedAt,
	}
}

func toTaskResponse(t *repository.Task) models.TaskResponse {
	return models.TaskResponse{
		ID:          t.ID,
		ProjectID:   t.ProjectID,
		Title:       t.Title,
		Description: t.Description,
		Status:      t.Status,
		Priority:    t.Priority,
		AssigneeID:  t.AssigneeID,
		DueDate:     t.DueDate,
		CreatedBy:   t.CreatedBy,
		CreatedAt:   t.CreatedAt,
	}
}

func toDocumentResponse(d *repository.Document) models.DocumentResponse {
	return models.DocumentResponse{
		ID:          d.ID,
		ProjectID:   d.ProjectID,
		FileName:    d.FileName,
		ContentType: d.ContentType,
		SizeBytes:   d.SizeBytes,
		StorageKey:  d.StorageKey,
		Version:     d.Version,
		UploadedBy:  d.UploadedBy,
		CreatedAt:   d.CreatedAt,
	}
}

func toNotificationResponse(n *repository.Notification) models.NotificationResponse {
	return models.NotificationResponse{
		ID:        n.ID,
		Type:      n.Type,
		Title:     n.Title,
		Message:   n.Message,
		Read:      n.Read,
		Data:      n.Data,
		CreatedAt: n.CreatedAt,
	}
}

func toWorkflowConfig(steps []models.WorkflowStepInput) []repository.WorkflowStepConfig {
	config := make([]repository.WorkflowStepConfig, len(steps))
	for i, step := range steps {
		config[i] = repository.WorkflowStepConfig{
			Name:         step.Name,
			ApproverID:   step.ApproverID,
			ApproverRole: step.ApproverRole,
		}
	}
	return config
}
