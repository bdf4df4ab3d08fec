package service

import (
	"errors"

	"github.com/sitegrid/sitegrid-backend/internal/config"
	"github.com/sitegrid/sitegrid-backend/internal/db"
	"github.com/sitegrid/sitegrid-backend/internal/email"
	"github.com/sitegrid/sitegrid-backend/internal/notification"
	"github.com/sitegrid/sitegrid-backend/internal/repository"
	"github.com/sitegrid/sitegrid-backend/internal/socket"
	"github.com/sitegrid/sitegrid-backend/internal/tokenstore"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserExists         = errors.New("user already exists")
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidToken       = errors.New("invalid token")
	ErrNotFound           = errors.New("resource not found")
	ErrForbidden          = errors.New("forbidden")
	ErrConflict           = errors.New("resource already exists")
	ErrInvalidState       = errors.New("operation not allowed in current state")
	ErrInvalidInput       = errors.New("invalid input")
	ErrLastAdmin          = errors.New("cannot remove or demote the last admin")
)

// ============================================
// Services Container
// ============================================

type Services struct {
	Auth         AuthService
	User         UserService
	Organization OrganizationService
	Role         RoleService
	Permission   PermissionService
	Project      ProjectService
	Approval     ApprovalService
	Submittal    SubmittalService
	Inspection   InspectionService
	RFI          RFIService
	Meeting      MeetingService
	Task         TaskService
	Document     DocumentService
	Notification NotificationService
	Report       ReportService
	Broadcaster  *socket.Broadcaster
}

// ServiceDeps contains all dependencies needed to create services
type ServiceDeps struct {
	Config      *config.Config
	Repos       *repository.Repositories
	NotifSvc    *notification.Service
	EmailSvc    *email.Service
	Broadcaster *socket.Broadcaster
	TokenStore  tokenstore.Store
	Cache       *db.RedisDB
}

func NewServices(deps *ServiceDeps) *Services {
	// Permission resolution is needed by most domain services, build it first.
	permissionService := NewPermissionService(
		deps.Repos.ProjectRepo,
		deps.Repos.RoleRepo,
		deps.Repos.PermissionRepo,
	)

	approvalService := NewApprovalService(
		deps.Repos.ApprovalRepo,
		deps.Repos.ProjectRepo,
		deps.Repos.RoleRepo,
		deps.Repos.SubmittalRepo,
		permissionService,
		deps.NotifSvc,
		deps.Broadcaster,
	)

	return &Services{
		Auth: NewAuthService(deps.Config, deps.Repos.UserRepo, deps.TokenStore),
		User: NewUserService(deps.Repos.UserRepo),
		Organization: NewOrganizationService(
			deps.Repos.OrgRepo,
			deps.Repos.RoleRepo,
			deps.Repos.UserRepo,
			deps.EmailSvc,
		),
		Role: NewRoleService(
			deps.Repos.RoleRepo,
			deps.Repos.OrgRepo,
			deps.Repos.ProjectRepo,
		),
		Permission: permissionService,
		Project: NewProjectService(
			deps.Repos.ProjectRepo,
			deps.Repos.OrgRepo,
			deps.Repos.RoleRepo,
			deps.Repos.UserRepo,
			deps.NotifSvc,
			deps.Broadcaster,
		),
		Approval: approvalService,
		Submittal: NewSubmittalService(
			deps.Repos.SubmittalRepo,
			deps.Repos.ProjectRepo,
			approvalService,
			permissionService,
			deps.Broadcaster,
		),
		Inspection: NewInspectionService(
			deps.Repos.InspectionRepo,
			deps.Repos.ProjectRepo,
			permissionService,
			deps.NotifSvc,
			deps.Broadcaster,
		),
		RFI: NewRFIService(
			deps.Repos.RFIRepo,
			deps.Repos.ProjectRepo,
			permissionService,
			deps.NotifSvc,
			deps.Broadcaster,
		),
		Meeting: NewMeetingService(
			deps.Repos.MeetingRepo,
			deps.Repos.ProjectRepo,
			permissionService,
			deps.NotifSvc,
		),
		Task: NewTaskService(
			deps.Repos.TaskRepo,
			deps.Repos.ProjectRepo,
			permissionService,
			deps.NotifSvc,
			deps.Broadcaster,
		),
		Document: NewDocumentService(
			deps.Repos.DocumentRepo,
			deps.Repos.ProjectRepo,
			permissionService,
		),
		Notification: NewNotificationService(deps.Repos.NotificationRepo),
		Report: NewReportService(
			deps.Repos.ReportRepo,
			deps.Repos.ProjectRepo,
			permissionService,
			deps.Cache,
		),
		Broadcaster: deps.Broadcaster,
	}
}
