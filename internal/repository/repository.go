// internal/repository/repository.go
package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
)

// ============================================
// Models / Entities
// ============================================

type User struct {
	ID        string
	Email     string
	Password  string
	Name      string
	Title     *string
	Phone     *string
	CreatedAt time.Time
	UpdatedAt time.Time
}

type RefreshToken struct {
	ID        string
	Token     string
	UserID    string
	ExpiresAt time.Time
	CreatedAt time.Time
}

type Organization struct {
	ID          string
	Name        string
	Description *string
	OwnerID     string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type OrganizationRole struct {
	ID             string
	OrganizationID string
	Name           string
	Permissions    []string
	CreatedAt      time.Time
}

type OrganizationMember struct {
	ID             string
	OrganizationID string
	UserID         string
	RoleID         *string
	JoinedAt       time.Time
	User           *User
}

type Project struct {
	ID             string
	OrganizationID string
	Name           string
	Code           string
	Description    *string
	Address        *string
	Status         string
	StartDate      *time.Time
	EndDate        *time.Time
	CreatedBy      string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

type ProjectRole struct {
	ID           string
	ProjectID    string
	Name         string
	Permissions  []string
	InheritsFrom *string
	CreatedAt    time.Time
}

type ProjectMember struct {
	ID        string
	ProjectID string
	UserID    string
	RoleID    *string
	JoinedAt  time.Time
	User      *User
}

type PermissionOverride struct {
	ID              string
	ProjectMemberID string
	Permission      string
	Granted         bool
	GrantedBy       *string
	CreatedAt       time.Time
}

type ResourcePermission struct {
	ID              string
	ProjectMemberID string
	ResourceType    string
	ResourceID      string
	Permission      string
	Granted         bool
	CreatedAt       time.Time
}

// ResourceRef identifies one concrete resource instance for
// resource-level permission checks.
type ResourceRef struct {
	Type string
	ID   string
}

// WorkflowStepConfig is one entry of an approval workflow configuration.
// Exactly one of ApproverID or ApproverRole must be set.
type WorkflowStepConfig struct {
	Name         *string `json:"name,omitempty"`
	ApproverID   *string `json:"approverId,omitempty"`
	ApproverRole *string `json:"approverRole,omitempty"`
}

type ApprovalRequest struct {
	ID             string
	ProjectID      string
	EntityType     string
	EntityID       string
	CurrentStatus  string
	WorkflowConfig []WorkflowStepConfig
	CreatedBy      string
	CreatedAt      time.Time
	UpdatedAt      time.Time
	Steps          []*ApprovalStep
	Creator        *User
}

type ApprovalStep struct {
	ID                string
	ApprovalRequestID string
	StepOrder         int
	ApproverID        *string
	ApproverRole      *string
	Status            string
	Comments          *string
	DecidedAt         *time.Time
	CreatedAt         time.Time
	Approver          *User
}

type Submittal struct {
	ID           string
	ProjectID    string
	Kind         string
	Name         string
	SpecSection  *string
	Manufacturer *string
	ModelNumber  *string
	Quantity     int
	UnitCost     *decimal.Decimal
	Status       string
	CreatedBy    string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// TotalCost returns quantity * unit cost, or zero when no cost is set.
func (s *Submittal) TotalCost() decimal.Decimal {
	if s.UnitCost == nil {
		return decimal.Zero
	}
	return s.UnitCost.Mul(decimal.NewFromInt(int64(s.Quantity)))
}

type Inspection struct {
	ID             string
	ProjectID      string
	InspectionType string
	ScheduledFor   time.Time
	InspectorID    *string
	Status         string
	Findings       *string
	CreatedBy      string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

type RFI struct {
	ID         string
	ProjectID  string
	Number     int
	Subject    string
	Question   string
	Answer     *string
	Status     string
	DueDate    *time.Time
	AssigneeID *string
	CreatedBy  string
	AnsweredAt *time.Time
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

type Meeting struct {
	ID          string
	ProjectID   string
	Title       string
	ScheduledAt time.Time
	Agenda      *string
	Minutes     *string
	AttendeeIDs []string
	CreatedBy   string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type Task struct {
	ID          string
	ProjectID   string
	Title       string
	Description *string
	Status      string
	Priority    string
	AssigneeID  *string
	DueDate     *time.Time
	CreatedBy   string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type Document struct {
	ID          string
	ProjectID   string
	FileName    string
	ContentType *string
	SizeBytes   int64
	StorageKey  string
	Version     int
	UploadedBy  string
	CreatedAt   time.Time
}

type Notification struct {
	ID        string
	UserID    string
	Type      string
	Title     string
	Message   string
	Read      bool
	Data      map[string]interface{}
	CreatedAt time.Time
}

// ProjectApprovalReport is the read-model row for approval throughput
// reporting, served by the sqlx-backed report repository.
type ProjectApprovalReport struct {
	ProjectID             string  `db:"project_id"`
	TotalRequests         int     `db:"total_requests"`
	DraftCount            int     `db:"draft_count"`
	UnderReviewCount      int     `db:"under_review_count"`
	ApprovedCount         int     `db:"approved_count"`
	RejectedCount         int     `db:"rejected_count"`
	AvgDecisionLatencySec float64 `db:"avg_decision_latency_sec"`
}

// ============================================
// Repository Interfaces
// ============================================

type UserRepository interface {
	Create(ctx context.Context, user *User) error
	FindByID(ctx context.Context, id string) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	FindAll(ctx context.Context) ([]*User, error)
	Update(ctx context.Context, user *User) error
	SaveRefreshToken(ctx context.Context, token *RefreshToken) error
	FindRefreshToken(ctx context.Context, token string) (*RefreshToken, error)
	DeleteRefreshToken(ctx context.Context, token string) error
	DeleteUserRefreshTokens(ctx context.Context, userID string) error
}

type OrganizationRepository interface {
	Create(ctx context.Context, org *Organization) error
	FindByID(ctx context.Context, id string) (*Organization, error)
	FindByUserID(ctx context.Context, userID string) ([]*Organization, error)
	Update(ctx context.Context, org *Organization) error
	Delete(ctx context.Context, id string) error
	AddMember(ctx context.Context, member *OrganizationMember) error
	FindMembers(ctx context.Context, orgID string) ([]*OrganizationMember, error)
	FindMember(ctx context.Context, orgID, userID string) (*OrganizationMember, error)
	UpdateMemberRole(ctx context.Context, orgID, userID string, roleID *string) error
	RemoveMember(ctx context.Context, orgID, userID string) error
}

type RoleRepository interface {
	CreateOrgRole(ctx context.Context, role *OrganizationRole) error
	FindOrgRole(ctx context.Context, id string) (*OrganizationRole, error)
	FindOrgRoleByName(ctx context.Context, orgID, name string) (*OrganizationRole, error)
	FindOrgRoles(ctx context.Context, orgID string) ([]*OrganizationRole, error)
	UpdateOrgRole(ctx context.Context, role *OrganizationRole) error
	DeleteOrgRole(ctx context.Context, id string) error

	CreateProjectRole(ctx context.Context, role *ProjectRole) error
	FindProjectRole(ctx context.Context, id string) (*ProjectRole, error)
	FindProjectRoleByName(ctx context.Context, projectID, name string) (*ProjectRole, error)
	FindProjectRoles(ctx context.Context, projectID string) ([]*ProjectRole, error)
	UpdateProjectRole(ctx context.Context, role *ProjectRole) error
	DeleteProjectRole(ctx context.Context, id string) error
}

type ProjectRepository interface {
	Create(ctx context.Context, project *Project) error
	FindByID(ctx context.Context, id string) (*Project, error)
	FindByOrganizationID(ctx context.Context, orgID string) ([]*Project, error)
	FindByCode(ctx context.Context, orgID, code string) (*Project, error)
	FindByUserID(ctx context.Context, userID string) ([]*Project, error)
	Update(ctx context.Context, project *Project) error
	Delete(ctx context.Context, id string) error
	AddMember(ctx context.Context, member *ProjectMember) error
	FindMembers(ctx context.Context, projectID string) ([]*ProjectMember, error)
	FindMember(ctx context.Context, projectID, userID string) (*ProjectMember, error)
	FindMemberByID(ctx context.Context, memberID string) (*ProjectMember, error)
	FindMemberUserIDs(ctx context.Context, projectID string) ([]string, error)
	UpdateMemberRole(ctx context.Context, projectID, userID string, roleID *string) error
	RemoveMember(ctx context.Context, projectID, userID string) error
}

type ApprovalRepository interface {
	// CreateRequest persists the request and its steps in one transaction.
	CreateRequest(ctx context.Context, request *ApprovalRequest, steps []*ApprovalStep) error
	FindRequestByID(ctx context.Context, id string) (*ApprovalRequest, error)
	FindRequestsByProjectID(ctx context.Context, projectID string) ([]*ApprovalRequest, error)
	FindRequestByEntity(ctx context.Context, entityType, entityID string) (*ApprovalRequest, error)
	FindStalePending(ctx context.Context, olderThan time.Time) ([]*ApprovalRequest, error)
	UpdateRequestStatus(ctx context.Context, requestID, status string) error
	FindStepByID(ctx context.Context, id string) (*ApprovalStep, error)
	FindStepsByRequestID(ctx context.Context, requestID string) ([]*ApprovalStep, error)
	UpdateStep(ctx context.Context, step *ApprovalStep) error
}

type PermissionRepository interface {
	UpsertOverride(ctx context.Context, override *PermissionOverride) error
	FindOverride(ctx context.Context, memberID, permission string) (*PermissionOverride, error)
	FindOverridesByMember(ctx context.Context, memberID string) ([]*PermissionOverride, error)
	DeleteOverride(ctx context.Context, memberID, permission string) error

	UpsertResourcePermission(ctx context.Context, perm *ResourcePermission) error
	FindResourcePermission(ctx context.Context, memberID, resourceType, resourceID, permission string) (*ResourcePermission, error)
	FindResourcePermissionsByMember(ctx context.Context, memberID string) ([]*ResourcePermission, error)
	DeleteResourcePermission(ctx context.Context, memberID, resourceType, resourceID, permission string) error
}

type SubmittalRepository interface {
	Create(ctx context.Context, submittal *Submittal) error
	FindByID(ctx context.Context, id string) (*Submittal, error)
	FindByProjectID(ctx context.Context, projectID string) ([]*Submittal, error)
	Update(ctx context.Context, submittal *Submittal) error
	UpdateStatus(ctx context.Context, id, status string) error
	Delete(ctx context.Context, id string) error
}

type InspectionRepository interface {
	Create(ctx context.Context, inspection *Inspection) error
	FindByID(ctx context.Context, id string) (*Inspection, error)
	FindByProjectID(ctx context.Context, projectID string) ([]*Inspection, error)
	FindUpcoming(ctx context.Context, within time.Duration) ([]*Inspection, error)
	Update(ctx context.Context, inspection *Inspection) error
	Delete(ctx context.Context, id string) error
}

type RFIRepository interface {
	Create(ctx context.Context, rfi *RFI) error
	FindByID(ctx context.Context, id string) (*RFI, error)
	FindByProjectID(ctx context.Context, projectID string) ([]*RFI, error)
	FindOverdue(ctx context.Context) ([]*RFI, error)
	NextNumber(ctx context.Context, projectID string) (int, error)
	Update(ctx context.Context, rfi *RFI) error
	Delete(ctx context.Context, id string) error
}

type MeetingRepository interface {
	Create(ctx context.Context, meeting *Meeting) error
	FindByID(ctx context.Context, id string) (*Meeting, error)
	FindByProjectID(ctx context.Context, projectID string) ([]*Meeting, error)
	Update(ctx context.Context, meeting *Meeting) error
	Delete(ctx context.Context, id string) error
}

type TaskRepository interface {
	Create(ctx context.Context, task *Task) error
	FindByID(ctx context.Context, id string) (*Task, error)
	FindByProjectID(ctx context.Context, projectID string) ([]*Task, error)
	FindByAssignee(ctx context.Context, assigneeID string) ([]*Task, error)
	Update(ctx context.Context, task *Task) error
	Delete(ctx context.Context, id string) error
}

type DocumentRepository interface {
	Create(ctx context.Context, doc *Document) error
	FindByID(ctx context.Context, id string) (*Document, error)
	FindByProjectID(ctx context.Context, projectID string) ([]*Document, error)
	NextVersion(ctx context.Context, projectID, fileName string) (int, error)
	Delete(ctx context.Context, id string) error
}

type NotificationRepository interface {
	Create(ctx context.Context, notification *Notification) error
	FindByID(ctx context.Context, id string) (*Notification, error)
	FindByUserID(ctx context.Context, userID string, unreadOnly bool) ([]*Notification, error)
	CountByUserID(ctx context.Context, userID string) (total int, unread int, err error)
	MarkAsRead(ctx context.Context, id string) error
	MarkAllAsRead(ctx context.Context, userID string) error
	Delete(ctx context.Context, id string) error
	DeleteAll(ctx context.Context, userID string) error
	DeleteOlderThan(ctx context.Context, olderThan time.Time, readOnly bool) (int, error)
}

type ReportRepository interface {
	ProjectApprovalReport(ctx context.Context, projectID string) (*ProjectApprovalReport, error)
}

// ============================================
// Repositories Container
// ============================================

type Repositories struct {
	UserRepo         UserRepository
	OrgRepo          OrganizationRepository
	RoleRepo         RoleRepository
	ProjectRepo      ProjectRepository
	ApprovalRepo     ApprovalRepository
	PermissionRepo   PermissionRepository
	SubmittalRepo    SubmittalRepository
	InspectionRepo   InspectionRepository
	RFIRepo          RFIRepository
	MeetingRepo      MeetingRepository
	TaskRepo         TaskRepository
	DocumentRepo     DocumentRepository
	NotificationRepo NotificationRepository
	ReportRepo       ReportRepository
}

// NewRepositories creates in-memory repositories (for testing/fallback)
func NewRepositories() *Repositories {
	approvalRepo := newInMemoryApprovalRepository()
	return &Repositories{
		UserRepo:         newInMemoryUserRepository(),
		OrgRepo:          newInMemoryOrganizationRepository(),
		RoleRepo:         newInMemoryRoleRepository(),
		ProjectRepo:      newInMemoryProjectRepository(),
		ApprovalRepo:     approvalRepo,
		PermissionRepo:   newInMemoryPermissionRepository(),
		SubmittalRepo:    newInMemorySubmittalRepository(),
		InspectionRepo:   newInMemoryInspectionRepository(),
		RFIRepo:          newInMemoryRFIRepository(),
		MeetingRepo:      newInMemoryMeetingRepository(),
		TaskRepo:         newInMemoryTaskRepository(),
		DocumentRepo:     newInMemoryDocumentRepository(),
		NotificationRepo: newInMemoryNotificationRepository(),
		ReportRepo:       newInMemoryReportRepository(approvalRepo),
	}
}

// NewPgRepositories creates PostgreSQL-backed repositories. The write path
// runs on pgx; the reporting read model runs on sqlx.
func NewPgRepositories(pool *pgxpool.Pool, reportDB *sqlx.DB) *Repositories {
	return &Repositories{
		UserRepo:         &pgUserRepository{pool: pool},
		OrgRepo:          &pgOrganizationRepository{pool: pool},
		RoleRepo:         &pgRoleRepository{pool: pool},
		ProjectRepo:      &pgProjectRepository{pool: pool},
		ApprovalRepo:     &pgApprovalRepository{pool: pool},
		PermissionRepo:   &pgPermissionRepository{pool: pool},
		SubmittalRepo:    &pgSubmittalRepository{pool: pool},
		InspectionRepo:   &pgInspectionRepository{pool: pool},
		RFIRepo:          &pgRFIRepository{pool: pool},
		MeetingRepo:      &pgMeetingRepository{pool: pool},
		TaskRepo:         &pgTaskRepository{pool: pool},
		DocumentRepo:     &pgDocumentRepository{pool: pool},
		NotificationRepo: &pgNotificationRepository{pool: pool},
		ReportRepo:       &sqlxReportRepository{db: reportDB},
	}
}
