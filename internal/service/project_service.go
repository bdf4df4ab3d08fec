package service

import (
	"context"
	"fmt"

	"github.com/sitegrid/sitegrid-backend/internal/notification"
	"github.com/sitegrid/sitegrid-backend/internal/repository"
	"github.com/sitegrid/sitegrid-backend/internal/socket"
	"github.com/sitegrid/sitegrid-backend/internal/types"
)

// ============================================
// Project Service
// ============================================

type ProjectInput struct {
	Name        string
	Code        string
	Description *string
	Address     *string
	StartDate   *string
	EndDate     *string
}

type ProjectService interface {
	Create(ctx context.Context, actorID, orgID, name, code string, description, address *string) (*repository.Project, error)
	GetByID(ctx context.Context, actorID, projectID string) (*repository.Project, error)
	ListForOrganization(ctx context.Context, actorID, orgID string) ([]*repository.Project, error)
	ListForUser(ctx context.Context, userID string) ([]*repository.Project, error)
	Update(ctx context.Context, actorID, projectID string, name, description, address, status *string) (*repository.Project, error)
	Delete(ctx context.Context, actorID, projectID string) error

	AddMember(ctx context.Context, actorID, projectID, userID string, roleID *string) (*repository.ProjectMember, error)
	ListMembers(ctx context.Context, actorID, projectID string) ([]*repository.ProjectMember, error)
	UpdateMemberRole(ctx context.Context, actorID, projectID, userID string, roleID *string) error
	RemoveMember(ctx context.Context, actorID, projectID, userID string) error
}

type projectService struct {
	projectRepo repository.ProjectRepository
	orgRepo     repository.OrganizationRepository
	roleRepo    repository.RoleRepository
	userRepo    repository.UserRepository
	notifSvc    *notification.Service
	broadcaster *socket.Broadcaster
}

func NewProjectService(
	projectRepo repository.ProjectRepository,
	orgRepo repository.OrganizationRepository,
	roleRepo repository.RoleRepository,
	userRepo repository.UserRepository,
	notifSvc *notification.Service,
	broadcaster *socket.Broadcaster,
) ProjectService {
	return &projectService{
		projectRepo: projectRepo,
		orgRepo:     orgRepo,
		roleRepo:    roleRepo,
		userRepo:    userRepo,
		notifSvc:    notifSvc,
		broadcaster: broadcaster,
	}
}

func (s *projectService) Create(ctx context.Context, actorID, orgID, name, code string, description, address *string) (*repository.Project, error) {
	if name == "" || code == "" {
		return nil, ErrInvalidInput
	}

	member, err := s.orgRepo.FindMember(ctx, orgID, actorID)
	if err != nil || member == nil {
		return nil, ErrForbidden
	}

	existing, _ := s.projectRepo.FindByCode(ctx, orgID, code)
	if existing != nil {
		return nil, ErrConflict
	}

	project := &repository.Project{
		OrganizationID: orgID,
		Name:           name,
		Code:           code,
		Description:    description,
		Address:        address,
		Status:         "active",
		CreatedBy:      actorID,
	}
	if err := s.projectRepo.Create(ctx, project); err != nil {
		return nil, fmt.Errorf("failed to create project: %w", err)
	}

	// Seed the built-in project roles; the creator becomes admin
	adminRole := &repository.ProjectRole{
		ProjectID: project.ID,
		Name:      types.RoleAdmin,
		Permissions: []string{
			types.PermProjectView, types.PermProjectEdit, types.PermProjectManage,
			types.PermMemberManage, types.PermSubmittalCreate, types.PermSubmittalEdit,
			types.PermApprovalDecide, types.PermInspectionManage, types.PermRFICreate,
			types.PermRFIAnswer, types.PermMeetingManage, types.PermTaskManage,
			types.PermDocumentUpload, types.PermDocumentDelete,
		},
	}
	if err := s.roleRepo.CreateProjectRole(ctx, adminRole); err != nil {
		return nil, fmt.Errorf("failed to create admin role: %w", err)
	}

	viewerRole := &repository.ProjectRole{
		ProjectID:   project.ID,
		Name:        types.RoleViewer,
		Permissions: []string{types.PermProjectView},
	}
	if err := s.roleRepo.CreateProjectRole(ctx, viewerRole); err != nil {
		return nil, fmt.Errorf("failed to create viewer role: %w", err)
	}

	creator := &repository.ProjectMember{
		ProjectID: project.ID,
		UserID:    actorID,
		RoleID:    &adminRole.ID,
	}
	if err := s.projectRepo.AddMember(ctx, creator); err != nil {
		return nil, fmt.Errorf("failed to add creator as member: %w", err)
	}

	return project, nil
}

func (s *projectService) GetByID(ctx context.Context, actorID, projectID string) (*repository.Project, error) {
	project, err := s.projectRepo.FindByID(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to find project: %w", err)
	}
	if project == nil {
		return nil, ErrNotFound
	}
	member, err := s.projectRepo.FindMember(ctx, projectID, actorID)
	if err != nil || member == nil {
		return nil, ErrForbidden
	}
	return project, nil
}

func (s *projectService) ListForOrganization(ctx context.Context, actorID, orgID string) ([]*repository.Project, error) {
	member, err := s.orgRepo.FindMember(ctx, orgID, actorID)
	if err != nil || member == nil {
		return nil, ErrForbidden
	}
	return s.projectRepo.FindByOrganizationID(ctx, orgID)
}

func (s *projectService) ListForUser(ctx context.Context, userID string) ([]*repository.Project, error) {
	return s.projectRepo.FindByUserID(ctx, userID)
}

func (s *projectService) Update(ctx context.Context, actorID, projectID string, name, description, address, status *string) (*repository.Project, error) {
	project, err := s.GetByID(ctx, actorID, projectID)
	if err != nil {
		return nil, err
	}
	if !s.isAdmin(ctx, projectID, actorID) {
		return nil, ErrForbidden
	}

	if name != nil && *name != "" {
		project.Name = *name
	}
	if description != nil {
		project.Description = description
	}
	if address != nil {
		project.Address = address
	}
	if status != nil && *status != "" {
		project.Status = *status
	}

	if err := s.projectRepo.Update(ctx, project); err != nil {
		return nil, fmt.Errorf("failed to update project: %w", err)
	}

	if s.broadcaster != nil {
		s.broadcaster.BroadcastProjectUpdated(projectID, map[string]interface{}{
			"id":     project.ID,
			"name":   project.Name,
			"status": project.Status,
		}, actorID)
	}

	return project, nil
}

func (s *projectService) Delete(ctx context.Context, actorID, projectID string) error {
	if _, err := s.GetByID(ctx, actorID, projectID); err != nil {
		return err
	}
	if !s.isAdmin(ctx, projectID, actorID) {
		return ErrForbidden
	}
	return s.projectRepo.Delete(ctx, projectID)
}

func (s *projectService) AddMember(ctx context.Context, actorID, projectID, userID string, roleID *string) (*repository.ProjectMember, error) {
	if _, err := s.GetByID(ctx, actorID, projectID); err != nil {
		return nil, err
	}
	if !s.isAdmin(ctx, projectID, actorID) {
		return nil, ErrForbidden
	}

	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	existing, _ := s.projectRepo.FindMember(ctx, projectID, userID)
	if existing != nil {
		return nil, ErrConflict
	}

	if roleID != nil {
		role, err := s.roleRepo.FindProjectRole(ctx, *roleID)
		if err != nil || role == nil || role.ProjectID != projectID {
			return nil, ErrInvalidInput
		}
	}

	member := &repository.ProjectMember{
		ProjectID: projectID,
		UserID:    userID,
		RoleID:    roleID,
	}
	if err := s.projectRepo.AddMember(ctx, member); err != nil {
		return nil, fmt.Errorf("failed to add member: %w", err)
	}
	member.User = user

	if s.notifSvc != nil {
		s.notifSvc.SendMemberAdded(ctx, userID, projectID)
	}
	if s.broadcaster != nil {
		s.broadcaster.BroadcastMemberAdded(projectID, map[string]interface{}{
			"userId": userID,
			"name":   user.Name,
		}, actorID)
	}

	return member, nil
}

func (s *projectService) ListMembers(ctx context.Context, actorID, projectID string) ([]*repository.ProjectMember, error) {
	if _, err := s.GetByID(ctx, actorID, projectID); err != nil {
		return nil, err
	}
	return s.projectRepo.FindMembers(ctx, projectID)
}

func (s *projectService) UpdateMemberRole(ctx context.Context, actorID, projectID, userID string, roleID *string) error {
	if _, err := s.GetByID(ctx, actorID, projectID); err != nil {
		return err
	}
	if !s.isAdmin(ctx, projectID, actorID) {
		return ErrForbidden
	}

	member, err := s.projectRepo.FindMember(ctx, projectID, userID)
	if err != nil {
		return fmt.Errorf("failed to find member: %w", err)
	}
	if member == nil {
		return ErrNotFound
	}

	if roleID != nil {
		role, err := s.roleRepo.FindProjectRole(ctx, *roleID)
		if err != nil || role == nil || role.ProjectID != projectID {
			return ErrInvalidInput
		}
	}

	// Demoting the last admin would lock the project
	if s.memberIsAdmin(ctx, member) && !s.roleIDIsAdmin(ctx, roleID) && s.adminCount(ctx, projectID) <= 1 {
		return ErrLastAdmin
	}

	if err := s.projectRepo.UpdateMemberRole(ctx, projectID, userID, roleID); err != nil {
		return fmt.Errorf("failed to update member role: %w", err)
	}

	if s.broadcaster != nil {
		s.broadcaster.BroadcastMemberRoleUpdated(projectID, map[string]interface{}{
			"userId": userID,
		}, actorID)
	}

	return nil
}

func (s *projectService) RemoveMember(ctx context.Context, actorID, projectID, userID string) error {
	if _, err := s.GetByID(ctx, actorID, projectID); err != nil {
		return err
	}
	if !s.isAdmin(ctx, projectID, actorID) && actorID != userID {
		return ErrForbidden
	}

	member, err := s.projectRepo.FindMember(ctx, projectID, userID)
	if err != nil {
		return fmt.Errorf("failed to find member: %w", err)
	}
	if member == nil {
		return ErrNotFound
	}

	if s.memberIsAdmin(ctx, member) && s.adminCount(ctx, projectID) <= 1 {
		return ErrLastAdmin
	}

	if err := s.projectRepo.RemoveMember(ctx, projectID, userID); err != nil {
		return fmt.Errorf("failed to remove member: %w", err)
	}

	if s.broadcaster != nil {
		s.broadcaster.BroadcastMemberRemoved(projectID, userID, actorID)
	}

	return nil
}

// ============================================
// Admin helpers
// ============================================

func (s *projectService) isAdmin(ctx context.Context, projectID, userID string) bool {
	member, err := s.projectRepo.FindMember(ctx, projectID, userID)
	if err != nil || member == nil {
		return false
	}
	return s.memberIsAdmin(ctx, member)
}

func (s *projectService) memberIsAdmin(ctx context.Context, member *repository.ProjectMember) bool {
	return s.roleIDIsAdmin(ctx, member.RoleID)
}

func (s *projectService) roleIDIsAdmin(ctx context.Context, roleID *string) bool {
	if roleID == nil {
		return false
	}
	role, err := s.roleRepo.FindProjectRole(ctx, *roleID)
	if err != nil || role == nil {
		return false
	}
	return role.Name == types.RoleAdmin
}

func (s *projectService) adminCount(ctx context.Context, projectID string) int {
	members, err := s.projectRepo.FindMembers(ctx, projectID)
	if err != nil {
		return 0
	}
	count := 0
	for _, member := range members {
		if s.memberIsAdmin(ctx, member) {
			count++
		}
	}
	return count
}
