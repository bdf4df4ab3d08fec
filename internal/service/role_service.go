package service

import (
	"context"
	"fmt"

	"github.com/sitegrid/sitegrid-backend/internal/repository"
)

// ============================================
// Role Service
// ============================================

type RoleService interface {
	CreateOrgRole(ctx context.Context, actorID, orgID, name string, permissions []string) (*repository.OrganizationRole, error)
	ListOrgRoles(ctx context.Context, actorID, orgID string) ([]*repository.OrganizationRole, error)
	UpdateOrgRole(ctx context.Context, actorID, roleID string, name *string, permissions []string) (*repository.OrganizationRole, error)
	DeleteOrgRole(ctx context.Context, actorID, roleID string) error

	CreateProjectRole(ctx context.Context, actorID, projectID, name string, permissions []string, inheritsFrom *string) (*repository.ProjectRole, error)
	ListProjectRoles(ctx context.Context, actorID, projectID string) ([]*repository.ProjectRole, error)
	UpdateProjectRole(ctx context.Context, actorID, roleID string, name *string, permissions []string, inheritsFrom *string) (*repository.ProjectRole, error)
	DeleteProjectRole(ctx context.Context, actorID, roleID string) error
}

type roleService struct {
	roleRepo    repository.RoleRepository
	orgRepo     repository.OrganizationRepository
	projectRepo repository.ProjectRepository
}

func NewRoleService(
	roleRepo repository.RoleRepository,
	orgRepo repository.OrganizationRepository,
	projectRepo repository.ProjectRepository,
) RoleService {
	return &roleService{
		roleRepo:    roleRepo,
		orgRepo:     orgRepo,
		projectRepo: projectRepo,
	}
}

// requireOrgOwner authorizes org-role administration.
func (s *roleService) requireOrgOwner(ctx context.Context, actorID, orgID string) (*repository.Organization, error) {
	org, err := s.orgRepo.FindByID(ctx, orgID)
	if err != nil {
		return nil, fmt.Errorf("failed to find organization: %w", err)
	}
	if org == nil {
		return nil, ErrNotFound
	}
	if org.OwnerID != actorID {
		return nil, ErrForbidden
	}
	return org, nil
}

func (s *roleService) CreateOrgRole(ctx context.Context, actorID, orgID, name string, permissions []string) (*repository.OrganizationRole, error) {
	if name == "" {
		return nil, ErrInvalidInput
	}
	if _, err := s.requireOrgOwner(ctx, actorID, orgID); err != nil {
		return nil, err
	}

	existing, _ := s.roleRepo.FindOrgRoleByName(ctx, orgID, name)
	if existing != nil {
		return nil, ErrConflict
	}

	role := &repository.OrganizationRole{
		OrganizationID: orgID,
		Name:           name,
		Permissions:    permissions,
	}
	if err := s.roleRepo.CreateOrgRole(ctx, role); err != nil {
		return nil, fmt.Errorf("failed to create org role: %w", err)
	}
	return role, nil
}

func (s *roleService) ListOrgRoles(ctx context.Context, actorID, orgID string) ([]*repository.OrganizationRole, error) {
	member, err := s.orgRepo.FindMember(ctx, orgID, actorID)
	if err != nil || member == nil {
		return nil, ErrForbidden
	}
	return s.roleRepo.FindOrgRoles(ctx, orgID)
}

func (s *roleService) UpdateOrgRole(ctx context.Context, actorID, roleID string, name *string, permissions []string) (*repository.OrganizationRole, error) {
	role, err := s.roleRepo.FindOrgRole(ctx, roleID)
	if err != nil {
		return nil, fmt.Errorf("failed to find org role: %w", err)
	}
	if role == nil {
		return nil, ErrNotFound
	}
	if _, err := s.requireOrgOwner(ctx, actorID, role.OrganizationID); err != nil {
		return nil, err
	}

	if name != nil && *name != "" {
		role.Name = *name
	}
	if permissions != nil {
		role.Permissions = permissions
	}

	if err := s.roleRepo.UpdateOrgRole(ctx, role); err != nil {
		return nil, fmt.Errorf("failed to update org role: %w", err)
	}
	return role, nil
}

func (s *roleService) DeleteOrgRole(ctx context.Context, actorID, roleID string) error {
	role, err := s.roleRepo.FindOrgRole(ctx, roleID)
	if err != nil {
		return fmt.Errorf("failed to find org role: %w", err)
	}
	if role == nil {
		return ErrNotFound
	}
	if _, err := s.requireOrgOwner(ctx, actorID, role.OrganizationID); err != nil {
		return err
	}
	return s.roleRepo.DeleteOrgRole(ctx, roleID)
}

// requireProjectMember resolves the project and checks the actor belongs to it.
func (s *roleService) requireProjectMember(ctx context.Context, actorID, projectID string) (*repository.Project, error) {
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

func (s *roleService) CreateProjectRole(ctx context.Context, actorID, projectID, name string, permissions []string, inheritsFrom *string) (*repository.ProjectRole, error) {
	if name == "" {
		return nil, ErrInvalidInput
	}
	project, err := s.requireProjectMember(ctx, actorID, projectID)
	if err != nil {
		return nil, err
	}

	existing, _ := s.roleRepo.FindProjectRoleByName(ctx, projectID, name)
	if existing != nil {
		return nil, ErrConflict
	}

	// An inherited role must live in the project's own organization
	if inheritsFrom != nil {
		orgRole, err := s.roleRepo.FindOrgRole(ctx, *inheritsFrom)
		if err != nil || orgRole == nil || orgRole.OrganizationID != project.OrganizationID {
			return nil, ErrInvalidInput
		}
	}

	role := &repository.ProjectRole{
		ProjectID:    projectID,
		Name:         name,
		Permissions:  permissions,
		InheritsFrom: inheritsFrom,
	}
	if err := s.roleRepo.CreateProjectRole(ctx, role); err != nil {
		return nil, fmt.Errorf("failed to create project role: %w", err)
	}
	return role, nil
}

func (s *roleService) ListProjectRoles(ctx context.Context, actorID, projectID string) ([]*repository.ProjectRole, error) {
	if _, err := s.requireProjectMember(ctx, actorID, projectID); err != nil {
		return nil, err
	}
	return s.roleRepo.FindProjectRoles(ctx, projectID)
}

func (s *roleService) UpdateProjectRole(ctx context.Context, actorID, roleID string, name *string, permissions []string, inheritsFrom *string) (*repository.ProjectRole, error) {
	role, err := s.roleRepo.FindProjectRole(ctx, roleID)
	if err != nil {
		return nil, fmt.Errorf("failed to find project role: %w", err)
	}
	if role == nil {
		return nil, ErrNotFound
	}
	project, err := s.requireProjectMember(ctx, actorID, role.ProjectID)
	if err != nil {
		return nil, err
	}

	if name != nil && *name != "" {
		role.Name = *name
	}
	if permissions != nil {
		role.Permissions = permissions
	}
	if inheritsFrom != nil {
		orgRole, err := s.roleRepo.FindOrgRole(ctx, *inheritsFrom)
		if err != nil || orgRole == nil || orgRole.OrganizationID != project.OrganizationID {
			return nil, ErrInvalidInput
		}
		role.InheritsFrom = inheritsFrom
	}

	if err := s.roleRepo.UpdateProjectRole(ctx, role); err != nil {
		return nil, fmt.Errorf("failed to update project role: %w", err)
	}
	return role, nil
}

func (s *roleService) DeleteProjectRole(ctx context.Context, actorID, roleID string) error {
	role, err := s.roleRepo.FindProjectRole(ctx, roleID)
	if err != nil {
		return fmt.Errorf("failed to find project role: %w", err)
	}
	if role == nil {
		return ErrNotFound
	}
	if _, err := s.requireProjectMember(ctx, actorID, role.ProjectID); err != nil {
		return err
	}
	return s.roleRepo.DeleteProjectRole(ctx, roleID)
}
