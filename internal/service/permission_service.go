package service

import (
	"context"
	"fmt"

	"github.com/sitegrid/sitegrid-backend/internal/repository"
	"github.com/sitegrid/sitegrid-backend/internal/types"
)

// ============================================
// Permission Service
// ============================================

// PermissionService resolves whether a user may perform an action on a
// project. Resolution order, most specific wins:
//
//  1. resource-level grant for one concrete resource
//  2. member-level override for the permission
//  3. the member's effective role permission set
//
// Anything that cannot be resolved denies.
type PermissionService interface {
	// HasPermission never returns an error; lookup failures deny.
	HasPermission(ctx context.Context, projectID, userID, permission string, resource *repository.ResourceRef) bool

	// EffectivePermissions merges a project role's own permissions with the
	// permissions of the org role it inherits from (single level).
	EffectivePermissions(ctx context.Context, projectRoleID string) ([]string, error)

	SetOverride(ctx context.Context, actorID, projectID, userID, permission string, granted bool) (*repository.PermissionOverride, error)
	RemoveOverride(ctx context.Context, actorID, projectID, userID, permission string) error
	ListOverrides(ctx context.Context, actorID, projectID, userID string) ([]*repository.PermissionOverride, error)

	SetResourcePermission(ctx context.Context, actorID, projectID, userID string, resource repository.ResourceRef, permission string, granted bool) (*repository.ResourcePermission, error)
	RemoveResourcePermission(ctx context.Context, actorID, projectID, userID string, resource repository.ResourceRef, permission string) error
	ListResourcePermissions(ctx context.Context, actorID, projectID, userID string) ([]*repository.ResourcePermission, error)
}

type permissionService struct {
	projectRepo    repository.ProjectRepository
	roleRepo       repository.RoleRepository
	permissionRepo repository.PermissionRepository
}

func NewPermissionService(
	projectRepo repository.ProjectRepository,
	roleRepo repository.RoleRepository,
	permissionRepo repository.PermissionRepository,
) PermissionService {
	return &permissionService{
		projectRepo:    projectRepo,
		roleRepo:       roleRepo,
		permissionRepo: permissionRepo,
	}
}

func (s *permissionService) HasPermission(ctx context.Context, projectID, userID, permission string, resource *repository.ResourceRef) bool {
	member, err := s.projectRepo.FindMember(ctx, projectID, userID)
	if err != nil || member == nil {
		return false
	}

	// 1. Resource-level grant beats everything. A failed lookup denies
	// rather than falling through, so an explicit deny can never be
	// shadowed by a lower level.
	if resource != nil {
		rp, err := s.permissionRepo.FindResourcePermission(ctx, member.ID, resource.Type, resource.ID, permission)
		if err != nil {
			return false
		}
		if rp != nil {
			return rp.Granted
		}
	}

	// 2. Member-level override
	override, err := s.permissionRepo.FindOverride(ctx, member.ID, permission)
	if err != nil {
		return false
	}
	if override != nil {
		return override.Granted
	}

	// 3. Effective role permission set
	if member.RoleID == nil {
		return false
	}
	effective, err := s.EffectivePermissions(ctx, *member.RoleID)
	if err != nil {
		return false
	}
	for _, p := range effective {
		if p == permission {
			return true
		}
	}
	return false
}

func (s *permissionService) EffectivePermissions(ctx context.Context, projectRoleID string) ([]string, error) {
	role, err := s.roleRepo.FindProjectRole(ctx, projectRoleID)
	if err != nil {
		return nil, fmt.Errorf("failed to find project role: %w", err)
	}
	if role == nil {
		return nil, ErrNotFound
	}

	seen := make(map[string]bool, len(role.Permissions))
	effective := make([]string, 0, len(role.Permissions))
	for _, p := range role.Permissions {
		if !seen[p] {
			seen[p] = true
			effective = append(effective, p)
		}
	}

	if role.InheritsFrom != nil {
		orgRole, err := s.roleRepo.FindOrgRole(ctx, *role.InheritsFrom)
		if err != nil {
			return nil, fmt.Errorf("failed to find org role: %w", err)
		}
		if orgRole != nil {
			for _, p := range orgRole.Permissions {
				if !seen[p] {
					seen[p] = true
					effective = append(effective, p)
				}
			}
		}
	}

	return effective, nil
}

// memberForUpdate authorizes the actor and resolves the target member row.
func (s *permissionService) memberForUpdate(ctx context.Context, actorID, projectID, userID string) (*repository.ProjectMember, error) {
	if !s.HasPermission(ctx, projectID, actorID, types.PermMemberManage, nil) {
		return nil, ErrForbidden
	}
	member, err := s.projectRepo.FindMember(ctx, projectID, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to find member: %w", err)
	}
	if member == nil {
		return nil, ErrNotFound
	}
	return member, nil
}

func (s *permissionService) SetOverride(ctx context.Context, actorID, projectID, userID, permission string, granted bool) (*repository.PermissionOverride, error) {
	member, err := s.memberForUpdate(ctx, actorID, projectID, userID)
	if err != nil {
		return nil, err
	}

	override := &repository.PermissionOverride{
		ProjectMemberID: member.ID,
		Permission:      permission,
		Granted:         granted,
		GrantedBy:       &actorID,
	}
	if err := s.permissionRepo.UpsertOverride(ctx, override); err != nil {
		return nil, fmt.Errorf("failed to upsert override: %w", err)
	}
	return override, nil
}

func (s *permissionService) RemoveOverride(ctx context.Context, actorID, projectID, userID, permission string) error {
	member, err := s.memberForUpdate(ctx, actorID, projectID, userID)
	if err != nil {
		return err
	}
	return s.permissionRepo.DeleteOverride(ctx, member.ID, permission)
}

func (s *permissionService) ListOverrides(ctx context.Context, actorID, projectID, userID string) ([]*repository.PermissionOverride, error) {
	member, err := s.memberForUpdate(ctx, actorID, projectID, userID)
	if err != nil {
		return nil, err
	}
	return s.permissionRepo.FindOverridesByMember(ctx, member.ID)
}

func (s *permissionService) SetResourcePermission(ctx context.Context, actorID, projectID, userID string, resource repository.ResourceRef, permission string, granted bool) (*repository.ResourcePermission, error) {
	member, err := s.memberForUpdate(ctx, actorID, projectID, userID)
	if err != nil {
		return nil, err
	}

	perm := &repository.ResourcePermission{
		ProjectMemberID: member.ID,
		ResourceType:    resource.Type,
		ResourceID:      resource.ID,
		Permission:      permission,
		Granted:         granted,
	}
	if err := s.permissionRepo.UpsertResourcePermission(ctx, perm); err != nil {
		return nil, fmt.Errorf("failed to upsert resource permission: %w", err)
	}
	return perm, nil
}

func (s *permissionService) RemoveResourcePermission(ctx context.Context, actorID, projectID, userID string, resource repository.ResourceRef, permission string) error {
	member, err := s.memberForUpdate(ctx, actorID, projectID, userID)
	if err != nil {
		return err
	}
	return s.permissionRepo.DeleteResourcePermission(ctx, member.ID, resource.Type, resource.ID, permission)
}

func (s *permissionService) ListResourcePermissions(ctx context.Context, actorID, projectID, userID string) ([]*repository.ResourcePermission, error) {
	member, err := s.memberForUpdate(ctx, actorID, projectID, userID)
	if err != nil {
		return nil, err
	}
	return s.permissionRepo.FindResourcePermissionsByMember(ctx, member.ID)
}
