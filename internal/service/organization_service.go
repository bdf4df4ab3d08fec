package service

import (
	"context"
	"fmt"

	"github.com/sitegrid/sitegrid-backend/internal/email"
	"github.com/sitegrid/sitegrid-backend/internal/repository"
	"github.com/sitegrid/sitegrid-backend/internal/types"
)

// ============================================
// Organization Service
// ============================================

type OrganizationService interface {
	Create(ctx context.Context, ownerID, name string, description *string) (*repository.Organization, error)
	GetByID(ctx context.Context, actorID, orgID string) (*repository.Organization, error)
	ListForUser(ctx context.Context, userID string) ([]*repository.Organization, error)
	Update(ctx context.Context, actorID, orgID string, name, description *string) (*repository.Organization, error)
	Delete(ctx context.Context, actorID, orgID string) error

	AddMember(ctx context.Context, actorID, orgID, userEmail string, roleID *string) (*repository.OrganizationMember, error)
	ListMembers(ctx context.Context, actorID, orgID string) ([]*repository.OrganizationMember, error)
	RemoveMember(ctx context.Context, actorID, orgID, userID string) error
}

type organizationService struct {
	orgRepo  repository.OrganizationRepository
	roleRepo repository.RoleRepository
	userRepo repository.UserRepository
	emailSvc *email.Service
}

func NewOrganizationService(
	orgRepo repository.OrganizationRepository,
	roleRepo repository.RoleRepository,
	userRepo repository.UserRepository,
	emailSvc *email.Service,
) OrganizationService {
	return &organizationService{
		orgRepo:  orgRepo,
		roleRepo: roleRepo,
		userRepo: userRepo,
		emailSvc: emailSvc,
	}
}

func (s *organizationService) Create(ctx context.Context, ownerID, name string, description *string) (*repository.Organization, error) {
	if name == "" {
		return nil, ErrInvalidInput
	}

	org := &repository.Organization{
		Name:        name,
		Description: description,
		OwnerID:     ownerID,
	}
	if err := s.orgRepo.Create(ctx, org); err != nil {
		return nil, fmt.Errorf("failed to create organization: %w", err)
	}

	// Seed the built-in org roles
	adminRole := &repository.OrganizationRole{
		OrganizationID: org.ID,
		Name:           types.RoleAdmin,
		Permissions: []string{
			types.PermProjectView, types.PermProjectEdit, types.PermProjectManage,
			types.PermMemberManage, types.PermSubmittalCreate, types.PermSubmittalEdit,
			types.PermApprovalDecide, types.PermInspectionManage, types.PermRFICreate,
			types.PermRFIAnswer, types.PermMeetingManage, types.PermTaskManage,
			types.PermDocumentUpload, types.PermDocumentDelete,
		},
	}
	if err := s.roleRepo.CreateOrgRole(ctx, adminRole); err != nil {
		return nil, fmt.Errorf("failed to create admin role: %w", err)
	}

	viewerRole := &repository.OrganizationRole{
		OrganizationID: org.ID,
		Name:           types.RoleViewer,
		Permissions:    []string{types.PermProjectView},
	}
	if err := s.roleRepo.CreateOrgRole(ctx, viewerRole); err != nil {
		return nil, fmt.Errorf("failed to create viewer role: %w", err)
	}

	member := &repository.OrganizationMember{
		OrganizationID: org.ID,
		UserID:         ownerID,
		RoleID:         &adminRole.ID,
	}
	if err := s.orgRepo.AddMember(ctx, member); err != nil {
		return nil, fmt.Errorf("failed to add owner as member: %w", err)
	}

	return org, nil
}

func (s *organizationService) GetByID(ctx context.Context, actorID, orgID string) (*repository.Organization, error) {
	org, err := s.orgRepo.FindByID(ctx, orgID)
	if err != nil {
		return nil, fmt.Errorf("failed to find organization: %w", err)
	}
	if org == nil {
		return nil, ErrNotFound
	}

	member, err := s.orgRepo.FindMember(ctx, orgID, actorID)
	if err != nil || member == nil {
		return nil, ErrForbidden
	}
	return org, nil
}

func (s *organizationService) ListForUser(ctx context.Context, userID string) ([]*repository.Organization, error) {
	return s.orgRepo.FindByUserID(ctx, userID)
}

func (s *organizationService) Update(ctx context.Context, actorID, orgID string, name, description *string) (*repository.Organization, error) {
	org, err := s.GetByID(ctx, actorID, orgID)
	if err != nil {
		return nil, err
	}
	if org.OwnerID != actorID {
		return nil, ErrForbidden
	}

	if name != nil && *name != "" {
		org.Name = *name
	}
	if description != nil {
		org.Description = description
	}

	if err := s.orgRepo.Update(ctx, org); err != nil {
		return nil, fmt.Errorf("failed to update organization: %w", err)
	}
	return org, nil
}

func (s *organizationService) Delete(ctx context.Context, actorID, orgID string) error {
	org, err := s.GetByID(ctx, actorID, orgID)
	if err != nil {
		return err
	}
	if org.OwnerID != actorID {
		return ErrForbidden
	}
	return s.orgRepo.Delete(ctx, orgID)
}

func (s *organizationService) AddMember(ctx context.Context, actorID, orgID, userEmail string, roleID *string) (*repository.OrganizationMember, error) {
	org, err := s.GetByID(ctx, actorID, orgID)
	if err != nil {
		return nil, err
	}
	if org.OwnerID != actorID {
		return nil, ErrForbidden
	}

	user, err := s.userRepo.FindByEmail(ctx, userEmail)
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	existing, _ := s.orgRepo.FindMember(ctx, orgID, user.ID)
	if existing != nil {
		return nil, ErrConflict
	}

	if roleID != nil {
		role, err := s.roleRepo.FindOrgRole(ctx, *roleID)
		if err != nil || role == nil || role.OrganizationID != orgID {
			return nil, ErrInvalidInput
		}
	}

	member := &repository.OrganizationMember{
		OrganizationID: orgID,
		UserID:         user.ID,
		RoleID:         roleID,
	}
	if err := s.orgRepo.AddMember(ctx, member); err != nil {
		return nil, fmt.Errorf("failed to add member: %w", err)
	}
	member.User = user

	if s.emailSvc != nil {
		if actor, err := s.userRepo.FindByID(ctx, actorID); err == nil && actor != nil {
			go s.emailSvc.SendInvitation(user.Email, org.Name, actor.Name, "")
		}
	}

	return member, nil
}

func (s *organizationService) ListMembers(ctx context.Context, actorID, orgID string) ([]*repository.OrganizationMember, error) {
	if _, err := s.GetByID(ctx, actorID, orgID); err != nil {
		return nil, err
	}
	return s.orgRepo.FindMembers(ctx, orgID)
}

func (s *organizationService) RemoveMember(ctx context.Context, actorID, orgID, userID string) error {
	org, err := s.GetByID(ctx, actorID, orgID)
	if err != nil {
		return err
	}
	if org.OwnerID != actorID && actorID != userID {
		return ErrForbidden
	}
	if org.OwnerID == userID {
		return ErrLastAdmin
	}
	return s.orgRepo.RemoveMember(ctx, orgID, userID)
}
