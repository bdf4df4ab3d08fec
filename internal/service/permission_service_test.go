package service

import (
	"context"
	"errors"
	"sort"
	"testing"

	"github.com/sitegrid/sitegrid-backend/internal/repository"
	"github.com/sitegrid/sitegrid-backend/internal/types"
)

// permissionFixture: one org with an "engineer" org role, one project with
// an admin and a contractor role that inherits from the org role.
type permissionFixture struct {
	repos            *repository.Repositories
	svc              PermissionService
	projectID        string
	adminID          string
	contractorID     string
	viewerID         string
	outsiderID       string
	contractorRoleID string
}

func newPermissionFixture(t *testing.T) *permissionFixture {
	t.Helper()
	ctx := context.Background()
	repos := repository.NewRepositories()

	admin := &repository.User{Email: "admin@example.com", Name: "Admin", Password: "x"}
	contractor := &repository.User{Email: "contractor@example.com", Name: "Contractor", Password: "x"}
	viewer := &repository.User{Email: "viewer@example.com", Name: "Viewer", Password: "x"}
	outsider := &repository.User{Email: "outsider@example.com", Name: "Outsider", Password: "x"}
	for _, u := range []*repository.User{admin, contractor, viewer, outsider} {
		if err := repos.UserRepo.Create(ctx, u); err != nil {
			t.Fatalf("create user: %v", err)
		}
	}

	org := &repository.Organization{Name: "Org", OwnerID: admin.ID}
	if err := repos.OrgRepo.Create(ctx, org); err != nil {
		t.Fatalf("create org: %v", err)
	}

	engineerOrgRole := &repository.OrganizationRole{
		OrganizationID: org.ID,
		Name:           types.RoleEngineer,
		Permissions:    []string{types.PermRFICreate, types.PermRFIAnswer, types.PermProjectView},
	}
	if err := repos.RoleRepo.CreateOrgRole(ctx, engineerOrgRole); err != nil {
		t.Fatalf("create org role: %v", err)
	}

	project := &repository.Project{
		OrganizationID: org.ID, Name: "Depot", Code: "DPT-1",
		Status: "active", CreatedBy: admin.ID,
	}
	if err := repos.ProjectRepo.Create(ctx, project); err != nil {
		t.Fatalf("create project: %v", err)
	}

	adminRole := &repository.ProjectRole{
		ProjectID:   project.ID,
		Name:        types.RoleAdmin,
		Permissions: []string{types.PermProjectView, types.PermMemberManage, types.PermTaskManage},
	}
	// project.view appears both locally and via inheritance; the merge must dedup
	contractorRole := &repository.ProjectRole{
		ProjectID:    project.ID,
		Name:         types.RoleSubcontractor,
		Permissions:  []string{types.PermProjectView, types.PermDocumentUpload},
		InheritsFrom: &engineerOrgRole.ID,
	}
	viewerRole := &repository.ProjectRole{
		ProjectID:   project.ID,
		Name:        types.RoleViewer,
		Permissions: []string{types.PermProjectView},
	}
	for _, r := range []*repository.ProjectRole{adminRole, contractorRole, viewerRole} {
		if err := repos.RoleRepo.CreateProjectRole(ctx, r); err != nil {
			t.Fatalf("create project role: %v", err)
		}
	}

	members := []*repository.ProjectMember{
		{ProjectID: project.ID, UserID: admin.ID, RoleID: &adminRole.ID},
		{ProjectID: project.ID, UserID: contractor.ID, RoleID: &contractorRole.ID},
		{ProjectID: project.ID, UserID: viewer.ID, RoleID: &viewerRole.ID},
	}
	for _, m := range members {
		if err := repos.ProjectRepo.AddMember(ctx, m); err != nil {
			t.Fatalf("add member: %v", err)
		}
	}

	return &permissionFixture{
		repos:            repos,
		svc:              NewPermissionService(repos.ProjectRepo, repos.RoleRepo, repos.PermissionRepo),
		projectID:        project.ID,
		adminID:          admin.ID,
		contractorID:     contractor.ID,
		viewerID:         viewer.ID,
		outsiderID:       outsider.ID,
		contractorRoleID: contractorRole.ID,
	}
}

func TestHasPermissionDeniesNonMember(t *testing.T) {
	f := newPermissionFixture(t)
	ctx := context.Background()

	if f.svc.HasPermission(ctx, f.projectID, f.outsiderID, types.PermProjectView, nil) {
		t.Error("non-member was granted project.view")
	}
	if f.svc.HasPermission(ctx, "no-such-project", f.adminID, types.PermProjectView, nil) {
		t.Error("unknown project granted a permission")
	}
}

func TestHasPermissionFromRole(t *testing.T) {
	f := newPermissionFixture(t)
	ctx := context.Background()

	if !f.svc.HasPermission(ctx, f.projectID, f.adminID, types.PermTaskManage, nil) {
		t.Error("admin denied a permission its role carries")
	}
	if f.svc.HasPermission(ctx, f.projectID, f.viewerID, types.PermTaskManage, nil) {
		t.Error("viewer granted a permission outside its role")
	}
}

func TestHasPermissionInheritsOrgRole(t *testing.T) {
	f := newPermissionFixture(t)
	ctx := context.Background()

	// rfi.create comes only from the inherited engineer org role
	if !f.svc.HasPermission(ctx, f.projectID, f.contractorID, types.PermRFICreate, nil) {
		t.Error("inherited org-role permission denied")
	}
	// document.upload is local to the project role
	if !f.svc.HasPermission(ctx, f.projectID, f.contractorID, types.PermDocumentUpload, nil) {
		t.Error("local project-role permission denied")
	}
	// the viewer has no inheritance and no such grant
	if f.svc.HasPermission(ctx, f.projectID, f.viewerID, types.PermRFICreate, nil) {
		t.Error("viewer granted an inherited permission it should not have")
	}
}

func TestOverrideBeatsRole(t *testing.T) {
	f := newPermissionFixture(t)
	ctx := context.Background()

	// Revoke a role-carried permission
	if _, err := f.svc.SetOverride(ctx, f.adminID, f.projectID, f.contractorID, types.PermDocumentUpload, false); err != nil {
		t.Fatalf("set deny override: %v", err)
	}
	if f.svc.HasPermission(ctx, f.projectID, f.contractorID, types.PermDocumentUpload, nil) {
		t.Error("deny override did not beat the role grant")
	}

	// Grant a permission the role lacks
	if _, err := f.svc.SetOverride(ctx, f.adminID, f.projectID, f.viewerID, types.PermTaskManage, true); err != nil {
		t.Fatalf("set allow override: %v", err)
	}
	if !f.svc.HasPermission(ctx, f.projectID, f.viewerID, types.PermTaskManage, nil) {
		t.Error("allow override did not beat the role denial")
	}

	// Removing the override falls back to the role
	if err := f.svc.RemoveOverride(ctx, f.adminID, f.projectID, f.contractorID, types.PermDocumentUpload); err != nil {
		t.Fatalf("remove override: %v", err)
	}
	if !f.svc.HasPermission(ctx, f.projectID, f.contractorID, types.PermDocumentUpload, nil) {
		t.Error("role grant not restored after override removal")
	}
}

func TestResourcePermissionBeatsOverride(t *testing.T) {
	f := newPermissionFixture(t)
	ctx := context.Background()

	resource := repository.ResourceRef{Type: types.ResourceSubmittal, ID: "sub-1"}

	// Member-level deny, resource-level allow for one submittal
	if _, err := f.svc.SetOverride(ctx, f.adminID, f.projectID, f.contractorID, types.PermSubmittalEdit, false); err != nil {
		t.Fatalf("set override: %v", err)
	}
	if _, err := f.svc.SetResourcePermission(ctx, f.adminID, f.projectID, f.contractorID, resource, types.PermSubmittalEdit, true); err != nil {
		t.Fatalf("set resource permission: %v", err)
	}

	if !f.svc.HasPermission(ctx, f.projectID, f.contractorID, types.PermSubmittalEdit, &resource) {
		t.Error("resource-level allow did not beat the member-level deny")
	}

	// The override still governs other resources and the project-wide check
	other := repository.ResourceRef{Type: types.ResourceSubmittal, ID: "sub-2"}
	if f.svc.HasPermission(ctx, f.projectID, f.contractorID, types.PermSubmittalEdit, &other) {
		t.Error("resource grant leaked to a different resource")
	}
	if f.svc.HasPermission(ctx, f.projectID, f.contractorID, types.PermSubmittalEdit, nil) {
		t.Error("resource grant leaked to the project-wide check")
	}
}

func TestResourceDenyOnSingleResource(t *testing.T) {
	f := newPermissionFixture(t)
	ctx := context.Background()

	resource := repository.ResourceRef{Type: types.ResourceDocument, ID: "doc-1"}
	if _, err := f.svc.SetResourcePermission(ctx, f.adminID, f.projectID, f.contractorID, resource, types.PermDocumentUpload, false); err != nil {
		t.Fatalf("set resource permission: %v", err)
	}

	if f.svc.HasPermission(ctx, f.projectID, f.contractorID, types.PermDocumentUpload, &resource) {
		t.Error("resource-level deny did not beat the role grant")
	}
	if !f.svc.HasPermission(ctx, f.projectID, f.contractorID, types.PermDocumentUpload, nil) {
		t.Error("project-wide check affected by a resource-level row")
	}
}

func TestHasPermissionDeterministic(t *testing.T) {
	f := newPermissionFixture(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		if !f.svc.HasPermission(ctx, f.projectID, f.contractorID, types.PermRFICreate, nil) {
			t.Fatalf("iteration %d: result flipped", i)
		}
	}
}

func TestEffectivePermissionsMergesAndDedups(t *testing.T) {
	f := newPermissionFixture(t)
	ctx := context.Background()

	perms, err := f.svc.EffectivePermissions(ctx, f.contractorRoleID)
	if err != nil {
		t.Fatalf("effective permissions: %v", err)
	}

	want := []string{
		types.PermProjectView, types.PermDocumentUpload,
		types.PermRFICreate, types.PermRFIAnswer,
	}
	sort.Strings(perms)
	sort.Strings(want)
	if len(perms) != len(want) {
		t.Fatalf("got %v, want %v", perms, want)
	}
	for i := range want {
		if perms[i] != want[i] {
			t.Fatalf("got %v, want %v", perms, want)
		}
	}
}

func TestEffectivePermissionsUnknownRole(t *testing.T) {
	f := newPermissionFixture(t)

	if _, err := f.svc.EffectivePermissions(context.Background(), "no-such-role"); !errors.Is(err, ErrNotFound) {
		t.Errorf("got %v, want ErrNotFound", err)
	}
}

func TestOverrideManagementRequiresMemberManage(t *testing.T) {
	f := newPermissionFixture(t)
	ctx := context.Background()

	if _, err := f.svc.SetOverride(ctx, f.viewerID, f.projectID, f.contractorID, types.PermTaskManage, true); !errors.Is(err, ErrForbidden) {
		t.Errorf("set override by viewer: got %v, want ErrForbidden", err)
	}
	if _, err := f.svc.ListOverrides(ctx, f.contractorID, f.projectID, f.contractorID); !errors.Is(err, ErrForbidden) {
		t.Errorf("list overrides by contractor: got %v, want ErrForbidden", err)
	}

	// Target must exist
	if _, err := f.svc.SetOverride(ctx, f.adminID, f.projectID, f.outsiderID, types.PermTaskManage, true); !errors.Is(err, ErrNotFound) {
		t.Errorf("override for non-member: got %v, want ErrNotFound", err)
	}
}

// faultyPermissionRepo simulates lookup failures at the explicit-grant levels.
type faultyPermissionRepo struct {
	repository.PermissionRepository
	err error
}

func (r *faultyPermissionRepo) FindResourcePermission(ctx context.Context, memberID, resourceType, resourceID, permission string) (*repository.ResourcePermission, error) {
	return nil, r.err
}

func (r *faultyPermissionRepo) FindOverride(ctx context.Context, memberID, permission string) (*repository.PermissionOverride, error) {
	return nil, r.err
}

func TestLookupErrorDenies(t *testing.T) {
	f := newPermissionFixture(t)
	ctx := context.Background()

	svc := NewPermissionService(f.repos.ProjectRepo, f.repos.RoleRepo, &faultyPermissionRepo{
		PermissionRepository: f.repos.PermissionRepo,
		err:                  errors.New("connection reset by peer"),
	})

	// The admin role grants project.view, but a failed override lookup could
	// be hiding an explicit deny, so the check must not fall through to it.
	if svc.HasPermission(ctx, f.projectID, f.adminID, types.PermProjectView, nil) {
		t.Error("override lookup failure should deny")
	}

	resource := &repository.ResourceRef{Type: types.EntityEquipment, ID: "s1"}
	if svc.HasPermission(ctx, f.projectID, f.adminID, types.PermProjectView, resource) {
		t.Error("resource lookup failure should deny")
	}
}
