package seed

import (
	"context"
	"log"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"

	"github.com/sitegrid/sitegrid-backend/internal/repository"
	"github.com/sitegrid/sitegrid-backend/internal/types"
)

// SeedData creates development data: one organization, one project with
// a few members, and a submittal mid-way through its approval workflow.
func SeedData(repos *repository.Repositories) {
	ctx := context.Background()

	if existing, _ := repos.UserRepo.FindByEmail(ctx, "dana.reyes@sitegrid.dev"); existing != nil {
		log.Println("[Seed] Data already exists, skipping...")
		return
	}

	log.Println("[Seed] Creating initial data...")

	// ============================================
	// CREATE USERS
	// ============================================
	password, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)

	// 1. DANA - organization owner / project admin
	dana := &repository.User{
		Email:    "dana.reyes@sitegrid.dev",
		Password: string(password),
		Name:     "Dana Reyes",
		Title:    stringPtr("Project Executive"),
	}
	repos.UserRepo.Create(ctx, dana)

	// 2. MILO - architect, first approver on submittals
	milo := &repository.User{
		Email:    "milo.tanaka@sitegrid.dev",
		Password: string(password),
		Name:     "Milo Tanaka",
		Title:    stringPtr("Architect"),
	}
	repos.UserRepo.Create(ctx, milo)

	// 3. PRIYA - structural engineer, second approver
	priya := &repository.User{
		Email:    "priya.nair@sitegrid.dev",
		Password: string(password),
		Name:     "Priya Nair",
		Title:    stringPtr("Structural Engineer"),
	}
	repos.UserRepo.Create(ctx, priya)

	// 4. SAM - site contractor, creates submittals and RFIs
	sam := &repository.User{
		Email:    "sam.okafor@sitegrid.dev",
		Password: string(password),
		Name:     "Sam Okafor",
		Title:    stringPtr("General Contractor"),
	}
	repos.UserRepo.Create(ctx, sam)

	log.Println("[Seed] Created 4 users (password: password123)")

	// ============================================
	// ORGANIZATION + ROLES
	// ============================================
	org := &repository.Organization{
		Name:        "Northgate Construction Group",
		Description: stringPtr("Commercial construction and fit-out"),
		OwnerID:     dana.ID,
	}
	repos.OrgRepo.Create(ctx, org)

	adminOrgRole := &repository.OrganizationRole{
		OrganizationID: org.ID,
		Name:           types.RoleAdmin,
		Permissions:    adminPermissions(),
	}
	repos.RoleRepo.CreateOrgRole(ctx, adminOrgRole)

	engineerOrgRole := &repository.OrganizationRole{
		OrganizationID: org.ID,
		Name:           "engineer",
		Permissions: []string{
			types.PermProjectView,
			types.PermSubmittalCreate,
			types.PermRFICreate,
			types.PermRFIAnswer,
		},
	}
	repos.RoleRepo.CreateOrgRole(ctx, engineerOrgRole)

	for _, u := range []*repository.User{dana, milo, priya, sam} {
		roleID := &engineerOrgRole.ID
		if u.ID == dana.ID {
			roleID = &adminOrgRole.ID
		}
		repos.OrgRepo.AddMember(ctx, &repository.OrganizationMember{
			OrganizationID: org.ID,
			UserID:         u.ID,
			RoleID:         roleID,
		})
	}

	// ============================================
	// PROJECT + ROLES + MEMBERS
	// ============================================
	project := &repository.Project{
		OrganizationID: org.ID,
		Name:           "Harborview Tower",
		Code:           "HVT-01",
		Description:    stringPtr("24-storey mixed-use tower, phase one"),
		Address:        stringPtr("1200 Harbor Blvd"),
		Status:         "active",
		CreatedBy:      dana.ID,
	}
	repos.ProjectRepo.Create(ctx, project)

	adminRole := &repository.ProjectRole{
		ProjectID:   project.ID,
		Name:        types.RoleAdmin,
		Permissions: adminPermissions(),
	}
	repos.RoleRepo.CreateProjectRole(ctx, adminRole)

	architectRole := &repository.ProjectRole{
		ProjectID: project.ID,
		Name:      "architect",
		Permissions: []string{
			types.PermProjectView,
			types.PermApprovalDecide,
			types.PermRFIAnswer,
		},
	}
	repos.RoleRepo.CreateProjectRole(ctx, architectRole)

	// Inherits baseline engineer permissions from the org role
	contractorRole := &repository.ProjectRole{
		ProjectID:    project.ID,
		Name:         "contractor",
		Permissions:  []string{types.PermDocumentUpload},
		InheritsFrom: &engineerOrgRole.ID,
	}
	repos.RoleRepo.CreateProjectRole(ctx, contractorRole)

	repos.ProjectRepo.AddMember(ctx, &repository.ProjectMember{
		ProjectID: project.ID, UserID: dana.ID, RoleID: &adminRole.ID,
	})
	repos.ProjectRepo.AddMember(ctx, &repository.ProjectMember{
		ProjectID: project.ID, UserID: milo.ID, RoleID: &architectRole.ID,
	})
	repos.ProjectRepo.AddMember(ctx, &repository.ProjectMember{
		ProjectID: project.ID, UserID: priya.ID, RoleID: &architectRole.ID,
	})
	repos.ProjectRepo.AddMember(ctx, &repository.ProjectMember{
		ProjectID: project.ID, UserID: sam.ID, RoleID: &contractorRole.ID,
	})

	// ============================================
	// SUBMITTAL UNDER REVIEW
	// ============================================
	unitCost := decimal.NewFromFloat(1840.50)
	submittal := &repository.Submittal{
		ProjectID:    project.ID,
		Kind:         types.SubmittalEquipment,
		Name:         "Rooftop HVAC Unit RTU-3",
		SpecSection:  stringPtr("23 74 13"),
		Manufacturer: stringPtr("Trane"),
		ModelNumber:  stringPtr("YCD-360"),
		Quantity:     4,
		UnitCost:     &unitCost,
		Status:       types.SubmittalUnderReview,
		CreatedBy:    sam.ID,
	}
	repos.SubmittalRepo.Create(ctx, submittal)

	stepName1 := "Architect review"
	stepName2 := "Structural review"
	request := &repository.ApprovalRequest{
		ProjectID:     project.ID,
		EntityType:    types.EntityEquipment,
		EntityID:      submittal.ID,
		CurrentStatus: types.RequestUnderReview,
		WorkflowConfig: []repository.WorkflowStepConfig{
			{Name: &stepName1, ApproverID: &milo.ID},
			{Name: &stepName2, ApproverRole: stringPtr("architect")},
		},
		CreatedBy: sam.ID,
	}
	steps := []*repository.ApprovalStep{
		{StepOrder: 0, ApproverID: &milo.ID, Status: types.StepPending},
		{StepOrder: 1, ApproverRole: stringPtr("architect"), Status: types.StepDraft},
	}
	repos.ApprovalRepo.CreateRequest(ctx, request, steps)

	// ============================================
	// OPEN RFI
	// ============================================
	due := time.Now().Add(5 * 24 * time.Hour)
	rfi := &repository.RFI{
		ProjectID:  project.ID,
		Number:     1,
		Subject:    "Curtain wall anchor spacing at level 4",
		Question:   "Drawing A-402 shows 600mm anchor spacing but spec section 08 44 13 calls for 450mm. Which governs?",
		Status:     types.RFIOpen,
		DueDate:    &due,
		AssigneeID: &milo.ID,
		CreatedBy:  sam.ID,
	}
	repos.RFIRepo.Create(ctx, rfi)

	log.Println("[Seed] Seed data created")
	log.Printf("[Seed] Organization: %s, Project: %s (%s)", org.Name, project.Name, project.Code)
}

func adminPermissions() []string {
	return []string{
		types.PermProjectView, types.PermProjectEdit, types.PermProjectManage,
		types.PermMemberManage, types.PermSubmittalCreate, types.PermSubmittalEdit,
		types.PermApprovalDecide, types.PermInspectionManage, types.PermRFICreate,
		types.PermRFIAnswer, types.PermMeetingManage, types.PermTaskManage,
		types.PermDocumentUpload, types.PermDocumentDelete,
	}
}

func stringPtr(s string) *string {
	return &s
}
