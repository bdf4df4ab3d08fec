package service

import (
	"context"
	"errors"
	"testing"

	"github.com/sitegrid/sitegrid-backend/internal/repository"
	"github.com/sitegrid/sitegrid-backend/internal/types"
)

// approvalFixture wires the approval service against in-memory
// repositories with one project: a creator (admin), a named approver,
// and a member holding the "architect" role.
type approvalFixture struct {
	repos       *repository.Repositories
	svc         ApprovalService
	projectID   string
	creatorID   string
	approverID  string
	architectID string
	outsiderID  string
}

func newApprovalFixture(t *testing.T) *approvalFixture {
	t.Helper()
	ctx := context.Background()
	repos := repository.NewRepositories()

	creator := &repository.User{Email: "creator@example.com", Name: "Creator", Password: "x"}
	approver := &repository.User{Email: "approver@example.com", Name: "Approver", Password: "x"}
	architect := &repository.User{Email: "architect@example.com", Name: "Architect", Password: "x"}
	outsider := &repository.User{Email: "outsider@example.com", Name: "Outsider", Password: "x"}
	for _, u := range []*repository.User{creator, approver, architect, outsider} {
		if err := repos.UserRepo.Create(ctx, u); err != nil {
			t.Fatalf("create user: %v", err)
		}
	}

	org := &repository.Organization{Name: "Org", OwnerID: creator.ID}
	if err := repos.OrgRepo.Create(ctx, org); err != nil {
		t.Fatalf("create org: %v", err)
	}

	project := &repository.Project{
		OrganizationID: org.ID, Name: "Tower", Code: "TWR-1",
		Status: "active", CreatedBy: creator.ID,
	}
	if err := repos.ProjectRepo.Create(ctx, project); err != nil {
		t.Fatalf("create project: %v", err)
	}

	adminRole := &repository.ProjectRole{
		ProjectID: project.ID, Name: types.RoleAdmin,
		Permissions: []string{types.PermProjectView, types.PermSubmittalCreate, types.PermSubmittalEdit, types.PermApprovalDecide},
	}
	architectRole := &repository.ProjectRole{
		ProjectID: project.ID, Name: "architect",
		Permissions: []string{types.PermProjectView, types.PermApprovalDecide},
	}
	for _, r := range []*repository.ProjectRole{adminRole, architectRole} {
		if err := repos.RoleRepo.CreateProjectRole(ctx, r); err != nil {
			t.Fatalf("create role: %v", err)
		}
	}

	members := []*repository.ProjectMember{
		{ProjectID: project.ID, UserID: creator.ID, RoleID: &adminRole.ID},
		{ProjectID: project.ID, UserID: approver.ID, RoleID: &architectRole.ID},
		{ProjectID: project.ID, UserID: architect.ID, RoleID: &architectRole.ID},
	}
	for _, m := range members {
		if err := repos.ProjectRepo.AddMember(ctx, m); err != nil {
			t.Fatalf("add member: %v", err)
		}
	}

	permSvc := NewPermissionService(repos.ProjectRepo, repos.RoleRepo, repos.PermissionRepo)
	svc := NewApprovalService(repos.ApprovalRepo, repos.ProjectRepo, repos.RoleRepo, repos.SubmittalRepo, permSvc, nil, nil)

	return &approvalFixture{
		repos:       repos,
		svc:         svc,
		projectID:   project.ID,
		creatorID:   creator.ID,
		approverID:  approver.ID,
		architectID: architect.ID,
		outsiderID:  outsider.ID,
	}
}

func (f *approvalFixture) twoStepConfig() []repository.WorkflowStepConfig {
	role := "architect"
	return []repository.WorkflowStepConfig{
		{ApproverID: &f.approverID},
		{ApproverRole: &role},
	}
}

// createSubmitted creates a request and submits it so the first step is pending.
func (f *approvalFixture) createSubmitted(t *testing.T) *repository.ApprovalRequest {
	t.Helper()
	ctx := context.Background()
	request, err := f.svc.CreateRequest(ctx, f.creatorID, f.projectID, types.EntityEquipment, "entity-1", f.twoStepConfig())
	if err != nil {
		t.Fatalf("create request: %v", err)
	}
	request, err = f.svc.Submit(ctx, f.creatorID, request.ID)
	if err != nil {
		t.Fatalf("submit request: %v", err)
	}
	return request
}

func TestCreateRequestStepOrdering(t *testing.T) {
	f := newApprovalFixture(t)
	ctx := context.Background()

	role := "architect"
	config := []repository.WorkflowStepConfig{
		{ApproverID: &f.approverID},
		{ApproverRole: &role},
		{ApproverID: &f.architectID},
	}

	request, err := f.svc.CreateRequest(ctx, f.creatorID, f.projectID, types.EntityMaterial, "mat-1", config)
	if err != nil {
		t.Fatalf("create request: %v", err)
	}

	if request.CurrentStatus != types.RequestDraft {
		t.Errorf("status = %q, want %q", request.CurrentStatus, types.RequestDraft)
	}
	if len(request.Steps) != 3 {
		t.Fatalf("got %d steps, want 3", len(request.Steps))
	}
	for i, step := range request.Steps {
		if step.StepOrder != i {
			t.Errorf("step %d has order %d", i, step.StepOrder)
		}
		if step.Status != types.StepDraft {
			t.Errorf("step %d status = %q, want draft", i, step.Status)
		}
	}
	if request.Steps[0].ApproverID == nil || *request.Steps[0].ApproverID != f.approverID {
		t.Error("step 0 approver does not match config")
	}
	if request.Steps[1].ApproverRole == nil || *request.Steps[1].ApproverRole != role {
		t.Error("step 1 approver role does not match config")
	}
}

func TestCreateRequestValidation(t *testing.T) {
	f := newApprovalFixture(t)
	ctx := context.Background()
	role := "architect"

	cases := []struct {
		name    string
		actorID string
		entity  string
		config  []repository.WorkflowStepConfig
		wantErr error
	}{
		{"empty workflow", f.creatorID, types.EntityEquipment, nil, ErrInvalidInput},
		{"unknown entity type", f.creatorID, "purchase_order", f.twoStepConfig(), ErrInvalidInput},
		{"both approver fields set", f.creatorID, types.EntityEquipment,
			[]repository.WorkflowStepConfig{{ApproverID: &f.approverID, ApproverRole: &role}}, ErrInvalidInput},
		{"neither approver field set", f.creatorID, types.EntityEquipment,
			[]repository.WorkflowStepConfig{{}}, ErrInvalidInput},
		{"actor not a member", f.outsiderID, types.EntityEquipment, f.twoStepConfig(), ErrForbidden},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.svc.CreateRequest(ctx, tc.actorID, f.projectID, tc.entity, "e-1", tc.config)
			if !errors.Is(err, tc.wantErr) {
				t.Errorf("got error %v, want %v", err, tc.wantErr)
			}
		})
	}
}

func TestSubmitMovesFirstStepToPending(t *testing.T) {
	f := newApprovalFixture(t)
	ctx := context.Background()

	request, err := f.svc.CreateRequest(ctx, f.creatorID, f.projectID, types.EntityEquipment, "e-1", f.twoStepConfig())
	if err != nil {
		t.Fatalf("create request: %v", err)
	}

	// Only the creator may submit
	if _, err := f.svc.Submit(ctx, f.approverID, request.ID); !errors.Is(err, ErrForbidden) {
		t.Errorf("submit by non-creator: got %v, want ErrForbidden", err)
	}

	request, err = f.svc.Submit(ctx, f.creatorID, request.ID)
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if request.CurrentStatus != types.RequestUnderReview {
		t.Errorf("status = %q, want under_review", request.CurrentStatus)
	}
	if request.Steps[0].Status != types.StepPending {
		t.Errorf("step 0 status = %q, want pending", request.Steps[0].Status)
	}
	if request.Steps[1].Status != types.StepDraft {
		t.Errorf("step 1 status = %q, want draft", request.Steps[1].Status)
	}

	// A second submit is not a valid transition
	if _, err := f.svc.Submit(ctx, f.creatorID, request.ID); !errors.Is(err, ErrInvalidState) {
		t.Errorf("double submit: got %v, want ErrInvalidState", err)
	}
}

func TestDecisionOutOfOrderRejected(t *testing.T) {
	f := newApprovalFixture(t)
	ctx := context.Background()
	request := f.createSubmitted(t)

	// Step 1 is still draft while step 0 is pending
	_, err := f.svc.RecordDecision(ctx, f.architectID, request.Steps[1].ID, types.DecisionApproved, nil)
	if !errors.Is(err, ErrInvalidState) {
		t.Errorf("out-of-order decision: got %v, want ErrInvalidState", err)
	}
}

func TestDecisionByNonApproverForbidden(t *testing.T) {
	f := newApprovalFixture(t)
	ctx := context.Background()
	request := f.createSubmitted(t)

	// The creator is an admin but not the step's approver
	_, err := f.svc.RecordDecision(ctx, f.creatorID, request.Steps[0].ID, types.DecisionApproved, nil)
	if !errors.Is(err, ErrForbidden) {
		t.Errorf("decision by non-approver: got %v, want ErrForbidden", err)
	}
}

func TestTwoStepApprovalWalkthrough(t *testing.T) {
	f := newApprovalFixture(t)
	ctx := context.Background()
	request := f.createSubmitted(t)

	// Named approver approves step 0; step 1 becomes pending
	request, err := f.svc.RecordDecision(ctx, f.approverID, request.Steps[0].ID, types.DecisionApproved, nil)
	if err != nil {
		t.Fatalf("decide step 0: %v", err)
	}
	if request.CurrentStatus != types.RequestUnderReview {
		t.Errorf("after step 0: status = %q, want under_review", request.CurrentStatus)
	}
	if request.Steps[0].Status != types.StepApproved {
		t.Errorf("step 0 status = %q, want approved", request.Steps[0].Status)
	}
	if request.Steps[0].DecidedAt == nil {
		t.Error("step 0 decided_at not stamped")
	}
	if request.Steps[1].Status != types.StepPending {
		t.Errorf("step 1 status = %q, want pending", request.Steps[1].Status)
	}

	// A holder of the architect role approves step 1; request is approved
	request, err = f.svc.RecordDecision(ctx, f.architectID, request.Steps[1].ID, types.DecisionApproved, nil)
	if err != nil {
		t.Fatalf("decide step 1: %v", err)
	}
	if request.CurrentStatus != types.RequestApproved {
		t.Errorf("final status = %q, want approved", request.CurrentStatus)
	}
}

func TestRejectionRejectsRequest(t *testing.T) {
	f := newApprovalFixture(t)
	ctx := context.Background()
	request := f.createSubmitted(t)

	comments := "wrong spec section"
	request, err := f.svc.RecordDecision(ctx, f.approverID, request.Steps[0].ID, types.DecisionRejected, &comments)
	if err != nil {
		t.Fatalf("reject step 0: %v", err)
	}
	if request.CurrentStatus != types.RequestRejected {
		t.Errorf("status = %q, want rejected", request.CurrentStatus)
	}
	if request.Steps[0].Comments == nil || *request.Steps[0].Comments != comments {
		t.Error("rejection comments not stored")
	}

	// The workflow does not advance past a rejection
	_, err = f.svc.RecordDecision(ctx, f.architectID, request.Steps[1].ID, types.DecisionApproved, nil)
	if !errors.Is(err, ErrInvalidState) {
		t.Errorf("decision after rejection: got %v, want ErrInvalidState", err)
	}
}

func TestRevisionRequestedAndReopen(t *testing.T) {
	f := newApprovalFixture(t)
	ctx := context.Background()
	request := f.createSubmitted(t)

	comments := "resubmit with updated drawings"
	request, err := f.svc.RecordDecision(ctx, f.approverID, request.Steps[0].ID, types.DecisionRevisionRequested, &comments)
	if err != nil {
		t.Fatalf("request revision: %v", err)
	}
	if request.CurrentStatus != types.RequestUnderReview {
		t.Errorf("status = %q, want under_review", request.CurrentStatus)
	}
	if request.Steps[0].Status != types.StepRevisionRequested {
		t.Errorf("step 0 status = %q, want revision_requested", request.Steps[0].Status)
	}

	// Only the creator may reopen
	if _, err := f.svc.ReopenStep(ctx, f.approverID, request.Steps[0].ID); !errors.Is(err, ErrForbidden) {
		t.Errorf("reopen by non-creator: got %v, want ErrForbidden", err)
	}

	request, err = f.svc.ReopenStep(ctx, f.creatorID, request.Steps[0].ID)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	if request.Steps[0].Status != types.StepPending {
		t.Errorf("reopened step status = %q, want pending", request.Steps[0].Status)
	}
	if request.Steps[0].Comments != nil || request.Steps[0].DecidedAt != nil {
		t.Error("reopen did not clear comments/decided_at")
	}
}

func TestSubmittalStatusFollowsRequest(t *testing.T) {
	f := newApprovalFixture(t)
	ctx := context.Background()

	submittal := &repository.Submittal{
		ProjectID: f.projectID,
		Kind:      types.SubmittalEquipment,
		Name:      "Chiller CH-1",
		Quantity:  1,
		Status:    types.SubmittalDraft,
		CreatedBy: f.creatorID,
	}
	if err := f.repos.SubmittalRepo.Create(ctx, submittal); err != nil {
		t.Fatalf("create submittal: %v", err)
	}

	config := []repository.WorkflowStepConfig{{ApproverID: &f.approverID}}
	request, err := f.svc.CreateRequest(ctx, f.creatorID, f.projectID, types.EntityEquipment, submittal.ID, config)
	if err != nil {
		t.Fatalf("create request: %v", err)
	}
	if _, err := f.svc.Submit(ctx, f.creatorID, request.ID); err != nil {
		t.Fatalf("submit: %v", err)
	}

	got, _ := f.repos.SubmittalRepo.FindByID(ctx, submittal.ID)
	if got.Status != types.SubmittalUnderReview {
		t.Errorf("after submit: submittal status = %q, want under_review", got.Status)
	}

	if _, err := f.svc.RecordDecision(ctx, f.approverID, request.Steps[0].ID, types.DecisionApproved, nil); err != nil {
		t.Fatalf("approve: %v", err)
	}

	got, _ = f.repos.SubmittalRepo.FindByID(ctx, submittal.ID)
	if got.Status != types.SubmittalApproved {
		t.Errorf("after approval: submittal status = %q, want approved", got.Status)
	}
}

func TestRecomputeStatus(t *testing.T) {
	step := func(status string) *repository.ApprovalStep {
		return &repository.ApprovalStep{Status: status}
	}

	cases := []struct {
		name  string
		steps []*repository.ApprovalStep
		want  string
	}{
		{"all approved", []*repository.ApprovalStep{step(types.StepApproved), step(types.StepApproved)}, types.RequestApproved},
		{"any rejected", []*repository.ApprovalStep{step(types.StepApproved), step(types.StepRejected)}, types.RequestRejected},
		{"rejection wins over pending", []*repository.ApprovalStep{step(types.StepRejected), step(types.StepPending)}, types.RequestRejected},
		{"pending keeps review", []*repository.ApprovalStep{step(types.StepApproved), step(types.StepPending)}, types.RequestUnderReview},
		{"revision keeps review", []*repository.ApprovalStep{step(types.StepRevisionRequested)}, types.RequestUnderReview},
		{"no steps", nil, types.RequestUnderReview},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := recomputeStatus(tc.steps); got != tc.want {
				t.Errorf("recomputeStatus = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestListByProjectRequiresView(t *testing.T) {
	f := newApprovalFixture(t)
	ctx := context.Background()
	f.createSubmitted(t)

	if _, err := f.svc.ListByProject(ctx, f.outsiderID, f.projectID); !errors.Is(err, ErrForbidden) {
		t.Errorf("list by outsider: got %v, want ErrForbidden", err)
	}

	requests, err := f.svc.ListByProject(ctx, f.architectID, f.projectID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(requests) != 1 {
		t.Errorf("got %d requests, want 1", len(requests))
	}
}
