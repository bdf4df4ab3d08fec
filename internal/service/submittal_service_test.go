package service

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/sitegrid/sitegrid-backend/internal/repository"
	"github.com/sitegrid/sitegrid-backend/internal/types"
)

func newSubmittalService(f *approvalFixture) SubmittalService {
	permSvc := NewPermissionService(f.repos.ProjectRepo, f.repos.RoleRepo, f.repos.PermissionRepo)
	return NewSubmittalService(f.repos.SubmittalRepo, f.repos.ProjectRepo, f.svc, permSvc, nil)
}

func TestSubmittalCreateDefaults(t *testing.T) {
	f := newApprovalFixture(t)
	svc := newSubmittalService(f)
	ctx := context.Background()

	cost := decimal.NewFromFloat(120.75)
	submittal, err := svc.Create(ctx, f.creatorID, f.projectID, SubmittalInput{
		Kind:     types.SubmittalMaterial,
		Name:     "Rebar #5",
		UnitCost: &cost,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if submittal.Status != types.SubmittalDraft {
		t.Errorf("status = %q, want draft", submittal.Status)
	}
	if submittal.Quantity != 1 {
		t.Errorf("quantity = %d, want default 1", submittal.Quantity)
	}
	if !submittal.TotalCost().Equal(cost) {
		t.Errorf("total cost = %s, want %s", submittal.TotalCost(), cost)
	}
}

func TestSubmittalCreateValidation(t *testing.T) {
	f := newApprovalFixture(t)
	svc := newSubmittalService(f)
	ctx := context.Background()

	if _, err := svc.Create(ctx, f.creatorID, f.projectID, SubmittalInput{Kind: "labor", Name: "x"}); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("bad kind: got %v, want ErrInvalidInput", err)
	}
	if _, err := svc.Create(ctx, f.creatorID, f.projectID, SubmittalInput{Kind: types.SubmittalEquipment}); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("missing name: got %v, want ErrInvalidInput", err)
	}
	if _, err := svc.Create(ctx, f.outsiderID, f.projectID, SubmittalInput{Kind: types.SubmittalEquipment, Name: "x"}); !errors.Is(err, ErrForbidden) {
		t.Errorf("outsider: got %v, want ErrForbidden", err)
	}
}

func TestSubmittalSubmitCreatesApproval(t *testing.T) {
	f := newApprovalFixture(t)
	svc := newSubmittalService(f)
	ctx := context.Background()

	submittal, err := svc.Create(ctx, f.creatorID, f.projectID, SubmittalInput{
		Kind: types.SubmittalEquipment, Name: "AHU-2", Quantity: 2,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	request, err := svc.Submit(ctx, f.creatorID, submittal.ID, []repository.WorkflowStepConfig{{ApproverID: &f.approverID}})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}

	if request.CurrentStatus != types.RequestUnderReview {
		t.Errorf("request status = %q, want under_review", request.CurrentStatus)
	}
	if request.EntityType != types.EntityEquipment || request.EntityID != submittal.ID {
		t.Errorf("request bound to %s/%s, want equipment/%s", request.EntityType, request.EntityID, submittal.ID)
	}

	got, _ := f.repos.SubmittalRepo.FindByID(ctx, submittal.ID)
	if got.Status != types.SubmittalUnderReview {
		t.Errorf("submittal status = %q, want under_review", got.Status)
	}

	// A submittal already in review cannot be submitted again
	if _, err := svc.Submit(ctx, f.creatorID, submittal.ID, []repository.WorkflowStepConfig{{ApproverID: &f.approverID}}); !errors.Is(err, ErrInvalidState) {
		t.Errorf("double submit: got %v, want ErrInvalidState", err)
	}
}

func TestSubmittalUpdateOnlyBeforeReview(t *testing.T) {
	f := newApprovalFixture(t)
	svc := newSubmittalService(f)
	ctx := context.Background()

	submittal, err := svc.Create(ctx, f.creatorID, f.projectID, SubmittalInput{
		Kind: types.SubmittalMaterial, Name: "CMU Block",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if _, err := svc.Update(ctx, f.creatorID, submittal.ID, SubmittalInput{Name: "CMU Block 8in"}); err != nil {
		t.Fatalf("update draft: %v", err)
	}

	if _, err := svc.Submit(ctx, f.creatorID, submittal.ID, []repository.WorkflowStepConfig{{ApproverID: &f.approverID}}); err != nil {
		t.Fatalf("submit: %v", err)
	}

	if _, err := svc.Update(ctx, f.creatorID, submittal.ID, SubmittalInput{Name: "nope"}); !errors.Is(err, ErrInvalidState) {
		t.Errorf("update under review: got %v, want ErrInvalidState", err)
	}
	if err := svc.Delete(ctx, f.creatorID, submittal.ID); !errors.Is(err, ErrInvalidState) {
		t.Errorf("delete under review: got %v, want ErrInvalidState", err)
	}
}
