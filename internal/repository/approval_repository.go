package repository

import (
	"context"
	"encoding/json"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ============================================
// PostgreSQL Approval Repository
// ============================================

type pgApprovalRepository struct {
	pool *pgxpool.Pool
}

func (r *pgApprovalRepository) CreateRequest(ctx context.Context, request *ApprovalRequest, steps []*ApprovalStep) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	configJSON, err := json.Marshal(request.WorkflowConfig)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO approval_requests (project_id, entity_type, entity_id, current_status, workflow_config, created_by)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at
	`
	if err := tx.QueryRow(ctx, query,
		request.ProjectID, request.EntityType, request.EntityID,
		request.CurrentStatus, configJSON, request.CreatedBy,
	).Scan(&request.ID, &request.CreatedAt, &request.UpdatedAt); err != nil {
		return err
	}

	stepQuery := `
		INSERT INTO approval_steps (approval_request_id, step_order, approver_id, approver_role, status)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`
	for _, step := range steps {
		step.ApprovalRequestID = request.ID
		if err := tx.QueryRow(ctx, stepQuery,
			request.ID, step.StepOrder, step.ApproverID, step.ApproverRole, step.Status,
		).Scan(&step.ID, &step.CreatedAt); err != nil {
			return err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return err
	}
	request.Steps = steps
	return nil
}

func (r *pgApprovalRepository) scanRequest(row pgx.Row) (*ApprovalRequest, error) {
	request := &ApprovalRequest{}
	var configJSON []byte
	err := row.Scan(
		&request.ID, &request.ProjectID, &request.EntityType, &request.EntityID,
		&request.CurrentStatus, &configJSON, &request.CreatedBy,
		&request.CreatedAt, &request.UpdatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(configJSON, &request.WorkflowConfig); err != nil {
		return nil, err
	}
	return request, nil
}

const requestColumns = `id, project_id, entity_type, entity_id, current_status, workflow_config, created_by, created_at, updated_at`

func (r *pgApprovalRepository) FindRequestByID(ctx context.Context, id string) (*ApprovalRequest, error) {
	query := `SELECT ` + requestColumns + ` FROM approval_requests WHERE id = $1`
	request, err := r.scanRequest(r.pool.QueryRow(ctx, query, id))
	if err != nil || request == nil {
		return request, err
	}
	steps, err := r.FindStepsByRequestID(ctx, request.ID)
	if err != nil {
		return nil, err
	}
	request.Steps = steps
	return request, nil
}

func (r *pgApprovalRepository) FindRequestsByProjectID(ctx context.Context, projectID string) ([]*ApprovalRequest, error) {
	query := `SELECT ` + requestColumns + ` FROM approval_requests WHERE project_id = $1 ORDER BY created_at DESC`
	return r.queryRequests(ctx, query, projectID)
}

func (r *pgApprovalRepository) FindRequestByEntity(ctx context.Context, entityType, entityID string) (*ApprovalRequest, error) {
	query := `
		SELECT ` + requestColumns + `
		FROM approval_requests
		WHERE entity_type = $1 AND entity_id = $2
		ORDER BY created_at DESC
		LIMIT 1
	`
	request, err := r.scanRequest(r.pool.QueryRow(ctx, query, entityType, entityID))
	if err != nil || request == nil {
		return request, err
	}
	steps, err := r.FindStepsByRequestID(ctx, request.ID)
	if err != nil {
		return nil, err
	}
	request.Steps = steps
	return request, nil
}

func (r *pgApprovalRepository) FindStalePending(ctx context.Context, olderThan time.Time) ([]*ApprovalRequest, error) {
	query := `
		SELECT ` + requestColumns + `
		FROM approval_requests
		WHERE current_status = 'under_review' AND updated_at < $1
		ORDER BY updated_at
	`
	return r.queryRequests(ctx, query, olderThan)
}

func (r *pgApprovalRepository) queryRequests(ctx context.Context, query string, args ...interface{}) ([]*ApprovalRequest, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var requests []*ApprovalRequest
	for rows.Next() {
		request := &ApprovalRequest{}
		var configJSON []byte
		if err := rows.Scan(
			&request.ID, &request.ProjectID, &request.EntityType, &request.EntityID,
			&request.CurrentStatus, &configJSON, &request.CreatedBy,
			&request.CreatedAt, &request.UpdatedAt,
		); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(configJSON, &request.WorkflowConfig); err != nil {
			return nil, err
		}
		requests = append(requests, request)
	}
	if rows.Err() != nil {
		return nil, rows.Err()
	}

	for _, request := range requests {
		steps, err := r.FindStepsByRequestID(ctx, request.ID)
		if err != nil {
			return nil, err
		}
		request.Steps = steps
	}
	return requests, nil
}

func (r *pgApprovalRepository) UpdateRequestStatus(ctx context.Context, requestID, status string) error {
	query := `UPDATE approval_requests SET current_status = $2, updated_at = NOW() WHERE id = $1`
	_, err := r.pool.Exec(ctx, query, requestID, status)
	return err
}

func (r *pgApprovalRepository) FindStepByID(ctx context.Context, id string) (*ApprovalStep, error) {
	query := `
		SELECT id, approval_request_id, step_order, approver_id, approver_role, status, comments, decided_at, created_at
		FROM approval_steps WHERE id = $1
	`
	step := &ApprovalStep{}
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&step.ID, &step.ApprovalRequestID, &step.StepOrder, &step.ApproverID,
		&step.ApproverRole, &step.Status, &step.Comments, &step.DecidedAt, &step.CreatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return step, nil
}

func (r *pgApprovalRepository) FindStepsByRequestID(ctx context.Context, requestID string) ([]*ApprovalStep, error) {
	query := `
		SELECT id, approval_request_id, step_order, approver_id, approver_role, status, comments, decided_at, created_at
		FROM approval_steps
		WHERE approval_request_id = $1
		ORDER BY step_order
	`
	rows, err := r.pool.Query(ctx, query, requestID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var steps []*ApprovalStep
	for rows.Next() {
		step := &ApprovalStep{}
		if err := rows.Scan(
			&step.ID, &step.ApprovalRequestID, &step.StepOrder, &step.ApproverID,
			&step.ApproverRole, &step.Status, &step.Comments, &step.DecidedAt, &step.CreatedAt,
		); err != nil {
			return nil, err
		}
		steps = append(steps, step)
	}
	return steps, rows.Err()
}

func (r *pgApprovalRepository) UpdateStep(ctx context.Context, step *ApprovalStep) error {
	query := `
		UPDATE approval_steps
		SET status = $2, comments = $3, decided_at = $4
		WHERE id = $1
	`
	_, err := r.pool.Exec(ctx, query, step.ID, step.Status, step.Comments, step.DecidedAt)
	return err
}
