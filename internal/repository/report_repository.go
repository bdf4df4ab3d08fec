package repository

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"
)

// ============================================
// sqlx Report Repository (read model)
// ============================================

type sqlxReportRepository struct {
	db *sqlx.DB
}

func (r *sqlxReportRepository) ProjectApprovalReport(ctx context.Context, projectID string) (*ProjectApprovalReport, error) {
	query := `
		SELECT
			$1::uuid AS project_id,
			COUNT(*) AS total_requests,
			COUNT(*) FILTER (WHERE current_status = 'draft') AS draft_count,
			COUNT(*) FILTER (WHERE current_status = 'under_review') AS under_review_count,
			COUNT(*) FILTER (WHERE current_status = 'approved') AS approved_count,
			COUNT(*) FILTER (WHERE current_status = 'rejected') AS rejected_count,
			COALESCE((
				SELECT AVG(EXTRACT(EPOCH FROM s.decided_at - q.created_at))
				FROM approval_steps s
				JOIN approval_requests q ON q.id = s.approval_request_id
				WHERE q.project_id = $1 AND s.decided_at IS NOT NULL
			), 0) AS avg_decision_latency_sec
		FROM approval_requests
		WHERE project_id = $1
	`
	report := &ProjectApprovalReport{}
	if err := r.db.GetContext(ctx, report, query, projectID); err != nil {
		return nil, err
	}
	return report, nil
}

// ============================================
// In-Memory Report Repository
// ============================================

// Derives the report from the in-memory approval repository so tests and
// the DB-less fallback see consistent numbers.
type inMemoryReportRepository struct {
	approvals *inMemoryApprovalRepository
}

func newInMemoryReportRepository(approvals *inMemoryApprovalRepository) *inMemoryReportRepository {
	return &inMemoryReportRepository{approvals: approvals}
}

func (r *inMemoryReportRepository) ProjectApprovalReport(ctx context.Context, projectID string) (*ProjectApprovalReport, error) {
	report := &ProjectApprovalReport{ProjectID: projectID}
	var latencySum time.Duration
	var decided int

	requests, err := r.approvals.FindRequestsByProjectID(ctx, projectID)
	if err != nil {
		return nil, err
	}
	for _, request := range requests {
		report.TotalRequests++
		switch request.CurrentStatus {
		case "draft":
			report.DraftCount++
		case "under_review":
			report.UnderReviewCount++
		case "approved":
			report.ApprovedCount++
		case "rejected":
			report.RejectedCount++
		}
		for _, step := range request.Steps {
			if step.DecidedAt != nil {
				latencySum += step.DecidedAt.Sub(request.CreatedAt)
				decided++
			}
		}
	}
	if decided > 0 {
		report.AvgDecisionLatencySec = latencySum.Seconds() / float64(decided)
	}
	return report, nil
}
