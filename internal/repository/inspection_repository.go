package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ============================================
// PostgreSQL Inspection Repository
// ============================================

type pgInspectionRepository struct {
	pool *pgxpool.Pool
}

const inspectionColumns = `id, project_id, inspection_type, scheduled_for, inspector_id, status, findings, created_by, created_at, updated_at`

func (r *pgInspectionRepository) Create(ctx context.Context, inspection *Inspection) error {
	query := `
		INSERT INTO inspections (project_id, inspection_type, scheduled_for, inspector_id, status, findings, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at
	`
	if inspection.Status == "" {
		inspection.Status = "scheduled"
	}
	return r.pool.QueryRow(ctx, query,
		inspection.ProjectID, inspection.InspectionType, inspection.ScheduledFor,
		inspection.InspectorID, inspection.Status, inspection.Findings, inspection.CreatedBy,
	).Scan(&inspection.ID, &inspection.CreatedAt, &inspection.UpdatedAt)
}

func (r *pgInspectionRepository) FindByID(ctx context.Context, id string) (*Inspection, error) {
	query := `SELECT ` + inspectionColumns + ` FROM inspections WHERE id = $1`
	inspection := &Inspection{}
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&inspection.ID, &inspection.ProjectID, &inspection.InspectionType,
		&inspection.ScheduledFor, &inspection.InspectorID, &inspection.Status,
		&inspection.Findings, &inspection.CreatedBy, &inspection.CreatedAt, &inspection.UpdatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return inspection, nil
}

func (r *pgInspectionRepository) FindByProjectID(ctx context.Context, projectID string) ([]*Inspection, error) {
	query := `SELECT ` + inspectionColumns + ` FROM inspections WHERE project_id = $1 ORDER BY scheduled_for`
	return r.queryInspections(ctx, query, projectID)
}

func (r *pgInspectionRepository) FindUpcoming(ctx context.Context, within time.Duration) ([]*Inspection, error) {
	query := `
		SELECT ` + inspectionColumns + `
		FROM inspections
		WHERE status = 'scheduled' AND scheduled_for BETWEEN NOW() AND $1
		ORDER BY scheduled_for
	`
	return r.queryInspections(ctx, query, time.Now().Add(within))
}

func (r *pgInspectionRepository) queryInspections(ctx context.Context, query string, args ...interface{}) ([]*Inspection, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var inspections []*Inspection
	for rows.Next() {
		inspection := &Inspection{}
		if err := rows.Scan(
			&inspection.ID, &inspection.ProjectID, &inspection.InspectionType,
			&inspection.ScheduledFor, &inspection.InspectorID, &inspection.Status,
			&inspection.Findings, &inspection.CreatedBy, &inspection.CreatedAt, &inspection.UpdatedAt,
		); err != nil {
			return nil, err
		}
		inspections = append(inspections, inspection)
	}
	return inspections, nil
}

func (r *pgInspectionRepository) Update(ctx context.Context, inspection *Inspection) error {
	query := `
		UPDATE inspections
		SET inspection_type = $2, scheduled_for = $3, inspector_id = $4, status = $5, findings = $6, updated_at = NOW()
		WHERE id = $1
	`
	_, err := r.pool.Exec(ctx, query,
		inspection.ID, inspection.InspectionType, inspection.ScheduledFor,
		inspection.InspectorID, inspection.Status, inspection.Findings,
	)
	return err
}

func (r *pgInspectionRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM inspections WHERE id = $1`
	_, err := r.pool.Exec(ctx, query, id)
	return err
}
