package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ============================================
// PostgreSQL Submittal Repository
// ============================================

type pgSubmittalRepository struct {
	pool *pgxpool.Pool
}

const submittalColumns = `id, project_id, kind, name, spec_section, manufacturer, model_number, quantity, unit_cost, status, created_by, created_at, updated_at`

func (r *pgSubmittalRepository) Create(ctx context.Context, submittal *Submittal) error {
	query := `
		INSERT INTO submittals (project_id, kind, name, spec_section, manufacturer, model_number, quantity, unit_cost, status, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, created_at, updated_at
	`
	if submittal.Status == "" {
		submittal.Status = "draft"
	}
	if submittal.Quantity == 0 {
		submittal.Quantity = 1
	}
	return r.pool.QueryRow(ctx, query,
		submittal.ProjectID, submittal.Kind, submittal.Name, submittal.SpecSection,
		submittal.Manufacturer, submittal.ModelNumber, submittal.Quantity,
		submittal.UnitCost, submittal.Status, submittal.CreatedBy,
	).Scan(&submittal.ID, &submittal.CreatedAt, &submittal.UpdatedAt)
}

func (r *pgSubmittalRepository) FindByID(ctx context.Context, id string) (*Submittal, error) {
	query := `SELECT ` + submittalColumns + ` FROM submittals WHERE id = $1`
	submittal := &Submittal{}
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&submittal.ID, &submittal.ProjectID, &submittal.Kind, &submittal.Name,
		&submittal.SpecSection, &submittal.Manufacturer, &submittal.ModelNumber,
		&submittal.Quantity, &submittal.UnitCost, &submittal.Status,
		&submittal.CreatedBy, &submittal.CreatedAt, &submittal.UpdatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return submittal, nil
}

func (r *pgSubmittalRepository) FindByProjectID(ctx context.Context, projectID string) ([]*Submittal, error) {
	query := `SELECT ` + submittalColumns + ` FROM submittals WHERE project_id = $1 ORDER BY created_at DESC`
	rows, err := r.pool.Query(ctx, query, projectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var submittals []*Submittal
	for rows.Next() {
		submittal := &Submittal{}
		if err := rows.Scan(
			&submittal.ID, &submittal.ProjectID, &submittal.Kind, &submittal.Name,
			&submittal.SpecSection, &submittal.Manufacturer, &submittal.ModelNumber,
			&submittal.Quantity, &submittal.UnitCost, &submittal.Status,
			&submittal.CreatedBy, &submittal.CreatedAt, &submittal.UpdatedAt,
		); err != nil {
			return nil, err
		}
		submittals = append(submittals, submittal)
	}
	return submittals, nil
}

func (r *pgSubmittalRepository) Update(ctx context.Context, submittal *Submittal) error {
	query := `
		UPDATE submittals
		SET name = $2, spec_section = $3, manufacturer = $4, model_number = $5,
		    quantity = $6, unit_cost = $7, status = $8, updated_at = NOW()
		WHERE id = $1
	`
	_, err := r.pool.Exec(ctx, query,
		submittal.ID, submittal.Name, submittal.SpecSection, submittal.Manufacturer,
		submittal.ModelNumber, submittal.Quantity, submittal.UnitCost, submittal.Status,
	)
	return err
}

func (r *pgSubmittalRepository) UpdateStatus(ctx context.Context, id, status string) error {
	query := `UPDATE submittals SET status = $2, updated_at = NOW() WHERE id = $1`
	_, err := r.pool.Exec(ctx, query, id, status)
	return err
}

func (r *pgSubmittalRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM submittals WHERE id = $1`
	_, err := r.pool.Exec(ctx, query, id)
	return err
}
