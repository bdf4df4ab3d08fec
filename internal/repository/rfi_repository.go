package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ============================================
// PostgreSQL RFI Repository
// ============================================

type pgRFIRepository struct {
	pool *pgxpool.Pool
}

const rfiColumns = `id, project_id, number, subject, question, answer, status, due_date, assignee_id, created_by, answered_at, created_at, updated_at`

func (r *pgRFIRepository) Create(ctx context.Context, rfi *RFI) error {
	query := `
		INSERT INTO rfis (project_id, number, subject, question, answer, status, due_date, assignee_id, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at, updated_at
	`
	if rfi.Status == "" {
		rfi.Status = "open"
	}
	return r.pool.QueryRow(ctx, query,
		rfi.ProjectID, rfi.Number, rfi.Subject, rfi.Question, rfi.Answer,
		rfi.Status, rfi.DueDate, rfi.AssigneeID, rfi.CreatedBy,
	).Scan(&rfi.ID, &rfi.CreatedAt, &rfi.UpdatedAt)
}

func (r *pgRFIRepository) FindByID(ctx context.Context, id string) (*RFI, error) {
	query := `SELECT ` + rfiColumns + ` FROM rfis WHERE id = $1`
	rfi := &RFI{}
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&rfi.ID, &rfi.ProjectID, &rfi.Number, &rfi.Subject, &rfi.Question,
		&rfi.Answer, &rfi.Status, &rfi.DueDate, &rfi.AssigneeID, &rfi.CreatedBy,
		&rfi.AnsweredAt, &rfi.CreatedAt, &rfi.UpdatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return rfi, nil
}

func (r *pgRFIRepository) FindByProjectID(ctx context.Context, projectID string) ([]*RFI, error) {
	query := `SELECT ` + rfiColumns + ` FROM rfis WHERE project_id = $1 ORDER BY number`
	return r.queryRFIs(ctx, query, projectID)
}

func (r *pgRFIRepository) FindOverdue(ctx context.Context) ([]*RFI, error) {
	query := `
		SELECT ` + rfiColumns + `
		FROM rfis
		WHERE status = 'open' AND due_date IS NOT NULL AND due_date < NOW()
		ORDER BY due_date
	`
	return r.queryRFIs(ctx, query)
}

func (r *pgRFIRepository) queryRFIs(ctx context.Context, query string, args ...interface{}) ([]*RFI, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var rfis []*RFI
	for rows.Next() {
		rfi := &RFI{}
		if err := rows.Scan(
			&rfi.ID, &rfi.ProjectID, &rfi.Number, &rfi.Subject, &rfi.Question,
			&rfi.Answer, &rfi.Status, &rfi.DueDate, &rfi.AssigneeID, &rfi.CreatedBy,
			&rfi.AnsweredAt, &rfi.CreatedAt, &rfi.UpdatedAt,
		); err != nil {
			return nil, err
		}
		rfis = append(rfis, rfi)
	}
	return rfis, nil
}

func (r *pgRFIRepository) NextNumber(ctx context.Context, projectID string) (int, error) {
	query := `SELECT COALESCE(MAX(number), 0) + 1 FROM rfis WHERE project_id = $1`
	var number int
	if err := r.pool.QueryRow(ctx, query, projectID).Scan(&number); err != nil {
		return 0, err
	}
	return number, nil
}

func (r *pgRFIRepository) Update(ctx context.Context, rfi *RFI) error {
	query := `
		UPDATE rfis
		SET subject = $2, question = $3, answer = $4, status = $5, due_date = $6,
		    assignee_id = $7, answered_at = $8, updated_at = NOW()
		WHERE id = $1
	`
	_, err := r.pool.Exec(ctx, query,
		rfi.ID, rfi.Subject, rfi.Question, rfi.Answer, rfi.Status,
		rfi.DueDate, rfi.AssigneeID, rfi.AnsweredAt,
	)
	return err
}

func (r *pgRFIRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM rfis WHERE id = $1`
	_, err := r.pool.Exec(ctx, query, id)
	return err
}
