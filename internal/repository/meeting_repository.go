package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ============================================
// PostgreSQL Meeting Repository
// ============================================

type pgMeetingRepository struct {
	pool *pgxpool.Pool
}

const meetingColumns = `id, project_id, title, scheduled_at, agenda, minutes, attendee_ids, created_by, created_at, updated_at`

func (r *pgMeetingRepository) Create(ctx context.Context, meeting *Meeting) error {
	query := `
		INSERT INTO meetings (project_id, title, scheduled_at, agenda, minutes, attendee_ids, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at
	`
	if meeting.AttendeeIDs == nil {
		meeting.AttendeeIDs = []string{}
	}
	return r.pool.QueryRow(ctx, query,
		meeting.ProjectID, meeting.Title, meeting.ScheduledAt, meeting.Agenda,
		meeting.Minutes, meeting.AttendeeIDs, meeting.CreatedBy,
	).Scan(&meeting.ID, &meeting.CreatedAt, &meeting.UpdatedAt)
}

func (r *pgMeetingRepository) FindByID(ctx context.Context, id string) (*Meeting, error) {
	query := `SELECT ` + meetingColumns + ` FROM meetings WHERE id = $1`
	meeting := &Meeting{}
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&meeting.ID, &meeting.ProjectID, &meeting.Title, &meeting.ScheduledAt,
		&meeting.Agenda, &meeting.Minutes, &meeting.AttendeeIDs, &meeting.CreatedBy,
		&meeting.CreatedAt, &meeting.UpdatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return meeting, nil
}

func (r *pgMeetingRepository) FindByProjectID(ctx context.Context, projectID string) ([]*Meeting, error) {
	query := `SELECT ` + meetingColumns + ` FROM meetings WHERE project_id = $1 ORDER BY scheduled_at DESC`
	rows, err := r.pool.Query(ctx, query, projectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var meetings []*Meeting
	for rows.Next() {
		meeting := &Meeting{}
		if err := rows.Scan(
			&meeting.ID, &meeting.ProjectID, &meeting.Title, &meeting.ScheduledAt,
			&meeting.Agenda, &meeting.Minutes, &meeting.AttendeeIDs, &meeting.CreatedBy,
			&meeting.CreatedAt, &meeting.UpdatedAt,
		); err != nil {
			return nil, err
		}
		meetings = append(meetings, meeting)
	}
	return meetings, nil
}

func (r *pgMeetingRepository) Update(ctx context.Context, meeting *Meeting) error {
	query := `
		UPDATE meetings
		SET title = $2, scheduled_at = $3, agenda = $4, minutes = $5, attendee_ids = $6, updated_at = NOW()
		WHERE id = $1
	`
	_, err := r.pool.Exec(ctx, query,
		meeting.ID, meeting.Title, meeting.ScheduledAt, meeting.Agenda,
		meeting.Minutes, meeting.AttendeeIDs,
	)
	return err
}

func (r *pgMeetingRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM meetings WHERE id = $1`
	_, err := r.pool.Exec(ctx, query, id)
	return err
}
