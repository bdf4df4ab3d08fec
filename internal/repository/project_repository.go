package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ============================================
// PostgreSQL Project Repository
// ============================================

type pgProjectRepository struct {
	pool *pgxpool.Pool
}

const projectColumns = `id, organization_id, name, code, description, address, status, start_date, end_date, created_by, created_at, updated_at`

func scanProject(row pgx.Row) (*Project, error) {
	project := &Project{}
	err := row.Scan(
		&project.ID, &project.OrganizationID, &project.Name, &project.Code,
		&project.Description, &project.Address, &project.Status,
		&project.StartDate, &project.EndDate, &project.CreatedBy,
		&project.CreatedAt, &project.UpdatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return project, nil
}

func (r *pgProjectRepository) Create(ctx context.Context, project *Project) error {
	query := `
		INSERT INTO projects (organization_id, name, code, description, address, status, start_date, end_date, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at, updated_at
	`
	if project.Status == "" {
		project.Status = "active"
	}
	return r.pool.QueryRow(ctx, query,
		project.OrganizationID, project.Name, project.Code, project.Description,
		project.Address, project.Status, project.StartDate, project.EndDate, project.CreatedBy,
	).Scan(&project.ID, &project.CreatedAt, &project.UpdatedAt)
}

func (r *pgProjectRepository) FindByID(ctx context.Context, id string) (*Project, error) {
	query := `SELECT ` + projectColumns + ` FROM projects WHERE id = $1`
	return scanProject(r.pool.QueryRow(ctx, query, id))
}

func (r *pgProjectRepository) FindByOrganizationID(ctx context.Context, orgID string) ([]*Project, error) {
	query := `SELECT ` + projectColumns + ` FROM projects WHERE organization_id = $1 ORDER BY name`
	return r.queryProjects(ctx, query, orgID)
}

func (r *pgProjectRepository) FindByCode(ctx context.Context, orgID, code string) (*Project, error) {
	query := `SELECT ` + projectColumns + ` FROM projects WHERE organization_id = $1 AND code = $2`
	return scanProject(r.pool.QueryRow(ctx, query, orgID, code))
}

func (r *pgProjectRepository) FindByUserID(ctx context.Context, userID string) ([]*Project, error) {
	query := `
		SELECT p.id, p.organization_id, p.name, p.code, p.description, p.address, p.status,
		       p.start_date, p.end_date, p.created_by, p.created_at, p.updated_at
		FROM projects p
		JOIN project_members m ON m.project_id = p.id
		WHERE m.user_id = $1
		ORDER BY p.name
	`
	return r.queryProjects(ctx, query, userID)
}

func (r *pgProjectRepository) queryProjects(ctx context.Context, query string, args ...interface{}) ([]*Project, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var projects []*Project
	for rows.Next() {
		project := &Project{}
		if err := rows.Scan(
			&project.ID, &project.OrganizationID, &project.Name, &project.Code,
			&project.Description, &project.Address, &project.Status,
			&project.StartDate, &project.EndDate, &project.CreatedBy,
			&project.CreatedAt, &project.UpdatedAt,
		); err != nil {
			return nil, err
		}
		projects = append(projects, project)
	}
	return projects, nil
}

func (r *pgProjectRepository) Update(ctx context.Context, project *Project) error {
	query := `
		UPDATE projects
		SET name = $2, code = $3, description = $4, address = $5, status = $6,
		    start_date = $7, end_date = $8, updated_at = NOW()
		WHERE id = $1
	`
	_, err := r.pool.Exec(ctx, query,
		project.ID, project.Name, project.Code, project.Description,
		project.Address, project.Status, project.StartDate, project.EndDate,
	)
	return err
}

func (r *pgProjectRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM projects WHERE id = $1`
	_, err := r.pool.Exec(ctx, query, id)
	return err
}

func (r *pgProjectRepository) AddMember(ctx context.Context, member *ProjectMember) error {
	query := `
		INSERT INTO project_members (project_id, user_id, role_id)
		VALUES ($1, $2, $3)
		RETURNING id, joined_at
	`
	return r.pool.QueryRow(ctx, query, member.ProjectID, member.UserID, member.RoleID).
		Scan(&member.ID, &member.JoinedAt)
}

func (r *pgProjectRepository) FindMembers(ctx context.Context, projectID string) ([]*ProjectMember, error) {
	query := `
		SELECT m.id, m.project_id, m.user_id, m.role_id, m.joined_at,
		       u.id, u.email, u.name, u.title, u.phone, u.created_at, u.updated_at
		FROM project_members m
		JOIN users u ON u.id = m.user_id
		WHERE m.project_id = $1
		ORDER BY m.joined_at
	`
	rows, err := r.pool.Query(ctx, query, projectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var members []*ProjectMember
	for rows.Next() {
		member := &ProjectMember{User: &User{}}
		if err := rows.Scan(
			&member.ID, &member.ProjectID, &member.UserID, &member.RoleID, &member.JoinedAt,
			&member.User.ID, &member.User.Email, &member.User.Name, &member.User.Title,
			&member.User.Phone, &member.User.CreatedAt, &member.User.UpdatedAt,
		); err != nil {
			return nil, err
		}
		members = append(members, member)
	}
	return members, nil
}

func (r *pgProjectRepository) FindMember(ctx context.Context, projectID, userID string) (*ProjectMember, error) {
	query := `
		SELECT id, project_id, user_id, role_id, joined_at
		FROM project_members
		WHERE project_id = $1 AND user_id = $2
	`
	member := &ProjectMember{}
	err := r.pool.QueryRow(ctx, query, projectID, userID).Scan(
		&member.ID, &member.ProjectID, &member.UserID, &member.RoleID, &member.JoinedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return member, nil
}

func (r *pgProjectRepository) FindMemberByID(ctx context.Context, memberID string) (*ProjectMember, error) {
	query := `
		SELECT id, project_id, user_id, role_id, joined_at
		FROM project_members WHERE id = $1
	`
	member := &ProjectMember{}
	err := r.pool.QueryRow(ctx, query, memberID).Scan(
		&member.ID, &member.ProjectID, &member.UserID, &member.RoleID, &member.JoinedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return member, nil
}

func (r *pgProjectRepository) FindMemberUserIDs(ctx context.Context, projectID string) ([]string, error) {
	query := `SELECT user_id FROM project_members WHERE project_id = $1`
	rows, err := r.pool.Query(ctx, query, projectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var userIDs []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		userIDs = append(userIDs, id)
	}
	return userIDs, nil
}

func (r *pgProjectRepository) UpdateMemberRole(ctx context.Context, projectID, userID string, roleID *string) error {
	query := `
		UPDATE project_members SET role_id = $3
		WHERE project_id = $1 AND user_id = $2
	`
	_, err := r.pool.Exec(ctx, query, projectID, userID, roleID)
	return err
}

func (r *pgProjectRepository) RemoveMember(ctx context.Context, projectID, userID string) error {
	query := `DELETE FROM project_members WHERE project_id = $1 AND user_id = $2`
	_, err := r.pool.Exec(ctx, query, projectID, userID)
	return err
}
