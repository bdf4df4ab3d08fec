package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ============================================
// PostgreSQL Role Repository
// ============================================

type pgRoleRepository struct {
	pool *pgxpool.Pool
}

func (r *pgRoleRepository) CreateOrgRole(ctx context.Context, role *OrganizationRole) error {
	query := `
		INSERT INTO organization_roles (organization_id, name, permissions)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`
	return r.pool.QueryRow(ctx, query, role.OrganizationID, role.Name, role.Permissions).
		Scan(&role.ID, &role.CreatedAt)
}

func (r *pgRoleRepository) FindOrgRole(ctx context.Context, id string) (*OrganizationRole, error) {
	query := `
		SELECT id, organization_id, name, permissions, created_at
		FROM organization_roles WHERE id = $1
	`
	role := &OrganizationRole{}
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&role.ID, &role.OrganizationID, &role.Name, &role.Permissions, &role.CreatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return role, nil
}

func (r *pgRoleRepository) FindOrgRoleByName(ctx context.Context, orgID, name string) (*OrganizationRole, error) {
	query := `
		SELECT id, organization_id, name, permissions, created_at
		FROM organization_roles WHERE organization_id = $1 AND name = $2
	`
	role := &OrganizationRole{}
	err := r.pool.QueryRow(ctx, query, orgID, name).Scan(
		&role.ID, &role.OrganizationID, &role.Name, &role.Permissions, &role.CreatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return role, nil
}

func (r *pgRoleRepository) FindOrgRoles(ctx context.Context, orgID string) ([]*OrganizationRole, error) {
	query := `
		SELECT id, organization_id, name, permissions, created_at
		FROM organization_roles WHERE organization_id = $1 ORDER BY name
	`
	rows, err := r.pool.Query(ctx, query, orgID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var roles []*OrganizationRole
	for rows.Next() {
		role := &OrganizationRole{}
		if err := rows.Scan(
			&role.ID, &role.OrganizationID, &role.Name, &role.Permissions, &role.CreatedAt,
		); err != nil {
			return nil, err
		}
		roles = append(roles, role)
	}
	return roles, nil
}

func (r *pgRoleRepository) UpdateOrgRole(ctx context.Context, role *OrganizationRole) error {
	query := `UPDATE organization_roles SET name = $2, permissions = $3 WHERE id = $1`
	_, err := r.pool.Exec(ctx, query, role.ID, role.Name, role.Permissions)
	return err
}

func (r *pgRoleRepository) DeleteOrgRole(ctx context.Context, id string) error {
	query := `DELETE FROM organization_roles WHERE id = $1`
	_, err := r.pool.Exec(ctx, query, id)
	return err
}

func (r *pgRoleRepository) CreateProjectRole(ctx context.Context, role *ProjectRole) error {
	query := `
		INSERT INTO project_roles (project_id, name, permissions, inherits_from)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`
	return r.pool.QueryRow(ctx, query, role.ProjectID, role.Name, role.Permissions, role.InheritsFrom).
		Scan(&role.ID, &role.CreatedAt)
}

func (r *pgRoleRepository) FindProjectRole(ctx context.Context, id string) (*ProjectRole, error) {
	query := `
		SELECT id, project_id, name, permissions, inherits_from, created_at
		FROM project_roles WHERE id = $1
	`
	role := &ProjectRole{}
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&role.ID, &role.ProjectID, &role.Name, &role.Permissions, &role.InheritsFrom, &role.CreatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return role, nil
}

func (r *pgRoleRepository) FindProjectRoleByName(ctx context.Context, projectID, name string) (*ProjectRole, error) {
	query := `
		SELECT id, project_id, name, permissions, inherits_from, created_at
		FROM project_roles WHERE project_id = $1 AND name = $2
	`
	role := &ProjectRole{}
	err := r.pool.QueryRow(ctx, query, projectID, name).Scan(
		&role.ID, &role.ProjectID, &role.Name, &role.Permissions, &role.InheritsFrom, &role.CreatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return role, nil
}

func (r *pgRoleRepository) FindProjectRoles(ctx context.Context, projectID string) ([]*ProjectRole, error) {
	query := `
		SELECT id, project_id, name, permissions, inherits_from, created_at
		FROM project_roles WHERE project_id = $1 ORDER BY name
	`
	rows, err := r.pool.Query(ctx, query, projectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var roles []*ProjectRole
	for rows.Next() {
		role := &ProjectRole{}
		if err := rows.Scan(
			&role.ID, &role.ProjectID, &role.Name, &role.Permissions, &role.InheritsFrom, &role.CreatedAt,
		); err != nil {
			return nil, err
		}
		roles = append(roles, role)
	}
	return roles, nil
}

func (r *pgRoleRepository) UpdateProjectRole(ctx context.Context, role *ProjectRole) error {
	query := `
		UPDATE project_roles SET name = $2, permissions = $3, inherits_from = $4
		WHERE id = $1
	`
	_, err := r.pool.Exec(ctx, query, role.ID, role.Name, role.Permissions, role.InheritsFrom)
	return err
}

func (r *pgRoleRepository) DeleteProjectRole(ctx context.Context, id string) error {
	query := `DELETE FROM project_roles WHERE id = $1`
	_, err := r.pool.Exec(ctx, query, id)
	return err
}
