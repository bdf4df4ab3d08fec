package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ============================================
// PostgreSQL Permission Repository
// ============================================

type pgPermissionRepository struct {
	pool *pgxpool.Pool
}

func (r *pgPermissionRepository) UpsertOverride(ctx context.Context, override *PermissionOverride) error {
	query := `
		INSERT INTO permission_overrides (project_member_id, permission, granted, granted_by)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (project_member_id, permission)
		DO UPDATE SET granted = EXCLUDED.granted, granted_by = EXCLUDED.granted_by
		RETURNING id, created_at
	`
	return r.pool.QueryRow(ctx, query,
		override.ProjectMemberID, override.Permission, override.Granted, override.GrantedBy,
	).Scan(&override.ID, &override.CreatedAt)
}

func (r *pgPermissionRepository) FindOverride(ctx context.Context, memberID, permission string) (*PermissionOverride, error) {
	query := `
		SELECT id, project_member_id, permission, granted, granted_by, created_at
		FROM permission_overrides
		WHERE project_member_id = $1 AND permission = $2
	`
	override := &PermissionOverride{}
	err := r.pool.QueryRow(ctx, query, memberID, permission).Scan(
		&override.ID, &override.ProjectMemberID, &override.Permission,
		&override.Granted, &override.GrantedBy, &override.CreatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return override, nil
}

func (r *pgPermissionRepository) FindOverridesByMember(ctx context.Context, memberID string) ([]*PermissionOverride, error) {
	query := `
		SELECT id, project_member_id, permission, granted, granted_by, created_at
		FROM permission_overrides
		WHERE project_member_id = $1
		ORDER BY permission
	`
	rows, err := r.pool.Query(ctx, query, memberID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var overrides []*PermissionOverride
	for rows.Next() {
		override := &PermissionOverride{}
		if err := rows.Scan(
			&override.ID, &override.ProjectMemberID, &override.Permission,
			&override.Granted, &override.GrantedBy, &override.CreatedAt,
		); err != nil {
			return nil, err
		}
		overrides = append(overrides, override)
	}
	return overrides, nil
}

func (r *pgPermissionRepository) DeleteOverride(ctx context.Context, memberID, permission string) error {
	query := `DELETE FROM permission_overrides WHERE project_member_id = $1 AND permission = $2`
	_, err := r.pool.Exec(ctx, query, memberID, permission)
	return err
}

func (r *pgPermissionRepository) UpsertResourcePermission(ctx context.Context, perm *ResourcePermission) error {
	query := `
		INSERT INTO resource_permissions (project_member_id, resource_type, resource_id, permission, granted)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (project_member_id, resource_type, resource_id, permission)
		DO UPDATE SET granted = EXCLUDED.granted
		RETURNING id, created_at
	`
	return r.pool.QueryRow(ctx, query,
		perm.ProjectMemberID, perm.ResourceType, perm.ResourceID, perm.Permission, perm.Granted,
	).Scan(&perm.ID, &perm.CreatedAt)
}

func (r *pgPermissionRepository) FindResourcePermission(ctx context.Context, memberID, resourceType, resourceID, permission string) (*ResourcePermission, error) {
	query := `
		SELECT id, project_member_id, resource_type, resource_id, permission, granted, created_at
		FROM resource_permissions
		WHERE project_member_id = $1 AND resource_type = $2 AND resource_id = $3 AND permission = $4
	`
	perm := &ResourcePermission{}
	err := r.pool.QueryRow(ctx, query, memberID, resourceType, resourceID, permission).Scan(
		&perm.ID, &perm.ProjectMemberID, &perm.ResourceType, &perm.ResourceID,
		&perm.Permission, &perm.Granted, &perm.CreatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return perm, nil
}

func (r *pgPermissionRepository) FindResourcePermissionsByMember(ctx context.Context, memberID string) ([]*ResourcePermission, error) {
	query := `
		SELECT id, project_member_id, resource_type, resource_id, permission, granted, created_at
		FROM resource_permissions
		WHERE project_member_id = $1
		ORDER BY resource_type, resource_id, permission
	`
	rows, err := r.pool.Query(ctx, query, memberID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var perms []*ResourcePermission
	for rows.Next() {
		perm := &ResourcePermission{}
		if err := rows.Scan(
			&perm.ID, &perm.ProjectMemberID, &perm.ResourceType, &perm.ResourceID,
			&perm.Permission, &perm.Granted, &perm.CreatedAt,
		); err != nil {
			return nil, err
		}
		perms = append(perms, perm)
	}
	return perms, nil
}

func (r *pgPermissionRepository) DeleteResourcePermission(ctx context.Context, memberID, resourceType, resourceID, permission string) error {
	query := `
		DELETE FROM resource_permissions
		WHERE project_member_id = $1 AND resource_type = $2 AND resource_id = $3 AND permission = $4
	`
	_, err := r.pool.Exec(ctx, query, memberID, resourceType, resourceID, permission)
	return err
}
