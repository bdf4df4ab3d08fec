package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ============================================
// PostgreSQL Organization Repository
// ============================================

type pgOrganizationRepository struct {
	pool *pgxpool.Pool
}

func (r *pgOrganizationRepository) Create(ctx context.Context, org *Organization) error {
	query := `
		INSERT INTO organizations (name, description, owner_id)
		VALUES ($1, $2, $3)
		RETURNING id, created_at, updated_at
	`
	return r.pool.QueryRow(ctx, query, org.Name, org.Description, org.OwnerID).
		Scan(&org.ID, &org.CreatedAt, &org.UpdatedAt)
}

func (r *pgOrganizationRepository) FindByID(ctx context.Context, id string) (*Organization, error) {
	query := `
		SELECT id, name, description, owner_id, created_at, updated_at
		FROM organizations WHERE id = $1
	`
	org := &Organization{}
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&org.ID, &org.Name, &org.Description, &org.OwnerID, &org.CreatedAt, &org.UpdatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return org, nil
}

func (r *pgOrganizationRepository) FindByUserID(ctx context.Context, userID string) ([]*Organization, error) {
	query := `
		SELECT o.id, o.name, o.description, o.owner_id, o.created_at, o.updated_at
		FROM organizations o
		JOIN organization_members m ON m.organization_id = o.id
		WHERE m.user_id = $1
		ORDER BY o.name
	`
	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orgs []*Organization
	for rows.Next() {
		org := &Organization{}
		if err := rows.Scan(
			&org.ID, &org.Name, &org.Description, &org.OwnerID, &org.CreatedAt, &org.UpdatedAt,
		); err != nil {
			return nil, err
		}
		orgs = append(orgs, org)
	}
	return orgs, nil
}

func (r *pgOrganizationRepository) Update(ctx context.Context, org *Organization) error {
	query := `
		UPDATE organizations SET name = $2, description = $3, updated_at = NOW()
		WHERE id = $1
	`
	_, err := r.pool.Exec(ctx, query, org.ID, org.Name, org.Description)
	return err
}

func (r *pgOrganizationRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM organizations WHERE id = $1`
	_, err := r.pool.Exec(ctx, query, id)
	return err
}

func (r *pgOrganizationRepository) AddMember(ctx context.Context, member *OrganizationMember) error {
	query := `
		INSERT INTO organization_members (organization_id, user_id, role_id)
		VALUES ($1, $2, $3)
		RETURNING id, joined_at
	`
	return r.pool.QueryRow(ctx, query, member.OrganizationID, member.UserID, member.RoleID).
		Scan(&member.ID, &member.JoinedAt)
}

func (r *pgOrganizationRepository) FindMembers(ctx context.Context, orgID string) ([]*OrganizationMember, error) {
	query := `
		SELECT m.id, m.organization_id, m.user_id, m.role_id, m.joined_at,
		       u.id, u.email, u.name, u.title, u.phone, u.created_at, u.updated_at
		FROM organization_members m
		JOIN users u ON u.id = m.user_id
		WHERE m.organization_id = $1
		ORDER BY m.joined_at
	`
	rows, err := r.pool.Query(ctx, query, orgID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var members []*OrganizationMember
	for rows.Next() {
		member := &OrganizationMember{User: &User{}}
		if err := rows.Scan(
			&member.ID, &member.OrganizationID, &member.UserID, &member.RoleID, &member.JoinedAt,
			&member.User.ID, &member.User.Email, &member.User.Name, &member.User.Title,
			&member.User.Phone, &member.User.CreatedAt, &member.User.UpdatedAt,
		); err != nil {
			return nil, err
		}
		members = append(members, member)
	}
	return members, nil
}

func (r *pgOrganizationRepository) FindMember(ctx context.Context, orgID, userID string) (*OrganizationMember, error) {
	query := `
		SELECT id, organization_id, user_id, role_id, joined_at
		FROM organization_members
		WHERE organization_id = $1 AND user_id = $2
	`
	member := &OrganizationMember{}
	err := r.pool.QueryRow(ctx, query, orgID, userID).Scan(
		&member.ID, &member.OrganizationID, &member.UserID, &member.RoleID, &member.JoinedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return member, nil
}

func (r *pgOrganizationRepository) UpdateMemberRole(ctx context.Context, orgID, userID string, roleID *string) error {
	query := `
		UPDATE organization_members SET role_id = $3
		WHERE organization_id = $1 AND user_id = $2
	`
	_, err := r.pool.Exec(ctx, query, orgID, userID, roleID)
	return err
}

func (r *pgOrganizationRepository) RemoveMember(ctx context.Context, orgID, userID string) error {
	query := `DELETE FROM organization_members WHERE organization_id = $1 AND user_id = $2`
	_, err := r.pool.Exec(ctx, query, orgID, userID)
	return err
}
