package models

import "time"

// ============================================
// Projects
// ============================================

type CreateProjectRequest struct {
	Name        string  `json:"name" binding:"required"`
	Code        string  `json:"code" binding:"required"`
	Description *string `json:"description,omitempty"`
	Address     *string `json:"address,omitempty"`
}

type UpdateProjectRequest struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
	Address     *string `json:"address,omitempty"`
	Status      *string `json:"status,omitempty"`
}

type ProjectResponse struct {
	ID             string    `json:"id"`
	OrganizationID string    `json:"organizationId"`
	Name           string    `json:"name"`
	Code           string    `json:"code"`
	Description    *string   `json:"description,omitempty"`
	Address        *string   `json:"address,omitempty"`
	Status         string    `json:"status"`
	CreatedBy      string    `json:"createdBy"`
	CreatedAt      time.Time `json:"createdAt"`
}

// ============================================
// Project Members
// ============================================

type AddProjectMemberRequest struct {
	UserID string  `json:"userId" binding:"required"`
	RoleID *string `json:"roleId,omitempty"`
}

type UpdateMemberRoleRequest struct {
	RoleID *string `json:"roleId"`
}

type ProjectMemberResponse struct {
	ID       string        `json:"id"`
	UserID   string        `json:"userId"`
	RoleID   *string       `json:"roleId,omitempty"`
	JoinedAt time.Time     `json:"joinedAt"`
	User     *UserResponse `json:"user,omitempty"`
}

// ============================================
// Permissions
// ============================================

type SetOverrideRequest struct {
	Permission string `json:"permission" binding:"required"`
	Granted    *bool  `json:"granted" binding:"required"`
}

type SetResourcePermissionRequest struct {
	ResourceType string `json:"resourceType" binding:"required"`
	ResourceID   string `json:"resourceId" binding:"required"`
	Permission   string `json:"permission" binding:"required"`
	Granted      *bool  `json:"granted" binding:"required"`
}

type OverrideResponse struct {
	ID         string    `json:"id"`
	Permission string    `json:"permission"`
	Granted    bool      `json:"granted"`
	GrantedBy  *string   `json:"grantedBy,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
}

type ResourcePermissionResponse struct {
	ID           string    `json:"id"`
	ResourceType string    `json:"resourceType"`
	ResourceID   string    `json:"resourceId"`
	Permission   string    `json:"permission"`
	Granted      bool      `json:"granted"`
	CreatedAt    time.Time `json:"createdAt"`
}

type PermissionCheckResponse struct {
	Permission string `json:"permission"`
	Allowed    bool   `json:"allowed"`
}
