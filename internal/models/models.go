package models

import "time"

// ============================================
// Auth
// ============================================

type RegisterRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refreshToken" binding:"required"`
}

type AuthResponse struct {
	User         UserResponse `json:"user"`
	AccessToken  string       `json:"accessToken"`
	RefreshToken string       `json:"refreshToken"`
}

// ============================================
// Users
// ============================================

type UserResponse struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Title     *string   `json:"title,omitempty"`
	Phone     *string   `json:"phone,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

type UpdateProfileRequest struct {
	Name  *string `json:"name,omitempty"`
	Title *string `json:"title,omitempty"`
	Phone *string `json:"phone,omitempty"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" binding:"required"`
	NewPassword     string `json:"newPassword" binding:"required,min=8"`
}

// ============================================
// Organizations
// ============================================

type CreateOrganizationRequest struct {
	Name        string  `json:"name" binding:"required"`
	Description *string `json:"description,omitempty"`
}

type UpdateOrganizationRequest struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
}

type OrganizationResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description *string   `json:"description,omitempty"`
	OwnerID     string    `json:"ownerId"`
	CreatedAt   time.Time `json:"createdAt"`
}

type AddOrgMemberRequest struct {
	Email  string  `json:"email" binding:"required,email"`
	RoleID *string `json:"roleId,omitempty"`
}

type OrgMemberResponse struct {
	ID       string        `json:"id"`
	UserID   string        `json:"userId"`
	RoleID   *string       `json:"roleId,omitempty"`
	JoinedAt time.Time     `json:"joinedAt"`
	User     *UserResponse `json:"user,omitempty"`
}

// ============================================
// Roles
// ============================================

type CreateRoleRequest struct {
	Name         string   `json:"name" binding:"required"`
	Permissions  []string `json:"permissions"`
	InheritsFrom *string  `json:"inheritsFrom,omitempty"`
}

type UpdateRoleRequest struct {
	Name         *string  `json:"name,omitempty"`
	Permissions  []string `json:"permissions,omitempty"`
	InheritsFrom *string  `json:"inheritsFrom,omitempty"`
}

type OrgRoleResponse struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Permissions []string `json:"permissions"`
}

type ProjectRoleResponse struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	Permissions  []string `json:"permissions"`
	InheritsFrom *string  `json:"inheritsFrom,omitempty"`
}

// ============================================
// Notifications
// ============================================

type NotificationResponse struct {
	ID        string                 `json:"id"`
	Type      string                 `json:"type"`
	Title     string                 `json:"title"`
	Message   string                 `json:"message"`
	Read      bool                   `json:"read"`
	Data      map[string]interface{} `json:"data,omitempty"`
	CreatedAt time.Time              `json:"createdAt"`
}

type NotificationCountsResponse struct {
	Total  int `json:"total"`
	Unread int `json:"unread"`
}
