package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sitegrid/sitegrid-backend/internal/api/middleware"
	"github.com/sitegrid/sitegrid-backend/internal/models"
	"github.com/sitegrid/sitegrid-backend/internal/service"
)

type RoleHandler struct {
	roleService       service.RoleService
	permissionService service.PermissionService
}

// CreateOrgRole creates an organization-level role
func (h *RoleHandler) CreateOrgRole(c *gin.Context) {
	userID, ok := middleware.RequireUserID(c)
	if !ok {
		return
	}

	var req models.CreateRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	role, err := h.roleService.CreateOrgRole(c.Request.Context(), userID, c.Param("id"), req.Name, req.Permissions)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, toOrgRoleResponse(role))
}

// ListOrgRoles lists an organization's roles
func (h *RoleHandler) ListOrgRoles(c *gin.Context) {
	userID, ok := middleware.RequireUserID(c)
	if !ok {
		return
	}

	roles, err := h.roleService.ListOrgRoles(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	resp := make([]models.OrgRoleResponse, len(roles))
	for i, r := range roles {
		resp[i] = toOrgRoleResponse(r)
	}
	c.JSON(http.StatusOK, resp)
}

// UpdateOrgRole updates an organization role
func (h *RoleHandler) UpdateOrgRole(c *gin.Context) {
	userID, ok := middleware.RequireUserID(c)
	if !ok {
		return
	}

	var req models.UpdateRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	role, err := h.roleService.UpdateOrgRole(c.Request.Context(), userID, c.Param("roleId"), req.Name, req.Permissions)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, toOrgRoleResponse(role))
}

// DeleteOrgRole deletes an organization role
func (h *RoleHandler) DeleteOrgRole(c *gin.Context) {
	userID, ok := middleware.RequireUserID(c)
	if !ok {
		return
	}

	if err := h.roleService.DeleteOrgRole(c.Request.Context(), userID, c.Param("roleId")); err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Role deleted"})
}

// CreateProjectRole creates a project-level role, optionally inheriting
// from an organization role
func (h *RoleHandler) CreateProjectRole(c *gin.Context) {
	userID, ok := middleware.RequireUserID(c)
	if !ok {
		return
	}

	var req models.CreateRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	role, err := h.roleService.CreateProjectRole(c.Request.Context(), userID, c.Param("id"), req.Name, req.Permissions, req.InheritsFrom)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, toProjectRoleResponse(role))
}

// ListProjectRoles lists a project's roles
func (h *RoleHandler) ListProjectRoles(c *gin.Context) {
	userID, ok := middleware.RequireUserID(c)
	if !ok {
		return
	}

	roles, err := h.roleService.ListProjectRoles(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	resp := make([]models.ProjectRoleResponse, len(roles))
	for i, r := range roles {
		resp[i] = toProjectRoleResponse(r)
	}
	c.JSON(http.StatusOK, resp)
}

// UpdateProjectRole updates a project role
func (h *RoleHandler) UpdateProjectRole(c *gin.Context) {
	userID, ok := middleware.RequireUserID(c)
	if !ok {
		return
	}

	var req models.UpdateRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	role, err := h.roleService.UpdateProjectRole(c.Request.Context(), userID, c.Param("roleId"), req.Name, req.Permissions, req.InheritsFrom)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, toProjectRoleResponse(role))
}

// DeleteProjectRole deletes a project role
func (h *RoleHandler) DeleteProjectRole(c *gin.Context) {
	userID, ok := middleware.RequireUserID(c)
	if !ok {
		return
	}

	if err := h.roleService.DeleteProjectRole(c.Request.Context(), userID, c.Param("roleId")); err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Role deleted"})
}

// ProjectRolePermissions returns the effective permission set of a
// project role, including inherited organization-role permissions
func (h *RoleHandler) ProjectRolePermissions(c *gin.Context) {
	if _, ok := middleware.RequireUserID(c); !ok {
		return
	}

	permissions, err := h.permissionService.EffectivePermissions(c.Request.Context(), c.Param("roleId"))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"permissions": permissions})
}
