package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sitegrid/sitegrid-backend/internal/api/middleware"
	"github.com/sitegrid/sitegrid-backend/internal/models"
	"github.com/sitegrid/sitegrid-backend/internal/repository"
	"github.com/sitegrid/sitegrid-backend/internal/service"
)

type PermissionHandler struct {
	permissionService service.PermissionService
}

// Check resolves whether the caller holds a permission in a project.
// Resource type and id may be passed as query params for resource checks.
func (h *PermissionHandler) Check(c *gin.Context) {
	userID, ok := middleware.RequireUserID(c)
	if !ok {
		return
	}

	permission := c.Query("permission")
	if permission == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "permission query param is required"})
		return
	}

	var resource *repository.ResourceRef
	if rt, rid := c.Query("resourceType"), c.Query("resourceId"); rt != "" && rid != "" {
		resource = &repository.ResourceRef{Type: rt, ID: rid}
	}

	allowed := h.permissionService.HasPermission(c.Request.Context(), c.Param("id"), userID, permission, resource)
	c.JSON(http.StatusOK, models.PermissionCheckResponse{Permission: permission, Allowed: allowed})
}

// SetOverride grants or revokes a single permission for a project member
func (h *PermissionHandler) SetOverride(c *gin.Context) {
	userID, ok := middleware.RequireUserID(c)
	if !ok {
		return
	}

	var req models.SetOverrideRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	override, err := h.permissionService.SetOverride(c.Request.Context(), userID, c.Param("id"), c.Param("userId"), req.Permission, *req.Granted)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.OverrideResponse{
		ID:         override.ID,
		Permission: override.Permission,
		Granted:    override.Granted,
		GrantedBy:  override.GrantedBy,
		CreatedAt:  override.CreatedAt,
	})
}

// RemoveOverride deletes a member-level permission override
func (h *PermissionHandler) RemoveOverride(c *gin.Context) {
	userID, ok := middleware.RequireUserID(c)
	if !ok {
		return
	}

	permission := c.Query("permission")
	if permission == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "permission query param is required"})
		return
	}

	if err := h.permissionService.RemoveOverride(c.Request.Context(), userID, c.Param("id"), c.Param("userId"), permission); err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Override removed"})
}

// ListOverrides lists a member's permission overrides
func (h *PermissionHandler) ListOverrides(c *gin.Context) {
	userID, ok := middleware.RequireUserID(c)
	if !ok {
		return
	}

	overrides, err := h.permissionService.ListOverrides(c.Request.Context(), userID, c.Param("id"), c.Param("userId"))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	resp := make([]models.OverrideResponse, len(overrides))
	for i, o := range overrides {
		resp[i] = models.OverrideResponse{
			ID:         o.ID,
			Permission: o.Permission,
			Granted:    o.Granted,
			GrantedBy:  o.GrantedBy,
			CreatedAt:  o.CreatedAt,
		}
	}
	c.JSON(http.StatusOK, resp)
}

// SetResourcePermission grants or revokes a permission on one specific resource
func (h *PermissionHandler) SetResourcePermission(c *gin.Context) {
	userID, ok := middleware.RequireUserID(c)
	if !ok {
		return
	}

	var req models.SetResourcePermissionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	resource := repository.ResourceRef{Type: req.ResourceType, ID: req.ResourceID}
	rp, err := h.permissionService.SetResourcePermission(c.Request.Context(), userID, c.Param("id"), c.Param("userId"), resource, req.Permission, *req.Granted)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.ResourcePermissionResponse{
		ID:           rp.ID,
		ResourceType: rp.ResourceType,
		ResourceID:   rp.ResourceID,
		Permission:   rp.Permission,
		Granted:      rp.Granted,
		CreatedAt:    rp.CreatedAt,
	})
}

// RemoveResourcePermission deletes a resource-level permission entry
func (h *PermissionHandler) RemoveResourcePermission(c *gin.Context) {
	userID, ok := middleware.RequireUserID(c)
	if !ok {
		return
	}

	permission := c.Query("permission")
	rt := c.Query("resourceType")
	rid := c.Query("resourceId")
	if permission == "" || rt == "" || rid == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "permission, resourceType and resourceId query params are required"})
		return
	}

	resource := repository.ResourceRef{Type: rt, ID: rid}
	if err := h.permissionService.RemoveResourcePermission(c.Request.Context(), userID, c.Param("id"), c.Param("userId"), resource, permission); err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Resource permission removed"})
}

// ListResourcePermissions lists a member's resource-level permission entries
func (h *PermissionHandler) ListResourcePermissions(c *gin.Context) {
	userID, ok := middleware.RequireUserID(c)
	if !ok {
		return
	}

	perms, err := h.permissionService.ListResourcePermissions(c.Request.Context(), userID, c.Param("id"), c.Param("userId"))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	resp := make([]models.ResourcePermissionResponse, len(perms))
	for i, rp := range perms {
		resp[i] = models.ResourcePermissionResponse{
			ID:           rp.ID,
			ResourceType: rp.ResourceType,
			ResourceID:   rp.ResourceID,
			Permission:   rp.Permission,
			Granted:      rp.Granted,
			CreatedAt:    rp.CreatedAt,
		}
	}
	c.JSON(http.StatusOK, resp)
}
