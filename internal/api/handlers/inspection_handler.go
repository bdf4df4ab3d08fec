package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sitegrid/sitegrid-backend/internal/api/middleware"
	"github.com/sitegrid/sitegrid-backend/internal/models"
	"github.com/sitegrid/sitegrid-backend/internal/service"
)

type InspectionHandler struct {
	inspectionService service.InspectionService
}

// Schedule books a new inspection for a project
func (h *InspectionHandler) Schedule(c *gin.Context) {
	userID, ok := middleware.RequireUserID(c)
	if !ok {
		return
	}

	var req models.ScheduleInspectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	inspection, err := h.inspectionService.Schedule(c.Request.Context(), userID, c.Param("id"), req.Type, req.ScheduledFor, req.InspectorID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, toInspectionResponse(inspection))
}

// Get returns one inspection
func (h *InspectionHandler) Get(c *gin.Context) {
	userID, ok := middleware.RequireUserID(c)
	if !ok {
		return
	}

	inspection, err := h.inspectionService.GetByID(c.Request.Context(), userID, c.Param("inspectionId"))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, toInspectionResponse(inspection))
}

// ListByProject lists a project's inspections
func (h *InspectionHandler) ListByProject(c *gin.Context) {
	userID, ok := middleware.RequireUserID(c)
	if !ok {
		return
	}

	inspections, err := h.inspectionService.ListByProject(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	resp := make([]models.InspectionResponse, len(inspections))
	for i, insp := range inspections {
		resp[i] = toInspectionResponse(insp)
	}
	c.JSON(http.StatusOK, resp)
}

// RecordResult marks a scheduled inspection passed or failed
func (h *InspectionHandler) RecordResult(c *gin.Context) {
	userID, ok := middleware.RequireUserID(c)
	if !ok {
		return
	}

	var req models.InspectionResultRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	inspection, err := h.inspectionService.RecordResult(c.Request.Context(), userID, c.Param("inspectionId"), req.Status, req.Findings)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, toInspectionResponse(inspection))
}

// Cancel cancels a scheduled inspection
func (h *InspectionHandler) Cancel(c *gin.Context) {
	userID, ok := middleware.RequireUserID(c)
	if !ok {
		return
	}

	if err := h.inspectionService.Cancel(c.Request.Context(), userID, c.Param("inspectionId")); err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Inspection cancelled"})
}
