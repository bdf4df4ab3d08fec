package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sitegrid/sitegrid-backend/internal/api/middleware"
	"github.com/sitegrid/sitegrid-backend/internal/models"
	"github.com/sitegrid/sitegrid-backend/internal/service"
)

type SubmittalHandler struct {
	submittalService service.SubmittalService
}

// Create registers a new equipment or material submittal
func (h *SubmittalHandler) Create(c *gin.Context) {
	userID, ok := middleware.RequireUserID(c)
	if !ok {
		return
	}

	var req models.CreateSubmittalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	submittal, err := h.submittalService.Create(c.Request.Context(), userID, c.Param("id"), service.SubmittalInput{
		Kind:         req.Kind,
		Name:         req.Name,
		SpecSection:  req.SpecSection,
		Manufacturer: req.Manufacturer,
		ModelNumber:  req.ModelNumber,
		Quantity:     req.Quantity,
		UnitCost:     req.UnitCost,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, toSubmittalResponse(submittal))
}

// Get returns one submittal
func (h *SubmittalHandler) Get(c *gin.Context) {
	userID, ok := middleware.RequireUserID(c)
	if !ok {
		return
	}

	submittal, err := h.submittalService.GetByID(c.Request.Context(), userID, c.Param("submittalId"))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, toSubmittalResponse(submittal))
}

// ListByProject lists a project's submittals
func (h *SubmittalHandler) ListByProject(c *gin.Context) {
	userID, ok := middleware.RequireUserID(c)
	if !ok {
		return
	}

	submittals, err := h.submittalService.ListByProject(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	resp := make([]models.SubmittalResponse, len(submittals))
	for i, s := range submittals {
		resp[i] = toSubmittalResponse(s)
	}
	c.JSON(http.StatusOK, resp)
}

// Update edits a draft or revision_requested submittal
func (h *SubmittalHandler) Update(c *gin.Context) {
	userID, ok := middleware.RequireUserID(c)
	if !ok {
		return
	}

	var req models.UpdateSubmittalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	submittal, err := h.submittalService.Update(c.Request.Context(), userID, c.Param("submittalId"), service.SubmittalInput{
		Name:         req.Name,
		SpecSection:  req.SpecSection,
		Manufacturer: req.Manufacturer,
		ModelNumber:  req.ModelNumber,
		Quantity:     req.Quantity,
		UnitCost:     req.UnitCost,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, toSubmittalResponse(submittal))
}

// Delete removes a draft submittal
func (h *SubmittalHandler) Delete(c *gin.Context) {
	userID, ok := middleware.RequireUserID(c)
	if !ok {
		return
	}

	if err := h.submittalService.Delete(c.Request.Context(), userID, c.Param("submittalId")); err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Submittal deleted"})
}

// Submit sends a submittal into its approval workflow
func (h *SubmittalHandler) Submit(c *gin.Context) {
	userID, ok := middleware.RequireUserID(c)
	if !ok {
		return
	}

	var req models.SubmitSubmittalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	request, err := h.submittalService.Submit(c.Request.Context(), userID, c.Param("submittalId"), toWorkflowConfig(req.Workflow))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, toApprovalRequestResponse(request))
}
