package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sitegrid/sitegrid-backend/internal/api/middleware"
	"github.com/sitegrid/sitegrid-backend/internal/models"
	"github.com/sitegrid/sitegrid-backend/internal/service"
)

type ApprovalHandler struct {
	approvalService service.ApprovalService
}

// Create creates a draft approval request with its workflow steps
func (h *ApprovalHandler) Create(c *gin.Context) {
	userID, ok := middleware.RequireUserID(c)
	if !ok {
		return
	}

	var req models.CreateApprovalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	request, err := h.approvalService.CreateRequest(c.Request.Context(), userID, c.Param("id"), req.EntityType, req.EntityID, toWorkflowConfig(req.Workflow))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, toApprovalRequestResponse(request))
}

// Submit moves a draft request under review
func (h *ApprovalHandler) Submit(c *gin.Context) {
	userID, ok := middleware.RequireUserID(c)
	if !ok {
		return
	}

	request, err := h.approvalService.Submit(c.Request.Context(), userID, c.Param("requestId"))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, toApprovalRequestResponse(request))
}

// Decide records an approver's decision on a step
func (h *ApprovalHandler) Decide(c *gin.Context) {
	userID, ok := middleware.RequireUserID(c)
	if !ok {
		return
	}

	var req models.DecisionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	request, err := h.approvalService.RecordDecision(c.Request.Context(), userID, c.Param("stepId"), req.Decision, req.Comments)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, toApprovalRequestResponse(request))
}

// Reopen puts a revision_requested step back to pending
func (h *ApprovalHandler) Reopen(c *gin.Context) {
	userID, ok := middleware.RequireUserID(c)
	if !ok {
		return
	}

	request, err := h.approvalService.ReopenStep(c.Request.Context(), userID, c.Param("stepId"))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, toApprovalRequestResponse(request))
}

// Get returns one approval request with its steps
func (h *ApprovalHandler) Get(c *gin.Context) {
	userID, ok := middleware.RequireUserID(c)
	if !ok {
		return
	}

	request, err := h.approvalService.GetRequest(c.Request.Context(), userID, c.Param("requestId"))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, toApprovalRequestResponse(request))
}

// ListByProject lists a project's approval requests, newest first
func (h *ApprovalHandler) ListByProject(c *gin.Context) {
	userID, ok := middleware.RequireUserID(c)
	if !ok {
		return
	}

	requests, err := h.approvalService.ListByProject(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	resp := make([]models.ApprovalRequestResponse, len(requests))
	for i, r := range requests {
		resp[i] = toApprovalRequestResponse(r)
	}
	c.JSON(http.StatusOK, resp)
}

// GetForEntity returns the approval request attached to an entity
func (h *ApprovalHandler) GetForEntity(c *gin.Context) {
	userID, ok := middleware.RequireUserID(c)
	if !ok {
		return
	}

	request, err := h.approvalService.GetRequestForEntity(c.Request.Context(), userID, c.Param("entityType"), c.Param("entityId"))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, toApprovalRequestResponse(request))
}
