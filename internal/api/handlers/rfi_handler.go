package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sitegrid/sitegrid-backend/internal/api/middleware"
	"github.com/sitegrid/sitegrid-backend/internal/models"
	"github.com/sitegrid/sitegrid-backend/internal/service"
)

type RFIHandler struct {
	rfiService service.RFIService
}

// Create opens a new RFI with the next sequential number
func (h *RFIHandler) Create(c *gin.Context) {
	userID, ok := middleware.RequireUserID(c)
	if !ok {
		return
	}

	var req models.CreateRFIRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	rfi, err := h.rfiService.Create(c.Request.Context(), userID, c.Param("id"), req.Subject, req.Question, req.DueDate, req.AssigneeID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, toRFIResponse(rfi))
}

// Get returns one RFI
func (h *RFIHandler) Get(c *gin.Context) {
	userID, ok := middleware.RequireUserID(c)
	if !ok {
		return
	}

	rfi, err := h.rfiService.GetByID(c.Request.Context(), userID, c.Param("rfiId"))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, toRFIResponse(rfi))
}

// ListByProject lists a project's RFIs
func (h *RFIHandler) ListByProject(c *gin.Context) {
	userID, ok := middleware.RequireUserID(c)
	if !ok {
		return
	}

	rfis, err := h.rfiService.ListByProject(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	resp := make([]models.RFIResponse, len(rfis))
	for i, r := range rfis {
		resp[i] = toRFIResponse(r)
	}
	c.JSON(http.StatusOK, resp)
}

// Answer records the answer to an open RFI
func (h *RFIHandler) Answer(c *gin.Context) {
	userID, ok := middleware.RequireUserID(c)
	if !ok {
		return
	}

	var req models.AnswerRFIRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	rfi, err := h.rfiService.Answer(c.Request.Context(), userID, c.Param("rfiId"), req.Answer)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, toRFIResponse(rfi))
}

// Close closes an RFI (creator only)
func (h *RFIHandler) Close(c *gin.Context) {
	userID, ok := middleware.RequireUserID(c)
	if !ok {
		return
	}

	if err := h.rfiService.Close(c.Request.Context(), userID, c.Param("rfiId")); err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "RFI closed"})
}
