package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sitegrid/sitegrid-backend/internal/api/middleware"
	"github.com/sitegrid/sitegrid-backend/internal/models"
	"github.com/sitegrid/sitegrid-backend/internal/service"
)

type MeetingHandler struct {
	meetingService service.MeetingService
}

// Create schedules a project meeting
func (h *MeetingHandler) Create(c *gin.Context) {
	userID, ok := middleware.RequireUserID(c)
	if !ok {
		return
	}

	var req models.CreateMeetingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	meeting, err := h.meetingService.Create(c.Request.Context(), userID, c.Param("id"), req.Title, req.ScheduledAt, req.Agenda, req.AttendeeIDs)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, toMeetingResponse(meeting))
}

// Get returns one meeting
func (h *MeetingHandler) Get(c *gin.Context) {
	userID, ok := middleware.RequireUserID(c)
	if !ok {
		return
	}

	meeting, err := h.meetingService.GetByID(c.Request.Context(), userID, c.Param("meetingId"))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, toMeetingResponse(meeting))
}

// ListByProject lists a project's meetings
func (h *MeetingHandler) ListByProject(c *gin.Context) {
	userID, ok := middleware.RequireUserID(c)
	if !ok {
		return
	}

	meetings, err := h.meetingService.ListByProject(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	resp := make([]models.MeetingResponse, len(meetings))
	for i, m := range meetings {
		resp[i] = toMeetingResponse(m)
	}
	c.JSON(http.StatusOK, resp)
}

// RecordMinutes attaches minutes to a meeting
func (h *MeetingHandler) RecordMinutes(c *gin.Context) {
	userID, ok := middleware.RequireUserID(c)
	if !ok {
		return
	}

	var req models.RecordMinutesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	meeting, err := h.meetingService.RecordMinutes(c.Request.Context(), userID, c.Param("meetingId"), req.Minutes)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, toMeetingResponse(meeting))
}

// Delete removes a meeting
func (h *MeetingHandler) Delete(c *gin.Context) {
	userID, ok := middleware.RequireUserID(c)
	if !ok {
		return
	}

	if err := h.meetingService.Delete(c.Request.Context(), userID, c.Param("meetingId")); err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Meeting deleted"})
}
