package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sitegrid/sitegrid-backend/internal/api/middleware"
	"github.com/sitegrid/sitegrid-backend/internal/models"
	"github.com/sitegrid/sitegrid-backend/internal/service"
)

type ReportHandler struct {
	reportService service.ReportService
}

// ProjectApprovals returns approval throughput stats for a project
func (h *ReportHandler) ProjectApprovals(c *gin.Context) {
	userID, ok := middleware.RequireUserID(c)
	if !ok {
		return
	}

	report, err := h.reportService.ProjectApprovalReport(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.ApprovalReportResponse{
		ProjectID:             report.ProjectID,
		TotalRequests:         report.TotalRequests,
		DraftCount:            report.DraftCount,
		UnderReviewCount:      report.UnderReviewCount,
		ApprovedCount:         report.ApprovedCount,
		RejectedCount:         report.RejectedCount,
		AvgDecisionLatencySec: report.AvgDecisionLatencySec,
	})
}
