package handlers

import (
	"errors"
	"net/http"

	"threadjudge-backend/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ReportHandler handles HTTP requests for exported judge reports
type ReportHandler struct {
	reportService *service.ReportService
}

// NewReportHandler creates a new report handler
func NewReportHandler(reportService *service.ReportService) *ReportHandler {
	return &ReportHandler{reportService: reportService}
}

// ExportReport handles GET /api/debates/:id/report
func (h *ReportHandler) ExportReport(c *gin.Context) {
	idStr := c.Param("id")
	id, err := uuid.Parse(idStr)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_ID",
				"message": "Invalid debate ID format",
			},
		})
		return
	}

	format := service.ReportFormat(c.DefaultQuery("format", "json"))

	result, err := h.reportService.ExportReport(c.Request.Context(), service.ExportReportRequest{
		DebateID: id,
		Format:   format,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUnknownReportFormat):
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "INVALID_FORMAT",
					"message": "Supported formats: json, text",
				},
			})
		case errors.Is(err, service.ErrDebateNotFound), errors.Is(err, service.ErrVerdictNotFound):
			c.JSON(http.StatusNotFound, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "NOT_FOUND",
					"message": err.Error(),
				},
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "EXPORT_FAILED",
					"message": err.Error(),
				},
			})
		}
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+result.Key+`"`)
	c.Data(http.StatusOK, result.ContentType, result.Content)
}
