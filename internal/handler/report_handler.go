package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/studio-booking-api/internal/service"
	"github.com/noah-isme/studio-booking-api/pkg/response"
)

// ReportHandler exposes the roster report endpoints.
type ReportHandler struct {
	reports *service.ReportService
}

// NewReportHandler constructs ReportHandler.
func NewReportHandler(reports *service.ReportService) *ReportHandler {
	return &ReportHandler{reports: reports}
}

// Classes godoc
// @Summary Roster report: every class with its enrolled students
// @Tags Reports
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /reports/classes [get]
func (h *ReportHandler) Classes(c *gin.Context) {
	rosters, err := h.reports.ClassRosters(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, rosters, nil)
}

// Export godoc
// @Summary Download the roster report as CSV or PDF
// @Tags Reports
// @Produce text/csv
// @Produce application/pdf
// @Param format query string false "csv (default) or pdf"
// @Success 200 {file} file
// @Failure 400 {object} response.Envelope
// @Router /reports/classes/export [get]
func (h *ReportHandler) Export(c *gin.Context) {
	result, err := h.reports.Export(c.Request.Context(), c.DefaultQuery("format", "csv"))
	if err != nil {
		response.Error(c, err)
		return
	}

	c.Header("Content-Disposition", "attachment; filename="+result.FileName)
	c.Data(http.StatusOK, result.ContentType, result.Content)
}
