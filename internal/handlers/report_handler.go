package handlers

import (
	"net/http"

	"power_gym_backend/internal/models"
	"power_gym_backend/internal/services"

	"github.com/gin-gonic/gin"
)

// ReportHandler exposes the dashboard and report endpoints.
type ReportHandler struct {
	reportService *services.ReportService
}

// NewReportHandler creates a new ReportHandler.
func NewReportHandler(reportService *services.ReportService) *ReportHandler {
	return &ReportHandler{reportService: reportService}
}

// Dashboard handles GET /reports/dashboard.
func (h *ReportHandler) Dashboard(c *gin.Context) {
	summary, err := h.reportService.DashboardSummary(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

func reportParams(c *gin.Context) models.ReportRequestParams {
	return models.ReportRequestParams{
		StartDate: c.Query("start_date"),
		EndDate:   c.Query("end_date"),
		Period:    c.Query("period"),
		StaffID:   queryInt64Ptr(c, "staff_id"),
	}
}

// SalesReport handles GET /reports/sales.
func (h *ReportHandler) SalesReport(c *gin.Context) {
	report, err := h.reportService.SalesReport(reportParams(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

// PaymentMethodBreakdown handles GET /reports/payment-methods.
func (h *ReportHandler) PaymentMethodBreakdown(c *gin.Context) {
	breakdown, err := h.reportService.PaymentMethodBreakdown(reportParams(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, breakdown)
}

// AttendanceSummary handles GET /reports/attendance.
func (h *ReportHandler) AttendanceSummary(c *gin.Context) {
	summary, err := h.reportService.AttendanceSummary(reportParams(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}
