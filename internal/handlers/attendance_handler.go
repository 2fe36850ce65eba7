package handlers

import (
	"net/http"

	"power_gym_backend/internal/models"
	"power_gym_backend/internal/services"
	"power_gym_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// AttendanceHandler exposes staff clock-in/clock-out and duty status
// endpoints.
type AttendanceHandler struct {
	attendanceService *services.AttendanceService
}

// NewAttendanceHandler creates a new AttendanceHandler.
func NewAttendanceHandler(attendanceService *services.AttendanceService) *AttendanceHandler {
	return &AttendanceHandler{attendanceService: attendanceService}
}

// ClockIn handles POST /staff-attendance/clock-in.
func (h *AttendanceHandler) ClockIn(c *gin.Context) {
	var payload struct {
		StaffID int64 `json:"staff_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&payload); err != nil {
		utils.RespondValidationFailed(c, err.Error())
		return
	}

	record, err := h.attendanceService.ClockIn(payload.StaffID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, record)
}

// ClockOut handles PUT /staff-attendance/clock-out/:id, closing a
// specific attendance record.
func (h *AttendanceHandler) ClockOut(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	record, err := h.attendanceService.ClockOutRecord(id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, record)
}

// ClockOutStaff handles POST /staff-attendance/clock-out, closing the
// staff member's open session.
func (h *AttendanceHandler) ClockOutStaff(c *gin.Context) {
	var payload struct {
		StaffID int64 `json:"staff_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&payload); err != nil {
		utils.RespondValidationFailed(c, err.Error())
		return
	}

	record, err := h.attendanceService.ClockOut(payload.StaffID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, record)
}

// GetOpenSession handles GET /staff-attendance/open/:staffId.
func (h *AttendanceHandler) GetOpenSession(c *gin.Context) {
	staffID, ok := pathID(c, "staffId")
	if !ok {
		return
	}
	record, err := h.attendanceService.GetOpenSession(staffID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, record)
}

// ListAttendance handles GET /staff-attendance.
func (h *AttendanceHandler) ListAttendance(c *gin.Context) {
	filters := models.AttendanceFilters{
		StaffID:  queryInt64Ptr(c, "staff_id"),
		DateFrom: queryStrPtr(c, "date_from"),
		DateTo:   queryStrPtr(c, "date_to"),
		Status:   queryStrPtr(c, "status"),
		Page:     queryInt(c, "page", 1),
		PageSize: queryInt(c, "page_size", 20),
	}

	records, total, err := h.attendanceService.ListAttendance(filters)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	paginated(c, records, total, filters.Page, filters.PageSize)
}

// DutyStatus handles GET /staff-attendance/duty-status/:staffId.
func (h *AttendanceHandler) DutyStatus(c *gin.Context) {
	staffID, ok := pathID(c, "staffId")
	if !ok {
		return
	}
	entry, err := h.attendanceService.DutyStatusFor(staffID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, entry)
}

// DutyBoard handles GET /staff-attendance/duty-status.
func (h *AttendanceHandler) DutyBoard(c *gin.Context) {
	board, err := h.attendanceService.DutyBoard()
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, board)
}

// OnDutyStaff handles GET /staff-attendance/on-duty.
func (h *AttendanceHandler) OnDutyStaff(c *gin.Context) {
	onDuty, err := h.attendanceService.OnDutyStaff()
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, onDuty)
}
