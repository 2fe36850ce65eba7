package handlers

import (
	"net/http"

	"power_gym_backend/internal/models"
	"power_gym_backend/internal/scheduling"
	"power_gym_backend/internal/services"
	"power_gym_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// StaffHandler exposes staff and weekly schedule endpoints.
type StaffHandler struct {
	staffService *services.StaffService
}

// NewStaffHandler creates a new StaffHandler.
func NewStaffHandler(staffService *services.StaffService) *StaffHandler {
	return &StaffHandler{staffService: staffService}
}

// CreateStaff handles POST /staff.
func (h *StaffHandler) CreateStaff(c *gin.Context) {
	var staff models.Staff
	if err := c.ShouldBindJSON(&staff); err != nil {
		utils.RespondValidationFailed(c, err.Error())
		return
	}

	created, err := h.staffService.CreateStaff(&staff)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

// GetStaff handles GET /staff/:id.
func (h *StaffHandler) GetStaff(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	staff, err := h.staffService.GetStaff(id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, staff)
}

// ListStaff handles GET /staff.
func (h *StaffHandler) ListStaff(c *gin.Context) {
	filters := models.StaffFilters{
		SearchTerm: queryStrPtr(c, "search"),
		Status:     queryStrPtr(c, "status"),
		Page:       queryInt(c, "page", 1),
		PageSize:   queryInt(c, "page_size", 20),
	}

	staff, total, err := h.staffService.ListStaff(filters)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	paginated(c, staff, total, filters.Page, filters.PageSize)
}

// UpdateStaff handles PUT /staff/:id.
func (h *StaffHandler) UpdateStaff(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var staff models.Staff
	if err := c.ShouldBindJSON(&staff); err != nil {
		utils.RespondValidationFailed(c, err.Error())
		return
	}
	staff.ID = id

	updated, err := h.staffService.UpdateStaff(&staff)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

// DeactivateStaff handles DELETE /staff/:id. The record is kept with
// status Inactive.
func (h *StaffHandler) DeactivateStaff(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.staffService.DeactivateStaff(id); err != nil {
		respondServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// GetWeeklySchedule handles GET /staff/:id/schedule.
func (h *StaffHandler) GetWeeklySchedule(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	schedule, err := h.staffService.GetWeeklySchedule(id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, schedule)
}

// UpdateWeeklySchedule handles PUT /staff/:id/schedule. The payload is
// a full seven-day schedule; days it leaves out read as off.
func (h *StaffHandler) UpdateWeeklySchedule(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	schedule := scheduling.DefaultWeeklySchedule()
	if err := c.ShouldBindJSON(&schedule); err != nil {
		utils.RespondValidationFailed(c, err.Error())
		return
	}

	updated, err := h.staffService.UpdateWeeklySchedule(id, &schedule)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}
