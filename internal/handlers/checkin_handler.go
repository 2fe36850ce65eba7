package handlers

import (
	"net/http"

	"power_gym_backend/internal/services"
	"power_gym_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// CheckInHandler exposes member check-in endpoints.
type CheckInHandler struct {
	checkInService *services.CheckInService
}

// NewCheckInHandler creates a new CheckInHandler.
func NewCheckInHandler(checkInService *services.CheckInService) *CheckInHandler {
	return &CheckInHandler{checkInService: checkInService}
}

// CheckIn handles POST /check-ins. The payload carries either a member
// code (QR flow) or a member ID (manual/search flow).
func (h *CheckInHandler) CheckIn(c *gin.Context) {
	var payload struct {
		MemberCode string `json:"member_code"`
		MemberID   *int64 `json:"member_id"`
		Method     string `json:"method"`
	}
	if err := c.ShouldBindJSON(&payload); err != nil {
		utils.RespondValidationFailed(c, err.Error())
		return
	}

	var result *services.CheckInResult
	var err error
	switch {
	case payload.MemberCode != "":
		result, err = h.checkInService.CheckInByCode(payload.MemberCode, payload.Method)
	case payload.MemberID != nil:
		result, err = h.checkInService.CheckInByID(*payload.MemberID, payload.Method)
	default:
		utils.RespondValidationFailed(c, "member_code or member_id is required")
		return
	}
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, result)
}

// CheckOut handles PUT /check-ins/:id/check-out.
func (h *CheckInHandler) CheckOut(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.checkInService.CheckOut(id); err != nil {
		respondServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ListCheckIns handles GET /check-ins.
func (h *CheckInHandler) ListCheckIns(c *gin.Context) {
	page := queryInt(c, "page", 1)
	pageSize := queryInt(c, "page_size", 20)

	checkIns, total, err := h.checkInService.ListCheckIns(
		queryInt64Ptr(c, "member_id"),
		queryStrPtr(c, "date_from"),
		queryStrPtr(c, "date_to"),
		page, pageSize,
	)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	paginated(c, checkIns, total, page, pageSize)
}
