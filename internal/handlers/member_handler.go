package handlers

import (
	"net/http"

	"power_gym_backend/internal/models"
	"power_gym_backend/internal/services"
	"power_gym_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// MemberHandler exposes member and membership-type endpoints.
type MemberHandler struct {
	memberService *services.MemberService
}

// NewMemberHandler creates a new MemberHandler.
func NewMemberHandler(memberService *services.MemberService) *MemberHandler {
	return &MemberHandler{memberService: memberService}
}

// CreateMember handles POST /members.
func (h *MemberHandler) CreateMember(c *gin.Context) {
	var member models.Member
	if err := c.ShouldBindJSON(&member); err != nil {
		utils.RespondValidationFailed(c, err.Error())
		return
	}

	created, err := h.memberService.CreateMember(&member)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

// GetMember handles GET /members/:id.
func (h *MemberHandler) GetMember(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	member, err := h.memberService.GetMember(id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, member)
}

// GetMemberByCode handles GET /members/code/:code.
func (h *MemberHandler) GetMemberByCode(c *gin.Context) {
	member, err := h.memberService.GetMemberByCode(c.Param("code"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, member)
}

// ListMembers handles GET /members.
func (h *MemberHandler) ListMembers(c *gin.Context) {
	filters := models.MemberFilters{
		SearchTerm: queryStrPtr(c, "search"),
		Status:     queryStrPtr(c, "status"),
		Page:       queryInt(c, "page", 1),
		PageSize:   queryInt(c, "page_size", 20),
	}

	members, total, err := h.memberService.ListMembers(filters)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	paginated(c, members, total, filters.Page, filters.PageSize)
}

// UpdateMember handles PUT /members/:id.
func (h *MemberHandler) UpdateMember(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var member models.Member
	if err := c.ShouldBindJSON(&member); err != nil {
		utils.RespondValidationFailed(c, err.Error())
		return
	}
	member.ID = id

	updated, err := h.memberService.UpdateMember(&member)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

// DeleteMember handles DELETE /members/:id.
func (h *MemberHandler) DeleteMember(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.memberService.DeleteMember(id); err != nil {
		respondServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// --- Membership types ---

// CreateMembershipType handles POST /membership-types.
func (h *MemberHandler) CreateMembershipType(c *gin.Context) {
	var mt models.MembershipType
	if err := c.ShouldBindJSON(&mt); err != nil {
		utils.RespondValidationFailed(c, err.Error())
		return
	}

	created, err := h.memberService.CreateMembershipType(&mt)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

// GetMembershipType handles GET /membership-types/:id.
func (h *MemberHandler) GetMembershipType(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	mt, err := h.memberService.GetMembershipType(id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, mt)
}

// ListMembershipTypes handles GET /membership-types.
func (h *MemberHandler) ListMembershipTypes(c *gin.Context) {
	onlyActive := c.Query("active") == "true"
	plans, err := h.memberService.ListMembershipTypes(onlyActive)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, plans)
}

// UpdateMembershipType handles PUT /membership-types/:id.
func (h *MemberHandler) UpdateMembershipType(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var mt models.MembershipType
	if err := c.ShouldBindJSON(&mt); err != nil {
		utils.RespondValidationFailed(c, err.Error())
		return
	}
	mt.ID = id

	updated, err := h.memberService.UpdateMembershipType(&mt)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

// DeleteMembershipType handles DELETE /membership-types/:id.
func (h *MemberHandler) DeleteMembershipType(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.memberService.DeleteMembershipType(id); err != nil {
		respondServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
