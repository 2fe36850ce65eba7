package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"power_gym_backend/internal/services"
	"power_gym_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// respondServiceError maps service sentinel errors to HTTP responses.
// Anything unrecognized is a 500 with the detail logged, not leaked.
func respondServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrValidation):
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Input validation failed", err.Error()))
	case errors.Is(err, services.ErrNotFound):
		utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Resource not found", err.Error()))
	case errors.Is(err, services.ErrConflict),
		errors.Is(err, services.ErrSessionAlreadyOpen),
		errors.Is(err, services.ErrInsufficientStock):
		utils.RespondWithError(c, utils.NewAPIError(http.StatusConflict, utils.ErrCodeConflict, "Resource conflict", err.Error()))
	case errors.Is(err, services.ErrNoOpenSession):
		utils.RespondWithError(c, utils.NewAPIError(http.StatusConflict, utils.ErrCodeConflict, "No open session", err.Error()))
	case errors.Is(err, services.ErrInvalidCredentials):
		utils.RespondWithError(c, utils.NewAPIError(http.StatusUnauthorized, utils.ErrCodeUnauthorized, "Invalid credentials", ""))
	case errors.Is(err, services.ErrUserInactive), errors.Is(err, services.ErrStaffInactive):
		utils.RespondWithError(c, utils.NewAPIError(http.StatusForbidden, utils.ErrCodeForbidden, "Account is inactive", err.Error()))
	case errors.Is(err, services.ErrEmptyTransaction), errors.Is(err, services.ErrUnknownPaymentMethod):
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeBadRequest, "Invalid request", err.Error()))
	default:
		utils.LogError(err, "unhandled service error")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "An internal error occurred", ""))
	}
}

// pathID parses a numeric path parameter, responding 400 on failure.
func pathID(c *gin.Context, name string) (int64, bool) {
	id, err := utils.StrToInt64(c.Param(name))
	if err != nil || id < 1 {
		utils.RespondValidationFailed(c, "invalid "+name+" path parameter")
		return 0, false
	}
	return id, true
}

// queryInt reads an integer query parameter with a default.
func queryInt(c *gin.Context, name string, def int) int {
	raw := c.Query(name)
	if raw == "" {
		return def
	}
	val, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return val
}

// queryInt64Ptr reads an optional int64 query parameter.
func queryInt64Ptr(c *gin.Context, name string) *int64 {
	raw := c.Query(name)
	if raw == "" {
		return nil
	}
	val, err := utils.StrToInt64(raw)
	if err != nil {
		return nil
	}
	return &val
}

// queryStrPtr reads an optional string query parameter.
func queryStrPtr(c *gin.Context, name string) *string {
	raw := c.Query(name)
	if raw == "" {
		return nil
	}
	return &raw
}

// paginated is the standard list response envelope.
func paginated(c *gin.Context, items interface{}, total, page, pageSize int) {
	c.JSON(http.StatusOK, gin.H{
		"data":      items,
		"total":     total,
		"page":      page,
		"page_size": pageSize,
	})
}
