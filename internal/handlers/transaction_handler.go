package handlers

import (
	"net/http"
	"time"

	"power_gym_backend/internal/middleware"
	"power_gym_backend/internal/models"
	"power_gym_backend/internal/services"
	"power_gym_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// TransactionHandler exposes point-of-sale endpoints.
type TransactionHandler struct {
	transactionService *services.TransactionService
}

// NewTransactionHandler creates a new TransactionHandler.
func NewTransactionHandler(transactionService *services.TransactionService) *TransactionHandler {
	return &TransactionHandler{transactionService: transactionService}
}

// Checkout handles POST /transactions.
func (h *TransactionHandler) Checkout(c *gin.Context) {
	var payload services.NewTransactionPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		utils.RespondValidationFailed(c, err.Error())
		return
	}

	if payload.ProcessedBy == nil {
		if username := c.GetString(middleware.ContextUsernameKey); username != "" {
			payload.ProcessedBy = &username
		}
	}

	transaction, err := h.transactionService.Checkout(payload)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, transaction)
}

// GetTransaction handles GET /transactions/:id.
func (h *TransactionHandler) GetTransaction(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	transaction, err := h.transactionService.GetTransaction(id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, transaction)
}

// ListTransactions handles GET /transactions.
func (h *TransactionHandler) ListTransactions(c *gin.Context) {
	filters := models.TransactionFilters{
		MemberID: queryInt64Ptr(c, "member_id"),
		Page:     queryInt(c, "page", 1),
		PageSize: queryInt(c, "page_size", 20),
	}
	if raw := c.Query("start_date"); raw != "" {
		if parsed, err := time.Parse("2006-01-02", raw); err == nil {
			filters.StartDate = &parsed
		}
	}
	if raw := c.Query("end_date"); raw != "" {
		if parsed, err := time.Parse("2006-01-02", raw); err == nil {
			endOfDay := parsed.Add(24*time.Hour - time.Nanosecond)
			filters.EndDate = &endOfDay
		}
	}

	transactions, total, err := h.transactionService.ListTransactions(filters)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	paginated(c, transactions, total, filters.Page, filters.PageSize)
}
