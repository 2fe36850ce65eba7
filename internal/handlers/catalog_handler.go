package handlers

import (
	"net/http"

	"power_gym_backend/internal/middleware"
	"power_gym_backend/internal/models"
	"power_gym_backend/internal/services"
	"power_gym_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// CatalogHandler exposes product category, product and inventory
// endpoints.
type CatalogHandler struct {
	catalogService *services.CatalogService
}

// NewCatalogHandler creates a new CatalogHandler.
func NewCatalogHandler(catalogService *services.CatalogService) *CatalogHandler {
	return &CatalogHandler{catalogService: catalogService}
}

// --- Categories ---

// CreateCategory handles POST /product-categories.
func (h *CatalogHandler) CreateCategory(c *gin.Context) {
	var category models.ProductCategory
	if err := c.ShouldBindJSON(&category); err != nil {
		utils.RespondValidationFailed(c, err.Error())
		return
	}

	created, err := h.catalogService.CreateCategory(&category)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

// ListCategories handles GET /product-categories.
func (h *CatalogHandler) ListCategories(c *gin.Context) {
	categories, err := h.catalogService.ListCategories()
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, categories)
}

// UpdateCategory handles PUT /product-categories/:id.
func (h *CatalogHandler) UpdateCategory(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var category models.ProductCategory
	if err := c.ShouldBindJSON(&category); err != nil {
		utils.RespondValidationFailed(c, err.Error())
		return
	}
	category.ID = id

	updated, err := h.catalogService.UpdateCategory(&category)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

// DeleteCategory handles DELETE /product-categories/:id.
func (h *CatalogHandler) DeleteCategory(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.catalogService.DeleteCategory(id); err != nil {
		respondServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// --- Products ---

// CreateProduct handles POST /products.
func (h *CatalogHandler) CreateProduct(c *gin.Context) {
	var product models.Product
	if err := c.ShouldBindJSON(&product); err != nil {
		utils.RespondValidationFailed(c, err.Error())
		return
	}

	created, err := h.catalogService.CreateProduct(&product)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

// GetProduct handles GET /products/:id.
func (h *CatalogHandler) GetProduct(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	product, err := h.catalogService.GetProduct(id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, product)
}

// ListProducts handles GET /products.
func (h *CatalogHandler) ListProducts(c *gin.Context) {
	page := queryInt(c, "page", 1)
	pageSize := queryInt(c, "page_size", 20)

	products, total, err := h.catalogService.ListProducts(page, pageSize, queryStrPtr(c, "search"), queryInt64Ptr(c, "category_id"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	paginated(c, products, total, page, pageSize)
}

// ListLowStockProducts handles GET /products/low-stock.
func (h *CatalogHandler) ListLowStockProducts(c *gin.Context) {
	products, err := h.catalogService.ListLowStockProducts()
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, products)
}

// UpdateProduct handles PUT /products/:id.
func (h *CatalogHandler) UpdateProduct(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var product models.Product
	if err := c.ShouldBindJSON(&product); err != nil {
		utils.RespondValidationFailed(c, err.Error())
		return
	}
	product.ID = id

	updated, err := h.catalogService.UpdateProduct(&product)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

// DeleteProduct handles DELETE /products/:id.
func (h *CatalogHandler) DeleteProduct(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.catalogService.DeleteProduct(id); err != nil {
		respondServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// --- Inventory ---

// AdjustStock handles POST /inventory/movements.
func (h *CatalogHandler) AdjustStock(c *gin.Context) {
	var movement models.InventoryMovement
	if err := c.ShouldBindJSON(&movement); err != nil {
		utils.RespondValidationFailed(c, err.Error())
		return
	}

	if movement.StaffID == nil {
		if userID := c.GetInt64(middleware.ContextUserIDKey); userID != 0 {
			movement.StaffID = &userID
		}
	}

	created, err := h.catalogService.AdjustStock(&movement)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

// ListMovements handles GET /inventory/movements.
func (h *CatalogHandler) ListMovements(c *gin.Context) {
	page := queryInt(c, "page", 1)
	pageSize := queryInt(c, "page_size", 20)

	movements, total, err := h.catalogService.ListMovements(queryInt64Ptr(c, "product_id"), queryStrPtr(c, "type"), page, pageSize)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	paginated(c, movements, total, page, pageSize)
}
