package services

import (
	"database/sql"
	"errors"
	"fmt"

	"power_gym_backend/internal/models"
	"power_gym_backend/internal/repositories"
	"power_gym_backend/pkg/utils"
)

// CatalogService handles product category, product and inventory
// business rules.
type CatalogService struct {
	catalogRepo  repositories.CatalogRepository
	movementRepo repositories.InventoryMovementRepository
	db           *sql.DB

	begin beginFunc
}

// NewCatalogService creates a new CatalogService.
func NewCatalogService(catalogRepo repositories.CatalogRepository, movementRepo repositories.InventoryMovementRepository, db *sql.DB) *CatalogService {
	return &CatalogService{catalogRepo: catalogRepo, movementRepo: movementRepo, db: db, begin: sqlBeginner(db)}
}

// --- Categories ---

func (s *CatalogService) CreateCategory(category *models.ProductCategory) (*models.ProductCategory, error) {
	if utils.IsEmpty(category.NameEN) {
		return nil, fmt.Errorf("%w: category name is required", ErrValidation)
	}
	return s.catalogRepo.CreateCategory(s.db, category)
}

func (s *CatalogService) GetCategory(id int64) (*models.ProductCategory, error) {
	category, err := s.catalogRepo.GetCategoryByID(id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return category, nil
}

func (s *CatalogService) ListCategories() ([]models.ProductCategory, error) {
	return s.catalogRepo.GetCategories()
}

func (s *CatalogService) UpdateCategory(category *models.ProductCategory) (*models.ProductCategory, error) {
	if utils.IsEmpty(category.NameEN) {
		return nil, fmt.Errorf("%w: category name is required", ErrValidation)
	}
	updated, err := s.catalogRepo.UpdateCategory(s.db, category)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return updated, nil
}

func (s *CatalogService) DeleteCategory(id int64) error {
	if err := s.catalogRepo.DeleteCategory(s.db, id); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}
	return nil
}

// --- Products ---

func (s *CatalogService) validateProduct(product *models.Product) error {
	if utils.IsEmpty(product.NameEN) {
		return fmt.Errorf("%w: product name is required", ErrValidation)
	}
	if product.Price < 0 || product.CostPrice < 0 {
		return fmt.Errorf("%w: prices cannot be negative", ErrValidation)
	}
	if product.Stock < 0 {
		return fmt.Errorf("%w: stock cannot be negative", ErrValidation)
	}
	if product.LowStockThreshold < 0 {
		return fmt.Errorf("%w: low stock threshold cannot be negative", ErrValidation)
	}
	return nil
}

func (s *CatalogService) CreateProduct(product *models.Product) (*models.Product, error) {
	if err := s.validateProduct(product); err != nil {
		return nil, err
	}
	if product.Unit == "" {
		product.Unit = "pcs"
	}

	created, err := s.catalogRepo.CreateProduct(s.db, product)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, fmt.Errorf("%w: product category", ErrNotFound)
		}
		return nil, err
	}
	return created, nil
}

func (s *CatalogService) GetProduct(id int64) (*models.Product, error) {
	product, err := s.catalogRepo.GetProductByID(id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return product, nil
}

func (s *CatalogService) ListProducts(page, pageSize int, searchTerm *string, categoryID *int64) ([]models.Product, int, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}
	return s.catalogRepo.GetProducts(page, pageSize, searchTerm, categoryID)
}

func (s *CatalogService) ListLowStockProducts() ([]models.Product, error) {
	return s.catalogRepo.GetLowStockProducts()
}

func (s *CatalogService) UpdateProduct(product *models.Product) (*models.Product, error) {
	if err := s.validateProduct(product); err != nil {
		return nil, err
	}
	updated, err := s.catalogRepo.UpdateProduct(s.db, product)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return updated, nil
}

func (s *CatalogService) DeleteProduct(id int64) error {
	if err := s.catalogRepo.DeleteProduct(s.db, id); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}
	return nil
}

// --- Inventory ---

// AdjustStock applies a manual stock movement (purchase, adjustment,
// spoilage) atomically with its audit record.
func (s *CatalogService) AdjustStock(movement *models.InventoryMovement) (*models.InventoryMovement, error) {
	switch movement.MovementType {
	case models.MovementTypePurchase, models.MovementTypeAdjustment, models.MovementTypeSpoilage:
	case models.MovementTypeSale:
		return nil, fmt.Errorf("%w: sale movements are recorded by the point of sale", ErrValidation)
	default:
		return nil, fmt.Errorf("%w: unknown movement type %q", ErrValidation, movement.MovementType)
	}
	if movement.QuantityChanged == 0 {
		return nil, fmt.Errorf("%w: quantity change cannot be zero", ErrValidation)
	}

	tx, err := s.begin()
	if err != nil {
		return nil, fmt.Errorf("starting stock adjustment: %w", err)
	}
	defer tx.Rollback()

	product, err := s.catalogRepo.GetProductStockForUpdate(tx, movement.ProductID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, fmt.Errorf("%w: product ID %d", ErrNotFound, movement.ProductID)
		}
		return nil, err
	}
	if product.Stock+movement.QuantityChanged < 0 {
		return nil, fmt.Errorf("%w: product %q has %d in stock", ErrInsufficientStock, product.NameEN, product.Stock)
	}

	if _, err := s.catalogRepo.UpdateStock(tx, movement.ProductID, movement.QuantityChanged); err != nil {
		return nil, err
	}
	created, err := s.movementRepo.CreateMovement(tx, movement)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing stock adjustment: %w", err)
	}
	return created, nil
}

// ListMovements returns a page of the stock movement audit trail.
func (s *CatalogService) ListMovements(productID *int64, movementType *string, page, pageSize int) ([]models.InventoryMovement, int, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}
	return s.movementRepo.GetMovements(productID, movementType, page, pageSize)
}
