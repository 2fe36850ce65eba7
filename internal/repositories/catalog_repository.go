package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"power_gym_backend/internal/models"

	"github.com/lib/pq"
)

// CatalogRepository defines product category and product database
// operations.
type CatalogRepository interface {
	// Category methods
	CreateCategory(executor SQLExecutor, category *models.ProductCategory) (*models.ProductCategory, error)
	GetCategoryByID(id int64) (*models.ProductCategory, error)
	GetCategories() ([]models.ProductCategory, error)
	UpdateCategory(executor SQLExecutor, category *models.ProductCategory) (*models.ProductCategory, error)
	DeleteCategory(executor SQLExecutor, id int64) error

	// Product methods
	CreateProduct(executor SQLExecutor, product *models.Product) (*models.Product, error)
	GetProductByID(id int64) (*models.Product, error)
	GetProducts(page, pageSize int, searchTerm *string, categoryID *int64) ([]models.Product, int, error)
	GetLowStockProducts() ([]models.Product, error)
	UpdateProduct(executor SQLExecutor, product *models.Product) (*models.Product, error)
	UpdateStock(executor SQLExecutor, productID int64, delta int) (int, error)
	GetProductStockForUpdate(executor SQLExecutor, productID int64) (*models.Product, error)
	DeleteProduct(executor SQLExecutor, id int64) error
}

type catalogRepository struct {
	db *sql.DB
}

// NewCatalogRepository creates a new instance of CatalogRepository.
func NewCatalogRepository(db *sql.DB) CatalogRepository {
	return &catalogRepository{db: db}
}

// --- Category Methods ---

func (r *catalogRepository) CreateCategory(executor SQLExecutor, category *models.ProductCategory) (*models.ProductCategory, error) {
	query := `INSERT INTO product_categories (name_en, name_mm, icon, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5)
	          RETURNING id`

	now := time.Now()
	category.CreatedAt = now
	category.UpdatedAt = now

	err := executor.QueryRow(query,
		category.NameEN, category.NameMM, category.Icon, category.CreatedAt, category.UpdatedAt,
	).Scan(&category.ID)
	if err != nil {
		return nil, fmt.Errorf("%w: creating product category: %v", ErrDatabaseError, err)
	}
	return category, nil
}

func (r *catalogRepository) GetCategoryByID(id int64) (*models.ProductCategory, error) {
	var category models.ProductCategory
	var nameMM, icon sql.NullString
	query := `SELECT id, name_en, name_mm, icon, created_at, updated_at FROM product_categories WHERE id = $1`
	err := r.db.QueryRow(query, id).Scan(
		&category.ID, &category.NameEN, &nameMM, &icon, &category.CreatedAt, &category.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: getting category ID %d: %v", ErrDatabaseError, id, err)
	}
	if nameMM.Valid {
		category.NameMM = &nameMM.String
	}
	if icon.Valid {
		category.Icon = &icon.String
	}
	return &category, nil
}

func (r *catalogRepository) GetCategories() ([]models.ProductCategory, error) {
	categories := []models.ProductCategory{}
	rows, err := r.db.Query(`SELECT id, name_en, name_mm, icon, created_at, updated_at FROM product_categories ORDER BY name_en ASC`)
	if err != nil {
		return nil, fmt.Errorf("%w: querying product categories: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	for rows.Next() {
		var category models.ProductCategory
		var nameMM, icon sql.NullString
		if err := rows.Scan(&category.ID, &category.NameEN, &nameMM, &icon, &category.CreatedAt, &category.UpdatedAt); err != nil {
			return nil, fmt.Errorf("%w: scanning product category: %v", ErrDatabaseError, err)
		}
		if nameMM.Valid {
			category.NameMM = &nameMM.String
		}
		if icon.Valid {
			category.Icon = &icon.String
		}
		categories = append(categories, category)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating category rows: %v", ErrDatabaseError, err)
	}
	return categories, nil
}

func (r *catalogRepository) UpdateCategory(executor SQLExecutor, category *models.ProductCategory) (*models.ProductCategory, error) {
	query := `UPDATE product_categories SET name_en = $1, name_mm = $2, icon = $3, updated_at = $4
	          WHERE id = $5 RETURNING updated_at`
	category.UpdatedAt = time.Now()
	err := executor.QueryRow(query,
		category.NameEN, category.NameMM, category.Icon, category.UpdatedAt, category.ID,
	).Scan(&category.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: updating category ID %d: %v", ErrDatabaseError, category.ID, err)
	}
	return category, nil
}

func (r *catalogRepository) DeleteCategory(executor SQLExecutor, id int64) error {
	result, err := executor.Exec(`DELETE FROM product_categories WHERE id = $1`, id)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "foreign_key_violation" {
			return fmt.Errorf("%w: category ID %d still has products", ErrDatabaseError, id)
		}
		return fmt.Errorf("%w: deleting category ID %d: %v", ErrDatabaseError, id, err)
	}
	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// --- Product Methods ---

const productSelectColumns = `p.id, p.name_en, p.name_mm, p.category_id, p.sku, p.price, p.cost_price,
	    p.stock, p.low_stock_threshold, p.unit, p.image, p.is_active, p.created_at, p.updated_at,
	    pc.name_en as category_name_en`

func scanProductRow(row scanner) (*models.Product, error) {
	var p models.Product
	var nameMM, sku, image, categoryNameEN sql.NullString
	var categoryID sql.NullInt64

	err := row.Scan(
		&p.ID, &p.NameEN, &nameMM, &categoryID, &sku, &p.Price, &p.CostPrice,
		&p.Stock, &p.LowStockThreshold, &p.Unit, &image, &p.IsActive, &p.CreatedAt, &p.UpdatedAt,
		&categoryNameEN,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: scanning product: %v", ErrDatabaseError, err)
	}

	if nameMM.Valid {
		p.NameMM = &nameMM.String
	}
	if sku.Valid {
		p.SKU = &sku.String
	}
	if image.Valid {
		p.Image = &image.String
	}
	if categoryID.Valid {
		p.CategoryID = &categoryID.Int64
		if categoryNameEN.Valid {
			p.Category = &models.ProductCategory{ID: categoryID.Int64, NameEN: categoryNameEN.String}
		}
	}
	return &p, nil
}

func (r *catalogRepository) CreateProduct(executor SQLExecutor, product *models.Product) (*models.Product, error) {
	query := `INSERT INTO products (name_en, name_mm, category_id, sku, price, cost_price, stock,
	            low_stock_threshold, unit, image, is_active, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	          RETURNING id`

	now := time.Now()
	product.CreatedAt = now
	product.UpdatedAt = now

	err := executor.QueryRow(query,
		product.NameEN, product.NameMM, product.CategoryID, product.SKU, product.Price,
		product.CostPrice, product.Stock, product.LowStockThreshold, product.Unit,
		product.Image, product.IsActive, product.CreatedAt, product.UpdatedAt,
	).Scan(&product.ID)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "foreign_key_violation" {
			return nil, fmt.Errorf("%w: category not found for product", ErrNotFound)
		}
		return nil, fmt.Errorf("%w: creating product: %v", ErrDatabaseError, err)
	}
	return product, nil
}

func (r *catalogRepository) GetProductByID(id int64) (*models.Product, error) {
	query := `SELECT ` + productSelectColumns + `
	          FROM products p
	          LEFT JOIN product_categories pc ON p.category_id = pc.id
	          WHERE p.id = $1`
	return scanProductRow(r.db.QueryRow(query, id))
}

func (r *catalogRepository) GetProducts(page, pageSize int, searchTerm *string, categoryID *int64) ([]models.Product, int, error) {
	products := []models.Product{}
	totalCount := 0

	var queryBuilder strings.Builder
	queryBuilder.WriteString(`SELECT ` + productSelectColumns + `, COUNT(*) OVER() as total_count
	  FROM products p
	  LEFT JOIN product_categories pc ON p.category_id = pc.id`)

	var conditions []string
	var args []interface{}
	argCount := 1

	if searchTerm != nil && *searchTerm != "" {
		pattern := "%" + strings.ToLower(*searchTerm) + "%"
		conditions = append(conditions, fmt.Sprintf("(LOWER(p.name_en) LIKE $%d OR LOWER(COALESCE(p.sku, '')) LIKE $%d)", argCount, argCount))
		args = append(args, pattern)
		argCount++
	}
	if categoryID != nil {
		conditions = append(conditions, fmt.Sprintf("p.category_id = $%d", argCount))
		args = append(args, *categoryID)
		argCount++
	}

	if len(conditions) > 0 {
		queryBuilder.WriteString(" WHERE " + strings.Join(conditions, " AND "))
	}
	queryBuilder.WriteString(" ORDER BY p.id DESC")

	if pageSize > 0 {
		queryBuilder.WriteString(fmt.Sprintf(" LIMIT $%d", argCount))
		args = append(args, pageSize)
		argCount++
		if page > 0 {
			offset := (page - 1) * pageSize
			queryBuilder.WriteString(fmt.Sprintf(" OFFSET $%d", argCount))
			args = append(args, offset)
		}
	}

	rows, err := r.db.Query(queryBuilder.String(), args...)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: querying products: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	for rows.Next() {
		var p models.Product
		var nameMM, sku, image, categoryNameEN sql.NullString
		var catID sql.NullInt64
		var rowTotal int

		if err := rows.Scan(
			&p.ID, &p.NameEN, &nameMM, &catID, &sku, &p.Price, &p.CostPrice,
			&p.Stock, &p.LowStockThreshold, &p.Unit, &image, &p.IsActive, &p.CreatedAt, &p.UpdatedAt,
			&categoryNameEN, &rowTotal,
		); err != nil {
			return nil, 0, fmt.Errorf("%w: scanning product from list: %v", ErrDatabaseError, err)
		}
		totalCount = rowTotal

		if nameMM.Valid {
			p.NameMM = &nameMM.String
		}
		if sku.Valid {
			p.SKU = &sku.String
		}
		if image.Valid {
			p.Image = &image.String
		}
		if catID.Valid {
			p.CategoryID = &catID.Int64
			if categoryNameEN.Valid {
				p.Category = &models.ProductCategory{ID: catID.Int64, NameEN: categoryNameEN.String}
			}
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("%w: iterating product rows: %v", ErrDatabaseError, err)
	}
	return products, totalCount, nil
}

func (r *catalogRepository) GetLowStockProducts() ([]models.Product, error) {
	products := []models.Product{}
	query := `SELECT ` + productSelectColumns + `
	          FROM products p
	          LEFT JOIN product_categories pc ON p.category_id = pc.id
	          WHERE p.is_active = TRUE AND p.stock <= p.low_stock_threshold
	          ORDER BY p.stock ASC`

	rows, err := r.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("%w: querying low stock products: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	for rows.Next() {
		p, err := scanProductRow(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating low stock rows: %v", ErrDatabaseError, err)
	}
	return products, nil
}

func (r *catalogRepository) UpdateProduct(executor SQLExecutor, product *models.Product) (*models.Product, error) {
	query := `UPDATE products SET
	            name_en = $1, name_mm = $2, category_id = $3, sku = $4, price = $5, cost_price = $6,
	            stock = $7, low_stock_threshold = $8, unit = $9, image = $10, is_active = $11, updated_at = $12
	          WHERE id = $13
	          RETURNING updated_at`

	product.UpdatedAt = time.Now()
	err := executor.QueryRow(query,
		product.NameEN, product.NameMM, product.CategoryID, product.SKU, product.Price,
		product.CostPrice, product.Stock, product.LowStockThreshold, product.Unit,
		product.Image, product.IsActive, product.UpdatedAt, product.ID,
	).Scan(&product.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: updating product ID %d: %v", ErrDatabaseError, product.ID, err)
	}
	return product, nil
}

// UpdateStock applies a delta to a product's stock and returns the new
// level. Callers validate availability before decrementing.
func (r *catalogRepository) UpdateStock(executor SQLExecutor, productID int64, delta int) (int, error) {
	var newStock int
	err := executor.QueryRow(
		`UPDATE products SET stock = stock + $1, updated_at = $2 WHERE id = $3 RETURNING stock`,
		delta, time.Now(), productID,
	).Scan(&newStock)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, ErrNotFound
		}
		return 0, fmt.Errorf("%w: updating stock for product ID %d: %v", ErrDatabaseError, productID, err)
	}
	return newStock, nil
}

// GetProductStockForUpdate loads a product inside a transaction with a
// row lock, so concurrent sales cannot oversell.
func (r *catalogRepository) GetProductStockForUpdate(executor SQLExecutor, productID int64) (*models.Product, error) {
	var p models.Product
	err := executor.QueryRow(
		`SELECT id, name_en, price, stock, is_active FROM products WHERE id = $1 FOR UPDATE`,
		productID,
	).Scan(&p.ID, &p.NameEN, &p.Price, &p.Stock, &p.IsActive)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: locking product ID %d: %v", ErrDatabaseError, productID, err)
	}
	return &p, nil
}

func (r *catalogRepository) DeleteProduct(executor SQLExecutor, id int64) error {
	result, err := executor.Exec(`DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "foreign_key_violation" {
			return fmt.Errorf("%w: product ID %d is referenced in transactions", ErrDatabaseError, id)
		}
		return fmt.Errorf("%w: deleting product ID %d: %v", ErrDatabaseError, id, err)
	}
	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
