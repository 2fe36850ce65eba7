package models

import "time"

// ProductCategory groups products for the POS screen.
type ProductCategory struct {
	ID        int64     `json:"id" db:"id"`
	NameEN    string    `json:"name_en" db:"name_en" binding:"required"`
	NameMM    *string   `json:"name_mm,omitempty" db:"name_mm"`
	Icon      *string   `json:"icon,omitempty" db:"icon"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// Product represents a sellable item with tracked stock.
type Product struct {
	ID                int64     `json:"id" db:"id"`
	NameEN            string    `json:"name_en" db:"name_en"`
	NameMM            *string   `json:"name_mm,omitempty" db:"name_mm"`
	CategoryID        *int64    `json:"category_id,omitempty" db:"category_id"`
	SKU               *string   `json:"sku,omitempty" db:"sku"`
	Price             float64   `json:"price" db:"price"`
	CostPrice         float64   `json:"cost_price" db:"cost_price"`
	Stock             int       `json:"stock" db:"stock"`
	LowStockThreshold int       `json:"low_stock_threshold" db:"low_stock_threshold"`
	Unit              string    `json:"unit" db:"unit"`
	Image             *string   `json:"image,omitempty" db:"image"`
	IsActive          bool      `json:"is_active" db:"is_active"`
	CreatedAt         time.Time `json:"created_at" db:"created_at"`
	UpdatedAt         time.Time `json:"updated_at" db:"updated_at"`

	Category *ProductCategory `json:"category,omitempty"` // joined category
}

// Inventory movement types.
const (
	MovementTypePurchase   = "purchase"
	MovementTypeSale       = "sale"
	MovementTypeAdjustment = "adjustment"
	MovementTypeSpoilage   = "spoilage"
)

// InventoryMovement records a change in product stock.
type InventoryMovement struct {
	ID              int64     `json:"id" db:"id"`
	ProductID       int64     `json:"product_id" db:"product_id" binding:"required"`
	StaffID         *int64    `json:"staff_id,omitempty" db:"staff_id"`
	MovementType    string    `json:"movement_type" db:"movement_type" binding:"required"`
	QuantityChanged int       `json:"quantity_changed" db:"quantity_changed" binding:"required"`
	Reason          *string   `json:"reason,omitempty" db:"reason"`
	MovementDate    time.Time `json:"movement_date" db:"movement_date"`
	CreatedAt       time.Time `json:"created_at" db:"created_at"`

	Product *Product `json:"product,omitempty"` // joined product
}
