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

// InventoryMovementRepository records and lists stock adjustments.
type InventoryMovementRepository interface {
	CreateMovement(executor SQLExecutor, movement *models.InventoryMovement) (*models.InventoryMovement, error)
	GetMovements(productID *int64, movementType *string, page, pageSize int) ([]models.InventoryMovement, int, error)
}

type inventoryMovementRepository struct {
	db *sql.DB
}

// NewInventoryMovementRepository creates a new instance of InventoryMovementRepository.
func NewInventoryMovementRepository(db *sql.DB) InventoryMovementRepository {
	return &inventoryMovementRepository{db: db}
}

func (r *inventoryMovementRepository) CreateMovement(executor SQLExecutor, movement *models.InventoryMovement) (*models.InventoryMovement, error) {
	query := `INSERT INTO inventory_movements (product_id, staff_id, movement_type, quantity_changed, reason, movement_date, created_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7)
	          RETURNING id`

	now := time.Now()
	if movement.MovementDate.IsZero() {
		movement.MovementDate = now
	}
	movement.CreatedAt = now

	err := executor.QueryRow(query,
		movement.ProductID, movement.StaffID, movement.MovementType,
		movement.QuantityChanged, movement.Reason, movement.MovementDate, movement.CreatedAt,
	).Scan(&movement.ID)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "foreign_key_violation" {
			return nil, fmt.Errorf("%w: product ID %d for movement", ErrNotFound, movement.ProductID)
		}
		return nil, fmt.Errorf("%w: creating inventory movement: %v", ErrDatabaseError, err)
	}
	return movement, nil
}

func (r *inventoryMovementRepository) GetMovements(productID *int64, movementType *string, page, pageSize int) ([]models.InventoryMovement, int, error) {
	movements := []models.InventoryMovement{}
	totalCount := 0

	var queryBuilder strings.Builder
	queryBuilder.WriteString(`SELECT im.id, im.product_id, im.staff_id, im.movement_type, im.quantity_changed,
	    im.reason, im.movement_date, im.created_at, p.name_en as product_name,
	    COUNT(*) OVER() as total_count
	  FROM inventory_movements im
	  JOIN products p ON im.product_id = p.id`)

	var conditions []string
	var args []interface{}
	argCount := 1

	if productID != nil {
		conditions = append(conditions, fmt.Sprintf("im.product_id = $%d", argCount))
		args = append(args, *productID)
		argCount++
	}
	if movementType != nil && *movementType != "" {
		conditions = append(conditions, fmt.Sprintf("im.movement_type = $%d", argCount))
		args = append(args, *movementType)
		argCount++
	}

	if len(conditions) > 0 {
		queryBuilder.WriteString(" WHERE " + strings.Join(conditions, " AND "))
	}
	queryBuilder.WriteString(" ORDER BY im.movement_date DESC")

	if pageSize > 0 {
		queryBuilder.WriteString(fmt.Sprintf(" LIMIT $%d", argCount))
		args = append(args, pageSize)
		argCount++
		if page > 0 {
			queryBuilder.WriteString(fmt.Sprintf(" OFFSET $%d", argCount))
			args = append(args, (page-1)*pageSize)
		}
	}

	rows, err := r.db.Query(queryBuilder.String(), args...)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: querying inventory movements: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	for rows.Next() {
		var m models.InventoryMovement
		var staffID sql.NullInt64
		var reason sql.NullString
		var productName string
		var rowTotal int

		if err := rows.Scan(
			&m.ID, &m.ProductID, &staffID, &m.MovementType, &m.QuantityChanged,
			&reason, &m.MovementDate, &m.CreatedAt, &productName, &rowTotal,
		); err != nil {
			return nil, 0, fmt.Errorf("%w: scanning inventory movement: %v", ErrDatabaseError, err)
		}
		totalCount = rowTotal

		if staffID.Valid {
			m.StaffID = &staffID.Int64
		}
		if reason.Valid {
			m.Reason = &reason.String
		}
		m.Product = &models.Product{ID: m.ProductID, NameEN: productName}
		movements = append(movements, m)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("%w: iterating movement rows: %v", ErrDatabaseError, err)
	}
	return movements, totalCount, nil
}
