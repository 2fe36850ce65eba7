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

// TransactionRepository defines point-of-sale transaction database
// operations.
type TransactionRepository interface {
	CreateTransaction(executor SQLExecutor, tx *models.Transaction) (*models.Transaction, error)
	CreateTransactionItem(executor SQLExecutor, item *models.TransactionItem) (*models.TransactionItem, error)
	GetTransactionByID(id int64) (*models.Transaction, error)
	GetTransactions(filters models.TransactionFilters) ([]models.Transaction, int, error)
}

type transactionRepository struct {
	db *sql.DB
}

// NewTransactionRepository creates a new instance of TransactionRepository.
func NewTransactionRepository(db *sql.DB) TransactionRepository {
	return &transactionRepository{db: db}
}

func (r *transactionRepository) CreateTransaction(executor SQLExecutor, tx *models.Transaction) (*models.Transaction, error) {
	query := `INSERT INTO transactions (invoice_number, member_id, member_name, type, subtotal, discount, total, payment_method, date, processed_by, created_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	          RETURNING id`

	tx.CreatedAt = time.Now()
	if tx.Date.IsZero() {
		tx.Date = tx.CreatedAt
	}

	err := executor.QueryRow(query,
		tx.InvoiceNumber, tx.MemberID, tx.MemberName, tx.Type, tx.Subtotal,
		tx.Discount, tx.Total, tx.PaymentMethod, tx.Date, tx.ProcessedBy, tx.CreatedAt,
	).Scan(&tx.ID)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) {
			switch pqErr.Code.Name() {
			case "unique_violation":
				return nil, fmt.Errorf("%w: invoice number %q", ErrDuplicateKey, tx.InvoiceNumber)
			case "foreign_key_violation":
				return nil, fmt.Errorf("%w: member for transaction", ErrNotFound)
			}
		}
		return nil, fmt.Errorf("%w: creating transaction: %v", ErrDatabaseError, err)
	}
	return tx, nil
}

func (r *transactionRepository) CreateTransactionItem(executor SQLExecutor, item *models.TransactionItem) (*models.TransactionItem, error) {
	query := `INSERT INTO transaction_items (transaction_id, item_type, membership_type_id, product_id, name, quantity, price)
	          VALUES ($1, $2, $3, $4, $5, $6, $7)
	          RETURNING id`

	err := executor.QueryRow(query,
		item.TransactionID, item.ItemType, item.MembershipTypeID,
		item.ProductID, item.Name, item.Quantity, item.Price,
	).Scan(&item.ID)
	if err != nil {
		return nil, fmt.Errorf("%w: creating transaction item: %v", ErrDatabaseError, err)
	}
	return item, nil
}

const transactionSelectColumns = `t.id, t.invoice_number, t.member_id, t.member_name, t.type,
	    t.subtotal, t.discount, t.total, t.payment_method, t.date, t.processed_by, t.created_at`

func scanTransactionRow(row scanner) (*models.Transaction, error) {
	var t models.Transaction
	var memberID sql.NullInt64
	var memberName, processedBy sql.NullString

	err := row.Scan(
		&t.ID, &t.InvoiceNumber, &memberID, &memberName, &t.Type,
		&t.Subtotal, &t.Discount, &t.Total, &t.PaymentMethod, &t.Date, &processedBy, &t.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: scanning transaction: %v", ErrDatabaseError, err)
	}

	if memberID.Valid {
		t.MemberID = &memberID.Int64
	}
	if memberName.Valid {
		t.MemberName = &memberName.String
	}
	if processedBy.Valid {
		t.ProcessedBy = &processedBy.String
	}
	return &t, nil
}

func (r *transactionRepository) GetTransactionByID(id int64) (*models.Transaction, error) {
	query := `SELECT ` + transactionSelectColumns + ` FROM transactions t WHERE t.id = $1`
	t, err := scanTransactionRow(r.db.QueryRow(query, id))
	if err != nil {
		return nil, err
	}

	items, err := r.getItemsForTransaction(t.ID)
	if err != nil {
		return nil, err
	}
	t.Items = items
	return t, nil
}

func (r *transactionRepository) getItemsForTransaction(transactionID int64) ([]models.TransactionItem, error) {
	items := []models.TransactionItem{}
	rows, err := r.db.Query(
		`SELECT id, transaction_id, item_type, membership_type_id, product_id, name, quantity, price
		 FROM transaction_items WHERE transaction_id = $1 ORDER BY id ASC`,
		transactionID,
	)
	if err != nil {
		return nil, fmt.Errorf("%w: querying transaction items: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	for rows.Next() {
		var item models.TransactionItem
		var membershipTypeID, productID sql.NullInt64
		if err := rows.Scan(
			&item.ID, &item.TransactionID, &item.ItemType,
			&membershipTypeID, &productID, &item.Name, &item.Quantity, &item.Price,
		); err != nil {
			return nil, fmt.Errorf("%w: scanning transaction item: %v", ErrDatabaseError, err)
		}
		if membershipTypeID.Valid {
			item.MembershipTypeID = &membershipTypeID.Int64
		}
		if productID.Valid {
			item.ProductID = &productID.Int64
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating item rows: %v", ErrDatabaseError, err)
	}
	return items, nil
}

func (r *transactionRepository) GetTransactions(filters models.TransactionFilters) ([]models.Transaction, int, error) {
	transactions := []models.Transaction{}
	totalCount := 0

	var queryBuilder strings.Builder
	queryBuilder.WriteString(`SELECT ` + transactionSelectColumns + `, COUNT(*) OVER() as total_count FROM transactions t`)

	var conditions []string
	var args []interface{}
	argCount := 1

	if filters.MemberID != nil {
		conditions = append(conditions, fmt.Sprintf("t.member_id = $%d", argCount))
		args = append(args, *filters.MemberID)
		argCount++
	}
	if filters.StartDate != nil {
		conditions = append(conditions, fmt.Sprintf("t.date >= $%d", argCount))
		args = append(args, *filters.StartDate)
		argCount++
	}
	if filters.EndDate != nil {
		conditions = append(conditions, fmt.Sprintf("t.date <= $%d", argCount))
		args = append(args, *filters.EndDate)
		argCount++
	}

	if len(conditions) > 0 {
		queryBuilder.WriteString(" WHERE " + strings.Join(conditions, " AND "))
	}
	queryBuilder.WriteString(" ORDER BY t.date DESC, t.id DESC")

	if filters.PageSize > 0 {
		queryBuilder.WriteString(fmt.Sprintf(" LIMIT $%d", argCount))
		args = append(args, filters.PageSize)
		argCount++
		if filters.Page > 0 {
			queryBuilder.WriteString(fmt.Sprintf(" OFFSET $%d", argCount))
			args = append(args, (filters.Page-1)*filters.PageSize)
		}
	}

	rows, err := r.db.Query(queryBuilder.String(), args...)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: querying transactions: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	for rows.Next() {
		var t models.Transaction
		var memberID sql.NullInt64
		var memberName, processedBy sql.NullString
		var rowTotal int

		if err := rows.Scan(
			&t.ID, &t.InvoiceNumber, &memberID, &memberName, &t.Type,
			&t.Subtotal, &t.Discount, &t.Total, &t.PaymentMethod, &t.Date, &processedBy, &t.CreatedAt,
			&rowTotal,
		); err != nil {
			return nil, 0, fmt.Errorf("%w: scanning transaction from list: %v", ErrDatabaseError, err)
		}
		totalCount = rowTotal

		if memberID.Valid {
			t.MemberID = &memberID.Int64
		}
		if memberName.Valid {
			t.MemberName = &memberName.String
		}
		if processedBy.Valid {
			t.ProcessedBy = &processedBy.String
		}
		t.Items = []models.TransactionItem{}
		transactions = append(transactions, t)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("%w: iterating transaction rows: %v", ErrDatabaseError, err)
	}
	return transactions, totalCount, nil
}
