package services

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"power_gym_backend/internal/models"
	"power_gym_backend/internal/repositories"

	"github.com/google/uuid"
)

// NewTransactionPayload is the point-of-sale checkout request.
type NewTransactionPayload struct {
	MemberID      *int64                   `json:"member_id,omitempty"`
	Discount      float64                  `json:"discount"`
	PaymentMethod string                   `json:"payment_method" binding:"required"`
	ProcessedBy   *string                  `json:"processed_by,omitempty"`
	Items         []TransactionItemPayload `json:"items" binding:"required"`
}

// TransactionItemPayload is one line of a checkout request. Exactly one
// of ProductID and MembershipTypeID must be set.
type TransactionItemPayload struct {
	ProductID        *int64 `json:"product_id,omitempty"`
	MembershipTypeID *int64 `json:"membership_type_id,omitempty"`
	Quantity         int    `json:"quantity"`
}

// TransactionService handles point-of-sale checkout and transaction
// listing. A checkout runs in a single database transaction: stock
// decrements, movement audit rows, membership extension and the
// receipt all commit or roll back together.
type TransactionService struct {
	transactionRepo repositories.TransactionRepository
	catalogRepo     repositories.CatalogRepository
	movementRepo    repositories.InventoryMovementRepository
	memberRepo      repositories.MemberRepository

	begin beginFunc
	clock func() time.Time
}

// NewTransactionService creates a new TransactionService.
func NewTransactionService(
	transactionRepo repositories.TransactionRepository,
	catalogRepo repositories.CatalogRepository,
	movementRepo repositories.InventoryMovementRepository,
	memberRepo repositories.MemberRepository,
	db *sql.DB,
) *TransactionService {
	return &TransactionService{
		transactionRepo: transactionRepo,
		catalogRepo:     catalogRepo,
		movementRepo:    movementRepo,
		memberRepo:      memberRepo,
		begin:           sqlBeginner(db),
		clock:           time.Now,
	}
}

// newInvoiceNumber builds a short unique invoice reference, e.g.
// INV-20260831-1A2B3C4D.
func (s *TransactionService) newInvoiceNumber() string {
	id := uuid.New()
	return fmt.Sprintf("INV-%s-%X", s.clock().Format("20060102"), id[:4])
}

func validPaymentMethod(method string) bool {
	for _, m := range models.PaymentMethods {
		if m == method {
			return true
		}
	}
	return false
}

// Checkout processes a point-of-sale purchase.
func (s *TransactionService) Checkout(payload NewTransactionPayload) (*models.Transaction, error) {
	if len(payload.Items) == 0 {
		return nil, ErrEmptyTransaction
	}
	if !validPaymentMethod(payload.PaymentMethod) {
		return nil, fmt.Errorf("%w: %q", ErrUnknownPaymentMethod, payload.PaymentMethod)
	}
	if payload.Discount < 0 {
		return nil, fmt.Errorf("%w: discount cannot be negative", ErrValidation)
	}
	for i, item := range payload.Items {
		if item.Quantity <= 0 {
			return nil, fmt.Errorf("%w: item %d quantity must be positive", ErrValidation, i+1)
		}
		if (item.ProductID == nil) == (item.MembershipTypeID == nil) {
			return nil, fmt.Errorf("%w: item %d must reference exactly one of product or membership type", ErrValidation, i+1)
		}
		if item.MembershipTypeID != nil && payload.MemberID == nil {
			return nil, fmt.Errorf("%w: membership purchase requires a member", ErrValidation)
		}
	}

	var member *models.Member
	if payload.MemberID != nil {
		var err error
		member, err = s.memberRepo.GetMemberByID(*payload.MemberID)
		if err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				return nil, fmt.Errorf("%w: member ID %d", ErrNotFound, *payload.MemberID)
			}
			return nil, err
		}
	}

	tx, err := s.begin()
	if err != nil {
		return nil, fmt.Errorf("starting checkout transaction: %w", err)
	}
	defer tx.Rollback()

	now := s.clock()
	var items []models.TransactionItem
	var subtotal float64
	hasProduct, hasMembership := false, false

	for _, item := range payload.Items {
		if item.ProductID != nil {
			line, err := s.sellProduct(tx, item, now)
			if err != nil {
				return nil, err
			}
			hasProduct = true
			subtotal += line.Price * float64(line.Quantity)
			items = append(items, *line)
			continue
		}

		line, err := s.sellMembership(tx, member, item, now)
		if err != nil {
			return nil, err
		}
		hasMembership = true
		subtotal += line.Price * float64(line.Quantity)
		items = append(items, *line)
	}

	txType := models.TransactionTypeProduct
	switch {
	case hasProduct && hasMembership:
		txType = models.TransactionTypeMixed
	case hasMembership:
		txType = models.TransactionTypeMembership
	}

	total := subtotal - payload.Discount
	if total < 0 {
		return nil, fmt.Errorf("%w: discount exceeds subtotal", ErrValidation)
	}

	transaction := &models.Transaction{
		InvoiceNumber: s.newInvoiceNumber(),
		MemberID:      payload.MemberID,
		Type:          txType,
		Subtotal:      subtotal,
		Discount:      payload.Discount,
		Total:         total,
		PaymentMethod: payload.PaymentMethod,
		Date:          now,
		ProcessedBy:   payload.ProcessedBy,
	}
	if member != nil {
		transaction.MemberName = &member.FullNameEN
	}

	created, err := s.transactionRepo.CreateTransaction(tx, transaction)
	if err != nil {
		return nil, err
	}
	for i := range items {
		items[i].TransactionID = created.ID
		if _, err := s.transactionRepo.CreateTransactionItem(tx, &items[i]); err != nil {
			return nil, err
		}
	}
	created.Items = items

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing checkout: %w", err)
	}
	return created, nil
}

// sellProduct locks the product row, checks stock, decrements it and
// writes the sale movement.
func (s *TransactionService) sellProduct(tx repositories.SQLExecutor, item TransactionItemPayload, now time.Time) (*models.TransactionItem, error) {
	product, err := s.catalogRepo.GetProductStockForUpdate(tx, *item.ProductID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, fmt.Errorf("%w: product ID %d", ErrNotFound, *item.ProductID)
		}
		return nil, err
	}
	if !product.IsActive {
		return nil, fmt.Errorf("%w: product %q is not for sale", ErrValidation, product.NameEN)
	}
	if product.Stock < item.Quantity {
		return nil, fmt.Errorf("%w: product %q has %d in stock, %d requested",
			ErrInsufficientStock, product.NameEN, product.Stock, item.Quantity)
	}

	if _, err := s.catalogRepo.UpdateStock(tx, product.ID, -item.Quantity); err != nil {
		return nil, err
	}

	reason := "point of sale"
	movement := &models.InventoryMovement{
		ProductID:       product.ID,
		MovementType:    models.MovementTypeSale,
		QuantityChanged: -item.Quantity,
		Reason:          &reason,
		MovementDate:    now,
	}
	if _, err := s.movementRepo.CreateMovement(tx, movement); err != nil {
		return nil, err
	}

	return &models.TransactionItem{
		ItemType:  models.TransactionTypeProduct,
		ProductID: &product.ID,
		Name:      product.NameEN,
		Quantity:  item.Quantity,
		Price:     product.Price,
	}, nil
}

// sellMembership extends the member's end date by the plan duration.
// The new period starts from the current end date when the membership
// is still running, from today when it lapsed.
func (s *TransactionService) sellMembership(tx repositories.SQLExecutor, member *models.Member, item TransactionItemPayload, now time.Time) (*models.TransactionItem, error) {
	plan, err := s.memberRepo.GetMembershipTypeByID(*item.MembershipTypeID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, fmt.Errorf("%w: membership type ID %d", ErrNotFound, *item.MembershipTypeID)
		}
		return nil, err
	}
	if !plan.IsActive {
		return nil, fmt.Errorf("%w: plan %q is retired", ErrValidation, plan.NameEN)
	}

	base := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	if member.EndDate != nil && *member.EndDate != "" {
		if end, err := time.ParseInLocation("2006-01-02", *member.EndDate, now.Location()); err == nil && end.After(base) {
			base = end
		}
	}
	newEnd := base.AddDate(0, 0, plan.DurationDays*item.Quantity).Format("2006-01-02")

	if err := s.memberRepo.ExtendMembership(tx, member.ID, plan.ID, newEnd); err != nil {
		return nil, err
	}
	member.EndDate = &newEnd

	return &models.TransactionItem{
		ItemType:         models.TransactionTypeMembership,
		MembershipTypeID: &plan.ID,
		Name:             plan.NameEN,
		Quantity:         item.Quantity,
		Price:            plan.Price,
	}, nil
}

// GetTransaction loads a receipt with its items.
func (s *TransactionService) GetTransaction(id int64) (*models.Transaction, error) {
	transaction, err := s.transactionRepo.GetTransactionByID(id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return transaction, nil
}

// ListTransactions returns a page of receipts.
func (s *TransactionService) ListTransactions(filters models.TransactionFilters) ([]models.Transaction, int, error) {
	if filters.Page < 1 {
		filters.Page = 1
	}
	if filters.PageSize < 1 || filters.PageSize > 100 {
		filters.PageSize = 20
	}
	return s.transactionRepo.GetTransactions(filters)
}
