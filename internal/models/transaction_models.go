package models

import "time"

// Transaction types and accepted payment methods.
const (
	TransactionTypeMembership = "Membership"
	TransactionTypeProduct    = "Product"
	TransactionTypeMixed      = "Mixed"
)

// PaymentMethods lists the accepted point-of-sale payment options.
var PaymentMethods = []string{
	"Cash", "KBZPay", "WavePay", "AYA Pay", "CB Pay", "Bank Transfer", "Credit Card",
}

// Transaction represents a point-of-sale receipt.
type Transaction struct {
	ID            int64     `json:"id" db:"id"`
	InvoiceNumber string    `json:"invoice_number" db:"invoice_number"`
	MemberID      *int64    `json:"member_id,omitempty" db:"member_id"`
	MemberName    *string   `json:"member_name,omitempty" db:"member_name"`
	Type          string    `json:"type" db:"type"`
	Subtotal      float64   `json:"subtotal" db:"subtotal"`
	Discount      float64   `json:"discount" db:"discount"`
	Total         float64   `json:"total" db:"total"`
	PaymentMethod string    `json:"payment_method" db:"payment_method"`
	Date          time.Time `json:"date" db:"date"`
	ProcessedBy   *string   `json:"processed_by,omitempty" db:"processed_by"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"`

	Items []TransactionItem `json:"items"`
}

// TransactionItem is one line of a transaction: either a product sale
// or a membership purchase/renewal.
type TransactionItem struct {
	ID               int64   `json:"id" db:"id"`
	TransactionID    int64   `json:"transaction_id" db:"transaction_id"`
	ItemType         string  `json:"item_type" db:"item_type"` // Membership or Product
	MembershipTypeID *int64  `json:"membership_type_id,omitempty" db:"membership_type_id"`
	ProductID        *int64  `json:"product_id,omitempty" db:"product_id"`
	Name             string  `json:"name" db:"name"`
	Quantity         int     `json:"quantity" db:"quantity"`
	Price            float64 `json:"price" db:"price"`
}

// TransactionFilters narrows transaction listing.
type TransactionFilters struct {
	MemberID  *int64
	StartDate *time.Time
	EndDate   *time.Time
	Page      int
	PageSize  int
}
