package services

import (
	"errors"
	"strings"
	"testing"
	"time"

	"power_gym_backend/internal/models"
)

func newCheckoutFixture(t *testing.T) (*TransactionService, *mockMemberRepo, *mockCatalogRepo, *mockMovementRepo, *mockTransactionRepo) {
	t.Helper()
	memberRepo := newMockMemberRepo()
	catalogRepo := newMockCatalogRepo()
	movementRepo := &mockMovementRepo{}
	transactionRepo := newMockTransactionRepo()

	svc := &TransactionService{
		transactionRepo: transactionRepo,
		catalogRepo:     catalogRepo,
		movementRepo:    movementRepo,
		memberRepo:      memberRepo,
		begin:           fakeBegin,
		clock:           func() time.Time { return time.Date(2025, time.June, 2, 11, 0, 0, 0, time.UTC) },
	}
	return svc, memberRepo, catalogRepo, movementRepo, transactionRepo
}

func seedProduct(repo *mockCatalogRepo, name string, price float64, stock int) *models.Product {
	p := &models.Product{NameEN: name, Price: price, Stock: stock, IsActive: true, Unit: "pcs"}
	repo.CreateProduct(nil, p)
	return p
}

func seedPlan(repo *mockMemberRepo, name string, days int, price float64) *models.MembershipType {
	mt := &models.MembershipType{NameEN: name, DurationDays: days, Price: price, IsActive: true}
	repo.CreateMembershipType(nil, mt)
	return mt
}

func seedMember(repo *mockMemberRepo, endDate *string) *models.Member {
	m := &models.Member{MemberCode: "GM001", FullNameEN: "Mya Mya", Phone: "09-111111111", Gender: "Female", EndDate: endDate}
	repo.CreateMember(nil, m)
	return m
}

func TestCheckoutProductSale(t *testing.T) {
	svc, _, catalogRepo, movementRepo, _ := newCheckoutFixture(t)
	product := seedProduct(catalogRepo, "Protein Shake", 5000, 10)

	tx, err := svc.Checkout(NewTransactionPayload{
		PaymentMethod: "Cash",
		Items:         []TransactionItemPayload{{ProductID: &product.ID, Quantity: 3}},
	})
	if err != nil {
		t.Fatalf("Checkout: %v", err)
	}

	if tx.Type != models.TransactionTypeProduct {
		t.Errorf("type = %q, want %q", tx.Type, models.TransactionTypeProduct)
	}
	if tx.Subtotal != 15000 || tx.Total != 15000 {
		t.Errorf("subtotal/total = %v/%v, want 15000/15000", tx.Subtotal, tx.Total)
	}
	if !strings.HasPrefix(tx.InvoiceNumber, "INV-20250602-") {
		t.Errorf("invoice number = %q, want INV-20250602- prefix", tx.InvoiceNumber)
	}
	if catalogRepo.products[product.ID].Stock != 7 {
		t.Errorf("stock = %d, want 7", catalogRepo.products[product.ID].Stock)
	}
	if len(movementRepo.movements) != 1 {
		t.Fatalf("movements = %d, want 1", len(movementRepo.movements))
	}
	if mv := movementRepo.movements[0]; mv.MovementType != models.MovementTypeSale || mv.QuantityChanged != -3 {
		t.Errorf("movement = %+v, want sale of -3", mv)
	}
}

func TestCheckoutInsufficientStock(t *testing.T) {
	svc, _, catalogRepo, movementRepo, transactionRepo := newCheckoutFixture(t)
	product := seedProduct(catalogRepo, "Water Bottle", 500, 2)

	_, err := svc.Checkout(NewTransactionPayload{
		PaymentMethod: "Cash",
		Items:         []TransactionItemPayload{{ProductID: &product.ID, Quantity: 5}},
	})
	if !errors.Is(err, ErrInsufficientStock) {
		t.Fatalf("Checkout err = %v, want ErrInsufficientStock", err)
	}
	if len(transactionRepo.transactions) != 0 {
		t.Error("no transaction should be created on stock failure")
	}
	if len(movementRepo.movements) != 0 {
		t.Error("no movement should be recorded on stock failure")
	}
}

func TestCheckoutMembershipRenewalExtendsFromCurrentEnd(t *testing.T) {
	svc, memberRepo, _, _, _ := newCheckoutFixture(t)
	plan := seedPlan(memberRepo, "Monthly", 30, 30000)
	// Membership still running: ends 2025-06-10, ten days after "today".
	endDate := "2025-06-10"
	member := seedMember(memberRepo, &endDate)

	tx, err := svc.Checkout(NewTransactionPayload{
		MemberID:      &member.ID,
		PaymentMethod: "KBZPay",
		Items:         []TransactionItemPayload{{MembershipTypeID: &plan.ID, Quantity: 1}},
	})
	if err != nil {
		t.Fatalf("Checkout: %v", err)
	}

	if tx.Type != models.TransactionTypeMembership {
		t.Errorf("type = %q, want %q", tx.Type, models.TransactionTypeMembership)
	}
	stored, _ := memberRepo.GetMemberByID(member.ID)
	if stored.EndDate == nil || *stored.EndDate != "2025-07-10" {
		t.Errorf("end date = %v, want 2025-07-10 (extended from the running end date)", stored.EndDate)
	}
}

func TestCheckoutMembershipRenewalAfterLapseStartsToday(t *testing.T) {
	svc, memberRepo, _, _, _ := newCheckoutFixture(t)
	plan := seedPlan(memberRepo, "Monthly", 30, 30000)
	endDate := "2025-05-01" // lapsed a month ago
	member := seedMember(memberRepo, &endDate)

	if _, err := svc.Checkout(NewTransactionPayload{
		MemberID:      &member.ID,
		PaymentMethod: "Cash",
		Items:         []TransactionItemPayload{{MembershipTypeID: &plan.ID, Quantity: 1}},
	}); err != nil {
		t.Fatalf("Checkout: %v", err)
	}

	stored, _ := memberRepo.GetMemberByID(member.ID)
	if stored.EndDate == nil || *stored.EndDate != "2025-07-02" {
		t.Errorf("end date = %v, want 2025-07-02 (30 days from today)", stored.EndDate)
	}
}

func TestCheckoutMixedSale(t *testing.T) {
	svc, memberRepo, catalogRepo, _, _ := newCheckoutFixture(t)
	product := seedProduct(catalogRepo, "Towel", 2000, 5)
	plan := seedPlan(memberRepo, "Monthly", 30, 30000)
	member := seedMember(memberRepo, nil)

	tx, err := svc.Checkout(NewTransactionPayload{
		MemberID:      &member.ID,
		Discount:      1000,
		PaymentMethod: "Cash",
		Items: []TransactionItemPayload{
			{ProductID: &product.ID, Quantity: 1},
			{MembershipTypeID: &plan.ID, Quantity: 1},
		},
	})
	if err != nil {
		t.Fatalf("Checkout: %v", err)
	}

	if tx.Type != models.TransactionTypeMixed {
		t.Errorf("type = %q, want %q", tx.Type, models.TransactionTypeMixed)
	}
	if tx.Subtotal != 32000 {
		t.Errorf("subtotal = %v, want 32000", tx.Subtotal)
	}
	if tx.Total != 31000 {
		t.Errorf("total = %v, want 31000", tx.Total)
	}
	if len(tx.Items) != 2 {
		t.Errorf("items = %d, want 2", len(tx.Items))
	}
	if tx.MemberName == nil || *tx.MemberName != "Mya Mya" {
		t.Errorf("member name = %v, want Mya Mya", tx.MemberName)
	}
}

func TestCheckoutValidation(t *testing.T) {
	svc, memberRepo, catalogRepo, _, _ := newCheckoutFixture(t)
	product := seedProduct(catalogRepo, "Towel", 2000, 5)
	plan := seedPlan(memberRepo, "Monthly", 30, 30000)

	cases := []struct {
		name    string
		payload NewTransactionPayload
		wantErr error
	}{
		{
			name:    "no items",
			payload: NewTransactionPayload{PaymentMethod: "Cash"},
			wantErr: ErrEmptyTransaction,
		},
		{
			name: "unknown payment method",
			payload: NewTransactionPayload{
				PaymentMethod: "Barter",
				Items:         []TransactionItemPayload{{ProductID: &product.ID, Quantity: 1}},
			},
			wantErr: ErrUnknownPaymentMethod,
		},
		{
			name: "zero quantity",
			payload: NewTransactionPayload{
				PaymentMethod: "Cash",
				Items:         []TransactionItemPayload{{ProductID: &product.ID, Quantity: 0}},
			},
			wantErr: ErrValidation,
		},
		{
			name: "item with both references",
			payload: NewTransactionPayload{
				PaymentMethod: "Cash",
				Items:         []TransactionItemPayload{{ProductID: &product.ID, MembershipTypeID: &plan.ID, Quantity: 1}},
			},
			wantErr: ErrValidation,
		},
		{
			name: "membership without member",
			payload: NewTransactionPayload{
				PaymentMethod: "Cash",
				Items:         []TransactionItemPayload{{MembershipTypeID: &plan.ID, Quantity: 1}},
			},
			wantErr: ErrValidation,
		},
		{
			name: "negative discount",
			payload: NewTransactionPayload{
				Discount:      -1,
				PaymentMethod: "Cash",
				Items:         []TransactionItemPayload{{ProductID: &product.ID, Quantity: 1}},
			},
			wantErr: ErrValidation,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := svc.Checkout(tc.payload); !errors.Is(err, tc.wantErr) {
				t.Errorf("Checkout err = %v, want %v", err, tc.wantErr)
			}
		})
	}
}

func TestCheckoutDiscountExceedsSubtotal(t *testing.T) {
	svc, _, catalogRepo, _, _ := newCheckoutFixture(t)
	product := seedProduct(catalogRepo, "Towel", 2000, 5)

	_, err := svc.Checkout(NewTransactionPayload{
		Discount:      5000,
		PaymentMethod: "Cash",
		Items:         []TransactionItemPayload{{ProductID: &product.ID, Quantity: 1}},
	})
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("Checkout err = %v, want ErrValidation", err)
	}
}
