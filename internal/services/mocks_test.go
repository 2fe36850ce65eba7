package services

import (
	"database/sql"
	"fmt"
	"time"

	"power_gym_backend/internal/models"
	"power_gym_backend/internal/repositories"
	"power_gym_backend/internal/scheduling"
)

// fakeTx satisfies txHandle so transactional service flows run against
// in-memory mocks.
type fakeTx struct {
	committed  bool
	rolledBack bool
}

func (t *fakeTx) Exec(query string, args ...interface{}) (sql.Result, error) { return nil, nil }
func (t *fakeTx) QueryRow(query string, args ...interface{}) *sql.Row { return nil }
func (t *fakeTx) Query(query string, args ...interface{}) (*sql.Rows, error) {
	return nil, nil
}
func (t *fakeTx) Commit() error   { t.committed = true; return nil }
func (t *fakeTx) Rollback() error { t.rolledBack = true; return nil }

func fakeBegin() (txHandle, error) { return &fakeTx{}, nil }

// --- staff repository mock ---

type mockStaffRepo struct {
	staff map[int64]*models.Staff
}

func newMockStaffRepo() *mockStaffRepo {
	return &mockStaffRepo{staff: map[int64]*models.Staff{}}
}

func (m *mockStaffRepo) CreateStaff(_ repositories.SQLExecutor, s *models.Staff) (*models.Staff, error) {
	s.ID = int64(len(m.staff) + 1)
	m.staff[s.ID] = s
	return s, nil
}

func (m *mockStaffRepo) GetStaffByID(id int64) (*models.Staff, error) {
	s, ok := m.staff[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return s, nil
}

func (m *mockStaffRepo) GetStaff(filters models.StaffFilters) ([]models.Staff, int, error) {
	out := []models.Staff{}
	for _, s := range m.staff {
		out = append(out, *s)
	}
	return out, len(out), nil
}

func (m *mockStaffRepo) GetActiveStaffWithSchedules() ([]models.Staff, error) {
	out := []models.Staff{}
	for _, s := range m.staff {
		if s.Status == models.StaffStatusActive {
			out = append(out, *s)
		}
	}
	return out, nil
}

func (m *mockStaffRepo) UpdateStaff(_ repositories.SQLExecutor, s *models.Staff) (*models.Staff, error) {
	if _, ok := m.staff[s.ID]; !ok {
		return nil, repositories.ErrNotFound
	}
	m.staff[s.ID] = s
	return s, nil
}

func (m *mockStaffRepo) DeactivateStaff(_ repositories.SQLExecutor, id int64) error {
	s, ok := m.staff[id]
	if !ok {
		return repositories.ErrNotFound
	}
	s.Status = models.StaffStatusInactive
	return nil
}

func (m *mockStaffRepo) NextStaffCode() (string, error) {
	return fmt.Sprintf("S%03d", len(m.staff)+1), nil
}

func (m *mockStaffRepo) GetWeeklySchedule(staffID int64) (*scheduling.WeeklySchedule, error) {
	s, ok := m.staff[staffID]
	if !ok || s.WeeklySchedule == nil {
		return nil, repositories.ErrNotFound
	}
	return s.WeeklySchedule, nil
}

func (m *mockStaffRepo) ReplaceWeeklySchedule(_ repositories.SQLExecutor, staffID int64, ws *scheduling.WeeklySchedule) error {
	s, ok := m.staff[staffID]
	if !ok {
		return repositories.ErrNotFound
	}
	s.WeeklySchedule = ws
	return nil
}

// --- attendance repository mock ---

type mockAttendanceRepo struct {
	records map[int64]*models.AttendanceRecord
	nextID  int64
}

func newMockAttendanceRepo() *mockAttendanceRepo {
	return &mockAttendanceRepo{records: map[int64]*models.AttendanceRecord{}, nextID: 1}
}

func (m *mockAttendanceRepo) CreateRecord(_ repositories.SQLExecutor, rec *models.AttendanceRecord) (*models.AttendanceRecord, error) {
	for _, existing := range m.records {
		if existing.StaffID == rec.StaffID && existing.ClockOut == nil {
			return nil, repositories.ErrOpenSessionExists
		}
	}
	rec.ID = m.nextID
	m.nextID++
	stored := *rec
	m.records[rec.ID] = &stored
	return rec, nil
}

func (m *mockAttendanceRepo) GetRecordByID(id int64) (*models.AttendanceRecord, error) {
	rec, ok := m.records[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	out := *rec
	return &out, nil
}

func (m *mockAttendanceRepo) FindOpenSession(_ repositories.SQLExecutor, staffID int64) (*models.AttendanceRecord, error) {
	for _, rec := range m.records {
		if rec.StaffID == staffID && rec.ClockOut == nil {
			out := *rec
			return &out, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (m *mockAttendanceRepo) GetOpenSession(staffID int64) (*models.AttendanceRecord, error) {
	return m.FindOpenSession(nil, staffID)
}

func (m *mockAttendanceRepo) CloseRecord(_ repositories.SQLExecutor, rec *models.AttendanceRecord) (*models.AttendanceRecord, error) {
	stored, ok := m.records[rec.ID]
	if !ok || stored.ClockOut != nil {
		return nil, repositories.ErrNotFound
	}
	*stored = *rec
	return rec, nil
}

func (m *mockAttendanceRepo) GetRecords(filters models.AttendanceFilters) ([]models.AttendanceRecord, int, error) {
	out := []models.AttendanceRecord{}
	for _, rec := range m.records {
		if filters.StaffID != nil && rec.StaffID != *filters.StaffID {
			continue
		}
		if filters.Status != nil && rec.Status != *filters.Status {
			continue
		}
		out = append(out, *rec)
	}
	return out, len(out), nil
}

// openSessionCount reports how many sessions are open, for asserting
// that failed operations left the ledger unchanged.
func (m *mockAttendanceRepo) openSessionCount() int {
	n := 0
	for _, rec := range m.records {
		if rec.ClockOut == nil {
			n++
		}
	}
	return n
}

// --- member repository mock ---

type mockMemberRepo struct {
	members map[int64]*models.Member
	plans   map[int64]*models.MembershipType
	nextID  int64

	extendCalls int
}

func newMockMemberRepo() *mockMemberRepo {
	return &mockMemberRepo{
		members: map[int64]*models.Member{},
		plans:   map[int64]*models.MembershipType{},
		nextID:  1,
	}
}

func (m *mockMemberRepo) CreateMember(_ repositories.SQLExecutor, member *models.Member) (*models.Member, error) {
	for _, existing := range m.members {
		if existing.MemberCode == member.MemberCode {
			return nil, repositories.ErrDuplicateKey
		}
	}
	member.ID = m.nextID
	m.nextID++
	stored := *member
	m.members[member.ID] = &stored
	return member, nil
}

func (m *mockMemberRepo) GetMemberByID(id int64) (*models.Member, error) {
	member, ok := m.members[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	out := *member
	return &out, nil
}

func (m *mockMemberRepo) GetMemberByCode(code string) (*models.Member, error) {
	for _, member := range m.members {
		if member.MemberCode == code {
			out := *member
			return &out, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (m *mockMemberRepo) GetMembers(filters models.MemberFilters) ([]models.Member, int, error) {
	out := []models.Member{}
	for _, member := range m.members {
		out = append(out, *member)
	}
	return out, len(out), nil
}

func (m *mockMemberRepo) UpdateMember(_ repositories.SQLExecutor, member *models.Member) (*models.Member, error) {
	if _, ok := m.members[member.ID]; !ok {
		return nil, repositories.ErrNotFound
	}
	stored := *member
	m.members[member.ID] = &stored
	return member, nil
}

func (m *mockMemberRepo) DeleteMember(_ repositories.SQLExecutor, id int64) error {
	if _, ok := m.members[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(m.members, id)
	return nil
}

func (m *mockMemberRepo) ExtendMembership(_ repositories.SQLExecutor, memberID, membershipTypeID int64, newEndDate string) error {
	member, ok := m.members[memberID]
	if !ok {
		return repositories.ErrNotFound
	}
	member.EndDate = &newEndDate
	member.MembershipTypeID = &membershipTypeID
	m.extendCalls++
	return nil
}

func (m *mockMemberRepo) NextMemberCode() (string, error) {
	return fmt.Sprintf("GM%03d", len(m.members)+1), nil
}

func (m *mockMemberRepo) CreateMembershipType(_ repositories.SQLExecutor, mt *models.MembershipType) (*models.MembershipType, error) {
	mt.ID = int64(len(m.plans) + 1)
	m.plans[mt.ID] = mt
	return mt, nil
}

func (m *mockMemberRepo) GetMembershipTypeByID(id int64) (*models.MembershipType, error) {
	mt, ok := m.plans[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return mt, nil
}

func (m *mockMemberRepo) GetMembershipTypes(onlyActive bool) ([]models.MembershipType, error) {
	out := []models.MembershipType{}
	for _, mt := range m.plans {
		if onlyActive && !mt.IsActive {
			continue
		}
		out = append(out, *mt)
	}
	return out, nil
}

func (m *mockMemberRepo) UpdateMembershipType(_ repositories.SQLExecutor, mt *models.MembershipType) (*models.MembershipType, error) {
	if _, ok := m.plans[mt.ID]; !ok {
		return nil, repositories.ErrNotFound
	}
	m.plans[mt.ID] = mt
	return mt, nil
}

func (m *mockMemberRepo) DeleteMembershipType(_ repositories.SQLExecutor, id int64) error {
	if _, ok := m.plans[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(m.plans, id)
	return nil
}

// --- catalog repository mock ---

type mockCatalogRepo struct {
	products map[int64]*models.Product
}

func newMockCatalogRepo() *mockCatalogRepo {
	return &mockCatalogRepo{products: map[int64]*models.Product{}}
}

func (m *mockCatalogRepo) CreateCategory(_ repositories.SQLExecutor, c *models.ProductCategory) (*models.ProductCategory, error) {
	return c, nil
}
func (m *mockCatalogRepo) GetCategoryByID(id int64) (*models.ProductCategory, error) {
	return nil, repositories.ErrNotFound
}
func (m *mockCatalogRepo) GetCategories() ([]models.ProductCategory, error) {
	return nil, nil
}
func (m *mockCatalogRepo) UpdateCategory(_ repositories.SQLExecutor, c *models.ProductCategory) (*models.ProductCategory, error) {
	return c, nil
}
func (m *mockCatalogRepo) DeleteCategory(_ repositories.SQLExecutor, id int64) error { return nil }

func (m *mockCatalogRepo) CreateProduct(_ repositories.SQLExecutor, p *models.Product) (*models.Product, error) {
	p.ID = int64(len(m.products) + 1)
	m.products[p.ID] = p
	return p, nil
}

func (m *mockCatalogRepo) GetProductByID(id int64) (*models.Product, error) {
	p, ok := m.products[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return p, nil
}

func (m *mockCatalogRepo) GetProducts(page, pageSize int, searchTerm *string, categoryID *int64) ([]models.Product, int, error) {
	return nil, 0, nil
}
func (m *mockCatalogRepo) GetLowStockProducts() ([]models.Product, error) { return nil, nil }

func (m *mockCatalogRepo) UpdateProduct(_ repositories.SQLExecutor, p *models.Product) (*models.Product, error) {
	return p, nil
}

func (m *mockCatalogRepo) UpdateStock(_ repositories.SQLExecutor, productID int64, delta int) (int, error) {
	p, ok := m.products[productID]
	if !ok {
		return 0, repositories.ErrNotFound
	}
	p.Stock += delta
	return p.Stock, nil
}

func (m *mockCatalogRepo) GetProductStockForUpdate(_ repositories.SQLExecutor, productID int64) (*models.Product, error) {
	p, ok := m.products[productID]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	out := *p
	return &out, nil
}

func (m *mockCatalogRepo) DeleteProduct(_ repositories.SQLExecutor, id int64) error { return nil }

// --- inventory movement repository mock ---

type mockMovementRepo struct {
	movements []models.InventoryMovement
}

func (m *mockMovementRepo) CreateMovement(_ repositories.SQLExecutor, mv *models.InventoryMovement) (*models.InventoryMovement, error) {
	mv.ID = int64(len(m.movements) + 1)
	m.movements = append(m.movements, *mv)
	return mv, nil
}

func (m *mockMovementRepo) GetMovements(productID *int64, movementType *string, page, pageSize int) ([]models.InventoryMovement, int, error) {
	return m.movements, len(m.movements), nil
}

// --- check-in repository mock ---

type mockCheckInRepo struct {
	checkIns []models.CheckIn
}

func (m *mockCheckInRepo) CreateCheckIn(_ repositories.SQLExecutor, ci *models.CheckIn) (*models.CheckIn, error) {
	ci.ID = int64(len(m.checkIns) + 1)
	m.checkIns = append(m.checkIns, *ci)
	return ci, nil
}

func (m *mockCheckInRepo) CheckOut(_ repositories.SQLExecutor, id int64, checkOutTime time.Time) error {
	for i := range m.checkIns {
		if m.checkIns[i].ID == id && m.checkIns[i].CheckOutTime == nil {
			m.checkIns[i].CheckOutTime = &checkOutTime
			return nil
		}
	}
	return repositories.ErrNotFound
}

func (m *mockCheckInRepo) GetCheckIns(memberID *int64, dateFrom, dateTo *string, page, pageSize int) ([]models.CheckIn, int, error) {
	return m.checkIns, len(m.checkIns), nil
}

func (m *mockCheckInRepo) CountCheckInsOnDate(date string) (int, error) {
	return len(m.checkIns), nil
}

// --- transaction repository mock ---

type mockTransactionRepo struct {
	transactions map[int64]*models.Transaction
	items        []models.TransactionItem
	nextID       int64
}

func newMockTransactionRepo() *mockTransactionRepo {
	return &mockTransactionRepo{transactions: map[int64]*models.Transaction{}, nextID: 1}
}

func (m *mockTransactionRepo) CreateTransaction(_ repositories.SQLExecutor, tx *models.Transaction) (*models.Transaction, error) {
	tx.ID = m.nextID
	m.nextID++
	stored := *tx
	m.transactions[tx.ID] = &stored
	return tx, nil
}

func (m *mockTransactionRepo) CreateTransactionItem(_ repositories.SQLExecutor, item *models.TransactionItem) (*models.TransactionItem, error) {
	item.ID = int64(len(m.items) + 1)
	m.items = append(m.items, *item)
	return item, nil
}

func (m *mockTransactionRepo) GetTransactionByID(id int64) (*models.Transaction, error) {
	tx, ok := m.transactions[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return tx, nil
}

func (m *mockTransactionRepo) GetTransactions(filters models.TransactionFilters) ([]models.Transaction, int, error) {
	out := []models.Transaction{}
	for _, tx := range m.transactions {
		out = append(out, *tx)
	}
	return out, len(out), nil
}
