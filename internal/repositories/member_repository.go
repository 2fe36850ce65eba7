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

// MemberRepository defines member and membership-type database
// operations.
type MemberRepository interface {
	// Member methods
	CreateMember(executor SQLExecutor, member *models.Member) (*models.Member, error)
	GetMemberByID(id int64) (*models.Member, error)
	GetMemberByCode(code string) (*models.Member, error)
	GetMembers(filters models.MemberFilters) ([]models.Member, int, error)
	UpdateMember(executor SQLExecutor, member *models.Member) (*models.Member, error)
	DeleteMember(executor SQLExecutor, id int64) error
	ExtendMembership(executor SQLExecutor, memberID int64, membershipTypeID int64, newEndDate string) error
	NextMemberCode() (string, error)

	// MembershipType methods
	CreateMembershipType(executor SQLExecutor, mt *models.MembershipType) (*models.MembershipType, error)
	GetMembershipTypeByID(id int64) (*models.MembershipType, error)
	GetMembershipTypes(onlyActive bool) ([]models.MembershipType, error)
	UpdateMembershipType(executor SQLExecutor, mt *models.MembershipType) (*models.MembershipType, error)
	DeleteMembershipType(executor SQLExecutor, id int64) error
}

type memberRepository struct {
	db *sql.DB
}

// NewMemberRepository creates a new instance of MemberRepository.
func NewMemberRepository(db *sql.DB) MemberRepository {
	return &memberRepository{db: db}
}

// --- Member Methods ---

func (r *memberRepository) CreateMember(executor SQLExecutor, member *models.Member) (*models.Member, error) {
	query := `INSERT INTO members (member_code, full_name_en, full_name_mm, phone, email, nrc, dob, gender,
	            address, emergency_name, emergency_phone, photo_url, membership_type_id,
	            start_date, end_date, join_date, notes, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)
	          RETURNING id`

	now := time.Now()
	member.CreatedAt = now
	member.UpdatedAt = now

	err := executor.QueryRow(query,
		member.MemberCode, member.FullNameEN, member.FullNameMM, member.Phone, member.Email,
		member.NRC, member.DOB, member.Gender, member.Address, member.EmergencyName,
		member.EmergencyPhone, member.PhotoURL, member.MembershipTypeID,
		member.StartDate, member.EndDate, member.JoinDate, member.Notes,
		member.CreatedAt, member.UpdatedAt,
	).Scan(&member.ID)

	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) {
			if pqErr.Code.Name() == "unique_violation" {
				return nil, fmt.Errorf("%w: member code %q already exists", ErrDuplicateKey, member.MemberCode)
			}
			if pqErr.Code.Name() == "foreign_key_violation" {
				return nil, fmt.Errorf("%w: membership type not found", ErrNotFound)
			}
		}
		return nil, fmt.Errorf("%w: creating member: %v", ErrDatabaseError, err)
	}
	return member, nil
}

const memberSelectColumns = `m.id, m.member_code, m.full_name_en, m.full_name_mm, m.phone, m.email,
	    m.nrc, to_char(m.dob, 'YYYY-MM-DD'), m.gender, m.address, m.emergency_name, m.emergency_phone,
	    m.photo_url, m.membership_type_id, to_char(m.start_date, 'YYYY-MM-DD'),
	    to_char(m.end_date, 'YYYY-MM-DD'), to_char(m.join_date, 'YYYY-MM-DD'), m.notes,
	    m.created_at, m.updated_at,
	    mt.name_en, mt.name_mm, mt.duration_days, mt.price`

func scanMemberRow(row scanner) (*models.Member, error) {
	var m models.Member
	var mt models.MembershipType
	var fullNameMM, email, nrc, dob, address, emName, emPhone, photoURL sql.NullString
	var startDate, endDate, notes sql.NullString
	var membershipTypeID sql.NullInt64
	var mtNameEN, mtNameMM sql.NullString
	var mtDurationDays sql.NullInt64
	var mtPrice sql.NullFloat64

	err := row.Scan(
		&m.ID, &m.MemberCode, &m.FullNameEN, &fullNameMM, &m.Phone, &email,
		&nrc, &dob, &m.Gender, &address, &emName, &emPhone,
		&photoURL, &membershipTypeID, &startDate, &endDate, &m.JoinDate, &notes,
		&m.CreatedAt, &m.UpdatedAt,
		&mtNameEN, &mtNameMM, &mtDurationDays, &mtPrice,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: scanning member: %v", ErrDatabaseError, err)
	}

	if fullNameMM.Valid {
		m.FullNameMM = &fullNameMM.String
	}
	if email.Valid {
		m.Email = &email.String
	}
	if nrc.Valid {
		m.NRC = &nrc.String
	}
	if dob.Valid {
		m.DOB = &dob.String
	}
	if address.Valid {
		m.Address = &address.String
	}
	if emName.Valid {
		m.EmergencyName = &emName.String
	}
	if emPhone.Valid {
		m.EmergencyPhone = &emPhone.String
	}
	if photoURL.Valid {
		m.PhotoURL = &photoURL.String
	}
	if startDate.Valid {
		m.StartDate = &startDate.String
	}
	if endDate.Valid {
		m.EndDate = &endDate.String
	}
	if notes.Valid {
		m.Notes = &notes.String
	}
	if membershipTypeID.Valid {
		m.MembershipTypeID = &membershipTypeID.Int64
		if mtNameEN.Valid {
			mt.ID = membershipTypeID.Int64
			mt.NameEN = mtNameEN.String
			if mtNameMM.Valid {
				mt.NameMM = &mtNameMM.String
			}
			mt.DurationDays = int(mtDurationDays.Int64)
			mt.Price = mtPrice.Float64
			m.MembershipType = &mt
		}
	}
	return &m, nil
}

func (r *memberRepository) GetMemberByID(id int64) (*models.Member, error) {
	query := `SELECT ` + memberSelectColumns + `
	          FROM members m
	          LEFT JOIN membership_types mt ON m.membership_type_id = mt.id
	          WHERE m.id = $1`
	return scanMemberRow(r.db.QueryRow(query, id))
}

func (r *memberRepository) GetMemberByCode(code string) (*models.Member, error) {
	query := `SELECT ` + memberSelectColumns + `
	          FROM members m
	          LEFT JOIN membership_types mt ON m.membership_type_id = mt.id
	          WHERE m.member_code = $1`
	return scanMemberRow(r.db.QueryRow(query, code))
}

func (r *memberRepository) GetMembers(filters models.MemberFilters) ([]models.Member, int, error) {
	members := []models.Member{}
	totalCount := 0

	var queryBuilder strings.Builder
	queryBuilder.WriteString(`SELECT ` + memberSelectColumns + `, COUNT(*) OVER() as total_count
	  FROM members m
	  LEFT JOIN membership_types mt ON m.membership_type_id = mt.id`)

	var conditions []string
	var args []interface{}
	argCount := 1

	if filters.SearchTerm != nil && *filters.SearchTerm != "" {
		pattern := "%" + strings.ToLower(*filters.SearchTerm) + "%"
		conditions = append(conditions, fmt.Sprintf(
			"(LOWER(m.full_name_en) LIKE $%d OR LOWER(m.member_code) LIKE $%d OR m.phone LIKE $%d)",
			argCount, argCount, argCount))
		args = append(args, pattern)
		argCount++
	}
	if filters.Status != nil && *filters.Status != "" {
		// Status is derived from end_date; translate the filter into a
		// date predicate instead of a stored column.
		switch *filters.Status {
		case models.MemberStatusExpired:
			conditions = append(conditions, "m.end_date < CURRENT_DATE")
		case models.MemberStatusExpiringSoon:
			conditions = append(conditions, "m.end_date >= CURRENT_DATE AND m.end_date <= CURRENT_DATE + INTERVAL '7 days'")
		case models.MemberStatusActive:
			conditions = append(conditions, "m.end_date > CURRENT_DATE + INTERVAL '7 days'")
		}
	}

	if len(conditions) > 0 {
		queryBuilder.WriteString(" WHERE " + strings.Join(conditions, " AND "))
	}
	queryBuilder.WriteString(" ORDER BY m.id DESC")

	if filters.PageSize > 0 {
		queryBuilder.WriteString(fmt.Sprintf(" LIMIT $%d", argCount))
		args = append(args, filters.PageSize)
		argCount++
		if filters.Page > 0 {
			offset := (filters.Page - 1) * filters.PageSize
			queryBuilder.WriteString(fmt.Sprintf(" OFFSET $%d", argCount))
			args = append(args, offset)
		}
	}

	rows, err := r.db.Query(queryBuilder.String(), args...)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: querying members: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	for rows.Next() {
		member, count, err := scanMemberListRow(rows)
		if err != nil {
			return nil, 0, err
		}
		totalCount = count
		members = append(members, *member)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("%w: iterating member rows: %v", ErrDatabaseError, err)
	}
	return members, totalCount, nil
}

// scanMemberListRow scans one list row including the window total.
func scanMemberListRow(rows *sql.Rows) (*models.Member, int, error) {
	var m models.Member
	var mt models.MembershipType
	var fullNameMM, email, nrc, dob, address, emName, emPhone, photoURL sql.NullString
	var startDate, endDate, notes sql.NullString
	var membershipTypeID sql.NullInt64
	var mtNameEN, mtNameMM sql.NullString
	var mtDurationDays sql.NullInt64
	var mtPrice sql.NullFloat64
	var rowTotal int

	err := rows.Scan(
		&m.ID, &m.MemberCode, &m.FullNameEN, &fullNameMM, &m.Phone, &email,
		&nrc, &dob, &m.Gender, &address, &emName, &emPhone,
		&photoURL, &membershipTypeID, &startDate, &endDate, &m.JoinDate, &notes,
		&m.CreatedAt, &m.UpdatedAt,
		&mtNameEN, &mtNameMM, &mtDurationDays, &mtPrice,
		&rowTotal,
	)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: scanning member from list: %v", ErrDatabaseError, err)
	}

	if fullNameMM.Valid {
		m.FullNameMM = &fullNameMM.String
	}
	if email.Valid {
		m.Email = &email.String
	}
	if nrc.Valid {
		m.NRC = &nrc.String
	}
	if dob.Valid {
		m.DOB = &dob.String
	}
	if address.Valid {
		m.Address = &address.String
	}
	if emName.Valid {
		m.EmergencyName = &emName.String
	}
	if emPhone.Valid {
		m.EmergencyPhone = &emPhone.String
	}
	if photoURL.Valid {
		m.PhotoURL = &photoURL.String
	}
	if startDate.Valid {
		m.StartDate = &startDate.String
	}
	if endDate.Valid {
		m.EndDate = &endDate.String
	}
	if notes.Valid {
		m.Notes = &notes.String
	}
	if membershipTypeID.Valid {
		m.MembershipTypeID = &membershipTypeID.Int64
		if mtNameEN.Valid {
			mt.ID = membershipTypeID.Int64
			mt.NameEN = mtNameEN.String
			if mtNameMM.Valid {
				mt.NameMM = &mtNameMM.String
			}
			mt.DurationDays = int(mtDurationDays.Int64)
			mt.Price = mtPrice.Float64
			m.MembershipType = &mt
		}
	}
	return &m, rowTotal, nil
}

func (r *memberRepository) UpdateMember(executor SQLExecutor, member *models.Member) (*models.Member, error) {
	query := `UPDATE members SET
	            full_name_en = $1, full_name_mm = $2, phone = $3, email = $4, nrc = $5, dob = $6,
	            gender = $7, address = $8, emergency_name = $9, emergency_phone = $10, photo_url = $11,
	            membership_type_id = $12, start_date = $13, end_date = $14, notes = $15, updated_at = $16
	          WHERE id = $17
	          RETURNING updated_at`

	member.UpdatedAt = time.Now()
	err := executor.QueryRow(query,
		member.FullNameEN, member.FullNameMM, member.Phone, member.Email, member.NRC, member.DOB,
		member.Gender, member.Address, member.EmergencyName, member.EmergencyPhone, member.PhotoURL,
		member.MembershipTypeID, member.StartDate, member.EndDate, member.Notes,
		member.UpdatedAt, member.ID,
	).Scan(&member.UpdatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: updating member ID %d: %v", ErrDatabaseError, member.ID, err)
	}
	return member, nil
}

func (r *memberRepository) DeleteMember(executor SQLExecutor, id int64) error {
	result, err := executor.Exec(`DELETE FROM members WHERE id = $1`, id)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "foreign_key_violation" {
			return fmt.Errorf("%w: member ID %d is referenced in other records (constraint: %s)", ErrDatabaseError, id, pqErr.Constraint)
		}
		return fmt.Errorf("%w: deleting member ID %d: %v", ErrDatabaseError, id, err)
	}
	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *memberRepository) ExtendMembership(executor SQLExecutor, memberID int64, membershipTypeID int64, newEndDate string) error {
	query := `UPDATE members SET membership_type_id = $1, end_date = $2,
	            start_date = COALESCE(start_date, CURRENT_DATE), updated_at = $3
	          WHERE id = $4`
	result, err := executor.Exec(query, membershipTypeID, newEndDate, time.Now(), memberID)
	if err != nil {
		return fmt.Errorf("%w: extending membership for member ID %d: %v", ErrDatabaseError, memberID, err)
	}
	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// NextMemberCode produces the next sequential code in the GM001 series.
func (r *memberRepository) NextMemberCode() (string, error) {
	var maxCode sql.NullString
	err := r.db.QueryRow(`SELECT MAX(member_code) FROM members WHERE member_code ~ '^GM[0-9]+$'`).Scan(&maxCode)
	if err != nil {
		return "", fmt.Errorf("%w: computing next member code: %v", ErrDatabaseError, err)
	}
	next := 1
	if maxCode.Valid {
		fmt.Sscanf(maxCode.String, "GM%d", &next)
		next++
	}
	return fmt.Sprintf("GM%03d", next), nil
}

// --- MembershipType Methods ---

func (r *memberRepository) CreateMembershipType(executor SQLExecutor, mt *models.MembershipType) (*models.MembershipType, error) {
	query := `INSERT INTO membership_types (name_en, name_mm, duration_days, price, description, color_code, is_active, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	          RETURNING id`

	now := time.Now()
	mt.CreatedAt = now
	mt.UpdatedAt = now

	err := executor.QueryRow(query,
		mt.NameEN, mt.NameMM, mt.DurationDays, mt.Price, mt.Description,
		mt.ColorCode, mt.IsActive, mt.CreatedAt, mt.UpdatedAt,
	).Scan(&mt.ID)
	if err != nil {
		return nil, fmt.Errorf("%w: creating membership type: %v", ErrDatabaseError, err)
	}
	return mt, nil
}

func (r *memberRepository) GetMembershipTypeByID(id int64) (*models.MembershipType, error) {
	var mt models.MembershipType
	var nameMM, description, colorCode sql.NullString
	query := `SELECT id, name_en, name_mm, duration_days, price, description, color_code, is_active, created_at, updated_at
	          FROM membership_types WHERE id = $1`
	err := r.db.QueryRow(query, id).Scan(
		&mt.ID, &mt.NameEN, &nameMM, &mt.DurationDays, &mt.Price,
		&description, &colorCode, &mt.IsActive, &mt.CreatedAt, &mt.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: getting membership type ID %d: %v", ErrDatabaseError, id, err)
	}
	if nameMM.Valid {
		mt.NameMM = &nameMM.String
	}
	if description.Valid {
		mt.Description = &description.String
	}
	if colorCode.Valid {
		mt.ColorCode = &colorCode.String
	}
	return &mt, nil
}

func (r *memberRepository) GetMembershipTypes(onlyActive bool) ([]models.MembershipType, error) {
	types := []models.MembershipType{}

	query := `SELECT id, name_en, name_mm, duration_days, price, description, color_code, is_active, created_at, updated_at
	          FROM membership_types`
	if onlyActive {
		query += ` WHERE is_active = TRUE`
	}
	query += ` ORDER BY duration_days ASC`

	rows, err := r.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("%w: querying membership types: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	for rows.Next() {
		var mt models.MembershipType
		var nameMM, description, colorCode sql.NullString
		if err := rows.Scan(
			&mt.ID, &mt.NameEN, &nameMM, &mt.DurationDays, &mt.Price,
			&description, &colorCode, &mt.IsActive, &mt.CreatedAt, &mt.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("%w: scanning membership type: %v", ErrDatabaseError, err)
		}
		if nameMM.Valid {
			mt.NameMM = &nameMM.String
		}
		if description.Valid {
			mt.Description = &description.String
		}
		if colorCode.Valid {
			mt.ColorCode = &colorCode.String
		}
		types = append(types, mt)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating membership type rows: %v", ErrDatabaseError, err)
	}
	return types, nil
}

func (r *memberRepository) UpdateMembershipType(executor SQLExecutor, mt *models.MembershipType) (*models.MembershipType, error) {
	query := `UPDATE membership_types SET
	            name_en = $1, name_mm = $2, duration_days = $3, price = $4,
	            description = $5, color_code = $6, is_active = $7, updated_at = $8
	          WHERE id = $9
	          RETURNING updated_at`

	mt.UpdatedAt = time.Now()
	err := executor.QueryRow(query,
		mt.NameEN, mt.NameMM, mt.DurationDays, mt.Price,
		mt.Description, mt.ColorCode, mt.IsActive, mt.UpdatedAt, mt.ID,
	).Scan(&mt.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: updating membership type ID %d: %v", ErrDatabaseError, mt.ID, err)
	}
	return mt, nil
}

func (r *memberRepository) DeleteMembershipType(executor SQLExecutor, id int64) error {
	result, err := executor.Exec(`DELETE FROM membership_types WHERE id = $1`, id)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "foreign_key_violation" {
			return fmt.Errorf("%w: membership type ID %d is referenced by members or transactions", ErrDatabaseError, id)
		}
		return fmt.Errorf("%w: deleting membership type ID %d: %v", ErrDatabaseError, id, err)
	}
	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
