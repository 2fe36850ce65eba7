package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"power_gym_backend/internal/models"
	"power_gym_backend/internal/scheduling"

	"github.com/lib/pq"
)

// StaffRepository defines staff and weekly schedule database operations.
type StaffRepository interface {
	CreateStaff(executor SQLExecutor, staff *models.Staff) (*models.Staff, error)
	GetStaffByID(id int64) (*models.Staff, error)
	GetStaff(filters models.StaffFilters) ([]models.Staff, int, error)
	GetActiveStaffWithSchedules() ([]models.Staff, error)
	UpdateStaff(executor SQLExecutor, staff *models.Staff) (*models.Staff, error)
	DeactivateStaff(executor SQLExecutor, id int64) error
	NextStaffCode() (string, error)

	GetWeeklySchedule(staffID int64) (*scheduling.WeeklySchedule, error)
	ReplaceWeeklySchedule(executor SQLExecutor, staffID int64, schedule *scheduling.WeeklySchedule) error
}

type staffRepository struct {
	db *sql.DB
}

// NewStaffRepository creates a new instance of StaffRepository.
func NewStaffRepository(db *sql.DB) StaffRepository {
	return &staffRepository{db: db}
}

const staffSelectColumns = `s.id, s.staff_code, s.name, s.role, s.phone, s.email,
	    to_char(s.join_date, 'YYYY-MM-DD') as join_date, s.salary, s.photo_url, s.status,
	    s.created_at, s.updated_at`

func scanStaffRow(row scanner) (*models.Staff, error) {
	var s models.Staff
	var email, photoURL sql.NullString
	var salary sql.NullFloat64

	err := row.Scan(
		&s.ID, &s.StaffCode, &s.Name, &s.Role, &s.Phone, &email,
		&s.JoinDate, &salary, &photoURL, &s.Status, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: scanning staff: %v", ErrDatabaseError, err)
	}

	if email.Valid {
		s.Email = &email.String
	}
	if salary.Valid {
		s.Salary = &salary.Float64
	}
	if photoURL.Valid {
		s.PhotoURL = &photoURL.String
	}
	return &s, nil
}

func (r *staffRepository) CreateStaff(executor SQLExecutor, staff *models.Staff) (*models.Staff, error) {
	query := `INSERT INTO staff (staff_code, name, role, phone, email, join_date, salary, photo_url, status, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	          RETURNING id`

	now := time.Now()
	staff.CreatedAt = now
	staff.UpdatedAt = now
	if staff.Status == "" {
		staff.Status = models.StaffStatusActive
	}

	err := executor.QueryRow(query,
		staff.StaffCode, staff.Name, staff.Role, staff.Phone, staff.Email,
		staff.JoinDate, staff.Salary, staff.PhotoURL, staff.Status,
		staff.CreatedAt, staff.UpdatedAt,
	).Scan(&staff.ID)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
			return nil, fmt.Errorf("%w: staff code %q already exists", ErrDuplicateKey, staff.StaffCode)
		}
		return nil, fmt.Errorf("%w: creating staff: %v", ErrDatabaseError, err)
	}
	return staff, nil
}

func (r *staffRepository) GetStaffByID(id int64) (*models.Staff, error) {
	query := `SELECT ` + staffSelectColumns + ` FROM staff s WHERE s.id = $1`
	staff, err := scanStaffRow(r.db.QueryRow(query, id))
	if err != nil {
		return nil, err
	}

	schedule, err := r.GetWeeklySchedule(id)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return nil, err
	}
	staff.WeeklySchedule = schedule
	return staff, nil
}

func (r *staffRepository) GetStaff(filters models.StaffFilters) ([]models.Staff, int, error) {
	staffList := []models.Staff{}
	totalCount := 0

	var queryBuilder strings.Builder
	queryBuilder.WriteString(`SELECT ` + staffSelectColumns + `, COUNT(*) OVER() as total_count FROM staff s`)

	var conditions []string
	var args []interface{}
	argCount := 1

	if filters.SearchTerm != nil && *filters.SearchTerm != "" {
		pattern := "%" + strings.ToLower(*filters.SearchTerm) + "%"
		conditions = append(conditions, fmt.Sprintf(
			"(LOWER(s.name) LIKE $%d OR LOWER(s.staff_code) LIKE $%d OR s.phone LIKE $%d)", argCount, argCount, argCount))
		args = append(args, pattern)
		argCount++
	}
	if filters.Status != nil && *filters.Status != "" {
		conditions = append(conditions, fmt.Sprintf("s.status = $%d", argCount))
		args = append(args, *filters.Status)
		argCount++
	}

	if len(conditions) > 0 {
		queryBuilder.WriteString(" WHERE " + strings.Join(conditions, " AND "))
	}
	queryBuilder.WriteString(" ORDER BY s.staff_code ASC")

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
		return nil, 0, fmt.Errorf("%w: querying staff: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var s models.Staff
		var email, photoURL sql.NullString
		var salary sql.NullFloat64
		var rowTotal int

		if err := rows.Scan(
			&s.ID, &s.StaffCode, &s.Name, &s.Role, &s.Phone, &email,
			&s.JoinDate, &salary, &photoURL, &s.Status, &s.CreatedAt, &s.UpdatedAt,
			&rowTotal,
		); err != nil {
			return nil, 0, fmt.Errorf("%w: scanning staff from list: %v", ErrDatabaseError, err)
		}
		totalCount = rowTotal

		if email.Valid {
			s.Email = &email.String
		}
		if salary.Valid {
			s.Salary = &salary.Float64
		}
		if photoURL.Valid {
			s.PhotoURL = &photoURL.String
		}
		staffList = append(staffList, s)
		ids = append(ids, s.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("%w: iterating staff rows: %v", ErrDatabaseError, err)
	}

	if err := r.attachSchedules(staffList, ids); err != nil {
		return nil, 0, err
	}
	return staffList, totalCount, nil
}

// GetActiveStaffWithSchedules loads all active staff and their weekly
// schedules in one pass, for the duty status board.
func (r *staffRepository) GetActiveStaffWithSchedules() ([]models.Staff, error) {
	staffList := []models.Staff{}
	query := `SELECT ` + staffSelectColumns + ` FROM staff s WHERE s.status = $1 ORDER BY s.staff_code ASC`

	rows, err := r.db.Query(query, models.StaffStatusActive)
	if err != nil {
		return nil, fmt.Errorf("%w: querying active staff: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		s, err := scanStaffRow(rows)
		if err != nil {
			return nil, err
		}
		staffList = append(staffList, *s)
		ids = append(ids, s.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating active staff rows: %v", ErrDatabaseError, err)
	}

	if err := r.attachSchedules(staffList, ids); err != nil {
		return nil, err
	}
	return staffList, nil
}

// attachSchedules fills WeeklySchedule for each staff entry using a
// single query over the schedule rows.
func (r *staffRepository) attachSchedules(staffList []models.Staff, ids []int64) error {
	if len(ids) == 0 {
		return nil
	}

	rows, err := r.db.Query(
		`SELECT staff_id, weekday, working, start_time, end_time, shift
		 FROM staff_weekly_schedule WHERE staff_id = ANY($1)`,
		pq.Array(ids),
	)
	if err != nil {
		return fmt.Errorf("%w: querying weekly schedules: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	schedules := make(map[int64]*scheduling.WeeklySchedule)
	for rows.Next() {
		var staffID int64
		var weekday, startTime, endTime, shift string
		var working bool
		if err := rows.Scan(&staffID, &weekday, &working, &startTime, &endTime, &shift); err != nil {
			return fmt.Errorf("%w: scanning schedule row: %v", ErrDatabaseError, err)
		}
		ws, ok := schedules[staffID]
		if !ok {
			defaultWS := scheduling.DefaultWeeklySchedule()
			ws = &defaultWS
			schedules[staffID] = ws
		}
		ws.SetDay(weekday, scheduling.DailySchedule{
			Working: working,
			Start:   startTime,
			End:     endTime,
			Shift:   scheduling.ShiftType(shift),
		})
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("%w: iterating schedule rows: %v", ErrDatabaseError, err)
	}

	for i := range staffList {
		if ws, ok := schedules[staffList[i].ID]; ok {
			staffList[i].WeeklySchedule = ws
		}
	}
	return nil
}

func (r *staffRepository) UpdateStaff(executor SQLExecutor, staff *models.Staff) (*models.Staff, error) {
	query := `UPDATE staff SET
	            name = $1, role = $2, phone = $3, email = $4, join_date = $5,
	            salary = $6, photo_url = $7, status = $8, updated_at = $9
	          WHERE id = $10
	          RETURNING updated_at`

	staff.UpdatedAt = time.Now()
	err := executor.QueryRow(query,
		staff.Name, staff.Role, staff.Phone, staff.Email, staff.JoinDate,
		staff.Salary, staff.PhotoURL, staff.Status, staff.UpdatedAt, staff.ID,
	).Scan(&staff.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: updating staff ID %d: %v", ErrDatabaseError, staff.ID, err)
	}
	return staff, nil
}

// DeactivateStaff is the staff delete: the row stays so attendance
// history keeps a valid owner.
func (r *staffRepository) DeactivateStaff(executor SQLExecutor, id int64) error {
	result, err := executor.Exec(
		`UPDATE staff SET status = $1, updated_at = $2 WHERE id = $3`,
		models.StaffStatusInactive, time.Now(), id,
	)
	if err != nil {
		return fmt.Errorf("%w: deactivating staff ID %d: %v", ErrDatabaseError, id, err)
	}
	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// NextStaffCode generates the next sequential code in the S001 format.
func (r *staffRepository) NextStaffCode() (string, error) {
	var maxCode sql.NullString
	err := r.db.QueryRow(
		`SELECT MAX(staff_code) FROM staff WHERE staff_code ~ '^S[0-9]+$'`,
	).Scan(&maxCode)
	if err != nil {
		return "", fmt.Errorf("%w: finding max staff code: %v", ErrDatabaseError, err)
	}

	next := 1
	if maxCode.Valid {
		var current int
		if _, err := fmt.Sscanf(maxCode.String, "S%d", &current); err == nil {
			next = current + 1
		}
	}
	return fmt.Sprintf("S%03d", next), nil
}

func (r *staffRepository) GetWeeklySchedule(staffID int64) (*scheduling.WeeklySchedule, error) {
	rows, err := r.db.Query(
		`SELECT weekday, working, start_time, end_time, shift
		 FROM staff_weekly_schedule WHERE staff_id = $1`,
		staffID,
	)
	if err != nil {
		return nil, fmt.Errorf("%w: querying weekly schedule for staff ID %d: %v", ErrDatabaseError, staffID, err)
	}
	defer rows.Close()

	found := false
	ws := scheduling.DefaultWeeklySchedule()
	for rows.Next() {
		var weekday, startTime, endTime, shift string
		var working bool
		if err := rows.Scan(&weekday, &working, &startTime, &endTime, &shift); err != nil {
			return nil, fmt.Errorf("%w: scanning schedule row: %v", ErrDatabaseError, err)
		}
		found = true
		ws.SetDay(weekday, scheduling.DailySchedule{
			Working: working,
			Start:   startTime,
			End:     endTime,
			Shift:   scheduling.ShiftType(shift),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating schedule rows: %v", ErrDatabaseError, err)
	}
	if !found {
		return nil, ErrNotFound
	}
	return &ws, nil
}

// ReplaceWeeklySchedule rewrites all seven weekday rows for a staff
// member. Run it inside a transaction so readers never see a partial
// week.
func (r *staffRepository) ReplaceWeeklySchedule(executor SQLExecutor, staffID int64, schedule *scheduling.WeeklySchedule) error {
	if _, err := executor.Exec(`DELETE FROM staff_weekly_schedule WHERE staff_id = $1`, staffID); err != nil {
		return fmt.Errorf("%w: clearing weekly schedule for staff ID %d: %v", ErrDatabaseError, staffID, err)
	}

	query := `INSERT INTO staff_weekly_schedule (staff_id, weekday, working, start_time, end_time, shift)
	          VALUES ($1, $2, $3, $4, $5, $6)`
	for _, name := range scheduling.Weekdays {
		day := schedule.DayByName(name)
		if _, err := executor.Exec(query, staffID, name, day.Working, day.Start, day.End, string(day.Shift)); err != nil {
			var pqErr *pq.Error
			if errors.As(err, &pqErr) && pqErr.Code.Name() == "foreign_key_violation" {
				return fmt.Errorf("%w: staff ID %d for schedule", ErrNotFound, staffID)
			}
			return fmt.Errorf("%w: inserting schedule row %s for staff ID %d: %v", ErrDatabaseError, name, staffID, err)
		}
	}
	return nil
}
