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

// ErrOpenSessionExists is returned when a clock-in is attempted while
// the staff member already has a session without a clock-out.
var ErrOpenSessionExists = errors.New("staff member already has an open attendance session")

// AttendanceRepository defines staff attendance database operations.
type AttendanceRepository interface {
	CreateRecord(executor SQLExecutor, record *models.AttendanceRecord) (*models.AttendanceRecord, error)
	GetRecordByID(id int64) (*models.AttendanceRecord, error)
	FindOpenSession(executor SQLExecutor, staffID int64) (*models.AttendanceRecord, error)
	GetOpenSession(staffID int64) (*models.AttendanceRecord, error)
	CloseRecord(executor SQLExecutor, record *models.AttendanceRecord) (*models.AttendanceRecord, error)
	GetRecords(filters models.AttendanceFilters) ([]models.AttendanceRecord, int, error)
}

type attendanceRepository struct {
	db *sql.DB
}

// NewAttendanceRepository creates a new instance of AttendanceRepository.
func NewAttendanceRepository(db *sql.DB) AttendanceRepository {
	return &attendanceRepository{db: db}
}

const attendanceSelectColumns = `a.id, a.staff_id, to_char(a.date, 'YYYY-MM-DD') as date,
	    a.clock_in, a.clock_out, a.status, a.hours_worked, a.total_duration,
	    a.created_at, a.updated_at`

func scanAttendanceRow(row scanner) (*models.AttendanceRecord, error) {
	var rec models.AttendanceRecord
	var clockOut sql.NullTime
	var hoursWorked sql.NullFloat64
	var totalDuration sql.NullString

	err := row.Scan(
		&rec.ID, &rec.StaffID, &rec.Date, &rec.ClockIn, &clockOut,
		&rec.Status, &hoursWorked, &totalDuration, &rec.CreatedAt, &rec.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: scanning attendance record: %v", ErrDatabaseError, err)
	}

	if clockOut.Valid {
		rec.ClockOut = &clockOut.Time
	}
	if hoursWorked.Valid {
		rec.HoursWorked = &hoursWorked.Float64
	}
	if totalDuration.Valid {
		rec.TotalDuration = &totalDuration.String
	}
	return &rec, nil
}

// CreateRecord inserts a new open attendance session. The partial
// unique index on (staff_id) WHERE clock_out IS NULL turns a concurrent
// double clock-in into ErrOpenSessionExists.
func (r *attendanceRepository) CreateRecord(executor SQLExecutor, record *models.AttendanceRecord) (*models.AttendanceRecord, error) {
	query := `INSERT INTO staff_attendance (staff_id, date, clock_in, status, hours_worked, total_duration, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	          RETURNING id`

	now := time.Now()
	record.CreatedAt = now
	record.UpdatedAt = now

	err := executor.QueryRow(query,
		record.StaffID, record.Date, record.ClockIn, record.Status,
		record.HoursWorked, record.TotalDuration,
		record.CreatedAt, record.UpdatedAt,
	).Scan(&record.ID)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) {
			switch pqErr.Code.Name() {
			case "unique_violation":
				return nil, fmt.Errorf("%w: staff ID %d", ErrOpenSessionExists, record.StaffID)
			case "foreign_key_violation":
				return nil, fmt.Errorf("%w: staff ID %d for attendance", ErrNotFound, record.StaffID)
			}
		}
		return nil, fmt.Errorf("%w: creating attendance record: %v", ErrDatabaseError, err)
	}
	return record, nil
}

func (r *attendanceRepository) GetRecordByID(id int64) (*models.AttendanceRecord, error) {
	query := `SELECT ` + attendanceSelectColumns + ` FROM staff_attendance a WHERE a.id = $1`
	return scanAttendanceRow(r.db.QueryRow(query, id))
}

// FindOpenSession returns the staff member's session without a
// clock-out, locking the row when called inside a transaction.
func (r *attendanceRepository) FindOpenSession(executor SQLExecutor, staffID int64) (*models.AttendanceRecord, error) {
	query := `SELECT ` + attendanceSelectColumns + `
	          FROM staff_attendance a
	          WHERE a.staff_id = $1 AND a.clock_out IS NULL
	          ORDER BY a.clock_in DESC
	          LIMIT 1
	          FOR UPDATE`
	return scanAttendanceRow(executor.QueryRow(query, staffID))
}

// GetOpenSession is the read-only counterpart of FindOpenSession for
// status display. It takes no row lock and needs no transaction.
func (r *attendanceRepository) GetOpenSession(staffID int64) (*models.AttendanceRecord, error) {
	query := `SELECT ` + attendanceSelectColumns + `
	          FROM staff_attendance a
	          WHERE a.staff_id = $1 AND a.clock_out IS NULL
	          ORDER BY a.clock_in DESC
	          LIMIT 1`
	return scanAttendanceRow(r.db.QueryRow(query, staffID))
}

// CloseRecord writes the clock-out fields. Only an open record can be
// closed; a second close reports ErrNotFound.
func (r *attendanceRepository) CloseRecord(executor SQLExecutor, record *models.AttendanceRecord) (*models.AttendanceRecord, error) {
	query := `UPDATE staff_attendance
	          SET clock_out = $1, status = $2, hours_worked = $3, total_duration = $4, updated_at = $5
	          WHERE id = $6 AND clock_out IS NULL
	          RETURNING updated_at`

	record.UpdatedAt = time.Now()
	err := executor.QueryRow(query,
		record.ClockOut, record.Status, record.HoursWorked, record.TotalDuration,
		record.UpdatedAt, record.ID,
	).Scan(&record.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: closing attendance record ID %d: %v", ErrDatabaseError, record.ID, err)
	}
	return record, nil
}

func (r *attendanceRepository) GetRecords(filters models.AttendanceFilters) ([]models.AttendanceRecord, int, error) {
	records := []models.AttendanceRecord{}
	totalCount := 0

	var queryBuilder strings.Builder
	queryBuilder.WriteString(`SELECT ` + attendanceSelectColumns + `, s.name as staff_name,
	    COUNT(*) OVER() as total_count
	  FROM staff_attendance a
	  JOIN staff s ON a.staff_id = s.id`)

	var conditions []string
	var args []interface{}
	argCount := 1

	if filters.StaffID != nil {
		conditions = append(conditions, fmt.Sprintf("a.staff_id = $%d", argCount))
		args = append(args, *filters.StaffID)
		argCount++
	}
	if filters.DateFrom != nil && *filters.DateFrom != "" {
		conditions = append(conditions, fmt.Sprintf("a.date >= $%d", argCount))
		args = append(args, *filters.DateFrom)
		argCount++
	}
	if filters.DateTo != nil && *filters.DateTo != "" {
		conditions = append(conditions, fmt.Sprintf("a.date <= $%d", argCount))
		args = append(args, *filters.DateTo)
		argCount++
	}
	if filters.Status != nil && *filters.Status != "" {
		conditions = append(conditions, fmt.Sprintf("a.status = $%d", argCount))
		args = append(args, *filters.Status)
		argCount++
	}

	if len(conditions) > 0 {
		queryBuilder.WriteString(" WHERE " + strings.Join(conditions, " AND "))
	}
	queryBuilder.WriteString(" ORDER BY a.clock_in DESC")

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
		return nil, 0, fmt.Errorf("%w: querying attendance records: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	for rows.Next() {
		var rec models.AttendanceRecord
		var clockOut sql.NullTime
		var hoursWorked sql.NullFloat64
		var totalDuration sql.NullString
		var staffName string
		var rowTotal int

		if err := rows.Scan(
			&rec.ID, &rec.StaffID, &rec.Date, &rec.ClockIn, &clockOut,
			&rec.Status, &hoursWorked, &totalDuration, &rec.CreatedAt, &rec.UpdatedAt,
			&staffName, &rowTotal,
		); err != nil {
			return nil, 0, fmt.Errorf("%w: scanning attendance from list: %v", ErrDatabaseError, err)
		}
		totalCount = rowTotal

		if clockOut.Valid {
			rec.ClockOut = &clockOut.Time
		}
		if hoursWorked.Valid {
			rec.HoursWorked = &hoursWorked.Float64
		}
		if totalDuration.Valid {
			rec.TotalDuration = &totalDuration.String
		}
		rec.StaffName = &staffName
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("%w: iterating attendance rows: %v", ErrDatabaseError, err)
	}
	return records, totalCount, nil
}
