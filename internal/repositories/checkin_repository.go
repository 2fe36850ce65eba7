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

// CheckInRepository defines member check-in database operations.
type CheckInRepository interface {
	CreateCheckIn(executor SQLExecutor, checkIn *models.CheckIn) (*models.CheckIn, error)
	CheckOut(executor SQLExecutor, id int64, checkOutTime time.Time) error
	GetCheckIns(memberID *int64, dateFrom, dateTo *string, page, pageSize int) ([]models.CheckIn, int, error)
	CountCheckInsOnDate(date string) (int, error)
}

type checkInRepository struct {
	db *sql.DB
}

// NewCheckInRepository creates a new instance of CheckInRepository.
func NewCheckInRepository(db *sql.DB) CheckInRepository {
	return &checkInRepository{db: db}
}

func (r *checkInRepository) CreateCheckIn(executor SQLExecutor, checkIn *models.CheckIn) (*models.CheckIn, error) {
	query := `INSERT INTO check_ins (member_id, check_in_time, check_out_time, method, created_at)
	          VALUES ($1, $2, $3, $4, $5)
	          RETURNING id`

	checkIn.CreatedAt = time.Now()
	if checkIn.CheckInTime.IsZero() {
		checkIn.CheckInTime = checkIn.CreatedAt
	}

	err := executor.QueryRow(query,
		checkIn.MemberID, checkIn.CheckInTime, checkIn.CheckOutTime, checkIn.Method, checkIn.CreatedAt,
	).Scan(&checkIn.ID)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "foreign_key_violation" {
			return nil, fmt.Errorf("%w: member ID %d for check-in", ErrNotFound, checkIn.MemberID)
		}
		return nil, fmt.Errorf("%w: creating check-in: %v", ErrDatabaseError, err)
	}
	return checkIn, nil
}

func (r *checkInRepository) CheckOut(executor SQLExecutor, id int64, checkOutTime time.Time) error {
	result, err := executor.Exec(
		`UPDATE check_ins SET check_out_time = $1 WHERE id = $2 AND check_out_time IS NULL`,
		checkOutTime, id,
	)
	if err != nil {
		return fmt.Errorf("%w: checking out check-in ID %d: %v", ErrDatabaseError, id, err)
	}
	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *checkInRepository) GetCheckIns(memberID *int64, dateFrom, dateTo *string, page, pageSize int) ([]models.CheckIn, int, error) {
	checkIns := []models.CheckIn{}
	totalCount := 0

	var queryBuilder strings.Builder
	queryBuilder.WriteString(`SELECT ci.id, ci.member_id, ci.check_in_time, ci.check_out_time, ci.method, ci.created_at,
	    m.member_code, m.full_name_en, COUNT(*) OVER() as total_count
	  FROM check_ins ci
	  JOIN members m ON ci.member_id = m.id`)

	var conditions []string
	var args []interface{}
	argCount := 1

	if memberID != nil {
		conditions = append(conditions, fmt.Sprintf("ci.member_id = $%d", argCount))
		args = append(args, *memberID)
		argCount++
	}
	if dateFrom != nil && *dateFrom != "" {
		conditions = append(conditions, fmt.Sprintf("ci.check_in_time::date >= $%d", argCount))
		args = append(args, *dateFrom)
		argCount++
	}
	if dateTo != nil && *dateTo != "" {
		conditions = append(conditions, fmt.Sprintf("ci.check_in_time::date <= $%d", argCount))
		args = append(args, *dateTo)
		argCount++
	}

	if len(conditions) > 0 {
		queryBuilder.WriteString(" WHERE " + strings.Join(conditions, " AND "))
	}
	queryBuilder.WriteString(" ORDER BY ci.check_in_time DESC")

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
		return nil, 0, fmt.Errorf("%w: querying check-ins: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	for rows.Next() {
		var ci models.CheckIn
		var checkOutTime sql.NullTime
		var memberCode, memberName string
		var rowTotal int

		if err := rows.Scan(
			&ci.ID, &ci.MemberID, &ci.CheckInTime, &checkOutTime, &ci.Method, &ci.CreatedAt,
			&memberCode, &memberName, &rowTotal,
		); err != nil {
			return nil, 0, fmt.Errorf("%w: scanning check-in: %v", ErrDatabaseError, err)
		}
		totalCount = rowTotal

		if checkOutTime.Valid {
			ci.CheckOutTime = &checkOutTime.Time
		}
		ci.Member = &models.Member{ID: ci.MemberID, MemberCode: memberCode, FullNameEN: memberName}
		checkIns = append(checkIns, ci)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("%w: iterating check-in rows: %v", ErrDatabaseError, err)
	}
	return checkIns, totalCount, nil
}

func (r *checkInRepository) CountCheckInsOnDate(date string) (int, error) {
	var count int
	err := r.db.QueryRow(`SELECT COUNT(*) FROM check_ins WHERE check_in_time::date = $1`, date).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("%w: counting check-ins for %s: %v", ErrDatabaseError, date, err)
	}
	return count, nil
}
