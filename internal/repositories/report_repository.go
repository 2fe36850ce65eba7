package repositories

import (
	"database/sql"
	"fmt"

	"power_gym_backend/internal/models"
)

// ReportRepository runs the aggregate queries behind the dashboard and
// the report endpoints.
type ReportRepository interface {
	CountMembersByEndDate(today string, expiringCutoff string) (active int, expiringSoon int, err error)
	RevenueBetween(start, end string) (float64, error)
	CountLowStockProducts() (int, error)
	GetSalesReport(params models.ReportRequestParams) ([]models.SalesReportRow, error)
	GetPaymentMethodBreakdown(params models.ReportRequestParams) ([]models.PaymentMethodRow, error)
	GetAttendanceSummary(params models.ReportRequestParams) ([]models.AttendanceSummaryRow, error)
}

type reportRepository struct {
	db *sql.DB
}

// NewReportRepository creates a new instance of ReportRepository.
func NewReportRepository(db *sql.DB) ReportRepository {
	return &reportRepository{db: db}
}

// CountMembersByEndDate buckets members with a membership into active
// (end date today or later) and expiring soon (within the cutoff).
func (r *reportRepository) CountMembersByEndDate(today string, expiringCutoff string) (int, int, error) {
	var active, expiringSoon int
	err := r.db.QueryRow(
		`SELECT
		   COUNT(*) FILTER (WHERE end_date >= $1),
		   COUNT(*) FILTER (WHERE end_date >= $1 AND end_date <= $2)
		 FROM members
		 WHERE end_date IS NOT NULL`,
		today, expiringCutoff,
	).Scan(&active, &expiringSoon)
	if err != nil {
		return 0, 0, fmt.Errorf("%w: counting members by end date: %v", ErrDatabaseError, err)
	}
	return active, expiringSoon, nil
}

func (r *reportRepository) RevenueBetween(start, end string) (float64, error) {
	var total float64
	err := r.db.QueryRow(
		`SELECT COALESCE(SUM(total), 0) FROM transactions WHERE date::date >= $1 AND date::date <= $2`,
		start, end,
	).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("%w: summing revenue: %v", ErrDatabaseError, err)
	}
	return total, nil
}

func (r *reportRepository) CountLowStockProducts() (int, error) {
	var count int
	err := r.db.QueryRow(
		`SELECT COUNT(*) FROM products WHERE is_active = TRUE AND stock <= low_stock_threshold`,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("%w: counting low stock products: %v", ErrDatabaseError, err)
	}
	return count, nil
}

func (r *reportRepository) GetSalesReport(params models.ReportRequestParams) ([]models.SalesReportRow, error) {
	format := "YYYY-MM-DD"
	if params.Period == "monthly" {
		format = "YYYY-MM"
	}

	query := `SELECT to_char(date, $1) as period, COUNT(*) as transaction_count, COALESCE(SUM(total), 0) as total
	          FROM transactions
	          WHERE date::date >= $2 AND date::date <= $3
	          GROUP BY period
	          ORDER BY period ASC`

	rows, err := r.db.Query(query, format, params.StartDate, params.EndDate)
	if err != nil {
		return nil, fmt.Errorf("%w: querying sales report: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	report := []models.SalesReportRow{}
	for rows.Next() {
		var row models.SalesReportRow
		if err := rows.Scan(&row.Period, &row.TransactionCount, &row.Total); err != nil {
			return nil, fmt.Errorf("%w: scanning sales report row: %v", ErrDatabaseError, err)
		}
		report = append(report, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating sales report rows: %v", ErrDatabaseError, err)
	}
	return report, nil
}

func (r *reportRepository) GetPaymentMethodBreakdown(params models.ReportRequestParams) ([]models.PaymentMethodRow, error) {
	query := `SELECT payment_method, COUNT(*) as transaction_count, COALESCE(SUM(total), 0) as total
	          FROM transactions
	          WHERE date::date >= $1 AND date::date <= $2
	          GROUP BY payment_method
	          ORDER BY total DESC`

	rows, err := r.db.Query(query, params.StartDate, params.EndDate)
	if err != nil {
		return nil, fmt.Errorf("%w: querying payment breakdown: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	breakdown := []models.PaymentMethodRow{}
	for rows.Next() {
		var row models.PaymentMethodRow
		if err := rows.Scan(&row.PaymentMethod, &row.TransactionCount, &row.Total); err != nil {
			return nil, fmt.Errorf("%w: scanning payment breakdown row: %v", ErrDatabaseError, err)
		}
		breakdown = append(breakdown, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating payment breakdown rows: %v", ErrDatabaseError, err)
	}
	return breakdown, nil
}

func (r *reportRepository) GetAttendanceSummary(params models.ReportRequestParams) ([]models.AttendanceSummaryRow, error) {
	query := `SELECT s.id, s.name,
	            COUNT(DISTINCT a.date) as days_present,
	            COUNT(*) FILTER (WHERE a.status = 'Late') as late_count,
	            COALESCE(SUM(a.hours_worked), 0) as total_hours,
	            COUNT(*) FILTER (WHERE a.clock_out IS NULL) as open_session_days
	          FROM staff_attendance a
	          JOIN staff s ON a.staff_id = s.id
	          WHERE a.date >= $1 AND a.date <= $2`

	args := []interface{}{params.StartDate, params.EndDate}
	if params.StaffID != nil {
		query += " AND a.staff_id = $3"
		args = append(args, *params.StaffID)
	}
	query += " GROUP BY s.id, s.name ORDER BY s.name ASC"

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: querying attendance summary: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	summary := []models.AttendanceSummaryRow{}
	for rows.Next() {
		var row models.AttendanceSummaryRow
		if err := rows.Scan(
			&row.StaffID, &row.StaffName, &row.DaysPresent,
			&row.LateCount, &row.TotalHours, &row.OpenSessionDays,
		); err != nil {
			return nil, fmt.Errorf("%w: scanning attendance summary row: %v", ErrDatabaseError, err)
		}
		summary = append(summary, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating attendance summary rows: %v", ErrDatabaseError, err)
	}
	return summary, nil
}
