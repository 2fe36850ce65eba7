package models

// DashboardSummary aggregates the key figures shown on the dashboard.
type DashboardSummary struct {
	ActiveMembersCount   int     `json:"active_members_count"`
	ExpiringSoonCount    int     `json:"expiring_soon_count"`
	TodayCheckInsCount   int     `json:"today_check_ins_count"`
	TodayRevenue         float64 `json:"today_revenue"`
	WeekRevenue          float64 `json:"week_revenue"`
	MonthRevenue         float64 `json:"month_revenue"`
	OnDutyStaffCount     int     `json:"on_duty_staff_count"`
	LowStockProductCount int     `json:"low_stock_product_count"`
}

// SalesReportRow is one bucket of the sales report.
type SalesReportRow struct {
	Period           string  `json:"period"` // YYYY-MM-DD or YYYY-MM
	TransactionCount int     `json:"transaction_count"`
	Total            float64 `json:"total"`
}

// PaymentMethodRow aggregates sales per payment method.
type PaymentMethodRow struct {
	PaymentMethod    string  `json:"payment_method"`
	TransactionCount int     `json:"transaction_count"`
	Total            float64 `json:"total"`
}

// AttendanceSummaryRow aggregates attendance per staff member over a
// date range.
type AttendanceSummaryRow struct {
	StaffID         int64   `json:"staff_id"`
	StaffName       string  `json:"staff_name"`
	DaysPresent     int     `json:"days_present"`
	LateCount       int     `json:"late_count"`
	TotalHours      float64 `json:"total_hours"`
	OpenSessionDays int     `json:"open_session_days"`
}

// ReportRequestParams carries the common report query parameters.
type ReportRequestParams struct {
	StartDate string // YYYY-MM-DD
	EndDate   string // YYYY-MM-DD
	Period    string // daily, monthly
	StaffID   *int64
}
