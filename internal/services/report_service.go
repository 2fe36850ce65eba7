package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"power_gym_backend/internal/cache"
	"power_gym_backend/internal/models"
	"power_gym_backend/internal/repositories"
)

const (
	dashboardCacheKey = "reports:dashboard"
	dashboardCacheTTL = 60 * time.Second
)

// ReportService produces the dashboard summary and the report
// endpoints. The dashboard is cached briefly; it is read on every
// front-desk screen refresh and tolerates a minute of staleness.
type ReportService struct {
	reportRepo  repositories.ReportRepository
	checkInRepo repositories.CheckInRepository
	attendance  *AttendanceService
	cache       *cache.Cache

	clock func() time.Time
}

// NewReportService creates a new ReportService.
func NewReportService(
	reportRepo repositories.ReportRepository,
	checkInRepo repositories.CheckInRepository,
	attendance *AttendanceService,
	c *cache.Cache,
) *ReportService {
	return &ReportService{
		reportRepo:  reportRepo,
		checkInRepo: checkInRepo,
		attendance:  attendance,
		cache:       c,
		clock:       time.Now,
	}
}

// DashboardSummary assembles the dashboard figures.
func (s *ReportService) DashboardSummary(ctx context.Context) (*models.DashboardSummary, error) {
	if cached, err := s.cache.Get(ctx, dashboardCacheKey); err == nil {
		var summary models.DashboardSummary
		if err := json.Unmarshal([]byte(cached), &summary); err == nil {
			return &summary, nil
		}
	}

	now := s.clock()
	today := now.Format("2006-01-02")
	cutoff := now.AddDate(0, 0, expiringSoonDays).Format("2006-01-02")
	weekStart := now.AddDate(0, 0, -6).Format("2006-01-02")
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location()).Format("2006-01-02")

	summary := &models.DashboardSummary{}

	active, expiring, err := s.reportRepo.CountMembersByEndDate(today, cutoff)
	if err != nil {
		return nil, err
	}
	summary.ActiveMembersCount = active
	summary.ExpiringSoonCount = expiring

	if summary.TodayCheckInsCount, err = s.checkInRepo.CountCheckInsOnDate(today); err != nil {
		return nil, err
	}
	if summary.TodayRevenue, err = s.reportRepo.RevenueBetween(today, today); err != nil {
		return nil, err
	}
	if summary.WeekRevenue, err = s.reportRepo.RevenueBetween(weekStart, today); err != nil {
		return nil, err
	}
	if summary.MonthRevenue, err = s.reportRepo.RevenueBetween(monthStart, today); err != nil {
		return nil, err
	}
	if summary.LowStockProductCount, err = s.reportRepo.CountLowStockProducts(); err != nil {
		return nil, err
	}

	onDuty, err := s.attendance.OnDutyStaff()
	if err != nil {
		return nil, err
	}
	summary.OnDutyStaffCount = len(onDuty)

	if payload, err := json.Marshal(summary); err == nil {
		s.cache.Set(ctx, dashboardCacheKey, string(payload), dashboardCacheTTL)
	}
	return summary, nil
}

func validateReportRange(params *models.ReportRequestParams) error {
	if params.StartDate == "" || params.EndDate == "" {
		return fmt.Errorf("%w: start_date and end_date are required", ErrValidation)
	}
	start, err := time.Parse("2006-01-02", params.StartDate)
	if err != nil {
		return fmt.Errorf("%w: invalid start_date", ErrValidation)
	}
	end, err := time.Parse("2006-01-02", params.EndDate)
	if err != nil {
		return fmt.Errorf("%w: invalid end_date", ErrValidation)
	}
	if end.Before(start) {
		return fmt.Errorf("%w: end_date before start_date", ErrValidation)
	}
	if params.Period == "" {
		params.Period = "daily"
	}
	if params.Period != "daily" && params.Period != "monthly" {
		return fmt.Errorf("%w: period must be daily or monthly", ErrValidation)
	}
	return nil
}

// SalesReport buckets revenue by day or month over a date range.
func (s *ReportService) SalesReport(params models.ReportRequestParams) ([]models.SalesReportRow, error) {
	if err := validateReportRange(&params); err != nil {
		return nil, err
	}
	return s.reportRepo.GetSalesReport(params)
}

// PaymentMethodBreakdown aggregates revenue per payment method.
func (s *ReportService) PaymentMethodBreakdown(params models.ReportRequestParams) ([]models.PaymentMethodRow, error) {
	if err := validateReportRange(&params); err != nil {
		return nil, err
	}
	return s.reportRepo.GetPaymentMethodBreakdown(params)
}

// AttendanceSummary aggregates staff attendance over a date range.
func (s *ReportService) AttendanceSummary(params models.ReportRequestParams) ([]models.AttendanceSummaryRow, error) {
	if err := validateReportRange(&params); err != nil {
		return nil, err
	}
	return s.reportRepo.GetAttendanceSummary(params)
}
