package services

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"power_gym_backend/internal/models"
	"power_gym_backend/internal/repositories"
	"power_gym_backend/internal/scheduling"
)

// StaffDutyStatus pairs a staff member with their live duty state.
type StaffDutyStatus struct {
	StaffID    int64                 `json:"staff_id"`
	StaffCode  string                `json:"staff_code"`
	Name       string                `json:"name"`
	Role       string                `json:"role"`
	DutyStatus scheduling.DutyStatus `json:"duty_status"`

	// OpenSession is set when the staff member is currently clocked in.
	OpenSession *models.AttendanceRecord `json:"open_session,omitempty"`
}

// AttendanceService handles staff clock-in/clock-out and duty status.
//
// Clock-in opens a session with status Working, or Late when the
// clock-in lands more than the grace period after the scheduled start.
// Clock-out closes the session exactly once, stamping hours worked and
// a duration label. At most one session per staff member can be open;
// both a service check and a partial unique index enforce it.
type AttendanceService struct {
	attendanceRepo repositories.AttendanceRepository
	staffRepo      repositories.StaffRepository

	begin beginFunc
	clock func() time.Time
}

// NewAttendanceService creates a new AttendanceService.
func NewAttendanceService(attendanceRepo repositories.AttendanceRepository, staffRepo repositories.StaffRepository, db *sql.DB) *AttendanceService {
	return &AttendanceService{
		attendanceRepo: attendanceRepo,
		staffRepo:      staffRepo,
		begin:          sqlBeginner(db),
		clock:          time.Now,
	}
}

// ClockIn opens an attendance session for the staff member. The
// business date is fixed now and never recomputed, so a shift that
// runs past midnight stays attributed to the day it started.
func (s *AttendanceService) ClockIn(staffID int64) (*models.AttendanceRecord, error) {
	staff, err := s.staffRepo.GetStaffByID(staffID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, fmt.Errorf("%w: staff ID %d", ErrNotFound, staffID)
		}
		return nil, err
	}
	if staff.Status != models.StaffStatusActive {
		return nil, fmt.Errorf("%w: staff ID %d", ErrStaffInactive, staffID)
	}

	now := s.clock()
	status := models.AttendanceStatusWorking
	if scheduling.ClassifyClockIn(staff.WeeklySchedule, now) == scheduling.Late {
		status = models.AttendanceStatusLate
	}

	tx, err := s.begin()
	if err != nil {
		return nil, fmt.Errorf("starting clock-in: %w", err)
	}
	defer tx.Rollback()

	if _, err := s.attendanceRepo.FindOpenSession(tx, staffID); err == nil {
		return nil, fmt.Errorf("%w: staff ID %d", ErrSessionAlreadyOpen, staffID)
	} else if !errors.Is(err, repositories.ErrNotFound) {
		return nil, err
	}

	// A fresh session starts with zeroed totals, not NULLs, so list
	// views and the clock-in response render without special cases.
	zeroHours := 0.0
	zeroLabel := scheduling.FormatDuration(0)
	record := &models.AttendanceRecord{
		StaffID:       staffID,
		Date:          now.Format("2006-01-02"),
		ClockIn:       now,
		Status:        status,
		HoursWorked:   &zeroHours,
		TotalDuration: &zeroLabel,
	}
	created, err := s.attendanceRepo.CreateRecord(tx, record)
	if err != nil {
		if errors.Is(err, repositories.ErrOpenSessionExists) {
			return nil, fmt.Errorf("%w: staff ID %d", ErrSessionAlreadyOpen, staffID)
		}
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing clock-in: %w", err)
	}
	staffClockInsTotal.WithLabelValues(status).Inc()
	created.StaffName = &staff.Name
	return created, nil
}

// ClockOut closes the staff member's open session. Hours worked are
// the clock-in to clock-out difference rounded to two decimal places;
// the duration label is the same difference as "Xh Ym". Without an
// open session this is an error, not a no-op, so a double tap on the
// clock-out button is visible to the caller.
func (s *AttendanceService) ClockOut(staffID int64) (*models.AttendanceRecord, error) {
	tx, err := s.begin()
	if err != nil {
		return nil, fmt.Errorf("starting clock-out: %w", err)
	}
	defer tx.Rollback()

	record, err := s.attendanceRepo.FindOpenSession(tx, staffID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, fmt.Errorf("%w: staff ID %d", ErrNoOpenSession, staffID)
		}
		return nil, err
	}

	closed, err := s.closeOpenRecord(tx, record)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing clock-out: %w", err)
	}
	return closed, nil
}

// closeOpenRecord stamps the clock-out fields on an open record. The
// update is keyed on the record ID with clock_out still NULL, so a
// record closed concurrently surfaces as ErrNoOpenSession instead of
// touching another session.
func (s *AttendanceService) closeOpenRecord(tx repositories.SQLExecutor, record *models.AttendanceRecord) (*models.AttendanceRecord, error) {
	now := s.clock()
	worked := now.Sub(record.ClockIn)
	if worked < 0 {
		worked = 0
	}
	hours := scheduling.RoundHours(worked)
	label := scheduling.FormatDuration(worked)

	record.ClockOut = &now
	record.Status = models.AttendanceStatusCompleted
	record.HoursWorked = &hours
	record.TotalDuration = &label

	closed, err := s.attendanceRepo.CloseRecord(tx, record)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, fmt.Errorf("%w: attendance record ID %d", ErrNoOpenSession, record.ID)
		}
		return nil, err
	}
	return closed, nil
}

// ClockOutRecord closes a specific attendance record by ID. The close
// targets the named record, never whatever session its staff member
// happens to have open at that moment.
func (s *AttendanceService) ClockOutRecord(recordID int64) (*models.AttendanceRecord, error) {
	record, err := s.attendanceRepo.GetRecordByID(recordID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, fmt.Errorf("%w: attendance record ID %d", ErrNotFound, recordID)
		}
		return nil, err
	}
	if !record.IsOpen() {
		return nil, fmt.Errorf("%w: record ID %d is already closed", ErrNoOpenSession, recordID)
	}

	tx, err := s.begin()
	if err != nil {
		return nil, fmt.Errorf("starting clock-out: %w", err)
	}
	defer tx.Rollback()

	closed, err := s.closeOpenRecord(tx, record)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing clock-out: %w", err)
	}
	return closed, nil
}

// GetOpenSession returns the staff member's current open session, or
// ErrNoOpenSession. Read-only, no transaction and no row lock, so the
// duty board can call it freely.
func (s *AttendanceService) GetOpenSession(staffID int64) (*models.AttendanceRecord, error) {
	record, err := s.attendanceRepo.GetOpenSession(staffID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, fmt.Errorf("%w: staff ID %d", ErrNoOpenSession, staffID)
		}
		return nil, err
	}
	return record, nil
}

// ListAttendance returns a page of attendance records.
func (s *AttendanceService) ListAttendance(filters models.AttendanceFilters) ([]models.AttendanceRecord, int, error) {
	if filters.Page < 1 {
		filters.Page = 1
	}
	if filters.PageSize < 1 || filters.PageSize > 100 {
		filters.PageSize = 20
	}
	return s.attendanceRepo.GetRecords(filters)
}

// DutyStatusFor derives the live duty status of one staff member.
func (s *AttendanceService) DutyStatusFor(staffID int64) (*StaffDutyStatus, error) {
	staff, err := s.staffRepo.GetStaffByID(staffID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, fmt.Errorf("%w: staff ID %d", ErrNotFound, staffID)
		}
		return nil, err
	}
	entry := s.dutyEntry(staff)
	return &entry, nil
}

// DutyBoard derives the duty status of every active staff member.
func (s *AttendanceService) DutyBoard() ([]StaffDutyStatus, error) {
	staffList, err := s.staffRepo.GetActiveStaffWithSchedules()
	if err != nil {
		return nil, err
	}
	board := make([]StaffDutyStatus, 0, len(staffList))
	for i := range staffList {
		board = append(board, s.dutyEntry(&staffList[i]))
	}
	return board, nil
}

// OnDutyStaff filters the duty board down to staff currently on duty.
func (s *AttendanceService) OnDutyStaff() ([]StaffDutyStatus, error) {
	board, err := s.DutyBoard()
	if err != nil {
		return nil, err
	}
	onDuty := []StaffDutyStatus{}
	for _, entry := range board {
		if entry.DutyStatus == scheduling.OnDuty {
			onDuty = append(onDuty, entry)
		}
	}
	return onDuty, nil
}

func (s *AttendanceService) dutyEntry(staff *models.Staff) StaffDutyStatus {
	entry := StaffDutyStatus{
		StaffID:    staff.ID,
		StaffCode:  staff.StaffCode,
		Name:       staff.Name,
		Role:       staff.Role,
		DutyStatus: scheduling.CurrentDutyStatus(staff.WeeklySchedule, s.clock()),
	}
	if open, err := s.GetOpenSession(staff.ID); err == nil {
		entry.OpenSession = open
	}
	return entry
}
