package models

import "time"

// Attendance statuses. Working and Late mark an open session; Completed
// marks a closed one. Absent and Early Leave exist for manual records
// and filters but are never set by the clock-in/clock-out flow.
const (
	AttendanceStatusWorking    = "Working"
	AttendanceStatusLate       = "Late"
	AttendanceStatusCompleted  = "Completed"
	AttendanceStatusAbsent     = "Absent"
	AttendanceStatusEarlyLeave = "Early Leave"
)

// AttendanceRecord is one shift instance for a staff member. It is
// created by clock-in and mutated exactly once by clock-out; every
// other field is frozen after creation.
type AttendanceRecord struct {
	ID            int64      `json:"id" db:"id"`
	StaffID       int64      `json:"staff_id" db:"staff_id"`
	Date          string     `json:"date" db:"date"` // business date, fixed at clock-in
	ClockIn       time.Time  `json:"clock_in" db:"clock_in"`
	ClockOut      *time.Time `json:"clock_out,omitempty" db:"clock_out"`
	Status        string     `json:"status" db:"status"`
	HoursWorked   *float64   `json:"hours_worked,omitempty" db:"hours_worked"`
	TotalDuration *string    `json:"total_duration,omitempty" db:"total_duration"` // e.g. "8h 15m"
	CreatedAt     time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at" db:"updated_at"`

	StaffName *string `json:"staff_name,omitempty"` // joined staff display name
}

// IsOpen reports whether the record is an in-progress shift.
func (r *AttendanceRecord) IsOpen() bool {
	return r.ClockOut == nil
}

// AttendanceFilters narrows attendance listing.
type AttendanceFilters struct {
	StaffID  *int64
	DateFrom *string // YYYY-MM-DD, inclusive
	DateTo   *string // YYYY-MM-DD, inclusive
	Status   *string
	Page     int
	PageSize int
}
