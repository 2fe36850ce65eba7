package models

import (
	"time"

	"power_gym_backend/internal/scheduling"
)

// Staff status values.
const (
	StaffStatusActive   = "Active"
	StaffStatusInactive = "Inactive"
)

// Staff represents an employee. Removal is a soft delete: the record
// stays with status Inactive so attendance history keeps its owner.
type Staff struct {
	ID        int64     `json:"id" db:"id"`
	StaffCode string    `json:"staff_code" db:"staff_code"` // e.g. S001
	Name      string    `json:"name" db:"name"`
	Role      string    `json:"role" db:"role"`
	Phone     string    `json:"phone" db:"phone"`
	Email     *string   `json:"email,omitempty" db:"email"`
	JoinDate  string    `json:"join_date" db:"join_date"` // YYYY-MM-DD
	Salary    *float64  `json:"salary,omitempty" db:"salary"`
	PhotoURL  *string   `json:"photo_url,omitempty" db:"photo_url"`
	Status    string    `json:"status" db:"status"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`

	// WeeklySchedule is nil when the staff member has no schedule set;
	// the duty evaluator reads that as off duty every day.
	WeeklySchedule *scheduling.WeeklySchedule `json:"weekly_schedule,omitempty"`
}

// StaffFilters narrows staff listing.
type StaffFilters struct {
	SearchTerm *string
	Status     *string
	Page       int
	PageSize   int
}
