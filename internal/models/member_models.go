package models

import "time"

// Member status values derived from the membership end date.
const (
	MemberStatusActive       = "Active"
	MemberStatusExpiringSoon = "Expiring Soon"
	MemberStatusExpired      = "Expired"
)

// MembershipType represents a purchasable membership plan.
type MembershipType struct {
	ID           int64     `json:"id" db:"id"`
	NameEN       string    `json:"name_en" db:"name_en" binding:"required"`
	NameMM       *string   `json:"name_mm,omitempty" db:"name_mm"`
	DurationDays int       `json:"duration_days" db:"duration_days" binding:"required,gt=0"`
	Price        float64   `json:"price" db:"price" binding:"required,gte=0"`
	Description  *string   `json:"description,omitempty" db:"description"`
	ColorCode    *string   `json:"color_code,omitempty" db:"color_code"`
	IsActive     bool      `json:"is_active" db:"is_active"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}

// Member represents a gym member.
type Member struct {
	ID               int64     `json:"id" db:"id"`
	MemberCode       string    `json:"member_code" db:"member_code"` // e.g. GM001
	FullNameEN       string    `json:"full_name_en" db:"full_name_en"`
	FullNameMM       *string   `json:"full_name_mm,omitempty" db:"full_name_mm"`
	Phone            string    `json:"phone" db:"phone"`
	Email            *string   `json:"email,omitempty" db:"email"`
	NRC              *string   `json:"nrc,omitempty" db:"nrc"`
	DOB              *string   `json:"dob,omitempty" db:"dob"` // YYYY-MM-DD
	Gender           string    `json:"gender" db:"gender"`
	Address          *string   `json:"address,omitempty" db:"address"`
	EmergencyName    *string   `json:"emergency_name,omitempty" db:"emergency_name"`
	EmergencyPhone   *string   `json:"emergency_phone,omitempty" db:"emergency_phone"`
	PhotoURL         *string   `json:"photo_url,omitempty" db:"photo_url"`
	MembershipTypeID *int64    `json:"membership_type_id,omitempty" db:"membership_type_id"`
	StartDate        *string   `json:"start_date,omitempty" db:"start_date"` // YYYY-MM-DD
	EndDate          *string   `json:"end_date,omitempty" db:"end_date"`     // YYYY-MM-DD
	Status           string    `json:"status"`                               // derived, not stored
	JoinDate         string    `json:"join_date" db:"join_date"`
	Notes            *string   `json:"notes,omitempty" db:"notes"`
	CreatedAt        time.Time `json:"created_at" db:"created_at"`
	UpdatedAt        time.Time `json:"updated_at" db:"updated_at"`

	MembershipType *MembershipType `json:"membership_type,omitempty"` // joined plan details
}

// MemberFilters narrows member listing.
type MemberFilters struct {
	SearchTerm *string
	Status     *string
	Page       int
	PageSize   int
}
