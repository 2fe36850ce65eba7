package models

import "time"

// Check-in methods.
const (
	CheckInMethodQR     = "QR"
	CheckInMethodManual = "Manual"
	CheckInMethodSearch = "Search"
)

// CheckIn records a member entering (and optionally leaving) the gym.
type CheckIn struct {
	ID           int64      `json:"id" db:"id"`
	MemberID     int64      `json:"member_id" db:"member_id"`
	CheckInTime  time.Time  `json:"check_in_time" db:"check_in_time"`
	CheckOutTime *time.Time `json:"check_out_time,omitempty" db:"check_out_time"`
	Method       string     `json:"method" db:"method"`
	CreatedAt    time.Time  `json:"created_at" db:"created_at"`

	Member *Member `json:"member,omitempty"` // joined member details
}
