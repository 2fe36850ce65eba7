package scheduling

import (
	"fmt"
	"math"
	"time"
)

// ShiftDurationHours returns the length of a scheduled shift in hours.
// An end at or before the start is treated as an overnight shift and
// rolled into the next day, so 22:00-06:00 yields 8.
func ShiftDurationHours(start, end string) float64 {
	startMin, err := parseMinutes(start)
	if err != nil {
		return 0
	}
	endMin, err := parseMinutes(end)
	if err != nil {
		return 0
	}
	if endMin <= startMin {
		endMin += 24 * 60
	}
	return float64(endMin-startMin) / 60
}

// RoundHours converts an elapsed duration to decimal hours rounded to
// two places, the shape stored in hours_worked.
func RoundHours(d time.Duration) float64 {
	return math.Round(d.Hours()*100) / 100
}

// FormatDuration renders an elapsed duration as the human label stored
// alongside an attendance record, e.g. "7h 53m".
func FormatDuration(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	hours := int(d / time.Hour)
	mins := int((d % time.Hour) / time.Minute)
	return fmt.Sprintf("%dh %dm", hours, mins)
}
