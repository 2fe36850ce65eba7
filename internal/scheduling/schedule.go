// Package scheduling holds the staff scheduling model and the pure
// computations derived from it: duty status, late/on-time clock-in
// classification and shift duration math. Nothing in this package
// touches storage or the ambient clock; callers pass "now" explicitly.
package scheduling

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ShiftType is a descriptive label for a day's shift. It is used for
// display and grouping only; duty computations use start/end times.
type ShiftType string

const (
	ShiftMorning ShiftType = "Morning"
	ShiftEvening ShiftType = "Evening"
	ShiftNight   ShiftType = "Night"
	ShiftFull    ShiftType = "Full"
	ShiftCustom  ShiftType = "Custom"
	ShiftOff     ShiftType = "Off"
)

// DailySchedule is one weekday's availability for one staff member.
// Start and End are 24-hour wall-clock times ("HH:MM"), empty when the
// day is not a workday.
type DailySchedule struct {
	Working bool      `json:"working"`
	Start   string    `json:"start"`
	End     string    `json:"end"`
	Shift   ShiftType `json:"shift"`
}

// Validate checks the schedule invariant: a non-working day must carry
// empty times and the Off label, a working day must carry both times.
func (d DailySchedule) Validate() error {
	if !d.Working {
		if d.Start != "" || d.End != "" {
			return fmt.Errorf("non-working day must not have start/end times")
		}
		if d.Shift != "" && d.Shift != ShiftOff {
			return fmt.Errorf("non-working day must have shift %q, got %q", ShiftOff, d.Shift)
		}
		return nil
	}
	if d.Start == "" || d.End == "" {
		return fmt.Errorf("working day requires both start and end times")
	}
	if _, err := parseMinutes(d.Start); err != nil {
		return fmt.Errorf("invalid start time %q: %w", d.Start, err)
	}
	if _, err := parseMinutes(d.End); err != nil {
		return fmt.Errorf("invalid end time %q: %w", d.End, err)
	}
	return nil
}

// WeeklySchedule is exactly one DailySchedule per weekday. The closed
// struct guarantees all seven days are present; there is no dynamic
// day-name lookup to miss.
type WeeklySchedule struct {
	Monday    DailySchedule `json:"monday"`
	Tuesday   DailySchedule `json:"tuesday"`
	Wednesday DailySchedule `json:"wednesday"`
	Thursday  DailySchedule `json:"thursday"`
	Friday    DailySchedule `json:"friday"`
	Saturday  DailySchedule `json:"saturday"`
	Sunday    DailySchedule `json:"sunday"`
}

// Weekdays in storage order (monday first, matching the schedule editor).
var Weekdays = []string{"monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "sunday"}

// DefaultWeeklySchedule returns a schedule with every day off.
func DefaultWeeklySchedule() WeeklySchedule {
	off := DailySchedule{Working: false, Shift: ShiftOff}
	return WeeklySchedule{
		Monday: off, Tuesday: off, Wednesday: off, Thursday: off,
		Friday: off, Saturday: off, Sunday: off,
	}
}

// Day returns the schedule entry for the given weekday.
func (w *WeeklySchedule) Day(d time.Weekday) DailySchedule {
	switch d {
	case time.Monday:
		return w.Monday
	case time.Tuesday:
		return w.Tuesday
	case time.Wednesday:
		return w.Wednesday
	case time.Thursday:
		return w.Thursday
	case time.Friday:
		return w.Friday
	case time.Saturday:
		return w.Saturday
	default:
		return w.Sunday
	}
}

// SetDay replaces the entry for a weekday named by its lowercase
// storage key ("monday".."sunday"). Unknown names are ignored so a
// partial row set from storage cannot panic.
func (w *WeeklySchedule) SetDay(name string, d DailySchedule) {
	switch strings.ToLower(name) {
	case "monday":
		w.Monday = d
	case "tuesday":
		w.Tuesday = d
	case "wednesday":
		w.Wednesday = d
	case "thursday":
		w.Thursday = d
	case "friday":
		w.Friday = d
	case "saturday":
		w.Saturday = d
	case "sunday":
		w.Sunday = d
	}
}

// DayByName returns the entry for a lowercase weekday name.
func (w *WeeklySchedule) DayByName(name string) DailySchedule {
	switch strings.ToLower(name) {
	case "monday":
		return w.Monday
	case "tuesday":
		return w.Tuesday
	case "wednesday":
		return w.Wednesday
	case "thursday":
		return w.Thursday
	case "friday":
		return w.Friday
	case "saturday":
		return w.Saturday
	default:
		return w.Sunday
	}
}

// IsWorkingDay reports whether the given weekday is a workday.
func (w *WeeklySchedule) IsWorkingDay(d time.Weekday) bool {
	return w.Day(d).Working
}

// Validate checks every day against the DailySchedule invariant.
func (w *WeeklySchedule) Validate() error {
	for _, name := range Weekdays {
		if err := w.DayByName(name).Validate(); err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
	}
	return nil
}

// parseMinutes converts an "HH:MM" wall-clock time to minutes since
// midnight.
func parseMinutes(hhmm string) (int, error) {
	parts := strings.SplitN(hhmm, ":", 2)
	if len(parts) != 2 {
		return 0, fmt.Errorf("expected HH:MM")
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, fmt.Errorf("bad hour: %w", err)
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, fmt.Errorf("bad minute: %w", err)
	}
	if h < 0 || h > 23 || m < 0 || m > 59 {
		return 0, fmt.Errorf("out of range")
	}
	return h*60 + m, nil
}
