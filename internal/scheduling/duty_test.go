package scheduling

import (
	"testing"
	"time"
)

// at builds an instant on a fixed calendar day. 2025-06-02 is a Monday.
func at(weekday time.Weekday, hhmm string) time.Time {
	base := time.Date(2025, 6, 2, 0, 0, 0, 0, time.Local) // Monday
	day := base.AddDate(0, 0, (int(weekday)-int(time.Monday)+7)%7)
	min, err := parseMinutes(hhmm)
	if err != nil {
		panic(err)
	}
	return day.Add(time.Duration(min) * time.Minute)
}

func workdaySchedule(day string, start, end string) *WeeklySchedule {
	ws := DefaultWeeklySchedule()
	ws.SetDay(day, DailySchedule{Working: true, Start: start, End: end, Shift: ShiftCustom})
	return &ws
}

func TestCurrentDutyStatusNoSchedule(t *testing.T) {
	times := []time.Time{
		at(time.Monday, "00:00"),
		at(time.Wednesday, "12:30"),
		at(time.Sunday, "23:59"),
	}
	for _, now := range times {
		if got := CurrentDutyStatus(nil, now); got != OffDuty {
			t.Errorf("nil schedule at %v: got %q, want %q", now, got, OffDuty)
		}
	}
	ws := DefaultWeeklySchedule()
	for _, now := range times {
		if got := CurrentDutyStatus(&ws, now); got != OffDuty {
			t.Errorf("all-off schedule at %v: got %q, want %q", now, got, OffDuty)
		}
	}
}

func TestCurrentDutyStatusRegularShift(t *testing.T) {
	ws := workdaySchedule("monday", "09:00", "17:00")

	tests := []struct {
		now  string
		want DutyStatus
	}{
		{"12:00", OnDuty},
		{"09:00", OnDuty},
		{"17:00", OnDuty},
		{"08:15", StartingSoon},
		{"08:00", StartingSoon},
		{"07:59", OffDuty},
		{"07:00", OffDuty},
		{"18:00", OffDuty},
	}
	for _, tc := range tests {
		if got := CurrentDutyStatus(ws, at(time.Monday, tc.now)); got != tc.want {
			t.Errorf("09:00-17:00 at %s: got %q, want %q", tc.now, got, tc.want)
		}
	}

	// Tuesday is off in this schedule regardless of the hour.
	if got := CurrentDutyStatus(ws, at(time.Tuesday, "12:00")); got != OffDuty {
		t.Errorf("off day at 12:00: got %q, want %q", got, OffDuty)
	}
}

func TestCurrentDutyStatusOvernightShift(t *testing.T) {
	ws := workdaySchedule("monday", "22:00", "06:00")

	tests := []struct {
		now  string
		want DutyStatus
	}{
		{"23:30", OnDuty},
		{"22:00", OnDuty},
		{"03:00", OnDuty}, // early-morning tail, same day's entry
		{"06:00", OnDuty},
		{"06:01", OffDuty},
		{"10:00", OffDuty},
		{"21:15", StartingSoon},
		{"20:30", OffDuty},
	}
	for _, tc := range tests {
		if got := CurrentDutyStatus(ws, at(time.Monday, tc.now)); got != tc.want {
			t.Errorf("22:00-06:00 at %s: got %q, want %q", tc.now, got, tc.want)
		}
	}

	// The tail is resolved against today's entry only: Tuesday 03:00
	// does not continue Monday's night shift.
	if got := CurrentDutyStatus(ws, at(time.Tuesday, "03:00")); got != OffDuty {
		t.Errorf("next-day tail: got %q, want %q", got, OffDuty)
	}
}

func TestClassifyClockIn(t *testing.T) {
	ws := workdaySchedule("monday", "09:00", "17:00")

	tests := []struct {
		now  string
		want ClockInStatus
	}{
		{"08:50", OnTime},
		{"09:00", OnTime},
		{"09:10", OnTime},
		{"09:15", OnTime}, // exactly at the grace boundary
		{"09:16", Late},
		{"11:00", Late},
	}
	for _, tc := range tests {
		if got := ClassifyClockIn(ws, at(time.Monday, tc.now)); got != tc.want {
			t.Errorf("clock-in at %s: got %q, want %q", tc.now, got, tc.want)
		}
	}

	// No schedule to be late against.
	if got := ClassifyClockIn(nil, at(time.Monday, "13:00")); got != OnTime {
		t.Errorf("nil schedule: got %q, want %q", got, OnTime)
	}
	if got := ClassifyClockIn(ws, at(time.Tuesday, "13:00")); got != OnTime {
		t.Errorf("off day: got %q, want %q", got, OnTime)
	}
}
