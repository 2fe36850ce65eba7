package scheduling

import (
	"testing"
	"time"
)

func TestDailyScheduleValidate(t *testing.T) {
	tests := []struct {
		name    string
		day     DailySchedule
		wantErr bool
	}{
		{"off day", DailySchedule{Working: false, Shift: ShiftOff}, false},
		{"off day empty shift", DailySchedule{Working: false}, false},
		{"off day with times", DailySchedule{Working: false, Start: "09:00", End: "17:00", Shift: ShiftOff}, true},
		{"off day wrong label", DailySchedule{Working: false, Shift: ShiftMorning}, true},
		{"working day", DailySchedule{Working: true, Start: "09:00", End: "17:00", Shift: ShiftFull}, false},
		{"working overnight", DailySchedule{Working: true, Start: "22:00", End: "06:00", Shift: ShiftNight}, false},
		{"working missing start", DailySchedule{Working: true, End: "17:00", Shift: ShiftFull}, true},
		{"working missing end", DailySchedule{Working: true, Start: "09:00", Shift: ShiftFull}, true},
		{"working bad time", DailySchedule{Working: true, Start: "25:00", End: "17:00", Shift: ShiftFull}, true},
	}
	for _, tc := range tests {
		err := tc.day.Validate()
		if (err != nil) != tc.wantErr {
			t.Errorf("%s: got err=%v, wantErr=%v", tc.name, err, tc.wantErr)
		}
	}
}

func TestWeeklyScheduleDayLookup(t *testing.T) {
	ws := DefaultWeeklySchedule()
	ws.Wednesday = DailySchedule{Working: true, Start: "06:00", End: "14:00", Shift: ShiftMorning}

	if !ws.IsWorkingDay(time.Wednesday) {
		t.Fatal("wednesday should be a working day")
	}
	if ws.IsWorkingDay(time.Thursday) {
		t.Fatal("thursday should be off")
	}
	if got := ws.Day(time.Wednesday).Start; got != "06:00" {
		t.Errorf("wednesday start: got %q, want 06:00", got)
	}
	if got := ws.DayByName("WEDNESDAY").End; got != "14:00" {
		t.Errorf("case-insensitive lookup: got %q, want 14:00", got)
	}
}

func TestWeeklyScheduleValidate(t *testing.T) {
	ws := DefaultWeeklySchedule()
	if err := ws.Validate(); err != nil {
		t.Fatalf("default schedule should be valid: %v", err)
	}
	ws.Friday = DailySchedule{Working: true, Shift: ShiftFull}
	if err := ws.Validate(); err == nil {
		t.Fatal("working day without times should fail validation")
	}
}

func TestShiftDurationHours(t *testing.T) {
	tests := []struct {
		start, end string
		want       float64
	}{
		{"09:00", "17:00", 8},
		{"06:00", "14:00", 8},
		{"22:00", "06:00", 8}, // overnight
		{"09:30", "17:00", 7.5},
		{"", "", 0},
	}
	for _, tc := range tests {
		if got := ShiftDurationHours(tc.start, tc.end); got != tc.want {
			t.Errorf("duration %s-%s: got %v, want %v", tc.start, tc.end, got, tc.want)
		}
	}
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{0, "0h 0m"},
		{8*time.Hour + 15*time.Minute, "8h 15m"},
		{7*time.Hour + 53*time.Minute, "7h 53m"},
		{59 * time.Second, "0h 0m"},
		{-time.Minute, "0h 0m"},
	}
	for _, tc := range tests {
		if got := FormatDuration(tc.d); got != tc.want {
			t.Errorf("FormatDuration(%v): got %q, want %q", tc.d, got, tc.want)
		}
	}
}

func TestRoundHours(t *testing.T) {
	// Monday 06:12 to 14:05 is 7h53m = 7.8833... hours.
	d := 7*time.Hour + 53*time.Minute
	if got := RoundHours(d); got != 7.88 {
		t.Errorf("RoundHours(7h53m): got %v, want 7.88", got)
	}
	if got := RoundHours(0); got != 0 {
		t.Errorf("RoundHours(0): got %v, want 0", got)
	}
}
