package services

import (
	"errors"
	"testing"
	"time"

	"power_gym_backend/internal/models"
	"power_gym_backend/internal/scheduling"
)

// Monday, so weekday schedules in the fixtures line up.
var monday = time.Date(2025, time.June, 2, 0, 0, 0, 0, time.UTC)

func at(hhmm string) time.Time {
	parsed, err := time.Parse("15:04", hhmm)
	if err != nil {
		panic(err)
	}
	return monday.Add(time.Duration(parsed.Hour())*time.Hour + time.Duration(parsed.Minute())*time.Minute)
}

func mondaySchedule(start, end string) *scheduling.WeeklySchedule {
	ws := scheduling.DefaultWeeklySchedule()
	ws.Monday = scheduling.DailySchedule{Working: true, Start: start, End: end, Shift: scheduling.ShiftCustom}
	return &ws
}

func newAttendanceFixture(t *testing.T) (*AttendanceService, *mockStaffRepo, *mockAttendanceRepo) {
	t.Helper()
	staffRepo := newMockStaffRepo()
	attendanceRepo := newMockAttendanceRepo()
	svc := &AttendanceService{
		attendanceRepo: attendanceRepo,
		staffRepo:      staffRepo,
		begin:          fakeBegin,
		clock:          func() time.Time { return at("09:00") },
	}
	return svc, staffRepo, attendanceRepo
}

func addStaff(repo *mockStaffRepo, ws *scheduling.WeeklySchedule) *models.Staff {
	staff := &models.Staff{
		Name:           "Aung Aung",
		Role:           "Trainer",
		Phone:          "09-123456789",
		Status:         models.StaffStatusActive,
		WeeklySchedule: ws,
	}
	repo.CreateStaff(nil, staff)
	return staff
}

func TestClockInOnTime(t *testing.T) {
	svc, staffRepo, attendanceRepo := newAttendanceFixture(t)
	staff := addStaff(staffRepo, mondaySchedule("09:00", "17:00"))
	svc.clock = func() time.Time { return at("09:10") }

	rec, err := svc.ClockIn(staff.ID)
	if err != nil {
		t.Fatalf("ClockIn: %v", err)
	}
	if rec.Status != models.AttendanceStatusWorking {
		t.Errorf("status = %q, want %q", rec.Status, models.AttendanceStatusWorking)
	}
	if rec.Date != "2025-06-02" {
		t.Errorf("date = %q, want 2025-06-02", rec.Date)
	}
	if !rec.IsOpen() {
		t.Error("new session should be open")
	}
	if rec.HoursWorked == nil || *rec.HoursWorked != 0 {
		t.Errorf("hours worked at clock-in = %v, want 0", rec.HoursWorked)
	}
	if rec.TotalDuration == nil || *rec.TotalDuration != "0h 0m" {
		t.Errorf("total duration at clock-in = %v, want \"0h 0m\"", rec.TotalDuration)
	}

	stored, err := attendanceRepo.GetRecordByID(rec.ID)
	if err != nil {
		t.Fatalf("GetRecordByID: %v", err)
	}
	if stored.HoursWorked == nil || *stored.HoursWorked != 0 {
		t.Errorf("persisted hours worked = %v, want 0", stored.HoursWorked)
	}
	if stored.TotalDuration == nil || *stored.TotalDuration != "0h 0m" {
		t.Errorf("persisted total duration = %v, want \"0h 0m\"", stored.TotalDuration)
	}
}

func TestClockInLateAfterGracePeriod(t *testing.T) {
	svc, staffRepo, attendanceRepo := newAttendanceFixture(t)
	staff := addStaff(staffRepo, mondaySchedule("09:00", "17:00"))
	svc.clock = func() time.Time { return at("09:16") }

	rec, err := svc.ClockIn(staff.ID)
	if err != nil {
		t.Fatalf("ClockIn: %v", err)
	}
	if rec.Status != models.AttendanceStatusLate {
		t.Errorf("status = %q, want %q", rec.Status, models.AttendanceStatusLate)
	}

	stored, err := attendanceRepo.GetRecordByID(rec.ID)
	if err != nil {
		t.Fatalf("GetRecordByID: %v", err)
	}
	if stored.Status != models.AttendanceStatusLate {
		t.Errorf("persisted status = %q, want %q", stored.Status, models.AttendanceStatusLate)
	}
}

func TestClockInWithoutScheduleIsOnTime(t *testing.T) {
	svc, staffRepo, _ := newAttendanceFixture(t)
	staff := addStaff(staffRepo, nil)
	svc.clock = func() time.Time { return at("13:45") }

	rec, err := svc.ClockIn(staff.ID)
	if err != nil {
		t.Fatalf("ClockIn: %v", err)
	}
	if rec.Status != models.AttendanceStatusWorking {
		t.Errorf("status = %q, want %q", rec.Status, models.AttendanceStatusWorking)
	}
}

func TestClockInRejectsSecondOpenSession(t *testing.T) {
	svc, staffRepo, attendanceRepo := newAttendanceFixture(t)
	staff := addStaff(staffRepo, nil)

	if _, err := svc.ClockIn(staff.ID); err != nil {
		t.Fatalf("first ClockIn: %v", err)
	}
	if _, err := svc.ClockIn(staff.ID); !errors.Is(err, ErrSessionAlreadyOpen) {
		t.Fatalf("second ClockIn err = %v, want ErrSessionAlreadyOpen", err)
	}
	if got := attendanceRepo.openSessionCount(); got != 1 {
		t.Errorf("open sessions = %d, want 1", got)
	}
}

func TestClockInInactiveStaff(t *testing.T) {
	svc, staffRepo, _ := newAttendanceFixture(t)
	staff := addStaff(staffRepo, nil)
	staff.Status = models.StaffStatusInactive

	if _, err := svc.ClockIn(staff.ID); !errors.Is(err, ErrStaffInactive) {
		t.Fatalf("ClockIn err = %v, want ErrStaffInactive", err)
	}
}

func TestClockInUnknownStaff(t *testing.T) {
	svc, _, _ := newAttendanceFixture(t)
	if _, err := svc.ClockIn(42); !errors.Is(err, ErrNotFound) {
		t.Fatalf("ClockIn err = %v, want ErrNotFound", err)
	}
}

func TestClockOutComputesHoursAndDuration(t *testing.T) {
	svc, staffRepo, _ := newAttendanceFixture(t)
	staff := addStaff(staffRepo, mondaySchedule("06:00", "14:00"))

	svc.clock = func() time.Time { return at("06:12") }
	if _, err := svc.ClockIn(staff.ID); err != nil {
		t.Fatalf("ClockIn: %v", err)
	}

	svc.clock = func() time.Time { return at("14:05") }
	rec, err := svc.ClockOut(staff.ID)
	if err != nil {
		t.Fatalf("ClockOut: %v", err)
	}

	if rec.Status != models.AttendanceStatusCompleted {
		t.Errorf("status = %q, want %q", rec.Status, models.AttendanceStatusCompleted)
	}
	if rec.HoursWorked == nil || *rec.HoursWorked != 7.88 {
		t.Errorf("hours worked = %v, want 7.88", rec.HoursWorked)
	}
	if rec.TotalDuration == nil || *rec.TotalDuration != "7h 53m" {
		t.Errorf("total duration = %v, want \"7h 53m\"", rec.TotalDuration)
	}
	if rec.ClockOut == nil || !rec.ClockOut.Equal(at("14:05")) {
		t.Errorf("clock out = %v, want %v", rec.ClockOut, at("14:05"))
	}
}

func TestClockOutSameInstant(t *testing.T) {
	svc, staffRepo, _ := newAttendanceFixture(t)
	staff := addStaff(staffRepo, nil)

	svc.clock = func() time.Time { return at("10:00") }
	if _, err := svc.ClockIn(staff.ID); err != nil {
		t.Fatalf("ClockIn: %v", err)
	}

	rec, err := svc.ClockOut(staff.ID)
	if err != nil {
		t.Fatalf("ClockOut: %v", err)
	}
	if rec.HoursWorked == nil || *rec.HoursWorked != 0 {
		t.Errorf("hours worked = %v, want 0", rec.HoursWorked)
	}
	if rec.TotalDuration == nil || *rec.TotalDuration != "0h 0m" {
		t.Errorf("total duration = %v, want \"0h 0m\"", rec.TotalDuration)
	}
	if rec.Status != models.AttendanceStatusCompleted {
		t.Errorf("status = %q, want %q", rec.Status, models.AttendanceStatusCompleted)
	}
}

func TestClockOutWithoutOpenSession(t *testing.T) {
	svc, staffRepo, attendanceRepo := newAttendanceFixture(t)
	staff := addStaff(staffRepo, nil)

	if _, err := svc.ClockOut(staff.ID); !errors.Is(err, ErrNoOpenSession) {
		t.Fatalf("ClockOut err = %v, want ErrNoOpenSession", err)
	}
	if len(attendanceRepo.records) != 0 {
		t.Errorf("records = %d, want 0 after failed clock-out", len(attendanceRepo.records))
	}
}

func TestClockOutTwice(t *testing.T) {
	svc, staffRepo, _ := newAttendanceFixture(t)
	staff := addStaff(staffRepo, nil)

	if _, err := svc.ClockIn(staff.ID); err != nil {
		t.Fatalf("ClockIn: %v", err)
	}
	if _, err := svc.ClockOut(staff.ID); err != nil {
		t.Fatalf("first ClockOut: %v", err)
	}
	if _, err := svc.ClockOut(staff.ID); !errors.Is(err, ErrNoOpenSession) {
		t.Fatalf("second ClockOut err = %v, want ErrNoOpenSession", err)
	}
}

func TestClockOutRecordAlreadyClosed(t *testing.T) {
	svc, staffRepo, _ := newAttendanceFixture(t)
	staff := addStaff(staffRepo, nil)

	rec, err := svc.ClockIn(staff.ID)
	if err != nil {
		t.Fatalf("ClockIn: %v", err)
	}
	if _, err := svc.ClockOutRecord(rec.ID); err != nil {
		t.Fatalf("ClockOutRecord: %v", err)
	}
	if _, err := svc.ClockOutRecord(rec.ID); !errors.Is(err, ErrNoOpenSession) {
		t.Fatalf("second ClockOutRecord err = %v, want ErrNoOpenSession", err)
	}
}

func TestClockOutRecordTargetsNamedRecord(t *testing.T) {
	svc, staffRepo, attendanceRepo := newAttendanceFixture(t)
	staff := addStaff(staffRepo, nil)

	// Two open rows for one staff member exist only mid-race; seed them
	// directly to pin down which one the close touches.
	attendanceRepo.records[1] = &models.AttendanceRecord{
		ID: 1, StaffID: staff.ID, Date: "2025-06-02",
		ClockIn: at("08:00"), Status: models.AttendanceStatusWorking,
	}
	attendanceRepo.records[2] = &models.AttendanceRecord{
		ID: 2, StaffID: staff.ID, Date: "2025-06-02",
		ClockIn: at("09:00"), Status: models.AttendanceStatusWorking,
	}
	attendanceRepo.nextID = 3

	svc.clock = func() time.Time { return at("17:00") }
	closed, err := svc.ClockOutRecord(2)
	if err != nil {
		t.Fatalf("ClockOutRecord: %v", err)
	}
	if closed.ID != 2 {
		t.Fatalf("closed record ID = %d, want 2", closed.ID)
	}
	if closed.TotalDuration == nil || *closed.TotalDuration != "8h 0m" {
		t.Errorf("total duration = %v, want \"8h 0m\"", closed.TotalDuration)
	}

	other, err := attendanceRepo.GetRecordByID(1)
	if err != nil {
		t.Fatalf("GetRecordByID: %v", err)
	}
	if !other.IsOpen() {
		t.Error("record 1 should remain open after closing record 2")
	}
}

func TestDutyBoardReadsWithoutTransactions(t *testing.T) {
	svc, staffRepo, _ := newAttendanceFixture(t)
	staff := addStaff(staffRepo, mondaySchedule("09:00", "17:00"))

	svc.clock = func() time.Time { return at("09:05") }
	if _, err := svc.ClockIn(staff.ID); err != nil {
		t.Fatalf("ClockIn: %v", err)
	}

	// Status display is a pure read; it must not start a transaction.
	svc.begin = func() (txHandle, error) { return nil, errors.New("transaction on read path") }

	svc.clock = func() time.Time { return at("12:00") }
	board, err := svc.DutyBoard()
	if err != nil {
		t.Fatalf("DutyBoard: %v", err)
	}
	if len(board) != 1 || board[0].OpenSession == nil {
		t.Fatalf("board = %+v, want one entry carrying the open session", board)
	}

	if _, err := svc.GetOpenSession(staff.ID); err != nil {
		t.Errorf("GetOpenSession: %v", err)
	}
}

func TestOvernightShiftClockOutKeepsStartDate(t *testing.T) {
	svc, staffRepo, _ := newAttendanceFixture(t)
	staff := addStaff(staffRepo, mondaySchedule("22:00", "06:00"))

	svc.clock = func() time.Time { return at("22:00") }
	rec, err := svc.ClockIn(staff.ID)
	if err != nil {
		t.Fatalf("ClockIn: %v", err)
	}
	if rec.Date != "2025-06-02" {
		t.Fatalf("date = %q, want 2025-06-02", rec.Date)
	}

	// Clock out at 06:00 the next morning.
	svc.clock = func() time.Time { return at("06:00").AddDate(0, 0, 1) }
	closed, err := svc.ClockOut(staff.ID)
	if err != nil {
		t.Fatalf("ClockOut: %v", err)
	}
	if closed.Date != "2025-06-02" {
		t.Errorf("date after clock-out = %q, want the clock-in date", closed.Date)
	}
	if closed.HoursWorked == nil || *closed.HoursWorked != 8 {
		t.Errorf("hours worked = %v, want 8", closed.HoursWorked)
	}
	if closed.TotalDuration == nil || *closed.TotalDuration != "8h 0m" {
		t.Errorf("total duration = %v, want \"8h 0m\"", closed.TotalDuration)
	}
}

func TestDutyBoard(t *testing.T) {
	svc, staffRepo, _ := newAttendanceFixture(t)
	onDuty := addStaff(staffRepo, mondaySchedule("09:00", "17:00"))
	offDuty := &models.Staff{
		Name: "Su Su", Role: "Reception", Phone: "09-987654321",
		Status:         models.StaffStatusActive,
		WeeklySchedule: mondaySchedule("18:00", "23:00"),
	}
	staffRepo.CreateStaff(nil, offDuty)
	inactive := &models.Staff{
		Name: "Ko Ko", Role: "Cleaner", Phone: "09-555555555",
		Status:         models.StaffStatusInactive,
		WeeklySchedule: mondaySchedule("09:00", "17:00"),
	}
	staffRepo.CreateStaff(nil, inactive)

	svc.clock = func() time.Time { return at("12:00") }
	board, err := svc.DutyBoard()
	if err != nil {
		t.Fatalf("DutyBoard: %v", err)
	}
	if len(board) != 2 {
		t.Fatalf("board size = %d, want 2 (inactive staff excluded)", len(board))
	}

	statuses := map[int64]scheduling.DutyStatus{}
	for _, entry := range board {
		statuses[entry.StaffID] = entry.DutyStatus
	}
	if statuses[onDuty.ID] != scheduling.OnDuty {
		t.Errorf("day staff status = %q, want %q", statuses[onDuty.ID], scheduling.OnDuty)
	}
	if statuses[offDuty.ID] != scheduling.OffDuty {
		t.Errorf("evening staff status = %q, want %q", statuses[offDuty.ID], scheduling.OffDuty)
	}

	only, err := svc.OnDutyStaff()
	if err != nil {
		t.Fatalf("OnDutyStaff: %v", err)
	}
	if len(only) != 1 || only[0].StaffID != onDuty.ID {
		t.Errorf("OnDutyStaff = %+v, want only the day staff", only)
	}
}

func TestDutyStatusForIncludesOpenSession(t *testing.T) {
	svc, staffRepo, _ := newAttendanceFixture(t)
	staff := addStaff(staffRepo, mondaySchedule("09:00", "17:00"))

	svc.clock = func() time.Time { return at("09:05") }
	if _, err := svc.ClockIn(staff.ID); err != nil {
		t.Fatalf("ClockIn: %v", err)
	}

	entry, err := svc.DutyStatusFor(staff.ID)
	if err != nil {
		t.Fatalf("DutyStatusFor: %v", err)
	}
	if entry.DutyStatus != scheduling.OnDuty {
		t.Errorf("duty status = %q, want %q", entry.DutyStatus, scheduling.OnDuty)
	}
	if entry.OpenSession == nil {
		t.Error("open session missing from duty entry")
	}
}
