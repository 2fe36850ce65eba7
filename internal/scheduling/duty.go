package scheduling

import "time"

// DutyStatus is a point-in-time classification derived from a weekly
// schedule and an instant. It is computed on demand, never persisted.
type DutyStatus string

const (
	OnDuty       DutyStatus = "On Duty"
	StartingSoon DutyStatus = "Starting Soon"
	OffDuty      DutyStatus = "Off Duty"
)

// ClockInStatus classifies a clock-in against the scheduled start.
type ClockInStatus string

const (
	OnTime ClockInStatus = "OnTime"
	Late   ClockInStatus = "Late"
)

const (
	// GracePeriod is the window after a scheduled start during which a
	// clock-in still counts as on-time.
	GracePeriod = 15 * time.Minute

	// startingSoonWindow is how far ahead of a shift start the status
	// flips from Off Duty to Starting Soon.
	startingSoonWindow = 60 // minutes
)

// CurrentDutyStatus derives the duty state of a staff member at the
// given instant. A nil schedule means no schedule at all and reads as
// Off Duty for any time.
//
// An overnight shift (end earlier than start, e.g. 22:00-06:00) is on
// duty both before midnight and in the early-morning tail. The tail is
// resolved against today's entry, not yesterday's; a schedule where
// only yesterday carries the night shift will read Off Duty after
// midnight.
func CurrentDutyStatus(ws *WeeklySchedule, now time.Time) DutyStatus {
	if ws == nil {
		return OffDuty
	}
	day := ws.Day(now.Weekday())
	if !day.Working {
		return OffDuty
	}

	startMin, err := parseMinutes(day.Start)
	if err != nil {
		return OffDuty
	}
	endMin, err := parseMinutes(day.End)
	if err != nil {
		return OffDuty
	}
	nowMin := now.Hour()*60 + now.Minute()

	if endMin < startMin {
		// Overnight shift spanning midnight.
		if nowMin >= startMin || nowMin <= endMin {
			return OnDuty
		}
	} else if nowMin >= startMin && nowMin <= endMin {
		return OnDuty
	}

	if diff := startMin - nowMin; diff > 0 && diff <= startingSoonWindow {
		return StartingSoon
	}
	return OffDuty
}

// ClassifyClockIn decides whether a clock-in at the given instant is on
// time. With no schedule, a non-working day or an empty start time
// there is nothing to be late against, so the result is OnTime.
func ClassifyClockIn(ws *WeeklySchedule, now time.Time) ClockInStatus {
	if ws == nil {
		return OnTime
	}
	day := ws.Day(now.Weekday())
	if !day.Working || day.Start == "" {
		return OnTime
	}
	startMin, err := parseMinutes(day.Start)
	if err != nil {
		return OnTime
	}
	scheduledStart := time.Date(now.Year(), now.Month(), now.Day(), startMin/60, startMin%60, 0, 0, now.Location())
	if now.Sub(scheduledStart) > GracePeriod {
		return Late
	}
	return OnTime
}
