package domain

import (
	"time"

	"github.com/sahabranjbar-dev/reservito-booking-service/pkg/types"
)

// Storage convention for staff_schedules.day_of_week: 0 = Saturday, 1 = Sunday,
// ..., 6 = Friday. Go's time.Weekday starts at Sunday = 0, so a calendar date
// maps to the stored value via (weekday + 1) % 7.

// StorageDayOfWeek converts a calendar date to the stored day-of-week index
func StorageDayOfWeek(date time.Time) int {
	return (int(date.Weekday()) + 1) % 7
}

// WeeklySchedule represents one day of a staff member's recurring weekly schedule.
// At most one entry is expected per (staff, day); a missing entry means closed
type WeeklySchedule struct {
	ID        int64
	StaffID   int64
	DayOfWeek int // 0..6, storage convention (0 = Saturday)
	StartTime types.TimeString
	EndTime   types.TimeString
	IsClosed  bool
}

// ScheduleException represents a date-specific override of the weekly schedule:
// either a full-day closure or replacement working hours for that date.
// Takes precedence over the weekly entry for the same calendar date
type ScheduleException struct {
	ID        int64
	StaffID   int64
	Date      time.Time
	IsClosed  bool
	StartTime *types.TimeString
	EndTime   *types.TimeString
	Reason    *string
}

// AppliesTo reports whether the exception is for the given calendar date.
// Comparison is on normalized date strings to avoid timezone drift
func (e *ScheduleException) AppliesTo(date time.Time) bool {
	return e.Date.Format(DateFormat) == date.Format(DateFormat)
}

// HasOverrideHours returns true if the exception replaces the working hours
// instead of closing the whole day
func (e *ScheduleException) HasOverrideHours() bool {
	return !e.IsClosed && e.StartTime != nil && e.EndTime != nil
}
