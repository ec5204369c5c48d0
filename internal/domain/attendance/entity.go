package attendance

import (
	"math"
	"time"
)

type Status string

const (
	StatusPresent Status = "present"
	StatusAbsent  Status = "absent"
	StatusHalfDay Status = "half-day"
	StatusLeave   Status = "leave"
	StatusHoliday Status = "holiday"
)

// HalfDayThreshold is the work-hour boundary below which a completed day is
// downgraded to half-day.
const HalfDayThreshold = 4.0

// Record entity. At most one record exists per (user, date); the store
// enforces this with a unique constraint.
type Record struct {
	ID       string
	UserID   string
	Date     time.Time // normalized to midnight UTC
	CheckIn  *time.Time
	CheckOut *time.Time
	Status   Status
	// WorkHours is derived from check-in/check-out, rounded to 2 decimals.
	WorkHours float64
	Notes     *string

	CreatedAt time.Time
	UpdatedAt time.Time

	// Joined fields (for listings)
	EmployeeName *string
	EmployeeID   *string
	Department   *string
}

// Day normalizes t to midnight UTC, the canonical attendance date key.
func Day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// WorkHours computes the hours between check-in and check-out, rounded to two
// decimals. Returns 0 unless both timestamps are set.
func WorkHours(checkIn, checkOut *time.Time) float64 {
	if checkIn == nil || checkOut == nil {
		return 0
	}
	hours := checkOut.Sub(*checkIn).Hours()
	return math.Round(hours*100) / 100
}

// DeriveStatus applies the half-day rule to a completed record: under the
// threshold the day counts as half-day, otherwise present.
func DeriveStatus(workHours float64) Status {
	if workHours < HalfDayThreshold {
		return StatusHalfDay
	}
	return StatusPresent
}
