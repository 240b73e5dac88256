package attendance

import (
	"time"

	"github.com/shopspring/decimal"
)

// State is the attendance state of an employee, derived from their latest
// attendance record.
type State string

const (
	StateCheckedOut State = "checked_out"
	StateCheckedIn  State = "checked_in"
)

// Attendance is one check-in/check-out interval of an employee. A nil
// CheckOut means the interval is still ongoing; a non-nil BreakStartTime
// means the employee is currently on break.
type Attendance struct {
	ID               string
	EmployeeID       string
	CheckIn          time.Time
	CheckOut         *time.Time
	AttendanceTypeID *string
	Comment          *string
	BreakStartTime   *time.Time
	LastBreakEnd     *time.Time // end of the latest finished break
	BreakSeconds     int64
	WorkedSeconds    *int64
	CreatedAt        time.Time
	UpdatedAt        time.Time

	// DTO
	EmployeeName       *string
	AttendanceTypeName *string
}

// Normalize converts t to the stored precision: UTC, whole seconds.
func Normalize(t time.Time) time.Time {
	return t.UTC().Truncate(time.Second)
}

// RoundDown truncates t to a multiple of step, e.g. 5 minutes for check in
// defaults and 1 minute for break defaults.
func RoundDown(t time.Time, step time.Duration) time.Time {
	return t.UTC().Truncate(step)
}

// IsOpen reports whether the attendance has not been checked out yet.
func (a Attendance) IsOpen() bool {
	return a.CheckOut == nil
}

// OnBreak reports whether a break is currently running.
func (a Attendance) OnBreak() bool {
	return a.BreakStartTime != nil
}

// StateOf derives the employee state from their latest attendance.
func StateOf(latest *Attendance) State {
	if latest != nil && latest.IsOpen() {
		return StateCheckedIn
	}
	return StateCheckedOut
}

// Validate checks the invariants of a single record.
func (a Attendance) Validate() error {
	if a.CheckIn.IsZero() {
		return ErrCheckInRequired
	}
	if a.CheckOut != nil && a.CheckOut.Before(a.CheckIn) {
		return ErrCheckOutBeforeCheckIn
	}
	if a.BreakStartTime != nil {
		if a.CheckOut != nil {
			return ErrOnBreak
		}
		if a.BreakStartTime.Before(a.CheckIn) {
			return ErrBreakBeforeCheckIn
		}
		if a.LastBreakEnd != nil && a.BreakStartTime.Before(*a.LastBreakEnd) {
			return ErrBreakBeforeLastBreak
		}
	}
	if a.LastBreakEnd != nil {
		if a.LastBreakEnd.Before(a.CheckIn) {
			return ErrBreakBeforeCheckIn
		}
		if a.CheckOut != nil && a.CheckOut.Before(*a.LastBreakEnd) {
			return ErrCheckOutBeforeBreakEnd
		}
	}
	if a.BreakSeconds < 0 {
		return ErrBreakExceedsAttendance
	}
	if a.CheckOut != nil && a.BreakSeconds > int64(a.CheckOut.Sub(a.CheckIn)/time.Second) {
		return ErrBreakExceedsAttendance
	}
	return nil
}

// Recompute refreshes WorkedSeconds from the check in/out times and the
// accumulated break.
func (a *Attendance) Recompute() {
	if a.CheckOut == nil {
		a.WorkedSeconds = nil
		return
	}
	worked := int64(a.CheckOut.Sub(a.CheckIn)/time.Second) - a.BreakSeconds
	if worked < 0 {
		worked = 0
	}
	a.WorkedSeconds = &worked
}

// StartBreak puts the open attendance on break at the given time.
func (a *Attendance) StartBreak(at time.Time) error {
	if !a.IsOpen() {
		return ErrNotCheckedIn
	}
	if a.OnBreak() {
		return ErrAlreadyOnBreak
	}
	at = Normalize(at)
	if at.Before(a.CheckIn) {
		return ErrBreakBeforeCheckIn
	}
	if a.LastBreakEnd != nil && at.Before(*a.LastBreakEnd) {
		return ErrBreakBeforeLastBreak
	}
	a.BreakStartTime = &at
	return nil
}

// EndBreak finishes the running break and adds its length to BreakSeconds.
func (a *Attendance) EndBreak(at time.Time) error {
	if !a.IsOpen() {
		return ErrNotCheckedIn
	}
	if !a.OnBreak() {
		return ErrNotOnBreak
	}
	at = Normalize(at)
	if a.BreakStartTime.Before(a.CheckIn) {
		return ErrBreakBeforeCheckIn
	}
	if at.Before(*a.BreakStartTime) {
		return ErrBreakEndBeforeStart
	}
	a.BreakSeconds += int64(at.Sub(*a.BreakStartTime) / time.Second)
	a.BreakStartTime = nil
	a.LastBreakEnd = &at
	return nil
}

// Close checks the attendance out. A running break has to be ended first.
func (a *Attendance) Close(at time.Time) error {
	if !a.IsOpen() {
		return ErrAlreadyCheckedOut
	}
	if a.OnBreak() {
		return ErrOnBreak
	}
	at = Normalize(at)
	if at.Before(a.CheckIn) {
		return ErrCheckOutBeforeCheckIn
	}
	a.CheckOut = &at
	if err := a.Validate(); err != nil {
		a.CheckOut = nil
		return err
	}
	a.Recompute()
	return nil
}

// WorkedHours returns the worked time in hours rounded to 2 decimals, nil
// while the attendance is open.
func (a Attendance) WorkedHours() *decimal.Decimal {
	if a.WorkedSeconds == nil {
		return nil
	}
	hours := secondsToHours(*a.WorkedSeconds)
	return &hours
}

// BreakHours returns the accumulated break time in hours rounded to 2 decimals.
func (a Attendance) BreakHours() decimal.Decimal {
	return secondsToHours(a.BreakSeconds)
}

func secondsToHours(seconds int64) decimal.Decimal {
	return decimal.NewFromInt(seconds).Div(decimal.NewFromInt(3600)).Round(2)
}

// CheckOverlap verifies that candidate fits into the employee timeline made
// of others. others holds the employee's other records; records that cannot
// conflict are ignored, so callers may pass a superset.
func CheckOverlap(candidate Attendance, others []Attendance) error {
	for _, other := range others {
		if other.ID == candidate.ID || other.EmployeeID != candidate.EmployeeID {
			continue
		}
		if other.CheckIn.Equal(candidate.CheckIn) {
			return ErrOverlappingAttendance
		}
		if candidate.IsOpen() && other.IsOpen() {
			return ErrOpenAttendanceExists
		}
		if !intervalsOverlap(candidate, other) {
			continue
		}
		if other.IsOpen() && other.CheckIn.Before(candidate.CheckIn) {
			return ErrAlreadyCheckedIn
		}
		return ErrOverlappingAttendance
	}
	return nil
}

// intervalsOverlap compares [CheckIn, CheckOut) intervals, an open record
// extending to infinity.
func intervalsOverlap(a, b Attendance) bool {
	aStartsBeforeBEnds := b.CheckOut == nil || a.CheckIn.Before(*b.CheckOut)
	bStartsBeforeAEnds := a.CheckOut == nil || b.CheckIn.Before(*a.CheckOut)
	return aStartsBeforeBEnds && bStartsBeforeAEnds
}
