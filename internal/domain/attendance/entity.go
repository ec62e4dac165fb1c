package attendance

import (
	"time"

	"github.com/kiki1226/Coachtech-kintai/internal/pkg/timespan"
)

// BreakEntry is one row of the attendance_breaks table. Older records carry
// only a minute count; newer ones carry the interval.
type BreakEntry struct {
	ID           string
	AttendanceID string
	StartedAt    *time.Time
	EndedAt      *time.Time
	Minutes      *int
}

// Attendance is one employee's one calendar day. WorkDate is the logical day
// in the configured timezone; the clock fields are absolute instants.
// BreakMinutes and WorkMinutes are the stored numeric totals kept for
// count-based reporting paths; the interval fields stay the source of truth.
type Attendance struct {
	ID              string
	EmployeeID      string
	WorkDate        time.Time
	ClockInAt       *time.Time
	ClockOutAt      *time.Time
	BreakStartedAt  *time.Time
	BreakEndedAt    *time.Time
	Break2StartedAt *time.Time
	Break2EndedAt   *time.Time
	BreakMinutes    int
	WorkMinutes     int
	Note            string
	Breaks          []BreakEntry
	CreatedAt       time.Time
	UpdatedAt       time.Time

	// DTO
	EmployeeName *string
}

// EffectiveBreakMinutes resolves the break total across the three schema eras,
// in order: break-entry rows, the inline interval pairs, then the stored count.
// The order matters; records from different eras populate different tiers.
func (a *Attendance) EffectiveBreakMinutes() int {
	if len(a.Breaks) > 0 {
		sum := 0
		for _, b := range a.Breaks {
			if b.Minutes != nil {
				sum += *b.Minutes
				continue
			}
			sum += timespan.Minutes(b.StartedAt, b.EndedAt)
		}
		if sum > 0 {
			return sum
		}
	}

	m := timespan.Minutes(a.BreakStartedAt, a.BreakEndedAt) +
		timespan.Minutes(a.Break2StartedAt, a.Break2EndedAt)
	if m > 0 {
		return m
	}

	return a.BreakMinutes
}

// GrossWorkedMinutes is the clock-in to clock-out span, 0 when either is absent.
func (a *Attendance) GrossWorkedMinutes() int {
	return timespan.Minutes(a.ClockInAt, a.ClockOutAt)
}

// NetWorkedMinutes is gross minus effective break, floored at zero.
func (a *Attendance) NetWorkedMinutes() int {
	net := a.GrossWorkedMinutes() - a.EffectiveBreakMinutes()
	if net < 0 {
		return 0
	}
	return net
}

// RecalcStoredTotals rewrites the numeric totals from the interval pairs.
// This is the one place interval truth is converted into the count-based
// representation that CSV and summary paths read.
func (a *Attendance) RecalcStoredTotals() {
	b := timespan.Minutes(a.BreakStartedAt, a.BreakEndedAt) +
		timespan.Minutes(a.Break2StartedAt, a.Break2EndedAt)
	a.BreakMinutes = b

	work := 0
	if a.ClockInAt != nil && a.ClockOutAt != nil {
		work = timespan.Minutes(a.ClockInAt, a.ClockOutAt)
	}
	work -= b
	if work < 0 {
		work = 0
	}
	a.WorkMinutes = work
}

// BreakHM renders the effective break total as "HH:MM" for detail views.
func (a *Attendance) BreakHM() string {
	return timespan.FormatHM(a.EffectiveBreakMinutes(), true)
}

// WorkHM renders the gross span (break not deducted) as "HH:MM".
func (a *Attendance) WorkHM() string {
	if a.ClockInAt == nil || a.ClockOutAt == nil {
		return "00:00"
	}
	return timespan.FormatHM(a.GrossWorkedMinutes(), true)
}

// TotalHM renders the net worked time as "HH:MM".
func (a *Attendance) TotalHM() string {
	if a.ClockInAt == nil || a.ClockOutAt == nil {
		return "00:00"
	}
	return timespan.FormatHM(a.NetWorkedMinutes(), true)
}
