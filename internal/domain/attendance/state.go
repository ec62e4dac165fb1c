package attendance

// State of a day's record, derived purely from field presence. There is no
// stored status column; the timestamps are the single source of truth.
type State string

const (
	StateBeforeClockIn State = "before_clock_in"
	StateAfterClockIn  State = "after_clock_in"
	StateOnBreak       State = "on_break"
	StateAfterClockOut State = "after_clock_out"
)

// Break slots, in fill order.
const (
	BreakSlotNone = 0
	BreakSlot1    = 1
	BreakSlot2    = 2
)

// OpenBreakSlot returns which break slot is started but not yet ended,
// or BreakSlotNone.
func (a *Attendance) OpenBreakSlot() int {
	if a.BreakStartedAt != nil && a.BreakEndedAt == nil {
		return BreakSlot1
	}
	if a.Break2StartedAt != nil && a.Break2EndedAt == nil {
		return BreakSlot2
	}
	return BreakSlotNone
}

// NextBreakSlot returns the first unused break slot, or BreakSlotNone when
// both are taken.
func (a *Attendance) NextBreakSlot() int {
	if a.BreakStartedAt == nil {
		return BreakSlot1
	}
	if a.Break2StartedAt == nil {
		return BreakSlot2
	}
	return BreakSlotNone
}

// State derives the day's state. Clock-out is terminal regardless of an open
// break.
func (a *Attendance) State() State {
	if a.ClockOutAt != nil {
		return StateAfterClockOut
	}
	if a.ClockInAt != nil && a.OpenBreakSlot() != BreakSlotNone {
		return StateOnBreak
	}
	if a.ClockInAt != nil {
		return StateAfterClockIn
	}
	return StateBeforeClockIn
}
