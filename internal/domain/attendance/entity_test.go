package attendance

import (
	"testing"
	"time"
)

func tp(h, m int) *time.Time {
	t := time.Date(2025, 8, 15, h, m, 0, 0, time.UTC)
	return &t
}

func ip(v int) *int { return &v }

func TestEffectiveBreakMinutesTierOrder(t *testing.T) {
	cases := []struct {
		name string
		att  Attendance
		want int
	}{
		{
			name: "break entries win over pairs and count",
			att: Attendance{
				Breaks: []BreakEntry{
					{Minutes: ip(20)},
					{StartedAt: tp(15, 0), EndedAt: tp(15, 10)},
				},
				BreakStartedAt: tp(12, 0),
				BreakEndedAt:   tp(12, 45),
				BreakMinutes:   99,
			},
			want: 30,
		},
		{
			name: "zero-sum entries fall through to pairs",
			att: Attendance{
				Breaks:         []BreakEntry{{Minutes: ip(0)}},
				BreakStartedAt: tp(12, 0),
				BreakEndedAt:   tp(12, 15),
			},
			want: 15,
		},
		{
			name: "pairs win over stored count",
			att: Attendance{
				BreakStartedAt:  tp(12, 0),
				BreakEndedAt:    tp(12, 15),
				Break2StartedAt: tp(15, 0),
				Break2EndedAt:   tp(15, 10),
				BreakMinutes:    99,
			},
			want: 25,
		},
		{
			name: "stored count as last resort",
			att:  Attendance{BreakMinutes: 45},
			want: 45,
		},
		{
			name: "nothing set",
			att:  Attendance{},
			want: 0,
		},
	}
	for _, c := range cases {
		if got := c.att.EffectiveBreakMinutes(); got != c.want {
			t.Errorf("%s: EffectiveBreakMinutes() = %d, want %d", c.name, got, c.want)
		}
	}
}

func TestWorkedMinutes(t *testing.T) {
	att := Attendance{
		ClockInAt:       tp(9, 0),
		ClockOutAt:      tp(18, 0),
		BreakStartedAt:  tp(12, 0),
		BreakEndedAt:    tp(12, 15),
		Break2StartedAt: tp(15, 0),
		Break2EndedAt:   tp(15, 10),
	}
	if got := att.EffectiveBreakMinutes(); got != 25 {
		t.Errorf("EffectiveBreakMinutes() = %d, want 25", got)
	}
	if got := att.GrossWorkedMinutes(); got != 540 {
		t.Errorf("GrossWorkedMinutes() = %d, want 540", got)
	}
	if got := att.NetWorkedMinutes(); got != 515 {
		t.Errorf("NetWorkedMinutes() = %d, want 515", got)
	}
}

func TestNetWorkedMinutesFloorsAtZero(t *testing.T) {
	att := Attendance{
		ClockInAt:    tp(9, 0),
		ClockOutAt:   tp(9, 10),
		BreakMinutes: 60,
	}
	if got := att.NetWorkedMinutes(); got != 0 {
		t.Errorf("NetWorkedMinutes() = %d, want 0", got)
	}
}

func TestGrossWorkedMinutesWithoutClockOut(t *testing.T) {
	att := Attendance{ClockInAt: tp(9, 0)}
	if got := att.GrossWorkedMinutes(); got != 0 {
		t.Errorf("GrossWorkedMinutes() = %d, want 0", got)
	}
}

func TestRecalcStoredTotals(t *testing.T) {
	att := Attendance{
		ClockInAt:       tp(9, 0),
		ClockOutAt:      tp(18, 0),
		BreakStartedAt:  tp(12, 0),
		BreakEndedAt:    tp(13, 0),
		Break2StartedAt: tp(15, 0),
		Break2EndedAt:   tp(15, 30),
		BreakMinutes:    5,
		WorkMinutes:     5,
	}
	att.RecalcStoredTotals()
	if att.BreakMinutes != 90 {
		t.Errorf("BreakMinutes = %d, want 90", att.BreakMinutes)
	}
	if att.WorkMinutes != 450 {
		t.Errorf("WorkMinutes = %d, want 450", att.WorkMinutes)
	}
}

func TestRecalcStoredTotalsWithoutClockOut(t *testing.T) {
	att := Attendance{
		ClockInAt:      tp(9, 0),
		BreakStartedAt: tp(12, 0),
		BreakEndedAt:   tp(12, 30),
	}
	att.RecalcStoredTotals()
	if att.BreakMinutes != 30 {
		t.Errorf("BreakMinutes = %d, want 30", att.BreakMinutes)
	}
	if att.WorkMinutes != 0 {
		t.Errorf("WorkMinutes = %d, want 0", att.WorkMinutes)
	}
}

func TestStateDerivation(t *testing.T) {
	cases := []struct {
		name string
		att  Attendance
		want State
	}{
		{"empty", Attendance{}, StateBeforeClockIn},
		{"clocked in", Attendance{ClockInAt: tp(9, 0)}, StateAfterClockIn},
		{
			"on break",
			Attendance{ClockInAt: tp(9, 0), BreakStartedAt: tp(12, 0)},
			StateOnBreak,
		},
		{
			"break closed",
			Attendance{ClockInAt: tp(9, 0), BreakStartedAt: tp(12, 0), BreakEndedAt: tp(12, 30)},
			StateAfterClockIn,
		},
		{
			"second break open",
			Attendance{
				ClockInAt: tp(9, 0), BreakStartedAt: tp(12, 0), BreakEndedAt: tp(12, 30),
				Break2StartedAt: tp(15, 0),
			},
			StateOnBreak,
		},
		{
			"clock out wins over open break",
			Attendance{ClockInAt: tp(9, 0), BreakStartedAt: tp(12, 0), ClockOutAt: tp(18, 0)},
			StateAfterClockOut,
		},
	}
	for _, c := range cases {
		if got := c.att.State(); got != c.want {
			t.Errorf("%s: State() = %q, want %q", c.name, got, c.want)
		}
	}
}

func TestBreakSlots(t *testing.T) {
	att := Attendance{ClockInAt: tp(9, 0)}
	if att.NextBreakSlot() != BreakSlot1 {
		t.Error("fresh record should offer slot 1")
	}
	att.BreakStartedAt = tp(12, 0)
	if att.OpenBreakSlot() != BreakSlot1 {
		t.Error("slot 1 should be open")
	}
	att.BreakEndedAt = tp(12, 30)
	if att.OpenBreakSlot() != BreakSlotNone {
		t.Error("no slot should be open after break end")
	}
	if att.NextBreakSlot() != BreakSlot2 {
		t.Error("slot 2 should be next")
	}
	att.Break2StartedAt = tp(15, 0)
	if att.OpenBreakSlot() != BreakSlot2 {
		t.Error("slot 2 should be open")
	}
	att.Break2EndedAt = tp(15, 10)
	if att.NextBreakSlot() != BreakSlotNone {
		t.Error("both slots used, none next")
	}
}

func TestDisplayAccessors(t *testing.T) {
	att := Attendance{
		ClockInAt:      tp(9, 0),
		ClockOutAt:     tp(18, 0),
		BreakStartedAt: tp(12, 0),
		BreakEndedAt:   tp(12, 25),
	}
	if got := att.BreakHM(); got != "00:25" {
		t.Errorf("BreakHM() = %q, want 00:25", got)
	}
	if got := att.WorkHM(); got != "09:00" {
		t.Errorf("WorkHM() = %q, want 09:00", got)
	}
	if got := att.TotalHM(); got != "08:35" {
		t.Errorf("TotalHM() = %q, want 08:35", got)
	}

	empty := Attendance{}
	if got := empty.TotalHM(); got != "00:00" {
		t.Errorf("TotalHM() on empty = %q, want 00:00", got)
	}
}
