package attendance

import (
	"strconv"
	"strings"
	"time"

	"github.com/kiki1226/Coachtech-kintai/internal/pkg/validator"
)

// ========================================
// ATTENDANCE DTOs
// ========================================

// ClockActionRequest carries the optional target day of a clock action.
// An empty date means "today" in the configured timezone.
type ClockActionRequest struct {
	Date string `json:"date"`
}

func (r *ClockActionRequest) Validate() error {
	var errs validator.ValidationErrors

	if !validator.IsEmpty(r.Date) {
		if _, ok := validator.IsValidDate(r.Date); !ok {
			errs = append(errs, validator.ValidationError{
				Field:   "date",
				Message: "date must be in YYYY-MM-DD format",
			})
		}
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// EditDayRequest is a proposed set of times for one work date, used both for
// administrative direct edits and for employee correction submissions.
// A nil field proposes no change. Times are "HH:MM" on the record's work date.
type EditDayRequest struct {
	ClockIn     *string `json:"clock_in"`
	ClockOut    *string `json:"clock_out"`
	Break1Start *string `json:"break1_start"`
	Break1End   *string `json:"break1_end"`
	Break2Start *string `json:"break2_start"`
	Break2End   *string `json:"break2_end"`
	Note        string  `json:"note"`
	Reason      string  `json:"reason"`
}

func present(s *string) bool {
	return s != nil && !validator.IsEmpty(*s)
}

// minuteOfDay assumes the field already passed the format check.
func minuteOfDay(hm string) int {
	parts := strings.SplitN(hm, ":", 2)
	h, _ := strconv.Atoi(parts[0])
	m, _ := strconv.Atoi(parts[1])
	return h*60 + m
}

func (r *EditDayRequest) Validate() error {
	var errs validator.ValidationErrors

	fields := []struct {
		name  string
		value *string
	}{
		{"clock_in", r.ClockIn},
		{"clock_out", r.ClockOut},
		{"break1_start", r.Break1Start},
		{"break1_end", r.Break1End},
		{"break2_start", r.Break2Start},
		{"break2_end", r.Break2End},
	}

	malformed := map[string]bool{}
	for _, f := range fields {
		if present(f.value) && !validator.IsValidClockTime(*f.value) {
			malformed[f.name] = true
			errs = append(errs, validator.ValidationError{
				Field:   f.name,
				Message: f.name + " must be in HH:MM format",
			})
		}
	}

	ok := func(name string, v *string) bool { return present(v) && !malformed[name] }

	// Clock pair: both or neither, out strictly after in.
	if ok("clock_in", r.ClockIn) && !present(r.ClockOut) {
		errs = append(errs, validator.ValidationError{
			Field:   "clock_out",
			Message: "clock in and clock out must both be entered",
		})
	}
	if ok("clock_out", r.ClockOut) && !present(r.ClockIn) {
		errs = append(errs, validator.ValidationError{
			Field:   "clock_in",
			Message: "clock in and clock out must both be entered",
		})
	}
	if ok("clock_in", r.ClockIn) && ok("clock_out", r.ClockOut) {
		if minuteOfDay(*r.ClockOut) <= minuteOfDay(*r.ClockIn) {
			errs = append(errs, validator.ValidationError{
				Field:   "clock_out",
				Message: "clock out must be after clock in",
			})
		}
	}

	// Break windows are validated independently of each other.
	errs = append(errs, validateBreakWindow("break1_start", r.Break1Start, "break1_end", r.Break1End, r, malformed)...)
	errs = append(errs, validateBreakWindow("break2_start", r.Break2Start, "break2_end", r.Break2End, r, malformed)...)

	// Note
	if validator.IsEmpty(r.Note) {
		errs = append(errs, validator.ValidationError{
			Field:   "note",
			Message: "note is required",
		})
	} else if len([]rune(r.Note)) > 200 {
		errs = append(errs, validator.ValidationError{
			Field:   "note",
			Message: "note must not exceed 200 characters",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

func validateBreakWindow(startName string, start *string, endName string, end *string, r *EditDayRequest, malformed map[string]bool) validator.ValidationErrors {
	var errs validator.ValidationErrors

	startOK := present(start) && !malformed[startName]
	endOK := present(end) && !malformed[endName]
	clockInOK := present(r.ClockIn) && !malformed["clock_in"]
	clockOutOK := present(r.ClockOut) && !malformed["clock_out"]

	if startOK && clockInOK && minuteOfDay(*start) < minuteOfDay(*r.ClockIn) {
		errs = append(errs, validator.ValidationError{
			Field:   startName,
			Message: "break must start at or after clock in",
		})
	}
	if startOK && !present(end) {
		errs = append(errs, validator.ValidationError{
			Field:   endName,
			Message: "break end time is required",
		})
	}
	if endOK && !present(start) {
		errs = append(errs, validator.ValidationError{
			Field:   endName,
			Message: "break end requires a break start",
		})
	}
	if startOK && endOK {
		if minuteOfDay(*end) <= minuteOfDay(*start) {
			errs = append(errs, validator.ValidationError{
				Field:   endName,
				Message: "break end must be after break start",
			})
		}
		if clockOutOK && minuteOfDay(*end) > minuteOfDay(*r.ClockOut) {
			errs = append(errs, validator.ValidationError{
				Field:   endName,
				Message: "break must end at or before clock out",
			})
		}
	}

	return errs
}

// EditTimes is an EditDayRequest resolved onto a work date.
type EditTimes struct {
	ClockInAt       *time.Time
	ClockOutAt      *time.Time
	BreakStartedAt  *time.Time
	BreakEndedAt    *time.Time
	Break2StartedAt *time.Time
	Break2EndedAt   *time.Time
}

// Times resolves the HH:MM fields onto workDate in loc. Call Validate first;
// malformed fields resolve to nil.
func (r *EditDayRequest) Times(workDate time.Time, loc *time.Location) EditTimes {
	at := func(hm *string) *time.Time {
		if !present(hm) {
			return nil
		}
		t, ok := validator.ParseClockTimeOn(*hm, workDate, loc)
		if !ok {
			return nil
		}
		return &t
	}
	return EditTimes{
		ClockInAt:       at(r.ClockIn),
		ClockOutAt:      at(r.ClockOut),
		BreakStartedAt:  at(r.Break1Start),
		BreakEndedAt:    at(r.Break1End),
		Break2StartedAt: at(r.Break2Start),
		Break2EndedAt:   at(r.Break2End),
	}
}

// DayResponse is the detail-view rendering of one record. Detail views pad
// hours and show 00:00 when no data exists.
type DayResponse struct {
	ID           string  `json:"id"`
	EmployeeID   string  `json:"employee_id"`
	EmployeeName *string `json:"employee_name,omitempty"`
	WorkDate     string  `json:"work_date"`
	State        string  `json:"state"`
	ClockIn      *string `json:"clock_in,omitempty"`
	ClockOut     *string `json:"clock_out,omitempty"`
	Break1Start  *string `json:"break1_start,omitempty"`
	Break1End    *string `json:"break1_end,omitempty"`
	Break2Start  *string `json:"break2_start,omitempty"`
	Break2End    *string `json:"break2_end,omitempty"`
	BreakHM      string  `json:"break_hm"`
	WorkHM       string  `json:"work_hm"`
	TotalHM      string  `json:"total_hm"`
	Note         string  `json:"note"`
}

// MonthRow is one calendar day of the month view. Missing times render empty;
// durations render unpadded with 0:00 defaults.
type MonthRow struct {
	AttendanceID *string `json:"attendance_id,omitempty"`
	Date         string  `json:"date"`
	Label        string  `json:"label"`
	Start        string  `json:"start"`
	End          string  `json:"end"`
	Break        string  `json:"break"`
	Total        string  `json:"total"`
}

type MonthResponse struct {
	EmployeeID   string     `json:"employee_id"`
	EmployeeName string     `json:"employee_name"`
	Month        string     `json:"month"`
	PrevMonth    string     `json:"prev_month"`
	NextMonth    string     `json:"next_month"`
	Rows         []MonthRow `json:"rows"`
}
