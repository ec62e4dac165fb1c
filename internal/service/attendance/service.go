package attendance

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/kiki1226/Coachtech-kintai/internal/domain/attendance"
	"github.com/kiki1226/Coachtech-kintai/internal/pkg/database"
	"github.com/kiki1226/Coachtech-kintai/internal/pkg/timespan"
	"github.com/kiki1226/Coachtech-kintai/internal/pkg/validator"
)

type AttendanceServiceImpl struct {
	db database.Transactor
	attendance.AttendanceRepository
	loc *time.Location
}

func NewAttendanceService(
	db database.Transactor,
	attendanceRepo attendance.AttendanceRepository,
	loc *time.Location,
) attendance.AttendanceService {
	return &AttendanceServiceImpl{
		db:                   db,
		AttendanceRepository: attendanceRepo,
		loc:                  loc,
	}
}

// resolveDay normalizes an optional "YYYY-MM-DD" string to midnight of that
// day in the configured timezone; empty means today.
func (s *AttendanceServiceImpl) resolveDay(day string) (time.Time, error) {
	if validator.IsEmpty(day) {
		now := time.Now().In(s.loc)
		return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, s.loc), nil
	}
	parsed, ok := validator.IsValidDate(day)
	if !ok {
		return time.Time{}, validator.ValidationErrors{{
			Field:   "date",
			Message: "date must be in YYYY-MM-DD format",
		}}
	}
	return time.Date(parsed.Year(), parsed.Month(), parsed.Day(), 0, 0, 0, 0, s.loc), nil
}

// ClockIn implements attendance.AttendanceService. Safe to double-submit:
// the first recorded time is kept.
func (s *AttendanceServiceImpl) ClockIn(ctx context.Context, employeeID string, day string) error {
	workDate, err := s.resolveDay(day)
	if err != nil {
		return err
	}
	now := time.Now().In(s.loc)

	return s.db.WithTransaction(ctx, func(ctx context.Context) error {
		att, err := s.AttendanceRepository.GetOrCreateForUpdate(ctx, employeeID, workDate)
		if err != nil {
			return fmt.Errorf("failed to lock attendance row: %w", err)
		}

		if att.ClockInAt != nil {
			// already clocked in today
			return nil
		}

		att.ClockInAt = &now
		if err := s.AttendanceRepository.Update(ctx, att); err != nil {
			return fmt.Errorf("failed to record clock-in: %w", err)
		}
		return nil
	})
}

// ClockOut implements attendance.AttendanceService. A resubmission overwrites
// the earlier clock-out with the latest time; this asymmetry with ClockIn is
// intentional and covered by tests.
func (s *AttendanceServiceImpl) ClockOut(ctx context.Context, employeeID string, day string) error {
	workDate, err := s.resolveDay(day)
	if err != nil {
		return err
	}
	now := time.Now().In(s.loc)

	return s.db.WithTransaction(ctx, func(ctx context.Context) error {
		att, err := s.AttendanceRepository.GetOrCreateForUpdate(ctx, employeeID, workDate)
		if err != nil {
			return fmt.Errorf("failed to lock attendance row: %w", err)
		}

		att.ClockOutAt = &now
		if err := s.AttendanceRepository.Update(ctx, att); err != nil {
			return fmt.Errorf("failed to record clock-out: %w", err)
		}
		return nil
	})
}

// BreakStart implements attendance.AttendanceService. Takes effect only when
// clocked in, not clocked out, and no break is open; otherwise a silent no-op.
func (s *AttendanceServiceImpl) BreakStart(ctx context.Context, employeeID string, day string) error {
	workDate, err := s.resolveDay(day)
	if err != nil {
		return err
	}
	now := time.Now().In(s.loc)

	return s.db.WithTransaction(ctx, func(ctx context.Context) error {
		att, err := s.AttendanceRepository.GetOrCreateForUpdate(ctx, employeeID, workDate)
		if err != nil {
			return fmt.Errorf("failed to lock attendance row: %w", err)
		}

		if att.ClockInAt == nil || att.ClockOutAt != nil {
			return nil
		}
		if att.OpenBreakSlot() != attendance.BreakSlotNone {
			return nil
		}

		switch att.NextBreakSlot() {
		case attendance.BreakSlot1:
			att.BreakStartedAt = &now
			att.BreakEndedAt = nil
		case attendance.BreakSlot2:
			att.Break2StartedAt = &now
			att.Break2EndedAt = nil
		default:
			// both slots used
			return nil
		}

		if err := s.AttendanceRepository.Update(ctx, att); err != nil {
			return fmt.Errorf("failed to record break start: %w", err)
		}
		return nil
	})
}

// BreakEnd implements attendance.AttendanceService. Closes the open break and
// accumulates its span into the numeric break total, keeping both
// representations consistent on their own.
func (s *AttendanceServiceImpl) BreakEnd(ctx context.Context, employeeID string, day string) error {
	workDate, err := s.resolveDay(day)
	if err != nil {
		return err
	}
	now := time.Now().In(s.loc)

	return s.db.WithTransaction(ctx, func(ctx context.Context) error {
		att, err := s.AttendanceRepository.GetOrCreateForUpdate(ctx, employeeID, workDate)
		if err != nil {
			return fmt.Errorf("failed to lock attendance row: %w", err)
		}

		switch att.OpenBreakSlot() {
		case attendance.BreakSlot1:
			att.BreakEndedAt = &now
			att.BreakMinutes += timespan.Minutes(att.BreakStartedAt, &now)
		case attendance.BreakSlot2:
			att.Break2EndedAt = &now
			att.BreakMinutes += timespan.Minutes(att.Break2StartedAt, &now)
		default:
			// no break open
			return nil
		}

		if err := s.AttendanceRepository.Update(ctx, att); err != nil {
			return fmt.Errorf("failed to record break end: %w", err)
		}
		return nil
	})
}

// GetOrCreateRecord implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) GetOrCreateRecord(ctx context.Context, employeeID string, day string) (attendance.Attendance, error) {
	workDate, err := s.resolveDay(day)
	if err != nil {
		return attendance.Attendance{}, err
	}

	existing, err := s.AttendanceRepository.GetByEmployeeAndDate(ctx, employeeID, workDate)
	if err != nil {
		return attendance.Attendance{}, fmt.Errorf("failed to get attendance: %w", err)
	}
	if existing != nil {
		return *existing, nil
	}

	created, err := s.AttendanceRepository.Create(ctx, attendance.Attendance{
		EmployeeID: employeeID,
		WorkDate:   workDate,
	})
	if err != nil {
		return attendance.Attendance{}, fmt.Errorf("failed to create attendance: %w", err)
	}
	return created, nil
}

// GetDay implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) GetDay(ctx context.Context, employeeID string, id string) (attendance.DayResponse, error) {
	att, err := s.AttendanceRepository.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, attendance.ErrAttendanceNotFound) {
			return attendance.DayResponse{}, attendance.ErrAttendanceNotFound
		}
		return attendance.DayResponse{}, fmt.Errorf("failed to get attendance: %w", err)
	}
	if att.EmployeeID != employeeID {
		return attendance.DayResponse{}, attendance.ErrUnauthorized
	}

	return MapDayResponse(att, s.loc), nil
}

// UpdateDay implements attendance.AttendanceService. This is the
// administrative direct edit: bad preconditions fail loudly here, unlike the
// self-service clock actions.
func (s *AttendanceServiceImpl) UpdateDay(ctx context.Context, employeeID string, day string, req attendance.EditDayRequest) (attendance.DayResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.DayResponse{}, err
	}
	workDate, err := s.resolveDay(day)
	if err != nil {
		return attendance.DayResponse{}, err
	}
	times := req.Times(workDate, s.loc)

	var updated attendance.Attendance
	err = s.db.WithTransaction(ctx, func(ctx context.Context) error {
		att, err := s.AttendanceRepository.GetOrCreateForUpdate(ctx, employeeID, workDate)
		if err != nil {
			return fmt.Errorf("failed to lock attendance row: %w", err)
		}

		proposesBreak := times.BreakStartedAt != nil || times.Break2StartedAt != nil
		if proposesBreak && times.ClockInAt == nil && att.ClockInAt == nil {
			return attendance.ErrClockInFirst
		}

		// Only provided fields are written; a blank field keeps its value.
		applyEditTimes(&att, times)
		if !validator.IsEmpty(req.Note) {
			att.Note = req.Note
		}
		att.RecalcStoredTotals()

		if err := s.AttendanceRepository.Update(ctx, att); err != nil {
			return fmt.Errorf("failed to update attendance: %w", err)
		}
		updated = att
		return nil
	})
	if err != nil {
		return attendance.DayResponse{}, err
	}

	return MapDayResponse(updated, s.loc), nil
}

// Recalc implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) Recalc(ctx context.Context, id string) error {
	existing, err := s.AttendanceRepository.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to get attendance: %w", err)
	}

	return s.db.WithTransaction(ctx, func(ctx context.Context) error {
		att, err := s.AttendanceRepository.GetOrCreateForUpdate(ctx, existing.EmployeeID, existing.WorkDate)
		if err != nil {
			return fmt.Errorf("failed to lock attendance row: %w", err)
		}
		att.RecalcStoredTotals()
		if err := s.AttendanceRepository.Update(ctx, att); err != nil {
			return fmt.Errorf("failed to store recalculated totals: %w", err)
		}
		return nil
	})
}

func applyEditTimes(att *attendance.Attendance, times attendance.EditTimes) {
	if times.ClockInAt != nil {
		att.ClockInAt = times.ClockInAt
	}
	if times.ClockOutAt != nil {
		att.ClockOutAt = times.ClockOutAt
	}
	if times.BreakStartedAt != nil {
		att.BreakStartedAt = times.BreakStartedAt
	}
	if times.BreakEndedAt != nil {
		att.BreakEndedAt = times.BreakEndedAt
	}
	if times.Break2StartedAt != nil {
		att.Break2StartedAt = times.Break2StartedAt
	}
	if times.Break2EndedAt != nil {
		att.Break2EndedAt = times.Break2EndedAt
	}
}

// hmPtr formats an instant as "HH:MM" in loc, nil-safe.
func hmPtr(t *time.Time, loc *time.Location) *string {
	if t == nil {
		return nil
	}
	s := t.In(loc).Format("15:04")
	return &s
}

// MapDayResponse renders a record for the detail view: padded hours, 00:00
// defaults.
func MapDayResponse(att attendance.Attendance, loc *time.Location) attendance.DayResponse {
	return attendance.DayResponse{
		ID:           att.ID,
		EmployeeID:   att.EmployeeID,
		EmployeeName: att.EmployeeName,
		WorkDate:     att.WorkDate.Format("2006-01-02"),
		State:        string(att.State()),
		ClockIn:      hmPtr(att.ClockInAt, loc),
		ClockOut:     hmPtr(att.ClockOutAt, loc),
		Break1Start:  hmPtr(att.BreakStartedAt, loc),
		Break1End:    hmPtr(att.BreakEndedAt, loc),
		Break2Start:  hmPtr(att.Break2StartedAt, loc),
		Break2End:    hmPtr(att.Break2EndedAt, loc),
		BreakHM:      att.BreakHM(),
		WorkHM:       att.WorkHM(),
		TotalHM:      att.TotalHM(),
		Note:         att.Note,
	}
}
