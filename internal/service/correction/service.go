package correction

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/kiki1226/Coachtech-kintai/internal/domain/attendance"
	"github.com/kiki1226/Coachtech-kintai/internal/domain/correction"
	"github.com/kiki1226/Coachtech-kintai/internal/pkg/database"
)

type ServiceImpl struct {
	db             database.Transactor
	attendanceRepo attendance.AttendanceRepository
	requestRepo    correction.RequestRepository
	loc            *time.Location
}

func NewService(
	db database.Transactor,
	attendanceRepo attendance.AttendanceRepository,
	requestRepo correction.RequestRepository,
	loc *time.Location,
) correction.Service {
	return &ServiceImpl{
		db:             db,
		attendanceRepo: attendanceRepo,
		requestRepo:    requestRepo,
		loc:            loc,
	}
}

// Submit implements correction.Service. The proposed times are written onto
// the record right away; the pending request records what was proposed and
// waits for review. A record has at most one pending request: a second
// submission merges into it under the same row lock that guards the record.
func (s *ServiceImpl) Submit(ctx context.Context, employeeID string, attendanceID string, req attendance.EditDayRequest) (correction.SubmitResult, error) {
	if err := req.Validate(); err != nil {
		return correction.SubmitResult{}, err
	}

	att, err := s.attendanceRepo.GetByID(ctx, attendanceID)
	if err != nil {
		if errors.Is(err, attendance.ErrAttendanceNotFound) {
			return correction.SubmitResult{}, attendance.ErrAttendanceNotFound
		}
		return correction.SubmitResult{}, fmt.Errorf("failed to get attendance: %w", err)
	}
	if att.EmployeeID != employeeID {
		return correction.SubmitResult{}, attendance.ErrUnauthorized
	}

	times := req.Times(att.WorkDate, s.loc)
	if !changesRecord(att, times, req.Note) {
		return correction.SubmitResult{NoChange: true}, nil
	}

	var result correction.SubmitResult
	err = s.db.WithTransaction(ctx, func(ctx context.Context) error {
		locked, err := s.attendanceRepo.GetOrCreateForUpdate(ctx, employeeID, att.WorkDate)
		if err != nil {
			return fmt.Errorf("failed to lock attendance row: %w", err)
		}

		applyEditTimes(&locked, times)
		locked.Note = req.Note
		locked.RecalcStoredTotals()
		if err := s.attendanceRepo.Update(ctx, locked); err != nil {
			return fmt.Errorf("failed to update attendance: %w", err)
		}

		note := req.Note
		pending, err := s.requestRepo.GetPendingForUpdate(ctx, locked.ID, employeeID)
		if err != nil {
			return fmt.Errorf("failed to lock pending request: %w", err)
		}
		if pending != nil {
			pending.MergeTimes(times, &note)
			pending.Reason = req.Reason
			if err := s.requestRepo.Update(ctx, *pending); err != nil {
				return fmt.Errorf("failed to update pending request: %w", err)
			}
			result.Request = pending
			return nil
		}

		created, err := s.requestRepo.Create(ctx, correction.Request{
			AttendanceID:    locked.ID,
			EmployeeID:      employeeID,
			Type:            correction.TypeAttendanceCorrection,
			Status:          correction.StatusPending,
			WorkDate:        locked.WorkDate,
			ClockInAt:       times.ClockInAt,
			ClockOutAt:      times.ClockOutAt,
			BreakStartedAt:  times.BreakStartedAt,
			BreakEndedAt:    times.BreakEndedAt,
			Break2StartedAt: times.Break2StartedAt,
			Break2EndedAt:   times.Break2EndedAt,
			Note:            &note,
			Reason:          req.Reason,
		})
		if err != nil {
			return fmt.Errorf("failed to create correction request: %w", err)
		}
		result.Request = &created
		return nil
	})
	if err != nil {
		return correction.SubmitResult{}, err
	}

	return result, nil
}

// ShadowView implements correction.Service.
func (s *ServiceImpl) ShadowView(ctx context.Context, employeeID string, attendanceID string) (attendance.Attendance, *correction.Request, error) {
	att, err := s.attendanceRepo.GetByID(ctx, attendanceID)
	if err != nil {
		if errors.Is(err, attendance.ErrAttendanceNotFound) {
			return attendance.Attendance{}, nil, attendance.ErrAttendanceNotFound
		}
		return attendance.Attendance{}, nil, fmt.Errorf("failed to get attendance: %w", err)
	}
	if att.EmployeeID != employeeID {
		return attendance.Attendance{}, nil, attendance.ErrUnauthorized
	}

	pending, err := s.requestRepo.GetPendingByAttendanceID(ctx, attendanceID)
	if err != nil {
		return attendance.Attendance{}, nil, fmt.Errorf("failed to get pending request: %w", err)
	}

	return correction.ShadowView(att, pending), pending, nil
}

// Approve implements correction.Service.
func (s *ServiceImpl) Approve(ctx context.Context, reviewerID string, requestID string) error {
	return s.db.WithTransaction(ctx, func(ctx context.Context) error {
		req, err := s.requestRepo.GetByID(ctx, requestID)
		if err != nil {
			if errors.Is(err, correction.ErrRequestNotFound) {
				return correction.ErrRequestNotFound
			}
			return fmt.Errorf("failed to get correction request: %w", err)
		}
		if req.Status != correction.StatusPending {
			return correction.ErrAlreadyProcessed
		}

		att, err := s.attendanceRepo.GetOrCreateForUpdate(ctx, req.EmployeeID, req.WorkDate)
		if err != nil {
			return fmt.Errorf("failed to lock attendance row: %w", err)
		}

		req.ApplyTo(&att)
		att.RecalcStoredTotals()
		if err := s.attendanceRepo.Update(ctx, att); err != nil {
			return fmt.Errorf("failed to update attendance: %w", err)
		}

		if err := s.requestRepo.UpdateStatus(ctx, requestID, correction.StatusApproved, reviewerID); err != nil {
			return fmt.Errorf("failed to resolve correction request: %w", err)
		}
		return nil
	})
}

// Reject implements correction.Service. The record keeps whatever it holds;
// the request is only marked resolved.
func (s *ServiceImpl) Reject(ctx context.Context, reviewerID string, requestID string) error {
	return s.db.WithTransaction(ctx, func(ctx context.Context) error {
		req, err := s.requestRepo.GetByID(ctx, requestID)
		if err != nil {
			if errors.Is(err, correction.ErrRequestNotFound) {
				return correction.ErrRequestNotFound
			}
			return fmt.Errorf("failed to get correction request: %w", err)
		}
		if req.Status != correction.StatusPending {
			return correction.ErrAlreadyProcessed
		}

		if err := s.requestRepo.UpdateStatus(ctx, requestID, correction.StatusRejected, reviewerID); err != nil {
			return fmt.Errorf("failed to resolve correction request: %w", err)
		}
		return nil
	})
}

func (s *ServiceImpl) ListByEmployee(ctx context.Context, employeeID string, status string) ([]correction.Request, error) {
	reqs, err := s.requestRepo.ListByEmployee(ctx, employeeID, status)
	if err != nil {
		return nil, fmt.Errorf("failed to list correction requests: %w", err)
	}
	return reqs, nil
}

func (s *ServiceImpl) ListByStatus(ctx context.Context, status string) ([]correction.Request, error) {
	reqs, err := s.requestRepo.ListByStatus(ctx, status)
	if err != nil {
		return nil, fmt.Errorf("failed to list correction requests: %w", err)
	}
	return reqs, nil
}

// changesRecord reports whether the proposal differs from the stored record.
// Times compare at minute resolution since proposals carry no seconds.
func changesRecord(att attendance.Attendance, times attendance.EditTimes, note string) bool {
	pairs := []struct {
		proposed *time.Time
		current  *time.Time
	}{
		{times.ClockInAt, att.ClockInAt},
		{times.ClockOutAt, att.ClockOutAt},
		{times.BreakStartedAt, att.BreakStartedAt},
		{times.BreakEndedAt, att.BreakEndedAt},
		{times.Break2StartedAt, att.Break2StartedAt},
		{times.Break2EndedAt, att.Break2EndedAt},
	}
	for _, p := range pairs {
		if p.proposed == nil {
			continue
		}
		if p.current == nil || !p.current.Truncate(time.Minute).Equal(p.proposed.Truncate(time.Minute)) {
			return true
		}
	}
	return note != att.Note
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

func hmPtr(t *time.Time, loc *time.Location) *string {
	if t == nil {
		return nil
	}
	s := t.In(loc).Format("15:04")
	return &s
}

// MapRequestResponse renders a correction request for API responses.
func MapRequestResponse(req correction.Request, loc *time.Location) correction.RequestResponse {
	return correction.RequestResponse{
		ID:           req.ID,
		AttendanceID: req.AttendanceID,
		EmployeeID:   req.EmployeeID,
		EmployeeName: req.EmployeeName,
		Type:         req.Type,
		Status:       req.Status,
		WorkDate:     req.WorkDate.Format("2006-01-02"),
		ClockIn:      hmPtr(req.ClockInAt, loc),
		ClockOut:     hmPtr(req.ClockOutAt, loc),
		Break1Start:  hmPtr(req.BreakStartedAt, loc),
		Break1End:    hmPtr(req.BreakEndedAt, loc),
		Break2Start:  hmPtr(req.Break2StartedAt, loc),
		Break2End:    hmPtr(req.Break2EndedAt, loc),
		Note:         req.Note,
		Reason:       req.Reason,
		CreatedAt:    req.CreatedAt.In(loc).Format(time.RFC3339),
	}
}
