package correction

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kiki1226/Coachtech-kintai/internal/domain/attendance"
	"github.com/kiki1226/Coachtech-kintai/internal/domain/correction"
)

type passthroughTx struct{}

func (passthroughTx) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fakeAttendanceRepo struct {
	byID  map[string]attendance.Attendance
	byKey map[string]string
	seq   int
}

func newFakeAttendanceRepo() *fakeAttendanceRepo {
	return &fakeAttendanceRepo{byID: map[string]attendance.Attendance{}, byKey: map[string]string{}}
}

func key(employeeID string, workDate time.Time) string {
	return employeeID + "|" + workDate.Format("2006-01-02")
}

func (r *fakeAttendanceRepo) Create(ctx context.Context, att attendance.Attendance) (attendance.Attendance, error) {
	r.seq++
	att.ID = fmt.Sprintf("att-%d", r.seq)
	r.byID[att.ID] = att
	r.byKey[key(att.EmployeeID, att.WorkDate)] = att.ID
	return att, nil
}

func (r *fakeAttendanceRepo) GetByID(ctx context.Context, id string) (attendance.Attendance, error) {
	att, ok := r.byID[id]
	if !ok {
		return attendance.Attendance{}, attendance.ErrAttendanceNotFound
	}
	return att, nil
}

func (r *fakeAttendanceRepo) GetByEmployeeAndDate(ctx context.Context, employeeID string, workDate time.Time) (*attendance.Attendance, error) {
	id, ok := r.byKey[key(employeeID, workDate)]
	if !ok {
		return nil, nil
	}
	att := r.byID[id]
	return &att, nil
}

func (r *fakeAttendanceRepo) GetOrCreateForUpdate(ctx context.Context, employeeID string, workDate time.Time) (attendance.Attendance, error) {
	if id, ok := r.byKey[key(employeeID, workDate)]; ok {
		return r.byID[id], nil
	}
	return r.Create(ctx, attendance.Attendance{EmployeeID: employeeID, WorkDate: workDate})
}

func (r *fakeAttendanceRepo) Update(ctx context.Context, att attendance.Attendance) error {
	if _, ok := r.byID[att.ID]; !ok {
		return attendance.ErrAttendanceNotFound
	}
	r.byID[att.ID] = att
	return nil
}

func (r *fakeAttendanceRepo) ListByEmployeeBetween(ctx context.Context, employeeID string, from, to time.Time) ([]attendance.Attendance, error) {
	return nil, nil
}

func (r *fakeAttendanceRepo) ListByDate(ctx context.Context, workDate time.Time) ([]attendance.Attendance, error) {
	return nil, nil
}

func (r *fakeAttendanceRepo) ListBreaks(ctx context.Context, attendanceID string) ([]attendance.BreakEntry, error) {
	return nil, nil
}

type fakeRequestRepo struct {
	byID map[string]correction.Request
	seq  int
}

func newFakeRequestRepo() *fakeRequestRepo {
	return &fakeRequestRepo{byID: map[string]correction.Request{}}
}

func (r *fakeRequestRepo) Create(ctx context.Context, req correction.Request) (correction.Request, error) {
	r.seq++
	req.ID = fmt.Sprintf("req-%d", r.seq)
	req.CreatedAt = time.Now()
	r.byID[req.ID] = req
	return req, nil
}

func (r *fakeRequestRepo) GetByID(ctx context.Context, id string) (correction.Request, error) {
	req, ok := r.byID[id]
	if !ok {
		return correction.Request{}, correction.ErrRequestNotFound
	}
	return req, nil
}

func (r *fakeRequestRepo) GetPendingByAttendanceID(ctx context.Context, attendanceID string) (*correction.Request, error) {
	for _, req := range r.byID {
		if req.AttendanceID == attendanceID && req.Status == correction.StatusPending {
			found := req
			return &found, nil
		}
	}
	return nil, nil
}

func (r *fakeRequestRepo) GetPendingForUpdate(ctx context.Context, attendanceID string, employeeID string) (*correction.Request, error) {
	for _, req := range r.byID {
		if req.AttendanceID == attendanceID && req.EmployeeID == employeeID && req.Status == correction.StatusPending {
			found := req
			return &found, nil
		}
	}
	return nil, nil
}

func (r *fakeRequestRepo) Update(ctx context.Context, req correction.Request) error {
	if _, ok := r.byID[req.ID]; !ok {
		return correction.ErrRequestNotFound
	}
	r.byID[req.ID] = req
	return nil
}

func (r *fakeRequestRepo) UpdateStatus(ctx context.Context, id string, status string, reviewedBy string) error {
	req, ok := r.byID[id]
	if !ok {
		return correction.ErrRequestNotFound
	}
	now := time.Now()
	req.Status = status
	req.ReviewedBy = &reviewedBy
	req.ReviewedAt = &now
	r.byID[id] = req
	return nil
}

func (r *fakeRequestRepo) ListByEmployee(ctx context.Context, employeeID string, status string) ([]correction.Request, error) {
	var out []correction.Request
	for _, req := range r.byID {
		if req.EmployeeID == employeeID && (status == "" || req.Status == status) {
			out = append(out, req)
		}
	}
	return out, nil
}

func (r *fakeRequestRepo) ListByStatus(ctx context.Context, status string) ([]correction.Request, error) {
	var out []correction.Request
	for _, req := range r.byID {
		if status == "" || req.Status == status {
			out = append(out, req)
		}
	}
	return out, nil
}

func pendingCount(r *fakeRequestRepo, attendanceID string) int {
	n := 0
	for _, req := range r.byID {
		if req.AttendanceID == attendanceID && req.Status == correction.StatusPending {
			n++
		}
	}
	return n
}

func strPtr(s string) *string { return &s }

func seedDay(t *testing.T, repo *fakeAttendanceRepo, employeeID, day string, mutate func(*attendance.Attendance)) attendance.Attendance {
	t.Helper()
	workDate, err := time.ParseInLocation("2006-01-02", day, time.UTC)
	require.NoError(t, err)
	att, err := repo.Create(context.Background(), attendance.Attendance{EmployeeID: employeeID, WorkDate: workDate})
	require.NoError(t, err)
	if mutate != nil {
		mutate(&att)
		require.NoError(t, repo.Update(context.Background(), att))
	}
	return att
}

func newTestService(attRepo *fakeAttendanceRepo, reqRepo *fakeRequestRepo) correction.Service {
	return NewService(passthroughTx{}, attRepo, reqRepo, time.UTC)
}

func TestSubmit_CreatesPendingAndUpdatesRecord(t *testing.T) {
	attRepo := newFakeAttendanceRepo()
	reqRepo := newFakeRequestRepo()
	svc := newTestService(attRepo, reqRepo)
	ctx := context.Background()

	in := time.Date(2025, 6, 2, 9, 0, 0, 0, time.UTC)
	out := time.Date(2025, 6, 2, 17, 0, 0, 0, time.UTC)
	att := seedDay(t, attRepo, "emp-1", "2025-06-02", func(a *attendance.Attendance) {
		a.ClockInAt = &in
		a.ClockOutAt = &out
	})

	result, err := svc.Submit(ctx, "emp-1", att.ID, attendance.EditDayRequest{
		ClockIn:  strPtr("9:00"),
		ClockOut: strPtr("18:00"),
		Note:     "stayed late",
		Reason:   "forgot to clock out on time",
	})
	require.NoError(t, err)
	assert.False(t, result.NoChange)
	require.NotNil(t, result.Request)
	assert.Equal(t, correction.StatusPending, result.Request.Status)
	assert.Equal(t, correction.TypeAttendanceCorrection, result.Request.Type)

	// the record reflects the proposal immediately
	updated, err := attRepo.GetByID(ctx, att.ID)
	require.NoError(t, err)
	require.NotNil(t, updated.ClockOutAt)
	assert.Equal(t, 18, updated.ClockOutAt.Hour())
	assert.Equal(t, "stayed late", updated.Note)
	assert.Equal(t, 540, updated.WorkMinutes)
}

func TestSubmit_ResubmissionMergesIntoPending(t *testing.T) {
	attRepo := newFakeAttendanceRepo()
	reqRepo := newFakeRequestRepo()
	svc := newTestService(attRepo, reqRepo)
	ctx := context.Background()

	in := time.Date(2025, 6, 2, 9, 0, 0, 0, time.UTC)
	out := time.Date(2025, 6, 2, 17, 0, 0, 0, time.UTC)
	att := seedDay(t, attRepo, "emp-1", "2025-06-02", func(a *attendance.Attendance) {
		a.ClockInAt = &in
		a.ClockOutAt = &out
	})

	first, err := svc.Submit(ctx, "emp-1", att.ID, attendance.EditDayRequest{
		ClockOut: strPtr("18:00"),
		ClockIn:  strPtr("9:00"),
		Note:     "stayed late",
		Reason:   "overtime",
	})
	require.NoError(t, err)

	second, err := svc.Submit(ctx, "emp-1", att.ID, attendance.EditDayRequest{
		ClockIn:  strPtr("8:30"),
		ClockOut: strPtr("18:00"),
		Note:     "also came early",
		Reason:   "correcting the morning too",
	})
	require.NoError(t, err)

	assert.Equal(t, first.Request.ID, second.Request.ID)
	assert.Equal(t, 1, pendingCount(reqRepo, att.ID))

	merged, err := reqRepo.GetByID(ctx, first.Request.ID)
	require.NoError(t, err)
	require.NotNil(t, merged.ClockInAt)
	assert.Equal(t, 8, merged.ClockInAt.Hour())
	require.NotNil(t, merged.ClockOutAt)
	assert.Equal(t, 18, merged.ClockOutAt.Hour())
	assert.Equal(t, "correcting the morning too", merged.Reason)
}

func TestSubmit_NoChange(t *testing.T) {
	attRepo := newFakeAttendanceRepo()
	reqRepo := newFakeRequestRepo()
	svc := newTestService(attRepo, reqRepo)
	ctx := context.Background()

	in := time.Date(2025, 6, 2, 9, 0, 0, 0, time.UTC)
	out := time.Date(2025, 6, 2, 18, 0, 0, 0, time.UTC)
	att := seedDay(t, attRepo, "emp-1", "2025-06-02", func(a *attendance.Attendance) {
		a.ClockInAt = &in
		a.ClockOutAt = &out
		a.Note = "as is"
	})

	result, err := svc.Submit(ctx, "emp-1", att.ID, attendance.EditDayRequest{
		ClockIn:  strPtr("09:00"),
		ClockOut: strPtr("18:00"),
		Note:     "as is",
		Reason:   "resubmitted by mistake",
	})
	require.NoError(t, err)
	assert.True(t, result.NoChange)
	assert.Nil(t, result.Request)
	assert.Empty(t, reqRepo.byID)
}

func TestSubmit_OtherEmployeesRecord(t *testing.T) {
	attRepo := newFakeAttendanceRepo()
	reqRepo := newFakeRequestRepo()
	svc := newTestService(attRepo, reqRepo)

	in := time.Date(2025, 6, 2, 9, 0, 0, 0, time.UTC)
	out := time.Date(2025, 6, 2, 18, 0, 0, 0, time.UTC)
	att := seedDay(t, attRepo, "emp-1", "2025-06-02", func(a *attendance.Attendance) {
		a.ClockInAt = &in
		a.ClockOutAt = &out
	})

	_, err := svc.Submit(context.Background(), "emp-2", att.ID, attendance.EditDayRequest{
		ClockIn:  strPtr("9:00"),
		ClockOut: strPtr("17:00"),
		Note:     "not mine",
		Reason:   "testing",
	})
	assert.ErrorIs(t, err, attendance.ErrUnauthorized)
}

func TestShadowView(t *testing.T) {
	attRepo := newFakeAttendanceRepo()
	reqRepo := newFakeRequestRepo()
	svc := newTestService(attRepo, reqRepo)
	ctx := context.Background()

	in := time.Date(2025, 6, 2, 9, 0, 0, 0, time.UTC)
	out := time.Date(2025, 6, 2, 17, 0, 0, 0, time.UTC)
	att := seedDay(t, attRepo, "emp-1", "2025-06-02", func(a *attendance.Attendance) {
		a.ClockInAt = &in
		a.ClockOutAt = &out
	})

	proposedOut := time.Date(2025, 6, 2, 18, 0, 0, 0, time.UTC)
	_, err := reqRepo.Create(ctx, correction.Request{
		AttendanceID: att.ID,
		EmployeeID:   "emp-1",
		Type:         correction.TypeAttendanceCorrection,
		Status:       correction.StatusPending,
		WorkDate:     att.WorkDate,
		ClockOutAt:   &proposedOut,
		Reason:       "overtime",
	})
	require.NoError(t, err)

	view, pending, err := svc.ShadowView(ctx, "emp-1", att.ID)
	require.NoError(t, err)
	require.NotNil(t, pending)
	require.NotNil(t, view.ClockOutAt)
	assert.Equal(t, 18, view.ClockOutAt.Hour())
	// proposed fields overlay the view only
	stored, err := attRepo.GetByID(ctx, att.ID)
	require.NoError(t, err)
	assert.Equal(t, 17, stored.ClockOutAt.Hour())
}

func TestApprove(t *testing.T) {
	attRepo := newFakeAttendanceRepo()
	reqRepo := newFakeRequestRepo()
	svc := newTestService(attRepo, reqRepo)
	ctx := context.Background()

	in := time.Date(2025, 6, 2, 9, 0, 0, 0, time.UTC)
	out := time.Date(2025, 6, 2, 17, 0, 0, 0, time.UTC)
	att := seedDay(t, attRepo, "emp-1", "2025-06-02", func(a *attendance.Attendance) {
		a.ClockInAt = &in
		a.ClockOutAt = &out
	})

	proposedOut := time.Date(2025, 6, 2, 18, 0, 0, 0, time.UTC)
	req, err := reqRepo.Create(ctx, correction.Request{
		AttendanceID: att.ID,
		EmployeeID:   "emp-1",
		Type:         correction.TypeAttendanceCorrection,
		Status:       correction.StatusPending,
		WorkDate:     att.WorkDate,
		ClockOutAt:   &proposedOut,
		Reason:       "overtime",
	})
	require.NoError(t, err)

	require.NoError(t, svc.Approve(ctx, "admin-1", req.ID))

	resolved, err := reqRepo.GetByID(ctx, req.ID)
	require.NoError(t, err)
	assert.Equal(t, correction.StatusApproved, resolved.Status)
	require.NotNil(t, resolved.ReviewedBy)
	assert.Equal(t, "admin-1", *resolved.ReviewedBy)

	updated, err := attRepo.GetByID(ctx, att.ID)
	require.NoError(t, err)
	assert.Equal(t, 18, updated.ClockOutAt.Hour())
	assert.Equal(t, 540, updated.WorkMinutes)

	t.Run("second resolution fails", func(t *testing.T) {
		err := svc.Approve(ctx, "admin-1", req.ID)
		assert.ErrorIs(t, err, correction.ErrAlreadyProcessed)
	})
}

func TestReject_LeavesRecordUntouched(t *testing.T) {
	attRepo := newFakeAttendanceRepo()
	reqRepo := newFakeRequestRepo()
	svc := newTestService(attRepo, reqRepo)
	ctx := context.Background()

	in := time.Date(2025, 6, 2, 9, 0, 0, 0, time.UTC)
	out := time.Date(2025, 6, 2, 17, 0, 0, 0, time.UTC)
	att := seedDay(t, attRepo, "emp-1", "2025-06-02", func(a *attendance.Attendance) {
		a.ClockInAt = &in
		a.ClockOutAt = &out
	})

	proposedOut := time.Date(2025, 6, 2, 18, 0, 0, 0, time.UTC)
	req, err := reqRepo.Create(ctx, correction.Request{
		AttendanceID: att.ID,
		EmployeeID:   "emp-1",
		Type:         correction.TypeAttendanceCorrection,
		Status:       correction.StatusPending,
		WorkDate:     att.WorkDate,
		ClockOutAt:   &proposedOut,
		Reason:       "overtime",
	})
	require.NoError(t, err)

	require.NoError(t, svc.Reject(ctx, "admin-1", req.ID))

	resolved, err := reqRepo.GetByID(ctx, req.ID)
	require.NoError(t, err)
	assert.Equal(t, correction.StatusRejected, resolved.Status)

	stored, err := attRepo.GetByID(ctx, att.ID)
	require.NoError(t, err)
	assert.Equal(t, 17, stored.ClockOutAt.Hour())

	t.Run("reject after reject fails", func(t *testing.T) {
		err := svc.Reject(ctx, "admin-1", req.ID)
		assert.ErrorIs(t, err, correction.ErrAlreadyProcessed)
	})
}

func TestApprove_UnknownRequest(t *testing.T) {
	svc := newTestService(newFakeAttendanceRepo(), newFakeRequestRepo())
	err := svc.Approve(context.Background(), "admin-1", "req-none")
	assert.ErrorIs(t, err, correction.ErrRequestNotFound)
}
