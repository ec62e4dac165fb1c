package attendance

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kiki1226/Coachtech-kintai/internal/domain/attendance"
)

// passthroughTx satisfies database.Transactor without a live database.
type passthroughTx struct{}

func (passthroughTx) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fakeAttendanceRepo struct {
	byID   map[string]attendance.Attendance
	byKey  map[string]string
	breaks map[string][]attendance.BreakEntry
	seq    int
}

func newFakeAttendanceRepo() *fakeAttendanceRepo {
	return &fakeAttendanceRepo{
		byID:   map[string]attendance.Attendance{},
		byKey:  map[string]string{},
		breaks: map[string][]attendance.BreakEntry{},
	}
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
	var out []attendance.Attendance
	for _, att := range r.byID {
		if att.EmployeeID == employeeID && !att.WorkDate.Before(from) && !att.WorkDate.After(to) {
			out = append(out, att)
		}
	}
	return out, nil
}

func (r *fakeAttendanceRepo) ListByDate(ctx context.Context, workDate time.Time) ([]attendance.Attendance, error) {
	var out []attendance.Attendance
	for _, att := range r.byID {
		if att.WorkDate.Equal(workDate) {
			out = append(out, att)
		}
	}
	return out, nil
}

func (r *fakeAttendanceRepo) ListBreaks(ctx context.Context, attendanceID string) ([]attendance.BreakEntry, error) {
	return r.breaks[attendanceID], nil
}

func newTestService(repo *fakeAttendanceRepo) attendance.AttendanceService {
	return NewAttendanceService(passthroughTx{}, repo, time.UTC)
}

func seeded(t *testing.T, repo *fakeAttendanceRepo, employeeID, day string, mutate func(*attendance.Attendance)) attendance.Attendance {
	t.Helper()
	workDate, err := time.ParseInLocation("2006-01-02", day, time.UTC)
	require.NoError(t, err)
	att, err := repo.Create(context.Background(), attendance.Attendance{
		EmployeeID: employeeID,
		WorkDate:   workDate,
	})
	require.NoError(t, err)
	if mutate != nil {
		mutate(&att)
		require.NoError(t, repo.Update(context.Background(), att))
	}
	return att
}

func current(t *testing.T, repo *fakeAttendanceRepo, id string) attendance.Attendance {
	t.Helper()
	att, err := repo.GetByID(context.Background(), id)
	require.NoError(t, err)
	return att
}

func TestClockIn_RecordsFirstTimeOnly(t *testing.T) {
	repo := newFakeAttendanceRepo()
	svc := newTestService(repo)
	ctx := context.Background()

	require.NoError(t, svc.ClockIn(ctx, "emp-1", "2025-06-02"))

	att, err := repo.GetByEmployeeAndDate(ctx, "emp-1", time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.NotNil(t, att)
	require.NotNil(t, att.ClockInAt)
	first := *att.ClockInAt

	// double submission keeps the original time
	require.NoError(t, svc.ClockIn(ctx, "emp-1", "2025-06-02"))
	got := current(t, repo, att.ID)
	require.NotNil(t, got.ClockInAt)
	assert.True(t, got.ClockInAt.Equal(first))
}

func TestClockOut_ResubmissionOverwrites(t *testing.T) {
	repo := newFakeAttendanceRepo()
	svc := newTestService(repo)
	ctx := context.Background()

	earlier := time.Now().Add(-2 * time.Hour)
	att := seeded(t, repo, "emp-1", "2025-06-02", func(a *attendance.Attendance) {
		in := earlier.Add(-6 * time.Hour)
		a.ClockInAt = &in
		a.ClockOutAt = &earlier
	})

	require.NoError(t, svc.ClockOut(ctx, "emp-1", "2025-06-02"))

	got := current(t, repo, att.ID)
	require.NotNil(t, got.ClockOutAt)
	assert.True(t, got.ClockOutAt.After(earlier), "later clock-out should replace the earlier one")
}

func TestClockIn_InvalidDate(t *testing.T) {
	repo := newFakeAttendanceRepo()
	svc := newTestService(repo)

	err := svc.ClockIn(context.Background(), "emp-1", "06/02/2025")
	require.Error(t, err)
	assert.Empty(t, repo.byID)
}

func TestBreakStart_FillsSlotsInOrder(t *testing.T) {
	repo := newFakeAttendanceRepo()
	svc := newTestService(repo)
	ctx := context.Background()

	in := time.Now().Add(-4 * time.Hour)
	att := seeded(t, repo, "emp-1", "2025-06-02", func(a *attendance.Attendance) {
		a.ClockInAt = &in
	})

	require.NoError(t, svc.BreakStart(ctx, "emp-1", "2025-06-02"))
	got := current(t, repo, att.ID)
	require.NotNil(t, got.BreakStartedAt)
	assert.Nil(t, got.Break2StartedAt)

	require.NoError(t, svc.BreakEnd(ctx, "emp-1", "2025-06-02"))
	require.NoError(t, svc.BreakStart(ctx, "emp-1", "2025-06-02"))

	got = current(t, repo, att.ID)
	require.NotNil(t, got.Break2StartedAt)
	assert.Nil(t, got.Break2EndedAt)
	assert.Equal(t, attendance.StateOnBreak, got.State())
}

func TestBreakStart_SilentNoOps(t *testing.T) {
	ctx := context.Background()

	t.Run("before clock-in", func(t *testing.T) {
		repo := newFakeAttendanceRepo()
		svc := newTestService(repo)
		att := seeded(t, repo, "emp-1", "2025-06-02", nil)

		require.NoError(t, svc.BreakStart(ctx, "emp-1", "2025-06-02"))
		assert.Nil(t, current(t, repo, att.ID).BreakStartedAt)
	})

	t.Run("after clock-out", func(t *testing.T) {
		repo := newFakeAttendanceRepo()
		svc := newTestService(repo)
		in := time.Now().Add(-9 * time.Hour)
		out := time.Now().Add(-time.Hour)
		att := seeded(t, repo, "emp-1", "2025-06-02", func(a *attendance.Attendance) {
			a.ClockInAt = &in
			a.ClockOutAt = &out
		})

		require.NoError(t, svc.BreakStart(ctx, "emp-1", "2025-06-02"))
		assert.Nil(t, current(t, repo, att.ID).BreakStartedAt)
	})

	t.Run("break already open", func(t *testing.T) {
		repo := newFakeAttendanceRepo()
		svc := newTestService(repo)
		in := time.Now().Add(-4 * time.Hour)
		bs := time.Now().Add(-10 * time.Minute)
		att := seeded(t, repo, "emp-1", "2025-06-02", func(a *attendance.Attendance) {
			a.ClockInAt = &in
			a.BreakStartedAt = &bs
		})

		require.NoError(t, svc.BreakStart(ctx, "emp-1", "2025-06-02"))
		got := current(t, repo, att.ID)
		assert.True(t, got.BreakStartedAt.Equal(bs))
		assert.Nil(t, got.Break2StartedAt)
	})

	t.Run("both slots used", func(t *testing.T) {
		repo := newFakeAttendanceRepo()
		svc := newTestService(repo)
		in := time.Now().Add(-8 * time.Hour)
		b1s := in.Add(2 * time.Hour)
		b1e := b1s.Add(30 * time.Minute)
		b2s := b1e.Add(2 * time.Hour)
		b2e := b2s.Add(15 * time.Minute)
		att := seeded(t, repo, "emp-1", "2025-06-02", func(a *attendance.Attendance) {
			a.ClockInAt = &in
			a.BreakStartedAt = &b1s
			a.BreakEndedAt = &b1e
			a.Break2StartedAt = &b2s
			a.Break2EndedAt = &b2e
		})

		require.NoError(t, svc.BreakStart(ctx, "emp-1", "2025-06-02"))
		got := current(t, repo, att.ID)
		assert.True(t, got.Break2StartedAt.Equal(b2s))
		assert.True(t, got.Break2EndedAt.Equal(b2e))
	})
}

func TestBreakEnd_AccumulatesMinutes(t *testing.T) {
	repo := newFakeAttendanceRepo()
	svc := newTestService(repo)
	ctx := context.Background()

	in := time.Now().Add(-4 * time.Hour)
	bs := time.Now().Add(-10 * time.Minute)
	att := seeded(t, repo, "emp-1", "2025-06-02", func(a *attendance.Attendance) {
		a.ClockInAt = &in
		a.BreakStartedAt = &bs
	})

	require.NoError(t, svc.BreakEnd(ctx, "emp-1", "2025-06-02"))

	got := current(t, repo, att.ID)
	require.NotNil(t, got.BreakEndedAt)
	assert.Equal(t, 10, got.BreakMinutes)
}

func TestBreakEnd_WithoutOpenBreakIsNoOp(t *testing.T) {
	repo := newFakeAttendanceRepo()
	svc := newTestService(repo)
	ctx := context.Background()

	in := time.Now().Add(-4 * time.Hour)
	att := seeded(t, repo, "emp-1", "2025-06-02", func(a *attendance.Attendance) {
		a.ClockInAt = &in
	})

	require.NoError(t, svc.BreakEnd(ctx, "emp-1", "2025-06-02"))

	got := current(t, repo, att.ID)
	assert.Nil(t, got.BreakEndedAt)
	assert.Equal(t, 0, got.BreakMinutes)
}

func TestGetOrCreateRecord(t *testing.T) {
	repo := newFakeAttendanceRepo()
	svc := newTestService(repo)
	ctx := context.Background()

	created, err := svc.GetOrCreateRecord(ctx, "emp-1", "2025-06-02")
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, attendance.StateBeforeClockIn, created.State())

	again, err := svc.GetOrCreateRecord(ctx, "emp-1", "2025-06-02")
	require.NoError(t, err)
	assert.Equal(t, created.ID, again.ID)
}

func TestGetDay(t *testing.T) {
	repo := newFakeAttendanceRepo()
	svc := newTestService(repo)
	ctx := context.Background()

	in := time.Date(2025, 6, 2, 9, 0, 0, 0, time.UTC)
	out := time.Date(2025, 6, 2, 18, 0, 0, 0, time.UTC)
	b1s := time.Date(2025, 6, 2, 12, 0, 0, 0, time.UTC)
	b1e := time.Date(2025, 6, 2, 13, 0, 0, 0, time.UTC)
	att := seeded(t, repo, "emp-1", "2025-06-02", func(a *attendance.Attendance) {
		a.ClockInAt = &in
		a.ClockOutAt = &out
		a.BreakStartedAt = &b1s
		a.BreakEndedAt = &b1e
	})

	day, err := svc.GetDay(ctx, "emp-1", att.ID)
	require.NoError(t, err)
	assert.Equal(t, "2025-06-02", day.WorkDate)
	require.NotNil(t, day.ClockIn)
	assert.Equal(t, "09:00", *day.ClockIn)
	assert.Equal(t, "01:00", day.BreakHM)
	assert.Equal(t, "09:00", day.WorkHM)
	assert.Equal(t, "08:00", day.TotalHM)
	assert.Equal(t, string(attendance.StateAfterClockOut), day.State)

	t.Run("other employee's record", func(t *testing.T) {
		_, err := svc.GetDay(ctx, "emp-2", att.ID)
		assert.ErrorIs(t, err, attendance.ErrUnauthorized)
	})

	t.Run("unknown id", func(t *testing.T) {
		_, err := svc.GetDay(ctx, "emp-1", "att-none")
		assert.ErrorIs(t, err, attendance.ErrAttendanceNotFound)
	})
}

func strPtr(s string) *string { return &s }

func TestUpdateDay(t *testing.T) {
	ctx := context.Background()

	t.Run("writes provided fields and recalcs totals", func(t *testing.T) {
		repo := newFakeAttendanceRepo()
		svc := newTestService(repo)

		day, err := svc.UpdateDay(ctx, "emp-1", "2025-06-02", attendance.EditDayRequest{
			ClockIn:     strPtr("9:00"),
			ClockOut:    strPtr("18:00"),
			Break1Start: strPtr("12:00"),
			Break1End:   strPtr("12:45"),
			Note:        "forgot to clock out",
		})
		require.NoError(t, err)
		assert.Equal(t, "09:00", *day.ClockIn)
		assert.Equal(t, "00:45", day.BreakHM)
		assert.Equal(t, "08:15", day.TotalHM)
		assert.Equal(t, "forgot to clock out", day.Note)
	})

	t.Run("blank fields keep stored values", func(t *testing.T) {
		repo := newFakeAttendanceRepo()
		svc := newTestService(repo)
		in := time.Date(2025, 6, 2, 9, 0, 0, 0, time.UTC)
		seeded(t, repo, "emp-1", "2025-06-02", func(a *attendance.Attendance) {
			a.ClockInAt = &in
		})

		day, err := svc.UpdateDay(ctx, "emp-1", "2025-06-02", attendance.EditDayRequest{
			ClockOut: strPtr("17:30"),
			Note:     "left early",
		})
		require.NoError(t, err)
		require.NotNil(t, day.ClockIn)
		assert.Equal(t, "09:00", *day.ClockIn)
		assert.Equal(t, "17:30", *day.ClockOut)
		assert.Equal(t, "08:30", day.TotalHM)
	})

	t.Run("break without any clock-in is refused", func(t *testing.T) {
		repo := newFakeAttendanceRepo()
		svc := newTestService(repo)

		_, err := svc.UpdateDay(ctx, "emp-1", "2025-06-02", attendance.EditDayRequest{
			Break1Start: strPtr("12:00"),
			Break1End:   strPtr("12:30"),
			Note:        "missed break",
		})
		assert.ErrorIs(t, err, attendance.ErrClockInFirst)
	})

	t.Run("invalid fields are rejected before any write", func(t *testing.T) {
		repo := newFakeAttendanceRepo()
		svc := newTestService(repo)

		_, err := svc.UpdateDay(ctx, "emp-1", "2025-06-02", attendance.EditDayRequest{
			ClockIn:  strPtr("18:00"),
			ClockOut: strPtr("9:00"),
			Note:     "swapped",
		})
		require.Error(t, err)
		assert.Empty(t, repo.byID)
	})
}

func TestRecalc(t *testing.T) {
	repo := newFakeAttendanceRepo()
	svc := newTestService(repo)
	ctx := context.Background()

	in := time.Date(2025, 6, 2, 9, 0, 0, 0, time.UTC)
	out := time.Date(2025, 6, 2, 18, 0, 0, 0, time.UTC)
	b1s := time.Date(2025, 6, 2, 12, 0, 0, 0, time.UTC)
	b1e := time.Date(2025, 6, 2, 13, 30, 0, 0, time.UTC)
	att := seeded(t, repo, "emp-1", "2025-06-02", func(a *attendance.Attendance) {
		a.ClockInAt = &in
		a.ClockOutAt = &out
		a.BreakStartedAt = &b1s
		a.BreakEndedAt = &b1e
		a.BreakMinutes = 999
		a.WorkMinutes = 999
	})

	require.NoError(t, svc.Recalc(ctx, att.ID))

	got := current(t, repo, att.ID)
	assert.Equal(t, 90, got.BreakMinutes)
	assert.Equal(t, 450, got.WorkMinutes)
}
