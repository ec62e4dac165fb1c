package postgresql

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/kiki1226/Coachtech-kintai/internal/domain/attendance"
	"github.com/kiki1226/Coachtech-kintai/internal/pkg/database"
)

const attendanceColumns = `
	id, employee_id, work_date, clock_in_at, clock_out_at,
	break_started_at, break_ended_at, break2_started_at, break2_ended_at,
	break_minutes, work_minutes, note, created_at, updated_at
`

type attendanceRepositoryImpl struct {
	db *database.DB
}

func NewAttendanceRepository(db *database.DB) attendance.AttendanceRepository {
	return &attendanceRepositoryImpl{db: db}
}

func scanAttendance(row pgx.Row) (attendance.Attendance, error) {
	var att attendance.Attendance
	err := row.Scan(
		&att.ID,
		&att.EmployeeID,
		&att.WorkDate,
		&att.ClockInAt,
		&att.ClockOutAt,
		&att.BreakStartedAt,
		&att.BreakEndedAt,
		&att.Break2StartedAt,
		&att.Break2EndedAt,
		&att.BreakMinutes,
		&att.WorkMinutes,
		&att.Note,
		&att.CreatedAt,
		&att.UpdatedAt,
	)
	return att, err
}

// Create implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) Create(ctx context.Context, att attendance.Attendance) (attendance.Attendance, error) {
	q := database.QuerierFrom(ctx, r.db)

	query := `
		INSERT INTO attendances (
			id, employee_id, work_date, clock_in_at, clock_out_at,
			break_started_at, break_ended_at, break2_started_at, break2_ended_at,
			break_minutes, work_minutes, note
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING ` + attendanceColumns

	created, err := scanAttendance(q.QueryRow(ctx, query,
		uuid.NewString(),
		att.EmployeeID,
		att.WorkDate,
		att.ClockInAt,
		att.ClockOutAt,
		att.BreakStartedAt,
		att.BreakEndedAt,
		att.Break2StartedAt,
		att.Break2EndedAt,
		att.BreakMinutes,
		att.WorkMinutes,
		att.Note,
	))
	if err != nil {
		return attendance.Attendance{}, err
	}
	return created, nil
}

// GetByID implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) GetByID(ctx context.Context, id string) (attendance.Attendance, error) {
	q := database.QuerierFrom(ctx, r.db)

	query := `
		SELECT ` + attendanceColumns + `
		FROM attendances
		WHERE id = $1
	`

	att, err := scanAttendance(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return attendance.Attendance{}, attendance.ErrAttendanceNotFound
		}
		return attendance.Attendance{}, err
	}

	att.Breaks, err = r.ListBreaks(ctx, att.ID)
	if err != nil {
		return attendance.Attendance{}, err
	}
	return att, nil
}

// GetByEmployeeAndDate implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) GetByEmployeeAndDate(ctx context.Context, employeeID string, workDate time.Time) (*attendance.Attendance, error) {
	q := database.QuerierFrom(ctx, r.db)

	query := `
		SELECT ` + attendanceColumns + `
		FROM attendances
		WHERE employee_id = $1 AND work_date = $2
	`

	att, err := scanAttendance(q.QueryRow(ctx, query, employeeID, workDate))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &att, nil
}

// GetOrCreateForUpdate implements attendance.AttendanceRepository. The insert
// is a no-op when the (employee_id, work_date) row already exists; the
// following SELECT ... FOR UPDATE serializes concurrent writers on that row.
func (r *attendanceRepositoryImpl) GetOrCreateForUpdate(ctx context.Context, employeeID string, workDate time.Time) (attendance.Attendance, error) {
	q := database.QuerierFrom(ctx, r.db)

	insertQuery := `
		INSERT INTO attendances (id, employee_id, work_date)
		VALUES ($1, $2, $3)
		ON CONFLICT (employee_id, work_date) DO NOTHING
	`
	if _, err := q.Exec(ctx, insertQuery, uuid.NewString(), employeeID, workDate); err != nil {
		return attendance.Attendance{}, err
	}

	lockQuery := `
		SELECT ` + attendanceColumns + `
		FROM attendances
		WHERE employee_id = $1 AND work_date = $2
		FOR UPDATE
	`
	return scanAttendance(q.QueryRow(ctx, lockQuery, employeeID, workDate))
}

// Update implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) Update(ctx context.Context, att attendance.Attendance) error {
	q := database.QuerierFrom(ctx, r.db)

	query := `
		UPDATE attendances
		SET clock_in_at = $1, clock_out_at = $2,
			break_started_at = $3, break_ended_at = $4,
			break2_started_at = $5, break2_ended_at = $6,
			break_minutes = $7, work_minutes = $8, note = $9,
			updated_at = NOW()
		WHERE id = $10
	`

	tag, err := q.Exec(ctx, query,
		att.ClockInAt,
		att.ClockOutAt,
		att.BreakStartedAt,
		att.BreakEndedAt,
		att.Break2StartedAt,
		att.Break2EndedAt,
		att.BreakMinutes,
		att.WorkMinutes,
		att.Note,
		att.ID,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return attendance.ErrAttendanceNotFound
	}
	return nil
}

// ListByEmployeeBetween implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) ListByEmployeeBetween(ctx context.Context, employeeID string, from, to time.Time) ([]attendance.Attendance, error) {
	q := database.QuerierFrom(ctx, r.db)

	query := `
		SELECT ` + attendanceColumns + `
		FROM attendances
		WHERE employee_id = $1 AND work_date BETWEEN $2 AND $3
		ORDER BY work_date
	`

	rows, err := q.Query(ctx, query, employeeID, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []attendance.Attendance
	for rows.Next() {
		att, err := scanAttendance(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, att)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if err := r.attachBreaks(ctx, records); err != nil {
		return nil, err
	}
	return records, nil
}

// ListByDate implements attendance.AttendanceRepository. Employee names come
// along for the day board.
func (r *attendanceRepositoryImpl) ListByDate(ctx context.Context, workDate time.Time) ([]attendance.Attendance, error) {
	q := database.QuerierFrom(ctx, r.db)

	query := `
		SELECT a.id, a.employee_id, a.work_date, a.clock_in_at, a.clock_out_at,
			a.break_started_at, a.break_ended_at, a.break2_started_at, a.break2_ended_at,
			a.break_minutes, a.work_minutes, a.note, a.created_at, a.updated_at,
			u.name
		FROM attendances a
		JOIN users u ON u.id = a.employee_id
		WHERE a.work_date = $1
		ORDER BY u.name
	`

	rows, err := q.Query(ctx, query, workDate)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []attendance.Attendance
	for rows.Next() {
		var att attendance.Attendance
		err := rows.Scan(
			&att.ID,
			&att.EmployeeID,
			&att.WorkDate,
			&att.ClockInAt,
			&att.ClockOutAt,
			&att.BreakStartedAt,
			&att.BreakEndedAt,
			&att.Break2StartedAt,
			&att.Break2EndedAt,
			&att.BreakMinutes,
			&att.WorkMinutes,
			&att.Note,
			&att.CreatedAt,
			&att.UpdatedAt,
			&att.EmployeeName,
		)
		if err != nil {
			return nil, err
		}
		records = append(records, att)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if err := r.attachBreaks(ctx, records); err != nil {
		return nil, err
	}
	return records, nil
}

// attachBreaks loads break entries for a batch of records in one query, so
// the list views resolve breaks from the same tiers as the detail view.
func (r *attendanceRepositoryImpl) attachBreaks(ctx context.Context, records []attendance.Attendance) error {
	if len(records) == 0 {
		return nil
	}
	q := database.QuerierFrom(ctx, r.db)

	ids := make([]string, len(records))
	for i, att := range records {
		ids[i] = att.ID
	}

	query := `
		SELECT id, attendance_id, started_at, ended_at, minutes
		FROM attendance_breaks
		WHERE attendance_id = ANY($1)
		ORDER BY started_at
	`

	rows, err := q.Query(ctx, query, ids)
	if err != nil {
		return err
	}
	defer rows.Close()

	byAttendance := make(map[string][]attendance.BreakEntry)
	for rows.Next() {
		var entry attendance.BreakEntry
		if err := rows.Scan(&entry.ID, &entry.AttendanceID, &entry.StartedAt, &entry.EndedAt, &entry.Minutes); err != nil {
			return err
		}
		byAttendance[entry.AttendanceID] = append(byAttendance[entry.AttendanceID], entry)
	}
	if err := rows.Err(); err != nil {
		return err
	}

	for i := range records {
		records[i].Breaks = byAttendance[records[i].ID]
	}
	return nil
}

// ListBreaks implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) ListBreaks(ctx context.Context, attendanceID string) ([]attendance.BreakEntry, error) {
	q := database.QuerierFrom(ctx, r.db)

	query := `
		SELECT id, attendance_id, started_at, ended_at, minutes
		FROM attendance_breaks
		WHERE attendance_id = $1
		ORDER BY started_at
	`

	rows, err := q.Query(ctx, query, attendanceID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []attendance.BreakEntry
	for rows.Next() {
		var entry attendance.BreakEntry
		if err := rows.Scan(&entry.ID, &entry.AttendanceID, &entry.StartedAt, &entry.EndedAt, &entry.Minutes); err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}
