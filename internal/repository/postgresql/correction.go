package postgresql

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/kiki1226/Coachtech-kintai/internal/domain/correction"
	"github.com/kiki1226/Coachtech-kintai/internal/pkg/database"
)

const correctionColumns = `
	id, attendance_id, employee_id, type, status, work_date,
	clock_in_at, clock_out_at, break_started_at, break_ended_at,
	break2_started_at, break2_ended_at, note, reason,
	reviewed_by, reviewed_at, created_at, updated_at
`

type correctionRepositoryImpl struct {
	db *database.DB
}

func NewCorrectionRepository(db *database.DB) correction.RequestRepository {
	return &correctionRepositoryImpl{db: db}
}

func scanRequest(row pgx.Row) (correction.Request, error) {
	var req correction.Request
	err := row.Scan(
		&req.ID,
		&req.AttendanceID,
		&req.EmployeeID,
		&req.Type,
		&req.Status,
		&req.WorkDate,
		&req.ClockInAt,
		&req.ClockOutAt,
		&req.BreakStartedAt,
		&req.BreakEndedAt,
		&req.Break2StartedAt,
		&req.Break2EndedAt,
		&req.Note,
		&req.Reason,
		&req.ReviewedBy,
		&req.ReviewedAt,
		&req.CreatedAt,
		&req.UpdatedAt,
	)
	return req, err
}

// Create implements correction.RequestRepository.
func (r *correctionRepositoryImpl) Create(ctx context.Context, req correction.Request) (correction.Request, error) {
	q := database.QuerierFrom(ctx, r.db)

	query := `
		INSERT INTO correction_requests (
			id, attendance_id, employee_id, type, status, work_date,
			clock_in_at, clock_out_at, break_started_at, break_ended_at,
			break2_started_at, break2_ended_at, note, reason
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		RETURNING ` + correctionColumns

	created, err := scanRequest(q.QueryRow(ctx, query,
		uuid.NewString(),
		req.AttendanceID,
		req.EmployeeID,
		req.Type,
		req.Status,
		req.WorkDate,
		req.ClockInAt,
		req.ClockOutAt,
		req.BreakStartedAt,
		req.BreakEndedAt,
		req.Break2StartedAt,
		req.Break2EndedAt,
		req.Note,
		req.Reason,
	))
	if err != nil {
		return correction.Request{}, err
	}
	return created, nil
}

// GetByID implements correction.RequestRepository.
func (r *correctionRepositoryImpl) GetByID(ctx context.Context, id string) (correction.Request, error) {
	q := database.QuerierFrom(ctx, r.db)

	query := `
		SELECT ` + correctionColumns + `
		FROM correction_requests
		WHERE id = $1
	`

	req, err := scanRequest(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return correction.Request{}, correction.ErrRequestNotFound
		}
		return correction.Request{}, err
	}
	return req, nil
}

// GetPendingByAttendanceID implements correction.RequestRepository.
func (r *correctionRepositoryImpl) GetPendingByAttendanceID(ctx context.Context, attendanceID string) (*correction.Request, error) {
	q := database.QuerierFrom(ctx, r.db)

	query := `
		SELECT ` + correctionColumns + `
		FROM correction_requests
		WHERE attendance_id = $1 AND status = $2
	`

	req, err := scanRequest(q.QueryRow(ctx, query, attendanceID, correction.StatusPending))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &req, nil
}

// GetPendingForUpdate implements correction.RequestRepository.
func (r *correctionRepositoryImpl) GetPendingForUpdate(ctx context.Context, attendanceID string, employeeID string) (*correction.Request, error) {
	q := database.QuerierFrom(ctx, r.db)

	query := `
		SELECT ` + correctionColumns + `
		FROM correction_requests
		WHERE attendance_id = $1 AND employee_id = $2 AND status = $3
		FOR UPDATE
	`

	req, err := scanRequest(q.QueryRow(ctx, query, attendanceID, employeeID, correction.StatusPending))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &req, nil
}

// Update implements correction.RequestRepository.
func (r *correctionRepositoryImpl) Update(ctx context.Context, req correction.Request) error {
	q := database.QuerierFrom(ctx, r.db)

	query := `
		UPDATE correction_requests
		SET clock_in_at = $1, clock_out_at = $2,
			break_started_at = $3, break_ended_at = $4,
			break2_started_at = $5, break2_ended_at = $6,
			note = $7, reason = $8, updated_at = NOW()
		WHERE id = $9
	`

	tag, err := q.Exec(ctx, query,
		req.ClockInAt,
		req.ClockOutAt,
		req.BreakStartedAt,
		req.BreakEndedAt,
		req.Break2StartedAt,
		req.Break2EndedAt,
		req.Note,
		req.Reason,
		req.ID,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return correction.ErrRequestNotFound
	}
	return nil
}

// UpdateStatus implements correction.RequestRepository.
func (r *correctionRepositoryImpl) UpdateStatus(ctx context.Context, id string, status string, reviewedBy string) error {
	q := database.QuerierFrom(ctx, r.db)

	query := `
		UPDATE correction_requests
		SET status = $1, reviewed_by = $2, reviewed_at = NOW(), updated_at = NOW()
		WHERE id = $3
	`

	tag, err := q.Exec(ctx, query, status, reviewedBy, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return correction.ErrRequestNotFound
	}
	return nil
}

func (r *correctionRepositoryImpl) list(ctx context.Context, query string, args ...interface{}) ([]correction.Request, error) {
	q := database.QuerierFrom(ctx, r.db)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var requests []correction.Request
	for rows.Next() {
		var req correction.Request
		err := rows.Scan(
			&req.ID,
			&req.AttendanceID,
			&req.EmployeeID,
			&req.Type,
			&req.Status,
			&req.WorkDate,
			&req.ClockInAt,
			&req.ClockOutAt,
			&req.BreakStartedAt,
			&req.BreakEndedAt,
			&req.Break2StartedAt,
			&req.Break2EndedAt,
			&req.Note,
			&req.Reason,
			&req.ReviewedBy,
			&req.ReviewedAt,
			&req.CreatedAt,
			&req.UpdatedAt,
			&req.EmployeeName,
		)
		if err != nil {
			return nil, err
		}
		requests = append(requests, req)
	}
	return requests, rows.Err()
}

const correctionListQuery = `
	SELECT c.id, c.attendance_id, c.employee_id, c.type, c.status, c.work_date,
		c.clock_in_at, c.clock_out_at, c.break_started_at, c.break_ended_at,
		c.break2_started_at, c.break2_ended_at, c.note, c.reason,
		c.reviewed_by, c.reviewed_at, c.created_at, c.updated_at,
		u.name
	FROM correction_requests c
	JOIN users u ON u.id = c.employee_id
`

// ListByEmployee implements correction.RequestRepository. An empty status
// matches every request.
func (r *correctionRepositoryImpl) ListByEmployee(ctx context.Context, employeeID string, status string) ([]correction.Request, error) {
	query := correctionListQuery + `
		WHERE c.employee_id = $1 AND ($2 = '' OR c.status = $2)
		ORDER BY c.created_at DESC
	`
	return r.list(ctx, query, employeeID, status)
}

// ListByStatus implements correction.RequestRepository.
func (r *correctionRepositoryImpl) ListByStatus(ctx context.Context, status string) ([]correction.Request, error) {
	query := correctionListQuery + `
		WHERE $1 = '' OR c.status = $1
		ORDER BY c.created_at DESC
	`
	return r.list(ctx, query, status)
}
