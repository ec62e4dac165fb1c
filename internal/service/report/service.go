package report

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"time"

	"github.com/kiki1226/Coachtech-kintai/internal/domain/attendance"
	"github.com/kiki1226/Coachtech-kintai/internal/domain/report"
	"github.com/kiki1226/Coachtech-kintai/internal/domain/user"
	"github.com/kiki1226/Coachtech-kintai/internal/pkg/timespan"
	"github.com/kiki1226/Coachtech-kintai/internal/pkg/validator"
)

var weekdayJP = [7]string{"日", "月", "火", "水", "木", "金", "土"}

type ServiceImpl struct {
	attendanceRepo attendance.AttendanceRepository
	userRepo       user.UserRepository
	loc            *time.Location
}

func NewService(
	attendanceRepo attendance.AttendanceRepository,
	userRepo user.UserRepository,
	loc *time.Location,
) report.Service {
	return &ServiceImpl{
		attendanceRepo: attendanceRepo,
		userRepo:       userRepo,
		loc:            loc,
	}
}

func (s *ServiceImpl) resolveDay(day string) (time.Time, error) {
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

func (s *ServiceImpl) resolveMonth(month string) (time.Time, error) {
	if validator.IsEmpty(month) {
		now := time.Now().In(s.loc)
		return time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, s.loc), nil
	}
	parsed, ok := validator.IsValidMonth(month)
	if !ok {
		return time.Time{}, validator.ValidationErrors{{
			Field:   "month",
			Message: "month must be in YYYY-MM format",
		}}
	}
	return time.Date(parsed.Year(), parsed.Month(), 1, 0, 0, 0, 0, s.loc), nil
}

// hmOrDash renders an instant as "HH:MM", or a dash when unset. Board cells
// are never empty.
func hmOrDash(t *time.Time, loc *time.Location) string {
	if t == nil {
		return "—"
	}
	return t.In(loc).Format("15:04")
}

func hmOrEmpty(t *time.Time, loc *time.Location) string {
	if t == nil {
		return ""
	}
	return t.In(loc).Format("15:04")
}

// DayBoard implements report.Service.
func (s *ServiceImpl) DayBoard(ctx context.Context, day string) (report.DayBoard, error) {
	workDate, err := s.resolveDay(day)
	if err != nil {
		return report.DayBoard{}, err
	}

	users, err := s.userRepo.List(ctx)
	if err != nil {
		return report.DayBoard{}, fmt.Errorf("failed to list users: %w", err)
	}

	records, err := s.attendanceRepo.ListByDate(ctx, workDate)
	if err != nil {
		return report.DayBoard{}, fmt.Errorf("failed to list attendance: %w", err)
	}
	byEmployee := make(map[string]attendance.Attendance, len(records))
	for _, att := range records {
		byEmployee[att.EmployeeID] = att
	}

	board := report.DayBoard{
		Date:     workDate.Format("2006-01-02"),
		Label:    fmt.Sprintf("%d年%d月%d日", workDate.Year(), int(workDate.Month()), workDate.Day()),
		PrevDate: workDate.AddDate(0, 0, -1).Format("2006-01-02"),
		NextDate: workDate.AddDate(0, 0, 1).Format("2006-01-02"),
	}

	for _, u := range users {
		row := report.DayBoardRow{
			EmployeeID:   u.ID,
			EmployeeName: u.Name,
			ClockIn:      "—",
			ClockOut:     "—",
			Break:        timespan.FormatHM(0, true),
			Total:        timespan.FormatHM(0, true),
		}
		if att, ok := byEmployee[u.ID]; ok {
			id := att.ID
			row.AttendanceID = &id
			row.ClockIn = hmOrDash(att.ClockInAt, s.loc)
			row.ClockOut = hmOrDash(att.ClockOutAt, s.loc)
			row.Break = att.BreakHM()
			row.Total = att.TotalHM()
		}
		board.Rows = append(board.Rows, row)
	}

	return board, nil
}

// MonthSheet implements report.Service.
func (s *ServiceImpl) MonthSheet(ctx context.Context, employeeID string, month string) (attendance.MonthResponse, error) {
	first, err := s.resolveMonth(month)
	if err != nil {
		return attendance.MonthResponse{}, err
	}

	u, err := s.userRepo.GetByID(ctx, employeeID)
	if err != nil {
		return attendance.MonthResponse{}, fmt.Errorf("failed to get user: %w", err)
	}

	last := first.AddDate(0, 1, -1)
	records, err := s.attendanceRepo.ListByEmployeeBetween(ctx, employeeID, first, last)
	if err != nil {
		return attendance.MonthResponse{}, fmt.Errorf("failed to list attendance: %w", err)
	}
	byDate := make(map[string]attendance.Attendance, len(records))
	for _, att := range records {
		// work_date is a DATE column; the scanned value is midnight UTC, so
		// format it as-is rather than shifting it into the app timezone.
		byDate[att.WorkDate.Format("2006-01-02")] = att
	}

	resp := attendance.MonthResponse{
		EmployeeID:   u.ID,
		EmployeeName: u.Name,
		Month:        first.Format("2006-01"),
		PrevMonth:    first.AddDate(0, -1, 0).Format("2006-01"),
		NextMonth:    first.AddDate(0, 1, 0).Format("2006-01"),
	}

	for d := first; !d.After(last); d = d.AddDate(0, 0, 1) {
		date := d.Format("2006-01-02")
		row := attendance.MonthRow{
			Date:  date,
			Label: fmt.Sprintf("%02d/%02d(%s)", int(d.Month()), d.Day(), weekdayJP[d.Weekday()]),
			Break: timespan.FormatHM(0, false),
			Total: timespan.FormatHM(0, false),
		}
		if att, ok := byDate[date]; ok {
			id := att.ID
			row.AttendanceID = &id
			row.Start = hmOrEmpty(att.ClockInAt, s.loc)
			row.End = hmOrEmpty(att.ClockOutAt, s.loc)
			row.Break = timespan.FormatHM(att.EffectiveBreakMinutes(), false)
			row.Total = timespan.FormatHM(att.NetWorkedMinutes(), false)
		}
		resp.Rows = append(resp.Rows, row)
	}

	return resp, nil
}

// WriteMonthCSV implements report.Service. Layout matches the on-screen
// month sheet: a two-line title, a header, then one line per calendar day.
func (s *ServiceImpl) WriteMonthCSV(w io.Writer, sheet attendance.MonthResponse) error {
	// BOM first so common spreadsheet tools decode the Japanese headers.
	if _, err := w.Write([]byte{0xEF, 0xBB, 0xBF}); err != nil {
		return fmt.Errorf("failed to write csv: %w", err)
	}

	first, err := time.ParseInLocation("2006-01", sheet.Month, s.loc)
	if err != nil {
		return fmt.Errorf("failed to parse month: %w", err)
	}

	cw := csv.NewWriter(w)
	rows := [][]string{
		{fmt.Sprintf("%sさんの勤怠", sheet.EmployeeName)},
		{fmt.Sprintf("%d年%d月", first.Year(), int(first.Month()))},
		{"日付", "出勤", "退勤", "休憩", "合計"},
	}
	for _, row := range sheet.Rows {
		rows = append(rows, []string{row.Label, row.Start, row.End, row.Break, row.Total})
	}
	if err := cw.WriteAll(rows); err != nil {
		return fmt.Errorf("failed to write csv: %w", err)
	}
	return nil
}
