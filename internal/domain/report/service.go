package report

import (
	"context"
	"io"

	"github.com/kiki1226/Coachtech-kintai/internal/domain/attendance"
)

// Service defines the reporting views: the per-day board across all
// employees, one employee's month sheet, and its CSV export.
type Service interface {
	// DayBoard lists every employee with their record for one day; employees
	// without a record get an empty row. day "" means today.
	DayBoard(ctx context.Context, day string) (DayBoard, error)

	// MonthSheet renders one calendar row per day of the month. month is
	// "YYYY-MM"; "" means the current month.
	MonthSheet(ctx context.Context, employeeID string, month string) (attendance.MonthResponse, error)

	// WriteMonthCSV writes an already-built month sheet as CSV to w, preceded
	// by a UTF-8 BOM so spreadsheet applications pick up the encoding.
	WriteMonthCSV(w io.Writer, sheet attendance.MonthResponse) error
}
