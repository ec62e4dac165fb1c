package http

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/kiki1226/Coachtech-kintai/internal/domain/attendance"
	"github.com/kiki1226/Coachtech-kintai/internal/domain/report"
	"github.com/kiki1226/Coachtech-kintai/internal/handler/http/response"
)

type ReportHandler interface {
	DayBoard(w http.ResponseWriter, r *http.Request)
	StaffMonth(w http.ResponseWriter, r *http.Request)
	StaffMonthCSV(w http.ResponseWriter, r *http.Request)
	UpdateStaffDay(w http.ResponseWriter, r *http.Request)
}

type reportHandlerImpl struct {
	reportService     report.Service
	attendanceService attendance.AttendanceService
}

func NewReportHandler(
	reportService report.Service,
	attendanceService attendance.AttendanceService,
) ReportHandler {
	return &reportHandlerImpl{
		reportService:     reportService,
		attendanceService: attendanceService,
	}
}

// DayBoard implements ReportHandler.
func (h *reportHandlerImpl) DayBoard(w http.ResponseWriter, r *http.Request) {
	board, err := h.reportService.DayBoard(r.Context(), r.URL.Query().Get("date"))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, board)
}

// StaffMonth implements ReportHandler.
func (h *reportHandlerImpl) StaffMonth(w http.ResponseWriter, r *http.Request) {
	employeeID := chi.URLParam(r, "id")
	sheet, err := h.reportService.MonthSheet(r.Context(), employeeID, r.URL.Query().Get("month"))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, sheet)
}

// StaffMonthCSV implements ReportHandler. Streams the CSV straight onto the
// response; errors after the first byte can only be logged by the request
// logger, not reported to the client.
func (h *reportHandlerImpl) StaffMonthCSV(w http.ResponseWriter, r *http.Request) {
	employeeID := chi.URLParam(r, "id")
	month := r.URL.Query().Get("month")

	sheet, err := h.reportService.MonthSheet(r.Context(), employeeID, month)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	filename := fmt.Sprintf("attendance_%s_%s.csv", sheet.EmployeeID, sheet.Month)
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))

	if err := h.reportService.WriteMonthCSV(w, sheet); err != nil {
		response.HandleError(w, err)
		return
	}
}

// UpdateStaffDay implements ReportHandler. Admin direct edit of one
// employee's day.
func (h *reportHandlerImpl) UpdateStaffDay(w http.ResponseWriter, r *http.Request) {
	var req attendance.EditDayRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	employeeID := chi.URLParam(r, "id")
	day := chi.URLParam(r, "date")
	updated, err := h.attendanceService.UpdateDay(r.Context(), employeeID, day, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Attendance updated", updated)
}
