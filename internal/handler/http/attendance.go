package http

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/kiki1226/Coachtech-kintai/internal/domain/attendance"
	"github.com/kiki1226/Coachtech-kintai/internal/domain/auth"
	"github.com/kiki1226/Coachtech-kintai/internal/domain/correction"
	"github.com/kiki1226/Coachtech-kintai/internal/domain/report"
	"github.com/kiki1226/Coachtech-kintai/internal/handler/http/middleware"
	"github.com/kiki1226/Coachtech-kintai/internal/handler/http/response"
	attendanceservice "github.com/kiki1226/Coachtech-kintai/internal/service/attendance"
	correctionservice "github.com/kiki1226/Coachtech-kintai/internal/service/correction"
)

type AttendanceHandler interface {
	ClockIn(w http.ResponseWriter, r *http.Request)
	ClockOut(w http.ResponseWriter, r *http.Request)
	BreakStart(w http.ResponseWriter, r *http.Request)
	BreakEnd(w http.ResponseWriter, r *http.Request)
	Today(w http.ResponseWriter, r *http.Request)
	Detail(w http.ResponseWriter, r *http.Request)
	MyMonth(w http.ResponseWriter, r *http.Request)
}

type attendanceHandlerImpl struct {
	attendanceService attendance.AttendanceService
	correctionService correction.Service
	reportService     report.Service
	loc               *time.Location
}

func NewAttendanceHandler(
	attendanceService attendance.AttendanceService,
	correctionService correction.Service,
	reportService report.Service,
	loc *time.Location,
) AttendanceHandler {
	return &attendanceHandlerImpl{
		attendanceService: attendanceService,
		correctionService: correctionService,
		reportService:     reportService,
		loc:               loc,
	}
}

// decodeClockAction tolerates an empty body: every field is optional.
func decodeClockAction(r *http.Request) (attendance.ClockActionRequest, error) {
	var req attendance.ClockActionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		return attendance.ClockActionRequest{}, err
	}
	return req, nil
}

// ClockIn implements AttendanceHandler.
func (h *attendanceHandlerImpl) ClockIn(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r)
	if !ok {
		response.HandleError(w, auth.ErrInvalidToken)
		return
	}

	req, err := decodeClockAction(r)
	if err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	if err := h.attendanceService.ClockIn(r.Context(), userID, req.Date); err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Clocked in", nil)
}

// ClockOut implements AttendanceHandler.
func (h *attendanceHandlerImpl) ClockOut(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r)
	if !ok {
		response.HandleError(w, auth.ErrInvalidToken)
		return
	}

	req, err := decodeClockAction(r)
	if err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	if err := h.attendanceService.ClockOut(r.Context(), userID, req.Date); err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Clocked out", nil)
}

// BreakStart implements AttendanceHandler.
func (h *attendanceHandlerImpl) BreakStart(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r)
	if !ok {
		response.HandleError(w, auth.ErrInvalidToken)
		return
	}

	req, err := decodeClockAction(r)
	if err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	if err := h.attendanceService.BreakStart(r.Context(), userID, req.Date); err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Break started", nil)
}

// BreakEnd implements AttendanceHandler.
func (h *attendanceHandlerImpl) BreakEnd(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r)
	if !ok {
		response.HandleError(w, auth.ErrInvalidToken)
		return
	}

	req, err := decodeClockAction(r)
	if err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	if err := h.attendanceService.BreakEnd(r.Context(), userID, req.Date); err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Break ended", nil)
}

// Today implements AttendanceHandler. Returns the current day's record and
// state, creating an empty record when none exists yet.
func (h *attendanceHandlerImpl) Today(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r)
	if !ok {
		response.HandleError(w, auth.ErrInvalidToken)
		return
	}

	rec, err := h.attendanceService.GetOrCreateRecord(r.Context(), userID, r.URL.Query().Get("date"))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, attendanceservice.MapDayResponse(rec, h.loc))
}

// Detail implements AttendanceHandler. While a correction is pending the
// proposed values show instead of the stored ones, together with the request.
func (h *attendanceHandlerImpl) Detail(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r)
	if !ok {
		response.HandleError(w, auth.ErrInvalidToken)
		return
	}

	attendanceID := chi.URLParam(r, "id")
	view, pending, err := h.correctionService.ShadowView(r.Context(), userID, attendanceID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	payload := struct {
		Attendance attendance.DayResponse      `json:"attendance"`
		Pending    *correction.RequestResponse `json:"pending_request,omitempty"`
	}{
		Attendance: attendanceservice.MapDayResponse(view, h.loc),
	}
	if pending != nil {
		resp := correctionservice.MapRequestResponse(*pending, h.loc)
		payload.Pending = &resp
	}
	response.Success(w, payload)
}

// MyMonth implements AttendanceHandler.
func (h *attendanceHandlerImpl) MyMonth(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r)
	if !ok {
		response.HandleError(w, auth.ErrInvalidToken)
		return
	}

	sheet, err := h.reportService.MonthSheet(r.Context(), userID, r.URL.Query().Get("month"))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, sheet)
}
