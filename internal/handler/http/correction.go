package http

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/kiki1226/Coachtech-kintai/internal/domain/attendance"
	"github.com/kiki1226/Coachtech-kintai/internal/domain/auth"
	"github.com/kiki1226/Coachtech-kintai/internal/domain/correction"
	"github.com/kiki1226/Coachtech-kintai/internal/handler/http/middleware"
	"github.com/kiki1226/Coachtech-kintai/internal/handler/http/response"
	correctionservice "github.com/kiki1226/Coachtech-kintai/internal/service/correction"
)

type CorrectionHandler interface {
	Submit(w http.ResponseWriter, r *http.Request)
	MyRequests(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
	Approve(w http.ResponseWriter, r *http.Request)
	Reject(w http.ResponseWriter, r *http.Request)
}

type correctionHandlerImpl struct {
	correctionService correction.Service
	loc               *time.Location
}

func NewCorrectionHandler(correctionService correction.Service, loc *time.Location) CorrectionHandler {
	return &correctionHandlerImpl{
		correctionService: correctionService,
		loc:               loc,
	}
}

func (h *correctionHandlerImpl) mapRequests(requests []correction.Request) []correction.RequestResponse {
	out := make([]correction.RequestResponse, 0, len(requests))
	for _, req := range requests {
		out = append(out, correctionservice.MapRequestResponse(req, h.loc))
	}
	return out
}

// Submit implements CorrectionHandler.
func (h *correctionHandlerImpl) Submit(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r)
	if !ok {
		response.HandleError(w, auth.ErrInvalidToken)
		return
	}

	var req attendance.EditDayRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	attendanceID := chi.URLParam(r, "id")
	result, err := h.correctionService.Submit(r.Context(), userID, attendanceID, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	if result.NoChange {
		response.SuccessWithMessage(w, "No changes to request", nil)
		return
	}
	resp := correctionservice.MapRequestResponse(*result.Request, h.loc)
	response.Created(w, "Correction request submitted", resp)
}

// MyRequests implements CorrectionHandler.
func (h *correctionHandlerImpl) MyRequests(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r)
	if !ok {
		response.HandleError(w, auth.ErrInvalidToken)
		return
	}

	requests, err := h.correctionService.ListByEmployee(r.Context(), userID, r.URL.Query().Get("status"))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, h.mapRequests(requests))
}

// List implements CorrectionHandler. Admin view over every employee.
func (h *correctionHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	requests, err := h.correctionService.ListByStatus(r.Context(), r.URL.Query().Get("status"))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, h.mapRequests(requests))
}

// Approve implements CorrectionHandler.
func (h *correctionHandlerImpl) Approve(w http.ResponseWriter, r *http.Request) {
	reviewerID, ok := middleware.UserID(r)
	if !ok {
		response.HandleError(w, auth.ErrInvalidToken)
		return
	}

	if err := h.correctionService.Approve(r.Context(), reviewerID, chi.URLParam(r, "id")); err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Correction request approved", nil)
}

// Reject implements CorrectionHandler.
func (h *correctionHandlerImpl) Reject(w http.ResponseWriter, r *http.Request) {
	reviewerID, ok := middleware.UserID(r)
	if !ok {
		response.HandleError(w, auth.ErrInvalidToken)
		return
	}

	if err := h.correctionService.Reject(r.Context(), reviewerID, chi.URLParam(r, "id")); err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Correction request rejected", nil)
}
