package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dayflow-hrms/dayflow-backend-go/internal/domain/attendance"
	"github.com/dayflow-hrms/dayflow-backend-go/internal/handler/http/middleware"
	"github.com/dayflow-hrms/dayflow-backend-go/internal/handler/http/response"
)

type AttendanceHandler interface {
	CheckIn(w http.ResponseWriter, r *http.Request)
	CheckOut(w http.ResponseWriter, r *http.Request)
	GetToday(w http.ResponseWriter, r *http.Request)
	GetMy(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
	Update(w http.ResponseWriter, r *http.Request)
	Stats(w http.ResponseWriter, r *http.Request)
}

type AttendanceHandlerImpl struct {
	attendanceService attendance.Service
}

func NewAttendanceHandler(attendanceService attendance.Service) AttendanceHandler {
	return &AttendanceHandlerImpl{
		attendanceService: attendanceService,
	}
}

// CheckIn implements AttendanceHandler.
func (h *AttendanceHandlerImpl) CheckIn(w http.ResponseWriter, r *http.Request) {
	identity, err := middleware.Identity(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	record, err := h.attendanceService.CheckIn(r.Context(), identity)
	if err != nil {
		slog.Error("Check-in service error", "error", err)
		response.HandleError(w, err)
		return
	}

	slog.Info("Checked in", "user_id", identity.UserID)
	response.Created(w, "Checked in successfully", record)
}

// CheckOut implements AttendanceHandler.
func (h *AttendanceHandlerImpl) CheckOut(w http.ResponseWriter, r *http.Request) {
	identity, err := middleware.Identity(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	record, err := h.attendanceService.CheckOut(r.Context(), identity)
	if err != nil {
		slog.Error("Check-out service error", "error", err)
		response.HandleError(w, err)
		return
	}

	slog.Info("Checked out", "user_id", identity.UserID)
	response.SuccessWithMessage(w, "Checked out successfully", record)
}

// GetToday implements AttendanceHandler. Data is null when the caller has no
// record yet today.
func (h *AttendanceHandlerImpl) GetToday(w http.ResponseWriter, r *http.Request) {
	identity, err := middleware.Identity(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	record, err := h.attendanceService.GetToday(r.Context(), identity)
	if err != nil {
		slog.Error("Attendance today service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.Success(w, record)
}

// GetMy implements AttendanceHandler.
func (h *AttendanceHandlerImpl) GetMy(w http.ResponseWriter, r *http.Request) {
	identity, err := middleware.Identity(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	filter := attendance.MyFilter{
		Month: queryInt(r, "month"),
		Year:  queryInt(r, "year"),
	}
	if err := filter.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	myResponse, err := h.attendanceService.GetMyAttendance(r.Context(), identity, filter)
	if err != nil {
		slog.Error("My attendance service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.Success(w, myResponse)
}

// List implements AttendanceHandler.
func (h *AttendanceHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	filter := attendance.ListFilter{
		Date:   queryString(r, "date"),
		UserID: queryString(r, "user_id"),
		Page:   queryInt(r, "page"),
		Limit:  queryInt(r, "limit"),
	}
	if err := filter.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	listResponse, err := h.attendanceService.List(r.Context(), filter)
	if err != nil {
		slog.Error("Attendance list service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMeta(w, listResponse.Records,
		response.NewMeta(listResponse.Page, listResponse.Limit, listResponse.TotalCount))
}

// Update implements AttendanceHandler.
func (h *AttendanceHandlerImpl) Update(w http.ResponseWriter, r *http.Request) {
	var updateReq attendance.UpdateRequest

	if err := json.NewDecoder(r.Body).Decode(&updateReq); err != nil {
		slog.Error("Attendance update decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	updateReq.ID = chi.URLParam(r, "id")

	if err := updateReq.Validate(); err != nil {
		slog.Error("Attendance update validate error", "error", err)
		response.HandleError(w, err)
		return
	}

	record, err := h.attendanceService.Update(r.Context(), updateReq)
	if err != nil {
		slog.Error("Attendance update service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Attendance record updated successfully", record)
}

// Stats implements AttendanceHandler.
func (h *AttendanceHandlerImpl) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.attendanceService.Stats(r.Context())
	if err != nil {
		slog.Error("Attendance stats service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.Success(w, stats)
}
