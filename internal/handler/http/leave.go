package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dayflow-hrms/dayflow-backend-go/internal/domain/leave"
	"github.com/dayflow-hrms/dayflow-backend-go/internal/handler/http/middleware"
	"github.com/dayflow-hrms/dayflow-backend-go/internal/handler/http/response"
)

type LeaveHandler interface {
	Apply(w http.ResponseWriter, r *http.Request)
	GetMy(w http.ResponseWriter, r *http.Request)
	GetBalance(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
	GetByID(w http.ResponseWriter, r *http.Request)
	Decide(w http.ResponseWriter, r *http.Request)
	Cancel(w http.ResponseWriter, r *http.Request)
	Stats(w http.ResponseWriter, r *http.Request)
}

type LeaveHandlerImpl struct {
	leaveService leave.Service
}

func NewLeaveHandler(leaveService leave.Service) LeaveHandler {
	return &LeaveHandlerImpl{
		leaveService: leaveService,
	}
}

// Apply implements LeaveHandler.
func (h *LeaveHandlerImpl) Apply(w http.ResponseWriter, r *http.Request) {
	identity, err := middleware.Identity(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	var applyReq leave.ApplyRequest
	if err := json.NewDecoder(r.Body).Decode(&applyReq); err != nil {
		slog.Error("Leave apply decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	if err := applyReq.Validate(); err != nil {
		slog.Error("Leave apply validate error", "error", err)
		response.HandleError(w, err)
		return
	}

	request, err := h.leaveService.Apply(r.Context(), identity, applyReq)
	if err != nil {
		slog.Error("Leave apply service error", "error", err)
		response.HandleError(w, err)
		return
	}

	slog.Info("Leave request submitted", "user_id", identity.UserID, "leave_id", request.ID)
	response.Created(w, "Leave request submitted successfully", request)
}

// GetMy implements LeaveHandler.
func (h *LeaveHandlerImpl) GetMy(w http.ResponseWriter, r *http.Request) {
	identity, err := middleware.Identity(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	filter := leave.MyFilter{
		Status: queryString(r, "status"),
		Year:   queryInt(r, "year"),
	}

	requests, err := h.leaveService.GetMyLeaves(r.Context(), identity, filter)
	if err != nil {
		slog.Error("My leaves service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.Success(w, requests)
}

// GetBalance implements LeaveHandler.
func (h *LeaveHandlerImpl) GetBalance(w http.ResponseWriter, r *http.Request) {
	identity, err := middleware.Identity(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	balance, err := h.leaveService.GetBalance(r.Context(), identity, queryInt(r, "year"))
	if err != nil {
		slog.Error("Leave balance service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.Success(w, balance)
}

// List implements LeaveHandler.
func (h *LeaveHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	filter := leave.ListFilter{
		Status:     queryString(r, "status"),
		Type:       queryString(r, "type"),
		UserID:     queryString(r, "user_id"),
		Department: queryString(r, "department"),
		Page:       queryInt(r, "page"),
		Limit:      queryInt(r, "limit"),
	}
	if err := filter.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	listResponse, err := h.leaveService.List(r.Context(), filter)
	if err != nil {
		slog.Error("Leave list service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMeta(w, listResponse.Requests,
		response.NewMeta(listResponse.Page, listResponse.Limit, listResponse.TotalCount))
}

// GetByID implements LeaveHandler.
func (h *LeaveHandlerImpl) GetByID(w http.ResponseWriter, r *http.Request) {
	identity, err := middleware.Identity(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	request, err := h.leaveService.GetByID(r.Context(), identity, chi.URLParam(r, "id"))
	if err != nil {
		slog.Error("Leave get service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.Success(w, request)
}

// Decide implements LeaveHandler.
func (h *LeaveHandlerImpl) Decide(w http.ResponseWriter, r *http.Request) {
	identity, err := middleware.Identity(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	var decideReq leave.DecideRequest
	if err := json.NewDecoder(r.Body).Decode(&decideReq); err != nil {
		slog.Error("Leave decide decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	decideReq.ID = chi.URLParam(r, "id")

	if err := decideReq.Validate(); err != nil {
		slog.Error("Leave decide validate error", "error", err)
		response.HandleError(w, err)
		return
	}

	request, err := h.leaveService.Decide(r.Context(), identity, decideReq)
	if err != nil {
		slog.Error("Leave decide service error", "error", err)
		response.HandleError(w, err)
		return
	}

	slog.Info("Leave request decided", "leave_id", request.ID, "status", request.Status)
	response.SuccessWithMessage(w, "Leave request "+request.Status, request)
}

// Cancel implements LeaveHandler.
func (h *LeaveHandlerImpl) Cancel(w http.ResponseWriter, r *http.Request) {
	identity, err := middleware.Identity(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	if err := h.leaveService.Cancel(r.Context(), identity, chi.URLParam(r, "id")); err != nil {
		slog.Error("Leave cancel service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Leave request cancelled successfully", nil)
}

// Stats implements LeaveHandler.
func (h *LeaveHandlerImpl) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.leaveService.Stats(r.Context())
	if err != nil {
		slog.Error("Leave stats service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.Success(w, stats)
}
