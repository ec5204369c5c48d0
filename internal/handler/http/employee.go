package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/dayflow-hrms/dayflow-backend-go/internal/domain/employee"
	"github.com/dayflow-hrms/dayflow-backend-go/internal/handler/http/middleware"
	"github.com/dayflow-hrms/dayflow-backend-go/internal/handler/http/response"
)

type EmployeeHandler interface {
	Create(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
	GetByID(w http.ResponseWriter, r *http.Request)
	Update(w http.ResponseWriter, r *http.Request)
	Delete(w http.ResponseWriter, r *http.Request)
	Stats(w http.ResponseWriter, r *http.Request)
}

type EmployeeHandlerImpl struct {
	employeeService employee.Service
}

func NewEmployeeHandler(employeeService employee.Service) EmployeeHandler {
	return &EmployeeHandlerImpl{
		employeeService: employeeService,
	}
}

func queryString(r *http.Request, key string) *string {
	v := r.URL.Query().Get(key)
	if v == "" {
		return nil
	}
	return &v
}

func queryInt(r *http.Request, key string) int {
	v, _ := strconv.Atoi(r.URL.Query().Get(key))
	return v
}

// Create implements EmployeeHandler.
func (h *EmployeeHandlerImpl) Create(w http.ResponseWriter, r *http.Request) {
	var createReq employee.CreateRequest

	if err := json.NewDecoder(r.Body).Decode(&createReq); err != nil {
		slog.Error("Employee create decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	if err := createReq.Validate(); err != nil {
		slog.Error("Employee create validate error", "error", err)
		response.HandleError(w, err)
		return
	}

	profile, err := h.employeeService.Create(r.Context(), createReq)
	if err != nil {
		slog.Error("Employee create service error", "error", err)
		response.HandleError(w, err)
		return
	}

	slog.Info("Employee created successfully", "employee_id", createReq.EmployeeID)
	response.Created(w, "Employee created successfully", profile)
}

// List implements EmployeeHandler.
func (h *EmployeeHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	filter := employee.ListFilter{
		Search:     queryString(r, "search"),
		Department: queryString(r, "department"),
		Role:       queryString(r, "role"),
		Page:       queryInt(r, "page"),
		Limit:      queryInt(r, "limit"),
	}
	if err := filter.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	listResponse, err := h.employeeService.List(r.Context(), filter)
	if err != nil {
		slog.Error("Employee list service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMeta(w, listResponse.Employees,
		response.NewMeta(listResponse.Page, listResponse.Limit, listResponse.TotalCount))
}

// GetByID implements EmployeeHandler.
func (h *EmployeeHandlerImpl) GetByID(w http.ResponseWriter, r *http.Request) {
	identity, err := middleware.Identity(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	profile, err := h.employeeService.GetByID(r.Context(), identity, chi.URLParam(r, "id"))
	if err != nil {
		slog.Error("Employee get service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.Success(w, profile)
}

// Update implements EmployeeHandler. Privileged callers get the full update;
// everyone else writes their own profile through the self allow-list.
func (h *EmployeeHandlerImpl) Update(w http.ResponseWriter, r *http.Request) {
	identity, err := middleware.Identity(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	id := chi.URLParam(r, "id")

	if identity.Role.IsPrivileged() {
		var updateReq employee.UpdateRequest
		if err := json.NewDecoder(r.Body).Decode(&updateReq); err != nil {
			slog.Error("Employee update decode error", "error", err)
			response.BadRequest(w, "Invalid request format", nil)
			return
		}
		updateReq.ID = id

		if err := updateReq.Validate(); err != nil {
			slog.Error("Employee update validate error", "error", err)
			response.HandleError(w, err)
			return
		}

		profile, err := h.employeeService.Update(r.Context(), updateReq)
		if err != nil {
			slog.Error("Employee update service error", "error", err)
			response.HandleError(w, err)
			return
		}

		response.SuccessWithMessage(w, "Employee updated successfully", profile)
		return
	}

	if identity.UserID != id {
		response.Forbidden(w, "You can only update your own profile")
		return
	}

	var selfReq employee.SelfUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&selfReq); err != nil {
		slog.Error("Employee self-update decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	profile, err := h.employeeService.UpdateSelf(r.Context(), identity, selfReq)
	if err != nil {
		slog.Error("Employee self-update service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Profile updated successfully", profile)
}

// Delete implements EmployeeHandler.
func (h *EmployeeHandlerImpl) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.employeeService.Delete(r.Context(), id); err != nil {
		slog.Error("Employee delete service error", "error", err)
		response.HandleError(w, err)
		return
	}

	slog.Info("Employee deleted", "user_id", id)
	response.SuccessWithMessage(w, "Employee deleted successfully", nil)
}

// Stats implements EmployeeHandler.
func (h *EmployeeHandlerImpl) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.employeeService.Stats(r.Context())
	if err != nil {
		slog.Error("Employee stats service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.Success(w, stats)
}
