package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dayflow-hrms/dayflow-backend-go/internal/domain/payroll"
	"github.com/dayflow-hrms/dayflow-backend-go/internal/handler/http/middleware"
	"github.com/dayflow-hrms/dayflow-backend-go/internal/handler/http/response"
)

type PayrollHandler interface {
	Generate(w http.ResponseWriter, r *http.Request)
	GetMy(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
	GetByID(w http.ResponseWriter, r *http.Request)
	Update(w http.ResponseWriter, r *http.Request)
	MarkPaid(w http.ResponseWriter, r *http.Request)
	Stats(w http.ResponseWriter, r *http.Request)
}

type PayrollHandlerImpl struct {
	payrollService payroll.Service
}

func NewPayrollHandler(payrollService payroll.Service) PayrollHandler {
	return &PayrollHandlerImpl{
		payrollService: payrollService,
	}
}

// Generate implements PayrollHandler.
func (h *PayrollHandlerImpl) Generate(w http.ResponseWriter, r *http.Request) {
	var generateReq payroll.GenerateRequest

	if err := json.NewDecoder(r.Body).Decode(&generateReq); err != nil {
		slog.Error("Payroll generate decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	if err := generateReq.Validate(); err != nil {
		slog.Error("Payroll generate validate error", "error", err)
		response.HandleError(w, err)
		return
	}

	result, err := h.payrollService.Generate(r.Context(), generateReq)
	if err != nil {
		slog.Error("Payroll generate service error", "error", err)
		response.HandleError(w, err)
		return
	}

	slog.Info("Payroll generated", "month", generateReq.Month, "year", generateReq.Year,
		"created", len(result.Created), "skipped", len(result.Skipped))
	response.Created(w, "Payroll generated successfully", result)
}

// GetMy implements PayrollHandler.
func (h *PayrollHandlerImpl) GetMy(w http.ResponseWriter, r *http.Request) {
	identity, err := middleware.Identity(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	records, err := h.payrollService.GetMyPayroll(r.Context(), identity, payroll.MyFilter{
		Year: queryInt(r, "year"),
	})
	if err != nil {
		slog.Error("My payroll service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.Success(w, records)
}

// List implements PayrollHandler.
func (h *PayrollHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	filter := payroll.ListFilter{
		Month:  queryInt(r, "month"),
		Year:   queryInt(r, "year"),
		Status: queryString(r, "status"),
		UserID: queryString(r, "user_id"),
		Page:   queryInt(r, "page"),
		Limit:  queryInt(r, "limit"),
	}
	if err := filter.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	listResponse, err := h.payrollService.List(r.Context(), filter)
	if err != nil {
		slog.Error("Payroll list service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMeta(w, listResponse.Records,
		response.NewMeta(listResponse.Page, listResponse.Limit, listResponse.TotalCount))
}

// GetByID implements PayrollHandler.
func (h *PayrollHandlerImpl) GetByID(w http.ResponseWriter, r *http.Request) {
	identity, err := middleware.Identity(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	record, err := h.payrollService.GetByID(r.Context(), identity, chi.URLParam(r, "id"))
	if err != nil {
		slog.Error("Payroll get service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.Success(w, record)
}

// Update implements PayrollHandler.
func (h *PayrollHandlerImpl) Update(w http.ResponseWriter, r *http.Request) {
	var updateReq payroll.UpdateRequest

	if err := json.NewDecoder(r.Body).Decode(&updateReq); err != nil {
		slog.Error("Payroll update decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	updateReq.ID = chi.URLParam(r, "id")

	if err := updateReq.Validate(); err != nil {
		slog.Error("Payroll update validate error", "error", err)
		response.HandleError(w, err)
		return
	}

	record, err := h.payrollService.Update(r.Context(), updateReq)
	if err != nil {
		slog.Error("Payroll update service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Payroll record updated successfully", record)
}

// MarkPaid implements PayrollHandler.
func (h *PayrollHandlerImpl) MarkPaid(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	record, err := h.payrollService.MarkPaid(r.Context(), id)
	if err != nil {
		slog.Error("Payroll mark-paid service error", "error", err)
		response.HandleError(w, err)
		return
	}

	slog.Info("Payroll marked paid", "payroll_id", id)
	response.SuccessWithMessage(w, "Payroll marked as paid", record)
}

// Stats implements PayrollHandler.
func (h *PayrollHandlerImpl) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.payrollService.Stats(r.Context(), queryInt(r, "year"))
	if err != nil {
		slog.Error("Payroll stats service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.Success(w, stats)
}
