package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dayflow-hrms/dayflow-backend-go/internal/domain/notification"
	"github.com/dayflow-hrms/dayflow-backend-go/internal/handler/http/middleware"
	"github.com/dayflow-hrms/dayflow-backend-go/internal/handler/http/response"
)

type NotificationHandler interface {
	Create(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
	MarkRead(w http.ResponseWriter, r *http.Request)
	MarkAllRead(w http.ResponseWriter, r *http.Request)
	Delete(w http.ResponseWriter, r *http.Request)
}

type NotificationHandlerImpl struct {
	notificationService notification.Service
}

func NewNotificationHandler(notificationService notification.Service) NotificationHandler {
	return &NotificationHandlerImpl{
		notificationService: notificationService,
	}
}

// Create implements NotificationHandler. Admin push to a single user.
func (h *NotificationHandlerImpl) Create(w http.ResponseWriter, r *http.Request) {
	var createReq notification.CreateRequest

	if err := json.NewDecoder(r.Body).Decode(&createReq); err != nil {
		slog.Error("Notification create decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	created, err := h.notificationService.Create(r.Context(), createReq)
	if err != nil {
		slog.Error("Notification create service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Notification created successfully", created)
}

// List implements NotificationHandler.
func (h *NotificationHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	identity, err := middleware.Identity(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	filter := notification.ListFilter{
		UnreadOnly: r.URL.Query().Get("unread_only") == "true",
		Page:       queryInt(r, "page"),
		Limit:      queryInt(r, "limit"),
	}

	listResponse, err := h.notificationService.List(r.Context(), identity, filter)
	if err != nil {
		slog.Error("Notification list service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMeta(w, listResponse,
		response.NewMeta(listResponse.Page, listResponse.Limit, listResponse.TotalCount))
}

// MarkRead implements NotificationHandler.
func (h *NotificationHandlerImpl) MarkRead(w http.ResponseWriter, r *http.Request) {
	identity, err := middleware.Identity(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	updated, err := h.notificationService.MarkRead(r.Context(), identity, chi.URLParam(r, "id"))
	if err != nil {
		slog.Error("Notification mark-read service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Notification marked as read", updated)
}

// MarkAllRead implements NotificationHandler.
func (h *NotificationHandlerImpl) MarkAllRead(w http.ResponseWriter, r *http.Request) {
	identity, err := middleware.Identity(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	updated, err := h.notificationService.MarkAllRead(r.Context(), identity)
	if err != nil {
		slog.Error("Notification mark-all-read service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "All notifications marked as read", map[string]int64{"updated": updated})
}

// Delete implements NotificationHandler.
func (h *NotificationHandlerImpl) Delete(w http.ResponseWriter, r *http.Request) {
	identity, err := middleware.Identity(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	if err := h.notificationService.Delete(r.Context(), identity, chi.URLParam(r, "id")); err != nil {
		slog.Error("Notification delete service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Notification deleted successfully", nil)
}
