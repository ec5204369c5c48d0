package notification

import (
	"context"
	"log/slog"

	"github.com/dayflow-hrms/dayflow-backend-go/internal/domain/auth"
	"github.com/dayflow-hrms/dayflow-backend-go/internal/domain/notification"
)

type NotificationServiceImpl struct {
	notification.Repository
}

func NewNotificationService(notificationRepository notification.Repository) notification.Service {
	return &NotificationServiceImpl{
		Repository: notificationRepository,
	}
}

// Create implements notification.Service.
func (s *NotificationServiceImpl) Create(ctx context.Context, req notification.CreateRequest) (notification.Response, error) {
	if err := req.Validate(); err != nil {
		return notification.Response{}, err
	}

	created, err := s.Repository.Create(ctx, notification.Notification{
		UserID:  req.UserID,
		Title:   req.Title,
		Message: req.Message,
		Type:    notification.Type(req.Type),
		Link:    req.Link,
	})
	if err != nil {
		return notification.Response{}, err
	}

	return notification.NewResponse(&created), nil
}

// Notify implements notification.Service. A failed delivery must never break
// the operation that triggered it, so errors only get logged.
func (s *NotificationServiceImpl) Notify(ctx context.Context, userID, title, message string, typ notification.Type, link *string) {
	_, err := s.Repository.Create(ctx, notification.Notification{
		UserID:  userID,
		Title:   title,
		Message: message,
		Type:    typ,
		Link:    link,
	})
	if err != nil {
		slog.Warn("failed to create notification", "user_id", userID, "title", title, "error", err)
	}
}

// List implements notification.Service.
func (s *NotificationServiceImpl) List(ctx context.Context, identity auth.Identity, filter notification.ListFilter) (notification.ListResponse, error) {
	if err := filter.Validate(); err != nil {
		return notification.ListResponse{}, err
	}

	items, total, err := s.Repository.ListByUser(ctx, identity.UserID, filter)
	if err != nil {
		return notification.ListResponse{}, err
	}

	unread, err := s.Repository.CountUnread(ctx, identity.UserID)
	if err != nil {
		return notification.ListResponse{}, err
	}

	resp := notification.ListResponse{
		Notifications: make([]notification.Response, 0, len(items)),
		UnreadCount:   unread,
		TotalCount:    total,
		Page:          filter.Page,
		Limit:         filter.Limit,
	}
	for i := range items {
		resp.Notifications = append(resp.Notifications, notification.NewResponse(&items[i]))
	}

	return resp, nil
}

// UnreadCount implements notification.Service.
func (s *NotificationServiceImpl) UnreadCount(ctx context.Context, identity auth.Identity) (int64, error) {
	return s.Repository.CountUnread(ctx, identity.UserID)
}

// MarkRead implements notification.Service.
func (s *NotificationServiceImpl) MarkRead(ctx context.Context, identity auth.Identity, id string) (notification.Response, error) {
	n, err := s.Repository.GetByID(ctx, id)
	if err != nil {
		return notification.Response{}, err
	}
	if n.UserID != identity.UserID {
		return notification.Response{}, notification.ErrNotOwner
	}

	updated, err := s.Repository.MarkRead(ctx, id)
	if err != nil {
		return notification.Response{}, err
	}

	return notification.NewResponse(&updated), nil
}

// MarkAllRead implements notification.Service.
func (s *NotificationServiceImpl) MarkAllRead(ctx context.Context, identity auth.Identity) (int64, error) {
	return s.Repository.MarkAllRead(ctx, identity.UserID)
}

// Delete implements notification.Service.
func (s *NotificationServiceImpl) Delete(ctx context.Context, identity auth.Identity, id string) error {
	n, err := s.Repository.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if n.UserID != identity.UserID {
		return notification.ErrNotOwner
	}

	return s.Repository.Delete(ctx, id)
}
