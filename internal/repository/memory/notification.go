package memory

import (
	"context"
	"time"

	"github.com/dayflow-hrms/dayflow-backend-go/internal/domain/notification"
)

type notificationRepository struct {
	store *Store
}

func NewNotificationRepository(store *Store) notification.Repository {
	return &notificationRepository{store: store}
}

func (r *notificationRepository) Create(ctx context.Context, n notification.Notification) (notification.Notification, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	n.ID = newID()
	n.IsRead = false
	n.ReadAt = nil
	n.CreatedAt = now()
	r.store.notifications[n.ID] = n

	return n, nil
}

func (r *notificationRepository) GetByID(ctx context.Context, id string) (notification.Notification, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	n, ok := r.store.notifications[id]
	if !ok {
		return notification.Notification{}, notification.ErrNotificationNotFound
	}
	return n, nil
}

func (r *notificationRepository) ListByUser(ctx context.Context, userID string, filter notification.ListFilter) ([]notification.Notification, int64, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	var matched []notification.Notification
	for _, n := range r.store.notifications {
		if n.UserID != userID {
			continue
		}
		if filter.UnreadOnly && n.IsRead {
			continue
		}
		matched = append(matched, n)
	}

	sortedByCreatedDesc(matched, func(n notification.Notification) time.Time { return n.CreatedAt })
	total := int64(len(matched))

	return paginate(matched, filter.Page, filter.Limit), total, nil
}

func (r *notificationRepository) CountUnread(ctx context.Context, userID string) (int64, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	var count int64
	for _, n := range r.store.notifications {
		if n.UserID == userID && !n.IsRead {
			count++
		}
	}
	return count, nil
}

func (r *notificationRepository) MarkRead(ctx context.Context, id string) (notification.Notification, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	n, ok := r.store.notifications[id]
	if !ok {
		return notification.Notification{}, notification.ErrNotificationNotFound
	}

	readAt := now()
	n.IsRead = true
	n.ReadAt = &readAt
	r.store.notifications[id] = n

	return n, nil
}

func (r *notificationRepository) MarkAllRead(ctx context.Context, userID string) (int64, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	readAt := now()
	var updated int64
	for id, n := range r.store.notifications {
		if n.UserID == userID && !n.IsRead {
			n.IsRead = true
			n.ReadAt = &readAt
			r.store.notifications[id] = n
			updated++
		}
	}

	return updated, nil
}

func (r *notificationRepository) Delete(ctx context.Context, id string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, ok := r.store.notifications[id]; !ok {
		return notification.ErrNotificationNotFound
	}
	delete(r.store.notifications, id)

	return nil
}
