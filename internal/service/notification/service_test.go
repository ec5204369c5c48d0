package notification

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dayflow-hrms/dayflow-backend-go/internal/domain/auth"
	"github.com/dayflow-hrms/dayflow-backend-go/internal/domain/notification"
	"github.com/dayflow-hrms/dayflow-backend-go/internal/repository/memory"
	"github.com/google/uuid"
)

func newNotificationTestService() notification.Service {
	store := memory.NewStore()
	return NewNotificationService(memory.NewNotificationRepository(store))
}

func notifyN(ctx context.Context, service notification.Service, userID string, n int) {
	for i := 0; i < n; i++ {
		service.Notify(ctx, userID, "Ping", "Something happened", notification.TypeInfo, nil)
	}
}

func TestNotificationService_Create_InvalidType(t *testing.T) {
	ctx := context.Background()
	service := newNotificationTestService()

	_, err := service.Create(ctx, notification.CreateRequest{
		UserID:  uuid.NewString(),
		Title:   "Hello",
		Message: "World",
		Type:    "carrier-pigeon",
	})
	assert.Error(t, err)
}

func TestNotificationService_List_UnreadCount(t *testing.T) {
	ctx := context.Background()
	service := newNotificationTestService()
	userID := uuid.NewString()
	identity := auth.Identity{UserID: userID}

	notifyN(ctx, service, userID, 3)
	notifyN(ctx, service, uuid.NewString(), 2) // someone else's

	resp, err := service.List(ctx, identity, notification.ListFilter{})
	require.NoError(t, err)
	assert.Len(t, resp.Notifications, 3)
	assert.Equal(t, int64(3), resp.UnreadCount)

	count, err := service.UnreadCount(ctx, identity)
	require.NoError(t, err)
	assert.Equal(t, int64(3), count)
}

func TestNotificationService_MarkRead(t *testing.T) {
	ctx := context.Background()
	service := newNotificationTestService()
	userID := uuid.NewString()
	identity := auth.Identity{UserID: userID}

	created, err := service.Create(ctx, notification.CreateRequest{
		UserID:  userID,
		Title:   "Hello",
		Message: "World",
		Type:    string(notification.TypeInfo),
	})
	require.NoError(t, err)
	assert.False(t, created.IsRead)

	read, err := service.MarkRead(ctx, identity, created.ID)
	require.NoError(t, err)
	assert.True(t, read.IsRead)
	assert.NotNil(t, read.ReadAt)

	count, err := service.UnreadCount(ctx, identity)
	require.NoError(t, err)
	assert.Equal(t, int64(0), count)
}

func TestNotificationService_MarkRead_NotOwner(t *testing.T) {
	ctx := context.Background()
	service := newNotificationTestService()
	owner := uuid.NewString()

	created, err := service.Create(ctx, notification.CreateRequest{
		UserID:  owner,
		Title:   "Hello",
		Message: "World",
		Type:    string(notification.TypeInfo),
	})
	require.NoError(t, err)

	_, err = service.MarkRead(ctx, auth.Identity{UserID: uuid.NewString()}, created.ID)
	assert.ErrorIs(t, err, notification.ErrNotOwner)
}

func TestNotificationService_MarkAllRead(t *testing.T) {
	ctx := context.Background()
	service := newNotificationTestService()
	userID := uuid.NewString()
	identity := auth.Identity{UserID: userID}

	notifyN(ctx, service, userID, 4)

	updated, err := service.MarkAllRead(ctx, identity)
	require.NoError(t, err)
	assert.Equal(t, int64(4), updated)

	count, err := service.UnreadCount(ctx, identity)
	require.NoError(t, err)
	assert.Equal(t, int64(0), count)
}

func TestNotificationService_Delete(t *testing.T) {
	ctx := context.Background()
	service := newNotificationTestService()
	userID := uuid.NewString()
	identity := auth.Identity{UserID: userID}

	created, err := service.Create(ctx, notification.CreateRequest{
		UserID:  userID,
		Title:   "Hello",
		Message: "World",
		Type:    string(notification.TypeInfo),
	})
	require.NoError(t, err)

	err = service.Delete(ctx, auth.Identity{UserID: uuid.NewString()}, created.ID)
	assert.ErrorIs(t, err, notification.ErrNotOwner)

	err = service.Delete(ctx, identity, created.ID)
	assert.NoError(t, err)

	err = service.Delete(ctx, identity, created.ID)
	assert.ErrorIs(t, err, notification.ErrNotificationNotFound)
}

func TestNotificationService_List_UnreadOnly(t *testing.T) {
	ctx := context.Background()
	service := newNotificationTestService()
	userID := uuid.NewString()
	identity := auth.Identity{UserID: userID}

	notifyN(ctx, service, userID, 2)
	created, err := service.Create(ctx, notification.CreateRequest{
		UserID:  userID,
		Title:   "Read me",
		Message: "Then filter me out",
		Type:    string(notification.TypeInfo),
	})
	require.NoError(t, err)
	_, err = service.MarkRead(ctx, identity, created.ID)
	require.NoError(t, err)

	resp, err := service.List(ctx, identity, notification.ListFilter{UnreadOnly: true})
	require.NoError(t, err)
	assert.Len(t, resp.Notifications, 2)
	for _, n := range resp.Notifications {
		assert.False(t, n.IsRead)
	}
}
