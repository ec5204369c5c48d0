package notification

import (
	"context"

	"github.com/dayflow-hrms/dayflow-backend-go/internal/domain/auth"
)

type Service interface {
	Create(ctx context.Context, req CreateRequest) (Response, error)

	// Notify is the fire-and-forget entry point used by other services.
	// Failures are logged, never propagated.
	Notify(ctx context.Context, userID, title, message string, typ Type, link *string)

	List(ctx context.Context, identity auth.Identity, filter ListFilter) (ListResponse, error)
	UnreadCount(ctx context.Context, identity auth.Identity) (int64, error)
	MarkRead(ctx context.Context, identity auth.Identity, id string) (Response, error)
	MarkAllRead(ctx context.Context, identity auth.Identity) (int64, error)
	Delete(ctx context.Context, identity auth.Identity, id string) error
}
