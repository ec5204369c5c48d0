package employee

import (
	"context"

	"github.com/dayflow-hrms/dayflow-backend-go/internal/domain/auth"
)

type Service interface {
	Create(ctx context.Context, req CreateRequest) (Profile, error)
	List(ctx context.Context, filter ListFilter) (ListResponse, error)
	GetByID(ctx context.Context, identity auth.Identity, id string) (Profile, error)
	Update(ctx context.Context, req UpdateRequest) (Profile, error)
	UpdateSelf(ctx context.Context, identity auth.Identity, req SelfUpdateRequest) (Profile, error)

	// Delete permanently removes the employee row. Disabling an account
	// without losing it goes through Update with is_active=false.
	Delete(ctx context.Context, id string) error

	Stats(ctx context.Context) (StatsResponse, error)
}
