package leave

import (
	"context"

	"github.com/dayflow-hrms/dayflow-backend-go/internal/domain/auth"
)

type Service interface {
	Apply(ctx context.Context, identity auth.Identity, req ApplyRequest) (RequestResponse, error)
	GetMyLeaves(ctx context.Context, identity auth.Identity, filter MyFilter) ([]RequestResponse, error)
	GetBalance(ctx context.Context, identity auth.Identity, year int) (BalanceResponse, error)
	List(ctx context.Context, filter ListFilter) (ListResponse, error)
	GetByID(ctx context.Context, identity auth.Identity, id string) (RequestResponse, error)
	Decide(ctx context.Context, identity auth.Identity, req DecideRequest) (RequestResponse, error)
	Cancel(ctx context.Context, identity auth.Identity, id string) error
	Stats(ctx context.Context) (StatsResponse, error)
}
