package attendance

import (
	"context"

	"github.com/dayflow-hrms/dayflow-backend-go/internal/domain/auth"
)

type Service interface {
	CheckIn(ctx context.Context, identity auth.Identity) (RecordResponse, error)
	CheckOut(ctx context.Context, identity auth.Identity) (RecordResponse, error)
	GetToday(ctx context.Context, identity auth.Identity) (*RecordResponse, error)
	GetMyAttendance(ctx context.Context, identity auth.Identity, filter MyFilter) (MyAttendanceResponse, error)
	List(ctx context.Context, filter ListFilter) (ListResponse, error)
	Update(ctx context.Context, req UpdateRequest) (RecordResponse, error)
	Stats(ctx context.Context) (StatsResponse, error)
}
