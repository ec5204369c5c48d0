package payroll

import (
	"context"

	"github.com/dayflow-hrms/dayflow-backend-go/internal/domain/auth"
)

type Service interface {
	Generate(ctx context.Context, req GenerateRequest) (GenerateResult, error)
	GetMyPayroll(ctx context.Context, identity auth.Identity, filter MyFilter) ([]RecordResponse, error)
	List(ctx context.Context, filter ListFilter) (ListResponse, error)
	GetByID(ctx context.Context, identity auth.Identity, id string) (RecordResponse, error)
	Update(ctx context.Context, req UpdateRequest) (RecordResponse, error)
	MarkPaid(ctx context.Context, id string) (RecordResponse, error)
	Stats(ctx context.Context, year int) (StatsResponse, error)
}
