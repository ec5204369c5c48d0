package attendance

import (
	"context"
	"time"
)

// Repository - interface for the attendances table
type Repository interface {
	Create(ctx context.Context, rec Record) (Record, error)
	GetByID(ctx context.Context, id string) (Record, error)
	GetByUserAndDate(ctx context.Context, userID string, date time.Time) (Record, error)
	GetByUserAndRange(ctx context.Context, userID string, from, to time.Time) ([]Record, error)
	List(ctx context.Context, filter ListFilter) ([]Record, int64, error)
	Update(ctx context.Context, rec Record) (Record, error)
	CountByStatusOnDate(ctx context.Context, date time.Time) ([]StatusCount, error)
	CountByStatusInRange(ctx context.Context, from, to time.Time) ([]StatusCount, error)
}
