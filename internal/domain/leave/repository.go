package leave

import (
	"context"
	"time"
)

// MonthCount is one bucket of the monthly trend, keyed by request start month.
type MonthCount struct {
	Year  int
	Month int
	Count int64
}

// Repository - interface for the leave_requests table
type Repository interface {
	Create(ctx context.Context, req Request) (Request, error)
	GetByID(ctx context.Context, id string) (Request, error)

	// FindOverlapping returns non-rejected requests of the user whose date
	// range intersects [start, end].
	FindOverlapping(ctx context.Context, userID string, start, end time.Time) ([]Request, error)

	GetByUser(ctx context.Context, userID string, filter MyFilter) ([]Request, error)
	List(ctx context.Context, filter ListFilter) ([]Request, int64, error)

	Update(ctx context.Context, req Request) (Request, error)
	Delete(ctx context.Context, id string) error

	// SumDaysByType aggregates day totals per leave type for a user within a
	// year, limited to requests in the given status.
	SumDaysByType(ctx context.Context, userID string, year int, status Status) (map[Type]int, error)

	CountByStatus(ctx context.Context) (map[Status]int64, error)
	CountApprovedByType(ctx context.Context) (map[Type]int64, error)
	CountApprovedOnDate(ctx context.Context, date time.Time) (int64, error)

	// CountByMonth buckets requests by start month, from the given
	// time onward. Months without requests are absent from the result.
	CountByMonth(ctx context.Context, from time.Time) ([]MonthCount, error)
}
