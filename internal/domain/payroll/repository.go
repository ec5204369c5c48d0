package payroll

import (
	"context"

	"github.com/shopspring/decimal"
)

// MonthAggregate is one month's payout rollup within a year.
type MonthAggregate struct {
	Month           int
	Records         int64
	TotalEarnings   decimal.Decimal
	TotalDeductions decimal.Decimal
	TotalNet        decimal.Decimal
}

// StatusAggregate is the per-status rollup for a year.
type StatusAggregate struct {
	Count    int64
	TotalNet decimal.Decimal
}

// Repository - interface for the payroll_records table
type Repository interface {
	Create(ctx context.Context, rec Record) (Record, error)
	GetByID(ctx context.Context, id string) (Record, error)
	GetByUserAndPeriod(ctx context.Context, userID string, month, year int) (Record, error)
	GetByUser(ctx context.Context, userID string, year int) ([]Record, error)
	List(ctx context.Context, filter ListFilter) ([]Record, int64, error)
	Update(ctx context.Context, rec Record) (Record, error)
	Delete(ctx context.Context, id string) error

	// AggregateMonthly rolls the year up per month, ascending, months
	// without records omitted.
	AggregateMonthly(ctx context.Context, year int) ([]MonthAggregate, error)
	AggregateByStatus(ctx context.Context, year int) (map[Status]StatusAggregate, error)
}
