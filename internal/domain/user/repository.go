package user

import (
	"context"
)

// Filter narrows employee listings.
type Filter struct {
	Search     *string // matches first name, last name, email or employee id
	Department *string
	Role       *string
	Page       int
	Limit      int
}

// DepartmentCount is one row of the by-department aggregate.
type DepartmentCount struct {
	Department string
	Count      int64
}

// RoleCount is one row of the by-role aggregate.
type RoleCount struct {
	Role  string
	Count int64
}

// Stats is the employee headcount aggregate.
type Stats struct {
	TotalEmployees    int64
	ActiveEmployees   int64
	InactiveEmployees int64
	ByDepartment      []DepartmentCount
	ByRole            []RoleCount
}

// Repository - interface for the users table
type Repository interface {
	Create(ctx context.Context, u User) (User, error)
	GetByID(ctx context.Context, id string) (User, error)
	GetByEmail(ctx context.Context, email string) (User, error)
	GetByEmployeeID(ctx context.Context, employeeID string) (User, error)
	GetByVerificationToken(ctx context.Context, tokenHash string) (User, error)
	GetByResetToken(ctx context.Context, tokenHash string) (User, error)
	List(ctx context.Context, filter Filter) ([]User, int64, error)
	ListActive(ctx context.Context) ([]User, error)
	Update(ctx context.Context, u User) (User, error)
	Delete(ctx context.Context, id string) error
	CountActive(ctx context.Context) (int64, error)
	Stats(ctx context.Context) (Stats, error)
}
