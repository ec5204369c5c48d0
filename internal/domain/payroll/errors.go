package payroll

import "errors"

var (
	ErrRecordNotFound  = errors.New("Payroll record not found")
	ErrDuplicateRecord = errors.New("Payroll already exists for this month")
	ErrAlreadyPaid     = errors.New("Payroll record has already been paid")
	ErrNoSalaryProfile = errors.New("Employee has no salary profile configured")
)
