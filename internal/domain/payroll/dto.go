package payroll

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/dayflow-hrms/dayflow-backend-go/internal/pkg/validator"
)

type GenerateRequest struct {
	Month int `json:"month"`
	Year  int `json:"year"`
	// EmployeeIDs restricts the run to the given users. Empty means every
	// active employee.
	EmployeeIDs []string `json:"employee_ids,omitempty"`
}

func (r *GenerateRequest) Validate() error {
	var errs validator.ValidationErrors

	if !validator.IsValidMonth(r.Month) {
		errs = append(errs, validator.ValidationError{Field: "month", Message: "Month must be between 1 and 12"})
	}
	if !validator.IsValidYear(r.Year) {
		errs = append(errs, validator.ValidationError{Field: "year", Message: "Invalid year"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type UpdateRequest struct {
	ID              string   `json:"-"`
	BasicSalary     *float64 `json:"basic_salary"`
	HRA             *float64 `json:"hra"`
	Allowances      *float64 `json:"allowances"`
	Overtime        *float64 `json:"overtime"`
	Bonus           *float64 `json:"bonus"`
	OtherDeductions *float64 `json:"other_deductions"`
	Remarks         *string  `json:"remarks"`
}

func (r *UpdateRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.ID) {
		errs = append(errs, validator.ValidationError{Field: "id", Message: "Payroll record ID is required"})
	}
	for field, v := range map[string]*float64{
		"basic_salary":     r.BasicSalary,
		"hra":              r.HRA,
		"allowances":       r.Allowances,
		"overtime":         r.Overtime,
		"bonus":            r.Bonus,
		"other_deductions": r.OtherDeductions,
	} {
		if v != nil && *v < 0 {
			errs = append(errs, validator.ValidationError{Field: field, Message: "Amount must not be negative"})
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type MyFilter struct {
	Year int
}

func (f *MyFilter) Validate() error {
	if f.Year != 0 && !validator.IsValidYear(f.Year) {
		return validator.ValidationErrors{{Field: "year", Message: "Invalid year"}}
	}
	return nil
}

type ListFilter struct {
	Month  int
	Year   int
	Status *string
	UserID *string
	Page   int
	Limit  int
}

func (f *ListFilter) Validate() error {
	var errs validator.ValidationErrors

	if f.Month != 0 && !validator.IsValidMonth(f.Month) {
		errs = append(errs, validator.ValidationError{Field: "month", Message: "Month must be between 1 and 12"})
	}
	if f.Year != 0 && !validator.IsValidYear(f.Year) {
		errs = append(errs, validator.ValidationError{Field: "year", Message: "Invalid year"})
	}
	if f.Status != nil && !validator.IsInSlice(*f.Status, []string{string(StatusPending), string(StatusPaid)}) {
		errs = append(errs, validator.ValidationError{Field: "status", Message: "Invalid payroll status"})
	}
	if f.UserID != nil && !validator.IsValidUUID(*f.UserID) {
		errs = append(errs, validator.ValidationError{Field: "user_id", Message: "Invalid user ID"})
	}

	if f.Page < 1 {
		f.Page = 1
	}
	if f.Limit < 1 || f.Limit > 100 {
		f.Limit = 10
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type RecordResponse struct {
	ID           string  `json:"id"`
	UserID       string  `json:"user_id"`
	EmployeeName *string `json:"employee_name,omitempty"`
	EmployeeID   *string `json:"employee_id,omitempty"`
	Department   *string `json:"department,omitempty"`
	Month        int     `json:"month"`
	Year         int     `json:"year"`

	BasicSalary decimal.Decimal `json:"basic_salary"`
	HRA         decimal.Decimal `json:"hra"`
	Allowances  decimal.Decimal `json:"allowances"`
	Overtime    decimal.Decimal `json:"overtime"`
	Bonus       decimal.Decimal `json:"bonus"`

	PFDeduction     decimal.Decimal `json:"pf_deduction"`
	TaxDeduction    decimal.Decimal `json:"tax_deduction"`
	OtherDeductions decimal.Decimal `json:"other_deductions"`

	GrossSalary     decimal.Decimal `json:"gross_salary"`
	TotalDeductions decimal.Decimal `json:"total_deductions"`
	NetSalary       decimal.Decimal `json:"net_salary"`

	Status  Status  `json:"status"`
	PaidAt  *string `json:"paid_at,omitempty"`
	Remarks *string `json:"remarks,omitempty"`

	CreatedAt string `json:"created_at"`
}

func NewRecordResponse(r *Record) RecordResponse {
	resp := RecordResponse{
		ID:              r.ID,
		UserID:          r.UserID,
		EmployeeName:    r.EmployeeName,
		EmployeeID:      r.EmployeeID,
		Department:      r.Department,
		Month:           r.Month,
		Year:            r.Year,
		BasicSalary:     r.BasicSalary,
		HRA:             r.HRA,
		Allowances:      r.Allowances,
		Overtime:        r.Overtime,
		Bonus:           r.Bonus,
		PFDeduction:     r.PFDeduction,
		TaxDeduction:    r.TaxDeduction,
		OtherDeductions: r.OtherDeductions,
		GrossSalary:     r.GrossSalary,
		TotalDeductions: r.TotalDeductions,
		NetSalary:       r.NetSalary,
		Status:          r.Status,
		Remarks:         r.Remarks,
		CreatedAt:       r.CreatedAt.Format(time.RFC3339),
	}
	if r.PaidAt != nil {
		s := r.PaidAt.Format(time.RFC3339)
		resp.PaidAt = &s
	}
	return resp
}

// GenerateResult reports the outcome of a batch run. Skipped employees carry
// a per-employee reason instead of failing the batch.
type GenerateResult struct {
	Created []RecordResponse `json:"created"`
	Skipped []SkippedEntry   `json:"skipped"`
}

type SkippedEntry struct {
	UserID       string `json:"user_id"`
	EmployeeName string `json:"employee_name"`
	Reason       string `json:"reason"`
}

type ListResponse struct {
	Records    []RecordResponse `json:"records"`
	TotalCount int64            `json:"-"`
	Page       int              `json:"-"`
	Limit      int              `json:"-"`
}

// MonthlyTotal is one month of the yearly stats breakdown.
type MonthlyTotal struct {
	Month           int             `json:"month"`
	Records         int64           `json:"records"`
	TotalEarnings   decimal.Decimal `json:"total_earnings"`
	TotalDeductions decimal.Decimal `json:"total_deductions"`
	TotalNet        decimal.Decimal `json:"total_net"`
}

// StatusTotal carries the record count and net payout per status.
type StatusTotal struct {
	Count    int64           `json:"count"`
	TotalNet decimal.Decimal `json:"total_net"`
}

// YearlyTotal sums the whole year.
type YearlyTotal struct {
	Records         int64           `json:"records"`
	TotalEarnings   decimal.Decimal `json:"total_earnings"`
	TotalDeductions decimal.Decimal `json:"total_deductions"`
	TotalNet        decimal.Decimal `json:"total_net"`
}

type StatsResponse struct {
	Year        int                    `json:"year"`
	Monthly     []MonthlyTotal         `json:"monthly"`
	ByStatus    map[string]StatusTotal `json:"by_status"`
	YearlyTotal YearlyTotal            `json:"yearly_total"`
}
