package payroll

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/dayflow-hrms/dayflow-backend-go/internal/domain/user"
)

type Status string

const (
	StatusPending Status = "pending"
	StatusPaid    Status = "paid"
)

var (
	pfRate  = decimal.NewFromFloat(0.12)
	taxRate = decimal.NewFromFloat(0.10)
)

// Record is one payslip. A user has at most one record per (month, year).
type Record struct {
	ID     string
	UserID string
	Month  int
	Year   int

	BasicSalary decimal.Decimal
	HRA         decimal.Decimal
	Allowances  decimal.Decimal
	Overtime    decimal.Decimal
	Bonus       decimal.Decimal

	PFDeduction     decimal.Decimal
	TaxDeduction    decimal.Decimal
	OtherDeductions decimal.Decimal

	GrossSalary     decimal.Decimal
	TotalDeductions decimal.Decimal
	NetSalary       decimal.Decimal

	Status  Status
	PaidAt  *time.Time
	Remarks *string

	CreatedAt time.Time
	UpdatedAt time.Time

	// Joined fields (for responses)
	EmployeeName *string
	EmployeeID   *string
	Department   *string
}

// Compute fills the derived amounts from the component figures. Provident
// fund is 12% of basic, tax is 10% of basic+hra+allowances; overtime and
// bonus count toward gross but not toward the tax base.
func (r *Record) Compute() {
	taxBase := r.BasicSalary.Add(r.HRA).Add(r.Allowances)
	r.GrossSalary = taxBase.Add(r.Overtime).Add(r.Bonus)
	r.PFDeduction = r.BasicSalary.Mul(pfRate).Round(2)
	r.TaxDeduction = taxBase.Mul(taxRate).Round(2)
	r.TotalDeductions = r.PFDeduction.Add(r.TaxDeduction).Add(r.OtherDeductions)
	r.NetSalary = r.GrossSalary.Sub(r.TotalDeductions)
}

// FromProfile builds an unsaved pending record for a user's salary profile.
func FromProfile(u *user.User, month, year int) *Record {
	r := &Record{
		UserID: u.ID,
		Month:  month,
		Year:   year,
		Status: StatusPending,
	}
	r.BasicSalary = u.Salary.Basic
	r.HRA = u.Salary.HRA
	r.Allowances = u.Salary.Allowances
	r.OtherDeductions = u.Salary.Deductions
	r.Compute()
	return r
}
