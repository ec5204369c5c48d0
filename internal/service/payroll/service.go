package payroll

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/dayflow-hrms/dayflow-backend-go/internal/domain/auth"
	"github.com/dayflow-hrms/dayflow-backend-go/internal/domain/notification"
	"github.com/dayflow-hrms/dayflow-backend-go/internal/domain/payroll"
	"github.com/dayflow-hrms/dayflow-backend-go/internal/domain/user"
)

type PayrollServiceImpl struct {
	payroll.Repository
	users    user.Repository
	notifier notification.Service
}

func NewPayrollService(payrollRepository payroll.Repository, userRepository user.Repository, notifier notification.Service) payroll.Service {
	return &PayrollServiceImpl{
		Repository: payrollRepository,
		users:      userRepository,
		notifier:   notifier,
	}
}

// Generate implements payroll.Service. Runs over every active employee, or
// the requested subset; employees that already have a record for the period,
// or have no salary profile, are reported as skipped rather than failing the
// batch.
func (s *PayrollServiceImpl) Generate(ctx context.Context, req payroll.GenerateRequest) (payroll.GenerateResult, error) {
	employees, err := s.users.ListActive(ctx)
	if err != nil {
		return payroll.GenerateResult{}, fmt.Errorf("failed to list active employees: %w", err)
	}

	result := payroll.GenerateResult{
		Created: []payroll.RecordResponse{},
		Skipped: []payroll.SkippedEntry{},
	}

	var wanted map[string]bool
	if len(req.EmployeeIDs) > 0 {
		wanted = make(map[string]bool, len(req.EmployeeIDs))
		for _, id := range req.EmployeeIDs {
			wanted[id] = false
		}
	}

	for i := range employees {
		emp := employees[i]

		if wanted != nil {
			if _, ok := wanted[emp.ID]; !ok {
				continue
			}
			wanted[emp.ID] = true
		}

		if emp.Salary.Basic.IsZero() {
			result.Skipped = append(result.Skipped, payroll.SkippedEntry{
				UserID:       emp.ID,
				EmployeeName: emp.FullName(),
				Reason:       payroll.ErrNoSalaryProfile.Error(),
			})
			continue
		}

		if _, err := s.Repository.GetByUserAndPeriod(ctx, emp.ID, req.Month, req.Year); err == nil {
			result.Skipped = append(result.Skipped, payroll.SkippedEntry{
				UserID:       emp.ID,
				EmployeeName: emp.FullName(),
				Reason:       payroll.ErrDuplicateRecord.Error(),
			})
			continue
		} else if !errors.Is(err, payroll.ErrRecordNotFound) {
			return payroll.GenerateResult{}, fmt.Errorf("failed to look up payroll record: %w", err)
		}

		created, err := s.Repository.Create(ctx, *payroll.FromProfile(&emp, req.Month, req.Year))
		if err != nil {
			if errors.Is(err, payroll.ErrDuplicateRecord) {
				result.Skipped = append(result.Skipped, payroll.SkippedEntry{
					UserID:       emp.ID,
					EmployeeName: emp.FullName(),
					Reason:       payroll.ErrDuplicateRecord.Error(),
				})
				continue
			}
			return payroll.GenerateResult{}, err
		}

		s.notifier.Notify(ctx, emp.ID, "Payslip generated",
			fmt.Sprintf("Your payslip for %d/%d is ready.", req.Month, req.Year),
			notification.TypePayroll, nil)

		result.Created = append(result.Created, payroll.NewRecordResponse(&created))
	}

	for _, id := range req.EmployeeIDs {
		if !wanted[id] {
			result.Skipped = append(result.Skipped, payroll.SkippedEntry{
				UserID: id,
				Reason: user.ErrUserNotFound.Error(),
			})
		}
	}

	return result, nil
}

// GetMyPayroll implements payroll.Service.
func (s *PayrollServiceImpl) GetMyPayroll(ctx context.Context, identity auth.Identity, filter payroll.MyFilter) ([]payroll.RecordResponse, error) {
	records, err := s.Repository.GetByUser(ctx, identity.UserID, filter.Year)
	if err != nil {
		return nil, fmt.Errorf("failed to list payroll records: %w", err)
	}

	responses := make([]payroll.RecordResponse, 0, len(records))
	for i := range records {
		responses = append(responses, payroll.NewRecordResponse(&records[i]))
	}

	return responses, nil
}

// List implements payroll.Service.
func (s *PayrollServiceImpl) List(ctx context.Context, filter payroll.ListFilter) (payroll.ListResponse, error) {
	records, total, err := s.Repository.List(ctx, filter)
	if err != nil {
		return payroll.ListResponse{}, fmt.Errorf("failed to list payroll records: %w", err)
	}

	resp := payroll.ListResponse{
		Records:    make([]payroll.RecordResponse, 0, len(records)),
		TotalCount: total,
		Page:       filter.Page,
		Limit:      filter.Limit,
	}
	for i := range records {
		resp.Records = append(resp.Records, payroll.NewRecordResponse(&records[i]))
	}

	return resp, nil
}

// GetByID implements payroll.Service. Regular employees can only read their
// own payslips.
func (s *PayrollServiceImpl) GetByID(ctx context.Context, identity auth.Identity, id string) (payroll.RecordResponse, error) {
	rec, err := s.Repository.GetByID(ctx, id)
	if err != nil {
		return payroll.RecordResponse{}, err
	}

	if rec.UserID != identity.UserID && !identity.Role.IsPrivileged() {
		return payroll.RecordResponse{}, payroll.ErrRecordNotFound
	}

	return payroll.NewRecordResponse(&rec), nil
}

// Update implements payroll.Service. Component figures can be corrected while
// the record is pending; every derived amount is recomputed server side.
func (s *PayrollServiceImpl) Update(ctx context.Context, req payroll.UpdateRequest) (payroll.RecordResponse, error) {
	rec, err := s.Repository.GetByID(ctx, req.ID)
	if err != nil {
		return payroll.RecordResponse{}, err
	}
	if rec.Status == payroll.StatusPaid {
		return payroll.RecordResponse{}, payroll.ErrAlreadyPaid
	}

	if req.BasicSalary != nil {
		rec.BasicSalary = decimal.NewFromFloat(*req.BasicSalary)
	}
	if req.HRA != nil {
		rec.HRA = decimal.NewFromFloat(*req.HRA)
	}
	if req.Allowances != nil {
		rec.Allowances = decimal.NewFromFloat(*req.Allowances)
	}
	if req.Overtime != nil {
		rec.Overtime = decimal.NewFromFloat(*req.Overtime)
	}
	if req.Bonus != nil {
		rec.Bonus = decimal.NewFromFloat(*req.Bonus)
	}
	if req.OtherDeductions != nil {
		rec.OtherDeductions = decimal.NewFromFloat(*req.OtherDeductions)
	}
	if req.Remarks != nil {
		rec.Remarks = req.Remarks
	}
	rec.Compute()

	updated, err := s.Repository.Update(ctx, rec)
	if err != nil {
		return payroll.RecordResponse{}, err
	}

	return payroll.NewRecordResponse(&updated), nil
}

// MarkPaid implements payroll.Service.
func (s *PayrollServiceImpl) MarkPaid(ctx context.Context, id string) (payroll.RecordResponse, error) {
	rec, err := s.Repository.GetByID(ctx, id)
	if err != nil {
		return payroll.RecordResponse{}, err
	}
	if rec.Status == payroll.StatusPaid {
		return payroll.RecordResponse{}, payroll.ErrAlreadyPaid
	}

	paidAt := time.Now().UTC()
	rec.Status = payroll.StatusPaid
	rec.PaidAt = &paidAt

	updated, err := s.Repository.Update(ctx, rec)
	if err != nil {
		return payroll.RecordResponse{}, err
	}

	s.notifier.Notify(ctx, updated.UserID, "Salary paid",
		fmt.Sprintf("Your salary for %d/%d has been paid.", updated.Month, updated.Year),
		notification.TypePayroll, nil)

	return payroll.NewRecordResponse(&updated), nil
}

// Stats implements payroll.Service. Zero year defaults to the current year.
// The yearly total is the sum of the monthly rows.
func (s *PayrollServiceImpl) Stats(ctx context.Context, year int) (payroll.StatsResponse, error) {
	if year == 0 {
		year = time.Now().UTC().Year()
	}

	monthly, err := s.Repository.AggregateMonthly(ctx, year)
	if err != nil {
		return payroll.StatsResponse{}, err
	}

	byStatus, err := s.Repository.AggregateByStatus(ctx, year)
	if err != nil {
		return payroll.StatsResponse{}, err
	}

	resp := payroll.StatsResponse{
		Year:     year,
		Monthly:  make([]payroll.MonthlyTotal, 0, len(monthly)),
		ByStatus: make(map[string]payroll.StatusTotal, len(byStatus)),
	}
	for _, m := range monthly {
		resp.Monthly = append(resp.Monthly, payroll.MonthlyTotal{
			Month:           m.Month,
			Records:         m.Records,
			TotalEarnings:   m.TotalEarnings,
			TotalDeductions: m.TotalDeductions,
			TotalNet:        m.TotalNet,
		})
		resp.YearlyTotal.Records += m.Records
		resp.YearlyTotal.TotalEarnings = resp.YearlyTotal.TotalEarnings.Add(m.TotalEarnings)
		resp.YearlyTotal.TotalDeductions = resp.YearlyTotal.TotalDeductions.Add(m.TotalDeductions)
		resp.YearlyTotal.TotalNet = resp.YearlyTotal.TotalNet.Add(m.TotalNet)
	}
	for status, agg := range byStatus {
		resp.ByStatus[string(status)] = payroll.StatusTotal{
			Count:    agg.Count,
			TotalNet: agg.TotalNet,
		}
	}

	return resp, nil
}
