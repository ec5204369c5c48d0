package payroll

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dayflow-hrms/dayflow-backend-go/internal/domain/auth"
	"github.com/dayflow-hrms/dayflow-backend-go/internal/domain/notification"
	"github.com/dayflow-hrms/dayflow-backend-go/internal/domain/payroll"
	"github.com/dayflow-hrms/dayflow-backend-go/internal/domain/user"
	"github.com/dayflow-hrms/dayflow-backend-go/internal/repository/memory"

	notificationservice "github.com/dayflow-hrms/dayflow-backend-go/internal/service/notification"
)

type payrollTestEnv struct {
	service       payroll.Service
	users         user.Repository
	records       payroll.Repository
	notifications notification.Repository
}

func newPayrollTestEnv(t *testing.T) payrollTestEnv {
	store := memory.NewStore()
	payrollRepo := memory.NewPayrollRepository(store)
	userRepo := memory.NewUserRepository(store)
	notificationRepo := memory.NewNotificationRepository(store)
	notifier := notificationservice.NewNotificationService(notificationRepo)

	return payrollTestEnv{
		service:       NewPayrollService(payrollRepo, userRepo, notifier),
		users:         userRepo,
		records:       payrollRepo,
		notifications: notificationRepo,
	}
}

func (e payrollTestEnv) createUser(t *testing.T, ctx context.Context, employeeID string, basic float64) user.User {
	u := user.User{
		EmployeeID:    employeeID,
		Email:         employeeID + "@example.com",
		FirstName:     "Test",
		LastName:      employeeID,
		Role:          user.RoleEmployee,
		DateOfJoining: time.Now().UTC(),
		IsActive:      true,
	}
	if basic > 0 {
		u.Salary = user.SalaryProfile{
			Basic:      decimal.NewFromFloat(basic),
			HRA:        decimal.NewFromFloat(basic * 0.4),
			Allowances: decimal.NewFromFloat(basic * 0.1),
			Deductions: decimal.NewFromFloat(500),
		}
	}
	created, err := e.users.Create(ctx, u)
	require.NoError(t, err)
	return created
}

func payrollIdentity(u user.User) auth.Identity {
	return auth.Identity{UserID: u.ID, Email: u.Email, Role: u.Role}
}

func TestPayrollService_Generate_ComputesAmounts(t *testing.T) {
	ctx := context.Background()
	env := newPayrollTestEnv(t)
	emp := env.createUser(t, ctx, "EMP-5001", 50000)

	result, err := env.service.Generate(ctx, payroll.GenerateRequest{Month: 3, Year: 2026})

	require.NoError(t, err)
	require.Len(t, result.Created, 1)
	assert.Empty(t, result.Skipped)

	rec := result.Created[0]
	assert.Equal(t, emp.ID, rec.UserID)
	// gross = 50000 + 20000 + 5000, pf = 12% of basic, tax = 10% of gross
	assert.True(t, rec.GrossSalary.Equal(decimal.NewFromInt(75000)), "gross = %s", rec.GrossSalary)
	assert.True(t, rec.PFDeduction.Equal(decimal.NewFromInt(6000)), "pf = %s", rec.PFDeduction)
	assert.True(t, rec.TaxDeduction.Equal(decimal.NewFromInt(7500)), "tax = %s", rec.TaxDeduction)
	assert.True(t, rec.TotalDeductions.Equal(decimal.NewFromInt(14000)), "deductions = %s", rec.TotalDeductions)
	assert.True(t, rec.NetSalary.Equal(decimal.NewFromInt(61000)), "net = %s", rec.NetSalary)
	assert.Equal(t, payroll.StatusPending, rec.Status)

	// The employee was told their payslip exists.
	unread, err := env.notifications.CountUnread(ctx, emp.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), unread)
}

func TestPayrollService_Generate_SkipsExistingAndUnprofiled(t *testing.T) {
	ctx := context.Background()
	env := newPayrollTestEnv(t)
	withSalary := env.createUser(t, ctx, "EMP-5002", 60000)
	noSalary := env.createUser(t, ctx, "EMP-5003", 0)

	first, err := env.service.Generate(ctx, payroll.GenerateRequest{Month: 4, Year: 2026})
	require.NoError(t, err)
	assert.Len(t, first.Created, 1)
	require.Len(t, first.Skipped, 1)
	assert.Equal(t, noSalary.ID, first.Skipped[0].UserID)
	assert.Equal(t, payroll.ErrNoSalaryProfile.Error(), first.Skipped[0].Reason)

	// A second run for the same period creates nothing new.
	second, err := env.service.Generate(ctx, payroll.GenerateRequest{Month: 4, Year: 2026})
	require.NoError(t, err)
	assert.Empty(t, second.Created)
	require.Len(t, second.Skipped, 2)

	skippedIDs := []string{second.Skipped[0].UserID, second.Skipped[1].UserID}
	assert.Contains(t, skippedIDs, withSalary.ID)
	assert.Contains(t, skippedIDs, noSalary.ID)
}

func TestPayrollService_Generate_SubsetOfEmployees(t *testing.T) {
	ctx := context.Background()
	env := newPayrollTestEnv(t)
	first := env.createUser(t, ctx, "EMP-5011", 50000)
	env.createUser(t, ctx, "EMP-5012", 60000)

	result, err := env.service.Generate(ctx, payroll.GenerateRequest{
		Month:       9,
		Year:        2026,
		EmployeeIDs: []string{first.ID, "00000000-0000-0000-0000-000000000000"},
	})
	require.NoError(t, err)

	require.Len(t, result.Created, 1)
	assert.Equal(t, first.ID, result.Created[0].UserID)

	require.Len(t, result.Skipped, 1)
	assert.Equal(t, "00000000-0000-0000-0000-000000000000", result.Skipped[0].UserID)
	assert.Equal(t, user.ErrUserNotFound.Error(), result.Skipped[0].Reason)
}

func TestPayrollService_Update_RecomputesAndGuardsPaid(t *testing.T) {
	ctx := context.Background()
	env := newPayrollTestEnv(t)
	env.createUser(t, ctx, "EMP-5004", 50000)

	result, err := env.service.Generate(ctx, payroll.GenerateRequest{Month: 5, Year: 2026})
	require.NoError(t, err)
	require.Len(t, result.Created, 1)
	id := result.Created[0].ID

	newBasic := 80000.0
	updated, err := env.service.Update(ctx, payroll.UpdateRequest{ID: id, BasicSalary: &newBasic})
	require.NoError(t, err)

	// gross = 80000 + 20000 + 5000, pf = 9600, tax = 10500
	assert.True(t, updated.GrossSalary.Equal(decimal.NewFromInt(105000)), "gross = %s", updated.GrossSalary)
	assert.True(t, updated.PFDeduction.Equal(decimal.NewFromInt(9600)), "pf = %s", updated.PFDeduction)
	assert.True(t, updated.NetSalary.Equal(decimal.NewFromInt(84400)), "net = %s", updated.NetSalary)

	_, err = env.service.MarkPaid(ctx, id)
	require.NoError(t, err)

	_, err = env.service.Update(ctx, payroll.UpdateRequest{ID: id, BasicSalary: &newBasic})
	assert.ErrorIs(t, err, payroll.ErrAlreadyPaid)
}

func TestPayrollService_Update_OvertimeAndBonus(t *testing.T) {
	ctx := context.Background()
	env := newPayrollTestEnv(t)
	env.createUser(t, ctx, "EMP-5013", 50000)

	result, err := env.service.Generate(ctx, payroll.GenerateRequest{Month: 10, Year: 2026})
	require.NoError(t, err)
	require.Len(t, result.Created, 1)
	id := result.Created[0].ID

	overtime := 3000.0
	bonus := 2000.0
	remarks := "Festival bonus"
	updated, err := env.service.Update(ctx, payroll.UpdateRequest{
		ID:       id,
		Overtime: &overtime,
		Bonus:    &bonus,
		Remarks:  &remarks,
	})
	require.NoError(t, err)

	assert.True(t, updated.Overtime.Equal(decimal.NewFromInt(3000)), "overtime = %s", updated.Overtime)
	assert.True(t, updated.Bonus.Equal(decimal.NewFromInt(2000)), "bonus = %s", updated.Bonus)
	require.NotNil(t, updated.Remarks)
	assert.Equal(t, remarks, *updated.Remarks)

	// Overtime and bonus raise the gross but leave the tax base alone.
	assert.True(t, updated.GrossSalary.Equal(decimal.NewFromInt(80000)), "gross = %s", updated.GrossSalary)
	assert.True(t, updated.TaxDeduction.Equal(decimal.NewFromInt(7500)), "tax = %s", updated.TaxDeduction)
	assert.True(t, updated.TotalDeductions.Equal(decimal.NewFromInt(14000)), "deductions = %s", updated.TotalDeductions)
	assert.True(t, updated.NetSalary.Equal(decimal.NewFromInt(66000)), "net = %s", updated.NetSalary)

	// The overtime and bonus figures survive a round trip through the store.
	fetched, err := env.records.GetByID(ctx, id)
	require.NoError(t, err)
	assert.True(t, fetched.Overtime.Equal(decimal.NewFromInt(3000)))
	assert.True(t, fetched.Bonus.Equal(decimal.NewFromInt(2000)))
	require.NotNil(t, fetched.Remarks)
	assert.Equal(t, remarks, *fetched.Remarks)
}

func TestPayrollService_MarkPaid_OnlyOnce(t *testing.T) {
	ctx := context.Background()
	env := newPayrollTestEnv(t)
	emp := env.createUser(t, ctx, "EMP-5005", 50000)

	result, err := env.service.Generate(ctx, payroll.GenerateRequest{Month: 6, Year: 2026})
	require.NoError(t, err)
	require.Len(t, result.Created, 1)
	id := result.Created[0].ID

	paid, err := env.service.MarkPaid(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, payroll.StatusPaid, paid.Status)
	assert.NotNil(t, paid.PaidAt)

	_, err = env.service.MarkPaid(ctx, id)
	assert.ErrorIs(t, err, payroll.ErrAlreadyPaid)

	// Payslip notification plus payment notification.
	unread, err := env.notifications.CountUnread(ctx, emp.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), unread)
}

func TestPayrollService_GetByID_OwnerOnly(t *testing.T) {
	ctx := context.Background()
	env := newPayrollTestEnv(t)
	emp := env.createUser(t, ctx, "EMP-5006", 50000)
	other := env.createUser(t, ctx, "EMP-5007", 50000)

	result, err := env.service.Generate(ctx, payroll.GenerateRequest{Month: 7, Year: 2026})
	require.NoError(t, err)

	var empRecordID string
	for _, rec := range result.Created {
		if rec.UserID == emp.ID {
			empRecordID = rec.ID
		}
	}
	require.NotEmpty(t, empRecordID)

	_, err = env.service.GetByID(ctx, payrollIdentity(emp), empRecordID)
	assert.NoError(t, err)

	_, err = env.service.GetByID(ctx, payrollIdentity(other), empRecordID)
	assert.ErrorIs(t, err, payroll.ErrRecordNotFound)

	hrIdentity := auth.Identity{UserID: other.ID, Email: other.Email, Role: user.RoleHR}
	_, err = env.service.GetByID(ctx, hrIdentity, empRecordID)
	assert.NoError(t, err)
}

func TestPayrollService_GetMyPayroll_FiltersByYear(t *testing.T) {
	ctx := context.Background()
	env := newPayrollTestEnv(t)
	emp := env.createUser(t, ctx, "EMP-5008", 50000)

	_, err := env.service.Generate(ctx, payroll.GenerateRequest{Month: 1, Year: 2025})
	require.NoError(t, err)
	_, err = env.service.Generate(ctx, payroll.GenerateRequest{Month: 1, Year: 2026})
	require.NoError(t, err)

	records, err := env.service.GetMyPayroll(ctx, payrollIdentity(emp), payroll.MyFilter{Year: 2026})
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, 2026, records[0].Year)
}

func TestPayrollService_Stats(t *testing.T) {
	ctx := context.Background()
	env := newPayrollTestEnv(t)
	env.createUser(t, ctx, "EMP-5009", 50000)
	env.createUser(t, ctx, "EMP-5010", 60000)

	_, err := env.service.Generate(ctx, payroll.GenerateRequest{Month: 3, Year: 2026})
	require.NoError(t, err)
	august, err := env.service.Generate(ctx, payroll.GenerateRequest{Month: 8, Year: 2026})
	require.NoError(t, err)
	require.Len(t, august.Created, 2)

	paid, err := env.service.MarkPaid(ctx, august.Created[0].ID)
	require.NoError(t, err)

	// A record from another year must not leak into the 2026 stats.
	_, err = env.service.Generate(ctx, payroll.GenerateRequest{Month: 1, Year: 2025})
	require.NoError(t, err)

	stats, err := env.service.Stats(ctx, 2026)
	require.NoError(t, err)

	assert.Equal(t, 2026, stats.Year)

	// Only the populated months appear, in ascending order.
	require.Len(t, stats.Monthly, 2)
	assert.Equal(t, 3, stats.Monthly[0].Month)
	assert.Equal(t, 8, stats.Monthly[1].Month)
	for _, m := range stats.Monthly {
		// 75000 + 90000 earnings, 14000 + 16700 deductions per month
		assert.Equal(t, int64(2), m.Records)
		assert.True(t, m.TotalEarnings.Equal(decimal.NewFromInt(165000)), "earnings = %s", m.TotalEarnings)
		assert.True(t, m.TotalDeductions.Equal(decimal.NewFromInt(30700)), "deductions = %s", m.TotalDeductions)
		assert.True(t, m.TotalNet.Equal(decimal.NewFromInt(134300)), "net = %s", m.TotalNet)
	}

	assert.Equal(t, int64(4), stats.YearlyTotal.Records)
	assert.True(t, stats.YearlyTotal.TotalEarnings.Equal(decimal.NewFromInt(330000)), "earnings = %s", stats.YearlyTotal.TotalEarnings)
	assert.True(t, stats.YearlyTotal.TotalDeductions.Equal(decimal.NewFromInt(61400)), "deductions = %s", stats.YearlyTotal.TotalDeductions)
	assert.True(t, stats.YearlyTotal.TotalNet.Equal(decimal.NewFromInt(268600)), "net = %s", stats.YearlyTotal.TotalNet)

	paidTotals, ok := stats.ByStatus[string(payroll.StatusPaid)]
	require.True(t, ok)
	assert.Equal(t, int64(1), paidTotals.Count)
	assert.True(t, paidTotals.TotalNet.Equal(paid.NetSalary), "paid net = %s", paidTotals.TotalNet)

	pendingTotals, ok := stats.ByStatus[string(payroll.StatusPending)]
	require.True(t, ok)
	assert.Equal(t, int64(3), pendingTotals.Count)
	assert.True(t, pendingTotals.TotalNet.Equal(decimal.NewFromInt(268600).Sub(paid.NetSalary)),
		"pending net = %s", pendingTotals.TotalNet)
}
