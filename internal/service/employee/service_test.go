package employee

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dayflow-hrms/dayflow-backend-go/internal/domain/auth"
	"github.com/dayflow-hrms/dayflow-backend-go/internal/domain/employee"
	"github.com/dayflow-hrms/dayflow-backend-go/internal/domain/user"
	"github.com/dayflow-hrms/dayflow-backend-go/internal/repository/memory"

	notificationservice "github.com/dayflow-hrms/dayflow-backend-go/internal/service/notification"
)

func newEmployeeTestService(t *testing.T) (employee.Service, user.Repository) {
	store := memory.NewStore()
	userRepo := memory.NewUserRepository(store)
	notifier := notificationservice.NewNotificationService(memory.NewNotificationRepository(store))
	return NewEmployeeService(userRepo, notifier), userRepo
}

func createEmployee(t *testing.T, ctx context.Context, service employee.Service, employeeID string, role string) employee.Profile {
	department := "Engineering"
	profile, err := service.Create(ctx, employee.CreateRequest{
		EmployeeID: employeeID,
		Email:      employeeID + "@example.com",
		Password:   "password123",
		FirstName:  "Test",
		LastName:   employeeID,
		Role:       role,
		Department: &department,
		Salary: &employee.SalaryInput{
			Basic:      50000,
			HRA:        20000,
			Allowances: 5000,
			Deductions: 500,
		},
	})
	require.NoError(t, err)
	return profile
}

func TestEmployeeService_Create_Success(t *testing.T) {
	ctx := context.Background()
	service, repo := newEmployeeTestService(t)

	profile := createEmployee(t, ctx, service, "EMP-6001", "")

	assert.Equal(t, "employee", profile.Role)
	assert.True(t, profile.IsActive)
	require.NotNil(t, profile.Salary)
	assert.Equal(t, "50000", profile.Salary.Basic.String())

	stored, err := repo.GetByEmail(ctx, "EMP-6001@example.com")
	require.NoError(t, err)
	require.NotNil(t, stored.PasswordHash)
	assert.NotEqual(t, "password123", *stored.PasswordHash)
}

func TestEmployeeService_Create_DuplicateEmployeeID(t *testing.T) {
	ctx := context.Background()
	service, _ := newEmployeeTestService(t)
	createEmployee(t, ctx, service, "EMP-6002", "")

	_, err := service.Create(ctx, employee.CreateRequest{
		EmployeeID: "EMP-6002",
		Email:      "different@example.com",
		Password:   "password123",
		FirstName:  "Dup",
		LastName:   "User",
	})
	assert.ErrorIs(t, err, user.ErrEmployeeIDExists)
}

func TestEmployeeService_GetByID_OwnerOrPrivilegedOnly(t *testing.T) {
	ctx := context.Background()
	service, _ := newEmployeeTestService(t)
	target := createEmployee(t, ctx, service, "EMP-6003", "")
	viewer := createEmployee(t, ctx, service, "EMP-6004", "")

	// A regular employee cannot read someone else's profile at all.
	_, err := service.GetByID(ctx, auth.Identity{UserID: viewer.ID, Role: user.RoleEmployee}, target.ID)
	assert.ErrorIs(t, err, employee.ErrNotAuthorized)

	// The owner sees their own, salary included.
	asOwner, err := service.GetByID(ctx, auth.Identity{UserID: target.ID, Role: user.RoleEmployee}, target.ID)
	require.NoError(t, err)
	assert.NotNil(t, asOwner.Salary)

	// HR and admin see everything.
	asHR, err := service.GetByID(ctx, auth.Identity{UserID: viewer.ID, Role: user.RoleHR}, target.ID)
	require.NoError(t, err)
	assert.NotNil(t, asHR.Salary)

	asAdmin, err := service.GetByID(ctx, auth.Identity{UserID: viewer.ID, Role: user.RoleAdmin}, target.ID)
	require.NoError(t, err)
	assert.NotNil(t, asAdmin.Salary)
}

func TestEmployeeService_UpdateSelf_AllowListOnly(t *testing.T) {
	ctx := context.Background()
	service, repo := newEmployeeTestService(t)
	profile := createEmployee(t, ctx, service, "EMP-6005", "")

	phone := "+1-555-0100"
	updated, err := service.UpdateSelf(ctx, auth.Identity{UserID: profile.ID, Role: user.RoleEmployee}, employee.SelfUpdateRequest{
		Phone: &phone,
		Address: &user.Address{
			Street: "1 Main St",
			City:   "Springfield",
		},
	})

	require.NoError(t, err)
	require.NotNil(t, updated.Phone)
	assert.Equal(t, phone, *updated.Phone)
	assert.Equal(t, "Springfield", updated.Address.City)

	// Role and salary are untouched by the self path.
	stored, err := repo.GetByID(ctx, profile.ID)
	require.NoError(t, err)
	assert.Equal(t, user.RoleEmployee, stored.Role)
	assert.False(t, stored.Salary.Basic.IsZero())
}

func TestEmployeeService_Update_ChangesRoleAndStatus(t *testing.T) {
	ctx := context.Background()
	service, _ := newEmployeeTestService(t)
	profile := createEmployee(t, ctx, service, "EMP-6006", "")

	role := "hr"
	inactive := false
	updated, err := service.Update(ctx, employee.UpdateRequest{
		ID:       profile.ID,
		Role:     &role,
		IsActive: &inactive,
	})

	require.NoError(t, err)
	assert.Equal(t, "hr", updated.Role)
	assert.False(t, updated.IsActive)
}

func TestEmployeeService_Delete(t *testing.T) {
	ctx := context.Background()
	service, repo := newEmployeeTestService(t)
	profile := createEmployee(t, ctx, service, "EMP-6007", "")

	err := service.Delete(ctx, profile.ID)
	require.NoError(t, err)

	_, err = repo.GetByID(ctx, profile.ID)
	assert.ErrorIs(t, err, user.ErrUserNotFound)

	err = service.Delete(ctx, "00000000-0000-0000-0000-000000000000")
	assert.ErrorIs(t, err, user.ErrUserNotFound)
}

func TestEmployeeService_List_Filters(t *testing.T) {
	ctx := context.Background()
	service, _ := newEmployeeTestService(t)
	createEmployee(t, ctx, service, "EMP-6008", "")
	createEmployee(t, ctx, service, "EMP-6009", "hr")

	hr := "hr"
	resp, err := service.List(ctx, employee.ListFilter{Role: &hr, Page: 1, Limit: 10})
	require.NoError(t, err)
	require.Len(t, resp.Employees, 1)
	assert.Equal(t, "hr", resp.Employees[0].Role)
	assert.Equal(t, int64(1), resp.TotalCount)
}

func TestEmployeeService_Stats(t *testing.T) {
	ctx := context.Background()
	service, _ := newEmployeeTestService(t)
	createEmployee(t, ctx, service, "EMP-6010", "")
	createEmployee(t, ctx, service, "EMP-6011", "hr")
	third := createEmployee(t, ctx, service, "EMP-6012", "")
	inactive := false
	_, err := service.Update(ctx, employee.UpdateRequest{ID: third.ID, IsActive: &inactive})
	require.NoError(t, err)

	stats, err := service.Stats(ctx)
	require.NoError(t, err)

	assert.Equal(t, int64(3), stats.Total)
	assert.Equal(t, int64(2), stats.Active)
	assert.Equal(t, int64(1), stats.Inactive)
	assert.Equal(t, int64(3), stats.ByDepartment["Engineering"])
	assert.Equal(t, int64(1), stats.ByRole["hr"])
}

func TestEmployeeService_Create_DateParsing(t *testing.T) {
	ctx := context.Background()
	service, _ := newEmployeeTestService(t)

	dob := "1990-06-15"
	doj := "2024-01-02"
	profile, err := service.Create(ctx, employee.CreateRequest{
		EmployeeID:    "EMP-6013",
		Email:         "dates@example.com",
		Password:      "password123",
		FirstName:     "Day",
		LastName:      "Keeper",
		DateOfBirth:   &dob,
		DateOfJoining: &doj,
	})

	require.NoError(t, err)
	require.NotNil(t, profile.DateOfBirth)
	assert.Equal(t, dob, *profile.DateOfBirth)
	assert.Equal(t, doj, profile.DateOfJoining)

	parsed, err := time.Parse("2006-01-02", profile.DateOfJoining)
	require.NoError(t, err)
	assert.Equal(t, 2024, parsed.Year())
}
