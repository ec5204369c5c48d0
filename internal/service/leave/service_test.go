package leave

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dayflow-hrms/dayflow-backend-go/internal/domain/auth"
	"github.com/dayflow-hrms/dayflow-backend-go/internal/domain/leave"
	"github.com/dayflow-hrms/dayflow-backend-go/internal/domain/notification"
	"github.com/dayflow-hrms/dayflow-backend-go/internal/domain/user"
	"github.com/dayflow-hrms/dayflow-backend-go/internal/repository/memory"

	notificationservice "github.com/dayflow-hrms/dayflow-backend-go/internal/service/notification"
)

type leaveTestEnv struct {
	service       leave.Service
	users         user.Repository
	notifications notification.Repository
}

func newLeaveTestEnv(t *testing.T) leaveTestEnv {
	store := memory.NewStore()
	leaveRepo := memory.NewLeaveRepository(store)
	userRepo := memory.NewUserRepository(store)
	notificationRepo := memory.NewNotificationRepository(store)
	notifier := notificationservice.NewNotificationService(notificationRepo)

	return leaveTestEnv{
		service:       NewLeaveService(leaveRepo, userRepo, notifier),
		users:         userRepo,
		notifications: notificationRepo,
	}
}

func (e leaveTestEnv) createUser(t *testing.T, ctx context.Context, employeeID string, role user.Role) user.User {
	created, err := e.users.Create(ctx, user.User{
		EmployeeID:    employeeID,
		Email:         employeeID + "@example.com",
		FirstName:     "Test",
		LastName:      employeeID,
		Role:          role,
		DateOfJoining: time.Now().UTC(),
		IsActive:      true,
	})
	require.NoError(t, err)
	return created
}

func leaveIdentity(u user.User) auth.Identity {
	return auth.Identity{UserID: u.ID, Email: u.Email, Role: u.Role}
}

// dates picks a range inside next year so balance math is not polluted by
// requests from other tests in the same store.
func dates(startDay, endDay int) (string, string) {
	year := time.Now().UTC().Year() + 1
	return fmt.Sprintf("%d-03-%02d", year, startDay), fmt.Sprintf("%d-03-%02d", year, endDay)
}

func TestLeaveService_Apply_Success(t *testing.T) {
	ctx := context.Background()
	env := newLeaveTestEnv(t)
	emp := env.createUser(t, ctx, "EMP-4001", user.RoleEmployee)
	hr := env.createUser(t, ctx, "EMP-4002", user.RoleHR)

	start, end := dates(2, 4)
	resp, err := env.service.Apply(ctx, leaveIdentity(emp), leave.ApplyRequest{
		Type:      string(leave.TypePaid),
		StartDate: start,
		EndDate:   end,
		Reason:    "Family event",
	})

	assert.NoError(t, err)
	assert.Equal(t, string(leave.StatusPending), resp.Status)
	assert.Equal(t, 3, resp.TotalDays)

	// The approver got pinged, the requester did not.
	hrUnread, err := env.notifications.CountUnread(ctx, hr.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), hrUnread)
	empUnread, err := env.notifications.CountUnread(ctx, emp.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), empUnread)
}

func TestLeaveService_Apply_Overlapping(t *testing.T) {
	ctx := context.Background()
	env := newLeaveTestEnv(t)
	emp := env.createUser(t, ctx, "EMP-4003", user.RoleEmployee)

	start, end := dates(10, 14)
	_, err := env.service.Apply(ctx, leaveIdentity(emp), leave.ApplyRequest{
		Type: string(leave.TypePaid), StartDate: start, EndDate: end, Reason: "Trip",
	})
	require.NoError(t, err)

	// Range touching the tail of the first request.
	start2, end2 := dates(14, 16)
	_, err = env.service.Apply(ctx, leaveIdentity(emp), leave.ApplyRequest{
		Type: string(leave.TypeCasual), StartDate: start2, EndDate: end2, Reason: "Errand",
	})
	assert.ErrorIs(t, err, leave.ErrOverlappingRequest)
}

func TestLeaveService_Apply_InsufficientBalance(t *testing.T) {
	ctx := context.Background()
	env := newLeaveTestEnv(t)
	emp := env.createUser(t, ctx, "EMP-4004", user.RoleEmployee)

	// 18 pending sick days against an allotment of 10.
	start, end := dates(1, 18)
	_, err := env.service.Apply(ctx, leaveIdentity(emp), leave.ApplyRequest{
		Type: string(leave.TypeSick), StartDate: start, EndDate: end, Reason: "Surgery",
	})
	assert.ErrorIs(t, err, leave.ErrInsufficientBalance)
}

func TestLeaveService_Apply_UncappedTypeIgnoresBalance(t *testing.T) {
	ctx := context.Background()
	env := newLeaveTestEnv(t)
	emp := env.createUser(t, ctx, "EMP-4005", user.RoleEmployee)

	// Unpaid leave has no allotment, so a long range is fine.
	start, end := dates(1, 28)
	resp, err := env.service.Apply(ctx, leaveIdentity(emp), leave.ApplyRequest{
		Type: string(leave.TypeUnpaid), StartDate: start, EndDate: end, Reason: "Sabbatical",
	})

	assert.NoError(t, err)
	assert.Equal(t, 28, resp.TotalDays)
}

func TestLeaveService_Decide_OnlyOnce(t *testing.T) {
	ctx := context.Background()
	env := newLeaveTestEnv(t)
	emp := env.createUser(t, ctx, "EMP-4006", user.RoleEmployee)
	hr := env.createUser(t, ctx, "EMP-4007", user.RoleHR)

	start, end := dates(5, 6)
	applied, err := env.service.Apply(ctx, leaveIdentity(emp), leave.ApplyRequest{
		Type: string(leave.TypePaid), StartDate: start, EndDate: end, Reason: "Trip",
	})
	require.NoError(t, err)

	decided, err := env.service.Decide(ctx, leaveIdentity(hr), leave.DecideRequest{
		ID:       applied.ID,
		Status:   string(leave.StatusApproved),
		Comments: "Enjoy",
	})
	assert.NoError(t, err)
	assert.Equal(t, string(leave.StatusApproved), decided.Status)
	require.NotNil(t, decided.ApprovedBy)
	assert.Equal(t, hr.ID, *decided.ApprovedBy)

	// Second decision bounces off regardless of direction.
	_, err = env.service.Decide(ctx, leaveIdentity(hr), leave.DecideRequest{
		ID:     applied.ID,
		Status: string(leave.StatusRejected),
	})
	assert.ErrorIs(t, err, leave.ErrAlreadyDecided)

	// The requester heard about the outcome.
	unread, err := env.notifications.CountUnread(ctx, emp.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), unread)
}

func TestLeaveService_GetByID_OwnerOnly(t *testing.T) {
	ctx := context.Background()
	env := newLeaveTestEnv(t)
	emp := env.createUser(t, ctx, "EMP-4008", user.RoleEmployee)
	other := env.createUser(t, ctx, "EMP-4009", user.RoleEmployee)
	hr := env.createUser(t, ctx, "EMP-4010", user.RoleHR)

	start, end := dates(7, 8)
	applied, err := env.service.Apply(ctx, leaveIdentity(emp), leave.ApplyRequest{
		Type: string(leave.TypeCasual), StartDate: start, EndDate: end, Reason: "Errand",
	})
	require.NoError(t, err)

	_, err = env.service.GetByID(ctx, leaveIdentity(emp), applied.ID)
	assert.NoError(t, err)

	_, err = env.service.GetByID(ctx, leaveIdentity(other), applied.ID)
	assert.ErrorIs(t, err, leave.ErrNotAuthorized)

	_, err = env.service.GetByID(ctx, leaveIdentity(hr), applied.ID)
	assert.NoError(t, err)
}

func TestLeaveService_Cancel_PendingOnly(t *testing.T) {
	ctx := context.Background()
	env := newLeaveTestEnv(t)
	emp := env.createUser(t, ctx, "EMP-4011", user.RoleEmployee)
	hr := env.createUser(t, ctx, "EMP-4012", user.RoleHR)

	start, end := dates(9, 10)
	applied, err := env.service.Apply(ctx, leaveIdentity(emp), leave.ApplyRequest{
		Type: string(leave.TypePaid), StartDate: start, EndDate: end, Reason: "Trip",
	})
	require.NoError(t, err)

	_, err = env.service.Decide(ctx, leaveIdentity(hr), leave.DecideRequest{
		ID:     applied.ID,
		Status: string(leave.StatusApproved),
	})
	require.NoError(t, err)

	err = env.service.Cancel(ctx, leaveIdentity(emp), applied.ID)
	assert.ErrorIs(t, err, leave.ErrNotPending)
}

func TestLeaveService_Cancel_NotOwner(t *testing.T) {
	ctx := context.Background()
	env := newLeaveTestEnv(t)
	emp := env.createUser(t, ctx, "EMP-4013", user.RoleEmployee)
	other := env.createUser(t, ctx, "EMP-4014", user.RoleEmployee)

	start, end := dates(11, 12)
	applied, err := env.service.Apply(ctx, leaveIdentity(emp), leave.ApplyRequest{
		Type: string(leave.TypePaid), StartDate: start, EndDate: end, Reason: "Trip",
	})
	require.NoError(t, err)

	err = env.service.Cancel(ctx, leaveIdentity(other), applied.ID)
	assert.ErrorIs(t, err, leave.ErrNotAuthorized)

	err = env.service.Cancel(ctx, leaveIdentity(emp), applied.ID)
	assert.NoError(t, err)

	_, err = env.service.GetByID(ctx, leaveIdentity(emp), applied.ID)
	assert.ErrorIs(t, err, leave.ErrLeaveNotFound)
}

func TestLeaveService_GetBalance(t *testing.T) {
	ctx := context.Background()
	env := newLeaveTestEnv(t)
	emp := env.createUser(t, ctx, "EMP-4015", user.RoleEmployee)
	hr := env.createUser(t, ctx, "EMP-4016", user.RoleHR)

	year := time.Now().UTC().Year() + 1

	// 3 approved paid days.
	applied, err := env.service.Apply(ctx, leaveIdentity(emp), leave.ApplyRequest{
		Type:      string(leave.TypePaid),
		StartDate: fmt.Sprintf("%d-02-01", year),
		EndDate:   fmt.Sprintf("%d-02-03", year),
		Reason:    "Trip",
	})
	require.NoError(t, err)
	_, err = env.service.Decide(ctx, leaveIdentity(hr), leave.DecideRequest{
		ID: applied.ID, Status: string(leave.StatusApproved),
	})
	require.NoError(t, err)

	// 2 pending paid days.
	_, err = env.service.Apply(ctx, leaveIdentity(emp), leave.ApplyRequest{
		Type:      string(leave.TypePaid),
		StartDate: fmt.Sprintf("%d-04-01", year),
		EndDate:   fmt.Sprintf("%d-04-02", year),
		Reason:    "Trip",
	})
	require.NoError(t, err)

	balance, err := env.service.GetBalance(ctx, leaveIdentity(emp), year)
	require.NoError(t, err)

	paid := balance.Balances[string(leave.TypePaid)]
	assert.True(t, paid.Capped)
	assert.Equal(t, 20, paid.Allotted)
	assert.Equal(t, 3, paid.Used)
	assert.Equal(t, 2, paid.Pending)
	assert.Equal(t, 15, paid.Remaining)

	unpaid := balance.Balances[string(leave.TypeUnpaid)]
	assert.False(t, unpaid.Capped)
	assert.Equal(t, 0, unpaid.Allotted)
}

func TestLeaveService_Stats(t *testing.T) {
	ctx := context.Background()
	env := newLeaveTestEnv(t)
	emp := env.createUser(t, ctx, "EMP-4017", user.RoleEmployee)
	hr := env.createUser(t, ctx, "EMP-4018", user.RoleHR)

	start, end := dates(20, 21)
	applied, err := env.service.Apply(ctx, leaveIdentity(emp), leave.ApplyRequest{
		Type: string(leave.TypeSick), StartDate: start, EndDate: end, Reason: "Flu",
	})
	require.NoError(t, err)
	_, err = env.service.Decide(ctx, leaveIdentity(hr), leave.DecideRequest{
		ID: applied.ID, Status: string(leave.StatusRejected), Comments: "Need a note",
	})
	require.NoError(t, err)

	start2, end2 := dates(25, 25)
	_, err = env.service.Apply(ctx, leaveIdentity(emp), leave.ApplyRequest{
		Type: string(leave.TypeCasual), StartDate: start2, EndDate: end2, Reason: "Errand",
	})
	require.NoError(t, err)

	start3, end3 := dates(27, 28)
	third, err := env.service.Apply(ctx, leaveIdentity(emp), leave.ApplyRequest{
		Type: string(leave.TypePaid), StartDate: start3, EndDate: end3, Reason: "Trip",
	})
	require.NoError(t, err)
	_, err = env.service.Decide(ctx, leaveIdentity(hr), leave.DecideRequest{
		ID: third.ID, Status: string(leave.StatusApproved),
	})
	require.NoError(t, err)

	stats, err := env.service.Stats(ctx)
	require.NoError(t, err)

	assert.Equal(t, int64(1), stats.Pending)
	assert.Equal(t, int64(1), stats.Approved)
	assert.Equal(t, int64(1), stats.Rejected)

	// Only approved requests feed the per-type breakdown.
	assert.Equal(t, int64(1), stats.ByType[string(leave.TypePaid)])
	assert.Zero(t, stats.ByType[string(leave.TypeSick)])

	assert.Equal(t, int64(0), stats.OnLeaveToday)

	require.Len(t, stats.MonthlyTrend, 12)
	now := time.Now().UTC()
	last := stats.MonthlyTrend[11]
	assert.Equal(t, int(now.Month()), last.Month)
	assert.Equal(t, now.Year(), last.Year)
}
