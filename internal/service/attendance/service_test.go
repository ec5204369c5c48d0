package attendance

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dayflow-hrms/dayflow-backend-go/internal/domain/attendance"
	"github.com/dayflow-hrms/dayflow-backend-go/internal/domain/auth"
	"github.com/dayflow-hrms/dayflow-backend-go/internal/domain/user"
	"github.com/dayflow-hrms/dayflow-backend-go/internal/repository/memory"
)

func newAttendanceTestService(t *testing.T) (attendance.Service, attendance.Repository, user.Repository) {
	store := memory.NewStore()
	attendanceRepo := memory.NewAttendanceRepository(store)
	userRepo := memory.NewUserRepository(store)
	return NewAttendanceService(attendanceRepo, userRepo), attendanceRepo, userRepo
}

func createAttendanceTestUser(t *testing.T, ctx context.Context, repo user.Repository, employeeID string) user.User {
	created, err := repo.Create(ctx, user.User{
		EmployeeID:    employeeID,
		Email:         employeeID + "@example.com",
		FirstName:     "Test",
		LastName:      "User",
		Role:          user.RoleEmployee,
		DateOfJoining: time.Now().UTC(),
		IsActive:      true,
	})
	require.NoError(t, err)
	return created
}

func identityFor(u user.User) auth.Identity {
	return auth.Identity{UserID: u.ID, Email: u.Email, Role: u.Role}
}

func TestAttendanceService_CheckIn_Success(t *testing.T) {
	ctx := context.Background()
	service, _, userRepo := newAttendanceTestService(t)
	emp := createAttendanceTestUser(t, ctx, userRepo, "EMP-3001")

	resp, err := service.CheckIn(ctx, identityFor(emp))

	assert.NoError(t, err)
	assert.Equal(t, emp.ID, resp.UserID)
	assert.NotNil(t, resp.CheckIn)
	assert.Nil(t, resp.CheckOut)
	assert.Equal(t, string(attendance.StatusPresent), resp.Status)
	assert.Equal(t, attendance.Day(time.Now().UTC()).Format("2006-01-02"), resp.Date)
}

func TestAttendanceService_CheckIn_Twice(t *testing.T) {
	ctx := context.Background()
	service, _, userRepo := newAttendanceTestService(t)
	emp := createAttendanceTestUser(t, ctx, userRepo, "EMP-3002")

	_, err := service.CheckIn(ctx, identityFor(emp))
	require.NoError(t, err)

	_, err = service.CheckIn(ctx, identityFor(emp))
	assert.ErrorIs(t, err, attendance.ErrAlreadyCheckedIn)
}

func TestAttendanceService_CheckIn_StampsLeaveRecord(t *testing.T) {
	ctx := context.Background()
	service, attendanceRepo, userRepo := newAttendanceTestService(t)
	emp := createAttendanceTestUser(t, ctx, userRepo, "EMP-3003")

	// A leave record without a check-in already covers today.
	_, err := attendanceRepo.Create(ctx, attendance.Record{
		UserID: emp.ID,
		Date:   attendance.Day(time.Now().UTC()),
		Status: attendance.StatusLeave,
	})
	require.NoError(t, err)

	resp, err := service.CheckIn(ctx, identityFor(emp))

	assert.NoError(t, err)
	assert.NotNil(t, resp.CheckIn)
	assert.Equal(t, string(attendance.StatusPresent), resp.Status)
}

func TestAttendanceService_CheckOut_WithoutCheckIn(t *testing.T) {
	ctx := context.Background()
	service, _, userRepo := newAttendanceTestService(t)
	emp := createAttendanceTestUser(t, ctx, userRepo, "EMP-3004")

	_, err := service.CheckOut(ctx, identityFor(emp))
	assert.ErrorIs(t, err, attendance.ErrNotCheckedIn)
}

func TestAttendanceService_CheckOut_ShortDayIsHalfDay(t *testing.T) {
	ctx := context.Background()
	service, _, userRepo := newAttendanceTestService(t)
	emp := createAttendanceTestUser(t, ctx, userRepo, "EMP-3005")

	_, err := service.CheckIn(ctx, identityFor(emp))
	require.NoError(t, err)

	// Checking out moments after checking in lands under the threshold.
	resp, err := service.CheckOut(ctx, identityFor(emp))

	assert.NoError(t, err)
	assert.NotNil(t, resp.CheckOut)
	assert.Less(t, resp.WorkHours, attendance.HalfDayThreshold)
	assert.Equal(t, string(attendance.StatusHalfDay), resp.Status)

	_, err = service.CheckOut(ctx, identityFor(emp))
	assert.ErrorIs(t, err, attendance.ErrAlreadyCheckedOut)
}

func TestAttendanceService_GetToday_NoRecord(t *testing.T) {
	ctx := context.Background()
	service, _, userRepo := newAttendanceTestService(t)
	emp := createAttendanceTestUser(t, ctx, userRepo, "EMP-3006")

	resp, err := service.GetToday(ctx, identityFor(emp))

	assert.NoError(t, err)
	assert.Nil(t, resp)
}

func TestAttendanceService_Update_RecomputesHoursAndStatus(t *testing.T) {
	ctx := context.Background()
	service, attendanceRepo, userRepo := newAttendanceTestService(t)
	emp := createAttendanceTestUser(t, ctx, userRepo, "EMP-3007")

	day := attendance.Day(time.Now().UTC())
	checkIn := day.Add(9 * time.Hour)
	rec, err := attendanceRepo.Create(ctx, attendance.Record{
		UserID:  emp.ID,
		Date:    day,
		CheckIn: &checkIn,
		Status:  attendance.StatusPresent,
	})
	require.NoError(t, err)

	checkOut := day.Add(17*time.Hour + 30*time.Minute).Format(time.RFC3339)
	resp, err := service.Update(ctx, attendance.UpdateRequest{
		ID:       rec.ID,
		CheckOut: &checkOut,
	})

	assert.NoError(t, err)
	assert.Equal(t, 8.5, resp.WorkHours)
	assert.Equal(t, string(attendance.StatusPresent), resp.Status)
}

func TestAttendanceService_Update_ExplicitStatusWins(t *testing.T) {
	ctx := context.Background()
	service, attendanceRepo, userRepo := newAttendanceTestService(t)
	emp := createAttendanceTestUser(t, ctx, userRepo, "EMP-3008")

	day := attendance.Day(time.Now().UTC())
	checkIn := day.Add(9 * time.Hour)
	checkOut := day.Add(18 * time.Hour)
	rec, err := attendanceRepo.Create(ctx, attendance.Record{
		UserID:   emp.ID,
		Date:     day,
		CheckIn:  &checkIn,
		CheckOut: &checkOut,
		Status:   attendance.StatusPresent,
	})
	require.NoError(t, err)

	leave := string(attendance.StatusLeave)
	resp, err := service.Update(ctx, attendance.UpdateRequest{
		ID:     rec.ID,
		Status: &leave,
	})

	assert.NoError(t, err)
	assert.Equal(t, leave, resp.Status)
	assert.Equal(t, 9.0, resp.WorkHours)
}

func TestAttendanceService_GetMyAttendance_Summary(t *testing.T) {
	ctx := context.Background()
	service, attendanceRepo, userRepo := newAttendanceTestService(t)
	emp := createAttendanceTestUser(t, ctx, userRepo, "EMP-3009")

	now := time.Now().UTC()
	firstOfMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	statuses := []attendance.Status{
		attendance.StatusPresent,
		attendance.StatusPresent,
		attendance.StatusHalfDay,
		attendance.StatusLeave,
	}
	for i, status := range statuses {
		day := firstOfMonth.AddDate(0, 0, i)
		checkIn := day.Add(9 * time.Hour)
		checkOut := day.Add(17 * time.Hour)
		rec := attendance.Record{UserID: emp.ID, Date: day, Status: status}
		if status == attendance.StatusPresent || status == attendance.StatusHalfDay {
			rec.CheckIn = &checkIn
			rec.CheckOut = &checkOut
			rec.WorkHours = attendance.WorkHours(&checkIn, &checkOut)
		}
		_, err := attendanceRepo.Create(ctx, rec)
		require.NoError(t, err)
	}

	resp, err := service.GetMyAttendance(ctx, identityFor(emp), attendance.MyFilter{
		Month: int(now.Month()),
		Year:  now.Year(),
	})

	assert.NoError(t, err)
	assert.Len(t, resp.Records, 4)
	assert.Equal(t, 2, resp.Summary.Present)
	assert.Equal(t, 1, resp.Summary.HalfDay)
	assert.Equal(t, 1, resp.Summary.Leave)
	assert.Equal(t, 0, resp.Summary.Absent)
	assert.Equal(t, 24.0, resp.Summary.TotalWorkHours)
}

func TestAttendanceService_Stats_AbsentDerived(t *testing.T) {
	ctx := context.Background()
	service, _, userRepo := newAttendanceTestService(t)

	first := createAttendanceTestUser(t, ctx, userRepo, "EMP-3010")
	createAttendanceTestUser(t, ctx, userRepo, "EMP-3011")
	createAttendanceTestUser(t, ctx, userRepo, "EMP-3012")

	_, err := service.CheckIn(ctx, identityFor(first))
	require.NoError(t, err)

	stats, err := service.Stats(ctx)

	assert.NoError(t, err)
	assert.Equal(t, int64(3), stats.TotalEmployees)
	assert.Equal(t, int64(1), stats.Today.Present)
	assert.Equal(t, int64(2), stats.Today.Absent)
}
