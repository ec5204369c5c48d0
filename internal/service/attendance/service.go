package attendance

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dayflow-hrms/dayflow-backend-go/internal/domain/attendance"
	"github.com/dayflow-hrms/dayflow-backend-go/internal/domain/auth"
	"github.com/dayflow-hrms/dayflow-backend-go/internal/domain/user"
)

type AttendanceServiceImpl struct {
	attendance.Repository
	users user.Repository
}

func NewAttendanceService(attendanceRepository attendance.Repository, userRepository user.Repository) attendance.Service {
	return &AttendanceServiceImpl{
		Repository: attendanceRepository,
		users:      userRepository,
	}
}

func toResponse(rec attendance.Record) attendance.RecordResponse {
	return attendance.RecordResponse{
		ID:           rec.ID,
		UserID:       rec.UserID,
		Date:         rec.Date.Format("2006-01-02"),
		CheckIn:      rec.CheckIn,
		CheckOut:     rec.CheckOut,
		Status:       string(rec.Status),
		WorkHours:    rec.WorkHours,
		Notes:        rec.Notes,
		EmployeeName: rec.EmployeeName,
		EmployeeID:   rec.EmployeeID,
		Department:   rec.Department,
	}
}

// CheckIn implements attendance.Service. One record per user per day; a
// second check-in on the same day is rejected.
func (s *AttendanceServiceImpl) CheckIn(ctx context.Context, identity auth.Identity) (attendance.RecordResponse, error) {
	now := time.Now().UTC()
	today := attendance.Day(now)

	existing, err := s.Repository.GetByUserAndDate(ctx, identity.UserID, today)
	if err == nil {
		if existing.CheckIn != nil {
			return attendance.RecordResponse{}, attendance.ErrAlreadyCheckedIn
		}
		// A leave or holiday record exists without a check-in; stamp it.
		existing.CheckIn = &now
		existing.Status = attendance.StatusPresent
		updated, err := s.Repository.Update(ctx, existing)
		if err != nil {
			return attendance.RecordResponse{}, err
		}
		return toResponse(updated), nil
	}
	if !errors.Is(err, attendance.ErrRecordNotFound) {
		return attendance.RecordResponse{}, fmt.Errorf("failed to look up today's attendance: %w", err)
	}

	created, err := s.Repository.Create(ctx, attendance.Record{
		UserID:  identity.UserID,
		Date:    today,
		CheckIn: &now,
		Status:  attendance.StatusPresent,
	})
	if err != nil {
		return attendance.RecordResponse{}, err
	}

	return toResponse(created), nil
}

// CheckOut implements attendance.Service. Work hours and the half-day
// downgrade are derived here, never taken from the client.
func (s *AttendanceServiceImpl) CheckOut(ctx context.Context, identity auth.Identity) (attendance.RecordResponse, error) {
	now := time.Now().UTC()
	today := attendance.Day(now)

	rec, err := s.Repository.GetByUserAndDate(ctx, identity.UserID, today)
	if err != nil {
		if errors.Is(err, attendance.ErrRecordNotFound) {
			return attendance.RecordResponse{}, attendance.ErrNotCheckedIn
		}
		return attendance.RecordResponse{}, fmt.Errorf("failed to look up today's attendance: %w", err)
	}
	if rec.CheckIn == nil {
		return attendance.RecordResponse{}, attendance.ErrNotCheckedIn
	}
	if rec.CheckOut != nil {
		return attendance.RecordResponse{}, attendance.ErrAlreadyCheckedOut
	}

	rec.CheckOut = &now
	rec.WorkHours = attendance.WorkHours(rec.CheckIn, rec.CheckOut)
	rec.Status = attendance.DeriveStatus(rec.WorkHours)

	updated, err := s.Repository.Update(ctx, rec)
	if err != nil {
		return attendance.RecordResponse{}, err
	}

	return toResponse(updated), nil
}

// GetToday implements attendance.Service. Returns nil when the caller has no
// record for today.
func (s *AttendanceServiceImpl) GetToday(ctx context.Context, identity auth.Identity) (*attendance.RecordResponse, error) {
	rec, err := s.Repository.GetByUserAndDate(ctx, identity.UserID, attendance.Day(time.Now().UTC()))
	if err != nil {
		if errors.Is(err, attendance.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to look up today's attendance: %w", err)
	}

	resp := toResponse(rec)
	return &resp, nil
}

func monthRange(month, year int) (time.Time, time.Time) {
	now := time.Now().UTC()
	if month == 0 {
		month = int(now.Month())
	}
	if year == 0 {
		year = now.Year()
	}
	from := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 1, -1)
	return from, to
}

// GetMyAttendance implements attendance.Service.
func (s *AttendanceServiceImpl) GetMyAttendance(ctx context.Context, identity auth.Identity, filter attendance.MyFilter) (attendance.MyAttendanceResponse, error) {
	from, to := monthRange(filter.Month, filter.Year)

	records, err := s.Repository.GetByUserAndRange(ctx, identity.UserID, from, to)
	if err != nil {
		return attendance.MyAttendanceResponse{}, fmt.Errorf("failed to list attendance: %w", err)
	}

	resp := attendance.MyAttendanceResponse{Records: make([]attendance.RecordResponse, 0, len(records))}
	for _, rec := range records {
		resp.Records = append(resp.Records, toResponse(rec))

		switch rec.Status {
		case attendance.StatusPresent:
			resp.Summary.Present++
		case attendance.StatusAbsent:
			resp.Summary.Absent++
		case attendance.StatusHalfDay:
			resp.Summary.HalfDay++
		case attendance.StatusLeave:
			resp.Summary.Leave++
		}
		resp.Summary.TotalWorkHours += rec.WorkHours
	}

	return resp, nil
}

// List implements attendance.Service.
func (s *AttendanceServiceImpl) List(ctx context.Context, filter attendance.ListFilter) (attendance.ListResponse, error) {
	records, total, err := s.Repository.List(ctx, filter)
	if err != nil {
		return attendance.ListResponse{}, fmt.Errorf("failed to list attendance: %w", err)
	}

	resp := attendance.ListResponse{
		Records:    make([]attendance.RecordResponse, 0, len(records)),
		TotalCount: total,
		Page:       filter.Page,
		Limit:      filter.Limit,
	}
	for _, rec := range records {
		resp.Records = append(resp.Records, toResponse(rec))
	}

	return resp, nil
}

// Update implements attendance.Service. Corrections recompute work hours
// whenever both timestamps end up set; an explicit status wins over the
// derived one.
func (s *AttendanceServiceImpl) Update(ctx context.Context, req attendance.UpdateRequest) (attendance.RecordResponse, error) {
	rec, err := s.Repository.GetByID(ctx, req.ID)
	if err != nil {
		return attendance.RecordResponse{}, err
	}

	if req.CheckIn != nil {
		checkIn, err := time.Parse(time.RFC3339, *req.CheckIn)
		if err != nil {
			return attendance.RecordResponse{}, fmt.Errorf("failed to parse check_in: %w", err)
		}
		rec.CheckIn = &checkIn
	}
	if req.CheckOut != nil {
		checkOut, err := time.Parse(time.RFC3339, *req.CheckOut)
		if err != nil {
			return attendance.RecordResponse{}, fmt.Errorf("failed to parse check_out: %w", err)
		}
		rec.CheckOut = &checkOut
	}
	if req.Notes != nil {
		rec.Notes = req.Notes
	}

	rec.WorkHours = attendance.WorkHours(rec.CheckIn, rec.CheckOut)
	if req.Status != nil {
		rec.Status = attendance.Status(*req.Status)
	} else if rec.CheckIn != nil && rec.CheckOut != nil {
		rec.Status = attendance.DeriveStatus(rec.WorkHours)
	}

	updated, err := s.Repository.Update(ctx, rec)
	if err != nil {
		return attendance.RecordResponse{}, err
	}

	return toResponse(updated), nil
}

// Stats implements attendance.Service. Absent-today is derived as active
// employees minus those with a record counting as present.
func (s *AttendanceServiceImpl) Stats(ctx context.Context) (attendance.StatsResponse, error) {
	today := attendance.Day(time.Now().UTC())

	todayCounts, err := s.Repository.CountByStatusOnDate(ctx, today)
	if err != nil {
		return attendance.StatsResponse{}, fmt.Errorf("failed to aggregate today's attendance: %w", err)
	}

	from, to := monthRange(0, 0)
	monthly, err := s.Repository.CountByStatusInRange(ctx, from, to)
	if err != nil {
		return attendance.StatsResponse{}, fmt.Errorf("failed to aggregate monthly attendance: %w", err)
	}

	active, err := s.users.CountActive(ctx)
	if err != nil {
		return attendance.StatsResponse{}, fmt.Errorf("failed to count active employees: %w", err)
	}

	var resp attendance.StatsResponse
	resp.Today.Stats = todayCounts
	resp.Monthly = monthly
	resp.TotalEmployees = active

	for _, sc := range todayCounts {
		if sc.Status == string(attendance.StatusPresent) || sc.Status == string(attendance.StatusHalfDay) {
			resp.Today.Present += sc.Count
		}
	}
	resp.Today.Absent = active - resp.Today.Present
	if resp.Today.Absent < 0 {
		resp.Today.Absent = 0
	}

	return resp, nil
}
