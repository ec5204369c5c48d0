package leave

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/dayflow-hrms/dayflow-backend-go/internal/domain/auth"
	"github.com/dayflow-hrms/dayflow-backend-go/internal/domain/leave"
	"github.com/dayflow-hrms/dayflow-backend-go/internal/domain/notification"
	"github.com/dayflow-hrms/dayflow-backend-go/internal/domain/user"
)

type LeaveServiceImpl struct {
	leave.Repository
	users    user.Repository
	notifier notification.Service
}

func NewLeaveService(leaveRepository leave.Repository, userRepository user.Repository, notifier notification.Service) leave.Service {
	return &LeaveServiceImpl{
		Repository: leaveRepository,
		users:      userRepository,
		notifier:   notifier,
	}
}

// Apply implements leave.Service. Rejects ranges overlapping any non-rejected
// request of the same user, and capped types with insufficient balance.
func (s *LeaveServiceImpl) Apply(ctx context.Context, identity auth.Identity, req leave.ApplyRequest) (leave.RequestResponse, error) {
	start, _ := time.Parse("2006-01-02", req.StartDate)
	end, _ := time.Parse("2006-01-02", req.EndDate)
	leaveType := leave.Type(req.Type)
	totalDays := leave.TotalDays(start, end)

	overlapping, err := s.Repository.FindOverlapping(ctx, identity.UserID, start, end)
	if err != nil {
		return leave.RequestResponse{}, fmt.Errorf("failed to check for overlapping requests: %w", err)
	}
	if len(overlapping) > 0 {
		return leave.RequestResponse{}, leave.ErrOverlappingRequest
	}

	if allotted, capped := leave.Allotments[leaveType]; capped {
		approved, err := s.Repository.SumDaysByType(ctx, identity.UserID, start.Year(), leave.StatusApproved)
		if err != nil {
			return leave.RequestResponse{}, fmt.Errorf("failed to load approved leave days: %w", err)
		}
		pending, err := s.Repository.SumDaysByType(ctx, identity.UserID, start.Year(), leave.StatusPending)
		if err != nil {
			return leave.RequestResponse{}, fmt.Errorf("failed to load pending leave days: %w", err)
		}
		if approved[leaveType]+pending[leaveType]+totalDays > allotted {
			return leave.RequestResponse{}, leave.ErrInsufficientBalance
		}
	}

	created, err := s.Repository.Create(ctx, leave.Request{
		UserID:    identity.UserID,
		Type:      leaveType,
		StartDate: start,
		EndDate:   end,
		TotalDays: totalDays,
		Reason:    req.Reason,
		Status:    leave.StatusPending,
	})
	if err != nil {
		return leave.RequestResponse{}, err
	}

	s.notifyApprovers(ctx, created)

	return leave.NewRequestResponse(&created), nil
}

// notifyApprovers pings every active hr/admin account about a new request.
func (s *LeaveServiceImpl) notifyApprovers(ctx context.Context, req leave.Request) {
	approvers, err := s.users.ListActive(ctx)
	if err != nil {
		slog.Warn("Failed to list approvers for leave notification", "leave_id", req.ID, "error", err)
		return
	}

	name := "An employee"
	if req.EmployeeName != nil {
		name = *req.EmployeeName
	} else if requester, err := s.users.GetByID(ctx, req.UserID); err == nil {
		name = requester.FullName()
	}
	message := fmt.Sprintf("%s requested %d day(s) of %s leave from %s to %s.",
		name, req.TotalDays, req.Type,
		req.StartDate.Format("2006-01-02"), req.EndDate.Format("2006-01-02"))

	for _, approver := range approvers {
		if !approver.Role.IsPrivileged() || approver.ID == req.UserID {
			continue
		}
		s.notifier.Notify(ctx, approver.ID, "New leave request", message, notification.TypeLeave, nil)
	}
}

// GetMyLeaves implements leave.Service.
func (s *LeaveServiceImpl) GetMyLeaves(ctx context.Context, identity auth.Identity, filter leave.MyFilter) ([]leave.RequestResponse, error) {
	requests, err := s.Repository.GetByUser(ctx, identity.UserID, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list leave requests: %w", err)
	}

	responses := make([]leave.RequestResponse, 0, len(requests))
	for i := range requests {
		responses = append(responses, leave.NewRequestResponse(&requests[i]))
	}

	return responses, nil
}

// GetBalance implements leave.Service.
func (s *LeaveServiceImpl) GetBalance(ctx context.Context, identity auth.Identity, year int) (leave.BalanceResponse, error) {
	if year == 0 {
		year = time.Now().UTC().Year()
	}

	approved, err := s.Repository.SumDaysByType(ctx, identity.UserID, year, leave.StatusApproved)
	if err != nil {
		return leave.BalanceResponse{}, fmt.Errorf("failed to load approved leave days: %w", err)
	}
	pending, err := s.Repository.SumDaysByType(ctx, identity.UserID, year, leave.StatusPending)
	if err != nil {
		return leave.BalanceResponse{}, fmt.Errorf("failed to load pending leave days: %w", err)
	}

	resp := leave.BalanceResponse{
		Year:     year,
		Balances: make(map[string]leave.TypeBalance, len(leave.ValidTypes())),
	}
	for _, name := range leave.ValidTypes() {
		typ := leave.Type(name)
		allotted, capped := leave.Allotments[typ]

		balance := leave.TypeBalance{
			Allotted: allotted,
			Used:     approved[typ],
			Pending:  pending[typ],
			Capped:   capped,
		}
		if capped {
			balance.Remaining = allotted - balance.Used - balance.Pending
			if balance.Remaining < 0 {
				balance.Remaining = 0
			}
		}
		resp.Balances[name] = balance
	}

	return resp, nil
}

// List implements leave.Service.
func (s *LeaveServiceImpl) List(ctx context.Context, filter leave.ListFilter) (leave.ListResponse, error) {
	requests, total, err := s.Repository.List(ctx, filter)
	if err != nil {
		return leave.ListResponse{}, fmt.Errorf("failed to list leave requests: %w", err)
	}

	resp := leave.ListResponse{
		Requests:   make([]leave.RequestResponse, 0, len(requests)),
		TotalCount: total,
		Page:       filter.Page,
		Limit:      filter.Limit,
	}
	for i := range requests {
		resp.Requests = append(resp.Requests, leave.NewRequestResponse(&requests[i]))
	}

	return resp, nil
}

// GetByID implements leave.Service. Regular employees can only read their own
// requests.
func (s *LeaveServiceImpl) GetByID(ctx context.Context, identity auth.Identity, id string) (leave.RequestResponse, error) {
	req, err := s.Repository.GetByID(ctx, id)
	if err != nil {
		return leave.RequestResponse{}, err
	}

	if req.UserID != identity.UserID && !identity.Role.IsPrivileged() {
		return leave.RequestResponse{}, leave.ErrNotAuthorized
	}

	return leave.NewRequestResponse(&req), nil
}

// Decide implements leave.Service. A request is decided exactly once; the
// outcome is pushed to the requester as a notification.
func (s *LeaveServiceImpl) Decide(ctx context.Context, identity auth.Identity, req leave.DecideRequest) (leave.RequestResponse, error) {
	current, err := s.Repository.GetByID(ctx, req.ID)
	if err != nil {
		return leave.RequestResponse{}, err
	}
	if current.Status != leave.StatusPending {
		return leave.RequestResponse{}, leave.ErrAlreadyDecided
	}

	decidedAt := time.Now().UTC()
	current.Status = leave.Status(req.Status)
	current.ApprovedBy = &identity.UserID
	current.ApprovedAt = &decidedAt
	if req.Comments != "" {
		current.ApproverComments = &req.Comments
	}

	updated, err := s.Repository.Update(ctx, current)
	if err != nil {
		return leave.RequestResponse{}, err
	}

	title := "Leave request approved"
	if updated.Status == leave.StatusRejected {
		title = "Leave request rejected"
	}
	message := fmt.Sprintf("Your %s leave from %s to %s has been %s.",
		updated.Type,
		updated.StartDate.Format("2006-01-02"), updated.EndDate.Format("2006-01-02"),
		updated.Status)
	s.notifier.Notify(ctx, updated.UserID, title, message, notification.TypeLeave, nil)

	return leave.NewRequestResponse(&updated), nil
}

// Cancel implements leave.Service. Only the owner (or hr/admin) may cancel,
// and only while the request is still pending.
func (s *LeaveServiceImpl) Cancel(ctx context.Context, identity auth.Identity, id string) error {
	req, err := s.Repository.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if req.UserID != identity.UserID && !identity.Role.IsPrivileged() {
		return leave.ErrNotAuthorized
	}
	if req.Status != leave.StatusPending {
		return leave.ErrNotPending
	}

	return s.Repository.Delete(ctx, id)
}

// Stats implements leave.Service. The trend covers the trailing twelve
// months including the current one, with empty months zero-filled.
func (s *LeaveServiceImpl) Stats(ctx context.Context) (leave.StatsResponse, error) {
	byStatus, err := s.Repository.CountByStatus(ctx)
	if err != nil {
		return leave.StatsResponse{}, fmt.Errorf("failed to aggregate leave statuses: %w", err)
	}
	byType, err := s.Repository.CountApprovedByType(ctx)
	if err != nil {
		return leave.StatsResponse{}, fmt.Errorf("failed to aggregate leave types: %w", err)
	}
	now := time.Now().UTC()
	onLeaveToday, err := s.Repository.CountApprovedOnDate(ctx, now)
	if err != nil {
		return leave.StatsResponse{}, fmt.Errorf("failed to count employees on leave: %w", err)
	}

	trendStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, -11, 0)
	monthly, err := s.Repository.CountByMonth(ctx, trendStart)
	if err != nil {
		return leave.StatsResponse{}, fmt.Errorf("failed to aggregate monthly leave counts: %w", err)
	}

	buckets := make(map[[2]int]int64, len(monthly))
	for _, mc := range monthly {
		buckets[[2]int{mc.Year, mc.Month}] = mc.Count
	}
	trend := make([]leave.TrendPoint, 0, 12)
	for i := 0; i < 12; i++ {
		point := trendStart.AddDate(0, i, 0)
		trend = append(trend, leave.TrendPoint{
			Month: int(point.Month()),
			Year:  point.Year(),
			Count: buckets[[2]int{point.Year(), int(point.Month())}],
		})
	}

	resp := leave.StatsResponse{
		Pending:      byStatus[leave.StatusPending],
		Approved:     byStatus[leave.StatusApproved],
		Rejected:     byStatus[leave.StatusRejected],
		ByType:       make(map[string]int64, len(byType)),
		OnLeaveToday: onLeaveToday,
		MonthlyTrend: trend,
	}
	for typ, count := range byType {
		resp.ByType[string(typ)] = count
	}

	return resp, nil
}
