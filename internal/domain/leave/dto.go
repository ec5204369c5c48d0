package leave

import (
	"time"

	"github.com/dayflow-hrms/dayflow-backend-go/internal/pkg/validator"
)

type ApplyRequest struct {
	Type      string `json:"type"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
	Reason    string `json:"reason"`
}

func (r *ApplyRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Type) {
		errs = append(errs, validator.ValidationError{Field: "type", Message: "Leave type is required"})
	} else if !validator.IsInSlice(r.Type, ValidTypes()) {
		errs = append(errs, validator.ValidationError{Field: "type", Message: "Invalid leave type"})
	}

	start, startOK := validator.IsValidDate(r.StartDate)
	if validator.IsEmpty(r.StartDate) {
		errs = append(errs, validator.ValidationError{Field: "start_date", Message: "Start date is required"})
	} else if !startOK {
		errs = append(errs, validator.ValidationError{Field: "start_date", Message: "Start date must be in YYYY-MM-DD format"})
	}

	end, endOK := validator.IsValidDate(r.EndDate)
	if validator.IsEmpty(r.EndDate) {
		errs = append(errs, validator.ValidationError{Field: "end_date", Message: "End date is required"})
	} else if !endOK {
		errs = append(errs, validator.ValidationError{Field: "end_date", Message: "End date must be in YYYY-MM-DD format"})
	}

	if startOK && endOK && end.Before(start) {
		errs = append(errs, validator.ValidationError{Field: "end_date", Message: "End date must not be before start date"})
	}

	if validator.IsEmpty(r.Reason) {
		errs = append(errs, validator.ValidationError{Field: "reason", Message: "Reason is required"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type DecideRequest struct {
	ID       string `json:"-"`
	Status   string `json:"status"`
	Comments string `json:"comments"`
}

func (r *DecideRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.ID) {
		errs = append(errs, validator.ValidationError{Field: "id", Message: "Leave request ID is required"})
	}

	if validator.IsEmpty(r.Status) {
		errs = append(errs, validator.ValidationError{Field: "status", Message: "Status is required"})
	} else if !validator.IsInSlice(r.Status, []string{string(StatusApproved), string(StatusRejected)}) {
		errs = append(errs, validator.ValidationError{Field: "status", Message: "Status must be approved or rejected"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type MyFilter struct {
	Status *string
	Year   int
}

func (f *MyFilter) Validate() error {
	var errs validator.ValidationErrors

	if f.Status != nil && !validator.IsInSlice(*f.Status, []string{
		string(StatusPending), string(StatusApproved), string(StatusRejected),
	}) {
		errs = append(errs, validator.ValidationError{Field: "status", Message: "Invalid leave status"})
	}
	if f.Year != 0 && !validator.IsValidYear(f.Year) {
		errs = append(errs, validator.ValidationError{Field: "year", Message: "Invalid year"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type ListFilter struct {
	Status     *string
	Type       *string
	UserID     *string
	Department *string
	Page       int
	Limit      int
}

func (f *ListFilter) Validate() error {
	var errs validator.ValidationErrors

	if f.Status != nil && !validator.IsInSlice(*f.Status, []string{
		string(StatusPending), string(StatusApproved), string(StatusRejected),
	}) {
		errs = append(errs, validator.ValidationError{Field: "status", Message: "Invalid leave status"})
	}
	if f.Type != nil && !validator.IsInSlice(*f.Type, ValidTypes()) {
		errs = append(errs, validator.ValidationError{Field: "type", Message: "Invalid leave type"})
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

type RequestResponse struct {
	ID               string  `json:"id"`
	UserID           string  `json:"user_id"`
	EmployeeName     *string `json:"employee_name,omitempty"`
	EmployeeID       *string `json:"employee_id,omitempty"`
	Department       *string `json:"department,omitempty"`
	Type             string  `json:"type"`
	StartDate        string  `json:"start_date"`
	EndDate          string  `json:"end_date"`
	TotalDays        int     `json:"total_days"`
	Reason           string  `json:"reason"`
	Status           string  `json:"status"`
	ApprovedBy       *string `json:"approved_by,omitempty"`
	ApproverName     *string `json:"approver_name,omitempty"`
	ApproverComments *string `json:"approver_comments,omitempty"`
	ApprovedAt       *string `json:"approved_at,omitempty"`
	CreatedAt        string  `json:"created_at"`
}

func NewRequestResponse(r *Request) RequestResponse {
	resp := RequestResponse{
		ID:               r.ID,
		UserID:           r.UserID,
		EmployeeName:     r.EmployeeName,
		EmployeeID:       r.EmployeeID,
		Department:       r.Department,
		Type:             string(r.Type),
		StartDate:        r.StartDate.Format("2006-01-02"),
		EndDate:          r.EndDate.Format("2006-01-02"),
		TotalDays:        r.TotalDays,
		Reason:           r.Reason,
		Status:           string(r.Status),
		ApprovedBy:       r.ApprovedBy,
		ApproverName:     r.ApproverName,
		ApproverComments: r.ApproverComments,
		CreatedAt:        r.CreatedAt.Format(time.RFC3339),
	}
	if r.ApprovedAt != nil {
		s := r.ApprovedAt.Format(time.RFC3339)
		resp.ApprovedAt = &s
	}
	return resp
}

// TypeBalance is the per-type ledger of a user for one year.
type TypeBalance struct {
	Allotted  int  `json:"allotted"`
	Used      int  `json:"used"`
	Pending   int  `json:"pending"`
	Remaining int  `json:"remaining"`
	Capped    bool `json:"capped"`
}

type BalanceResponse struct {
	Year     int                    `json:"year"`
	Balances map[string]TypeBalance `json:"balances"`
}

type ListResponse struct {
	Requests   []RequestResponse `json:"requests"`
	TotalCount int64             `json:"-"`
	Page       int               `json:"-"`
	Limit      int               `json:"-"`
}

// TrendPoint is one month of the trailing request trend.
type TrendPoint struct {
	Month int   `json:"month"`
	Year  int   `json:"year"`
	Count int64 `json:"count"`
}

type StatsResponse struct {
	Pending      int64            `json:"pending"`
	Approved     int64            `json:"approved"`
	Rejected     int64            `json:"rejected"`
	ByType       map[string]int64 `json:"by_type"`
	OnLeaveToday int64            `json:"on_leave_today"`
	MonthlyTrend []TrendPoint     `json:"monthly_trend"`
}
