package attendance

import (
	"time"

	"github.com/dayflow-hrms/dayflow-backend-go/internal/pkg/validator"
)

// MyFilter selects a calendar month of the caller's own records.
// Zero values mean the current month.
type MyFilter struct {
	Month int
	Year  int
}

func (f *MyFilter) Validate() error {
	var errs validator.ValidationErrors

	if f.Month != 0 && !validator.IsValidMonth(f.Month) {
		errs = append(errs, validator.ValidationError{
			Field:   "month",
			Message: "month must be between 1 and 12",
		})
	}
	if f.Year != 0 && !validator.IsValidYear(f.Year) {
		errs = append(errs, validator.ValidationError{
			Field:   "year",
			Message: "year is out of range",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// ListFilter narrows the privileged listing.
type ListFilter struct {
	Date   *string // YYYY-MM-DD, exact day
	UserID *string
	Page   int
	Limit  int
}

func (f *ListFilter) Validate() error {
	var errs validator.ValidationErrors

	if f.Date != nil {
		if _, ok := validator.IsValidDate(*f.Date); !ok {
			errs = append(errs, validator.ValidationError{
				Field:   "date",
				Message: "date must be in YYYY-MM-DD format",
			})
		}
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// UpdateRequest is the hr/admin correction of a record.
type UpdateRequest struct {
	ID       string  `json:"-"`
	CheckIn  *string `json:"check_in,omitempty"`  // RFC3339
	CheckOut *string `json:"check_out,omitempty"` // RFC3339
	Status   *string `json:"status,omitempty"`
	Notes    *string `json:"notes,omitempty"`
}

func (r *UpdateRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.ID) {
		errs = append(errs, validator.ValidationError{
			Field:   "id",
			Message: "id is required",
		})
	}

	if r.CheckIn != nil {
		if _, err := time.Parse(time.RFC3339, *r.CheckIn); err != nil {
			errs = append(errs, validator.ValidationError{
				Field:   "check_in",
				Message: "check_in must be an RFC3339 timestamp",
			})
		}
	}
	if r.CheckOut != nil {
		if _, err := time.Parse(time.RFC3339, *r.CheckOut); err != nil {
			errs = append(errs, validator.ValidationError{
				Field:   "check_out",
				Message: "check_out must be an RFC3339 timestamp",
			})
		}
	}
	if r.Status != nil && !validator.IsInSlice(*r.Status, []string{
		string(StatusPresent), string(StatusAbsent), string(StatusHalfDay),
		string(StatusLeave), string(StatusHoliday),
	}) {
		errs = append(errs, validator.ValidationError{
			Field:   "status",
			Message: "status must be one of present, absent, half-day, leave, holiday",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// Summary accompanies the monthly self listing.
type Summary struct {
	Present        int     `json:"present"`
	Absent         int     `json:"absent"`
	HalfDay        int     `json:"half_day"`
	Leave          int     `json:"leave"`
	TotalWorkHours float64 `json:"total_work_hours"`
}

// RecordResponse is the wire projection of a record.
type RecordResponse struct {
	ID           string     `json:"id"`
	UserID       string     `json:"user_id"`
	Date         string     `json:"date"`
	CheckIn      *time.Time `json:"check_in,omitempty"`
	CheckOut     *time.Time `json:"check_out,omitempty"`
	Status       string     `json:"status"`
	WorkHours    float64    `json:"work_hours"`
	Notes        *string    `json:"notes,omitempty"`
	EmployeeName *string    `json:"employee_name,omitempty"`
	EmployeeID   *string    `json:"employee_id,omitempty"`
	Department   *string    `json:"department,omitempty"`
}

// MyAttendanceResponse bundles the month's records with their summary.
type MyAttendanceResponse struct {
	Records []RecordResponse `json:"records"`
	Summary Summary          `json:"summary"`
}

// ListResponse is the paginated privileged listing.
type ListResponse struct {
	Records    []RecordResponse `json:"records"`
	TotalCount int64            `json:"-"`
	Page       int              `json:"-"`
	Limit      int              `json:"-"`
}

// StatusCount is one row of a stats aggregate.
type StatusCount struct {
	Status string `json:"status"`
	Count  int64  `json:"count"`
}

// StatsResponse is the privileged dashboard aggregate. AbsentToday counts
// every active employee without a present record today, whether or not the
// working day is over.
type StatsResponse struct {
	Today struct {
		Present int64         `json:"present"`
		Absent  int64         `json:"absent"`
		Stats   []StatusCount `json:"stats"`
	} `json:"today"`
	Monthly        []StatusCount `json:"monthly"`
	TotalEmployees int64         `json:"total_employees"`
}
