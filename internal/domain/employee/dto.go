package employee

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/dayflow-hrms/dayflow-backend-go/internal/domain/user"
	"github.com/dayflow-hrms/dayflow-backend-go/internal/pkg/validator"
)

type CreateRequest struct {
	EmployeeID  string  `json:"employee_id"`
	Email       string  `json:"email"`
	Password    string  `json:"password"`
	FirstName   string  `json:"first_name"`
	LastName    string  `json:"last_name"`
	Role        string  `json:"role,omitempty"`
	Phone       *string `json:"phone"`
	Department  *string `json:"department"`
	Designation *string `json:"designation"`

	DateOfBirth   *string `json:"date_of_birth"`
	DateOfJoining *string `json:"date_of_joining"`

	Address          *user.Address          `json:"address"`
	EmergencyContact *user.EmergencyContact `json:"emergency_contact"`
	BankDetails      *user.BankDetails      `json:"bank_details"`
	Salary           *SalaryInput           `json:"salary"`
}

// SalaryInput accepts salary components as plain numbers on the wire.
type SalaryInput struct {
	Basic      float64 `json:"basic"`
	HRA        float64 `json:"hra"`
	Allowances float64 `json:"allowances"`
	Deductions float64 `json:"deductions"`
}

func (s *SalaryInput) ToProfile() user.SalaryProfile {
	return user.SalaryProfile{
		Basic:      decimal.NewFromFloat(s.Basic),
		HRA:        decimal.NewFromFloat(s.HRA),
		Allowances: decimal.NewFromFloat(s.Allowances),
		Deductions: decimal.NewFromFloat(s.Deductions),
	}
}

func (r *CreateRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{Field: "employee_id", Message: "employee_id is required"})
	} else if !validator.IsValidEmployeeID(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{Field: "employee_id", Message: "employee_id format is invalid"})
	}

	if validator.IsEmpty(r.Email) {
		errs = append(errs, validator.ValidationError{Field: "email", Message: "email is required"})
	} else if !validator.IsValidEmail(r.Email) {
		errs = append(errs, validator.ValidationError{Field: "email", Message: "email must be a valid email address"})
	}

	if len(r.Password) < 6 {
		errs = append(errs, validator.ValidationError{Field: "password", Message: "password must be at least 6 characters"})
	}

	if validator.IsEmpty(r.FirstName) {
		errs = append(errs, validator.ValidationError{Field: "first_name", Message: "first_name is required"})
	}

	if validator.IsEmpty(r.LastName) {
		errs = append(errs, validator.ValidationError{Field: "last_name", Message: "last_name is required"})
	}

	if r.Role != "" && !validator.IsInSlice(r.Role, []string{"employee", "hr", "admin"}) {
		errs = append(errs, validator.ValidationError{Field: "role", Message: "role must be one of employee, hr, admin"})
	}

	if r.DateOfBirth != nil {
		if _, ok := validator.IsValidDate(*r.DateOfBirth); !ok {
			errs = append(errs, validator.ValidationError{Field: "date_of_birth", Message: "date_of_birth must be in YYYY-MM-DD format"})
		}
	}

	if r.DateOfJoining != nil {
		if _, ok := validator.IsValidDate(*r.DateOfJoining); !ok {
			errs = append(errs, validator.ValidationError{Field: "date_of_joining", Message: "date_of_joining must be in YYYY-MM-DD format"})
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// UpdateRequest is the privileged update surface. Nil fields are untouched.
type UpdateRequest struct {
	ID string `json:"-"`

	FirstName   *string `json:"first_name"`
	LastName    *string `json:"last_name"`
	Role        *string `json:"role"`
	Phone       *string `json:"phone"`
	Avatar      *string `json:"avatar"`
	Department  *string `json:"department"`
	Designation *string `json:"designation"`

	DateOfBirth   *string `json:"date_of_birth"`
	DateOfJoining *string `json:"date_of_joining"`

	Address          *user.Address          `json:"address"`
	EmergencyContact *user.EmergencyContact `json:"emergency_contact"`
	BankDetails      *user.BankDetails      `json:"bank_details"`
	Salary           *SalaryInput           `json:"salary"`

	IsActive *bool `json:"is_active"`
}

func (r *UpdateRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.ID) {
		errs = append(errs, validator.ValidationError{Field: "id", Message: "id is required"})
	} else if !validator.IsValidUUID(r.ID) {
		errs = append(errs, validator.ValidationError{Field: "id", Message: "id must be a valid UUID"})
	}

	if r.Role != nil && !validator.IsInSlice(*r.Role, []string{"employee", "hr", "admin"}) {
		errs = append(errs, validator.ValidationError{Field: "role", Message: "role must be one of employee, hr, admin"})
	}

	if r.DateOfBirth != nil {
		if _, ok := validator.IsValidDate(*r.DateOfBirth); !ok {
			errs = append(errs, validator.ValidationError{Field: "date_of_birth", Message: "date_of_birth must be in YYYY-MM-DD format"})
		}
	}

	if r.DateOfJoining != nil {
		if _, ok := validator.IsValidDate(*r.DateOfJoining); !ok {
			errs = append(errs, validator.ValidationError{Field: "date_of_joining", Message: "date_of_joining must be in YYYY-MM-DD format"})
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// SelfUpdateRequest is the only surface a non-privileged user may write
// through. Fields outside this struct cannot be changed by the owner.
type SelfUpdateRequest struct {
	Phone            *string                `json:"phone"`
	Avatar           *string                `json:"avatar"`
	Address          *user.Address          `json:"address"`
	EmergencyContact *user.EmergencyContact `json:"emergency_contact"`
}

func (r *SelfUpdateRequest) Validate() error {
	return nil
}

type ListFilter struct {
	Search     *string
	Department *string
	Role       *string
	Page       int
	Limit      int
}

func (f *ListFilter) Validate() error {
	var errs validator.ValidationErrors

	if f.Role != nil && !validator.IsInSlice(*f.Role, []string{"employee", "hr", "admin"}) {
		errs = append(errs, validator.ValidationError{Field: "role", Message: "role must be one of employee, hr, admin"})
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

// Profile is the full employee projection for privileged reads and
// self-profile reads. Credentials and token digests are never included.
type Profile struct {
	ID          string  `json:"id"`
	EmployeeID  string  `json:"employee_id"`
	Email       string  `json:"email"`
	FirstName   string  `json:"first_name"`
	LastName    string  `json:"last_name"`
	Role        string  `json:"role"`
	Phone       *string `json:"phone,omitempty"`
	Avatar      *string `json:"avatar,omitempty"`
	Department  *string `json:"department,omitempty"`
	Designation *string `json:"designation,omitempty"`

	DateOfBirth   *string `json:"date_of_birth,omitempty"`
	DateOfJoining string  `json:"date_of_joining"`

	Address          user.Address          `json:"address"`
	EmergencyContact user.EmergencyContact `json:"emergency_contact"`
	BankDetails      user.BankDetails      `json:"bank_details"`
	Salary           *user.SalaryProfile   `json:"salary,omitempty"`
	Documents        user.Documents        `json:"documents"`

	EmailVerified bool   `json:"email_verified"`
	IsActive      bool   `json:"is_active"`
	CreatedAt     string `json:"created_at"`
}

// NewProfile projects a user. Salary and bank details are included only for
// privileged viewers or the owner.
func NewProfile(u *user.User, includeSensitive bool) Profile {
	p := Profile{
		ID:               u.ID,
		EmployeeID:       u.EmployeeID,
		Email:            u.Email,
		FirstName:        u.FirstName,
		LastName:         u.LastName,
		Role:             string(u.Role),
		Phone:            u.Phone,
		Avatar:           u.Avatar,
		Department:       u.Department,
		Designation:      u.Designation,
		DateOfJoining:    u.DateOfJoining.Format("2006-01-02"),
		Address:          u.Address,
		EmergencyContact: u.EmergencyContact,
		Documents:        u.Documents,
		EmailVerified:    u.EmailVerified,
		IsActive:         u.IsActive,
		CreatedAt:        u.CreatedAt.Format(time.RFC3339),
	}
	if u.DateOfBirth != nil {
		s := u.DateOfBirth.Format("2006-01-02")
		p.DateOfBirth = &s
	}
	if includeSensitive {
		p.BankDetails = u.BankDetails
		salary := u.Salary
		p.Salary = &salary
	}
	return p
}

type ListResponse struct {
	Employees  []Profile `json:"employees"`
	TotalCount int64     `json:"-"`
	Page       int       `json:"-"`
	Limit      int       `json:"-"`
}

type StatsResponse struct {
	Total        int64            `json:"total"`
	Active       int64            `json:"active"`
	Inactive     int64            `json:"inactive"`
	ByDepartment map[string]int64 `json:"by_department"`
	ByRole       map[string]int64 `json:"by_role"`
}
