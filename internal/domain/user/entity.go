package user

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

type Role string

const (
	RoleEmployee Role = "employee"
	RoleHR       Role = "hr"
	RoleAdmin    Role = "admin"
)

// IsPrivileged reports whether the role may act on other users' records.
func (r Role) IsPrivileged() bool {
	return r == RoleHR || r == RoleAdmin
}

// Address is stored as a JSONB column.
type Address struct {
	Street  string `json:"street,omitempty"`
	City    string `json:"city,omitempty"`
	State   string `json:"state,omitempty"`
	ZipCode string `json:"zip_code,omitempty"`
	Country string `json:"country,omitempty"`
}

// EmergencyContact is stored as a JSONB column.
type EmergencyContact struct {
	Name         string `json:"name,omitempty"`
	Relationship string `json:"relationship,omitempty"`
	Phone        string `json:"phone,omitempty"`
}

// BankDetails is stored as a JSONB column.
type BankDetails struct {
	BankName      string `json:"bank_name,omitempty"`
	AccountNumber string `json:"account_number,omitempty"`
	IFSCCode      string `json:"ifsc_code,omitempty"`
}

// SalaryProfile holds the monthly salary components payroll generation reads.
// All amounts are non-negative.
type SalaryProfile struct {
	Basic      decimal.Decimal `json:"basic"`
	HRA        decimal.Decimal `json:"hra"`
	Allowances decimal.Decimal `json:"allowances"`
	Deductions decimal.Decimal `json:"deductions"`
}

// Document is a reference to an externally stored file.
type Document struct {
	Name       string    `json:"name"`
	URL        string    `json:"url"`
	UploadedAt time.Time `json:"uploaded_at"`
}

type Documents []Document

// User entity. EmployeeID and Email are globally unique. PasswordHash and the
// token digests never leave the service layer.
type User struct {
	ID         string
	EmployeeID string
	Email      string

	PasswordHash *string

	FirstName   string
	LastName    string
	Role        Role
	Phone       *string
	Avatar      *string
	Department  *string
	Designation *string

	DateOfBirth   *time.Time
	DateOfJoining time.Time

	Address          Address
	EmergencyContact EmergencyContact
	BankDetails      BankDetails
	Salary           SalaryProfile
	Documents        Documents

	EmailVerified           bool
	EmailVerificationToken  *string
	EmailVerificationExpire *time.Time
	ResetPasswordToken      *string
	ResetPasswordExpire     *time.Time

	IsActive bool

	CreatedAt time.Time
	UpdatedAt time.Time
}

// FullName joins first and last name.
func (u User) FullName() string {
	return u.FirstName + " " + u.LastName
}

// Value implements driver.Valuer for database storage
func (a Address) Value() (driver.Value, error) {
	return json.Marshal(a)
}

// Scan implements sql.Scanner for database retrieval
func (a *Address) Scan(value interface{}) error {
	return scanJSON(value, a)
}

func (e EmergencyContact) Value() (driver.Value, error) {
	return json.Marshal(e)
}

func (e *EmergencyContact) Scan(value interface{}) error {
	return scanJSON(value, e)
}

func (b BankDetails) Value() (driver.Value, error) {
	return json.Marshal(b)
}

func (b *BankDetails) Scan(value interface{}) error {
	return scanJSON(value, b)
}

func (s SalaryProfile) Value() (driver.Value, error) {
	return json.Marshal(s)
}

func (s *SalaryProfile) Scan(value interface{}) error {
	return scanJSON(value, s)
}

func (d Documents) Value() (driver.Value, error) {
	if d == nil {
		return json.Marshal(Documents{})
	}
	return json.Marshal(d)
}

func (d *Documents) Scan(value interface{}) error {
	return scanJSON(value, d)
}

func scanJSON(value interface{}, dst interface{}) error {
	if value == nil {
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, dst)
	case string:
		return json.Unmarshal([]byte(v), dst)
	default:
		return errors.New("failed to scan JSONB column: invalid type")
	}
}
