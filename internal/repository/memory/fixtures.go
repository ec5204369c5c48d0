package memory

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"

	"github.com/dayflow-hrms/dayflow-backend-go/internal/domain/user"
)

// Seed loads the demo accounts used when the service runs without a
// database. Safe to call once on an empty store.
func (s *Store) Seed() error {
	type account struct {
		employeeID  string
		email       string
		password    string
		firstName   string
		lastName    string
		role        user.Role
		department  string
		designation string
		basic       int64
	}

	accounts := []account{
		{"EMP-0001", "admin@demo.com", "admin123", "Ava", "Sharma", user.RoleAdmin, "Operations", "Head of Operations", 90000},
		{"EMP-0002", "hr@demo.com", "hr123", "Rohan", "Mehta", user.RoleHR, "Human Resources", "HR Manager", 70000},
		{"EMP-0003", "employee@demo.com", "emp123", "Priya", "Nair", user.RoleEmployee, "Engineering", "Software Engineer", 60000},
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, acc := range accounts {
		hash, err := bcrypt.GenerateFromPassword([]byte(acc.password), bcrypt.DefaultCost)
		if err != nil {
			return fmt.Errorf("seed demo account %s: %w", acc.email, err)
		}
		passwordHash := string(hash)
		department := acc.department
		designation := acc.designation
		basic := decimal.NewFromInt(acc.basic)

		u := user.User{
			ID:            newID(),
			EmployeeID:    acc.employeeID,
			Email:         acc.email,
			PasswordHash:  &passwordHash,
			FirstName:     acc.firstName,
			LastName:      acc.lastName,
			Role:          acc.role,
			Department:    &department,
			Designation:   &designation,
			DateOfJoining: time.Date(2022, time.January, 10, 0, 0, 0, 0, time.UTC),
			Salary: user.SalaryProfile{
				Basic:      basic,
				HRA:        basic.Mul(decimal.NewFromFloat(0.4)).Round(2),
				Allowances: basic.Mul(decimal.NewFromFloat(0.1)).Round(2),
				Deductions: decimal.NewFromInt(500),
			},
			EmailVerified: true,
			IsActive:      true,
			CreatedAt:     now(),
			UpdatedAt:     now(),
		}
		s.users[u.ID] = u
	}

	return nil
}
