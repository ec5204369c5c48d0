package employee

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/dayflow-hrms/dayflow-backend-go/internal/domain/auth"
	"github.com/dayflow-hrms/dayflow-backend-go/internal/domain/employee"
	"github.com/dayflow-hrms/dayflow-backend-go/internal/domain/notification"
	"github.com/dayflow-hrms/dayflow-backend-go/internal/domain/user"
)

type EmployeeServiceImpl struct {
	user.Repository
	notifier notification.Service
}

func NewEmployeeService(userRepository user.Repository, notifier notification.Service) employee.Service {
	return &EmployeeServiceImpl{
		Repository: userRepository,
		notifier:   notifier,
	}
}

// Create implements employee.Service.
func (s *EmployeeServiceImpl) Create(ctx context.Context, req employee.CreateRequest) (employee.Profile, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return employee.Profile{}, fmt.Errorf("failed to hash password: %w", err)
	}
	passwordHash := string(hash)

	role := user.RoleEmployee
	if req.Role != "" {
		role = user.Role(req.Role)
	}

	newUser := user.User{
		EmployeeID:    req.EmployeeID,
		Email:         req.Email,
		PasswordHash:  &passwordHash,
		FirstName:     req.FirstName,
		LastName:      req.LastName,
		Role:          role,
		Phone:         req.Phone,
		Department:    req.Department,
		Designation:   req.Designation,
		DateOfJoining: time.Now().UTC(),
		IsActive:      true,
	}

	if req.DateOfBirth != nil {
		dob, err := time.Parse("2006-01-02", *req.DateOfBirth)
		if err != nil {
			return employee.Profile{}, fmt.Errorf("failed to parse date of birth: %w", err)
		}
		newUser.DateOfBirth = &dob
	}
	if req.DateOfJoining != nil {
		doj, err := time.Parse("2006-01-02", *req.DateOfJoining)
		if err != nil {
			return employee.Profile{}, fmt.Errorf("failed to parse date of joining: %w", err)
		}
		newUser.DateOfJoining = doj
	}
	if req.Address != nil {
		newUser.Address = *req.Address
	}
	if req.EmergencyContact != nil {
		newUser.EmergencyContact = *req.EmergencyContact
	}
	if req.BankDetails != nil {
		newUser.BankDetails = *req.BankDetails
	}
	if req.Salary != nil {
		newUser.Salary = req.Salary.ToProfile()
	}

	created, err := s.Repository.Create(ctx, newUser)
	if err != nil {
		return employee.Profile{}, err
	}

	s.notifier.Notify(ctx, created.ID, "Welcome to Dayflow",
		"Your employee account has been created.", notification.TypeInfo, nil)

	return employee.NewProfile(&created, true), nil
}

// List implements employee.Service.
func (s *EmployeeServiceImpl) List(ctx context.Context, filter employee.ListFilter) (employee.ListResponse, error) {
	users, total, err := s.Repository.List(ctx, user.Filter{
		Search:     filter.Search,
		Department: filter.Department,
		Role:       filter.Role,
		Page:       filter.Page,
		Limit:      filter.Limit,
	})
	if err != nil {
		return employee.ListResponse{}, fmt.Errorf("failed to list employees: %w", err)
	}

	profiles := make([]employee.Profile, 0, len(users))
	for i := range users {
		profiles = append(profiles, employee.NewProfile(&users[i], true))
	}

	return employee.ListResponse{
		Employees:  profiles,
		TotalCount: total,
		Page:       filter.Page,
		Limit:      filter.Limit,
	}, nil
}

// GetByID implements employee.Service. Only privileged roles and the profile
// owner may read a profile.
func (s *EmployeeServiceImpl) GetByID(ctx context.Context, identity auth.Identity, id string) (employee.Profile, error) {
	if !identity.Role.IsPrivileged() && identity.UserID != id {
		return employee.Profile{}, employee.ErrNotAuthorized
	}

	userData, err := s.Repository.GetByID(ctx, id)
	if err != nil {
		return employee.Profile{}, err
	}

	return employee.NewProfile(&userData, true), nil
}

// Update implements employee.Service.
func (s *EmployeeServiceImpl) Update(ctx context.Context, req employee.UpdateRequest) (employee.Profile, error) {
	userData, err := s.Repository.GetByID(ctx, req.ID)
	if err != nil {
		return employee.Profile{}, err
	}

	if req.FirstName != nil {
		userData.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		userData.LastName = *req.LastName
	}
	if req.Role != nil {
		userData.Role = user.Role(*req.Role)
	}
	if req.Phone != nil {
		userData.Phone = req.Phone
	}
	if req.Avatar != nil {
		userData.Avatar = req.Avatar
	}
	if req.Department != nil {
		userData.Department = req.Department
	}
	if req.Designation != nil {
		userData.Designation = req.Designation
	}
	if req.DateOfBirth != nil {
		dob, err := time.Parse("2006-01-02", *req.DateOfBirth)
		if err != nil {
			return employee.Profile{}, fmt.Errorf("failed to parse date of birth: %w", err)
		}
		userData.DateOfBirth = &dob
	}
	if req.DateOfJoining != nil {
		doj, err := time.Parse("2006-01-02", *req.DateOfJoining)
		if err != nil {
			return employee.Profile{}, fmt.Errorf("failed to parse date of joining: %w", err)
		}
		userData.DateOfJoining = doj
	}
	if req.Address != nil {
		userData.Address = *req.Address
	}
	if req.EmergencyContact != nil {
		userData.EmergencyContact = *req.EmergencyContact
	}
	if req.BankDetails != nil {
		userData.BankDetails = *req.BankDetails
	}
	if req.Salary != nil {
		userData.Salary = req.Salary.ToProfile()
	}
	if req.IsActive != nil {
		userData.IsActive = *req.IsActive
	}

	updated, err := s.Repository.Update(ctx, userData)
	if err != nil {
		return employee.Profile{}, err
	}

	return employee.NewProfile(&updated, true), nil
}

// UpdateSelf implements employee.Service. Only the fields present on
// SelfUpdateRequest can be written through here.
func (s *EmployeeServiceImpl) UpdateSelf(ctx context.Context, identity auth.Identity, req employee.SelfUpdateRequest) (employee.Profile, error) {
	userData, err := s.Repository.GetByID(ctx, identity.UserID)
	if err != nil {
		return employee.Profile{}, err
	}

	if req.Phone != nil {
		userData.Phone = req.Phone
	}
	if req.Avatar != nil {
		userData.Avatar = req.Avatar
	}
	if req.Address != nil {
		userData.Address = *req.Address
	}
	if req.EmergencyContact != nil {
		userData.EmergencyContact = *req.EmergencyContact
	}

	updated, err := s.Repository.Update(ctx, userData)
	if err != nil {
		return employee.Profile{}, err
	}

	return employee.NewProfile(&updated, true), nil
}

// Delete implements employee.Service.
func (s *EmployeeServiceImpl) Delete(ctx context.Context, id string) error {
	if err := s.Repository.Delete(ctx, id); err != nil {
		return err
	}
	slog.Info("Deleted employee", "user_id", id)
	return nil
}

// Stats implements employee.Service.
func (s *EmployeeServiceImpl) Stats(ctx context.Context) (employee.StatsResponse, error) {
	stats, err := s.Repository.Stats(ctx)
	if err != nil {
		return employee.StatsResponse{}, fmt.Errorf("failed to load employee stats: %w", err)
	}

	resp := employee.StatsResponse{
		Total:        stats.TotalEmployees,
		Active:       stats.ActiveEmployees,
		Inactive:     stats.InactiveEmployees,
		ByDepartment: make(map[string]int64, len(stats.ByDepartment)),
		ByRole:       make(map[string]int64, len(stats.ByRole)),
	}
	for _, dc := range stats.ByDepartment {
		resp.ByDepartment[dc.Department] = dc.Count
	}
	for _, rc := range stats.ByRole {
		resp.ByRole[rc.Role] = rc.Count
	}

	return resp, nil
}
