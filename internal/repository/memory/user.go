package memory

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/dayflow-hrms/dayflow-backend-go/internal/domain/user"
)

type userRepository struct {
	store *Store
}

func NewUserRepository(store *Store) user.Repository {
	return &userRepository{store: store}
}

func (r *userRepository) Create(ctx context.Context, u user.User) (user.User, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for _, existing := range r.store.users {
		if strings.EqualFold(existing.Email, u.Email) {
			return user.User{}, user.ErrEmailExists
		}
		if existing.EmployeeID == u.EmployeeID {
			return user.User{}, user.ErrEmployeeIDExists
		}
	}

	u.ID = newID()
	u.CreatedAt = now()
	u.UpdatedAt = u.CreatedAt
	r.store.users[u.ID] = u

	return u, nil
}

func (r *userRepository) GetByID(ctx context.Context, id string) (user.User, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	u, ok := r.store.users[id]
	if !ok {
		return user.User{}, user.ErrUserNotFound
	}
	return u, nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (user.User, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	for _, u := range r.store.users {
		if strings.EqualFold(u.Email, email) {
			return u, nil
		}
	}
	return user.User{}, user.ErrUserNotFound
}

func (r *userRepository) GetByEmployeeID(ctx context.Context, employeeID string) (user.User, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	for _, u := range r.store.users {
		if u.EmployeeID == employeeID {
			return u, nil
		}
	}
	return user.User{}, user.ErrUserNotFound
}

func (r *userRepository) GetByVerificationToken(ctx context.Context, tokenHash string) (user.User, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	for _, u := range r.store.users {
		if u.EmailVerificationToken != nil && *u.EmailVerificationToken == tokenHash &&
			u.EmailVerificationExpire != nil && u.EmailVerificationExpire.After(now()) {
			return u, nil
		}
	}
	return user.User{}, user.ErrUserNotFound
}

func (r *userRepository) GetByResetToken(ctx context.Context, tokenHash string) (user.User, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	for _, u := range r.store.users {
		if u.ResetPasswordToken != nil && *u.ResetPasswordToken == tokenHash &&
			u.ResetPasswordExpire != nil && u.ResetPasswordExpire.After(now()) {
			return u, nil
		}
	}
	return user.User{}, user.ErrUserNotFound
}

func (r *userRepository) List(ctx context.Context, filter user.Filter) ([]user.User, int64, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	var matched []user.User
	for _, u := range r.store.users {
		if filter.Search != nil && *filter.Search != "" {
			needle := strings.ToLower(*filter.Search)
			haystack := strings.ToLower(u.FirstName + " " + u.LastName + " " + u.Email + " " + u.EmployeeID)
			if !strings.Contains(haystack, needle) {
				continue
			}
		}
		if filter.Department != nil && *filter.Department != "" {
			if u.Department == nil || *u.Department != *filter.Department {
				continue
			}
		}
		if filter.Role != nil && *filter.Role != "" && string(u.Role) != *filter.Role {
			continue
		}
		matched = append(matched, u)
	}

	sortedByCreatedDesc(matched, func(u user.User) time.Time { return u.CreatedAt })
	total := int64(len(matched))

	return paginate(matched, filter.Page, filter.Limit), total, nil
}

func (r *userRepository) ListActive(ctx context.Context) ([]user.User, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	var active []user.User
	for _, u := range r.store.users {
		if u.IsActive {
			active = append(active, u)
		}
	}
	sort.Slice(active, func(i, j int) bool { return active[i].EmployeeID < active[j].EmployeeID })

	return active, nil
}

func (r *userRepository) Update(ctx context.Context, u user.User) (user.User, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, ok := r.store.users[u.ID]; !ok {
		return user.User{}, user.ErrUserNotFound
	}
	for id, existing := range r.store.users {
		if id == u.ID {
			continue
		}
		if strings.EqualFold(existing.Email, u.Email) {
			return user.User{}, user.ErrEmailExists
		}
	}

	u.UpdatedAt = now()
	r.store.users[u.ID] = u

	return u, nil
}

func (r *userRepository) Delete(ctx context.Context, id string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, ok := r.store.users[id]; !ok {
		return user.ErrUserNotFound
	}
	delete(r.store.users, id)

	// Dependent rows go with the user, matching the postgresql driver.
	for recID, rec := range r.store.attendances {
		if rec.UserID == id {
			delete(r.store.attendances, recID)
		}
	}
	for reqID, req := range r.store.leaves {
		if req.UserID == id {
			delete(r.store.leaves, reqID)
			continue
		}
		if req.ApprovedBy != nil && *req.ApprovedBy == id {
			req.ApprovedBy = nil
			r.store.leaves[reqID] = req
		}
	}
	for recID, rec := range r.store.payrolls {
		if rec.UserID == id {
			delete(r.store.payrolls, recID)
		}
	}
	for nID, n := range r.store.notifications {
		if n.UserID == id {
			delete(r.store.notifications, nID)
		}
	}

	return nil
}

func (r *userRepository) CountActive(ctx context.Context) (int64, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	var count int64
	for _, u := range r.store.users {
		if u.IsActive {
			count++
		}
	}
	return count, nil
}

func (r *userRepository) Stats(ctx context.Context) (user.Stats, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	var stats user.Stats
	byDept := make(map[string]int64)
	byRole := make(map[string]int64)

	for _, u := range r.store.users {
		stats.TotalEmployees++
		if u.IsActive {
			stats.ActiveEmployees++
			dept := "Unassigned"
			if u.Department != nil && *u.Department != "" {
				dept = *u.Department
			}
			byDept[dept]++
			byRole[string(u.Role)]++
		} else {
			stats.InactiveEmployees++
		}
	}

	for dept, count := range byDept {
		stats.ByDepartment = append(stats.ByDepartment, user.DepartmentCount{Department: dept, Count: count})
	}
	sort.Slice(stats.ByDepartment, func(i, j int) bool {
		return stats.ByDepartment[i].Count > stats.ByDepartment[j].Count
	})
	for role, count := range byRole {
		stats.ByRole = append(stats.ByRole, user.RoleCount{Role: role, Count: count})
	}

	return stats, nil
}
