// Package memory implements the repository interfaces on top of plain maps.
// It backs the standalone demo mode and the service test suites, with the
// same uniqueness and not-found semantics as the postgresql driver.
package memory

import (
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dayflow-hrms/dayflow-backend-go/internal/domain/attendance"
	"github.com/dayflow-hrms/dayflow-backend-go/internal/domain/leave"
	"github.com/dayflow-hrms/dayflow-backend-go/internal/domain/notification"
	"github.com/dayflow-hrms/dayflow-backend-go/internal/domain/payroll"
	"github.com/dayflow-hrms/dayflow-backend-go/internal/domain/user"
)

type Store struct {
	mu sync.RWMutex

	users         map[string]user.User
	attendances   map[string]attendance.Record
	leaves        map[string]leave.Request
	payrolls      map[string]payroll.Record
	notifications map[string]notification.Notification
}

func NewStore() *Store {
	return &Store{
		users:         make(map[string]user.User),
		attendances:   make(map[string]attendance.Record),
		leaves:        make(map[string]leave.Request),
		payrolls:      make(map[string]payroll.Record),
		notifications: make(map[string]notification.Notification),
	}
}

func newID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}

func now() time.Time {
	return time.Now().UTC()
}

// joinUserFields copies the employee columns a SQL driver would join in.
func joinUserFields(u user.User) (name, employeeID string, department *string) {
	return u.FullName(), u.EmployeeID, u.Department
}

// sortedByCreatedDesc returns ids ordered newest first by the given timestamps.
func sortedByCreatedDesc[T any](items []T, createdAt func(T) time.Time) {
	sort.SliceStable(items, func(i, j int) bool {
		return createdAt(items[i]).After(createdAt(items[j]))
	})
}

func paginate[T any](items []T, page, limit int) []T {
	start := (page - 1) * limit
	if start >= len(items) {
		return nil
	}
	end := start + limit
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}
