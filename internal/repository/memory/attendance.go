package memory

import (
	"context"
	"sort"
	"time"

	"github.com/dayflow-hrms/dayflow-backend-go/internal/domain/attendance"
)

type attendanceRepository struct {
	store *Store
}

func NewAttendanceRepository(store *Store) attendance.Repository {
	return &attendanceRepository{store: store}
}

func (r *attendanceRepository) withJoins(rec attendance.Record) attendance.Record {
	if u, ok := r.store.users[rec.UserID]; ok {
		name, employeeID, department := joinUserFields(u)
		rec.EmployeeName = &name
		rec.EmployeeID = &employeeID
		rec.Department = department
	}
	return rec
}

func (r *attendanceRepository) Create(ctx context.Context, rec attendance.Record) (attendance.Record, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for _, existing := range r.store.attendances {
		if existing.UserID == rec.UserID && existing.Date.Equal(rec.Date) {
			return attendance.Record{}, attendance.ErrDuplicateRecord
		}
	}

	rec.ID = newID()
	rec.CreatedAt = now()
	rec.UpdatedAt = rec.CreatedAt
	r.store.attendances[rec.ID] = rec

	return r.withJoins(rec), nil
}

func (r *attendanceRepository) GetByID(ctx context.Context, id string) (attendance.Record, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	rec, ok := r.store.attendances[id]
	if !ok {
		return attendance.Record{}, attendance.ErrRecordNotFound
	}
	return r.withJoins(rec), nil
}

func (r *attendanceRepository) GetByUserAndDate(ctx context.Context, userID string, date time.Time) (attendance.Record, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	for _, rec := range r.store.attendances {
		if rec.UserID == userID && rec.Date.Equal(date) {
			return r.withJoins(rec), nil
		}
	}
	return attendance.Record{}, attendance.ErrRecordNotFound
}

func (r *attendanceRepository) GetByUserAndRange(ctx context.Context, userID string, from, to time.Time) ([]attendance.Record, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	var records []attendance.Record
	for _, rec := range r.store.attendances {
		if rec.UserID == userID && !rec.Date.Before(from) && !rec.Date.After(to) {
			records = append(records, r.withJoins(rec))
		}
	}
	sort.Slice(records, func(i, j int) bool { return records[i].Date.Before(records[j].Date) })

	return records, nil
}

func (r *attendanceRepository) List(ctx context.Context, filter attendance.ListFilter) ([]attendance.Record, int64, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	var matched []attendance.Record
	for _, rec := range r.store.attendances {
		if filter.Date != nil && *filter.Date != "" && rec.Date.Format("2006-01-02") != *filter.Date {
			continue
		}
		if filter.UserID != nil && *filter.UserID != "" && rec.UserID != *filter.UserID {
			continue
		}
		matched = append(matched, r.withJoins(rec))
	}

	sort.Slice(matched, func(i, j int) bool {
		if !matched[i].Date.Equal(matched[j].Date) {
			return matched[i].Date.After(matched[j].Date)
		}
		return matched[i].CreatedAt.Before(matched[j].CreatedAt)
	})
	total := int64(len(matched))

	return paginate(matched, filter.Page, filter.Limit), total, nil
}

func (r *attendanceRepository) Update(ctx context.Context, rec attendance.Record) (attendance.Record, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	existing, ok := r.store.attendances[rec.ID]
	if !ok {
		return attendance.Record{}, attendance.ErrRecordNotFound
	}

	existing.CheckIn = rec.CheckIn
	existing.CheckOut = rec.CheckOut
	existing.Status = rec.Status
	existing.WorkHours = rec.WorkHours
	existing.Notes = rec.Notes
	existing.UpdatedAt = now()
	r.store.attendances[rec.ID] = existing

	return r.withJoins(existing), nil
}

func (r *attendanceRepository) CountByStatusOnDate(ctx context.Context, date time.Time) ([]attendance.StatusCount, error) {
	return r.countByStatus(func(rec attendance.Record) bool {
		return rec.Date.Equal(date)
	})
}

func (r *attendanceRepository) CountByStatusInRange(ctx context.Context, from, to time.Time) ([]attendance.StatusCount, error) {
	return r.countByStatus(func(rec attendance.Record) bool {
		return !rec.Date.Before(from) && !rec.Date.After(to)
	})
}

func (r *attendanceRepository) countByStatus(match func(attendance.Record) bool) ([]attendance.StatusCount, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	byStatus := make(map[string]int64)
	for _, rec := range r.store.attendances {
		if match(rec) {
			byStatus[string(rec.Status)]++
		}
	}

	var counts []attendance.StatusCount
	for status, count := range byStatus {
		counts = append(counts, attendance.StatusCount{Status: status, Count: count})
	}
	sort.Slice(counts, func(i, j int) bool { return counts[i].Status < counts[j].Status })

	return counts, nil
}
