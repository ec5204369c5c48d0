package memory

import (
	"context"
	"sort"
	"time"

	"github.com/dayflow-hrms/dayflow-backend-go/internal/domain/leave"
)

type leaveRepository struct {
	store *Store
}

func NewLeaveRepository(store *Store) leave.Repository {
	return &leaveRepository{store: store}
}

func (r *leaveRepository) withJoins(req leave.Request) leave.Request {
	if u, ok := r.store.users[req.UserID]; ok {
		name, employeeID, department := joinUserFields(u)
		req.EmployeeName = &name
		req.EmployeeID = &employeeID
		req.Department = department
	}
	if req.ApprovedBy != nil {
		if approver, ok := r.store.users[*req.ApprovedBy]; ok {
			name := approver.FullName()
			req.ApproverName = &name
		}
	}
	return req
}

func (r *leaveRepository) Create(ctx context.Context, req leave.Request) (leave.Request, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	req.ID = newID()
	req.CreatedAt = now()
	req.UpdatedAt = req.CreatedAt
	r.store.leaves[req.ID] = req

	return r.withJoins(req), nil
}

func (r *leaveRepository) GetByID(ctx context.Context, id string) (leave.Request, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	req, ok := r.store.leaves[id]
	if !ok {
		return leave.Request{}, leave.ErrLeaveNotFound
	}
	return r.withJoins(req), nil
}

func (r *leaveRepository) FindOverlapping(ctx context.Context, userID string, start, end time.Time) ([]leave.Request, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	var overlapping []leave.Request
	for _, req := range r.store.leaves {
		if req.UserID != userID || req.Status == leave.StatusRejected {
			continue
		}
		if leave.Overlaps(req.StartDate, req.EndDate, start, end) {
			overlapping = append(overlapping, r.withJoins(req))
		}
	}

	return overlapping, nil
}

func (r *leaveRepository) GetByUser(ctx context.Context, userID string, filter leave.MyFilter) ([]leave.Request, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	var requests []leave.Request
	for _, req := range r.store.leaves {
		if req.UserID != userID {
			continue
		}
		if filter.Status != nil && string(req.Status) != *filter.Status {
			continue
		}
		if filter.Year != 0 && req.StartDate.Year() != filter.Year {
			continue
		}
		requests = append(requests, r.withJoins(req))
	}
	sortedByCreatedDesc(requests, func(req leave.Request) time.Time { return req.CreatedAt })

	return requests, nil
}

func (r *leaveRepository) List(ctx context.Context, filter leave.ListFilter) ([]leave.Request, int64, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	var matched []leave.Request
	for _, req := range r.store.leaves {
		if filter.Status != nil && string(req.Status) != *filter.Status {
			continue
		}
		if filter.Type != nil && string(req.Type) != *filter.Type {
			continue
		}
		if filter.UserID != nil && req.UserID != *filter.UserID {
			continue
		}
		if filter.Department != nil {
			u, ok := r.store.users[req.UserID]
			if !ok || u.Department == nil || *u.Department != *filter.Department {
				continue
			}
		}
		matched = append(matched, r.withJoins(req))
	}

	sortedByCreatedDesc(matched, func(req leave.Request) time.Time { return req.CreatedAt })
	total := int64(len(matched))

	return paginate(matched, filter.Page, filter.Limit), total, nil
}

func (r *leaveRepository) Update(ctx context.Context, req leave.Request) (leave.Request, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	existing, ok := r.store.leaves[req.ID]
	if !ok {
		return leave.Request{}, leave.ErrLeaveNotFound
	}

	existing.Status = req.Status
	existing.ApprovedBy = req.ApprovedBy
	existing.ApproverComments = req.ApproverComments
	existing.ApprovedAt = req.ApprovedAt
	existing.UpdatedAt = now()
	r.store.leaves[req.ID] = existing

	return r.withJoins(existing), nil
}

func (r *leaveRepository) Delete(ctx context.Context, id string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, ok := r.store.leaves[id]; !ok {
		return leave.ErrLeaveNotFound
	}
	delete(r.store.leaves, id)

	return nil
}

func (r *leaveRepository) SumDaysByType(ctx context.Context, userID string, year int, status leave.Status) (map[leave.Type]int, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	sums := make(map[leave.Type]int)
	for _, req := range r.store.leaves {
		if req.UserID == userID && req.Status == status && req.StartDate.Year() == year {
			sums[req.Type] += req.TotalDays
		}
	}

	return sums, nil
}

func (r *leaveRepository) CountByStatus(ctx context.Context) (map[leave.Status]int64, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	counts := make(map[leave.Status]int64)
	for _, req := range r.store.leaves {
		counts[req.Status]++
	}

	return counts, nil
}

func (r *leaveRepository) CountApprovedByType(ctx context.Context) (map[leave.Type]int64, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	counts := make(map[leave.Type]int64)
	for _, req := range r.store.leaves {
		if req.Status == leave.StatusApproved {
			counts[req.Type]++
		}
	}

	return counts, nil
}

func (r *leaveRepository) CountByMonth(ctx context.Context, from time.Time) ([]leave.MonthCount, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	buckets := make(map[[2]int]int64)
	for _, req := range r.store.leaves {
		if req.StartDate.Before(from) {
			continue
		}
		key := [2]int{req.StartDate.Year(), int(req.StartDate.Month())}
		buckets[key]++
	}

	counts := make([]leave.MonthCount, 0, len(buckets))
	for key, count := range buckets {
		counts = append(counts, leave.MonthCount{Year: key[0], Month: key[1], Count: count})
	}
	sort.Slice(counts, func(i, j int) bool {
		if counts[i].Year != counts[j].Year {
			return counts[i].Year < counts[j].Year
		}
		return counts[i].Month < counts[j].Month
	})

	return counts, nil
}

func (r *leaveRepository) CountApprovedOnDate(ctx context.Context, date time.Time) (int64, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	var count int64
	for _, req := range r.store.leaves {
		if req.Status == leave.StatusApproved && !req.StartDate.After(date) && !req.EndDate.Before(date) {
			count++
		}
	}

	return count, nil
}
