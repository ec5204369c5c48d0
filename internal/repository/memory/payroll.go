package memory

import (
	"context"
	"sort"

	"github.com/dayflow-hrms/dayflow-backend-go/internal/domain/payroll"
)

type payrollRepository struct {
	store *Store
}

func NewPayrollRepository(store *Store) payroll.Repository {
	return &payrollRepository{store: store}
}

func (r *payrollRepository) withJoins(rec payroll.Record) payroll.Record {
	if u, ok := r.store.users[rec.UserID]; ok {
		name, employeeID, department := joinUserFields(u)
		rec.EmployeeName = &name
		rec.EmployeeID = &employeeID
		rec.Department = department
	}
	return rec
}

func sortByPeriodDesc(records []payroll.Record) {
	sort.Slice(records, func(i, j int) bool {
		if records[i].Year != records[j].Year {
			return records[i].Year > records[j].Year
		}
		return records[i].Month > records[j].Month
	})
}

func (r *payrollRepository) Create(ctx context.Context, rec payroll.Record) (payroll.Record, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for _, existing := range r.store.payrolls {
		if existing.UserID == rec.UserID && existing.Month == rec.Month && existing.Year == rec.Year {
			return payroll.Record{}, payroll.ErrDuplicateRecord
		}
	}

	rec.ID = newID()
	rec.CreatedAt = now()
	rec.UpdatedAt = rec.CreatedAt
	r.store.payrolls[rec.ID] = rec

	return r.withJoins(rec), nil
}

func (r *payrollRepository) GetByID(ctx context.Context, id string) (payroll.Record, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	rec, ok := r.store.payrolls[id]
	if !ok {
		return payroll.Record{}, payroll.ErrRecordNotFound
	}
	return r.withJoins(rec), nil
}

func (r *payrollRepository) GetByUserAndPeriod(ctx context.Context, userID string, month, year int) (payroll.Record, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	for _, rec := range r.store.payrolls {
		if rec.UserID == userID && rec.Month == month && rec.Year == year {
			return r.withJoins(rec), nil
		}
	}
	return payroll.Record{}, payroll.ErrRecordNotFound
}

func (r *payrollRepository) GetByUser(ctx context.Context, userID string, year int) ([]payroll.Record, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	var records []payroll.Record
	for _, rec := range r.store.payrolls {
		if rec.UserID != userID {
			continue
		}
		if year != 0 && rec.Year != year {
			continue
		}
		records = append(records, r.withJoins(rec))
	}
	sortByPeriodDesc(records)

	return records, nil
}

func (r *payrollRepository) List(ctx context.Context, filter payroll.ListFilter) ([]payroll.Record, int64, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	var matched []payroll.Record
	for _, rec := range r.store.payrolls {
		if filter.Month != 0 && rec.Month != filter.Month {
			continue
		}
		if filter.Year != 0 && rec.Year != filter.Year {
			continue
		}
		if filter.Status != nil && string(rec.Status) != *filter.Status {
			continue
		}
		if filter.UserID != nil && rec.UserID != *filter.UserID {
			continue
		}
		matched = append(matched, r.withJoins(rec))
	}

	sortByPeriodDesc(matched)
	total := int64(len(matched))

	return paginate(matched, filter.Page, filter.Limit), total, nil
}

func (r *payrollRepository) Update(ctx context.Context, rec payroll.Record) (payroll.Record, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	existing, ok := r.store.payrolls[rec.ID]
	if !ok {
		return payroll.Record{}, payroll.ErrRecordNotFound
	}

	existing.BasicSalary = rec.BasicSalary
	existing.HRA = rec.HRA
	existing.Allowances = rec.Allowances
	existing.Overtime = rec.Overtime
	existing.Bonus = rec.Bonus
	existing.PFDeduction = rec.PFDeduction
	existing.TaxDeduction = rec.TaxDeduction
	existing.OtherDeductions = rec.OtherDeductions
	existing.GrossSalary = rec.GrossSalary
	existing.TotalDeductions = rec.TotalDeductions
	existing.NetSalary = rec.NetSalary
	existing.Status = rec.Status
	existing.PaidAt = rec.PaidAt
	existing.Remarks = rec.Remarks
	existing.UpdatedAt = now()
	r.store.payrolls[rec.ID] = existing

	return r.withJoins(existing), nil
}

func (r *payrollRepository) Delete(ctx context.Context, id string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, ok := r.store.payrolls[id]; !ok {
		return payroll.ErrRecordNotFound
	}
	delete(r.store.payrolls, id)

	return nil
}

func (r *payrollRepository) AggregateMonthly(ctx context.Context, year int) ([]payroll.MonthAggregate, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	byMonth := make(map[int]payroll.MonthAggregate)
	for _, rec := range r.store.payrolls {
		if rec.Year != year {
			continue
		}
		agg := byMonth[rec.Month]
		agg.Month = rec.Month
		agg.Records++
		agg.TotalEarnings = agg.TotalEarnings.Add(rec.GrossSalary)
		agg.TotalDeductions = agg.TotalDeductions.Add(rec.TotalDeductions)
		agg.TotalNet = agg.TotalNet.Add(rec.NetSalary)
		byMonth[rec.Month] = agg
	}

	aggs := make([]payroll.MonthAggregate, 0, len(byMonth))
	for _, agg := range byMonth {
		aggs = append(aggs, agg)
	}
	sort.Slice(aggs, func(i, j int) bool { return aggs[i].Month < aggs[j].Month })

	return aggs, nil
}

func (r *payrollRepository) AggregateByStatus(ctx context.Context, year int) (map[payroll.Status]payroll.StatusAggregate, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	byStatus := make(map[payroll.Status]payroll.StatusAggregate)
	for _, rec := range r.store.payrolls {
		if rec.Year != year {
			continue
		}
		agg := byStatus[rec.Status]
		agg.Count++
		agg.TotalNet = agg.TotalNet.Add(rec.NetSalary)
		byStatus[rec.Status] = agg
	}

	return byStatus, nil
}
