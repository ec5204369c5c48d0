package postgresql

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/dayflow-hrms/dayflow-backend-go/internal/domain/payroll"
	"github.com/dayflow-hrms/dayflow-backend-go/internal/pkg/database"
)

type payrollRepositoryImpl struct {
	db *database.DB
}

func NewPayrollRepository(db *database.DB) payroll.Repository {
	return &payrollRepositoryImpl{db: db}
}

const payrollColumns = `
	p.id, p.user_id, p.month, p.year,
	p.basic_salary, p.hra, p.allowances, p.overtime, p.bonus,
	p.pf_deduction, p.tax_deduction, p.other_deductions,
	p.gross_salary, p.total_deductions, p.net_salary,
	p.status, p.paid_at, p.remarks, p.created_at, p.updated_at,
	u.first_name || ' ' || u.last_name AS employee_name,
	u.employee_id, u.department`

func scanPayroll(row pgx.Row) (payroll.Record, error) {
	var rec payroll.Record
	err := row.Scan(
		&rec.ID, &rec.UserID, &rec.Month, &rec.Year,
		&rec.BasicSalary, &rec.HRA, &rec.Allowances, &rec.Overtime, &rec.Bonus,
		&rec.PFDeduction, &rec.TaxDeduction, &rec.OtherDeductions,
		&rec.GrossSalary, &rec.TotalDeductions, &rec.NetSalary,
		&rec.Status, &rec.PaidAt, &rec.Remarks, &rec.CreatedAt, &rec.UpdatedAt,
		&rec.EmployeeName, &rec.EmployeeID, &rec.Department,
	)
	return rec, err
}

// Create implements payroll.Repository.
func (r *payrollRepositoryImpl) Create(ctx context.Context, rec payroll.Record) (payroll.Record, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO payroll_records (
			id, user_id, month, year,
			basic_salary, hra, allowances, overtime, bonus,
			pf_deduction, tax_deduction, other_deductions,
			gross_salary, total_deductions, net_salary, status
		)
		VALUES (uuidv7(), $1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		RETURNING id, created_at, updated_at`

	err := q.QueryRow(ctx, query,
		rec.UserID,
		rec.Month,
		rec.Year,
		rec.BasicSalary,
		rec.HRA,
		rec.Allowances,
		rec.Overtime,
		rec.Bonus,
		rec.PFDeduction,
		rec.TaxDeduction,
		rec.OtherDeductions,
		rec.GrossSalary,
		rec.TotalDeductions,
		rec.NetSalary,
		rec.Status,
	).Scan(&rec.ID, &rec.CreatedAt, &rec.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return payroll.Record{}, payroll.ErrDuplicateRecord
		}
		return payroll.Record{}, fmt.Errorf("failed to create payroll record: %w", err)
	}

	return rec, nil
}

// GetByID implements payroll.Repository.
func (r *payrollRepositoryImpl) GetByID(ctx context.Context, id string) (payroll.Record, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + payrollColumns + `
		FROM payroll_records p
		JOIN users u ON p.user_id = u.id
		WHERE p.id = $1`

	rec, err := scanPayroll(q.QueryRow(ctx, query, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return payroll.Record{}, payroll.ErrRecordNotFound
		}
		return payroll.Record{}, fmt.Errorf("failed to get payroll record: %w", err)
	}

	return rec, nil
}

// GetByUserAndPeriod implements payroll.Repository.
func (r *payrollRepositoryImpl) GetByUserAndPeriod(ctx context.Context, userID string, month, year int) (payroll.Record, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + payrollColumns + `
		FROM payroll_records p
		JOIN users u ON p.user_id = u.id
		WHERE p.user_id = $1 AND p.month = $2 AND p.year = $3`

	rec, err := scanPayroll(q.QueryRow(ctx, query, userID, month, year))
	if err != nil {
		if err == pgx.ErrNoRows {
			return payroll.Record{}, payroll.ErrRecordNotFound
		}
		return payroll.Record{}, fmt.Errorf("failed to get payroll record: %w", err)
	}

	return rec, nil
}

// GetByUser implements payroll.Repository.
func (r *payrollRepositoryImpl) GetByUser(ctx context.Context, userID string, year int) ([]payroll.Record, error) {
	q := GetQuerier(ctx, r.db)

	conditions := []string{"p.user_id = $1"}
	args := []interface{}{userID}
	if year != 0 {
		conditions = append(conditions, "p.year = $2")
		args = append(args, year)
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM payroll_records p
		JOIN users u ON p.user_id = u.id
		WHERE %s
		ORDER BY p.year DESC, p.month DESC
	`, payrollColumns, strings.Join(conditions, " AND "))

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list payroll records: %w", err)
	}
	defer rows.Close()

	var records []payroll.Record
	for rows.Next() {
		rec, err := scanPayroll(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan payroll record: %w", err)
		}
		records = append(records, rec)
	}

	return records, rows.Err()
}

// List implements payroll.Repository.
func (r *payrollRepositoryImpl) List(ctx context.Context, filter payroll.ListFilter) ([]payroll.Record, int64, error) {
	q := GetQuerier(ctx, r.db)

	conditions := []string{"1=1"}
	args := []interface{}{}
	argIdx := 1

	if filter.Month != 0 {
		conditions = append(conditions, fmt.Sprintf("p.month = $%d", argIdx))
		args = append(args, filter.Month)
		argIdx++
	}
	if filter.Year != 0 {
		conditions = append(conditions, fmt.Sprintf("p.year = $%d", argIdx))
		args = append(args, filter.Year)
		argIdx++
	}
	if filter.Status != nil {
		conditions = append(conditions, fmt.Sprintf("p.status = $%d", argIdx))
		args = append(args, *filter.Status)
		argIdx++
	}
	if filter.UserID != nil {
		conditions = append(conditions, fmt.Sprintf("p.user_id = $%d", argIdx))
		args = append(args, *filter.UserID)
		argIdx++
	}

	whereClause := strings.Join(conditions, " AND ")

	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM payroll_records p WHERE %s", whereClause)
	var total int64
	if err := q.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count payroll records: %w", err)
	}

	offset := (filter.Page - 1) * filter.Limit
	query := fmt.Sprintf(`
		SELECT %s
		FROM payroll_records p
		JOIN users u ON p.user_id = u.id
		WHERE %s
		ORDER BY p.year DESC, p.month DESC, u.employee_id
		LIMIT $%d OFFSET $%d
	`, payrollColumns, whereClause, argIdx, argIdx+1)
	args = append(args, filter.Limit, offset)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list payroll records: %w", err)
	}
	defer rows.Close()

	var records []payroll.Record
	for rows.Next() {
		rec, err := scanPayroll(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan payroll record: %w", err)
		}
		records = append(records, rec)
	}

	return records, total, rows.Err()
}

// Update implements payroll.Repository.
func (r *payrollRepositoryImpl) Update(ctx context.Context, rec payroll.Record) (payroll.Record, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE payroll_records
		SET basic_salary = $1, hra = $2, allowances = $3,
			overtime = $4, bonus = $5,
			pf_deduction = $6, tax_deduction = $7, other_deductions = $8,
			gross_salary = $9, total_deductions = $10, net_salary = $11,
			status = $12, paid_at = $13, remarks = $14, updated_at = NOW()
		WHERE id = $15
		RETURNING updated_at`

	err := q.QueryRow(ctx, query,
		rec.BasicSalary,
		rec.HRA,
		rec.Allowances,
		rec.Overtime,
		rec.Bonus,
		rec.PFDeduction,
		rec.TaxDeduction,
		rec.OtherDeductions,
		rec.GrossSalary,
		rec.TotalDeductions,
		rec.NetSalary,
		rec.Status,
		rec.PaidAt,
		rec.Remarks,
		rec.ID,
	).Scan(&rec.UpdatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return payroll.Record{}, payroll.ErrRecordNotFound
		}
		return payroll.Record{}, fmt.Errorf("failed to update payroll record: %w", err)
	}

	return rec, nil
}

// Delete implements payroll.Repository.
func (r *payrollRepositoryImpl) Delete(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `DELETE FROM payroll_records WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete payroll record: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return payroll.ErrRecordNotFound
	}

	return nil
}

// AggregateMonthly implements payroll.Repository. Months with no records are
// omitted; rows come back in ascending month order.
func (r *payrollRepositoryImpl) AggregateMonthly(ctx context.Context, year int) ([]payroll.MonthAggregate, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, `
		SELECT month,
			   COUNT(*),
			   COALESCE(SUM(gross_salary), 0),
			   COALESCE(SUM(total_deductions), 0),
			   COALESCE(SUM(net_salary), 0)
		FROM payroll_records
		WHERE year = $1
		GROUP BY month
		ORDER BY month
	`, year)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate payroll by month: %w", err)
	}
	defer rows.Close()

	var aggs []payroll.MonthAggregate
	for rows.Next() {
		var agg payroll.MonthAggregate
		if err := rows.Scan(&agg.Month, &agg.Records, &agg.TotalEarnings, &agg.TotalDeductions, &agg.TotalNet); err != nil {
			return nil, fmt.Errorf("failed to scan payroll aggregate: %w", err)
		}
		aggs = append(aggs, agg)
	}

	return aggs, rows.Err()
}

// AggregateByStatus implements payroll.Repository.
func (r *payrollRepositoryImpl) AggregateByStatus(ctx context.Context, year int) (map[payroll.Status]payroll.StatusAggregate, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, `
		SELECT status,
			   COUNT(*),
			   COALESCE(SUM(net_salary), 0)
		FROM payroll_records
		WHERE year = $1
		GROUP BY status
	`, year)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate payroll by status: %w", err)
	}
	defer rows.Close()

	aggs := make(map[payroll.Status]payroll.StatusAggregate)
	for rows.Next() {
		var status payroll.Status
		var agg payroll.StatusAggregate
		if err := rows.Scan(&status, &agg.Count, &agg.TotalNet); err != nil {
			return nil, fmt.Errorf("failed to scan payroll aggregate: %w", err)
		}
		aggs[status] = agg
	}

	return aggs, rows.Err()
}
