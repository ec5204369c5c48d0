package postgresql

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/dayflow-hrms/dayflow-backend-go/internal/domain/leave"
	"github.com/dayflow-hrms/dayflow-backend-go/internal/pkg/database"
)

type leaveRepositoryImpl struct {
	db *database.DB
}

func NewLeaveRepository(db *database.DB) leave.Repository {
	return &leaveRepositoryImpl{db: db}
}

const leaveColumns = `
	l.id, l.user_id, l.type, l.start_date, l.end_date, l.total_days, l.reason,
	l.status, l.approved_by, l.approver_comments, l.approved_at,
	l.created_at, l.updated_at,
	u.first_name || ' ' || u.last_name AS employee_name,
	u.employee_id, u.department,
	ap.first_name || ' ' || ap.last_name AS approver_name`

const leaveJoins = `
	FROM leave_requests l
	JOIN users u ON l.user_id = u.id
	LEFT JOIN users ap ON l.approved_by = ap.id`

func scanLeave(row pgx.Row) (leave.Request, error) {
	var req leave.Request
	err := row.Scan(
		&req.ID, &req.UserID, &req.Type, &req.StartDate, &req.EndDate, &req.TotalDays, &req.Reason,
		&req.Status, &req.ApprovedBy, &req.ApproverComments, &req.ApprovedAt,
		&req.CreatedAt, &req.UpdatedAt,
		&req.EmployeeName, &req.EmployeeID, &req.Department,
		&req.ApproverName,
	)
	return req, err
}

// Create implements leave.Repository.
func (r *leaveRepositoryImpl) Create(ctx context.Context, req leave.Request) (leave.Request, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO leave_requests (id, user_id, type, start_date, end_date, total_days, reason, status)
		VALUES (uuidv7(), $1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at`

	err := q.QueryRow(ctx, query,
		req.UserID,
		req.Type,
		req.StartDate,
		req.EndDate,
		req.TotalDays,
		req.Reason,
		req.Status,
	).Scan(&req.ID, &req.CreatedAt, &req.UpdatedAt)
	if err != nil {
		return leave.Request{}, fmt.Errorf("failed to create leave request: %w", err)
	}

	return req, nil
}

// GetByID implements leave.Repository.
func (r *leaveRepositoryImpl) GetByID(ctx context.Context, id string) (leave.Request, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + leaveColumns + leaveJoins + ` WHERE l.id = $1`

	req, err := scanLeave(q.QueryRow(ctx, query, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return leave.Request{}, leave.ErrLeaveNotFound
		}
		return leave.Request{}, fmt.Errorf("failed to get leave request: %w", err)
	}

	return req, nil
}

// FindOverlapping implements leave.Repository.
func (r *leaveRepositoryImpl) FindOverlapping(ctx context.Context, userID string, start, end time.Time) ([]leave.Request, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + leaveColumns + leaveJoins + `
		WHERE l.user_id = $1
		  AND l.status <> 'rejected'
		  AND l.start_date <= $3
		  AND l.end_date >= $2`

	rows, err := q.Query(ctx, query, userID, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to find overlapping leave requests: %w", err)
	}
	defer rows.Close()

	var requests []leave.Request
	for rows.Next() {
		req, err := scanLeave(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan leave request: %w", err)
		}
		requests = append(requests, req)
	}

	return requests, rows.Err()
}

// GetByUser implements leave.Repository.
func (r *leaveRepositoryImpl) GetByUser(ctx context.Context, userID string, filter leave.MyFilter) ([]leave.Request, error) {
	q := GetQuerier(ctx, r.db)

	conditions := []string{"l.user_id = $1"}
	args := []interface{}{userID}
	argIdx := 2

	if filter.Status != nil {
		conditions = append(conditions, fmt.Sprintf("l.status = $%d", argIdx))
		args = append(args, *filter.Status)
		argIdx++
	}
	if filter.Year != 0 {
		conditions = append(conditions, fmt.Sprintf("EXTRACT(YEAR FROM l.start_date) = $%d", argIdx))
		args = append(args, filter.Year)
		argIdx++
	}

	query := fmt.Sprintf(`SELECT %s %s WHERE %s ORDER BY l.created_at DESC`,
		leaveColumns, leaveJoins, strings.Join(conditions, " AND "))

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list leave requests: %w", err)
	}
	defer rows.Close()

	var requests []leave.Request
	for rows.Next() {
		req, err := scanLeave(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan leave request: %w", err)
		}
		requests = append(requests, req)
	}

	return requests, rows.Err()
}

// List implements leave.Repository.
func (r *leaveRepositoryImpl) List(ctx context.Context, filter leave.ListFilter) ([]leave.Request, int64, error) {
	q := GetQuerier(ctx, r.db)

	conditions := []string{"1=1"}
	args := []interface{}{}
	argIdx := 1

	if filter.Status != nil {
		conditions = append(conditions, fmt.Sprintf("l.status = $%d", argIdx))
		args = append(args, *filter.Status)
		argIdx++
	}
	if filter.Type != nil {
		conditions = append(conditions, fmt.Sprintf("l.type = $%d", argIdx))
		args = append(args, *filter.Type)
		argIdx++
	}
	if filter.UserID != nil {
		conditions = append(conditions, fmt.Sprintf("l.user_id = $%d", argIdx))
		args = append(args, *filter.UserID)
		argIdx++
	}
	if filter.Department != nil {
		conditions = append(conditions, fmt.Sprintf("u.department = $%d", argIdx))
		args = append(args, *filter.Department)
		argIdx++
	}

	whereClause := strings.Join(conditions, " AND ")

	countQuery := fmt.Sprintf(`SELECT COUNT(*) FROM leave_requests l JOIN users u ON l.user_id = u.id WHERE %s`, whereClause)
	var total int64
	if err := q.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count leave requests: %w", err)
	}

	offset := (filter.Page - 1) * filter.Limit
	query := fmt.Sprintf(`
		SELECT %s %s
		WHERE %s
		ORDER BY l.created_at DESC
		LIMIT $%d OFFSET $%d
	`, leaveColumns, leaveJoins, whereClause, argIdx, argIdx+1)
	args = append(args, filter.Limit, offset)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list leave requests: %w", err)
	}
	defer rows.Close()

	var requests []leave.Request
	for rows.Next() {
		req, err := scanLeave(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan leave request: %w", err)
		}
		requests = append(requests, req)
	}

	return requests, total, rows.Err()
}

// Update implements leave.Repository.
func (r *leaveRepositoryImpl) Update(ctx context.Context, req leave.Request) (leave.Request, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE leave_requests
		SET status = $1, approved_by = $2, approver_comments = $3, approved_at = $4,
			updated_at = NOW()
		WHERE id = $5
		RETURNING updated_at`

	err := q.QueryRow(ctx, query,
		req.Status,
		req.ApprovedBy,
		req.ApproverComments,
		req.ApprovedAt,
		req.ID,
	).Scan(&req.UpdatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return leave.Request{}, leave.ErrLeaveNotFound
		}
		return leave.Request{}, fmt.Errorf("failed to update leave request: %w", err)
	}

	return req, nil
}

// Delete implements leave.Repository.
func (r *leaveRepositoryImpl) Delete(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `DELETE FROM leave_requests WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete leave request: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return leave.ErrLeaveNotFound
	}

	return nil
}

// SumDaysByType implements leave.Repository.
func (r *leaveRepositoryImpl) SumDaysByType(ctx context.Context, userID string, year int, status leave.Status) (map[leave.Type]int, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT type, COALESCE(SUM(total_days), 0)
		FROM leave_requests
		WHERE user_id = $1
		  AND status = $2
		  AND EXTRACT(YEAR FROM start_date) = $3
		GROUP BY type`

	rows, err := q.Query(ctx, query, userID, status, year)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate leave days: %w", err)
	}
	defer rows.Close()

	sums := make(map[leave.Type]int)
	for rows.Next() {
		var typ leave.Type
		var days int
		if err := rows.Scan(&typ, &days); err != nil {
			return nil, fmt.Errorf("failed to scan leave aggregate: %w", err)
		}
		sums[typ] = days
	}

	return sums, rows.Err()
}

// CountByStatus implements leave.Repository.
func (r *leaveRepositoryImpl) CountByStatus(ctx context.Context) (map[leave.Status]int64, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, `SELECT status, COUNT(*) FROM leave_requests GROUP BY status`)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate leave statuses: %w", err)
	}
	defer rows.Close()

	counts := make(map[leave.Status]int64)
	for rows.Next() {
		var status leave.Status
		var count int64
		if err := rows.Scan(&status, &count); err != nil {
			return nil, fmt.Errorf("failed to scan leave aggregate: %w", err)
		}
		counts[status] = count
	}

	return counts, rows.Err()
}

// CountApprovedByType implements leave.Repository.
func (r *leaveRepositoryImpl) CountApprovedByType(ctx context.Context) (map[leave.Type]int64, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, `SELECT type, COUNT(*) FROM leave_requests WHERE status = 'approved' GROUP BY type`)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate leave types: %w", err)
	}
	defer rows.Close()

	counts := make(map[leave.Type]int64)
	for rows.Next() {
		var typ leave.Type
		var count int64
		if err := rows.Scan(&typ, &count); err != nil {
			return nil, fmt.Errorf("failed to scan leave aggregate: %w", err)
		}
		counts[typ] = count
	}

	return counts, rows.Err()
}

// CountByMonth implements leave.Repository.
func (r *leaveRepositoryImpl) CountByMonth(ctx context.Context, from time.Time) ([]leave.MonthCount, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT EXTRACT(YEAR FROM start_date)::int,
		       EXTRACT(MONTH FROM start_date)::int,
		       COUNT(*)
		FROM leave_requests
		WHERE start_date >= $1
		GROUP BY 1, 2
		ORDER BY 1, 2`

	rows, err := q.Query(ctx, query, from)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate monthly leave counts: %w", err)
	}
	defer rows.Close()

	var counts []leave.MonthCount
	for rows.Next() {
		var mc leave.MonthCount
		if err := rows.Scan(&mc.Year, &mc.Month, &mc.Count); err != nil {
			return nil, fmt.Errorf("failed to scan leave aggregate: %w", err)
		}
		counts = append(counts, mc)
	}

	return counts, rows.Err()
}

// CountApprovedOnDate implements leave.Repository.
func (r *leaveRepositoryImpl) CountApprovedOnDate(ctx context.Context, date time.Time) (int64, error) {
	q := GetQuerier(ctx, r.db)

	var count int64
	err := q.QueryRow(ctx, `
		SELECT COUNT(*)
		FROM leave_requests
		WHERE status = 'approved'
		  AND start_date <= $1
		  AND end_date >= $1
	`, date).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count approved leaves: %w", err)
	}

	return count, nil
}
