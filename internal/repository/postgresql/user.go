package postgresql

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/dayflow-hrms/dayflow-backend-go/internal/domain/user"
	"github.com/dayflow-hrms/dayflow-backend-go/internal/pkg/database"
)

type userRepositoryImpl struct {
	db *database.DB
}

func NewUserRepository(db *database.DB) user.Repository {
	return &userRepositoryImpl{db: db}
}

const userColumns = `
	id, employee_id, email, password_hash, first_name, last_name, role,
	phone, avatar, department, designation, date_of_birth, date_of_joining,
	address, emergency_contact, bank_details, salary, documents,
	email_verified, email_verification_token, email_verification_expire,
	reset_password_token, reset_password_expire, is_active,
	created_at, updated_at`

func scanUser(row pgx.Row) (user.User, error) {
	var u user.User
	err := row.Scan(
		&u.ID, &u.EmployeeID, &u.Email, &u.PasswordHash, &u.FirstName, &u.LastName, &u.Role,
		&u.Phone, &u.Avatar, &u.Department, &u.Designation, &u.DateOfBirth, &u.DateOfJoining,
		&u.Address, &u.EmergencyContact, &u.BankDetails, &u.Salary, &u.Documents,
		&u.EmailVerified, &u.EmailVerificationToken, &u.EmailVerificationExpire,
		&u.ResetPasswordToken, &u.ResetPasswordExpire, &u.IsActive,
		&u.CreatedAt, &u.UpdatedAt,
	)
	return u, err
}

// mapUniqueViolation translates a unique constraint violation to a domain error.
func mapUniqueViolation(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		switch {
		case strings.Contains(pgErr.ConstraintName, "email"):
			return user.ErrEmailExists
		case strings.Contains(pgErr.ConstraintName, "employee_id"):
			return user.ErrEmployeeIDExists
		}
	}
	return err
}

// Create implements user.Repository.
func (r *userRepositoryImpl) Create(ctx context.Context, newUser user.User) (user.User, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO users (
			id, employee_id, email, password_hash, first_name, last_name, role,
			phone, avatar, department, designation, date_of_birth, date_of_joining,
			address, emergency_contact, bank_details, salary, documents,
			email_verified, email_verification_token, email_verification_expire,
			is_active
		)
		VALUES (
			uuidv7(), $1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12,
			$13, $14, $15, $16, $17, $18, $19, $20, $21
		)
		RETURNING ` + userColumns

	created, err := scanUser(q.QueryRow(ctx, query,
		newUser.EmployeeID,
		newUser.Email,
		newUser.PasswordHash,
		newUser.FirstName,
		newUser.LastName,
		newUser.Role,
		newUser.Phone,
		newUser.Avatar,
		newUser.Department,
		newUser.Designation,
		newUser.DateOfBirth,
		newUser.DateOfJoining,
		newUser.Address,
		newUser.EmergencyContact,
		newUser.BankDetails,
		newUser.Salary,
		newUser.Documents,
		newUser.EmailVerified,
		newUser.EmailVerificationToken,
		newUser.EmailVerificationExpire,
		newUser.IsActive,
	))
	if err != nil {
		return user.User{}, mapUniqueViolation(err)
	}

	return created, nil
}

// GetByID implements user.Repository.
func (r *userRepositoryImpl) GetByID(ctx context.Context, id string) (user.User, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`

	u, err := scanUser(q.QueryRow(ctx, query, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return user.User{}, user.ErrUserNotFound
		}
		return user.User{}, fmt.Errorf("failed to get user: %w", err)
	}

	return u, nil
}

// GetByEmail implements user.Repository.
func (r *userRepositoryImpl) GetByEmail(ctx context.Context, email string) (user.User, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + userColumns + ` FROM users WHERE LOWER(email) = LOWER($1)`

	u, err := scanUser(q.QueryRow(ctx, query, email))
	if err != nil {
		if err == pgx.ErrNoRows {
			return user.User{}, user.ErrUserNotFound
		}
		return user.User{}, fmt.Errorf("failed to get user by email: %w", err)
	}

	return u, nil
}

// GetByEmployeeID implements user.Repository.
func (r *userRepositoryImpl) GetByEmployeeID(ctx context.Context, employeeID string) (user.User, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + userColumns + ` FROM users WHERE employee_id = $1`

	u, err := scanUser(q.QueryRow(ctx, query, employeeID))
	if err != nil {
		if err == pgx.ErrNoRows {
			return user.User{}, user.ErrUserNotFound
		}
		return user.User{}, fmt.Errorf("failed to get user by employee id: %w", err)
	}

	return u, nil
}

// GetByVerificationToken implements user.Repository.
func (r *userRepositoryImpl) GetByVerificationToken(ctx context.Context, tokenHash string) (user.User, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + userColumns + `
		FROM users
		WHERE email_verification_token = $1
		  AND email_verification_expire > NOW()`

	u, err := scanUser(q.QueryRow(ctx, query, tokenHash))
	if err != nil {
		if err == pgx.ErrNoRows {
			return user.User{}, user.ErrUserNotFound
		}
		return user.User{}, fmt.Errorf("failed to get user by verification token: %w", err)
	}

	return u, nil
}

// GetByResetToken implements user.Repository.
func (r *userRepositoryImpl) GetByResetToken(ctx context.Context, tokenHash string) (user.User, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + userColumns + `
		FROM users
		WHERE reset_password_token = $1
		  AND reset_password_expire > NOW()`

	u, err := scanUser(q.QueryRow(ctx, query, tokenHash))
	if err != nil {
		if err == pgx.ErrNoRows {
			return user.User{}, user.ErrUserNotFound
		}
		return user.User{}, fmt.Errorf("failed to get user by reset token: %w", err)
	}

	return u, nil
}

// List implements user.Repository.
func (r *userRepositoryImpl) List(ctx context.Context, filter user.Filter) ([]user.User, int64, error) {
	q := GetQuerier(ctx, r.db)

	conditions := []string{"1=1"}
	args := []interface{}{}
	argIdx := 1

	if filter.Search != nil && *filter.Search != "" {
		conditions = append(conditions, fmt.Sprintf(
			"(first_name ILIKE $%d OR last_name ILIKE $%d OR email ILIKE $%d OR employee_id ILIKE $%d)",
			argIdx, argIdx, argIdx, argIdx))
		args = append(args, "%"+*filter.Search+"%")
		argIdx++
	}
	if filter.Department != nil && *filter.Department != "" {
		conditions = append(conditions, fmt.Sprintf("department = $%d", argIdx))
		args = append(args, *filter.Department)
		argIdx++
	}
	if filter.Role != nil && *filter.Role != "" {
		conditions = append(conditions, fmt.Sprintf("role = $%d", argIdx))
		args = append(args, *filter.Role)
		argIdx++
	}

	whereClause := strings.Join(conditions, " AND ")

	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM users WHERE %s", whereClause)
	var total int64
	if err := q.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count users: %w", err)
	}

	offset := (filter.Page - 1) * filter.Limit
	query := fmt.Sprintf(`
		SELECT %s
		FROM users
		WHERE %s
		ORDER BY created_at DESC
		LIMIT $%d OFFSET $%d
	`, userColumns, whereClause, argIdx, argIdx+1)
	args = append(args, filter.Limit, offset)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	var users []user.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, u)
	}

	return users, total, rows.Err()
}

// ListActive implements user.Repository.
func (r *userRepositoryImpl) ListActive(ctx context.Context) ([]user.User, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + userColumns + ` FROM users WHERE is_active = true ORDER BY employee_id`

	rows, err := q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list active users: %w", err)
	}
	defer rows.Close()

	var users []user.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, u)
	}

	return users, rows.Err()
}

// Update implements user.Repository.
func (r *userRepositoryImpl) Update(ctx context.Context, u user.User) (user.User, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE users
		SET email = $1, password_hash = $2, first_name = $3, last_name = $4, role = $5,
			phone = $6, avatar = $7, department = $8, designation = $9,
			date_of_birth = $10, date_of_joining = $11,
			address = $12, emergency_contact = $13, bank_details = $14, salary = $15,
			documents = $16, email_verified = $17, email_verification_token = $18,
			email_verification_expire = $19, reset_password_token = $20,
			reset_password_expire = $21, is_active = $22, updated_at = NOW()
		WHERE id = $23
		RETURNING ` + userColumns

	updated, err := scanUser(q.QueryRow(ctx, query,
		u.Email,
		u.PasswordHash,
		u.FirstName,
		u.LastName,
		u.Role,
		u.Phone,
		u.Avatar,
		u.Department,
		u.Designation,
		u.DateOfBirth,
		u.DateOfJoining,
		u.Address,
		u.EmergencyContact,
		u.BankDetails,
		u.Salary,
		u.Documents,
		u.EmailVerified,
		u.EmailVerificationToken,
		u.EmailVerificationExpire,
		u.ResetPasswordToken,
		u.ResetPasswordExpire,
		u.IsActive,
		u.ID,
	))
	if err != nil {
		if err == pgx.ErrNoRows {
			return user.User{}, user.ErrUserNotFound
		}
		return user.User{}, mapUniqueViolation(err)
	}

	return updated, nil
}

// Delete implements user.Repository. This is a hard delete taking the user's
// dependent rows with it; the normal disable path is an Update setting
// is_active to false.
func (r *userRepositoryImpl) Delete(ctx context.Context, id string) error {
	return WithTransaction(ctx, r.db, func(ctx context.Context) error {
		q := GetQuerier(ctx, r.db)

		for _, table := range []string{"notifications", "payroll_records", "leave_requests", "attendances"} {
			query := fmt.Sprintf(`DELETE FROM %s WHERE user_id = $1`, table)
			if _, err := q.Exec(ctx, query, id); err != nil {
				return fmt.Errorf("failed to delete %s rows: %w", table, err)
			}
		}

		// Decisions made by this user stay, without the approver reference.
		if _, err := q.Exec(ctx, `UPDATE leave_requests SET approved_by = NULL WHERE approved_by = $1`, id); err != nil {
			return fmt.Errorf("failed to clear approver references: %w", err)
		}

		tag, err := q.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
		if err != nil {
			return fmt.Errorf("failed to delete user: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return user.ErrUserNotFound
		}

		return nil
	})
}

// CountActive implements user.Repository.
func (r *userRepositoryImpl) CountActive(ctx context.Context) (int64, error) {
	q := GetQuerier(ctx, r.db)

	var count int64
	err := q.QueryRow(ctx, `SELECT COUNT(*) FROM users WHERE is_active = true`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count active users: %w", err)
	}

	return count, nil
}

// Stats implements user.Repository.
func (r *userRepositoryImpl) Stats(ctx context.Context) (user.Stats, error) {
	q := GetQuerier(ctx, r.db)

	var stats user.Stats
	err := q.QueryRow(ctx, `
		SELECT COUNT(*),
			   COUNT(*) FILTER (WHERE is_active),
			   COUNT(*) FILTER (WHERE NOT is_active)
		FROM users
	`).Scan(&stats.TotalEmployees, &stats.ActiveEmployees, &stats.InactiveEmployees)
	if err != nil {
		return user.Stats{}, fmt.Errorf("failed to count users: %w", err)
	}

	rows, err := q.Query(ctx, `
		SELECT COALESCE(department, 'Unassigned'), COUNT(*)
		FROM users
		WHERE is_active = true
		GROUP BY department
		ORDER BY COUNT(*) DESC
	`)
	if err != nil {
		return user.Stats{}, fmt.Errorf("failed to aggregate departments: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var dc user.DepartmentCount
		if err := rows.Scan(&dc.Department, &dc.Count); err != nil {
			return user.Stats{}, fmt.Errorf("failed to scan department count: %w", err)
		}
		stats.ByDepartment = append(stats.ByDepartment, dc)
	}
	if err := rows.Err(); err != nil {
		return user.Stats{}, err
	}

	roleRows, err := q.Query(ctx, `
		SELECT role, COUNT(*)
		FROM users
		WHERE is_active = true
		GROUP BY role
	`)
	if err != nil {
		return user.Stats{}, fmt.Errorf("failed to aggregate roles: %w", err)
	}
	defer roleRows.Close()

	for roleRows.Next() {
		var rc user.RoleCount
		if err := roleRows.Scan(&rc.Role, &rc.Count); err != nil {
			return user.Stats{}, fmt.Errorf("failed to scan role count: %w", err)
		}
		stats.ByRole = append(stats.ByRole, rc)
	}

	return stats, roleRows.Err()
}
