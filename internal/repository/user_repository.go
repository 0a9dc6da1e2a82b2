package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/swifttax/swifttax-api/internal/model"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

// UserRepository handles database operations for users
type UserRepository struct {
	db     *sqlx.DB
	logger *zap.Logger
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *sqlx.DB, logger *zap.Logger) *UserRepository {
	return &UserRepository{
		db:     db,
		logger: logger,
	}
}

// Create adds a new user. The counters start at zero and created_at is
// stamped by the database regardless of what the caller supplies.
func (r *UserRepository) Create(ctx context.Context, user *model.UserCreate, passwordHash string) (int, error) {
	query := `
		INSERT INTO users (first_name, last_name, email, password_hash, role, status, pan_number, phone)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id
	`

	var id int
	err := r.db.GetContext(
		ctx,
		&id,
		query,
		user.FirstName,
		user.LastName,
		user.Email,
		passwordHash,
		user.Role,
		user.Status,
		user.PANNumber,
		user.Phone,
	)

	if err != nil {
		r.logger.Error("failed to create user", zap.Error(err))
		return 0, err
	}

	return id, nil
}

// GetByID retrieves a user by ID
func (r *UserRepository) GetByID(ctx context.Context, id int) (*model.User, error) {
	query := `SELECT * FROM users WHERE id = $1`

	var user model.User
	if err := r.db.GetContext(ctx, &user, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		r.logger.Error("failed to get user by ID", zap.Error(err), zap.Int("id", id))
		return nil, err
	}

	return &user, nil
}

// GetByEmail retrieves a user by email
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	query := `SELECT * FROM users WHERE email = $1`

	var user model.User
	if err := r.db.GetContext(ctx, &user, query, email); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		r.logger.Error("failed to get user by email", zap.Error(err), zap.String("email", email))
		return nil, err
	}

	return &user, nil
}

// List retrieves a filtered, paginated list of users in insertion order
func (r *UserRepository) List(ctx context.Context, filter model.UserFilter, offset, limit int) ([]model.User, error) {
	where, args := buildUserFilter(filter)
	query := fmt.Sprintf(`
		SELECT * FROM users
		%s
		ORDER BY id
		LIMIT $%d OFFSET $%d
	`, where, len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	var users []model.User
	if err := r.db.SelectContext(ctx, &users, query, args...); err != nil {
		r.logger.Error("failed to list users", zap.Error(err))
		return nil, err
	}

	return users, nil
}

// Count returns the number of users matching the filter
func (r *UserRepository) Count(ctx context.Context, filter model.UserFilter) (int, error) {
	where, args := buildUserFilter(filter)
	query := fmt.Sprintf(`SELECT COUNT(*) FROM users %s`, where)

	var count int
	if err := r.db.GetContext(ctx, &count, query, args...); err != nil {
		r.logger.Error("failed to count users", zap.Error(err))
		return 0, err
	}

	return count, nil
}

// Update applies a partial patch. Nil fields keep their current value.
func (r *UserRepository) Update(ctx context.Context, id int, update *model.UserUpdate) (bool, error) {
	query := `
		UPDATE users SET
			first_name = COALESCE($2, first_name),
			last_name  = COALESCE($3, last_name),
			email      = COALESCE($4, email),
			role       = COALESCE($5, role),
			status     = COALESCE($6, status),
			pan_number = COALESCE($7, pan_number),
			phone      = COALESCE($8, phone)
		WHERE id = $1
	`

	res, err := r.db.ExecContext(
		ctx,
		query,
		id,
		update.FirstName,
		update.LastName,
		update.Email,
		update.Role,
		update.Status,
		update.PANNumber,
		update.Phone,
	)
	if err != nil {
		r.logger.Error("failed to update user", zap.Error(err), zap.Int("id", id))
		return false, err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}

	return affected > 0, nil
}

// UpdateStatus transitions a single user's status
func (r *UserRepository) UpdateStatus(ctx context.Context, id int, status string) (bool, error) {
	query := `UPDATE users SET status = $2 WHERE id = $1`

	res, err := r.db.ExecContext(ctx, query, id, status)
	if err != nil {
		r.logger.Error("failed to update user status", zap.Error(err), zap.Int("id", id))
		return false, err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}

	return affected > 0, nil
}

// UpdateStatusBulk transitions every listed user in one statement and
// returns the number of rows touched
func (r *UserRepository) UpdateStatusBulk(ctx context.Context, ids []int, status string) (int, error) {
	query, args, err := sqlx.In(`UPDATE users SET status = ? WHERE id IN (?)`, status, ids)
	if err != nil {
		return 0, err
	}

	res, err := r.db.ExecContext(ctx, r.db.Rebind(query), args...)
	if err != nil {
		r.logger.Error("failed to bulk update user status", zap.Error(err), zap.Ints("ids", ids))
		return 0, err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}

	return int(affected), nil
}

// Delete removes a user
func (r *UserRepository) Delete(ctx context.Context, id int) (bool, error) {
	query := `DELETE FROM users WHERE id = $1`

	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		r.logger.Error("failed to delete user", zap.Error(err), zap.Int("id", id))
		return false, err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}

	return affected > 0, nil
}

// DeleteBulk removes every listed user in one statement
func (r *UserRepository) DeleteBulk(ctx context.Context, ids []int) (int, error) {
	query, args, err := sqlx.In(`DELETE FROM users WHERE id IN (?)`, ids)
	if err != nil {
		return 0, err
	}

	res, err := r.db.ExecContext(ctx, r.db.Rebind(query), args...)
	if err != nil {
		r.logger.Error("failed to bulk delete users", zap.Error(err), zap.Ints("ids", ids))
		return 0, err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}

	return int(affected), nil
}

// UpdateLastLogin stamps the user's last login time
func (r *UserRepository) UpdateLastLogin(ctx context.Context, id int) error {
	query := `UPDATE users SET last_login = NOW() WHERE id = $1`

	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		r.logger.Error("failed to update last login", zap.Error(err), zap.Int("id", id))
		return err
	}

	return nil
}

// UpdateCounters overwrites the externally owned tax form / document counters
func (r *UserRepository) UpdateCounters(ctx context.Context, id, taxForms, documents int) error {
	query := `UPDATE users SET tax_forms_count = $2, documents_count = $3 WHERE id = $1`

	if _, err := r.db.ExecContext(ctx, query, id, taxForms, documents); err != nil {
		r.logger.Error("failed to update user counters", zap.Error(err), zap.Int("id", id))
		return err
	}

	return nil
}

// buildUserFilter translates a UserFilter into a WHERE clause. The search
// term matches first name, last name or email case-insensitively; role and
// status match exactly; empty fields impose no constraint.
func buildUserFilter(filter model.UserFilter) (string, []interface{}) {
	var clauses []string
	var args []interface{}

	if filter.Search != "" {
		args = append(args, "%"+filter.Search+"%")
		n := len(args)
		clauses = append(clauses, fmt.Sprintf(
			"(first_name ILIKE $%d OR last_name ILIKE $%d OR email ILIKE $%d)", n, n, n))
	}
	if filter.Role != "" {
		args = append(args, filter.Role)
		clauses = append(clauses, fmt.Sprintf("role = $%d", len(args)))
	}
	if filter.Status != "" {
		args = append(args, filter.Status)
		clauses = append(clauses, fmt.Sprintf("status = $%d", len(args)))
	}

	if len(clauses) == 0 {
		return "", nil
	}

	return "WHERE " + strings.Join(clauses, " AND "), args
}
