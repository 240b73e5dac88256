package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/cmlabs-hris/hr-attendance-kanban/internal/domain/user"
	"github.com/cmlabs-hris/hr-attendance-kanban/internal/pkg/utils"
)

type userRepository struct {
	store *Store
}

func NewUserRepository(store *Store) user.UserRepository {
	return &userRepository{store: store}
}

func (r *userRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := r.store.getQuerier(ctx).QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM users WHERE email = ?)`, email).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check user email: %w", err)
	}
	return exists, nil
}

func (r *userRepository) Create(ctx context.Context, newUser user.User) (user.User, error) {
	if newUser.ID == "" {
		newUser.ID = utils.NewID()
	}
	ts := now()

	_, err := r.store.getQuerier(ctx).ExecContext(ctx, `
		INSERT INTO users (id, email, password_hash, role, employee_id, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		newUser.ID, newUser.Email, newUser.PasswordHash, string(newUser.Role), newUser.EmployeeID, ts, ts,
	)
	if err != nil {
		return user.User{}, fmt.Errorf("failed to create user: %w", err)
	}

	newUser.CreatedAt, _ = parseTime(ts)
	newUser.UpdatedAt = newUser.CreatedAt
	return newUser, nil
}

func (r *userRepository) GetByID(ctx context.Context, id string) (user.User, error) {
	return r.getOne(ctx, "id", id)
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (user.User, error) {
	return r.getOne(ctx, "email", email)
}

func (r *userRepository) getOne(ctx context.Context, column, value string) (user.User, error) {
	query := fmt.Sprintf(`
		SELECT id, email, password_hash, role, employee_id, created_at, updated_at
		FROM users WHERE %s = ?`, column)

	var (
		u                    user.User
		role                 string
		createdAt, updatedAt string
	)
	err := r.store.getQuerier(ctx).QueryRowContext(ctx, query, value).Scan(
		&u.ID, &u.Email, &u.PasswordHash, &role, &u.EmployeeID, &createdAt, &updatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return user.User{}, user.ErrUserNotFound
		}
		return user.User{}, fmt.Errorf("failed to get user by %s: %w", column, err)
	}

	u.Role = user.Role(role)
	if u.CreatedAt, err = parseTime(createdAt); err != nil {
		return user.User{}, err
	}
	if u.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return user.User{}, err
	}
	return u, nil
}
