package repositories

import (
	"context"
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"course-service/internal/models"
)

var (
	ErrUserNotFound = errors.New("user not found")
	ErrUserExists   = errors.New("a user with this name or email already exists")
)

const userColumns = `id, name, email, role, status, password_hash, created_at, updated_at`

// UserRepository abstracts account persistence.
type UserRepository interface {
	CreateUser(ctx context.Context, user models.User) (models.User, error)
	UpdateUser(ctx context.Context, user models.User) (models.User, error)
	GetUser(ctx context.Context, userID int) (models.User, error)
	GetUserByLogin(ctx context.Context, login string) (models.User, error)
	GetUsersByIDs(ctx context.Context, ids []int) ([]models.User, error)
	ListUsers(ctx context.Context) ([]models.User, error)
	ListUsersByRole(ctx context.Context, role string) ([]models.User, error)
	CountByRole(ctx context.Context, role string) (int, error)
}

// UserRepo is a sqlx implementation of UserRepository.
type UserRepo struct {
	db *sqlx.DB
}

// NewUserRepo constructs a UserRepo.
func NewUserRepo(db *sqlx.DB) *UserRepo {
	return &UserRepo{db: db}
}

// CreateUser inserts a user; ErrUserExists on a duplicate name or email.
func (r *UserRepo) CreateUser(ctx context.Context, user models.User) (models.User, error) {
	now := time.Now().UTC()
	if user.Status == "" {
		user.Status = models.StatusActive
	}
	var id int
	err := r.db.QueryRowxContext(ctx, r.db.Rebind(`INSERT INTO users (name, email, role, status, password_hash, created_at, updated_at)
        VALUES (?, ?, ?, ?, ?, ?, ?) RETURNING id`), user.Name, user.Email, user.Role, user.Status, user.PasswordHash, now, now).Scan(&id)
	if err != nil {
		if isUniqueViolation(err) {
			return models.User{}, ErrUserExists
		}
		return models.User{}, errors.Wrap(err, "insert user")
	}
	return r.GetUser(ctx, id)
}

// UpdateUser overwrites the mutable fields of an existing user.
func (r *UserRepo) UpdateUser(ctx context.Context, user models.User) (models.User, error) {
	res, err := r.db.ExecContext(ctx, r.db.Rebind(`UPDATE users SET name = ?, email = ?, role = ?, status = ?, password_hash = ?, updated_at = ? WHERE id = ?`),
		user.Name, user.Email, user.Role, user.Status, user.PasswordHash, time.Now().UTC(), user.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return models.User{}, ErrUserExists
		}
		return models.User{}, errors.Wrap(err, "update user")
	}
	n, err := res.RowsAffected()
	if err := checkAffected(n, err, ErrUserNotFound); err != nil {
		return models.User{}, err
	}
	return r.GetUser(ctx, user.ID)
}

// GetUser fetches a user by id.
func (r *UserRepo) GetUser(ctx context.Context, userID int) (models.User, error) {
	var user models.User
	err := r.db.GetContext(ctx, &user, r.db.Rebind(`SELECT `+userColumns+` FROM users WHERE id = ?`), userID)
	if errors.Is(err, sql.ErrNoRows) {
		return models.User{}, ErrUserNotFound
	}
	return user, errors.Wrap(err, "get user")
}

// GetUserByLogin fetches a user by name or email.
func (r *UserRepo) GetUserByLogin(ctx context.Context, login string) (models.User, error) {
	var user models.User
	err := r.db.GetContext(ctx, &user, r.db.Rebind(`SELECT `+userColumns+` FROM users WHERE name = ? OR email = ? ORDER BY id LIMIT 1`), login, login)
	if errors.Is(err, sql.ErrNoRows) {
		return models.User{}, ErrUserNotFound
	}
	return user, errors.Wrap(err, "get user by login")
}

// GetUsersByIDs returns the users that exist among ids.
func (r *UserRepo) GetUsersByIDs(ctx context.Context, ids []int) ([]models.User, error) {
	users := []models.User{}
	if len(ids) == 0 {
		return users, nil
	}
	query, args, err := sqlx.In(`SELECT `+userColumns+` FROM users WHERE id IN (?) ORDER BY id`, ids)
	if err != nil {
		return nil, errors.Wrap(err, "expand user ids")
	}
	err = r.db.SelectContext(ctx, &users, r.db.Rebind(query), args...)
	return users, errors.Wrap(err, "get users by ids")
}

// ListUsers returns every user ordered by id.
func (r *UserRepo) ListUsers(ctx context.Context) ([]models.User, error) {
	users := []models.User{}
	err := r.db.SelectContext(ctx, &users, `SELECT `+userColumns+` FROM users ORDER BY id`)
	return users, errors.Wrap(err, "list users")
}

// ListUsersByRole returns the users holding role.
func (r *UserRepo) ListUsersByRole(ctx context.Context, role string) ([]models.User, error) {
	users := []models.User{}
	err := r.db.SelectContext(ctx, &users, r.db.Rebind(`SELECT `+userColumns+` FROM users WHERE role = ? ORDER BY id`), role)
	return users, errors.Wrap(err, "list users by role")
}

// CountByRole counts the users holding role.
func (r *UserRepo) CountByRole(ctx context.Context, role string) (int, error) {
	var count int
	err := r.db.GetContext(ctx, &count, r.db.Rebind(`SELECT COUNT(*) FROM users WHERE role = ?`), role)
	return count, errors.Wrap(err, "count users by role")
}
