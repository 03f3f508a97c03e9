package datastore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/coreybb/tasknest/models"
)

type UserRepository struct {
	db *DB
}

func NewUserRepository(db *DB) *UserRepository {
	return &UserRepository{db: db}
}

// CreateUser inserts the user and fills in the generated ID. A taken email
// yields ErrDuplicateEmail.
func (r *UserRepository) CreateUser(ctx context.Context, user *models.User) error {
	if user.Email == "" {
		return fmt.Errorf("user email cannot be empty")
	}
	if user.PasswordHash == "" {
		return fmt.Errorf("user password hash cannot be empty")
	}
	if user.CreatedAt.IsZero() {
		return fmt.Errorf("user CreatedAt timestamp must be set")
	}

	query := `
		INSERT INTO users (created_at, email, password_hash)
		VALUES ($1, $2, $3)
		RETURNING id
	`
	err := r.db.QueryRowContext(ctx, query, user.CreatedAt, user.Email, user.PasswordHash).Scan(&user.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("failed to insert user %s: %w", user.Email, ErrDuplicateEmail)
		}
		return fmt.Errorf("failed to insert user: %w", err)
	}
	return nil
}

// GetUserByEmail returns the full record, password hash included, for
// credential checks.
func (r *UserRepository) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	query := `
		SELECT id, created_at, email, password_hash
		FROM users
		WHERE email = $1
	`
	return r.scanUser(r.db.QueryRowContext(ctx, query, email))
}

func (r *UserRepository) GetUserByID(ctx context.Context, userID int64) (*models.User, error) {
	query := `
		SELECT id, created_at, email, password_hash
		FROM users
		WHERE id = $1
	`
	return r.scanUser(r.db.QueryRowContext(ctx, query, userID))
}

func (r *UserRepository) scanUser(row *sql.Row) (*models.User, error) {
	var user models.User
	err := row.Scan(&user.ID, &user.CreatedAt, &user.Email, &user.PasswordHash)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("user not found: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &user, nil
}
