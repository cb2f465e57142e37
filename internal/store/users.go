package store

import (
	"context"

	"github.com/jackc/pgx/v5"

	"financetrack/internal/apperror"
	"financetrack/internal/models"
)

// CreateUser inserts a new user. The password must already be hashed.
func (s *Store) CreateUser(ctx context.Context, u models.User) (models.User, error) {
	row := s.pool.QueryRow(ctx,
		`INSERT INTO users (email, hashed_password, full_name)
		 VALUES ($1, $2, $3)
		 RETURNING id, is_active, created_at`,
		u.Email, u.HashedPassword, u.FullName)
	if err := row.Scan(&u.ID, &u.IsActive, &u.CreatedAt); err != nil {
		return models.User{}, &apperror.StoreWriteError{Op: "create user", Err: err}
	}
	return u, nil
}

// UserByEmail loads a user by email.
func (s *Store) UserByEmail(ctx context.Context, email string) (models.User, error) {
	var u models.User
	err := s.pool.QueryRow(ctx,
		`SELECT id, email, hashed_password, full_name, is_active, created_at
		 FROM users WHERE email = $1`,
		email).Scan(&u.ID, &u.Email, &u.HashedPassword, &u.FullName, &u.IsActive, &u.CreatedAt)
	if err == pgx.ErrNoRows {
		return models.User{}, &apperror.NotFoundError{Resource: "user"}
	}
	return u, err
}
