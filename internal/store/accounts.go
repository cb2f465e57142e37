package store

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"financetrack/internal/apperror"
	"financetrack/internal/models"
)

// AccountOwnedBy loads an account and verifies it belongs to the user.
func (s *Store) AccountOwnedBy(ctx context.Context, userID, accountID int64) (models.Account, error) {
	var a models.Account
	var balance string
	err := s.pool.QueryRow(ctx,
		`SELECT id, user_id, name, account_type, balance::text, created_at
		 FROM accounts WHERE id = $1 AND user_id = $2`,
		accountID, userID).Scan(&a.ID, &a.UserID, &a.Name, &a.AccountType, &balance, &a.CreatedAt)
	if err == pgx.ErrNoRows {
		return models.Account{}, &apperror.NotFoundError{Resource: "account", ID: accountID}
	}
	if err != nil {
		return models.Account{}, err
	}
	a.Balance, err = decimal.NewFromString(balance)
	if err != nil {
		return models.Account{}, fmt.Errorf("failed to parse stored balance '%s': %w", balance, err)
	}
	return a, nil
}

// ListAccounts returns all accounts owned by the user.
func (s *Store) ListAccounts(ctx context.Context, userID int64) ([]models.Account, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, user_id, name, account_type, balance::text, created_at
		 FROM accounts WHERE user_id = $1 ORDER BY id`,
		userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	defer rows.Close()

	var out []models.Account
	for rows.Next() {
		var a models.Account
		var balance string
		if err := rows.Scan(&a.ID, &a.UserID, &a.Name, &a.AccountType, &balance, &a.CreatedAt); err != nil {
			return nil, err
		}
		a.Balance, err = decimal.NewFromString(balance)
		if err != nil {
			return nil, fmt.Errorf("failed to parse stored balance '%s': %w", balance, err)
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// CreateAccount inserts a new account for the user.
func (s *Store) CreateAccount(ctx context.Context, a models.Account) (models.Account, error) {
	row := s.pool.QueryRow(ctx,
		`INSERT INTO accounts (user_id, name, account_type, balance)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, created_at`,
		a.UserID, a.Name, a.AccountType, a.Balance)
	if err := row.Scan(&a.ID, &a.CreatedAt); err != nil {
		return models.Account{}, &apperror.StoreWriteError{Op: "create account", Err: err}
	}
	return a, nil
}
