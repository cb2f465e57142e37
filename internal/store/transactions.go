package store

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"financetrack/internal/apperror"
	"financetrack/internal/models"
)

const transactionColumns = `id, user_id, account_id, category_id, date,
	description, amount::text, transaction_type, is_categorized, created_at`

func scanTransaction(row pgx.Row) (models.Transaction, error) {
	var t models.Transaction
	var amount string
	err := row.Scan(&t.ID, &t.UserID, &t.AccountID, &t.CategoryID, &t.Date,
		&t.Description, &amount, &t.TransactionType, &t.IsCategorized, &t.CreatedAt)
	if err != nil {
		return models.Transaction{}, err
	}
	t.Amount, err = decimal.NewFromString(amount)
	if err != nil {
		return models.Transaction{}, fmt.Errorf("failed to parse stored amount '%s': %w", amount, err)
	}
	return t, nil
}

func collectTransactions(rows pgx.Rows) ([]models.Transaction, error) {
	defer rows.Close()
	var out []models.Transaction
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// ExistingDedupKeys returns the dedup keys of all persisted transactions for
// an account. The ingestor checks candidates against this set before insert.
func (s *Store) ExistingDedupKeys(ctx context.Context, accountID int64) (map[string]struct{}, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT date, amount::text, description FROM transactions WHERE account_id = $1`,
		accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to query existing transactions: %w", err)
	}
	defer rows.Close()

	keys := make(map[string]struct{})
	for rows.Next() {
		var date time.Time
		var amountStr, description string
		if err := rows.Scan(&date, &amountStr, &description); err != nil {
			return nil, err
		}
		amount, err := decimal.NewFromString(amountStr)
		if err != nil {
			return nil, fmt.Errorf("failed to parse stored amount '%s': %w", amountStr, err)
		}
		keys[models.DedupKey(date, amount, description)] = struct{}{}
	}
	return keys, rows.Err()
}

// InsertBatch inserts all candidates inside one database transaction and
// returns the created records. Any write error rolls back the whole batch.
func (s *Store) InsertBatch(ctx context.Context, userID, accountID int64, candidates []models.CandidateTransaction) ([]models.Transaction, error) {
	if len(candidates) == 0 {
		return nil, nil
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, &apperror.StoreWriteError{Op: "begin", Err: err}
	}
	defer tx.Rollback(ctx) //nolint:errcheck // rollback after commit is a no-op

	created := make([]models.Transaction, 0, len(candidates))
	for _, c := range candidates {
		row := tx.QueryRow(ctx,
			`INSERT INTO transactions (user_id, account_id, date, description, amount, transaction_type)
			 VALUES ($1, $2, $3, $4, $5, $6)
			 RETURNING `+transactionColumns,
			userID, accountID, c.Date, c.Description, c.Amount, c.TransactionType)
		t, err := scanTransaction(row)
		if err != nil {
			return nil, &apperror.StoreWriteError{Op: "insert transaction", Err: err}
		}
		created = append(created, t)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, &apperror.StoreWriteError{Op: "commit", Err: err}
	}
	return created, nil
}

// TransactionsByIDs loads the given transactions, restricted to the user.
func (s *Store) TransactionsByIDs(ctx context.Context, userID int64, ids []int64) ([]models.Transaction, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT `+transactionColumns+` FROM transactions
		 WHERE user_id = $1 AND id = ANY($2) ORDER BY id`,
		userID, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions by ids: %w", err)
	}
	return collectTransactions(rows)
}

// UncategorizedTransactions returns every uncategorized transaction for a user.
func (s *Store) UncategorizedTransactions(ctx context.Context, userID int64) ([]models.Transaction, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT `+transactionColumns+` FROM transactions
		 WHERE user_id = $1 AND is_categorized = FALSE ORDER BY id`,
		userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query uncategorized transactions: %w", err)
	}
	return collectTransactions(rows)
}

// AssignCategory sets a transaction's category and marks it categorized.
func (s *Store) AssignCategory(ctx context.Context, transactionID, categoryID int64) error {
	_, err := s.pool.Exec(ctx,
		`UPDATE transactions SET category_id = $2, is_categorized = TRUE WHERE id = $1`,
		transactionID, categoryID)
	if err != nil {
		return &apperror.StoreWriteError{Op: "assign category", Err: err}
	}
	return nil
}

// TransactionFilter narrows ListTransactions.
type TransactionFilter struct {
	AccountID  int64
	CategoryID int64
	StartDate  time.Time
	EndDate    time.Time
	Limit      int
	Offset     int
}

// ListTransactions returns a user's transactions newest first, honoring the
// optional filters.
func (s *Store) ListTransactions(ctx context.Context, userID int64, filter TransactionFilter) ([]models.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE user_id = $1`
	args := []interface{}{userID}

	if filter.AccountID != 0 {
		args = append(args, filter.AccountID)
		query += fmt.Sprintf(" AND account_id = $%d", len(args))
	}
	if filter.CategoryID != 0 {
		args = append(args, filter.CategoryID)
		query += fmt.Sprintf(" AND category_id = $%d", len(args))
	}
	if !filter.StartDate.IsZero() {
		args = append(args, filter.StartDate)
		query += fmt.Sprintf(" AND date >= $%d", len(args))
	}
	if !filter.EndDate.IsZero() {
		args = append(args, filter.EndDate)
		query += fmt.Sprintf(" AND date <= $%d", len(args))
	}

	query += " ORDER BY date DESC, id DESC"

	limit := filter.Limit
	if limit <= 0 {
		limit = 100
	}
	args = append(args, limit)
	query += fmt.Sprintf(" LIMIT $%d", len(args))
	if filter.Offset > 0 {
		args = append(args, filter.Offset)
		query += fmt.Sprintf(" OFFSET $%d", len(args))
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	return collectTransactions(rows)
}

// GetTransaction loads one transaction owned by the user.
func (s *Store) GetTransaction(ctx context.Context, userID, id int64) (models.Transaction, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT `+transactionColumns+` FROM transactions WHERE id = $1 AND user_id = $2`,
		id, userID)
	t, err := scanTransaction(row)
	if err == pgx.ErrNoRows {
		return models.Transaction{}, &apperror.NotFoundError{Resource: "transaction", ID: id}
	}
	return t, err
}

// CreateTransaction inserts a manually entered transaction.
func (s *Store) CreateTransaction(ctx context.Context, t models.Transaction) (models.Transaction, error) {
	row := s.pool.QueryRow(ctx,
		`INSERT INTO transactions (user_id, account_id, category_id, date, description, amount, transaction_type, is_categorized)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 RETURNING `+transactionColumns,
		t.UserID, t.AccountID, t.CategoryID, t.Date, t.Description, t.Amount,
		t.TransactionType, t.CategoryID != nil)
	created, err := scanTransaction(row)
	if err != nil {
		return models.Transaction{}, &apperror.StoreWriteError{Op: "create transaction", Err: err}
	}
	return created, nil
}

// UpdateTransaction changes a transaction's category and/or description.
// A non-nil categoryID also marks the transaction categorized.
func (s *Store) UpdateTransaction(ctx context.Context, userID, id int64, categoryID *int64, description *string) (models.Transaction, error) {
	if _, err := s.GetTransaction(ctx, userID, id); err != nil {
		return models.Transaction{}, err
	}
	if categoryID != nil {
		if err := s.AssignCategory(ctx, id, *categoryID); err != nil {
			return models.Transaction{}, err
		}
	}
	if description != nil {
		if _, err := s.pool.Exec(ctx,
			`UPDATE transactions SET description = $2 WHERE id = $1`, id, *description); err != nil {
			return models.Transaction{}, &apperror.StoreWriteError{Op: "update description", Err: err}
		}
	}
	return s.GetTransaction(ctx, userID, id)
}

// DeleteTransaction removes one transaction owned by the user.
func (s *Store) DeleteTransaction(ctx context.Context, userID, id int64) error {
	tag, err := s.pool.Exec(ctx,
		`DELETE FROM transactions WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return &apperror.StoreWriteError{Op: "delete transaction", Err: err}
	}
	if tag.RowsAffected() == 0 {
		return &apperror.NotFoundError{Resource: "transaction", ID: id}
	}
	return nil
}
