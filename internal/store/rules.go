package store

import (
	"context"
	"fmt"

	"financetrack/internal/apperror"
	"financetrack/internal/models"
)

// ActiveRules returns a user's active rules in evaluation order: priority
// ascending, then id ascending. The ordering is part of the categorizer's
// contract, so it is enforced here rather than re-sorted by callers.
func (s *Store) ActiveRules(ctx context.Context, userID int64) ([]models.Rule, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, user_id, category_id, pattern, pattern_type, priority, is_active, created_at
		 FROM rules
		 WHERE user_id = $1 AND is_active = TRUE
		 ORDER BY priority ASC, id ASC`,
		userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query rules: %w", err)
	}
	defer rows.Close()

	var out []models.Rule
	for rows.Next() {
		var r models.Rule
		if err := rows.Scan(&r.ID, &r.UserID, &r.CategoryID, &r.Pattern,
			&r.PatternType, &r.Priority, &r.IsActive, &r.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// CreateRule inserts a new categorization rule.
func (s *Store) CreateRule(ctx context.Context, r models.Rule) (models.Rule, error) {
	row := s.pool.QueryRow(ctx,
		`INSERT INTO rules (user_id, category_id, pattern, pattern_type, priority, is_active)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id, created_at`,
		r.UserID, r.CategoryID, r.Pattern, r.PatternType, r.Priority, r.IsActive)
	if err := row.Scan(&r.ID, &r.CreatedAt); err != nil {
		return models.Rule{}, &apperror.StoreWriteError{Op: "create rule", Err: err}
	}
	return r, nil
}

// ListRules returns all of a user's rules, active or not, in evaluation order.
func (s *Store) ListRules(ctx context.Context, userID int64) ([]models.Rule, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, user_id, category_id, pattern, pattern_type, priority, is_active, created_at
		 FROM rules WHERE user_id = $1 ORDER BY priority ASC, id ASC`,
		userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list rules: %w", err)
	}
	defer rows.Close()

	var out []models.Rule
	for rows.Next() {
		var r models.Rule
		if err := rows.Scan(&r.ID, &r.UserID, &r.CategoryID, &r.Pattern,
			&r.PatternType, &r.Priority, &r.IsActive, &r.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// DeleteRule removes one rule owned by the user.
func (s *Store) DeleteRule(ctx context.Context, userID, id int64) error {
	tag, err := s.pool.Exec(ctx,
		`DELETE FROM rules WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return &apperror.StoreWriteError{Op: "delete rule", Err: err}
	}
	if tag.RowsAffected() == 0 {
		return &apperror.NotFoundError{Resource: "rule", ID: id}
	}
	return nil
}
