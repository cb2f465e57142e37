package store

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// MonthlyTotals holds aggregate income and expenses for one month.
type MonthlyTotals struct {
	Income   decimal.Decimal
	Expenses decimal.Decimal
}

// CategoryTotal is one slice of the expense breakdown.
type CategoryTotal struct {
	CategoryName string
	Amount       decimal.Decimal
}

// ExpenseRow is one of the month's largest expenses.
type ExpenseRow struct {
	Description string
	Amount      decimal.Decimal
	Date        time.Time
}

// TotalsForMonth aggregates income and expense totals for a user's month.
// Expenses are returned as a positive magnitude.
func (s *Store) TotalsForMonth(ctx context.Context, userID int64, start, end time.Time) (MonthlyTotals, error) {
	var income, expenses string
	err := s.pool.QueryRow(ctx,
		`SELECT
			COALESCE(SUM(amount) FILTER (WHERE amount > 0), 0)::text,
			COALESCE(ABS(SUM(amount) FILTER (WHERE amount < 0)), 0)::text
		 FROM transactions
		 WHERE user_id = $1 AND date >= $2 AND date < $3`,
		userID, start, end).Scan(&income, &expenses)
	if err != nil {
		return MonthlyTotals{}, fmt.Errorf("failed to aggregate monthly totals: %w", err)
	}

	var totals MonthlyTotals
	if totals.Income, err = decimal.NewFromString(income); err != nil {
		return MonthlyTotals{}, err
	}
	if totals.Expenses, err = decimal.NewFromString(expenses); err != nil {
		return MonthlyTotals{}, err
	}
	return totals, nil
}

// ExpensesByCategory aggregates a month's expenses per category, largest first.
func (s *Store) ExpensesByCategory(ctx context.Context, userID int64, start, end time.Time) ([]CategoryTotal, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT c.name, ABS(SUM(t.amount))::text
		 FROM transactions t
		 JOIN categories c ON c.id = t.category_id
		 WHERE t.user_id = $1 AND t.date >= $2 AND t.date < $3 AND t.amount < 0
		 GROUP BY c.name
		 ORDER BY ABS(SUM(t.amount)) DESC`,
		userID, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate category breakdown: %w", err)
	}
	defer rows.Close()

	var out []CategoryTotal
	for rows.Next() {
		var ct CategoryTotal
		var amount string
		if err := rows.Scan(&ct.CategoryName, &amount); err != nil {
			return nil, err
		}
		if ct.Amount, err = decimal.NewFromString(amount); err != nil {
			return nil, err
		}
		out = append(out, ct)
	}
	return out, rows.Err()
}

// TopExpenses returns the month's largest expense transactions.
func (s *Store) TopExpenses(ctx context.Context, userID int64, start, end time.Time, limit int) ([]ExpenseRow, error) {
	if limit <= 0 {
		limit = 5
	}
	rows, err := s.pool.Query(ctx,
		`SELECT description, ABS(amount)::text, date
		 FROM transactions
		 WHERE user_id = $1 AND date >= $2 AND date < $3 AND amount < 0
		 ORDER BY amount ASC
		 LIMIT $4`,
		userID, start, end, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query top expenses: %w", err)
	}
	defer rows.Close()

	var out []ExpenseRow
	for rows.Next() {
		var e ExpenseRow
		var amount string
		if err := rows.Scan(&e.Description, &amount, &e.Date); err != nil {
			return nil, err
		}
		if e.Amount, err = decimal.NewFromString(amount); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
