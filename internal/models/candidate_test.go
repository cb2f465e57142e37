package models

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestNewCandidate(t *testing.T) {
	date := time.Date(2024, time.January, 15, 14, 30, 0, 0, time.UTC)

	expense := NewCandidate(date, "COFFEE SHOP", decimal.RequireFromString("-5.50"))
	assert.Equal(t, TransactionTypeExpense, expense.TransactionType)
	assert.Equal(t, "2024-01-15 00:00:00", expense.Date.Format("2006-01-02 15:04:05"),
		"time component is normalized away")

	income := NewCandidate(date, "PAYCHECK", decimal.RequireFromString("2500.00"))
	assert.Equal(t, TransactionTypeIncome, income.TransactionType)
}

func TestDedupKey(t *testing.T) {
	date := time.Date(2024, time.January, 15, 0, 0, 0, 0, time.UTC)
	amount := decimal.RequireFromString("-5.5")

	key := DedupKey(date, amount, "COFFEE SHOP")
	assert.Equal(t, "2024-01-15|-5.50|COFFEE SHOP", key)

	// Equivalent decimal representations produce the same key
	assert.Equal(t, key, DedupKey(date, decimal.RequireFromString("-5.50"), "COFFEE SHOP"))

	// Any differing component produces a different key
	assert.NotEqual(t, key, DedupKey(date.AddDate(0, 0, 1), amount, "COFFEE SHOP"))
	assert.NotEqual(t, key, DedupKey(date, decimal.RequireFromString("-5.51"), "COFFEE SHOP"))
	assert.NotEqual(t, key, DedupKey(date, amount, "coffee shop"), "descriptions are case-sensitive")

	c := NewCandidate(date, "COFFEE SHOP", amount)
	assert.Equal(t, key, c.DedupKey())
}
