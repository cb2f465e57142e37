// Package models provides the data structures shared across the application.
package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction type values derived from the amount sign.
const (
	TransactionTypeIncome  = "income"
	TransactionTypeExpense = "expense"
)

// Rule pattern types.
const (
	PatternTypeContains   = "contains"
	PatternTypeStartsWith = "starts_with"
	PatternTypeExact      = "exact"
	PatternTypeRegex      = "regex"
)

// User holds authentication and profile information.
type User struct {
	ID             int64
	Email          string
	HashedPassword string
	FullName       string
	IsActive       bool
	CreatedAt      time.Time
}

// Account represents a bank account owned by a user. Every transaction
// belongs to exactly one account.
type Account struct {
	ID          int64
	UserID      int64
	Name        string
	AccountType string
	Balance     decimal.Decimal
	CreatedAt   time.Time
}

// Category is a spending category shared across users.
type Category struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color"`
}

// Rule maps a description pattern to a category. Rules are user-owned and
// evaluated in (priority ASC, id ASC) order; the first match wins.
type Rule struct {
	ID          int64
	UserID      int64
	CategoryID  int64
	Pattern     string
	PatternType string
	Priority    int
	IsActive    bool
	CreatedAt   time.Time
}

// Transaction is the persisted form of a bank transaction. CategoryID is nil
// until the transaction has been categorized.
type Transaction struct {
	ID              int64
	UserID          int64
	AccountID       int64
	CategoryID      *int64
	Date            time.Time
	Description     string
	Amount          decimal.Decimal
	TransactionType string
	IsCategorized   bool
	CreatedAt       time.Time
}
