package models

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// CandidateTransaction is a parsed, not-yet-persisted transaction awaiting the
// duplicate check. It carries exactly the fields extracted from a CSV row.
type CandidateTransaction struct {
	Date            time.Time
	Description     string
	Amount          decimal.Decimal
	TransactionType string
}

// NewCandidate builds a candidate from parsed row values, normalizing the
// date to midnight UTC and deriving the transaction type from the amount sign.
func NewCandidate(date time.Time, description string, amount decimal.Decimal) CandidateTransaction {
	transactionType := TransactionTypeIncome
	if amount.IsNegative() {
		transactionType = TransactionTypeExpense
	}
	return CandidateTransaction{
		Date:            time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC),
		Description:     strings.TrimSpace(description),
		Amount:          amount,
		TransactionType: transactionType,
	}
}

// DedupKey identifies a transaction for duplicate detection: exact equality on
// date, amount and description, scoped per account by the caller.
func (c CandidateTransaction) DedupKey() string {
	return DedupKey(c.Date, c.Amount, c.Description)
}

// DedupKey builds the duplicate-detection key for any transaction fields.
func DedupKey(date time.Time, amount decimal.Decimal, description string) string {
	return date.Format("2006-01-02") + "|" + amount.StringFixed(2) + "|" + description
}
