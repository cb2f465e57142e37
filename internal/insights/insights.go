// Package insights builds monthly spending summaries from aggregated
// transaction data, with an optional AI-written narrative.
package insights

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"financetrack/internal/dateutils"
	"financetrack/internal/logging"
	"financetrack/internal/store"
)

// Store is the aggregation surface the insights service reads from.
type Store interface {
	TotalsForMonth(ctx context.Context, userID int64, start, end time.Time) (store.MonthlyTotals, error)
	ExpensesByCategory(ctx context.Context, userID int64, start, end time.Time) ([]store.CategoryTotal, error)
	TopExpenses(ctx context.Context, userID int64, start, end time.Time, limit int) ([]store.ExpenseRow, error)
}

// Summarizer writes a short narrative for a monthly report. Implementations
// own their timeouts; errors are advisory.
type Summarizer interface {
	SummarizeMonth(ctx context.Context, report MonthlyReport) (string, error)
}

// CategoryShare is one category's slice of the month's expenses.
type CategoryShare struct {
	Category   string          `json:"category"`
	Amount     decimal.Decimal `json:"amount"`
	Percentage float64         `json:"percentage"`
}

// TopExpense is one of the month's largest expense transactions.
type TopExpense struct {
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	Date        string          `json:"date"`
}

// MonthlyReport is the assembled monthly insight payload.
type MonthlyReport struct {
	Month       int             `json:"month"`
	Year        int             `json:"year"`
	Income      decimal.Decimal `json:"total_income"`
	Expenses    decimal.Decimal `json:"total_expenses"`
	NetSavings  decimal.Decimal `json:"net_savings"`
	Breakdown   []CategoryShare `json:"category_breakdown"`
	TopExpenses []TopExpense    `json:"top_expenses"`
	Summary     string          `json:"summary"`
}

// Service assembles monthly reports.
type Service struct {
	store      Store
	summarizer Summarizer
	logger     logging.Logger
}

// New creates an insights Service. summarizer may be nil; reports then carry
// the fallback summary text.
func New(s Store, summarizer Summarizer, logger logging.Logger) *Service {
	return &Service{store: s, summarizer: summarizer, logger: logger}
}

const fallbackSummary = "Summary unavailable."

// MonthlyReport aggregates totals, the per-category expense breakdown and the
// largest expenses for one calendar month. A summarizer failure degrades to a
// placeholder summary rather than failing the report.
func (s *Service) MonthlyReport(ctx context.Context, userID int64, month, year int) (MonthlyReport, error) {
	start, end := dateutils.MonthRange(time.Month(month), year)

	totals, err := s.store.TotalsForMonth(ctx, userID, start, end)
	if err != nil {
		return MonthlyReport{}, err
	}
	byCategory, err := s.store.ExpensesByCategory(ctx, userID, start, end)
	if err != nil {
		return MonthlyReport{}, err
	}
	top, err := s.store.TopExpenses(ctx, userID, start, end, 5)
	if err != nil {
		return MonthlyReport{}, err
	}

	report := MonthlyReport{
		Month:       month,
		Year:        year,
		Income:      totals.Income,
		Expenses:    totals.Expenses,
		NetSavings:  totals.Income.Sub(totals.Expenses),
		Breakdown:   buildBreakdown(byCategory, totals.Expenses),
		TopExpenses: make([]TopExpense, 0, len(top)),
	}
	for _, e := range top {
		report.TopExpenses = append(report.TopExpenses, TopExpense{
			Description: e.Description,
			Amount:      e.Amount,
			Date:        e.Date.Format(dateutils.LayoutISO),
		})
	}

	report.Summary = s.summarize(ctx, report)
	return report, nil
}

func (s *Service) summarize(ctx context.Context, report MonthlyReport) string {
	if s.summarizer == nil {
		return fallbackSummary
	}
	summary, err := s.summarizer.SummarizeMonth(ctx, report)
	if err != nil {
		s.logger.WithError(err).Warn("Monthly summary generation failed, using fallback")
		return fallbackSummary
	}
	return summary
}

func buildBreakdown(byCategory []store.CategoryTotal, totalExpenses decimal.Decimal) []CategoryShare {
	out := make([]CategoryShare, 0, len(byCategory))
	for _, ct := range byCategory {
		share := CategoryShare{Category: ct.CategoryName, Amount: ct.Amount}
		if totalExpenses.IsPositive() {
			pct, _ := ct.Amount.Div(totalExpenses).Mul(decimal.NewFromInt(100)).Round(1).Float64()
			share.Percentage = pct
		}
		out = append(out, share)
	}
	return out
}
