package insights

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"financetrack/internal/logging"
	"financetrack/internal/store"
)

type fakeStore struct {
	totals     store.MonthlyTotals
	byCategory []store.CategoryTotal
	top        []store.ExpenseRow

	gotStart, gotEnd time.Time
}

func (f *fakeStore) TotalsForMonth(ctx context.Context, userID int64, start, end time.Time) (store.MonthlyTotals, error) {
	f.gotStart, f.gotEnd = start, end
	return f.totals, nil
}

func (f *fakeStore) ExpensesByCategory(ctx context.Context, userID int64, start, end time.Time) ([]store.CategoryTotal, error) {
	return f.byCategory, nil
}

func (f *fakeStore) TopExpenses(ctx context.Context, userID int64, start, end time.Time, limit int) ([]store.ExpenseRow, error) {
	return f.top, nil
}

type fakeSummarizer struct {
	summary string
	err     error
}

func (f *fakeSummarizer) SummarizeMonth(ctx context.Context, report MonthlyReport) (string, error) {
	return f.summary, f.err
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestMonthlyReport(t *testing.T) {
	st := &fakeStore{
		totals: store.MonthlyTotals{Income: dec("3000"), Expenses: dec("2000")},
		byCategory: []store.CategoryTotal{
			{CategoryName: "Food & Dining", Amount: dec("1500")},
			{CategoryName: "Transport", Amount: dec("500")},
		},
		top: []store.ExpenseRow{
			{Description: "RENT", Amount: dec("1200"), Date: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)},
		},
	}
	svc := New(st, &fakeSummarizer{summary: "A frugal month."}, logging.NewMockLogger())

	report, err := svc.MonthlyReport(context.Background(), 1, 3, 2024)
	require.NoError(t, err)

	assert.Equal(t, 3, report.Month)
	assert.Equal(t, 2024, report.Year)
	assert.True(t, report.NetSavings.Equal(dec("1000")))
	assert.Equal(t, "A frugal month.", report.Summary)

	// The month range is [start of month, start of next month)
	assert.Equal(t, "2024-03-01", st.gotStart.Format("2006-01-02"))
	assert.Equal(t, "2024-04-01", st.gotEnd.Format("2006-01-02"))

	require.Len(t, report.Breakdown, 2)
	assert.Equal(t, "Food & Dining", report.Breakdown[0].Category)
	assert.InDelta(t, 75.0, report.Breakdown[0].Percentage, 0.01)
	assert.InDelta(t, 25.0, report.Breakdown[1].Percentage, 0.01)

	require.Len(t, report.TopExpenses, 1)
	assert.Equal(t, "RENT", report.TopExpenses[0].Description)
	assert.Equal(t, "2024-03-01", report.TopExpenses[0].Date)
}

func TestMonthlyReportSummarizerFailureDegrades(t *testing.T) {
	st := &fakeStore{totals: store.MonthlyTotals{Income: dec("100"), Expenses: dec("50")}}
	logger := logging.NewMockLogger()
	svc := New(st, &fakeSummarizer{err: errors.New("model overloaded")}, logger)

	report, err := svc.MonthlyReport(context.Background(), 1, 1, 2024)
	require.NoError(t, err, "a summarizer failure must not fail the report")
	assert.Equal(t, "Summary unavailable.", report.Summary)
	assert.True(t, logger.HasMessage("Monthly summary generation failed, using fallback"))
}

func TestMonthlyReportNoSummarizer(t *testing.T) {
	st := &fakeStore{}
	svc := New(st, nil, logging.NewMockLogger())

	report, err := svc.MonthlyReport(context.Background(), 1, 6, 2024)
	require.NoError(t, err)
	assert.Equal(t, "Summary unavailable.", report.Summary)
	assert.Empty(t, report.Breakdown)
	assert.Empty(t, report.TopExpenses)
	assert.True(t, report.NetSavings.IsZero())
}
