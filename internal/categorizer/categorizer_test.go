package categorizer

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"financetrack/internal/logging"
	"financetrack/internal/models"
)

// fakeStore serves canned rules and transactions and records assignments.
type fakeStore struct {
	rules        []models.Rule
	categories   []models.Category
	transactions []models.Transaction
	assigned     map[int64]int64 // transaction id -> category id
}

func (f *fakeStore) ActiveRules(ctx context.Context, userID int64) ([]models.Rule, error) {
	return f.rules, nil
}

func (f *fakeStore) Categories(ctx context.Context) ([]models.Category, error) {
	return f.categories, nil
}

func (f *fakeStore) TransactionsByIDs(ctx context.Context, userID int64, ids []int64) ([]models.Transaction, error) {
	want := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		want[id] = struct{}{}
	}
	var out []models.Transaction
	for _, t := range f.transactions {
		if _, ok := want[t.ID]; ok {
			out = append(out, t)
		}
	}
	return out, nil
}

func (f *fakeStore) UncategorizedTransactions(ctx context.Context, userID int64) ([]models.Transaction, error) {
	var out []models.Transaction
	for _, t := range f.transactions {
		if !t.IsCategorized {
			out = append(out, t)
		}
	}
	return out, nil
}

func (f *fakeStore) AssignCategory(ctx context.Context, transactionID, categoryID int64) error {
	if f.assigned == nil {
		f.assigned = make(map[int64]int64)
	}
	f.assigned[transactionID] = categoryID
	return nil
}

// fakeAI returns a fixed answer or error for every call.
type fakeAI struct {
	answer string
	err    error
	calls  int
}

func (f *fakeAI) SuggestCategory(ctx context.Context, description string, candidates []string) (string, error) {
	f.calls++
	return f.answer, f.err
}

func rule(id, categoryID int64, pattern, patternType string, priority int) models.Rule {
	return models.Rule{
		ID:          id,
		UserID:      1,
		CategoryID:  categoryID,
		Pattern:     pattern,
		PatternType: patternType,
		Priority:    priority,
		IsActive:    true,
	}
}

func TestCategorizeBatchRuleMatch(t *testing.T) {
	store := &fakeStore{
		rules: []models.Rule{
			rule(1, 100, "starbucks", models.PatternTypeContains, 1),
		},
		transactions: []models.Transaction{
			{ID: 1, Description: "STARBUCKS COFFEE #1234"},
			{ID: 2, Description: "SOMETHING ELSE"},
		},
	}
	c := New(store, nil, logging.NewMockLogger())

	result, err := c.CategorizeBatch(context.Background(), 1, nil, false)
	require.NoError(t, err)

	assert.Equal(t, 1, result.CategorizedByRule)
	assert.Equal(t, 0, result.CategorizedByAI)
	assert.Equal(t, 1, result.LeftUncategorized)
	assert.Equal(t, int64(100), store.assigned[1])
}

func TestCategorizeBatchPriorityOrder(t *testing.T) {
	// Both rules match "STARBUCKS COFFEE". Rules arrive from the store in
	// (priority ASC, id ASC) order; the first match must win deterministically.
	store := &fakeStore{
		rules: []models.Rule{
			rule(7, 200, "starbucks coffee", models.PatternTypeContains, 1),
			rule(3, 100, "starbucks", models.PatternTypeContains, 5),
		},
		transactions: []models.Transaction{
			{ID: 1, Description: "STARBUCKS COFFEE #1234"},
		},
	}
	c := New(store, nil, logging.NewMockLogger())

	result, err := c.CategorizeBatch(context.Background(), 1, nil, false)
	require.NoError(t, err)

	assert.Equal(t, 1, result.CategorizedByRule)
	assert.Equal(t, int64(200), store.assigned[1], "the lower-priority-number rule wins")
}

func TestCategorizeBatchEqualPriorityLowerIDWins(t *testing.T) {
	// Same priority: the store orders by id ASC, so rule 3 is evaluated first.
	store := &fakeStore{
		rules: []models.Rule{
			rule(3, 100, "starbucks", models.PatternTypeContains, 5),
			rule(7, 200, "coffee", models.PatternTypeContains, 5),
		},
		transactions: []models.Transaction{
			{ID: 1, Description: "STARBUCKS COFFEE"},
		},
	}
	c := New(store, nil, logging.NewMockLogger())

	_, err := c.CategorizeBatch(context.Background(), 1, nil, false)
	require.NoError(t, err)
	assert.Equal(t, int64(100), store.assigned[1])
}

func TestCategorizeBatchPatternTypes(t *testing.T) {
	tests := []struct {
		name        string
		pattern     string
		patternType string
		description string
		wantMatch   bool
	}{
		{"contains hit", "uber", models.PatternTypeContains, "UBER TRIP 1234", true},
		{"contains miss", "uber", models.PatternTypeContains, "LYFT RIDE", false},
		{"starts_with hit", "amzn", models.PatternTypeStartsWith, "AMZN Mktp US", true},
		{"starts_with miss mid-string", "amzn", models.PatternTypeStartsWith, "PAYMENT AMZN", false},
		{"exact hit ignores case", "netflix.com", models.PatternTypeExact, "NETFLIX.COM", true},
		{"exact miss on extra text", "netflix.com", models.PatternTypeExact, "NETFLIX.COM 123", false},
		{"regex hit", `^shell \d+`, models.PatternTypeRegex, "SHELL 4415 GAS", true},
		{"regex miss", `^shell \d+`, models.PatternTypeRegex, "SHELL STATION", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := &fakeStore{
				rules:        []models.Rule{rule(1, 100, tt.pattern, tt.patternType, 1)},
				transactions: []models.Transaction{{ID: 1, Description: tt.description}},
			}
			c := New(store, nil, logging.NewMockLogger())

			result, err := c.CategorizeBatch(context.Background(), 1, nil, false)
			require.NoError(t, err)

			if tt.wantMatch {
				assert.Equal(t, 1, result.CategorizedByRule)
				assert.Equal(t, int64(100), store.assigned[1])
			} else {
				assert.Equal(t, 1, result.LeftUncategorized)
				assert.NotContains(t, store.assigned, int64(1))
			}
		})
	}
}

func TestCategorizeBatchMalformedRegexNeverMatches(t *testing.T) {
	logger := logging.NewMockLogger()
	store := &fakeStore{
		rules: []models.Rule{
			rule(1, 100, "(unclosed", models.PatternTypeRegex, 1),
			rule(2, 200, "coffee", models.PatternTypeContains, 2),
		},
		transactions: []models.Transaction{
			{ID: 1, Description: "COFFEE (unclosed"},
		},
	}
	c := New(store, nil, logger)

	result, err := c.CategorizeBatch(context.Background(), 1, nil, false)
	require.NoError(t, err)

	// The malformed rule is skipped, the next rule still applies
	assert.Equal(t, int64(200), store.assigned[1])
	assert.Equal(t, 1, result.CategorizedByRule)
	assert.True(t, logger.HasMessage("Malformed regex rule, treating as non-match"))
}

func TestCategorizeBatchAIFallback(t *testing.T) {
	ai := &fakeAI{answer: "Food & Dining"}
	store := &fakeStore{
		categories: []models.Category{
			{ID: 10, Name: "Food & Dining"},
			{ID: 11, Name: "Transport"},
		},
		transactions: []models.Transaction{
			{ID: 1, Description: "NEW RESTAURANT"},
		},
	}
	c := New(store, ai, logging.NewMockLogger())

	result, err := c.CategorizeBatch(context.Background(), 1, nil, true)
	require.NoError(t, err)

	assert.Equal(t, 1, result.CategorizedByAI)
	assert.Equal(t, int64(10), store.assigned[1])
	assert.Equal(t, 1, ai.calls)
}

func TestCategorizeBatchAICaseInsensitiveMatch(t *testing.T) {
	ai := &fakeAI{answer: "food & dining"}
	store := &fakeStore{
		categories:   []models.Category{{ID: 10, Name: "Food & Dining"}},
		transactions: []models.Transaction{{ID: 1, Description: "TACO TRUCK"}},
	}
	c := New(store, ai, logging.NewMockLogger())

	result, err := c.CategorizeBatch(context.Background(), 1, nil, true)
	require.NoError(t, err)
	assert.Equal(t, 1, result.CategorizedByAI)
	assert.Equal(t, int64(10), store.assigned[1])
}

func TestCategorizeBatchAIDeclines(t *testing.T) {
	ai := &fakeAI{answer: NoMatch}
	store := &fakeStore{
		categories:   []models.Category{{ID: 10, Name: "Food & Dining"}},
		transactions: []models.Transaction{{ID: 1, Description: "MYSTERY CHARGE"}},
	}
	c := New(store, ai, logging.NewMockLogger())

	result, err := c.CategorizeBatch(context.Background(), 1, nil, true)
	require.NoError(t, err)
	assert.Equal(t, 1, result.LeftUncategorized)
	assert.Empty(t, store.assigned)
}

func TestCategorizeBatchAIUnrecognizedName(t *testing.T) {
	ai := &fakeAI{answer: "Cryptocurrency"}
	store := &fakeStore{
		categories:   []models.Category{{ID: 10, Name: "Food & Dining"}},
		transactions: []models.Transaction{{ID: 1, Description: "COINBASE"}},
	}
	logger := logging.NewMockLogger()
	c := New(store, ai, logger)

	result, err := c.CategorizeBatch(context.Background(), 1, nil, true)
	require.NoError(t, err)

	assert.Equal(t, 1, result.LeftUncategorized)
	assert.Empty(t, store.assigned)
	assert.True(t, logger.HasMessage("AI returned unrecognized category name, leaving uncategorized"))
}

func TestCategorizeBatchAIErrorDoesNotFailBatch(t *testing.T) {
	ai := &fakeAI{err: errors.New("api quota exceeded")}
	store := &fakeStore{
		categories: []models.Category{{ID: 10, Name: "Food & Dining"}},
		rules: []models.Rule{
			rule(1, 100, "starbucks", models.PatternTypeContains, 1),
		},
		transactions: []models.Transaction{
			{ID: 1, Description: "MYSTERY CHARGE"},
			{ID: 2, Description: "STARBUCKS COFFEE"},
		},
	}
	c := New(store, ai, logging.NewMockLogger())

	result, err := c.CategorizeBatch(context.Background(), 1, nil, true)
	require.NoError(t, err, "an AI failure is advisory, never fatal")

	assert.Equal(t, 1, result.CategorizedByRule)
	assert.Equal(t, 1, result.LeftUncategorized)
	assert.Equal(t, int64(100), store.assigned[2])
}

func TestCategorizeBatchSkipsAlreadyCategorized(t *testing.T) {
	categoryID := int64(100)
	store := &fakeStore{
		rules: []models.Rule{
			rule(1, 200, "coffee", models.PatternTypeContains, 1),
		},
		transactions: []models.Transaction{
			{ID: 1, Description: "COFFEE SHOP", CategoryID: &categoryID, IsCategorized: true},
		},
	}
	c := New(store, nil, logging.NewMockLogger())

	// Target the transaction explicitly: it must still be skipped
	result, err := c.CategorizeBatch(context.Background(), 1, []int64{1}, false)
	require.NoError(t, err)

	assert.Equal(t, models.CategorizeResult{}, result)
	assert.Empty(t, store.assigned, "existing assignments are never overwritten")
}

func TestCategorizeBatchNoAIWhenDisabled(t *testing.T) {
	ai := &fakeAI{answer: "Food & Dining"}
	store := &fakeStore{
		categories:   []models.Category{{ID: 10, Name: "Food & Dining"}},
		transactions: []models.Transaction{{ID: 1, Description: "RESTAURANT"}},
	}
	c := New(store, ai, logging.NewMockLogger())

	result, err := c.CategorizeBatch(context.Background(), 1, nil, false)
	require.NoError(t, err)

	assert.Equal(t, 1, result.LeftUncategorized)
	assert.Zero(t, ai.calls, "the AI client must not be called when use_ai is false")
}
