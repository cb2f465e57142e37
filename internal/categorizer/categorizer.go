// Package categorizer assigns categories to transactions using a two-tier
// strategy: user-defined pattern rules first, then an AI fallback. A
// transaction no rule or AI suggestion resolves stays uncategorized.
package categorizer

import (
	"context"
	"strings"

	"financetrack/internal/logging"
	"financetrack/internal/models"
)

// Store is the persistence surface the categorizer needs.
type Store interface {
	// ActiveRules returns the user's active rules ordered by
	// (priority ASC, id ASC).
	ActiveRules(ctx context.Context, userID int64) ([]models.Rule, error)

	// Categories returns all categories.
	Categories(ctx context.Context) ([]models.Category, error)

	// TransactionsByIDs loads the given transactions, restricted to the user.
	TransactionsByIDs(ctx context.Context, userID int64, ids []int64) ([]models.Transaction, error)

	// UncategorizedTransactions returns all of the user's uncategorized
	// transactions.
	UncategorizedTransactions(ctx context.Context, userID int64) ([]models.Transaction, error)

	// AssignCategory sets a transaction's category and marks it categorized.
	AssignCategory(ctx context.Context, transactionID, categoryID int64) error
}

// Categorizer applies the rule-then-AI pipeline to batches of transactions.
type Categorizer struct {
	store    Store
	aiClient AIClient
	logger   logging.Logger
}

// New creates a Categorizer. aiClient may be nil, in which case the AI tier
// is skipped even when requested.
func New(store Store, aiClient AIClient, logger logging.Logger) *Categorizer {
	return &Categorizer{
		store:    store,
		aiClient: aiClient,
		logger:   logger,
	}
}

// CategorizeBatch categorizes the given transactions, or every uncategorized
// transaction of the user when ids is empty. Transactions are processed
// independently; a failure to categorize one never fails the batch.
func (c *Categorizer) CategorizeBatch(ctx context.Context, userID int64, ids []int64, useAI bool) (models.CategorizeResult, error) {
	var transactions []models.Transaction
	var err error
	if len(ids) > 0 {
		transactions, err = c.store.TransactionsByIDs(ctx, userID, ids)
	} else {
		transactions, err = c.store.UncategorizedTransactions(ctx, userID)
	}
	if err != nil {
		return models.CategorizeResult{}, err
	}

	rules, err := c.store.ActiveRules(ctx, userID)
	if err != nil {
		return models.CategorizeResult{}, err
	}
	compiled := compileRules(rules, c.logger)

	var categories []models.Category
	if useAI && c.aiClient != nil {
		categories, err = c.store.Categories(ctx)
		if err != nil {
			return models.CategorizeResult{}, err
		}
	}

	var result models.CategorizeResult
	for _, t := range transactions {
		if t.IsCategorized {
			// Re-running over already-categorized rows is a no-op
			continue
		}
		switch c.categorizeOne(ctx, t, compiled, categories, useAI) {
		case outcomeRule:
			result.CategorizedByRule++
		case outcomeAI:
			result.CategorizedByAI++
		default:
			result.LeftUncategorized++
		}
	}

	c.logger.WithFields(
		logging.F("user_id", userID),
		logging.F("by_rule", result.CategorizedByRule),
		logging.F("by_ai", result.CategorizedByAI),
		logging.F("uncategorized", result.LeftUncategorized),
	).Info("Categorization batch finished")

	return result, nil
}

type outcome int

const (
	outcomeNone outcome = iota
	outcomeRule
	outcomeAI
)

// categorizeOne runs the rule tier, then the AI tier, for one transaction.
func (c *Categorizer) categorizeOne(ctx context.Context, t models.Transaction, rules []compiledRule, categories []models.Category, useAI bool) outcome {
	if rule, ok := firstMatch(rules, t.Description); ok {
		if err := c.store.AssignCategory(ctx, t.ID, rule.CategoryID); err != nil {
			c.logger.WithError(err).WithField("transaction_id", t.ID).Warn("Failed to persist rule category")
			return outcomeNone
		}
		c.logger.WithFields(
			logging.F("transaction_id", t.ID),
			logging.F("rule_id", rule.ID),
			logging.F("category_id", rule.CategoryID),
		).Debug("Transaction categorized by rule")
		return outcomeRule
	}

	if !useAI || c.aiClient == nil {
		return outcomeNone
	}

	category, ok := c.suggestWithAI(ctx, t, categories)
	if !ok {
		return outcomeNone
	}
	if err := c.store.AssignCategory(ctx, t.ID, category.ID); err != nil {
		c.logger.WithError(err).WithField("transaction_id", t.ID).Warn("Failed to persist AI category")
		return outcomeNone
	}
	c.logger.WithFields(
		logging.F("transaction_id", t.ID),
		logging.F("category", category.Name),
	).Debug("Transaction categorized by AI")
	return outcomeAI
}

// suggestWithAI asks the AI collaborator for a category and maps the answer
// back onto a known category by case-insensitive exact name match. Any
// failure leaves the transaction uncategorized.
func (c *Categorizer) suggestWithAI(ctx context.Context, t models.Transaction, categories []models.Category) (models.Category, bool) {
	if len(categories) == 0 {
		return models.Category{}, false
	}

	names := make([]string, len(categories))
	for i, cat := range categories {
		names[i] = cat.Name
	}

	name, err := c.aiClient.SuggestCategory(ctx, t.Description, names)
	if err != nil {
		c.logger.WithError(err).WithField("transaction_id", t.ID).Warn("AI categorization failed, leaving uncategorized")
		return models.Category{}, false
	}

	name = strings.TrimSpace(name)
	if name == "" || strings.EqualFold(name, NoMatch) {
		return models.Category{}, false
	}

	for _, cat := range categories {
		if strings.EqualFold(cat.Name, name) {
			return cat, true
		}
	}

	c.logger.WithFields(
		logging.F("transaction_id", t.ID),
		logging.F("ai_category", name),
	).Warn("AI returned unrecognized category name, leaving uncategorized")
	return models.Category{}, false
}
