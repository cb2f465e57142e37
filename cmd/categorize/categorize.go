// Package categorize contains the batch categorization command.
package categorize

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"financetrack/cmd/root"
	"financetrack/internal/categorizer"
	"financetrack/internal/logging"
	"financetrack/internal/store"
)

var (
	userID int64
	useAI  bool
)

// Cmd is the categorize command. It runs the rule-then-AI pipeline over all
// of a user's uncategorized transactions.
var Cmd = &cobra.Command{
	Use:   "categorize",
	Short: "Categorize a user's uncategorized transactions",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := root.Cfg
		log := root.Log
		ctx := cmd.Context()

		if userID <= 0 {
			return fmt.Errorf("--user-id is required")
		}

		st, err := store.New(ctx, cfg.Database.URL, log)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		defer st.Close()

		var aiClient categorizer.AIClient
		if useAI && cfg.AI.Enabled && cfg.AI.APIKey != "" {
			timeout := time.Duration(cfg.AI.TimeoutSeconds) * time.Second
			gemini, err := categorizer.NewGeminiClient(ctx, cfg.AI.APIKey, cfg.AI.Model, timeout, log)
			if err != nil {
				return fmt.Errorf("failed to initialize AI client: %w", err)
			}
			defer gemini.Close()
			aiClient = gemini
		}

		result, err := categorizer.New(st, aiClient, log).CategorizeBatch(ctx, userID, nil, useAI)
		if err != nil {
			return err
		}

		log.WithFields(
			logging.F("by_rule", result.CategorizedByRule),
			logging.F("by_ai", result.CategorizedByAI),
			logging.F("uncategorized", result.LeftUncategorized),
		).Info("Categorization complete")
		return nil
	},
}

func init() {
	Cmd.Flags().Int64Var(&userID, "user-id", 0, "ID of the user whose transactions to categorize")
	Cmd.Flags().BoolVar(&useAI, "use-ai", true, "fall back to AI for transactions no rule matches")
}
