package insights

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"financetrack/internal/logging"
)

// GeminiSummarizer writes monthly narratives using Google's Gemini models.
type GeminiSummarizer struct {
	client  *genai.Client
	model   *genai.GenerativeModel
	timeout time.Duration
	logger  logging.Logger
}

// NewGeminiSummarizer creates a Gemini-backed Summarizer.
func NewGeminiSummarizer(ctx context.Context, apiKey, modelName string, timeout time.Duration, logger logging.Logger) (*GeminiSummarizer, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini API key not set")
	}
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	return &GeminiSummarizer{
		client:  client,
		model:   client.GenerativeModel(modelName),
		timeout: timeout,
		logger:  logger,
	}, nil
}

// Close releases the underlying API client.
func (g *GeminiSummarizer) Close() error {
	return g.client.Close()
}

// SummarizeMonth asks Gemini for a short plain-language summary of the month.
func (g *GeminiSummarizer) SummarizeMonth(ctx context.Context, report MonthlyReport) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	var categories []string
	for _, share := range report.Breakdown {
		categories = append(categories, fmt.Sprintf("%s: %s (%.1f%%)",
			share.Category, share.Amount.StringFixed(2), share.Percentage))
	}

	prompt := fmt.Sprintf(`Write a short, friendly summary (2-3 sentences) of this monthly financial report:

Month: %d/%d
Income: %s
Expenses: %s
Net savings: %s
Spending by category:
%s

Mention the biggest spending category and whether the month ended with savings. Plain text only.`,
		report.Month, report.Year,
		report.Income.StringFixed(2),
		report.Expenses.StringFixed(2),
		report.NetSavings.StringFixed(2),
		strings.Join(categories, "\n"))

	resp, err := g.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("Gemini API error: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("empty response from Gemini API")
	}

	summary := strings.TrimSpace(fmt.Sprintf("%v", resp.Candidates[0].Content.Parts[0]))
	g.logger.WithField("month", fmt.Sprintf("%d/%d", report.Month, report.Year)).Debug("Generated monthly summary")
	return summary, nil
}
