package categorizer

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"financetrack/internal/logging"
)

// GeminiClient suggests categories using Google's Gemini models.
type GeminiClient struct {
	client  *genai.Client
	model   *genai.GenerativeModel
	timeout time.Duration
	logger  logging.Logger
}

// NewGeminiClient creates a Gemini-backed AIClient. apiKey must be non-empty.
func NewGeminiClient(ctx context.Context, apiKey, modelName string, timeout time.Duration, logger logging.Logger) (*GeminiClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini API key not set")
	}
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	return &GeminiClient{
		client:  client,
		model:   client.GenerativeModel(modelName),
		timeout: timeout,
		logger:  logger,
	}, nil
}

// Close releases the underlying API client.
func (g *GeminiClient) Close() error {
	return g.client.Close()
}

// SuggestCategory asks Gemini to pick one of the candidate category names for
// the transaction description. It returns NoMatch when the model declines to
// pick a category.
func (g *GeminiClient) SuggestCategory(ctx context.Context, description string, candidates []string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	prompt := fmt.Sprintf(`Categorize the following financial transaction:
Description: %s

Pick exactly one category from this list:
%s

Respond with only the category name, nothing else. If none of the
categories fit, respond with the single word "none".`,
		description,
		strings.Join(candidates, ", "))

	resp, err := g.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("Gemini API error: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("empty response from Gemini API")
	}

	answer := strings.TrimSpace(fmt.Sprintf("%v", resp.Candidates[0].Content.Parts[0]))
	// Models occasionally echo a "Category:" prefix despite the instruction.
	answer = strings.TrimSpace(strings.TrimPrefix(answer, "Category:"))

	g.logger.WithFields(
		logging.F("description", description),
		logging.F("suggestion", answer),
	).Debug("Gemini category suggestion")

	return answer, nil
}
