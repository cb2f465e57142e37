package categorizer

import "context"

// NoMatch is the sentinel the AI collaborator returns when no candidate
// category fits the description.
const NoMatch = "none"

// AIClient is the interface to the AI categorization collaborator. It keeps
// the categorization logic testable independently of external API calls.
type AIClient interface {
	// SuggestCategory returns the name of the best-fitting candidate category
	// for the description, or NoMatch. The implementation owns its timeout.
	// Errors are advisory: the caller leaves the transaction uncategorized
	// and moves on.
	SuggestCategory(ctx context.Context, description string, candidates []string) (string, error)
}
