package ingest

import (
	"strings"

	"financetrack/internal/apperror"
)

// Semantic fields every upload must provide.
const (
	FieldDate        = "date"
	FieldDescription = "description"
	FieldAmount      = "amount"
)

// fieldAliases maps each semantic field to its known header aliases in
// priority order. Matching is exact after trim+lowercase normalization; the
// first alias that appears in the header row wins.
var fieldAliases = []struct {
	Field   string
	Aliases []string
}{
	{FieldDate, []string{"date", "transaction date", "posted date"}},
	{FieldDescription, []string{"description", "memo", "details", "transaction"}},
	{FieldAmount, []string{"amount", "transaction amount"}},
}

// normalizeHeader trims and lowercases one header cell.
func normalizeHeader(h string) string {
	return strings.ToLower(strings.TrimSpace(h))
}

// detectColumns resolves the column index of each semantic field from the
// header row. If any field has no matching header the whole upload fails with
// a ColumnDetectionError naming every missing field.
func detectColumns(headers []string) (map[string]int, error) {
	normalized := make(map[string]int, len(headers))
	for i, h := range headers {
		key := normalizeHeader(h)
		if _, seen := normalized[key]; !seen {
			normalized[key] = i
		}
	}

	mapping := make(map[string]int, len(fieldAliases))
	var missing []string
	for _, fa := range fieldAliases {
		found := false
		for _, alias := range fa.Aliases {
			if idx, ok := normalized[alias]; ok {
				mapping[fa.Field] = idx
				found = true
				break
			}
		}
		if !found {
			missing = append(missing, fa.Field)
		}
	}

	if len(missing) > 0 {
		trimmed := make([]string, len(headers))
		for i, h := range headers {
			trimmed[i] = strings.TrimSpace(h)
		}
		return nil, &apperror.ColumnDetectionError{
			MissingFields: missing,
			FoundHeaders:  trimmed,
		}
	}
	return mapping, nil
}
