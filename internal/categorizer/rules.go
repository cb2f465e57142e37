package categorizer

import (
	"regexp"
	"strings"

	"financetrack/internal/logging"
	"financetrack/internal/models"
)

// compiledRule pairs a rule with its precompiled regex (regex rules only).
// Go's regexp is RE2, so untrusted patterns cannot trigger catastrophic
// backtracking.
type compiledRule struct {
	rule models.Rule
	re   *regexp.Regexp
}

// compileRules prepares rules for matching, preserving the store's
// (priority, id) evaluation order. A malformed regex is logged as a warning
// and kept as a never-matching rule.
func compileRules(rules []models.Rule, logger logging.Logger) []compiledRule {
	compiled := make([]compiledRule, 0, len(rules))
	for _, r := range rules {
		cr := compiledRule{rule: r}
		if r.PatternType == models.PatternTypeRegex {
			re, err := regexp.Compile("(?i)" + r.Pattern)
			if err != nil {
				logger.WithError(err).WithFields(
					logging.F("rule_id", r.ID),
					logging.F("pattern", r.Pattern),
				).Warn("Malformed regex rule, treating as non-match")
			} else {
				cr.re = re
			}
		}
		compiled = append(compiled, cr)
	}
	return compiled
}

// matches tests a transaction description against one compiled rule.
func (cr compiledRule) matches(description string) bool {
	descLower := strings.ToLower(description)
	patternLower := strings.ToLower(cr.rule.Pattern)

	switch cr.rule.PatternType {
	case models.PatternTypeContains:
		return strings.Contains(descLower, patternLower)
	case models.PatternTypeStartsWith:
		return strings.HasPrefix(descLower, patternLower)
	case models.PatternTypeExact:
		return descLower == patternLower
	case models.PatternTypeRegex:
		return cr.re != nil && cr.re.MatchString(description)
	default:
		return false
	}
}

// firstMatch returns the first rule matching the description, honoring the
// compiled order. Two rules matching the same description always resolve to
// the lower (priority, id) pair.
func firstMatch(rules []compiledRule, description string) (models.Rule, bool) {
	for _, cr := range rules {
		if cr.matches(description) {
			return cr.rule, true
		}
	}
	return models.Rule{}, false
}
