// Package dateutils provides date parsing and month-boundary helpers.
package dateutils

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// Layout constants for the formats seen in bank exports.
const (
	LayoutISO  = "2006-01-02"
	LayoutUS   = "01/02/2006"
	LayoutFull = "2006-01-02 15:04:05"
)

// statementFormats are tried in order when parsing a statement date. ISO and
// US forms come first; ambiguous day/month forms resolve month-first, with
// day-first variants as the fallback.
var statementFormats = []string{
	LayoutISO,
	LayoutUS,
	LayoutFull,
	"01/02/2006 15:04:05",
	"01-02-2006",
	"02-01-2006",
	"02/01/2006",
	"2006/01/02",
	"Jan 2, 2006",
	"2 January 2006",
}

var multiSpace = regexp.MustCompile(`\s+`)

// ParseDate parses a statement date string, trying each supported format in
// order. The time component, if any, is discarded by callers that only care
// about the calendar date.
func ParseDate(dateStr string) (time.Time, error) {
	cleaned := multiSpace.ReplaceAllString(strings.TrimSpace(dateStr), " ")
	if cleaned == "" {
		return time.Time{}, fmt.Errorf("empty date")
	}
	for _, format := range statementFormats {
		if t, err := time.Parse(format, cleaned); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unable to parse date: %s", dateStr)
}

// ToISODate formats a time.Time as YYYY-MM-DD.
func ToISODate(date time.Time) string {
	return date.Format(LayoutISO)
}

// StartOfMonth returns the first instant of the month containing date.
func StartOfMonth(date time.Time) time.Time {
	return time.Date(date.Year(), date.Month(), 1, 0, 0, 0, 0, date.Location())
}

// EndOfMonth returns the last day of the month containing date.
func EndOfMonth(date time.Time) time.Time {
	return StartOfMonth(date).AddDate(0, 1, -1)
}

// MonthRange returns the [start, end) bounds for a given month and year in UTC.
func MonthRange(month time.Month, year int) (time.Time, time.Time) {
	start := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	return start, start.AddDate(0, 1, 0)
}
