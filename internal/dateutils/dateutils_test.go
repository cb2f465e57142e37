package dateutils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{"iso", "2024-01-15", "2024-01-15", false},
		{"us slashes", "01/15/2024", "2024-01-15", false},
		{"iso with time", "2024-01-15 14:30:00", "2024-01-15", false},
		{"slash year first", "2024/01/15", "2024-01-15", false},
		{"ambiguous dashes resolve month-first", "03-04-2024", "2024-03-04", false},
		{"day-first dashes when month-first cannot parse", "25-12-2024", "2024-12-25", false},
		{"day-first slashes when month-first cannot parse", "25/12/2024", "2024-12-25", false},
		{"month name", "Jan 15, 2024", "2024-01-15", false},
		{"extra whitespace", "  Jan   15,  2024 ", "2024-01-15", false},
		{"empty", "", "", true},
		{"nonsense", "not-a-date", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseDate(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.Format(LayoutISO))
		})
	}
}

func TestToISODate(t *testing.T) {
	d := time.Date(2024, time.March, 7, 13, 45, 0, 0, time.UTC)
	assert.Equal(t, "2024-03-07", ToISODate(d))
}

func TestMonthBoundaries(t *testing.T) {
	d := time.Date(2024, time.February, 14, 10, 0, 0, 0, time.UTC)

	assert.Equal(t, "2024-02-01", ToISODate(StartOfMonth(d)))
	assert.Equal(t, "2024-02-29", ToISODate(EndOfMonth(d)), "2024 is a leap year")

	start, end := MonthRange(time.February, 2024)
	assert.Equal(t, "2024-02-01", ToISODate(start))
	assert.Equal(t, "2024-03-01", ToISODate(end), "end bound is exclusive")
}
