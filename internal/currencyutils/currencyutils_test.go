package currencyutils

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAmount(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{"plain", "42.50", "42.50", false},
		{"negative", "-987.65", "-987.65", false},
		{"dollar sign", "$1,234.56", "1234.56", false},
		{"euro sign", "€99.00", "99.00", false},
		{"parenthesized is negative", "(50.00)", "-50.00", false},
		{"parenthesized with symbol", "($1,250.00)", "-1250.00", false},
		{"european decimal comma", "1234,56", "1234.56", false},
		{"european thousands", "1.234,56", "1234.56", false},
		{"thousands comma only", "1,234", "1234", false},
		{"swiss apostrophe", "1'234.56", "1234.56", false},
		{"internal whitespace", " 12.00 ", "12.00", false},
		{"empty", "", "", true},
		{"garbage", "abc", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseAmount(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			want := decimal.RequireFromString(tt.want)
			assert.True(t, got.Equal(want), "ParseAmount(%q) = %s, want %s", tt.input, got, want)
		})
	}
}

func TestStandardizeAmount(t *testing.T) {
	assert.Equal(t, "1234.56", StandardizeAmount("$1,234.56"))
	assert.Equal(t, "1234.56", StandardizeAmount("1.234,56"))
	assert.Equal(t, "1234567", StandardizeAmount("1,234,567"))
	assert.Equal(t, "1234.56", StandardizeAmount("1'234.56"))
}

func TestFormatAmount(t *testing.T) {
	assert.Equal(t, "5.50", FormatAmount(decimal.RequireFromString("5.5")))
	assert.Equal(t, "-50.00", FormatAmount(decimal.RequireFromString("-50")))
}

func TestIsNegative(t *testing.T) {
	assert.True(t, IsNegative(decimal.RequireFromString("-0.01")))
	assert.False(t, IsNegative(decimal.Zero))
	assert.False(t, IsNegative(decimal.RequireFromString("10")))
}
