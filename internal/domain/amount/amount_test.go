package amount

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name  string
		token string
		want  string
	}{
		{"plain dollar amount", "$123.45", "123.45"},
		{"no currency symbol", "123.45", "123.45"},
		{"thousands separators", "$1,234,567.89", "1234567.89"},
		{"no separators large amount", "$1234.56", "1234.56"},
		{"leading minus", "-$458.40", "-458.40"},
		{"leading plus", "+$1,624.59", "1624.59"},
		{"parentheses negative", "($123.45)", "-123.45"},
		{"parentheses without symbol", "(123.45)", "-123.45"},
		{"trailing CR positive", "$100.00 CR", "100"},
		{"trailing DR negative", "$100.00 DR", "-100"},
		{"BF keeps leading sign", "-$1,000.00 BF", "-1000"},
		{"DR overrides parentheses", "($100.00) DR", "-100"},
		{"CR overrides parentheses", "($100.00) CR", "100"},
		{"CR overrides leading minus", "-$100.00 CR", "100"},
		{"DR overrides leading plus", "+$100.00 DR", "-100"},
		{"indicator inside parentheses", "($55.10 CR)", "55.1"},
		{"fractional only", ".40", "0.40"},
		{"space between symbol and digits", "$ 19.84", "19.84"},
		{"surrounding whitespace", "  $7.78  ", "7.78"},
		{"single fraction digit", "$14.5", "14.5"},
		{"integer amount", "$250", "250"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Parse(tt.token)
			require.True(t, ok, "expected %q to parse", tt.token)
			assert.True(t, got.Equal(decimal.RequireFromString(tt.want)),
				"got %s, want %s", got, tt.want)
		})
	}
}

func TestParse_PreservesPrecision(t *testing.T) {
	got, ok := Parse("$123.40")
	require.True(t, ok)
	assert.Equal(t, "123.40", got.StringFixed(2))
	assert.Equal(t, int32(-2), got.Exponent())
}

func TestParse_Rejects(t *testing.T) {
	tests := []struct {
		name  string
		token string
	}{
		{"empty string", ""},
		{"whitespace only", "   "},
		{"no digits", "$"},
		{"letters only", "TOTAL DUE"},
		{"two decimal points", "$1.2.3"},
		{"stray trailing char", "$100.00)"},
		{"stray inner char", "$1a0.00"},
		{"double sign", "--$5.00"},
		{"bad comma grouping", "$1,23.00"},
		{"lone indicator", "CR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, ok := Parse(tt.token)
			assert.False(t, ok, "expected %q to be rejected", tt.token)
		})
	}
}

func TestFindToken(t *testing.T) {
	t.Run("single amount", func(t *testing.T) {
		tok, ok := FindToken("AUTOPAY PAYMENT RECEIVED - THANK YOU -$1,957.91")
		require.True(t, ok)
		assert.Equal(t, "-$1,957.91", tok)
	})

	t.Run("last amount wins", func(t *testing.T) {
		tok, ok := FindToken("$100.00 exchange rate applied $9.99")
		require.True(t, ok)
		assert.Equal(t, "$9.99", tok)
	})

	t.Run("bare digits are not amounts", func(t *testing.T) {
		_, ok := FindToken("allow 7-10 days for delivery")
		assert.False(t, ok)
	})

	t.Run("no match", func(t *testing.T) {
		_, ok := FindToken("UBER ONE")
		assert.False(t, ok)
	})
}

func TestIsAmountOnlyLine(t *testing.T) {
	tests := []struct {
		name string
		line string
		want bool
	}{
		{"plain amount", "$9.99", true},
		{"amount with diamond", "$9.99 ⧫", true},
		{"negative with diamond", "-$25.00 ⧫", true},
		{"parenthesized", "($1,234.56)", true},
		{"amount with CR", "$55.10 CR", true},
		{"amount within text", "Total due $9.99 today", false},
		{"date line", "11/27/25", false},
		{"empty", "", false},
		{"foreign currency note", "Pounds Sterling", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsAmountOnlyLine(tt.line))
		})
	}
}
