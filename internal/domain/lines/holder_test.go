package lines

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidHolderName(t *testing.T) {
	valid := []string{
		"AGARWAL SUMIT KUMAR",
		"Roger Alfred Hakim",
		"MARY-JANE SMITH",
		"O'Brien",
		"JOHN Q. PUBLIC",
	}
	for _, name := range valid {
		t.Run(name, func(t *testing.T) {
			assert.True(t, ValidHolderName(name), "expected valid holder name: %q", name)
		})
	}

	invalid := []struct {
		name      string
		candidate string
	}{
		{"empty", ""},
		{"digits", "JOHN DOE 42"},
		{"date", "11/27/25 JOHN DOE"},
		{"too many words", "One Two Three Four Five Six"},
		{"starts with verb", "Send general inquiries"},
		{"financial noun", "Account Summary"},
		{"mixed case", "JOHN doe"},
		{"lowercase", "john doe"},
		{"institution", "JPMorgan Chase Bank"},
		{"card brand", "American Express"},
		{"state abbreviation", "RENTON WA"},
		{"currency symbol", "TOTAL $45"},
		{"section header", "Rewards Summary"},
	}
	for _, tt := range invalid {
		t.Run(tt.name, func(t *testing.T) {
			assert.False(t, ValidHolderName(tt.candidate), "expected invalid: %q", tt.candidate)
		})
	}
}

func TestStripHolderName(t *testing.T) {
	t.Run("prefix removal", func(t *testing.T) {
		got := StripHolderName("AGARWAL SUMIT KUMAR Platinum Uber One Credit", "AGARWAL SUMIT KUMAR")
		assert.Equal(t, "Platinum Uber One Credit", got)
	})

	t.Run("case insensitive", func(t *testing.T) {
		got := StripHolderName("Agarwal Sumit Kumar UBER ONE", "AGARWAL SUMIT KUMAR")
		assert.Equal(t, "UBER ONE", got)
	})

	t.Run("standalone occurrence mid line", func(t *testing.T) {
		got := StripHolderName("AUTOPAY JOHN DOE PAYMENT RECEIVED", "JOHN DOE")
		assert.Equal(t, "AUTOPAY PAYMENT RECEIVED", got)
	})

	t.Run("substring not stripped", func(t *testing.T) {
		got := StripHolderName("JOHNSON HARDWARE SUPPLY", "JOHN")
		assert.Equal(t, "JOHNSON HARDWARE SUPPLY", got)
	})

	t.Run("empty holder", func(t *testing.T) {
		got := StripHolderName("  UBER ONE  ", "")
		assert.Equal(t, "UBER ONE", got)
	})
}
