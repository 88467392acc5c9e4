package lines

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsInformational(t *testing.T) {
	informational := []struct {
		name string
		line string
	}{
		{"pure date range", "10/01/2025 - 12/31/2025"},
		{"date range with through", "10/1/25 through 12/31/25"},
		{"closing date header", "Closing Date 12/12/25"},
		{"account ending header", "Account Ending 5-41007"},
		{"statement period", "Statement Period: 11/01/25 to 11/30/25"},
		{"open to close", "Open to Close Date"},
		{"late payment warning", "Late Payment Warning: If we do not receive your minimum payment"},
		{"customer service", "24-hour customer service: 1-866-229-6633"},
		{"relay calls", "We accept all relay calls, including 711"},
		{"po box", "P.O. Box 6103"},
		{"zip plus four", "Carol Stream, IL 60197-6103"},
		{"state and zip", "SEATTLE WA 98101"},
		{"bare phone number", "1-800-436-7958"},
		{"cardmember agreement", "See your Cardmember Agreement for details"},
		{"apr disclosure", "Your Annual Percentage Rate (APR) is the annual interest rate"},
		{"page footer", "Page 3 of 12"},
		{"summary row", "Purchases $1,234.56"},
		{"credits column header", "Credits"},
		{"days range", "please allow 7-10 days for processing"},
		{"blank", "   "},
	}
	for _, tt := range informational {
		t.Run(tt.name, func(t *testing.T) {
			assert.True(t, IsInformational(tt.line), "expected informational: %q", tt.line)
		})
	}

	transactions := []struct {
		name string
		line string
	}{
		{"payment line", "11/09 AUTOMATIC PAYMENT - THANK YOU -458.40"},
		{"bakery purchase", "10/12 85C BAKERY CAFE USA BELLEVUE WA 10.50"},
		{"card two-date line", "10/08 10/08 DOLLAR TREE TUKWILA WA $19.84"},
		{"merchant only continuation", "UBER ONE"},
		{"subscription with amount", "09/09/25 OPENAI *CHATGPT SUBSCR SAN FRANCISCO CA $22.04"},
	}
	for _, tt := range transactions {
		t.Run(tt.name, func(t *testing.T) {
			assert.False(t, IsInformational(tt.line), "expected transaction candidate: %q", tt.line)
		})
	}
}

func TestInformationalFragment(t *testing.T) {
	assert.True(t, InformationalFragment("Credits Amount"))
	assert.True(t, InformationalFragment("credits"))
	assert.True(t, InformationalFragment("  "))
	assert.False(t, InformationalFragment("JPMorgan NA"))
	assert.False(t, InformationalFragment("UBER ONE"))
}
