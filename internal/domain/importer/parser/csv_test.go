package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCSV_CardExport(t *testing.T) {
	data := []byte("Transaction Date,Post Date,Description,Category,Type,Amount\n" +
		"11/27/2025,11/28/2025,STARBUCKS STORE 03855,Food & Drink,Sale,-9.50\n" +
		"11/28/2025,11/29/2025,AUTOMATIC PAYMENT - THANK YOU,,Payment,458.40\n")

	cfg, rows, err := ParseCSV(data)
	require.NoError(t, err)
	assert.Equal(t, 0, cfg.SkipLines)
	require.Len(t, rows, 2)

	assert.Equal(t, "11/27/2025", rows[0].Date)
	assert.Equal(t, "STARBUCKS STORE 03855", rows[0].Description)
	assert.Equal(t, "-9.50", rows[0].AmountToken())
	assert.Equal(t, "Food & Drink", rows[0].Category)
	assert.Equal(t, 2, rows[0].Line)

	// No category column value falls back to the type column.
	assert.Equal(t, "Payment", rows[1].Category)
	assert.Equal(t, 3, rows[1].Line)
}

func TestParseCSV_MetadataPreamble(t *testing.T) {
	data := []byte("Statement for account ending 3100\n" +
		"\n" +
		"Date,Description,Amount\n" +
		"12/01/2025,COSTCO WHSE #0114,-86.12\n")

	cfg, rows, err := ParseCSV(data)
	require.NoError(t, err)
	assert.Equal(t, 2, cfg.SkipLines)
	require.Len(t, rows, 1)
	assert.Equal(t, "COSTCO WHSE #0114", rows[0].Description)
	assert.Equal(t, 4, rows[0].Line)
}

func TestParseCSV_DebitCreditColumns(t *testing.T) {
	data := []byte("Date,Description,Debit,Credit\n" +
		"12/01/2025,GROCERY OUTLET,45.10,\n" +
		"12/02/2025,PAYROLL DEPOSIT,,2500.00\n")

	_, rows, err := ParseCSV(data)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, "-45.10", rows[0].AmountToken())
	assert.Equal(t, "2500.00", rows[1].AmountToken())
}

func TestParseCSV_DuplicateAmountColumns(t *testing.T) {
	data := []byte("Date,Description,Amount,Amount\n" +
		"12/01/2025,TRADER JOE'S,-31.07,-31.07\n")

	_, rows, err := ParseCSV(data)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "-31.07", rows[0].AmountToken())
}

func TestParseCSV_Empty(t *testing.T) {
	_, _, err := ParseCSV(nil)
	assert.Error(t, err)
}

func TestRawRowAmountToken(t *testing.T) {
	tests := []struct {
		name string
		row  RawRow
		want string
	}{
		{"single amount wins", RawRow{Amount: "-9.50", Debit: "1.00"}, "-9.50"},
		{"bare debit reads negative", RawRow{Debit: "45.10"}, "-45.10"},
		{"signed debit kept as-is", RawRow{Debit: "-45.10"}, "-45.10"},
		{"parenthesized debit kept as-is", RawRow{Debit: "(45.10)"}, "(45.10)"},
		{"credit positive", RawRow{Credit: "+2500.00"}, "2500.00"},
		{"nothing", RawRow{}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.row.AmountToken())
		})
	}
}

func TestRawRowEmpty(t *testing.T) {
	assert.True(t, RawRow{}.Empty())
	assert.True(t, RawRow{Date: "  "}.Empty())
	assert.False(t, RawRow{Date: "12/01/2025"}.Empty())
	assert.False(t, RawRow{Credit: "1.00"}.Empty())
}

func TestLines(t *testing.T) {
	got := Lines("Closing Date: 12/21/2025\r\n11/27 STARBUCKS $9.50\t \n")
	assert.Equal(t, []string{"Closing Date: 12/21/2025", "11/27 STARBUCKS $9.50", ""}, got)
}
