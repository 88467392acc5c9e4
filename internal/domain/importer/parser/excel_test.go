package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func buildWorkbook(t *testing.T, rows [][]interface{}) []byte {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(sheet, cell, &row))
	}

	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf.Bytes()
}

func TestParseExcel_FirstSheet(t *testing.T) {
	data := buildWorkbook(t, [][]interface{}{
		{"Date", "Description", "Amount", "Category"},
		{"12/01/2025", "COSTCO WHSE #0114", "-86.12", "Groceries"},
		{"12/02/2025", "PAYROLL DEPOSIT", "2500.00", ""},
	})

	headers, rows, err := ParseExcel(data)
	require.NoError(t, err)
	assert.Equal(t, []string{"Date", "Description", "Amount", "Category"}, headers)
	require.Len(t, rows, 2)

	assert.Equal(t, "12/01/2025", rows[0].Date)
	assert.Equal(t, "COSTCO WHSE #0114", rows[0].Description)
	assert.Equal(t, "-86.12", rows[0].AmountToken())
	assert.Equal(t, "Groceries", rows[0].Category)
	assert.Equal(t, 2, rows[0].Line)
}

func TestParseExcel_SummaryRowsBeforeHeader(t *testing.T) {
	data := buildWorkbook(t, [][]interface{}{
		{"Statement Summary", ""},
		{"New Balance", "$1,957.91"},
		{"Date", "Description", "Debit", "Credit"},
		{"12/01/2025", "GROCERY OUTLET", "45.10", ""},
	})

	headers, rows, err := ParseExcel(data)
	require.NoError(t, err)
	assert.Equal(t, "Date", headers[0])
	require.Len(t, rows, 1)
	assert.Equal(t, "-45.10", rows[0].AmountToken())
	assert.Equal(t, 4, rows[0].Line)
}

func TestParseExcel_NotAWorkbook(t *testing.T) {
	_, _, err := ParseExcel([]byte("plain text"))
	assert.Error(t, err)
}
