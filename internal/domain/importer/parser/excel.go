package parser

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/ledgerline/statement-extractor/internal/domain/account"
)

// ParseExcel reads the first sheet of an XLSX export and returns its headers
// and data rows. Statement workbooks put the transaction table on the first
// sheet, sometimes under a few summary rows.
func ParseExcel(data []byte) ([]string, []RawRow, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, nil, fmt.Errorf("workbook has no sheets")
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, nil, fmt.Errorf("read sheet %s: %w", sheets[0], err)
	}

	headerIdx := findExcelHeader(rows)
	if headerIdx < 0 {
		return nil, nil, nil
	}
	headers := rows[headerIdx]
	cols := mapColumns(headers)

	out := make([]RawRow, 0, len(rows)-headerIdx-1)
	for i := headerIdx + 1; i < len(rows); i++ {
		row := rows[i]
		cell := func(idx int) string {
			if idx < 0 || idx >= len(row) {
				return ""
			}
			return strings.TrimSpace(row[idx])
		}
		out = append(out, RawRow{
			Line:        i + 1,
			Date:        cell(cols.date),
			Description: cell(cols.desc),
			Amount:      cell(cols.amount),
			Debit:       cell(cols.debit),
			Credit:      cell(cols.credit),
			Category:    cell(cols.category),
			Channel:     cell(cols.channel),
		})
	}
	return headers, out, nil
}

// findExcelHeader returns the index of the header row, preferring a row the
// transaction-column dictionary recognizes over the first populated row.
func findExcelHeader(rows [][]string) int {
	limit := len(rows)
	if limit > 20 {
		limit = 20
	}
	firstPopulated := -1
	for i := 0; i < limit; i++ {
		populated := 0
		for _, c := range rows[i] {
			if strings.TrimSpace(c) != "" {
				populated++
			}
		}
		if populated < 2 {
			continue
		}
		if account.IsTransactionTable(rows[i]) {
			return i
		}
		if firstPopulated < 0 {
			firstPopulated = i
		}
	}
	return firstPopulated
}

type columnIndexes struct {
	date, desc, amount, debit, credit, category, channel int
}

func mapColumns(headers []string) columnIndexes {
	cols := columnIndexes{date: -1, desc: -1, amount: -1, debit: -1, credit: -1, category: -1, channel: -1}
	for i, header := range headers {
		h := strings.ToLower(strings.TrimSpace(header))
		switch {
		case cols.date < 0 && strings.Contains(h, "date"):
			cols.date = i
		case cols.desc < 0 && (strings.Contains(h, "desc") || strings.Contains(h, "merchant") ||
			strings.Contains(h, "payee") || strings.Contains(h, "memo") || strings.Contains(h, "details")):
			cols.desc = i
		case cols.debit < 0 && strings.Contains(h, "debit"):
			cols.debit = i
		case cols.credit < 0 && strings.Contains(h, "credit"):
			cols.credit = i
		case cols.amount < 0 && (h == "amount" || strings.Contains(h, "amount")):
			cols.amount = i
		case h == "type":
			if cols.channel < 0 {
				cols.channel = i
			}
			if cols.category < 0 {
				cols.category = i
			}
		case cols.category < 0 && strings.Contains(h, "categ"):
			cols.category = i
		}
	}
	return cols
}
