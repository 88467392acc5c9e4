// Package parser turns statement exports into raw rows. CSV and Excel files
// carry tabular data with bank-specific column names; PDF extractions arrive
// as ordered text lines and take the pattern-matching path instead.
package parser

import "strings"

// RawRow is one tabular statement row before validation. All fields are the
// literal strings from the file; the row validator owns date and amount
// parsing so every source shares one grammar.
type RawRow struct {
	Line        int
	Date        string
	Description string
	Amount      string
	Debit       string
	Credit      string
	Category    string
	Channel     string // Type column, e.g. "ACH Credit" or "Purchase"
}

// AmountToken resolves the row's amount column. Exports with split
// debit/credit columns fill exactly one side per row; debits read as
// negative.
func (r RawRow) AmountToken() string {
	if amt := strings.TrimSpace(r.Amount); amt != "" {
		return amt
	}
	if debit := strings.TrimSpace(r.Debit); debit != "" {
		if strings.HasPrefix(debit, "-") || strings.HasPrefix(debit, "(") {
			return debit
		}
		return "-" + debit
	}
	if credit := strings.TrimSpace(r.Credit); credit != "" {
		return strings.TrimPrefix(credit, "+")
	}
	return ""
}

// Empty reports a row with no usable content, typically a formatting
// artifact or a blank trailing line.
func (r RawRow) Empty() bool {
	return strings.TrimSpace(r.Date) == "" &&
		strings.TrimSpace(r.Description) == "" &&
		r.AmountToken() == ""
}

// Lines splits extracted PDF text into ordered statement lines. Order is
// load-bearing: the multi-line matcher reads spans top to bottom.
func Lines(text string) []string {
	raw := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
	lines := make([]string, len(raw))
	for i, l := range raw {
		lines[i] = strings.TrimRight(l, " \t")
	}
	return lines
}
