package matcher

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ledgerline/statement-extractor/internal/domain/amount"
)

// RowError is a coded validation failure. Rows that fail validation are
// skipped and reported, never fatal.
type RowError struct {
	Code   string
	Reason string
}

func (e *RowError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Reason)
}

const (
	ErrCodeInvalidDate      = "invalid_date"
	ErrCodeBlankDescription = "blank_description"
	ErrCodeInvalidAmount    = "invalid_amount"
	ErrCodeAmountTooSmall   = "amount_below_minimum"
)

// Row is a validated transaction row.
type Row struct {
	Date        time.Time
	Description string
	Amount      decimal.Decimal
}

var dateTokenRe = regexp.MustCompile(`^(\d{1,2})[/-](\d{1,2})(?:[/-](\d{2,4}))?$`)

// ValidDateToken rejects figures that matched a date pattern but cannot be a
// calendar date: a zero month, components over 31 (ZIP fragments like
// "97-61"), or a year outside 1900-2100.
func ValidDateToken(token string) bool {
	g := dateTokenRe.FindStringSubmatch(strings.TrimSpace(token))
	if g == nil {
		return false
	}
	first, _ := strconv.Atoi(g[1])
	second, _ := strconv.Atoi(g[2])
	if first == 0 || first > 31 || second > 31 {
		return false
	}
	if first > 12 && second > 12 {
		return false
	}
	if g[3] != "" {
		year, _ := strconv.Atoi(g[3])
		if year > 99 && (year < 1900 || year > 2100) {
			return false
		}
	}
	return true
}

// ParseDate resolves a statement date token to a calendar date.
// Two-digit years map to 2000+yy; a missing year falls back to
// inferredYear, or the current year when none was inferred. ISO dates
// (2025-11-27) from CSV exports are accepted as-is.
func ParseDate(token string, inferredYear int) (time.Time, bool) {
	s := strings.TrimSpace(token)
	if s == "" {
		return time.Time{}, false
	}

	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, true
	}
	if t, err := time.Parse("Jan 2, 2006", s); err == nil {
		return t, true
	}
	if t, err := time.Parse("January 2, 2006", s); err == nil {
		return t, true
	}

	g := dateTokenRe.FindStringSubmatch(s)
	if g == nil {
		return time.Time{}, false
	}
	month, _ := strconv.Atoi(g[1])
	day, _ := strconv.Atoi(g[2])
	if month < 1 || month > 12 || day < 1 || day > 31 {
		return time.Time{}, false
	}

	year := inferredYear
	switch {
	case g[3] == "":
		if year == 0 {
			year = time.Now().Year()
		}
	case len(g[3]) == 2:
		yy, _ := strconv.Atoi(g[3])
		year = 2000 + yy
	default:
		year, _ = strconv.Atoi(g[3])
	}
	if year < 1900 || year > 2100 {
		return time.Time{}, false
	}

	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	if t.Month() != time.Month(month) || t.Day() != day {
		// Overflowed, e.g. 02/30.
		return time.Time{}, false
	}
	return t, true
}

// ValidateRow accepts a (date, description, amountToken) triple only when
// the date parses, the description is non-blank, and the amount normalizes
// to a non-zero decimal of magnitude at least amount.MinAmount.
func ValidateRow(dateToken, description, amountToken string, inferredYear int) (*Row, *RowError) {
	date, ok := ParseDate(dateToken, inferredYear)
	if !ok {
		return nil, &RowError{Code: ErrCodeInvalidDate, Reason: fmt.Sprintf("unparseable date %q", dateToken)}
	}

	desc := strings.TrimSpace(description)
	if desc == "" {
		return nil, &RowError{Code: ErrCodeBlankDescription, Reason: "description is blank"}
	}

	amt, ok := amount.Parse(amountToken)
	if !ok {
		return nil, &RowError{Code: ErrCodeInvalidAmount, Reason: fmt.Sprintf("unparseable amount %q", amountToken)}
	}
	if amt.IsZero() {
		return nil, &RowError{Code: ErrCodeInvalidAmount, Reason: "amount is zero"}
	}
	if amt.Abs().LessThan(amount.MinAmount) {
		return nil, &RowError{Code: ErrCodeAmountTooSmall, Reason: fmt.Sprintf("amount %s below minimum", amt)}
	}

	return &Row{Date: date, Description: desc, Amount: amt}, nil
}
