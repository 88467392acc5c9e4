package matcher

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Statement lines print transaction dates without a year (MM/DD). The year
// is inferred once per document from header metadata, in priority order:
// closing/statement date, the closing side of a date range, the payment due
// date (a January due date belongs to a December statement), a statement
// period line, a 20xx run in the filename, and finally the current year.

var (
	closingDateRe  = regexp.MustCompile(`(?i)(?:closing|statement)\s+date[:\s]+\D*?(\d{1,2})/(\d{1,2})/(\d{2,4})`)
	yearDateRange  = regexp.MustCompile(`(\d{1,2})/(\d{1,2})/(\d{2,4})\s*(?:-|–|through|to)\s*(\d{1,2})/(\d{1,2})/(\d{2,4})`)
	paymentDueRe   = regexp.MustCompile(`(?i)payment\s+due\s+date[:\s]+\D*?(\d{1,2})/(\d{1,2})/(\d{2,4})`)
	statementPerRe = regexp.MustCompile(`(?i)statement\s+period[:\s]+\D*?(\d{1,2})/(\d{1,2})/(\d{2,4})`)
	filenameYearRe = regexp.MustCompile(`\b(20\d{2})\b`)
)

// InferStatementYear derives the statement year from document lines and the
// filename. Zero is never returned; the fallback is now's year.
func InferStatementYear(doc []string, filename string, now time.Time) int {
	// Header metadata sits at the top of the document; scanning everything
	// risks picking years out of disclosure text.
	limit := len(doc)
	if limit > 60 {
		limit = 60
	}
	head := strings.Join(doc[:limit], "\n")

	if g := closingDateRe.FindStringSubmatch(head); g != nil {
		if y, ok := normalizeYear(g[3]); ok {
			return y
		}
	}
	if g := yearDateRange.FindStringSubmatch(head); g != nil {
		if y, ok := normalizeYear(g[6]); ok {
			return y
		}
	}
	if g := paymentDueRe.FindStringSubmatch(head); g != nil {
		if y, ok := normalizeYear(g[3]); ok {
			// The due date trails the statement by roughly a month; a
			// January due date means a December statement of the prior
			// year.
			if month, _ := strconv.Atoi(g[1]); month == 1 {
				return y - 1
			}
			return y
		}
	}
	if g := statementPerRe.FindStringSubmatch(head); g != nil {
		if y, ok := normalizeYear(g[3]); ok {
			return y
		}
	}
	if g := filenameYearRe.FindStringSubmatch(filename); g != nil {
		if y, err := strconv.Atoi(g[1]); err == nil {
			return y
		}
	}
	return now.Year()
}

func normalizeYear(token string) (int, bool) {
	y, err := strconv.Atoi(token)
	if err != nil {
		return 0, false
	}
	if len(token) == 2 {
		y += 2000
	}
	if y < 1900 || y > 2100 {
		return 0, false
	}
	return y, true
}
