// Package lines classifies raw statement lines before pattern matching.
//
// Statements interleave transactions with headers, disclosures, addresses
// and balance summaries. The filter marks those informational lines so the
// matcher never spends a pattern on them, and so multi-line spans do not
// absorb them into descriptions.
package lines

import (
	"regexp"
	"strings"
)

var (
	dateRangeRe = regexp.MustCompile(`^\s*\d{1,2}/\d{1,2}/\d{2,4}\s*(?:-|–|through|to)\s*\d{1,2}/\d{1,2}/\d{2,4}\s*$`)

	// Inline date ranges inside longer disclosure text, unless the line also
	// carries a dollar figure (then it may be a transaction whose description
	// mentions a period).
	inlineDateRangeRe = regexp.MustCompile(`\d{1,2}/\d{1,2}/\d{2,4}\s+(?:through|to|-)\s+\d{1,2}/\d{1,2}/\d{2,4}`)

	zipPlusFourRe = regexp.MustCompile(`\b\d{5}-\d{4}\b`)
	stateZipRe    = regexp.MustCompile(`\b[A-Z]{2}\s+\d{5}(?:-\d{4})?\s*$`)
	poBoxRe       = regexp.MustCompile(`(?i)\bp\.?\s?o\.?\s?box\b`)

	phoneRe        = regexp.MustCompile(`\b\d{1,3}-\d{3}-\d{3,4}-?\d{0,4}\b|\(\d{3}\)\s*\d{3}[-.\s]\d{4}|\b\d{3}-\d{3}-\d{4}\b`)
	phoneContextRe = regexp.MustCompile(`(?i)\b(?:call us at|call|phone)\b.*\d{1,3}-\d{3}-`)
	daysRangeRe    = regexp.MustCompile(`\b\d{1,2}\s*(?:-|to)\s*\d{1,2}\s+days?\b`)

	pageFooterRe = regexp.MustCompile(`(?i)^\s*page\s+\d+\s+of\s+\d+\s*$`)

	// Summary rows such as "Purchases $1,234.56" or a bare "Credits" column
	// header. Matches only when nothing else is on the line besides the
	// phrase and optional figures.
	summaryRowRe = regexp.MustCompile(`(?i)^\s*(?:total\s+)?(credits|charges|amount|purchases|balance transfers|new balance|previous balance|rewards? (?:balance|summary|points))\b[\s:$\d.,()+-]*$`)

	headerPhrases = []string{
		"closing date",
		"account ending",
		"statement period",
		"open to close date",
		"late payment warning",
		"payment due date",
		"minimum payment due",
		"available and pending as of",
	}

	contactPhrases = []string{
		"customer service",
		"relay calls",
		"relay call",
		"operator relay",
		"we accept",
		"cardmember service",
	}

	disclosurePhrases = []string{
		"cardmember agreement",
		"pay over time",
		"cash advances",
		"interest rate",
		"this date may not be",
		"your bank will debit",
		"you may have to pay",
	}
)

// informationalFragments are column/summary words that multi-line spans must
// not fold into a transaction description.
var informationalFragments = map[string]struct{}{
	"credits":           {},
	"charges":           {},
	"amount":            {},
	"purchases":         {},
	"balance transfers": {},
}

// IsInformational reports whether line is statement noise rather than a
// transaction candidate.
func IsInformational(line string) bool {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" {
		return true
	}
	lower := strings.ToLower(trimmed)

	if dateRangeRe.MatchString(trimmed) || pageFooterRe.MatchString(trimmed) {
		return true
	}
	if summaryRowRe.MatchString(trimmed) {
		return true
	}

	for _, phrase := range headerPhrases {
		if strings.Contains(lower, phrase) {
			return true
		}
	}
	if strings.Contains(lower, "as of ") && !strings.Contains(lower, "$") {
		return true
	}
	for _, phrase := range contactPhrases {
		if strings.Contains(lower, phrase) {
			return true
		}
	}
	for _, phrase := range disclosurePhrases {
		if strings.Contains(lower, phrase) {
			return true
		}
	}
	// "apr" alone can appear inside merchant names; require the spelled-out
	// phrase alongside it.
	if strings.Contains(lower, "apr") && strings.Contains(lower, "annual percentage rate") {
		return true
	}

	if poBoxRe.MatchString(trimmed) || zipPlusFourRe.MatchString(trimmed) || stateZipRe.MatchString(trimmed) {
		return true
	}
	if phoneRe.MatchString(trimmed) || phoneContextRe.MatchString(lower) {
		return true
	}
	if daysRangeRe.MatchString(lower) {
		return true
	}

	// Disclosure text quoting a statement period; a $ figure means the line
	// may still be a transaction.
	if inlineDateRangeRe.MatchString(lower) && !strings.Contains(lower, "$") {
		return true
	}

	return false
}

// InformationalFragment reports whether a continuation line consists solely
// of summary column words (for example a trailing "Credits Amount" header).
func InformationalFragment(line string) bool {
	lower := strings.ToLower(strings.TrimSpace(line))
	if lower == "" {
		return true
	}
	if _, ok := informationalFragments[lower]; ok {
		return true
	}
	words := strings.Fields(lower)
	if len(words) == 0 {
		return true
	}
	for _, w := range words {
		if _, ok := informationalFragments[w]; !ok {
			return false
		}
	}
	return true
}
