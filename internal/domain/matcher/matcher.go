// Package matcher turns statement lines into transaction candidates.
//
// Issuers print transactions in a handful of layout families: single lines
// with one or two dates, reference-number lines, and multi-line records
// spanning up to eight lines. The matcher tries an ordered family of
// patterns and stops at the first hit; a failed match consumes nothing.
package matcher

import (
	"regexp"
	"strings"

	"github.com/ledgerline/statement-extractor/internal/domain/amount"
	"github.com/ledgerline/statement-extractor/internal/domain/lines"
)

// Match is a transaction candidate produced by one pattern. It has not yet
// passed the row validator.
type Match struct {
	PatternID     string
	Date          string
	Description   string
	AmountToken   string
	Holder        string
	LinesConsumed int
}

// lineAmountGroup is the trailing amount capture shared by the single-line
// patterns. Unlike the free-text token finder it also accepts bare decimals
// (73.45) because several issuers omit the currency symbol in the amount
// column.
const lineAmountGroup = `(\(\s*\$?\s*\d{1,9}(?:,\d{3})*(?:\.\d{1,2})?\s*(?:CR|DR|BF)?\s*\)|[-+]?\$\s?\d{1,9}(?:,\d{3})*(?:\.\d{1,2})?(?:\s+(?:CR|DR|BF))?|[-+]?\d{1,9}(?:,\d{3})*\.\d{1,2}(?:\s+(?:CR|DR|BF))?)`

var (
	// Pattern 1: "11/09  AUTOMATIC PAYMENT - THANK YOU  -458.40"
	singleDateRe = regexp.MustCompile(`^(\d{1,2}/\d{1,2})\s+(.+?)\s+` + lineAmountGroup + `\s*$`)

	// Pattern 1 with a full date: "11/27/25* STARBUCKS SEATTLE WA $9.50"
	fullDateRe = regexp.MustCompile(`^(\d{1,2}/\d{1,2}/\d{2,4})\*?\s+(.+?)\s+` + lineAmountGroup + `\s*$`)

	// Pattern 2: arbitrary prefix before the date, rest as pattern 1.
	prefixedDateRe = regexp.MustCompile(`(\d{1,2}/\d{1,2})\s+(.+?)\s+` + lineAmountGroup + `\s*$`)

	// Pattern 3: "6779 11/17 11/18 2424052A2G30JEWD5 WSDOT-GOODTOGO ONLINE RENTON WA 73.45"
	cardRefRe = regexp.MustCompile(`^(\d{4})\s+(\d{1,2}/\d{1,2})\s+(\d{1,2}/\d{1,2})\s+([A-Z0-9]+)\s+(.+?)\s+([A-Z][A-Z\s]{1,20})\s+` + lineAmountGroup + `\s*$`)

	// Pattern 4: "10/08 10/08 DOLLAR TREE  TUKWILA  WA $19.84"
	twoDateLocRe = regexp.MustCompile(`^(\d{1,2}/\d{1,2})\s+(\d{1,2}/\d{1,2})\s+(.+?)\s+([A-Z][A-Z\s]{1,20})\s+` + lineAmountGroup + `\s*$`)

	// Pattern 5: two dates, free description, amount.
	twoDateRe = regexp.MustCompile(`^(\d{1,2}/\d{1,2})\s+(\d{1,2}/\d{1,2})\s+(.+?)\s+` + lineAmountGroup + `\s*$`)

	// Multi-line span: line 0 starts with a full date, optionally starred.
	spanStartRe = regexp.MustCompile(`^(\d{1,2}/\d{1,2}/\d{2,4})\*?\s+(.+)$`)

	// Any date at the start of a line marks the next transaction and caps
	// the current span.
	dateStartRe = regexp.MustCompile(`^\d{1,2}[/-]\d{1,2}(?:[/-]\d{2,4})?\*?\s+`)

	leadingDateRe = regexp.MustCompile(`^\s*\d{1,2}[/-]\d{1,2}(?:[/-]\d{2,4})?\s+`)

	// Amount at the end of a line, for span terminators that carry a short
	// separator prefix ("text | $14.27").
	trailingAmountRe = regexp.MustCompile(lineAmountGroup + `\s*$`)

	amountLabelRe = regexp.MustCompile(`(?i)\b(total|amount|balance|fee|charge|payment|credit|debit|sum|subtotal|tax|tip)\s*:?\s*$`)
	separatorRe   = regexp.MustCompile(`[|\-\s]+$`)
	alnumRe       = regexp.MustCompile(`[a-zA-Z0-9]`)
	diamondRe     = regexp.MustCompile(`[⧫◆]`)
)

// spanMaxLines caps a multi-line record at eight lines total: the date line,
// up to six description lines, and the amount line.
const spanMaxLines = 8

// MatchAt tries every pattern against doc starting at index idx.
// It returns nil when no pattern matches; the caller advances one line.
// holder is the statement-detected cardholder name, stripped from
// descriptions per the suppression rules in the lines package.
func MatchAt(doc []string, idx int, holder string) *Match {
	if idx < 0 || idx >= len(doc) {
		return nil
	}
	line := strings.TrimSpace(doc[idx])
	if line == "" || lines.IsInformational(line) {
		return nil
	}

	if m := matchSingleLine(line, holder); m != nil {
		return m
	}
	return matchSpan(doc, idx, holder)
}

func matchSingleLine(line, holder string) *Match {
	if g := cardRefRe.FindStringSubmatch(line); g != nil {
		desc := joinDescription(g[5], g[6], holder)
		if m := buildMatch("card-ref", g[3], desc, g[7], line, holder); m != nil {
			return m
		}
	}
	if g := twoDateLocRe.FindStringSubmatch(line); g != nil {
		desc := joinDescription(g[3], g[4], holder)
		if m := buildMatch("two-date-loc", g[2], desc, g[5], line, holder); m != nil {
			return m
		}
	}
	if g := twoDateRe.FindStringSubmatch(line); g != nil {
		desc := joinDescription(g[3], "", holder)
		if m := buildMatch("two-date", g[2], desc, g[4], line, holder); m != nil {
			return m
		}
	}
	if g := fullDateRe.FindStringSubmatch(line); g != nil {
		desc := joinDescription(g[2], "", holder)
		if m := buildMatch("full-date", g[1], desc, g[3], line, holder); m != nil {
			return m
		}
	}
	if g := singleDateRe.FindStringSubmatch(line); g != nil {
		desc := joinDescription(g[2], "", holder)
		if m := buildMatch("single-date", g[1], desc, g[3], line, holder); m != nil {
			return m
		}
	}
	if g := prefixedDateRe.FindStringSubmatch(line); g != nil {
		desc := joinDescription(g[2], "", holder)
		if m := buildMatch("prefixed-date", g[1], desc, g[3], line, holder); m != nil {
			return m
		}
	}
	return nil
}

func buildMatch(patternID, date, description, amountToken, line, holder string) *Match {
	if !ValidDateToken(date) {
		return nil
	}
	if description == "" || amountToken == "" {
		return nil
	}
	if !validAmountInContext(amountToken, line) {
		return nil
	}
	return &Match{
		PatternID:     patternID,
		Date:          date,
		Description:   description,
		AmountToken:   strings.TrimSpace(amountToken),
		Holder:        holder,
		LinesConsumed: 1,
	}
}

// joinDescription merges a description and optional location column,
// dropping any leading date fragments the non-greedy captures let through
// and stripping the cardholder name.
func joinDescription(description, location, holder string) string {
	s := strings.TrimSpace(description)
	for {
		next := strings.TrimSpace(leadingDateRe.ReplaceAllString(s, ""))
		if next == s {
			break
		}
		s = next
	}
	if location = strings.TrimSpace(location); location != "" {
		s = strings.TrimSpace(s + " " + location)
	}
	s = lines.StripHolderName(s, holder)
	return strings.Join(strings.Fields(s), " ")
}

// matchSpan parses a multi-line record. Line 0 must start with a full date
// and at least two more lines must follow; the span runs until a line
// holding only an amount token (last such line wins), and aborts when a new
// date-start line appears first or when no amount is found within the
// eight-line cap.
func matchSpan(doc []string, idx int, holder string) *Match {
	// A record is three lines at minimum: date, description, amount.
	if idx+2 >= len(doc) {
		return nil
	}
	line0 := strings.TrimSpace(doc[idx])
	g := spanStartRe.FindStringSubmatch(line0)
	if g == nil || !ValidDateToken(g[1]) {
		return nil
	}

	amountLine := -1
	var amountToken string

	maxOffset := spanMaxLines - 1
	if rest := len(doc) - idx - 1; rest < maxOffset {
		maxOffset = rest
	}
	for i := 1; i <= maxOffset; i++ {
		candidate := strings.TrimSpace(doc[idx+i])
		if candidate == "" {
			continue
		}
		if dateStartRe.MatchString(candidate) {
			// Next transaction begins; stop scanning.
			break
		}
		if tok, ok := spanAmountLine(candidate); ok {
			amountLine = idx + i
			amountToken = tok
			// Keep scanning: when several amount-only lines appear
			// (foreign currency conversions), the last one is the billed
			// amount.
		}
	}
	if amountLine < 0 {
		return nil
	}
	if parsed, ok := amount.Parse(amountToken); !ok || parsed.IsZero() {
		return nil
	}

	desc := lines.StripHolderName(g[2], holder)
	for i := idx + 1; i < amountLine; i++ {
		part := strings.TrimSpace(doc[i])
		if part == "" || lines.IsInformational(part) || lines.InformationalFragment(part) {
			continue
		}
		part = lines.StripHolderName(part, holder)
		if part != "" {
			desc += " " + part
		}
	}
	desc = strings.Join(strings.Fields(desc), " ")
	if desc == "" {
		return nil
	}

	return &Match{
		PatternID:     "multi-line",
		Date:          g[1],
		Description:   desc,
		AmountToken:   amountToken,
		Holder:        holder,
		LinesConsumed: amountLine - idx + 1,
	}
}

// spanAmountLine reports whether a continuation line terminates a span, and
// returns the amount token it carries. A line qualifies when it is nothing
// but an amount, or when a short separator prefix precedes a trailing
// amount; a labelled figure ("Total: $12.00") is summary text, not a
// transaction amount.
func spanAmountLine(candidate string) (string, bool) {
	s := strings.TrimSpace(diamondRe.ReplaceAllString(candidate, ""))
	if s == "" {
		return "", false
	}
	if amount.IsAmountOnlyLine(s) {
		tok, _ := amount.FindToken(s)
		return tok, true
	}

	loc := trailingAmountRe.FindStringIndex(s)
	if loc == nil {
		return "", false
	}
	tok := strings.TrimSpace(s[loc[0]:])
	before := strings.TrimSpace(s[:loc[0]])
	if before == "" {
		// A bare decimal alone on a line is usually a foreign-currency
		// figure, not the billed amount; require a $ or parentheses.
		if _, ok := amount.Parse(tok); ok && (strings.Contains(tok, "$") || strings.HasPrefix(tok, "(")) {
			return tok, true
		}
		return "", false
	}
	if amountLabelRe.MatchString(before) {
		return "", false
	}
	if len(before) > 50 {
		return "", false
	}
	if separatorRe.MatchString(before) || !alnumRe.MatchString(before) || len(before) <= 5 {
		if _, ok := amount.Parse(tok); ok && strings.Contains(tok, "$") {
			return tok, true
		}
	}
	return "", false
}

// validAmountInContext rejects figures that pattern-matched as amounts but
// are really fragments of ZIP+4 codes, delivery windows ("7-10 days"),
// hyphenated account numbers near "account ending", or phone numbers.
func validAmountInContext(token, line string) bool {
	trimmed := strings.TrimSpace(token)
	if trimmed == "" {
		return false
	}
	lower := strings.ToLower(line)

	hasCurrency := strings.Contains(trimmed, "$")
	hasParens := strings.HasPrefix(trimmed, "(") && strings.HasSuffix(trimmed, ")")
	hasNegative := strings.HasPrefix(trimmed, "-")

	if hasNegative && !hasCurrency && !hasParens {
		if zipContextRe.MatchString(lower) {
			return false
		}
		if daysRangeCtxRe.MatchString(lower) {
			return false
		}
		if strings.Contains(lower, "account ending") && accountNumberCtxRe.MatchString(lower) {
			return false
		}
	}
	if !hasCurrency && !hasParens && !hasNegative && !strings.Contains(trimmed, ".") {
		if phoneCtxRe.MatchString(lower) {
			return false
		}
	}
	return true
}

var (
	zipContextRe       = regexp.MustCompile(`\d{5}\s*-\s*\d{3,4}|[a-z]{2}\s+\d{5}`)
	daysRangeCtxRe     = regexp.MustCompile(`\d{1,2}\s*-\s*\d{1,2}\s+days?`)
	accountNumberCtxRe = regexp.MustCompile(`\b\d{1,9}\s*-\s*\d{4,6}\b`)
	phoneCtxRe         = regexp.MustCompile(`\d{1,3}-\d{3}-|\(\s*\d{1,3}-\d{3}-`)
)
