// Package amount normalizes statement amount tokens into signed decimals.
//
// US statement layouts print amounts in several conventions: $123.45,
// -$458.40, ($1,234.56), $100.00 CR, 73.45 DR. A trailing CR/DR indicator
// carries the authoritative sign; parentheses and a leading sign are weaker
// cues. BF marks a balance brought forward and has no sign effect.
package amount

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// MinAmount is the smallest magnitude a transaction amount may carry.
// Candidates below it are treated as noise by the row validator.
var MinAmount = decimal.New(1, -2)

var (
	// tokenRe recognizes amount tokens inside free text. Non-parenthesized
	// forms require a $ so that dates, ZIP codes and phone fragments do not
	// read as amounts. The parenthesized alternative comes first so it wins
	// over the bare form inside the parentheses.
	tokenRe = regexp.MustCompile(
		`\(\s*\$?\s*\d{1,9}(?:,\d{3})*(?:\.\d{1,2})?\s*(?:CR|DR|BF)?\s*\)(?:\s+(?:CR|DR|BF))?` +
			`|[-+]\$\s?\d{1,9}(?:,\d{3})*(?:\.\d{1,2})?(?:\s+(?:CR|DR|BF))?` +
			`|\$\s?\d{1,9}(?:,\d{3})*(?:\.\d{1,2})?(?:\s+(?:CR|DR|BF))?`)

	indicatorRe = regexp.MustCompile(`(?i)\s+(CR|DR|BF)$`)

	// digitsRe validates the bare numeric part after currency symbol, sign
	// and parentheses are stripped: well-formed comma grouping, at most one
	// decimal point, and amounts like ".40" without an integer part.
	digitsRe = regexp.MustCompile(`^(?:\d{1,3}(?:,\d{3})+|\d+)?(?:\.\d+)?$`)
)

// Parse normalizes a single amount token into a signed decimal.
//
// Sign precedence, highest first: trailing DR forces negative, trailing CR
// forces positive, enclosing parentheses mean negative, then a leading
// sign. The fractional precision of the literal is preserved as written.
// The second return value is false when the token is not an amount.
func Parse(token string) (decimal.Decimal, bool) {
	s := strings.TrimSpace(token)
	if s == "" {
		return decimal.Decimal{}, false
	}

	// The indicator may sit outside the parentheses ("($100.00) DR") or
	// inside them ("($100.00 DR)"). The outermost one wins.
	var indicator string
	stripIndicator := func() {
		m := indicatorRe.FindStringSubmatch(s)
		if m == nil {
			return
		}
		if indicator == "" {
			indicator = strings.ToUpper(m[1])
		}
		s = strings.TrimSpace(s[:len(s)-len(m[0])])
	}
	stripIndicator()

	parenthesized := false
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") && len(s) >= 2 {
		parenthesized = true
		s = strings.TrimSpace(s[1 : len(s)-1])
		stripIndicator()
	}

	leadingNegative := false
	switch {
	case strings.HasPrefix(s, "-"):
		leadingNegative = true
		s = strings.TrimSpace(s[1:])
	case strings.HasPrefix(s, "+"):
		s = strings.TrimSpace(s[1:])
	}

	if strings.HasPrefix(s, "$") {
		s = strings.TrimSpace(s[1:])
	}

	if s == "" || strings.ContainsAny(s, "$+-() ") {
		return decimal.Decimal{}, false
	}
	if !strings.ContainsAny(s, "0123456789") || !digitsRe.MatchString(s) {
		return decimal.Decimal{}, false
	}

	s = strings.ReplaceAll(s, ",", "")
	if strings.HasPrefix(s, ".") {
		s = "0" + s
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Decimal{}, false
	}

	negative := false
	switch indicator {
	case "DR":
		negative = true
	case "CR":
		negative = false
	default:
		negative = parenthesized || leadingNegative
	}
	if negative {
		d = d.Neg()
	}
	return d, true
}

// FindToken returns the last amount token found in line. When a line holds
// several candidate figures (foreign currency, exchange details), issuers
// print the billed amount last, so the last match wins.
func FindToken(line string) (string, bool) {
	matches := tokenRe.FindAllString(line, -1)
	if len(matches) == 0 {
		return "", false
	}
	return strings.TrimSpace(matches[len(matches)-1]), true
}

// IsAmountOnlyLine reports whether line carries nothing but a single amount
// token, tolerating the diamond print marker some issuers append.
func IsAmountOnlyLine(line string) bool {
	s := strings.TrimSpace(line)
	s = strings.TrimSpace(strings.Trim(s, "⧫◆"))
	if s == "" {
		return false
	}
	loc := tokenRe.FindStringIndex(s)
	return loc != nil && loc[0] == 0 && loc[1] == len(s)
}
