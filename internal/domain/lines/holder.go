package lines

import (
	"regexp"
	"strings"
)

// Cardholder names printed on family-card statements precede each card's
// transaction section and leak into descriptions when multi-line spans are
// assembled. A candidate counts as a holder name only under strict rules:
// one to five words, no digits or symbols, and consistent capitalization
// (every word ALL CAPS, or every word Title Case).

var (
	holderDigitsRe = regexp.MustCompile(`\d`)
	holderDateRe   = regexp.MustCompile(`\d{1,2}[/-]\d{1,2}(?:[/-]\d{2,4})?`)
	allCapsWordRe  = regexp.MustCompile(`^[A-Z][A-Z.]*$`)
	titleCaseRe    = regexp.MustCompile(`^[A-Z][a-z]*\.?$`)
)

// Words that start statement boilerplate, never a person's name.
var holderStopWords = map[string]struct{}{
	"send": {}, "post": {}, "continue": {}, "pay": {}, "receive": {},
	"process": {}, "submit": {}, "activate": {}, "register": {}, "enroll": {},
	"log": {}, "sign": {}, "click": {}, "visit": {}, "call": {}, "contact": {},
	"payment": {}, "balance": {}, "credit": {}, "sale": {}, "account": {},
	"transaction": {}, "statement": {}, "summary": {}, "details": {},
	"charges": {}, "fees": {}, "amount": {}, "interest": {}, "rate": {},
	"apr": {}, "adjustment": {}, "deposit": {}, "withdrawal": {},
	"transfer": {}, "debit": {}, "cash": {}, "advance": {}, "autopay": {},
	"bill": {}, "invoice": {}, "receipt": {}, "rewards": {}, "news": {},
	"cardholder": {}, "cardmember": {}, "description": {}, "continued": {},
	"and": {}, "or": {}, "to": {}, "from": {}, "for": {}, "with": {},
}

var usStateAbbreviations = map[string]struct{}{
	"AL": {}, "AK": {}, "AZ": {}, "AR": {}, "CA": {}, "CO": {}, "CT": {},
	"DE": {}, "FL": {}, "GA": {}, "HI": {}, "ID": {}, "IL": {}, "IN": {},
	"IA": {}, "KS": {}, "KY": {}, "LA": {}, "ME": {}, "MD": {}, "MA": {},
	"MI": {}, "MN": {}, "MS": {}, "MO": {}, "MT": {}, "NE": {}, "NV": {},
	"NH": {}, "NJ": {}, "NM": {}, "NY": {}, "NC": {}, "ND": {}, "OH": {},
	"OK": {}, "OR": {}, "PA": {}, "RI": {}, "SC": {}, "SD": {}, "TN": {},
	"TX": {}, "UT": {}, "VT": {}, "VA": {}, "WA": {}, "WV": {}, "WI": {},
	"WY": {}, "DC": {},
}

// Institution names seen on statement headers; a line carrying one is the
// issuer's branding, not a cardholder.
var holderInstitutionRes = compileWordPatterns([]string{
	"chase", "amex", "american express", "bank of america", "wells fargo",
	"citibank", "citi", "capital one", "discover", "us bank", "u.s. bank",
	"jpmorgan", "morgan stanley", "barclays", "synchrony", "fidelity",
	"charles schwab", "platinum card", "gold card",
})

func compileWordPatterns(words []string) []*regexp.Regexp {
	res := make([]*regexp.Regexp, 0, len(words))
	for _, w := range words {
		res = append(res, regexp.MustCompile(`\b`+regexp.QuoteMeta(w)+`\b`))
	}
	return res
}

// ValidHolderName reports whether candidate looks like a cardholder name.
func ValidHolderName(candidate string) bool {
	trimmed := strings.TrimSpace(candidate)
	if trimmed == "" {
		return false
	}
	lower := strings.ToLower(trimmed)

	if holderDigitsRe.MatchString(trimmed) || holderDateRe.MatchString(trimmed) {
		return false
	}
	if strings.ContainsAny(trimmed, "%$*=:+()®©™€£¥₹|") {
		return false
	}
	if strings.HasPrefix(trimmed, "-") || strings.HasSuffix(trimmed, "-") {
		return false
	}

	words := strings.Fields(trimmed)
	if len(words) < 1 || len(words) > 5 {
		return false
	}

	if _, stop := holderStopWords[strings.ToLower(words[0])]; stop {
		return false
	}
	stopCount := 0
	for _, w := range words {
		if _, stop := holderStopWords[strings.ToLower(w)]; stop {
			stopCount++
		}
	}
	if stopCount >= 2 || (stopCount == 1 && len(words) == 1) {
		return false
	}

	for _, re := range holderInstitutionRes {
		if re.MatchString(lower) {
			return false
		}
	}

	for _, w := range words {
		if _, isState := usStateAbbreviations[w]; isState {
			return false
		}
	}

	// Consistent capitalization across every word: all ALL CAPS, or all
	// Title Case. Hyphenated and apostrophe parts are checked separately so
	// MARY-JANE and O'Brien both pass.
	allCaps, allTitle := true, true
	for _, w := range words {
		for _, part := range strings.FieldsFunc(w, func(r rune) bool { return r == '-' || r == '\'' }) {
			if part == "" {
				continue
			}
			if !allCapsWordRe.MatchString(part) {
				allCaps = false
			}
			if !titleCaseRe.MatchString(part) {
				allTitle = false
			}
		}
	}
	return allCaps || allTitle
}

// StripHolderName removes holder from line when it appears as an exact
// case-insensitive prefix or as a standalone run of words. Substring hits
// inside larger words are left alone so merchant names sharing a word with
// the holder are not corrupted.
func StripHolderName(line, holder string) string {
	holder = strings.TrimSpace(holder)
	if holder == "" {
		return strings.TrimSpace(line)
	}
	re := regexp.MustCompile(`(?i)(^|\s)` + regexp.QuoteMeta(holder) + `($|\s)`)
	cleaned := re.ReplaceAllString(line, "$1")
	return strings.Join(strings.Fields(cleaned), " ")
}
