package account

import (
	"path/filepath"
	"regexp"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/shopspring/decimal"

	"github.com/ledgerline/statement-extractor/internal/domain/amount"
	"github.com/ledgerline/statement-extractor/internal/domain/lines"
)

// All three detectors canonicalize institutions through this one alias
// table. Keys are matched against compacted lowercase text, so "BofA",
// "bank_of_america" and "bankofamerica" all resolve the same way.
var institutionAliases = map[string]string{
	"bankofamerica":   "Bank of America",
	"bofa":            "Bank of America",
	"wellsfargo":      "Wells Fargo",
	"wf":              "Wells Fargo",
	"jpmorganchase":   "JPMorgan Chase",
	"jpmorgan":        "JPMorgan Chase",
	"jpm":             "JPMorgan Chase",
	"chase":           "Chase",
	"capitalone":      "Capital One",
	"capone":          "Capital One",
	"americanexpress": "American Express",
	"amex":            "American Express",
	"citibank":        "Citibank",
	"citicards":       "Citibank",
	"citi":            "Citibank",
	"usbank":          "U.S. Bank",
	"discover":        "Discover",
	"synchrony":       "Synchrony Bank",
	"barclays":        "Barclays",
	"pnc":             "PNC Bank",
	"tdbank":          "TD Bank",
	"ally":            "Ally Bank",
	"fidelity":        "Fidelity",
	"schwab":          "Charles Schwab",
	"charlesschwab":   "Charles Schwab",
	"vanguard":        "Vanguard",
}

// Website fragments strengthen text-body institution scoring; a footer URL
// is a stronger signal than a keyword that might be a merchant name.
var institutionDomains = map[string]string{
	"chase.com":           "Chase",
	"bankofamerica.com":   "Bank of America",
	"wellsfargo.com":      "Wells Fargo",
	"capitalone.com":      "Capital One",
	"americanexpress.com": "American Express",
	"citi.com":            "Citibank",
	"usbank.com":          "U.S. Bank",
	"discover.com":        "Discover",
	"fidelity.com":        "Fidelity",
	"schwab.com":          "Charles Schwab",
}

// Column names that mark a header row as a transaction table rather than
// account metadata.
var transactionColumns = map[string]struct{}{
	"date": {}, "posted date": {}, "post date": {}, "posting date": {},
	"transaction date": {}, "amount": {}, "debit": {}, "credit": {},
	"description": {}, "payee": {}, "merchant": {}, "balance": {},
	"running balance": {}, "type": {}, "transaction type": {},
	"category": {}, "memo": {}, "note": {}, "notes": {}, "check": {},
	"check number": {}, "reference": {}, "ref": {}, "status": {},
}

const transactionColumnThreshold = 3

var (
	uuidNameRe      = regexp.MustCompile(`^[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}$`)
	standaloneFour  = regexp.MustCompile(`\b(\d{4})\b`)
	yearLikeRe      = regexp.MustCompile(`^(?:19|20)\d{2}$`)
	digitsOnlyRe    = regexp.MustCompile(`\D`)
	maskedNumberRe  = regexp.MustCompile(`[*xX•#]{2,}[-\s]?(\d{4})\b`)
	hyphenNumberRe  = regexp.MustCompile(`\b\d{1,9}-(\d{4,6})\b`)
	plainNumberRe   = regexp.MustCompile(`\b(\d{4,17})\b`)
	numberContextRe = regexp.MustCompile(`(?i)account\s+number|card\s+number|account\s+no\b|ending\s+in|account\s+ending|card\s+ending`)
	cardEndingRe    = regexp.MustCompile(`(?i)\b(?:card|account)\s+ending\b`)
	cityStateZipRe  = regexp.MustCompile(`^[A-Za-z][A-Za-z .'-]*,?\s+[A-Z]{2}\s+\d{5}(?:-\d{4})?$`)
	newBalTextRe    = regexp.MustCompile(`(?i)new\s+balance[:\s]+`)
	prevBalTextRe   = regexp.MustCompile(`(?i)previous\s+balance[:\s]+`)
)

// Keywords whose presence in statement text marks a credit-card document.
var creditCardPhrases = []string{
	"credit limit", "credit line", "minimum payment", "cash advance",
	"annual percentage rate", "payment due date", "new balance",
}

const textHeadLimit = 50

// compiled per-alias word patterns for text scanning
var institutionWordRes = func() map[string]*regexp.Regexp {
	res := make(map[string]*regexp.Regexp, len(institutionAliases))
	for alias := range institutionAliases {
		res[alias] = regexp.MustCompile(`\b` + spacedAlias(alias) + `\b`)
	}
	return res
}()

// spacedAlias turns a compact alias into a pattern tolerant of spaces and
// dots between its words, so "bankofamerica" also hits "bank of america"
// and "usbank" hits "u.s. bank".
func spacedAlias(alias string) string {
	switch alias {
	case "bankofamerica":
		return `bank\s+of\s+america`
	case "wellsfargo":
		return `wells\s+fargo`
	case "jpmorganchase":
		return `jpmorgan\s+chase`
	case "capitalone":
		return `capital\s+one`
	case "americanexpress":
		return `american\s+express`
	case "usbank":
		return `u\.?s\.?\s+bank`
	case "tdbank":
		return `td\s+bank`
	case "charlesschwab":
		return `charles\s+schwab`
	default:
		return regexp.QuoteMeta(alias)
	}
}

// DetectFromFilename pulls institution, account number and type hints out
// of a statement filename like "Chase3100_Activity_20251221.csv".
func DetectFromFilename(filename string) *Detected {
	base := strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename))
	base = strings.TrimSpace(base)
	lower := strings.ToLower(base)
	if lower == "" || lower == "unknown" || strings.HasPrefix(lower, "import_") || uuidNameRe.MatchString(base) {
		return nil
	}

	normalized := strings.Join(strings.FieldsFunc(lower, func(r rune) bool {
		return r == '_' || r == '-' || r == ' ' || r == '.'
	}), " ")
	compact := strings.ReplaceAll(normalized, " ", "")

	det := &Detected{Source: "filename"}

	if alias, canonical := bestAlias(compact, normalized); alias != "" {
		det.Institution = canonical
		// Digits glued to the institution token are the account number.
		trailRe := regexp.MustCompile(regexp.QuoteMeta(alias) + `(\d{3,})`)
		if g := trailRe.FindStringSubmatch(compact); g != nil {
			det.AccountNumber = trailingFour(g[1])
		}
	}
	if det.AccountNumber == "" {
		for _, g := range standaloneFour.FindAllStringSubmatch(normalized, -1) {
			if yearLikeRe.MatchString(g[1]) {
				continue
			}
			det.AccountNumber = g[1]
			break
		}
	}

	applyTypeKeywords(det, normalized)

	if !det.Usable() && det.Type == "" {
		return nil
	}
	return det
}

// bestAlias returns the alias hit with the longest token, breaking ties by
// fuzzy rank of the canonical name against the normalized filename.
func bestAlias(compact, normalized string) (alias, canonical string) {
	bestLen, bestRank := 0, -1
	for a, c := range institutionAliases {
		if !strings.Contains(compact, a) {
			continue
		}
		rank := fuzzy.RankMatchNormalizedFold(c, normalized)
		if rank < 0 {
			rank = len(normalized) + len(c)
		}
		switch {
		case len(a) > bestLen:
			alias, canonical, bestLen, bestRank = a, c, len(a), rank
		case len(a) == bestLen && bestRank >= 0 && rank >= 0 && rank < bestRank:
			alias, canonical, bestRank = a, c, rank
		}
	}
	return alias, canonical
}

func applyTypeKeywords(det *Detected, normalized string) {
	has := func(kw string) bool { return strings.Contains(normalized, kw) }
	switch {
	// Credit-card patterns come before depository ones: "credit card
	// checking account statement" is not a thing, but card exports often
	// carry both "card" and "account".
	case has("credit") || has("card") || has("visa") || has("mastercard") || has("amex"):
		det.Type = TypeCredit
		det.Subtype = SubtypeCreditCard
		det.IsCreditCard = true
	case has("checking") || has("chk"):
		det.Type = TypeDepository
		det.Subtype = SubtypeChecking
	case has("saving"):
		det.Type = TypeDepository
		det.Subtype = SubtypeSavings
	case has("ira"):
		det.Type = TypeInvestment
		det.Subtype = SubtypeIRA
	case has("brokerage") || has("invest"):
		det.Type = TypeInvestment
		det.Subtype = SubtypeBrokerage
	case has("mortgage"):
		det.Type = TypeLoan
		det.Subtype = SubtypeMortgage
	case has("loan"):
		det.Type = TypeLoan
	}
}

// IsTransactionTable reports whether a header row names transaction
// columns rather than account metadata. Such headers carry no institution
// signal and must not drive account inference.
func IsTransactionTable(headers []string) bool {
	hits := 0
	for _, h := range headers {
		token := strings.Join(strings.Fields(strings.ToLower(strings.TrimSpace(h))), " ")
		if _, ok := transactionColumns[token]; ok {
			hits++
		}
	}
	return hits >= transactionColumnThreshold
}

// DetectFromHeaders inspects CSV header tokens for account metadata. A
// transaction table yields nothing; the orchestrator falls back to the
// filename or text detectors instead.
func DetectFromHeaders(headers []string) *Detected {
	if len(headers) == 0 || IsTransactionTable(headers) {
		return nil
	}

	det := &Detected{Source: "headers"}
	for _, h := range headers {
		token := strings.ToLower(strings.TrimSpace(h))
		compact := strings.Join(strings.FieldsFunc(token, func(r rune) bool {
			return r == '_' || r == '-' || r == ' ' || r == '.'
		}), "")
		if det.Institution == "" {
			if _, canonical := bestAlias(compact, token); canonical != "" {
				det.Institution = canonical
			}
		}
		if det.Type == "" {
			applyTypeKeywords(det, token)
		}
		if det.AccountNumber == "" {
			if g := maskedNumberRe.FindStringSubmatch(token); g != nil {
				det.AccountNumber = g[1]
			}
		}
	}

	if !det.Usable() && det.Type == "" {
		return nil
	}
	return det
}

// DetectFromText scans the head of a PDF-extracted document for the
// issuing institution, account number, holder name and card signals.
func DetectFromText(doc []string) *Detected {
	if len(doc) == 0 {
		return nil
	}
	head := doc
	if len(head) > textHeadLimit {
		head = head[:textHeadLimit]
	}

	det := &Detected{Source: "text"}
	det.Institution = scoreInstitutions(head)
	det.AccountNumber = findAccountNumber(head)
	det.HolderName = findHolderName(head)

	cardHits := 0
	joined := strings.ToLower(strings.Join(head, "\n"))
	for _, phrase := range creditCardPhrases {
		if strings.Contains(joined, phrase) {
			cardHits++
		}
	}
	if cardHits >= 2 {
		det.IsCreditCard = true
		det.Type = TypeCredit
		det.Subtype = SubtypeCreditCard
	}

	det.NewBalance = findLabelledBalance(head, newBalTextRe)
	det.PreviousBalance = findLabelledBalance(head, prevBalTextRe)

	if !det.Usable() && det.HolderName == "" && !det.IsCreditCard {
		return nil
	}
	return det
}

// scoreInstitutions picks the institution with the highest keyword
// frequency across the head lines; a website hit outweighs keyword hits.
func scoreInstitutions(head []string) string {
	scores := map[string]int{}
	for _, line := range head {
		lower := strings.ToLower(line)
		for alias, re := range institutionWordRes {
			if n := len(re.FindAllString(lower, -1)); n > 0 {
				scores[institutionAliases[alias]] += n
			}
		}
		for domain, canonical := range institutionDomains {
			if strings.Contains(lower, domain) {
				scores[canonical] += 3
			}
		}
	}

	best, bestScore := "", 0
	for name, score := range scores {
		if score > bestScore || (score == bestScore && name < best) {
			best, bestScore = name, score
		}
	}
	return best
}

// findAccountNumber looks for the account number near explicit phrases
// only; bare digit runs elsewhere are dates, amounts and reference ids.
func findAccountNumber(head []string) string {
	for _, line := range head {
		if !numberContextRe.MatchString(line) {
			continue
		}
		if g := maskedNumberRe.FindStringSubmatch(line); g != nil {
			return g[1]
		}
		if g := hyphenNumberRe.FindStringSubmatch(line); g != nil {
			return trailingFour(g[1])
		}
		if g := plainNumberRe.FindStringSubmatch(line); g != nil {
			if num := trailingFour(g[1]); num != "" && !yearLikeRe.MatchString(g[1]) {
				return num
			}
		}
	}
	return ""
}

// findHolderName applies two heuristics: a valid name on the line right
// before a "Card Ending"/"Account Ending" marker, or a valid name line
// followed within three lines by a CITY ST ZIP address line.
func findHolderName(head []string) string {
	for i, line := range head {
		if cardEndingRe.MatchString(line) && i > 0 {
			prev := strings.TrimSpace(head[i-1])
			if lines.ValidHolderName(prev) {
				return prev
			}
		}
	}

	for i, line := range head {
		candidate := strings.TrimSpace(line)
		if !lines.ValidHolderName(candidate) {
			continue
		}
		for j := i + 1; j <= i+3 && j < len(head); j++ {
			if cityStateZipRe.MatchString(strings.TrimSpace(head[j])) {
				return candidate
			}
		}
	}
	return ""
}

func findLabelledBalance(head []string, label *regexp.Regexp) *decimal.Decimal {
	for _, line := range head {
		loc := label.FindStringIndex(line)
		if loc == nil {
			continue
		}
		tok, ok := amount.FindToken(line[loc[1]:])
		if !ok {
			continue
		}
		if d, ok := amount.Parse(tok); ok {
			return &d
		}
	}
	return nil
}

// trailingFour normalizes a raw number to its last four digits. Shorter
// runs are discarded; partial numbers cannot be matched against storage.
func trailingFour(raw string) string {
	digits := digitsOnlyRe.ReplaceAllString(raw, "")
	if len(digits) < 4 {
		return ""
	}
	return digits[len(digits)-4:]
}
