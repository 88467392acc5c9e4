package categorization

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Payment channels as reported by upstream parsers.
const (
	ChannelACH  = "ach"
	ChannelCard = "card"
)

const fuzzyThreshold = 85

// Input carries everything the rule chain evaluates for one transaction.
// Amount is expected in canonical sign convention; apply NormalizeSign
// before classifying credit-account rows.
type Input struct {
	Merchant       string
	Description    string
	Amount         decimal.Decimal
	PaymentChannel string
	Hint           string
	AccountType    string
	AccountSubtype string
}

// Classifier evaluates the priority-ordered rule chain: channel override,
// account-context override, loan refinement, card-payment phrasing,
// merchant dictionaries, fuzzy fallbacks, then "other".
type Classifier struct {
	engine    *Engine
	fuzzy     *FuzzyMatcher
	search    *SearchIndex
	overrides []Override
}

// NewClassifier builds a classifier over the built-in dictionaries.
func NewClassifier() *Classifier {
	entries := Dictionaries()
	return &Classifier{
		engine: NewEngine(entries),
		fuzzy:  NewFuzzyMatcher(entries),
	}
}

// WithSearchIndex attaches a bleve index as the final fuzzy fallback.
func (c *Classifier) WithSearchIndex(si *SearchIndex) *Classifier {
	c.search = si
	return c
}

// WithOverrides attaches user corrections, checked before every rule.
func (c *Classifier) WithOverrides(overrides []Override) *Classifier {
	c.overrides = overrides
	return c
}

// NormalizeSign reverses a credit account's amount sign once, so that
// statement-positive charges become canonical negative expenses before the
// rule chain sees them.
func NormalizeSign(accountType string, amount decimal.Decimal) decimal.Decimal {
	if strings.EqualFold(accountType, "credit") {
		return amount.Neg()
	}
	return amount
}

// Classify runs the rule chain and always returns a mapping.
func (c *Classifier) Classify(in Input) Mapping {
	text := strings.ToUpper(strings.TrimSpace(in.Merchant + " " + in.Description))
	lower := strings.ToLower(text)

	for _, ov := range c.overrides {
		if ov.Matches(text) {
			return Mapping{Primary: ov.Primary, Detailed: ov.Detailed}
		}
	}

	// 1. Channel override: ACH transfers classify by sign regardless of
	// the upstream hint.
	if strings.EqualFold(in.PaymentChannel, ChannelACH) {
		if in.Amount.IsPositive() {
			return Mapping{Primary: PrimaryIncome, Detailed: incomeDetail(lower)}
		}
		return Mapping{Primary: PrimaryPayment, Detailed: DetailPayment}
	}

	// 2. Account-context override for investment accounts.
	if isInvestmentContext(in.AccountType, in.AccountSubtype) {
		if m, ok := investmentMapping(lower); ok {
			return m
		}
	}

	// 3. Loan refinement.
	if isLoanHint(in.Hint) {
		if containsAny(lower, "escrow", "property tax", "prop tax") {
			return Mapping{Primary: PrimaryPayment, Detailed: DetailLoanEscrow}
		}
		return Mapping{Primary: PrimaryPayment, Detailed: DetailPayment}
	}

	// 4. Card-payment phrasing outranks any merchant hit; "CHASE AUTOPAY"
	// must never classify by the issuer's name.
	if isCardPaymentPhrase(lower) {
		return Mapping{Primary: PrimaryPayment, Detailed: DetailCreditCardPayment}
	}

	// 5. Merchant dictionaries. An issuer brand inside a payment context
	// is an unresolvable collision and maps to other.
	collision := paymentContext(lower, in.Hint) && containsIssuerBrand(text)
	if m := c.engine.Match(text); m != nil {
		if collision {
			return OtherMapping
		}
		return Mapping{Primary: m.Primary, Detailed: m.Detailed}
	}
	if collision {
		return OtherMapping
	}

	if fm := c.fuzzy.Match(text, fuzzyThreshold); fm != nil {
		return Mapping{Primary: fm.Primary, Detailed: fm.Detailed}
	}
	if c.search != nil {
		if results, err := c.search.Search(text, 1); err == nil && len(results) > 0 {
			doc := results[0].Document
			if doc.Primary != "" {
				return Mapping{Primary: doc.Primary, Detailed: doc.Detailed}
			}
		}
	}

	return OtherMapping
}

func incomeDetail(lower string) string {
	switch {
	case containsAny(lower, "salary", "payroll", "paycheck", "wages", "wage", "direct dep", "dir dep"):
		return DetailSalary
	case (strings.Contains(lower, "interest") || strings.Contains(lower, "intrest")) &&
		!strings.Contains(lower, "cd interest") && !strings.Contains(lower, "certificate"):
		return DetailInterest
	case strings.Contains(lower, "dividend") || strings.Contains(lower, " div "):
		return DetailDividend
	case strings.Contains(lower, "rent"):
		return DetailRentIncome
	default:
		return DetailDeposit
	}
}

func isInvestmentContext(accountType, subtype string) bool {
	if strings.EqualFold(accountType, "investment") {
		return true
	}
	sub := strings.ToLower(subtype)
	return containsAny(sub, "ira", "brokerage", "401k", "roth")
}

func investmentMapping(lower string) (Mapping, bool) {
	switch {
	case strings.Contains(lower, "dividend"):
		return Mapping{Primary: PrimaryInvestment, Detailed: DetailInvestmentDividend}, true
	case strings.Contains(lower, "interest"):
		return Mapping{Primary: PrimaryInvestment, Detailed: DetailInvestmentInterest}, true
	case strings.Contains(lower, "fee"):
		return Mapping{Primary: PrimaryInvestment, Detailed: DetailInvestmentFees}, true
	case containsAny(lower, "purchase", "bought", " buy "):
		return Mapping{Primary: PrimaryInvestment, Detailed: DetailInvestmentPurchase}, true
	case containsAny(lower, "sale", "sold", " sell ", "redemption"):
		return Mapping{Primary: PrimaryInvestment, Detailed: DetailInvestmentSale}, true
	case containsAny(lower, "transfer", "contribution"):
		return Mapping{Primary: PrimaryInvestment, Detailed: DetailInvestmentTransfer}, true
	default:
		return Mapping{}, false
	}
}

func isLoanHint(hint string) bool {
	lower := strings.ToLower(hint)
	return strings.Contains(lower, "loan") || strings.Contains(lower, "mortgage")
}

func isCardPaymentPhrase(lower string) bool {
	if strings.Contains(lower, "autopay") {
		return true
	}
	if strings.Contains(lower, "payment") && strings.Contains(lower, "thank you") {
		return true
	}
	return containsAny(lower, "e-payment", "epay", "online payment", "card pmt")
}

func paymentContext(lower, hint string) bool {
	if containsAny(lower, "payment", "pymt", " pmt", "autopay") {
		return true
	}
	return strings.Contains(strings.ToLower(hint), "payment")
}

func containsIssuerBrand(text string) bool {
	for brand := range issuerBrands {
		if strings.Contains(text, brand) {
			return true
		}
	}
	return false
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
