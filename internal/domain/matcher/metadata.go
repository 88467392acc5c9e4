package matcher

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ledgerline/statement-extractor/internal/domain/amount"
)

// CardMetadata holds credit-card statement figures extracted from the
// header region. Every field is best-effort; absent values stay nil.
type CardMetadata struct {
	PaymentDueDate    *time.Time
	MinimumPaymentDue *decimal.Decimal
	NewBalance        *decimal.Decimal
	PreviousBalance   *decimal.Decimal
	CreditLimit       *decimal.Decimal
	AvailableCredit   *decimal.Decimal
	RewardPoints      *int64
}

var (
	dueDateFieldRe   = regexp.MustCompile(`(?i)payment\s+due\s+date[:\s]+\D*?(\d{1,2}/\d{1,2}/\d{2,4})`)
	minPaymentRe     = regexp.MustCompile(`(?i)minimum\s+payment(?:\s+due)?[:\s]+`)
	newBalanceRe     = regexp.MustCompile(`(?i)new\s+balance[:\s]+`)
	prevBalanceRe    = regexp.MustCompile(`(?i)previous\s+balance[:\s]+`)
	creditLimitRe    = regexp.MustCompile(`(?i)credit\s+(?:limit|line)[:\s]+`)
	availableCredRe  = regexp.MustCompile(`(?i)available\s+credit[:\s]+`)
	rewardPointsRe   = regexp.MustCompile(`(?i)(?:rewards?\s+(?:points?\s+)?balance|points?\s+balance|available\s+points?)[:\s]+([\d,]+)`)
	bareRewardsRe    = regexp.MustCompile(`(?i)\b([\d,]{1,11})\s+(?:rewards?\s+)?points?\b`)
	maxRewardPoints  = int64(10_000_000)
	metadataHeadSize = 80
)

// ExtractCardMetadata scans the header region of a credit-card statement
// for due date, balances and reward points.
func ExtractCardMetadata(doc []string) *CardMetadata {
	meta := &CardMetadata{}
	limit := len(doc)
	if limit > metadataHeadSize {
		limit = metadataHeadSize
	}

	for _, line := range doc[:limit] {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if meta.PaymentDueDate == nil {
			if g := dueDateFieldRe.FindStringSubmatch(line); g != nil {
				if t, ok := ParseDate(g[1], 0); ok {
					meta.PaymentDueDate = &t
				}
			}
		}
		captureAmount(line, minPaymentRe, &meta.MinimumPaymentDue)
		captureAmount(line, newBalanceRe, &meta.NewBalance)
		captureAmount(line, prevBalanceRe, &meta.PreviousBalance)
		captureAmount(line, creditLimitRe, &meta.CreditLimit)
		captureAmount(line, availableCredRe, &meta.AvailableCredit)

		if meta.RewardPoints == nil {
			if g := rewardPointsRe.FindStringSubmatch(line); g != nil {
				meta.RewardPoints = parsePoints(g[1])
			} else if g := bareRewardsRe.FindStringSubmatch(line); g != nil {
				meta.RewardPoints = parsePoints(g[1])
			}
		}
	}
	return meta
}

// captureAmount stores the first amount token found after a labelled field,
// leaving dst untouched when already set or when no amount follows.
func captureAmount(line string, label *regexp.Regexp, dst **decimal.Decimal) {
	if *dst != nil {
		return
	}
	loc := label.FindStringIndex(line)
	if loc == nil {
		return
	}
	tok, ok := amount.FindToken(line[loc[1]:])
	if !ok {
		return
	}
	if d, ok := amount.Parse(tok); ok {
		*dst = &d
	}
}

func parsePoints(token string) *int64 {
	n, err := strconv.ParseInt(strings.ReplaceAll(token, ",", ""), 10, 64)
	if err != nil || n < 0 || n > maxRewardPoints {
		return nil
	}
	return &n
}
