// Package account detects account metadata from statement documents and
// matches it against a user's stored accounts.
package account

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Account types.
const (
	TypeDepository = "depository"
	TypeCredit     = "credit"
	TypeLoan       = "loan"
	TypeInvestment = "investment"
)

// Account subtypes.
const (
	SubtypeChecking   = "checking"
	SubtypeSavings    = "savings"
	SubtypeCreditCard = "credit card"
	SubtypeIRA        = "ira"
	SubtypeBrokerage  = "brokerage"
	SubtypeMortgage   = "mortgage"
)

// Account is a stored user account.
type Account struct {
	ID            uuid.UUID
	UserID        uuid.UUID
	Name          string
	Institution   string
	AccountNumber string // trailing 4 digits only
	Type          string
	Subtype       string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Detected is the best-effort account metadata pulled out of a statement
// filename, header row or text body. Absent fields stay zero.
type Detected struct {
	Institution     string
	AccountNumber   string // trailing 4 digits only
	Type            string
	Subtype         string
	HolderName      string
	IsCreditCard    bool
	NewBalance      *decimal.Decimal
	PreviousBalance *decimal.Decimal
	Source          string // "filename", "headers" or "text"
}

// Usable reports whether the detection carries enough signal for the
// orchestrator to stop falling back to the next detector.
func (d *Detected) Usable() bool {
	if d == nil {
		return false
	}
	return d.Institution != "" || d.AccountNumber != ""
}

// Name derives a display name the way statements label accounts, e.g.
// "Chase Credit Card (...3100)".
func (d *Detected) Name() string {
	if d == nil {
		return ""
	}
	name := d.Institution
	switch {
	case d.Subtype == SubtypeCreditCard || d.IsCreditCard:
		name += " Credit Card"
	case d.Subtype == SubtypeChecking:
		name += " Checking"
	case d.Subtype == SubtypeSavings:
		name += " Savings"
	case d.Type == TypeInvestment:
		name += " Investment"
	case d.Type == TypeLoan:
		name += " Loan"
	}
	if d.AccountNumber != "" {
		name += " (..." + d.AccountNumber + ")"
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return "Imported Account"
	}
	return name
}
