package account

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetectFromFilename(t *testing.T) {
	tests := []struct {
		name            string
		filename        string
		wantInstitution string
		wantNumber      string
		wantType        string
		wantSubtype     string
	}{
		{
			name:            "institution with glued number",
			filename:        "Chase3100_Activity_20251221.csv",
			wantInstitution: "Chase",
			wantNumber:      "3100",
		},
		{
			name:            "alias expansion",
			filename:        "bofa_checking_4412.csv",
			wantInstitution: "Bank of America",
			wantNumber:      "4412",
			wantType:        TypeDepository,
			wantSubtype:     SubtypeChecking,
		},
		{
			name:            "credit card beats depository keywords",
			filename:        "amex_card_statement_jan.pdf",
			wantInstitution: "American Express",
			wantType:        TypeCredit,
			wantSubtype:     SubtypeCreditCard,
		},
		{
			name:            "capone alias",
			filename:        "capone-savings-0091.xlsx",
			wantInstitution: "Capital One",
			wantNumber:      "0091",
			wantType:        TypeDepository,
			wantSubtype:     SubtypeSavings,
		},
		{
			name:       "year run is not an account number",
			filename:   "statement_2025.csv",
			wantNumber: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			det := DetectFromFilename(tt.filename)
			if tt.wantInstitution == "" && tt.wantNumber == "" && tt.wantType == "" {
				if det != nil {
					assert.Empty(t, det.AccountNumber)
				}
				return
			}
			require.NotNil(t, det)
			assert.Equal(t, tt.wantInstitution, det.Institution)
			assert.Equal(t, tt.wantNumber, det.AccountNumber)
			assert.Equal(t, tt.wantType, det.Type)
			assert.Equal(t, tt.wantSubtype, det.Subtype)
			assert.Equal(t, "filename", det.Source)
		})
	}
}

func TestDetectFromFilename_Skipped(t *testing.T) {
	for _, filename := range []string{
		"",
		"unknown.csv",
		"import_20251221.csv",
		"a1b2c3d4-e5f6-7890-abcd-ef1234567890.pdf",
	} {
		assert.Nil(t, DetectFromFilename(filename), "filename %q", filename)
	}
}

func TestIsTransactionTable(t *testing.T) {
	assert.True(t, IsTransactionTable([]string{"date", "amount", "description"}))
	assert.True(t, IsTransactionTable([]string{"Posted Date", "Payee", "Amount", "Balance"}))
	assert.False(t, IsTransactionTable([]string{"account name", "institution name", "account type"}))
	assert.False(t, IsTransactionTable([]string{"date", "amount"}))
	assert.False(t, IsTransactionTable(nil))
}

func TestDetectFromHeaders(t *testing.T) {
	t.Run("transaction table yields nothing", func(t *testing.T) {
		assert.Nil(t, DetectFromHeaders([]string{"date", "amount", "description", "balance"}))
	})

	t.Run("account metadata headers", func(t *testing.T) {
		det := DetectFromHeaders([]string{"Chase Checking", "Account Ending ****3100"})
		require.NotNil(t, det)
		assert.Equal(t, "Chase", det.Institution)
		assert.Equal(t, "3100", det.AccountNumber)
		assert.Equal(t, SubtypeChecking, det.Subtype)
		assert.Equal(t, "headers", det.Source)
	})

	t.Run("nothing usable", func(t *testing.T) {
		assert.Nil(t, DetectFromHeaders([]string{"colA", "colB"}))
	})
}

func TestDetectFromText(t *testing.T) {
	t.Run("credit card statement", func(t *testing.T) {
		doc := []string{
			"JPMorgan Chase Bank, N.A.",
			"www.chase.com",
			"AGARWAL SUMIT KUMAR",
			"12345 MAIN ST",
			"SEATTLE WA 98101-4321",
			"Account Number: ****1234",
			"New Balance: $1,624.59",
			"Previous Balance: $2,082.50",
			"Minimum Payment Due: $35.00",
			"Payment Due Date: 01/06/26",
		}
		det := DetectFromText(doc)
		require.NotNil(t, det)
		assert.Equal(t, "1234", det.AccountNumber)
		assert.Equal(t, "AGARWAL SUMIT KUMAR", det.HolderName)
		assert.True(t, det.IsCreditCard)
		assert.Equal(t, TypeCredit, det.Type)
		require.NotNil(t, det.NewBalance)
		assert.Equal(t, "1624.59", det.NewBalance.String())
		require.NotNil(t, det.PreviousBalance)
		assert.Equal(t, "2082.5", det.PreviousBalance.String())
		assert.NotEmpty(t, det.Institution)
	})

	t.Run("website outranks stray keyword", func(t *testing.T) {
		doc := []string{
			"Purchased at CHASE CENTER ARENA",
			"Questions? Visit bankofamerica.com",
			"Account Number: 8-41007",
		}
		det := DetectFromText(doc)
		require.NotNil(t, det)
		assert.Equal(t, "Bank of America", det.Institution)
		assert.Equal(t, "1007", det.AccountNumber)
	})

	t.Run("holder before card ending marker", func(t *testing.T) {
		doc := []string{
			"MARY-JANE O'BRIEN",
			"Card Ending 4 4412",
		}
		det := DetectFromText(doc)
		require.NotNil(t, det)
		assert.Equal(t, "MARY-JANE O'BRIEN", det.HolderName)
	})

	t.Run("boilerplate never counts as a name", func(t *testing.T) {
		doc := []string{
			"Write your name and account number",
			"Card Ending 4 4412",
		}
		det := DetectFromText(doc)
		if det != nil {
			assert.Empty(t, det.HolderName)
		}
	})

	t.Run("empty document", func(t *testing.T) {
		assert.Nil(t, DetectFromText(nil))
	})
}

func TestDetectedName(t *testing.T) {
	det := &Detected{Institution: "Chase", Subtype: SubtypeCreditCard, AccountNumber: "3100"}
	assert.Equal(t, "Chase Credit Card (...3100)", det.Name())

	assert.Equal(t, "Imported Account", (&Detected{}).Name())
}
