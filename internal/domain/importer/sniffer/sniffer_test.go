package sniffer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetectConfig_HeaderUnderMetadata(t *testing.T) {
	data := []byte("Account Name: CREDIT CARD\n" +
		",,\n" +
		"Transaction Date,Post Date,Description,Category,Type,Amount\n" +
		"11/27/2025,11/28/2025,STARBUCKS STORE 03855,Food & Drink,Sale,-9.50\n" +
		"11/28/2025,11/29/2025,AUTOMATIC PAYMENT - THANK YOU,,Payment,458.40\n")

	cfg, err := DetectConfig(data)
	require.NoError(t, err)

	assert.Equal(t, ',', cfg.Delimiter)
	assert.Equal(t, 2, cfg.SkipLines)
	assert.Equal(t,
		[]string{"Transaction Date", "Post Date", "Description", "Category", "Type", "Amount"},
		cfg.Headers,
	)
	assert.NotEmpty(t, cfg.Fingerprint)
	require.Len(t, cfg.SampleRows, 2)
	assert.Equal(t, "STARBUCKS STORE 03855", cfg.SampleRows[0][2])
}

func TestDetectConfig_TabDelimited(t *testing.T) {
	data := []byte("Date\tDescription\tAmount\n11/27/2025\tSTARBUCKS\t-9.50\n")

	cfg, err := DetectConfig(data)
	require.NoError(t, err)

	assert.Equal(t, '\t', cfg.Delimiter)
	assert.Equal(t, 0, cfg.SkipLines)
	assert.Equal(t, []string{"Date", "Description", "Amount"}, cfg.Headers)
}

func TestDetectConfig_Errors(t *testing.T) {
	_, err := DetectConfig(nil)
	assert.ErrorIs(t, err, ErrEmptyFile)

	_, err = DetectConfig([]byte("just a paragraph of text\nwith no columns at all\n"))
	assert.ErrorIs(t, err, ErrNoHeadersFound)
}

func TestDetectConfig_FingerprintStableAcrossFormatting(t *testing.T) {
	a, err := DetectConfig([]byte("Date,Description,Amount\n1/1/2025,X,-1.00\n"))
	require.NoError(t, err)
	b, err := DetectConfig([]byte("  Date , Description , Amount\n1/1/2025,X,-1.00\n"))
	require.NoError(t, err)

	assert.Equal(t, a.Fingerprint, b.Fingerprint)
}

func TestDedupeHeaders(t *testing.T) {
	tests := []struct {
		name string
		in   []string
		want []string
	}{
		{
			name: "no duplicates untouched",
			in:   []string{"Date", "Description", "Amount"},
			want: []string{"Date", "Description", "Amount"},
		},
		{
			name: "repeated column gets suffix",
			in:   []string{"Date", "Amount", "Amount"},
			want: []string{"Date", "Amount", "Amount_2"},
		},
		{
			name: "case-insensitive duplicate detection",
			in:   []string{"Amount", "amount", "AMOUNT"},
			want: []string{"Amount", "amount_2", "AMOUNT_3"},
		},
		{
			name: "blank headers stay blank",
			in:   []string{"Date", "", ""},
			want: []string{"Date", "", ""},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DedupeHeaders(tt.in))
		})
	}
}
