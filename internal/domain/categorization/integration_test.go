package categorization

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// The fallback chain behind the rule overrides: exact dictionary, then
// Levenshtein matcher, then the bleve index, then other.
func TestFallbackChainOrdering(t *testing.T) {
	si, err := NewSearchIndex("")
	require.NoError(t, err)
	defer si.Close()
	require.NoError(t, si.IndexEntries(Dictionaries()))

	c := NewClassifier().WithSearchIndex(si)

	t.Run("exact hit never reaches fuzzy", func(t *testing.T) {
		got := c.Classify(Input{Description: "STARBUCKS STORE 03855"})
		assert.Equal(t, Mapping{PrimaryDining, DetailCoffee}, got)
	})

	t.Run("near miss resolved by fuzzy matcher", func(t *testing.T) {
		got := c.Classify(Input{Description: "STARBUKS #221"})
		assert.Equal(t, Mapping{PrimaryDining, DetailCoffee}, got)
	})

	t.Run("token-level miss resolved by search index", func(t *testing.T) {
		got := c.Classify(Input{Description: "POS DEBIT NETFLIKS"})
		assert.Equal(t, Mapping{PrimarySubscriptions, DetailStreaming}, got)
	})

	t.Run("nothing close lands on other", func(t *testing.T) {
		got := c.Classify(Input{Description: "ZZZQQQ LLC"})
		assert.Equal(t, OtherMapping, got)
	})
}

// Every chain stage still returns something sane when the dictionaries are
// empty.
func TestEmptyDictionaryClassifier(t *testing.T) {
	c := &Classifier{engine: NewEngine(nil), fuzzy: NewFuzzyMatcher(nil)}

	assert.Equal(t, OtherMapping, c.Classify(Input{Description: "STARBUCKS"}))
	assert.Equal(t,
		Mapping{PrimaryPayment, DetailPayment},
		c.Classify(Input{Description: "ANYTHING", Amount: dec("-5.00"), PaymentChannel: ChannelACH}),
	)
}
