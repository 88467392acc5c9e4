package categorization

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestIndex(t *testing.T) *SearchIndex {
	t.Helper()
	si, err := NewSearchIndex("")
	require.NoError(t, err)
	t.Cleanup(func() { _ = si.Close() })
	require.NoError(t, si.IndexEntries(Dictionaries()))
	return si
}

func TestSearchIndex_Search(t *testing.T) {
	si := newTestIndex(t)

	count, err := si.DocumentCount()
	require.NoError(t, err)
	assert.Greater(t, count, uint64(50))

	results, err := si.Search("NETFLIX.COM", 5)
	require.NoError(t, err)
	require.NotEmpty(t, results)
	assert.Equal(t, PrimarySubscriptions, results[0].Document.Primary)
	assert.Equal(t, DetailStreaming, results[0].Document.Detailed)
}

func TestSearchIndex_Search_TypoTolerance(t *testing.T) {
	si := newTestIndex(t)

	results, err := si.Search("starbacks", 5)
	require.NoError(t, err)
	require.NotEmpty(t, results)
	assert.Equal(t, PrimaryDining, results[0].Document.Primary)
}

func TestSearchIndex_Search_TwoEditTolerance(t *testing.T) {
	si := newTestIndex(t)

	// Long tokens absorb two edits; NETFLIKS is one substitution plus one
	// insertion away from NETFLIX.
	results, err := si.Search("POS DEBIT NETFLIKS", 5)
	require.NoError(t, err)
	require.NotEmpty(t, results)
	assert.Equal(t, PrimarySubscriptions, results[0].Document.Primary)
	assert.Equal(t, DetailStreaming, results[0].Document.Detailed)
}

func TestSearchIndex_Search_ShortTokensStayExact(t *testing.T) {
	si := newTestIndex(t)

	// LLC must not fuzz into three-letter merchants like KFC or QFC.
	results, err := si.Search("ZZZQQQ LLC", 5)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestSearchIndex_SearchFuzzy(t *testing.T) {
	si := newTestIndex(t)

	results, err := si.SearchFuzzy("netflx", 1, 5)
	require.NoError(t, err)
	require.NotEmpty(t, results)
	assert.Equal(t, PrimarySubscriptions, results[0].Document.Primary)
}

func TestSearchIndex_NoHits(t *testing.T) {
	si := newTestIndex(t)

	results, err := si.Search("zzzqqq", 5)
	require.NoError(t, err)
	assert.Empty(t, results)
}
