package categorization

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/keyword"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/simple"
	"github.com/blevesearch/bleve/v2/mapping"
)

// SearchDocument is one indexed dictionary entry.
type SearchDocument struct {
	ID       string `json:"id"`
	Pattern  string `json:"pattern"`
	Primary  string `json:"primary"`
	Detailed string `json:"detailed"`
	Exact    bool   `json:"exact"`
}

// SearchResult is a search hit with its relevance score.
type SearchResult struct {
	Document SearchDocument
	Score    float64
}

// SearchIndex serves fuzzy merchant lookups over the dictionary using
// Bleve. It backs the classifier's last fallback before "other".
type SearchIndex struct {
	index   bleve.Index
	indexMu sync.RWMutex
	path    string
}

// NewSearchIndex creates an index at path, or in memory when path is empty.
func NewSearchIndex(path string) (*SearchIndex, error) {
	si := &SearchIndex{path: path}

	var index bleve.Index
	var err error

	indexMapping := buildIndexMapping()

	if path == "" {
		index, err = bleve.NewMemOnly(indexMapping)
	} else if _, statErr := os.Stat(path); os.IsNotExist(statErr) {
		if mkdirErr := os.MkdirAll(filepath.Dir(path), 0o755); mkdirErr != nil {
			return nil, fmt.Errorf("create index directory: %w", mkdirErr)
		}
		index, err = bleve.New(path, indexMapping)
	} else {
		index, err = bleve.Open(path)
	}
	if err != nil {
		return nil, fmt.Errorf("create/open index: %w", err)
	}

	si.index = index
	return si, nil
}

func buildIndexMapping() mapping.IndexMapping {
	textFieldMapping := bleve.NewTextFieldMapping()
	textFieldMapping.Analyzer = simple.Name

	keywordFieldMapping := bleve.NewTextFieldMapping()
	keywordFieldMapping.Analyzer = keyword.Name

	docMapping := bleve.NewDocumentMapping()
	docMapping.AddFieldMappingsAt("pattern", textFieldMapping)
	docMapping.AddFieldMappingsAt("primary", keywordFieldMapping)
	docMapping.AddFieldMappingsAt("detailed", keywordFieldMapping)

	indexMapping := bleve.NewIndexMapping()
	indexMapping.DefaultMapping = docMapping
	indexMapping.DefaultAnalyzer = simple.Name
	return indexMapping
}

// IndexEntries indexes the dictionary. Exact entries only; generic
// keywords produce too many low-signal hits.
func (si *SearchIndex) IndexEntries(entries []Entry) error {
	si.indexMu.Lock()
	defer si.indexMu.Unlock()

	batch := si.index.NewBatch()
	for i, entry := range entries {
		if !entry.Exact {
			continue
		}
		doc := SearchDocument{
			ID:       fmt.Sprintf("entry_%d", i),
			Pattern:  strings.ToUpper(entry.Pattern),
			Primary:  entry.Primary,
			Detailed: entry.Detailed,
			Exact:    entry.Exact,
		}
		if err := batch.Index(doc.ID, doc); err != nil {
			return fmt.Errorf("index entry %q: %w", entry.Pattern, err)
		}
	}

	if err := si.index.Batch(batch); err != nil {
		return fmt.Errorf("execute batch index: %w", err)
	}
	return nil
}

// Search runs one fuzzy match query per token, scaling typo tolerance with
// token length: short tokens stay exact, long merchant names absorb up to
// two edits.
func (si *SearchIndex) Search(query string, limit int) ([]SearchResult, error) {
	si.indexMu.RLock()
	defer si.indexMu.RUnlock()

	if limit <= 0 {
		limit = 10
	}

	// Split the way the simple analyzer does, so fuzziness is chosen per
	// indexed term ("NETFLIX.COM" is two terms, not one eleven-char token).
	tokens := strings.FieldsFunc(strings.ToUpper(query), func(r rune) bool {
		return r < 'A' || r > 'Z'
	})
	if len(tokens) == 0 {
		return nil, nil
	}
	disjunction := bleve.NewDisjunctionQuery()
	for _, tok := range tokens {
		matchQuery := bleve.NewMatchQuery(tok)
		matchQuery.SetField("pattern")
		matchQuery.SetFuzziness(tokenFuzziness(tok))
		disjunction.AddQuery(matchQuery)
	}

	searchRequest := bleve.NewSearchRequest(disjunction)
	searchRequest.Size = limit
	searchRequest.Fields = []string{"*"}

	searchResults, err := si.index.Search(searchRequest)
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}
	return convertResults(searchResults), nil
}

// tokenFuzziness picks the edit distance a token can absorb. Tokens under
// five characters fuzz into everything and get none.
func tokenFuzziness(token string) int {
	switch {
	case len(token) >= 8:
		return 2
	case len(token) >= 5:
		return 1
	default:
		return 0
	}
}

// SearchFuzzy runs a fuzzy term query with a configurable edit distance.
func (si *SearchIndex) SearchFuzzy(query string, fuzziness, limit int) ([]SearchResult, error) {
	si.indexMu.RLock()
	defer si.indexMu.RUnlock()

	if limit <= 0 {
		limit = 10
	}
	if fuzziness < 0 {
		fuzziness = 0
	}
	if fuzziness > 2 {
		fuzziness = 2
	}

	fuzzyQuery := bleve.NewFuzzyQuery(strings.ToLower(query))
	fuzzyQuery.SetFuzziness(fuzziness)

	searchRequest := bleve.NewSearchRequest(fuzzyQuery)
	searchRequest.Size = limit
	searchRequest.Fields = []string{"*"}

	searchResults, err := si.index.Search(searchRequest)
	if err != nil {
		return nil, fmt.Errorf("fuzzy search: %w", err)
	}
	return convertResults(searchResults), nil
}

func convertResults(searchResults *bleve.SearchResult) []SearchResult {
	results := make([]SearchResult, 0, len(searchResults.Hits))
	for _, hit := range searchResults.Hits {
		doc := SearchDocument{ID: hit.ID}
		if pattern, ok := hit.Fields["pattern"].(string); ok {
			doc.Pattern = pattern
		}
		if primary, ok := hit.Fields["primary"].(string); ok {
			doc.Primary = primary
		}
		if detailed, ok := hit.Fields["detailed"].(string); ok {
			doc.Detailed = detailed
		}
		if exact, ok := hit.Fields["exact"].(bool); ok {
			doc.Exact = exact
		}
		results = append(results, SearchResult{Document: doc, Score: hit.Score})
	}
	return results
}

// DocumentCount returns the number of indexed entries.
func (si *SearchIndex) DocumentCount() (uint64, error) {
	si.indexMu.RLock()
	defer si.indexMu.RUnlock()
	return si.index.DocCount()
}

// Close closes the underlying index.
func (si *SearchIndex) Close() error {
	si.indexMu.Lock()
	defer si.indexMu.Unlock()
	if si.index != nil {
		return si.index.Close()
	}
	return nil
}
