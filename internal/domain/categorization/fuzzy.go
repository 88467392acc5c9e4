package categorization

import (
	"strings"
	"sync"

	"github.com/lithammer/fuzzysearch/fuzzy"
)

// FuzzyMatchResult is a near-miss dictionary hit with its similarity score.
type FuzzyMatchResult struct {
	Pattern  string
	Primary  string
	Detailed string
	Score    int // 0-100, higher is closer
	Distance int // Levenshtein distance
}

// FuzzyMatcher catches merchant-name variations the exact engine misses,
// like "STARBUKS #221" for "STARBUCKS". Exact dictionary entries only;
// generic keywords are too short to rank meaningfully.
type FuzzyMatcher struct {
	patterns []fuzzyPattern
	mu       sync.RWMutex
}

type fuzzyPattern struct {
	normalized string
	primary    string
	detailed   string
}

// NewFuzzyMatcher builds a fuzzy matcher over the dictionary.
func NewFuzzyMatcher(entries []Entry) *FuzzyMatcher {
	fm := &FuzzyMatcher{}
	fm.Build(entries)
	return fm
}

// Build rebuilds the pattern list.
func (fm *FuzzyMatcher) Build(entries []Entry) {
	fm.mu.Lock()
	defer fm.mu.Unlock()

	fm.patterns = fm.patterns[:0]
	for _, entry := range entries {
		if !entry.Exact {
			continue
		}
		pattern := strings.ToUpper(strings.TrimSpace(entry.Pattern))
		if len(pattern) < 5 {
			// Short patterns fuzz into everything.
			continue
		}
		fm.patterns = append(fm.patterns, fuzzyPattern{
			normalized: pattern,
			primary:    entry.Primary,
			detailed:   entry.Detailed,
		})
	}
}

// Match returns the closest pattern scoring at or above threshold (0-100),
// or nil when nothing is close enough.
func (fm *FuzzyMatcher) Match(text string, threshold int) *FuzzyMatchResult {
	fm.mu.RLock()
	defer fm.mu.RUnlock()

	if len(fm.patterns) == 0 {
		return nil
	}

	normalized := strings.ToUpper(strings.TrimSpace(text))
	if normalized == "" {
		return nil
	}

	var best *FuzzyMatchResult
	for _, p := range fm.patterns {
		distance := fuzzy.LevenshteinDistance(tokenWindow(normalized, len(p.normalized)), p.normalized)
		if distance < 0 {
			continue
		}
		maxLen := len(p.normalized)
		if l := len(normalized); l > maxLen && l < 2*maxLen {
			maxLen = l
		}
		score := 100 - (distance*100)/maxLen
		if score < threshold {
			continue
		}
		if best == nil || score > best.Score {
			best = &FuzzyMatchResult{
				Pattern:  p.normalized,
				Primary:  p.primary,
				Detailed: p.detailed,
				Score:    score,
				Distance: distance,
			}
		}
	}
	return best
}

// tokenWindow trims the candidate text to roughly the pattern's length so
// store numbers and city suffixes do not drown the distance measure.
func tokenWindow(text string, width int) string {
	if len(text) <= width+2 {
		return text
	}
	cut := text[:width+2]
	if i := strings.LastIndex(cut, " "); i > width/2 {
		cut = cut[:i]
	}
	return cut
}
