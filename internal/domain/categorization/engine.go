package categorization

import (
	"strings"
	"sync"

	"github.com/cloudflare/ahocorasick"
)

// MatchResult is a single dictionary hit.
type MatchResult struct {
	Pattern  string
	Primary  string
	Detailed string
	Exact    bool
	Priority int
}

// Engine matches the whole dictionary against a description in one pass
// using the Aho-Corasick algorithm. Time complexity is O(n + m) where n is
// the text length and m the number of hits, independent of dictionary size.
type Engine struct {
	matcher  *ahocorasick.Matcher
	patterns []string
	metadata [][]MatchResult
	mu       sync.RWMutex
}

// NewEngine builds an engine over the given dictionary entries.
func NewEngine(entries []Entry) *Engine {
	e := &Engine{}
	e.Build(entries)
	return e
}

// Build constructs the Aho-Corasick matcher. Duplicate patterns keep all of
// their metadata grouped under one matcher slot.
func (e *Engine) Build(entries []Entry) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if len(entries) == 0 {
		e.matcher = nil
		e.patterns = nil
		e.metadata = nil
		return
	}

	patternToIndex := make(map[string]int, len(entries))
	patterns := make([]string, 0, len(entries))
	metadata := make([][]MatchResult, 0, len(entries))

	for _, entry := range entries {
		pattern := strings.ToUpper(strings.TrimSpace(entry.Pattern))
		if pattern == "" {
			continue
		}

		// Exact merchant names outrank generic keywords; among equals the
		// longer, more specific pattern wins.
		priority := len(pattern)
		if entry.Exact {
			priority += 1000
		}

		result := MatchResult{
			Pattern:  pattern,
			Primary:  entry.Primary,
			Detailed: entry.Detailed,
			Exact:    entry.Exact,
			Priority: priority,
		}

		if idx, exists := patternToIndex[pattern]; exists {
			metadata[idx] = append(metadata[idx], result)
		} else {
			patternToIndex[pattern] = len(patterns)
			patterns = append(patterns, pattern)
			metadata = append(metadata, []MatchResult{result})
		}
	}

	e.patterns = patterns
	e.metadata = metadata

	if len(patterns) == 0 {
		e.matcher = nil
		return
	}
	bytePatterns := make([][]byte, len(patterns))
	for i, p := range patterns {
		bytePatterns[i] = []byte(p)
	}
	e.matcher = ahocorasick.NewMatcher(bytePatterns)
}

// Match returns the highest-priority dictionary hit, or nil.
func (e *Engine) Match(text string) *MatchResult {
	e.mu.RLock()
	defer e.mu.RUnlock()

	if e.matcher == nil || len(e.patterns) == 0 {
		return nil
	}

	matches := e.matcher.Match([]byte(strings.ToUpper(text)))
	if len(matches) == 0 {
		return nil
	}

	var best *MatchResult
	for _, idx := range matches {
		if idx < 0 || idx >= len(e.metadata) {
			continue
		}
		for i := range e.metadata[idx] {
			m := &e.metadata[idx][i]
			if best == nil || m.Priority > best.Priority {
				cp := *m
				best = &cp
			}
		}
	}
	return best
}

// MatchAll returns every hit sorted by priority, highest first.
func (e *Engine) MatchAll(text string) []MatchResult {
	e.mu.RLock()
	defer e.mu.RUnlock()

	if e.matcher == nil || len(e.patterns) == 0 {
		return nil
	}

	matches := e.matcher.Match([]byte(strings.ToUpper(text)))
	if len(matches) == 0 {
		return nil
	}

	results := make([]MatchResult, 0, len(matches))
	for _, idx := range matches {
		if idx >= 0 && idx < len(e.metadata) {
			results = append(results, e.metadata[idx]...)
		}
	}

	for i := 1; i < len(results); i++ {
		for j := i; j > 0 && results[j].Priority > results[j-1].Priority; j-- {
			results[j], results[j-1] = results[j-1], results[j]
		}
	}
	return results
}

// PatternCount returns the number of loaded patterns.
func (e *Engine) PatternCount() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return len(e.patterns)
}

// IsEmpty reports whether the engine has no patterns.
func (e *Engine) IsEmpty() bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.matcher == nil || len(e.patterns) == 0
}
