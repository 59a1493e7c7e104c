// Package search narrows a directory listing by name.
package search

import (
	"strings"

	"github.com/sahilm/fuzzy"

	"github.com/LFroesch/sitescout/internal/listing"
)

// Mode selects the matching algorithm.
type Mode int

const (
	Fuzzy Mode = iota
	Substring
)

func (m Mode) String() string {
	if m == Substring {
		return "substring"
	}
	return "fuzzy"
}

// Match is one entry that survived the filter and the rune positions of
// its filename that matched the query.
type Match struct {
	Entry          listing.Entry
	MatchedIndexes []int
}

// MatchResult contains match information for a list of names
type MatchResult struct {
	Index          int
	MatchedIndexes []int
}

// Filter keeps entries whose filename matches query. An empty query keeps
// everything in the given order. Fuzzy results are ordered best match
// first; substring results keep the input order.
func Filter(query string, entries []listing.Entry, mode Mode) []Match {
	if query == "" {
		out := make([]Match, len(entries))
		for i, e := range entries {
			out[i] = Match{Entry: e}
		}
		return out
	}

	names := make([]string, len(entries))
	for i, e := range entries {
		names[i] = e.Filename
	}

	var results []MatchResult
	if mode == Substring {
		results = SubstringMatchNames(query, names)
	} else {
		results = FuzzyMatchNames(query, names)
	}

	out := make([]Match, 0, len(results))
	for _, r := range results {
		out = append(out, Match{Entry: entries[r.Index], MatchedIndexes: r.MatchedIndexes})
	}
	return out
}

// FuzzyMatchNames ranks names against query with sahilm/fuzzy.
func FuzzyMatchNames(query string, names []string) []MatchResult {
	matches := fuzzy.Find(query, names)
	results := make([]MatchResult, len(matches))
	for i, m := range matches {
		results[i] = MatchResult{Index: m.Index, MatchedIndexes: m.MatchedIndexes}
	}
	return results
}

// SubstringMatchNames performs case-insensitive substring matching on a list of names
// Returns the indices of matches and their matched character positions
func SubstringMatchNames(query string, names []string) []MatchResult {
	if query == "" {
		return nil
	}

	lowerQuery := []rune(strings.ToLower(query))
	var results []MatchResult

	for i, name := range names {
		lowerName := []rune(strings.ToLower(name))
		idx := indexRunes(lowerName, lowerQuery)
		if idx == -1 {
			continue
		}
		matchedIndexes := make([]int, len(lowerQuery))
		for j := range lowerQuery {
			matchedIndexes[j] = idx + j
		}
		results = append(results, MatchResult{
			Index:          i,
			MatchedIndexes: matchedIndexes,
		})
	}

	return results
}

func indexRunes(haystack, needle []rune) int {
	for i := 0; i+len(needle) <= len(haystack); i++ {
		found := true
		for j := range needle {
			if haystack[i+j] != needle[j] {
				found = false
				break
			}
		}
		if found {
			return i
		}
	}
	return -1
}
