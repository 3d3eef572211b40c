package search

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// Matcher tests file names for literal substring containment of a query.
// Case-insensitive matchers fold both sides with Unicode case folding.
type Matcher struct {
	query string
	fold  bool
}

// NewMatcher builds a matcher for query. The query is NFC-normalized so it
// compares equal to listed names, which are normalized the same way.
func NewMatcher(query string, caseInsensitive bool) Matcher {
	query = norm.NFC.String(query)
	if caseInsensitive {
		query = foldString(query)
	}
	return Matcher{query: query, fold: caseInsensitive}
}

// Empty reports whether the matcher has nothing to look for.
func (m Matcher) Empty() bool {
	return m.query == ""
}

// Match reports whether name contains the query.
func (m Matcher) Match(name string) bool {
	if m.query == "" {
		return false
	}
	if m.fold {
		name = foldString(name)
	}
	return strings.Contains(name, m.query)
}

// Span returns the byte range of the first occurrence of the query in name,
// in name's own offsets, or ok=false when there is none.
func (m Matcher) Span(name string) (start, end int, ok bool) {
	if m.query == "" {
		return 0, 0, false
	}
	if !m.fold {
		idx := strings.Index(name, m.query)
		if idx < 0 {
			return 0, 0, false
		}
		return idx, idx + len(m.query), true
	}

	// Folding can change byte lengths, so search rune boundaries in the
	// original string.
	if !m.Match(name) {
		return 0, 0, false
	}
	for i := 0; i < len(name); {
		_, first := utf8.DecodeRuneInString(name[i:])
		for j := i + first; ; {
			if foldString(name[i:j]) == m.query {
				return i, j, true
			}
			if j >= len(name) {
				break
			}
			_, size := utf8.DecodeRuneInString(name[j:])
			j += size
		}
		i += first
	}
	return 0, 0, false
}

// foldString uses a fresh Caser per call; Casers are not safe for concurrent use.
func foldString(s string) string {
	return cases.Fold().String(s)
}
