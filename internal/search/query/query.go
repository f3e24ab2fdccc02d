// Package query parses search queries and matches them against posts.
//
// A query is a list of terms separated by whitespace. A "quoted phrase" is one term and matches
// its words separated by any whitespace. A term prefixed with "-" excludes every post that
// contains it. Matching is case-insensitive.
package query

import (
	"path"
	"regexp"
	"sort"
	"strings"
	"unicode"
)

// Query is a parsed search query.
type Query struct {
	input    string
	terms    []term
	excluded []term
}

type term struct {
	text    string // lower-cased, single-spaced
	pattern *regexp.Regexp
}

func newTerm(text string) term {
	words := strings.Fields(text)
	for i, w := range words {
		words[i] = regexp.QuoteMeta(w)
	}
	return term{
		text:    strings.ToLower(strings.Join(strings.Fields(text), " ")),
		pattern: regexp.MustCompile(`(?i)` + strings.Join(words, `\s+`)),
	}
}

// Parse parses a search query. Repeated terms are kept once.
func Parse(input string) Query {
	q := Query{input: input}
	seen := map[string]bool{}
	for _, f := range fields(input) {
		exclude := len(f) > 1 && f[0] == '-'
		if exclude {
			f = f[1:]
		}
		t := newTerm(f)
		if t.text == "" {
			continue
		}
		key := t.text
		if exclude {
			key = "-" + key
		}
		if seen[key] {
			continue
		}
		seen[key] = true
		if exclude {
			q.excluded = append(q.excluded, t)
		} else {
			q.terms = append(q.terms, t)
		}
	}
	return q
}

// fields splits s at whitespace outside double quotes. Quotes are dropped.
func fields(s string) []string {
	var (
		out     []string
		b       strings.Builder
		inQuote bool
	)
	flush := func() {
		if b.Len() > 0 {
			out = append(out, b.String())
			b.Reset()
		}
	}
	for _, r := range s {
		switch {
		case r == '"':
			inQuote = !inQuote
		case unicode.IsSpace(r) && !inQuote:
			flush()
		default:
			b.WriteRune(r)
		}
	}
	flush()
	return out
}

// String returns the query as it was typed.
func (q Query) String() string { return q.input }

// IsEmpty reports whether the query has no terms to look for. A query of exclusions only is empty.
func (q Query) IsEmpty() bool { return len(q.terms) == 0 }

// Target is a post as seen by a query.
type Target struct {
	Path  string // content file path
	Title string
	Text  []byte // markdown body
}

const (
	maxMatchesPerPost = 50
	titleWeight       = 500 // per term found in the title or file name
	termWeight        = 50  // times the square of the number of terms found in the text
	allTermsBonus     = 200 // every term is in the text
)

// Score ranks a post for the query. It is 0 if no term matches or an excluded term does.
func (q Query) Score(t Target) float64 {
	name := strings.TrimSuffix(path.Base(t.Path), ".md")
	for _, x := range q.excluded {
		if x.pattern.MatchString(t.Title) || x.pattern.MatchString(name) || x.pattern.Match(t.Text) {
			return 0
		}
	}
	var inTitle, inText, total int
	for _, x := range q.terms {
		if x.pattern.MatchString(t.Title) || x.pattern.MatchString(name) {
			inTitle++
		}
		if n := len(x.pattern.FindAllIndex(t.Text, maxMatchesPerPost)); n > 0 {
			inText++
			total += n
		}
	}
	if inTitle == 0 && inText == 0 {
		return 0
	}
	score := float64(inTitle*titleWeight) + float64(inText*inText*termWeight) + float64(total)/float64(len(t.Text)+1)
	if inText == len(q.terms) {
		score += allTermsBonus
	}
	return score
}

// Match reports whether the query selects the post.
func (q Query) Match(t Target) bool { return q.Score(t) > 0 }

// Match is the [start, end) byte range of a match.
type Match [2]int

// FindAllIndex returns the ranges of text that match a term, in order. Overlapping matches are
// merged into one.
func (q Query) FindAllIndex(text string) []Match {
	var matches []Match
	for _, t := range q.terms {
		for _, m := range t.pattern.FindAllStringIndex(text, -1) {
			matches = append(matches, Match{m[0], m[1]})
		}
	}
	sort.Slice(matches, func(i, j int) bool {
		return matches[i][0] < matches[j][0] || (matches[i][0] == matches[j][0] && matches[i][1] > matches[j][1])
	})
	var merged []Match
	for _, m := range matches {
		if n := len(merged); n > 0 && m[0] < merged[n-1][1] {
			if m[1] > merged[n-1][1] {
				merged[n-1][1] = m[1]
			}
			continue
		}
		merged = append(merged, m)
	}
	return merged
}
