package markdown

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"
)

var (
	anchorTagPattern     = regexp.MustCompile(`^(.*?)\s*\{#([^}]+)\}\s*$`)
	closingHashesPattern = regexp.MustCompile(`\s+#+\s*$`)
)

// HeadingID derives an anchor identifier from heading text. It lower-cases the text, drops every
// character that is not an ASCII letter, digit, whitespace or hyphen, turns whitespace into
// hyphens, collapses hyphen runs and trims hyphens from both ends.
//
//	HeadingID("Getting Started!") == "getting-started"
func HeadingID(text string) string {
	var b strings.Builder
	hyphen := false
	for _, r := range strings.ToLower(text) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			if hyphen && b.Len() > 0 {
				b.WriteByte('-')
			}
			hyphen = false
			b.WriteRune(r)
		case r == '-' || unicode.IsSpace(r):
			hyphen = true
		}
	}
	return b.String()
}

// SplitAnchor splits an explicit trailing `{#custom-id}` tag off text. If there is no tag, id is
// empty and label is text unchanged.
func SplitAnchor(text string) (label, id string) {
	m := anchorTagPattern.FindStringSubmatch(text)
	if m == nil {
		return text, ""
	}
	return m[1], strings.TrimSpace(m[2])
}

// HeadingAnchor returns the anchor id and the cleaned label for the raw text of a heading (the
// text after the leading #s). An explicit `{#id}` tag is used verbatim; otherwise the id is
// derived from the label with HeadingID. A label HeadingID reduces to "" (such as "🚀" or "!!!")
// gets the id "section", which is then suffixed like any other repeated id.
//
// Every component that assigns or links to heading anchors calls this function, so navigation
// links built from Analyze resolve against the anchors Run renders.
func HeadingAnchor(raw string) (id string, explicit bool, label string) {
	text := closingHashesPattern.ReplaceAllString(strings.TrimSpace(raw), "")
	text, id = SplitAnchor(text)
	label = StripInline(text)
	if id != "" {
		return id, true, label
	}
	id = HeadingID(label)
	if id == "" {
		id = "section"
	}
	return id, false, label
}

// IDs hands out the anchor identifiers of one document.
type IDs struct {
	seen map[string]int
}

// NewIDs returns an empty set of identifiers.
func NewIDs() *IDs {
	return &IDs{seen: map[string]int{}}
}

// Put records an explicit identifier. It is never suffixed.
func (s *IDs) Put(id string) {
	if _, ok := s.seen[id]; !ok {
		s.seen[id] = 0
	}
}

// Unique returns id if it has not been handed out yet. Otherwise it returns id with the smallest
// free numeric suffix ("-1", "-2", ...), so the first occurrence keeps the bare id.
func (s *IDs) Unique(id string) string {
	count, taken := s.seen[id]
	if !taken {
		s.seen[id] = 0
		return id
	}
	for n := count + 1; ; n++ {
		candidate := id + "-" + strconv.Itoa(n)
		if _, taken := s.seen[candidate]; !taken {
			s.seen[id] = n
			s.seen[candidate] = 0
			return candidate
		}
	}
}

// Has reports whether id was handed out or recorded.
func (s *IDs) Has(id string) bool {
	_, ok := s.seen[id]
	return ok
}
