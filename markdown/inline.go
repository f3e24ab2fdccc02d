package markdown

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

type segmentKind int

const (
	plainSegment  segmentKind = iota
	codeSegment               // `code`
	markupSegment             // HTML tags, autolinks, images, link destinations
	urlSegment                // bare http(s) URL
)

// segment is a piece of a line of inline markdown. Only plain segments are ever rewritten.
type segment struct {
	text string
	kind segmentKind
}

var (
	markupPattern          = regexp.MustCompile(`^(?:<!--.*?-->|<(?:https?://|mailto:)[^>\s]+>|</?[A-Za-z][A-Za-z0-9-]*(?:\s[^<>]*)?/?>)`)
	imageSyntaxPattern     = regexp.MustCompile(`^!\[[^\]]*\]\([^)]*\)`)
	linkDestinationPattern = regexp.MustCompile(`^\]\([^)]*\)`)
	urlPattern             = regexp.MustCompile("^https?://[^\\s<>\"'`\\[\\]]+")

	linkSpacePattern   = regexp.MustCompile(`(!?)\[[ \t]*([^\[\]]*?)[ \t]*\]\([ \t]*([^()]*?)[ \t]*\)`)
	footnoteRefPattern = regexp.MustCompile(`\[\^[ \t]*([^\]\s]+)[ \t]*\]`)
	strikePattern      = regexp.MustCompile(`~~[ \t]*([^~\s](?:[^~]*[^~\s])?)[ \t]*~~`)
	spaceRunPattern    = regexp.MustCompile(` {2,}`)
	keyPattern         = regexp.MustCompile(`\b(?:(?:[Cc]md|[Cc]trl|[Aa]lt|[Ss]hift)(?:\s*\+\s*(?:[Cc]md|[Cc]trl|[Aa]lt|[Ss]hift))*\s*\+\s*[A-Za-z0-9]+\b|(?:Cmd|Ctrl|Alt|Shift|Enter|Tab|Esc|Delete|Backspace|Space)\b)`)
)

// splitInline splits a line into plain text and the constructs inline repair must not touch.
func splitInline(s string) []segment {
	var segs []segment
	plain := 0
	for i := 0; i < len(s); {
		n, kind := 0, plainSegment
		switch c := s[i]; {
		case c == '\\':
			i += 2
			continue
		case c == '`':
			run := backtickRun(s[i:])
			if n = codeSpanLength(s[i:], run); n == 0 {
				i += run
				continue
			}
			kind = codeSegment
		case c == '<':
			n, kind = len(markupPattern.FindString(s[i:])), markupSegment
		case c == '!':
			n, kind = len(imageSyntaxPattern.FindString(s[i:])), markupSegment
		case c == ']':
			n, kind = len(linkDestinationPattern.FindString(s[i:])), markupSegment
		case c == 'h' && (i == 0 || !isWordByte(s[i-1])):
			n, kind = urlLength(s[i:]), urlSegment
		}
		if n == 0 {
			i++
			continue
		}
		if i > plain {
			segs = append(segs, segment{text: s[plain:i], kind: plainSegment})
		}
		segs = append(segs, segment{text: s[i : i+n], kind: kind})
		i += n
		plain = i
	}
	if plain < len(s) {
		segs = append(segs, segment{text: s[plain:], kind: plainSegment})
	}
	return segs
}

func backtickRun(s string) int {
	n := 0
	for n < len(s) && s[n] == '`' {
		n++
	}
	return n
}

// codeSpanLength returns the length of the code span that starts s with a run of n backticks, or
// 0 if the run is never closed.
func codeSpanLength(s string, n int) int {
	for i := n; i < len(s); {
		if s[i] != '`' {
			i++
			continue
		}
		j := i + backtickRun(s[i:])
		if j-i == n {
			return j
		}
		i = j
	}
	return 0
}

// urlLength returns the length of the bare URL at the start of s, leaving out trailing
// punctuation and unbalanced closing parentheses.
func urlLength(s string) int {
	u := urlPattern.FindString(s)
	for len(u) > 0 {
		last := u[len(u)-1]
		switch {
		case strings.IndexByte(".,;:!?*_~", last) >= 0:
		case last == ')' && strings.Count(u, "(") < strings.Count(u, ")"):
		default:
			return len(u)
		}
		u = u[:len(u)-1]
	}
	return 0
}

func isWordByte(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9' || c == '_'
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}

// repairInline canonicalizes the inline syntax of one trimmed line.
func repairInline(text string) string {
	if text == "" {
		return text
	}
	text = outsideCode(text, tidyBrackets)
	segs := splitInline(text)
	var b strings.Builder
	for i, seg := range segs {
		switch seg.kind {
		case plainSegment:
			b.WriteString(repairPlain(seg.text, i > 0, i < len(segs)-1))
		case urlSegment:
			if i > 0 && strings.HasSuffix(segs[i-1].text, "[") {
				b.WriteString(seg.text)
			} else {
				b.WriteString("<" + seg.text + ">")
			}
		default:
			b.WriteString(seg.text)
		}
	}
	return b.String()
}

// outsideCode applies fn to the parts of s that are not code spans.
func outsideCode(s string, fn func(string) string) string {
	var b strings.Builder
	start := 0
	for i := 0; i < len(s); {
		switch s[i] {
		case '\\':
			i += 2
			continue
		case '`':
			run := backtickRun(s[i:])
			n := codeSpanLength(s[i:], run)
			if n == 0 {
				i += run
				continue
			}
			b.WriteString(fn(s[start:i]))
			b.WriteString(s[i : i+n])
			i += n
			start = i
			continue
		}
		i++
	}
	if start < len(s) {
		b.WriteString(fn(s[start:]))
	}
	return b.String()
}

func tidyBrackets(s string) string {
	s = linkSpacePattern.ReplaceAllString(s, "${1}[${2}](${3})")
	s = footnoteRefPattern.ReplaceAllString(s, "[^${1}]")
	return strikePattern.ReplaceAllString(s, "~~${1}~~")
}

// repairPlain rewrites a plain segment. before and after report whether other segments touch it,
// in which case key names at its edges are left alone.
func repairPlain(s string, before, after bool) string {
	s = swapEmphasis(s, "__", "**")
	s = swapEmphasis(s, "_", "*")
	s = spaceRunPattern.ReplaceAllString(s, " ")
	return wrapKeys(s, before, after)
}

// swapEmphasis rewrites underscore emphasis written with delim to use repl instead. Intraword and
// escaped underscores are not emphasis and stay as they are.
func swapEmphasis(s, delim, repl string) string {
	if !strings.Contains(s, delim) {
		return s
	}
	var b strings.Builder
	pos, done := 0, 0
	for pos < len(s) {
		i := strings.Index(s[pos:], delim)
		if i < 0 {
			break
		}
		open := pos + i
		pos = open + len(delim)
		if !opensEmphasis(s, open, delim) {
			continue
		}
		end := closeEmphasis(s, pos, delim)
		if end < 0 {
			continue
		}
		b.WriteString(s[done:open])
		b.WriteString(repl)
		b.WriteString(s[pos:end])
		b.WriteString(repl)
		pos = end + len(delim)
		done = pos
	}
	b.WriteString(s[done:])
	return b.String()
}

func opensEmphasis(s string, i int, delim string) bool {
	end := i + len(delim)
	if end >= len(s) {
		return false
	}
	if next, _ := utf8.DecodeRuneInString(s[end:]); next == '_' || unicode.IsSpace(next) {
		return false
	}
	if i == 0 {
		return true
	}
	prev, _ := utf8.DecodeLastRuneInString(s[:i])
	return prev != '_' && prev != '\\' && !isWordRune(prev)
}

// closeEmphasis returns the index of the delimiter closing emphasis whose content starts at from,
// or -1. The content may not contain underscores.
func closeEmphasis(s string, from int, delim string) int {
	i := strings.IndexByte(s[from:], '_')
	if i <= 0 {
		return -1
	}
	i += from
	end := i + len(delim)
	if !strings.HasPrefix(s[i:], delim) || end < len(s) && s[end] == '_' {
		return -1
	}
	if prev, _ := utf8.DecodeLastRuneInString(s[:i]); unicode.IsSpace(prev) || prev == '\\' {
		return -1
	}
	if end < len(s) {
		if next, _ := utf8.DecodeRuneInString(s[end:]); isWordRune(next) {
			return -1
		}
	}
	return i
}

// wrapKeys puts key names and key chords in code spans: "press Ctrl + C" becomes
// "press `Ctrl+C`".
func wrapKeys(s string, before, after bool) string {
	locs := keyPattern.FindAllStringIndex(s, -1)
	if locs == nil {
		return s
	}
	var b strings.Builder
	done := 0
	for _, loc := range locs {
		start, end := loc[0], loc[1]
		if start == 0 && before || end == len(s) && after {
			continue
		}
		b.WriteString(s[done:start])
		b.WriteString("`" + strings.Join(strings.Fields(s[start:end]), "") + "`")
		done = end
	}
	b.WriteString(s[done:])
	return b.String()
}
