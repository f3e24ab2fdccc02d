package markdown

import (
	"regexp"
	"strings"
	"unicode"
)

var sentencePattern = regexp.MustCompile(`([a-z0-9)\]"'*_])([.!?])([A-Z])`)

// padded blocks are separated from their neighbours by a blank line.
var padded = map[blockKind]bool{
	headingBlock: true,
	quoteBlock:   true,
	ruleBlock:    true,
	fenceBlock:   true,
	listBlock:    true,
	tableBlock:   true,
}

// cleanup is the second pass over the rewritten lines: it pads blocks with exactly one blank line,
// collapses blank runs and polishes every line outside fenced code.
func cleanup(in []line) string {
	out := make([]line, 0, len(in))
	for _, l := range in {
		if l.kind != fenceBlock {
			if l.text = polish(l.text, l.kind); l.text == "" {
				l = blank
			}
		}
		if l.kind == blankBlock {
			if len(out) > 0 && out[len(out)-1].kind != blankBlock {
				out = append(out, l)
			}
			continue
		}
		if len(out) > 0 {
			if prev := out[len(out)-1]; prev.kind != blankBlock && needsGap(prev.kind, l.kind) {
				out = append(out, blank)
			}
		}
		out = append(out, l)
	}
	for len(out) > 0 && strings.TrimSpace(out[len(out)-1].text) == "" {
		out = out[:len(out)-1]
	}
	if len(out) == 0 {
		return ""
	}
	var b strings.Builder
	for _, l := range out {
		b.WriteString(l.text)
		b.WriteByte('\n')
	}
	return b.String()
}

func needsGap(prev, cur blockKind) bool {
	if prev == headingBlock || cur == headingBlock {
		return true
	}
	if prev == cur {
		return false
	}
	return padded[prev] || padded[cur]
}

// polish trims trailing whitespace, collapses interior space runs and adds the missing space
// after sentence punctuation. Code spans, markup and URLs are left alone, and so is raw HTML.
func polish(text string, kind blockKind) string {
	text = strings.TrimRightFunc(text, unicode.IsSpace)
	if kind == htmlBlock {
		return text
	}
	indent := leadingSpace(text)
	var b strings.Builder
	b.WriteString(indent)
	for _, seg := range splitInline(text[len(indent):]) {
		if seg.kind != plainSegment {
			b.WriteString(seg.text)
			continue
		}
		t := spaceRunPattern.ReplaceAllString(seg.text, " ")
		if kind != tableBlock {
			t = sentencePattern.ReplaceAllString(t, "${1}${2} ${3}")
		}
		b.WriteString(t)
	}
	return b.String()
}
