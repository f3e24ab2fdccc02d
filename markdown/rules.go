package markdown

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

var (
	footnotePattern    = regexp.MustCompile(`^\[\^[^\]\s]+\]:\s`)
	nestedQuotePattern = regexp.MustCompile(`^>\s*>`)
	headingPattern     = regexp.MustCompile(`^#{1,6}(\s|$)`)
	listItemPattern    = regexp.MustCompile(`^([-*+]|\d+\.)\s+\S`)
	bulletPattern      = regexp.MustCompile(`^[•·○◦▪▫●■‣⁃∙]\s*(.+)$`)
	numberedPattern    = regexp.MustCompile(`^\d+[.)]\s+(.+)$`)
	rulePattern        = regexp.MustCompile(`^(?:(?:-\s*){3,}|(?:\*\s*){3,}|(?:_\s*){3,})$`)
	checkboxPattern    = regexp.MustCompile(`^[-*+]\s*\[([ xX✓✔✗✘])\]\s*(.*)$`)
	glyphCheckbox      = regexp.MustCompile(`^[-*+]\s*\[[✓✔✗✘]\]`)
	tocPattern         = regexp.MustCompile(`(?i)^table of contents$`)
	calloutLinePattern = regexp.MustCompile(`(?i)^(important|note|warning|tip|remember|pro tip|quick tip|tl;dr|tldr|update|breaking|caution|attention|info|fyi|bonus|key point|essential|error|success|fun fact|did you know|gotcha|watch out|key takeaway):\s*(.+)$`)
)

// calloutFamilies picks the emoji of a callout from its label. The first family with a keyword
// contained in the label wins.
var calloutFamilies = []struct {
	keywords []string
	emoji    string
}{
	{[]string{"warning", "watch", "caution"}, "⚠️"},
	{[]string{"tip", "key takeaway"}, "💡"},
	{[]string{"success", "done"}, "✅"},
	{[]string{"important", "essential", "critical"}, "🔥"},
	{[]string{"error", "gotcha"}, "❌"},
	{[]string{"fun fact", "did you know"}, "🎉"},
	{[]string{"remember"}, "📝"},
	{[]string{"update", "breaking"}, "📢"},
	{[]string{"bonus", "extra"}, "🌟"},
}

const defaultCalloutEmoji = "ℹ️"

func calloutEmoji(label string) string {
	label = strings.ToLower(label)
	for _, f := range calloutFamilies {
		for _, k := range f.keywords {
			if strings.Contains(label, k) {
				return f.emoji
			}
		}
	}
	return defaultCalloutEmoji
}

func codeLineRule(c cursor, st state) ([]line, state, bool) {
	if !st.inCode || closesFence(c.text, st.fence) {
		return nil, st, false
	}
	return []line{{text: c.raw, kind: fenceBlock}}, st, true
}

func blankRule(c cursor, st state) ([]line, state, bool) {
	if c.text != "" {
		return nil, st, false
	}
	st.blankRun++
	if st.blankRun > 2 {
		return nil, st, true
	}
	return gap(c), st, true
}

func fenceRule(c cursor, st state) ([]line, state, bool) {
	if st.inCode {
		// codeLineRule passed the line on, so it closes the block.
		st.inCode, st.fence, st.language = false, "", ""
		out := []line{{text: c.text, kind: fenceBlock}}
		if c.next != "" {
			out = append(out, blank)
		}
		return out, st, true
	}
	fence := fenceMarker(c.text)
	if fence == "" {
		return nil, st, false
	}
	info := strings.TrimSpace(c.text[len(fence):])
	if info == "" {
		info = guessLanguage(c.next)
	}
	st.inCode, st.fence, st.language = true, fence, info
	st.inList, st.inTable = false, false
	return append(gap(c), line{text: fence + info, kind: fenceBlock}), st, true
}

func htmlRule(c cursor, st state) ([]line, state, bool) {
	if !isStructuralHTML(c.text) {
		return nil, st, false
	}
	st.inList = false
	return []line{{text: c.text, kind: htmlBlock}}, st, true
}

func tableRule(c cursor, st state) ([]line, state, bool) {
	sep := isTableSeparator(c.text)
	if !sep && !isTableRow(c.text) {
		return nil, st, false
	}
	var out []line
	if !st.inTable {
		// A run starts at a header row directly followed by its separator.
		if sep || !isTableSeparator(c.next) {
			return nil, st, false
		}
		out = gap(c)
		st.inTable, st.inList = true, false
	}
	text := c.text
	if !sep {
		text = formatTableRow(tableCells(text))
	}
	out = append(out, line{text: text, kind: tableBlock})
	if !isTableRow(c.next) && !isTableSeparator(c.next) {
		st.inTable = false
		if c.next != "" {
			out = append(out, blank)
		}
	}
	return out, st, true
}

func footnoteRule(c cursor, st state) ([]line, state, bool) {
	definition := strings.HasPrefix(c.text, ":") && c.prev != "" && !strings.HasPrefix(c.prev, ":") &&
		(c.last.kind == paragraphBlock || c.last.kind == otherBlock)
	if !definition && !footnotePattern.MatchString(c.text) {
		return nil, st, false
	}
	st.inList = false
	return []line{{text: c.text, kind: otherBlock}}, st, true
}

func nestedQuoteRule(c cursor, st state) ([]line, state, bool) {
	if !nestedQuotePattern.MatchString(c.text) {
		return nil, st, false
	}
	st.inList = false
	return []line{{text: c.text, kind: quoteBlock}}, st, true
}

func headingRule(c cursor, st state) ([]line, state, bool) {
	var kind blockKind
	var continues bool
	switch {
	case headingPattern.MatchString(c.text):
		kind = headingBlock
		continues = headingPattern.MatchString(c.next)
		if len(c.text) == 1 || c.text[1] != '#' {
			st.sawTitle = true
		}
	case strings.HasPrefix(c.text, ">"):
		kind = quoteBlock
		continues = strings.HasPrefix(c.next, ">")
	default:
		return nil, st, false
	}
	var out []line
	if c.last.kind != kind {
		out = gap(c)
	}
	out = append(out, line{text: c.text, kind: kind})
	if c.next != "" && !continues {
		out = append(out, blank)
	}
	st.inList = false
	return out, st, true
}

func listRule(c cursor, st state) ([]line, state, bool) {
	if !listItemPattern.MatchString(c.text) || rulePattern.MatchString(c.text) || glyphCheckbox.MatchString(c.text) {
		return nil, st, false
	}
	return listItem(c, st, c.text)
}

func bulletRule(c cursor, st state) ([]line, state, bool) {
	m := bulletPattern.FindStringSubmatch(c.text)
	if m == nil {
		return nil, st, false
	}
	return listItem(c, st, "- "+m[1])
}

func numberedRule(c cursor, st state) ([]line, state, bool) {
	m := numberedPattern.FindStringSubmatch(c.text)
	if m == nil {
		return nil, st, false
	}
	return listItem(c, st, "1. "+m[1])
}

func checkboxRule(c cursor, st state) ([]line, state, bool) {
	m := checkboxPattern.FindStringSubmatch(c.text)
	if m == nil {
		return nil, st, false
	}
	box := "- [ ]"
	switch m[1] {
	case "x", "X", "✓", "✔":
		box = "- [x]"
	}
	return listItem(c, st, strings.TrimSpace(box+" "+m[2]))
}

// listItem emits one list line, opening the run with a blank line and closing it with another
// when the next line does not continue the list.
func listItem(c cursor, st state, text string) ([]line, state, bool) {
	var out []line
	if !st.inList {
		out = gap(c)
	}
	out = append(out, line{text: c.indent + text, kind: listBlock})
	st.inList = continuesList(c)
	if !st.inList {
		out = append(out, blank)
	}
	return out, st, true
}

func continuesList(c cursor) bool {
	return c.next == "" || isListLine(c.next) || isIndented(c.nextRaw)
}

func isListLine(t string) bool {
	if rulePattern.MatchString(t) {
		return false
	}
	return listItemPattern.MatchString(t) || bulletPattern.MatchString(t) ||
		numberedPattern.MatchString(t) || checkboxPattern.MatchString(t)
}

func isIndented(raw string) bool {
	return strings.HasPrefix(raw, "  ") || strings.HasPrefix(raw, "\t")
}

func calloutRule(c cursor, st state) ([]line, state, bool) {
	m := calloutLinePattern.FindStringSubmatch(c.text)
	if m == nil {
		return nil, st, false
	}
	out := append(gap(c),
		line{text: "> " + calloutEmoji(m[1]) + " **" + m[1] + "**", kind: quoteBlock},
		line{text: "> " + m[2], kind: quoteBlock},
	)
	if c.next != "" {
		out = append(out, blank)
	}
	st.inList = false
	return out, st, true
}

func tocRule(c cursor, st state) ([]line, state, bool) {
	if !tocPattern.MatchString(c.text) {
		return nil, st, false
	}
	c.text = "## Table of Contents"
	return headingRule(c, st)
}

func horizontalRule(c cursor, st state) ([]line, state, bool) {
	if !rulePattern.MatchString(c.text) {
		return nil, st, false
	}
	out := append(gap(c), line{text: "---", kind: ruleBlock})
	if c.next != "" {
		out = append(out, blank)
	}
	st.inList = false
	return out, st, true
}

// Lines longer than these are split into separate paragraphs.
const (
	longLine     = 80
	longNextLine = 40
)

// paragraphRule never turns text into a heading, however much it looks like one: only lines that
// start with # (and the Table of Contents line) become headings.
func paragraphRule(c cursor, st state) ([]line, state, bool) {
	if st.inList && c.indent != "" {
		return []line{{text: c.indent + c.text, kind: listBlock}}, st, true
	}
	var out []line
	if st.inList {
		out = gap(c)
		st.inList = false
	}
	out = append(out, line{text: c.text, kind: paragraphBlock})
	if breaksParagraph(c.text, c.next) {
		out = append(out, blank)
	}
	return out, st, true
}

func breaksParagraph(text, next string) bool {
	if next == "" || structural(next) {
		return false
	}
	return utf8.RuneCountInString(polish(text, paragraphBlock)) > longLine &&
		utf8.RuneCountInString(polish(repairInline(next), paragraphBlock)) > longNextLine
}

// structural reports whether a trimmed source line starts a block of its own.
func structural(t string) bool {
	switch t[0] {
	case '#', '>', '|', ':', '<':
		return true
	}
	return fenceMarker(t) != "" || isListLine(t) || isTableRow(t) || rulePattern.MatchString(t) ||
		footnotePattern.MatchString(t) || calloutLinePattern.MatchString(t) || tocPattern.MatchString(t)
}
