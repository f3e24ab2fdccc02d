package markdown

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"
)

// calloutMarkers are the emoji that mark a blockquote as a callout. They include every emoji
// Normalize writes.
const calloutMarkers = `ℹ|⚠|✅|❌|💡|📝|🔥|⭐|🎯|📌|💭|🚀|📚|🎉|📢|🌟`

var (
	headingLinePattern = regexp.MustCompile(`^ {0,3}(#{1,6})(?:[ \t]+(.*?))?[ \t]*$`)
	checklistPattern   = regexp.MustCompile(`^\s*[-*+]\s+\[([ xX])\]\s+\S`)
	imagePattern       = regexp.MustCompile(`!\[([^\]]*)\]\(([^)]*)\)`)
	codeSpanPattern    = regexp.MustCompile("`[^`]*`")
	calloutPattern     = regexp.MustCompile(`^\s*>\s*(?:` + calloutMarkers + `)\x{FE0F}?\s*\*\*([^*]+)\*\*`)
	stepPattern        = regexp.MustCompile(`^\s*\d+[.)]\s+\S`)
	commentPrefix      = regexp.MustCompile(`^(//|#|/\*)`)
)

const (
	maxContextLength   = 50
	maxCodeLabelLength = 40
	maxImageIDLength   = 20
)

// Analyze extracts the navigable structure of a markdown document: level 2 and 3 headings,
// tables, checklists, fenced code blocks, images, callouts and step lists. Items are returned in
// document order and every id is unique within the document.
//
// An empty result means the document has nothing to navigate to.
func Analyze(content string) []Item {
	items, _ := analyze(content)
	return items
}

// Anchors returns every anchor id the document defines, including headings of all levels.
func Anchors(content string) []string {
	items, headings := analyze(content)
	ids := make([]string, 0, len(items)+len(headings))
	for _, h := range headings {
		ids = append(ids, h.id)
	}
	for _, item := range items {
		if item.Kind != Heading {
			ids = append(ids, item.ID)
		}
	}
	return ids
}

// Title returns the label of the first level 1 heading, or "".
func Title(content string) string {
	_, headings := analyze(content)
	for _, h := range headings {
		if h.level == 1 {
			return h.label
		}
	}
	return ""
}

type headingLine struct {
	level int
	id    string
	label string
	line  int // 0-based
}

// document is the line-level view of the content shared by the extraction passes.
type document struct {
	lines    []string
	code     []bool
	headings []headingLine
}

func newDocument(content string) *document {
	lines := strings.Split(strings.ReplaceAll(content, "\r\n", "\n"), "\n")
	return &document{lines: lines, code: codeMask(lines)}
}

func analyze(content string) ([]Item, []headingLine) {
	if strings.TrimSpace(content) == "" {
		return nil, nil
	}
	d := newDocument(content)
	ids := NewIDs()

	// Pass order matters: it decides which element keeps a bare id on collision.
	var items []Item
	items = append(items, d.headingItems(ids)...)
	items = append(items, d.tables(ids)...)
	items = append(items, d.checklists(ids)...)
	items = append(items, d.codeBlocks(ids)...)
	items = append(items, d.images(ids)...)
	items = append(items, d.callouts(ids)...)
	items = append(items, d.steps(ids)...)
	sort.SliceStable(items, func(i, j int) bool { return items[i].Line < items[j].Line })
	return items, d.headings
}

func (d *document) headingItems(ids *IDs) []Item {
	var items []Item
	for i, line := range d.lines {
		if d.code[i] {
			continue
		}
		m := headingLinePattern.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		id, explicit, label := HeadingAnchor(m[2])
		if explicit {
			ids.Put(id)
		} else {
			id = ids.Unique(id)
		}
		level := len(m[1])
		d.headings = append(d.headings, headingLine{level: level, id: id, label: label, line: i})
		if (level == 2 || level == 3) && label != "" {
			items = append(items, Item{ID: id, Kind: Heading, Label: label, Level: level, Line: i + 1})
		}
	}
	return items
}

// context returns the label of the heading nearest above line if it is short enough to describe
// the element, or "".
func (d *document) context(line int) string {
	for i := len(d.headings) - 1; i >= 0; i-- {
		h := d.headings[i]
		if h.line >= line {
			continue
		}
		if utf8.RuneCountInString(h.label) < maxContextLength && !strings.Contains(h.label, ",") {
			return h.label
		}
		return ""
	}
	return ""
}

func (d *document) tables(ids *IDs) []Item {
	var items []Item
	for i := 0; i+2 < len(d.lines); i++ {
		if d.code[i] || d.code[i+1] || isTableSeparator(d.lines[i]) || !isTableRow(d.lines[i]) || !isTableSeparator(d.lines[i+1]) {
			continue
		}
		if len(tableCells(d.lines[i])) != len(tableCells(d.lines[i+1])) {
			continue
		}
		end := i + 2
		for end < len(d.lines) && !d.code[end] && isTableRow(d.lines[end]) {
			end++
		}
		rows := end - (i + 2)
		if rows == 0 {
			continue
		}
		n := len(items) + 1
		label := d.context(i)
		if label == "" {
			label = fmt.Sprintf("Table %d", n)
		}
		items = append(items, Item{
			ID:    ids.Unique(fmt.Sprintf("table-%d", n)),
			Kind:  Table,
			Label: label,
			Count: rows,
			Line:  i + 1,
		})
		i = end - 1
	}
	return items
}

func (d *document) checklists(ids *IDs) []Item {
	var items []Item
	for i := 0; i < len(d.lines); i++ {
		if d.code[i] || !checklistPattern.MatchString(d.lines[i]) {
			continue
		}
		start, done := i, 0
		for ; i < len(d.lines) && !d.code[i]; i++ {
			m := checklistPattern.FindStringSubmatch(d.lines[i])
			if m == nil {
				break
			}
			if m[1] != " " {
				done++
			}
		}
		total := i - start
		n := len(items) + 1
		label := d.context(start)
		if label == "" {
			label = fmt.Sprintf("Checklist %d", n)
		}
		items = append(items, Item{
			ID:        ids.Unique(fmt.Sprintf("checklist-%d", n)),
			Kind:      Checklist,
			Label:     fmt.Sprintf("%s (%d/%d)", label, done, total),
			Count:     total,
			Completed: done,
			Line:      start + 1,
		})
	}
	return items
}

func (d *document) codeBlocks(ids *IDs) []Item {
	var items []Item
	for i := 0; i < len(d.lines); i++ {
		open := strings.TrimSpace(d.lines[i])
		fence := fenceMarker(open)
		if fence == "" {
			continue
		}
		end := i + 1
		for end < len(d.lines) && !closesFence(strings.TrimSpace(d.lines[end]), fence) {
			end++
		}
		if end == len(d.lines) {
			break // unterminated
		}
		if fence[0] == '`' {
			n := len(items) + 1
			var language string
			if fields := strings.Fields(open[len(fence):]); len(fields) > 0 {
				language = fields[0]
			}
			label := codeLabel(d.lines[i+1 : end])
			if label == "" {
				label = fmt.Sprintf("Code block %d", n)
			}
			items = append(items, Item{
				ID:       ids.Unique(fmt.Sprintf("code-%d", n)),
				Kind:     CodeBlock,
				Label:    label,
				Language: language,
				Line:     i + 1,
			})
		}
		i = end
	}
	return items
}

// codeLabel returns the first line of code that still has text once leading comment punctuation
// is removed, truncated.
func codeLabel(lines []string) string {
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if commentPrefix.MatchString(line) {
			line = strings.TrimLeft(line, "/#* \t")
		}
		if line == "" {
			continue
		}
		if utf8.RuneCountInString(line) > maxCodeLabelLength {
			line = string([]rune(line)[:maxCodeLabelLength])
		}
		if label := StripInline(line); label != "" {
			return label
		}
	}
	return ""
}

func (d *document) images(ids *IDs) []Item {
	var items []Item
	for i, line := range d.lines {
		if d.code[i] || !strings.Contains(line, "![") {
			continue
		}
		line = codeSpanPattern.ReplaceAllStringFunc(line, func(s string) string { return strings.Repeat(" ", len(s)) })
		for _, m := range imagePattern.FindAllStringSubmatch(line, -1) {
			n := len(items) + 1
			label := StripInline(m[1])
			if label == "" {
				label = fmt.Sprintf("Image %d", n)
			}
			items = append(items, Item{
				ID:    ids.Unique(ImageID(imageDestination(m[2]))),
				Kind:  Image,
				Label: label,
				Line:  i + 1,
			})
		}
	}
	return items
}

// imageDestination returns the URL part of the parenthesized part of an image, without a title.
func imageDestination(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "<") {
		if end := strings.IndexByte(s, '>'); end > 0 {
			return s[1:end]
		}
	}
	if fields := strings.Fields(s); len(fields) > 0 {
		return fields[0]
	}
	return ""
}

// ImageID derives the base anchor id of an image from its source URL. It depends only on the URL
// so that reordering images does not change their ids.
func ImageID(src string) string {
	var b strings.Builder
	b.WriteString("img-")
	n := 0
	for i := 0; i < len(src) && n < maxImageIDLength; i++ {
		c := src[i]
		if c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9' {
			b.WriteByte(c)
			n++
		}
	}
	return b.String()
}

func (d *document) callouts(ids *IDs) []Item {
	var items []Item
	for i, line := range d.lines {
		if d.code[i] {
			continue
		}
		m := calloutPattern.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		items = append(items, Item{
			ID:    ids.Unique(fmt.Sprintf("callout-%d", len(items)+1)),
			Kind:  Callout,
			Label: StripInline(m[1]),
			Line:  i + 1,
		})
	}
	return items
}

func (d *document) steps(ids *IDs) []Item {
	const minSteps = 3
	var items []Item
	for i := 0; i < len(d.lines); i++ {
		start := i
		for i < len(d.lines) && !d.code[i] && stepPattern.MatchString(d.lines[i]) {
			i++
		}
		if i-start < minSteps {
			continue
		}
		label := d.context(start)
		if label == "" {
			label = "Steps"
		}
		items = append(items, Item{
			ID:    ids.Unique(fmt.Sprintf("steps-%d", len(items)+1)),
			Kind:  StepList,
			Label: label,
			Count: i - start,
			Line:  start + 1,
		})
	}
	return items
}
