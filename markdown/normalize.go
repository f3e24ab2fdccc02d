package markdown

import (
	"regexp"
	"strings"
)

// blockKind is the kind of block an output line belongs to. The cleanup pass uses it to decide
// where blank lines go.
type blockKind int

const (
	blankBlock blockKind = iota
	paragraphBlock
	headingBlock
	quoteBlock
	ruleBlock
	listBlock
	tableBlock
	fenceBlock
	htmlBlock
	otherBlock
)

// line is one line of output.
type line struct {
	text string
	kind blockKind
}

var blank = line{kind: blankBlock}

// state is everything the line rules remember between lines.
type state struct {
	inCode   bool
	fence    string
	language string
	inList   bool
	inTable  bool
	blankRun int
	sawTitle bool // a level 1 heading was emitted
}

// cursor is the view of the source a rule gets for one line.
type cursor struct {
	raw      string // source line as is
	text     string // trimmed; inline-repaired for textRules
	indent   string // leading whitespace of raw
	prev     string // previous source line, trimmed
	next     string // next source line, trimmed
	nextRaw  string
	last     line // last emitted line (blank at the start)
	lastLine bool // this is the last source line
}

// A rule rewrites one line. It reports ok=false if it does not apply, in which case the next rule
// in the table is tried.
type rule struct {
	name  string
	apply func(c cursor, st state) (out []line, next state, ok bool)
}

// sourceRules see the line before inline repair; textRules see it after.
var (
	sourceRules []rule
	textRules   []rule
)

func init() {
	sourceRules = []rule{
		{"code", codeLineRule},
		{"blank", blankRule},
		{"fence", fenceRule},
		{"html", htmlRule},
		{"table", tableRule},
		{"footnote", footnoteRule},
	}
	textRules = []rule{
		{"nested-quote", nestedQuoteRule},
		{"heading", headingRule},
		{"list", listRule},
		{"bullet", bulletRule},
		{"numbered", numberedRule},
		{"callout", calloutRule},
		{"toc", tocRule},
		{"rule", horizontalRule},
		{"checkbox", checkboxRule},
		{"paragraph", paragraphRule},
	}
}

// Normalize rewrites markdown into a consistently formatted form: canonical list markers,
// callout blockquotes, aligned table rows, repaired inline syntax and one blank line between
// blocks. Fenced code, raw HTML lines and a leading front matter block are left as they are.
//
// If title is not empty and the document has no level 1 heading, "# title" is prepended.
// Normalize is idempotent.
func Normalize(content, title string) string {
	content = strings.ReplaceAll(content, "\r\n", "\n")
	front, body := splitFrontMatter(content)

	out, st := rewriteLines(strings.Split(body, "\n"))
	if title = strings.TrimSpace(title); title != "" && !st.sawTitle {
		out = append([]line{{text: "# " + title, kind: headingBlock}, blank}, out...)
	}
	return front + cleanup(out)
}

func rewriteLines(src []string) ([]line, state) {
	var (
		out []line
		st  state
	)
	for i, raw := range src {
		c := cursor{
			raw:      raw,
			text:     strings.TrimSpace(raw),
			indent:   leadingSpace(raw),
			lastLine: i == len(src)-1,
		}
		if i > 0 {
			c.prev = strings.TrimSpace(src[i-1])
		}
		if i+1 < len(src) {
			c.nextRaw = src[i+1]
			c.next = strings.TrimSpace(c.nextRaw)
		}
		if len(out) > 0 {
			c.last = out[len(out)-1]
		}

		emitted, next := applyRules(c, st)
		if c.text != "" {
			next.blankRun = 0
		}
		out = append(out, emitted...)
		st = next
	}
	return out, st
}

func applyRules(c cursor, st state) ([]line, state) {
	for _, r := range sourceRules {
		if out, next, ok := r.apply(c, st); ok {
			return out, next
		}
	}
	c.text = repairInline(c.text)
	for _, r := range textRules {
		if out, next, ok := r.apply(c, st); ok {
			return out, next
		}
	}
	return []line{{text: c.text, kind: paragraphBlock}}, st
}

// gap returns a blank line unless the last emitted line is already blank.
func gap(c cursor) []line {
	if c.last.kind == blankBlock {
		return nil
	}
	return []line{blank}
}

func leadingSpace(s string) string {
	return s[:len(s)-len(strings.TrimLeft(s, " \t"))]
}

var frontMatterKey = regexp.MustCompile(`^[\w-]+\s*[:=]`)

// splitFrontMatter splits a leading `---` (YAML) or `+++` (TOML) block off s. The first line
// inside the block must be a key, which tells front matter apart from a horizontal rule.
func splitFrontMatter(s string) (front, body string) {
	for _, delim := range []string{"---", "+++"} {
		if !strings.HasPrefix(s, delim+"\n") {
			continue
		}
		lines := strings.Split(s, "\n")
		if len(lines) < 3 || !frontMatterKey.MatchString(lines[1]) {
			return "", s
		}
		for i := 2; i < len(lines); i++ {
			if strings.TrimRight(lines[i], " \t") == delim {
				return strings.Join(lines[:i+1], "\n") + "\n", strings.Join(lines[i+1:], "\n")
			}
		}
	}
	return "", s
}
