package markdown

import (
	"fmt"
	"net/url"
	"regexp"
	"sort"
	"strings"
)

// Severity is how serious a Problem is.
type Severity int

// Severities, from least to most serious.
const (
	Info Severity = iota
	Warning
	Error
)

func (s Severity) String() string {
	switch s {
	case Info:
		return "info"
	case Warning:
		return "warning"
	default:
		return "error"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (s Severity) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

// Problem is something Check found wrong with a document.
type Problem struct {
	Severity   Severity `json:"severity"`
	Line       int      `json:"line,omitempty"` // 1-based; 0 for the whole document
	Message    string   `json:"message"`
	Suggestion string   `json:"suggestion,omitempty"`
}

func (p Problem) String() string {
	if p.Line == 0 {
		return fmt.Sprintf("%s: %s", p.Severity, p.Message)
	}
	return fmt.Sprintf("%d: %s: %s", p.Line, p.Severity, p.Message)
}

// CheckOptions configures Check.
type CheckOptions struct {
	MinWords         int // fewer words is a warning; 0 disables
	RecommendedWords int // fewer words is informational; 0 disables
}

// DefaultCheckOptions are the thresholds used when none are configured.
var DefaultCheckOptions = CheckOptions{MinWords: 100, RecommendedWords: 300}

var (
	missingAltPattern = regexp.MustCompile(`!\[\s*\]\(([^)]*)\)`)
	fragmentPattern   = regexp.MustCompile(`\]\(#([^)\s]+)\)`)
)

// Check reports structural problems in a markdown document: a missing or duplicated title, skipped
// heading levels, images without alt text, code blocks without a language, very short content and
// in-page links to anchors the document does not define.
func Check(content string, opt CheckOptions) []Problem {
	if strings.TrimSpace(content) == "" {
		return []Problem{{Severity: Error, Message: "document is empty"}}
	}
	items, headings := analyze(content)
	d := newDocument(content)

	var problems []Problem
	add := func(sev Severity, line int, msg, suggestion string) {
		problems = append(problems, Problem{Severity: sev, Line: line, Message: msg, Suggestion: suggestion})
	}

	// Headings.
	if len(headings) == 0 {
		add(Error, 0, "no headings found", "add a title (# Title) and section headings (## Section)")
	}
	var titles, prevLevel int
	for _, h := range headings {
		if h.level == 1 {
			titles++
			if titles == 2 {
				add(Warning, h.line+1, "multiple level 1 headings", "use a single # title and ## for sections")
			}
		}
		if prevLevel > 0 && h.level > prevLevel+1 {
			add(Warning, h.line+1, fmt.Sprintf("heading level skips from %d to %d", prevLevel, h.level), fmt.Sprintf("use a level %d heading", prevLevel+1))
		}
		prevLevel = h.level
	}
	if len(headings) > 0 && titles == 0 {
		add(Warning, 0, "missing level 1 heading", "start the document with # Title")
	}

	// Images and links.
	anchors := map[string]bool{}
	for _, h := range headings {
		anchors[h.id] = true
	}
	for _, item := range items {
		anchors[item.ID] = true
	}
	seenSrc := map[string]bool{}
	words := 0
	var fence string
	for i, line := range d.lines {
		t := strings.TrimSpace(line)
		if fence != "" {
			if closesFence(t, fence) {
				fence = ""
			}
			continue
		}
		if fence = fenceMarker(t); fence != "" {
			if strings.TrimSpace(t[len(fence):]) == "" {
				add(Warning, i+1, "code block has no language", "add a language after the opening fence, such as ```go")
			}
			continue
		}
		for _, m := range missingAltPattern.FindAllStringSubmatch(line, -1) {
			if src := imageDestination(m[1]); !seenSrc[src] {
				seenSrc[src] = true
				add(Warning, i+1, fmt.Sprintf("image %s has no alt text", src), "describe the image between the brackets")
			}
		}
		for _, m := range fragmentPattern.FindAllStringSubmatch(line, -1) {
			frag := m[1]
			if unescaped, err := url.PathUnescape(frag); err == nil {
				frag = unescaped
			}
			if !anchors[frag] {
				add(Error, i+1, fmt.Sprintf("link to missing anchor #%s", frag), "")
			}
		}
		words += len(strings.Fields(StripInline(line)))
	}

	switch {
	case opt.MinWords > 0 && words < opt.MinWords:
		add(Warning, 0, fmt.Sprintf("content is very short (%d words)", words), fmt.Sprintf("aim for at least %d words", opt.MinWords))
	case opt.RecommendedWords > 0 && words < opt.RecommendedWords:
		add(Info, 0, fmt.Sprintf("content is short (%d words)", words), fmt.Sprintf("consider expanding to %d words or more", opt.RecommendedWords))
	}

	sort.SliceStable(problems, func(i, j int) bool { return problems[i].Line < problems[j].Line })
	return problems
}
