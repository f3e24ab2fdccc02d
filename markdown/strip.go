package markdown

import (
	"regexp"
	"strings"
)

var stripRules = []struct {
	pattern *regexp.Regexp
	repl    string
}{
	{regexp.MustCompile(`\s*\{#[^}]+\}\s*`), " "},
	{regexp.MustCompile(`!\[([^\]]*)\]\([^)]*\)`), "$1"},
	{regexp.MustCompile(`\[([^\]]+)\]\([^)]*\)`), "$1"},
	{regexp.MustCompile("`([^`]*)`"), "$1"},
	{regexp.MustCompile(`\*\*(.+?)\*\*`), "$1"},
	{regexp.MustCompile(`__(.+?)__`), "$1"},
	{regexp.MustCompile(`~~(.+?)~~`), "$1"},
	{regexp.MustCompile(`\*([^*]+)\*`), "$1"},
	{regexp.MustCompile(`(^|[^\w])_([^_]+)_([^\w]|$)`), "$1$2$3"},
	{regexp.MustCompile(`<[^>]+>`), ""},
}

// StripInline removes inline markdown from text so that only what a reader sees remains: anchor
// tags, emphasis and strikethrough markers, code backticks, link and image syntax (the visible
// text is kept) and HTML tags. Whitespace runs collapse to a single space.
func StripInline(text string) string {
	for _, r := range stripRules {
		text = r.pattern.ReplaceAllString(text, r.repl)
	}
	return strings.Join(strings.Fields(text), " ")
}
