package markdown

import (
	"regexp"
	"strings"

	"golang.org/x/net/html/atom"
)

// languageHints guess the language of an untagged code block from its first line. The first
// matching hint wins.
var languageHints = []struct {
	pattern  *regexp.Regexp
	language string
}{
	{regexp.MustCompile(`^(import\s|require\()`), "javascript"},
	{regexp.MustCompile(`^(from\s|def\s)`), "python"},
	{regexp.MustCompile(`^(function\s|const\s|let\s|var\s)`), "javascript"},
	{regexp.MustCompile(`^(package|class|interface|enum)\s`), "java"},
	{regexp.MustCompile(`^(struct|func)\s`), "swift"},
	{regexp.MustCompile(`^<\?php`), "php"},
	{regexp.MustCompile(`^#!/`), "bash"},
	{regexp.MustCompile(`^(curl|npm|yarn|npx|pnpm|brew|apt|apt-get|pip)\s`), "bash"},
	{regexp.MustCompile(`(?i)^(select|insert|update|delete|create table)\s`), "sql"},
}

// guessLanguage returns a fence language for a code block starting with line, or "".
func guessLanguage(line string) string {
	line = strings.TrimSpace(line)
	if fenceMarker(line) != "" {
		return ""
	}
	for _, h := range languageHints {
		if h.pattern.MatchString(line) {
			return h.language
		}
	}
	return ""
}

// isStructuralHTML reports whether the trimmed line opens or closes one of the HTML elements that
// wrap markdown blocks.
func isStructuralHTML(t string) bool {
	if !strings.HasPrefix(t, "<") {
		return false
	}
	name := strings.TrimPrefix(t[1:], "/")
	if end := strings.IndexFunc(name, func(r rune) bool {
		return !(r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9')
	}); end >= 0 {
		name = name[:end]
	}
	switch atom.Lookup([]byte(strings.ToLower(name))) {
	case atom.Details, atom.Summary, atom.Div, atom.Section, atom.Article, atom.Aside:
		return true
	}
	return false
}
