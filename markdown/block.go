package markdown

import (
	"regexp"
	"strings"
)

// fenceMarker returns the backtick or tilde run that opens a fenced code block on the trimmed
// line, or "" if the line is not a fence.
func fenceMarker(trimmed string) string {
	if !strings.HasPrefix(trimmed, "```") && !strings.HasPrefix(trimmed, "~~~") {
		return ""
	}
	n := 0
	for n < len(trimmed) && trimmed[n] == trimmed[0] {
		n++
	}
	if trimmed[0] == '`' && strings.Contains(trimmed[n:], "`") {
		return "" // inline code such as ```x```
	}
	return trimmed[:n]
}

// closesFence reports whether the trimmed line closes a block opened with fence.
func closesFence(trimmed, fence string) bool {
	if fence == "" || len(trimmed) < len(fence) {
		return false
	}
	return strings.Trim(trimmed, fence[:1]) == ""
}

// codeMask marks the lines that belong to fenced code blocks, fences included. An unterminated
// block runs to the end of the document.
func codeMask(lines []string) []bool {
	mask := make([]bool, len(lines))
	var fence string
	for i, line := range lines {
		t := strings.TrimSpace(line)
		if fence == "" {
			if fence = fenceMarker(t); fence != "" {
				mask[i] = true
			}
			continue
		}
		mask[i] = true
		if closesFence(t, fence) {
			fence = ""
		}
	}
	return mask
}

var tableSeparatorPattern = regexp.MustCompile(`^\|?[\s\-:]+\|[\s\-:|]+\|?$`)

// isTableRow reports whether line has at least two non-empty pipe-delimited pieces.
func isTableRow(line string) bool {
	line = strings.TrimSpace(line)
	if !strings.Contains(line, "|") {
		return false
	}
	n := 0
	for _, piece := range splitPipes(line) {
		if piece != "" {
			n++
		}
	}
	return n >= 2
}

// isTableSeparator reports whether line is a table delimiter row such as `|---|:--:|`.
func isTableSeparator(line string) bool {
	line = strings.TrimSpace(line)
	return strings.Contains(line, "-") && tableSeparatorPattern.MatchString(line)
}

// tableCells returns the trimmed cells of a table row, without the empty pieces produced by
// outer pipes.
func tableCells(line string) []string {
	pieces := splitPipes(strings.TrimSpace(line))
	if len(pieces) > 0 && strings.TrimSpace(pieces[0]) == "" {
		pieces = pieces[1:]
	}
	if len(pieces) > 0 && strings.TrimSpace(pieces[len(pieces)-1]) == "" {
		pieces = pieces[:len(pieces)-1]
	}
	cells := make([]string, len(pieces))
	for i, p := range pieces {
		cells[i] = strings.TrimSpace(p)
	}
	return cells
}

// formatTableRow renders cells as `| a | b |`.
func formatTableRow(cells []string) string {
	var b strings.Builder
	b.WriteByte('|')
	for _, c := range cells {
		b.WriteByte(' ')
		if c != "" {
			b.WriteString(c)
			b.WriteByte(' ')
		}
		b.WriteByte('|')
	}
	return b.String()
}

// splitPipes splits on pipes that are not escaped with a backslash.
func splitPipes(line string) []string {
	var (
		pieces []string
		start  int
	)
	for i := 0; i < len(line); i++ {
		switch line[i] {
		case '\\':
			i++
		case '|':
			pieces = append(pieces, line[start:i])
			start = i + 1
		}
	}
	return append(pieces, line[start:])
}
