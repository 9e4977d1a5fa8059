package ingestion

import (
	"strings"
)

// CleanText normalizes free text typed into the form while preserving its structure.
// Line endings become LF, trailing whitespace is dropped from every line and the
// whole text is trimmed.
func CleanText(content string) string {
	if content == "" {
		return ""
	}

	content = strings.ReplaceAll(content, "\r\n", "\n")
	content = strings.ReplaceAll(content, "\r", "\n")

	lines := strings.Split(content, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " \t")
	}

	return strings.TrimSpace(strings.Join(lines, "\n"))
}
