package pipeline

import (
	"regexp"
	"strings"
)

// multipleSpaces matches runs of two or more spaces.
var multipleSpaces = regexp.MustCompile(` {2,}`)

// WhitespaceNormalizer tidies the spacing left behind by earlier stages.
// It must run last: any later substitution could reintroduce blank runs or
// trailing spaces.
type WhitespaceNormalizer struct{}

// NewWhitespaceNormalizer creates a WhitespaceNormalizer.
func NewWhitespaceNormalizer() *WhitespaceNormalizer {
	return &WhitespaceNormalizer{}
}

// Normalize strips trailing spaces and tabs from every line, collapses runs
// of spaces to one, and collapses every run of blank lines to exactly one
// blank line. A single blank line is preserved.
func (w *WhitespaceNormalizer) Normalize(text string) string {
	lines := strings.Split(text, "\n")
	out := make([]string, 0, len(lines))
	prevBlank := false

	for _, line := range lines {
		line = multipleSpaces.ReplaceAllString(line, " ")
		line = strings.TrimRight(line, " \t")

		blank := line == ""
		if blank && prevBlank {
			continue
		}
		prevBlank = blank
		out = append(out, line)
	}

	return strings.Join(out, "\n")
}
