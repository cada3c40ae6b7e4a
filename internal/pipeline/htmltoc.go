package pipeline

import (
	"context"
	"fmt"
	"html"
	"regexp"
	"strconv"
	"strings"
)

// TOCOptions configures the table of contents built for browser rendering.
type TOCOptions struct {
	Title    string // heading of the contents block, omitted when empty
	MinDepth int    // shallowest heading level listed (default 1)
	MaxDepth int    // deepest heading level listed (default 3)
	Numbered bool   // prefix entries with "1.2." style section numbers
}

// headingInfo is a heading found in rendered HTML.
type headingInfo struct {
	Level int
	ID    string
	Text  string
	Start int // byte offset of the opening tag
}

// headingPattern matches h1-h6 tags carrying an id attribute.
// Captures: 1=level, 2=id, 3=inner HTML.
var headingPattern = regexp.MustCompile(`(?is)<h([1-6])[^>]*\bid="([^"]*)"[^>]*>(.*?)</h[1-6]>`)

var htmlTagPattern = regexp.MustCompile(`<[^>]*>`)

// headingText strips tags and entities; the text is escaped again on output.
func headingText(s string) string {
	s = htmlTagPattern.ReplaceAllString(s, "")
	return strings.TrimSpace(html.UnescapeString(s))
}

// extractHeadings returns the headings between minDepth and maxDepth in
// document order. Headings without IDs are skipped.
func extractHeadings(htmlContent string, minDepth, maxDepth int) []headingInfo {
	var headings []headingInfo
	for _, m := range headingPattern.FindAllStringSubmatchIndex(htmlContent, -1) {
		level, _ := strconv.Atoi(htmlContent[m[2]:m[3]])
		if level < minDepth || level > maxDepth {
			continue
		}
		headings = append(headings, headingInfo{
			Level: level,
			ID:    htmlContent[m[4]:m[5]],
			Text:  headingText(htmlContent[m[6]:m[7]]),
			Start: m[0],
		})
	}
	return headings
}

// sectionCounter numbers headings hierarchically. Depth follows the chain
// of open parent headings, so an h2 followed by an h4 nests one step, not
// two, and a heading shallower than the first starts a new top level.
type sectionCounter struct {
	counters [6]int
	open     []int // levels of the enclosing headings
}

// next returns the number ("2.1.") and nesting depth of a heading.
func (c *sectionCounter) next(level int) (string, int) {
	for len(c.open) > 0 && c.open[len(c.open)-1] >= level {
		c.open = c.open[:len(c.open)-1]
	}
	c.open = append(c.open, level)
	depth := len(c.open)

	for i := depth; i < len(c.counters); i++ {
		c.counters[i] = 0
	}
	c.counters[depth-1]++

	parts := make([]string, depth)
	for i := range depth {
		parts[i] = strconv.Itoa(c.counters[i])
	}
	return strings.Join(parts, ".") + ".", depth
}

// renderTOC builds the contents block. It uses <div> entries rather than
// nested lists so the print stylesheet controls indentation alone.
func renderTOC(headings []headingInfo, opts TOCOptions) string {
	var b strings.Builder
	b.WriteString(`<nav class="toc">`)
	if opts.Title != "" {
		b.WriteString(`<h2 class="toc-title">` + html.EscapeString(opts.Title) + `</h2>`)
	}

	var counter sectionCounter
	for _, h := range headings {
		num, depth := counter.next(h.Level)
		b.WriteString(`<div class="toc-item"`)
		if depth > 1 {
			fmt.Fprintf(&b, ` style="padding-left:%.1fem"`, float64(depth-1)*1.5)
		}
		b.WriteString(`><a href="#` + html.EscapeString(h.ID) + `">`)
		if opts.Numbered {
			b.WriteString(num + " ")
		}
		b.WriteString(html.EscapeString(h.Text) + `</a></div>`)
	}

	b.WriteString(`</nav>`)
	return b.String()
}

// InsertTOC places a table of contents before the first listed heading, so
// a title block rendered ahead of the body stays on top. Without listed
// headings the HTML is returned unchanged.
func InsertTOC(ctx context.Context, htmlContent string, opts TOCOptions) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if opts.MinDepth <= 0 {
		opts.MinDepth = 1
	}
	if opts.MaxDepth <= 0 {
		opts.MaxDepth = 3
	}

	headings := extractHeadings(htmlContent, opts.MinDepth, opts.MaxDepth)
	if len(headings) == 0 {
		return htmlContent, nil
	}

	pos := headings[0].Start
	return htmlContent[:pos] + renderTOC(headings, opts) + htmlContent[pos:], nil
}
