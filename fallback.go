package mdsafe

import (
	"bytes"
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/alnah/go-mdsafe/internal/yamlutil"
)

// Fallback strategy names accepted by WithFallbacks.
const (
	FallbackBrowser = "browser"
	FallbackText    = "text"
)

// LaTeX markup produced by the latex profile and Decorate.
var (
	latexColor  = regexp.MustCompile(`\\textcolor\{[A-Za-z]+\}\{([^{}]*)\}`)
	latexBold   = regexp.MustCompile(`\\textbf\{([^{}]*)\}`)
	latexLayout = regexp.MustCompile(`(?m)^\\(?:vspace\{[^}]*\}|begin\{center\}|end\{center\})[ \t]*\n?`)
)

// latexSymbols maps math-mode symbols back to the plain profile's words.
var latexSymbols = strings.NewReplacer(
	`$\pm$`, "+/-",
	`$^\circ$`, " degrees",
	`$\geq$`, ">=",
	`$\leq$`, "<=",
	`$\neq$`, "!=",
	`$\approx$`, "~",
	`$\times$`, "x",
	`$\div$`, "/",
	`$\infty$`, "infinity",
	`$\rightarrow$`, "->",
	`$\leftarrow$`, "<-",
	`$\uparrow$`, "up",
	`$\downarrow$`, "down",
	`$\Rightarrow$`, "=>",
	`$\leftrightarrow$`, "<->",
	`$\checkmark$`, "[x]",
	`$\star$`, "*",
	`$\ast$`, "*",
	`$\bullet$`, "-",
	`$\odot$`, "(o)",
	`\ldots{}`, "...",
	`\copyright{}`, "(c)",
	`\textregistered{}`, "(R)",
	`\texttrademark{}`, "(TM)",
)

// flattenLaTeX rewrites LaTeX markup as plain text for strategies that do
// not run a LaTeX engine.
func flattenLaTeX(text string) string {
	text = latexLayout.ReplaceAllString(text, "")
	text = latexColor.ReplaceAllString(text, "$1")
	text = latexBold.ReplaceAllString(text, "$1")
	return latexSymbols.Replace(text)
}

// fallbackDocument is a scratch source read back for a pure-Go strategy:
// the metadata blocks are lifted out and the body flattened.
type fallbackDocument struct {
	Title          string
	Subtitle       string
	Author         string
	Date           string
	TOC            bool
	NumberSections bool
	Body           string
}

// loadFallbackDocument reads path, strips every leading metadata block and
// keeps the first value seen for each field.
func loadFallbackDocument(path string) (*fallbackDocument, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- scratch source written by the driver
	if err != nil {
		return nil, fmt.Errorf("reading source: %w", err)
	}

	doc := &fallbackDocument{}
	body := string(data)
	for {
		front, rest := yamlutil.SplitFrontMatter(strings.TrimLeft(body, "\n"))
		if front == nil {
			break
		}
		body = rest
		if len(bytes.TrimSpace(front)) == 0 {
			continue
		}
		var fm frontMatter
		if err := yamlutil.Unmarshal(front, &fm); err == nil {
			doc.merge(fm)
		}
	}
	doc.Body = flattenLaTeX(body)
	return doc, nil
}

func (d *fallbackDocument) merge(fm frontMatter) {
	set := func(dst *string, v string) {
		if *dst == "" {
			*dst = flattenLaTeX(v)
		}
	}
	set(&d.Title, fm.Title)
	set(&d.Subtitle, fm.Subtitle)
	set(&d.Author, fm.Author)
	set(&d.Date, fm.Date)
	d.TOC = d.TOC || fm.TOC
	d.NumberSections = d.NumberSections || fm.NumberSections
}

// byline joins author and date.
func (d *fallbackDocument) byline() string {
	parts := make([]string, 0, 2)
	for _, p := range []string{d.Author, d.Date} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, " - ")
}

// Markdown returns the body preceded by a title block built from metadata.
func (d *fallbackDocument) Markdown() string {
	if d.Title == "" && d.Subtitle == "" && d.byline() == "" {
		return d.Body
	}
	var b strings.Builder
	if d.Title != "" {
		b.WriteString("# " + d.Title + "\n\n")
	}
	if d.Subtitle != "" {
		b.WriteString("*" + d.Subtitle + "*\n\n")
	}
	if by := d.byline(); by != "" {
		b.WriteString(by + "\n\n")
	}
	b.WriteString(d.Body)
	return b.String()
}
