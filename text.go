package mdsafe

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/jung-kurt/gofpdf"
)

// Compile-time interface check.
var _ Strategy = (*TextStrategy)(nil)

// Inline markup the text layout drops.
var (
	inlineCode      = regexp.MustCompile("`([^`]+)`")
	inlineLink      = regexp.MustCompile(`\[([^\]]*)\]\([^)]+\)`)
	inlineEmphasis  = regexp.MustCompile(`(^|\s)[*_]([^*_]+)[*_](\s|$)`)
	orderedItem     = regexp.MustCompile(`^\d+\.\s`)
	thematicBreak   = regexp.MustCompile(`^(?:\*\s*){3,}$|^(?:-\s*){3,}$|^(?:_\s*){3,}$`)
	tableDelimiter  = regexp.MustCompile(`^\|?[\s|:-]*-[\s|:-]*$`)
	headingSizes    = map[int]float64{1: 18, 2: 15, 3: 13, 4: 12, 5: 11, 6: 10}
	defaultTextSize = 10.0
)

// TextStrategy lays the document out as plain text with gofpdf. It runs in
// process and needs no external tools, so it is the last resort of a chain:
// headings, lists, tables and code keep their shape but not their styling.
type TextStrategy struct {
	timeout time.Duration
}

// NewTextStrategy creates a TextStrategy.
func NewTextStrategy(timeout time.Duration) *TextStrategy {
	return &TextStrategy{timeout: timeout}
}

func (s *TextStrategy) Name() string           { return FallbackText }
func (s *TextStrategy) Timeout() time.Duration { return s.timeout }

// Render writes an A4 PDF of the source to outputPath.
func (s *TextStrategy) Render(ctx context.Context, sourcePath, outputPath string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	doc, err := loadFallbackDocument(sourcePath)
	if err != nil {
		return err
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetTitle(doc.Title, true)
	pdf.SetAuthor(doc.Author, true)
	pdf.SetAutoPageBreak(true, 15)
	pdf.AddPage()

	writeTitleBlock(pdf, tr, doc)

	inCode := false
	for _, line := range strings.Split(doc.Body, "\n") {
		if err := ctx.Err(); err != nil {
			return err
		}
		inCode = writeLine(pdf, tr, line, inCode)
	}

	if err := pdf.OutputFileAndClose(outputPath); err != nil {
		return fmt.Errorf("%w: %v", ErrPDFGeneration, err)
	}
	return nil
}

func writeTitleBlock(pdf *gofpdf.Fpdf, tr func(string) string, doc *fallbackDocument) {
	if doc.Title != "" {
		pdf.SetFont("Helvetica", "B", 20)
		pdf.MultiCell(0, 9, tr(doc.Title), "", "C", false)
		pdf.Ln(2)
	}
	if doc.Subtitle != "" {
		pdf.SetFont("Helvetica", "I", 12)
		pdf.MultiCell(0, 6, tr(doc.Subtitle), "", "C", false)
	}
	if by := doc.byline(); by != "" {
		pdf.SetFont("Helvetica", "", 10)
		pdf.SetTextColor(100, 100, 100)
		pdf.MultiCell(0, 5, tr(by), "", "C", false)
		pdf.SetTextColor(0, 0, 0)
	}
	if doc.Title != "" || doc.Subtitle != "" {
		pdf.Ln(8)
	}
}

// writeLine renders one Markdown line and reports whether a code fence is
// still open afterwards.
func writeLine(pdf *gofpdf.Fpdf, tr func(string) string, line string, inCode bool) bool {
	trimmed := strings.TrimSpace(line)

	if strings.HasPrefix(trimmed, "```") || strings.HasPrefix(trimmed, "~~~") {
		pdf.Ln(2)
		return !inCode
	}

	if inCode {
		pdf.SetFont("Courier", "", 9)
		pdf.SetFillColor(245, 245, 245)
		pdf.MultiCell(0, 4.5, tr(line), "", "L", true)
		return true
	}

	switch {
	case trimmed == "":
		pdf.Ln(3)
	case thematicBreak.MatchString(trimmed):
		pdf.Ln(2)
		left, _, right, _ := pdf.GetMargins()
		width, _ := pdf.GetPageSize()
		y := pdf.GetY()
		pdf.SetDrawColor(25, 25, 112)
		pdf.Line(left, y, width-right, y)
		pdf.Ln(4)
	case strings.HasPrefix(trimmed, "#"):
		level := len(trimmed) - len(strings.TrimLeft(trimmed, "#"))
		size, ok := headingSizes[level]
		if !ok {
			size = defaultTextSize
		}
		pdf.Ln(4)
		pdf.SetFont("Helvetica", "B", size)
		pdf.MultiCell(0, size*0.6, tr(cleanInline(strings.TrimLeft(trimmed, "# "))), "", "L", false)
		pdf.Ln(2)
	case strings.HasPrefix(trimmed, "|"):
		if tableDelimiter.MatchString(trimmed) {
			return false
		}
		pdf.SetFont("Courier", "", 9)
		pdf.MultiCell(0, 4.5, tr(cleanInline(trimmed)), "", "L", false)
	case strings.HasPrefix(trimmed, "- "), strings.HasPrefix(trimmed, "* "), strings.HasPrefix(trimmed, "+ "):
		pdf.SetFont("Helvetica", "", defaultTextSize)
		pdf.MultiCell(0, 5, tr("  - "+cleanInline(trimmed[2:])), "", "L", false)
	case orderedItem.MatchString(trimmed):
		pdf.SetFont("Helvetica", "", defaultTextSize)
		pdf.MultiCell(0, 5, tr("  "+cleanInline(trimmed)), "", "L", false)
	case strings.HasPrefix(trimmed, ">"):
		pdf.SetFont("Helvetica", "I", defaultTextSize)
		pdf.MultiCell(0, 5, tr(cleanInline(strings.TrimLeft(trimmed, "> "))), "", "L", false)
	default:
		pdf.SetFont("Helvetica", "", defaultTextSize)
		pdf.MultiCell(0, 5, tr(cleanInline(trimmed)), "", "L", false)
	}
	return false
}

// cleanInline strips inline Markdown formatting.
func cleanInline(text string) string {
	text = strings.ReplaceAll(text, "**", "")
	text = strings.ReplaceAll(text, "__", "")
	text = inlineEmphasis.ReplaceAllString(text, "$1$2$3")
	text = inlineCode.ReplaceAllString(text, "$1")
	text = inlineLink.ReplaceAllString(text, "$1")
	return strings.TrimSpace(text)
}
