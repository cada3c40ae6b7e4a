package mdsafe

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"

	"github.com/alnah/go-mdsafe/internal/fileutil"
	"github.com/alnah/go-mdsafe/internal/pipeline"
)

// pdfRenderer abstracts PDF rendering from an HTML file to enable testing without a browser.
type pdfRenderer interface {
	RenderFromFile(ctx context.Context, filePath string) ([]byte, error)
	Close() error
}

// Compile-time interface checks
var (
	_ Strategy               = (*BrowserStrategy)(nil)
	_ pdfRenderer            = (*rodRenderer)(nil)
	_ pipeline.HTMLConverter = (*pipeline.GoldmarkConverter)(nil)
)

// PDF page dimensions in inches (US Letter format).
const (
	paperWidthInches  = 8.5
	paperHeightInches = 11
	marginInches      = 0.75
)

// rodRenderer implements pdfRenderer using go-rod.
// Rod automatically downloads Chromium on first run if not found.
type rodRenderer struct {
	launcher *launcher.Launcher
	browser  *rod.Browser
	timeout  time.Duration
}

// newRodRenderer creates a rodRenderer with the given timeout.
func newRodRenderer(timeout time.Duration) *rodRenderer {
	return &rodRenderer{timeout: timeout}
}

// ensureBrowser lazily connects to the browser.
func (r *rodRenderer) ensureBrowser() error {
	if r.browser != nil {
		return nil
	}

	l := launcher.New()

	// Use pre-installed browser if specified (Docker/containerized environments)
	if bin := os.Getenv("ROD_BROWSER_BIN"); bin != "" {
		l = l.Bin(bin)
	}

	// NoSandbox required for CI and containerized environments
	if os.Getenv("CI") == "true" || os.Getenv("ROD_NO_SANDBOX") == "1" || os.Getenv("ROD_BROWSER_BIN") != "" {
		l = l.NoSandbox(true)
	}
	u, err := l.Launch()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrBrowserConnect, err)
	}

	browser := rod.New().ControlURL(u)
	if err := browser.Connect(); err != nil {
		l.Kill()
		return fmt.Errorf("%w: %v", ErrBrowserConnect, err)
	}
	r.launcher = l
	r.browser = browser
	return nil
}

// Close releases browser resources.
func (r *rodRenderer) Close() error {
	var err error
	if r.browser != nil {
		err = r.browser.Close()
		r.browser = nil
	}
	if r.launcher != nil {
		r.launcher.Kill()
		r.launcher = nil
	}
	return err
}

// RenderFromFile opens a local HTML file in headless Chrome and renders it to PDF.
func (r *rodRenderer) RenderFromFile(ctx context.Context, filePath string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if err := r.ensureBrowser(); err != nil {
		return nil, err
	}

	page, err := r.browser.Context(ctx).Page(proto.TargetCreateTarget{URL: "file://" + filePath})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPageCreate, err)
	}
	defer page.Close()

	timeout := r.timeout
	if deadline, ok := ctx.Deadline(); ok {
		timeout = time.Until(deadline)
		if timeout <= 0 {
			return nil, context.DeadlineExceeded
		}
	}

	if err := page.Timeout(timeout).WaitLoad(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPageLoad, err)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	reader, err := page.PDF(&proto.PagePrintToPDF{
		PaperWidth:      floatPtr(paperWidthInches),
		PaperHeight:     floatPtr(paperHeightInches),
		MarginTop:       floatPtr(marginInches),
		MarginBottom:    floatPtr(marginInches),
		MarginLeft:      floatPtr(marginInches),
		MarginRight:     floatPtr(marginInches),
		PrintBackground: true,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPDFGeneration, err)
	}

	pdfBuf, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("%w: reading PDF stream: %v", ErrPDFGeneration, err)
	}

	return pdfBuf, nil
}

// floatPtr returns a pointer to a float64 value.
func floatPtr(v float64) *float64 {
	return &v
}

// BrowserStrategy renders the document to HTML with goldmark and prints it
// with headless Chrome. It needs no TeX installation. The browser starts on
// first use and lives until Close; a BrowserStrategy is not safe for
// concurrent use.
type BrowserStrategy struct {
	html     pipeline.HTMLConverter
	renderer pdfRenderer
	timeout  time.Duration
}

// NewBrowserStrategy creates a BrowserStrategy with the default stylesheet.
func NewBrowserStrategy(timeout time.Duration) *BrowserStrategy {
	return &BrowserStrategy{
		html:     pipeline.NewGoldmarkConverter(""),
		renderer: newRodRenderer(timeout),
		timeout:  timeout,
	}
}

func (s *BrowserStrategy) Name() string           { return FallbackBrowser }
func (s *BrowserStrategy) Timeout() time.Duration { return s.timeout }

// Render converts the source to a standalone HTML page and prints it.
func (s *BrowserStrategy) Render(ctx context.Context, sourcePath, outputPath string) error {
	doc, err := loadFallbackDocument(sourcePath)
	if err != nil {
		return err
	}

	htmlContent, err := s.html.ToHTML(ctx, doc.Markdown(), doc.Title)
	if err != nil {
		return fmt.Errorf("converting to HTML: %w", err)
	}
	if doc.TOC {
		if htmlContent, err = pipeline.InsertTOC(ctx, htmlContent, doc.tocOptions()); err != nil {
			return err
		}
	}

	htmlPath, cleanup, err := fileutil.WriteTempFile(htmlContent, "html")
	if err != nil {
		return err
	}
	defer cleanup()

	pdf, err := s.renderer.RenderFromFile(ctx, htmlPath)
	if err != nil {
		return err
	}
	if err := os.WriteFile(outputPath, pdf, 0o600); err != nil {
		return fmt.Errorf("writing PDF: %w", err)
	}
	return nil
}

// tocOptions lists headings up to level 3. The title block renders as an
// h1, so listing starts at h2 when the document has a title.
func (d *fallbackDocument) tocOptions() pipeline.TOCOptions {
	opts := pipeline.TOCOptions{Title: "Contents", MinDepth: 1, MaxDepth: 3, Numbered: d.NumberSections}
	if d.Title != "" {
		opts.MinDepth = 2
	}
	return opts
}

// Close stops the browser if it was started.
func (s *BrowserStrategy) Close() error {
	if s.renderer != nil {
		return s.renderer.Close()
	}
	return nil
}
