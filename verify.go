package mdsafe

import (
	"fmt"
	"os"
	"sync"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// Verifier checks a rendered file and reports its page count.
type Verifier interface {
	Verify(path string) (pages int, err error)
}

// Compile-time interface check.
var _ Verifier = (*PDFVerifier)(nil)

// pdfcpu would otherwise create its configuration directory on first use.
var disablePDFConfigDir = sync.OnceFunc(api.DisableConfigDir)

// PDFVerifier validates output with pdfcpu.
type PDFVerifier struct{}

// NewPDFVerifier creates a PDFVerifier.
func NewPDFVerifier() *PDFVerifier {
	disablePDFConfigDir()
	return &PDFVerifier{}
}

// Verify parses and validates the PDF at path. A file that pdfcpu cannot
// read or that has no pages fails with ErrInvalidPDF.
func (v *PDFVerifier) Verify(path string) (int, error) {
	f, err := os.Open(path) // #nosec G304 -- path is a strategy output
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrInvalidPDF, err)
	}
	defer f.Close()

	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed

	pdfCtx, err := api.ReadValidateAndOptimize(f, conf)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrInvalidPDF, err)
	}
	if pdfCtx.PageCount < 1 {
		return 0, fmt.Errorf("%w: document has no pages", ErrInvalidPDF)
	}
	return pdfCtx.PageCount, nil
}
