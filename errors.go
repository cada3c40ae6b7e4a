package mdsafe

import (
	"errors"

	"github.com/alnah/go-mdsafe/internal/pipeline"
)

// Sentinel errors for library operations.
var (
	ErrEmptyMarkdown  = pipeline.ErrEmptyInput
	ErrEncoding       = pipeline.ErrEncoding
	ErrUnknownProfile = pipeline.ErrUnknownProfile
	ErrHTMLConversion = pipeline.ErrHTMLConversion

	// Strategy chain errors.
	ErrNoStrategies        = errors.New("no conversion strategies configured")
	ErrAllStrategiesFailed = errors.New("all conversion strategies failed")
	ErrStrategyTimeout     = errors.New("conversion strategy timed out")
	ErrInvalidStrategy     = errors.New("invalid conversion strategy")
	ErrUnknownFallback     = errors.New("unknown fallback strategy")

	// External command errors.
	ErrCommandNotFound = errors.New("typesetting command not found")
	ErrCommandFailed   = errors.New("typesetting command failed")

	// Output verification errors.
	ErrEmptyOutput = errors.New("strategy produced no output")
	ErrInvalidPDF  = errors.New("output is not a valid PDF")

	// Browser rendering errors.
	ErrPDFGeneration  = errors.New("PDF generation failed")
	ErrBrowserConnect = errors.New("failed to connect to browser")
	ErrPageCreate     = errors.New("failed to create browser page")
	ErrPageLoad       = errors.New("failed to load page")

	// Metadata validation errors.
	ErrInvalidMetadata   = errors.New("invalid document metadata")
	ErrDecorationProfile = errors.New("heading decoration requires the latex profile")
)
