package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"

	mdsafe "github.com/alnah/go-mdsafe"
	"github.com/alnah/go-mdsafe/internal/config"
	"github.com/alnah/go-mdsafe/internal/dateutil"
	"github.com/alnah/go-mdsafe/internal/hints"
	"github.com/alnah/go-mdsafe/internal/pipeline"
)

// Exit codes for mdsafe CLI.
// Follows Unix conventions: 0=success, 1=general, 2=usage, and custom codes < 126.
const (
	ExitSuccess    = 0 // Successful conversion
	ExitGeneral    = 1 // General/unexpected error
	ExitUsage      = 2 // Invalid flags, config, or validation
	ExitIO         = 3 // File not found, permission denied
	ExitEncoding   = 4 // Input is not valid UTF-8 or UTF-16 with BOM
	ExitTypesetter = 5 // Every strategy failed or none could run
)

// exitCodeFor returns the appropriate exit code for an error.
// It uses errors.Is to check wrapped errors, so callers must use fmt.Errorf("%w", err).
func exitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}

	// Encoding errors (exit 4)
	if errors.Is(err, mdsafe.ErrEncoding) {
		return ExitEncoding
	}

	// Typesetting errors (exit 5)
	if errors.Is(err, mdsafe.ErrAllStrategiesFailed) ||
		errors.Is(err, mdsafe.ErrCommandNotFound) ||
		errors.Is(err, mdsafe.ErrCommandFailed) ||
		errors.Is(err, mdsafe.ErrStrategyTimeout) ||
		errors.Is(err, mdsafe.ErrBrowserConnect) ||
		errors.Is(err, mdsafe.ErrPDFGeneration) {
		return ExitTypesetter
	}

	// I/O errors (exit 3)
	if errors.Is(err, os.ErrNotExist) ||
		errors.Is(err, os.ErrPermission) ||
		errors.Is(err, ErrReadMarkdown) ||
		errors.Is(err, ErrWritePDF) ||
		errors.Is(err, ErrNoInput) {
		return ExitIO
	}

	// Usage/config/validation errors (exit 2)
	if errors.Is(err, ErrUsage) ||
		errors.Is(err, ErrUnknownCommand) ||
		errors.Is(err, ErrInvalidExtension) ||
		errors.Is(err, ErrInvalidWorkerCount) ||
		errors.Is(err, config.ErrConfigNotFound) ||
		errors.Is(err, config.ErrEmptyConfigName) ||
		errors.Is(err, config.ErrConfigParse) ||
		errors.Is(err, config.ErrFieldTooLong) ||
		errors.Is(err, config.ErrInvalidField) ||
		errors.Is(err, dateutil.ErrInvalidDateFormat) ||
		errors.Is(err, mdsafe.ErrEmptyMarkdown) ||
		errors.Is(err, mdsafe.ErrUnknownProfile) ||
		errors.Is(err, mdsafe.ErrUnknownFallback) ||
		errors.Is(err, mdsafe.ErrInvalidStrategy) ||
		errors.Is(err, mdsafe.ErrNoStrategies) ||
		errors.Is(err, mdsafe.ErrInvalidMetadata) ||
		errors.Is(err, mdsafe.ErrDecorationProfile) {
		return ExitUsage
	}

	return ExitGeneral
}

// hintFor returns an actionable hint for err, or "".
func hintFor(err error) string {
	var execErr *exec.Error

	switch {
	case errors.Is(err, mdsafe.ErrEncoding):
		return hints.ForEncoding()
	case errors.Is(err, mdsafe.ErrUnknownProfile):
		return hints.ForUnknownProfile(pipeline.ProfileNames())
	case errors.As(err, &execErr):
		return hints.ForCommandNotFound(execErr.Name)
	case errors.Is(err, mdsafe.ErrBrowserConnect):
		return hints.ForBrowserConnect()
	case errors.Is(err, mdsafe.ErrStrategyTimeout):
		return hints.ForTimeout()
	case errors.Is(err, mdsafe.ErrCommandFailed):
		return hints.ForTypesetting(err.Error())
	}
	return ""
}

// reportError prints err with its hint. Batch failures were already
// reported file by file, so only their summary is printed.
func reportError(w io.Writer, err error) {
	var be *batchError
	if errors.As(err, &be) {
		fmt.Fprintln(w, be.Error())
		return
	}
	fmt.Fprintf(w, "error: %v%s\n", err, hintFor(err))
}
