package main

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"testing"

	mdsafe "github.com/alnah/go-mdsafe"
	"github.com/alnah/go-mdsafe/internal/config"
	"github.com/alnah/go-mdsafe/internal/dateutil"
)

// ---------------------------------------------------------------------------
// TestExitCodeFor - Error to exit code mapping
// ---------------------------------------------------------------------------

func TestExitCodeFor(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, ExitSuccess},
		{"unexpected", errors.New("boom"), ExitGeneral},

		{"encoding", fmt.Errorf("a.md: %w", mdsafe.ErrEncoding), ExitEncoding},

		{"all strategies failed", fmt.Errorf("x: %w", mdsafe.ErrAllStrategiesFailed), ExitTypesetter},
		{"command not found", mdsafe.ErrCommandNotFound, ExitTypesetter},
		{"command failed", mdsafe.ErrCommandFailed, ExitTypesetter},
		{"timeout", mdsafe.ErrStrategyTimeout, ExitTypesetter},
		{"browser", mdsafe.ErrBrowserConnect, ExitTypesetter},
		{"pdf generation", mdsafe.ErrPDFGeneration, ExitTypesetter},

		{"not exist", fmt.Errorf("stat: %w", os.ErrNotExist), ExitIO},
		{"permission", os.ErrPermission, ExitIO},
		{"read markdown", ErrReadMarkdown, ExitIO},
		{"write pdf", ErrWritePDF, ExitIO},
		{"no input", ErrNoInput, ExitIO},

		{"usage", ErrUsage, ExitUsage},
		{"unknown command", ErrUnknownCommand, ExitUsage},
		{"extension", ErrInvalidExtension, ExitUsage},
		{"workers", ErrInvalidWorkerCount, ExitUsage},
		{"config not found", config.ErrConfigNotFound, ExitUsage},
		{"config parse", config.ErrConfigParse, ExitUsage},
		{"config field", config.ErrInvalidField, ExitUsage},
		{"field too long", config.ErrFieldTooLong, ExitUsage},
		{"date format", dateutil.ErrInvalidDateFormat, ExitUsage},
		{"empty markdown", mdsafe.ErrEmptyMarkdown, ExitUsage},
		{"unknown profile", mdsafe.ErrUnknownProfile, ExitUsage},
		{"unknown fallback", mdsafe.ErrUnknownFallback, ExitUsage},
		{"invalid strategy", mdsafe.ErrInvalidStrategy, ExitUsage},
		{"no strategies", mdsafe.ErrNoStrategies, ExitUsage},
		{"metadata", mdsafe.ErrInvalidMetadata, ExitUsage},
		{"decoration", mdsafe.ErrDecorationProfile, ExitUsage},

		{"encoding wins over io", errors.Join(ErrReadMarkdown, mdsafe.ErrEncoding), ExitEncoding},
		{"batch unwraps", &batchError{failed: 1, total: 2, first: ErrWritePDF}, ExitIO},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := exitCodeFor(tt.err); got != tt.want {
				t.Errorf("exitCodeFor(%v) = %d, want %d", tt.err, got, tt.want)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestHintFor - Actionable hints
// ---------------------------------------------------------------------------

func TestHintFor(t *testing.T) {
	t.Parallel()

	notFound := fmt.Errorf("%w: %w", mdsafe.ErrCommandNotFound, &exec.Error{Name: "pandoc", Err: exec.ErrNotFound})

	tests := []struct {
		name string
		err  error
		want string
	}{
		{"encoding", mdsafe.ErrEncoding, "UTF-8"},
		{"profile", mdsafe.ErrUnknownProfile, "available profiles: latex, plain"},
		{"missing pandoc", notFound, "pandoc.org"},
		{"timeout", mdsafe.ErrStrategyTimeout, "--timeout"},
		{"latex package", fmt.Errorf("%w: ! LaTeX Error: File `fontspec.sty' not found.", mdsafe.ErrCommandFailed), "package is missing"},
		{"nothing to say", errors.New("boom"), ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := hintFor(tt.err)
			if tt.want == "" {
				if got != "" {
					t.Errorf("hintFor() = %q, want empty", got)
				}
				return
			}
			if !strings.Contains(got, tt.want) {
				t.Errorf("hintFor() = %q, want it to contain %q", got, tt.want)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestReportError - Final error line
// ---------------------------------------------------------------------------

func TestReportError(t *testing.T) {
	t.Parallel()

	t.Run("plain error with hint", func(t *testing.T) {
		t.Parallel()
		var buf bytes.Buffer
		reportError(&buf, fmt.Errorf("a.md: %w", mdsafe.ErrEncoding))
		got := buf.String()
		if !strings.HasPrefix(got, "error: a.md: input is not valid UTF-8 text") {
			t.Errorf("output = %q", got)
		}
		if !strings.Contains(got, "hint:") {
			t.Errorf("output missing hint: %q", got)
		}
	})

	t.Run("batch summary only", func(t *testing.T) {
		t.Parallel()
		var buf bytes.Buffer
		reportError(&buf, &batchError{failed: 2, total: 3, first: mdsafe.ErrEncoding})
		if got := buf.String(); got != "2 of 3 conversion(s) failed\n" {
			t.Errorf("output = %q", got)
		}
	})
}
