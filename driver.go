package mdsafe

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/alnah/go-mdsafe/internal/fileutil"
)

// Strategy is one way of typesetting a Markdown file into a PDF.
// Render must write outputPath and honor ctx; the driver enforces Timeout.
type Strategy interface {
	Name() string
	Timeout() time.Duration
	Render(ctx context.Context, sourcePath, outputPath string) error
}

// Attempt records how one strategy fared.
type Attempt struct {
	Strategy string
	Err      error
	TimedOut bool
	Duration time.Duration
}

// Succeeded reports whether the attempt produced a verified PDF.
func (a Attempt) Succeeded() bool {
	return a.Err == nil
}

// Outcome is the tagged result of a driver run. Winner is empty when no
// strategy succeeded.
type Outcome struct {
	Winner   string
	Attempts []Attempt
	PDF      []byte
	Pages    int
}

// Scratch file names inside the per-run directory.
const (
	sourceFileName = "input.md"
	outputFileName = "output.pdf"
)

// fallbackTimeout bounds strategies that report no timeout of their own.
const fallbackTimeout = DefaultPlainTimeout

// Driver runs strategies strictly in order until one produces a verified PDF.
type Driver struct {
	strategies []Strategy
	verifier   Verifier
}

// NewDriver creates a Driver. A nil verifier only checks that the output
// file exists and is not empty.
func NewDriver(verifier Verifier, strategies ...Strategy) *Driver {
	return &Driver{
		strategies: strategies,
		verifier:   verifier,
	}
}

// Strategies returns the names of the chain, in order.
func (d *Driver) Strategies() []string {
	names := make([]string, len(d.strategies))
	for i, s := range d.strategies {
		names[i] = s.Name()
	}
	return names
}

// Run writes text to a private scratch file and tries each strategy on it.
// The scratch directory is removed on every path. When the chain is
// exhausted the error wraps ErrAllStrategiesFailed and every attempt error.
// Cancelling ctx stops the chain before the next attempt.
func (d *Driver) Run(ctx context.Context, text string) (*Outcome, error) {
	if len(d.strategies) == 0 {
		return nil, ErrNoStrategies
	}
	if text == "" {
		return nil, ErrEmptyMarkdown
	}

	dir, cleanup, err := fileutil.ScratchDir()
	if err != nil {
		return nil, err
	}
	defer cleanup()

	source := filepath.Join(dir, sourceFileName)
	if err := os.WriteFile(source, []byte(text), 0o600); err != nil {
		return nil, fmt.Errorf("writing scratch source: %w", err)
	}
	output := filepath.Join(dir, outputFileName)

	out := &Outcome{Attempts: make([]Attempt, 0, len(d.strategies))}
	errs := make([]error, 0, len(d.strategies)+1)
	errs = append(errs, ErrAllStrategiesFailed)

	for _, s := range d.strategies {
		if err := ctx.Err(); err != nil {
			return out, err
		}

		attempt, pdf, pages := d.attempt(ctx, s, source, output)
		out.Attempts = append(out.Attempts, attempt)

		if attempt.Succeeded() {
			out.Winner = attempt.Strategy
			out.PDF = pdf
			out.Pages = pages
			return out, nil
		}
		if err := ctx.Err(); err != nil {
			return out, err
		}
		errs = append(errs, attempt.Err)
	}

	return out, errors.Join(errs...)
}

func (d *Driver) attempt(ctx context.Context, s Strategy, source, output string) (Attempt, []byte, int) {
	_ = os.Remove(output)

	timeout := s.Timeout()
	if timeout <= 0 {
		timeout = fallbackTimeout
	}
	attemptCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	a := Attempt{Strategy: s.Name()}
	start := time.Now()

	var pdf []byte
	var pages int
	err := s.Render(attemptCtx, source, output)
	if err == nil {
		pdf, pages, err = d.collect(output)
	}
	a.Duration = time.Since(start)

	if err != nil {
		if errors.Is(attemptCtx.Err(), context.DeadlineExceeded) && ctx.Err() == nil {
			a.TimedOut = true
			err = fmt.Errorf("%w after %s: %v", ErrStrategyTimeout, timeout, err)
		}
		a.Err = fmt.Errorf("strategy %s: %w", a.Strategy, err)
		return a, nil, 0
	}
	return a, pdf, pages
}

// collect checks the output file and reads it.
func (d *Driver) collect(output string) ([]byte, int, error) {
	if _, err := fileutil.NonEmptyFile(output); err != nil {
		return nil, 0, fmt.Errorf("%w: %v", ErrEmptyOutput, err)
	}

	pages := 0
	if d.verifier != nil {
		n, err := d.verifier.Verify(output)
		if err != nil {
			return nil, 0, err
		}
		pages = n
	}

	data, err := os.ReadFile(output) // #nosec G304 -- path is inside our scratch directory
	if err != nil {
		return nil, 0, fmt.Errorf("reading output: %w", err)
	}
	return data, pages, nil
}
