package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	mdsafe "github.com/alnah/go-mdsafe"
	"github.com/alnah/go-mdsafe/internal/hints"
)

// File permission constants.
const (
	dirPermissions  = 0o750 // rwxr-x---: owner full, group read+execute
	filePermissions = 0o644 // rw-r--r--: owner read+write, others read
)

// Sentinel errors for batch operations.
var (
	ErrNoInput      = errors.New("no input specified")
	ErrReadMarkdown = errors.New("failed to read markdown file")
	ErrWritePDF     = errors.New("failed to write PDF file")
)

// conversionParams groups parameters shared across every file of a batch.
type conversionParams struct {
	metadata     *mdsafe.Metadata
	decorate     bool
	keepMarkdown bool
}

// ConversionResult holds the outcome of a single conversion.
type ConversionResult struct {
	InputPath    string
	OutputPath   string
	MarkdownPath string // sanitized copy, when kept
	Strategy     string
	Pages        int
	Attempts     []mdsafe.Attempt
	Err          error
	Duration     time.Duration
}

// convertBatch processes files concurrently using the converter pool.
func convertBatch(ctx context.Context, pool Pool, files []FileToConvert, params *conversionParams) []ConversionResult {
	if len(files) == 0 {
		return nil
	}

	concurrency := min(pool.Size(), len(files))

	results := make([]ConversionResult, len(files))
	var wg sync.WaitGroup
	jobs := make(chan int, len(files))

	for range concurrency {
		wg.Add(1)
		go func() {
			defer wg.Done()

			conv, err := pool.Acquire(ctx)
			if err != nil {
				// Converter creation failed, mark remaining jobs as failed
				for idx := range jobs {
					results[idx] = ConversionResult{InputPath: files[idx].InputPath, Err: err}
				}
				return
			}
			defer pool.Release(conv)

			for idx := range jobs {
				if ctx.Err() != nil {
					results[idx] = ConversionResult{InputPath: files[idx].InputPath, Err: ctx.Err()}
					continue
				}
				results[idx] = convertFile(ctx, conv, files[idx], params)
			}
		}()
	}

	for i := range files {
		jobs <- i
	}
	close(jobs)

	wg.Wait()
	return results
}

// convertFile processes a single file and returns the result.
func convertFile(ctx context.Context, conv CLIConverter, f FileToConvert, params *conversionParams) ConversionResult {
	start := time.Now()
	result := ConversionResult{
		InputPath:  f.InputPath,
		OutputPath: f.OutputPath,
	}
	fail := func(err error) ConversionResult {
		result.Err = err
		result.Duration = time.Since(start)
		return result
	}

	content, err := os.ReadFile(f.InputPath) // #nosec G304 -- discovered path
	if err != nil {
		return fail(fmt.Errorf("%w: %v", ErrReadMarkdown, err))
	}

	res, err := conv.Convert(ctx, mdsafe.Input{
		Markdown: string(content),
		Metadata: params.metadata,
		Decorate: params.decorate,
	})
	if res != nil {
		result.Attempts = res.Attempts
		result.Strategy = res.Strategy
		result.Pages = res.Pages
	}
	if err != nil {
		return fail(err)
	}

	if err := os.MkdirAll(filepath.Dir(f.OutputPath), dirPermissions); err != nil {
		return fail(fmt.Errorf("creating output directory: %w%s", err, hints.ForOutputDirectory()))
	}

	// #nosec G306 -- PDFs are meant to be readable
	if err := os.WriteFile(f.OutputPath, res.PDF, filePermissions); err != nil {
		return fail(fmt.Errorf("%w: %v", ErrWritePDF, err))
	}

	if params.keepMarkdown {
		mdPath := safeMarkdownPath(f.OutputPath)
		// #nosec G306 -- sanitized copy of a user document
		if err := os.WriteFile(mdPath, []byte(res.Markdown), filePermissions); err != nil {
			return fail(fmt.Errorf("writing sanitized markdown: %w", err))
		}
		result.MarkdownPath = mdPath
	}

	result.Duration = time.Since(start)
	return result
}

// batchError summarizes a batch with failures. It unwraps to the first
// failure so the exit code reflects its cause.
type batchError struct {
	failed int
	total  int
	first  error
}

func newBatchError(results []ConversionResult, failed int) *batchError {
	be := &batchError{failed: failed, total: len(results)}
	for _, r := range results {
		if r.Err != nil {
			be.first = r.Err
			break
		}
	}
	return be
}

func (e *batchError) Error() string {
	return fmt.Sprintf("%d of %d conversion(s) failed", e.failed, e.total)
}

func (e *batchError) Unwrap() error {
	return e.first
}

// ResultSummary holds the count of succeeded and failed conversions.
type ResultSummary struct {
	Succeeded int
	Failed    int
}

// countResults tallies succeeded and failed conversions.
func countResults(results []ConversionResult) ResultSummary {
	var summary ResultSummary
	for _, r := range results {
		if r.Err != nil {
			summary.Failed++
		} else {
			summary.Succeeded++
		}
	}
	return summary
}

// printResults outputs conversion results and returns the failure count.
func printResults(results []ConversionResult, quiet, verbose bool, env *Environment) int {
	summary := countResults(results)

	for _, r := range results {
		if r.Err != nil {
			fmt.Fprintf(env.Stderr, "FAILED %s: %v%s\n", r.InputPath, r.Err, hintFor(r.Err))
			if verbose {
				printAttempts(env.Stderr, r.Attempts)
			}
			continue
		}

		if quiet {
			continue
		}

		if verbose {
			fmt.Fprintf(env.Stdout, "%s -> %s (%v)\n", r.InputPath, r.OutputPath, r.Duration.Round(time.Millisecond))
			printAttempts(env.Stdout, r.Attempts)
		} else {
			fmt.Fprintf(env.Stdout, "Created %s%s\n", r.OutputPath, describeWinner(r))
		}
		if r.MarkdownPath != "" {
			fmt.Fprintf(env.Stdout, "Created %s\n", r.MarkdownPath)
		}
	}

	if !quiet && len(results) > 1 {
		fmt.Fprintf(env.Stdout, "\n%d succeeded, %d failed\n", summary.Succeeded, summary.Failed)
	}

	return summary.Failed
}

// describeWinner returns " (strategy, N pages)" for a successful result.
func describeWinner(r ConversionResult) string {
	if r.Strategy == "" {
		return ""
	}
	if r.Pages > 0 {
		return fmt.Sprintf(" (%s, %d pages)", r.Strategy, r.Pages)
	}
	return fmt.Sprintf(" (%s)", r.Strategy)
}

// printAttempts lists every strategy attempt of a conversion.
func printAttempts(w io.Writer, attempts []mdsafe.Attempt) {
	for _, a := range attempts {
		d := a.Duration.Round(time.Millisecond)
		switch {
		case a.Succeeded():
			fmt.Fprintf(w, "  [OK]      %s (%v)\n", a.Strategy, d)
		case a.TimedOut:
			fmt.Fprintf(w, "  [TIMEOUT] %s (%v)\n", a.Strategy, d)
		default:
			fmt.Fprintf(w, "  [FAIL]    %s (%v): %v\n", a.Strategy, d, a.Err)
		}
	}
}
