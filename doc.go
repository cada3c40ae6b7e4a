// Package mdsafe turns author-written Markdown full of symbols, emoji and
// decorative markup into typesetter-safe text, and drives external
// typesetters to render it as PDF.
//
// # Quick Start
//
// Sanitize only:
//
//	safe, err := mdsafe.Process(raw)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// Sanitize and render:
//
//	conv, err := mdsafe.NewConverter(mdsafe.WithProfile("latex"))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer conv.Close()
//
//	result, err := conv.Convert(ctx, mdsafe.Input{
//	    Markdown: string(raw),
//	    Metadata: &mdsafe.Metadata{Title: "Manual", Date: "auto:month"},
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	os.WriteFile("manual.pdf", result.PDF, 0644)
//
// # Sanitization
//
// Every document goes through four stages in a fixed order:
//
//  1. Symbol mapping: known symbols and emoji sequences become ASCII text
//     or LaTeX markup, depending on the profile ("plain" or "latex").
//  2. Unicode filtering: remaining non-ASCII letters are dropped, other
//     symbols become a space; smart quotes and dashes are kept.
//  3. Markup sanitizing: raw HTML block tags, badge links and images are
//     removed, table delimiter rows are rewritten to plain dashes.
//  4. Whitespace normalization: trailing spaces, doubled spaces and runs
//     of blank lines are collapsed.
//
// The result is deterministic and processing it again changes nothing.
//
// # Strategies
//
// Rendering tries an ordered chain of strategies, each under its own
// timeout, until one writes a PDF that pdfcpu can validate. The profiles
// come with pandoc chains (plain: pandoc-toc, pandoc-minimal; latex:
// pandoc-xelatex, pandoc-pdflatex, pandoc-toc). Pure-Go fallbacks can be
// appended:
//
//	conv, err := mdsafe.NewConverter(
//	    mdsafe.WithTimeout(2*time.Minute),
//	    mdsafe.WithFallbacks(mdsafe.FallbackBrowser, mdsafe.FallbackText),
//	)
//
// Custom commands use {input} and {output} placeholders:
//
//	mdsafe.WithCommands(mdsafe.CommandSpec{
//	    Name:    "tectonic",
//	    Command: "pandoc",
//	    Args:    []string{"{input}", "-o", "{output}", "--pdf-engine=tectonic"},
//	})
//
// A timed-out command is killed with its whole process group. When every
// strategy fails, the error wraps ErrAllStrategiesFailed and each attempt's
// error, and Result.Attempts tells what happened to each.
//
// # Parallel Processing
//
// For batch conversion, use ConverterPool:
//
//	pool := mdsafe.NewConverterPool(mdsafe.ResolvePoolSize(0), opts...)
//	defer pool.Close()
//
//	result, err := pool.Convert(ctx, input)
package mdsafe
