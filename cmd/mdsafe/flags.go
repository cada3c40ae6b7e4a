package main

import (
	"fmt"
	"io"

	flag "github.com/spf13/pflag"
)

// commonFlags holds flags shared across commands.
type commonFlags struct {
	config  string
	quiet   bool
	verbose bool
}

// documentFlags holds document metadata flags.
type documentFlags struct {
	title          string
	subtitle       string
	author         string
	date           string
	version        string
	class          string
	geometry       string
	fontSize       string
	toc            bool
	numberSections bool
}

// convertFlags holds all flags for the convert command.
type convertFlags struct {
	common       commonFlags
	output       string
	workers      int
	timeout      string
	profile      string
	fallbacks    []string
	decorate     bool
	keepMarkdown bool
	noVerify     bool
	document     documentFlags
}

// cleanFlags holds flags for the clean command.
type cleanFlags struct {
	config  string
	profile string
	output  string
	trace   bool
}

// addCommonFlags adds common flags to a FlagSet.
func addCommonFlags(fs *flag.FlagSet, f *commonFlags) {
	fs.StringVarP(&f.config, "config", "c", "", "config file name or path")
	fs.BoolVarP(&f.quiet, "quiet", "q", false, "only show errors")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "show every strategy attempt")
}

// addDocumentFlags adds document metadata flags to a FlagSet.
func addDocumentFlags(fs *flag.FlagSet, f *documentFlags) {
	fs.StringVar(&f.title, "doc-title", "", "document title")
	fs.StringVar(&f.subtitle, "doc-subtitle", "", "document subtitle")
	fs.StringVar(&f.author, "doc-author", "", "document author")
	fs.StringVar(&f.date, "doc-date", "", "document date (\"auto\" = today)")
	fs.StringVar(&f.version, "doc-version", "", "document version")
	fs.StringVar(&f.class, "doc-class", "", "LaTeX document class (article, report, book)")
	fs.StringVar(&f.geometry, "geometry", "", "page geometry, e.g. margin=1in")
	fs.StringVar(&f.fontSize, "font-size", "", "base font size, e.g. 11pt")
	fs.BoolVar(&f.toc, "toc", false, "request a table of contents")
	fs.BoolVar(&f.numberSections, "number-sections", false, "number section headings")
}

// newConvertFlagSet registers every convert flag into a new FlagSet.
func newConvertFlagSet(f *convertFlags) *flag.FlagSet {
	fs := flag.NewFlagSet("convert", flag.ContinueOnError)

	fs.StringVarP(&f.output, "output", "o", "", "output file or directory")
	fs.IntVarP(&f.workers, "workers", "w", 0, "parallel workers (0 = auto)")
	fs.StringVarP(&f.timeout, "timeout", "t", "", "per-strategy timeout (e.g., 90s, 3m)")
	fs.StringVarP(&f.profile, "profile", "p", "", "symbol profile: plain, latex")
	fs.StringSliceVarP(&f.fallbacks, "fallback", "f", nil, "fallback strategies after the chain: browser, text")
	fs.BoolVar(&f.decorate, "decorate", false, "divider before every ### heading (latex profile)")
	fs.BoolVar(&f.keepMarkdown, "keep-markdown", false, "also write the sanitized .safe.md")
	fs.BoolVar(&f.noVerify, "no-verify", false, "skip PDF validation of strategy output")

	addCommonFlags(fs, &f.common)
	addDocumentFlags(fs, &f.document)

	return fs
}

// parseConvertFlags parses convert command flags and returns positional args.
func parseConvertFlags(args []string, usage io.Writer) (*convertFlags, []string, error) {
	f := &convertFlags{}
	fs := newConvertFlagSet(f)
	fs.SetOutput(usage)
	fs.Usage = func() { printConvertUsage(usage) }

	if err := fs.Parse(args); err != nil {
		return nil, nil, usageError(err)
	}
	return f, fs.Args(), nil
}

// parseCleanFlags parses clean command flags and returns positional args.
func parseCleanFlags(args []string, usage io.Writer) (*cleanFlags, []string, error) {
	fs := flag.NewFlagSet("clean", flag.ContinueOnError)
	f := &cleanFlags{}

	fs.StringVarP(&f.config, "config", "c", "", "config file name or path")
	fs.StringVarP(&f.profile, "profile", "p", "", "symbol profile: plain, latex")
	fs.StringVarP(&f.output, "output", "o", "", "output file (default: stdout)")
	fs.BoolVar(&f.trace, "trace", false, "print the text after every stage to stderr")

	fs.SetOutput(usage)
	fs.Usage = func() { printCleanUsage(usage) }

	if err := fs.Parse(args); err != nil {
		return nil, nil, usageError(err)
	}
	return f, fs.Args(), nil
}

// usageError tags flag parsing failures, keeping -h as a plain request.
func usageError(err error) error {
	if err == flag.ErrHelp {
		return err
	}
	return fmt.Errorf("%w: %v", ErrUsage, err)
}
