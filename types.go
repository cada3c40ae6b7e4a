package mdsafe

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/alnah/go-mdsafe/internal/dateutil"
)

// Metadata is written as a YAML metadata block ahead of the document.
// Text fields are sanitized with the converter's profile; Date accepts
// "auto", "auto:FORMAT" and "auto:PRESET".
type Metadata struct {
	Title          string
	Subtitle       string
	Author         string
	Date           string
	Version        string
	DocumentClass  string // "article", "report", "book"
	Geometry       string // "margin=1in"
	FontSize       string // "11pt"
	ColorLinks     bool
	TOC            bool
	NumberSections bool
}

var (
	fontSizePattern      = regexp.MustCompile(`^[0-9]{1,2}pt$`)
	documentClassPattern = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9-]*$`)
)

// Validate checks that metadata values are well formed.
// Returns nil if m is nil (nil means no metadata block).
func (m *Metadata) Validate() error {
	if m == nil {
		return nil
	}

	fields := []struct{ name, value string }{
		{"title", m.Title},
		{"subtitle", m.Subtitle},
		{"author", m.Author},
		{"date", m.Date},
		{"version", m.Version},
		{"documentclass", m.DocumentClass},
		{"geometry", m.Geometry},
		{"fontsize", m.FontSize},
	}
	for _, f := range fields {
		if strings.ContainsAny(f.value, "\r\n") {
			return fmt.Errorf("%w: %s must be a single line", ErrInvalidMetadata, f.name)
		}
	}

	if m.FontSize != "" && !fontSizePattern.MatchString(m.FontSize) {
		return fmt.Errorf("%w: fontsize %q (must look like 11pt)", ErrInvalidMetadata, m.FontSize)
	}
	if m.DocumentClass != "" && !documentClassPattern.MatchString(m.DocumentClass) {
		return fmt.Errorf("%w: documentclass %q", ErrInvalidMetadata, m.DocumentClass)
	}
	if _, err := dateutil.ResolveDate(m.Date, time.Time{}); err != nil {
		return fmt.Errorf("%w: date: %v", ErrInvalidMetadata, err)
	}
	return nil
}

// Input contains the data for one conversion.
type Input struct {
	Markdown string    // raw document; UTF-8, UTF-8 with BOM or UTF-16 with BOM
	Metadata *Metadata // optional metadata block
	Decorate bool      // divider before every ### heading (latex profile)
}

// Result is the output of a conversion.
type Result struct {
	Markdown string    // the exact text handed to the strategies
	PDF      []byte    // empty when every strategy failed
	Strategy string    // winning strategy
	Pages    int       // page count reported by the verifier, 0 without one
	Attempts []Attempt // every attempt, in order
}

// Option configures a Converter.
type Option func(*Converter)

// converterConfig holds internal configuration for Converter.
type converterConfig struct {
	profile    string
	timeout    time.Duration
	commands   []CommandSpec
	strategies []Strategy
	fallbacks  []string
	verifier   Verifier
	noVerify   bool
	runner     CommandRunner
	now        func() time.Time
}

// WithProfile selects the symbol profile ("plain" or "latex").
// Unknown names make NewConverter fail with ErrUnknownProfile.
func WithProfile(name string) Option {
	return func(c *Converter) {
		c.cfg.profile = name
	}
}

// WithTimeout sets the per-strategy timeout for strategies that do not set
// their own. Panics if d <= 0 (programmer error, similar to time.NewTicker).
func WithTimeout(d time.Duration) Option {
	if d <= 0 {
		panic("mdsafe: WithTimeout duration must be positive")
	}
	return func(c *Converter) {
		c.cfg.timeout = d
	}
}

// WithCommands replaces the profile's built-in pandoc chain.
// Fallbacks are still appended after it.
func WithCommands(specs ...CommandSpec) Option {
	return func(c *Converter) {
		c.cfg.commands = make([]CommandSpec, len(specs))
		copy(c.cfg.commands, specs)
	}
}

// WithStrategies replaces the whole chain, fallbacks included.
// Panics on a nil strategy.
func WithStrategies(strategies ...Strategy) Option {
	for _, s := range strategies {
		if s == nil {
			panic("mdsafe: WithStrategies strategy must not be nil")
		}
	}
	return func(c *Converter) {
		c.cfg.strategies = make([]Strategy, len(strategies))
		copy(c.cfg.strategies, strategies)
	}
}

// WithFallbacks appends pure-Go strategies after the command chain:
// "browser" (headless Chrome) and "text" (plain layout, no external tools).
func WithFallbacks(names ...string) Option {
	return func(c *Converter) {
		c.cfg.fallbacks = append(c.cfg.fallbacks, names...)
	}
}

// WithVerifier replaces the pdfcpu verifier. A nil verifier only checks
// that the output file is not empty.
func WithVerifier(v Verifier) Option {
	return func(c *Converter) {
		c.cfg.verifier = v
		c.cfg.noVerify = v == nil
	}
}

// WithCommandRunner sets the runner used by command strategies.
func WithCommandRunner(r CommandRunner) Option {
	return func(c *Converter) {
		c.cfg.runner = r
	}
}

// WithClock sets the time source used to resolve "auto" dates.
func WithClock(now func() time.Time) Option {
	if now == nil {
		panic("mdsafe: WithClock function must not be nil")
	}
	return func(c *Converter) {
		c.cfg.now = now
	}
}
