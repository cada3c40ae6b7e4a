package mdsafe

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/alnah/go-mdsafe/internal/pipeline"
)

// Converter sanitizes Markdown and drives the strategy chain that turns it
// into a PDF. Create with NewConverter, use Convert, and Close when done.
// A Converter is not safe for concurrent Convert calls when the chain
// contains the browser fallback; use ConverterPool for batches.
type Converter struct {
	cfg      converterConfig
	pipeline *pipeline.Pipeline
	driver   *Driver
	closers  []io.Closer
}

// NewConverter creates a Converter for the plain profile and its built-in
// pandoc chain, verified with pdfcpu. Use options to change the profile,
// the chain, the fallbacks and the timeouts.
func NewConverter(opts ...Option) (*Converter, error) {
	c := &Converter{
		cfg: converterConfig{
			profile: pipeline.DefaultProfile,
			now:     time.Now,
		},
	}

	for _, opt := range opts {
		opt(c)
	}

	c.cfg.profile = strings.ToLower(c.cfg.profile)
	if c.cfg.profile == "" {
		c.cfg.profile = pipeline.DefaultProfile
	}
	p, err := pipeline.New(c.cfg.profile)
	if err != nil {
		return nil, err
	}
	c.pipeline = p

	chain, err := c.buildChain()
	if err != nil {
		_ = c.Close()
		return nil, err
	}

	verifier := c.cfg.verifier
	if verifier == nil && !c.cfg.noVerify {
		verifier = NewPDFVerifier()
	}
	c.driver = NewDriver(verifier, chain...)

	return c, nil
}

// buildChain assembles the command strategies followed by the fallbacks.
func (c *Converter) buildChain() ([]Strategy, error) {
	if c.cfg.strategies != nil {
		if len(c.cfg.strategies) == 0 {
			return nil, ErrNoStrategies
		}
		return c.cfg.strategies, nil
	}

	timeout := c.cfg.timeout
	if timeout <= 0 {
		timeout = DefaultTimeout(c.cfg.profile)
	}

	specs := c.cfg.commands
	if specs == nil {
		var err error
		specs, err = BuiltinCommands(c.cfg.profile)
		if err != nil {
			return nil, err
		}
	}

	chain := make([]Strategy, 0, len(specs)+len(c.cfg.fallbacks))
	for _, spec := range specs {
		if spec.Timeout == 0 {
			spec.Timeout = timeout
		}
		s, err := NewCommandStrategy(spec, c.cfg.runner)
		if err != nil {
			return nil, err
		}
		chain = append(chain, s)
	}

	seen := make(map[string]bool, len(c.cfg.fallbacks))
	for _, name := range c.cfg.fallbacks {
		name = strings.ToLower(strings.TrimSpace(name))
		if seen[name] {
			continue
		}
		seen[name] = true

		switch name {
		case FallbackBrowser:
			b := NewBrowserStrategy(timeout)
			c.closers = append(c.closers, b)
			chain = append(chain, b)
		case FallbackText:
			chain = append(chain, NewTextStrategy(timeout))
		default:
			return nil, fmt.Errorf("%w: %q (must be %s or %s)", ErrUnknownFallback, name, FallbackBrowser, FallbackText)
		}
	}

	if len(chain) == 0 {
		return nil, ErrNoStrategies
	}
	return chain, nil
}

// Profile returns the symbol profile name.
func (c *Converter) Profile() string {
	return c.cfg.profile
}

// Strategies returns the chain's strategy names, in the order they are tried.
func (c *Converter) Strategies() []string {
	return c.driver.Strategies()
}

// Sanitize decodes raw Markdown and runs it through the pipeline.
func (c *Converter) Sanitize(raw []byte) (string, error) {
	return c.pipeline.ProcessBytes(raw)
}

// Prepare returns the exact text Convert hands to the strategies: the
// metadata block, then the sanitized document, decorated on request.
func (c *Converter) Prepare(input Input) (string, error) {
	if err := c.validateInput(input); err != nil {
		return "", err
	}

	safe, err := c.Sanitize([]byte(input.Markdown))
	if err != nil {
		return "", err
	}
	if input.Decorate {
		safe = Decorate(safe)
	}

	front, err := buildFrontMatter(input.Metadata, c.cfg.profile, c.sanitizeValue, c.cfg.now())
	if err != nil {
		return "", err
	}
	return front + safe, nil
}

// Convert prepares the document and tries the strategy chain on it.
// When every strategy fails, the returned Result still lists the attempts.
// Recovers from internal panics to prevent crashes from propagating to callers.
func (c *Converter) Convert(ctx context.Context, input Input) (result *Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("internal error: %v", r)
		}
	}()

	text, err := c.Prepare(input)
	if err != nil {
		return nil, err
	}

	res := &Result{Markdown: text}
	outcome, err := c.driver.Run(ctx, text)
	if outcome != nil {
		res.Attempts = outcome.Attempts
		res.Strategy = outcome.Winner
		res.PDF = outcome.PDF
		res.Pages = outcome.Pages
	}
	if err != nil {
		return res, fmt.Errorf("converting to PDF: %w", err)
	}
	return res, nil
}

// Close releases resources held by the strategies (headless Chrome).
func (c *Converter) Close() error {
	var errs []error
	for _, cl := range c.closers {
		if err := cl.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	c.closers = nil
	return errors.Join(errs...)
}

func (c *Converter) validateInput(input Input) error {
	if input.Markdown == "" {
		return ErrEmptyMarkdown
	}
	if input.Decorate && c.cfg.profile != pipeline.ProfileLaTeX {
		return fmt.Errorf("%w: profile is %s", ErrDecorationProfile, c.cfg.profile)
	}
	return input.Metadata.Validate()
}

// sanitizeValue runs a single metadata value through the pipeline.
func (c *Converter) sanitizeValue(s string) string {
	if s == "" {
		return ""
	}
	return strings.TrimSpace(c.pipeline.Process(s))
}

var defaultPipeline = sync.OnceValues(func() (*pipeline.Pipeline, error) {
	return pipeline.New(pipeline.DefaultProfile)
})

// Process sanitizes raw Markdown with the default profile. It fails only
// on empty input (ErrEmptyMarkdown) or undecodable bytes (ErrEncoding).
func Process(raw []byte) (string, error) {
	p, err := defaultPipeline()
	if err != nil {
		return "", err
	}
	return p.ProcessBytes(raw)
}

// ProcessFile reads a Markdown file and sanitizes it with the named profile.
func ProcessFile(path, profile string) (string, error) {
	p, err := pipeline.New(profile)
	if err != nil {
		return "", err
	}
	raw, err := os.ReadFile(path) // #nosec G304 -- user-provided path
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", path, err)
	}
	return p.ProcessBytes(raw)
}
