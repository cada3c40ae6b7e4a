package main

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	mdsafe "github.com/alnah/go-mdsafe"
	"github.com/alnah/go-mdsafe/internal/config"
	"github.com/alnah/go-mdsafe/internal/hints"
	"github.com/alnah/go-mdsafe/internal/pipeline"
	flag "github.com/spf13/pflag"
)

// runConvertCmd parses flags and runs the convert command.
func runConvertCmd(ctx context.Context, args []string, env *Environment) error {
	flags, positional, err := parseConvertFlags(args, env.Stderr)
	if errors.Is(err, flag.ErrHelp) {
		return nil
	}
	if err != nil {
		return err
	}
	return runConvert(ctx, positional, flags, env)
}

// runConvert orchestrates the conversion process.
func runConvert(ctx context.Context, positionalArgs []string, flags *convertFlags, env *Environment) error {
	envCfg := loadEnvConfig()
	if !flags.common.quiet {
		warnUnknownEnvVars(env.Stderr)
	}

	// Validate worker count early
	workers := flags.workers
	if workers == 0 {
		workers = envCfg.Workers
	}
	if err := validateWorkers(workers); err != nil {
		return err
	}

	// Config file < env vars < flags
	cfg, err := loadConfig(flags.common.config, envCfg.ConfigPath)
	if err != nil {
		return err
	}
	applyEnvConfig(envCfg, cfg)
	mergeFlags(flags, cfg)
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid settings: %w", err)
	}

	meta := buildMetadata(cfg.Document)
	if err := meta.Validate(); err != nil {
		return err
	}

	// Fail on a broken chain before touching any file
	opts := buildOptions(cfg, flags.noVerify, env.Now)
	preview, err := mdsafe.NewConverter(opts...)
	if err != nil {
		return err
	}
	chain := preview.Strategies()
	profile := preview.Profile()
	_ = preview.Close()
	if cfg.Decorate && profile != pipeline.ProfileLaTeX {
		return fmt.Errorf("%w: profile is %s", mdsafe.ErrDecorationProfile, profile)
	}

	inputPath, err := resolveInputPath(positionalArgs, cfg)
	if err != nil {
		return err
	}
	outputDir := resolveOutputDir(flags.output, cfg)

	files, err := discoverFiles(inputPath, outputDir)
	if err != nil {
		return fmt.Errorf("discovering files: %w", err)
	}
	if len(files) == 0 {
		return fmt.Errorf("%w: no markdown files found in %s", ErrNoInput, inputPath)
	}

	setMaxProcs(flags.common.verbose, env.Stderr)
	poolSize := min(mdsafe.ResolvePoolSize(workers), len(files))
	if flags.common.verbose {
		fmt.Fprintf(env.Stderr, "Profile: %s\n", profile)
		fmt.Fprintf(env.Stderr, "Strategy chain: %s\n", strings.Join(chain, ", "))
		fmt.Fprintf(env.Stderr, "Pool size: %d\n", poolSize)
	}

	pool := env.NewPool(poolSize, opts...)
	defer pool.Close()

	params := &conversionParams{
		metadata:     meta,
		decorate:     cfg.Decorate,
		keepMarkdown: cfg.Output.KeepMarkdown,
	}
	results := convertBatch(ctx, pool, files, params)

	failed := printResults(results, flags.common.quiet, flags.common.verbose, env)
	if failed > 0 {
		return newBatchError(results, failed)
	}
	return nil
}

// loadConfig loads the named config, the MDSAFE_CONFIG one when no flag
// is given, or the defaults.
func loadConfig(flagConfig, envConfig string) (*config.Config, error) {
	name := flagConfig
	if name == "" {
		name = envConfig
	}
	if name == "" {
		return config.DefaultConfig(), nil
	}

	cfg, err := config.LoadConfig(name)
	if err != nil {
		if errors.Is(err, config.ErrConfigNotFound) {
			return nil, fmt.Errorf("loading config: %w%s", err, hints.ForConfigNotFound(config.SearchPaths(name)))
		}
		return nil, fmt.Errorf("loading config: %w", err)
	}
	return cfg, nil
}

// mergeFlags merges CLI flags into config. CLI values override config values.
func mergeFlags(flags *convertFlags, cfg *config.Config) {
	if flags.profile != "" {
		cfg.Profile = flags.profile
	}
	if flags.timeout != "" {
		cfg.Timeout = flags.timeout
	}
	if len(flags.fallbacks) > 0 {
		cfg.Fallbacks = flags.fallbacks
	}
	if flags.decorate {
		cfg.Decorate = true
	}
	if flags.keepMarkdown {
		cfg.Output.KeepMarkdown = true
	}

	// Document flags
	doc := &cfg.Document
	if flags.document.title != "" {
		doc.Title = flags.document.title
	}
	if flags.document.subtitle != "" {
		doc.Subtitle = flags.document.subtitle
	}
	if flags.document.author != "" {
		doc.Author = flags.document.author
	}
	if flags.document.date != "" {
		doc.Date = flags.document.date
	}
	if flags.document.version != "" {
		doc.Version = flags.document.version
	}
	if flags.document.class != "" {
		doc.DocumentClass = flags.document.class
	}
	if flags.document.geometry != "" {
		doc.Geometry = flags.document.geometry
	}
	if flags.document.fontSize != "" {
		doc.FontSize = flags.document.fontSize
	}
	if flags.document.toc {
		doc.TOC = true
	}
	if flags.document.numberSections {
		doc.NumberSections = true
	}
}

// buildOptions translates the merged config into converter options.
func buildOptions(cfg *config.Config, noVerify bool, now func() time.Time) []mdsafe.Option {
	opts := []mdsafe.Option{
		mdsafe.WithProfile(cfg.Profile),
		mdsafe.WithClock(now),
	}
	if d := cfg.TimeoutDuration(); d > 0 {
		opts = append(opts, mdsafe.WithTimeout(d))
	}
	if len(cfg.Strategies) > 0 {
		opts = append(opts, mdsafe.WithCommands(commandSpecs(cfg.Strategies)...))
	}
	if fallbacks := cfg.FallbackNames(); len(fallbacks) > 0 {
		opts = append(opts, mdsafe.WithFallbacks(fallbacks...))
	}
	if noVerify {
		opts = append(opts, mdsafe.WithVerifier(nil))
	}
	return opts
}

// commandSpecs converts configured strategies to command specs.
func commandSpecs(strategies []config.StrategyConfig) []mdsafe.CommandSpec {
	specs := make([]mdsafe.CommandSpec, 0, len(strategies))
	for _, s := range strategies {
		specs = append(specs, mdsafe.CommandSpec{
			Name:    s.Name,
			Command: s.Command,
			Args:    s.Args,
			Timeout: s.TimeoutDuration(),
		})
	}
	return specs
}

// buildMetadata returns the document metadata, or nil when none is set.
func buildMetadata(doc config.DocumentConfig) *mdsafe.Metadata {
	if doc == (config.DocumentConfig{}) {
		return nil
	}
	return &mdsafe.Metadata{
		Title:          doc.Title,
		Subtitle:       doc.Subtitle,
		Author:         doc.Author,
		Date:           doc.Date,
		Version:        doc.Version,
		DocumentClass:  doc.DocumentClass,
		Geometry:       doc.Geometry,
		FontSize:       doc.FontSize,
		ColorLinks:     doc.ColorLinks,
		TOC:            doc.TOC,
		NumberSections: doc.NumberSections,
	}
}

// resolveInputPath returns the positional input, or the configured default.
func resolveInputPath(args []string, cfg *config.Config) (string, error) {
	if len(args) > 0 {
		return args[0], nil
	}
	if cfg.Input.DefaultDir != "" {
		return cfg.Input.DefaultDir, nil
	}
	return "", ErrNoInput
}

// resolveOutputDir returns the output flag, or the configured default.
func resolveOutputDir(flagOutput string, cfg *config.Config) string {
	if flagOutput != "" {
		return flagOutput
	}
	return cfg.Output.DefaultDir
}
