package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/alnah/go-mdsafe/internal/pipeline"
	flag "github.com/spf13/pflag"
)

// stdinArg reads the document from standard input.
const stdinArg = "-"

// runClean sanitizes one document without typesetting it.
func runClean(args []string, env *Environment) error {
	flags, positional, err := parseCleanFlags(args, env.Stderr)
	if errors.Is(err, flag.ErrHelp) {
		return nil
	}
	if err != nil {
		return err
	}
	if len(positional) != 1 {
		printCleanUsage(env.Stderr)
		return fmt.Errorf("%w: clean takes exactly one input", ErrUsage)
	}

	profile := flags.profile
	if profile == "" {
		envCfg := loadEnvConfig()
		cfg, err := loadConfig(flags.config, envCfg.ConfigPath)
		if err != nil {
			return err
		}
		applyEnvConfig(envCfg, cfg)
		profile = cfg.Profile
	}

	p, err := pipeline.New(profile)
	if err != nil {
		return err
	}

	raw, err := readInput(positional[0], env.Stdin)
	if err != nil {
		return err
	}

	text, err := pipeline.Decode(raw)
	if err != nil {
		return fmt.Errorf("%s: %w", positional[0], err)
	}

	out := p.Process(text)
	if flags.trace {
		for _, stage := range p.Trace(text) {
			fmt.Fprintf(env.Stderr, "----- %s -----\n%s\n", stage.Stage, stage.Text)
		}
	}

	if flags.output == "" {
		_, err := io.WriteString(env.Stdout, out)
		return err
	}
	if err := os.MkdirAll(filepath.Dir(flags.output), dirPermissions); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}
	// #nosec G306 -- sanitized copy of a user document
	if err := os.WriteFile(flags.output, []byte(out), filePermissions); err != nil {
		return fmt.Errorf("writing %s: %w", flags.output, err)
	}
	return nil
}

// readInput reads a file, or stdin for "-".
func readInput(path string, stdin io.Reader) ([]byte, error) {
	if path == stdinArg {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return nil, fmt.Errorf("%w: stdin: %v", ErrReadMarkdown, err)
		}
		return data, nil
	}
	data, err := os.ReadFile(path) // #nosec G304 -- user-provided path
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrReadMarkdown, err)
	}
	return data, nil
}
