package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/automaxprocs/maxprocs"
)

// Version is set at build time via ldflags.
var Version = "dev"

// Sentinel errors for command dispatch.
var (
	ErrUsage          = errors.New("invalid usage")
	ErrUnknownCommand = errors.New("unknown command")
)

func main() {
	os.Exit(runMain(os.Args, DefaultEnv()))
}

// runMain dispatches the command and maps its error to an exit code.
func runMain(args []string, env *Environment) int {
	ctx, stop := notifyContext(context.Background())
	defer stop()

	err := run(ctx, args, env)
	if err != nil {
		reportError(env.Stderr, err)
	}
	return exitCodeFor(err)
}

// run selects the command from args[1]. A Markdown path in first position
// is shorthand for "convert".
func run(ctx context.Context, args []string, env *Environment) error {
	if len(args) < 2 {
		printUsage(env.Stderr)
		return fmt.Errorf("%w: no command given", ErrUsage)
	}

	cmd, rest := args[1], args[2:]
	switch {
	case isCommand(cmd, "convert"):
		return runConvertCmd(ctx, rest, env)
	case isCommand(cmd, "clean"):
		return runClean(rest, env)
	case isCommand(cmd, "profiles"):
		return runProfiles(rest, env)
	case isCommand(cmd, "doctor"):
		return runDoctorCmd(ctx, rest, env)
	case isCommand(cmd, "version", "--version"):
		fmt.Fprintf(env.Stdout, "mdsafe %s\n", Version)
		return nil
	case isCommand(cmd, "help", "-h", "--help"):
		runHelp(rest, env)
		return nil
	case looksLikeMarkdown(cmd):
		return runConvertCmd(ctx, args[1:], env)
	}

	printUsage(env.Stderr)
	return fmt.Errorf("%w: %s", ErrUnknownCommand, cmd)
}

// isCommand reports whether arg equals one of the names.
func isCommand(arg string, names ...string) bool {
	for _, n := range names {
		if arg == n {
			return true
		}
	}
	return false
}

// looksLikeMarkdown reports whether arg names a Markdown file.
func looksLikeMarkdown(arg string) bool {
	ext := strings.ToLower(filepath.Ext(arg))
	return ext == ".md" || ext == ".markdown"
}

// setMaxProcs adjusts GOMAXPROCS to the container CPU quota, logging to w
// in verbose mode.
// Error ignored: maxprocs.Set only fails if GOMAXPROCS env is invalid,
// in which case Go runtime defaults apply and the program continues safely.
func setMaxProcs(verbose bool, w io.Writer) {
	if verbose {
		_, _ = maxprocs.Set(maxprocs.Logger(func(format string, args ...interface{}) {
			fmt.Fprintf(w, format+"\n", args...)
		}))
		return
	}
	_, _ = maxprocs.Set(maxprocs.Logger(func(string, ...interface{}) {}))
}
