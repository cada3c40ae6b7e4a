package mdsafe

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/alnah/go-mdsafe/internal/pipeline"
	"github.com/alnah/go-mdsafe/internal/process"
)

// Argument placeholders substituted by CommandStrategy.
const (
	PlaceholderInput  = "{input}"
	PlaceholderOutput = "{output}"
)

// Default per-strategy timeouts for the built-in chains.
const (
	DefaultPlainTimeout = 120 * time.Second
	DefaultLaTeXTimeout = 180 * time.Second
)

// maxStderrBytes caps the command output attached to errors.
const maxStderrBytes = 500

// killWaitDelay bounds how long Wait blocks on pipes after a kill.
const killWaitDelay = 2 * time.Second

// CommandRunner abstracts command execution to enable testing without real subprocesses.
type CommandRunner interface {
	Run(ctx context.Context, name string, args ...string) (stdout string, stderr string, err error)
}

// ExecRunner implements CommandRunner using os/exec. Each command runs in
// its own process group, killed as a whole when ctx is done.
type ExecRunner struct{}

func (r *ExecRunner) Run(ctx context.Context, name string, args ...string) (string, string, error) {
	cmd := exec.CommandContext(ctx, name, args...) // #nosec G204 -- command comes from the strategy chain
	process.SetProcessGroup(cmd)
	cmd.Cancel = func() error {
		process.KillProcessGroup(cmd.Process.Pid)
		return nil
	}
	cmd.WaitDelay = killWaitDelay

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	if err != nil && ctx.Err() != nil {
		err = fmt.Errorf("%w: %v", ctx.Err(), err)
	}
	return stdout.String(), stderr.String(), err
}

// CommandSpec describes an external typesetting command. Args must
// reference {input} and {output}. A zero Timeout means the converter default.
type CommandSpec struct {
	Name    string
	Command string
	Args    []string
	Timeout time.Duration
}

// Validate checks that the command can be run.
func (s CommandSpec) Validate() error {
	if s.Name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidStrategy)
	}
	if s.Command == "" {
		return fmt.Errorf("%w: %s: command is required", ErrInvalidStrategy, s.Name)
	}
	joined := strings.Join(s.Args, " ")
	for _, p := range []string{PlaceholderInput, PlaceholderOutput} {
		if !strings.Contains(joined, p) {
			return fmt.Errorf("%w: %s: args must reference %s", ErrInvalidStrategy, s.Name, p)
		}
	}
	if s.Timeout < 0 {
		return fmt.Errorf("%w: %s: negative timeout", ErrInvalidStrategy, s.Name)
	}
	return nil
}

// CommandStrategy renders by running an external command such as pandoc.
type CommandStrategy struct {
	spec   CommandSpec
	runner CommandRunner
}

// Compile-time interface check.
var _ Strategy = (*CommandStrategy)(nil)

// NewCommandStrategy creates a CommandStrategy. A nil runner uses ExecRunner.
func NewCommandStrategy(spec CommandSpec, runner CommandRunner) (*CommandStrategy, error) {
	if err := spec.Validate(); err != nil {
		return nil, err
	}
	if runner == nil {
		runner = &ExecRunner{}
	}
	spec.Args = append([]string(nil), spec.Args...)
	return &CommandStrategy{spec: spec, runner: runner}, nil
}

func (s *CommandStrategy) Name() string           { return s.spec.Name }
func (s *CommandStrategy) Timeout() time.Duration { return s.spec.Timeout }

// Command returns the program the strategy runs.
func (s *CommandStrategy) Command() string { return s.spec.Command }

// Args returns the argument list with the placeholders expanded.
func (s *CommandStrategy) Args(sourcePath, outputPath string) []string {
	r := strings.NewReplacer(PlaceholderInput, sourcePath, PlaceholderOutput, outputPath)
	args := make([]string, len(s.spec.Args))
	for i, a := range s.spec.Args {
		args[i] = r.Replace(a)
	}
	return args
}

// Render runs the command. Success is decided by the driver, which checks
// the output file; a zero exit status alone is not enough.
func (s *CommandStrategy) Render(ctx context.Context, sourcePath, outputPath string) error {
	_, stderr, err := s.runner.Run(ctx, s.spec.Command, s.Args(sourcePath, outputPath)...)
	if err == nil {
		return nil
	}
	if errors.Is(err, exec.ErrNotFound) {
		return fmt.Errorf("%w: %w", ErrCommandNotFound, err)
	}
	return fmt.Errorf("%w: %s: %v%s", ErrCommandFailed, s.spec.Command, err, formatStderr(stderr))
}

// formatStderr trims command output to maxStderrBytes on a rune boundary.
func formatStderr(stderr string) string {
	stderr = strings.TrimSpace(stderr)
	if stderr == "" {
		return ""
	}
	if len(stderr) > maxStderrBytes {
		cut := maxStderrBytes
		for cut > 0 && !utf8.RuneStart(stderr[cut]) {
			cut--
		}
		stderr = stderr[:cut] + "..."
	}
	return "\n" + stderr
}

// BuiltinCommands returns the pandoc chain for a symbol profile, tried in
// order. Timeouts are left zero for the caller to fill in.
func BuiltinCommands(profile string) ([]CommandSpec, error) {
	if profile == "" {
		profile = pipeline.DefaultProfile
	}
	io := []string{PlaceholderInput, "-o", PlaceholderOutput}
	with := func(extra ...string) []string {
		return append(append([]string(nil), io...), extra...)
	}

	switch profile {
	case pipeline.ProfilePlain:
		return []CommandSpec{
			{Name: "pandoc-toc", Command: "pandoc", Args: with("--toc", "--number-sections")},
			{Name: "pandoc-minimal", Command: "pandoc", Args: with()},
		}, nil
	case pipeline.ProfileLaTeX:
		return []CommandSpec{
			{Name: "pandoc-xelatex", Command: "pandoc", Args: with(
				"--pdf-engine=xelatex", "--toc", "--number-sections",
				"--template=default", "--variable", "geometry:margin=1in",
			)},
			{Name: "pandoc-pdflatex", Command: "pandoc", Args: with(
				"--pdf-engine=pdflatex", "--toc", "--number-sections",
			)},
			{Name: "pandoc-toc", Command: "pandoc", Args: with("--toc")},
		}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownProfile, profile)
	}
}

// DefaultTimeout returns the per-strategy timeout for a profile's chain.
func DefaultTimeout(profile string) time.Duration {
	if profile == pipeline.ProfileLaTeX {
		return DefaultLaTeXTimeout
	}
	return DefaultPlainTimeout
}
