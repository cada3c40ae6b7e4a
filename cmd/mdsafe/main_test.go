package main

// Notes:
// - run and runMain are tested through newTestEnv; no command here reaches
//   a real typesetter.
// - main itself only wires DefaultEnv and os.Exit and is not tested.
// These are acceptable gaps: we test observable behavior, not implementation details.

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	mdsafe "github.com/alnah/go-mdsafe"
)

// ---------------------------------------------------------------------------
// TestRun - Command dispatch
// ---------------------------------------------------------------------------

func TestRun(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		args       []string
		wantErr    error
		wantStdout string
		wantStderr string
	}{
		{name: "no command", args: []string{"mdsafe"}, wantErr: ErrUsage, wantStderr: "Usage: mdsafe"},
		{name: "unknown command", args: []string{"mdsafe", "render"}, wantErr: ErrUnknownCommand, wantStderr: "Commands:"},
		{name: "version", args: []string{"mdsafe", "version"}, wantStdout: "mdsafe dev"},
		{name: "version flag", args: []string{"mdsafe", "--version"}, wantStdout: "mdsafe dev"},
		{name: "help", args: []string{"mdsafe", "help"}, wantStdout: "Commands:"},
		{name: "help flag", args: []string{"mdsafe", "-h"}, wantStdout: "Commands:"},
		{name: "help convert", args: []string{"mdsafe", "help", "convert"}, wantStdout: "--keep-markdown"},
		{name: "convert help", args: []string{"mdsafe", "convert", "--help"}, wantStderr: "Usage: mdsafe convert"},
		{name: "convert bad flag", args: []string{"mdsafe", "convert", "--nope"}, wantErr: ErrUsage},
		{name: "profiles", args: []string{"mdsafe", "profiles"}, wantStdout: "plain*"},
		{name: "doctor bad arg", args: []string{"mdsafe", "doctor", "--yaml"}, wantErr: ErrUsage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			te := newTestEnv(nil)
			err := run(context.Background(), tt.args, te.Environment)

			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("error = %v, want %v", err, tt.wantErr)
				}
			} else if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if tt.wantStdout != "" && !strings.Contains(te.stdout.String(), tt.wantStdout) {
				t.Errorf("stdout = %q, want it to contain %q", te.stdout, tt.wantStdout)
			}
			if tt.wantStderr != "" && !strings.Contains(te.stderr.String(), tt.wantStderr) {
				t.Errorf("stderr = %q, want it to contain %q", te.stderr, tt.wantStderr)
			}
		})
	}
}

func TestRun_MarkdownShorthand(t *testing.T) {
	t.Parallel()

	dir := writeTree(t, map[string]string{"notes.md": "☿ ↑"})
	conv := &mockConverter{pdf: []byte("%PDF"), strategy: "pandoc-toc"}
	te := newTestEnv(conv)

	args := []string{"mdsafe", filepath.Join(dir, "notes.md"), "--doc-title", "Notes"}
	if err := run(context.Background(), args, te.Environment); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	inputs := conv.recorded()
	if len(inputs) != 1 || inputs[0].Metadata == nil || inputs[0].Metadata.Title != "Notes" {
		t.Errorf("inputs = %+v", inputs)
	}
	if !strings.Contains(te.stdout.String(), "notes.pdf") {
		t.Errorf("stdout = %q", te.stdout)
	}
}

// ---------------------------------------------------------------------------
// TestRunMain - Exit codes and error reporting
// ---------------------------------------------------------------------------

func TestRunMain(t *testing.T) {
	t.Parallel()

	t.Run("success", func(t *testing.T) {
		t.Parallel()
		te := newTestEnv(nil)
		if code := runMain([]string{"mdsafe", "version"}, te.Environment); code != ExitSuccess {
			t.Errorf("exit code = %d, want %d", code, ExitSuccess)
		}
		if te.stderr.Len() != 0 {
			t.Errorf("stderr = %q, want empty", te.stderr)
		}
	})

	t.Run("usage error reported", func(t *testing.T) {
		t.Parallel()
		te := newTestEnv(nil)
		if code := runMain([]string{"mdsafe", "render"}, te.Environment); code != ExitUsage {
			t.Errorf("exit code = %d, want %d", code, ExitUsage)
		}
		if !strings.Contains(te.stderr.String(), "error: unknown command: render") {
			t.Errorf("stderr = %q", te.stderr)
		}
	})

	t.Run("typesetter failure", func(t *testing.T) {
		t.Parallel()
		dir := writeTree(t, map[string]string{"a.md": "x"})
		te := newTestEnv(&mockConverter{err: mdsafe.ErrAllStrategiesFailed})

		code := runMain([]string{"mdsafe", "convert", dir}, te.Environment)
		if code != ExitTypesetter {
			t.Errorf("exit code = %d, want %d", code, ExitTypesetter)
		}
		if !strings.Contains(te.stderr.String(), "1 of 1 conversion(s) failed") {
			t.Errorf("stderr = %q", te.stderr)
		}
		if strings.Contains(te.stderr.String(), "error:") {
			t.Errorf("batch failure reported twice: %q", te.stderr)
		}
	})
}

// ---------------------------------------------------------------------------
// TestIsCommand / TestLooksLikeMarkdown
// ---------------------------------------------------------------------------

func TestIsCommand(t *testing.T) {
	t.Parallel()

	if !isCommand("--version", "version", "--version") {
		t.Error("isCommand should match the second name")
	}
	if isCommand("Version", "version") {
		t.Error("isCommand should be case-sensitive")
	}
	if isCommand("version") {
		t.Error("isCommand without names should be false")
	}
}

func TestLooksLikeMarkdown(t *testing.T) {
	t.Parallel()

	tests := []struct {
		arg  string
		want bool
	}{
		{"doc.md", true},
		{"DOC.MD", true},
		{"dir/notes.markdown", true},
		{"doc.txt", false},
		{"convert", false},
		{"md", false},
	}

	for _, tt := range tests {
		t.Run(tt.arg, func(t *testing.T) {
			t.Parallel()
			if got := looksLikeMarkdown(tt.arg); got != tt.want {
				t.Errorf("looksLikeMarkdown(%q) = %v, want %v", tt.arg, got, tt.want)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestPoolAdapter - Production pool wrapper
// ---------------------------------------------------------------------------

func TestPoolAdapter(t *testing.T) {
	t.Parallel()

	pool := newConverterPool(1, mdsafe.WithProfile("plain"))
	defer pool.Close()

	if pool.Size() != 1 {
		t.Errorf("Size() = %d, want 1", pool.Size())
	}

	conv, err := pool.Acquire(context.Background())
	if err != nil {
		t.Fatalf("Acquire: %v", err)
	}
	pool.Release(conv)

	defer func() {
		r := recover()
		if r == nil {
			t.Fatal("Release of a foreign converter should panic")
		}
		if msg, _ := r.(string); !strings.Contains(msg, "unexpected type *main.mockConverter") {
			t.Errorf("panic = %v", r)
		}
	}()
	pool.Release(&mockConverter{})
}

func TestPoolAdapter_AcquireError(t *testing.T) {
	t.Parallel()

	pool := newConverterPool(1, mdsafe.WithProfile("fancy"))
	defer pool.Close()

	if _, err := pool.Acquire(context.Background()); !errors.Is(err, mdsafe.ErrUnknownProfile) {
		t.Errorf("error = %v, want ErrUnknownProfile", err)
	}
}
