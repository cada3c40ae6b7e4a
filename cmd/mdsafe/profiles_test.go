package main

import (
	"errors"
	"strings"
	"testing"

	mdsafe "github.com/alnah/go-mdsafe"
)

// ---------------------------------------------------------------------------
// TestRunProfiles - Profile listing
// ---------------------------------------------------------------------------

func TestRunProfiles(t *testing.T) {
	t.Parallel()

	t.Run("list", func(t *testing.T) {
		t.Parallel()

		te := newTestEnv(nil)
		if err := runProfiles(nil, te.Environment); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		out := te.stdout.String()
		for _, want := range []string{"NAME", "latex", "plain*", "* default profile"} {
			if !strings.Contains(out, want) {
				t.Errorf("output missing %q:\n%s", want, out)
			}
		}
		if strings.Index(out, "latex") > strings.Index(out, "plain") {
			t.Errorf("profiles not sorted:\n%s", out)
		}
	})

	t.Run("show one", func(t *testing.T) {
		t.Parallel()

		te := newTestEnv(nil)
		if err := runProfiles([]string{"LaTeX"}, te.Environment); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		out := te.stdout.String()
		if !strings.HasPrefix(out, "# latex ") {
			t.Errorf("header = %q", strings.SplitN(out, "\n", 2)[0])
		}
		if !strings.Contains(out, "♈\tU+2648\t\\textcolor{darkblue}{Aries}\n") {
			t.Errorf("output missing Aries mapping")
		}
	})

	t.Run("help", func(t *testing.T) {
		t.Parallel()

		te := newTestEnv(nil)
		if err := runProfiles([]string{"--help"}, te.Environment); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(te.stdout.String(), "Usage: mdsafe profiles") {
			t.Errorf("stdout = %q", te.stdout)
		}
	})

	t.Run("unknown profile", func(t *testing.T) {
		t.Parallel()

		te := newTestEnv(nil)
		err := runProfiles([]string{"fancy"}, te.Environment)
		if !errors.Is(err, mdsafe.ErrUnknownProfile) {
			t.Errorf("error = %v, want ErrUnknownProfile", err)
		}
	})

	t.Run("too many names", func(t *testing.T) {
		t.Parallel()

		te := newTestEnv(nil)
		err := runProfiles([]string{"plain", "latex"}, te.Environment)
		if !errors.Is(err, ErrUsage) {
			t.Errorf("error = %v, want ErrUsage", err)
		}
	})
}

func TestCodePoints(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want string
	}{
		{"♈", "U+2648"},
		{"⚙\ufe0f", "U+2699 U+FE0F"},
		{"🚀", "U+1F680"},
		{"A", "U+0041"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			t.Parallel()
			if got := codePoints(tt.in); got != tt.want {
				t.Errorf("codePoints(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
