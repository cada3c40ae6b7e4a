package main

// Notes:
// - Tests replace lookPath and lookChromePath and set ROD_* variables, so
//   none of them run in parallel.
// - Fake typesetters are shell scripts; these tests assume a POSIX shell.
// - The container and CI signals come from the host and are not asserted.
// These are acceptable gaps: we test observable behavior, not implementation details.

import (
	"encoding/json"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
)

// ---------------------------------------------------------------------------
// Test Helpers
// ---------------------------------------------------------------------------

// fakeTools points lookPath at shell scripts for the named programs; every
// other program is missing. Chrome resolves to chromePath when non-empty.
func fakeTools(t *testing.T, chromePath string, programs ...string) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("fake typesetters are shell scripts")
	}

	dir := t.TempDir()
	paths := make(map[string]string, len(programs))
	for _, name := range programs {
		path := filepath.Join(dir, name)
		script := "#!/bin/sh\necho '" + name + " 3.1.9'\necho 'second line'\n"
		if err := os.WriteFile(path, []byte(script), 0o700); err != nil {
			t.Fatal(err)
		}
		paths[name] = path
	}

	origLook, origChrome := lookPath, lookChromePath
	t.Cleanup(func() { lookPath, lookChromePath = origLook, origChrome })

	lookPath = func(name string) (string, error) {
		if p, ok := paths[name]; ok {
			return p, nil
		}
		return "", &exec.Error{Name: name, Err: exec.ErrNotFound}
	}
	lookChromePath = func() (string, bool) {
		return chromePath, chromePath != ""
	}

	t.Setenv("ROD_BROWSER_BIN", "")
	t.Setenv("ROD_NO_SANDBOX", "1")
}

// fakeChrome creates an empty file standing in for a browser binary.
func fakeChrome(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "chromium")
	if err := os.WriteFile(path, nil, 0o700); err != nil {
		t.Fatal(err)
	}
	return path
}

// ---------------------------------------------------------------------------
// TestRunDoctor - Diagnostics
// ---------------------------------------------------------------------------

func TestRunDoctor_Ready(t *testing.T) {
	chrome := fakeChrome(t)
	fakeTools(t, chrome, "pandoc", "xelatex", "pdflatex")

	result := runDoctor(t.Context())

	if result.Status != "ready" {
		t.Errorf("Status = %q, want ready (warnings: %v, errors: %v)", result.Status, result.Warnings, result.Errors)
	}
	if len(result.Typesetters) != 3 {
		t.Fatalf("Typesetters = %d, want 3", len(result.Typesetters))
	}
	pandoc := result.Typesetters[0]
	if !pandoc.Found || !pandoc.Required || pandoc.Version != "pandoc 3.1.9" {
		t.Errorf("pandoc = %+v", pandoc)
	}
	if !result.Browser.Found || result.Browser.Path != chrome || result.Browser.Sandbox {
		t.Errorf("Browser = %+v", result.Browser)
	}
	if !result.Host.TempWritable {
		t.Error("temp directory should be writable")
	}
}

func TestRunDoctor_OptionalMissing(t *testing.T) {
	fakeTools(t, fakeChrome(t), "pandoc")

	result := runDoctor(t.Context())

	if result.Status != "warnings" {
		t.Errorf("Status = %q, want warnings", result.Status)
	}
	if len(result.Warnings) != 2 {
		t.Errorf("Warnings = %v, want one per LaTeX engine", result.Warnings)
	}
	for _, w := range result.Warnings {
		if !strings.Contains(w, "strategies will be skipped") {
			t.Errorf("warning = %q", w)
		}
	}
}

func TestRunDoctor_NoChrome(t *testing.T) {
	fakeTools(t, "", "pandoc", "xelatex", "pdflatex")

	result := runDoctor(t.Context())

	if result.Browser.Found {
		t.Error("Chrome should not be found")
	}
	if result.Status != "warnings" {
		t.Errorf("Status = %q, want warnings", result.Status)
	}
}

func TestRunDoctor_BrowserBinMissing(t *testing.T) {
	fakeTools(t, "", "pandoc", "xelatex", "pdflatex")
	t.Setenv("ROD_BROWSER_BIN", filepath.Join(t.TempDir(), "nope"))

	result := runDoctor(t.Context())

	if result.Browser.Found {
		t.Error("Chrome should not be found")
	}
	if len(result.Warnings) != 1 || !strings.Contains(result.Warnings[0], "Chrome not found at") {
		t.Errorf("Warnings = %v", result.Warnings)
	}
}

// ---------------------------------------------------------------------------
// TestRunDoctorCmd - Output formats and exit status
// ---------------------------------------------------------------------------

func TestRunDoctorCmd_Text(t *testing.T) {
	fakeTools(t, "")

	te := newTestEnv(nil)
	err := runDoctorCmd(t.Context(), nil, te.Environment)

	if !errors.Is(err, ErrNotReady) {
		t.Fatalf("error = %v, want ErrNotReady", err)
	}
	if exitCodeFor(err) != ExitGeneral {
		t.Errorf("exit code = %d, want %d", exitCodeFor(err), ExitGeneral)
	}
	out := te.stdout.String()
	for _, want := range []string{
		"mdsafe doctor",
		"[ERROR] pandoc: not found",
		"[WARN] xelatex: not found",
		"Chrome/Chromium (browser fallback)",
		"Status: Not ready",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestRunDoctorCmd_JSON(t *testing.T) {
	fakeTools(t, fakeChrome(t), "pandoc", "xelatex", "pdflatex")

	te := newTestEnv(nil)
	if err := runDoctorCmd(t.Context(), []string{"--json"}, te.Environment); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var got doctorReport
	if err := json.Unmarshal(te.stdout.Bytes(), &got); err != nil {
		t.Fatalf("invalid JSON: %v\n%s", err, te.stdout)
	}
	if got.Status != "ready" || len(got.Typesetters) != 3 || !got.Browser.Found {
		t.Errorf("result = %+v", got)
	}
	if got.Host.NoSandbox != "1" {
		t.Errorf("rod_no_sandbox = %q, want 1", got.Host.NoSandbox)
	}
}

func TestRunDoctorCmd_Help(t *testing.T) {
	t.Parallel()

	te := newTestEnv(nil)
	if err := runDoctorCmd(t.Context(), []string{"-h"}, te.Environment); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(te.stdout.String(), "Usage: mdsafe doctor") {
		t.Errorf("stdout = %q", te.stdout)
	}
}

// ---------------------------------------------------------------------------
// TestIsContainer - Container detection override
// ---------------------------------------------------------------------------

func TestIsContainer_Override(t *testing.T) {
	t.Setenv("MDSAFE_CONTAINER", "1")

	ok, hint := isContainer()
	if !ok || hint != "MDSAFE_CONTAINER=1" {
		t.Errorf("isContainer() = %v, %q", ok, hint)
	}
}
