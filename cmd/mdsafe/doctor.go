package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"runtime"
	"strings"
	"time"

	"github.com/go-rod/rod/lib/launcher"

	"github.com/alnah/go-mdsafe/internal/fileutil"
)

// ErrNotReady is returned by doctor when conversion cannot work.
var ErrNotReady = errors.New("environment not ready")

// versionTimeout bounds each "--version" probe.
const versionTimeout = 5 * time.Second

// Lookups are variables so tests can simulate missing programs.
var (
	lookPath       = exec.LookPath
	lookChromePath = launcher.LookPath
)

// Report statuses, worst last.
const (
	statusReady    = "ready"
	statusWarnings = "warnings"
	statusErrors   = "errors"
)

// doctorReport collects every check; it is printed as text or JSON.
type doctorReport struct {
	Status      string        `json:"status"`
	Typesetters []programInfo `json:"typesetters"`
	Browser     browserInfo   `json:"browser"`
	Host        hostInfo      `json:"host"`
	Warnings    []string      `json:"warnings,omitempty"`
	Errors      []string      `json:"errors,omitempty"`
}

// programInfo is the lookup result for one external program.
type programInfo struct {
	Name     string `json:"name"`
	Found    bool   `json:"found"`
	Path     string `json:"path,omitempty"`
	Version  string `json:"version,omitempty"`
	Required bool   `json:"required"`
}

// browserInfo describes the Chrome used by the browser fallback.
type browserInfo struct {
	Found   bool   `json:"found"`
	Path    string `json:"path,omitempty"`
	Sandbox bool   `json:"sandbox"`
}

// hostInfo describes where mdsafe runs.
type hostInfo struct {
	Platform      string `json:"platform"`
	Container     bool   `json:"container"`
	ContainerHint string `json:"container_hint,omitempty"`
	CI            bool   `json:"ci"`
	NoSandbox     string `json:"rod_no_sandbox"`
	BrowserBin    string `json:"rod_browser_bin"`
	TempDir       string `json:"temp_dir"`
	TempWritable  bool   `json:"temp_writable"`
}

func (r *doctorReport) warnf(format string, args ...any) {
	r.Warnings = append(r.Warnings, fmt.Sprintf(format, args...))
}

func (r *doctorReport) failf(format string, args ...any) {
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
}

// typesetters lists the programs the built-in chains call. Only pandoc is
// required: each LaTeX engine is one strategy among several.
var typesetters = []struct {
	name     string
	required bool
}{
	{"pandoc", true},
	{"xelatex", false},
	{"pdflatex", false},
}

// ciVariables are set by common CI services.
var ciVariables = []string{"CI", "GITHUB_ACTIONS", "GITLAB_CI", "JENKINS_URL", "CIRCLECI"}

// runDoctorCmd executes the doctor command.
func runDoctorCmd(ctx context.Context, args []string, env *Environment) error {
	asJSON := false
	for _, arg := range args {
		switch arg {
		case "--json":
			asJSON = true
		case "-h", "--help":
			printDoctorUsage(env.Stdout)
			return nil
		default:
			printDoctorUsage(env.Stderr)
			return fmt.Errorf("%w: doctor: unknown argument %q", ErrUsage, arg)
		}
	}

	report := runDoctor(ctx)

	if asJSON {
		enc := json.NewEncoder(env.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(report); err != nil {
			return err
		}
	} else {
		printDoctorReport(env.Stdout, report)
	}

	if report.Status == statusErrors {
		return ErrNotReady
	}
	return nil
}

// runDoctor runs every check in order. The browser check comes before the
// host check, which warns about the sandbox only when Chrome exists.
func runDoctor(ctx context.Context) *doctorReport {
	report := &doctorReport{
		Host: hostInfo{
			Platform:   runtime.GOOS + "/" + runtime.GOARCH,
			NoSandbox:  os.Getenv("ROD_NO_SANDBOX"),
			BrowserBin: os.Getenv("ROD_BROWSER_BIN"),
		},
	}

	checkTypesetters(ctx, report)
	checkBrowser(report)
	checkHost(report)

	switch {
	case len(report.Errors) > 0:
		report.Status = statusErrors
	case len(report.Warnings) > 0:
		report.Status = statusWarnings
	default:
		report.Status = statusReady
	}
	return report
}

// checkTypesetters locates pandoc and the LaTeX engines.
func checkTypesetters(ctx context.Context, report *doctorReport) {
	for _, ts := range typesetters {
		info := programInfo{Name: ts.name, Required: ts.required}

		if path, err := lookPath(ts.name); err == nil {
			info.Found = true
			info.Path = path
			info.Version = programVersion(ctx, path)
		} else if ts.required {
			report.failf("%s not found on PATH; only the browser and text fallbacks can run", ts.name)
		} else {
			report.warnf("%s not found on PATH; its strategies will be skipped", ts.name)
		}

		report.Typesetters = append(report.Typesetters, info)
	}
}

// programVersion returns the first line of "path --version", or "".
func programVersion(ctx context.Context, path string) string {
	ctx, cancel := context.WithTimeout(ctx, versionTimeout)
	defer cancel()

	out, err := exec.CommandContext(ctx, path, "--version").Output() // #nosec G204 -- path from LookPath
	if err != nil {
		return ""
	}
	line, _, _ := strings.Cut(string(out), "\n")
	return strings.TrimSpace(line)
}

// checkBrowser resolves Chrome the way the browser fallback does:
// ROD_BROWSER_BIN first, then the launcher's search. A missing browser is
// a warning because the fallback is optional.
func checkBrowser(report *doctorReport) {
	path := report.Host.BrowserBin
	if path == "" {
		var found bool
		if path, found = lookChromePath(); !found {
			report.warnf("Chrome/Chromium not found; the browser fallback is unavailable (set ROD_BROWSER_BIN)")
			return
		}
	}

	if !fileutil.FileExists(path) {
		report.warnf("Chrome not found at %s", path)
		return
	}

	report.Browser = browserInfo{
		Found:   true,
		Path:    path,
		Sandbox: report.Host.NoSandbox != "1",
	}
}

// checkHost detects containers and CI, and probes the temp directory
// where every conversion writes its scratch files.
func checkHost(report *doctorReport) {
	host := &report.Host
	host.Container, host.ContainerHint = isContainer()
	for _, name := range ciVariables {
		if os.Getenv(name) != "" {
			host.CI = true
			break
		}
	}

	if report.Browser.Sandbox && (host.Container || host.CI) {
		report.warnf("Container/CI detected but ROD_NO_SANDBOX not set. Set ROD_NO_SANDBOX=1")
	}

	host.TempDir = os.TempDir()
	if _, cleanup, err := fileutil.WriteTempFile("doctor", "txt"); err != nil {
		report.failf("Temp directory not writable: %s", host.TempDir)
	} else {
		cleanup()
		host.TempWritable = true
	}
}

// isContainer reports whether mdsafe runs in a container, and which
// signal said so. MDSAFE_CONTAINER=1 forces detection.
func isContainer() (bool, string) {
	if os.Getenv("MDSAFE_CONTAINER") == "1" {
		return true, "MDSAFE_CONTAINER=1"
	}
	if fileutil.FileExists("/.dockerenv") {
		return true, "/.dockerenv"
	}
	for _, name := range []string{"container", "KUBERNETES_SERVICE_HOST"} {
		if v := os.Getenv(name); v != "" {
			return true, name + "=" + v
		}
	}
	return false, ""
}

// reportWriter prints tagged lines grouped in sections.
type reportWriter struct{ w io.Writer }

func (p reportWriter) section(title string) {
	fmt.Fprintf(p.w, "\n%s\n", title)
}

func (p reportWriter) line(tag, format string, args ...any) {
	fmt.Fprintf(p.w, "  [%s] %s\n", tag, fmt.Sprintf(format, args...))
}

// printDoctorReport writes the human-readable report.
func printDoctorReport(w io.Writer, r *doctorReport) {
	p := reportWriter{w}
	fmt.Fprintln(w, "mdsafe doctor")

	p.section("Typesetters")
	for _, t := range r.Typesetters {
		switch {
		case t.Found && t.Version != "":
			p.line("OK", "%s: %s (%s)", t.Name, t.Path, t.Version)
		case t.Found:
			p.line("OK", "%s: %s", t.Name, t.Path)
		case t.Required:
			p.line("ERROR", "%s: not found", t.Name)
		default:
			p.line("WARN", "%s: not found", t.Name)
		}
	}

	p.section("Chrome/Chromium (browser fallback)")
	if r.Browser.Found {
		sandbox := "enabled"
		if !r.Browser.Sandbox {
			sandbox = "disabled (ROD_NO_SANDBOX=1)"
		}
		p.line("OK", "%s", r.Browser.Path)
		p.line("OK", "sandbox %s", sandbox)
	} else {
		p.line("WARN", "not found")
	}

	p.section("Host")
	p.line("OK", "platform %s", r.Host.Platform)
	if r.Host.Container {
		p.line("OK", "container (%s)", r.Host.ContainerHint)
	}
	if r.Host.CI {
		p.line("OK", "CI")
	}
	if r.Host.TempWritable {
		p.line("OK", "temp directory %s writable", r.Host.TempDir)
	} else {
		p.line("ERROR", "temp directory %s not writable", r.Host.TempDir)
	}

	if len(r.Warnings) > 0 {
		p.section("Warnings")
		for _, msg := range r.Warnings {
			p.line("WARN", "%s", msg)
		}
	}
	if len(r.Errors) > 0 {
		p.section("Errors")
		for _, msg := range r.Errors {
			p.line("ERROR", "%s", msg)
		}
	}

	fmt.Fprintln(w)
	switch r.Status {
	case statusReady:
		fmt.Fprintln(w, "Status: Ready to convert")
	case statusWarnings:
		fmt.Fprintln(w, "Status: Ready with warnings")
	default:
		fmt.Fprintln(w, "Status: Not ready (see errors above)")
	}
}
