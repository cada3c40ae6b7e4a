// Package hints provides actionable error hints for common failure scenarios.
// Hints are formatted consistently as "\n  hint: <text>" for appending to error messages.
package hints

import (
	"os"
	"strings"

	"github.com/alnah/go-mdsafe/internal/fileutil"
)

// IsInContainer detects if running inside a Docker container or similar.
// Checks for /.dockerenv file which Docker creates automatically.
var IsInContainer = func() bool {
	return fileutil.FileExists("/.dockerenv")
}

// ForBrowserConnect returns hints for browser connection errors.
// Detects CI/Docker environment and suggests relevant environment variables.
func ForBrowserConnect() string {
	var hints []string

	inCI := os.Getenv("CI") != "" ||
		os.Getenv("GITHUB_ACTIONS") != "" ||
		os.Getenv("GITLAB_CI") != "" ||
		os.Getenv("JENKINS_URL") != ""

	if (inCI || IsInContainer()) && os.Getenv("ROD_NO_SANDBOX") != "1" {
		hints = append(hints, "set ROD_NO_SANDBOX=1 for Docker/CI")
	}

	if os.Getenv("ROD_BROWSER_BIN") == "" {
		hints = append(hints, "set ROD_BROWSER_BIN to use custom Chrome")
	}

	return formatHints(hints)
}

// ForTimeout returns a hint about increasing timeout for slow typesetting.
func ForTimeout() string {
	return format("LaTeX runs on large documents are slow, use --timeout 5m")
}

// ForCommandNotFound returns an install hint for a missing external program.
func ForCommandNotFound(name string) string {
	switch name {
	case "pandoc":
		return format("install pandoc (https://pandoc.org/installing.html) or add --fallback text")
	case "xelatex", "pdflatex", "lualatex":
		return format("install a TeX distribution (TeX Live, MacTeX, MiKTeX) providing " + name)
	case "":
		return ""
	}
	return format(name + " must be on PATH; run 'mdsafe doctor' to check")
}

// ForTypesetting inspects a failed typesetter's stderr and suggests a
// workaround for the errors LaTeX reports most often.
func ForTypesetting(stderr string) string {
	switch {
	case strings.Contains(stderr, "Unicode character"), strings.Contains(stderr, "not set up for use with LaTeX"):
		return format("the LaTeX engine rejected a character; try --profile latex with the xelatex chain")
	case strings.Contains(stderr, "Undefined control sequence"):
		return format("LaTeX markup from the latex profile needs a LaTeX engine; use --profile plain for other engines")
	case strings.Contains(stderr, "File `") && strings.Contains(stderr, ".sty' not found"):
		return format("a LaTeX package is missing; install it with your TeX distribution's package manager")
	}
	return ""
}

// ForEncoding returns a hint for input that is not valid UTF-8.
func ForEncoding() string {
	return format("save the file as UTF-8 (UTF-16 with a byte order mark is also accepted)")
}

// ForConfigNotFound returns hints for config file not found errors.
// Suggests --config flag and creating a config in ~/.config/go-mdsafe/.
func ForConfigNotFound(searchedPaths []string) string {
	hint := "use --config /path/to/file.yaml"

	for _, p := range searchedPaths {
		if strings.Contains(p, "go-mdsafe") {
			hint += " or create " + p
			break
		}
	}

	return format(hint)
}

// ForOutputDirectory returns hints for output directory creation errors.
func ForOutputDirectory() string {
	return format("check parent directory exists and is writable")
}

// ForUnknownProfile lists the symbol profiles that exist.
func ForUnknownProfile(available []string) string {
	if len(available) == 0 {
		return ""
	}
	return format("available profiles: " + strings.Join(available, ", "))
}

// format creates a single hint string with consistent formatting.
func format(hint string) string {
	if hint == "" {
		return ""
	}
	return "\n  hint: " + hint
}

// formatHints joins multiple hints with consistent formatting.
func formatHints(hints []string) string {
	if len(hints) == 0 {
		return ""
	}
	return format(strings.Join(hints, "; "))
}
