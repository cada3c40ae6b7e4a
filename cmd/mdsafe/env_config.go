package main

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/alnah/go-mdsafe/internal/config"
	"github.com/alnah/go-mdsafe/internal/pipeline"
)

// envConfig holds configuration from environment variables.
// Provides CI/CD-friendly overrides without requiring YAML files.
type envConfig struct {
	// Tier 1 - Essential
	ConfigPath string        // MDSAFE_CONFIG: config file path
	Profile    string        // MDSAFE_PROFILE: symbol profile
	Timeout    time.Duration // MDSAFE_TIMEOUT: per-strategy timeout
	Fallbacks  []string      // MDSAFE_FALLBACKS: comma-separated fallbacks

	// Tier 2 - I/O
	InputDir  string // MDSAFE_INPUT_DIR: default input directory
	OutputDir string // MDSAFE_OUTPUT_DIR: default output directory
	Workers   int    // MDSAFE_WORKERS: parallel workers

	// Tier 3 - Document metadata
	DocAuthor string // MDSAFE_DOC_AUTHOR: document author
	DocDate   string // MDSAFE_DOC_DATE: document date
}

// knownEnvVars lists valid MDSAFE_* environment variables.
// Used to detect typos and warn users about unknown variables.
var knownEnvVars = map[string]bool{
	"MDSAFE_CONFIG":     true,
	"MDSAFE_PROFILE":    true,
	"MDSAFE_TIMEOUT":    true,
	"MDSAFE_FALLBACKS":  true,
	"MDSAFE_INPUT_DIR":  true,
	"MDSAFE_OUTPUT_DIR": true,
	"MDSAFE_WORKERS":    true,
	"MDSAFE_DOC_AUTHOR": true,
	"MDSAFE_DOC_DATE":   true,
	"MDSAFE_CONTAINER":  true, // read by doctor
}

// loadEnvConfig reads configuration from environment variables.
// Unparsable numbers and durations are ignored, not errors.
func loadEnvConfig() *envConfig {
	cfg := &envConfig{
		ConfigPath: os.Getenv("MDSAFE_CONFIG"),
		Profile:    os.Getenv("MDSAFE_PROFILE"),
		InputDir:   os.Getenv("MDSAFE_INPUT_DIR"),
		OutputDir:  os.Getenv("MDSAFE_OUTPUT_DIR"),
		DocAuthor:  os.Getenv("MDSAFE_DOC_AUTHOR"),
		DocDate:    os.Getenv("MDSAFE_DOC_DATE"),
	}

	if timeout := os.Getenv("MDSAFE_TIMEOUT"); timeout != "" {
		if d, err := time.ParseDuration(timeout); err == nil && d > 0 {
			cfg.Timeout = d
		}
	}

	if workers := os.Getenv("MDSAFE_WORKERS"); workers != "" {
		if w, err := strconv.Atoi(workers); err == nil && w > 0 {
			cfg.Workers = w
		}
	}

	for _, f := range strings.Split(os.Getenv("MDSAFE_FALLBACKS"), ",") {
		if f = strings.TrimSpace(f); f != "" {
			cfg.Fallbacks = append(cfg.Fallbacks, f)
		}
	}

	return cfg
}

// warnUnknownEnvVars logs warnings for unrecognized MDSAFE_* variables.
func warnUnknownEnvVars(w io.Writer) {
	for _, env := range os.Environ() {
		if strings.HasPrefix(env, "MDSAFE_") {
			name, _, _ := strings.Cut(env, "=")
			if !knownEnvVars[name] {
				fmt.Fprintf(w, "warning: unknown environment variable %s (typo?)\n", name)
			}
		}
	}
}

// applyEnvConfig applies environment variable values to config.
// Only sets values if the env var is set AND the config value is empty.
// This ensures: CLI flags > env vars > config file > defaults
// (CLI flags are applied later via mergeFlags). The default profile
// counts as unset.
func applyEnvConfig(env *envConfig, cfg *config.Config) {
	if env.Profile != "" && (cfg.Profile == "" || cfg.Profile == pipeline.DefaultProfile) {
		cfg.Profile = env.Profile
	}
	if env.Timeout > 0 && cfg.Timeout == "" {
		cfg.Timeout = env.Timeout.String()
	}
	if len(env.Fallbacks) > 0 && len(cfg.Fallbacks) == 0 {
		cfg.Fallbacks = env.Fallbacks
	}

	if env.InputDir != "" && cfg.Input.DefaultDir == "" {
		cfg.Input.DefaultDir = env.InputDir
	}
	if env.OutputDir != "" && cfg.Output.DefaultDir == "" {
		cfg.Output.DefaultDir = env.OutputDir
	}

	if env.DocAuthor != "" && cfg.Document.Author == "" {
		cfg.Document.Author = env.DocAuthor
	}
	if env.DocDate != "" && cfg.Document.Date == "" {
		cfg.Document.Date = env.DocDate
	}
}
