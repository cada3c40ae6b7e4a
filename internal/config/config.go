package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/alnah/go-mdsafe/internal/fileutil"
	"github.com/alnah/go-mdsafe/internal/pipeline"
	"github.com/alnah/go-mdsafe/internal/yamlutil"
)

// Sentinel errors for config operations.
var (
	ErrConfigNotFound  = errors.New("config file not found")
	ErrEmptyConfigName = errors.New("config name cannot be empty")
	ErrConfigParse     = errors.New("failed to parse config")
	ErrFieldTooLong    = errors.New("field exceeds maximum length")
	ErrInvalidField    = errors.New("invalid config value")
)

// appDirName is the per-user configuration directory name.
const appDirName = "go-mdsafe"

// Field length limits.
const (
	MaxTitleLength    = 200
	MaxNameLength     = 100
	MaxDateLength     = 30 // "2025-12-31" or "December 31, 2025"
	MaxVersionLength  = 50
	MaxClassLength    = 50 // "article", "report", "scrartcl"
	MaxGeometryLength = 100
	MaxFontSizeLength = 10
	MaxCommandLength  = 4096
	MaxStrategyName   = 50
	MaxStrategies     = 16
)

// Fallback strategies that need no external typesetter.
const (
	FallbackBrowser = "browser"
	FallbackText    = "text"
)

// Argument placeholders substituted by command strategies.
const (
	PlaceholderInput  = "{input}"
	PlaceholderOutput = "{output}"
)

// Config holds all configuration for document conversion.
type Config struct {
	Profile    string           `yaml:"profile"`  // symbol profile (default: plain)
	Timeout    string           `yaml:"timeout"`  // per-strategy default, e.g. "2m"
	Decorate   bool             `yaml:"decorate"` // heading dividers (latex profile)
	Strategies []StrategyConfig `yaml:"strategies"`
	Fallbacks  []string         `yaml:"fallbacks"` // appended after the chain: browser, text
	Document   DocumentConfig   `yaml:"document"`
	Input      InputConfig      `yaml:"input"`
	Output     OutputConfig     `yaml:"output"`
}

// StrategyConfig describes one external typesetting command. Replaces the
// built-in chain for the profile when present.
type StrategyConfig struct {
	Name    string   `yaml:"name"`
	Command string   `yaml:"command"`
	Args    []string `yaml:"args"`    // must reference {input} and {output}
	Timeout string   `yaml:"timeout"` // empty = Config.Timeout or profile default
}

// DocumentConfig is emitted as the document's metadata block.
type DocumentConfig struct {
	Title          string `yaml:"title"`
	Subtitle       string `yaml:"subtitle"`
	Author         string `yaml:"author"`
	Date           string `yaml:"date"` // "auto" = today, YYYY-MM-DD
	Version        string `yaml:"version"`
	DocumentClass  string `yaml:"documentclass"`
	Geometry       string `yaml:"geometry"`
	FontSize       string `yaml:"fontsize"`
	ColorLinks     bool   `yaml:"colorlinks"`
	TOC            bool   `yaml:"toc"`
	NumberSections bool   `yaml:"numberSections"`
}

// InputConfig defines input source options.
type InputConfig struct {
	DefaultDir string `yaml:"defaultDir"` // Default input directory (empty = must specify)
}

// OutputConfig defines output destination options.
type OutputConfig struct {
	DefaultDir   string `yaml:"defaultDir"`   // Default output directory (empty = same as source)
	KeepMarkdown bool   `yaml:"keepMarkdown"` // also write the sanitized .safe.md next to the PDF
}

// Validate checks field values and lengths.
// Called automatically by LoadConfig, but available for consumers
// who construct Config manually.
func (c *Config) Validate() error {
	if c.Profile != "" {
		if _, err := pipeline.ProfileByName(c.Profile); err != nil {
			return fmt.Errorf("%w: profile %q (available: %s)", ErrInvalidField, c.Profile, strings.Join(pipeline.ProfileNames(), ", "))
		}
	}
	if _, err := parseTimeout("timeout", c.Timeout); err != nil {
		return err
	}

	if len(c.Strategies) > MaxStrategies {
		return fmt.Errorf("%w: strategies (%d entries, max %d)", ErrInvalidField, len(c.Strategies), MaxStrategies)
	}
	seen := make(map[string]bool, len(c.Strategies))
	for i, s := range c.Strategies {
		field := fmt.Sprintf("strategies[%d]", i)
		if err := s.validate(field); err != nil {
			return err
		}
		name := strings.ToLower(s.Name)
		if seen[name] {
			return fmt.Errorf("%w: %s.name: duplicate strategy %q", ErrInvalidField, field, s.Name)
		}
		seen[name] = true
	}

	for i, f := range c.Fallbacks {
		switch strings.ToLower(f) {
		case FallbackBrowser, FallbackText:
		default:
			return fmt.Errorf("%w: fallbacks[%d]: %q (must be %s or %s)", ErrInvalidField, i, f, FallbackBrowser, FallbackText)
		}
	}

	return c.Document.validate()
}

func (s StrategyConfig) validate(field string) error {
	if s.Name == "" {
		return fmt.Errorf("%w: %s.name: required", ErrInvalidField, field)
	}
	if err := validateFieldLength(field+".name", s.Name, MaxStrategyName); err != nil {
		return err
	}
	if s.Command == "" {
		return fmt.Errorf("%w: %s.command: required", ErrInvalidField, field)
	}
	if err := validateFieldLength(field+".command", s.Command, MaxCommandLength); err != nil {
		return err
	}
	joined := strings.Join(s.Args, " ")
	if err := validateFieldLength(field+".args", joined, MaxCommandLength); err != nil {
		return err
	}
	for _, p := range []string{PlaceholderInput, PlaceholderOutput} {
		if !strings.Contains(joined, p) {
			return fmt.Errorf("%w: %s.args: must reference %s", ErrInvalidField, field, p)
		}
	}
	_, err := parseTimeout(field+".timeout", s.Timeout)
	return err
}

// TimeoutDuration returns the parsed strategy timeout, zero when unset.
func (s StrategyConfig) TimeoutDuration() time.Duration {
	d, _ := parseTimeout("", s.Timeout)
	return d
}

// TimeoutDuration returns the parsed default timeout, zero when unset.
func (c *Config) TimeoutDuration() time.Duration {
	d, _ := parseTimeout("", c.Timeout)
	return d
}

// FallbackNames returns the fallbacks lowercased, in order, without duplicates.
func (c *Config) FallbackNames() []string {
	out := make([]string, 0, len(c.Fallbacks))
	for _, f := range c.Fallbacks {
		f = strings.ToLower(f)
		if !slices.Contains(out, f) {
			out = append(out, f)
		}
	}
	return out
}

func (d DocumentConfig) validate() error {
	fields := []struct {
		name  string
		value string
		max   int
	}{
		{"document.title", d.Title, MaxTitleLength},
		{"document.subtitle", d.Subtitle, MaxTitleLength},
		{"document.author", d.Author, MaxNameLength},
		{"document.date", d.Date, MaxDateLength},
		{"document.version", d.Version, MaxVersionLength},
		{"document.documentclass", d.DocumentClass, MaxClassLength},
		{"document.geometry", d.Geometry, MaxGeometryLength},
		{"document.fontsize", d.FontSize, MaxFontSizeLength},
	}
	for _, f := range fields {
		if err := validateFieldLength(f.name, f.value, f.max); err != nil {
			return err
		}
	}
	return nil
}

func parseTimeout(field, value string) (time.Duration, error) {
	if value == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("%w: %s: %v", ErrInvalidField, field, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("%w: %s: must be positive, got %s", ErrInvalidField, field, value)
	}
	return d, nil
}

// validateFieldLength checks if a field exceeds its maximum allowed length.
func validateFieldLength(fieldName, value string, maxLength int) error {
	if len(value) > maxLength {
		return fmt.Errorf("%w: %s (%d chars, max %d)", ErrFieldTooLong, fieldName, len(value), maxLength)
	}
	return nil
}

// DefaultConfig returns a configuration using the default profile, the
// profile's built-in strategy chain and no document metadata.
func DefaultConfig() *Config {
	return &Config{
		Profile: pipeline.DefaultProfile,
	}
}

// LoadConfig loads configuration from a file path or config name.
// If nameOrPath contains a path separator, it's treated as a file path.
// Otherwise, it's treated as a config name and searched in standard locations.
// Returns error if the file is not found (no silent fallback).
func LoadConfig(nameOrPath string) (*Config, error) {
	if nameOrPath == "" {
		return nil, ErrEmptyConfigName
	}

	var configPath string
	var err error

	if fileutil.IsFilePath(nameOrPath) {
		configPath = nameOrPath
	} else {
		configPath, err = resolveConfigPath(nameOrPath)
		if err != nil {
			return nil, err
		}
	}

	data, err := os.ReadFile(configPath) // #nosec G304 -- config path is user-provided
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, configPath)
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := yamlutil.UnmarshalStrict(data, cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfigParse, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// SearchPaths lists the files LoadConfig tries for a config name, in order.
func SearchPaths(name string) []string {
	extensions := []string{".yaml", ".yml"}
	paths := make([]string, 0, len(extensions)*2)

	for _, ext := range extensions {
		paths = append(paths, name+ext)
	}
	if userConfigDir, err := os.UserConfigDir(); err == nil {
		for _, ext := range extensions {
			paths = append(paths, filepath.Join(userConfigDir, appDirName, name+ext))
		}
	}
	return paths
}

// resolveConfigPath searches for a config file by name in standard locations:
// the current directory, then the user config directory; .yaml before .yml.
func resolveConfigPath(name string) (string, error) {
	paths := SearchPaths(name)
	for _, p := range paths {
		if fileutil.FileExists(p) {
			return p, nil
		}
	}
	return "", fmt.Errorf("%w: tried %s", ErrConfigNotFound, strings.Join(paths, ", "))
}
