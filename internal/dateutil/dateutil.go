// Package dateutil resolves the "auto" date values accepted in document
// metadata.
package dateutil

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrInvalidDateFormat indicates an invalid date format string.
var ErrInvalidDateFormat = errors.New("invalid date format")

// MaxDateFormatLength limits format string length.
const MaxDateFormatLength = 50

// DefaultDateFormat is used for a bare "auto".
const DefaultDateFormat = "YYYY-MM-DD"

// autoKeyword selects the current date.
const autoKeyword = "auto"

// tokenLayout rewrites format tokens to Go layout components. Longer tokens
// are listed first: the replacer prefers the earliest argument at a position.
var tokenLayout = strings.NewReplacer(
	"YYYY", "2006",
	"MMMM", "January",
	"MMM", "Jan",
	"YY", "06",
	"MM", "01",
	"DD", "02",
	"M", "1",
	"D", "2",
)

// DatePresets names common formats.
var DatePresets = map[string]string{
	"iso":      "YYYY-MM-DD",
	"european": "DD/MM/YYYY",
	"us":       "MM/DD/YYYY",
	"long":     "MMMM D, YYYY",
	"month":    "MMMM YYYY", // cover-page style, "July 2025"
}

// ParseDateFormat converts a format such as "DD/MM/YYYY" to a Go layout.
// Text inside brackets is kept literally: "[Rev.] YYYY".
func ParseDateFormat(format string) (string, error) {
	if format == "" {
		return "", fmt.Errorf("%w: format cannot be empty", ErrInvalidDateFormat)
	}
	if len(format) > MaxDateFormatLength {
		return "", fmt.Errorf("%w: format exceeds %d characters", ErrInvalidDateFormat, MaxDateFormatLength)
	}

	var b strings.Builder
	rest := format
	for rest != "" {
		open := strings.IndexByte(rest, '[')
		if open < 0 {
			b.WriteString(tokenLayout.Replace(rest))
			break
		}
		b.WriteString(tokenLayout.Replace(rest[:open]))

		end := strings.IndexByte(rest[open+1:], ']')
		if end < 0 {
			return "", fmt.Errorf("%w: unclosed bracket at position %d", ErrInvalidDateFormat, len(format)-len(rest)+open)
		}
		b.WriteString(rest[open+1 : open+1+end])
		rest = rest[open+end+2:]
	}
	return b.String(), nil
}

// ResolveDate expands "auto", "auto:FORMAT" and "auto:PRESET" to t in the
// requested format. Other values are returned unchanged.
func ResolveDate(value string, t time.Time) (string, error) {
	keyword, format, hasFormat := strings.Cut(value, ":")
	if !strings.EqualFold(strings.TrimSpace(keyword), autoKeyword) {
		return value, nil
	}

	switch {
	case !hasFormat:
		format = DefaultDateFormat
	case format == "":
		return "", fmt.Errorf("%w: format cannot be empty after \"auto:\"", ErrInvalidDateFormat)
	default:
		if preset, ok := DatePresets[strings.ToLower(format)]; ok {
			format = preset
		}
	}

	layout, err := ParseDateFormat(format)
	if err != nil {
		return "", err
	}
	return t.Format(layout), nil
}
