// Package yamlutil wraps goccy/go-yaml for configuration files and document
// metadata blocks. Callers never import the YAML library directly.
package yamlutil

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"github.com/goccy/go-yaml"
)

// MaxInputSize limits YAML input to prevent memory exhaustion (default 1MB).
var MaxInputSize = 1 << 20

var (
	ErrNilData        = errors.New("yamlutil: nil or empty data")
	ErrNilDestination = errors.New("yamlutil: nil destination pointer")
	ErrInputTooLarge  = errors.New("yamlutil: input exceeds maximum size")
)

// Metadata block fences.
const (
	fenceOpen  = "---\n"
	fenceClose = "---"
	fenceEnd   = "..."
)

func validateInput(data []byte, v any) error {
	if len(data) == 0 {
		return ErrNilData
	}
	if len(data) > MaxInputSize {
		return fmt.Errorf("%w: %d bytes (max %d)", ErrInputTooLarge, len(data), MaxInputSize)
	}
	if v == nil {
		return ErrNilDestination
	}
	return nil
}

func Unmarshal(data []byte, v any) error {
	if err := validateInput(data, v); err != nil {
		return err
	}
	if err := yaml.Unmarshal(data, v); err != nil {
		return fmt.Errorf("yamlutil: %w", err)
	}
	return nil
}

func Marshal(v any) ([]byte, error) {
	result, err := yaml.MarshalWithOptions(v, yaml.UseLiteralStyleIfMultiline(true))
	if err != nil {
		return nil, fmt.Errorf("yamlutil: %w", err)
	}
	return result, nil
}

// UnmarshalStrict rejects unknown fields in the input.
func UnmarshalStrict(data []byte, v any) error {
	if err := validateInput(data, v); err != nil {
		return err
	}
	if err := yaml.UnmarshalWithOptions(data, v, yaml.Strict()); err != nil {
		return fmt.Errorf("yamlutil: %w", err)
	}
	return nil
}

// FrontMatter renders v as a Markdown metadata block: the YAML document
// between two "---" fences, followed by a blank line.
func FrontMatter(v any) (string, error) {
	data, err := Marshal(v)
	if err != nil {
		return "", err
	}
	body := bytes.TrimSpace(data)
	if len(body) == 0 || string(body) == "{}" || string(body) == "null" {
		return "", nil
	}

	var b strings.Builder
	b.Grow(len(body) + 12)
	b.WriteString(fenceOpen)
	b.Write(body)
	b.WriteString("\n" + fenceClose + "\n\n")
	return b.String(), nil
}

// SplitFrontMatter separates a leading metadata block from the document.
// The block must open on the first line with "---" and close with "---" or
// "..." on a line of its own. Without a block, front is nil and body is
// content unchanged.
func SplitFrontMatter(content string) (front []byte, body string) {
	if !strings.HasPrefix(content, fenceOpen) {
		return nil, content
	}
	rest := content[len(fenceOpen):]

	offset := 0
	for offset <= len(rest) {
		end := strings.IndexByte(rest[offset:], '\n')
		line := rest[offset:]
		if end >= 0 {
			line = rest[offset : offset+end]
		}
		if line == fenceClose || line == fenceEnd {
			front = []byte(rest[:offset])
			if end < 0 {
				return front, ""
			}
			return front, rest[offset+end+1:]
		}
		if end < 0 {
			break
		}
		offset += end + 1
	}
	return nil, content
}
