package pipeline

import (
	"fmt"
)

// Stage names, in execution order.
const (
	StageSymbols    = "symbols"
	StageFilter     = "filter"
	StageMarkup     = "markup"
	StageWhitespace = "whitespace"
)

// StageResult is the text produced by one stage, as reported by Trace.
type StageResult struct {
	Stage string
	Text  string
}

// Pipeline composes the sanitization stages in their fixed order:
// symbol mapping, Unicode filtering, markup sanitizing, whitespace
// normalization. It holds only immutable configuration and is safe for
// concurrent use.
type Pipeline struct {
	symbols    *SymbolMap
	filter     *UnicodeFilter
	markup     *MarkupSanitizer
	whitespace *WhitespaceNormalizer
}

// New builds a pipeline for the named symbol profile with the default
// character policy and markup rules.
func New(profileName string) (*Pipeline, error) {
	profile, err := ProfileByName(profileName)
	if err != nil {
		return nil, err
	}
	return NewWithProfile(profile)
}

// NewWithProfile builds a pipeline for a custom symbol profile.
func NewWithProfile(profile Profile) (*Pipeline, error) {
	symbols, err := NewSymbolMap(profile)
	if err != nil {
		return nil, err
	}
	return &Pipeline{
		symbols:    symbols,
		filter:     NewUnicodeFilter(DefaultPolicy()),
		markup:     NewMarkupSanitizer(),
		whitespace: NewWhitespaceNormalizer(),
	}, nil
}

// Symbols exposes the symbol map the pipeline was built with.
func (p *Pipeline) Symbols() *SymbolMap {
	return p.symbols
}

// Process transforms text into typesetter-safe text. It never fails:
// unknown symbols fall through to the filter policy and absent markup
// leaves the rules idle.
func (p *Pipeline) Process(text string) string {
	text = p.symbols.Apply(text)
	text = p.filter.Filter(text)
	text = p.markup.Sanitize(text)
	return p.whitespace.Normalize(text)
}

// ProcessBytes decodes raw input and processes it.
func (p *Pipeline) ProcessBytes(raw []byte) (string, error) {
	text, err := Decode(raw)
	if err != nil {
		return "", fmt.Errorf("decode stage (%d bytes): %w", len(raw), err)
	}
	return p.Process(text), nil
}

// Trace runs the pipeline and records the output of every stage.
func (p *Pipeline) Trace(text string) []StageResult {
	results := make([]StageResult, 0, 4)

	text = p.symbols.Apply(text)
	results = append(results, StageResult{Stage: StageSymbols, Text: text})

	text = p.filter.Filter(text)
	results = append(results, StageResult{Stage: StageFilter, Text: text})

	text = p.markup.Sanitize(text)
	results = append(results, StageResult{Stage: StageMarkup, Text: text})

	text = p.whitespace.Normalize(text)
	results = append(results, StageResult{Stage: StageWhitespace, Text: text})

	return results
}
