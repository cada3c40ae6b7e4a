package pipeline

import (
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"
)

// Mapping pairs one source symbol (a code point or a short fixed sequence)
// with the text that replaces it.
type Mapping struct {
	Symbol      string
	Replacement string
}

// Profile is a named, versioned set of symbol mappings.
type Profile struct {
	Name     string
	Version  string
	Mappings []Mapping
}

// SymbolMap replaces configured symbols with their mapped text.
// It is immutable once built and safe for concurrent use.
type SymbolMap struct {
	name     string
	version  string
	entries  []Mapping
	index    map[string]string
	replacer *strings.Replacer
}

// NewSymbolMap validates a profile and builds its replacer.
//
// Entries are ordered longest symbol first. strings.Replacer compares old
// strings in argument order at each position, so a compound sequence always
// wins over any single symbol it starts with, and replacement output is
// never rescanned.
//
// Symbols made only of ASCII are refused. Later stages emit ASCII of their
// own (spaces from the filter, "---" from the delimiter rewrite, text
// spliced together by markup removal), and a mapping over that output would
// rewrite it again on a second pass.
func NewSymbolMap(p Profile) (*SymbolMap, error) {
	index := make(map[string]string, len(p.Mappings))
	entries := make([]Mapping, 0, len(p.Mappings))

	for i, m := range p.Mappings {
		if m.Symbol == "" {
			return nil, fmt.Errorf("%w: profile %q entry %d", ErrEmptySymbol, p.Name, i)
		}
		if isASCII(m.Symbol) {
			return nil, fmt.Errorf("%w: profile %q symbol %q", ErrASCIISymbol, p.Name, m.Symbol)
		}
		if _, dup := index[m.Symbol]; dup {
			return nil, fmt.Errorf("%w: profile %q symbol %q (%U)", ErrDuplicateSymbol, p.Name, m.Symbol, []rune(m.Symbol))
		}
		if !IsSafeText(m.Replacement) {
			return nil, fmt.Errorf("%w: profile %q symbol %q -> %q", ErrUnsafeMapping, p.Name, m.Symbol, m.Replacement)
		}
		index[m.Symbol] = m.Replacement
		entries = append(entries, m)
	}

	sort.SliceStable(entries, func(i, j int) bool {
		li, lj := utf8.RuneCountInString(entries[i].Symbol), utf8.RuneCountInString(entries[j].Symbol)
		if li != lj {
			return li > lj
		}
		return entries[i].Symbol < entries[j].Symbol
	})

	oldnew := make([]string, 0, len(entries)*2)
	for _, m := range entries {
		oldnew = append(oldnew, m.Symbol, m.Replacement)
	}

	return &SymbolMap{
		name:     p.Name,
		version:  p.Version,
		entries:  entries,
		index:    index,
		replacer: strings.NewReplacer(oldnew...),
	}, nil
}

// Name returns the profile name the map was built from.
func (m *SymbolMap) Name() string { return m.name }

// Version returns the profile version.
func (m *SymbolMap) Version() string { return m.version }

// Len returns the number of mappings.
func (m *SymbolMap) Len() int { return len(m.entries) }

// Entries returns a copy of the mappings in application order.
func (m *SymbolMap) Entries() []Mapping {
	out := make([]Mapping, len(m.entries))
	copy(out, m.entries)
	return out
}

// Lookup returns the replacement for an exact symbol.
func (m *SymbolMap) Lookup(symbol string) (string, bool) {
	r, ok := m.index[symbol]
	return r, ok
}

// Apply replaces every configured symbol in text. Unmapped characters pass
// through unchanged for the filter stage.
func (m *SymbolMap) Apply(text string) string {
	if len(m.entries) == 0 || isASCII(text) {
		return text
	}
	return m.replacer.Replace(text)
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= utf8.RuneSelf {
			return false
		}
	}
	return true
}
