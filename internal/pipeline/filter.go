package pipeline

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Action is what the filter does with a character.
type Action int

// Filter actions.
const (
	Keep Action = iota
	Drop
	Space
)

// String returns the action name.
func (a Action) String() string {
	switch a {
	case Keep:
		return "keep"
	case Drop:
		return "drop"
	case Space:
		return "space"
	}
	return "unknown"
}

// categoryOrder lists the two-letter Unicode general categories in a fixed
// order. Category assignment is independent of map iteration order.
var categoryOrder = []string{
	"Lu", "Ll", "Lt", "Lm", "Lo",
	"Mn", "Mc", "Me",
	"Nd", "Nl", "No",
	"Pc", "Pd", "Ps", "Pe", "Pi", "Pf", "Po",
	"Sm", "Sc", "Sk", "So",
	"Zs", "Zl", "Zp",
	"Cc", "Cf", "Co", "Cs",
}

// CategoryUnassigned is reported for code points outside every category.
const CategoryUnassigned = "Cn"

// Category returns the two-letter Unicode general category of r.
func Category(r rune) string {
	for _, name := range categoryOrder {
		if unicode.Is(unicode.Categories[name], r) {
			return name
		}
	}
	return CategoryUnassigned
}

// Policy decides what happens to each non-ASCII character.
// ASCII is always kept; the allowlist is checked before categories.
type Policy struct {
	Allow      map[rune]bool
	Categories map[string]Action
	Default    Action
}

// typographicAllowlist holds the punctuation that may reach the output
// verbatim: smart quotes and en/em dashes.
var typographicAllowlist = []rune{'“', '”', '‘', '’', '–', '—'}

// DefaultPolicy keeps the typographic allowlist, drops every letter
// (non-Latin script has no safe ASCII rendering) and turns everything else
// into a space.
func DefaultPolicy() Policy {
	allow := make(map[rune]bool, len(typographicAllowlist))
	for _, r := range typographicAllowlist {
		allow[r] = true
	}
	return Policy{
		Allow: allow,
		Categories: map[string]Action{
			"Lu": Drop, "Ll": Drop, "Lt": Drop, "Lm": Drop, "Lo": Drop,
		},
		Default: Space,
	}
}

// Decide returns the action for r.
func (p Policy) Decide(r rune) Action {
	if r < utf8.RuneSelf || p.Allow[r] {
		return Keep
	}
	if a, ok := p.Categories[Category(r)]; ok {
		return a
	}
	return p.Default
}

// IsSafeText reports whether every character of s is ASCII or on the
// default typographic allowlist.
func IsSafeText(s string) bool {
	for _, r := range s {
		if r < utf8.RuneSelf {
			continue
		}
		if !isAllowlisted(r) {
			return false
		}
	}
	return true
}

func isAllowlisted(r rune) bool {
	for _, a := range typographicAllowlist {
		if r == a {
			return true
		}
	}
	return false
}

// UnicodeFilter applies a Policy character by character.
type UnicodeFilter struct {
	policy Policy
}

// NewUnicodeFilter creates a filter for the given policy.
func NewUnicodeFilter(p Policy) *UnicodeFilter {
	return &UnicodeFilter{policy: p}
}

// Filter applies the policy to every character, then collapses runs of two
// or more spaces on each line to one. Lines are independent.
func (f *UnicodeFilter) Filter(text string) string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = f.filterLine(line)
	}
	return strings.Join(lines, "\n")
}

func (f *UnicodeFilter) filterLine(line string) string {
	var b strings.Builder
	b.Grow(len(line))
	lastSpace := false

	for _, r := range line {
		switch f.policy.Decide(r) {
		case Drop:
			continue
		case Space:
			r = ' '
		}
		if r == ' ' {
			if lastSpace {
				continue
			}
			lastSpace = true
		} else {
			lastSpace = false
		}
		b.WriteRune(r)
	}
	return b.String()
}
