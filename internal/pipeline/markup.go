package pipeline

import (
	"regexp"
	"strings"
)

// Scope is the unit of text a markup rule is matched against.
type Scope int

// Rule scopes.
const (
	ScopeDocument Scope = iota
	ScopeLine
)

// Rule rewrites every match of Pattern. Rewrite, when set, computes the
// replacement from the match; otherwise Replacement is used literally.
type Rule struct {
	Name        string
	Scope       Scope
	Pattern     *regexp.Regexp
	Replacement string
	Rewrite     func(match string) string
}

// Apply runs the rule over text. A rule that matches nothing is a no-op.
func (r Rule) Apply(text string) string {
	if r.Scope == ScopeLine {
		lines := strings.Split(text, "\n")
		for i, line := range lines {
			lines[i] = r.replace(line)
		}
		return strings.Join(lines, "\n")
	}
	return r.replace(text)
}

func (r Rule) replace(s string) string {
	if r.Rewrite != nil {
		return r.Pattern.ReplaceAllStringFunc(s, r.Rewrite)
	}
	return r.Pattern.ReplaceAllLiteralString(s, r.Replacement)
}

// Rule names.
const (
	RuleHTMLBlocks      = "html-blocks"
	RuleBadgeLinks      = "badge-links"
	RuleImages          = "images"
	RuleBadgeHostLinks  = "badge-host-links"
	RuleTableDelimiters = "table-delimiters"
)

// linkTarget matches a parenthesised link destination with at most one
// level of balanced parentheses inside.
const linkTarget = `\((?:[^()]|\([^()]*\))*\)`

// Precompiled patterns for the default rules.
var (
	// Opening or closing block tags the renderer does not support.
	htmlBlockTag = regexp.MustCompile(`(?i)</?(?:div|center|p|span|section)\b[^>]*>`)

	// [![alt](image)](target); targets may hold one level of parentheses,
	// as in "diagram(v2).png".
	badgeLink = regexp.MustCompile(`\[!\[.*?\]` + linkTarget + `\]` + linkTarget)

	// ![alt](image)
	imageRef = regexp.MustCompile(`!\[.*?\]` + linkTarget)

	// [label](https://img.shields.io/...) and other status-shield hosts
	badgeHostLink = regexp.MustCompile(`\[[^\]]*\]\((?:https?://)?(?:img\.shields\.io|badgen\.net|badge\.fury\.io|codecov\.io/[^)]*badge)[^)]*\)`)

	// A table delimiter row: cells of optional colon, dashes, optional colon.
	delimiterRow = regexp.MustCompile(`^[ \t]*\|?[ \t]*:?-+:?[ \t]*(?:\|[ \t]*:?-+:?[ \t]*)*\|?[ \t]*$`)
)

// DefaultRules returns the markup rules in their required order:
// raw HTML blocks, badge and image references, table delimiters.
func DefaultRules() []Rule {
	return []Rule{
		{Name: RuleHTMLBlocks, Scope: ScopeDocument, Pattern: htmlBlockTag},
		{Name: RuleBadgeLinks, Scope: ScopeLine, Pattern: badgeLink},
		{Name: RuleImages, Scope: ScopeLine, Pattern: imageRef},
		{Name: RuleBadgeHostLinks, Scope: ScopeLine, Pattern: badgeHostLink},
		{Name: RuleTableDelimiters, Scope: ScopeLine, Pattern: delimiterRow, Rewrite: normalizeDelimiterRow},
	}
}

// MarkupSanitizer removes or rewrites markup the typesetter cannot handle.
type MarkupSanitizer struct {
	rules []Rule
}

// NewMarkupSanitizer creates a sanitizer applying rules in the given order.
// With no rules, DefaultRules is used.
func NewMarkupSanitizer(rules ...Rule) *MarkupSanitizer {
	if len(rules) == 0 {
		rules = DefaultRules()
	}
	return &MarkupSanitizer{rules: rules}
}

// Rules returns the rule names in application order.
func (s *MarkupSanitizer) Rules() []string {
	names := make([]string, len(s.rules))
	for i, r := range s.rules {
		names[i] = r.Name
	}
	return names
}

// Sanitize applies every rule in order, each feeding the next. The sequence
// repeats until the text stops changing, so a removal that splices two
// fragments into a new match is still handled, however deep the nesting.
//
// Rules must converge: every default rule either shortens the text or, like
// the delimiter rewrite, maps its output to itself. A custom rule whose
// replacement matches its own pattern never reaches a fixed point.
func (s *MarkupSanitizer) Sanitize(text string) string {
	for {
		next := text
		for _, r := range s.rules {
			next = r.Apply(next)
		}
		if next == text {
			return next
		}
		text = next
	}
}

// normalizeDelimiterRow rewrites every cell of a delimiter row to "---",
// keeping indentation, outer pipes and the cell count.
func normalizeDelimiterRow(row string) string {
	if !strings.Contains(row, "|") {
		return row
	}

	body := strings.TrimLeft(row, " \t")
	indent := row[:len(row)-len(body)]
	body = strings.TrimRight(body, " \t")

	leading := strings.HasPrefix(body, "|")
	trailing := len(body) > 1 && strings.HasSuffix(body, "|")
	inner := body
	if leading {
		inner = inner[1:]
	}
	if trailing {
		inner = inner[:len(inner)-1]
	}

	cells := strings.Split(inner, "|")
	for i := range cells {
		cells[i] = "---"
	}

	var b strings.Builder
	b.WriteString(indent)
	if leading {
		b.WriteByte('|')
	}
	b.WriteString(strings.Join(cells, "|"))
	if trailing {
		b.WriteByte('|')
	}
	return b.String()
}
