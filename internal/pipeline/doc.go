// Package pipeline implements the Markdown sanitization pipeline.
//
// Raw author Markdown (emoji, astrological glyphs, smart punctuation, raw
// HTML, badges, loosely formatted tables) is turned into text a LaTeX-based
// typesetter accepts without encoding errors. The stages always run in this
// order, each consuming the full output of the previous one:
//   - SymbolMap: literal substitution from a versioned symbol profile
//   - UnicodeFilter: per-character keep/drop/space decision by general category
//   - MarkupSanitizer: raw HTML blocks, badge and image references, table delimiters
//   - WhitespaceNormalizer: trailing spaces, space runs, blank-line runs
//
// The output contains only ASCII and a small typographic allowlist, and
// processing it a second time changes nothing.
//
// The package also carries the goldmark Markdown-to-HTML converter used when
// a document is rendered through a headless browser instead of a LaTeX engine.
package pipeline
