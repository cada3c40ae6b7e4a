package mdsafe

import (
	"fmt"
	"strings"
	"time"

	"github.com/alnah/go-mdsafe/internal/dateutil"
	"github.com/alnah/go-mdsafe/internal/pipeline"
	"github.com/alnah/go-mdsafe/internal/yamlutil"
)

// latexHeader loads xcolor and defines the colors the latex profile and
// the heading divider refer to.
const latexHeader = `\usepackage{xcolor}
\definecolor{darkblue}{RGB}{25,25,112}
\definecolor{gold}{RGB}{255,215,0}
\definecolor{starblue}{RGB}{72,61,139}`

// dividerLines is the centered ornament Decorate puts before ### headings.
var dividerLines = []string{
	`\vspace{0.3cm}`,
	`\begin{center}`,
	`\textcolor{darkblue}{* * *}`,
	`\end{center}`,
	`\vspace{0.3cm}`,
}

// frontMatter is the YAML shape of the metadata block, in pandoc's keys.
type frontMatter struct {
	Title          string `yaml:"title,omitempty"`
	Subtitle       string `yaml:"subtitle,omitempty"`
	Author         string `yaml:"author,omitempty"`
	Date           string `yaml:"date,omitempty"`
	Version        string `yaml:"version,omitempty"`
	DocumentClass  string `yaml:"documentclass,omitempty"`
	Geometry       string `yaml:"geometry,omitempty"`
	FontSize       string `yaml:"fontsize,omitempty"`
	ColorLinks     bool   `yaml:"colorlinks,omitempty"`
	TOC            bool   `yaml:"toc,omitempty"`
	NumberSections bool   `yaml:"numbersections,omitempty"`
	HeaderIncludes string `yaml:"header-includes,omitempty"`
}

// buildFrontMatter renders the metadata block placed ahead of the sanitized
// document. Text values go through sanitize so the block follows the same
// character rules as the body. The latex profile always gets its color
// definitions; otherwise a nil meta yields "".
func buildFrontMatter(meta *Metadata, profile string, sanitize func(string) string, now time.Time) (string, error) {
	var fm frontMatter

	if meta != nil {
		date, err := dateutil.ResolveDate(meta.Date, now)
		if err != nil {
			return "", fmt.Errorf("%w: date: %v", ErrInvalidMetadata, err)
		}
		fm = frontMatter{
			Title:          sanitize(meta.Title),
			Subtitle:       sanitize(meta.Subtitle),
			Author:         sanitize(meta.Author),
			Date:           sanitize(date),
			Version:        sanitize(meta.Version),
			DocumentClass:  meta.DocumentClass,
			Geometry:       sanitize(meta.Geometry),
			FontSize:       meta.FontSize,
			ColorLinks:     meta.ColorLinks,
			TOC:            meta.TOC,
			NumberSections: meta.NumberSections,
		}
	}
	if profile == pipeline.ProfileLaTeX {
		fm.HeaderIncludes = latexHeader
	}

	block, err := yamlutil.FrontMatter(fm)
	if err != nil {
		return "", fmt.Errorf("rendering metadata block: %w", err)
	}
	return block, nil
}

// Decorate inserts a centered divider before every "### " heading outside
// fenced code. The divider uses LaTeX commands and the darkblue color, so
// it is meant for the latex profile.
func Decorate(text string) string {
	lines := strings.Split(text, "\n")
	out := make([]string, 0, len(lines))
	fence := ""

	for _, line := range lines {
		trimmed := strings.TrimLeft(line, " ")
		if strings.HasPrefix(trimmed, "```") || strings.HasPrefix(trimmed, "~~~") {
			switch {
			case fence == "":
				fence = trimmed[:3]
			case strings.HasPrefix(trimmed, fence):
				fence = ""
			}
			out = append(out, line)
			continue
		}

		if fence == "" && strings.HasPrefix(line, "### ") {
			if n := len(out); n > 0 && out[n-1] != "" {
				out = append(out, "")
			}
			out = append(out, dividerLines...)
			out = append(out, "")
		}
		out = append(out, line)
	}
	return strings.Join(out, "\n")
}
