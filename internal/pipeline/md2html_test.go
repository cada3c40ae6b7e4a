package pipeline

import (
	"context"
	"errors"
	"strings"
	"testing"
)

func TestGoldmarkConverter_ToHTML(t *testing.T) {
	t.Parallel()

	c := NewGoldmarkConverter("")

	tests := []struct {
		name    string
		content string
		title   string
		want    []string
	}{
		{
			name:    "heading with id",
			content: "# Hello World",
			title:   "Doc",
			want:    []string{`<h1 id="hello-world">Hello World</h1>`, "<title>Doc</title>"},
		},
		{
			name:    "GFM table",
			content: "| a | b |\n|---|---|\n| 1 | 2 |",
			want:    []string{"<table>", "<td>1</td>"},
		},
		{
			name:    "code block highlighted inline",
			content: "```go\nfunc main() {}\n```",
			want:    []string{"<pre", "style="},
		},
		{
			name:    "empty title falls back",
			content: "text",
			want:    []string{"<title>Document</title>"},
		},
		{
			name:    "title is escaped",
			content: "text",
			title:   "<b>&",
			want:    []string{"<title>&lt;b&gt;&amp;</title>"},
		},
		{
			name:    "default stylesheet embedded",
			content: "text",
			want:    []string{"border-collapse"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := c.ToHTML(context.Background(), tt.content, tt.title)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !strings.HasPrefix(got, "<!DOCTYPE html>") {
				t.Errorf("output is not a full document: %.40q", got)
			}
			for _, w := range tt.want {
				if !strings.Contains(got, w) {
					t.Errorf("output missing %q", w)
				}
			}
		})
	}
}

func TestGoldmarkConverter_CustomCSS(t *testing.T) {
	t.Parallel()

	c := NewGoldmarkConverter("body { color: red; } </style><script>")
	got, err := c.ToHTML(context.Background(), "x", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.Contains(got, "</style><script>") {
		t.Error("stylesheet can close the style element")
	}
	if !strings.Contains(got, "color: red") {
		t.Error("custom stylesheet missing")
	}
}

func TestGoldmarkConverter_Cancelled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewGoldmarkConverter("").ToHTML(ctx, "# x", "")
	if !errors.Is(err, context.Canceled) {
		t.Errorf("error = %v, want context.Canceled", err)
	}
}
