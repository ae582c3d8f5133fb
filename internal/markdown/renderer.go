// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package markdown renders assistant answers for the terminal.
package markdown

import (
	"html"
	"log"
	"strings"
	"sync"

	"github.com/charmbracelet/glamour"
	"github.com/microcosm-cc/bluemonday"

	"github.com/BenYacineSawadogo/LegiChatUi/internal/theme"
)

// DefaultWidth is used when the caller passes a non-positive width.
const DefaultWidth = 80

type cacheKey struct {
	theme theme.Theme
	width int
}

// Renderer converts markdown to styled terminal text. Glamour renderers are
// built lazily and cached per theme and width. Safe for concurrent use.
type Renderer struct {
	policy *bluemonday.Policy

	mu        sync.Mutex
	current   theme.Theme
	renderers map[cacheKey]*glamour.TermRenderer
}

// NewRenderer creates a renderer that defaults to the light theme.
func NewRenderer() *Renderer {
	return &Renderer{
		policy:    bluemonday.StrictPolicy(),
		current:   theme.Light,
		renderers: make(map[cacheKey]*glamour.TermRenderer),
	}
}

// SetTheme changes the theme used by RenderCurrent.
func (r *Renderer) SetTheme(t theme.Theme) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if t.Valid() {
		r.current = t
	}
}

// Theme returns the theme used by RenderCurrent.
func (r *Renderer) Theme() theme.Theme {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.current
}

// RenderCurrent renders with the theme last passed to SetTheme.
func (r *Renderer) RenderCurrent(content string, width int) string {
	return r.Render(content, r.Theme(), width)
}

// Render converts content for display. Empty input yields "".
func (r *Renderer) Render(content string, t theme.Theme, width int) string {
	if strings.TrimSpace(content) == "" {
		return ""
	}

	tr, err := r.renderer(t, width)
	if err != nil {
		log.Printf("WARNING markdown: renderer unavailable: %v", err)
		return content
	}

	out, err := tr.Render(r.Prepare(content))
	if err != nil {
		log.Printf("WARNING markdown: render failed: %v", err)
		return content
	}
	return strings.Trim(out, "\n")
}

// Prepare sanitizes content and turns single newlines into hard breaks.
// Fenced and indented code blocks and inline code spans are left untouched.
func (r *Renderer) Prepare(content string) string {
	lines := strings.Split(strings.ReplaceAll(content, "\r\n", "\n"), "\n")
	out := make([]string, 0, len(lines))
	inFence := false
	inIndented := false

	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		if !inIndented && (strings.HasPrefix(trimmed, "```") || strings.HasPrefix(trimmed, "~~~")) {
			inFence = !inFence
			out = append(out, line)
			continue
		}
		if inFence {
			out = append(out, line)
			continue
		}

		// An indented block opens after a blank line and runs until a
		// non-blank line that is not indented.
		prevBlank := i == 0 || strings.TrimSpace(lines[i-1]) == ""
		if isIndentedCode(line) && (inIndented || prevBlank) {
			inIndented = true
			out = append(out, line)
			continue
		}
		if trimmed != "" {
			inIndented = false
		}
		if inIndented {
			out = append(out, line)
			continue
		}

		line = r.sanitizeLine(line)

		// Hard break when the paragraph continues on the next line
		if trimmed != "" && i+1 < len(lines) && strings.TrimSpace(lines[i+1]) != "" &&
			!strings.HasSuffix(line, "  ") {
			line += "  "
		}
		out = append(out, line)
	}
	return strings.Join(out, "\n")
}

// sanitizeLine strips HTML from the prose of line. Code spans pass through as written.
func (r *Renderer) sanitizeLine(line string) string {
	var sb strings.Builder
	for _, seg := range splitCodeSpans(line) {
		if seg.code {
			sb.WriteString(seg.text)
			continue
		}
		sb.WriteString(html.UnescapeString(r.policy.Sanitize(seg.text)))
	}
	return sb.String()
}

func isIndentedCode(line string) bool {
	return strings.TrimSpace(line) != "" &&
		(strings.HasPrefix(line, "    ") || strings.HasPrefix(line, "\t"))
}

type segment struct {
	text string
	code bool
}

// splitCodeSpans cuts line at backtick code spans. A span opens with a run
// of N backticks and closes at the next run of exactly N. An unmatched run
// is plain text.
func splitCodeSpans(line string) []segment {
	var segs []segment
	start, i := 0, 0
	for i < len(line) {
		if line[i] != '`' {
			i++
			continue
		}
		n := backtickRun(line, i)
		end := -1
		for j := i + n; j < len(line); {
			if line[j] != '`' {
				j++
				continue
			}
			m := backtickRun(line, j)
			if m == n {
				end = j + m
				break
			}
			j += m
		}
		if end < 0 {
			i += n
			continue
		}
		if start < i {
			segs = append(segs, segment{text: line[start:i]})
		}
		segs = append(segs, segment{text: line[i:end], code: true})
		start, i = end, end
	}
	if start < len(line) {
		segs = append(segs, segment{text: line[start:]})
	}
	return segs
}

func backtickRun(s string, i int) int {
	n := 0
	for i+n < len(s) && s[i+n] == '`' {
		n++
	}
	return n
}

func (r *Renderer) renderer(t theme.Theme, width int) (*glamour.TermRenderer, error) {
	if !t.Valid() {
		t = theme.Light
	}
	if width <= 0 {
		width = DefaultWidth
	}
	key := cacheKey{theme: t, width: width}

	r.mu.Lock()
	defer r.mu.Unlock()
	if tr, ok := r.renderers[key]; ok {
		return tr, nil
	}

	tr, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(string(t)),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return nil, err
	}
	r.renderers[key] = tr
	return tr, nil
}
