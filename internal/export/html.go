// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"fmt"
	"html"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/microcosm-cc/bluemonday"

	"github.com/BenYacineSawadogo/LegiChatUi/internal/model"
)

// =============================================================================
// HTML EXPORTER
// =============================================================================

var (
	codeBlockRegex  = regexp.MustCompile("```([a-zA-Z0-9_+-]*)\n([\\s\\S]*?)```")
	inlineCodeRegex = regexp.MustCompile("`([^`\n]+)`")
	boldRegex       = regexp.MustCompile(`\*\*([^*\n]+)\*\*`)
)

// HTMLExporter exports conversations to a standalone HTML page.
type HTMLExporter struct {
	options *Options
	policy  *bluemonday.Policy
}

// NewHTMLExporter creates a new HTML exporter.
func NewHTMLExporter(opts *Options) *HTMLExporter {
	if opts == nil {
		opts = DefaultOptions()
	}
	policy := bluemonday.UGCPolicy()
	policy.AllowAttrs("class").Globally()
	return &HTMLExporter{options: opts, policy: policy}
}

// Export converts a transcript to HTML.
func (e *HTMLExporter) Export(t *Transcript) ([]byte, error) {
	if err := t.validate(); err != nil {
		return nil, err
	}
	conv := t.Conversation

	themeClass := "light"
	if e.options.Theme == "dark" {
		themeClass = "dark"
	}

	var sb strings.Builder
	sb.WriteString("<!DOCTYPE html>\n")
	sb.WriteString("<html lang=\"fr\">\n<head>\n")
	sb.WriteString("    <meta charset=\"UTF-8\">\n")
	sb.WriteString("    <meta name=\"viewport\" content=\"width=device-width, initial-scale=1.0\">\n")
	sb.WriteString(fmt.Sprintf("    <title>%s</title>\n", html.EscapeString(conv.Title)))
	sb.WriteString("    <meta name=\"generator\" content=\"legichat\">\n")
	sb.WriteString(fmt.Sprintf("    <meta name=\"date\" content=\"%s\">\n", conv.CreatedAt.Format(time.RFC3339)))
	sb.WriteString(pageCSS)
	sb.WriteString("</head>\n")
	sb.WriteString(fmt.Sprintf("<body class=\"%s-theme\">\n", themeClass))
	sb.WriteString("    <div class=\"container\">\n")

	sb.WriteString("        <header class=\"header\">\n")
	sb.WriteString(fmt.Sprintf("            <h1>%s</h1>\n", html.EscapeString(conv.Title)))
	if e.options.IncludeMetadata {
		sb.WriteString(fmt.Sprintf("            <p class=\"metadata\">Créée le %s · %d messages</p>\n",
			formatTimestamp(conv.CreatedAt), len(t.Messages)))
	}
	sb.WriteString("        </header>\n")

	sb.WriteString("        <main class=\"conversation\">\n")
	for _, msg := range t.Messages {
		sb.WriteString(e.renderMessage(msg))
	}
	sb.WriteString("        </main>\n")

	sb.WriteString("        <footer class=\"footer\">\n")
	sb.WriteString(fmt.Sprintf("            <p>Exporté depuis <strong>LegiChat</strong> le %s</p>\n",
		formatTimestamp(e.options.clock())))
	sb.WriteString("        </footer>\n")
	sb.WriteString("    </div>\n</body>\n</html>\n")

	return []byte(sb.String()), nil
}

// FileExtension returns the file extension for HTML.
func (e *HTMLExporter) FileExtension() string {
	return ".html"
}

// MimeType returns the MIME type for HTML.
func (e *HTMLExporter) MimeType() string {
	return "text/html"
}

// renderMessage renders one message bubble.
func (e *HTMLExporter) renderMessage(msg *model.Message) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("            <div class=\"message %s-message\">\n", msg.Role))
	sb.WriteString("                <div class=\"message-header\">\n")
	sb.WriteString(fmt.Sprintf("                    <span class=\"role-label\">%s</span>\n", html.EscapeString(msg.Role.DisplayName())))
	if e.options.IncludeTimestamps {
		sb.WriteString(fmt.Sprintf("                    <span class=\"timestamp\">%s</span>\n", formatShortTimestamp(msg.Timestamp)))
	}
	sb.WriteString("                </div>\n")

	sb.WriteString("                <div class=\"message-content\">\n")
	sb.WriteString(e.policy.Sanitize(e.formatContent(msg.Content)))
	sb.WriteString("\n                </div>\n")

	if msg.IsAssistant() && e.options.IncludeMetadata {
		sb.WriteString(e.renderSources(msg.Metadata))
	}

	sb.WriteString("            </div>\n")
	return sb.String()
}

// renderSources renders the citation list of an answer, or "".
func (e *HTMLExporter) renderSources(md *model.ResponseMetadata) string {
	if md == nil || len(md.Sources) == 0 {
		return ""
	}

	var sb strings.Builder
	sb.WriteString("                <ul class=\"sources\">\n")
	for _, src := range md.Sources {
		label := html.EscapeString(sourceLine(src))
		if src.Lien != "" {
			label = fmt.Sprintf("<a href=\"%s\">%s</a>", html.EscapeString(src.Lien), label)
		}
		sb.WriteString("                    <li>" + e.policy.Sanitize(label) + "</li>\n")
	}
	sb.WriteString("                </ul>\n")
	return sb.String()
}

// formatContent converts the Markdown subset the backend uses (fenced code,
// inline code, bold, paragraphs) to HTML. Text is escaped first.
func (e *HTMLExporter) formatContent(content string) string {
	content = html.EscapeString(strings.TrimSpace(content))

	var blocks []string
	content = codeBlockRegex.ReplaceAllStringFunc(content, func(match string) string {
		parts := codeBlockRegex.FindStringSubmatch(match)
		if len(parts) != 3 {
			return match
		}
		blocks = append(blocks, fmt.Sprintf("<pre><code class=\"language-%s\">%s</code></pre>",
			parts[1], strings.TrimRight(parts[2], "\n")))
		return placeholder(len(blocks) - 1)
	})

	content = inlineCodeRegex.ReplaceAllString(content, "<code>$1</code>")
	content = boldRegex.ReplaceAllString(content, "<strong>$1</strong>")

	var out []string
	for _, para := range strings.Split(content, "\n\n") {
		para = strings.TrimSpace(para)
		if para == "" {
			continue
		}
		if !strings.HasPrefix(para, "\x00") || !strings.HasSuffix(para, "\x00") || strings.Count(para, "\x00") != 2 {
			para = "<p>" + strings.ReplaceAll(para, "\n", "<br>") + "</p>"
		}
		out = append(out, para)
	}

	result := strings.Join(out, "\n")
	for i, block := range blocks {
		result = strings.ReplaceAll(result, placeholder(i), block)
	}
	return result
}

// placeholder marks a fenced block while paragraphs are split.
func placeholder(i int) string {
	return "\x00" + strconv.Itoa(i) + "\x00"
}

const pageCSS = `    <style>
        body { margin: 0; font-family: system-ui, sans-serif; line-height: 1.5; }
        .light-theme { background: #f8fafc; color: #1e293b; }
        .dark-theme { background: #0f172a; color: #e2e8f0; }
        .container { max-width: 860px; margin: 0 auto; padding: 24px; }
        .header h1 { margin-bottom: 4px; }
        .metadata, .timestamp, .footer { opacity: 0.7; font-size: 0.9em; }
        .message { border-radius: 12px; padding: 12px 16px; margin: 12px 0; }
        .user-message { margin-left: 20%; background: #1e3a8a; color: #f8fafc; }
        .light-theme .assistant-message { background: #ffffff; border: 1px solid #e2e8f0; }
        .dark-theme .assistant-message { background: #1e293b; border: 1px solid #334155; }
        .message-header { display: flex; justify-content: space-between; font-weight: 600; }
        .sources { font-size: 0.9em; border-top: 1px solid #cbd5e1; padding-top: 8px; }
        pre { overflow-x: auto; padding: 8px; border-radius: 6px; background: rgba(0,0,0,0.08); }
        a { color: #b45309; }
    </style>
`
