// Package markdown renders blog post bodies to sanitized HTML.
package markdown

import (
	"bytes"
	"html/template"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"
)

type TextProcessor struct {
	md     goldmark.Markdown
	policy *bluemonday.Policy
}

func New() *TextProcessor {
	md := goldmark.New(
		goldmark.WithExtensions(extension.GFM),
		goldmark.WithParserOptions(parser.WithAutoHeadingID()),
		// raw HTML is let through here and removed by the sanitizer below
		goldmark.WithRendererOptions(html.WithUnsafe(), html.WithHardWraps()),
	)

	policy := bluemonday.UGCPolicy()
	policy.AllowAttrs("class").Matching(bluemonday.SpaceSeparatedTokens).OnElements("code", "pre")
	policy.RequireNoFollowOnLinks(true)
	policy.AddTargetBlankToFullyQualifiedLinks(true)

	return &TextProcessor{md: md, policy: policy}
}

// Render converts Markdown to HTML that is safe to embed in a page.
// If the Markdown cannot be rendered the escaped source is returned.
func (tp *TextProcessor) Render(source string) template.HTML {
	var buf bytes.Buffer
	if err := tp.md.Convert([]byte(source), &buf); err != nil {
		return template.HTML(template.HTMLEscapeString(source))
	}
	return template.HTML(tp.policy.SanitizeBytes(buf.Bytes()))
}

// Excerpt renders at most limit runes of the plain source, for listings.
func (tp *TextProcessor) Excerpt(source string, limit int) template.HTML {
	runes := []rune(source)
	if len(runes) > limit {
		source = string(runes[:limit]) + "…"
	}
	return tp.Render(source)
}
