package blog

import (
	"bytes"
	"html/template"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	htmlrenderer "github.com/yuin/goldmark/renderer/html"
)

var markdownEngine = goldmark.New(
	goldmark.WithExtensions(
		extension.GFM,
		extension.Strikethrough,
		extension.Linkify,
	),
	goldmark.WithRendererOptions(
		htmlrenderer.WithHardWraps(),
	),
)

// renderHTML converts a post's markdown body to HTML. On a conversion
// failure the raw content is escaped instead of dropped.
func renderHTML(content string) string {
	var out bytes.Buffer
	if err := markdownEngine.Convert([]byte(content), &out); err != nil {
		return template.HTMLEscapeString(content)
	}
	return out.String()
}
