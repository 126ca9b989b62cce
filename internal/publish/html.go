package publish

import (
	"bytes"
	"html/template"
	"strings"

	"github.com/yuin/goldmark"
	emoji "github.com/yuin/goldmark-emoji"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"

	"fieldnotes/internal/store"
)

// Raw HTML in page content is not passed through.
var markdownRenderer = goldmark.New(
	goldmark.WithExtensions(
		extension.GFM,
		emoji.Emoji,
	),
	goldmark.WithRendererOptions(
		html.WithHardWraps(),
	),
)

var pageTemplate = template.Must(template.New("page").Parse(`<!doctype html>
<html>
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
</head>
<body>
{{.Body}}
</body>
</html>
`))

// MarkdownToHTML converts a markdown fragment.
func MarkdownToHTML(src string) (string, error) {
	var b bytes.Buffer
	if err := markdownRenderer.Convert([]byte(src), &b); err != nil {
		return "", err
	}
	return b.String(), nil
}

// RenderPageHTML renders the page's markdown export as a standalone HTML document.
func RenderPageHTML(db *store.DB, pageID string) (string, error) {
	md, err := RenderPageMarkdown(db, pageID)
	if err != nil {
		return "", err
	}
	page, _ := db.FindPage(strings.TrimSpace(pageID))
	return wrapHTML(page.Title, md)
}

func wrapHTML(title, md string) (string, error) {
	body, err := MarkdownToHTML(md)
	if err != nil {
		return "", err
	}
	var out bytes.Buffer
	err = pageTemplate.Execute(&out, struct {
		Title string
		Body  template.HTML
	}{
		Title: strings.TrimSpace(title),
		// goldmark output is trusted only because raw HTML is disabled above.
		Body: template.HTML(body),
	})
	return out.String(), err
}
