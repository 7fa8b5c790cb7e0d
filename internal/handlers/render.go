package handlers

import (
	"bytes"
	"fmt"
	"html/template"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
)

// markdownRenderer turns model replies into a standalone HTML page.
type markdownRenderer struct {
	parser   goldmark.Markdown
	template *template.Template
}

// replyPageData holds template data for rendered replies.
type replyPageData struct {
	Title   string
	Content template.HTML
}

func newMarkdownRenderer() *markdownRenderer {
	tmpl := template.Must(template.New("reply").Parse(`<!DOCTYPE html>
<html>
<head>
  <meta charset="utf-8">
  <meta name="viewport" content="width=device-width, initial-scale=1">
  <title>{{.Title}}</title>
  <style>
    body {
      font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', sans-serif;
      margin: 0 auto;
      padding: 2rem;
      max-width: 820px;
      line-height: 1.6;
    }
    pre {
      background: #f4f4f5;
      padding: 1rem;
      border-radius: 8px;
      overflow-x: auto;
    }
    table {
      border-collapse: collapse;
    }
    th, td {
      border: 1px solid #d4d4d8;
      padding: 0.4rem 0.8rem;
    }
  </style>
</head>
<body>
  <article>{{.Content}}</article>
</body>
</html>`))

	return &markdownRenderer{
		// Raw HTML in model output is not rendered.
		parser: goldmark.New(
			goldmark.WithExtensions(
				extension.GFM,
				extension.Typographer,
			),
			goldmark.WithParserOptions(
				parser.WithAutoHeadingID(),
			),
		),
		template: tmpl,
	}
}

func (m *markdownRenderer) page(title, markdown string) ([]byte, error) {
	var body bytes.Buffer
	if err := m.parser.Convert([]byte(markdown), &body); err != nil {
		return nil, fmt.Errorf("convert markdown: %w", err)
	}

	var out bytes.Buffer
	if err := m.template.Execute(&out, replyPageData{
		Title:   title,
		Content: template.HTML(body.String()),
	}); err != nil {
		return nil, fmt.Errorf("execute template: %w", err)
	}
	return out.Bytes(), nil
}
