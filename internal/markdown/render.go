package markdown

import (
	"bytes"
	"fmt"
	"html"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	ghtml "github.com/yuin/goldmark/renderer/html"
)

// Renderer converts curriculum markdown to HTML using goldmark. Like the
// Parser it is stateless and safe to share.
type Renderer struct {
	md goldmark.Markdown
}

func NewRenderer() *Renderer {
	return &Renderer{
		md: goldmark.New(
			goldmark.WithExtensions(extension.GFM, extension.TaskList),
			goldmark.WithParserOptions(parser.WithAutoHeadingID()),
			goldmark.WithRendererOptions(ghtml.WithUnsafe()),
		),
	}
}

// Render converts the markdown body (frontmatter stripped) to an HTML
// fragment.
func (r *Renderer) Render(source []byte) ([]byte, error) {
	_, body, err := ParseMeta(source)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := r.md.Convert(body, &buf); err != nil {
		return nil, fmt.Errorf("markdown render: %w", err)
	}
	return buf.Bytes(), nil
}

// RenderPage wraps the rendered fragment in a minimal standalone page.
func (r *Renderer) RenderPage(title string, source []byte) ([]byte, error) {
	fragment, err := r.Render(source)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	fmt.Fprintf(&buf, pageHeader, html.EscapeString(title))
	buf.Write(fragment)
	buf.WriteString(pageFooter)
	return buf.Bytes(), nil
}

const pageHeader = `<!doctype html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>%[1]s</title>
<style>
body { max-width: 46rem; margin: 2rem auto; padding: 0 1rem; font-family: sans-serif; line-height: 1.5; }
li:has(> input[type="checkbox"]) { list-style: none; margin-left: -1.2rem; }
h1, h2 { border-bottom: 1px solid #ddd; padding-bottom: .3rem; }
</style>
</head>
<body>
`

const pageFooter = `</body>
</html>
`
