package markdown

import (
	"fmt"
	"strings"

	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// Section is a flat outline entry: one heading plus the list-item texts
// beneath it, checkboxed or not. The drafts comparison is built on this
// shape, since draft plans mix plain bullets with checklists.
type Section struct {
	Title   string
	Level   int
	Entries []string
}

// Outline extracts headings (level 2 and deeper) and their list entries
// from a markdown document. Frontmatter is skipped.
func (p *Parser) Outline(source []byte) ([]Section, error) {
	_, body, err := ParseMeta(source)
	if err != nil {
		return nil, err
	}

	var sections []Section
	doc := p.md.Parser().Parse(text.NewReader(body))
	walkErr := ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch node := n.(type) {
		case *ast.Heading:
			if node.Level < 2 {
				break
			}
			sections = append(sections, Section{
				Title: strings.TrimSpace(string(node.Text(body))),
				Level: node.Level,
			})

		case *ast.ListItem:
			entry := listItemText(node, body)
			if entry == "" || len(sections) == 0 {
				break
			}
			s := &sections[len(sections)-1]
			s.Entries = append(s.Entries, entry)
		}
		return ast.WalkContinue, nil
	})
	if walkErr != nil {
		return nil, fmt.Errorf("walk outline: %w", walkErr)
	}
	return sections, nil
}

// listItemText returns the text of the item's own line, excluding any
// nested list (nested items show up as their own entries).
func listItemText(item *ast.ListItem, source []byte) string {
	for child := item.FirstChild(); child != nil; child = child.NextSibling() {
		switch child.(type) {
		case *ast.TextBlock, *ast.Paragraph:
			return strings.TrimSpace(string(child.Text(source)))
		}
	}
	return ""
}
