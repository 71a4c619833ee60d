package markdown

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	east "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"

	"github.com/kmmuntasir/studyplan/internal/model"
)

// Parser builds curriculum models from GFM sources. It is stateless, so a
// single instance can be shared without locking.
type Parser struct {
	md goldmark.Markdown
}

// NewParser constructs a parser with the GFM and task-list extensions
// enabled; everything the checklist format needs.
func NewParser() *Parser {
	return &Parser{
		md: goldmark.New(
			goldmark.WithExtensions(extension.GFM, extension.TaskList),
			goldmark.WithParserOptions(parser.WithAutoHeadingID()),
		),
	}
}

// Parse reads a curriculum document: frontmatter first, then an AST walk
// that maps level-2 headings to modules, task checkboxes to items, and
// plain links to module resources. Item line indexes refer to the full
// source file so toggles can be written back in place.
func (p *Parser) Parse(path string, source []byte) (*model.Curriculum, error) {
	meta, body, err := ParseMeta(source)
	if err != nil {
		return nil, err
	}
	offset := bodyLineOffset(source, body)

	cur := &model.Curriculum{
		Path:   path,
		Title:  meta.Title,
		Meta:   meta,
		Source: source,
	}

	var (
		module     *model.Module
		h2Project  bool
		secProject bool
		// blocks already claimed by a checklist item; their links belong
		// to the item, not to the module resource list
		claimed = map[ast.Node]struct{}{}
	)

	flush := func() {
		if module != nil {
			cur.Modules = append(cur.Modules, *module)
			module = nil
		}
	}
	ensure := func() *model.Module {
		if module == nil {
			module = &model.Module{Title: "(untitled)", Index: len(cur.Modules) + 1}
		}
		return module
	}

	doc := p.md.Parser().Parse(text.NewReader(body))
	walkErr := ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch node := n.(type) {
		case *ast.Heading:
			title := strings.TrimSpace(string(node.Text(body)))
			switch {
			case node.Level == 1:
				if cur.Title == "" {
					cur.Title = title
				}
			case node.Level == 2:
				flush()
				module = &model.Module{Title: title, Index: len(cur.Modules) + 1}
				h2Project = mentionsProject(title)
				secProject = false
			default:
				secProject = mentionsProject(title)
			}

		case *east.TaskCheckBox:
			block := node.Parent()
			claimed[block] = struct{}{}
			m := ensure()
			m.Items = append(m.Items, model.Item{
				Title:   strings.TrimSpace(string(block.Text(body))),
				Done:    node.IsChecked,
				Line:    blockLine(block, body) + offset,
				Project: h2Project || secProject,
				Links:   blockLinks(block, body),
			})

		case *ast.Link:
			if underClaimed(node, claimed) {
				break
			}
			attachLink(cur, module, model.Link{
				Text: strings.TrimSpace(string(node.Text(body))),
				URL:  string(node.Destination),
			})

		case *ast.AutoLink:
			if underClaimed(node, claimed) {
				break
			}
			url := string(node.URL(body))
			attachLink(cur, module, model.Link{Text: url, URL: url})
		}
		return ast.WalkContinue, nil
	})
	if walkErr != nil {
		return nil, fmt.Errorf("walk document: %w", walkErr)
	}
	flush()

	return cur, nil
}

// attachLink files a stray link with the module being built, or with the
// curriculum itself when it appears before the first module heading.
// Links never open an implicit module; only checklist items do that.
func attachLink(cur *model.Curriculum, module *model.Module, l model.Link) {
	if module == nil {
		cur.Links = append(cur.Links, l)
		return
	}
	module.Links = append(module.Links, l)
}

func mentionsProject(title string) bool {
	return strings.Contains(strings.ToLower(title), "project")
}

// blockLine maps a block node to its 0-based line index in source.
func blockLine(n ast.Node, source []byte) int {
	var lines *text.Segments
	switch b := n.(type) {
	case *ast.TextBlock:
		lines = b.Lines()
	case *ast.Paragraph:
		lines = b.Lines()
	}
	if lines == nil || lines.Len() == 0 {
		return 0
	}
	return bytes.Count(source[:lines.At(0).Start], []byte("\n"))
}

func blockLinks(block ast.Node, source []byte) []model.Link {
	var links []model.Link
	_ = ast.Walk(block, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch l := n.(type) {
		case *ast.Link:
			links = append(links, model.Link{
				Text: strings.TrimSpace(string(l.Text(source))),
				URL:  string(l.Destination),
			})
		case *ast.AutoLink:
			url := string(l.URL(source))
			links = append(links, model.Link{Text: url, URL: url})
		}
		return ast.WalkContinue, nil
	})
	return links
}

func underClaimed(n ast.Node, claimed map[ast.Node]struct{}) bool {
	for p := n.Parent(); p != nil; p = p.Parent() {
		if _, ok := claimed[p]; ok {
			return true
		}
	}
	return false
}
