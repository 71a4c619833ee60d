package markdown

import (
	"bytes"
	"fmt"

	"github.com/adrg/frontmatter"

	"github.com/kmmuntasir/studyplan/internal/model"
)

// ParseMeta extracts YAML frontmatter and the markdown body from the
// provided source bytes. Documents without frontmatter are returned
// unchanged with zero-value metadata.
func ParseMeta(source []byte) (model.Meta, []byte, error) {
	var meta model.Meta

	body, err := frontmatter.Parse(bytes.NewReader(source), &meta)
	if err != nil {
		return model.Meta{}, nil, fmt.Errorf("parse frontmatter: %w", err)
	}
	return meta, body, nil
}

// bodyLineOffset reports how many lines the frontmatter block occupies,
// so item line indexes can be mapped back onto the full file.
func bodyLineOffset(source, body []byte) int {
	n := len(source) - len(body)
	if n <= 0 || n > len(source) || !bytes.Equal(source[n:], body) {
		return 0
	}
	return bytes.Count(source[:n], []byte("\n"))
}
