package markdown

import (
	"bytes"
	"fmt"
	"regexp"

	"github.com/kmmuntasir/studyplan/internal/model"
)

// Matches a GFM checkbox list line: optional indent, a bullet or ordered
// marker, then "[ ]", "[x]" or "[X]".
var checkboxPattern = regexp.MustCompile(`^(\s*(?:[-*+]|\d+[.)])\s+\[)([ xX])(\].*)$`)

// ToggleLine flips the checkbox on the given 0-based line of source and
// returns the rewritten document plus the new done state. Every other
// byte of the document is preserved, so hand edits survive round trips.
// Write-back always emits lowercase "x".
func ToggleLine(source []byte, line int) ([]byte, bool, error) {
	lines := bytes.SplitAfter(source, []byte("\n"))
	if line < 0 || line >= len(lines) {
		return nil, false, fmt.Errorf("line %d out of range", line+1)
	}

	raw := lines[line]
	body := bytes.TrimRight(raw, "\r\n")
	eol := raw[len(body):]

	m := checkboxPattern.FindSubmatch(body)
	if m == nil {
		return nil, false, fmt.Errorf("no checkbox on line %d", line+1)
	}

	done := !bytes.Equal(m[2], []byte(" "))
	mark := []byte("x")
	if done {
		mark = []byte(" ")
	}

	rewritten := make([]byte, 0, len(raw))
	rewritten = append(rewritten, m[1]...)
	rewritten = append(rewritten, mark...)
	rewritten = append(rewritten, m[3]...)
	rewritten = append(rewritten, eol...)
	lines[line] = rewritten

	return bytes.Join(lines, nil), !done, nil
}

// Toggle flips one item of the curriculum, updating both the in-memory
// model and the Source bytes. Indexes are 0-based positions into
// Modules and Items as parsed.
func Toggle(c *model.Curriculum, moduleIdx, itemIdx int) (model.Item, error) {
	if moduleIdx < 0 || moduleIdx >= len(c.Modules) {
		return model.Item{}, fmt.Errorf("module %d out of range", moduleIdx+1)
	}
	m := &c.Modules[moduleIdx]
	if itemIdx < 0 || itemIdx >= len(m.Items) {
		return model.Item{}, fmt.Errorf("item %d out of range in %q", itemIdx+1, m.Title)
	}
	it := &m.Items[itemIdx]

	source, done, err := ToggleLine(c.Source, it.Line)
	if err != nil {
		return model.Item{}, err
	}
	c.Source = source
	it.Done = done
	return *it, nil
}
