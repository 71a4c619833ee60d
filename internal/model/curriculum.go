package model

import "time"

// Item is one checklist line of the curriculum.
// Line is the 0-based line index in the source file, so toggles can be
// written back without disturbing the rest of the document.
type Item struct {
	Title   string `json:"title"`
	Done    bool   `json:"done"`
	Line    int    `json:"line"`
	Project bool   `json:"project,omitempty"`
	Links   []Link `json:"links,omitempty"`
}

// Link is a markdown link found in the document (a reading-list entry or
// a link embedded in a checklist item).
type Link struct {
	Text string `json:"text"`
	URL  string `json:"url"`
}

// Module is a thematic grouping of checklist items, one per level-2
// heading in the curriculum document.
type Module struct {
	Title string `json:"title"`
	Index int    `json:"index"` // 1-based, in document order
	Items []Item `json:"items"`
	Links []Link `json:"links,omitempty"` // resource bullets without checkboxes
}

// Meta is the curriculum frontmatter. All fields are optional.
type Meta struct {
	Title       string    `yaml:"title"`
	Description string    `yaml:"description"`
	Author      string    `yaml:"author"`
	Days        int       `yaml:"days"`
	Level       string    `yaml:"level"`
	Tags        []string  `yaml:"tags"`
	Date        time.Time `yaml:"date"`
}

// Curriculum is a fully parsed checklist document.
type Curriculum struct {
	Path    string   `json:"path"`
	Title   string   `json:"title"`
	Meta    Meta     `json:"meta"`
	Modules []Module `json:"modules"`
	Links   []Link   `json:"links,omitempty"` // links in prose before the first module heading

	// Source holds the raw bytes the document was parsed from. Toggle
	// operations rewrite Source and save it back to Path.
	Source []byte `json:"-"`
}

// Progress is a done/total pair.
type Progress struct {
	Done  int `json:"done"`
	Total int `json:"total"`
}

// Percent returns floor(100*done/total), 0 for an empty set.
func (p Progress) Percent() int {
	if p.Total <= 0 {
		return 0
	}
	return p.Done * 100 / p.Total
}

// Progress counts done and total items of a single module.
func (m Module) Progress() Progress {
	var p Progress
	for _, it := range m.Items {
		p.Total++
		if it.Done {
			p.Done++
		}
	}
	return p
}

// Progress counts done and total items across all modules.
func (c *Curriculum) Progress() Progress {
	var p Progress
	for _, m := range c.Modules {
		mp := m.Progress()
		p.Done += mp.Done
		p.Total += mp.Total
	}
	return p
}

// Items returns all checklist items in document order.
func (c *Curriculum) Items() []Item {
	var out []Item
	for _, m := range c.Modules {
		out = append(out, m.Items...)
	}
	return out
}
