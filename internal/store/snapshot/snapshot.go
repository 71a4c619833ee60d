// Package snapshot writes a machine-readable JSON view of a parsed
// curriculum. Single file, human-readable, portable; handy for feeding
// progress into scripts without reparsing markdown.
package snapshot

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/kmmuntasir/studyplan/internal/model"
)

// Snapshot is the export envelope: the parsed document plus the progress
// numbers most consumers want precomputed.
type Snapshot struct {
	TakenAt  time.Time        `json:"taken_at"`
	Document string           `json:"document"`
	Title    string           `json:"title"`
	Progress model.Progress   `json:"progress"`
	Percent  int              `json:"percent"`
	Modules  []ModuleSnapshot `json:"modules"`
}

type ModuleSnapshot struct {
	Title    string         `json:"title"`
	Index    int            `json:"index"`
	Progress model.Progress `json:"progress"`
	Percent  int            `json:"percent"`
	Items    []model.Item   `json:"items"`
	Links    []model.Link   `json:"links,omitempty"`
}

// Take builds a snapshot of the curriculum at this moment.
func Take(c *model.Curriculum) Snapshot {
	p := c.Progress()
	s := Snapshot{
		TakenAt:  time.Now().UTC(),
		Document: c.Path,
		Title:    c.Title,
		Progress: p,
		Percent:  p.Percent(),
	}
	for _, m := range c.Modules {
		mp := m.Progress()
		s.Modules = append(s.Modules, ModuleSnapshot{
			Title:    m.Title,
			Index:    m.Index,
			Progress: mp,
			Percent:  mp.Percent(),
			Items:    m.Items,
			Links:    m.Links,
		})
	}
	return s
}

// Save writes the snapshot as indented JSON.
func Save(path string, s Snapshot) error {
	b, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("json marshal: %w", err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("write file: %w", err)
	}
	return nil
}

// Load reads a snapshot back; consumers of exported files use this.
func Load(path string) (Snapshot, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return Snapshot{}, fmt.Errorf("read file: %w", err)
	}
	var s Snapshot
	if err := json.Unmarshal(b, &s); err != nil {
		return Snapshot{}, fmt.Errorf("json unmarshal: %w", err)
	}
	return s, nil
}
