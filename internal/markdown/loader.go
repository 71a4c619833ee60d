package markdown

import (
	"fmt"
	"io/fs"
	"os"

	"github.com/kmmuntasir/studyplan/internal/model"
)

// LoadFile reads and parses a curriculum document from disk.
func LoadFile(path string) (*model.Curriculum, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return NewParser().Parse(path, data)
}

// SaveFile writes the curriculum's Source bytes back to its path,
// keeping the file's existing permissions.
func SaveFile(c *model.Curriculum) error {
	perm := fs.FileMode(0o644)
	if info, err := os.Stat(c.Path); err == nil {
		perm = info.Mode().Perm()
	}
	if err := os.WriteFile(c.Path, c.Source, perm); err != nil {
		return fmt.Errorf("write %s: %w", c.Path, err)
	}
	return nil
}
