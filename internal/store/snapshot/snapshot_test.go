package snapshot

import (
	"path/filepath"
	"testing"

	"github.com/kmmuntasir/studyplan/internal/model"
)

func testCurriculum() *model.Curriculum {
	return &model.Curriculum{
		Path:  "curriculum.md",
		Title: "Crash Course",
		Modules: []model.Module{
			{Title: "Basics", Index: 1, Items: []model.Item{
				{Title: "one", Done: true, Line: 3},
				{Title: "two", Line: 4},
			}},
			{Title: "Advanced", Index: 2, Items: []model.Item{
				{Title: "three", Line: 8},
			}},
		},
	}
}

func TestTake(t *testing.T) {
	s := Take(testCurriculum())

	if s.Title != "Crash Course" || s.Document != "curriculum.md" {
		t.Fatalf("header mismatch: %+v", s)
	}
	if s.Progress.Done != 1 || s.Progress.Total != 3 || s.Percent != 33 {
		t.Fatalf("progress mismatch: %+v", s)
	}
	if len(s.Modules) != 2 || s.Modules[0].Percent != 50 {
		t.Fatalf("module snapshot mismatch: %+v", s.Modules)
	}
	if s.TakenAt.IsZero() {
		t.Fatalf("TakenAt not set")
	}
}

func TestSaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "progress.json")

	if err := Save(path, Take(testCurriculum())); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.Percent != 33 || len(got.Modules) != 2 {
		t.Fatalf("round trip mismatch: %+v", got)
	}
	if got.Modules[0].Items[0].Title != "one" || !got.Modules[0].Items[0].Done {
		t.Fatalf("items lost: %+v", got.Modules[0].Items)
	}

	if _, err := Load(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}
