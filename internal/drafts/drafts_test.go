package drafts

import (
	"testing"
)

func TestLoadFile(t *testing.T) {
	d, err := LoadFile("testdata/draft-a.md")
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}

	if d.Name != "draft-a" {
		t.Fatalf("name mismatch: %q", d.Name)
	}
	if len(d.Days) != 2 {
		t.Fatalf("expected 2 days, got %d: %+v", len(d.Days), d.Days)
	}
	if d.Days[0].Number != 1 || d.Days[0].Title != "JavaScript Essentials" {
		t.Fatalf("day 1 mismatch: %+v", d.Days[0])
	}
	if len(d.Days[0].Topics) != 3 {
		t.Fatalf("day 1 topics mismatch: %+v", d.Days[0].Topics)
	}
	// "Evening" sub-section entries roll up into day 2.
	if len(d.Days[1].Topics) != 3 || d.Days[1].Topics[2] != "Streams" {
		t.Fatalf("day 2 topics mismatch: %+v", d.Days[1].Topics)
	}
}

func TestLoadDir(t *testing.T) {
	drafts, err := LoadDir("testdata")
	if err != nil {
		t.Fatalf("LoadDir: %v", err)
	}
	if len(drafts) != 2 || drafts[0].Name != "draft-a" || drafts[1].Name != "draft-b" {
		t.Fatalf("drafts mismatch: %+v", drafts)
	}

	if _, err := LoadDir("testdata/nope"); err == nil {
		t.Fatalf("expected error for missing directory")
	}
}

func TestCompare(t *testing.T) {
	drafts, err := LoadDir("testdata")
	if err != nil {
		t.Fatalf("LoadDir: %v", err)
	}

	cmp := Compare(drafts)
	if len(cmp.Coverage) != 7 {
		t.Fatalf("expected 7 distinct topics, got %d: %+v", len(cmp.Coverage), cmp.Coverage)
	}

	common := cmp.Common()
	if len(common) != 4 {
		t.Fatalf("expected 4 common topics, got %d: %+v", len(common), common)
	}

	contested := cmp.Contested()
	if len(contested) != 3 {
		t.Fatalf("expected 3 contested topics, got %d: %+v", len(contested), contested)
	}
	for _, tc := range contested {
		if len(tc.Drafts) != 1 {
			t.Fatalf("contested topic %q should belong to one draft: %+v", tc.Topic, tc)
		}
	}
}

func TestNormalize(t *testing.T) {
	if Normalize("Async/Await!") != Normalize("  async   await ") {
		t.Fatalf("normalization should collapse cosmetic differences")
	}
	if Normalize("`this` keyword") != "this keyword" {
		t.Fatalf("got %q", Normalize("`this` keyword"))
	}
}
