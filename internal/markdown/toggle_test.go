package markdown

import (
	"bytes"
	"strings"
	"testing"
)

func TestToggleLine_RoundTrip(t *testing.T) {
	data := readFixture(t, "testdata/curriculum.md")

	cur, err := NewParser().Parse("testdata/curriculum.md", data)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	target := cur.Modules[0].Items[2] // "Promises and async/await", unchecked

	out, done, err := ToggleLine(data, target.Line)
	if err != nil {
		t.Fatalf("ToggleLine: %v", err)
	}
	if !done {
		t.Fatalf("expected toggle to mark item done")
	}

	// Exactly one line changed; everything else byte-identical.
	before := strings.Split(string(data), "\n")
	after := strings.Split(string(out), "\n")
	if len(before) != len(after) {
		t.Fatalf("line count changed: %d -> %d", len(before), len(after))
	}
	changed := 0
	for i := range before {
		if before[i] != after[i] {
			changed++
			if i != target.Line {
				t.Fatalf("unexpected change on line %d: %q -> %q", i, before[i], after[i])
			}
			if !strings.Contains(after[i], "- [x] Promises") {
				t.Fatalf("checkbox not checked: %q", after[i])
			}
		}
	}
	if changed != 1 {
		t.Fatalf("expected exactly one changed line, got %d", changed)
	}

	// And back again.
	back, done, err := ToggleLine(out, target.Line)
	if err != nil {
		t.Fatalf("ToggleLine back: %v", err)
	}
	if done {
		t.Fatalf("expected second toggle to uncheck")
	}
	if !bytes.Equal(back, data) {
		t.Fatalf("round trip did not restore the original document")
	}
}

func TestToggleLine_UppercaseNormalized(t *testing.T) {
	src := []byte("- [X] shouting\n")

	out, done, err := ToggleLine(src, 0)
	if err != nil {
		t.Fatalf("ToggleLine: %v", err)
	}
	if done {
		t.Fatalf("[X] counts as done, toggling should uncheck")
	}
	if string(out) != "- [ ] shouting\n" {
		t.Fatalf("unexpected output: %q", out)
	}
}

func TestToggleLine_Errors(t *testing.T) {
	src := []byte("# Heading\n- [ ] ok\n")

	if _, _, err := ToggleLine(src, 0); err == nil {
		t.Fatalf("expected error for non-checkbox line")
	}
	if _, _, err := ToggleLine(src, 99); err == nil {
		t.Fatalf("expected error for out-of-range line")
	}
}

func TestToggle_UpdatesModelAndSource(t *testing.T) {
	data := readFixture(t, "testdata/curriculum.md")

	cur, err := NewParser().Parse("testdata/curriculum.md", data)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	it, err := Toggle(cur, 2, 0) // "Routing and middleware"
	if err != nil {
		t.Fatalf("Toggle: %v", err)
	}
	if !it.Done || !cur.Modules[2].Items[0].Done {
		t.Fatalf("model not updated: %+v", it)
	}

	// The rewritten source parses back with the same state.
	again, err := NewParser().Parse(cur.Path, cur.Source)
	if err != nil {
		t.Fatalf("reparse: %v", err)
	}
	if !again.Modules[2].Items[0].Done {
		t.Fatalf("write-back not visible on reparse")
	}

	if _, err := Toggle(cur, 9, 0); err == nil {
		t.Fatalf("expected module out of range error")
	}
	if _, err := Toggle(cur, 0, 99); err == nil {
		t.Fatalf("expected item out of range error")
	}
}
