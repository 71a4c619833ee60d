package cli

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/kmmuntasir/studyplan/internal/config"
	"github.com/kmmuntasir/studyplan/internal/markdown"
)

const testDoc = `# Test Plan

## Module 1: Basics

- [ ] first topic
- [x] second topic

## Module 2: More

- [ ] third topic
`

func testOptions(t *testing.T) Options {
	t.Helper()
	t.Setenv("HOME", t.TempDir()) // keep the journal out of the real ~/.plan

	path := filepath.Join(t.TempDir(), "curriculum.md")
	if err := os.WriteFile(path, []byte(testDoc), 0o644); err != nil {
		t.Fatalf("write curriculum: %v", err)
	}

	cfg := config.Default()
	cfg.Theme = "mono"
	return Options{File: path, Config: cfg}
}

func TestRun_UsageErrors(t *testing.T) {
	opt := testOptions(t)

	for name, args := range map[string][]string{
		"no args":            {},
		"unknown":            {"frobnicate"},
		"done missing arg":   {"done", "1"},
		"done non-number":    {"done", "1", "x"},
		"show missing arg":   {"show"},
		"history non-number": {"history", "soon"},
	} {
		if code := Run(context.Background(), args, opt); code != 2 {
			t.Fatalf("%s: expected exit 2, got %d", name, code)
		}
	}

	if code := Run(context.Background(), []string{"help"}, opt); code != 0 {
		t.Fatalf("help should exit 0")
	}
}

func TestRun_ListShowStats(t *testing.T) {
	opt := testOptions(t)

	for _, args := range [][]string{
		{"ls"},
		{"show", "1"},
		{"show", "basics"},
		{"stats"},
		{"history"},
	} {
		if code := Run(context.Background(), args, opt); code != 0 {
			t.Fatalf("%v: expected exit 0, got %d", args, code)
		}
	}

	opt.Group = true
	if code := Run(context.Background(), []string{"ls"}, opt); code != 0 {
		t.Fatalf("grouped ls failed")
	}
}

func TestRun_ToggleWritesFile(t *testing.T) {
	opt := testOptions(t)

	if code := Run(context.Background(), []string{"done", "2", "1"}, opt); code != 0 {
		t.Fatalf("done: expected exit 0")
	}

	cur, err := markdown.LoadFile(opt.File)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if !cur.Modules[1].Items[0].Done {
		t.Fatalf("toggle not persisted: %+v", cur.Modules[1].Items)
	}

	// History picks up the recorded toggle.
	if code := Run(context.Background(), []string{"history", "5"}, opt); code != 0 {
		t.Fatalf("history after toggle failed")
	}

	// Out-of-range index is a usage error with a hint, not a crash.
	if code := Run(context.Background(), []string{"done", "2", "9"}, opt); code != 2 {
		t.Fatalf("expected exit 2 for out-of-range index")
	}
}

func TestRun_RenderAndExport(t *testing.T) {
	opt := testOptions(t)
	dir := t.TempDir()

	html := filepath.Join(dir, "plan.html")
	if code := Run(context.Background(), []string{"render", html}, opt); code != 0 {
		t.Fatalf("render failed")
	}
	b, err := os.ReadFile(html)
	if err != nil || !strings.Contains(string(b), "Module 1: Basics") {
		t.Fatalf("rendered output wrong: %v %q", err, b)
	}

	out := filepath.Join(dir, "progress.json")
	if code := Run(context.Background(), []string{"export", out}, opt); code != 0 {
		t.Fatalf("export failed")
	}
	b, err = os.ReadFile(out)
	if err != nil || !strings.Contains(string(b), `"percent"`) {
		t.Fatalf("export output wrong: %v %q", err, b)
	}
}

func TestRun_Drafts(t *testing.T) {
	opt := testOptions(t)

	dir := t.TempDir()
	for name, body := range map[string]string{
		"a.md": "# A\n\n## Day 1\n\n- topic one\n- topic two\n",
		"b.md": "# B\n\n## Day 1\n\n- topic one\n",
	} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644); err != nil {
			t.Fatalf("write draft: %v", err)
		}
	}

	if code := Run(context.Background(), []string{"drafts", dir}, opt); code != 0 {
		t.Fatalf("drafts: expected exit 0")
	}
	if code := Run(context.Background(), []string{"drafts", filepath.Join(dir, "missing")}, opt); code != 1 {
		t.Fatalf("drafts: expected exit 1 for missing dir")
	}
}

func TestRun_MissingCurriculum(t *testing.T) {
	opt := testOptions(t)
	opt.File = filepath.Join(t.TempDir(), "nope.md")

	if code := Run(context.Background(), []string{"ls"}, opt); code != 1 {
		t.Fatalf("expected exit 1 for missing file")
	}
}

func TestResolveModule(t *testing.T) {
	cur, err := markdown.NewParser().Parse("t.md", []byte(testDoc))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	if idx, err := resolveModule(cur, "2"); err != nil || idx != 1 {
		t.Fatalf("numeric selector: %d %v", idx, err)
	}
	if idx, err := resolveModule(cur, "basics"); err != nil || idx != 0 {
		t.Fatalf("substring selector: %d %v", idx, err)
	}
	if _, err := resolveModule(cur, "9"); err == nil {
		t.Fatalf("expected out-of-range error")
	}
	if _, err := resolveModule(cur, "nothing"); err == nil {
		t.Fatalf("expected no-match error")
	}
	if _, err := resolveModule(cur, "module"); err == nil {
		t.Fatalf("expected ambiguity error")
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("abcdef", 5); got != "ab..." {
		t.Fatalf("got %q", got)
	}
	if got := truncate("short", 10); got != "short" {
		t.Fatalf("got %q", got)
	}

	// Cutting must land on rune boundaries, not bytes.
	got := truncate("Gradlе и Kotlin Grundlagen für Fortgeschrittene", 20)
	if !utf8.ValidString(got) {
		t.Fatalf("invalid UTF-8 after truncation: %q", got)
	}
	if want := string([]rune("Gradlе и Kotlin Grundlagen")[:17]) + "..."; got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}
